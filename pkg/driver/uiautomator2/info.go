package uiautomator2

import (
	"github.com/devicelab-dev/patrol-runner/pkg/uiautomator2"
)

// Bounds is an element rectangle in screen pixels.
type Bounds struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ElementInfo describes a located element.
type ElementInfo struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	Enabled bool   `json:"enabled"`
	Bounds  Bounds `json:"bounds"`
}

// Describe fetches text, enabled state and bounds of elem.
// Missing details are left zero rather than failing the lookup.
func Describe(elem *uiautomator2.Element) *ElementInfo {
	info := &ElementInfo{ID: elem.ID()}

	if text, err := elem.Text(); err == nil {
		info.Text = text
	}
	if enabled, err := elem.IsEnabled(); err == nil {
		info.Enabled = enabled
	}
	if rect, err := elem.Rect(); err == nil {
		info.Bounds = Bounds{
			X:      rect.X,
			Y:      rect.Y,
			Width:  rect.Width,
			Height: rect.Height,
		}
	}

	return info
}
