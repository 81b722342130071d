package uiautomator2

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/devicelab-dev/patrol-runner/pkg/contracts"
	"github.com/devicelab-dev/patrol-runner/pkg/core"
	"github.com/devicelab-dev/patrol-runner/pkg/selector"
	"github.com/devicelab-dev/patrol-runner/pkg/uiautomator2"
)

// ParsedElement represents an element from page source XML.
type ParsedElement struct {
	Text        string
	ResourceID  string
	ContentDesc string
	ClassName   string
	Package     string
	Bounds      Bounds
	Enabled     bool
	Focused     bool
	Children    []*ParsedElement
	Depth       int
}

// ParsePageSource parses Android UI hierarchy XML into a pre-order list.
// Supports both formats:
// - UIAutomator dump: uses class name as element tag (e.g., <android.widget.FrameLayout>)
// - Appium format: uses <node> elements with a class attribute
func ParsePageSource(xmlData string) ([]*ParsedElement, error) {
	decoder := xml.NewDecoder(strings.NewReader(xmlData))

	var elements []*ParsedElement
	foundHierarchy := false
	var parseElement func() (*ParsedElement, error)

	parseElement = func() (*ParsedElement, error) {
		for {
			token, err := decoder.Token()
			if err != nil {
				return nil, err
			}

			switch t := token.(type) {
			case xml.StartElement:
				if t.Name.Local == "hierarchy" {
					foundHierarchy = true
					continue
				}

				elem := &ParsedElement{ClassName: t.Name.Local}
				for _, attr := range t.Attr {
					switch attr.Name.Local {
					case "text":
						elem.Text = attr.Value
					case "resource-id":
						elem.ResourceID = attr.Value
					case "content-desc":
						elem.ContentDesc = attr.Value
					case "class":
						elem.ClassName = attr.Value
					case "package":
						elem.Package = attr.Value
					case "bounds":
						elem.Bounds = parseBounds(attr.Value)
					case "enabled":
						elem.Enabled = attr.Value == "true"
					case "focused":
						elem.Focused = attr.Value == "true"
					}
				}

				for {
					child, err := parseElement()
					if err != nil || child == nil {
						break
					}
					elem.Children = append(elem.Children, child)
				}
				return elem, nil

			case xml.EndElement:
				return nil, nil
			}
		}
	}

	var parseErr error
	for {
		elem, err := parseElement()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				parseErr = err
			}
			break
		}
		if elem != nil {
			elements = append(elements, flattenElement(elem, 0)...)
		}
	}

	if parseErr != nil && len(elements) == 0 {
		return nil, fmt.Errorf("parse page source: %w", parseErr)
	}
	if !foundHierarchy {
		return nil, fmt.Errorf("invalid page source: no hierarchy element found")
	}

	return elements, nil
}

// flattenElement flattens a tree of elements into a list, setting depth.
func flattenElement(elem *ParsedElement, depth int) []*ParsedElement {
	elem.Depth = depth
	result := []*ParsedElement{elem}
	for _, child := range elem.Children {
		result = append(result, flattenElement(child, depth+1)...)
	}
	return result
}

// parseBounds parses Android bounds string "[x1,y1][x2,y2]" to Bounds.
func parseBounds(s string) Bounds {
	s = strings.ReplaceAll(s, "][", ",")
	s = strings.Trim(s, "[]")
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Bounds{}
	}

	x1, _ := strconv.Atoi(parts[0])
	y1, _ := strconv.Atoi(parts[1])
	x2, _ := strconv.Atoi(parts[2])
	y2, _ := strconv.Atoi(parts[3])

	return Bounds{
		X:      x1,
		Y:      y1,
		Width:  x2 - x1,
		Height: y2 - y1,
	}
}

// MatchDirect returns the elements satisfying every constraint of q.
func MatchDirect(elements []*ParsedElement, q uiautomator2.BySelector) []*ParsedElement {
	return matchAll(elements, q.Constraints())
}

// MatchIndex returns the elements q selects. An instance constraint picks
// the n-th match, so the result then holds at most one element.
func MatchIndex(elements []*ParsedElement, q uiautomator2.UiSelector) []*ParsedElement {
	var (
		cs          []uiautomator2.Constraint
		instance    int
		hasInstance bool
	)
	for _, c := range q.Constraints() {
		if c.Attribute == uiautomator2.AttrInstance {
			n, err := strconv.Atoi(c.Value)
			if err != nil {
				return nil
			}
			instance, hasInstance = n, true
			continue
		}
		cs = append(cs, c)
	}

	matched := matchAll(elements, cs)
	if !hasInstance {
		return matched
	}
	return pick(matched, instance)
}

// Resolve finds the element sel points to within a parsed hierarchy, the
// same way Driver.FindElement does on a live device.
func Resolve(elements []*ParsedElement, sel contracts.Selector) (*ParsedElement, error) {
	var matched []*ParsedElement

	query, err := selector.ToDirectQuery(sel)
	switch {
	case err == nil:
		matched = MatchDirect(elements, query)
		if sel.Instance != nil {
			matched = pick(matched, *sel.Instance)
		}
	case errors.Is(err, core.ErrSelectorEmpty), errors.Is(err, core.ErrInstanceUnsupported):
		matched = MatchIndex(elements, selector.ToIndexQuery(sel))
	default:
		return nil, err
	}

	if len(matched) == 0 {
		return nil, core.ErrElementNotFound.WithDetails(map[string]interface{}{
			"selector": sel.Describe(),
		})
	}
	return matched[0], nil
}

func pick(elements []*ParsedElement, n int) []*ParsedElement {
	if n < 0 || n >= len(elements) {
		return nil
	}
	return elements[n : n+1]
}

func matchAll(elements []*ParsedElement, cs []uiautomator2.Constraint) []*ParsedElement {
	var result []*ParsedElement
	for _, elem := range elements {
		if matchesConstraints(elem, cs) {
			result = append(result, elem)
		}
	}
	return result
}

func matchesConstraints(elem *ParsedElement, cs []uiautomator2.Constraint) bool {
	for _, c := range cs {
		if !matchesConstraint(elem, c) {
			return false
		}
	}
	return true
}

// matchesConstraint compares case-sensitively, as UiAutomator does.
func matchesConstraint(elem *ParsedElement, c uiautomator2.Constraint) bool {
	switch c.Attribute {
	case uiautomator2.AttrText:
		return elem.Text == c.Value
	case uiautomator2.AttrTextStartsWith:
		return strings.HasPrefix(elem.Text, c.Value)
	case uiautomator2.AttrTextContains:
		return strings.Contains(elem.Text, c.Value)
	case uiautomator2.AttrClassName:
		return elem.ClassName == c.Value
	case uiautomator2.AttrDescription:
		return elem.ContentDesc == c.Value
	case uiautomator2.AttrDescriptionStartsWith:
		return strings.HasPrefix(elem.ContentDesc, c.Value)
	case uiautomator2.AttrDescriptionContains:
		return strings.Contains(elem.ContentDesc, c.Value)
	case uiautomator2.AttrResourceID:
		return elem.ResourceID == c.Value
	case uiautomator2.AttrEnabled:
		return strconv.FormatBool(elem.Enabled) == c.Value
	case uiautomator2.AttrFocused:
		return strconv.FormatBool(elem.Focused) == c.Value
	case uiautomator2.AttrPackageName:
		return elem.Package == c.Value
	}
	return true
}
