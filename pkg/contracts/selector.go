// Package contracts holds the data structures the test driver receives over
// the wire: element selectors and the Dart test suite tree.
package contracts

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Selector describes which native UI element(s) to match.
// Every field is optional; nil means "do not constrain on this attribute".
type Selector struct {
	Text                         *string `json:"text,omitempty" yaml:"text,omitempty"`
	TextStartsWith               *string `json:"textStartsWith,omitempty" yaml:"textStartsWith,omitempty"`
	TextContains                 *string `json:"textContains,omitempty" yaml:"textContains,omitempty"`
	ClassName                    *string `json:"className,omitempty" yaml:"className,omitempty"`
	ContentDescription           *string `json:"contentDescription,omitempty" yaml:"contentDescription,omitempty"`
	ContentDescriptionStartsWith *string `json:"contentDescriptionStartsWith,omitempty" yaml:"contentDescriptionStartsWith,omitempty"`
	ContentDescriptionContains   *string `json:"contentDescriptionContains,omitempty" yaml:"contentDescriptionContains,omitempty"`
	ResourceID                   *string `json:"resourceId,omitempty" yaml:"resourceId,omitempty"`
	Instance                     *int    `json:"instance,omitempty" yaml:"instance,omitempty"`
	Enabled                      *bool   `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Focused                      *bool   `json:"focused,omitempty" yaml:"focused,omitempty"`
	Pkg                          *string `json:"pkg,omitempty" yaml:"pkg,omitempty"`
}

// selectorRaw avoids recursion into UnmarshalYAML when decoding mappings.
type selectorRaw Selector

// UnmarshalYAML allows Selector to be unmarshaled from string or struct.
// A bare scalar is shorthand for an exact text match.
func (s *Selector) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		text := node.Value
		*s = Selector{Text: &text}
		return nil
	}

	var raw selectorRaw
	if err := node.Decode(&raw); err != nil {
		return err
	}
	*s = Selector(raw)
	return nil
}

func (s *Selector) HasText() bool                         { return s.Text != nil }
func (s *Selector) HasTextStartsWith() bool               { return s.TextStartsWith != nil }
func (s *Selector) HasTextContains() bool                 { return s.TextContains != nil }
func (s *Selector) HasClassName() bool                    { return s.ClassName != nil }
func (s *Selector) HasContentDescription() bool           { return s.ContentDescription != nil }
func (s *Selector) HasContentDescriptionStartsWith() bool { return s.ContentDescriptionStartsWith != nil }
func (s *Selector) HasContentDescriptionContains() bool   { return s.ContentDescriptionContains != nil }
func (s *Selector) HasResourceID() bool                   { return s.ResourceID != nil }
func (s *Selector) HasInstance() bool                     { return s.Instance != nil }
func (s *Selector) HasEnabled() bool                      { return s.Enabled != nil }
func (s *Selector) HasFocused() bool                      { return s.Focused != nil }
func (s *Selector) HasPkg() bool                          { return s.Pkg != nil }

// IsEmpty returns true if no match field is set.
func (s *Selector) IsEmpty() bool {
	return !s.HasText() &&
		!s.HasTextStartsWith() &&
		!s.HasTextContains() &&
		!s.HasClassName() &&
		!s.HasContentDescription() &&
		!s.HasContentDescriptionStartsWith() &&
		!s.HasContentDescriptionContains() &&
		!s.HasResourceID() &&
		!s.HasInstance() &&
		!s.HasEnabled() &&
		!s.HasFocused() &&
		!s.HasPkg()
}

// Describe returns a human-readable description like text="OK" instance=1.
func (s *Selector) Describe() string {
	var parts []string
	quoted := func(name string, v *string) {
		if v != nil {
			parts = append(parts, name+"="+strconv.Quote(*v))
		}
	}

	quoted("text", s.Text)
	quoted("textStartsWith", s.TextStartsWith)
	quoted("textContains", s.TextContains)
	quoted("className", s.ClassName)
	quoted("contentDescription", s.ContentDescription)
	quoted("contentDescriptionStartsWith", s.ContentDescriptionStartsWith)
	quoted("contentDescriptionContains", s.ContentDescriptionContains)
	quoted("resourceId", s.ResourceID)
	if s.Instance != nil {
		parts = append(parts, fmt.Sprintf("instance=%d", *s.Instance))
	}
	if s.Enabled != nil {
		parts = append(parts, fmt.Sprintf("enabled=%t", *s.Enabled))
	}
	if s.Focused != nil {
		parts = append(parts, fmt.Sprintf("focused=%t", *s.Focused))
	}
	quoted("pkg", s.Pkg)

	if len(parts) == 0 {
		return "<empty>"
	}
	return strings.Join(parts, " ")
}

// ParseSelector decodes a selector from YAML or JSON.
func ParseSelector(data []byte) (Selector, error) {
	var sel Selector
	if err := yaml.Unmarshal(data, &sel); err != nil {
		return Selector{}, fmt.Errorf("parse selector: %w", err)
	}
	return sel, nil
}

// String returns a pointer to v, for building selectors in code.
func String(v string) *string { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }
