package uiautomator2

import (
	"strconv"
	"strings"
)

// Attribute is an element property a query can constrain.
type Attribute string

// Query attributes. Names follow the UiSelector builder methods.
const (
	AttrText                  Attribute = "text"
	AttrTextStartsWith        Attribute = "textStartsWith"
	AttrTextContains          Attribute = "textContains"
	AttrClassName             Attribute = "className"
	AttrDescription           Attribute = "description"
	AttrDescriptionStartsWith Attribute = "descriptionStartsWith"
	AttrDescriptionContains   Attribute = "descriptionContains"
	AttrResourceID            Attribute = "resourceId"
	AttrInstance              Attribute = "instance"
	AttrEnabled               Attribute = "enabled"
	AttrFocused               Attribute = "focused"
	AttrPackageName           Attribute = "packageName"
)

// Constraint is one AND-combined condition of a query.
type Constraint struct {
	Attribute Attribute
	Value     string
}

// appendConstraint copies before appending so derived queries never share
// a backing array with their parent.
func appendConstraint(cs []Constraint, attr Attribute, value string) []Constraint {
	out := make([]Constraint, len(cs), len(cs)+1)
	copy(out, cs)
	return append(out, Constraint{Attribute: attr, Value: value})
}

// ============================================================================
// UiSelector
// ============================================================================

// UiSelector is the index-capable query form, rendered as a UiAutomator
// expression for the "-android uiautomator" strategy.
// The zero value matches every element.
type UiSelector struct {
	constraints []Constraint
}

// NewUiSelector returns a selector without constraints.
func NewUiSelector() UiSelector {
	return UiSelector{}
}

func (s UiSelector) with(attr Attribute, value string) UiSelector {
	return UiSelector{constraints: appendConstraint(s.constraints, attr, value)}
}

func (s UiSelector) Text(v string) UiSelector           { return s.with(AttrText, v) }
func (s UiSelector) TextStartsWith(v string) UiSelector { return s.with(AttrTextStartsWith, v) }
func (s UiSelector) TextContains(v string) UiSelector   { return s.with(AttrTextContains, v) }
func (s UiSelector) ClassName(v string) UiSelector      { return s.with(AttrClassName, v) }
func (s UiSelector) Description(v string) UiSelector    { return s.with(AttrDescription, v) }
func (s UiSelector) DescriptionStartsWith(v string) UiSelector {
	return s.with(AttrDescriptionStartsWith, v)
}
func (s UiSelector) DescriptionContains(v string) UiSelector {
	return s.with(AttrDescriptionContains, v)
}
func (s UiSelector) ResourceID(v string) UiSelector  { return s.with(AttrResourceID, v) }
func (s UiSelector) Instance(v int) UiSelector       { return s.with(AttrInstance, strconv.Itoa(v)) }
func (s UiSelector) Enabled(v bool) UiSelector       { return s.with(AttrEnabled, strconv.FormatBool(v)) }
func (s UiSelector) Focused(v bool) UiSelector       { return s.with(AttrFocused, strconv.FormatBool(v)) }
func (s UiSelector) PackageName(v string) UiSelector { return s.with(AttrPackageName, v) }

// Constraints returns the constraints in the order they were added.
func (s UiSelector) Constraints() []Constraint {
	out := make([]Constraint, len(s.constraints))
	copy(out, s.constraints)
	return out
}

// String renders the selector, e.g. new UiSelector().text("OK").instance(1).
func (s UiSelector) String() string {
	var b strings.Builder
	b.WriteString("new UiSelector()")
	for _, c := range s.constraints {
		b.WriteByte('.')
		b.WriteString(string(c.Attribute))
		b.WriteByte('(')
		switch c.Attribute {
		case AttrInstance, AttrEnabled, AttrFocused:
			b.WriteString(c.Value)
		default:
			b.WriteByte('"')
			b.WriteString(escapeUiAutomatorString(c.Value))
			b.WriteByte('"')
		}
		b.WriteByte(')')
	}
	return b.String()
}

// escapeUiAutomatorString escapes a value for a Java string literal.
func escapeUiAutomatorString(s string) string {
	var result strings.Builder
	result.Grow(len(s) + 8)

	for _, c := range s {
		switch c {
		case '"':
			result.WriteString(`\"`)
		case '\\':
			result.WriteString(`\\`)
		case '\n':
			result.WriteString(`\n`)
		case '\r':
			result.WriteString(`\r`)
		case '\t':
			result.WriteString(`\t`)
		default:
			result.WriteRune(c)
		}
	}
	return result.String()
}

// ============================================================================
// BySelector
// ============================================================================

// BySelector is the direct query form. It has no instance support and must
// originate from exactly one seed predicate (one of the By* constructors);
// further constraints are layered with Copy followed by a refinement.
// It is rendered as an XPath expression over the page source.
type BySelector struct {
	constraints []Constraint
}

func by(attr Attribute, value string) BySelector {
	return BySelector{constraints: []Constraint{{Attribute: attr, Value: value}}}
}

func ByText(v string) BySelector           { return by(AttrText, v) }
func ByTextStartsWith(v string) BySelector { return by(AttrTextStartsWith, v) }
func ByTextContains(v string) BySelector   { return by(AttrTextContains, v) }
func ByClazz(v string) BySelector          { return by(AttrClassName, v) }
func ByDesc(v string) BySelector           { return by(AttrDescription, v) }
func ByDescStartsWith(v string) BySelector { return by(AttrDescriptionStartsWith, v) }
func ByDescContains(v string) BySelector   { return by(AttrDescriptionContains, v) }
func ByRes(v string) BySelector            { return by(AttrResourceID, v) }
func ByEnabled(v bool) BySelector          { return by(AttrEnabled, strconv.FormatBool(v)) }
func ByFocused(v bool) BySelector          { return by(AttrFocused, strconv.FormatBool(v)) }
func ByPkg(v string) BySelector            { return by(AttrPackageName, v) }

// Copy returns an independent copy that can be refined without touching b.
func (b BySelector) Copy() BySelector {
	out := make([]Constraint, len(b.constraints))
	copy(out, b.constraints)
	return BySelector{constraints: out}
}

func (b BySelector) with(attr Attribute, value string) BySelector {
	return BySelector{constraints: appendConstraint(b.constraints, attr, value)}
}

func (b BySelector) Text(v string) BySelector           { return b.with(AttrText, v) }
func (b BySelector) TextStartsWith(v string) BySelector { return b.with(AttrTextStartsWith, v) }
func (b BySelector) TextContains(v string) BySelector   { return b.with(AttrTextContains, v) }
func (b BySelector) Clazz(v string) BySelector          { return b.with(AttrClassName, v) }
func (b BySelector) Desc(v string) BySelector           { return b.with(AttrDescription, v) }
func (b BySelector) DescStartsWith(v string) BySelector { return b.with(AttrDescriptionStartsWith, v) }
func (b BySelector) DescContains(v string) BySelector   { return b.with(AttrDescriptionContains, v) }
func (b BySelector) Res(v string) BySelector            { return b.with(AttrResourceID, v) }
func (b BySelector) Enabled(v bool) BySelector          { return b.with(AttrEnabled, strconv.FormatBool(v)) }
func (b BySelector) Focused(v bool) BySelector          { return b.with(AttrFocused, strconv.FormatBool(v)) }
func (b BySelector) Pkg(v string) BySelector            { return b.with(AttrPackageName, v) }

// Seed returns the constraint the selector originated from.
func (b BySelector) Seed() (Constraint, bool) {
	if len(b.constraints) == 0 {
		return Constraint{}, false
	}
	return b.constraints[0], true
}

// Constraints returns the seed followed by the refinements, in order.
func (b BySelector) Constraints() []Constraint {
	out := make([]Constraint, len(b.constraints))
	copy(out, b.constraints)
	return out
}

// pageSourceAttrs maps query attributes to page source XML attributes.
var pageSourceAttrs = map[Attribute]string{
	AttrText:                  "text",
	AttrTextStartsWith:        "text",
	AttrTextContains:          "text",
	AttrClassName:             "class",
	AttrDescription:           "content-desc",
	AttrDescriptionStartsWith: "content-desc",
	AttrDescriptionContains:   "content-desc",
	AttrResourceID:            "resource-id",
	AttrEnabled:               "enabled",
	AttrFocused:               "focused",
	AttrPackageName:           "package",
}

// XPath renders the selector for the "xpath" strategy, e.g.
// //*[@text="OK" and @resource-id="com.app:id/ok"].
func (b BySelector) XPath() string {
	var preds []string
	for _, c := range b.constraints {
		attr, ok := pageSourceAttrs[c.Attribute]
		if !ok {
			continue
		}
		lit := xpathLiteral(c.Value)
		switch c.Attribute {
		case AttrTextStartsWith, AttrDescriptionStartsWith:
			preds = append(preds, "starts-with(@"+attr+", "+lit+")")
		case AttrTextContains, AttrDescriptionContains:
			preds = append(preds, "contains(@"+attr+", "+lit+")")
		default:
			preds = append(preds, "@"+attr+"="+lit)
		}
	}
	if len(preds) == 0 {
		return "//*"
	}
	return "//*[" + strings.Join(preds, " and ") + "]"
}

// String implements fmt.Stringer.
func (b BySelector) String() string {
	return b.XPath()
}

// xpathLiteral quotes s as an XPath 1.0 string literal. XPath has no escape
// sequences, so values holding both quote kinds are built with concat().
func xpathLiteral(s string) string {
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	if !strings.Contains(s, `'`) {
		return `'` + s + `'`
	}

	parts := strings.Split(s, `"`)
	args := make([]string, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			args = append(args, `'"'`)
		}
		if p != "" {
			args = append(args, `"`+p+`"`)
		}
	}
	return "concat(" + strings.Join(args, ", ") + ")"
}
