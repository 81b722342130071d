// Package selector compiles wire selectors into UIAutomator2 queries.
//
// Two forms are produced. The index query (UiSelector) can express every
// field including instance. The direct query (BySelector) has no instance
// support and must start from a single seed predicate; the seed is the first
// present field in a fixed priority order and every other present field is
// layered on top of it.
package selector

import (
	"github.com/devicelab-dev/patrol-runner/pkg/contracts"
	"github.com/devicelab-dev/patrol-runner/pkg/core"
	"github.com/devicelab-dev/patrol-runner/pkg/logger"
	"github.com/devicelab-dev/patrol-runner/pkg/uiautomator2"
)

// field binds one selector field to the query operations that express it.
// seed and refine are nil for instance, which has no direct-query form.
type field struct {
	name    string
	present func(s *contracts.Selector) bool
	index   func(q uiautomator2.UiSelector, s *contracts.Selector) uiautomator2.UiSelector
	seed    func(s *contracts.Selector) uiautomator2.BySelector
	refine  func(q uiautomator2.BySelector, s *contracts.Selector) uiautomator2.BySelector
}

// fields lists every selector field in direct-query seed priority order.
// The order must stay stable: it decides which field originates the query.
var fields = []field{
	{
		name:    "text",
		present: (*contracts.Selector).HasText,
		index:   func(q uiautomator2.UiSelector, s *contracts.Selector) uiautomator2.UiSelector { return q.Text(*s.Text) },
		seed:    func(s *contracts.Selector) uiautomator2.BySelector { return uiautomator2.ByText(*s.Text) },
		refine:  func(q uiautomator2.BySelector, s *contracts.Selector) uiautomator2.BySelector { return q.Text(*s.Text) },
	},
	{
		name:    "textStartsWith",
		present: (*contracts.Selector).HasTextStartsWith,
		index: func(q uiautomator2.UiSelector, s *contracts.Selector) uiautomator2.UiSelector {
			return q.TextStartsWith(*s.TextStartsWith)
		},
		seed: func(s *contracts.Selector) uiautomator2.BySelector {
			return uiautomator2.ByTextStartsWith(*s.TextStartsWith)
		},
		refine: func(q uiautomator2.BySelector, s *contracts.Selector) uiautomator2.BySelector {
			return q.TextStartsWith(*s.TextStartsWith)
		},
	},
	{
		name:    "textContains",
		present: (*contracts.Selector).HasTextContains,
		index: func(q uiautomator2.UiSelector, s *contracts.Selector) uiautomator2.UiSelector {
			return q.TextContains(*s.TextContains)
		},
		seed: func(s *contracts.Selector) uiautomator2.BySelector {
			return uiautomator2.ByTextContains(*s.TextContains)
		},
		refine: func(q uiautomator2.BySelector, s *contracts.Selector) uiautomator2.BySelector {
			return q.TextContains(*s.TextContains)
		},
	},
	{
		name:    "className",
		present: (*contracts.Selector).HasClassName,
		index: func(q uiautomator2.UiSelector, s *contracts.Selector) uiautomator2.UiSelector {
			return q.ClassName(*s.ClassName)
		},
		seed:   func(s *contracts.Selector) uiautomator2.BySelector { return uiautomator2.ByClazz(*s.ClassName) },
		refine: func(q uiautomator2.BySelector, s *contracts.Selector) uiautomator2.BySelector { return q.Clazz(*s.ClassName) },
	},
	{
		name:    "contentDescription",
		present: (*contracts.Selector).HasContentDescription,
		index: func(q uiautomator2.UiSelector, s *contracts.Selector) uiautomator2.UiSelector {
			return q.Description(*s.ContentDescription)
		},
		seed: func(s *contracts.Selector) uiautomator2.BySelector {
			return uiautomator2.ByDesc(*s.ContentDescription)
		},
		refine: func(q uiautomator2.BySelector, s *contracts.Selector) uiautomator2.BySelector {
			return q.Desc(*s.ContentDescription)
		},
	},
	{
		name:    "contentDescriptionStartsWith",
		present: (*contracts.Selector).HasContentDescriptionStartsWith,
		index: func(q uiautomator2.UiSelector, s *contracts.Selector) uiautomator2.UiSelector {
			return q.DescriptionStartsWith(*s.ContentDescriptionStartsWith)
		},
		seed: func(s *contracts.Selector) uiautomator2.BySelector {
			return uiautomator2.ByDescStartsWith(*s.ContentDescriptionStartsWith)
		},
		refine: func(q uiautomator2.BySelector, s *contracts.Selector) uiautomator2.BySelector {
			return q.DescStartsWith(*s.ContentDescriptionStartsWith)
		},
	},
	{
		name:    "contentDescriptionContains",
		present: (*contracts.Selector).HasContentDescriptionContains,
		index: func(q uiautomator2.UiSelector, s *contracts.Selector) uiautomator2.UiSelector {
			return q.DescriptionContains(*s.ContentDescriptionContains)
		},
		seed: func(s *contracts.Selector) uiautomator2.BySelector {
			return uiautomator2.ByDescContains(*s.ContentDescriptionContains)
		},
		refine: func(q uiautomator2.BySelector, s *contracts.Selector) uiautomator2.BySelector {
			return q.DescContains(*s.ContentDescriptionContains)
		},
	},
	{
		name:    "resourceId",
		present: (*contracts.Selector).HasResourceID,
		index: func(q uiautomator2.UiSelector, s *contracts.Selector) uiautomator2.UiSelector {
			return q.ResourceID(*s.ResourceID)
		},
		seed:   func(s *contracts.Selector) uiautomator2.BySelector { return uiautomator2.ByRes(*s.ResourceID) },
		refine: func(q uiautomator2.BySelector, s *contracts.Selector) uiautomator2.BySelector { return q.Res(*s.ResourceID) },
	},
	{
		name:    "instance",
		present: (*contracts.Selector).HasInstance,
		index: func(q uiautomator2.UiSelector, s *contracts.Selector) uiautomator2.UiSelector {
			return q.Instance(*s.Instance)
		},
	},
	{
		name:    "enabled",
		present: (*contracts.Selector).HasEnabled,
		index: func(q uiautomator2.UiSelector, s *contracts.Selector) uiautomator2.UiSelector {
			return q.Enabled(*s.Enabled)
		},
		seed:   func(s *contracts.Selector) uiautomator2.BySelector { return uiautomator2.ByEnabled(*s.Enabled) },
		refine: func(q uiautomator2.BySelector, s *contracts.Selector) uiautomator2.BySelector { return q.Enabled(*s.Enabled) },
	},
	{
		name:    "focused",
		present: (*contracts.Selector).HasFocused,
		index: func(q uiautomator2.UiSelector, s *contracts.Selector) uiautomator2.UiSelector {
			return q.Focused(*s.Focused)
		},
		seed:   func(s *contracts.Selector) uiautomator2.BySelector { return uiautomator2.ByFocused(*s.Focused) },
		refine: func(q uiautomator2.BySelector, s *contracts.Selector) uiautomator2.BySelector { return q.Focused(*s.Focused) },
	},
	{
		name:    "pkg",
		present: (*contracts.Selector).HasPkg,
		index: func(q uiautomator2.UiSelector, s *contracts.Selector) uiautomator2.UiSelector {
			return q.PackageName(*s.Pkg)
		},
		seed:   func(s *contracts.Selector) uiautomator2.BySelector { return uiautomator2.ByPkg(*s.Pkg) },
		refine: func(q uiautomator2.BySelector, s *contracts.Selector) uiautomator2.BySelector { return q.Pkg(*s.Pkg) },
	},
}

// SeedOrder returns the field names in direct-query seed priority order.
func SeedOrder() []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.name
	}
	return names
}

// ToIndexQuery converts sel to an index-capable UiSelector. Every present
// field becomes a constraint. An empty selector yields a query matching
// every element.
func ToIndexQuery(sel contracts.Selector) uiautomator2.UiSelector {
	q := uiautomator2.NewUiSelector()
	for _, f := range fields {
		if f.present(&sel) {
			q = f.index(q, &sel)
		}
	}

	if logger.DebugEnabled() {
		logger.Debug("index query for %s: %s", sel.Describe(), q)
	}
	return q
}

// ToDirectQuery converts sel to a BySelector.
//
// It fails with core.ErrSelectorEmpty when no field is present and with
// core.ErrInstanceUnsupported when instance is the highest-priority present
// field. When instance is present alongside a usable seed it is ignored;
// the caller applies index filtering to the matches itself.
func ToDirectQuery(sel contracts.Selector) (uiautomator2.BySelector, error) {
	if sel.IsEmpty() {
		return uiautomator2.BySelector{}, core.ErrSelectorEmpty
	}

	seedIdx := -1
	for i, f := range fields {
		if !f.present(&sel) {
			continue
		}
		if f.seed == nil {
			return uiautomator2.BySelector{}, core.ErrInstanceUnsupported.WithDetails(map[string]interface{}{
				"field":    f.name,
				"selector": sel.Describe(),
			})
		}
		seedIdx = i
		break
	}
	if seedIdx < 0 {
		// unreachable while IsEmpty covers every field in the table
		return uiautomator2.BySelector{}, core.ErrSelectorEmpty
	}

	q := fields[seedIdx].seed(&sel)
	for i, f := range fields {
		if i == seedIdx || f.refine == nil || !f.present(&sel) {
			continue
		}
		q = f.refine(q.Copy(), &sel)
	}

	if logger.DebugEnabled() {
		logger.Debug("direct query for %s (seed %s): %s", sel.Describe(), fields[seedIdx].name, q)
	}
	return q, nil
}
