// Package suite flattens the Dart test tree into fully-qualified test names.
package suite

import (
	"github.com/devicelab-dev/patrol-runner/pkg/contracts"
	"github.com/devicelab-dev/patrol-runner/pkg/core"
	"github.com/devicelab-dev/patrol-runner/pkg/logger"
)

// ListTestsFlat returns the tests in the tree in pre-order, each renamed to
// the space-joined names of its enclosing groups followed by its own name.
// The root itself takes part: a root group named "app_test.dart" prefixes
// every test below it, while a nameless root (as sent by the Dart side)
// contributes nothing.
//
// Every test must sit inside at least one named group. A test that does not
// is a malformed tree: the whole call fails with core.ErrTestWithoutGroup
// and no partial list is returned.
func ListTestsFlat(root contracts.GroupEntry) ([]contracts.GroupEntry, error) {
	tests, err := listTestsFlat(contracts.GroupEntry{
		Type:    contracts.GroupEntryGroup,
		Entries: []contracts.GroupEntry{root},
	}, "")
	if err != nil {
		return nil, err
	}

	logger.Debug("flattened %d tests from %q", len(tests), root.Name)
	return tests, nil
}

func listTestsFlat(entry contracts.GroupEntry, parentGroupName string) ([]contracts.GroupEntry, error) {
	var tests []contracts.GroupEntry

	for _, child := range entry.Entries {
		switch child.Type {
		case contracts.GroupEntryTest:
			if parentGroupName == "" {
				return nil, core.ErrTestWithoutGroup.WithDetails(map[string]interface{}{
					"test": child.Name,
					"node": entry.Name,
				})
			}

			flat := child
			flat.Name = parentGroupName + " " + child.Name
			tests = append(tests, flat)

		case contracts.GroupEntryGroup:
			name := child.Name
			if parentGroupName != "" {
				name = parentGroupName + " " + child.Name
			}

			nested, err := listTestsFlat(child, name)
			if err != nil {
				return nil, err
			}
			tests = append(tests, nested...)
		}
	}

	return tests, nil
}

// Names returns the qualified names of flattened tests.
func Names(tests []contracts.GroupEntry) []string {
	names := make([]string, len(tests))
	for i, t := range tests {
		names[i] = t.Name
	}
	return names
}
