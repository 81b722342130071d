package contracts

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// GroupEntryType tags a node of the Dart test tree.
type GroupEntryType string

const (
	GroupEntryTest  GroupEntryType = "test"
	GroupEntryGroup GroupEntryType = "group"
)

// GroupEntry is a node of the test suite tree reported by the Dart side.
// The root is conventionally a group named after the test file.
type GroupEntry struct {
	Name     string         `json:"name" yaml:"name"`
	FullName string         `json:"fullName,omitempty" yaml:"fullName,omitempty"`
	Type     GroupEntryType `json:"type" yaml:"type"`
	Entries  []GroupEntry   `json:"entries,omitempty" yaml:"entries,omitempty"`
}

// IsTest returns true for leaf test entries.
func (e GroupEntry) IsTest() bool { return e.Type == GroupEntryTest }

// IsGroup returns true for group entries.
func (e GroupEntry) IsGroup() bool { return e.Type == GroupEntryGroup }

// Group builds a group entry.
func Group(name string, entries ...GroupEntry) GroupEntry {
	return GroupEntry{Name: name, Type: GroupEntryGroup, Entries: entries}
}

// Test builds a test entry.
func Test(name string) GroupEntry {
	return GroupEntry{Name: name, Type: GroupEntryTest}
}

// ParseGroupEntry decodes a test tree from YAML or JSON.
func ParseGroupEntry(data []byte) (GroupEntry, error) {
	var root GroupEntry
	if err := yaml.Unmarshal(data, &root); err != nil {
		return GroupEntry{}, fmt.Errorf("parse test tree: %w", err)
	}
	return root, nil
}

// LoadGroupEntry reads and decodes a test tree file.
func LoadGroupEntry(path string) (GroupEntry, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- user-provided test tree file
	if err != nil {
		return GroupEntry{}, err
	}
	return ParseGroupEntry(data)
}
