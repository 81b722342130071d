package contracts

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSelector_IsEmpty(t *testing.T) {
	tests := []struct {
		name string
		sel  Selector
		want bool
	}{
		{"zero value", Selector{}, true},
		{"text", Selector{Text: String("OK")}, false},
		{"empty string text is present", Selector{Text: String("")}, false},
		{"instance zero is present", Selector{Instance: Int(0)}, false},
		{"enabled false is present", Selector{Enabled: Bool(false)}, false},
		{"pkg", Selector{Pkg: String("com.example")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sel.IsEmpty(); got != tt.want {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSelector_HasAccessors(t *testing.T) {
	sel := Selector{
		Text:                         String("a"),
		TextStartsWith:               String("b"),
		TextContains:                 String("c"),
		ClassName:                    String("d"),
		ContentDescription:           String("e"),
		ContentDescriptionStartsWith: String("f"),
		ContentDescriptionContains:   String("g"),
		ResourceID:                   String("h"),
		Instance:                     Int(1),
		Enabled:                      Bool(true),
		Focused:                      Bool(false),
		Pkg:                          String("i"),
	}

	checks := map[string]bool{
		"text":                         sel.HasText(),
		"textStartsWith":               sel.HasTextStartsWith(),
		"textContains":                 sel.HasTextContains(),
		"className":                    sel.HasClassName(),
		"contentDescription":           sel.HasContentDescription(),
		"contentDescriptionStartsWith": sel.HasContentDescriptionStartsWith(),
		"contentDescriptionContains":   sel.HasContentDescriptionContains(),
		"resourceId":                   sel.HasResourceID(),
		"instance":                     sel.HasInstance(),
		"enabled":                      sel.HasEnabled(),
		"focused":                      sel.HasFocused(),
		"pkg":                          sel.HasPkg(),
	}
	for name, has := range checks {
		if !has {
			t.Errorf("Has%s() = false, want true", name)
		}
	}

	var empty Selector
	if empty.HasText() || empty.HasInstance() || empty.HasEnabled() {
		t.Error("zero selector should report no fields")
	}
}

func TestSelector_Describe(t *testing.T) {
	sel := Selector{Text: String("Log in"), Instance: Int(2), Enabled: Bool(true)}
	want := `text="Log in" instance=2 enabled=true`
	if got := sel.Describe(); got != want {
		t.Errorf("Describe() = %q, want %q", got, want)
	}

	var empty Selector
	if got := empty.Describe(); got != "<empty>" {
		t.Errorf("Describe() = %q, want <empty>", got)
	}
}

func TestParseSelector_YAML(t *testing.T) {
	sel, err := ParseSelector([]byte(`
text: Submit
resourceId: com.example:id/submit
instance: 0
enabled: false
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sel.Text == nil || *sel.Text != "Submit" {
		t.Errorf("Text = %v, want Submit", sel.Text)
	}
	if sel.ResourceID == nil || *sel.ResourceID != "com.example:id/submit" {
		t.Errorf("ResourceID = %v", sel.ResourceID)
	}
	if sel.Instance == nil || *sel.Instance != 0 {
		t.Errorf("Instance = %v, want 0", sel.Instance)
	}
	if sel.Enabled == nil || *sel.Enabled {
		t.Errorf("Enabled = %v, want false", sel.Enabled)
	}
	if sel.HasTextContains() || sel.HasFocused() || sel.HasPkg() {
		t.Error("absent fields should stay nil")
	}
}

func TestParseSelector_JSON(t *testing.T) {
	sel, err := ParseSelector([]byte(`{"contentDescriptionContains": "menu", "focused": true, "pkg": "com.example"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sel.ContentDescriptionContains == nil || *sel.ContentDescriptionContains != "menu" {
		t.Errorf("ContentDescriptionContains = %v, want menu", sel.ContentDescriptionContains)
	}
	if sel.Focused == nil || !*sel.Focused {
		t.Errorf("Focused = %v, want true", sel.Focused)
	}
	if sel.Pkg == nil || *sel.Pkg != "com.example" {
		t.Errorf("Pkg = %v, want com.example", sel.Pkg)
	}
}

func TestParseSelector_ScalarShorthand(t *testing.T) {
	sel, err := ParseSelector([]byte(`"Continue"`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sel.Text == nil || *sel.Text != "Continue" {
		t.Errorf("Text = %v, want Continue", sel.Text)
	}
}

func TestParseSelector_Invalid(t *testing.T) {
	if _, err := ParseSelector([]byte("instance: [1, 2]")); err == nil {
		t.Error("expected error for non-integer instance")
	}
}

func TestParseGroupEntry(t *testing.T) {
	root, err := ParseGroupEntry([]byte(`{
  "name": "example_test.dart",
  "type": "group",
  "entries": [
    {"name": "opens app", "type": "test"},
    {"name": "Login", "type": "group", "entries": [
      {"name": "accepts valid password", "type": "test", "fullName": "Login accepts valid password"}
    ]}
  ]
}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !root.IsGroup() || root.Name != "example_test.dart" {
		t.Errorf("root = %+v", root)
	}
	if len(root.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(root.Entries))
	}
	if !root.Entries[0].IsTest() {
		t.Error("first entry should be a test")
	}
	nested := root.Entries[1].Entries[0]
	if nested.FullName != "Login accepts valid password" {
		t.Errorf("FullName = %q", nested.FullName)
	}
}

func TestParseGroupEntry_UnknownTypePreserved(t *testing.T) {
	root, err := ParseGroupEntry([]byte(`
name: root
type: group
entries:
  - name: later
    type: benchmark
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	entry := root.Entries[0]
	if entry.IsTest() || entry.IsGroup() {
		t.Error("unknown type should be neither test nor group")
	}
	if entry.Type != "benchmark" {
		t.Errorf("Type = %q, want benchmark", entry.Type)
	}
}

func TestLoadGroupEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.yaml")
	content := `
name: app_test.dart
type: group
entries:
  - name: smoke
    type: test
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	root, err := LoadGroupEntry(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if root.Name != "app_test.dart" || len(root.Entries) != 1 {
		t.Errorf("unexpected tree: %+v", root)
	}
}

func TestLoadGroupEntry_NonExistentFile(t *testing.T) {
	if _, err := LoadGroupEntry("/nonexistent/tree.json"); err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestBuilders(t *testing.T) {
	g := Group("file.dart", Test("a"), Group("Suite", Test("b")))
	if !g.IsGroup() || len(g.Entries) != 2 {
		t.Fatalf("unexpected group: %+v", g)
	}
	if !g.Entries[0].IsTest() || g.Entries[0].Name != "a" {
		t.Errorf("unexpected first entry: %+v", g.Entries[0])
	}
}
