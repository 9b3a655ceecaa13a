package taxonomy

import (
	"path/filepath"
	"testing"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{
			name:  "simple title",
			title: "Getting Started with Chart Notes",
			want:  "getting-started-with-chart-notes",
		},
		{
			name:  "ampersand dropped",
			title: "Manage Staff & Permissions",
			want:  "manage-staff-permissions",
		},
		{
			name:  "dots and slashes dropped",
			title: "AI Appt. Summaries / Overview",
			want:  "ai-appt-summaries-overview",
		},
		{
			name:  "apostrophes and parens dropped",
			title: "Your Patient's Profile (Beta)",
			want:  "your-patients-profile-beta",
		},
		{
			name:  "plus sign dropped",
			title: "Edit with Command+K",
			want:  "edit-with-commandk",
		},
		{
			name:  "existing hyphens kept and collapsed",
			title: "Auto-apply -- KX Modifier",
			want:  "auto-apply-kx-modifier",
		},
		{
			name:  "underscores kept",
			title: "internal_name of thing",
			want:  "internal_name-of-thing",
		},
		{
			name:  "whitespace runs become one hyphen",
			title: "too   many\tspaces",
			want:  "too-many-spaces",
		},
		{
			name:  "only punctuation",
			title: "&&&",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sanitize(tt.title)
			if got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.title, got, tt.want)
			}
			if again := Sanitize(got); again != got {
				t.Errorf("Sanitize is not idempotent: Sanitize(%q) = %q", got, again)
			}
		})
	}
}

const testTableYAML = `
categories:
  - name: Provider Workflows
    subcategories:
      - name: Chart Notes
        articles:
          - title: Getting Started with Chart Notes
            file: Getting Started with Chart Notes.txt
          - title: Sign a Chart Note
            file: Sign a Chart Note.txt
  - name: Owners & Administration
    subcategories:
      - name: My Practice
        articles:
          - title: Manage Staff & Permissions
            file: Manage Staff & Permissions.txt
`

func mustParse(t *testing.T, yamlData string) *Table {
	t.Helper()
	table, err := Parse([]byte(yamlData))
	if err != nil {
		t.Fatalf("failed to parse taxonomy: %v", err)
	}
	return table
}

func TestResolve(t *testing.T) {
	table := mustParse(t, testTableYAML)

	entry, ok := table.Resolve("Getting Started with Chart Notes.txt")
	if !ok {
		t.Fatal("expected filename to resolve")
	}
	if entry.Category != "Provider Workflows" || entry.Subcategory != "Chart Notes" {
		t.Errorf("unexpected entry: %+v", entry)
	}

	// exact-match lookup: case and whitespace matter
	if _, ok := table.Resolve("getting started with chart notes.txt"); ok {
		t.Error("lowercased filename should not resolve")
	}
	if _, ok := table.Resolve("Not In Table.txt"); ok {
		t.Error("unknown filename should not resolve")
	}
}

func TestFilenamesKeepIAOrder(t *testing.T) {
	table := mustParse(t, testTableYAML)
	names := table.Filenames()
	want := []string{
		"Getting Started with Chart Notes.txt",
		"Sign a Chart Note.txt",
		"Manage Staff & Permissions.txt",
	}
	if len(names) != len(want) {
		t.Fatalf("got %d filenames, want %d", len(names), len(want))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("filenames[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestParseRejectsDuplicateFile(t *testing.T) {
	dup := `
categories:
  - name: A
    subcategories:
      - name: B
        articles:
          - title: One
            file: same.txt
  - name: C
    subcategories:
      - name: D
        articles:
          - title: Two
            file: same.txt
`
	if _, err := Parse([]byte(dup)); err == nil {
		t.Fatal("expected duplicate file to be a load error")
	}
}

func TestLocate(t *testing.T) {
	entry := Entry{
		Category:    "Provider Workflows",
		Subcategory: "Chart Notes",
		Title:       "Getting Started with Chart Notes",
	}
	loc := entry.Locate("Getting Started with Chart Notes", "docs", "images")

	wantOut := filepath.Join("docs", "Provider Workflows", "Chart Notes", "getting-started-with-chart-notes.mdx")
	if loc.OutputPath != wantOut {
		t.Errorf("OutputPath = %q, want %q", loc.OutputPath, wantOut)
	}
	wantImg := filepath.Join("images", "Provider Workflows", "Chart Notes", "getting-started-with-chart-notes")
	if loc.ImageDir != wantImg {
		t.Errorf("ImageDir = %q, want %q", loc.ImageDir, wantImg)
	}
	wantPrefix := "/images/Provider Workflows/Chart Notes/getting-started-with-chart-notes"
	if loc.ImagePrefix != wantPrefix {
		t.Errorf("ImagePrefix = %q, want %q", loc.ImagePrefix, wantPrefix)
	}
}
