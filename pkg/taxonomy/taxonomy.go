// Package taxonomy holds the target information architecture: the static
// category -> subcategory -> article table that every input file is
// classified into, and the path derivation rules for converted output.
package taxonomy

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Entry is one article's place in the information architecture.
type Entry struct {
	Category    string
	Subcategory string
	Title       string
}

// Table maps exported filenames to their IA entries. Lookup is by exact
// filename string; there is no fuzzy matching.
type Table struct {
	entries map[string]Entry
	order   []string
}

type tableFile struct {
	Categories []struct {
		Name          string `yaml:"name"`
		Subcategories []struct {
			Name     string `yaml:"name"`
			Articles []struct {
				Title string `yaml:"title"`
				File  string `yaml:"file"`
			} `yaml:"articles"`
		} `yaml:"subcategories"`
	} `yaml:"categories"`
}

// Load reads the IA table from a YAML file. A filename appearing twice is a
// configuration error, not a tie to break at conversion time.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read taxonomy file: %w", err)
	}
	return Parse(data)
}

// Parse builds a Table from raw YAML.
func Parse(data []byte) (*Table, error) {
	var tf tableFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("failed to parse taxonomy file: %w", err)
	}

	t := &Table{entries: make(map[string]Entry)}
	for _, cat := range tf.Categories {
		for _, sub := range cat.Subcategories {
			for _, art := range sub.Articles {
				if art.File == "" {
					return nil, fmt.Errorf("article %q in %s/%s has no file", art.Title, cat.Name, sub.Name)
				}
				if prev, ok := t.entries[art.File]; ok {
					return nil, fmt.Errorf("duplicate file %q: already mapped to %s/%s", art.File, prev.Category, prev.Subcategory)
				}
				t.entries[art.File] = Entry{
					Category:    cat.Name,
					Subcategory: sub.Name,
					Title:       art.Title,
				}
				t.order = append(t.order, art.File)
			}
		}
	}
	return t, nil
}

// Resolve looks up the IA entry for an exported filename.
func (t *Table) Resolve(filename string) (Entry, bool) {
	e, ok := t.entries[filename]
	return e, ok
}

// Len returns the number of mapped files.
func (t *Table) Len() int {
	return len(t.entries)
}

// Filenames returns every mapped filename in IA order.
func (t *Table) Filenames() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

var (
	dropChars  = regexp.MustCompile(`[^a-z0-9_\s-]`)
	hyphenRuns = regexp.MustCompile(`[-\s]+`)
)

// Sanitize converts an article title to its slug form: lowercase, whitespace
// runs become single hyphens, every character outside [a-z0-9-_] is dropped,
// repeated hyphens collapse. Idempotent.
func Sanitize(title string) string {
	s := strings.ToLower(title)
	s = dropChars.ReplaceAllString(s, "")
	s = hyphenRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Location is a document's resolved destination. Category and subcategory
// directory names keep their IA spelling (spaces and ampersands included);
// only the title is slugged.
type Location struct {
	Category       string
	Subcategory    string
	SanitizedTitle string

	// OutputPath is the MDX destination on disk.
	OutputPath string
	// ImageDir is where mirrored assets for this document are written.
	ImageDir string
	// ImagePrefix is the site-root path prefix image references start with,
	// before percent-encoding.
	ImagePrefix string
}

// Locate derives the destination layout for a document title under the given
// output and images roots. The title is the document's own title line, which
// may differ from the IA title in punctuation.
func (e Entry) Locate(title, outputDir, imagesDir string) Location {
	slug := Sanitize(title)
	return Location{
		Category:       e.Category,
		Subcategory:    e.Subcategory,
		SanitizedTitle: slug,
		OutputPath:     filepath.Join(outputDir, e.Category, e.Subcategory, slug+".mdx"),
		ImageDir:       filepath.Join(imagesDir, e.Category, e.Subcategory, slug),
		ImagePrefix:    "/images/" + e.Category + "/" + e.Subcategory + "/" + slug,
	}
}
