package models

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SourceDocument is one exported snapshot file: a title line, a blank line,
// then an HTML fragment body.
type SourceDocument struct {
	Filename string
	Title    string
	Body     string
}

// LoadDocument reads a snapshot file from disk. Files with fewer than two
// lines do not follow the export format and are rejected.
func LoadDocument(path string) (*SourceDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}

	lines := strings.SplitN(string(data), "\n", 3)
	if len(lines) < 2 {
		return nil, fmt.Errorf("invalid format: expected title line followed by body")
	}

	body := ""
	if len(lines) == 3 {
		body = lines[2]
	}

	return &SourceDocument{
		Filename: filepath.Base(path),
		Title:    strings.TrimSpace(lines[0]),
		Body:     body,
	}, nil
}
