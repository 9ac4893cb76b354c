// Package export writes entries out as markdown files with YAML front matter.
package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ramanasai/freeflow/internal/db"
)

const stampLayout = "2006-01-02T15-04-05"

type frontMatter struct {
	ID      string    `yaml:"id"`
	Created time.Time `yaml:"created"`
	Updated time.Time `yaml:"updated"`
	Font    string    `yaml:"font,omitempty"`
	Size    int       `yaml:"size,omitempty"`
}

// FileName is "[id]-[YYYY-MM-DDTHH-MM-SS].md", stamped with the UTC creation time.
func FileName(e db.Entry) string {
	return fmt.Sprintf("[%s]-[%s].md", e.ID, e.CreatedAt.UTC().Format(stampLayout))
}

// Markdown renders a front matter block followed by the content.
func Markdown(e db.Entry) ([]byte, error) {
	fm, err := yaml.Marshal(frontMatter{
		ID:      e.ID,
		Created: e.CreatedAt.UTC(),
		Updated: e.UpdatedAt.UTC(),
		Font:    e.Font,
		Size:    e.Size,
	})
	if err != nil {
		return nil, fmt.Errorf("front matter: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(fm)
	buf.WriteString("---\n\n")
	buf.WriteString(e.Content)
	if !strings.HasSuffix(e.Content, "\n") {
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// Parse splits an exported file back into its metadata and content.
func Parse(data []byte) (db.Entry, error) {
	text := string(data)
	if !strings.HasPrefix(text, "---\n") {
		return db.Entry{}, fmt.Errorf("missing front matter")
	}
	head, body, ok := strings.Cut(text[len("---\n"):], "\n---\n")
	if !ok {
		return db.Entry{}, fmt.Errorf("unterminated front matter")
	}
	var fm frontMatter
	if err := yaml.Unmarshal([]byte(head), &fm); err != nil {
		return db.Entry{}, fmt.Errorf("front matter: %w", err)
	}
	body = strings.TrimPrefix(body, "\n")
	body = strings.TrimSuffix(body, "\n")
	return db.Entry{
		ID:        fm.ID,
		Content:   body,
		CreatedAt: fm.Created,
		UpdatedAt: fm.Updated,
		Font:      fm.Font,
		Size:      fm.Size,
	}, nil
}

// WriteAll writes every entry into dir and returns the paths written.
func WriteAll(dir string, entries []db.Entry) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		b, err := Markdown(e)
		if err != nil {
			return paths, fmt.Errorf("export %s: %w", e.ID, err)
		}
		p := filepath.Join(dir, FileName(e))
		if err := os.WriteFile(p, b, 0o644); err != nil {
			return paths, fmt.Errorf("export %s: %w", e.ID, err)
		}
		paths = append(paths, p)
	}
	return paths, nil
}
