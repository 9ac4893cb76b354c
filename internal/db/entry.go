package db

import (
	"strings"
	"time"
)

// Defaults applied to entries that carry no display style.
const (
	DefaultFont = "Lato"
	DefaultSize = 18
)

const previewLen = 30

// Entry is one journal document.
type Entry struct {
	ID        string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
	Font      string
	Size      int
}

// Preview is the single-line sidebar summary of the content.
func (e Entry) Preview() string {
	flat := []rune(strings.TrimSpace(strings.ReplaceAll(e.Content, "\n", " ")))
	if len(flat) > previewLen {
		flat = flat[:previewLen]
	}
	out := string(flat)
	if len([]rune(e.Content)) > previewLen {
		out += "..."
	}
	return out
}

// ShortDate renders the creation day as "Jan 2".
func (e Entry) ShortDate(loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return e.CreatedAt.In(loc).Format("Jan 2")
}

// Patch is a partial update. Nil fields are left untouched.
type Patch struct {
	Content *string
	Font    *string
	Size    *int
}

// ContentPatch is a Patch that only replaces the content.
func ContentPatch(content string) Patch {
	return Patch{Content: &content}
}

// StylePatch is a Patch that only replaces the display style.
func StylePatch(font string, size int) Patch {
	return Patch{Font: &font, Size: &size}
}

func (p Patch) empty() bool {
	return p.Content == nil && p.Font == nil && p.Size == nil
}
