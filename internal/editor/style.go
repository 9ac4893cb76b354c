package editor

import "github.com/ramanasai/freeflow/internal/db"

// Font is a selectable display face.
type Font struct {
	Name  string
	Value string
}

var Fonts = []Font{
	{Name: "Lato", Value: "Lato"},
	{Name: "Arial", Value: "Arial"},
	{Name: "System", Value: "system-ui"},
	{Name: "Serif", Value: "Times New Roman"},
}

var Sizes = []int{16, 18, 20, 22, 24, 26}

// FontName returns the label for a stored font value.
func FontName(value string) string {
	for _, f := range Fonts {
		if f.Value == value {
			return f.Name
		}
	}
	return value
}

// NextFont cycles to the font after value.
func NextFont(value string) string {
	for i, f := range Fonts {
		if f.Value == value {
			return Fonts[(i+1)%len(Fonts)].Value
		}
	}
	return db.DefaultFont
}

// NextSize cycles to the size after size.
func NextSize(size int) int {
	for i, s := range Sizes {
		if s == size {
			return Sizes[(i+1)%len(Sizes)]
		}
	}
	return db.DefaultSize
}

// Placeholders are shown in an empty editor. They are never persisted.
var Placeholders = []string{
	"Begin writing",
	"Pick a thought and go",
	"Start typing",
	"What's on your mind",
	"Just start",
	"Type your first thought",
	"Start with one sentence",
	"Just say it",
}
