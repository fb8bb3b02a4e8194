// Package importer builds outline trees from existing documents so they
// can be placed on a screen.
package importer

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/muesli/reflow/truncate"

	"github.com/csheth/voidmap/internal/outline"
)

// MaxItemWidth caps the width of every imported label.
const MaxItemWidth = 60

var extraneousWhitespace = regexp.MustCompile(`\s+`)

// Outline is a two-level tree: a title with one item per section.
type Outline struct {
	Title string
	Items []string
}

// FromPDF reads path and returns an outline titled with the file's base
// name and holding the first line of text of every page that has one.
func FromPDF(path string) (Outline, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return Outline{}, fmt.Errorf("failed to open pdf %s: %w", path, err)
	}
	defer file.Close()

	pages := make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return Outline{}, fmt.Errorf("failed to extract text from %s page %d: %w", path, i, err)
		}
		pages = append(pages, text)
	}
	title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return New(title, pages), nil
}

// New builds an outline from raw section texts. Each section contributes
// its first non-blank line, whitespace-collapsed and clipped to
// MaxItemWidth; sections without text are skipped.
func New(title string, sections []string) Outline {
	out := Outline{Title: clip(title)}
	for _, section := range sections {
		if line := firstLine(section); line != "" {
			out.Items = append(out.Items, clip(line))
		}
	}
	return out
}

func firstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(extraneousWhitespace.ReplaceAllString(line, " "))
		if line != "" {
			return line
		}
	}
	return ""
}

func clip(text string) string {
	return truncate.StringWithTail(text, MaxItemWidth, "…")
}

// Graft places the outline on screen as a new anchor at pos. An anchor
// already at pos is replaced.
func (o Outline) Graft(screen *outline.Screen, pos outline.Coords) (*outline.Anchor, error) {
	arena := screen.Arena()
	root := arena.NewNode(outline.TextContent(o.Title))
	for _, item := range o.Items {
		if _, err := arena.AddChild(root, outline.TextContent(item)); err != nil {
			return nil, err
		}
	}
	return screen.Insert(pos, root), nil
}

// Below returns the first column-0 position under every anchor on screen,
// leaving one blank row, so a graft there overlaps nothing.
func Below(screen *outline.Screen) outline.Coords {
	bottom := 0
	for _, anchor := range screen.Anchors() {
		if end := anchor.Position.Y + anchor.Height(screen.Arena()) + 1; end > bottom {
			bottom = end
		}
	}
	return outline.Coords{X: 0, Y: bottom}
}
