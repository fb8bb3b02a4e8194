package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestEmptyScreenShowsGuide(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t)
	view := m.View()
	for _, want := range []string{guideTitle, "1. Place a tree", "tab to add a child", logPanelTitle} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}

	click(m, 30, 10)
	if strings.Contains(m.View(), guideTitle) {
		t.Fatal("guide should disappear once an anchor exists")
	}
}

func TestViewFillsTerminalHeight(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t)
	if got := strings.Count(m.View(), "\n") + 1; got != 20 {
		t.Fatalf("line count mismatch: got %d want 20", got)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyF1})
	if got := strings.Count(m.View(), "\n") + 1; got != 20 {
		t.Fatalf("line count with full help: got %d want 20", got)
	}
	if m.layout.treeHeight+m.layout.footerHeight != 20 {
		t.Fatalf("layout does not add up: %+v", m.layout)
	}
}

func TestAnchorsDrawAtAbsolutePositions(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t)
	click(m, 5, 2)
	click(m, 5, 2)
	m.Update(tea.KeyMsg{Type: tea.KeyTab})

	lines := strings.Split(m.View(), "\n")
	if lines[2] != "     ⚒ new" {
		t.Fatalf("root row mismatch: %q", lines[2])
	}
	if lines[3] != "       └─ new" {
		t.Fatalf("child row mismatch: %q", lines[3])
	}
}

func TestLogPanelShowsNewestFirst(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t)
	click(m, 1, 1)
	click(m, 20, 1)

	lines := strings.Split(m.View(), "\n")
	header := m.layout.treeHeight
	if lines[header] != logPanelTitle {
		t.Fatalf("log header mismatch: %q", lines[header])
	}
	if lines[header+1] != "INFO - created anchor (at=(20,1))" || lines[header+2] != "INFO - created anchor (at=(1,1))" {
		t.Fatalf("log order mismatch: %q", lines[header+1:header+3])
	}
}

func TestCanvasMarksSelectedRuns(t *testing.T) {
	t.Parallel()

	c := newCanvas(10, 2)
	c.write(1, 0, "abc", toneSelected)
	c.write(8, 1, "xyz", tonePlain)
	c.write(2, 0, "Z", tonePlain)

	if c.grid[0][1].tone != toneSelected || c.grid[0][3].tone != toneSelected {
		t.Fatalf("selected cells not marked: %+v", c.grid[0])
	}
	if c.grid[0][2] != (cell{r: 'Z', tone: tonePlain}) {
		t.Fatalf("later writes should win: %+v", c.grid[0][2])
	}
	lines := c.lines()
	if !strings.Contains(lines[0], "Z") || !strings.HasPrefix(lines[0], " ") {
		t.Fatalf("row 0 mismatch: %q", lines[0])
	}
	if lines[1] != "        xy" {
		t.Fatalf("writes should clip at the right edge: %q", lines[1])
	}
}

func TestPageLayoutUpdate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		width     int
		height    int
		footer    int
		wantWidth int
		wantTree  int
	}{
		{name: "regular", width: 100, height: 30, footer: 7, wantWidth: 100, wantTree: 23},
		{name: "unknown size", width: 0, height: 0, footer: 7, wantWidth: defaultWidth, wantTree: defaultHeight - 7},
		{name: "tiny", width: 10, height: 4, footer: 7, wantWidth: 10, wantTree: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			layout := newPageLayout()
			layout.Update(tc.width, tc.height, tc.footer)
			if layout.width != tc.wantWidth {
				t.Fatalf("width mismatch: got %d want %d", layout.width, tc.wantWidth)
			}
			if layout.treeHeight != tc.wantTree {
				t.Fatalf("tree height mismatch: got %d want %d", layout.treeHeight, tc.wantTree)
			}
		})
	}
}
