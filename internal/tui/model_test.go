package tui

import (
	"errors"
	"log/slog"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/voidmap/internal/logring"
	"github.com/csheth/voidmap/internal/outline"
)

type fakeSaver struct {
	calls int
	hint  string
	err   error
}

func (s *fakeSaver) Save(hint string, screen *outline.Screen) (bool, error) {
	s.calls++
	s.hint = hint
	return s.err == nil, s.err
}

func newTestModel(t *testing.T) (*model, *logring.Ring) {
	t.Helper()
	ring := logring.NewRing(logring.DefaultSize)
	logger := slog.New(logring.NewHandler(ring, slog.LevelInfo))
	screen := outline.NewScreen()
	screen.KeyHint = "hint"
	screen.WorkPath = "/tmp/void.db"
	screen.SetLogger(logger)

	teaModel, ok := New(Config{Screen: screen, Ring: ring, Logger: logger}).(*model)
	if !ok {
		t.Fatalf("expected *model, got %T", teaModel)
	}
	teaModel.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	return teaModel, ring
}

func click(m *model, x, y int) {
	m.Update(tea.MouseMsg{X: x, Y: y, Type: tea.MouseLeft})
	m.Update(tea.MouseMsg{X: x, Y: y, Type: tea.MouseRelease})
}

func typeText(m *model, text string) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

func TestClickTypeAndAddChild(t *testing.T) {
	t.Parallel()

	m, ring := newTestModel(t)
	click(m, 3, 4)
	if !strings.Contains(m.View(), "⚒ new") {
		t.Fatalf("new anchor not drawn:\n%s", m.View())
	}
	if got := ring.Lines(); len(got) == 0 || got[0] != "INFO - created anchor (at=(3,4))" {
		t.Fatalf("anchor creation not logged: %q", got)
	}

	click(m, 3, 4)
	m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	typeText(m, "root")
	m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	typeText(m, "x")
	m.Update(tea.KeyMsg{Type: tea.KeyTab})

	view := m.View()
	for _, want := range []string{"⚒ neroot x", "  └─ new"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
	anchor, _ := m.screen.Anchor(outline.Coords{X: 3, Y: 4})
	if got := anchor.Height(m.screen.Arena()); got != 2 {
		t.Fatalf("height mismatch: got %d want 2", got)
	}

	click(m, 6, 5)
	m.Update(tea.KeyMsg{Type: tea.KeyDelete})
	if got := anchor.Height(m.screen.Arena()); got != 1 {
		t.Fatalf("height after delete: got %d want 1", got)
	}
}

func TestToggleCollapsesSelectedNode(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t)
	click(m, 0, 0)
	click(m, 0, 0)
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if !strings.Contains(m.View(), "⚒ new…") {
		t.Fatalf("collapsed marker missing:\n%s", m.View())
	}
	if strings.Contains(m.View(), "└─ new") {
		t.Fatal("collapsed children should not be drawn")
	}
}

func TestDragDoesNotPlaceAnchors(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t)
	m.Update(tea.MouseMsg{X: 1, Y: 1, Type: tea.MouseLeft})
	m.Update(tea.MouseMsg{X: 2, Y: 1, Type: tea.MouseLeft})
	m.Update(tea.MouseMsg{X: 3, Y: 1, Type: tea.MouseLeft})
	m.Update(tea.MouseMsg{X: 3, Y: 1, Type: tea.MouseRelease})

	if m.screen.Len() != 1 {
		t.Fatalf("drag should place one anchor, got %d", m.screen.Len())
	}
}

func TestClicksOnFooterAreIgnored(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t)
	click(m, 2, m.layout.treeHeight)
	click(m, 2, 19)
	if m.screen.Len() != 0 {
		t.Fatalf("footer clicks should not place anchors, got %d", m.screen.Len())
	}
}

func TestUnhandledInputIsLogged(t *testing.T) {
	t.Parallel()

	m, ring := newTestModel(t)
	m.Update(tea.KeyMsg{Type: tea.KeyF5})
	m.Update(tea.MouseMsg{X: 1, Y: 1, Type: tea.MouseWheelUp})

	got := ring.Lines()
	if len(got) != 2 {
		t.Fatalf("expected two warnings, got %q", got)
	}
	if got[1] != "WARN - unhandled key (key=f5)" {
		t.Fatalf("key warning mismatch: %q", got[1])
	}
	if !strings.HasPrefix(got[0], "WARN - unhandled mouse event") {
		t.Fatalf("mouse warning mismatch: %q", got[0])
	}
	if m.screen.Len() != 0 {
		t.Fatal("ignored input must not change the screen")
	}
}

func TestTypingWithoutSelectionIsIgnored(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t)
	click(m, 0, 0)
	typeText(m, "zzz")
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m.Update(tea.KeyMsg{Type: tea.KeyDelete})

	anchor, _ := m.screen.Anchor(outline.Coords{})
	node, _ := m.screen.Arena().Node(anchor.Root)
	if node.Content.Text != "new" || len(node.Children) != 0 {
		t.Fatalf("edits without a selection must be no-ops, got %+v", node)
	}
}

func TestExitQuits(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		msg  tea.KeyMsg
	}{
		{name: "ctrl+c", msg: tea.KeyMsg{Type: tea.KeyCtrlC}},
		{name: "esc", msg: tea.KeyMsg{Type: tea.KeyEsc}},
		{name: "alt+esc", msg: tea.KeyMsg{Type: tea.KeyEsc, Alt: true}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m, _ := newTestModel(t)
			_, cmd := m.Update(tc.msg)
			if cmd == nil {
				t.Fatal("exit should return a command")
			}
			if _, ok := cmd().(tea.QuitMsg); !ok {
				t.Fatalf("exit should quit, got %T", cmd())
			}
		})
	}
}

func TestSaveUsesSaver(t *testing.T) {
	t.Parallel()

	m, ring := newTestModel(t)
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if got := ring.Lines()[0]; got != "WARN - no store attached; nothing saved" {
		t.Fatalf("missing saver warning: %q", got)
	}

	saver := &fakeSaver{}
	m.config.Saver = saver
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if saver.calls != 1 || saver.hint != "hint" {
		t.Fatalf("saver not called with the screen's hint: %+v", saver)
	}
	if got := ring.Lines()[0]; got != "INFO - saved (path=/tmp/void.db)" {
		t.Fatalf("save not logged: %q", got)
	}

	saver.err = errors.New("disk full")
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if got := ring.Lines()[0]; got != "ERROR - save failed (error=disk full)" {
		t.Fatalf("save failure not logged: %q", got)
	}
}

func TestCopySelectedText(t *testing.T) {
	t.Parallel()

	m, ring := newTestModel(t)
	var copied string
	m.config.Clipboard = func(text string) error {
		copied = text
		return nil
	}
	click(m, 0, 0)
	click(m, 0, 0)
	typeText(m, "!")
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlY})
	if copied != "new!" {
		t.Fatalf("clipboard mismatch: got %q want %q", copied, "new!")
	}
	if got := ring.Lines()[0]; got != "INFO - copied (runes=4)" {
		t.Fatalf("copy not logged: %q", got)
	}
}

func TestConfiguredKeysReplaceDefaults(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t)
	keys := m.config.Keys
	keys.Child = []string{"ctrl+n"}
	m.keys = newKeyMap(keys)

	click(m, 0, 0)
	click(m, 0, 0)
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	anchor, _ := m.screen.Anchor(outline.Coords{})
	if got := anchor.Height(m.screen.Arena()); got != 1 {
		t.Fatalf("tab should no longer add a child, height %d", got)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	if got := anchor.Height(m.screen.Arena()); got != 2 {
		t.Fatalf("ctrl+n should add a child, height %d", got)
	}
}
