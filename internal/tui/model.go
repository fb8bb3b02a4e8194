package tui

import (
	"log/slog"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/voidmap/internal/config"
	"github.com/csheth/voidmap/internal/guide"
	"github.com/csheth/voidmap/internal/logring"
	"github.com/csheth/voidmap/internal/outline"
)

// Saver persists a screen on demand. *store.Store satisfies it.
type Saver interface {
	Save(hint string, screen *outline.Screen) (bool, error)
}

// Config wires runtime options into the TUI program.
type Config struct {
	Screen *outline.Screen
	Ring   *logring.Ring
	Logger *slog.Logger
	Keys   config.Keys

	// Saver handles the save binding. Without one the binding only logs.
	Saver Saver

	// Clipboard receives copied node text. Defaults to the system clipboard.
	Clipboard func(string) error
}

// New returns a tea.Model ready to be mounted into a Program. The model
// edits cfg.Screen in place; the caller keeps ownership of it.
func New(cfg Config) tea.Model {
	if cfg.Screen == nil {
		cfg.Screen = outline.NewScreen()
	}
	if cfg.Ring == nil {
		cfg.Ring = logring.NewRing(logring.DefaultSize)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Keys.Exit == nil {
		cfg.Keys = config.Default().Keys
	}
	if cfg.Clipboard == nil {
		cfg.Clipboard = clipboard.WriteAll
	}

	m := &model{
		config: cfg,
		screen: cfg.Screen,
		logger: cfg.Logger,
		keys:   newKeyMap(cfg.Keys),
		help:   help.New(),
		guide:  guide.Build(cfg.Keys),
		layout: newPageLayout(),
	}
	m.layout.Update(m.layout.width, m.layout.height, m.footerHeight())
	return m
}

type model struct {
	config Config
	screen *outline.Screen
	logger *slog.Logger
	keys   keyMap
	help   help.Model
	guide  []guide.Step
	layout pageLayout

	// buttonDown is set between a left press and its release. Terminals
	// report drags as repeated left presses, which must not place anchors.
	buttonDown bool
}

func (m *model) Init() tea.Cmd {
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		m.layout.Update(msg.Width, msg.Height, m.footerHeight())
		return m, nil
	}
	return m, nil
}

func (m *model) handleMouse(msg tea.MouseMsg) {
	switch msg.Type {
	case tea.MouseLeft:
		if m.buttonDown {
			m.logger.Debug("ignored drag", "x", msg.X, "y", msg.Y)
			return
		}
		m.buttonDown = true
		if msg.Y >= m.layout.treeHeight || msg.X >= m.layout.width {
			m.logger.Debug("ignored click outside the map", "x", msg.X, "y", msg.Y)
			return
		}
		m.screen.Press(outline.Coords{X: msg.X, Y: msg.Y})
	case tea.MouseRelease:
		m.buttonDown = false
	case tea.MouseMotion:
		m.logger.Debug("ignored mouse motion", "x", msg.X, "y", msg.Y)
	default:
		m.logger.Warn("unhandled mouse event", "event", tea.MouseEvent(msg).String())
	}
}

func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Exit):
		return tea.Quit
	case key.Matches(msg, m.keys.Save):
		m.save()
		return nil
	case key.Matches(msg, m.keys.Toggle):
		m.screen.ToggleSelected()
		return nil
	case key.Matches(msg, m.keys.Child):
		m.screen.CreateChildOfSelected()
		return nil
	case key.Matches(msg, m.keys.Delete):
		m.screen.DeleteSelected()
		return nil
	case key.Matches(msg, m.keys.Backspace):
		m.screen.BackspaceSelected()
		return nil
	case key.Matches(msg, m.keys.Copy):
		m.copySelected()
		return nil
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.layout.Update(m.layout.width, m.layout.height, m.footerHeight())
		return nil
	}

	switch {
	case msg.Type == tea.KeyRunes && !msg.Alt:
		for _, r := range msg.Runes {
			m.screen.AppendSelected(r)
		}
	case msg.Type == tea.KeySpace:
		m.screen.AppendSelected(' ')
	default:
		m.logger.Warn("unhandled key", "key", msg.String())
	}
	return nil
}

func (m *model) save() {
	if m.config.Saver == nil {
		m.logger.Warn("no store attached; nothing saved")
		return
	}
	wrote, err := m.config.Saver.Save(m.screen.KeyHint, m.screen)
	switch {
	case err != nil:
		m.logger.Error("save failed", "error", err)
	case wrote:
		m.logger.Info("saved", "path", m.screen.WorkPath)
	default:
		m.logger.Info("no changes to save")
	}
}

func (m *model) copySelected() {
	sel, ok := m.screen.Selected()
	if !ok {
		m.logger.Debug("nothing selected to copy")
		return
	}
	node, _ := m.screen.Arena().Node(sel.Node)
	if err := m.config.Clipboard(node.Content.Render()); err != nil {
		m.logger.Warn("copy failed", "error", err)
		return
	}
	m.logger.Info("copied", "runes", node.Content.Len())
}
