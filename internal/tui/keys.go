package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/csheth/voidmap/internal/config"
)

type keyMap struct {
	Toggle    key.Binding
	Child     key.Binding
	Delete    key.Binding
	Backspace key.Binding
	Save      key.Binding
	Exit      key.Binding
	Copy      key.Binding
	Help      key.Binding
}

func newKeyMap(keys config.Keys) keyMap {
	bind := func(names []string, desc string) key.Binding {
		return key.NewBinding(key.WithKeys(names...), key.WithHelp(strings.Join(names, "/"), desc))
	}
	return keyMap{
		Toggle:    bind(keys.Toggle, "fold"),
		Child:     bind(keys.Child, "add child"),
		Delete:    bind(keys.Delete, "delete"),
		Backspace: bind(keys.Backspace, "erase"),
		Save:      bind(keys.Save, "save"),
		Exit:      bind(keys.Exit, "save & quit"),
		Copy:      bind(keys.Copy, "copy"),
		Help:      bind(keys.Help, "help"),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Child, k.Toggle, k.Delete, k.Save, k.Exit, k.Help}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Child, k.Toggle, k.Delete, k.Backspace},
		{k.Save, k.Copy, k.Exit, k.Help},
	}
}
