package outline

import (
	"errors"
	"log/slog"
	"slices"
)

// Selection is a weak reference to the selected node and the anchor that
// owns it. It is revalidated against the arena on every use.
type Selection struct {
	Anchor Coords
	Node   NodeID
}

// Screen is the registry of anchors keyed by position, plus the current
// selection and the session metadata of the store it was loaded from.
type Screen struct {
	WorkPath string
	KeyHint  string

	arena     *Arena
	anchors   map[Coords]*Anchor
	selection *Selection
	logger    *slog.Logger
}

// NewScreen returns an empty screen logging through slog.Default.
func NewScreen() *Screen {
	return &Screen{
		arena:   NewArena(),
		anchors: map[Coords]*Anchor{},
		logger:  slog.Default(),
	}
}

// SetLogger replaces the logger used to report absorbed edit errors.
func (s *Screen) SetLogger(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	s.logger = logger
}

// Arena exposes the node storage backing the screen.
func (s *Screen) Arena() *Arena {
	return s.arena
}

// Len is the number of anchors.
func (s *Screen) Len() int {
	return len(s.anchors)
}

// Anchor returns the anchor registered at pos.
func (s *Screen) Anchor(pos Coords) (*Anchor, bool) {
	anchor, ok := s.anchors[pos]
	return anchor, ok
}

// Anchors returns every anchor in coordinate order.
func (s *Screen) Anchors() []*Anchor {
	anchors := make([]*Anchor, 0, len(s.anchors))
	for _, anchor := range s.anchors {
		anchors = append(anchors, anchor)
	}
	slices.SortFunc(anchors, func(a, b *Anchor) int {
		switch {
		case a.Position.Less(b.Position):
			return -1
		case b.Position.Less(a.Position):
			return 1
		default:
			return 0
		}
	})
	return anchors
}

// Insert registers root at pos. An anchor already at pos is replaced and
// its tree released.
func (s *Screen) Insert(pos Coords, root NodeID) *Anchor {
	if previous, ok := s.anchors[pos]; ok && previous.Root != root {
		s.arena.Release(previous.Root)
	}
	anchor := &Anchor{Position: pos, Root: root}
	s.anchors[pos] = anchor
	return anchor
}

// CreateAnchor places a new tree whose root reads "new" at pos.
func (s *Screen) CreateAnchor(pos Coords) *Anchor {
	return s.Insert(pos, s.arena.NewNode(TextContent(defaultText)))
}

// RemoveAnchor unregisters the anchor at pos and releases its tree.
func (s *Screen) RemoveAnchor(pos Coords) bool {
	anchor, ok := s.anchors[pos]
	if !ok {
		return false
	}
	delete(s.anchors, pos)
	s.arena.Release(anchor.Root)
	return true
}

// Lookup maps an absolute position to the node drawn there. Every anchor
// whose rows span pos is asked to resolve it and the last resolution in
// coordinate order wins.
func (s *Screen) Lookup(pos Coords) (Selection, bool) {
	var (
		hit   Selection
		found bool
	)
	for _, anchor := range s.Anchors() {
		origin := anchor.Position
		if pos.X < origin.X || pos.Y < origin.Y || pos.Y-origin.Y >= anchor.Height(s.arena) {
			continue
		}
		local := Coords{X: pos.X - origin.X, Y: pos.Y - origin.Y}
		if id, ok := anchor.Lookup(s.arena, local); ok {
			hit = Selection{Anchor: origin, Node: id}
			found = true
		}
	}
	return hit, found
}

// Selected returns the current selection if it still points at a live node
// of a registered anchor. A stale selection is dropped.
func (s *Screen) Selected() (Selection, bool) {
	if s.selection == nil {
		return Selection{}, false
	}
	sel := *s.selection
	if _, ok := s.anchors[sel.Anchor]; !ok {
		s.selection = nil
		return Selection{}, false
	}
	if _, ok := s.arena.Node(sel.Node); !ok {
		s.selection = nil
		return Selection{}, false
	}
	return sel, true
}

// Select marks sel's node as the only selected node.
func (s *Screen) Select(sel Selection) {
	s.Deselect()
	node, ok := s.arena.Node(sel.Node)
	if !ok {
		return
	}
	if _, ok := s.anchors[sel.Anchor]; !ok {
		return
	}
	node.Selected = true
	s.selection = &sel
}

// Deselect clears the selection and the selected node's flag.
func (s *Screen) Deselect() {
	if s.selection == nil {
		return
	}
	if node, ok := s.arena.Node(s.selection.Node); ok {
		node.Selected = false
	}
	s.selection = nil
}

// Press handles a pointer press at pos. A press on a node selects it; a
// press on empty space drops the selection and places a new anchor there
// without selecting it. It reports whether a node was hit.
func (s *Screen) Press(pos Coords) bool {
	s.Deselect()
	if sel, ok := s.Lookup(pos); ok {
		s.Select(sel)
		return true
	}
	s.CreateAnchor(pos)
	s.logger.Info("created anchor", "at", pos.String())
	return false
}

// ToggleSelected collapses or expands the selected node.
func (s *Screen) ToggleSelected() {
	sel, ok := s.Selected()
	if !ok {
		return
	}
	s.absorb("toggle", s.arena.ToggleCollapsed(sel.Node))
}

// CreateChildOfSelected appends a "new" child to the selected node.
func (s *Screen) CreateChildOfSelected() {
	sel, ok := s.Selected()
	if !ok {
		return
	}
	_, err := s.arena.CreateChild(sel.Node)
	s.absorb("create child", err)
}

// DeleteSelected removes the selected node and its subtree. Deleting an
// anchor's root removes the whole anchor. The selection is always cleared.
func (s *Screen) DeleteSelected() {
	sel, ok := s.Selected()
	if !ok {
		return
	}
	s.Deselect()
	anchor := s.anchors[sel.Anchor]
	if anchor.Root == sel.Node {
		s.RemoveAnchor(sel.Anchor)
		s.logger.Info("deleted anchor", "at", sel.Anchor.String())
		return
	}
	if !s.arena.Delete(anchor.Root, sel.Node) {
		s.absorb("delete", ErrNotFound)
	}
}

// BackspaceSelected removes the last rune of the selected node's text.
func (s *Screen) BackspaceSelected() {
	sel, ok := s.Selected()
	if !ok {
		return
	}
	s.absorb("backspace", s.arena.Backspace(sel.Node))
}

// AppendSelected types r into the selected node's text.
func (s *Screen) AppendSelected(r rune) {
	sel, ok := s.Selected()
	if !ok {
		return
	}
	s.absorb("append", s.arena.Append(sel.Node, r))
}

// absorb logs tree errors that never surface to the user.
func (s *Screen) absorb(op string, err error) {
	if err == nil {
		return
	}
	switch {
	case errors.Is(err, ErrInvalidOperation), errors.Is(err, ErrNotFound):
		s.logger.Debug("ignored edit", "op", op, "error", err)
	default:
		s.logger.Warn("edit failed", "op", op, "error", err)
	}
}
