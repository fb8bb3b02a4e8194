package outline

import (
	"strings"
	"unicode/utf8"
)

const (
	rootGlyph    = "⚒ "
	branchMid    = "├─ "
	branchLast   = "└─ "
	threadMid    = "│  "
	threadLast   = "   "
	rootIndent   = "  "
	collapseMark = "…"

	rootGlyphWidth = 2
	branchWidth    = 3
)

// prefixWidth is the width of the connective prefix drawn before a node's
// branch glyph. The root's children sit under the root glyph; every deeper
// level adds one thread column group.
func prefixWidth(depth int) int {
	if depth <= 0 {
		return 0
	}
	return rootGlyphWidth + branchWidth*(depth-1)
}

// rowWidth is the number of columns a node's label row occupies at depth.
// Layout and hit-testing both measure rows with it.
func rowWidth(depth int, node *Node) int {
	width := node.Content.Len()
	if depth == 0 {
		width += rootGlyphWidth
	} else {
		width += prefixWidth(depth) + branchWidth
	}
	if node.Collapsed {
		width++
	}
	return width
}

// Row is one laid-out label: a node drawn at an absolute position.
type Row struct {
	Anchor    Coords
	Node      NodeID
	X         int
	Y         int
	Depth     int
	Prefix    string
	Branch    string
	Text      string
	Collapsed bool
	Selected  bool
}

// Label is the full text drawn for the row, starting at column X.
func (r Row) Label() string {
	var b strings.Builder
	if r.Depth == 0 {
		b.WriteString(rootGlyph)
	}
	b.WriteString(r.Prefix)
	b.WriteString(r.Branch)
	b.WriteString(r.Text)
	if r.Collapsed {
		b.WriteString(collapseMark)
	}
	return b.String()
}

// Width is the number of columns Label occupies.
func (r Row) Width() int {
	return utf8.RuneCountInString(r.Label())
}

// Layout walks every anchor in coordinate order and each tree depth-first,
// pre-order, assigning consecutive rows from the anchor's position. Collapsed
// nodes keep their children out of the result.
func (s *Screen) Layout() []Row {
	var rows []Row
	for _, anchor := range s.Anchors() {
		rows, _ = s.layoutNode(rows, anchor.Position, anchor.Root, "", 0, anchor.Position.Y, false)
	}
	return rows
}

func (s *Screen) layoutNode(rows []Row, anchor Coords, id NodeID, prefix string, depth, y int, last bool) ([]Row, int) {
	node, ok := s.arena.Node(id)
	if !ok {
		return rows, 0
	}
	row := Row{
		Anchor:    anchor,
		Node:      id,
		X:         anchor.X,
		Y:         y,
		Depth:     depth,
		Prefix:    prefix,
		Text:      node.Content.Render(),
		Collapsed: node.Collapsed,
		Selected:  node.Selected,
	}
	if depth > 0 {
		row.Branch = branchMid
		if last {
			row.Branch = branchLast
		}
	}
	rows = append(rows, row)

	drawn := 1
	if node.Collapsed {
		return rows, drawn
	}
	childPrefix := prefix
	switch {
	case depth == 0:
		childPrefix += rootIndent
	case last:
		childPrefix += threadLast
	default:
		childPrefix += threadMid
	}
	for i, child := range node.Children {
		var height int
		rows, height = s.layoutNode(rows, anchor, child, childPrefix, depth+1, y+drawn, i == len(node.Children)-1)
		drawn += height
	}
	return rows, drawn
}
