package outline

import "fmt"

// Coords is an absolute (or anchor-local) cell position. Columns grow to
// the right and rows grow downward, both from zero.
type Coords struct {
	X int
	Y int
}

// Less orders coordinates column first, then row. Anchors are drawn and
// hit-tested in this order.
func (c Coords) Less(other Coords) bool {
	if c.X != other.X {
		return c.X < other.X
	}
	return c.Y < other.Y
}

func (c Coords) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Anchor pins the root of one tree to a screen position.
type Anchor struct {
	Position Coords
	Root     NodeID
}

// Height is the number of rows the anchor's tree occupies.
func (an *Anchor) Height(arena *Arena) int {
	return arena.Height(an.Root)
}

// Lookup resolves a position relative to the anchor into the node whose
// label covers it.
func (an *Anchor) Lookup(arena *Arena, local Coords) (NodeID, bool) {
	root, ok := arena.Node(an.Root)
	if !ok || local.X < 0 || local.Y < 0 {
		return 0, false
	}
	if local.Y == 0 {
		if local.X < rowWidth(0, root) {
			return root.ID, true
		}
		return 0, false
	}
	return lookupChildren(arena, root, 0, local)
}

// lookupChildren walks parent's visible children, consuming each child's
// height until it reaches the one whose rows contain local.Y. local is
// relative to parent's own label row.
func lookupChildren(arena *Arena, parent *Node, depth int, local Coords) (NodeID, bool) {
	if parent.Collapsed {
		return 0, false
	}
	traversed := 1
	for _, id := range parent.Children {
		child, ok := arena.Node(id)
		if !ok {
			continue
		}
		height := arena.Height(id)
		switch {
		case local.Y == traversed:
			if local.X < rowWidth(depth+1, child) {
				return id, true
			}
			return 0, false
		case local.Y < traversed+height:
			return lookupChildren(arena, child, depth+1, Coords{X: local.X, Y: local.Y - traversed})
		}
		traversed += height
	}
	return 0, false
}
