package outline

import (
	"fmt"
	"slices"
)

// NodeID identifies a node within an Arena. IDs are never reused, so an ID
// held after its node was deleted simply fails to resolve.
type NodeID uint64

// Node is one vertex of an outline tree. Children lists the IDs the node
// owns, in render order.
type Node struct {
	ID        NodeID
	Content   Content
	Children  []NodeID
	Selected  bool
	Collapsed bool
}

// defaultText is the label of every freshly created node.
const defaultText = "new"

// Arena owns every node of a Screen. Parents reference children by ID and
// the Screen's selection holds a non-owning ID, which is the only aliasing
// the model allows.
type Arena struct {
	nodes map[NodeID]*Node
	next  NodeID
}

// NewArena returns an empty arena.
func NewArena() *Arena {
	return &Arena{nodes: map[NodeID]*Node{}}
}

// NewNode allocates a detached node holding content.
func (a *Arena) NewNode(content Content) NodeID {
	a.next++
	id := a.next
	a.nodes[id] = &Node{ID: id, Content: content}
	return id
}

// Node resolves id. The second result is false once the node is gone.
func (a *Arena) Node(id NodeID) (*Node, bool) {
	node, ok := a.nodes[id]
	return node, ok
}

// Len is the number of live nodes.
func (a *Arena) Len() int {
	return len(a.nodes)
}

func (a *Arena) lookup(id NodeID) (*Node, error) {
	node, ok := a.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node %d: %w", id, ErrNotFound)
	}
	return node, nil
}

// AddChild appends a new node holding content as the last child of parent.
func (a *Arena) AddChild(parent NodeID, content Content) (NodeID, error) {
	node, err := a.lookup(parent)
	if err != nil {
		return 0, err
	}
	child := a.NewNode(content)
	node.Children = append(node.Children, child)
	return child, nil
}

// CreateChild appends an empty "new" text node as the last child of parent.
func (a *Arena) CreateChild(parent NodeID) (NodeID, error) {
	return a.AddChild(parent, TextContent(defaultText))
}

// Append types r into the node's text.
func (a *Arena) Append(id NodeID, r rune) error {
	node, err := a.lookup(id)
	if err != nil {
		return err
	}
	return node.Content.Append(r)
}

// Backspace removes the last rune of the node's text.
func (a *Arena) Backspace(id NodeID) error {
	node, err := a.lookup(id)
	if err != nil {
		return err
	}
	return node.Content.Backspace()
}

// ToggleCollapsed flips the node's collapsed flag. Descendant flags are
// left untouched.
func (a *Arena) ToggleCollapsed(id NodeID) error {
	node, err := a.lookup(id)
	if err != nil {
		return err
	}
	node.Collapsed = !node.Collapsed
	return nil
}

// Height is the number of rows the node occupies: its own label plus the
// heights of its children unless it is collapsed. Unknown IDs occupy none.
func (a *Arena) Height(id NodeID) int {
	node, ok := a.nodes[id]
	if !ok {
		return 0
	}
	if node.Collapsed {
		return 1
	}
	height := 1
	for _, child := range node.Children {
		height += a.Height(child)
	}
	return height
}

// Size counts the nodes of the subtree rooted at id, collapsed or not.
func (a *Arena) Size(id NodeID) int {
	node, ok := a.nodes[id]
	if !ok {
		return 0
	}
	size := 1
	for _, child := range node.Children {
		size += a.Size(child)
	}
	return size
}

// Delete removes target from the subtree under root. Each level checks its
// direct children before descending, child by child in order, and the first
// match is unlinked from its parent and released. The root itself is never
// matched; deleting a root is the Screen's job.
func (a *Arena) Delete(root, target NodeID) bool {
	parent, ok := a.nodes[root]
	if !ok {
		return false
	}
	if idx := slices.Index(parent.Children, target); idx >= 0 {
		parent.Children = slices.Delete(parent.Children, idx, idx+1)
		a.Release(target)
		return true
	}
	for _, child := range parent.Children {
		if a.Delete(child, target) {
			return true
		}
	}
	return false
}

// Release drops the subtree rooted at id from the arena without touching
// whichever parent may still list it.
func (a *Arena) Release(id NodeID) {
	node, ok := a.nodes[id]
	if !ok {
		return
	}
	delete(a.nodes, id)
	for _, child := range node.Children {
		a.Release(child)
	}
}
