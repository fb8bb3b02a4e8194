package store

import (
	"fmt"

	"github.com/csheth/voidmap/internal/codec"
	"github.com/csheth/voidmap/internal/outline"
)

// document is the plaintext form of a screen. Anchors are stored in
// coordinate order and selection is never persisted.
type document struct {
	Anchors []anchorDoc `cbor:"anchors"`
}

type anchorDoc struct {
	X    int     `cbor:"x"`
	Y    int     `cbor:"y"`
	Root nodeDoc `cbor:"root"`
}

type nodeDoc struct {
	Kind      string    `cbor:"kind"`
	Text      string    `cbor:"text,omitempty"`
	Samples   []int64   `cbor:"samples,omitempty"`
	Collapsed bool      `cbor:"collapsed,omitempty"`
	Children  []nodeDoc `cbor:"children,omitempty"`
}

// Encode serializes every anchor tree of screen. Equal screens encode to
// equal bytes.
func Encode(screen *outline.Screen) ([]byte, error) {
	doc := document{Anchors: []anchorDoc{}}
	arena := screen.Arena()
	for _, anchor := range screen.Anchors() {
		root, ok := encodeNode(arena, anchor.Root)
		if !ok {
			continue
		}
		doc.Anchors = append(doc.Anchors, anchorDoc{
			X:    anchor.Position.X,
			Y:    anchor.Position.Y,
			Root: root,
		})
	}
	data, err := codec.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding screen: %w", err)
	}
	return data, nil
}

func encodeNode(arena *outline.Arena, id outline.NodeID) (nodeDoc, bool) {
	node, ok := arena.Node(id)
	if !ok {
		return nodeDoc{}, false
	}
	doc := nodeDoc{
		Kind:      node.Content.Kind.String(),
		Text:      node.Content.Text,
		Samples:   node.Content.Samples,
		Collapsed: node.Collapsed,
	}
	for _, child := range node.Children {
		if childDoc, ok := encodeNode(arena, child); ok {
			doc.Children = append(doc.Children, childDoc)
		}
	}
	return doc, true
}

// Decode rebuilds a screen from Encode output. Empty input is an empty
// screen.
func Decode(data []byte) (*outline.Screen, error) {
	screen := outline.NewScreen()
	if len(data) == 0 {
		return screen, nil
	}
	var doc document
	if err := codec.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding screen: %w", err)
	}
	arena := screen.Arena()
	for _, anchor := range doc.Anchors {
		content, err := decodeContent(anchor.Root)
		if err != nil {
			return nil, err
		}
		root := arena.NewNode(content)
		if err := decodeInto(arena, root, anchor.Root); err != nil {
			return nil, err
		}
		screen.Insert(outline.Coords{X: anchor.X, Y: anchor.Y}, root)
	}
	return screen, nil
}

// decodeInto copies doc's flags and children onto the already allocated id.
func decodeInto(arena *outline.Arena, id outline.NodeID, doc nodeDoc) error {
	node, _ := arena.Node(id)
	node.Collapsed = doc.Collapsed
	for _, childDoc := range doc.Children {
		content, err := decodeContent(childDoc)
		if err != nil {
			return err
		}
		child, err := arena.AddChild(id, content)
		if err != nil {
			return err
		}
		if err := decodeInto(arena, child, childDoc); err != nil {
			return err
		}
	}
	return nil
}

func decodeContent(doc nodeDoc) (outline.Content, error) {
	kind, err := outline.ParseContentKind(doc.Kind)
	if err != nil {
		return outline.Content{}, fmt.Errorf("decoding screen: %w", err)
	}
	if kind == outline.KindPlot {
		return outline.PlotContent(doc.Samples...), nil
	}
	return outline.TextContent(doc.Text), nil
}
