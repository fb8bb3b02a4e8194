// Package outline holds the spatial tree model: node content, the node
// arena, anchors placed at absolute screen coordinates, and the Screen
// registry that hit-tests clicks and lays trees out for rendering.
package outline

import "errors"

var (
	// ErrNotFound indicates that a node identity is not (or no longer) in the arena.
	ErrNotFound = errors.New("outline: node not found")

	// ErrInvalidOperation indicates an edit the node's content does not support,
	// such as typing into a plot.
	ErrInvalidOperation = errors.New("outline: operation not supported by content")
)
