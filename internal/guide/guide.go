package guide

import (
	"fmt"
	"strings"

	"github.com/csheth/voidmap/internal/config"
)

// Step is one onboarding hint shown on an empty screen.
type Step struct {
	Title       string
	Description string
}

// Build returns the onboarding walkthrough for the active key bindings.
func Build(keys config.Keys) []Step {
	return []Step{
		{
			Title:       "Place a tree",
			Description: "Click anywhere on empty space to drop a new root there. Click it again to select it.",
		},
		{
			Title:       "Grow it",
			Description: fmt.Sprintf("With a node selected, type to edit its text, %s to erase, and %s to add a child below it.", describe(keys.Backspace), describe(keys.Child)),
		},
		{
			Title:       "Fold and prune",
			Description: fmt.Sprintf("%s collapses or expands the selected node; %s deletes it with everything beneath it.", describe(keys.Toggle), describe(keys.Delete)),
		},
		{
			Title:       "Keep it",
			Description: fmt.Sprintf("%s saves now and %s saves and quits. The file stays encrypted with your key hint.", describe(keys.Save), describe(keys.Exit)),
		},
	}
}

// describe renders a binding's keys for prose, e.g. "alt+esc or ctrl+c".
func describe(keys []string) string {
	switch len(keys) {
	case 0:
		return "(unbound)"
	case 1:
		return keys[0]
	default:
		return strings.Join(keys[:len(keys)-1], ", ") + " or " + keys[len(keys)-1]
	}
}
