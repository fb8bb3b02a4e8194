// Package logring keeps the last few log lines in memory for the editor's
// log panel and wires them into log/slog alongside an optional log file.
package logring

import "sync"

// DefaultSize is the number of lines the log panel shows.
const DefaultSize = 5

// Ring holds the most recent log lines. It is safe for concurrent use.
type Ring struct {
	mu    sync.Mutex
	lines []string
	next  int
	full  bool
}

// NewRing returns a ring holding up to size lines. A non-positive size
// falls back to DefaultSize.
func NewRing(size int) *Ring {
	if size <= 0 {
		size = DefaultSize
	}
	return &Ring{lines: make([]string, size)}
}

// Size is the ring's capacity.
func (r *Ring) Size() int {
	return len(r.lines)
}

// Push records line, evicting the oldest line once the ring is full.
func (r *Ring) Push(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines[r.next] = line
	r.next = (r.next + 1) % len(r.lines)
	if r.next == 0 {
		r.full = true
	}
}

// Lines returns the retained lines, most recent first.
func (r *Ring) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := r.next
	if r.full {
		count = len(r.lines)
	}
	out := make([]string, 0, count)
	for i := 1; i <= count; i++ {
		idx := (r.next - i + len(r.lines)) % len(r.lines)
		out = append(out, r.lines[idx])
	}
	return out
}
