package tuitest

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Frame is a snapshot of the terminal grid. Rows keep their trailing blanks
// trimmed; every rune occupies one cell.
type Frame struct {
	Index int
	Lines []string
}

// Line returns row y, or "" outside the frame.
func (f Frame) Line(y int) string {
	if y < 0 || y >= len(f.Lines) {
		return ""
	}
	return f.Lines[y]
}

// At returns the rune drawn at cell (x, y); blank cells read as ' '.
func (f Frame) At(x, y int) rune {
	row := []rune(f.Line(y))
	if x < 0 || x >= len(row) {
		return ' '
	}
	return row[x]
}

// Find returns the cell where text first starts, scanning rows top down.
func (f Frame) Find(text string) (x, y int, ok bool) {
	for y, line := range f.Lines {
		if i := strings.Index(line, text); i >= 0 {
			return len([]rune(line[:i])), y, true
		}
	}
	return 0, 0, false
}

// Plain joins the rows with trailing blank rows dropped.
func (f Frame) Plain() string {
	lines := f.Lines
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

func (f Frame) blank() bool {
	return f.Plain() == ""
}

// FinalFrame returns the last frame that drew anything. The second return
// value is false when every frame was blank.
func (r *Recording) FinalFrame() (Frame, bool) {
	if r == nil {
		return Frame{}, false
	}
	for i := len(r.Frames) - 1; i >= 0; i-- {
		if !r.Frames[i].blank() {
			return r.Frames[i], true
		}
	}
	return Frame{}, false
}

// vterm is the subset of an xterm needed to replay a bubbletea program:
// cursor motion, erasing, scrolling and the alternate screen. Attributes
// and colors are dropped.
type vterm struct {
	width, height int
	grid          [][]rune
	saved         [][]rune // main buffer while the alternate screen is up
	savedX        int
	savedY        int
	x, y          int
	frames        []Frame
}

// replay feeds raw through a width×height terminal. A frame is taken each
// time the program leaves the alternate screen, and once at the end.
func replay(raw []byte, width, height int) []Frame {
	vt := &vterm{width: width, height: height, grid: blankGrid(width, height)}
	ansi.NewParser(32, 1024).Parse(vt.dispatch, raw)
	vt.snapshot()
	return vt.frames
}

func blankGrid(width, height int) [][]rune {
	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}
	return grid
}

func (vt *vterm) snapshot() {
	lines := make([]string, len(vt.grid))
	for i, row := range vt.grid {
		lines[i] = strings.TrimRight(string(row), " ")
	}
	vt.frames = append(vt.frames, Frame{Index: len(vt.frames), Lines: lines})
}

func (vt *vterm) dispatch(seq ansi.Sequence) {
	switch seq := seq.(type) {
	case ansi.Rune:
		if vt.x < vt.width {
			vt.grid[vt.y][vt.x] = rune(seq)
		}
		vt.x++
	case ansi.ControlCode:
		vt.control(byte(seq))
	case ansi.CsiSequence:
		vt.csi(seq)
	}
}

func (vt *vterm) control(c byte) {
	switch c {
	case '\r':
		vt.x = 0
	case '\n':
		if vt.y == vt.height-1 {
			vt.grid = append(vt.grid[1:], []rune(strings.Repeat(" ", vt.width)))
			return
		}
		vt.y++
	case '\b':
		vt.moveTo(vt.x-1, vt.y)
	}
}

func (vt *vterm) csi(seq ansi.CsiSequence) {
	n := seq.Param(0)
	if n <= 0 {
		n = 1
	}
	switch seq.Command() {
	case 'A':
		vt.moveTo(vt.x, vt.y-n)
	case 'B':
		vt.moveTo(vt.x, vt.y+n)
	case 'C':
		vt.moveTo(vt.x+n, vt.y)
	case 'D':
		vt.moveTo(vt.x-n, vt.y)
	case 'G':
		vt.moveTo(n-1, vt.y)
	case 'H', 'f':
		col := seq.Param(1)
		if col <= 0 {
			col = 1
		}
		vt.moveTo(col-1, n-1)
	case 'K':
		vt.eraseLine(seq.Param(0))
	case 'J':
		vt.eraseDisplay(seq.Param(0))
	case 'h', 'l':
		if seq.Marker() == '?' && seq.Param(0) == 1049 {
			vt.altScreen(seq.Command() == 'h')
		}
	}
}

func (vt *vterm) moveTo(x, y int) {
	vt.x = min(max(x, 0), vt.width-1)
	vt.y = min(max(y, 0), vt.height-1)
}

func (vt *vterm) eraseLine(mode int) {
	row := vt.grid[vt.y]
	from, to := vt.x, vt.width
	switch mode {
	case 1:
		from, to = 0, min(vt.x+1, vt.width)
	case 2:
		from = 0
	}
	for i := from; i < to; i++ {
		row[i] = ' '
	}
}

func (vt *vterm) eraseDisplay(mode int) {
	switch mode {
	case 2, 3:
		vt.grid = blankGrid(vt.width, vt.height)
	case 1:
		for y := 0; y < vt.y; y++ {
			vt.grid[y] = []rune(strings.Repeat(" ", vt.width))
		}
		vt.eraseLine(1)
	default:
		vt.eraseLine(0)
		for y := vt.y + 1; y < vt.height; y++ {
			vt.grid[y] = []rune(strings.Repeat(" ", vt.width))
		}
	}
}

func (vt *vterm) altScreen(enter bool) {
	switch {
	case enter && vt.saved == nil:
		vt.saved, vt.savedX, vt.savedY = vt.grid, vt.x, vt.y
		vt.grid = blankGrid(vt.width, vt.height)
	case !enter && vt.saved != nil:
		vt.snapshot()
		vt.grid, vt.x, vt.y = vt.saved, vt.savedX, vt.savedY
		vt.saved = nil
	}
}
