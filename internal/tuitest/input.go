package tuitest

var (
	// KeyEnter sends a carriage return to the PTY.
	KeyEnter = []byte{'\r'}
	// KeyTab sends a horizontal tab.
	KeyTab = []byte{'\t'}
	// KeyBackspace sends DEL, which terminals emit for backspace.
	KeyBackspace = []byte{0x7f}
	// KeyDelete sends the forward delete sequence.
	KeyDelete = []byte("\x1b[3~")
	// KeyCtrlC requests the program to terminate.
	KeyCtrlC = []byte{3}
	// KeyCtrlS asks the program to save.
	KeyCtrlS = []byte{0x13}
	// KeyEsc sends a bare escape.
	KeyEsc = []byte{27}
	// KeyAltEsc sends escape prefixed by the meta escape.
	KeyAltEsc = []byte{27, 27}
)

// x10Offset is added to zero-based cell coordinates in X10 mouse reports.
const x10Offset = 33

// x10Max is the largest zero-based coordinate an X10 report can carry.
const x10Max = 255 - x10Offset

// MouseClick encodes a left press and release at the zero-based cell (x, y)
// as X10 mouse reports. Coordinates beyond the encodable range are clamped.
func MouseClick(x, y int) []byte {
	out := mouseReport(0, x, y)
	return append(out, mouseReport(3, x, y)...)
}

// MousePress encodes a left press at (x, y) without a release.
func MousePress(x, y int) []byte {
	return mouseReport(0, x, y)
}

// Text returns s as raw keystrokes.
func Text(s string) []byte {
	return []byte(s)
}

func mouseReport(button byte, x, y int) []byte {
	return []byte{27, '[', 'M', 32 + button, clampCell(x), clampCell(y)}
}

func clampCell(v int) byte {
	switch {
	case v < 0:
		v = 0
	case v > x10Max:
		v = x10Max
	}
	return byte(v + x10Offset)
}
