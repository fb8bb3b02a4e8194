package tui

// pageLayout splits the terminal into the map area on top and the footer
// (log panel plus help) below it.
type pageLayout struct {
	width        int
	height       int
	treeHeight   int
	footerHeight int
}

func newPageLayout() pageLayout {
	var l pageLayout
	l.Update(defaultWidth, defaultHeight, 0)
	return l
}

func (l *pageLayout) Update(width, height, footerHeight int) {
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}
	l.width = width
	l.height = height
	l.footerHeight = footerHeight
	l.treeHeight = height - footerHeight
	if l.treeHeight < 0 {
		l.treeHeight = 0
	}
}

// cell is one terminal position of the map area. The zero cell is blank.
type cell struct {
	r    rune
	tone tone
}

// canvas is the map area as a grid of cells. Later writes overwrite
// earlier ones, so trees drawn later win where they overlap.
type canvas struct {
	width int
	grid  [][]cell
}

func newCanvas(width, height int) *canvas {
	grid := make([][]cell, height)
	for i := range grid {
		grid[i] = make([]cell, width)
	}
	return &canvas{width: width, grid: grid}
}

// write draws text from (x, y), clipping at the canvas edges.
func (c *canvas) write(x, y int, text string, t tone) {
	if y < 0 || y >= len(c.grid) {
		return
	}
	col := x
	for _, r := range text {
		if col >= c.width {
			return
		}
		if col >= 0 {
			c.grid[y][col] = cell{r: r, tone: t}
		}
		col++
	}
}

// lines renders each grid row, styling runs of equal tone together and
// dropping trailing blanks.
func (c *canvas) lines() []string {
	out := make([]string, len(c.grid))
	for y, row := range c.grid {
		end := len(row)
		for end > 0 && row[end-1].r == 0 {
			end--
		}
		var b []byte
		for start := 0; start < end; {
			t := row[start].tone
			stop := start
			var run []rune
			for stop < end && row[stop].tone == t {
				r := row[stop].r
				if r == 0 {
					r = ' '
				}
				run = append(run, r)
				stop++
			}
			if style, ok := t.style(); ok {
				b = append(b, style.Render(string(run))...)
			} else {
				b = append(b, string(run)...)
			}
			start = stop
		}
		out[y] = string(b)
	}
	return out
}
