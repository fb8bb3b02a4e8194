package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"
)

func (m *model) View() string {
	c := newCanvas(m.layout.width, m.layout.treeHeight)
	if m.screen.Len() == 0 {
		m.drawGuide(c)
	} else {
		for _, row := range m.screen.Layout() {
			t := tonePlain
			if row.Selected {
				t = toneSelected
			}
			c.write(row.X, row.Y, row.Label(), t)
		}
	}

	lines := c.lines()
	lines = append(lines, m.logPanel()...)
	lines = append(lines, m.help.View(m.keys))
	return strings.Join(lines, "\n")
}

// drawGuide fills an empty map with the onboarding steps.
func (m *model) drawGuide(c *canvas) {
	y := 1
	c.write(2, y, guideTitle, toneGuideTitle)
	y += 2
	wrap := m.layout.width - 7
	if wrap < 20 {
		wrap = 20
	}
	for i, step := range m.guide {
		c.write(2, y, fmt.Sprintf("%d. %s", i+1, step.Title), toneGuideTitle)
		y++
		for _, line := range strings.Split(wordwrap.String(step.Description, wrap), "\n") {
			c.write(5, y, line, toneGuide)
			y++
		}
		y++
	}
}

// logPanel renders the recent log lines, newest first, under a fixed
// header. It always spans the ring's capacity so the map area keeps a
// stable height.
func (m *model) logPanel() []string {
	size := m.config.Ring.Size()
	lines := make([]string, 0, size+1)
	lines = append(lines, sectionHeaderStyle.Render(logPanelTitle))
	recent := m.config.Ring.Lines()
	for i := 0; i < size; i++ {
		if i >= len(recent) {
			lines = append(lines, "")
			continue
		}
		line := truncate.StringWithTail(recent[i], uint(m.layout.width), "…")
		lines = append(lines, levelStyle(line).Render(line))
	}
	return lines
}

func levelStyle(line string) lipgloss.Style {
	switch {
	case strings.HasPrefix(line, "ERROR"):
		return errorStyle
	case strings.HasPrefix(line, "WARN"):
		return warnStyle
	default:
		return helperStyle
	}
}

func (m *model) footerHeight() int {
	return 1 + m.config.Ring.Size() + lipgloss.Height(m.help.View(m.keys))
}
