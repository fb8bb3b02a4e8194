package tui

import "github.com/charmbracelet/lipgloss"

const (
	defaultWidth  = 80
	defaultHeight = 24

	logPanelTitle = "logs:"
	guideTitle    = "voidmap: an empty map"
)

// tone selects how a canvas cell is styled.
type tone uint8

const (
	tonePlain tone = iota
	toneSelected
	toneGuide
	toneGuideTitle
)

var (
	selectedStyle      = lipgloss.NewStyle().Reverse(true)
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	helperStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	warnStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func (t tone) style() (lipgloss.Style, bool) {
	switch t {
	case toneSelected:
		return selectedStyle, true
	case toneGuide:
		return helperStyle, true
	case toneGuideTitle:
		return sectionHeaderStyle, true
	default:
		return lipgloss.Style{}, false
	}
}
