package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-snake/internal/core"
)

// colorStyles maps board roles to 256-color terminal styles. The palette
// follows the PNG renderer: violet head, crimson body, gold food.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault: lipgloss.NewStyle(),
	core.ColorHead:    lipgloss.NewStyle().Foreground(lipgloss.Color("213")).Bold(true),
	core.ColorBody:    lipgloss.NewStyle().Foreground(lipgloss.Color("160")),
	core.ColorFood:    lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
	core.ColorFrame:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	core.ColorHUD:     lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
	core.ColorBanner:  lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// centerText pads text on the left so that it is centered in width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}
