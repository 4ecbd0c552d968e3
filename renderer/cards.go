package renderer

import (
	"github.com/charmbracelet/lipgloss"
)

const cardWidth = 24

// Cards renders the headline cards of p side by side for a terminal.
func Cards(p *Performance) string {
	blocks := make([]string, 0, len(p.Cards))
	for _, c := range p.Cards {
		color := lipgloss.Color(c.Color)
		title := lipgloss.NewStyle().Bold(true).Render(c.Title)
		value := lipgloss.NewStyle().Foreground(color).Bold(!c.NoData).Render(c.Value)
		hint := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorMuted)).Render(c.Hint)
		box := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(color).
			Padding(0, 1).
			Width(cardWidth).
			Render(lipgloss.JoinVertical(lipgloss.Left, title, value, hint))
		blocks = append(blocks, box)
	}
	out := lipgloss.JoinHorizontal(lipgloss.Top, blocks...)
	if p.Placeholder != "" {
		out = lipgloss.JoinVertical(lipgloss.Left, out, lipgloss.NewStyle().Foreground(lipgloss.Color(ColorMuted)).Render(p.Placeholder))
	}
	return out
}
