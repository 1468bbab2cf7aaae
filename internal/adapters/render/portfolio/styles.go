package portfolio

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title      lipgloss.Style
	header     lipgloss.Style
	name       lipgloss.Style
	detail     lipgloss.Style
	warning    lipgloss.Style
	section    lipgloss.Style
	empty      lipgloss.Style
	key        lipgloss.Style
	meta       lipgloss.Style
	barBracket lipgloss.Style
	barFill    lipgloss.Style
	barEmpty   lipgloss.Style
	active     lipgloss.Style
	zombie     lipgloss.Style
	critical   lipgloss.Style
	cancelled  lipgloss.Style
	kill       lipgloss.Style
	safe       lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:      lipgloss.NewStyle().Bold(true),
		header:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		name:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		detail:     lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		warning:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		section:    lipgloss.NewStyle().MarginTop(1),
		empty:      lipgloss.NewStyle().Faint(true),
		key:        lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		meta:       lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		barBracket: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		barFill:    lipgloss.NewStyle().Foreground(lipgloss.Color("159")),
		barEmpty:   lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		active:     lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		zombie:     lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		critical:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		cancelled:  lipgloss.NewStyle().Faint(true),
		kill:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		safe:       lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
	}
}
