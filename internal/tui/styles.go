package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorText    = lipgloss.Color("#cdd6f4")
	colorMuted   = lipgloss.Color("#a6adc8")
	colorAccent  = lipgloss.Color("#cba6f7")
	colorSuccess = lipgloss.Color("#94e2d5")
	colorWarning = lipgloss.Color("#f9e2af")
	colorDanger  = lipgloss.Color("#f38ba8")
)

type styles struct {
	title   lipgloss.Style
	meta    lipgloss.Style
	empty   lipgloss.Style
	pending lipgloss.Style
	locked  lipgloss.Style
	focus   lipgloss.Style
	label   lipgloss.Style
	hint    lipgloss.Style
	status  lipgloss.Style
	failure lipgloss.Style
}

func defaultStyles() styles {
	cell := lipgloss.NewStyle().Width(3).Align(lipgloss.Center)
	return styles{
		title:   lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
		meta:    lipgloss.NewStyle().Foreground(colorMuted),
		empty:   cell.Foreground(colorText),
		pending: cell.Foreground(colorWarning).Bold(true),
		locked:  cell.Foreground(colorSuccess).Bold(true),
		focus:   cell.Reverse(true),
		label:   cell.Foreground(colorMuted).Faint(true),
		hint:    lipgloss.NewStyle().Italic(true).Foreground(colorMuted),
		status:  lipgloss.NewStyle().Foreground(colorText),
		failure: lipgloss.NewStyle().Foreground(colorDanger).Bold(true),
	}
}
