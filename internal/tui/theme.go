package tui

import "github.com/charmbracelet/lipgloss"

type uiStyles struct {
	header    lipgloss.Style
	tab       lipgloss.Style
	tabActive lipgloss.Style
	colHead   lipgloss.Style
	row       lipgloss.Style
	sel       lipgloss.Style
	dim       lipgloss.Style
	errBanner lipgloss.Style
	status    lipgloss.Style
	pager     lipgloss.Style
	pagerCur  lipgloss.Style
	modal     lipgloss.Style
}

func newStyles() uiStyles {
	return uiStyles{
		header:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")),
		tab:       lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(0, 1),
		tabActive: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).Padding(0, 1),
		colHead:   lipgloss.NewStyle().Bold(true).Underline(true),
		row:       lipgloss.NewStyle(),
		sel:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
		dim:       lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		errBanner: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		status:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		pager:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		pagerCur:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")),
		modal:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 2),
	}
}
