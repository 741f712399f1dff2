// Package common provides shared styles for the UI.
package common

import "github.com/charmbracelet/lipgloss"

// Icon constants
const (
	ChairIcon    = "🪑"
	TrapIcon     = "⚡"
	SatIcon      = "🧍"
	OutIcon      = "💀"
	SetterIcon   = "😈"
	SitterIcon   = "😰"
	WinnerIcon   = "🏆"
	DrawIcon     = "🤝"
	ChairsPerRow = 6
)

// Lipgloss Styles
var (
	DocStyle     = lipgloss.NewStyle().Margin(1, 2)
	TitleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("228")).Bold(true).Render
	BoxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	PromptStyle  = lipgloss.NewStyle().MarginTop(1)
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	NoticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	ShockStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700")).Bold(true)
	SafeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	ChairStyle   = lipgloss.NewStyle().Width(5).Align(lipgloss.Center)
	GoneStyle    = lipgloss.NewStyle().Width(5).Align(lipgloss.Center).Foreground(lipgloss.Color("240"))
	HeaderStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	FocusedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
)
