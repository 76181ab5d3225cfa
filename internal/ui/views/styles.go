package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title           lipgloss.Style
	Label           lipgloss.Style
	LabelFocused    lipgloss.Style
	Input           lipgloss.Style
	InputFocused    lipgloss.Style
	Suggestion      lipgloss.Style
	SuggestionHover lipgloss.Style
	Dim             lipgloss.Style
	Status          lipgloss.Style
	StatusError     lipgloss.Style
	StatusSuccess   lipgloss.Style
	Help            lipgloss.Style
	Main            lipgloss.Style
	Card            lipgloss.Style
	CardTitle       lipgloss.Style
	PathIndex       lipgloss.Style
	PathLink        lipgloss.Style
	URL             lipgloss.Style
	Elapsed         lipgloss.Style
	Modal           lipgloss.Style
	ModalTitle      lipgloss.Style
	ModalButton     lipgloss.Style
	Loader          lipgloss.Style
	Spinner         lipgloss.Style
	Scroll          lipgloss.Style
	Backdrop        lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			MarginBottom(1),
		Label:           lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12),
		LabelFocused:    lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true).Width(12),
		Input:           lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		InputFocused:    lipgloss.NewStyle().Foreground(lipgloss.Color("255")),
		Suggestion:      lipgloss.NewStyle().Foreground(lipgloss.Color("250")).PaddingLeft(14),
		SuggestionHover: lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Background(lipgloss.Color("238")).PaddingLeft(14),
		Dim:             lipgloss.NewStyle().Faint(true),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1),
		StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")).MarginTop(1), // red
		StatusSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("78")).MarginTop(1),  // green
		Help:          lipgloss.NewStyle().Faint(true),
		Main: lipgloss.NewStyle().
			Padding(1, 2),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("241")).
			Padding(0, 1),
		CardTitle:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("78")),
		PathIndex:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		PathLink:    lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Underline(true),
		URL:         lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		Elapsed:     lipgloss.NewStyle().Bold(true),
		Modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("203")).
			Padding(1, 3),
		ModalTitle:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		ModalButton: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("203")).Padding(0, 2),
		Loader: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("33")).
			Padding(1, 3),
		Spinner:  lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		Scroll:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		Backdrop: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
}
