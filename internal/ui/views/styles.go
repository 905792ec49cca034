package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title        lipgloss.Style
	Dim          lipgloss.Style
	Status       lipgloss.Style
	Input        lipgloss.Style
	InputFocused lipgloss.Style
	Prompt       lipgloss.Style
	Dropdown     lipgloss.Style
	Item         lipgloss.Style
	ItemActive   lipgloss.Style
	Highlight    lipgloss.Style
	Subtitle     lipgloss.Style
	Footer       lipgloss.Style
	Error        lipgloss.Style
	Spinner      lipgloss.Style
	Card         lipgloss.Style
	CardTitle    lipgloss.Style
	FieldName    lipgloss.Style
	FieldValue   lipgloss.Style
	Help         lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			MarginBottom(1),
		Dim:    lipgloss.NewStyle().Faint(true),
		Status: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Input: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("241")).
			Padding(0, 1),
		InputFocused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("99")).
			Padding(0, 1),
		Prompt: lipgloss.NewStyle().Foreground(lipgloss.Color("99")),
		Dropdown: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("241")),
		Item:       lipgloss.NewStyle(),
		ItemActive: lipgloss.NewStyle().Background(lipgloss.Color("238")),
		Highlight:  lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		Subtitle:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Footer:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		Error:      lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		Spinner:    lipgloss.NewStyle().Foreground(lipgloss.Color("99")),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("78")).
			Padding(0, 1),
		CardTitle:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("78")), // green
		FieldName:  lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		FieldValue: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Help:       lipgloss.NewStyle().Faint(true),
	}
}
