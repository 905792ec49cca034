package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"combosearch/internal/domain"
)

// Screen rows of the fixed layout, counted from the top
const (
	HeaderHeight = 2 // title and its margin
	InputHeight  = 3 // bordered search box
	// ListTop is the row of the first result; the dropdown border sits above it
	ListTop = HeaderHeight + InputHeight + 1
	// ReservedRows is the space kept below the dropdown for the card and help
	ReservedRows = 10
	maxWidth     = 80
)

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width    int
	Height   int
	Title    string
	Source   string
	Variant  string
	Input    string // rendered text input
	Focused  bool
	Dropdown Dropdown
	Selected *domain.Item
	Recent   []domain.Item
	Status   string
	Help     string // rendered key help
}

// Renderer handles all view rendering
type Renderer struct {
	styles         *Styles
	dropdownRender *DropdownRenderer
	cardRender     *CardRenderer
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	styles := NewStyles()
	return &Renderer{
		styles:         styles,
		dropdownRender: NewDropdownRenderer(styles),
		cardRender:     NewCardRenderer(styles),
	}
}

// Styles returns the renderer styles
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// BoxWidth returns the width of the search box and dropdown for a terminal width
func BoxWidth(width int) int {
	w := width - 2
	if w > maxWidth {
		w = maxWidth
	}
	if w < 20 {
		w = 20
	}
	return w
}

// ListRows returns how many result rows fit for a terminal height
func ListRows(height, maxRows int) int {
	rows := height - ListTop - 1 - ReservedRows
	if rows > maxRows {
		rows = maxRows
	}
	if rows < 1 {
		rows = 1
	}
	return rows
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	width := BoxWidth(state.Width)
	content := &strings.Builder{}

	// Title line with the source on the right
	logo := r.styles.Title.Render(state.Title)
	info := r.styles.Status.Render(state.Source + " · " + state.Variant)
	gap := width - lipgloss.Width(state.Title) - lipgloss.Width(info)
	if gap < 1 {
		gap = 1
	}
	titleLines := strings.SplitN(logo, "\n", 2)
	titleLines[0] += strings.Repeat(" ", gap) + info
	content.WriteString(strings.Join(titleLines, "\n"))
	content.WriteString("\n")

	// Search box
	inputStyle := r.styles.Input
	if state.Focused {
		inputStyle = r.styles.InputFocused
	}
	prompt := r.styles.Prompt.Render("⌕ ")
	content.WriteString(inputStyle.Width(width - 2).Render(prompt + state.Input))

	// Dropdown directly below the search box
	d := state.Dropdown
	d.Width = width
	if dropdown := r.dropdownRender.Render(d); dropdown != "" {
		content.WriteString("\n")
		content.WriteString(dropdown)
	}

	if state.Selected != nil {
		content.WriteString("\n")
		content.WriteString(r.cardRender.Render(*state.Selected, state.Recent, width))
	}

	if state.Status != "" {
		content.WriteString("\n")
		content.WriteString(r.styles.Status.Render(state.Status))
	}

	content.WriteString("\n\n")
	content.WriteString(state.Help)

	return content.String()
}
