package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/noborus/ov/oviewer"

	"combosearch/internal/domain"
	inputtypes "combosearch/internal/ui/input/types"
)

// pagerMsg contains the result of a pager command
type pagerMsg struct {
	err error
}

// HelpRenderer renders the content shown in the pager
type HelpRenderer struct {
	titleStyle   lipgloss.Style
	sectionStyle lipgloss.Style
	keyStyle     lipgloss.Style
	descStyle    lipgloss.Style
	noteStyle    lipgloss.Style
}

// NewHelpRenderer creates a new help renderer
func NewHelpRenderer() *HelpRenderer {
	return &HelpRenderer{
		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			MarginBottom(1),
		sectionStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			MarginTop(1),
		keyStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		descStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		noteStyle: lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("241")),
	}
}

func (r *HelpRenderer) line(help *strings.Builder, key, desc string) {
	help.WriteString(fmt.Sprintf("  %s  %s\n", r.keyStyle.Render(fmt.Sprintf("%-10s", key)), r.descStyle.Render(desc)))
}

// RenderHelpContent generates the help page
func (r *HelpRenderer) RenderHelpContent(keys inputtypes.KeyMap, variant string, minLength int) string {
	var help strings.Builder

	// Title
	help.WriteString(r.titleStyle.Render("combosearch Help"))
	help.WriteString("\n")

	// Search box section
	help.WriteString(r.sectionStyle.Render("Search box"))
	help.WriteString("\n")
	r.line(&help, "type", "Search the catalog; results follow after a short pause")
	r.line(&help, keys.Down.Help().Key, "Highlight the next result")
	r.line(&help, keys.Up.Help().Key, "Highlight the previous result, or none above the first")
	r.line(&help, keys.Select.Help().Key, "Select the highlighted result")
	r.line(&help, keys.Close.Help().Key, "Close the dropdown")
	help.WriteString("\n")

	// Mouse section
	help.WriteString(r.sectionStyle.Render("Mouse"))
	help.WriteString("\n")
	r.line(&help, "hover", "Highlight a result")
	r.line(&help, "click", "Select a result, or open the dropdown from the search box")
	r.line(&help, "wheel", "Scroll the results; more pages load at the end of the list")
	help.WriteString("\n")

	// Other section
	help.WriteString(r.sectionStyle.Render("Other"))
	help.WriteString("\n")
	r.line(&help, keys.Focus.Help().Key, "Focus or leave the search box")
	r.line(&help, keys.Details.Help().Key, "Show every field of the selected item")
	r.line(&help, keys.Help.Help().Key, "Show this help")
	r.line(&help, keys.QuitAlt.Help().Key, "Quit when the search box is not focused")
	r.line(&help, keys.Quit.Help().Key, "Quit")
	help.WriteString("\n")

	note := fmt.Sprintf("Variant %q. Queries shorter than %d characters are not searched.", variant, minLength)
	help.WriteString(r.noteStyle.Render(note))

	return help.String()
}

// RenderDetailsContent generates the details page of an item
func (r *HelpRenderer) RenderDetailsContent(item domain.Item) string {
	var details strings.Builder

	details.WriteString(r.titleStyle.Render(item.Label))
	details.WriteString("\n")
	if item.Subtitle != "" {
		details.WriteString(r.noteStyle.Render(item.Subtitle))
		details.WriteString("\n\n")
	}

	width := len("ID")
	for _, f := range item.Fields {
		if len(f.Name) > width {
			width = len(f.Name)
		}
	}
	row := func(name, value string) {
		details.WriteString(fmt.Sprintf("  %s  %s\n",
			r.keyStyle.Render(fmt.Sprintf("%-*s", width, name)),
			r.descStyle.Render(value)))
	}
	row("ID", item.ID)
	for _, f := range item.Fields {
		row(f.Name, f.Value)
	}

	return details.String()
}

// PagerOps runs the ov pager on top of the program
type PagerOps struct {
	program *tea.Program // reference to Bubble Tea program for terminal management
}

// NewPagerOps creates a new pager operations instance
func NewPagerOps() *PagerOps {
	return &PagerOps{}
}

// SetProgram sets the program reference
func (p *PagerOps) SetProgram(program *tea.Program) {
	p.program = program
}

// ShowInPager shows content using ov pager
func (p *PagerOps) ShowInPager(content string) error {
	if p.program == nil {
		return fmt.Errorf("program not set")
	}

	// Release terminal control to run ov
	if err := p.program.ReleaseTerminal(); err != nil {
		return err
	}

	// Ensure terminal is restored even if ov fails
	defer func() {
		// Small delay to ensure ov has fully exited before restoring terminal
		time.Sleep(100 * time.Millisecond)
		_ = p.program.RestoreTerminal() // Ignore error as we're in defer context
	}()

	root, err := oviewer.NewRoot(strings.NewReader(content))
	if err != nil {
		return err
	}

	// Configure ov to not write on exit (to avoid messing with our screen)
	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	// Run the oviewer (this will take over the terminal)
	return root.Run()
}
