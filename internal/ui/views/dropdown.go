package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"combosearch/internal/domain"
	"combosearch/internal/search"
)

// Dropdown is the state needed to render the result list
type Dropdown struct {
	State         search.State
	Items         []domain.Item
	Start, End    int // visible window
	Cursor        int
	Query         string // text to highlight in labels
	MinLength     int
	ShowNoResults bool
	LoadingMore   bool
	FooterVisible bool
	Err           error
	Spinner       string
	Width         int
}

// DropdownRenderer renders the result list below the search box
type DropdownRenderer struct {
	styles *Styles
}

// NewDropdownRenderer creates a new dropdown renderer
func NewDropdownRenderer(styles *Styles) *DropdownRenderer {
	return &DropdownRenderer{styles: styles}
}

// Render returns the dropdown box, or "" when it is closed
func (r *DropdownRenderer) Render(d Dropdown) string {
	if d.State == search.StateClosed {
		return ""
	}
	inner := d.Width - 2 // border
	if inner < 10 {
		inner = 10
	}

	var rows []string
	switch {
	case d.State == search.StateOpenLoading:
		rows = append(rows, d.Spinner+" "+r.styles.Footer.Render("Searching..."))
	case d.State == search.StateOpenNoResults && d.ShowNoResults:
		rows = append(rows, r.styles.Dim.Render("No results found"))
	case d.State == search.StateOpenEmpty, d.State == search.StateOpenNoResults:
		hint := "Type to search"
		if d.MinLength > 1 {
			hint = fmt.Sprintf("Type at least %d characters to search", d.MinLength)
		}
		rows = append(rows, r.styles.Dim.Render(hint))
	default:
		for i := d.Start; i < d.End && i < len(d.Items); i++ {
			rows = append(rows, r.renderItem(d.Items[i], d.Query, i == d.Cursor, inner))
		}
		if footer := r.renderFooter(d); footer != "" {
			rows = append(rows, footer)
		}
	}

	return r.styles.Dropdown.Width(inner).Render(strings.Join(rows, "\n"))
}

func (r *DropdownRenderer) renderFooter(d Dropdown) string {
	switch {
	case d.Err != nil:
		msg := "Failed to load results: " + d.Err.Error()
		if len(d.Items) > 0 {
			msg = "Failed to load more: " + d.Err.Error()
		}
		return r.styles.Error.Render(runewidth.Truncate(msg, d.Width-2, "…"))
	case d.LoadingMore:
		return d.Spinner + " " + r.styles.Footer.Render("Loading more...")
	case d.FooterVisible:
		return r.styles.Footer.Render("…")
	}
	return ""
}

// renderItem renders one result row: marker, highlighted label, subtitle
func (r *DropdownRenderer) renderItem(item domain.Item, query string, active bool, width int) string {
	base := r.styles.Item
	marker := "  "
	if active {
		base = r.styles.ItemActive
		marker = "› "
	}
	highlight := r.styles.Highlight.Inherit(base)
	subtitleStyle := r.styles.Subtitle.Inherit(base)

	avail := width - runewidth.StringWidth(marker)
	label := runewidth.Truncate(item.Label, avail, "…")
	line := base.Render(marker) + r.highlightMatch(label, query, highlight, base)

	rest := avail - runewidth.StringWidth(label)
	if item.Subtitle != "" && rest > 4 {
		sub := runewidth.Truncate(item.Subtitle, rest-2, "…")
		line += base.Render("  ") + subtitleStyle.Render(sub)
	}

	// pad so the active background spans the row
	if pad := width - lipgloss.Width(line); pad > 0 {
		line += base.Render(strings.Repeat(" ", pad))
	}
	return line
}

// highlightMatch highlights the first case-insensitive occurrence of query
func (r *DropdownRenderer) highlightMatch(text, query string, highlightStyle, normalStyle lipgloss.Style) string {
	start, end := matchRange(text, query)
	if start < 0 {
		return normalStyle.Render(text)
	}

	// Split the text into parts
	before := text[:start]
	match := text[start:end]
	after := text[end:]

	// Render with appropriate styles
	var result []string
	if before != "" {
		result = append(result, normalStyle.Render(before))
	}
	result = append(result, highlightStyle.Render(match))
	if after != "" {
		result = append(result, normalStyle.Render(after))
	}

	return strings.Join(result, "")
}

// matchRange returns the byte range of the first case-insensitive
// occurrence of query in text, or -1, -1
func matchRange(text, query string) (int, int) {
	if query == "" {
		return -1, -1
	}
	textRunes := []rune(text)
	queryRunes := []rune(strings.ToLower(query))
	lowerRunes := []rune(strings.ToLower(text))
	if len(lowerRunes) != len(textRunes) {
		// case mapping changed the rune count; fall back to no highlight
		return -1, -1
	}

	for i := 0; i+len(queryRunes) <= len(lowerRunes); i++ {
		if string(lowerRunes[i:i+len(queryRunes)]) == string(queryRunes) {
			start := len(string(textRunes[:i]))
			end := start + len(string(textRunes[i:i+len(queryRunes)]))
			return start, end
		}
	}
	return -1, -1
}
