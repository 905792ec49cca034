package views

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"combosearch/internal/domain"
)

// CardRenderer renders the selected item below the dropdown
type CardRenderer struct {
	styles *Styles
}

// NewCardRenderer creates a new card renderer
func NewCardRenderer(styles *Styles) *CardRenderer {
	return &CardRenderer{styles: styles}
}

// maxCardFields caps how many fields the card shows; ctrl+o shows all
const maxCardFields = 4

// Render returns the card for item followed by the recent selections
func (r *CardRenderer) Render(item domain.Item, recent []domain.Item, width int) string {
	inner := width - 4 // border and padding
	if inner < 10 {
		inner = 10
	}

	var b strings.Builder
	b.WriteString(r.styles.CardTitle.Render(runewidth.Truncate("Selected: "+item.Label, inner, "…")))
	if item.Subtitle != "" {
		b.WriteString("\n")
		b.WriteString(r.styles.Subtitle.Render(runewidth.Truncate(item.Subtitle, inner, "…")))
	}

	for i, f := range item.Fields {
		if i == maxCardFields {
			break
		}
		name := f.Name + ": "
		value := runewidth.Truncate(f.Value, inner-runewidth.StringWidth(name), "…")
		b.WriteString("\n")
		b.WriteString(r.styles.FieldName.Render(name) + r.styles.FieldValue.Render(value))
	}

	var earlier []string
	for _, prev := range recent {
		if prev.ID != item.ID {
			earlier = append(earlier, prev.Label)
		}
	}
	if len(earlier) > 0 {
		b.WriteString("\n")
		b.WriteString(r.styles.Dim.Render(runewidth.Truncate("Earlier: "+strings.Join(earlier, ", "), inner, "…")))
	}

	return r.styles.Card.Width(width - 2).Render(b.String())
}
