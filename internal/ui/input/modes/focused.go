package modes

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"combosearch/internal/ui/input/types"
)

// FocusedMode is active while the search box has focus. The four combobox
// keys drive the dropdown; unbound keys go to the text input.
type FocusedMode struct {
	keys types.KeyMap
}

func NewFocusedMode(keys types.KeyMap) *FocusedMode {
	return &FocusedMode{keys: keys}
}

func (m *FocusedMode) Name() string {
	return "focused"
}

func (m *FocusedMode) Enter(ctx types.Context) []types.Action {
	return []types.Action{types.FocusAction{}}
}

func (m *FocusedMode) Exit(ctx types.Context) []types.Action {
	return []types.Action{types.BlurAction{}}
}

func (m *FocusedMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return []types.Action{types.QuitAction{Force: true}}, true

	case key.Matches(msg, m.keys.Down):
		return []types.Action{types.MoveAction{Direction: "down"}}, true

	case key.Matches(msg, m.keys.Up):
		return []types.Action{types.MoveAction{Direction: "up"}}, true

	case key.Matches(msg, m.keys.Select):
		// with nothing highlighted enter is a no-op
		return []types.Action{types.SelectAction{}}, true

	case key.Matches(msg, m.keys.Close):
		return []types.Action{types.CloseAction{}}, true

	case key.Matches(msg, m.keys.Focus):
		return []types.Action{types.ChangeModeAction{Mode: types.ModeBlurred}}, true

	case key.Matches(msg, m.keys.Help):
		return []types.Action{types.ShowHelpAction{}}, true

	case key.Matches(msg, m.keys.Details):
		if !ctx.HasSelection() {
			return nil, true
		}
		return []types.Action{types.ShowDetailsAction{}}, true
	}

	// Let the handler update the text input
	return nil, false
}
