package modes

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"combosearch/internal/ui/input/types"
)

// BlurredMode is active while the search box does not have focus
type BlurredMode struct {
	keys types.KeyMap
}

func NewBlurredMode(keys types.KeyMap) *BlurredMode {
	return &BlurredMode{keys: keys}
}

func (m *BlurredMode) Name() string {
	return "blurred"
}

func (m *BlurredMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *BlurredMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *BlurredMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return []types.Action{types.QuitAction{Force: true}}, true

	case key.Matches(msg, m.keys.QuitAlt):
		return []types.Action{types.QuitAction{}}, true

	case key.Matches(msg, m.keys.Focus), key.Matches(msg, m.keys.Select), msg.String() == "/":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeFocused}}, true

	case key.Matches(msg, m.keys.Help):
		return []types.Action{types.ShowHelpAction{}}, true

	case key.Matches(msg, m.keys.Details):
		if !ctx.HasSelection() {
			return nil, true
		}
		return []types.Action{types.ShowDetailsAction{}}, true
	}
	return nil, false
}
