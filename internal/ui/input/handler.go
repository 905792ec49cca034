package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"combosearch/internal/ui/input/modes"
	"combosearch/internal/ui/input/types"
)

type Handler struct {
	currentMode types.Mode
	modes       map[types.Mode]types.ModeHandler
	textInput   *textinput.Model // the search box
	keys        types.KeyMap
}

func New(placeholder string) *Handler {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "" // Prompt is handled in the UI layer
	ti.CharLimit = 256

	h := &Handler{
		currentMode: types.ModeBlurred,
		textInput:   &ti,
		modes:       make(map[types.Mode]types.ModeHandler),
		keys:        types.DefaultKeyMap(),
	}

	// Register all mode handlers
	h.modes[types.ModeFocused] = modes.NewFocusedMode(h.keys)
	h.modes[types.ModeBlurred] = modes.NewBlurredMode(h.keys)

	return h
}

func (h *Handler) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, tea.Cmd) {
	handler := h.modes[h.currentMode]
	if handler == nil {
		return nil, nil
	}

	actions, consumed := handler.HandleKey(msg, ctx)

	// If not consumed and we're not typing, drop the key
	if !consumed && h.currentMode != types.ModeFocused {
		return nil, nil
	}

	var cmds []tea.Cmd
	var allActions []types.Action

	for _, action := range actions {
		if changeMode, ok := action.(types.ChangeModeAction); ok {
			modeActions, cmd := h.ChangeMode(changeMode.Mode, ctx)
			allActions = append(allActions, modeActions...)
			cmds = append(cmds, cmd)
		} else {
			allActions = append(allActions, action)
		}
	}

	// Unbound keys edit the search text
	if h.currentMode == types.ModeFocused && !consumed {
		before := h.textInput.Value()
		var textCmd tea.Cmd
		*h.textInput, textCmd = h.textInput.Update(msg)
		cmds = append(cmds, textCmd)
		if after := h.textInput.Value(); after != before {
			allActions = append(allActions, types.UpdateTextAction{Text: after})
		}
	}

	return allActions, tea.Batch(cmds...)
}

// ChangeMode switches modes and returns the exit and enter actions
func (h *Handler) ChangeMode(mode types.Mode, ctx types.Context) ([]types.Action, tea.Cmd) {
	if mode == h.currentMode {
		return nil, nil
	}

	var actions []types.Action
	if old := h.modes[h.currentMode]; old != nil {
		actions = append(actions, old.Exit(ctx)...)
	}
	h.currentMode = mode
	if next := h.modes[h.currentMode]; next != nil {
		actions = append(actions, next.Enter(ctx)...)
	}

	// Handle text input focus
	if mode == types.ModeFocused {
		return actions, h.textInput.Focus()
	}
	h.textInput.Blur()
	return actions, nil
}

// ClickInput handles a mouse press on the search box: it focuses the box,
// or opens the dropdown when the box already has focus
func (h *Handler) ClickInput(ctx types.Context) ([]types.Action, tea.Cmd) {
	if h.currentMode != types.ModeFocused {
		return h.ChangeMode(types.ModeFocused, ctx)
	}
	return []types.Action{types.OpenAction{}}, nil
}

func (h *Handler) CurrentMode() types.Mode {
	return h.currentMode
}

func (h *Handler) Keys() types.KeyMap {
	return h.keys
}

// Value returns the search text
func (h *Handler) Value() string {
	return h.textInput.Value()
}

// SetValue replaces the search text without reporting an edit
func (h *Handler) SetValue(text string) {
	h.textInput.SetValue(text)
	h.textInput.CursorEnd()
}

// SetWidth sets the visible width of the search box
func (h *Handler) SetWidth(width int) {
	if width < 1 {
		width = 1
	}
	h.textInput.Width = width
}

// View renders the search box
func (h *Handler) View() string {
	return h.textInput.View()
}

// Update handles non-keyboard messages for text input
func (h *Handler) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	*h.textInput, cmd = h.textInput.Update(msg)
	return cmd
}

// Init returns the initial command for the handler
func (h *Handler) Init() tea.Cmd {
	return textinput.Blink
}
