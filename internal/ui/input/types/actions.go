package types

// Navigation actions
type MoveAction struct {
	Direction string // "up" or "down"
}

func (a MoveAction) Type() string { return "move" }

// SelectAction picks the highlighted result
type SelectAction struct{}

func (a SelectAction) Type() string { return "select" }

type CloseAction struct{}

func (a CloseAction) Type() string { return "close" }

type OpenAction struct{}

func (a OpenAction) Type() string { return "open" }

// Focus actions
type FocusAction struct{}

func (a FocusAction) Type() string { return "focus" }

type BlurAction struct{}

func (a BlurAction) Type() string { return "blur" }

// Mode transition actions
type ChangeModeAction struct {
	Mode Mode
}

func (a ChangeModeAction) Type() string { return "change_mode" }

// Text input actions
type UpdateTextAction struct {
	Text string
}

func (a UpdateTextAction) Type() string { return "update_text" }

// Pager actions
type ShowHelpAction struct{}

func (a ShowHelpAction) Type() string { return "show_help" }

type ShowDetailsAction struct{}

func (a ShowDetailsAction) Type() string { return "show_details" }

type QuitAction struct {
	Force bool // true for Ctrl+C, false for 'q'
}

func (a QuitAction) Type() string { return "quit" }
