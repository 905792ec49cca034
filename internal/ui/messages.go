package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"combosearch/internal/eventbus"
	"combosearch/internal/search"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// controllerMsg carries the result of a search controller command
type controllerMsg struct {
	msg search.Msg
}

// pauseRenderingMsg signals to pause Bubble Tea rendering
type pauseRenderingMsg struct{}

// resumeRenderingMsg signals to resume Bubble Tea rendering
type resumeRenderingMsg struct{}

// wrap turns a controller command into a Bubble Tea command
func wrap(cmd search.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	return func() tea.Msg {
		msg := cmd()
		if msg == nil {
			return nil
		}
		return controllerMsg{msg: msg}
	}
}
