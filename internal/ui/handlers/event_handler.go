package handlers

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"combosearch/internal/eventbus"
)

// statusTTL is how long transient status messages stay visible
const statusTTL = 3 * time.Second

// ClearStatusMsg clears a transient status message with the given id
type ClearStatusMsg struct {
	ID int
}

// Status is the UI state fed by domain events
type Status struct {
	Message  string // transient, cleared after statusTTL
	msgID    int
	Loaded   int // results loaded for the active query
	Total    int // server-declared total, 0 when unknown
	Selected int // selections made this session
}

// EventHandler handles domain events and updates the status state
type EventHandler struct {
	status *Status
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{status: &Status{}}
}

// Status returns the current status state
func (h *EventHandler) Status() Status {
	return *h.status
}

// HandleEvent processes domain events and returns any necessary commands
func (h *EventHandler) HandleEvent(event eventbus.DomainEvent) tea.Cmd {
	switch e := event.(type) {
	case eventbus.QuerySettledEvent:
		h.status.Loaded = 0
		h.status.Total = 0

	case eventbus.PageLoadedEvent:
		h.status.Loaded = e.Accumulated
		if e.Page == 1 {
			h.status.Total = 0
		}
		if !e.HasMore {
			h.status.Total = e.Accumulated
		}

	case eventbus.FetchFailedEvent:
		return h.flash(fmt.Sprintf("Could not load page %d of %q", e.Page, e.Query))

	case eventbus.ItemSelectedEvent:
		h.status.Selected++

	case eventbus.ConfigLoadedEvent:
		return h.flash(fmt.Sprintf("Loaded %s (%s source)", e.Path, e.Source))

	case eventbus.ConfigSavedEvent:
		return h.flash("Saved " + e.Path)
	}
	return nil
}

// HandleClear clears the status message if msg belongs to it
func (h *EventHandler) HandleClear(msg ClearStatusMsg) {
	if msg.ID == h.status.msgID {
		h.status.Message = ""
	}
}

func (h *EventHandler) flash(message string) tea.Cmd {
	h.status.msgID++
	h.status.Message = message
	id := h.status.msgID
	return tea.Tick(statusTTL, func(time.Time) tea.Msg { return ClearStatusMsg{ID: id} })
}
