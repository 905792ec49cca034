package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventQuerySettled EventType = "QuerySettled"
	EventPageLoaded   EventType = "PageLoaded"
	EventFetchFailed  EventType = "FetchFailed"
	EventItemSelected EventType = "ItemSelected"
	EventConfigLoaded EventType = "ConfigLoaded"
	EventConfigSaved  EventType = "ConfigSaved"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// QuerySettledEvent is emitted when the debounced query changes
type QuerySettledEvent struct {
	Query string
}

func (e QuerySettledEvent) Type() EventType { return EventQuerySettled }

// PageLoadedEvent is emitted when a page was applied to the result set
type PageLoadedEvent struct {
	Query       string
	Page        int
	Count       int
	HasMore     bool
	Accumulated int
}

func (e PageLoadedEvent) Type() EventType { return EventPageLoaded }

// FetchFailedEvent is emitted when a page could not be loaded
type FetchFailedEvent struct {
	Query string
	Page  int
	Err   error
}

func (e FetchFailedEvent) Type() EventType { return EventFetchFailed }

// ItemSelectedEvent is emitted when the user picks a result
type ItemSelectedEvent struct {
	Item Item
}

func (e ItemSelectedEvent) Type() EventType { return EventItemSelected }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Path   string
	Source string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct {
	Path string
}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }
