package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventRunStarted         EventType = "RunStarted"
	EventRunSucceeded       EventType = "RunSucceeded"
	EventRunFailed          EventType = "RunFailed"
	EventRunErrored         EventType = "RunErrored"
	EventRunCancelled       EventType = "RunCancelled"
	EventErrorDismissed     EventType = "ErrorDismissed"
	EventCancelNoticeSent   EventType = "CancelNoticeSent"
	EventSuggestionsUpdated EventType = "SuggestionsUpdated"
	EventError              EventType = "Error"
	EventConfigLoaded       EventType = "ConfigLoaded"
	EventConfigSaved        EventType = "ConfigSaved"
	EventAppReady           EventType = "AppReady"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// RunStartedEvent is emitted when a search is submitted
type RunStartedEvent struct {
	OpID    string
	Request RunRequest
}

func (e RunStartedEvent) Type() EventType { return EventRunStarted }

// RunSucceededEvent is emitted when the server found a path
type RunSucceededEvent struct {
	OpID   string
	Result Success
}

func (e RunSucceededEvent) Type() EventType { return EventRunSucceeded }

// RunFailedEvent is emitted when the server reported a non-OK status
type RunFailedEvent struct {
	OpID    string
	Message string
}

func (e RunFailedEvent) Type() EventType { return EventRunFailed }

// RunErroredEvent is emitted on a transport-level failure
type RunErroredEvent struct {
	OpID string
	Err  error
}

func (e RunErroredEvent) Type() EventType { return EventRunErrored }

// RunCancelledEvent is emitted when the user cancels a loading run
type RunCancelledEvent struct {
	OpID string
}

func (e RunCancelledEvent) Type() EventType { return EventRunCancelled }

// ErrorDismissedEvent is emitted when the error modal is closed
type ErrorDismissedEvent struct{}

func (e ErrorDismissedEvent) Type() EventType { return EventErrorDismissed }

// CancelNoticeSentEvent is emitted once the server cancel notice settles
type CancelNoticeSentEvent struct {
	OpID string
	Err  error // nil when the server accepted the notice
}

func (e CancelNoticeSentEvent) Type() EventType { return EventCancelNoticeSent }

// SuggestionsUpdatedEvent is emitted when a field's list is repopulated
type SuggestionsUpdatedEvent struct {
	Field Field
	Query string
	Count int
}

func (e SuggestionsUpdatedEvent) Type() EventType { return EventSuggestionsUpdated }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	ServerURL string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct{}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }

// AppReadyEvent is emitted when the UI knows its terminal size and renders its first frame
type AppReadyEvent struct {
	Width  int
	Height int
}

func (e AppReadyEvent) Type() EventType { return EventAppReady }
