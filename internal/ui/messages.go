package ui

import (
	"time"

	"wikipath/internal/autocomplete"
	"wikipath/internal/eventbus"
	"wikipath/internal/runner"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// suggestionsMsg carries a settled autocomplete lookup
type suggestionsMsg struct {
	result autocomplete.Result
}

// runOutcomeMsg carries a settled /run request
type runOutcomeMsg struct {
	outcome runner.Outcome
}

// clearStatusMsg clears the status line if it still shows the message set at the given time
type clearStatusMsg struct {
	set time.Time
}

// QuitMsg asks the model to tear down and quit
type QuitMsg struct{}

// pauseRenderingMsg signals to pause Bubble Tea rendering
type pauseRenderingMsg struct{}

// resumeRenderingMsg signals to resume Bubble Tea rendering
type resumeRenderingMsg struct{}
