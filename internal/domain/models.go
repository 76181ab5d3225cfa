package domain

import "fmt"

// MinQueryLength is the shortest trimmed autocomplete query ever sent to the server
const MinQueryLength = 2

// Resubmit policies for a submit that arrives while a run is loading
const (
	ResubmitIgnore  = "ignore"
	ResubmitRestart = "restart"
)

// Mode is the single source of truth for what the results region shows
type Mode int

const (
	ModeIdle Mode = iota
	ModeLoading
	ModeShowingResults
	ModeShowingError
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "Idle"
	case ModeLoading:
		return "Loading"
	case ModeShowingResults:
		return "ShowingResults"
	case ModeShowingError:
		return "ShowingError"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Field identifies an autocomplete-enabled input
type Field string

const (
	FieldStart Field = "start"
	FieldEnd   Field = "end"
)

// RunRequest is the payload of a search submission
type RunRequest struct {
	Start     string
	End       string
	K         int // beam width
	TimeLimit int // seconds
	MaxDepth  int
}

// RunResult is either a Success or a Failure
type RunResult interface {
	isRunResult()
}

// Success carries a found path
type Success struct {
	Links          []string
	ElapsedSeconds float64
}

// Failure carries a server-authored message
type Failure struct {
	Message string
}

func (Success) isRunResult() {}
func (Failure) isRunResult() {}
