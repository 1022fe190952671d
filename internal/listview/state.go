package listview

import (
	"errors"
)

// Phase is the lifecycle stage of a controller.
type Phase int

// Controller phases.
const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseLoaded
	PhaseFailed
)

// String returns the lower-case phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseLoaded:
		return "loaded"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// State is a snapshot of a controller's view state.
// Items is set only in PhaseLoaded and Err only in PhaseFailed.
type State[E any] struct {
	Phase Phase
	Items []E
	Err   error
}

// Kind classifies the failure carried by the state.
func (s State[E]) Kind() ErrorKind {
	return KindOf(s.Err)
}

// Errors surfaced through PhaseFailed.
var (
	// ErrConfigMissing means the controller has no endpoint to fetch from.
	ErrConfigMissing = errors.New("endpoint not configured")

	// ErrFetch wraps transport, status and payload failures.
	ErrFetch = errors.New("fetch failed")
)

// ErrorKind is the caller-facing error taxonomy.
type ErrorKind int

// Error kinds.
const (
	ErrorKindNone ErrorKind = iota
	ErrorKindConfigMissing
	ErrorKindFetch
)

// String returns the kind name as shown to users.
func (k ErrorKind) String() string {
	switch k {
	case ErrorKindConfigMissing:
		return "ConfigMissing"
	case ErrorKindFetch:
		return "FetchError"
	default:
		return ""
	}
}

// KindOf maps an error to its ErrorKind. Unrecognized non-nil errors are
// reported as fetch errors.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return ErrorKindNone
	case errors.Is(err, ErrConfigMissing):
		return ErrorKindConfigMissing
	default:
		return ErrorKindFetch
	}
}
