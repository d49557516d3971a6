package document

import "slices"

// EventType identifies the interaction that triggered a resolution.
type EventType string

const (
	EventCompletion EventType = "completion"
	EventChat       EventType = "chat"
	EventAgent      EventType = "agentWorkflow"
	EventCodeReview EventType = "codeReview"
)

// AllEvents lists every valid event type.
var AllEvents = []EventType{
	EventCompletion,
	EventChat,
	EventAgent,
	EventCodeReview,
}

// Valid reports whether e is a known event type.
func (e EventType) Valid() bool {
	return slices.Contains(AllEvents, e)
}
