package harness

import (
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/google/uuid"
)

// Event type constants for harness lifecycle events.
// Following CloudEvents specification reverse domain notation.
const (
	// Run lifecycle events
	EventTypeRunStarted   = "com.gocodealone.harness.run.started"
	EventTypeRunCompleted = "com.gocodealone.harness.run.completed"
	EventTypeRunFailed    = "com.gocodealone.harness.run.failed"

	// Case lifecycle events
	EventTypeCaseStarted  = "com.gocodealone.harness.case.started"
	EventTypeCasePassed   = "com.gocodealone.harness.case.passed"
	EventTypeCaseFailed   = "com.gocodealone.harness.case.failed"
	EventTypeCaseTimedOut = "com.gocodealone.harness.case.timedout"
	EventTypeCaseSkipped  = "com.gocodealone.harness.case.skipped"

	// Configuration events
	EventTypeConfigReloaded = "com.gocodealone.harness.config.reloaded"

	// Scheduled run events
	EventTypeScheduleTriggered = "com.gocodealone.harness.schedule.triggered"
)

// eventSource identifies the harness as the CloudEvents source.
const eventSource = "github.com/GoCodeAlone/harness"

// CloudEvent is an alias for the CloudEvents Event type for convenience.
type CloudEvent = cloudevents.Event

// NewCloudEvent creates a properly formatted CloudEvent for a harness
// lifecycle event. The event ID is a UUIDv7 so events sort by time, with
// a v4 fallback if v7 generation fails.
func NewCloudEvent(eventType string, data any) cloudevents.Event {
	event := cloudevents.NewEvent()
	event.SetID(newEventID())
	event.SetSource(eventSource)
	event.SetType(eventType)
	event.SetTime(time.Now())
	event.SetSpecVersion(cloudevents.VersionV1)

	if data != nil {
		_ = event.SetData(cloudevents.ApplicationJSON, data)
	}
	return event
}

func newEventID() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return id.String()
}

// caseEventType maps a result status to the case lifecycle event emitted
// for it.
func caseEventType(status Status) string {
	switch status {
	case StatusPassed:
		return EventTypeCasePassed
	case StatusFailed:
		return EventTypeCaseFailed
	case StatusTimedOut:
		return EventTypeCaseTimedOut
	default:
		return EventTypeCaseSkipped
	}
}
