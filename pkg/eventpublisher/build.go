package eventpublisher

import (
	"fmt"
	"strings"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/google/uuid"
)

const defaultSource = "snapledger"

// BuildEvent converts an Event into a validated CloudEvent with JSON data.
func BuildEvent(event Event) (cloudevents.Event, error) {
	eventType := strings.TrimSpace(event.Type)
	if eventType == "" {
		return cloudevents.Event{}, fmt.Errorf("event type is required")
	}
	source := strings.TrimSpace(event.Source)
	if source == "" {
		source = defaultSource
	}
	id := strings.TrimSpace(event.ID)
	if id == "" {
		id = uuid.NewString()
	}
	at := event.Time
	if at.IsZero() {
		at = time.Now()
	}

	ce := cloudevents.NewEvent()
	ce.SetID(id)
	ce.SetType(eventType)
	ce.SetSource(source)
	ce.SetTime(at.UTC())
	if subject := strings.TrimSpace(event.Subject); subject != "" {
		ce.SetSubject(subject)
	}
	if event.Data != nil {
		if err := ce.SetData(cloudevents.ApplicationJSON, event.Data); err != nil {
			return cloudevents.Event{}, fmt.Errorf("encode event data: %w", err)
		}
	}
	if err := ce.Validate(); err != nil {
		return cloudevents.Event{}, fmt.Errorf("invalid event: %w", err)
	}
	return ce, nil
}
