package notify

import (
	"context"
	"time"

	"github.com/fr0stylo/snapledger/internal/app/domain"
	"github.com/fr0stylo/snapledger/internal/app/ports"
	"github.com/fr0stylo/snapledger/pkg/eventpublisher"
)

// CollectionRecordedType is the CloudEvent type emitted per recorded collection.
const CollectionRecordedType = "snapledger.collection.recorded"

// Publisher sends one event.
type Publisher interface {
	Publish(ctx context.Context, event eventpublisher.Event) error
}

// CloudEventsNotifier announces recorded collections as CloudEvents.
type CloudEventsNotifier struct {
	publisher Publisher
}

var _ ports.CollectionNotifier = (*CloudEventsNotifier)(nil)

// NewCloudEventsNotifier wraps a publisher.
func NewCloudEventsNotifier(publisher Publisher) *CloudEventsNotifier {
	return &CloudEventsNotifier{publisher: publisher}
}

type collectionData struct {
	Source      string    `json:"source"`
	Ref         string    `json:"ref"`
	SnapshotRef string    `json:"snapshotRef,omitempty"`
	StartedAt   time.Time `json:"startedAt"`
	CollectedAt time.Time `json:"collectedAt"`
	ItemCount   int       `json:"itemCount"`
	domain.UpsertCounts
	Error string `json:"error,omitempty"`
}

func (n *CloudEventsNotifier) CollectionRecorded(ctx context.Context, source string, collection domain.DataCollection) error {
	return n.publisher.Publish(ctx, eventpublisher.Event{
		ID:      collection.Ref,
		Type:    CollectionRecordedType,
		Source:  "snapledger/" + source,
		Subject: collection.Ref,
		Time:    collection.CollectedAt,
		Data: collectionData{
			Source:       source,
			Ref:          collection.Ref,
			SnapshotRef:  collection.SnapshotRef,
			StartedAt:    collection.StartedAt,
			CollectedAt:  collection.CollectedAt,
			ItemCount:    collection.ItemCount,
			UpsertCounts: collection.Counts,
			Error:        collection.Error,
		},
	})
}

// Nop discards notifications.
type Nop struct{}

func (Nop) CollectionRecorded(context.Context, string, domain.DataCollection) error { return nil }
