package ports

import (
	"context"

	"github.com/fr0stylo/snapledger/internal/app/domain"
)

// SnapshotReader returns the latest raw snapshot a collector wrote for a source.
// The engine never writes snapshots.
type SnapshotReader interface {
	// LatestSnapshot returns found=false when the source has no snapshot yet.
	LatestSnapshot(ctx context.Context, source string) (domain.Snapshot, bool, error)
}

// ContentWriter is the minimal write contract used by the migration engine.
// Implementations must enforce (source_id, external_id) uniqueness at the
// storage layer; the engine holds no locks of its own.
type ContentWriter interface {
	EnsureSource(ctx context.Context, name string) (domain.DataSource, error)
	// UpsertContentItems inserts items that have no row for their
	// (source_id, external_id) yet and reports duplicates without touching them.
	UpsertContentItems(ctx context.Context, sourceID int64, collectionRef string, items []domain.ContentItem) (domain.UpsertCounts, error)
	RecordCollection(ctx context.Context, sourceID int64, meta domain.CollectionMeta) (domain.DataCollection, error)
}

// ContentReader serves the read endpoints.
type ContentReader interface {
	ListSources(ctx context.Context) ([]SourceStats, error)
	CountContentItems(ctx context.Context, sourceID int64) (int64, error)
	ListCollections(ctx context.Context, sourceID int64, limit int64) ([]domain.DataCollection, error)
	GetSourceByName(ctx context.Context, name string) (domain.DataSource, error)
}

// ContentStore is a closable relational store.
type ContentStore interface {
	ContentWriter
	ContentReader
	Ping(ctx context.Context) error
	Close() error
}

// ContentStoreFactory opens content stores.
type ContentStoreFactory interface {
	Open() (ContentStore, error)
}

// StorageGateway is everything one migration cycle depends on.
type StorageGateway interface {
	SnapshotReader
	ContentWriter
}

// SourceStats is one registered source with its stored item count.
type SourceStats struct {
	ID        int64
	Name      string
	ItemCount int64
}

// CollectionNotifier is told about every recorded collection.
type CollectionNotifier interface {
	CollectionRecorded(ctx context.Context, source string, collection domain.DataCollection) error
}

type joinedGateway struct {
	SnapshotReader
	ContentWriter
}

// JoinGateway combines a snapshot reader and a content writer.
func JoinGateway(snapshots SnapshotReader, writer ContentWriter) StorageGateway {
	return joinedGateway{SnapshotReader: snapshots, ContentWriter: writer}
}
