package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/fr0stylo/snapledger/internal/app/domain"
	"github.com/fr0stylo/snapledger/internal/app/ports"
	"github.com/fr0stylo/snapledger/internal/db/queries"
)

const (
	defaultCollectionLimit = 20
	// timeLayout is fixed width so stored timestamps sort lexically.
	timeLayout = "2006-01-02T15:04:05.000000000Z"
)

var payloadJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// Store implements the content store over the sqlc queries.
type Store struct {
	database storeDatabase
	closeFn  func() error
}

// NewContentStore wraps a database. closeFn may be nil for shared handles.
func NewContentStore(database storeDatabase, closeFn func() error) *Store {
	return &Store{database: database, closeFn: closeFn}
}

// EnsureSource registers the source if needed.
func (s *Store) EnsureSource(ctx context.Context, name string) (domain.DataSource, error) {
	row, err := s.database.EnsureSource(ctx, name)
	if err != nil {
		return domain.DataSource{}, err
	}
	return domain.DataSource{ID: row.ID, Name: row.Name}, nil
}

// UpsertContentItems writes items in one transaction. Rows that already exist
// for (source_id, external_id) are left untouched and counted as duplicates.
func (s *Store) UpsertContentItems(ctx context.Context, sourceID int64, collectionRef string, items []domain.ContentItem) (domain.UpsertCounts, error) {
	if len(items) == 0 {
		return domain.UpsertCounts{}, nil
	}
	params := make([]queries.InsertContentItemIfAbsentParams, 0, len(items))
	for _, item := range items {
		payload, err := payloadJSON.MarshalToString(item.Payload)
		if err != nil {
			return domain.UpsertCounts{}, fmt.Errorf("encode payload %q: %w", item.ExternalID, err)
		}
		params = append(params, queries.InsertContentItemIfAbsentParams{
			SourceID:      sourceID,
			CollectionRef: collectionRef,
			ExternalID:    item.ExternalID,
			ContentHash:   item.ContentHash,
			Payload:       payload,
		})
	}

	inserted, err := s.database.InsertContentItemsIfAbsent(ctx, params)
	if err != nil {
		return domain.UpsertCounts{}, err
	}
	return domain.UpsertCounts{
		Inserted:         int(inserted),
		SkippedDuplicate: len(items) - int(inserted),
	}, nil
}

// RecordCollection persists the metadata of one finished attempt.
func (s *Store) RecordCollection(ctx context.Context, sourceID int64, meta domain.CollectionMeta) (domain.DataCollection, error) {
	errText := sql.NullString{}
	if meta.Error != "" {
		errText = sql.NullString{String: meta.Error, Valid: true}
	}
	row, err := s.database.CreateDataCollection(ctx, queries.CreateDataCollectionParams{
		Ref:           meta.Ref,
		SourceID:      sourceID,
		SnapshotRef:   meta.SnapshotRef,
		StartedAt:     formatTime(meta.StartedAt),
		CollectedAt:   formatTime(meta.CollectedAt),
		ItemCount:     int64(meta.ItemCount),
		InsertedCount: int64(meta.Counts.Inserted),
		SkippedCount:  int64(meta.Counts.SkippedDuplicate),
		RejectedCount: int64(meta.Counts.Rejected),
		Error:         errText,
	})
	if err != nil {
		return domain.DataCollection{}, err
	}
	return mapCollection(row), nil
}

// ListSources lists registered sources with their stored item counts.
func (s *Store) ListSources(ctx context.Context) ([]ports.SourceStats, error) {
	rows, err := s.database.ListDataSourcesWithCounts(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ports.SourceStats, 0, len(rows))
	for _, row := range rows {
		out = append(out, ports.SourceStats{ID: row.ID, Name: row.Name, ItemCount: row.ItemCount})
	}
	return out, nil
}

// CountContentItems counts stored items for one source.
func (s *Store) CountContentItems(ctx context.Context, sourceID int64) (int64, error) {
	return s.database.CountContentItemsBySource(ctx, sourceID)
}

// ListCollections returns the most recent collections of a source, newest first.
func (s *Store) ListCollections(ctx context.Context, sourceID int64, limit int64) ([]domain.DataCollection, error) {
	if limit <= 0 {
		limit = defaultCollectionLimit
	}
	rows, err := s.database.ListDataCollectionsBySource(ctx, queries.ListDataCollectionsBySourceParams{SourceID: sourceID, Limit: limit})
	if err != nil {
		return nil, err
	}
	out := make([]domain.DataCollection, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapCollection(row))
	}
	return out, nil
}

// GetSourceByName returns domain.ErrNotFound for unknown names.
func (s *Store) GetSourceByName(ctx context.Context, name string) (domain.DataSource, error) {
	row, err := s.database.GetDataSourceByName(ctx, name)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.DataSource{}, fmt.Errorf("source %q: %w", name, domain.ErrNotFound)
	}
	if err != nil {
		return domain.DataSource{}, err
	}
	return domain.DataSource{ID: row.ID, Name: row.Name}, nil
}

// Ping checks the underlying connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.database.Ping(ctx)
}

// Close releases the handle when the store owns it.
func (s *Store) Close() error {
	if s.closeFn == nil {
		return nil
	}
	return s.closeFn()
}

func mapCollection(row queries.DataCollection) domain.DataCollection {
	return domain.DataCollection{
		ID:       row.ID,
		SourceID: row.SourceID,
		CollectionMeta: domain.CollectionMeta{
			Ref:         row.Ref,
			SnapshotRef: row.SnapshotRef,
			StartedAt:   parseTime(row.StartedAt),
			CollectedAt: parseTime(row.CollectedAt),
			ItemCount:   int(row.ItemCount),
			Counts: domain.UpsertCounts{
				Inserted:         int(row.InsertedCount),
				SkippedDuplicate: int(row.SkippedCount),
				Rejected:         int(row.RejectedCount),
			},
			Error: row.Error.String,
		},
	}
}

func formatTime(value time.Time) string {
	return value.UTC().Format(timeLayout)
}

func parseTime(value string) time.Time {
	if parsed, err := time.Parse(timeLayout, value); err == nil {
		return parsed
	}
	parsed, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return parsed.UTC()
}

var _ ports.ContentStore = (*Store)(nil)
