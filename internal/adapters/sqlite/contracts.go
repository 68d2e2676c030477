package sqlite

import (
	"context"

	"github.com/fr0stylo/snapledger/internal/db/queries"
)

type storeDatabase interface {
	EnsureSource(ctx context.Context, name string) (queries.DataSource, error)
	GetDataSourceByName(ctx context.Context, name string) (queries.DataSource, error)
	InsertContentItemsIfAbsent(ctx context.Context, params []queries.InsertContentItemIfAbsentParams) (int64, error)
	CreateDataCollection(ctx context.Context, params queries.CreateDataCollectionParams) (queries.DataCollection, error)

	ListDataSourcesWithCounts(ctx context.Context) ([]queries.ListDataSourcesWithCountsRow, error)
	CountContentItemsBySource(ctx context.Context, sourceID int64) (int64, error)
	ListDataCollectionsBySource(ctx context.Context, params queries.ListDataCollectionsBySourceParams) ([]queries.DataCollection, error)

	Ping(ctx context.Context) error
}
