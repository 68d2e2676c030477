package sqlite

import (
	"context"

	"github.com/fr0stylo/snapledger/internal/app/ports"
	"github.com/fr0stylo/snapledger/internal/db"
)

// ContentStoreFactory opens relational content stores.
type ContentStoreFactory struct {
	options db.Options
	shared  *db.Database
}

// NewContentStoreFactory creates a factory that opens a fresh handle per store.
// Opened stores own and close their DB handle.
func NewContentStoreFactory(options db.Options) *ContentStoreFactory {
	return &ContentStoreFactory{options: options}
}

// NewSharedContentStoreFactory creates a factory backed by an existing shared DB handle.
// Opened stores do not close the shared handle.
func NewSharedContentStoreFactory(shared *db.Database) *ContentStoreFactory {
	return &ContentStoreFactory{shared: shared}
}

// Open returns a content store.
func (f *ContentStoreFactory) Open() (ports.ContentStore, error) {
	if f.shared != nil {
		return NewContentStore(f.shared, nil), nil
	}
	database, err := db.Open(context.Background(), f.options)
	if err != nil {
		return nil, err
	}
	return NewContentStore(database, database.Close), nil
}

var _ ports.ContentStoreFactory = (*ContentStoreFactory)(nil)
