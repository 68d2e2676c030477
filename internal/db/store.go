package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fr0stylo/snapledger/internal/db/queries"
)

// EnsureSource registers a source name if absent and returns its row.
func (c *Database) EnsureSource(ctx context.Context, name string) (queries.DataSource, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return queries.DataSource{}, errors.New("source name is required")
	}
	if err := c.Queries.EnsureDataSource(ctx, name); err != nil {
		return queries.DataSource{}, fmt.Errorf("ensure data source %q: %w", name, err)
	}
	return c.Queries.GetDataSourceByName(ctx, name)
}

// InsertContentItemsIfAbsent writes one chunk of items in a single transaction.
// It returns how many rows were inserted; the rest already existed.
func (c *Database) InsertContentItemsIfAbsent(ctx context.Context, params []queries.InsertContentItemIfAbsentParams) (int64, error) {
	if len(params) == 0 {
		return 0, nil
	}
	var inserted int64
	err := c.WithTx(ctx, func(q *queries.Queries) error {
		inserted = 0
		for _, p := range params {
			affected, err := q.InsertContentItemIfAbsent(ctx, p)
			if err != nil {
				return fmt.Errorf("insert content item %q: %w", p.ExternalID, err)
			}
			inserted += affected
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// WithTx runs a function within a transaction.
func (c *Database) WithTx(ctx context.Context, fn func(*queries.Queries) error) error {
	tx, err := c.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	if err := fn(queries.New(newInstrumentedDBTX(tx, c.timings, c.dialect))); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return errors.Join(err, rollbackErr)
		}
		return err
	}
	return tx.Commit()
}
