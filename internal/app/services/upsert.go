package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/fr0stylo/snapledger/internal/app/domain"
	"github.com/fr0stylo/snapledger/internal/app/ports"
)

// DefaultBatchSize is the number of items written per transaction.
const DefaultBatchSize = 200

// Upserter writes normalized items through the storage gateway in chunks.
type Upserter struct {
	writer    ports.ContentWriter
	batchSize int
}

// NewUpserter constructs an upserter. Non-positive sizes use DefaultBatchSize.
func NewUpserter(writer ports.ContentWriter, batchSize int) *Upserter {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Upserter{writer: writer, batchSize: batchSize}
}

// Upsert inserts items absent for their (source, external_id) key. Each chunk
// commits on its own; a storage failure stops the remaining chunks and the
// counts committed so far are returned with an ErrStorage-wrapped error.
func (u *Upserter) Upsert(ctx context.Context, source domain.DataSource, collectionRef string, items []domain.ContentItem) (domain.UpsertCounts, error) {
	var counts domain.UpsertCounts

	accepted := make([]domain.ContentItem, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item.ExternalID) == "" || item.Source != source.Name {
			counts.Rejected++
			continue
		}
		accepted = append(accepted, item)
	}

	for _, chunk := range lo.Chunk(accepted, u.batchSize) {
		if err := ctx.Err(); err != nil {
			return counts, fmt.Errorf("%w: source %q interrupted: %w", domain.ErrStorage, source.Name, err)
		}
		written, err := u.writer.UpsertContentItems(ctx, source.ID, collectionRef, chunk)
		if err != nil {
			return counts, fmt.Errorf("%w: source %q: %w", domain.ErrStorage, source.Name, err)
		}
		counts.Add(written)
	}
	return counts, nil
}
