package routes

import (
	"time"

	"github.com/fr0stylo/snapledger/internal/app/domain"
	"github.com/fr0stylo/snapledger/internal/app/ports"
)

type sourceResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	ItemCount int64  `json:"itemCount"`
}

type collectionResponse struct {
	Ref         string    `json:"ref"`
	SnapshotRef string    `json:"snapshotRef,omitempty"`
	StartedAt   time.Time `json:"startedAt"`
	CollectedAt time.Time `json:"collectedAt"`
	RawCount    int       `json:"rawCount"`
	domain.UpsertCounts
	Error string `json:"error,omitempty"`
}

func mapSources(rows []ports.SourceStats) []sourceResponse {
	sources := make([]sourceResponse, 0, len(rows))
	for _, row := range rows {
		sources = append(sources, sourceResponse{
			ID:        row.ID,
			Name:      row.Name,
			ItemCount: row.ItemCount,
		})
	}
	return sources
}

func mapCollections(rows []domain.DataCollection) []collectionResponse {
	collections := make([]collectionResponse, 0, len(rows))
	for _, row := range rows {
		collections = append(collections, collectionResponse{
			Ref:          row.Ref,
			SnapshotRef:  row.SnapshotRef,
			StartedAt:    row.StartedAt,
			CollectedAt:  row.CollectedAt,
			RawCount:     row.ItemCount,
			UpsertCounts: row.Counts,
			Error:        row.Error,
		})
	}
	return collections
}
