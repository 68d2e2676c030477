package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/fr0stylo/snapledger/internal/app/domain"
	"github.com/fr0stylo/snapledger/internal/db"
	"github.com/fr0stylo/snapledger/internal/db/queries"
)

func marketItem(id string, price float64) domain.ContentItem {
	return domain.ContentItem{
		Source:      "coinmarketcap",
		ExternalID:  id,
		ContentHash: "0000000000000000000000000000000000000000000000000000000000000000",
		Payload: domain.Payload{
			Kind:    domain.KindMarket,
			Symbol:  "ABC",
			Metrics: map[string]float64{"price": price},
		},
	}
}

func TestContentStoreRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "content-store")

	factory := NewContentStoreFactory(db.Options{Driver: db.DriverSQLite, Path: dbPath})
	store, err := factory.Open()
	if err != nil {
		t.Fatalf("open content store: %v", err)
	}

	source, err := store.EnsureSource(ctx, "coinmarketcap")
	if err != nil {
		t.Fatalf("ensure source: %v", err)
	}

	counts, err := store.UpsertContentItems(ctx, source.ID, "ref-1", []domain.ContentItem{marketItem("abc-1", 1.23), marketItem("abc-2", 2)})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if counts.Inserted != 2 || counts.SkippedDuplicate != 0 {
		t.Fatalf("unexpected counts: %+v", counts)
	}

	counts, err = store.UpsertContentItems(ctx, source.ID, "ref-2", []domain.ContentItem{marketItem("abc-1", 9.99), marketItem("abc-3", 3)})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if counts.Inserted != 1 || counts.SkippedDuplicate != 1 {
		t.Fatalf("unexpected counts on overlap: %+v", counts)
	}

	started := time.Date(2026, 2, 20, 12, 0, 0, 0, time.UTC)
	collection, err := store.RecordCollection(ctx, source.ID, domain.CollectionMeta{
		Ref:         "ref-2",
		SnapshotRef: "20260220T120000Z",
		StartedAt:   started,
		CollectedAt: started.Add(1500 * time.Millisecond),
		ItemCount:   2,
		Counts:      counts,
	})
	if err != nil {
		t.Fatalf("record collection: %v", err)
	}
	if collection.ID == 0 || !collection.CollectedAt.Equal(started.Add(1500*time.Millisecond)) {
		t.Fatalf("unexpected collection mapping: %+v", collection)
	}

	if err := store.Close(); err != nil {
		t.Fatalf("close content store: %v", err)
	}

	reloaded, err := db.New(dbPath)
	if err != nil {
		t.Fatalf("reopen db: %v", err)
	}
	t.Cleanup(func() { _ = reloaded.Close() })

	count, err := reloaded.CountContentItems(ctx)
	if err != nil {
		t.Fatalf("count content items: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 stored items, got %d", count)
	}

	stored, err := reloaded.GetContentItem(ctx, queries.GetContentItemParams{SourceID: source.ID, ExternalID: "abc-1"})
	if err != nil {
		t.Fatalf("get content item: %v", err)
	}
	if stored.CollectionRef != "ref-1" || stored.Payload != `{"kind":"market","symbol":"ABC","metrics":{"price":1.23}}` {
		t.Fatalf("first observation must win, got %+v", stored)
	}
}

func TestContentStoreReads(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	database, err := db.New(filepath.Join(t.TempDir(), "content-reads"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	store, err := NewSharedContentStoreFactory(database).Open()
	if err != nil {
		t.Fatalf("open shared store: %v", err)
	}
	if err := store.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}

	news, err := store.EnsureSource(ctx, "news")
	if err != nil {
		t.Fatalf("ensure news: %v", err)
	}
	if _, err := store.EnsureSource(ctx, "birdeye"); err != nil {
		t.Fatalf("ensure birdeye: %v", err)
	}
	if _, err := store.UpsertContentItems(ctx, news.ID, "ref-a", []domain.ContentItem{marketItem("n-1", 1)}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, ref := range []string{"ref-a", "ref-b", "ref-c"} {
		meta := domain.CollectionMeta{Ref: ref, StartedAt: base, CollectedAt: base.Add(time.Duration(i) * time.Minute)}
		if ref == "ref-c" {
			meta.Error = "storage error: disk full"
		}
		if _, err := store.RecordCollection(ctx, news.ID, meta); err != nil {
			t.Fatalf("record %s: %v", ref, err)
		}
	}

	sources, err := store.ListSources(ctx)
	if err != nil {
		t.Fatalf("list sources: %v", err)
	}
	if len(sources) != 2 || sources[0].Name != "birdeye" || sources[1].ItemCount != 1 {
		t.Fatalf("unexpected sources: %+v", sources)
	}

	collections, err := store.ListCollections(ctx, news.ID, 2)
	if err != nil {
		t.Fatalf("list collections: %v", err)
	}
	if len(collections) != 2 || collections[0].Ref != "ref-c" || collections[1].Ref != "ref-b" {
		t.Fatalf("expected newest two collections, got %+v", collections)
	}
	if collections[0].Error != "storage error: disk full" {
		t.Fatalf("expected error text to round trip, got %q", collections[0].Error)
	}

	if _, err := store.GetSourceByName(ctx, "myspace"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	// Shared stores leave the handle open.
	if err := store.Close(); err != nil {
		t.Fatalf("close shared store: %v", err)
	}
	if err := database.Ping(ctx); err != nil {
		t.Fatalf("shared handle closed by store: %v", err)
	}
}
