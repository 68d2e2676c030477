package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"

	sqliteadapter "github.com/fr0stylo/snapledger/internal/adapters/sqlite"
	"github.com/fr0stylo/snapledger/internal/app/domain"
	"github.com/fr0stylo/snapledger/internal/app/extract"
	"github.com/fr0stylo/snapledger/internal/app/normalize"
	"github.com/fr0stylo/snapledger/internal/app/ports"
	portmocks "github.com/fr0stylo/snapledger/internal/app/ports/mocks"
	"github.com/fr0stylo/snapledger/internal/db"
	"github.com/fr0stylo/snapledger/internal/db/queries"
)

type memorySnapshots struct {
	mu    sync.Mutex
	blobs map[string]string
}

func (m *memorySnapshots) put(source, blob string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.blobs == nil {
		m.blobs = map[string]string{}
	}
	m.blobs[source] = blob
}

func (m *memorySnapshots) LatestSnapshot(_ context.Context, source string) (domain.Snapshot, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	blob, ok := m.blobs[source]
	if !ok {
		return domain.Snapshot{}, false, nil
	}
	return domain.Snapshot{Source: source, Ref: "latest", Blob: []byte(blob)}, true, nil
}

type panickingAdapter struct {
	SourceAdapter
	source string
}

func (a panickingAdapter) Adapt(source string, blob []byte) ([]domain.RawRecord, error) {
	if source == a.source {
		panic("unexpected shape")
	}
	return a.SourceAdapter.Adapt(source, blob)
}

// sourceFailingNormalizer fails one source and delegates the rest.
type sourceFailingNormalizer struct {
	RecordNormalizer
	source string
	err    error
}

func (n sourceFailingNormalizer) NormalizeBatch(ctx context.Context, source string, records []domain.RawRecord) (normalize.Batch, error) {
	if source == n.source {
		return normalize.Batch{}, n.err
	}
	return n.RecordNormalizer.NormalizeBatch(ctx, source, records)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newRegistry(t *testing.T, rules ...extract.Rule) *extract.Registry {
	t.Helper()
	if len(rules) == 0 {
		rules = extract.DefaultRules()
	}
	registry, err := extract.NewRegistry(rules...)
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}
	return registry
}

func newLedgerService(t *testing.T, database *db.Database, snapshots ports.SnapshotReader, registry *extract.Registry) *MigrationService {
	t.Helper()
	store, err := sqliteadapter.NewSharedContentStoreFactory(database).Open()
	if err != nil {
		t.Fatalf("open content store: %v", err)
	}
	return NewMigrationService(MigrationDeps{
		Gateway:     ports.JoinGateway(snapshots, store),
		Adapter:     registry,
		Normalizer:  normalize.New(registry.Kind, 2),
		Logger:      discardLogger(),
		Concurrency: 3,
		BatchSize:   2,
	})
}

func newTestDatabase(t *testing.T, path string) *db.Database {
	t.Helper()
	database, err := db.New(path)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func TestMigrationServiceSingleKeyedSnapshotIsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	database := newTestDatabase(t, filepath.Join(t.TempDir(), "idempotent"))
	snapshots := &memorySnapshots{}
	snapshots.put("coinmarketcap", `{"gainers": [{"id":"abc-1","symbol":"ABC","price":1.23,"change_24h":5.0}]}`)
	svc := newLedgerService(t, database, snapshots, newRegistry(t))

	first := svc.Run(ctx).Sources["coinmarketcap"]
	if first.Status != StatusOK || first.Inserted != 1 || first.SkippedDuplicate != 0 || first.RawCount != 1 {
		t.Fatalf("unexpected first run summary: %+v", first)
	}

	second := svc.Run(ctx).Sources["coinmarketcap"]
	if second.Status != StatusOK || second.Inserted != 0 || second.SkippedDuplicate != 1 {
		t.Fatalf("unexpected second run summary: %+v", second)
	}

	source, err := database.GetDataSourceByName(ctx, "coinmarketcap")
	if err != nil {
		t.Fatalf("get source: %v", err)
	}
	count, err := database.CountContentItemsBySource(ctx, source.ID)
	if err != nil {
		t.Fatalf("count items: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one stored item, got %d", count)
	}

	collections, err := database.ListDataCollectionsBySource(ctx, queries.ListDataCollectionsBySourceParams{SourceID: source.ID, Limit: 10})
	if err != nil {
		t.Fatalf("list collections: %v", err)
	}
	if len(collections) != 2 {
		t.Fatalf("expected one collection per run, got %d", len(collections))
	}
}

func TestMigrationServiceMultiKeyedSnapshot(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	database := newTestDatabase(t, filepath.Join(t.TempDir(), "multi"))
	snapshots := &memorySnapshots{}
	snapshots.put("dexscreener", `{
		"latest_token_profiles": [
			{"chainId":"solana","tokenAddress":"A1","description":"first"},
			{"chainId":"solana","tokenAddress":"B2"}
		],
		"latest_boosted_tokens": [
			{"chainId":"solana","tokenAddress":"A1","amount":10,"totalAmount":50}
		]
	}`)
	svc := newLedgerService(t, database, snapshots, newRegistry(t))

	summary := svc.Run(ctx).Sources["dexscreener"]
	if summary.Status != StatusOK || summary.RawCount != 3 || summary.Inserted != 3 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestMigrationServiceRejectsRecordWithoutIdentity(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	database := newTestDatabase(t, filepath.Join(t.TempDir(), "rejected"))
	snapshots := &memorySnapshots{}
	snapshots.put("birdeye", `{"token_data":[{"symbol":"NOID"}]}`)
	svc := newLedgerService(t, database, snapshots, newRegistry(t))

	summary := svc.Run(ctx).Sources["birdeye"]
	if summary.Status != StatusOK || summary.Rejected != 1 || summary.Inserted != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestMigrationServiceKeepsDistinctIdentitiesWithEqualPayloads(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	database := newTestDatabase(t, filepath.Join(t.TempDir(), "identity"))
	snapshots := &memorySnapshots{}
	snapshots.put("coinmarketcap", `{"gainers":[{"id":"a","symbol":"X","price":1},{"id":"b","symbol":"X","price":1}]}`)
	svc := newLedgerService(t, database, snapshots, newRegistry(t))

	summary := svc.Run(ctx).Sources["coinmarketcap"]
	if summary.Status != StatusOK || summary.Inserted != 2 || summary.SkippedDuplicate != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	source, err := database.GetDataSourceByName(ctx, "coinmarketcap")
	if err != nil {
		t.Fatalf("get source: %v", err)
	}
	collections, err := database.ListDataCollectionsBySource(ctx, queries.ListDataCollectionsBySourceParams{SourceID: source.ID, Limit: 1})
	if err != nil || len(collections) != 1 {
		t.Fatalf("list collections: %v (%d)", err, len(collections))
	}
	items, err := database.ListContentItemsByCollection(ctx, collections[0].Ref)
	if err != nil {
		t.Fatalf("list items: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected two rows, got %d", len(items))
	}
	if items[0].ExternalID != "a" || items[1].ExternalID != "b" {
		t.Fatalf("unexpected identities %q, %q", items[0].ExternalID, items[1].ExternalID)
	}
	if items[0].ContentHash != items[1].ContentHash {
		t.Fatalf("equal payloads should hash equally: %q vs %q", items[0].ContentHash, items[1].ContentHash)
	}
}

func TestMigrationServiceIsMonotonic(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	database := newTestDatabase(t, filepath.Join(t.TempDir(), "monotonic"))
	snapshots := &memorySnapshots{}
	registry := newRegistry(t)
	svc := newLedgerService(t, database, snapshots, registry)

	snapshots.put("telegram", `[{"channel":"alpha","message_id":1,"text":"one"},{"channel":"alpha","message_id":2,"text":"two"}]`)
	svc.Run(ctx)
	before, err := database.CountContentItems(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}

	snapshots.put("telegram", `[{"channel":"alpha","message_id":2,"text":"two edited"},{"channel":"alpha","message_id":3,"text":"three"}]`)
	summary := svc.Run(ctx).Sources["telegram"]
	after, err := database.CountContentItems(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if after < before || after != 3 {
		t.Fatalf("expected item count to grow from %d to 3, got %d", before, after)
	}
	if summary.Inserted != 1 || summary.SkippedDuplicate != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestMigrationServiceIsolatesSourceFailures(t *testing.T) {
	t.Parallel()

	gateway := portmocks.NewMockStorageGateway(t)
	notifier := portmocks.NewMockCollectionNotifier(t)
	registry := newRegistry(t,
		extract.Rule{Source: "news", Shape: extract.ShapeList, Kind: domain.KindNews},
		extract.Rule{Source: "twitter", Shape: extract.ShapeList, Kind: domain.KindSocial},
		extract.Rule{Source: "telegram", Shape: extract.ShapeList, Kind: domain.KindChat},
		extract.Rule{Source: "birdeye", Shape: extract.ShapeKeyed, Keys: []string{"token_data"}, Kind: domain.KindMarket},
		extract.Rule{Source: "coinmarketcap", Shape: extract.ShapeKeyed, Keys: []string{"gainers"}, Kind: domain.KindMarket},
	)

	sources := map[string]domain.DataSource{
		"news":          {ID: 1, Name: "news"},
		"twitter":       {ID: 2, Name: "twitter"},
		"telegram":      {ID: 3, Name: "telegram"},
		"birdeye":       {ID: 4, Name: "birdeye"},
		"coinmarketcap": {ID: 5, Name: "coinmarketcap"},
	}
	for name, source := range sources {
		gateway.EXPECT().EnsureSource(mock.Anything, name).Return(source, nil).Once()
	}

	gateway.EXPECT().LatestSnapshot(mock.Anything, "news").Return(domain.Snapshot{}, false, errors.New("bucket unreachable")).Once()
	gateway.EXPECT().LatestSnapshot(mock.Anything, "twitter").Return(domain.Snapshot{}, false, nil).Once()
	gateway.EXPECT().LatestSnapshot(mock.Anything, "telegram").Return(domain.Snapshot{Ref: "t1", Blob: []byte(`{"not":"a list"}`)}, true, nil).Once()
	gateway.EXPECT().LatestSnapshot(mock.Anything, "birdeye").Return(domain.Snapshot{Ref: "b1", Blob: []byte(`{"token_data":[{"address":"So1","symbol":"SOL"}]}`)}, true, nil).Once()
	gateway.EXPECT().LatestSnapshot(mock.Anything, "coinmarketcap").Return(domain.Snapshot{Ref: "c1", Blob: []byte(`{"gainers":[{"id":"abc-1","symbol":"ABC"}]}`)}, true, nil).Once()

	gateway.EXPECT().UpsertContentItems(mock.Anything, int64(4), mock.Anything, mock.Anything).Return(domain.UpsertCounts{}, errors.New("disk I/O error")).Once()
	gateway.EXPECT().UpsertContentItems(mock.Anything, int64(5), mock.Anything, mock.Anything).Return(domain.UpsertCounts{Inserted: 1}, nil).Once()

	recorded := map[int64]domain.CollectionMeta{}
	var recordedMu sync.Mutex
	gateway.EXPECT().RecordCollection(mock.Anything, mock.Anything, mock.Anything).RunAndReturn(
		func(_ context.Context, sourceID int64, meta domain.CollectionMeta) (domain.DataCollection, error) {
			recordedMu.Lock()
			defer recordedMu.Unlock()
			recorded[sourceID] = meta
			return domain.DataCollection{ID: sourceID * 10, SourceID: sourceID, CollectionMeta: meta}, nil
		},
	).Times(4)

	notifier.EXPECT().CollectionRecorded(mock.Anything, "coinmarketcap", mock.Anything).Return(errors.New("sink down")).Once()
	notifier.EXPECT().CollectionRecorded(mock.Anything, mock.Anything, mock.Anything).Return(nil).Times(3)

	svc := NewMigrationService(MigrationDeps{
		Gateway:     gateway,
		Adapter:     panickingAdapter{SourceAdapter: registry, source: "telegram"},
		Normalizer:  normalize.New(registry.Kind, 1),
		Notifier:    notifier,
		Logger:      discardLogger(),
		Concurrency: 2,
	})
	cycle := svc.Run(context.Background())

	if cycle.ID == "" || len(cycle.Sources) != 5 {
		t.Fatalf("unexpected cycle: %+v", cycle)
	}
	cases := map[string]struct {
		status SourceStatus
		kind   domain.ErrorKind
	}{
		"news":          {status: StatusFailed, kind: domain.ErrorFetch},
		"twitter":       {status: StatusSkippedNoData},
		"telegram":      {status: StatusFailed, kind: domain.ErrorUnknown},
		"birdeye":       {status: StatusFailed, kind: domain.ErrorStorage},
		"coinmarketcap": {status: StatusOK},
	}
	for name, want := range cases {
		got := cycle.Sources[name]
		if got.Status != want.status || got.ErrorKind != want.kind {
			t.Fatalf("%s: expected %s/%q, got %+v", name, want.status, want.kind, got)
		}
	}
	if cycle.Sources["coinmarketcap"].Inserted != 1 {
		t.Fatalf("healthy source must still commit, got %+v", cycle.Sources["coinmarketcap"])
	}
	if !strings.Contains(cycle.Sources["telegram"].Error, "panic") {
		t.Fatalf("expected panic to be reported, got %q", cycle.Sources["telegram"].Error)
	}
	if failed := strings.Join(cycle.Failed(), ","); failed != "birdeye,news,telegram" {
		t.Fatalf("unexpected failed sources %q", failed)
	}
	if _, ok := recorded[2]; ok {
		t.Fatal("skipped source must not record a collection")
	}
	if recorded[4].Error == "" || recorded[5].Error != "" {
		t.Fatalf("collection error text mismatch: %+v", recorded)
	}
	if recorded[5].SnapshotRef != "c1" || recorded[5].ItemCount != 1 {
		t.Fatalf("unexpected collection meta: %+v", recorded[5])
	}
}

func TestMigrationServiceClassifiesCancellationInAnyStage(t *testing.T) {
	t.Parallel()

	gateway := portmocks.NewMockStorageGateway(t)
	registry := newRegistry(t,
		extract.Rule{Source: "news", Shape: extract.ShapeList, Kind: domain.KindNews},
		extract.Rule{Source: "coinmarketcap", Shape: extract.ShapeKeyed, Keys: []string{"gainers"}, Kind: domain.KindMarket},
	)

	gateway.EXPECT().EnsureSource(mock.Anything, "news").Return(domain.DataSource{ID: 1, Name: "news"}, nil).Once()
	gateway.EXPECT().EnsureSource(mock.Anything, "coinmarketcap").Return(domain.DataSource{ID: 2, Name: "coinmarketcap"}, nil).Once()
	gateway.EXPECT().LatestSnapshot(mock.Anything, "news").Return(domain.Snapshot{Ref: "n1", Blob: []byte(`[{"title":"t","url":"https://x.io/a"}]`)}, true, nil).Once()
	gateway.EXPECT().LatestSnapshot(mock.Anything, "coinmarketcap").Return(domain.Snapshot{Ref: "c1", Blob: []byte(`{"gainers":[{"id":"abc-1","symbol":"ABC"}]}`)}, true, nil).Once()
	gateway.EXPECT().UpsertContentItems(mock.Anything, int64(2), mock.Anything, mock.Anything).Return(domain.UpsertCounts{}, context.Canceled).Once()
	gateway.EXPECT().RecordCollection(mock.Anything, mock.Anything, mock.Anything).Return(domain.DataCollection{}, nil).Times(2)

	svc := NewMigrationService(MigrationDeps{
		Gateway: gateway,
		Adapter: registry,
		Normalizer: sourceFailingNormalizer{
			RecordNormalizer: normalize.New(registry.Kind, 1),
			source:           "news",
			err:              fmt.Errorf("normalize news: %w", context.DeadlineExceeded),
		},
		Logger: discardLogger(),
	})
	cycle := svc.Run(context.Background())

	for _, name := range []string{"news", "coinmarketcap"} {
		got := cycle.Sources[name]
		if got.Status != StatusFailed || got.ErrorKind != domain.ErrorCanceled {
			t.Fatalf("%s: expected failed/canceled, got %+v", name, got)
		}
	}
}

func TestMigrationServiceFlagsDanglingCollectionRef(t *testing.T) {
	t.Parallel()

	gateway := portmocks.NewMockStorageGateway(t)
	notifier := portmocks.NewMockCollectionNotifier(t)
	registry := newRegistry(t,
		extract.Rule{Source: "coinmarketcap", Shape: extract.ShapeKeyed, Keys: []string{"gainers"}, Kind: domain.KindMarket},
	)

	gateway.EXPECT().EnsureSource(mock.Anything, "coinmarketcap").Return(domain.DataSource{ID: 7, Name: "coinmarketcap"}, nil).Once()
	gateway.EXPECT().LatestSnapshot(mock.Anything, "coinmarketcap").Return(domain.Snapshot{Ref: "c1", Blob: []byte(`{"gainers":[{"id":"abc-1","symbol":"ABC"}]}`)}, true, nil).Once()
	gateway.EXPECT().UpsertContentItems(mock.Anything, int64(7), "ref-1", mock.Anything).Return(domain.UpsertCounts{Inserted: 1}, nil).Once()
	gateway.EXPECT().RecordCollection(mock.Anything, int64(7), mock.Anything).Return(domain.DataCollection{}, errors.New("database is locked")).Once()

	var logs bytes.Buffer
	svc := NewMigrationService(MigrationDeps{
		Gateway:    gateway,
		Adapter:    registry,
		Normalizer: normalize.New(registry.Kind, 1),
		Notifier:   notifier,
		Logger:     slog.New(slog.NewJSONHandler(&logs, nil)),
	})
	svc.newRef = func() string { return "ref-1" }

	summary := svc.Run(context.Background()).Sources["coinmarketcap"]
	if summary.Status != StatusOK || summary.Inserted != 1 {
		t.Fatalf("committed items must still be reported: %+v", summary)
	}

	var warning map[string]any
	for _, line := range bytes.Split(bytes.TrimSpace(logs.Bytes()), []byte("\n")) {
		var entry map[string]any
		if err := json.Unmarshal(line, &entry); err != nil {
			t.Fatalf("decode log line %q: %v", line, err)
		}
		if entry["msg"] == "record collection failed" {
			warning = entry
		}
	}
	if warning == nil {
		t.Fatalf("expected a record collection warning, got:\n%s", logs.String())
	}
	if warning["collection_ref"] != "ref-1" || warning["collection_ref_dangling"] != true || warning["dangling_items"] != float64(1) {
		t.Fatalf("unexpected warning fields: %v", warning)
	}
}

func TestMigrationServiceSummaryJSON(t *testing.T) {
	t.Parallel()

	summary := CycleSummary{
		"coinmarketcap": {UpsertCounts: domain.UpsertCounts{Inserted: 1}, Status: StatusOK, RawCount: 1},
	}
	encoded, err := json.Marshal(summary)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"coinmarketcap":{"inserted":1,"skippedDuplicate":0,"rejected":0,"status":"ok","rawCount":1}}`
	if string(encoded) != want {
		t.Fatalf("unexpected summary JSON:\n got %s\nwant %s", encoded, want)
	}
}

func TestOverlappingCyclesStoreEachKeyOnce(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "overlap")
	seed := newTestDatabase(t, dbPath)

	const keys = 40
	var records []string
	for i := range keys {
		records = append(records, fmt.Sprintf(`{"id":"tok-%d","symbol":"T%d","price":"%d.5"}`, i, i, i))
	}
	snapshots := &memorySnapshots{}
	snapshots.put("coinmarketcap", `{"gainers":[`+strings.Join(records, ",")+`]}`)
	registry := newRegistry(t)

	const cycles = 6
	results := make([]SourceSummary, cycles)
	var wg sync.WaitGroup
	for i := range cycles {
		// Each cycle gets its own connection pool, as separate processes would.
		database := newTestDatabase(t, dbPath)
		svc := newLedgerService(t, database, snapshots, registry)
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = svc.Run(ctx).Sources["coinmarketcap"]
		}()
	}
	wg.Wait()

	inserted := 0
	for i, result := range results {
		if result.Status != StatusOK {
			t.Fatalf("cycle %d failed: %+v", i, result)
		}
		if result.Inserted+result.SkippedDuplicate != keys {
			t.Fatalf("cycle %d lost items: %+v", i, result)
		}
		inserted += result.Inserted
	}
	if inserted != keys {
		t.Fatalf("expected %d inserts across cycles, got %d", keys, inserted)
	}

	count, err := seed.CountContentItems(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != keys {
		t.Fatalf("expected %d rows, got %d", keys, count)
	}
}
