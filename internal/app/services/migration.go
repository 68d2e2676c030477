package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/fr0stylo/snapledger/internal/app/domain"
	"github.com/fr0stylo/snapledger/internal/app/normalize"
	"github.com/fr0stylo/snapledger/internal/app/ports"
	"github.com/fr0stylo/snapledger/internal/observability"
)

// SourceStatus is the per-source outcome of one cycle.
type SourceStatus string

const (
	StatusOK            SourceStatus = "ok"
	StatusSkippedNoData SourceStatus = "skipped-no-data"
	StatusFailed        SourceStatus = "failed"
)

// SourceSummary is the per-source entry of a cycle summary.
type SourceSummary struct {
	domain.UpsertCounts
	Status    SourceStatus     `json:"status"`
	RawCount  int              `json:"rawCount"`
	Error     string           `json:"error,omitempty"`
	ErrorKind domain.ErrorKind `json:"errorKind,omitempty"`
}

// CycleSummary maps source names to their outcome.
type CycleSummary map[string]SourceSummary

// Cycle is one finished pass over all configured sources.
type Cycle struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Sources    CycleSummary
}

// Failed returns the sorted names of the sources that failed.
func (c Cycle) Failed() []string {
	var failed []string
	for name, summary := range c.Sources {
		if summary.Status == StatusFailed {
			failed = append(failed, name)
		}
	}
	slices.Sort(failed)
	return failed
}

// SourceAdapter lists sources and extracts raw records from their snapshots.
type SourceAdapter interface {
	Sources() []string
	Adapt(source string, blob []byte) ([]domain.RawRecord, error)
}

// RecordNormalizer turns raw records into content items.
type RecordNormalizer interface {
	NormalizeBatch(ctx context.Context, source string, records []domain.RawRecord) (normalize.Batch, error)
}

// MigrationDeps are the collaborators of a migration service.
type MigrationDeps struct {
	Gateway    ports.StorageGateway
	Adapter    SourceAdapter
	Normalizer RecordNormalizer
	// Notifier is optional.
	Notifier    ports.CollectionNotifier
	Metrics     observability.MigrationMetrics
	Logger      *slog.Logger
	Concurrency int
	BatchSize   int
}

// MigrationService consolidates the latest snapshot of every source into
// the content ledger.
type MigrationService struct {
	gateway     ports.StorageGateway
	adapter     SourceAdapter
	normalizer  RecordNormalizer
	upserter    *Upserter
	notifier    ports.CollectionNotifier
	metrics     observability.MigrationMetrics
	log         *slog.Logger
	concurrency int

	now    func() time.Time
	newRef func() string
}

// NewMigrationService constructs a migration service.
func NewMigrationService(deps MigrationDeps) *MigrationService {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	concurrency := deps.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	return &MigrationService{
		gateway:     deps.Gateway,
		adapter:     deps.Adapter,
		normalizer:  deps.Normalizer,
		upserter:    NewUpserter(deps.Gateway, deps.BatchSize),
		notifier:    deps.Notifier,
		metrics:     deps.Metrics,
		log:         log,
		concurrency: concurrency,
		now:         func() time.Time { return time.Now().UTC() },
		newRef:      uuid.NewString,
	}
}

// Run executes one cycle. Source failures are isolated and reported in the
// summary; Run itself never fails.
func (s *MigrationService) Run(ctx context.Context) Cycle {
	cycle := Cycle{ID: s.newRef(), StartedAt: s.now()}
	ctx = observability.WithCycleID(ctx, cycle.ID)
	ctx, span := observability.StartCycleSpan(ctx, cycle.ID)
	defer span.End()

	sources := s.adapter.Sources()
	s.log.InfoContext(ctx, "migration cycle started", "sources", len(sources))

	results := make([]SourceSummary, len(sources))
	p := pool.New().WithMaxGoroutines(s.concurrency)
	for i, name := range sources {
		p.Go(func() {
			results[i] = s.migrateSource(ctx, name)
		})
	}
	p.Wait()

	cycle.Sources = make(CycleSummary, len(sources))
	failed := 0
	for i, name := range sources {
		cycle.Sources[name] = results[i]
		if results[i].Status == StatusFailed {
			failed++
		}
	}
	cycle.FinishedAt = s.now()
	span.SetAttributes(attribute.Int("snapledger.sources", len(sources)), attribute.Int("snapledger.failed_sources", failed))
	s.log.InfoContext(ctx, "migration cycle finished",
		"sources", len(sources),
		"failed", failed,
		"duration_ms", cycle.FinishedAt.Sub(cycle.StartedAt).Milliseconds(),
	)
	return cycle
}

// attempt accumulates the state of one source's processing.
type attempt struct {
	ref         string
	started     time.Time
	source      domain.DataSource
	snapshotRef string
	noData      bool
	rawCount    int
	counts      domain.UpsertCounts
	err         error
}

func (s *MigrationService) migrateSource(ctx context.Context, name string) (summary SourceSummary) {
	ctx = observability.WithSource(ctx, name)
	ctx, span := observability.StartSourceSpan(ctx, name)
	defer span.End()

	att := &attempt{ref: s.newRef(), started: s.now()}
	defer func() {
		if r := recover(); r != nil {
			att.err = fmt.Errorf("panic: %v", r)
			s.log.ErrorContext(ctx, "source migration panicked", "panic", r, "stack", string(debug.Stack()))
		}
		summary = s.finish(ctx, name, att, span)
	}()

	s.process(ctx, name, att)
	return summary
}

func (s *MigrationService) process(ctx context.Context, name string, att *attempt) {
	source, err := s.gateway.EnsureSource(ctx, name)
	if err != nil {
		att.err = fmt.Errorf("%w: ensure source %q: %w", domain.ErrStorage, name, err)
		return
	}
	att.source = source

	snapshot, found, err := s.gateway.LatestSnapshot(ctx, name)
	if err != nil {
		if !errors.Is(err, domain.ErrFetch) {
			err = fmt.Errorf("%w: %w", domain.ErrFetch, err)
		}
		att.err = err
		return
	}
	if !found {
		att.noData = true
		return
	}
	att.snapshotRef = snapshot.Ref

	records, err := s.adapter.Adapt(name, snapshot.Blob)
	if err != nil {
		att.err = err
		return
	}
	att.rawCount = len(records)

	batch, err := s.normalizer.NormalizeBatch(ctx, name, records)
	if err != nil {
		att.err = err
		return
	}
	for _, rejection := range batch.Rejections {
		s.log.DebugContext(ctx, "record rejected", "index", rejection.Index, "reason", rejection.Reason)
	}

	counts, err := s.upserter.Upsert(ctx, source, att.ref, batch.Items)
	counts.Rejected += len(batch.Rejections)
	att.counts = counts
	att.err = err
}

func (s *MigrationService) finish(ctx context.Context, name string, att *attempt, span observability.Span) SourceSummary {
	elapsed := s.now().Sub(att.started)
	s.metrics.RecordDuration(ctx, name, elapsed)

	if att.noData && att.err == nil {
		s.log.InfoContext(ctx, "no snapshot available", "status", StatusSkippedNoData)
		return SourceSummary{Status: StatusSkippedNoData}
	}

	summary := SourceSummary{
		UpsertCounts: att.counts,
		Status:       StatusOK,
		RawCount:     att.rawCount,
	}
	if att.err != nil {
		summary.Status = StatusFailed
		summary.Error = att.err.Error()
		summary.ErrorKind = domain.ClassifyError(att.err)
		span.RecordError(att.err)
		s.metrics.RecordFailure(ctx, name, string(summary.ErrorKind))
	}
	s.metrics.RecordOutcome(ctx, name, att.counts.Inserted, att.counts.SkippedDuplicate, att.counts.Rejected)
	span.SetAttributes(
		attribute.String("snapledger.status", string(summary.Status)),
		attribute.Int("snapledger.inserted", att.counts.Inserted),
		attribute.Int("snapledger.skipped_duplicate", att.counts.SkippedDuplicate),
		attribute.Int("snapledger.rejected", att.counts.Rejected),
	)

	if att.source.ID != 0 {
		s.recordCollection(ctx, name, att)
	}

	attrs := []any{
		"status", summary.Status,
		"raw", att.rawCount,
		"inserted", att.counts.Inserted,
		"skipped_duplicate", att.counts.SkippedDuplicate,
		"rejected", att.counts.Rejected,
		"duration_ms", elapsed.Milliseconds(),
	}
	if att.err != nil {
		s.log.ErrorContext(ctx, "source migration failed", append(attrs, "error_kind", summary.ErrorKind, "error", att.err)...)
	} else {
		s.log.InfoContext(ctx, "source migrated", attrs...)
	}
	return summary
}

// recordCollection is best-effort: the items already committed stay
// committed whether or not the collection row lands.
func (s *MigrationService) recordCollection(ctx context.Context, name string, att *attempt) {
	meta := domain.CollectionMeta{
		Ref:         att.ref,
		SnapshotRef: att.snapshotRef,
		StartedAt:   att.started,
		CollectedAt: s.now(),
		ItemCount:   att.rawCount,
		Counts:      att.counts,
	}
	if att.err != nil {
		meta.Error = att.err.Error()
	}

	// The collection row outlives a cancelled request.
	writeCtx := context.WithoutCancel(ctx)
	collection, err := s.gateway.RecordCollection(writeCtx, att.source.ID, meta)
	if err != nil {
		attrs := []any{"collection_ref", att.ref, "error", err}
		if att.counts.Inserted > 0 {
			attrs = append(attrs, "collection_ref_dangling", true, "dangling_items", att.counts.Inserted)
			s.metrics.RecordDanglingRef(ctx, name, att.counts.Inserted)
		}
		s.log.WarnContext(ctx, "record collection failed", attrs...)
		return
	}
	if s.notifier == nil {
		return
	}
	if err := s.notifier.CollectionRecorded(writeCtx, name, collection); err != nil {
		s.log.WarnContext(ctx, "collection notification failed", "collection_ref", att.ref, "error", err)
	}
}
