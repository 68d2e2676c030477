package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MigrationMetrics records per-source ingestion outcomes.
type MigrationMetrics struct {
	inserted metric.Int64Counter
	skipped  metric.Int64Counter
	rejected metric.Int64Counter
	failures metric.Int64Counter
	dangling metric.Int64Counter
	duration metric.Float64Histogram
}

// NewMigrationMetrics registers the ingestion instruments on the global meter provider.
func NewMigrationMetrics() MigrationMetrics {
	meter := otel.Meter("github.com/fr0stylo/snapledger/internal/app/services")
	inserted, _ := meter.Int64Counter("snapledger.ingestion.inserted")
	skipped, _ := meter.Int64Counter("snapledger.ingestion.skipped_duplicate")
	rejected, _ := meter.Int64Counter("snapledger.ingestion.rejected")
	failures, _ := meter.Int64Counter("snapledger.ingestion.source_failures")
	dangling, _ := meter.Int64Counter("snapledger.ingestion.collection_ref_dangling",
		metric.WithDescription("Committed items whose collection_ref has no collection row."))
	duration, _ := meter.Float64Histogram("snapledger.ingestion.source_duration", metric.WithUnit("s"))
	return MigrationMetrics{
		inserted: inserted,
		skipped:  skipped,
		rejected: rejected,
		failures: failures,
		dangling: dangling,
		duration: duration,
	}
}

// RecordOutcome adds one source's counts.
func (m MigrationMetrics) RecordOutcome(ctx context.Context, source string, inserted, skipped, rejected int) {
	if m.inserted == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("source", source))
	m.inserted.Add(ctx, int64(inserted), attrs)
	m.skipped.Add(ctx, int64(skipped), attrs)
	m.rejected.Add(ctx, int64(rejected), attrs)
}

// RecordFailure counts a failed source by error kind.
func (m MigrationMetrics) RecordFailure(ctx context.Context, source, kind string) {
	if m.failures == nil {
		return
	}
	m.failures.Add(ctx, 1, metric.WithAttributes(
		attribute.String("source", source),
		attribute.String("kind", kind),
	))
}

// RecordDanglingRef counts items committed under a collection_ref whose
// collection row was never written.
func (m MigrationMetrics) RecordDanglingRef(ctx context.Context, source string, items int) {
	if m.dangling == nil {
		return
	}
	m.dangling.Add(ctx, int64(items), metric.WithAttributes(attribute.String("source", source)))
}

// RecordDuration observes how long one source took.
func (m MigrationMetrics) RecordDuration(ctx context.Context, source string, elapsed time.Duration) {
	if m.duration == nil {
		return
	}
	m.duration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(attribute.String("source", source)))
}
