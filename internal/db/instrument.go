package db

import (
	"cmp"
	"context"
	"database/sql"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/fr0stylo/snapledger/internal/db/queries"
	"github.com/fr0stylo/snapledger/internal/observability"
)

// QueryStats aggregates the timings of one named query since open.
type QueryStats struct {
	Name  string
	Count int64
	Mean  time.Duration
	Max   time.Duration
}

// queryTimings keeps running totals per sqlc query and mirrors each
// observation into an OTel histogram.
type queryTimings struct {
	mu        sync.Mutex
	totals    map[string]*QueryStats
	histogram metric.Float64Histogram
	dialect   string
}

func newQueryTimings(dialect string) *queryTimings {
	histogram, _ := otel.Meter("github.com/fr0stylo/snapledger/internal/db").Float64Histogram(
		"snapledger.db.query_duration",
		metric.WithUnit("s"),
	)
	return &queryTimings{totals: make(map[string]*QueryStats), histogram: histogram, dialect: dialect}
}

func (t *queryTimings) observe(ctx context.Context, name string, elapsed time.Duration) {
	if t == nil {
		return
	}
	if t.histogram != nil {
		t.histogram.Record(ctx, elapsed.Seconds(), metric.WithAttributes(
			attribute.String("db.query_name", name),
			attribute.String("db.system.name", t.dialect),
		))
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	entry, ok := t.totals[name]
	if !ok {
		entry = &QueryStats{Name: name}
		t.totals[name] = entry
	}
	entry.Count++
	entry.Mean += (elapsed - entry.Mean) / time.Duration(entry.Count)
	entry.Max = max(entry.Max, elapsed)
}

func (t *queryTimings) stats() []QueryStats {
	if t == nil {
		return nil
	}
	t.mu.Lock()
	out := make([]QueryStats, 0, len(t.totals))
	for _, entry := range t.totals {
		out = append(out, *entry)
	}
	t.mu.Unlock()

	slices.SortFunc(out, func(a, b QueryStats) int {
		return cmp.Or(cmp.Compare(b.Max, a.Max), strings.Compare(a.Name, b.Name))
	})
	return out
}

// QueryStats returns per-query timings, slowest first.
func (c *Database) QueryStats() []QueryStats {
	if c == nil {
		return nil
	}
	return c.timings.stats()
}

// instrumentedDBTX traces and times every sqlc call and rebinds
// placeholders for postgres.
type instrumentedDBTX struct {
	inner   queries.DBTX
	timings *queryTimings
	dialect string
}

func newInstrumentedDBTX(inner queries.DBTX, timings *queryTimings, dialect string) queries.DBTX {
	return &instrumentedDBTX{inner: inner, timings: timings, dialect: dialect}
}

// begin starts a span for one call and returns the rebound query and a
// finisher recording the outcome.
func (d *instrumentedDBTX) begin(ctx context.Context, query, operation string) (context.Context, string, func(error)) {
	name := queryName(query)
	ctx, span := observability.StartDBSpan(ctx, d.dialect, name, operation)
	start := time.Now()
	return ctx, d.rebind(query), func(err error) {
		d.timings.observe(ctx, name, time.Since(start))
		span.RecordError(err)
		span.End()
	}
}

func (d *instrumentedDBTX) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	ctx, query, done := d.begin(ctx, query, "exec")
	result, err := d.inner.ExecContext(ctx, query, args...)
	done(err)
	return result, err
}

func (d *instrumentedDBTX) PrepareContext(ctx context.Context, query string) (*sql.Stmt, error) {
	ctx, query, done := d.begin(ctx, query, "prepare")
	stmt, err := d.inner.PrepareContext(ctx, query)
	done(err)
	return stmt, err
}

func (d *instrumentedDBTX) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	ctx, query, done := d.begin(ctx, query, "query")
	rows, err := d.inner.QueryContext(ctx, query, args...)
	done(err)
	return rows, err
}

func (d *instrumentedDBTX) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	ctx, query, done := d.begin(ctx, query, "query_row")
	row := d.inner.QueryRowContext(ctx, query, args...)
	done(row.Err())
	return row
}

// rebind rewrites ? placeholders into $n for postgres. The ledger queries
// carry no literal question marks.
func (d *instrumentedDBTX) rebind(query string) string {
	if d.dialect != DriverPostgres || !strings.Contains(query, "?") {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r != '?' {
			b.WriteRune(r)
			continue
		}
		n++
		b.WriteByte('$')
		b.WriteString(strconv.Itoa(n))
	}
	return b.String()
}

// queryName reads the sqlc "-- name: X :kind" header.
func queryName(query string) string {
	header, _, _ := strings.Cut(strings.TrimSpace(query), "\n")
	rest, ok := strings.CutPrefix(strings.TrimSpace(header), "-- name:")
	if !ok {
		return "unknown"
	}
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return "unknown"
	}
	return fields[0]
}
