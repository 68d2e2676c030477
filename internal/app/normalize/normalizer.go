// Package normalize converts raw records into canonical content items.
package normalize

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"runtime"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
	"golang.org/x/sync/errgroup"

	"github.com/fr0stylo/snapledger/internal/app/domain"
)

// KindLookup resolves the content kind configured for a source.
type KindLookup func(source string) (domain.ContentKind, error)

// Rejection explains why a raw record produced no item.
type Rejection struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// Result is the outcome of normalizing one record: an item or a rejection.
type Result struct {
	Item     domain.ContentItem
	Rejected *Rejection
}

// Batch is the ordered outcome of normalizing a sequence of records.
type Batch struct {
	Items      []domain.ContentItem
	Rejections []Rejection
}

// Normalizer applies per-kind field rules.
type Normalizer struct {
	kinds    KindLookup
	workers  int
	validate *validator.Validate
}

var canonicalJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// New builds a normalizer. workers bounds batch parallelism; values below
// one fall back to GOMAXPROCS.
func New(kinds KindLookup, workers int) *Normalizer {
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Normalizer{
		kinds:    kinds,
		workers:  workers,
		validate: validator.New(),
	}
}

// Normalize converts one raw record. The error is reserved for an unknown
// source; malformed records come back as a rejected Result.
func (n *Normalizer) Normalize(source string, record domain.RawRecord) (Result, error) {
	kind, err := n.kinds(source)
	if err != nil {
		return Result{}, err
	}
	return n.normalize(source, kind, record), nil
}

// NormalizeBatch normalizes records in parallel and keeps input order.
func (n *Normalizer) NormalizeBatch(ctx context.Context, source string, records []domain.RawRecord) (Batch, error) {
	kind, err := n.kinds(source)
	if err != nil {
		return Batch{}, err
	}
	if len(records) == 0 {
		return Batch{}, nil
	}

	results := make([]Result, len(records))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(n.workers)
	for i := range records {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			results[i] = n.normalize(source, kind, records[i])
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return Batch{}, err
	}

	batch := Batch{Items: make([]domain.ContentItem, 0, len(records))}
	for i, result := range results {
		if result.Rejected != nil {
			rejection := *result.Rejected
			rejection.Index = i
			batch.Rejections = append(batch.Rejections, rejection)
			continue
		}
		batch.Items = append(batch.Items, result.Item)
	}
	return batch, nil
}

func (n *Normalizer) normalize(source string, kind domain.ContentKind, record domain.RawRecord) Result {
	if len(record.Fields) == 0 {
		return reject("record is not an object")
	}
	rules, ok := kindRules[kind]
	if !ok {
		return reject(fmt.Sprintf("no field rules for kind %q", kind))
	}

	payload := buildPayload(kind, rules, record.Fields)
	if missing := rules.incomplete(payload); missing != "" {
		return reject("missing required field " + missing)
	}

	externalID := explicitID(kind, rules, record.Fields, payload)
	if externalID == "" && rules.fallbackID != nil {
		externalID = rules.fallbackID(record.Section, payload)
	}
	if externalID == "" {
		return reject("no identifier and no fallback identity")
	}

	hash, err := contentHash(payload)
	if err != nil {
		return reject("encode payload: " + err.Error())
	}

	item := domain.ContentItem{
		Source:      source,
		ExternalID:  externalID,
		ContentHash: hash,
		Payload:     payload,
	}
	if err := n.validate.Struct(item); err != nil {
		return reject("invalid item: " + err.Error())
	}
	return Result{Item: item}
}

func buildPayload(kind domain.ContentKind, rules fieldRules, fields map[string]any) domain.Payload {
	payload := domain.Payload{
		Kind:        kind,
		Title:       cleanText(firstString(fields, rules.title)),
		Text:        cleanText(firstString(fields, rules.text)),
		Author:      firstString(fields, rules.author),
		URL:         canonicalURL(firstString(fields, rules.url)),
		Chain:       firstString(fields, rules.chain),
		Address:     firstString(fields, rules.address),
		PairAddress: firstString(fields, rules.pair),
		Symbol:      firstString(fields, rules.symbol),
		Channel:     firstString(fields, rules.channel),
		PublishedAt: firstTime(fields, rules.published),
	}
	for name, paths := range rules.metrics {
		value, ok := firstFloat(fields, paths)
		if !ok {
			continue
		}
		if payload.Metrics == nil {
			payload.Metrics = make(map[string]float64, len(rules.metrics))
		}
		payload.Metrics[name] = value
	}
	return payload
}

// contentHash is the hex SHA-256 of the payload's canonical JSON form.
func contentHash(payload domain.Payload) (string, error) {
	encoded, err := canonicalJSON.Marshal(payload)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(encoded)
	return hex.EncodeToString(sum[:]), nil
}

func reject(reason string) Result {
	return Result{Rejected: &Rejection{Reason: reason}}
}
