// Package extract turns raw snapshot blobs into raw records using a closed,
// table-driven set of per-source extraction rules.
package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/samber/lo"

	"github.com/fr0stylo/snapledger/internal/app/domain"
)

// Shape names one supported snapshot layout.
type Shape string

const (
	// ShapeList is a flat array of records.
	ShapeList Shape = "list"
	// ShapeKeyed is an object holding one array under a known key.
	ShapeKeyed Shape = "keyed"
	// ShapeMulti is an object holding several named arrays to concatenate.
	ShapeMulti Shape = "multi"
)

// Rule binds a source name to its snapshot shape and content kind.
type Rule struct {
	Source string             `mapstructure:"name"`
	Shape  Shape              `mapstructure:"shape"`
	Keys   []string           `mapstructure:"keys"`
	Kind   domain.ContentKind `mapstructure:"kind"`
}

// Validate checks the rule is complete for its shape.
func (r Rule) Validate() error {
	if strings.TrimSpace(r.Source) == "" {
		return fmt.Errorf("source name is required")
	}
	if !r.Kind.Valid() {
		return fmt.Errorf("source %q: unsupported kind %q", r.Source, r.Kind)
	}
	if _, ok := extractors[r.Shape]; !ok {
		return fmt.Errorf("source %q: unsupported shape %q", r.Source, r.Shape)
	}
	switch r.Shape {
	case ShapeList:
		if len(r.Keys) != 0 {
			return fmt.Errorf("source %q: list shape takes no keys", r.Source)
		}
	case ShapeKeyed:
		if len(r.Keys) != 1 || strings.TrimSpace(r.Keys[0]) == "" {
			return fmt.Errorf("source %q: keyed shape needs exactly one key", r.Source)
		}
	case ShapeMulti:
		if len(lo.Compact(r.Keys)) < 2 {
			return fmt.Errorf("source %q: multi shape needs at least two keys", r.Source)
		}
	}
	return nil
}

type extractor func(rule Rule, blob []byte) ([]domain.RawRecord, error)

var extractors = map[Shape]extractor{
	ShapeList:  extractList,
	ShapeKeyed: extractKeyed,
	ShapeMulti: extractMulti,
}

var decoder = jsoniter.Config{UseNumber: true}.Froze()

// DefaultRules is the built-in source table.
func DefaultRules() []Rule {
	return []Rule{
		{Source: "twitter", Shape: ShapeList, Kind: domain.KindSocial},
		{Source: "news", Shape: ShapeList, Kind: domain.KindNews},
		{Source: "telegram", Shape: ShapeList, Kind: domain.KindChat},
		{Source: "coinmarketcap", Shape: ShapeKeyed, Keys: []string{"gainers"}, Kind: domain.KindMarket},
		{Source: "birdeye", Shape: ShapeKeyed, Keys: []string{"token_data"}, Kind: domain.KindMarket},
		{Source: "dexscreener", Shape: ShapeMulti, Keys: []string{"latest_token_profiles", "latest_boosted_tokens", "top_boosted_tokens"}, Kind: domain.KindMarket},
	}
}

// Registry maps source names to extraction rules.
type Registry struct {
	rules map[string]Rule
}

// NewRegistry validates and indexes rules. Duplicate source names are rejected.
func NewRegistry(rules ...Rule) (*Registry, error) {
	indexed := make(map[string]Rule, len(rules))
	for _, rule := range rules {
		rule.Source = strings.TrimSpace(rule.Source)
		rule.Keys = lo.Map(rule.Keys, func(key string, _ int) string { return strings.TrimSpace(key) })
		if err := rule.Validate(); err != nil {
			return nil, err
		}
		if _, exists := indexed[rule.Source]; exists {
			return nil, fmt.Errorf("source %q configured twice", rule.Source)
		}
		indexed[rule.Source] = rule
	}
	return &Registry{rules: indexed}, nil
}

// Sources returns configured source names in stable order.
func (r *Registry) Sources() []string {
	names := lo.Keys(r.rules)
	sort.Strings(names)
	return names
}

// Rule returns the rule for a source or a configuration error.
func (r *Registry) Rule(source string) (Rule, error) {
	rule, ok := r.rules[source]
	if !ok {
		return Rule{}, fmt.Errorf("%w: no adapter for source %q", domain.ErrConfiguration, source)
	}
	return rule, nil
}

// Kind returns the content kind configured for a source.
func (r *Registry) Kind(source string) (domain.ContentKind, error) {
	rule, err := r.Rule(source)
	if err != nil {
		return "", err
	}
	return rule.Kind, nil
}

// Adapt extracts the raw records of one snapshot blob.
func (r *Registry) Adapt(source string, blob []byte) ([]domain.RawRecord, error) {
	rule, err := r.Rule(source)
	if err != nil {
		return nil, err
	}
	records, err := extractors[rule.Shape](rule, blob)
	if err != nil {
		return nil, fmt.Errorf("%w: source %q: %w", domain.ErrAdaptation, source, err)
	}
	return records, nil
}

func extractList(_ Rule, blob []byte) ([]domain.RawRecord, error) {
	return decodeArray("", blob)
}

func extractKeyed(rule Rule, blob []byte) ([]domain.RawRecord, error) {
	top, err := decodeObject(blob)
	if err != nil {
		return nil, err
	}
	key := rule.Keys[0]
	raw, ok := top[key]
	if !ok {
		return nil, fmt.Errorf("missing key %q", key)
	}
	return decodeArray(key, raw)
}

func extractMulti(rule Rule, blob []byte) ([]domain.RawRecord, error) {
	top, err := decodeObject(blob)
	if err != nil {
		return nil, err
	}
	var (
		records []domain.RawRecord
		matched int
	)
	for _, key := range rule.Keys {
		raw, ok := top[key]
		if !ok {
			continue
		}
		matched++
		section, err := decodeArray(key, raw)
		if err != nil {
			return nil, err
		}
		records = append(records, section...)
	}
	if matched == 0 {
		return nil, fmt.Errorf("none of keys %s present", strings.Join(rule.Keys, ", "))
	}
	return records, nil
}

func decodeObject(blob []byte) (map[string]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(blob)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("expected a JSON object")
	}
	var top map[string]json.RawMessage
	if err := decoder.Unmarshal(trimmed, &top); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return top, nil
}

func decodeArray(section string, raw []byte) ([]domain.RawRecord, error) {
	trimmed := bytes.TrimSpace(raw)
	if bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if len(trimmed) == 0 || trimmed[0] != '[' {
		if section == "" {
			return nil, fmt.Errorf("expected a JSON array")
		}
		return nil, fmt.Errorf("expected %q to be a JSON array", section)
	}
	var elements []any
	if err := decoder.Unmarshal(trimmed, &elements); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	records := make([]domain.RawRecord, 0, len(elements))
	for _, element := range elements {
		fields, _ := element.(map[string]any)
		records = append(records, domain.RawRecord{Section: section, Fields: fields})
	}
	return records, nil
}
