package domain

import "time"

// ContentKind selects the field rules used to normalize a source's records.
type ContentKind string

const (
	KindSocial ContentKind = "social"
	KindNews   ContentKind = "news"
	KindChat   ContentKind = "chat"
	KindMarket ContentKind = "market"
)

// Valid reports whether k is one of the supported content kinds.
func (k ContentKind) Valid() bool {
	switch k {
	case KindSocial, KindNews, KindChat, KindMarket:
		return true
	default:
		return false
	}
}

// RawRecord is one loosely-typed entry extracted from a snapshot.
type RawRecord struct {
	// Section is the snapshot array the record came from; empty for flat lists.
	Section string
	Fields  map[string]any
}

// Snapshot is one raw captured payload from a single source.
type Snapshot struct {
	Source  string
	Ref     string
	TakenAt time.Time
	Blob    []byte
}

// DataSource is a registered source identity.
type DataSource struct {
	ID   int64
	Name string
}

// Payload is the normalized, typed content of a ContentItem.
// Absent optional values are nil or omitted from the encoded form.
type Payload struct {
	Kind        ContentKind        `json:"kind" validate:"oneof=social news chat market"`
	Title       string             `json:"title,omitempty"`
	Text        string             `json:"text,omitempty"`
	Author      string             `json:"author,omitempty"`
	URL         string             `json:"url,omitempty"`
	Chain       string             `json:"chain,omitempty"`
	Address     string             `json:"address,omitempty"`
	PairAddress string             `json:"pair_address,omitempty"`
	Symbol      string             `json:"symbol,omitempty"`
	Channel     string             `json:"channel,omitempty"`
	PublishedAt *time.Time         `json:"published_at,omitempty"`
	Metrics     map[string]float64 `json:"metrics,omitempty"`
}

// ContentItem is the canonical, immutable fact derived from a RawRecord.
type ContentItem struct {
	Source      string `validate:"required"`
	ExternalID  string `validate:"required,max=512"`
	ContentHash string `validate:"required,len=64,hexadecimal"`
	Payload     Payload
}

// UpsertCounts is the outcome of writing one batch of items.
type UpsertCounts struct {
	Inserted         int `json:"inserted"`
	SkippedDuplicate int `json:"skippedDuplicate"`
	Rejected         int `json:"rejected"`
}

// Add accumulates other into c.
func (c *UpsertCounts) Add(other UpsertCounts) {
	c.Inserted += other.Inserted
	c.SkippedDuplicate += other.SkippedDuplicate
	c.Rejected += other.Rejected
}

// CollectionMeta describes one finished ingestion attempt for a source.
type CollectionMeta struct {
	Ref         string
	SnapshotRef string
	StartedAt   time.Time
	CollectedAt time.Time
	ItemCount   int
	Counts      UpsertCounts
	Error       string
}

// DataCollection is a recorded ingestion attempt.
type DataCollection struct {
	ID       int64
	SourceID int64
	CollectionMeta
}
