package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fr0stylo/snapledger/internal/app/domain"
	"github.com/fr0stylo/snapledger/pkg/eventpublisher"
)

func TestCloudEventsNotifierPublishesCollection(t *testing.T) {
	var gotType, gotSource, gotSubject string
	var data map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotType = r.Header.Get("Ce-Type")
		gotSource = r.Header.Get("Ce-Source")
		gotSubject = r.Header.Get("Ce-Subject")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &data)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	at := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	notifier := NewCloudEventsNotifier(eventpublisher.Client{Endpoint: server.URL})
	err := notifier.CollectionRecorded(context.Background(), "birdeye", domain.DataCollection{
		ID:       4,
		SourceID: 2,
		CollectionMeta: domain.CollectionMeta{
			Ref:         "c0ffee",
			SnapshotRef: "20260301T093000Z",
			StartedAt:   at,
			CollectedAt: at.Add(time.Second),
			ItemCount:   3,
			Counts:      domain.UpsertCounts{Inserted: 2, SkippedDuplicate: 1},
		},
	})
	if err != nil {
		t.Fatalf("notify: %v", err)
	}
	if gotType != CollectionRecordedType || gotSource != "snapledger/birdeye" || gotSubject != "c0ffee" {
		t.Fatalf("unexpected headers: type=%s source=%s subject=%s", gotType, gotSource, gotSubject)
	}
	if data["inserted"] != float64(2) || data["skippedDuplicate"] != float64(1) || data["snapshotRef"] != "20260301T093000Z" {
		t.Fatalf("unexpected data: %v", data)
	}
	if _, ok := data["error"]; ok {
		t.Fatalf("error must be omitted on success: %v", data)
	}
}

func TestNopNotifier(t *testing.T) {
	if err := (Nop{}).CollectionRecorded(context.Background(), "news", domain.DataCollection{}); err != nil {
		t.Fatalf("nop returned error: %v", err)
	}
}
