package syncx

import (
	"context"
	"testing"

	"github.com/mind-engage/mindengage-mock/internal/db"
)

func TestRecordAndSince(t *testing.T) {
	ctx := context.Background()
	dbx, err := db.Open(ctx, db.DriverSQLite, "file:eventlog_test?mode=memory&cache=shared&_pragma=foreign_keys(1)", db.Options{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer dbx.Close()

	r := NewEventRepo(dbx)
	r.Record(ctx, "mock.deleted", "7", map[string]any{"media": 2})
	r.Record(ctx, "result.completed", "9", map[string]any{"total_score": 3})

	evs, err := r.Since(ctx, 0, 10)
	if err != nil {
		t.Fatalf("since: %v", err)
	}
	if len(evs) != 2 {
		t.Fatalf("want 2 events, got %d", len(evs))
	}
	if evs[0].Type != "mock.deleted" || evs[0].Key != "7" || evs[0].DataJSON != `{"media":2}` {
		t.Fatalf("unexpected first event: %+v", evs[0])
	}

	rest, err := r.Since(ctx, evs[0].Offset, 10)
	if err != nil {
		t.Fatalf("since: %v", err)
	}
	if len(rest) != 1 || rest[0].Type != "result.completed" {
		t.Fatalf("want only the second event, got %+v", rest)
	}
}
