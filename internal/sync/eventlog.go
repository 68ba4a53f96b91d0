package syncx

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
)

type Event struct {
	Offset    int64  `json:"offset" db:"offset"`
	Type      string `json:"type" db:"typ"`
	Key       string `json:"key" db:"key"`
	DataJSON  string `json:"data" db:"data"`
	CreatedAt int64  `json:"created_at" db:"created_at"`
}

// EventRepo is the append-only audit log of mutating operations.
type EventRepo struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewEventRepo(db *sqlx.DB) *EventRepo { return &EventRepo{db: db, now: time.Now} }

func (r *EventRepo) Append(ctx context.Context, e Event) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(
		`INSERT INTO event_log (typ, key, data, created_at) VALUES (?,?,?,?)`),
		e.Type, e.Key, e.DataJSON, r.now().Unix())
	return err
}

// Since returns up to limit events with an offset greater than after,
// oldest first.
func (r *EventRepo) Since(ctx context.Context, after int64, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 100
	}
	out := []Event{}
	err := r.db.SelectContext(ctx, &out, r.db.Rebind(
		`SELECT "offset", typ, key, data, created_at FROM event_log WHERE "offset" > ? ORDER BY "offset" LIMIT ?`),
		after, limit)
	if err != nil {
		return nil, fmt.Errorf("events since %d: %w", after, err)
	}
	return out, nil
}

// Record appends an event with data encoded as JSON. Failures are logged.
func (r *EventRepo) Record(ctx context.Context, typ, key string, data any) {
	b, err := json.Marshal(data)
	if err != nil {
		log.Printf("eventlog: encode %s %s: %v", typ, key, err)
		return
	}
	if err := r.Append(ctx, Event{Type: typ, Key: key, DataJSON: string(b)}); err != nil {
		log.Printf("eventlog: append %s %s: %v", typ, key, err)
	}
}
