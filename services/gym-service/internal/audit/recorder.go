// Package audit keeps a trail of admin changes to the back-office catalog.
// Each entry is also queued on the outbox so downstream consumers see it.
package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/md-rashed-zaman/gymdesk/libs/db"
	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/outbox"
)

const Topic = "gym.audit.v1"

type Entry struct {
	ActorID    string         `json:"actorId"`
	Action     string         `json:"action"`
	EntityType string         `json:"entityType"`
	EntityID   string         `json:"entityId"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
}

type Recorder struct {
	pool   *db.Pool
	outbox *outbox.Repository
	now    func() time.Time
}

// NewRecorder returns a recorder that writes audit rows. A nil outbox
// repository records the row only.
func NewRecorder(pool *db.Pool, outboxRepo *outbox.Repository) *Recorder {
	return &Recorder{pool: pool, outbox: outboxRepo, now: time.Now}
}

func (r *Recorder) Record(ctx context.Context, e Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = r.now().UTC()
	}
	meta, err := json.Marshal(metadataOrEmpty(e.Metadata))
	if err != nil {
		return err
	}
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}

	return r.pool.InTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			INSERT INTO audit_events (actor_id, action, entity_type, entity_id, metadata, created_at)
			VALUES ($1, $2, $3, $4, $5::jsonb, $6)
		`, e.ActorID, e.Action, e.EntityType, e.EntityID, string(meta), e.CreatedAt); err != nil {
			return err
		}
		if r.outbox == nil {
			return nil
		}
		return r.outbox.Insert(ctx, tx, outbox.Event{
			AggregateType: e.EntityType,
			AggregateID:   e.EntityID,
			EventType:     Topic,
			Payload:       payload,
		})
	})
}

func metadataOrEmpty(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
