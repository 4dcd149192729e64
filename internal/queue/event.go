package queue

import "time"

// Audit event actions emitted by the entity services.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// EntityChangedEvent is published to the audit queue after every
// successful entity mutation.  Consumers (audit trail, notification
// fan-out) are outside this service; publishing is fire-and-forget.
type EntityChangedEvent struct {
	Domain     string    `json:"domain"`   // incident | dataset | ticket
	Action     string    `json:"action"`   // created | updated | deleted
	EntityID   uint64    `json:"entity_id"`
	ActorID    uint64    `json:"actor_id,omitempty"` // authenticated user, 0 for seed
	OccurredAt time.Time `json:"occurred_at"`
}
