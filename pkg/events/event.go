package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "SESSION_FINISHED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Publisher is the outbound side of the event bus. Publishing is best
// effort: a failure is logged by callers, never rolled back into state.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

const TypeSessionFinished = "SESSION_FINISHED"

// SessionFinished notifies downstream consumers that an interview session
// produced its final report. SessionId doubles as the consumer-side
// idempotency key.
type SessionFinished struct {
	SessionId    uuid.UUID
	UserId       uuid.UUID
	PointsEarned int
	OccurredAt   time.Time
}

func NewSessionFinished(sessionId, userId uuid.UUID, pointsEarned int, occurredAt time.Time) SessionFinished {
	return SessionFinished{
		SessionId:    sessionId,
		UserId:       userId,
		PointsEarned: pointsEarned,
		OccurredAt:   occurredAt,
	}
}

func (e SessionFinished) EventType() string {
	return TypeSessionFinished
}

func (e SessionFinished) Payload() map[string]interface{} {
	return map[string]interface{}{
		"event":         "SessionFinished",
		"session_type":  "InterviewReady",
		"session_id":    e.SessionId.String(),
		"user_id":       e.UserId.String(),
		"points_earned": e.PointsEarned,
		"created_at":    e.OccurredAt.UTC().Format(time.RFC3339),
	}
}

func (e SessionFinished) Timestamp() time.Time {
	return e.OccurredAt
}
