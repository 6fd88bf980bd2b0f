package contract

import (
	"context"
	"errors"

	"interview-ready-be/internal/entity"
	"interview-ready-be/internal/repository/specification"
)

// ErrVersionConflict is returned by Update when the stored session no longer
// matches the version the caller read. The caller must reload and decide.
var ErrVersionConflict = errors.New("interview session was modified concurrently")

type InterviewSessionRepository interface {
	Create(ctx context.Context, session *entity.InterviewSession) error

	// Update writes the whole session, conditioned on the version the
	// entity was loaded with, and bumps the version on success. A stale
	// write returns ErrVersionConflict instead of silently overwriting.
	Update(ctx context.Context, session *entity.InterviewSession) error

	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.InterviewSession, error)

	// FindSummaries projects the summary columns only; questions, cursor
	// snapshots and feedback are never loaded for history listings.
	FindSummaries(ctx context.Context, specs ...specification.Specification) ([]*entity.InterviewSummary, error)

	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
