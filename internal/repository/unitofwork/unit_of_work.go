package unitofwork

import (
	"context"

	"interview-ready-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	InterviewSessionRepository() contract.InterviewSessionRepository
}
