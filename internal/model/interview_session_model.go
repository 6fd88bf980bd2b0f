package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// InterviewSession persists one interview attempt. The question list and the
// cursor snapshots keep the original document layout inside jsonb columns;
// version backs the optimistic concurrency check on updates.
type InterviewSession struct {
	Id               uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId           uuid.UUID      `gorm:"type:uuid;not null;index"` // Owner, immutable after creation
	SessionType      string         `gorm:"type:varchar(20);not null"`
	Seniority        string         `gorm:"type:varchar(20);not null"`
	Specialization   string         `gorm:"type:varchar(100);not null"`
	QuestionCount    int            `gorm:"not null"`
	Questions        datatypes.JSON `gorm:"type:jsonb;not null"`
	CurrentQuestion  datatypes.JSON `gorm:"type:jsonb"`
	PreviousQuestion datatypes.JSON `gorm:"type:jsonb"`
	Status           string         `gorm:"type:varchar(20);not null;index"`
	PointsEarned     int            `gorm:"not null;default:0"`
	Feedback         datatypes.JSON `gorm:"type:jsonb"`
	InitAt           time.Time      `gorm:"not null"`
	EndAt            *time.Time
	UpdatedAt        time.Time `gorm:"autoUpdateTime"`
	Version          int64     `gorm:"not null;default:1"`
}

func (InterviewSession) TableName() string {
	return "interview_sessions"
}
