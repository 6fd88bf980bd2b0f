package implementation

import (
	"context"
	"errors"

	"interview-ready-be/internal/entity"
	"interview-ready-be/internal/mapper"
	"interview-ready-be/internal/model"
	"interview-ready-be/internal/repository/contract"
	"interview-ready-be/internal/repository/specification"

	"gorm.io/gorm"
)

type InterviewSessionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.InterviewMapper
}

func NewInterviewSessionRepository(db *gorm.DB) contract.InterviewSessionRepository {
	return &InterviewSessionRepositoryImpl{
		db:     db,
		mapper: mapper.NewInterviewMapper(),
	}
}

func (r *InterviewSessionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *InterviewSessionRepositoryImpl) Create(ctx context.Context, session *entity.InterviewSession) error {
	m, err := r.mapper.ToModel(session)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	loaded, err := r.mapper.ToEntity(m)
	if err != nil {
		return err
	}
	*session = *loaded
	return nil
}

func (r *InterviewSessionRepositoryImpl) Update(ctx context.Context, session *entity.InterviewSession) error {
	m, err := r.mapper.ToModel(session)
	if err != nil {
		return err
	}

	// Conditioned on the version the caller read; a concurrent writer that
	// got there first leaves RowsAffected at zero.
	res := r.db.WithContext(ctx).
		Model(&model.InterviewSession{}).
		Where("id = ? AND version = ?", m.Id, session.Version).
		Updates(map[string]interface{}{
			"questions":         m.Questions,
			"current_question":  m.CurrentQuestion,
			"previous_question": m.PreviousQuestion,
			"status":            m.Status,
			"points_earned":     m.PointsEarned,
			"feedback":          m.Feedback,
			"end_at":            m.EndAt,
			"updated_at":        m.UpdatedAt,
			"version":           session.Version + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return contract.ErrVersionConflict
	}

	session.Version++
	return nil
}

func (r *InterviewSessionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.InterviewSession, error) {
	var m model.InterviewSession
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m)
}

func (r *InterviewSessionRepositoryImpl) FindSummaries(ctx context.Context, specs ...specification.Specification) ([]*entity.InterviewSummary, error) {
	var rows []*model.InterviewSession
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.InterviewSession{}), specs...)
	query = query.Select(
		"id", "user_id", "session_type", "seniority", "specialization",
		"question_count", "status", "points_earned", "init_at", "end_at", "updated_at",
	)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	summaries := make([]*entity.InterviewSummary, len(rows))
	for i, row := range rows {
		summaries[i] = r.mapper.ToSummary(row)
	}
	return summaries, nil
}

func (r *InterviewSessionRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.InterviewSession{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
