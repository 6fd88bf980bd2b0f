package service

import (
	"context"
	"errors"
	"time"

	"interview-ready-be/internal/dto"
	"interview-ready-be/internal/entity"
	"interview-ready-be/internal/pkg/apperror"
	"interview-ready-be/internal/pkg/logger"
	"interview-ready-be/internal/repository/contract"
	"interview-ready-be/internal/repository/specification"
	"interview-ready-be/internal/repository/unitofwork"
	"interview-ready-be/pkg/assessor"
	"interview-ready-be/pkg/events"

	"github.com/google/uuid"
)

type IFeedbackService interface {
	GetFeedback(ctx context.Context, userId uuid.UUID, interviewId uuid.UUID) (*dto.FeedbackResponse, error)

	// ComputeAndStore is the consumer-side entrypoint: it warms the
	// feedback cache without an owner check, since the message originates
	// from our own completion pipeline.
	ComputeAndStore(ctx context.Context, interviewId uuid.UUID) error
}

type feedbackService struct {
	uowFactory  unitofwork.RepositoryFactory
	scorer      assessor.ScoringService
	eventPub    events.Publisher
	deduper     *events.Deduper
	logger      logger.ILogger
	callTimeout time.Duration
}

func NewFeedbackService(
	uowFactory unitofwork.RepositoryFactory,
	scorer assessor.ScoringService,
	eventPub events.Publisher,
	deduper *events.Deduper,
	log logger.ILogger,
	callTimeout time.Duration,
) IFeedbackService {
	return &feedbackService{
		uowFactory:  uowFactory,
		scorer:      scorer,
		eventPub:    eventPub,
		deduper:     deduper,
		logger:      log,
		callTimeout: callTimeout,
	}
}

func (c *feedbackService) GetFeedback(ctx context.Context, userId uuid.UUID, interviewId uuid.UUID) (*dto.FeedbackResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	repo := uow.InterviewSessionRepository()

	session, err := repo.FindOne(ctx, specification.ByID{ID: interviewId})
	if err != nil {
		return nil, apperror.Persistence("failed to load interview session", err)
	}
	if session == nil {
		return nil, apperror.NotFound("interview session not found")
	}
	if session.UserId != userId {
		return nil, apperror.Unauthorized("interview belongs to another user")
	}
	if !session.IsCompleted() {
		return nil, apperror.InvalidState("interview is still in progress")
	}

	// Cached path: the stored report is immutable, so serving it twice
	// yields identical payloads.
	if session.Feedback != nil {
		c.publishFinished(ctx, session)
		return toFeedbackResponse(session), nil
	}

	session, err = c.scoreAndAttach(ctx, repo, session)
	if err != nil {
		return nil, err
	}

	c.publishFinished(ctx, session)
	return toFeedbackResponse(session), nil
}

func (c *feedbackService) ComputeAndStore(ctx context.Context, interviewId uuid.UUID) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	repo := uow.InterviewSessionRepository()

	session, err := repo.FindOne(ctx, specification.ByID{ID: interviewId})
	if err != nil {
		return apperror.Persistence("failed to load interview session", err)
	}
	if session == nil {
		return apperror.NotFound("interview session not found")
	}
	if !session.IsCompleted() {
		return apperror.InvalidState("interview is still in progress")
	}
	if session.Feedback != nil {
		c.publishFinished(ctx, session)
		return nil
	}

	session, err = c.scoreAndAttach(ctx, repo, session)
	if err != nil {
		return err
	}

	c.publishFinished(ctx, session)
	return nil
}

// scoreAndAttach runs the scoring call, normalizes the result and persists it
// under the session's optimistic lock. On a version conflict another writer
// got there first; the reloaded session wins if it already carries feedback.
func (c *feedbackService) scoreAndAttach(ctx context.Context, repo contract.InterviewSessionRepository, session *entity.InterviewSession) (*entity.InterviewSession, error) {
	answered := make([]assessor.AnsweredQuestion, 0, len(session.Questions))
	for _, q := range session.Questions {
		item := assessor.AnsweredQuestion{
			Id:         q.Id,
			Question:   q.Prompt,
			Competency: q.Competency,
			Difficulty: string(q.Difficulty),
		}
		if q.Answer != nil {
			item.Answer = *q.Answer
		}
		if q.Feedback != nil {
			item.Feedback = *q.Feedback
		}
		answered = append(answered, item)
	}

	scoreCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	score, err := c.scorer.ScoreSession(scoreCtx, assessor.ScoreSessionRequest{
		Questions:      answered,
		Seniority:      string(session.Seniority),
		Specialization: session.Specialization,
		InterviewType:  string(session.SessionType),
	})
	if err != nil {
		c.logger.Error("feedback_service", "session scoring failed", map[string]interface{}{
			"interview_id": session.Id.String(),
			"error":        err.Error(),
		})
		return nil, apperror.Scoring("failed to score interview session", err)
	}

	feedback, err := normalizeScore(score)
	if err != nil {
		return nil, err
	}

	if err := session.AttachFeedback(feedback, time.Now()); err != nil {
		return nil, err
	}

	if err := repo.Update(ctx, session); err != nil {
		if errors.Is(err, contract.ErrVersionConflict) {
			reloaded, findErr := repo.FindOne(ctx, specification.ByID{ID: session.Id})
			if findErr == nil && reloaded != nil && reloaded.Feedback != nil {
				return reloaded, nil
			}
			return nil, apperror.Conflict("interview was modified concurrently, please retry")
		}
		return nil, apperror.Persistence("failed to save feedback", err)
	}
	return session, nil
}

// normalizeScore clamps model output into the documented ranges and derives
// the points total from the overall score, never from the model's own claim.
func normalizeScore(score *assessor.SessionScore) (*entity.Feedback, error) {
	if len(score.CompetencyBreakdown) == 0 {
		return nil, apperror.Scoring("scoring produced no competency breakdown", nil)
	}

	overall := clampScore(score.OverallScore)
	breakdown := make([]entity.CompetencyScore, 0, len(score.CompetencyBreakdown))
	for _, cs := range score.CompetencyBreakdown {
		breakdown = append(breakdown, entity.CompetencyScore{
			Name:  cs.Name,
			Score: clampScore(cs.Score),
		})
	}

	focus := score.FocusQuestions
	if len(focus) > entity.MaxFocusQuestions {
		focus = focus[:entity.MaxFocusQuestions]
	}

	summary := score.SummaryFeedback
	if len(summary) > entity.MaxSummaryLength {
		summary = summary[:entity.MaxSummaryLength]
	}

	return &entity.Feedback{
		OverallScore:        overall,
		CompetencyBreakdown: breakdown,
		PointsEarned:        pointsForScore(overall),
		FocusQuestions:      focus,
		Summary:             summary,
	}, nil
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func pointsForScore(overall int) int {
	switch {
	case overall >= 80:
		return 10
	case overall >= 60:
		return 5
	default:
		return 2
	}
}

// publishFinished emits the SESSION_FINISHED event at most once per session.
// Emission is best effort and never fails the request.
func (c *feedbackService) publishFinished(ctx context.Context, session *entity.InterviewSession) {
	if c.eventPub == nil || session.Feedback == nil {
		return
	}
	if c.deduper != nil && !c.deduper.FirstEmit(ctx, session.Id.String()) {
		return
	}

	occurredAt := time.Now()
	if session.EndAt != nil {
		occurredAt = *session.EndAt
	}
	evt := events.NewSessionFinished(session.Id, session.UserId, session.PointsEarned, occurredAt)
	if err := c.eventPub.Publish(ctx, evt); err != nil {
		c.logger.Warn("feedback_service", "failed to publish session finished event", map[string]interface{}{
			"interview_id": session.Id.String(),
			"error":        err.Error(),
		})
	}
}

func toFeedbackResponse(session *entity.InterviewSession) *dto.FeedbackResponse {
	breakdown := make([]dto.CompetencyScoreResponse, 0, len(session.Feedback.CompetencyBreakdown))
	for _, cs := range session.Feedback.CompetencyBreakdown {
		breakdown = append(breakdown, dto.CompetencyScoreResponse{
			Name:  cs.Name,
			Score: cs.Score,
		})
	}

	return &dto.FeedbackResponse{
		InterviewId:  session.Id,
		UserId:       session.UserId,
		PointsEarned: session.PointsEarned,
		Feedback: dto.FeedbackPayload{
			OverallScore:        session.Feedback.OverallScore,
			CompetencyBreakdown: breakdown,
			PointsEarned:        session.Feedback.PointsEarned,
			FocusQuestions:      session.Feedback.FocusQuestions,
			SummaryFeedback:     session.Feedback.Summary,
		},
		InitAt:   session.InitAt,
		FinishAt: session.EndAt,
	}
}
