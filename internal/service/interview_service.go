package service

import (
	"context"
	"encoding/json"
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

	"github.com/google/uuid"
)

type IInterviewService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateInterviewRequest) (*dto.CreateInterviewResponse, error)
	SubmitAnswer(ctx context.Context, userId uuid.UUID, interviewId uuid.UUID, req *dto.SubmitAnswerRequest) (*dto.SubmitAnswerResponse, error)
	Show(ctx context.Context, userId uuid.UUID, interviewId uuid.UUID) (*dto.ShowInterviewResponse, error)
	GetHistory(ctx context.Context, userId uuid.UUID, status string, limit, skip int) (*dto.ListInterviewsResponse, error)
}

type interviewService struct {
	uowFactory       unitofwork.RepositoryFactory
	generator        assessor.QuestionGenerator
	evaluator        assessor.AnswerEvaluator
	publisherService IPublisherService
	logger           logger.ILogger
	callTimeout      time.Duration
}

func NewInterviewService(
	uowFactory unitofwork.RepositoryFactory,
	generator assessor.QuestionGenerator,
	evaluator assessor.AnswerEvaluator,
	publisherService IPublisherService,
	log logger.ILogger,
	callTimeout time.Duration,
) IInterviewService {
	return &interviewService{
		uowFactory:       uowFactory,
		generator:        generator,
		evaluator:        evaluator,
		publisherService: publisherService,
		logger:           log,
		callTimeout:      callTimeout,
	}
}

func (c *interviewService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateInterviewRequest) (*dto.CreateInterviewResponse, error) {
	sessionType, err := entity.ParseSessionType(req.InterviewType)
	if err != nil {
		return nil, err
	}
	seniority, err := entity.ParseSeniority(req.Seniority)
	if err != nil {
		return nil, err
	}
	count, err := entity.ParseQuestionCount(req.QuestionCount)
	if err != nil {
		return nil, err
	}

	genCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	batch, err := c.generator.GenerateQuestions(genCtx, assessor.GenerateQuestionsRequest{
		Count:          count,
		Seniority:      string(seniority),
		Specialization: req.Specialization,
		InterviewType:  string(sessionType),
	})
	if err != nil {
		c.logger.Error("interview_service", "question generation failed", map[string]interface{}{
			"user_id": userId.String(),
			"error":   err.Error(),
		})
		return nil, apperror.Generation("failed to generate interview questions", err)
	}

	questions := make([]*entity.Question, 0, len(batch.Questions))
	for _, g := range batch.Questions {
		q, err := entity.NewQuestion(len(questions)+1, g.Question, g.Competency, g.Difficulty)
		if err != nil {
			// Generator output that fails validation is dropped, not fatal.
			c.logger.Warn("interview_service", "discarding generated question", map[string]interface{}{
				"user_id": userId.String(),
				"reason":  err.Error(),
			})
			continue
		}
		questions = append(questions, q)
	}
	if len(questions) == 0 {
		return nil, apperror.Generation("generator returned no usable questions", nil)
	}

	session, err := entity.NewInterviewSession(userId, sessionType, seniority, req.Specialization, questions, time.Now())
	if err != nil {
		return nil, err
	}
	session.Id = uuid.New()

	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.InterviewSessionRepository().Create(ctx, session); err != nil {
		c.logger.Error("interview_service", "failed to persist new interview", map[string]interface{}{
			"interview_id": session.Id.String(),
			"error":        err.Error(),
		})
		return nil, apperror.Persistence("failed to save interview session", err)
	}

	var next *dto.QuestionResponse
	if len(session.Questions) > 1 {
		next = toQuestionResponse(session.Questions[1])
	}

	return &dto.CreateInterviewResponse{
		Id:              session.Id,
		UserId:          session.UserId,
		InterviewType:   string(session.SessionType),
		Status:          string(session.Status),
		QuestionCount:   session.QuestionCount,
		CurrentQuestion: toQuestionResponse(session.CurrentQuestion),
		NextQuestion:    next,
		InitAt:          session.InitAt,
	}, nil
}

func (c *interviewService) SubmitAnswer(ctx context.Context, userId uuid.UUID, interviewId uuid.UUID, req *dto.SubmitAnswerRequest) (*dto.SubmitAnswerResponse, error) {
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
	if session.IsCompleted() {
		return nil, apperror.InvalidState("interview has already been completed")
	}
	if session.CurrentQuestion == nil {
		return nil, apperror.InvalidState("no current question available")
	}

	evalCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	evaluation, err := c.evaluator.EvaluateAnswer(evalCtx, assessor.EvaluateAnswerRequest{
		Question:       session.CurrentQuestion.Prompt,
		Answer:         req.Answer,
		Seniority:      string(session.Seniority),
		Specialization: session.Specialization,
		InterviewType:  string(session.SessionType),
	})
	if err != nil {
		c.logger.Error("interview_service", "answer evaluation failed", map[string]interface{}{
			"interview_id": session.Id.String(),
			"question_id":  session.CurrentQuestion.Id,
			"error":        err.Error(),
		})
		return nil, apperror.Generation("failed to evaluate answer", err)
	}

	now := time.Now()
	if err := session.RecordAnswer(req.Answer, evaluation.Feedback, now); err != nil {
		return nil, err
	}

	completed := false
	if evaluation.Accepted {
		completed, err = session.Advance(now)
		if err != nil {
			return nil, err
		}
	}

	if err := repo.Update(ctx, session); err != nil {
		if errors.Is(err, contract.ErrVersionConflict) {
			return nil, apperror.Conflict("interview was modified concurrently, please retry")
		}
		c.logger.Error("interview_service", "failed to persist answer", map[string]interface{}{
			"interview_id": session.Id.String(),
			"error":        err.Error(),
		})
		return nil, apperror.Persistence("failed to save interview session", err)
	}

	if completed {
		c.publishCompleted(ctx, session.Id)
	}

	resp := &dto.SubmitAnswerResponse{
		Id:              session.Id,
		UserId:          session.UserId,
		InterviewType:   string(session.SessionType),
		Status:          string(session.Status),
		QuestionCount:   session.QuestionCount,
		Accepted:        evaluation.Accepted,
		Feedback:        evaluation.Feedback,
		CurrentQuestion: toQuestionResponse(session.PreviousQuestion),
	}
	if completed {
		resp.Message = "Interview completed. Your feedback report is being prepared."
	} else {
		resp.NextQuestion = toQuestionResponse(session.CurrentQuestion)
	}
	return resp, nil
}

// publishCompleted hands the session to the async feedback pipeline. Failure
// is logged only; the completed state is already durable and feedback can
// still be computed on demand.
func (c *interviewService) publishCompleted(ctx context.Context, interviewId uuid.UUID) {
	payload, err := json.Marshal(dto.SessionCompletedMessage{SessionId: interviewId})
	if err != nil {
		return
	}
	if err := c.publisherService.Publish(ctx, payload); err != nil {
		c.logger.Warn("interview_service", "failed to publish completion message", map[string]interface{}{
			"interview_id": interviewId.String(),
			"error":        err.Error(),
		})
	}
}

func (c *interviewService) Show(ctx context.Context, userId uuid.UUID, interviewId uuid.UUID) (*dto.ShowInterviewResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	session, err := uow.InterviewSessionRepository().FindOne(ctx, specification.ByID{ID: interviewId})
	if err != nil {
		return nil, apperror.Persistence("failed to load interview session", err)
	}
	if session == nil {
		return nil, apperror.NotFound("interview session not found")
	}
	if session.UserId != userId {
		return nil, apperror.Unauthorized("interview belongs to another user")
	}

	questions := make([]*dto.QuestionResponse, 0, len(session.Questions))
	for _, q := range session.Questions {
		questions = append(questions, toQuestionResponse(q))
	}

	return &dto.ShowInterviewResponse{
		Id:              session.Id,
		UserId:          session.UserId,
		InterviewType:   string(session.SessionType),
		Seniority:       string(session.Seniority),
		Specialization:  session.Specialization,
		Status:          string(session.Status),
		QuestionCount:   session.QuestionCount,
		Questions:       questions,
		CurrentQuestion: toQuestionResponse(session.CurrentQuestion),
		PointsEarned:    session.PointsEarned,
		InitAt:          session.InitAt,
		EndAt:           session.EndAt,
	}, nil
}

func (c *interviewService) GetHistory(ctx context.Context, userId uuid.UUID, status string, limit, skip int) (*dto.ListInterviewsResponse, error) {
	if status != "" {
		parsed := entity.SessionStatus(status)
		if !parsed.Valid() {
			return nil, apperror.Validation("unknown status filter: " + status)
		}
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if skip < 0 {
		skip = 0
	}

	filters := []specification.Specification{
		specification.OwnedBy{UserID: userId},
	}
	if status != "" {
		filters = append(filters, specification.ByStatus{Status: status})
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)
	repo := uow.InterviewSessionRepository()

	total, err := repo.Count(ctx, filters...)
	if err != nil {
		return nil, apperror.Persistence("failed to count interview sessions", err)
	}

	listSpecs := append(append([]specification.Specification{}, filters...),
		specification.OrderBy{Field: "init_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: skip},
	)
	summaries, err := repo.FindSummaries(ctx, listSpecs...)
	if err != nil {
		return nil, apperror.Persistence("failed to list interview sessions", err)
	}

	items := make([]*dto.InterviewSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		items = append(items, &dto.InterviewSummaryResponse{
			Id:             s.Id,
			UserId:         s.UserId,
			InterviewType:  string(s.SessionType),
			Seniority:      string(s.Seniority),
			Specialization: s.Specialization,
			QuestionCount:  s.QuestionCount,
			Status:         string(s.Status),
			PointsEarned:   s.PointsEarned,
			InitAt:         s.InitAt,
			EndAt:          s.EndAt,
			UpdatedAt:      s.UpdatedAt,
		})
	}

	return &dto.ListInterviewsResponse{
		Interviews: items,
		Total:      total,
		Limit:      limit,
		Skip:       skip,
	}, nil
}

func toQuestionResponse(q *entity.Question) *dto.QuestionResponse {
	if q == nil {
		return nil
	}
	return &dto.QuestionResponse{
		Id:         q.Id,
		Question:   q.Prompt,
		Competency: q.Competency,
		Difficulty: string(q.Difficulty),
		Answer:     q.Answer,
		Feedback:   q.Feedback,
	}
}
