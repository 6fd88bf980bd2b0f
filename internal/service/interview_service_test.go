package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- fakes ---

type fakeRepository struct {
	sessions map[uuid.UUID]*entity.InterviewSession

	createErr error
	updateErr error
	findErr   error

	updateCalls int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{sessions: make(map[uuid.UUID]*entity.InterviewSession)}
}

func (r *fakeRepository) Create(ctx context.Context, session *entity.InterviewSession) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.sessions[session.Id] = session
	return nil
}

func (r *fakeRepository) Update(ctx context.Context, session *entity.InterviewSession) error {
	r.updateCalls++
	if r.updateErr != nil {
		return r.updateErr
	}
	stored, ok := r.sessions[session.Id]
	if !ok || stored.Version != session.Version {
		return contract.ErrVersionConflict
	}
	session.Version++
	r.sessions[session.Id] = session
	return nil
}

func (r *fakeRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.InterviewSession, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, spec := range specs {
		if byID, ok := spec.(specification.ByID); ok {
			return r.sessions[byID.ID], nil
		}
	}
	return nil, nil
}

func (r *fakeRepository) FindSummaries(ctx context.Context, specs ...specification.Specification) ([]*entity.InterviewSummary, error) {
	var out []*entity.InterviewSummary
	for _, s := range r.sessions {
		match := true
		for _, spec := range specs {
			switch f := spec.(type) {
			case specification.OwnedBy:
				if s.UserId != f.UserID {
					match = false
				}
			case specification.ByStatus:
				if string(s.Status) != f.Status {
					match = false
				}
			}
		}
		if match {
			out = append(out, &entity.InterviewSummary{
				Id:            s.Id,
				UserId:        s.UserId,
				SessionType:   s.SessionType,
				Status:        s.Status,
				QuestionCount: s.QuestionCount,
				PointsEarned:  s.PointsEarned,
				InitAt:        s.InitAt,
			})
		}
	}
	return out, nil
}

func (r *fakeRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	summaries, err := r.FindSummaries(ctx, specs...)
	return int64(len(summaries)), err
}

type fakeUnitOfWork struct {
	repo *fakeRepository
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error { return nil }
func (u *fakeUnitOfWork) Commit() error                   { return nil }
func (u *fakeUnitOfWork) Rollback() error                 { return nil }
func (u *fakeUnitOfWork) InterviewSessionRepository() contract.InterviewSessionRepository {
	return u.repo
}

type fakeFactory struct {
	repo *fakeRepository
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUnitOfWork{repo: f.repo}
}

type fakeGenerator struct {
	batch *assessor.QuestionBatch
	err   error
}

func (g *fakeGenerator) GenerateQuestions(ctx context.Context, req assessor.GenerateQuestionsRequest) (*assessor.QuestionBatch, error) {
	if g.err != nil {
		return nil, g.err
	}
	if g.batch != nil {
		return g.batch, nil
	}
	batch := &assessor.QuestionBatch{}
	for i := 1; i <= req.Count; i++ {
		batch.Questions = append(batch.Questions, assessor.GeneratedQuestion{
			Id:         i,
			Question:   fmt.Sprintf("Question number %d about %s?", i, req.Specialization),
			Competency: "fundamentals",
			Difficulty: "medium",
		})
	}
	return batch, nil
}

type fakeEvaluator struct {
	accepted bool
	feedback string
	err      error
}

func (e *fakeEvaluator) EvaluateAnswer(ctx context.Context, req assessor.EvaluateAnswerRequest) (*assessor.Evaluation, error) {
	if e.err != nil {
		return nil, e.err
	}
	return &assessor.Evaluation{Feedback: e.feedback, Accepted: e.accepted}, nil
}

type capturingPublisher struct {
	payloads [][]byte
	err      error
}

func (p *capturingPublisher) Publish(ctx context.Context, payload []byte) error {
	if p.err != nil {
		return p.err
	}
	p.payloads = append(p.payloads, payload)
	return nil
}

func newTestService(repo *fakeRepository, gen *fakeGenerator, eval *fakeEvaluator, pub *capturingPublisher) IInterviewService {
	return NewInterviewService(
		&fakeFactory{repo: repo},
		gen,
		eval,
		pub,
		logger.NewNopLogger(),
		time.Second,
	)
}

func seedSession(t *testing.T, repo *fakeRepository, userId uuid.UUID, n int) *entity.InterviewSession {
	t.Helper()
	questions := make([]*entity.Question, 0, n)
	for i := 1; i <= n; i++ {
		q, err := entity.NewQuestion(i, fmt.Sprintf("Question number %d, please elaborate?", i), "fundamentals", "medium")
		require.NoError(t, err)
		questions = append(questions, q)
	}
	s, err := entity.NewInterviewSession(userId, entity.SessionTypeBehavioral, entity.SeniorityMid, "backend engineering", questions, time.Now())
	require.NoError(t, err)
	s.Id = uuid.New()
	repo.sessions[s.Id] = s
	return s
}

// --- tests ---

func TestCreateInterview(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(repo, &fakeGenerator{}, &fakeEvaluator{}, &capturingPublisher{})
	userId := uuid.New()

	res, err := svc.Create(context.Background(), userId, &dto.CreateInterviewRequest{
		InterviewType:  "behavioral",
		Seniority:      "mid",
		Specialization: "backend engineering",
		QuestionCount:  5,
	})
	require.NoError(t, err)

	assert.Equal(t, 5, res.QuestionCount)
	assert.Equal(t, "in_progress", res.Status)
	require.NotNil(t, res.CurrentQuestion)
	assert.Equal(t, 1, res.CurrentQuestion.Id)
	require.NotNil(t, res.NextQuestion)
	assert.Equal(t, 2, res.NextQuestion.Id)
	assert.Len(t, repo.sessions, 1)
}

func TestCreateInterviewRejectsBadInput(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(repo, &fakeGenerator{}, &fakeEvaluator{}, &capturingPublisher{})
	userId := uuid.New()

	tests := []struct {
		name string
		req  dto.CreateInterviewRequest
	}{
		{name: "bad type", req: dto.CreateInterviewRequest{InterviewType: "casual", Seniority: "mid", Specialization: "backend", QuestionCount: 5}},
		{name: "bad seniority", req: dto.CreateInterviewRequest{InterviewType: "behavioral", Seniority: "boss", Specialization: "backend", QuestionCount: 5}},
		{name: "bad count", req: dto.CreateInterviewRequest{InterviewType: "behavioral", Seniority: "mid", Specialization: "backend", QuestionCount: 7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), userId, &tt.req)
			require.Error(t, err)
			assert.Equal(t, apperror.CodeValidation, apperror.CodeOf(err))
			assert.Empty(t, repo.sessions)
		})
	}
}

func TestCreateInterviewGeneratorFailure(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(repo, &fakeGenerator{err: errors.New("upstream down")}, &fakeEvaluator{}, &capturingPublisher{})

	_, err := svc.Create(context.Background(), uuid.New(), &dto.CreateInterviewRequest{
		InterviewType:  "technical",
		Seniority:      "senior",
		Specialization: "distributed systems",
		QuestionCount:  10,
	})
	require.Error(t, err)
	assert.Equal(t, apperror.CodeGeneration, apperror.CodeOf(err))
	assert.Empty(t, repo.sessions)
}

func TestCreateInterviewDiscardsUnusableQuestions(t *testing.T) {
	repo := newFakeRepository()
	gen := &fakeGenerator{batch: &assessor.QuestionBatch{Questions: []assessor.GeneratedQuestion{
		{Id: 1, Question: "short", Competency: "fundamentals"},
		{Id: 2, Question: "A perfectly valid interview question about your experience?", Competency: "fundamentals"},
		{Id: 9, Question: "Another valid question with enough length to pass validation?", Competency: "debugging"},
	}}}
	svc := newTestService(repo, gen, &fakeEvaluator{}, &capturingPublisher{})

	res, err := svc.Create(context.Background(), uuid.New(), &dto.CreateInterviewRequest{
		InterviewType:  "behavioral",
		Seniority:      "junior",
		Specialization: "backend engineering",
		QuestionCount:  5,
	})
	require.NoError(t, err)

	// Short prompt dropped, survivors renumbered 1..2.
	assert.Equal(t, 2, res.QuestionCount)
	assert.Equal(t, 1, res.CurrentQuestion.Id)
	assert.Equal(t, 2, res.NextQuestion.Id)
}

func TestSubmitAnswerAcceptedAdvances(t *testing.T) {
	repo := newFakeRepository()
	pub := &capturingPublisher{}
	svc := newTestService(repo, &fakeGenerator{}, &fakeEvaluator{accepted: true, feedback: "Well structured."}, pub)
	userId := uuid.New()
	session := seedSession(t, repo, userId, 3)

	res, err := svc.SubmitAnswer(context.Background(), userId, session.Id, &dto.SubmitAnswerRequest{Answer: "A long enough answer about my experience."})
	require.NoError(t, err)

	assert.True(t, res.Accepted)
	assert.Equal(t, "Well structured.", res.Feedback)
	require.NotNil(t, res.CurrentQuestion)
	assert.Equal(t, 1, res.CurrentQuestion.Id)
	require.NotNil(t, res.CurrentQuestion.Feedback)
	require.NotNil(t, res.NextQuestion)
	assert.Equal(t, 2, res.NextQuestion.Id)
	assert.Equal(t, "in_progress", res.Status)
	assert.Empty(t, pub.payloads)
}

func TestSubmitAnswerRejectedStays(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(repo, &fakeGenerator{}, &fakeEvaluator{accepted: false, feedback: "Too brief."}, &capturingPublisher{})
	userId := uuid.New()
	session := seedSession(t, repo, userId, 3)

	res, err := svc.SubmitAnswer(context.Background(), userId, session.Id, &dto.SubmitAnswerRequest{Answer: "no"})
	require.NoError(t, err)

	assert.False(t, res.Accepted)
	require.NotNil(t, res.NextQuestion)
	assert.Equal(t, 1, res.NextQuestion.Id, "rejected answer keeps the cursor on the same question")

	stored := repo.sessions[session.Id]
	require.NotNil(t, stored.Questions[0].Answer)
	assert.Equal(t, "no", *stored.Questions[0].Answer)
	assert.Equal(t, entity.SessionStatusInProgress, stored.Status)
}

func TestSubmitAnswerLastQuestionCompletes(t *testing.T) {
	repo := newFakeRepository()
	pub := &capturingPublisher{}
	svc := newTestService(repo, &fakeGenerator{}, &fakeEvaluator{accepted: true, feedback: "ok"}, pub)
	userId := uuid.New()
	session := seedSession(t, repo, userId, 2)

	for i := 0; i < 2; i++ {
		res, err := svc.SubmitAnswer(context.Background(), userId, session.Id, &dto.SubmitAnswerRequest{Answer: "A reasonable answer with substance."})
		require.NoError(t, err)
		if i == 1 {
			assert.Equal(t, "completed", res.Status)
			assert.Nil(t, res.NextQuestion)
			assert.NotEmpty(t, res.Message)
		}
	}

	require.Len(t, pub.payloads, 1)
	var msg dto.SessionCompletedMessage
	require.NoError(t, json.Unmarshal(pub.payloads[0], &msg))
	assert.Equal(t, session.Id, msg.SessionId)

	// Terminal: further answers are rejected.
	_, err := svc.SubmitAnswer(context.Background(), userId, session.Id, &dto.SubmitAnswerRequest{Answer: "one more"})
	require.Error(t, err)
	assert.Equal(t, apperror.CodeInvalidState, apperror.CodeOf(err))
}

func TestSubmitAnswerUnauthorized(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(repo, &fakeGenerator{}, &fakeEvaluator{accepted: true}, &capturingPublisher{})
	owner := uuid.New()
	session := seedSession(t, repo, owner, 3)

	_, err := svc.SubmitAnswer(context.Background(), uuid.New(), session.Id, &dto.SubmitAnswerRequest{Answer: "an answer"})
	require.Error(t, err)
	assert.Equal(t, apperror.CodeUnauthorized, apperror.CodeOf(err))

	stored := repo.sessions[session.Id]
	assert.Nil(t, stored.Questions[0].Answer, "a foreign submission must not touch the session")
	assert.Zero(t, repo.updateCalls)
}

func TestSubmitAnswerNotFound(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(repo, &fakeGenerator{}, &fakeEvaluator{accepted: true}, &capturingPublisher{})

	_, err := svc.SubmitAnswer(context.Background(), uuid.New(), uuid.New(), &dto.SubmitAnswerRequest{Answer: "an answer"})
	require.Error(t, err)
	assert.Equal(t, apperror.CodeNotFound, apperror.CodeOf(err))
}

func TestSubmitAnswerEvaluatorFailureDoesNotPersist(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(repo, &fakeGenerator{}, &fakeEvaluator{err: errors.New("model timeout")}, &capturingPublisher{})
	userId := uuid.New()
	session := seedSession(t, repo, userId, 3)

	_, err := svc.SubmitAnswer(context.Background(), userId, session.Id, &dto.SubmitAnswerRequest{Answer: "an answer"})
	require.Error(t, err)
	assert.Equal(t, apperror.CodeGeneration, apperror.CodeOf(err))

	stored := repo.sessions[session.Id]
	assert.Nil(t, stored.Questions[0].Answer)
	assert.Zero(t, repo.updateCalls)
}

func TestSubmitAnswerVersionConflict(t *testing.T) {
	repo := newFakeRepository()
	repo.updateErr = contract.ErrVersionConflict
	svc := newTestService(repo, &fakeGenerator{}, &fakeEvaluator{accepted: true, feedback: "ok"}, &capturingPublisher{})
	userId := uuid.New()
	session := seedSession(t, repo, userId, 3)

	_, err := svc.SubmitAnswer(context.Background(), userId, session.Id, &dto.SubmitAnswerRequest{Answer: "an answer"})
	require.Error(t, err)
	assert.Equal(t, apperror.CodeConflict, apperror.CodeOf(err))
}

func TestShowInterview(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(repo, &fakeGenerator{}, &fakeEvaluator{}, &capturingPublisher{})
	userId := uuid.New()
	session := seedSession(t, repo, userId, 3)

	res, err := svc.Show(context.Background(), userId, session.Id)
	require.NoError(t, err)
	assert.Equal(t, session.Id, res.Id)
	assert.Len(t, res.Questions, 3)

	_, err = svc.Show(context.Background(), uuid.New(), session.Id)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeUnauthorized, apperror.CodeOf(err))
}

func TestGetHistory(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(repo, &fakeGenerator{}, &fakeEvaluator{}, &capturingPublisher{})
	userId := uuid.New()
	seedSession(t, repo, userId, 3)
	seedSession(t, repo, uuid.New(), 3) // someone else's

	res, err := svc.GetHistory(context.Background(), userId, "in_progress", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Total)
	require.Len(t, res.Interviews, 1)
	assert.Equal(t, userId, res.Interviews[0].UserId)

	_, err = svc.GetHistory(context.Background(), userId, "archived", 10, 0)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeValidation, apperror.CodeOf(err))
}
