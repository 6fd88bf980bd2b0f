package mapper

import (
	"testing"
	"time"

	"interview-ready-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSession(t *testing.T) *entity.InterviewSession {
	t.Helper()
	questions := make([]*entity.Question, 0, 3)
	for i := 1; i <= 3; i++ {
		q, err := entity.NewQuestion(i, "Walk me through your most complex debugging session.", "debugging", "hard")
		require.NoError(t, err)
		questions = append(questions, q)
	}
	s, err := entity.NewInterviewSession(uuid.New(), entity.SessionTypeTechnical, entity.SenioritySenior, "distributed systems", questions, time.Now().Truncate(time.Second))
	require.NoError(t, err)
	s.Id = uuid.New()
	return s
}

func TestMapperRoundtrip(t *testing.T) {
	m := NewInterviewMapper()
	s := buildSession(t)

	now := time.Now().Truncate(time.Second)
	require.NoError(t, s.RecordAnswer("I bisected the deploy history and found the regressing commit.", "Good method.", now))
	_, err := s.Advance(now)
	require.NoError(t, err)

	row, err := m.ToModel(s)
	require.NoError(t, err)
	assert.Equal(t, s.Id, row.Id)
	assert.Equal(t, "technical", row.SessionType)
	assert.Equal(t, "in_progress", row.Status)
	assert.Equal(t, s.Version, row.Version)

	back, err := m.ToEntity(row)
	require.NoError(t, err)

	assert.Equal(t, s.Id, back.Id)
	assert.Equal(t, s.UserId, back.UserId)
	assert.Equal(t, s.Status, back.Status)
	assert.Equal(t, s.Version, back.Version)
	require.Len(t, back.Questions, 3)

	// First question keeps its answer and feedback.
	require.NotNil(t, back.Questions[0].Answer)
	assert.Equal(t, "I bisected the deploy history and found the regressing commit.", *back.Questions[0].Answer)
	require.NotNil(t, back.Questions[0].Feedback)

	// The cursor points at question 2 and resolves to the canonical list entry.
	require.NotNil(t, back.CurrentQuestion)
	assert.Equal(t, 2, back.CurrentQuestion.Id)
	assert.Same(t, back.Questions[1], back.CurrentQuestion)

	// The previous snapshot holds the answered question.
	require.NotNil(t, back.PreviousQuestion)
	assert.Equal(t, 1, back.PreviousQuestion.Id)
}

func TestMapperRoundtripWithFeedback(t *testing.T) {
	m := NewInterviewMapper()
	s := buildSession(t)

	now := time.Now().Truncate(time.Second)
	for i := 0; i < 3; i++ {
		require.NoError(t, s.RecordAnswer("A detailed answer covering cause and fix.", "ok", now))
		_, err := s.Advance(now)
		require.NoError(t, err)
	}
	require.NoError(t, s.AttachFeedback(&entity.Feedback{
		OverallScore:        82,
		CompetencyBreakdown: []entity.CompetencyScore{{Name: "debugging", Score: 82}},
		PointsEarned:        10,
		FocusQuestions:      []string{"Walk me through your most complex debugging session."},
		Summary:             "Methodical and clear.",
	}, now))

	row, err := m.ToModel(s)
	require.NoError(t, err)

	back, err := m.ToEntity(row)
	require.NoError(t, err)

	assert.Equal(t, entity.SessionStatusCompleted, back.Status)
	require.NotNil(t, back.EndAt)
	require.NotNil(t, back.Feedback)
	assert.Equal(t, 82, back.Feedback.OverallScore)
	assert.Equal(t, 10, back.Feedback.PointsEarned)
	assert.Equal(t, "Methodical and clear.", back.Feedback.Summary)
	assert.Equal(t, 10, back.PointsEarned)
}

func TestMapperNilHandling(t *testing.T) {
	m := NewInterviewMapper()

	row, err := m.ToModel(nil)
	require.NoError(t, err)
	assert.Nil(t, row)

	back, err := m.ToEntity(nil)
	require.NoError(t, err)
	assert.Nil(t, back)

	assert.Nil(t, m.ToSummary(nil))
}

func TestMapperToSummary(t *testing.T) {
	m := NewInterviewMapper()
	s := buildSession(t)

	row, err := m.ToModel(s)
	require.NoError(t, err)

	summary := m.ToSummary(row)
	require.NotNil(t, summary)
	assert.Equal(t, s.Id, summary.Id)
	assert.Equal(t, entity.SessionTypeTechnical, summary.SessionType)
	assert.Equal(t, 3, summary.QuestionCount)
	assert.Equal(t, entity.SessionStatusInProgress, summary.Status)
}
