package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateInterviewRequest struct {
	InterviewType  string `json:"interview_type" validate:"required,oneof=behavioral structured technical simulation"`
	Seniority      string `json:"seniority" validate:"required,oneof=junior mid senior lead principal"`
	Specialization string `json:"specialization" validate:"required,min=2,max=100"`
	QuestionCount  int    `json:"question_count" validate:"required,oneof=5 10 15 30"`
}

type QuestionResponse struct {
	Id         int     `json:"id"`
	Question   string  `json:"question"`
	Competency string  `json:"competency,omitempty"`
	Difficulty string  `json:"difficulty,omitempty"`
	Answer     *string `json:"answer,omitempty"`
	Feedback   *string `json:"feedback,omitempty"`
}

type CreateInterviewResponse struct {
	Id              uuid.UUID         `json:"id"`
	UserId          uuid.UUID         `json:"user_id"`
	InterviewType   string            `json:"interview_type"`
	Status          string            `json:"status"`
	QuestionCount   int               `json:"question_count"`
	CurrentQuestion *QuestionResponse `json:"current_question"`
	NextQuestion    *QuestionResponse `json:"next_question,omitempty"`
	InitAt          time.Time         `json:"init_at"`
}

type SubmitAnswerRequest struct {
	Answer string `json:"answer" validate:"required,min=1,max=3000"`
}

// SubmitAnswerResponse reports the just-answered question (with its
// feedback) as current_question; next_question is the one now awaiting an
// answer, absent once the session completed.
type SubmitAnswerResponse struct {
	Id              uuid.UUID         `json:"id"`
	UserId          uuid.UUID         `json:"user_id"`
	InterviewType   string            `json:"interview_type"`
	Status          string            `json:"status"`
	QuestionCount   int               `json:"question_count"`
	Accepted        bool              `json:"accepted"`
	Feedback        string            `json:"feedback"`
	CurrentQuestion *QuestionResponse `json:"current_question"`
	NextQuestion    *QuestionResponse `json:"next_question,omitempty"`
	Message         string            `json:"message,omitempty"`
}

type ShowInterviewResponse struct {
	Id              uuid.UUID           `json:"id"`
	UserId          uuid.UUID           `json:"user_id"`
	InterviewType   string              `json:"interview_type"`
	Seniority       string              `json:"seniority"`
	Specialization  string              `json:"specialization"`
	Status          string              `json:"status"`
	QuestionCount   int                 `json:"question_count"`
	Questions       []*QuestionResponse `json:"questions"`
	CurrentQuestion *QuestionResponse   `json:"current_question"`
	PointsEarned    int                 `json:"points_earned"`
	InitAt          time.Time           `json:"init_at"`
	EndAt           *time.Time          `json:"end_at,omitempty"`
}

type CompetencyScoreResponse struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

type FeedbackPayload struct {
	OverallScore        int                       `json:"overall_score"`
	CompetencyBreakdown []CompetencyScoreResponse `json:"competency_breakdown"`
	PointsEarned        int                       `json:"points_earned"`
	FocusQuestions      []string                  `json:"focus_questions"`
	SummaryFeedback     string                    `json:"summary_feedback"`
}

type FeedbackResponse struct {
	InterviewId  uuid.UUID       `json:"interview_id"`
	UserId       uuid.UUID       `json:"user_id"`
	PointsEarned int             `json:"points_earned"`
	Feedback     FeedbackPayload `json:"feedback"`
	InitAt       time.Time       `json:"init_at"`
	FinishAt     *time.Time      `json:"finish_at,omitempty"`
}

type InterviewSummaryResponse struct {
	Id             uuid.UUID  `json:"id"`
	UserId         uuid.UUID  `json:"user_id"`
	InterviewType  string     `json:"interview_type"`
	Seniority      string     `json:"seniority"`
	Specialization string     `json:"specialization"`
	QuestionCount  int        `json:"question_count"`
	Status         string     `json:"status"`
	PointsEarned   int        `json:"points_earned"`
	InitAt         time.Time  `json:"init_at"`
	EndAt          *time.Time `json:"end_at,omitempty"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}

type ListInterviewsResponse struct {
	Interviews []*InterviewSummaryResponse `json:"interviews"`
	Total      int64                       `json:"total"`
	Limit      int                         `json:"limit"`
	Skip       int                         `json:"skip"`
}

// SessionCompletedMessage travels the in-process completion topic and
// triggers the feedback warm-up consumer.
type SessionCompletedMessage struct {
	SessionId uuid.UUID `json:"session_id"`
}
