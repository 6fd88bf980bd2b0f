// Package assessor defines the contracts of the AI collaborators the
// interview core depends on: question generation, per-answer evaluation and
// whole-session scoring. Implementations own transport and prompting; the
// core only sees these interfaces.
package assessor

import "context"

type GeneratedQuestion struct {
	Id         int    `json:"id"`
	Question   string `json:"question"`
	Competency string `json:"competency"`
	Difficulty string `json:"difficulty"`
}

// QuestionBatch is the raw generator output. Ids are advisory; the session
// factory renumbers survivors sequentially.
type QuestionBatch struct {
	Questions []GeneratedQuestion `json:"questions"`
}

type GenerateQuestionsRequest struct {
	Count          int
	Seniority      string
	Specialization string
	InterviewType  string
}

type QuestionGenerator interface {
	GenerateQuestions(ctx context.Context, req GenerateQuestionsRequest) (*QuestionBatch, error)
}

type EvaluateAnswerRequest struct {
	Question       string
	Answer         string
	Seniority      string
	Specialization string
	InterviewType  string
}

// Evaluation carries the per-answer feedback plus the accept/retry verdict.
type Evaluation struct {
	Feedback string
	Accepted bool
}

type AnswerEvaluator interface {
	EvaluateAnswer(ctx context.Context, req EvaluateAnswerRequest) (*Evaluation, error)
}

type AnsweredQuestion struct {
	Id         int    `json:"id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Feedback   string `json:"feedback"`
	Competency string `json:"competency"`
	Difficulty string `json:"difficulty"`
}

type ScoreSessionRequest struct {
	Questions      []AnsweredQuestion
	Seniority      string
	Specialization string
	InterviewType  string
}

type CompetencyScore struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

type SessionScore struct {
	OverallScore        int               `json:"overall_score"`
	CompetencyBreakdown []CompetencyScore `json:"competency_breakdown"`
	PointsEarned        int               `json:"points_earned"`
	FocusQuestions      []string          `json:"focus_questions"`
	SummaryFeedback     string            `json:"summary_feedback"`
}

type ScoringService interface {
	ScoreSession(ctx context.Context, req ScoreSessionRequest) (*SessionScore, error)
}
