package entity

import (
	"strings"
	"time"

	"interview-ready-be/internal/pkg/apperror"

	"github.com/google/uuid"
)

// SessionStatus is a closed enum. The only legal transition is
// in_progress -> completed; completed is terminal.
type SessionStatus string

const (
	SessionStatusInProgress SessionStatus = "in_progress"
	SessionStatusCompleted  SessionStatus = "completed"
)

func (s SessionStatus) Valid() bool {
	return s == SessionStatusInProgress || s == SessionStatusCompleted
}

func (s SessionStatus) CanTransitionTo(next SessionStatus) bool {
	return s == SessionStatusInProgress && next == SessionStatusCompleted
}

type SessionType string

const (
	SessionTypeBehavioral SessionType = "behavioral"
	SessionTypeStructured SessionType = "structured"
	SessionTypeTechnical  SessionType = "technical"
	SessionTypeSimulation SessionType = "simulation"
)

func ParseSessionType(value string) (SessionType, error) {
	switch SessionType(value) {
	case SessionTypeBehavioral, SessionTypeStructured, SessionTypeTechnical, SessionTypeSimulation:
		return SessionType(value), nil
	}
	return "", apperror.Validation("unknown interview type: " + value)
}

type Seniority string

const (
	SeniorityJunior    Seniority = "junior"
	SeniorityMid       Seniority = "mid"
	SenioritySenior    Seniority = "senior"
	SeniorityLead      Seniority = "lead"
	SeniorityPrincipal Seniority = "principal"
)

func ParseSeniority(value string) (Seniority, error) {
	switch Seniority(value) {
	case SeniorityJunior, SeniorityMid, SenioritySenior, SeniorityLead, SeniorityPrincipal:
		return Seniority(value), nil
	}
	return "", apperror.Validation("unknown seniority: " + value)
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty defaults to medium when the generator leaves the field
// blank; anything else unknown is rejected.
func ParseDifficulty(value string) (Difficulty, error) {
	if value == "" {
		return DifficultyMedium, nil
	}
	switch Difficulty(value) {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return Difficulty(value), nil
	}
	return "", apperror.Validation("unknown difficulty: " + value)
}

// AllowedQuestionCounts is the closed set of session sizes.
var AllowedQuestionCounts = []int{5, 10, 15, 30}

func ParseQuestionCount(count int) (int, error) {
	for _, allowed := range AllowedQuestionCounts {
		if count == allowed {
			return count, nil
		}
	}
	return 0, apperror.Validation("question count must be one of 5, 10, 15, 30")
}

const (
	MinQuestionPromptLength = 10
	MaxQuestionPromptLength = 500
	MaxAnswerLength         = 3000
	MaxCompetencyLength     = 100
	MaxSpecializationLength = 100
	MaxSummaryLength        = 1000
	MaxFocusQuestions       = 5
)

type Question struct {
	Id         int
	Prompt     string
	Answer     *string
	Feedback   *string
	Competency string
	Difficulty Difficulty
}

// NewQuestion builds a validated question. Generator-provided ids are
// advisory; the factory assigns sequential ids itself.
func NewQuestion(id int, prompt, competency, difficulty string) (*Question, error) {
	if id <= 0 {
		return nil, apperror.Validation("question id must be positive")
	}
	prompt = strings.TrimSpace(prompt)
	if len(prompt) < MinQuestionPromptLength {
		return nil, apperror.Validation("question text is too short")
	}
	if len(prompt) > MaxQuestionPromptLength {
		prompt = prompt[:MaxQuestionPromptLength]
	}
	if len(competency) > MaxCompetencyLength {
		competency = competency[:MaxCompetencyLength]
	}
	diff, err := ParseDifficulty(difficulty)
	if err != nil {
		return nil, err
	}
	return &Question{
		Id:         id,
		Prompt:     prompt,
		Competency: competency,
		Difficulty: diff,
	}, nil
}

// Clone returns a value copy so snapshots (previous question) stay stable
// when the live question is mutated on retry.
func (q *Question) Clone() *Question {
	if q == nil {
		return nil
	}
	clone := *q
	if q.Answer != nil {
		answer := *q.Answer
		clone.Answer = &answer
	}
	if q.Feedback != nil {
		feedback := *q.Feedback
		clone.Feedback = &feedback
	}
	return &clone
}

type CompetencyScore struct {
	Name  string
	Score int
}

type Feedback struct {
	OverallScore        int
	CompetencyBreakdown []CompetencyScore
	PointsEarned        int
	FocusQuestions      []string
	Summary             string
}

// InterviewSession is one interview attempt. Mutated only through the
// methods below; ownership and question order never change after creation.
type InterviewSession struct {
	Id               uuid.UUID
	UserId           uuid.UUID
	SessionType      SessionType
	Seniority        Seniority
	Specialization   string
	QuestionCount    int
	Questions        []*Question
	CurrentQuestion  *Question
	PreviousQuestion *Question
	Status           SessionStatus
	PointsEarned     int
	Feedback         *Feedback
	InitAt           time.Time
	EndAt            *time.Time
	UpdatedAt        *time.Time

	// Version guards repository updates against lost writes.
	Version int64
}

// NewInterviewSession assembles a fresh in-progress session over an already
// validated, sequentially numbered question list.
func NewInterviewSession(
	userId uuid.UUID,
	sessionType SessionType,
	seniority Seniority,
	specialization string,
	questions []*Question,
	now time.Time,
) (*InterviewSession, error) {
	if userId == uuid.Nil {
		return nil, apperror.Validation("owner id is required")
	}
	specialization = strings.TrimSpace(specialization)
	if len(specialization) < 2 || len(specialization) > MaxSpecializationLength {
		return nil, apperror.Validation("specialization must be between 2 and 100 characters")
	}
	if len(questions) == 0 {
		return nil, apperror.Validation("a session needs at least one question")
	}
	for i, q := range questions {
		if q.Id != i+1 {
			return nil, apperror.Validation("question ids must form the range 1..n")
		}
	}

	return &InterviewSession{
		UserId:          userId,
		SessionType:     sessionType,
		Seniority:       seniority,
		Specialization:  specialization,
		QuestionCount:   len(questions),
		Questions:       questions,
		CurrentQuestion: questions[0],
		Status:          SessionStatusInProgress,
		InitAt:          now,
		Version:         1,
	}, nil
}

func (s *InterviewSession) IsCompleted() bool {
	return s.Status == SessionStatusCompleted
}

func (s *InterviewSession) QuestionById(id int) *Question {
	for _, q := range s.Questions {
		if q.Id == id {
			return q
		}
	}
	return nil
}

// RecordAnswer writes the answer and its per-question feedback onto the
// current question and its entry in the question list, then snapshots the
// answered question as the previous one. Feedback is attached before
// acceptance is evaluated, so a rejected answer still keeps its feedback.
func (s *InterviewSession) RecordAnswer(answerText, feedbackText string, now time.Time) error {
	if s.Status != SessionStatusInProgress {
		return apperror.InvalidState("interview is not in progress")
	}
	if s.CurrentQuestion == nil {
		return apperror.InvalidState("no current question available")
	}
	if len(answerText) > MaxAnswerLength {
		answerText = answerText[:MaxAnswerLength]
	}

	s.CurrentQuestion.Answer = &answerText
	s.CurrentQuestion.Feedback = &feedbackText

	// Mirror into the canonical list, matched by id.
	if q := s.QuestionById(s.CurrentQuestion.Id); q != nil && q != s.CurrentQuestion {
		q.Answer = &answerText
		q.Feedback = &feedbackText
	}

	s.PreviousQuestion = s.CurrentQuestion.Clone()
	s.Touch(now)
	return nil
}

// Advance moves the cursor to the question after the current one, matched by
// id rather than slice position. Answering the last question completes the
// session; the cursor then stays on the final answered question.
func (s *InterviewSession) Advance(now time.Time) (completed bool, err error) {
	if s.Status != SessionStatusInProgress {
		return false, apperror.InvalidState("interview is not in progress")
	}
	if s.CurrentQuestion == nil {
		return false, apperror.InvalidState("no current question available")
	}

	for i, q := range s.Questions {
		if q.Id != s.CurrentQuestion.Id {
			continue
		}
		if i+1 < len(s.Questions) {
			s.CurrentQuestion = s.Questions[i+1]
			s.Touch(now)
			return false, nil
		}
		break
	}

	if err := s.complete(now); err != nil {
		return false, err
	}
	return true, nil
}

func (s *InterviewSession) complete(now time.Time) error {
	if !s.Status.CanTransitionTo(SessionStatusCompleted) {
		return apperror.InvalidState("illegal status transition to completed")
	}
	s.Status = SessionStatusCompleted
	end := now
	s.EndAt = &end
	s.Touch(now)
	return nil
}

// AttachFeedback stores the aggregate report. Write-once: a second attach is
// rejected so the stored report stays immutable.
func (s *InterviewSession) AttachFeedback(feedback *Feedback, now time.Time) error {
	if s.Status != SessionStatusCompleted {
		return apperror.InvalidState("interview is still in progress, cannot attach feedback")
	}
	if s.Feedback != nil {
		return apperror.InvalidState("feedback has already been generated")
	}
	s.Feedback = feedback
	s.PointsEarned = feedback.PointsEarned
	s.Touch(now)
	return nil
}

func (s *InterviewSession) Touch(now time.Time) {
	s.UpdatedAt = &now
}

// InterviewSummary is the lightweight history projection: no questions, no
// cursor snapshots, no feedback.
type InterviewSummary struct {
	Id             uuid.UUID
	UserId         uuid.UUID
	SessionType    SessionType
	Seniority      Seniority
	Specialization string
	QuestionCount  int
	Status         SessionStatus
	PointsEarned   int
	InitAt         time.Time
	EndAt          *time.Time
	UpdatedAt      *time.Time
}
