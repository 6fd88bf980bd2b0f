package entity

import (
	"strings"
	"testing"
	"time"

	"interview-ready-be/internal/pkg/apperror"

	"github.com/google/uuid"
)

func makeQuestions(t *testing.T, n int) []*Question {
	t.Helper()
	questions := make([]*Question, 0, n)
	for i := 1; i <= n; i++ {
		q, err := NewQuestion(i, "Tell me about a project you are proud of.", "ownership", "medium")
		if err != nil {
			t.Fatalf("NewQuestion(%d): %v", i, err)
		}
		questions = append(questions, q)
	}
	return questions
}

func makeSession(t *testing.T, n int) *InterviewSession {
	t.Helper()
	s, err := NewInterviewSession(uuid.New(), SessionTypeBehavioral, SeniorityMid, "backend engineering", makeQuestions(t, n), time.Now())
	if err != nil {
		t.Fatalf("NewInterviewSession: %v", err)
	}
	s.Id = uuid.New()
	return s
}

func TestParseSessionType(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    SessionType
		wantErr bool
	}{
		{name: "behavioral", value: "behavioral", want: SessionTypeBehavioral},
		{name: "technical", value: "technical", want: SessionTypeTechnical},
		{name: "structured", value: "structured", want: SessionTypeStructured},
		{name: "simulation", value: "simulation", want: SessionTypeSimulation},
		{name: "unknown", value: "casual", wantErr: true},
		{name: "empty", value: "", wantErr: true},
		{name: "wrong case", value: "Behavioral", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSessionType(tt.value)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.value)
				}
				if !apperror.IsCode(err, apperror.CodeValidation) {
					t.Errorf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseQuestionCount(t *testing.T) {
	for _, n := range []int{5, 10, 15, 30} {
		if _, err := ParseQuestionCount(n); err != nil {
			t.Errorf("count %d should be allowed: %v", n, err)
		}
	}
	for _, n := range []int{0, 1, 4, 7, 20, 31, -5} {
		if _, err := ParseQuestionCount(n); err == nil {
			t.Errorf("count %d should be rejected", n)
		}
	}
}

func TestNewQuestion(t *testing.T) {
	tests := []struct {
		name       string
		id         int
		prompt     string
		difficulty string
		wantErr    bool
	}{
		{name: "valid", id: 1, prompt: "Describe a difficult production incident.", difficulty: "hard"},
		{name: "blank difficulty defaults", id: 2, prompt: "Describe a difficult production incident.", difficulty: ""},
		{name: "too short", id: 1, prompt: "Why Go?", wantErr: true},
		{name: "zero id", id: 0, prompt: "Describe a difficult production incident.", wantErr: true},
		{name: "unknown difficulty", id: 1, prompt: "Describe a difficult production incident.", difficulty: "extreme", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := NewQuestion(tt.id, tt.prompt, "debugging", tt.difficulty)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if q.Answer != nil || q.Feedback != nil {
				t.Error("new question must not carry answer or feedback")
			}
		})
	}
}

func TestNewQuestionTruncatesLongPrompt(t *testing.T) {
	long := strings.Repeat("a", MaxQuestionPromptLength+50)
	q, err := NewQuestion(1, long, "debugging", "easy")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(q.Prompt) != MaxQuestionPromptLength {
		t.Errorf("prompt length = %d, want %d", len(q.Prompt), MaxQuestionPromptLength)
	}
}

func TestNewInterviewSession(t *testing.T) {
	now := time.Now()

	t.Run("valid", func(t *testing.T) {
		s := makeSession(t, 5)
		if s.Status != SessionStatusInProgress {
			t.Errorf("status = %q, want in_progress", s.Status)
		}
		if s.CurrentQuestion != s.Questions[0] {
			t.Error("current question must start at the first question")
		}
		if s.PreviousQuestion != nil {
			t.Error("previous question must start empty")
		}
		if s.QuestionCount != 5 {
			t.Errorf("question count = %d, want 5", s.QuestionCount)
		}
		if s.Version != 1 {
			t.Errorf("version = %d, want 1", s.Version)
		}
	})

	t.Run("nil owner rejected", func(t *testing.T) {
		_, err := NewInterviewSession(uuid.Nil, SessionTypeBehavioral, SeniorityMid, "backend", makeQuestions(t, 5), now)
		if err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("short specialization rejected", func(t *testing.T) {
		_, err := NewInterviewSession(uuid.New(), SessionTypeBehavioral, SeniorityMid, "x", makeQuestions(t, 5), now)
		if err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("non contiguous ids rejected", func(t *testing.T) {
		questions := makeQuestions(t, 5)
		questions[2].Id = 7
		_, err := NewInterviewSession(uuid.New(), SessionTypeBehavioral, SeniorityMid, "backend", questions, now)
		if err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("empty questions rejected", func(t *testing.T) {
		_, err := NewInterviewSession(uuid.New(), SessionTypeBehavioral, SeniorityMid, "backend", nil, now)
		if err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestRecordAnswerAndAdvance(t *testing.T) {
	now := time.Now()
	s := makeSession(t, 3)

	if err := s.RecordAnswer("I led the migration project.", "Good detail.", now); err != nil {
		t.Fatalf("RecordAnswer: %v", err)
	}
	if s.PreviousQuestion == nil || s.PreviousQuestion.Id != 1 {
		t.Fatal("previous question must snapshot the answered question")
	}
	if s.Questions[0].Answer == nil || *s.Questions[0].Answer != "I led the migration project." {
		t.Error("answer must be mirrored into the canonical list")
	}

	completed, err := s.Advance(now)
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if completed {
		t.Fatal("session must not complete before the last question")
	}
	if s.CurrentQuestion.Id != 2 {
		t.Errorf("current question id = %d, want 2", s.CurrentQuestion.Id)
	}
}

func TestRetryOverwritesAnswer(t *testing.T) {
	now := time.Now()
	s := makeSession(t, 3)

	if err := s.RecordAnswer("first try", "Too brief.", now); err != nil {
		t.Fatalf("RecordAnswer: %v", err)
	}
	// Rejected: no Advance, answer again on the same question.
	if err := s.RecordAnswer("second, much better answer", "Good.", now); err != nil {
		t.Fatalf("RecordAnswer retry: %v", err)
	}

	if s.CurrentQuestion.Id != 1 {
		t.Errorf("cursor moved on retry, id = %d", s.CurrentQuestion.Id)
	}
	if *s.Questions[0].Answer != "second, much better answer" {
		t.Errorf("retry must overwrite the stored answer, got %q", *s.Questions[0].Answer)
	}
	if *s.PreviousQuestion.Feedback != "Good." {
		t.Errorf("previous snapshot must track the latest attempt")
	}
}

func TestLastQuestionCompletesSession(t *testing.T) {
	now := time.Now()
	s := makeSession(t, 2)

	for i := 0; i < 2; i++ {
		if err := s.RecordAnswer("a sufficiently long answer", "ok", now); err != nil {
			t.Fatalf("RecordAnswer %d: %v", i, err)
		}
		completed, err := s.Advance(now)
		if err != nil {
			t.Fatalf("Advance %d: %v", i, err)
		}
		if i == 0 && completed {
			t.Fatal("completed too early")
		}
		if i == 1 && !completed {
			t.Fatal("answering the last question must complete the session")
		}
	}

	if s.Status != SessionStatusCompleted {
		t.Errorf("status = %q, want completed", s.Status)
	}
	if s.EndAt == nil {
		t.Error("EndAt must be set on completion")
	}
	if s.CurrentQuestion == nil || s.CurrentQuestion.Id != 2 {
		t.Error("cursor must stay on the last question after completion")
	}
	if s.PreviousQuestion == nil || s.PreviousQuestion.Id != 2 {
		t.Error("previous question must equal the last question after completion")
	}

	// Completed is terminal.
	if err := s.RecordAnswer("another answer attempt here", "ok", now); err == nil {
		t.Error("answering a completed session must fail")
	}
	if _, err := s.Advance(now); err == nil {
		t.Error("advancing a completed session must fail")
	}
}

func TestAnswerTruncation(t *testing.T) {
	now := time.Now()
	s := makeSession(t, 2)

	long := strings.Repeat("b", MaxAnswerLength+100)
	if err := s.RecordAnswer(long, "ok", now); err != nil {
		t.Fatalf("RecordAnswer: %v", err)
	}
	if len(*s.CurrentQuestion.Answer) != MaxAnswerLength {
		t.Errorf("answer length = %d, want %d", len(*s.CurrentQuestion.Answer), MaxAnswerLength)
	}
}

func TestAttachFeedback(t *testing.T) {
	now := time.Now()
	s := makeSession(t, 2)

	feedback := &Feedback{
		OverallScore:        85,
		CompetencyBreakdown: []CompetencyScore{{Name: "ownership", Score: 85}},
		PointsEarned:        10,
		Summary:             "Solid.",
	}

	if err := s.AttachFeedback(feedback, now); err == nil {
		t.Fatal("attaching feedback to an in-progress session must fail")
	}

	for i := 0; i < 2; i++ {
		if err := s.RecordAnswer("a sufficiently long answer", "ok", now); err != nil {
			t.Fatal(err)
		}
		if _, err := s.Advance(now); err != nil {
			t.Fatal(err)
		}
	}

	if err := s.AttachFeedback(feedback, now); err != nil {
		t.Fatalf("AttachFeedback: %v", err)
	}
	if s.PointsEarned != 10 {
		t.Errorf("points earned = %d, want 10", s.PointsEarned)
	}

	// Write-once.
	if err := s.AttachFeedback(feedback, now); err == nil {
		t.Error("second attach must fail")
	}
}

func TestQuestionCloneIsIndependent(t *testing.T) {
	answer := "original"
	q := &Question{Id: 1, Prompt: "Describe your last project in detail.", Answer: &answer}
	clone := q.Clone()

	changed := "changed"
	q.Answer = &changed

	if *clone.Answer != "original" {
		t.Errorf("clone answer = %q, want original", *clone.Answer)
	}
}
