package mapper

import (
	"encoding/json"
	"time"

	"interview-ready-be/internal/entity"
	"interview-ready-be/internal/model"

	"gorm.io/datatypes"
)

// Wire documents for the jsonb columns. Field names match the persisted
// layout of the session document one-to-one.

type questionDoc struct {
	Id         int     `json:"id"`
	Question   string  `json:"question"`
	Answer     *string `json:"answer,omitempty"`
	Feedback   *string `json:"feedback,omitempty"`
	Competency string  `json:"competency,omitempty"`
	Difficulty string  `json:"difficulty,omitempty"`
}

type competencyScoreDoc struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

type feedbackDoc struct {
	OverallScore        int                  `json:"overall_score"`
	CompetencyBreakdown []competencyScoreDoc `json:"competency_breakdown"`
	PointsEarned        int                  `json:"points_earned"`
	FocusQuestions      []string             `json:"focus_questions"`
	SummaryFeedback     string               `json:"summary_feedback"`
}

type InterviewMapper struct{}

func NewInterviewMapper() *InterviewMapper {
	return &InterviewMapper{}
}

func (m *InterviewMapper) ToModel(s *entity.InterviewSession) (*model.InterviewSession, error) {
	if s == nil {
		return nil, nil
	}

	questions, err := json.Marshal(questionDocs(s.Questions))
	if err != nil {
		return nil, err
	}

	current, err := marshalQuestion(s.CurrentQuestion)
	if err != nil {
		return nil, err
	}
	previous, err := marshalQuestion(s.PreviousQuestion)
	if err != nil {
		return nil, err
	}

	var feedback datatypes.JSON
	if s.Feedback != nil {
		raw, err := json.Marshal(feedbackToDoc(s.Feedback))
		if err != nil {
			return nil, err
		}
		feedback = datatypes.JSON(raw)
	}

	var updatedAt time.Time
	if s.UpdatedAt != nil {
		updatedAt = *s.UpdatedAt
	}

	return &model.InterviewSession{
		Id:               s.Id,
		UserId:           s.UserId,
		SessionType:      string(s.SessionType),
		Seniority:        string(s.Seniority),
		Specialization:   s.Specialization,
		QuestionCount:    s.QuestionCount,
		Questions:        datatypes.JSON(questions),
		CurrentQuestion:  current,
		PreviousQuestion: previous,
		Status:           string(s.Status),
		PointsEarned:     s.PointsEarned,
		Feedback:         feedback,
		InitAt:           s.InitAt,
		EndAt:            s.EndAt,
		UpdatedAt:        updatedAt,
		Version:          s.Version,
	}, nil
}

func (m *InterviewMapper) ToEntity(row *model.InterviewSession) (*entity.InterviewSession, error) {
	if row == nil {
		return nil, nil
	}

	var docs []questionDoc
	if err := json.Unmarshal(row.Questions, &docs); err != nil {
		return nil, err
	}
	questions := make([]*entity.Question, 0, len(docs))
	for _, d := range docs {
		questions = append(questions, docToQuestion(d))
	}

	current, err := unmarshalQuestion(row.CurrentQuestion)
	if err != nil {
		return nil, err
	}
	previous, err := unmarshalQuestion(row.PreviousQuestion)
	if err != nil {
		return nil, err
	}

	// The cursor resolves to the canonical list entry so in-memory
	// mutations stay consistent between the two.
	if current != nil {
		for _, q := range questions {
			if q.Id == current.Id {
				current = q
				break
			}
		}
	}

	var feedback *entity.Feedback
	if len(row.Feedback) > 0 {
		var doc feedbackDoc
		if err := json.Unmarshal(row.Feedback, &doc); err != nil {
			return nil, err
		}
		feedback = docToFeedback(doc)
	}

	var updatedAt *time.Time
	if !row.UpdatedAt.IsZero() {
		t := row.UpdatedAt
		updatedAt = &t
	}

	return &entity.InterviewSession{
		Id:               row.Id,
		UserId:           row.UserId,
		SessionType:      entity.SessionType(row.SessionType),
		Seniority:        entity.Seniority(row.Seniority),
		Specialization:   row.Specialization,
		QuestionCount:    row.QuestionCount,
		Questions:        questions,
		CurrentQuestion:  current,
		PreviousQuestion: previous,
		Status:           entity.SessionStatus(row.Status),
		PointsEarned:     row.PointsEarned,
		Feedback:         feedback,
		InitAt:           row.InitAt,
		EndAt:            row.EndAt,
		UpdatedAt:        updatedAt,
		Version:          row.Version,
	}, nil
}

func (m *InterviewMapper) ToSummary(row *model.InterviewSession) *entity.InterviewSummary {
	if row == nil {
		return nil
	}

	var updatedAt *time.Time
	if !row.UpdatedAt.IsZero() {
		t := row.UpdatedAt
		updatedAt = &t
	}

	return &entity.InterviewSummary{
		Id:             row.Id,
		UserId:         row.UserId,
		SessionType:    entity.SessionType(row.SessionType),
		Seniority:      entity.Seniority(row.Seniority),
		Specialization: row.Specialization,
		QuestionCount:  row.QuestionCount,
		Status:         entity.SessionStatus(row.Status),
		PointsEarned:   row.PointsEarned,
		InitAt:         row.InitAt,
		EndAt:          row.EndAt,
		UpdatedAt:      updatedAt,
	}
}

func questionDocs(questions []*entity.Question) []questionDoc {
	docs := make([]questionDoc, 0, len(questions))
	for _, q := range questions {
		docs = append(docs, questionToDoc(q))
	}
	return docs
}

func questionToDoc(q *entity.Question) questionDoc {
	return questionDoc{
		Id:         q.Id,
		Question:   q.Prompt,
		Answer:     q.Answer,
		Feedback:   q.Feedback,
		Competency: q.Competency,
		Difficulty: string(q.Difficulty),
	}
}

func docToQuestion(d questionDoc) *entity.Question {
	return &entity.Question{
		Id:         d.Id,
		Prompt:     d.Question,
		Answer:     d.Answer,
		Feedback:   d.Feedback,
		Competency: d.Competency,
		Difficulty: entity.Difficulty(d.Difficulty),
	}
}

func marshalQuestion(q *entity.Question) (datatypes.JSON, error) {
	if q == nil {
		return nil, nil
	}
	raw, err := json.Marshal(questionToDoc(q))
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

func unmarshalQuestion(raw datatypes.JSON) (*entity.Question, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var doc questionDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return docToQuestion(doc), nil
}

func feedbackToDoc(f *entity.Feedback) feedbackDoc {
	breakdown := make([]competencyScoreDoc, 0, len(f.CompetencyBreakdown))
	for _, c := range f.CompetencyBreakdown {
		breakdown = append(breakdown, competencyScoreDoc{Name: c.Name, Score: c.Score})
	}
	return feedbackDoc{
		OverallScore:        f.OverallScore,
		CompetencyBreakdown: breakdown,
		PointsEarned:        f.PointsEarned,
		FocusQuestions:      f.FocusQuestions,
		SummaryFeedback:     f.Summary,
	}
}

func docToFeedback(d feedbackDoc) *entity.Feedback {
	breakdown := make([]entity.CompetencyScore, 0, len(d.CompetencyBreakdown))
	for _, c := range d.CompetencyBreakdown {
		breakdown = append(breakdown, entity.CompetencyScore{Name: c.Name, Score: c.Score})
	}
	return &entity.Feedback{
		OverallScore:        d.OverallScore,
		CompetencyBreakdown: breakdown,
		PointsEarned:        d.PointsEarned,
		FocusQuestions:      d.FocusQuestions,
		Summary:             d.SummaryFeedback,
	}
}
