// Package gemini implements the assessor contracts against the Google
// generative language HTTP API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"interview-ready-be/internal/constant"
	"interview-ready-be/pkg/assessor"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1"

type geminiChatParts struct {
	Text string `json:"text"`
}

type geminiChatContent struct {
	Parts []*geminiChatParts `json:"parts"`
	Role  string             `json:"role"`
}

type geminiChatRequest struct {
	Contents []*geminiChatContent `json:"contents"`
}

type geminiChatCandidate struct {
	Content *geminiChatContent `json:"content"`
}

type geminiChatResponse struct {
	Candidates []*geminiChatCandidate `json:"candidates"`
}

// interviewStyle tunes the prompts per interview type, mirroring the four
// session flavors the service offers.
type interviewStyle struct {
	description     string
	focus           string
	keyAspects      string
	keyCompetencies string
	scoringFocus    string
}

var interviewStyles = map[string]interviewStyle{
	"behavioral": {
		description:     "Quick Behavioral or Introduction Questions",
		focus:           "STAR method behavioral questions focusing on past experiences, teamwork, and problem-solving situations",
		keyAspects:      "situation clarity, actions taken, results achieved",
		keyCompetencies: "leadership, collaboration, conflict resolution, adaptability",
		scoringFocus:    "situation clarity, action specificity, measurable results",
	},
	"structured": {
		description:     "Structured Interview Responses",
		focus:           "Structured behavioral questions with clear STAR framework, emphasizing measurable outcomes and specific methodologies",
		keyAspects:      "systematic thinking, stakeholder consideration, result measurement",
		keyCompetencies: "project management, process improvement, decision-making, stakeholder management",
		scoringFocus:    "methodology application, process thinking, outcome measurement",
	},
	"technical": {
		description:     "Role-Specific or Technical Questions",
		focus:           "Technical and role-specific challenges combining behavioral aspects with technical problem-solving",
		keyAspects:      "technical accuracy, scalability, best practices",
		keyCompetencies: "technical leadership, architecture decisions, code review, system design",
		scoringFocus:    "technical depth, trade-offs consideration, best practices",
	},
	"simulation": {
		description:     "Full Interview Simulation",
		focus:           "Comprehensive interview simulation covering behavioral, technical, and leadership scenarios with high complexity",
		keyAspects:      "complexity handling, leadership, business impact",
		keyCompetencies: "crisis management, strategic planning, cross-functional leadership, business impact",
		scoringFocus:    "complexity handling, stakeholder management, strategic thinking",
	},
}

func styleFor(interviewType string) interviewStyle {
	if style, ok := interviewStyles[interviewType]; ok {
		return style
	}
	return interviewStyles["behavioral"]
}

// Provider implements QuestionGenerator, AnswerEvaluator and ScoringService
// over one Gemini model. Every call carries a hard timeout; failures are
// surfaced, never retried here.
type Provider struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
	timeout time.Duration
}

var (
	_ assessor.QuestionGenerator = (*Provider)(nil)
	_ assessor.AnswerEvaluator   = (*Provider)(nil)
	_ assessor.ScoringService    = (*Provider)(nil)
)

func NewProvider(apiKey, model string, timeout time.Duration) *Provider {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Provider{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultBaseURL,
		client:  &http.Client{},
		timeout: timeout,
	}
}

func (p *Provider) GenerateQuestions(ctx context.Context, req assessor.GenerateQuestionsRequest) (*assessor.QuestionBatch, error) {
	style := styleFor(req.InterviewType)
	prompt := fmt.Sprintf(constant.GenerateQuestionsPromptV1,
		req.Count, style.description, req.InterviewType, style.focus,
		req.Seniority, req.Specialization, req.Count,
	)

	raw, err := p.generateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var batch assessor.QuestionBatch
	if err := decodeModelJSON(raw, &batch); err != nil {
		return nil, err
	}
	return &batch, nil
}

func (p *Provider) EvaluateAnswer(ctx context.Context, req assessor.EvaluateAnswerRequest) (*assessor.Evaluation, error) {
	style := styleFor(req.InterviewType)
	prompt := fmt.Sprintf(constant.EvaluateAnswerPromptV1,
		req.InterviewType, style.focus, style.keyAspects,
		req.Seniority, req.Specialization, req.Question, req.Answer,
	)

	raw, err := p.generateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	// Wire field is "good_question", kept for compatibility with the
	// original evaluation contract.
	var payload struct {
		Feedback     string `json:"feedback"`
		GoodQuestion bool   `json:"good_question"`
	}
	if err := decodeModelJSON(raw, &payload); err != nil {
		return nil, err
	}
	return &assessor.Evaluation{
		Feedback: payload.Feedback,
		Accepted: payload.GoodQuestion,
	}, nil
}

func (p *Provider) ScoreSession(ctx context.Context, req assessor.ScoreSessionRequest) (*assessor.SessionScore, error) {
	style := styleFor(req.InterviewType)

	sessionJSON, err := json.Marshal(req.Questions)
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(constant.ScoreSessionPromptV1,
		style.description, req.Seniority, req.Specialization, req.InterviewType,
		style.keyCompetencies, style.scoringFocus, string(sessionJSON), req.Seniority,
	)

	raw, err := p.generateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var score assessor.SessionScore
	if err := decodeModelJSON(raw, &score); err != nil {
		return nil, err
	}
	return &score, nil
}

func (p *Provider) generateContent(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	payload := geminiChatRequest{
		Contents: []*geminiChatContent{
			{
				Parts: []*geminiChatParts{{Text: prompt}},
				Role:  "user",
			},
		},
	}
	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", p.baseURL, p.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(payloadJson))
	if err != nil {
		return "", err
	}

	req.Header.Set("x-goog-api-key", p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf(
			"status error, got status %d. with response body %s",
			res.StatusCode,
			string(resBody),
		)
	}

	var geminiRes geminiChatResponse
	if err := json.Unmarshal(resBody, &geminiRes); err != nil {
		return "", err
	}

	if len(geminiRes.Candidates) == 0 ||
		geminiRes.Candidates[0].Content == nil ||
		len(geminiRes.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no content")
	}

	return geminiRes.Candidates[0].Content.Parts[0].Text, nil
}

// decodeModelJSON strips the markdown fences models like to wrap JSON in,
// then unmarshals into target.
func decodeModelJSON(raw string, target interface{}) error {
	cleaned := bytes.TrimSpace([]byte(raw))
	cleaned = bytes.TrimPrefix(cleaned, []byte("```json"))
	cleaned = bytes.TrimPrefix(cleaned, []byte("```"))
	cleaned = bytes.TrimSuffix(cleaned, []byte("```"))
	cleaned = bytes.TrimSpace(cleaned)

	if err := json.Unmarshal(cleaned, target); err != nil {
		return fmt.Errorf("parse error: %w | raw: %s", err, string(cleaned))
	}
	return nil
}
