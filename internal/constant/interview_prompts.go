package constant

// Prompt templates for the Gemini-backed interview provider. All three force
// a JSON-only reply; the provider strips markdown fences before decoding.

// GenerateQuestionsPromptV1 expects: count, type description, interview type,
// focus, seniority, specialization, count (again).
const GenerateQuestionsPromptV1 = `You are a senior Human Resources professional who has run 1,000+ technical interviews for global tech companies.

OBJECTIVE
Generate exactly %d interview questions for a %s session that follow the STAR method (Situation, Task, Action, Result).

INTERVIEW TYPE: %s
FOCUS: %s

CANDIDATE CONTEXT
- Seniority level: %s
- Specialization: %s
- Industry: Technology

DESIGN RULES
1. STAR focus - each question must invite a STAR-structured answer.
2. Interview type alignment - questions must match the interview style above.
3. Progressive difficulty - mix easy (single team, clear outcome), medium (cross-team, partial ambiguity) and hard (high ambiguity, strategic impact).
4. Each question names the competency it probes.

OUTPUT FORMAT
Return ONLY valid JSON (no markdown, no comments) with this exact structure:

{"questions": [{"id": 1, "question": "...", "competency": "...", "difficulty": "easy|medium|hard"}]}

The array must contain exactly %d entries.`

// EvaluateAnswerPromptV1 expects: interview type, focus, key aspects,
// seniority, specialization, question, answer.
const EvaluateAnswerPromptV1 = `You are an experienced interview coach evaluating one answer in a %s mock interview.

EVALUATION FOCUS: %s
KEY ASPECTS: %s

CANDIDATE CONTEXT
- Seniority level: %s
- Specialization: %s

QUESTION
%s

CANDIDATE ANSWER
%s

GOOD RESPONSE CRITERIA
- COHERENT responses that address the question directly = true
- PARTIALLY COHERENT responses with relevant content but lacking structure = true
- INCOHERENT or OFF-TOPIC responses = false
- EMPTY/MINIMAL responses = false

FEEDBACK REQUIREMENTS
1. Keep an encouraging, supportive tone.
2. Provide specific, actionable suggestions.
3. Keep feedback concise (at most 80 words), focused on 1-2 improvement areas.
4. When possible, acknowledge something positive first.

CRITICAL: Return ONLY valid JSON with this exact structure:

{"feedback": "Your specific, encouraging feedback here", "good_question": true}

Do not include markdown formatting, code blocks, or any text outside the JSON.`

// ScoreSessionPromptV1 expects: type description, seniority, specialization,
// interview type, key competencies, scoring focus, session JSON, seniority.
const ScoreSessionPromptV1 = `You are an experienced interview mentor providing comprehensive feedback for a %s.

OBJECTIVE
Analyze the complete interview session and provide actionable insights with a personal, encouraging tone.

CONTEXT
Candidate level: %s
Candidate specialization: %s
Interview type: %s
Key competencies evaluated: %s
Scoring focus: %s

SESSION DATA
%s

SCORING METHODOLOGY
1. Answer quality per question: excellent 90, good 75, fair 55, poor 35.
2. Overall score: average of all individual answer scores, rounded to nearest integer.
3. Competency scores: average score per competency group.
4. Points earned: >=80 -> 10, 60-79 -> 5, below 60 -> 2.
5. Focus areas: up to 5 questions scoring below 60.

FEEDBACK TONE
- Use encouraging, personal language ("You demonstrated...", "Consider strengthening...").
- Adjust expectations for the %s level.

OUTPUT FORMAT
Return ONLY valid JSON (no markdown, no comments):

{"overall_score": 0, "competency_breakdown": [{"name": "competency_name", "score": 0}], "points_earned": 0, "focus_questions": ["question text for improvement"], "summary_feedback": "Personal, encouraging summary with specific recommendations"}`
