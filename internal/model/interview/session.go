package interview

import "time"

// Profile holds the candidate contact details collected before
// questioning starts. Fields stay empty until supplied through the
// résumé parse or the chat intake turns.
type Profile struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Complete reports whether every contact field has been collected.
func (p Profile) Complete() bool {
	return p.Name != "" && p.Email != "" && p.Phone != ""
}

// Evaluation is the scored record of one question/answer pair.
type Evaluation struct {
	Question string  `json:"question"`
	Answer   string  `json:"answer"`
	Expected string  `json:"expected"`
	Score    float64 `json:"score"`
	Correct  bool    `json:"correct"`
}

// Session is one candidate's in-progress interview. Invariants held
// by the store: 0 <= QuestionIndex <= len(QuestionFlow), and
// len(Evaluations) == QuestionIndex once questioning has started.
type Session struct {
	ID            string       `json:"id"`
	Profile       Profile      `json:"profile"`
	Messages      []Message    `json:"messages"`
	QuestionFlow  []Question   `json:"questionFlow"`
	QuestionIndex int          `json:"questionIndex"`
	Evaluations   []Evaluation `json:"evaluations"`
	StartedAt     time.Time    `json:"startedAt"`
	Paused        bool         `json:"paused"`
}

// Candidate is the immutable archive record produced when a session
// finalizes. CreatedAt carries the session start time.
type Candidate struct {
	ID           string       `json:"id"`
	Profile      Profile      `json:"profile"`
	Messages     []Message    `json:"messages"`
	Evaluations  []Evaluation `json:"evaluations"`
	FinalSummary string       `json:"finalSummary"`
	FinalScore   float64      `json:"finalScore"`
	CreatedAt    time.Time    `json:"createdAt"`
}
