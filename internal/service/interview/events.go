package interview

import (
	model "github.com/intervuelab/backend/internal/model/interview"
)

// EventType tags a session event pushed to chat transports.
type EventType string

const (
	EventBotMessage       EventType = "bot_message"
	EventCandidateMessage EventType = "candidate_message"
	EventEvaluation       EventType = "evaluation"
	EventTimerTick        EventType = "timer_tick"
	EventPaused           EventType = "paused"
	EventResumed          EventType = "resumed"
	EventFinalized        EventType = "finalized"
)

// Event is one item of a session's live event feed, consumed by the
// WebSocket and SSE handlers.
type Event struct {
	Type          EventType         `json:"type"`
	SessionID     string            `json:"sessionId"`
	Text          string            `json:"text,omitempty"`
	QuestionIndex int               `json:"questionIndex,omitempty"`
	SecondsLeft   int               `json:"secondsLeft,omitempty"`
	Evaluation    *model.Evaluation `json:"evaluation,omitempty"`
	Candidate     *model.Candidate  `json:"candidate,omitempty"`
}
