package interview

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	model "github.com/intervuelab/backend/internal/model/interview"
	"github.com/intervuelab/backend/internal/service/timer"
)

// Profile-collection prompts, asked one at a time in name, email,
// phone order. Candidate replies are routed back by the substrings
// "full name" / "email" / "phone" of the most recent bot prompt.
const (
	promptFullName = "Please enter your full name:"
	promptEmail    = "Please provide your email address:"
	promptPhone    = "Please provide your phone number:"
)

const finalSummary = "Interview completed"

// PromptKind tags what the bot is currently waiting for.
type PromptKind string

const (
	PromptProfile  PromptKind = "profile"
	PromptQuestion PromptKind = "question"
	PromptPaused   PromptKind = "paused"
	PromptFinished PromptKind = "finished"
)

// Prompt describes the next expected chat turn for a session.
type Prompt struct {
	Kind            PromptKind `json:"kind"`
	Field           string     `json:"field,omitempty"`
	Text            string     `json:"text,omitempty"`
	QuestionIndex   int        `json:"questionIndex,omitempty"`
	SecondsAllotted int        `json:"secondsAllotted,omitempty"`
	FinalScore      float64    `json:"finalScore,omitempty"`
}

// Routed says where a candidate's inbound text ended up.
type Routed string

const (
	RoutedProfile Routed = "profile"
	RoutedAnswer  Routed = "answer"
	RoutedIgnored Routed = "ignored"
)

// Turn is the outcome of one inbound candidate message.
type Turn struct {
	Routed     Routed            `json:"routed"`
	Field      string            `json:"field,omitempty"`
	Evaluation *model.Evaluation `json:"evaluation,omitempty"`
	Next       Prompt            `json:"next"`
}

// Flow drives the chat loop on top of the Store: profile collection,
// question sequencing, countdowns and finalization. It owns the timer
// controller so that countdown cancellation is reachable uniformly
// from submit, pause and finalize.
type Flow struct {
	store  *Store
	broker *Broker
	timers *timer.Controller
	log    *zap.Logger
}

// NewFlow wires the orchestrator. tickInterval is the countdown tick
// length; production callers pass time.Second.
func NewFlow(store *Store, broker *Broker, log *zap.Logger, tickInterval time.Duration) *Flow {
	if log == nil {
		log = zap.NewNop()
	}
	f := &Flow{store: store, broker: broker, log: log}
	f.timers = timer.New(tickInterval, f.handleExpiry, f.handleTick)
	return f
}

// Shutdown stops every running countdown.
func (f *Flow) Shutdown() {
	f.timers.Shutdown()
}

// Begin starts a session from the intake boundary. The initial flow,
// when given, is installed as-is; a non-canonical one (the bare
// intake catalog) is replaced wholesale on the first Advance.
func (f *Flow) Begin(ctx context.Context, profile model.Profile, initialFlow []model.Question) (model.Session, Prompt) {
	session := f.store.StartSession(ctx, profile)
	if len(initialFlow) > 0 {
		f.store.SetQuestionFlow(ctx, session.ID, initialFlow)
	}

	f.log.Info("interview session started",
		zap.String("session", session.ID),
		zap.String("name", profile.Name))

	prompt, _ := f.Advance(ctx, session.ID)
	session, _ = f.store.GetSession(ctx, session.ID)
	return session, prompt
}

// Advance moves the bot side of the conversation forward: it repairs
// a non-canonical flow, prompts for the first missing profile field,
// asks the current question (starting its countdown) or finalizes an
// exhausted session. Asking is idempotent; a prompt already at the
// log tail and a question already asked are not repeated, and a
// re-asked question does not restart its countdown.
func (f *Flow) Advance(ctx context.Context, sessionID string) (Prompt, bool) {
	session, ok := f.store.GetSession(ctx, sessionID)
	if !ok {
		return Prompt{}, false
	}

	if f.store.EnsureCanonicalFlow(ctx, sessionID) {
		f.log.Info("replaced non-canonical question flow", zap.String("session", sessionID))
		session, _ = f.store.GetSession(ctx, sessionID)
	}

	if session.Paused {
		return Prompt{Kind: PromptPaused}, true
	}

	if field, text, missing := nextProfilePrompt(session.Profile); missing {
		f.askOnce(ctx, session, text)
		return Prompt{Kind: PromptProfile, Field: field, Text: text}, true
	}

	if session.QuestionIndex < len(session.QuestionFlow) {
		index := session.QuestionIndex
		question := session.QuestionFlow[index]
		if !botAsked(session, question.Text) {
			f.store.RecordMessage(ctx, sessionID, model.SpeakerBot, question.Text)
			f.timers.Start(sessionID, index)
			f.log.Debug("question asked",
				zap.String("session", sessionID),
				zap.Int("index", index),
				zap.Int("seconds", timer.AllottedSeconds(index)))
		}
		return Prompt{
			Kind:            PromptQuestion,
			Text:            question.Text,
			QuestionIndex:   index,
			SecondsAllotted: timer.AllottedSeconds(index),
		}, true
	}

	f.timers.Cancel(sessionID)
	candidate, ok := f.store.Finalize(ctx, sessionID, finalSummary)
	if !ok {
		return Prompt{}, false
	}
	f.log.Info("interview finalized",
		zap.String("session", sessionID),
		zap.Float64("finalScore", candidate.FinalScore))
	return Prompt{Kind: PromptFinished, FinalScore: candidate.FinalScore}, true
}

// HandleCandidateText routes one inbound candidate message. While the
// profile is incomplete the reply fills the field named by the most
// recent bot prompt; afterwards it is submitted as an answer to the
// current question, cancelling its countdown. Blank input and input
// for an unknown session are dropped.
func (f *Flow) HandleCandidateText(ctx context.Context, sessionID, text string) (Turn, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Turn{}, false
	}

	session, ok := f.store.GetSession(ctx, sessionID)
	if !ok {
		return Turn{}, false
	}

	if !session.Profile.Complete() {
		field, matched := profileFieldFor(lastBotText(session))
		if !matched {
			next, _ := f.Advance(ctx, sessionID)
			return Turn{Routed: RoutedIgnored, Next: next}, true
		}

		patch := model.Profile{}
		switch field {
		case "name":
			patch.Name = text
		case "email":
			patch.Email = text
		case "phone":
			patch.Phone = text
		}
		f.store.UpdateProfile(ctx, sessionID, patch)
		f.store.RecordMessage(ctx, sessionID, model.SpeakerCandidate, text)

		next, _ := f.Advance(ctx, sessionID)
		return Turn{Routed: RoutedProfile, Field: field, Next: next}, true
	}

	f.timers.Cancel(sessionID)
	evaluation, submitted := f.store.SubmitAnswer(ctx, sessionID, text)
	next, _ := f.Advance(ctx, sessionID)
	if !submitted {
		return Turn{Routed: RoutedIgnored, Next: next}, true
	}
	return Turn{Routed: RoutedAnswer, Evaluation: &evaluation, Next: next}, true
}

// Pause stops the session's countdown without recording anything.
func (f *Flow) Pause(ctx context.Context, sessionID string) {
	f.timers.Cancel(sessionID)
	f.store.Pause(ctx, sessionID)
}

// Resume restores the session as current. The countdown is not
// restarted; the next one starts when a question is newly asked.
func (f *Flow) Resume(ctx context.Context, sessionID string) (Prompt, bool) {
	if _, ok := f.store.GetSession(ctx, sessionID); !ok {
		return Prompt{}, false
	}
	f.store.Resume(ctx, sessionID)
	return f.Advance(ctx, sessionID)
}

// handleExpiry is the countdown callback: it applies the guarded
// no-response submission and moves the conversation on.
func (f *Flow) handleExpiry(sessionID string, questionIndex int) {
	ctx := context.Background()
	if _, ok := f.store.ExpireQuestion(ctx, sessionID, questionIndex); !ok {
		return
	}
	f.log.Info("question timed out",
		zap.String("session", sessionID),
		zap.Int("index", questionIndex))
	f.Advance(ctx, sessionID)
}

func (f *Flow) handleTick(sessionID string, questionIndex, remaining int) {
	f.broker.Publish(Event{
		Type:          EventTimerTick,
		SessionID:     sessionID,
		QuestionIndex: questionIndex,
		SecondsLeft:   remaining,
	})
}

// askOnce appends a bot prompt unless it already sits at the tail of
// the log, so repeated Advance calls do not spam the transcript.
func (f *Flow) askOnce(ctx context.Context, session model.Session, text string) {
	if lastBotText(session) == strings.ToLower(text) {
		return
	}
	f.store.RecordMessage(ctx, session.ID, model.SpeakerBot, text)
}

// nextProfilePrompt picks the first missing field in collection order.
func nextProfilePrompt(profile model.Profile) (field, text string, missing bool) {
	switch {
	case profile.Name == "":
		return "name", promptFullName, true
	case profile.Email == "":
		return "email", promptEmail, true
	case profile.Phone == "":
		return "phone", promptPhone, true
	}
	return "", "", false
}

// profileFieldFor maps the most recent bot prompt to the profile
// field a candidate reply should fill.
func profileFieldFor(lastBot string) (string, bool) {
	switch {
	case strings.Contains(lastBot, "full name"):
		return "name", true
	case strings.Contains(lastBot, "email"):
		return "email", true
	case strings.Contains(lastBot, "phone"):
		return "phone", true
	}
	return "", false
}

// lastBotText returns the lowercased text of the most recent bot
// message, or "" when the bot has not spoken yet.
func lastBotText(session model.Session) string {
	for i := len(session.Messages) - 1; i >= 0; i-- {
		if session.Messages[i].Speaker == model.SpeakerBot {
			return strings.ToLower(session.Messages[i].Text)
		}
	}
	return ""
}

// botAsked reports whether the bot already asked this exact question.
func botAsked(session model.Session, text string) bool {
	for _, m := range session.Messages {
		if m.Speaker == model.SpeakerBot && m.Text == text {
			return true
		}
	}
	return false
}
