package interview

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/intervuelab/backend/internal/analysis/answer"
	model "github.com/intervuelab/backend/internal/model/interview"
)

// NoResponseAnswer is the synthetic answer recorded when a question's
// countdown expires without a submission.
const NoResponseAnswer = "[No response]"

// SortKey orders dashboard queries over the archive.
type SortKey string

const (
	SortByScore SortKey = "score"
	SortByName  SortKey = "name"
	SortByDate  SortKey = "date"
)

// Store owns every live session, the archive of finalized candidates
// and the single "current session" pointer. One mutex covers all of
// it: each operation is atomic with respect to the others, which is
// what keeps len(Evaluations) == QuestionIndex.
//
// Operations referencing an unknown session id are silent no-ops;
// callers check the returned ok value or subsequent session state.
type Store struct {
	canonical []model.Question
	broker    *Broker

	mu       sync.Mutex
	sessions map[string]*model.Session
	current  string
	archive  []model.Candidate
}

// NewStore builds an empty store. canonical is the catalog used for
// wholesale flow replacement; broker may be nil when no live
// transport is attached.
func NewStore(canonical []model.Question, broker *Broker) *Store {
	return &Store{
		canonical: append([]model.Question(nil), canonical...),
		broker:    broker,
		sessions:  make(map[string]*model.Session),
	}
}

// StartSession provisions a live session and makes it current.
func (s *Store) StartSession(_ context.Context, profile model.Profile) model.Session {
	session := &model.Session{
		ID:        uuid.NewString(),
		Profile:   profile,
		StartedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.current = session.ID
	s.mu.Unlock()

	return copySession(session)
}

// GetSession returns a snapshot of the session, if it exists.
func (s *Store) GetSession(_ context.Context, sessionID string) (model.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return model.Session{}, false
	}
	return copySession(session), true
}

// Current returns a snapshot of the session active in the chat view.
func (s *Store) Current(_ context.Context) (model.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[s.current]
	if !ok {
		return model.Session{}, false
	}
	return copySession(session), true
}

// SetQuestionFlow replaces the session's flow wholesale and resets
// the question index. Replacement is never incremental: a flow is
// either taken as a unit or not at all.
func (s *Store) SetQuestionFlow(_ context.Context, sessionID string, questions []model.Question) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return
	}
	session.QuestionFlow = append([]model.Question(nil), questions...)
	session.QuestionIndex = 0
}

// EnsureCanonicalFlow swaps in the canonical catalog when the
// session's flow is empty or any entry lacks an expected answer.
// Reports whether a replacement happened.
func (s *Store) EnsureCanonicalFlow(_ context.Context, sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return false
	}
	if canonicalFlow(session.QuestionFlow) {
		return false
	}
	session.QuestionFlow = append([]model.Question(nil), s.canonical...)
	session.QuestionIndex = 0
	return true
}

func canonicalFlow(flow []model.Question) bool {
	if len(flow) == 0 {
		return false
	}
	for _, q := range flow {
		if q.ExpectedAnswer == "" {
			return false
		}
	}
	return true
}

// RecordMessage appends a chat message. Content is not validated.
func (s *Store) RecordMessage(_ context.Context, sessionID string, speaker model.Speaker, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return
	}
	s.appendMessage(session, speaker, text)
}

// appendMessage must be called with the store lock held.
func (s *Store) appendMessage(session *model.Session, speaker model.Speaker, text string) {
	session.Messages = append(session.Messages, model.Message{
		Speaker: speaker,
		Text:    text,
		At:      time.Now().UTC(),
	})

	eventType := EventBotMessage
	if speaker == model.SpeakerCandidate {
		eventType = EventCandidateMessage
	}
	s.broker.Publish(Event{Type: eventType, SessionID: session.ID, Text: text})
}

// UpdateProfile merges the non-empty fields of patch into the
// session's profile.
func (s *Store) UpdateProfile(_ context.Context, sessionID string, patch model.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return
	}
	if patch.Name != "" {
		session.Profile.Name = patch.Name
	}
	if patch.Email != "" {
		session.Profile.Email = patch.Email
	}
	if patch.Phone != "" {
		session.Profile.Phone = patch.Phone
	}
}

// SubmitAnswer scores the candidate's answer to the current question,
// records the message and evaluation and advances the flow. It
// requires a complete profile and an unexhausted flow.
func (s *Store) SubmitAnswer(_ context.Context, sessionID, text string) (model.Evaluation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return model.Evaluation{}, false
	}
	if !session.Profile.Complete() || session.QuestionIndex >= len(session.QuestionFlow) {
		return model.Evaluation{}, false
	}
	return s.scoreCurrentQuestion(session, text), true
}

// ExpireQuestion is the countdown's submission path. It records the
// no-response sentinel with a fixed zero evaluation, but only when
// the session still exists, is not paused and still sits on the
// question the countdown was started for; a stale timer must never
// touch a session that has moved on. The sentinel is never run
// through the evaluator: its words could overlap an expected answer
// and award points for silence.
func (s *Store) ExpireQuestion(_ context.Context, sessionID string, questionIndex int) (model.Evaluation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return model.Evaluation{}, false
	}
	if session.Paused || !session.Profile.Complete() {
		return model.Evaluation{}, false
	}
	if session.QuestionIndex != questionIndex || questionIndex >= len(session.QuestionFlow) {
		return model.Evaluation{}, false
	}
	return s.recordEvaluation(session, NoResponseAnswer, answer.Result{}), true
}

// scoreCurrentQuestion must be called with the store lock held and
// the question index validated.
func (s *Store) scoreCurrentQuestion(session *model.Session, text string) model.Evaluation {
	question := session.QuestionFlow[session.QuestionIndex]
	return s.recordEvaluation(session, text, answer.Evaluate(text, question.ExpectedAnswer))
}

// recordEvaluation appends the candidate message and the evaluation,
// advances the question index and publishes the result. Lock held,
// index validated.
func (s *Store) recordEvaluation(session *model.Session, text string, result answer.Result) model.Evaluation {
	question := session.QuestionFlow[session.QuestionIndex]

	evaluation := model.Evaluation{
		Question: question.Text,
		Answer:   text,
		Expected: question.ExpectedAnswer,
		Score:    result.Score,
		Correct:  result.Correct,
	}

	s.appendMessage(session, model.SpeakerCandidate, text)
	session.Evaluations = append(session.Evaluations, evaluation)
	if session.QuestionIndex < len(session.QuestionFlow) {
		session.QuestionIndex++
	}

	s.broker.Publish(Event{
		Type:          EventEvaluation,
		SessionID:     session.ID,
		QuestionIndex: session.QuestionIndex - 1,
		Evaluation:    &evaluation,
	})
	return evaluation
}

// Finalize summarizes an exhausted session into the archive, deletes
// the live entry and clears the current pointer. The final score is
// the mean of all evaluation scores rounded to one decimal, or zero
// when nothing was evaluated.
func (s *Store) Finalize(_ context.Context, sessionID, summary string) (model.Candidate, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return model.Candidate{}, false
	}
	if session.QuestionIndex != len(session.QuestionFlow) {
		return model.Candidate{}, false
	}

	if summary == "" {
		summary = "Interview complete"
	}

	candidate := model.Candidate{
		ID:           session.ID,
		Profile:      session.Profile,
		Messages:     session.Messages,
		Evaluations:  session.Evaluations,
		FinalSummary: summary,
		FinalScore:   meanScore(session.Evaluations),
		CreatedAt:    session.StartedAt,
	}

	s.archive = append(s.archive, candidate)
	delete(s.sessions, sessionID)
	if s.current == sessionID {
		s.current = ""
	}

	s.broker.Publish(Event{Type: EventFinalized, SessionID: sessionID, Candidate: &candidate})
	return candidate, true
}

func meanScore(evaluations []model.Evaluation) float64 {
	if len(evaluations) == 0 {
		return 0
	}
	total := 0.0
	for _, e := range evaluations {
		total += e.Score
	}
	return math.Round(total/float64(len(evaluations))*10) / 10
}

// Pause flags the session as paused. Stopping its countdown is the
// caller's responsibility.
func (s *Store) Pause(_ context.Context, sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return
	}
	session.Paused = true
	s.broker.Publish(Event{Type: EventPaused, SessionID: sessionID})
}

// Resume clears the paused flag and restores the session as current.
// It never restarts a countdown; one starts only when a question is
// newly asked.
func (s *Store) Resume(_ context.Context, sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return
	}
	session.Paused = false
	s.current = sessionID
	s.broker.Publish(Event{Type: EventResumed, SessionID: sessionID})
}

// Candidates returns the archive in completion order.
func (s *Store) Candidates(_ context.Context) []model.Candidate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Candidate(nil), s.archive...)
}

// Candidate looks up one archived record by id.
func (s *Store) Candidate(_ context.Context, id string) (model.Candidate, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.archive {
		if c.ID == id {
			return c, true
		}
	}
	return model.Candidate{}, false
}

// SearchCandidates filters the archive by a case-insensitive
// substring over name and email, sorted by the given key: score
// descending, name ascending or completion time descending.
func (s *Store) SearchCandidates(ctx context.Context, query string, sortKey SortKey) []model.Candidate {
	all := s.Candidates(ctx)

	query = strings.ToLower(strings.TrimSpace(query))
	matched := all[:0]
	for _, c := range all {
		if query == "" ||
			strings.Contains(strings.ToLower(c.Profile.Name), query) ||
			strings.Contains(strings.ToLower(c.Profile.Email), query) {
			matched = append(matched, c)
		}
	}

	switch sortKey {
	case SortByName:
		sort.SliceStable(matched, func(i, j int) bool {
			return strings.ToLower(matched[i].Profile.Name) < strings.ToLower(matched[j].Profile.Name)
		})
	case SortByDate:
		sort.SliceStable(matched, func(i, j int) bool {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		})
	default:
		sort.SliceStable(matched, func(i, j int) bool {
			return matched[i].FinalScore > matched[j].FinalScore
		})
	}
	return matched
}

// DeleteCandidate removes one archived record. Deleting an id that is
// already gone is a no-op.
func (s *Store) DeleteCandidate(_ context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.archive {
		if c.ID == id {
			s.archive = append(s.archive[:i], s.archive[i+1:]...)
			return
		}
	}
}

func copySession(session *model.Session) model.Session {
	out := *session
	out.Messages = append([]model.Message(nil), session.Messages...)
	out.QuestionFlow = append([]model.Question(nil), session.QuestionFlow...)
	out.Evaluations = append([]model.Evaluation(nil), session.Evaluations...)
	return out
}
