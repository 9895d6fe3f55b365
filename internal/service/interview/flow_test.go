package interview

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intervuelab/backend/internal/catalog"
	model "github.com/intervuelab/backend/internal/model/interview"
)

func newTestFlow(tick time.Duration) (*Flow, *Store) {
	broker := NewBroker()
	store := NewStore(catalog.Canonical(), broker)
	return NewFlow(store, broker, nil, tick), store
}

func TestBeginReplacesBareFlowAndPromptsForName(t *testing.T) {
	flow, _ := newTestFlow(time.Hour)
	ctx := context.Background()

	session, prompt := flow.Begin(ctx, model.Profile{}, catalog.Bare())

	assert.Equal(t, PromptProfile, prompt.Kind)
	assert.Equal(t, "name", prompt.Field)
	assert.Equal(t, promptFullName, prompt.Text)

	// The bare intake flow was swapped for the canonical catalog.
	require.Len(t, session.QuestionFlow, 6)
	for _, q := range session.QuestionFlow {
		assert.NotEmpty(t, q.ExpectedAnswer)
	}

	require.Len(t, session.Messages, 1)
	assert.Equal(t, model.SpeakerBot, session.Messages[0].Speaker)
	assert.Equal(t, promptFullName, session.Messages[0].Text)
}

func TestProfileCollectionOrderAndRouting(t *testing.T) {
	flow, store := newTestFlow(time.Hour)
	ctx := context.Background()

	session, _ := flow.Begin(ctx, model.Profile{}, catalog.Bare())

	turn, ok := flow.HandleCandidateText(ctx, session.ID, "Ada Lovelace")
	require.True(t, ok)
	assert.Equal(t, RoutedProfile, turn.Routed)
	assert.Equal(t, "name", turn.Field)
	assert.Equal(t, "email", turn.Next.Field)
	assert.Equal(t, promptEmail, turn.Next.Text)

	turn, _ = flow.HandleCandidateText(ctx, session.ID, "ada@example.com")
	assert.Equal(t, "email", turn.Field)
	assert.Equal(t, "phone", turn.Next.Field)
	assert.Equal(t, promptPhone, turn.Next.Text)

	turn, _ = flow.HandleCandidateText(ctx, session.ID, "5551234567")
	assert.Equal(t, "phone", turn.Field)

	// Profile complete: the first question is asked with its countdown.
	assert.Equal(t, PromptQuestion, turn.Next.Kind)
	assert.Equal(t, 0, turn.Next.QuestionIndex)
	assert.Equal(t, 20, turn.Next.SecondsAllotted)

	got, _ := store.GetSession(ctx, session.ID)
	assert.Equal(t, model.Profile{
		Name: "Ada Lovelace", Email: "ada@example.com", Phone: "5551234567",
	}, got.Profile)
	// No answer was scored during intake.
	assert.Empty(t, got.Evaluations)

	// Bot prompts came in name, email, phone order.
	var prompts []string
	for _, m := range got.Messages {
		if m.Speaker == model.SpeakerBot && m.Text != got.QuestionFlow[0].Text {
			prompts = append(prompts, m.Text)
		}
	}
	assert.Equal(t, []string{promptFullName, promptEmail, promptPhone}, prompts)
}

func TestAdvanceDoesNotRepeatPromptOrQuestion(t *testing.T) {
	flow, store := newTestFlow(time.Hour)
	ctx := context.Background()

	session, _ := flow.Begin(ctx, model.Profile{}, nil)
	flow.Advance(ctx, session.ID)
	flow.Advance(ctx, session.ID)

	got, _ := store.GetSession(ctx, session.ID)
	assert.Len(t, got.Messages, 1)

	// Same for questions once the profile is complete.
	store.UpdateProfile(ctx, session.ID, completeProfile())
	flow.Advance(ctx, session.ID)
	flow.Advance(ctx, session.ID)

	got, _ = store.GetSession(ctx, session.ID)
	botMessages := 0
	for _, m := range got.Messages {
		if m.Speaker == model.SpeakerBot {
			botMessages++
		}
	}
	assert.Equal(t, 2, botMessages)
}

func TestManualSubmissionAdvancesToNextQuestion(t *testing.T) {
	flow, store := newTestFlow(time.Hour)
	ctx := context.Background()

	session, prompt := flow.Begin(ctx, completeProfile(), catalog.Bare())
	require.Equal(t, PromptQuestion, prompt.Kind)

	turn, ok := flow.HandleCandidateText(ctx, session.ID,
		"It contains metadata about the project and manages dependencies")
	require.True(t, ok)
	assert.Equal(t, RoutedAnswer, turn.Routed)
	require.NotNil(t, turn.Evaluation)
	assert.Equal(t, session.QuestionFlow[0].Text, turn.Evaluation.Question)

	assert.Equal(t, PromptQuestion, turn.Next.Kind)
	assert.Equal(t, 1, turn.Next.QuestionIndex)

	got, _ := store.GetSession(ctx, session.ID)
	assert.Equal(t, 1, got.QuestionIndex)
	assert.Len(t, got.Evaluations, 1)
}

func TestFullInterviewFinalizes(t *testing.T) {
	flow, store := newTestFlow(time.Hour)
	ctx := context.Background()

	session, _ := flow.Begin(ctx, completeProfile(), nil)

	var last Turn
	for i := 0; i < 6; i++ {
		var ok bool
		last, ok = flow.HandleCandidateText(ctx, session.ID, "an answer about the topic")
		require.True(t, ok)
	}

	assert.Equal(t, PromptFinished, last.Next.Kind)

	_, live := store.GetSession(ctx, session.ID)
	assert.False(t, live)

	candidates := store.Candidates(ctx)
	require.Len(t, candidates, 1)
	assert.Equal(t, session.ID, candidates[0].ID)
	assert.Equal(t, finalSummary, candidates[0].FinalSummary)
	assert.Len(t, candidates[0].Evaluations, 6)
}

func TestCountdownExpiryRecordsNoResponseAndMovesOn(t *testing.T) {
	flow, store := newTestFlow(time.Millisecond)
	ctx := context.Background()

	session, prompt := flow.Begin(ctx, completeProfile(), nil)
	require.Equal(t, PromptQuestion, prompt.Kind)

	// 20 ticks of 1ms; give it room.
	deadline := time.After(2 * time.Second)
	for {
		got, ok := store.GetSession(ctx, session.ID)
		if ok && got.QuestionIndex >= 1 {
			require.GreaterOrEqual(t, len(got.Evaluations), 1)
			ev := got.Evaluations[0]
			assert.Equal(t, NoResponseAnswer, ev.Answer)
			assert.Equal(t, 0.0, ev.Score)
			assert.False(t, ev.Correct)
			break
		}
		select {
		case <-deadline:
			t.Fatal("countdown never expired the first question")
		case <-time.After(5 * time.Millisecond):
		}
	}

	flow.Shutdown()
}

func TestPauseStopsCountdownWithoutRecording(t *testing.T) {
	flow, store := newTestFlow(time.Millisecond)
	ctx := context.Background()

	session, _ := flow.Begin(ctx, completeProfile(), nil)
	flow.Pause(ctx, session.ID)

	time.Sleep(100 * time.Millisecond)

	got, ok := store.GetSession(ctx, session.ID)
	require.True(t, ok)
	assert.True(t, got.Paused)
	assert.Zero(t, got.QuestionIndex)
	assert.Empty(t, got.Evaluations)

	// Resume restores the session but does not restart the countdown.
	prompt, ok := flow.Resume(ctx, session.ID)
	require.True(t, ok)
	assert.Equal(t, PromptQuestion, prompt.Kind)

	time.Sleep(100 * time.Millisecond)
	got, _ = store.GetSession(ctx, session.ID)
	assert.Zero(t, got.QuestionIndex)
	assert.Empty(t, got.Evaluations)
}

func TestAdvanceWhilePaused(t *testing.T) {
	flow, _ := newTestFlow(time.Hour)
	ctx := context.Background()

	session, _ := flow.Begin(ctx, completeProfile(), nil)
	flow.Pause(ctx, session.ID)

	prompt, ok := flow.Advance(ctx, session.ID)
	require.True(t, ok)
	assert.Equal(t, PromptPaused, prompt.Kind)
}

func TestHandleCandidateTextDropsBlankAndUnknown(t *testing.T) {
	flow, _ := newTestFlow(time.Hour)
	ctx := context.Background()

	_, ok := flow.HandleCandidateText(ctx, "ghost", "hello")
	assert.False(t, ok)

	session, _ := flow.Begin(ctx, model.Profile{}, nil)
	_, ok = flow.HandleCandidateText(ctx, session.ID, "   ")
	assert.False(t, ok)
}

func TestBrokerReceivesChatEvents(t *testing.T) {
	broker := NewBroker()
	store := NewStore(catalog.Canonical(), broker)
	flow := NewFlow(store, broker, nil, time.Hour)
	ctx := context.Background()

	session := store.StartSession(ctx, completeProfile())
	events, cancel := broker.Subscribe(session.ID)
	defer cancel()

	flow.Advance(ctx, session.ID)

	select {
	case ev := <-events:
		assert.Equal(t, EventBotMessage, ev.Type)
		assert.Equal(t, session.ID, ev.SessionID)
	case <-time.After(time.Second):
		t.Fatal("no bot message event published")
	}
}
