package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	interviewmodel "github.com/intervuelab/backend/internal/model/interview"
)

func TestParseQuestionListJSON(t *testing.T) {
	content := `[
		{"level": "easy", "q": "What is a goroutine?"},
		{"level": "hard", "q": "Explain the scheduler."}
	]`

	got := ParseQuestionList(content)

	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].ID)
	assert.Equal(t, interviewmodel.LevelEasy, got[0].Level)
	assert.Equal(t, "What is a goroutine?", got[0].Text)
	assert.Equal(t, interviewmodel.LevelHard, got[1].Level)
}

func TestParseQuestionListFencedJSON(t *testing.T) {
	content := "```json\n[{\"level\": \"medium\", \"q\": \"Describe channels.\"}]\n```"

	got := ParseQuestionList(content)

	require.Len(t, got, 1)
	assert.Equal(t, interviewmodel.LevelMedium, got[0].Level)
}

func TestParseQuestionListUnknownLevelAssignedPositionally(t *testing.T) {
	content := `[
		{"level": "trivial", "q": "q1"},
		{"level": "", "q": "q2"},
		{"level": "weird", "q": "q3"}
	]`

	got := ParseQuestionList(content)

	require.Len(t, got, 3)
	assert.Equal(t, interviewmodel.LevelEasy, got[0].Level)
	assert.Equal(t, interviewmodel.LevelEasy, got[1].Level)
	assert.Equal(t, interviewmodel.LevelMedium, got[2].Level)
}

func TestParseQuestionListLineFallback(t *testing.T) {
	content := "1. First question\n2. Second question\n3. Third\n4. Fourth\n5. Fifth\n6. Sixth\n7. Seventh over the cap"

	got := ParseQuestionList(content)

	require.Len(t, got, 6)
	assert.Equal(t, "First question", got[0].Text)
	assert.Equal(t, interviewmodel.LevelEasy, got[1].Level)
	assert.Equal(t, interviewmodel.LevelMedium, got[2].Level)
	assert.Equal(t, interviewmodel.LevelHard, got[5].Level)
}

func TestParseQuestionListEmpty(t *testing.T) {
	assert.Nil(t, ParseQuestionList(""))
	assert.Nil(t, ParseQuestionList("   \n  "))
}

func TestParseJudgement(t *testing.T) {
	got, err := ParseJudgement(`{"score": 7.5, "feedback": "Solid answer."}`)

	require.NoError(t, err)
	assert.Equal(t, 7.5, got.Score)
	assert.Equal(t, "Solid answer.", got.Feedback)
}

func TestParseJudgementFenced(t *testing.T) {
	got, err := ParseJudgement("```json\n{\"score\": 3, \"feedback\": \"Thin.\"}\n```")

	require.NoError(t, err)
	assert.Equal(t, 3.0, got.Score)
}

func TestParseJudgementMalformed(t *testing.T) {
	_, err := ParseJudgement("I'd give this a 7 out of 10.")

	require.Error(t, err)
	assert.Equal(t, 5.0, DefaultJudgement().Score)
}
