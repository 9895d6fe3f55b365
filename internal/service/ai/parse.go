package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	interviewmodel "github.com/intervuelab/backend/internal/model/interview"
)

// Judgement is the remote judge's verdict for one answer.
type Judgement struct {
	Score    float64 `json:"score"`
	Feedback string  `json:"feedback"`
}

// DefaultJudgement is the neutral verdict substituted at the boundary
// when the judge response cannot be parsed.
func DefaultJudgement() Judgement {
	return Judgement{Score: 5, Feedback: "Could not parse, default 5."}
}

const maxGeneratedQuestions = 6

var leadingNumber = regexp.MustCompile(`^\d+\.?\s*`)

// ParseQuestionList recovers questions from model output. It first
// tries a JSON array of {level, q}; failing that it treats each
// non-empty line as a question, capped at six, with levels assigned
// positionally. Returns nil when nothing can be recovered.
func ParseQuestionList(content string) []interviewmodel.Question {
	raw := stripCodeFence(content)
	if raw == "" {
		return nil
	}

	var items []struct {
		Level string `json:"level"`
		Q     string `json:"q"`
	}
	if err := json.Unmarshal([]byte(raw), &items); err == nil {
		questions := make([]interviewmodel.Question, 0, len(items))
		for _, item := range items {
			text := strings.TrimSpace(item.Q)
			if text == "" {
				continue
			}
			level := interviewmodel.Level(strings.ToLower(strings.TrimSpace(item.Level)))
			if !level.Valid() {
				level = levelForPosition(len(questions))
			}
			questions = append(questions, interviewmodel.Question{
				ID:    len(questions) + 1,
				Level: level,
				Text:  text,
			})
		}
		return questions
	}

	var questions []interviewmodel.Question
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if len(questions) == maxGeneratedQuestions {
			break
		}
		questions = append(questions, interviewmodel.Question{
			ID:    len(questions) + 1,
			Level: levelForPosition(len(questions)),
			Text:  leadingNumber.ReplaceAllString(line, ""),
		})
	}
	return questions
}

// ParseJudgement decodes a {score, feedback} JSON object.
func ParseJudgement(content string) (Judgement, error) {
	raw := stripCodeFence(content)

	var judgement Judgement
	if err := json.Unmarshal([]byte(raw), &judgement); err != nil {
		return Judgement{}, fmt.Errorf("failed to parse judgement %q: %w", raw, err)
	}
	return judgement, nil
}

func levelForPosition(i int) interviewmodel.Level {
	switch {
	case i < 2:
		return interviewmodel.LevelEasy
	case i < 4:
		return interviewmodel.LevelMedium
	default:
		return interviewmodel.LevelHard
	}
}

// stripCodeFence unwraps ```json fenced blocks that chat models like
// to emit around structured output.
func stripCodeFence(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.Index(trimmed, "\n"); idx >= 0 {
		trimmed = trimmed[idx+1:]
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
