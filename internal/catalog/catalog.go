package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/intervuelab/backend/internal/model/interview"
)

// Canonical returns the fixed question list used for scoring: six
// questions, two per difficulty level, every entry carrying an
// expected answer. This is the catalog flow replacement must prefer.
func Canonical() []interview.Question {
	return []interview.Question{
		{
			ID:             1,
			Level:          interview.LevelEasy,
			Text:           "What is the difference between state and props in React?",
			ExpectedAnswer: "State is mutable and managed within the component, props are read-only and passed from the parent.",
		},
		{
			ID:             2,
			Level:          interview.LevelEasy,
			Text:           "Explain the purpose of package.json in a Node/React project.",
			ExpectedAnswer: "It contains metadata about the project and manages dependencies, scripts, and configuration.",
		},
		{
			ID:             3,
			Level:          interview.LevelMedium,
			Text:           "How would you optimize a React list rendering performance for thousands of items?",
			ExpectedAnswer: "Use virtualization (react-window/react-virtualized), memoization, and stable keys to avoid re-renders.",
		},
		{
			ID:             4,
			Level:          interview.LevelMedium,
			Text:           "Describe the flow of a request from browser to database in a MERN app.",
			ExpectedAnswer: "Browser -> Express/Node -> controller -> model -> MongoDB via Mongoose -> response back to client.",
		},
		{
			ID:             5,
			Level:          interview.LevelHard,
			Text:           "How would you design a scalable real-time notification system for millions of users?",
			ExpectedAnswer: "Use pub/sub (Kafka/Redis), websocket clusters, load balancers and horizontal scaling with message partitioning.",
		},
		{
			ID:             6,
			Level:          interview.LevelHard,
			Text:           "Explain memory leaks in Node.js and how to diagnose them.",
			ExpectedAnswer: "Caused by uncleared timers, global references, or event listeners; diagnose with heap snapshots and profilers.",
		},
	}
}

// Bare returns the same ordered questions without expected answers.
// It mirrors the degraded list handed out at the intake boundary;
// flows built from it are non-canonical and get replaced before
// questioning begins.
func Bare() []interview.Question {
	questions := Canonical()
	for i := range questions {
		questions[i].ExpectedAnswer = ""
	}
	return questions
}

type catalogFile struct {
	Questions []interview.Question `yaml:"questions"`
}

// LoadFile reads a canonical catalog override from a YAML file. The
// file must describe exactly six questions in easy/easy/medium/medium/
// hard/hard order, each with an expected answer.
func LoadFile(filename string) ([]interview.Question, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", filename, err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog YAML: %w", err)
	}

	if err := validate(file.Questions); err != nil {
		return nil, fmt.Errorf("invalid catalog file %s: %w", filename, err)
	}

	return file.Questions, nil
}

func validate(questions []interview.Question) error {
	wantLevels := []interview.Level{
		interview.LevelEasy, interview.LevelEasy,
		interview.LevelMedium, interview.LevelMedium,
		interview.LevelHard, interview.LevelHard,
	}

	if len(questions) != len(wantLevels) {
		return fmt.Errorf("expected %d questions, got %d", len(wantLevels), len(questions))
	}

	for i, q := range questions {
		if q.Text == "" {
			return fmt.Errorf("question %d has no text", i+1)
		}
		if q.ExpectedAnswer == "" {
			return fmt.Errorf("question %d has no expected answer", i+1)
		}
		if !q.Level.Valid() {
			return fmt.Errorf("question %d has unknown level %q", i+1, q.Level)
		}
		if q.Level != wantLevels[i] {
			return fmt.Errorf("question %d has level %q, want %q", i+1, q.Level, wantLevels[i])
		}
	}

	return nil
}
