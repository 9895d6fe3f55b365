package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intervuelab/backend/internal/model/interview"
)

func TestCanonicalShape(t *testing.T) {
	questions := Canonical()
	require.Len(t, questions, 6)

	wantLevels := []interview.Level{
		interview.LevelEasy, interview.LevelEasy,
		interview.LevelMedium, interview.LevelMedium,
		interview.LevelHard, interview.LevelHard,
	}
	for i, q := range questions {
		assert.Equal(t, i+1, q.ID)
		assert.Equal(t, wantLevels[i], q.Level)
		assert.NotEmpty(t, q.Text)
		assert.NotEmpty(t, q.ExpectedAnswer)
	}
}

func TestBareStripsExpectedAnswers(t *testing.T) {
	bare := Bare()
	canonical := Canonical()
	require.Len(t, bare, len(canonical))

	for i, q := range bare {
		assert.Empty(t, q.ExpectedAnswer)
		assert.Equal(t, canonical[i].Text, q.Text)
		assert.Equal(t, canonical[i].Level, q.Level)
	}
}

const validCatalogYAML = `questions:
  - id: 1
    level: easy
    q: "What is a slice?"
    expected: "A slice is a view over an underlying array with length and capacity."
  - id: 2
    level: easy
    q: "What does go fmt do?"
    expected: "It rewrites source files into the canonical gofmt style."
  - id: 3
    level: medium
    q: "Explain channel direction types."
    expected: "Send-only and receive-only channel types restrict how a channel can be used."
  - id: 4
    level: medium
    q: "How does defer interact with named return values?"
    expected: "Deferred functions run after the return value is set and can modify named results."
  - id: 5
    level: hard
    q: "Describe the memory model guarantees around channel operations."
    expected: "A send happens before the corresponding receive completes, establishing ordering."
  - id: 6
    level: hard
    q: "How would you diagnose a goroutine leak?"
    expected: "Inspect runtime.NumGoroutine and pprof goroutine profiles for stuck stacks."
`

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "questions.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFile(t *testing.T) {
	questions, err := LoadFile(writeCatalog(t, validCatalogYAML))
	require.NoError(t, err)
	require.Len(t, questions, 6)
	assert.Equal(t, "What is a slice?", questions[0].Text)
	assert.Equal(t, interview.LevelHard, questions[5].Level)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadFileBadYAML(t *testing.T) {
	_, err := LoadFile(writeCatalog(t, "questions: [whoops"))
	assert.Error(t, err)
}

func TestLoadFileWrongCount(t *testing.T) {
	content := `questions:
  - id: 1
    level: easy
    q: "Only one"
    expected: "Not enough."
`
	_, err := LoadFile(writeCatalog(t, content))
	assert.ErrorContains(t, err, "expected 6 questions")
}

func TestLoadFileMissingExpectedAnswer(t *testing.T) {
	broken := strings.Replace(validCatalogYAML,
		`expected: "It rewrites source files into the canonical gofmt style."`,
		`expected: ""`, 1)
	_, err := LoadFile(writeCatalog(t, broken))
	assert.ErrorContains(t, err, "no expected answer")
}

func TestLoadFileWrongLevelOrder(t *testing.T) {
	// Order must be two easy, two medium, two hard.
	swapped := strings.Replace(validCatalogYAML, "level: easy", "level: hard", 1)
	_, err := LoadFile(writeCatalog(t, swapped))
	assert.Error(t, err)
}
