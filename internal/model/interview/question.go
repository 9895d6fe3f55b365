package interview

// Level grades a question's difficulty.
type Level string

const (
	LevelEasy   Level = "easy"
	LevelMedium Level = "medium"
	LevelHard   Level = "hard"
)

// Valid reports whether the level is one of the known grades.
func (l Level) Valid() bool {
	switch l {
	case LevelEasy, LevelMedium, LevelHard:
		return true
	}
	return false
}

// Question is one entry of an interview flow. ExpectedAnswer may be
// empty when the question came from a degraded source; such flows are
// replaced wholesale before questioning begins.
type Question struct {
	ID             int    `json:"id" yaml:"id"`
	Level          Level  `json:"level" yaml:"level"`
	Text           string `json:"q" yaml:"q"`
	ExpectedAnswer string `json:"expected,omitempty" yaml:"expected"`
}
