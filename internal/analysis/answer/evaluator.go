package answer

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// Result is the outcome of scoring one free-text answer.
type Result struct {
	Score   float64
	Correct bool
}

// correctThreshold is the token-similarity level treated as a pass.
const correctThreshold = 0.35

// phraseMatchScore is the fixed score for a verbatim key-phrase hit,
// regardless of how much of the answer is extraneous.
const phraseMatchScore = 9.0

var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "that": {}, "this": {}, "with": {}, "from": {},
	"which": {}, "what": {}, "how": {}, "would": {}, "use": {}, "using": {},
	"a": {}, "an": {}, "in": {}, "on": {}, "for": {}, "to": {}, "of": {},
	"is": {}, "are": {}, "be": {}, "it": {}, "its": {}, "as": {}, "by": {},
	"or": {}, "we": {}, "you": {}, "i": {},
}

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s]`)

// Evaluate scores a candidate answer against the expected answer.
// Longer phrases of the expected text are checked first for a
// verbatim substring hit; otherwise the score falls back to Jaccard
// similarity over the two token sets. Deterministic and free of I/O.
func Evaluate(answerText, expectedText string) Result {
	if expectedText == "" {
		return Result{}
	}

	ua := strings.ToLower(answerText)
	exp := strings.ToLower(expectedText)

	for _, phrase := range keyPhrases(exp) {
		if len(phrase) > 10 && strings.Contains(ua, phrase) {
			return Result{Score: phraseMatchScore, Correct: true}
		}
	}

	sim := jaccard(tokens(ua), tokens(exp))
	return Result{
		Score:   math.Round(sim*100) / 10,
		Correct: sim >= correctThreshold,
	}
}

// keyPhrases splits the expected text on clause punctuation and
// orders the pieces longest-first, so the most specific phrase is
// checked before its fragments.
func keyPhrases(expected string) []string {
	pieces := strings.FieldsFunc(expected, func(r rune) bool {
		return r == '.' || r == ',' || r == ';' || r == ':'
	})

	phrases := make([]string, 0, len(pieces))
	for _, piece := range pieces {
		if trimmed := strings.TrimSpace(piece); trimmed != "" {
			phrases = append(phrases, trimmed)
		}
	}

	sort.SliceStable(phrases, func(i, j int) bool {
		return len(phrases[i]) > len(phrases[j])
	})
	return phrases
}

// tokens normalizes text to a lowercase alphanumeric token list,
// dropping short tokens and stop words.
func tokens(text string) []string {
	if text == "" {
		return nil
	}

	cleaned := nonAlphanumeric.ReplaceAllString(strings.ToLower(text), " ")

	var out []string
	for _, field := range strings.Fields(cleaned) {
		if len(field) <= 2 {
			continue
		}
		if _, stop := stopWords[field]; stop {
			continue
		}
		out = append(out, field)
	}
	return out
}

// jaccard computes |A∩B| / |A∪B| over the two token sets. Either set
// being empty yields zero.
func jaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	setA := make(map[string]struct{}, len(a))
	for _, t := range a {
		setA[t] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, t := range b {
		setB[t] = struct{}{}
	}
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	inter := 0
	for t := range setA {
		if _, ok := setB[t]; ok {
			inter++
		}
	}

	union := len(setB)
	for t := range setA {
		if _, ok := setB[t]; !ok {
			union++
		}
	}
	if union == 0 {
		return 0
	}

	return float64(inter) / float64(union)
}
