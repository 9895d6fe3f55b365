package resume

import (
	"regexp"
	"strings"

	model "github.com/intervuelab/backend/internal/model/interview"
)

// Binary-document text extraction lives outside this service; the
// boundary here is plain résumé text. Fields that cannot be guessed
// stay empty and are collected through chat intake turns instead.

var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-z]{2,}`)
	phonePattern = regexp.MustCompile(`(\+?\d{1,3}[\s-]?)?\d{10}`)
	namePattern  = regexp.MustCompile(`^[A-Za-z\s]+$`)
)

// ParseContact guesses the candidate's contact details from résumé
// text. The name guess is the first non-empty line when it looks like
// a plain multi-word name.
func ParseContact(text string) model.Profile {
	profile := model.Profile{
		Email: emailPattern.FindString(text),
		Phone: phonePattern.FindString(text),
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line == "" {
			continue
		}
		if namePattern.MatchString(line) && len(strings.Fields(line)) >= 2 {
			profile.Name = line
		}
		break
	}

	return profile
}
