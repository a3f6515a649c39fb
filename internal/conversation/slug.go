package conversation

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

const maxSlugLength = 50

var (
	nonWord    = regexp.MustCompile(`[^\w\s-]`)
	whitespace = regexp.MustCompile(`\s+`)
	dashes     = regexp.MustCompile(`-+`)
)

// Slugify lowercases s, drops non-word characters and joins words with "-".
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = nonWord.ReplaceAllString(s, "")
	s = whitespace.ReplaceAllString(s, "-")
	s = dashes.ReplaceAllString(s, "-")
	if len(s) > maxSlugLength {
		s = s[:maxSlugLength]
	}
	return strings.Trim(s, "-")
}

// newID derives a conversation id from the first question.
func newID(question string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	slug := Slugify(question)
	if slug == "" {
		return "conversation-" + suffix
	}
	return slug + "-" + suffix
}

// Title shortens question to MaxTitleLength runes, marking truncation with "...".
func Title(question string) string {
	q := strings.Join(strings.Fields(question), " ")
	runes := []rune(q)
	if len(runes) <= MaxTitleLength {
		return q
	}
	return strings.TrimRight(string(runes[:MaxTitleLength-3]), " ") + "..."
}
