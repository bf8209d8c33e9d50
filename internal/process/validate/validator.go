package validate

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ergognome/discord-digest-bot/internal/core/domain"
)

// Failure reasons. ReasonMissingLink and ReasonInvalidLink mark a candidate
// as link-repairable; the other reasons are terminal.
const (
	ReasonNoMarkerGlyph = "does not start with a marker glyph"
	ReasonTooShort      = "content too short"
	ReasonMissingLink   = "missing discord link"
	ReasonInvalidLink   = "invalid discord link format"
)

const defaultMinLength = 50

// Validator classifies a candidate update line as structurally valid or not.
// Classification is a pure function of the candidate text and the configured
// server id.
type Validator struct {
	serverID    string
	minLength   int
	linkPattern *regexp.Regexp
}

func New(serverID string, minLength int) *Validator {
	if minLength <= 0 {
		minLength = defaultMinLength
	}

	return &Validator{
		serverID:    serverID,
		minLength:   minLength,
		linkPattern: regexp.MustCompile(fmt.Sprintf(`^https://discord\.com/channels/%s/\d+/\d+$`, regexp.QuoteMeta(serverID))),
	}
}

// Classify runs the structural checks in order, short-circuiting on the
// first failure. The candidate is mutated in place: Valid is set and any
// failure reason appended. Invalid candidates are not discarded here; link
// failures may still be repaired.
func (v *Validator) Classify(c *domain.Candidate) (bool, []string) {
	c.Valid = false

	if !startsWithMarkerGlyph(c.Text) {
		c.FailureReasons = append(c.FailureReasons, ReasonNoMarkerGlyph)

		return false, c.FailureReasons
	}

	if utf8.RuneCountInString(strings.TrimSpace(c.Text)) <= v.minLength {
		c.FailureReasons = append(c.FailureReasons, ReasonTooShort)

		return false, c.FailureReasons
	}

	if c.ReferenceURL == "" {
		c.FailureReasons = append(c.FailureReasons, ReasonMissingLink)

		return false, c.FailureReasons
	}

	if !v.linkPattern.MatchString(c.ReferenceURL) {
		c.FailureReasons = append(c.FailureReasons, ReasonInvalidLink)

		return false, c.FailureReasons
	}

	c.Valid = true

	return true, c.FailureReasons
}

// ValidLink reports whether a URL matches the canonical reference shape for
// the configured server.
func (v *Validator) ValidLink(link string) bool {
	return v.linkPattern.MatchString(link)
}

// Repairable reports whether the recorded failures are limited to link
// problems, which the link repairer may be able to fix.
func Repairable(reasons []string) bool {
	if len(reasons) == 0 {
		return false
	}

	for _, r := range reasons {
		if r != ReasonMissingLink && r != ReasonInvalidLink {
			return false
		}
	}

	return true
}

// startsWithMarkerGlyph checks that the candidate opens with the list marker
// followed by a structural glyph (an emoji or other non-alphanumeric symbol).
func startsWithMarkerGlyph(text string) bool {
	s := strings.TrimSpace(text)
	s = strings.TrimPrefix(s, "- ")
	s = strings.TrimSpace(s)

	if s == "" {
		return false
	}

	r := []rune(s)[0]

	return !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsSpace(r)
}
