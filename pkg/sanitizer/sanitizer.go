package sanitizer

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MaxTextLength      = 100
	MaxUserAgentLength = 500
	MaxReferrerLength  = 500

	RedactedIP    = "[IP]"
	RedactedEmail = "[EMAIL]"

	// Upper bound on repeated free-text passes. Truncation can expose a new
	// match at the cut, so the pass runs until its output stops changing.
	maxTextPasses = 4
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var (
	reIPv4Literal  = regexp.MustCompile(`\d{1,3}(?:\.\d{1,3}){3}`)
	reEmailLiteral = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)

	markupReplacer = strings.NewReplacer("<", "", ">", "", `"`, "", "'", "", "&", "")

	textPipeline = Pipeline{
		stripMarkup,
		redactIPv4,
		redactEmail,
		truncate(MaxTextLength),
	}
)

func stripMarkup(s string) string {
	return markupReplacer.Replace(s)
}

func redactIPv4(s string) string {
	return reIPv4Literal.ReplaceAllLiteralString(s, RedactedIP)
}

func redactEmail(s string) string {
	return reEmailLiteral.ReplaceAllLiteralString(s, RedactedEmail)
}

// Redact replaces embedded IPv4 and email literals without touching anything
// else in s.
func Redact(s string) string {
	return redactEmail(redactIPv4(s))
}

// ContainsPII reports whether s still carries an IPv4 or email literal.
func ContainsPII(s string) bool {
	return reIPv4Literal.MatchString(s) || reEmailLiteral.MatchString(s)
}

// truncate cuts s to at most n characters (runes, not bytes).
func truncate(n int) Strategy {
	return func(s string) string {
		if utf8.RuneCountInString(s) <= n {
			return s
		}
		runes := []rune(s)
		return string(runes[:n])
	}
}

// SanitizeInput strips markup characters, redacts IPv4 and email literals and
// bounds the length of a free-text field. Stripping never creates a new IP or
// email match, so the strip/redact order carries no weight; it is kept fixed.
func SanitizeInput(raw *string) *string {
	if raw == nil || *raw == "" {
		return nil
	}

	s := *raw
	for i := 0; i < maxTextPasses; i++ {
		next := textPipeline.Apply(s)
		if next == s {
			break
		}
		s = next
	}

	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

// SanitizeString is SanitizeInput for callers holding a plain string.
func SanitizeString(raw string) *string {
	return SanitizeInput(&raw)
}
