package moderation

import (
	"fmt"
	"skillsync/errors"
	"strings"
	"unicode/utf8"
)

// Result is the content as it will be persisted.
type Result struct {
	Content  string
	Lang     string
	Censored []string
}

// Policy validates and sanitizes message content before it is stored.
type Policy struct {
	moderator *Moderator
	maxLength int
}

// NewPolicy builds a policy, maxLength <= 0 disables the length check.
func NewPolicy(moderator *Moderator, maxLength int) Policy {
	return Policy{moderator: moderator, maxLength: maxLength}
}

// Apply trims content, rejects empty or oversized text, masks censored words
// and tags the detected language.
func (p Policy) Apply(content string) (Result, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return Result{}, errors.ErrEmptyContent
	}
	if length := utf8.RuneCountInString(trimmed); p.maxLength > 0 && length > p.maxLength {
		return Result{}, fmt.Errorf("%w: %d > %d runes", errors.ErrContentTooLong, length, p.maxLength)
	}
	sanitized, words := p.moderator.Censor(trimmed)
	return Result{
		Content:  sanitized,
		Lang:     DetectLanguage(trimmed),
		Censored: words,
	}, nil
}
