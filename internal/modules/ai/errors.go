package ai

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrRateLimited marks provider rejections that are safe to retry later.
	ErrRateLimited = errors.New("AI provider rate limited")
	// ErrEmptyResponse marks a completion that came back blank.
	ErrEmptyResponse = errors.New("empty response from AI")
	// ErrNoProvider means no enabled provider matched the assignment.
	ErrNoProvider = errors.New("no enabled AI provider configured")
)

// classifyError maps raw provider errors onto the package sentinels so
// callers can branch on errors.Is without knowing provider specifics.
func classifyError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrRateLimited) || errors.Is(err, ErrEmptyResponse) {
		return err
	}
	if isRateLimitMessage(err.Error()) {
		return fmt.Errorf("%w: %v", ErrRateLimited, err)
	}
	return err
}

func isRateLimitMessage(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "429") ||
		strings.Contains(lower, "resource_exhausted") ||
		strings.Contains(lower, "rate limit")
}
