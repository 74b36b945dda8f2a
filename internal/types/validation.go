package types

import (
	"strings"

	"github.com/gitden/gitden-go/internal/apierr"
)

// ------------------------------
// Input Validation
// ------------------------------

// ValidateCommitMessage rejects messages that are empty after trimming.
// Runs before any network dispatch, for any content value.
func ValidateCommitMessage(message string) error {
	if strings.TrimSpace(message) == "" {
		return apierr.Validation("commit message cannot be empty")
	}
	return nil
}

// ValidateIssueContent rejects blank issue bodies.
func ValidateIssueContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return apierr.Validation("issue content cannot be empty")
	}
	return nil
}

// ValidateRepositoryName rejects blank repository names.
func ValidateRepositoryName(name string) error {
	if strings.TrimSpace(name) == "" {
		return apierr.Validation("repository name cannot be empty")
	}
	return nil
}

// ValidateEvent requires both a title and a date.
func ValidateEvent(title, eventDate string) error {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(eventDate) == "" {
		return apierr.Validation("event title and date are both required")
	}
	return nil
}
