package domain

import "errors"

var (
	// ErrSubmissionNotFound is returned when a submission cannot be found by ID.
	ErrSubmissionNotFound = errors.New("submission not found")

	// ErrProblemNotFound is returned when a problem does not exist.
	ErrProblemNotFound = errors.New("problem not found")

	// ErrEntryNotFound is returned when a user has no leaderboard entry yet.
	ErrEntryNotFound = errors.New("leaderboard entry not found")

	// ErrInvalidLanguage is returned when an unsupported language tag is submitted.
	ErrInvalidLanguage = errors.New("invalid or unsupported language")

	// ErrEmptySourceCode is returned when source code is empty.
	ErrEmptySourceCode = errors.New("source code cannot be empty")

	// ErrPayloadTooLarge is returned when the source code exceeds the size limit.
	ErrPayloadTooLarge = errors.New("source code payload exceeds maximum size (1MB)")

	// ErrInvalidTransition is returned when a status update would move a
	// submission backward or out of a terminal state.
	ErrInvalidTransition = errors.New("illegal submission status transition")

	// ErrPublishFailed is returned when the message broker publish fails.
	ErrPublishFailed = errors.New("failed to publish submission to message queue")
)
