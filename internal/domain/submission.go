package domain

import (
	"time"

	"github.com/google/uuid"
)

// SubmissionStatus represents the lifecycle state of a submission.
type SubmissionStatus string

const (
	StatusPending           SubmissionStatus = "pending"
	StatusProcessing        SubmissionStatus = "processing"
	StatusAccepted          SubmissionStatus = "accepted"
	StatusWrongAnswer       SubmissionStatus = "wrong_answer"
	StatusTimeLimitExceeded SubmissionStatus = "time_limit_exceeded"
	StatusRuntimeError      SubmissionStatus = "runtime_error"
	StatusCompilationError  SubmissionStatus = "compilation_error"
)

// IsTerminal returns true if the status represents a final verdict.
func (s SubmissionStatus) IsTerminal() bool {
	switch s {
	case StatusAccepted, StatusWrongAnswer, StatusTimeLimitExceeded,
		StatusRuntimeError, StatusCompilationError:
		return true
	}
	return false
}

// CanTransitionTo reports whether moving from s to next is a legal
// state-machine transition. Statuses only move forward: pending →
// processing → one terminal state, never out of a terminal state.
func (s SubmissionStatus) CanTransitionTo(next SubmissionStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusProcessing
	case StatusProcessing:
		return next.IsTerminal()
	}
	return false
}

// Language represents a supported programming language tag.
type Language string

const (
	LangC          Language = "c"
	LangCpp        Language = "cpp"
	LangJava       Language = "java"
	LangPython     Language = "python"
	LangJavaScript Language = "javascript"
)

// judgeLanguageIDs maps language tags to the external judge's numeric ids.
var judgeLanguageIDs = map[Language]int{
	LangC:          50,
	LangCpp:        54,
	LangJava:       62,
	LangPython:     71,
	LangJavaScript: 63,
}

// IsValid checks if the language tag is supported.
func (l Language) IsValid() bool {
	_, ok := judgeLanguageIDs[l]
	return ok
}

// JudgeID returns the external judge's numeric id for the language.
func (l Language) JudgeID() int {
	return judgeLanguageIDs[l]
}

// Submission represents one attempt by a user at a problem.
type Submission struct {
	ID         uuid.UUID        `json:"id"`
	UserID     uuid.UUID        `json:"user_id"`
	ProblemID  uuid.UUID        `json:"problem_id"`
	Language   Language         `json:"language"`
	SourceCode string           `json:"source_code"`
	Status     SubmissionStatus `json:"status"`
	RuntimeMs  *int             `json:"runtime_ms,omitempty"`
	MemoryKB   *int             `json:"memory_kb,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// TestCase is one input/expected-output pair of a problem. Test cases are
// ordered; execution and short-circuiting follow that order.
type TestCase struct {
	ID             uuid.UUID `json:"id"`
	ProblemID      uuid.UUID `json:"problem_id"`
	Position       int       `json:"position"`
	Input          string    `json:"input"`
	ExpectedOutput string    `json:"expected_output"`
}

// Verdict is the aggregate outcome of running a submission across all of a
// problem's test cases. It is folded into the submission record and never
// persisted on its own.
type Verdict struct {
	Status SubmissionStatus

	// RuntimeMs and MemoryKB are the maximum observed across all executed
	// test cases, not the sum.
	RuntimeMs int
	MemoryKB  int

	// FailedCase is the zero-based index of the first failing test case,
	// or -1 if every case passed.
	FailedCase int
}

// SubmitRequest represents an incoming submission from the API.
type SubmitRequest struct {
	UserID     uuid.UUID `json:"user_id" binding:"required"`
	ProblemID  uuid.UUID `json:"problem_id" binding:"required"`
	Language   Language  `json:"language" binding:"required"`
	SourceCode string    `json:"source_code" binding:"required"`
}

// SubmitResponse is returned after a submission is accepted for judging.
type SubmitResponse struct {
	ID     uuid.UUID `json:"id"`
	Status string    `json:"status"`
}

// SubmissionMessage wraps a submission consumed from the queue together with
// Ack/Nack callbacks the worker pool invokes once judging completes.
type SubmissionMessage struct {
	Submission *Submission
	Ack        func() error
	Nack       func(requeue bool) error
}

// LanguageInfo describes a supported language for the public API.
type LanguageInfo struct {
	Tag     Language `json:"tag"`
	Name    string   `json:"name"`
	Version string   `json:"version"`
}

// SupportedLanguages returns the languages the platform accepts, in a stable
// display order.
func SupportedLanguages() []LanguageInfo {
	return []LanguageInfo{
		{Tag: LangC, Name: "C", Version: "GCC 9.2.0"},
		{Tag: LangCpp, Name: "C++", Version: "GCC 9.2.0"},
		{Tag: LangJava, Name: "Java", Version: "OpenJDK 13.0.1"},
		{Tag: LangPython, Name: "Python", Version: "3.8.1"},
		{Tag: LangJavaScript, Name: "JavaScript", Version: "Node.js 12.14.0"},
	}
}
