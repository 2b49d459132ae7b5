package domain_test

import (
	"testing"

	"github.com/developerskull/codePVG-sub000/internal/domain"
)

func TestSubmissionStatus_IsTerminal(t *testing.T) {
	terminal := []domain.SubmissionStatus{
		domain.StatusAccepted,
		domain.StatusWrongAnswer,
		domain.StatusTimeLimitExceeded,
		domain.StatusRuntimeError,
		domain.StatusCompilationError,
	}
	for _, s := range terminal {
		if !s.IsTerminal() {
			t.Errorf("expected %s to be terminal", s)
		}
	}

	for _, s := range []domain.SubmissionStatus{domain.StatusPending, domain.StatusProcessing, "bogus"} {
		if s.IsTerminal() {
			t.Errorf("expected %s not to be terminal", s)
		}
	}
}

func TestSubmissionStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from domain.SubmissionStatus
		to   domain.SubmissionStatus
		want bool
	}{
		{domain.StatusPending, domain.StatusProcessing, true},
		{domain.StatusPending, domain.StatusAccepted, false},
		{domain.StatusPending, domain.StatusPending, false},
		{domain.StatusProcessing, domain.StatusAccepted, true},
		{domain.StatusProcessing, domain.StatusWrongAnswer, true},
		{domain.StatusProcessing, domain.StatusTimeLimitExceeded, true},
		{domain.StatusProcessing, domain.StatusRuntimeError, true},
		{domain.StatusProcessing, domain.StatusCompilationError, true},
		{domain.StatusProcessing, domain.StatusPending, false},
		{domain.StatusProcessing, domain.StatusProcessing, false},
		{domain.StatusAccepted, domain.StatusProcessing, false},
		{domain.StatusAccepted, domain.StatusWrongAnswer, false},
		{domain.StatusWrongAnswer, domain.StatusAccepted, false},
		{domain.StatusCompilationError, domain.StatusPending, false},
	}
	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("%s → %s: expected %v, got %v", tt.from, tt.to, tt.want, got)
		}
	}
}

func TestLanguage_IsValid(t *testing.T) {
	for _, l := range []domain.Language{domain.LangC, domain.LangCpp, domain.LangJava, domain.LangPython, domain.LangJavaScript} {
		if !l.IsValid() {
			t.Errorf("expected %s to be valid", l)
		}
	}
	for _, l := range []domain.Language{"rust", "go", "", "Python"} {
		if l.IsValid() {
			t.Errorf("expected %s to be invalid", l)
		}
	}
}

func TestLanguage_JudgeID(t *testing.T) {
	tests := []struct {
		lang domain.Language
		want int
	}{
		{domain.LangC, 50},
		{domain.LangCpp, 54},
		{domain.LangJava, 62},
		{domain.LangJavaScript, 63},
		{domain.LangPython, 71},
	}
	for _, tt := range tests {
		if got := tt.lang.JudgeID(); got != tt.want {
			t.Errorf("%s: expected judge id %d, got %d", tt.lang, tt.want, got)
		}
	}
}
