package writer

import (
	"errors"
	"testing"
)

func TestNextAfterReflection(t *testing.T) {
	tests := []struct {
		name  string
		state State
		want  Next
	}{
		{
			"error salvages to parser",
			State{Err: errors.New("boom"), Reflection: Outcome{Suggestion: "other query"}},
			NextNameParser,
		},
		{
			"pass proceeds to parser",
			State{Reflection: Outcome{Passed: true}},
			NextNameParser,
		},
		{
			"fail with suggestion searches again",
			State{RetryCount: 1, Reflection: Outcome{Suggestion: "Habsburg princess names"}},
			NextSearch,
		},
		{
			"fail without suggestion regenerates query",
			State{RetryCount: 1},
			NextQueryGenerator,
		},
		{
			"retry ceiling salvages to parser",
			State{RetryCount: 3, Reflection: Outcome{Suggestion: "another query"}},
			NextNameParser,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextAfterReflection(&tt.state); got != tt.want {
				t.Errorf("NextAfterReflection() = %v, want %v", got, tt.want)
			}
		})
	}
}

// However the reflection outcomes fall, routing must reach the name parser
// within the retry budget.
func TestReflectionRoutingAlwaysTerminates(t *testing.T) {
	outcomes := []Outcome{
		{Suggestion: "q1"},
		{},
		{Suggestion: "q2"},
		{},
		{Suggestion: "q3"},
	}

	s := &State{}
	steps := 0
	for _, o := range outcomes {
		s.Reflection = o
		s.RetryCount++
		steps++
		if NextAfterReflection(s) == NextNameParser {
			break
		}
	}
	if s.RetryCount > maxNameRetries {
		t.Errorf("routing allowed %d retries, ceiling is %d", s.RetryCount, maxNameRetries)
	}
}
