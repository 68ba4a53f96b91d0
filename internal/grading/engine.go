package grading

import (
	"context"
)

// Question types understood by the default grader.
const (
	TypeMultipleChoice = "multiple_choice"
	TypeTrueFalse      = "true_false"
	TypeFillInBlank    = "fill_in_blank"
	TypeMatching       = "matching"
	TypeShortAnswer    = "short_answer"
	TypeWriting        = "writing"
)

// ObjectiveTypes are the question types an administrator may attach to a
// reading or listening section.
var ObjectiveTypes = []string{
	TypeMultipleChoice,
	TypeTrueFalse,
	TypeFillInBlank,
	TypeMatching,
	TypeShortAnswer,
}

// IsObjective reports whether t is one of ObjectiveTypes.
func IsObjective(t string) bool {
	for _, o := range ObjectiveTypes {
		if o == t {
			return true
		}
	}
	return false
}

// Q is a minimal view of a question needed for grading.
type Q struct {
	Type      string
	Points    int
	AnswerKey string
}

// Result is the outcome of grading a single question response.
type Result struct {
	Correct     bool
	AutoPoints  int  // points awarded automatically
	NeedsManual bool // true if an administrator has to score it
}

// Strategy grades a single question.
type Strategy interface {
	Grade(ctx context.Context, q Q, response string) (Result, error)
}

// Grader routes by question type to the correct Strategy.
type Grader interface {
	Grade(ctx context.Context, q Q, response string) (Result, error)
}

type defaultGrader struct {
	strategies map[string]Strategy
}

func (g *defaultGrader) Grade(ctx context.Context, q Q, response string) (Result, error) {
	s, ok := g.strategies[q.Type]
	if !ok {
		return Result{NeedsManual: true}, nil
	}
	return s.Grade(ctx, q, response)
}

type Option func(*config)

type config struct {
	overrides map[string]Strategy
}

// WithStrategy replaces the strategy used for one question type.
func WithStrategy(qType string, s Strategy) Option {
	return func(c *config) { c.overrides[qType] = s }
}

// NewDefaultGrader installs the built-in strategies. Every objective type,
// matching and short answer included, is graded by exact case-insensitive
// comparison.
func NewDefaultGrader(opts ...Option) Grader {
	cfg := &config{overrides: map[string]Strategy{}}
	for _, o := range opts {
		o(cfg)
	}
	st := map[string]Strategy{
		TypeWriting: manualStrategy{},
	}
	for _, t := range ObjectiveTypes {
		st[t] = exactStrategy{}
	}
	for t, s := range cfg.overrides {
		st[t] = s
	}
	return &defaultGrader{strategies: st}
}

// --- Strategies ---

type exactStrategy struct{}

func (exactStrategy) Grade(_ context.Context, q Q, response string) (Result, error) {
	var res Result
	if Match(q.AnswerKey, response) {
		res.Correct = true
		res.AutoPoints = q.Points
	}
	return res, nil
}

type manualStrategy struct{}

func (manualStrategy) Grade(_ context.Context, q Q, _ string) (Result, error) {
	return Result{NeedsManual: true}, nil
}
