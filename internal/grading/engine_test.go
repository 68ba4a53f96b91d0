package grading

import (
	"context"
	"testing"
)

func TestMatch(t *testing.T) {
	cases := []struct {
		correct, submitted string
		want               bool
	}{
		{"Paris", "Paris", true},
		{"Paris", "paris", true},
		{"Paris", "  PARIS \n", true},
		{" true ", "TRUE", true},
		{"42", "42", true},
		{"Paris", "Pari", false},
		{"Paris", "Paris.", false},
		{"New York", "NewYork", false},
		{"New York", "new  york", false},
		{"A", "", false},
	}
	for _, c := range cases {
		if got := Match(c.correct, c.submitted); got != c.want {
			t.Errorf("Match(%q, %q) = %v, want %v", c.correct, c.submitted, got, c.want)
		}
	}
}

func TestWordCount(t *testing.T) {
	cases := map[string]int{
		"":                            0,
		"   ":                         0,
		"one":                         1,
		"The chart shows\ttwo\nlines": 5,
		"  spaced   out  ":            2,
	}
	for in, want := range cases {
		if got := WordCount(in); got != want {
			t.Errorf("WordCount(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestDefaultGrader_ObjectiveTypes(t *testing.T) {
	g := NewDefaultGrader()
	ctx := context.Background()
	for _, typ := range ObjectiveTypes {
		q := Q{Type: typ, Points: 2, AnswerKey: "Paris"}
		res, err := g.Grade(ctx, q, "paris")
		if err != nil {
			t.Fatalf("%s: %v", typ, err)
		}
		if !res.Correct || res.AutoPoints != 2 {
			t.Errorf("%s: unexpected result %+v", typ, res)
		}
		res, _ = g.Grade(ctx, q, "London")
		if res.Correct || res.AutoPoints != 0 {
			t.Errorf("%s: wrong answer scored %+v", typ, res)
		}
	}
}

func TestDefaultGrader_ManualAndUnknown(t *testing.T) {
	g := NewDefaultGrader()
	res, err := g.Grade(context.Background(), Q{Type: TypeWriting, Points: 9}, "an essay")
	if err != nil {
		t.Fatal(err)
	}
	if !res.NeedsManual || res.AutoPoints != 0 {
		t.Fatalf("writing should need manual grading: %+v", res)
	}
	res, _ = g.Grade(context.Background(), Q{Type: "essay_v2", Points: 3}, "x")
	if !res.NeedsManual || res.Correct {
		t.Fatalf("unknown type should fall back to manual: %+v", res)
	}
}

type alwaysRight struct{}

func (alwaysRight) Grade(_ context.Context, q Q, _ string) (Result, error) {
	return Result{Correct: true, AutoPoints: q.Points}, nil
}

func TestWithStrategyOverride(t *testing.T) {
	g := NewDefaultGrader(WithStrategy(TypeShortAnswer, alwaysRight{}))
	res, _ := g.Grade(context.Background(), Q{Type: TypeShortAnswer, Points: 1, AnswerKey: "x"}, "y")
	if !res.Correct {
		t.Fatal("override not applied")
	}
	res, _ = g.Grade(context.Background(), Q{Type: TypeMatching, Points: 1, AnswerKey: "x"}, "y")
	if res.Correct {
		t.Fatal("override leaked into other types")
	}
}

func TestIsObjective(t *testing.T) {
	if !IsObjective(TypeMatching) || IsObjective(TypeWriting) || IsObjective("") {
		t.Fatal("IsObjective misclassifies")
	}
}
