package sentiment

import (
	"math"
	"testing"
)

// Reference scores from NLTK's SentimentIntensityAnalyzer
func TestScore_MatchesNLTK(t *testing.T) {
	a := NewVaderAnalyzer()

	tests := []struct {
		text string
		want Scores
	}{
		{"VADER is smart, handsome, and funny.", Scores{Compound: 0.8316, Pos: 0.746, Neu: 0.254, Neg: 0}},
		{"VADER is not smart, handsome, nor funny.", Scores{Compound: -0.7424, Pos: 0, Neu: 0.354, Neg: 0.646}},
		{"The book was good.", Scores{Compound: 0.4404, Pos: 0.492, Neu: 0.508, Neg: 0}},
		{"At least it isn't a horrible book.", Scores{Compound: 0.431, Pos: 0.322, Neu: 0.678, Neg: 0}},
		{"The plot was good, but the characters are uncompelling and the dialog is not great.", Scores{Compound: -0.7042, Pos: 0.094, Neu: 0.579, Neg: 0.327}},
		{"Today SUX!", Scores{Compound: -0.5461, Pos: 0, Neu: 0.221, Neg: 0.779}},
	}

	for _, tt := range tests {
		got := a.Score(tt.text)
		if math.Abs(got.Compound-tt.want.Compound) > 1e-4 ||
			math.Abs(got.Pos-tt.want.Pos) > 1e-3 ||
			math.Abs(got.Neu-tt.want.Neu) > 1e-3 ||
			math.Abs(got.Neg-tt.want.Neg) > 1e-3 {
			t.Errorf("%q: got %+v, want %+v", tt.text, got, tt.want)
		}
	}
}

func TestScore_Polarity(t *testing.T) {
	a := NewVaderAnalyzer()

	tests := []struct {
		text string
		sign int
	}{
		{"An excellent, successful season with strong leadership.", 1},
		{"A disappointing season full of costly mistakes.", -1},
		{"The team finished 10-9 with 217 goals.", 0},
		{"The offense was good but the defense was terrible.", -1},
	}

	for _, tt := range tests {
		c := a.Score(tt.text).Compound
		switch {
		case tt.sign > 0 && c <= 0,
			tt.sign < 0 && c >= 0,
			tt.sign == 0 && c != 0:
			t.Errorf("%q: compound %v has wrong sign (want %d)", tt.text, c, tt.sign)
		}
	}
}

func TestScore_Rounding(t *testing.T) {
	s := NewVaderAnalyzer().Score("A disappointing season full of costly mistakes, but strong leadership.")

	if s.Compound != round(s.Compound, 4) {
		t.Errorf("Compound %v not rounded to 4 places", s.Compound)
	}
	for _, v := range []float64{s.Pos, s.Neu, s.Neg} {
		if v != round(v, 3) {
			t.Errorf("Proportion %v not rounded to 3 places", v)
		}
	}
	if sum := s.Pos + s.Neu + s.Neg; math.Abs(sum-1) > 0.002 {
		t.Errorf("Proportions sum to %v", sum)
	}
}

func TestScore_Empty(t *testing.T) {
	if s := NewVaderAnalyzer().Score(""); s != (Scores{}) {
		t.Errorf("Expected zero scores for empty text, got %+v", s)
	}
}

func TestWithLexicon(t *testing.T) {
	base := NewVaderAnalyzer()
	custom := base.WithLexicon(map[string]float64{"Lacrosse": 2.0})

	if base.Score("lacrosse").Compound != 0 {
		t.Error("Base analyzer should not see extended lexicon")
	}
	if custom.Score("lacrosse").Compound <= 0 {
		t.Error("Extended lexicon entry should score positive")
	}
}
