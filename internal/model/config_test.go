package model

import "testing"

func TestGroundTruth_Validate(t *testing.T) {
	tests := []struct {
		name    string
		gt      GroundTruth
		wantErr bool
	}{
		{"default", DefaultGroundTruth(), false},
		{"negative wins", GroundTruth{Wins: -1, Losses: 9, GoalsFor: 10, GoalsAgainst: 9, GoalDiff: 1}, true},
		{"inconsistent diff", GroundTruth{Wins: 10, Losses: 9, GoalsFor: 217, GoalsAgainst: 216, GoalDiff: 5}, true},
		{"negative diff", GroundTruth{Wins: 5, Losses: 14, GoalsFor: 150, GoalsAgainst: 190, GoalDiff: -40}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.gt.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultConfig_Sane(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Input.Pattern != "Run*_*_responses.json" {
		t.Errorf("unexpected default pattern %q", cfg.Input.Pattern)
	}
	if len(cfg.Lexicons.Dominant) != 7 || len(cfg.Lexicons.Disastrous) != 6 {
		t.Errorf("unexpected lexicon sizes: %d dominant, %d disastrous",
			len(cfg.Lexicons.Dominant), len(cfg.Lexicons.Disastrous))
	}
	if len(cfg.Analysis.Comparisons) != 2 {
		t.Errorf("expected 2 default comparisons, got %d", len(cfg.Analysis.Comparisons))
	}
	if got := cfg.Analysis.Comparisons[0].Label(); got != "H1_pos vs H1_neg" {
		t.Errorf("unexpected comparison label %q", got)
	}

	// Each call returns an independent copy
	other := DefaultConfig()
	other.Lexicons.Dominant[0] = "changed"
	if cfg.Lexicons.Dominant[0] == "changed" {
		t.Error("DefaultConfig returned shared lexicon slices")
	}
}

func TestDeriveHypothesisID(t *testing.T) {
	tests := map[string]string{
		"H1_pos":       "H1",
		"H3_underperf": "H3",
		"H":            "H",
		"":             "",
		"É2_x":         "É2",
	}
	for in, want := range tests {
		if got := DeriveHypothesisID(in); got != want {
			t.Errorf("DeriveHypothesisID(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFlagRecord_AnyFlag(t *testing.T) {
	var f FlagRecord
	if f.AnyFlag() {
		t.Error("zero FlagRecord should not have any flag")
	}
	for i := 0; i < 4; i++ {
		f := FlagRecord{}
		switch i {
		case 0:
			f.WrongRecord = true
		case 1:
			f.WrongGoalDiff = true
		case 2:
			f.ClaimsDominant = true
		case 3:
			f.ClaimsDisastrous = true
		}
		if !f.AnyFlag() {
			t.Errorf("flag %d set but AnyFlag() = false", i)
		}
	}
}
