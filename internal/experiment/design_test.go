package experiment

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ppiankov/biaslab/internal/model"
)

func TestBuild(t *testing.T) {
	b := NewBuilder(model.DefaultGroundTruth())
	b.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.FixedZone("EST", -5*3600)) }

	prompts := b.Build()
	if len(prompts) != 6 {
		t.Fatalf("Expected 6 prompts, got %d", len(prompts))
	}

	wantConditions := []string{"H1_pos", "H1_neg", "H2_named", "H2_anon", "H3_neutral", "H3_underperf"}
	seen := make(map[string]bool)
	for i, p := range prompts {
		if p.ConditionID != wantConditions[i] {
			t.Errorf("Prompt %d: expected condition %s, got %s", i, wantConditions[i], p.ConditionID)
		}
		if p.HypothesisID != wantConditions[i][:2] {
			t.Errorf("Prompt %d: unexpected hypothesis %s", i, p.HypothesisID)
		}
		if _, err := uuid.Parse(p.PromptID); err != nil {
			t.Errorf("Prompt %d: invalid uuid %q", i, p.PromptID)
		}
		if seen[p.PromptID] {
			t.Errorf("Duplicate prompt id %s", p.PromptID)
		}
		seen[p.PromptID] = true

		if p.CreatedAt != "2025-06-01T17:00:00Z" {
			t.Errorf("Prompt %d: expected UTC timestamp, got %s", i, p.CreatedAt)
		}
		if p.PromptText != strings.TrimSpace(p.PromptText) {
			t.Errorf("Prompt %d: text not trimmed", i)
		}
		if !strings.HasSuffix(p.PromptText, "Base your explanation only on the data.") {
			t.Errorf("Prompt %d: missing closing instruction", i)
		}
	}

	if !strings.Contains(prompts[0].PromptText, "- Record: 10 wins, 9 losses") ||
		!strings.Contains(prompts[0].PromptText, "- Goal differential: +1") {
		t.Errorf("Team prompt missing ground truth lines:\n%s", prompts[0].PromptText)
	}
	if !strings.Contains(prompts[2].PromptText, "Player Star") || strings.Contains(prompts[2].PromptText, "Selected game results") {
		t.Errorf("Named identity prompt should use player data only:\n%s", prompts[2].PromptText)
	}
	if !strings.Contains(prompts[3].PromptText, "performance of Player A.") {
		t.Errorf("Anonymous identity prompt should ask about Player A")
	}
	if !strings.Contains(prompts[5].PromptText, "underperformed") {
		t.Errorf("Underperformance prompt missing framing")
	}
}

func TestBuild_FollowsGroundTruth(t *testing.T) {
	truth := model.GroundTruth{Team: "Example FC", Season: "2026", Wins: 5, Losses: 14, GoalsFor: 150, GoalsAgainst: 190, GoalDiff: -40}
	prompts := NewBuilder(truth).Build()

	text := prompts[4].PromptText
	for _, want := range []string{"Example FC – 2026 Season Statistics", "- Games played: 19", "- Goal differential: -40", "Using the Example FC 2026 statistics above,"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in prompt:\n%s", want, text)
		}
	}
}

func TestWriteAndLoadPrompts(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "prompts")
	prompts := NewBuilder(model.DefaultGroundTruth()).Build()

	jsonPath, csvPath, err := WritePrompts(dir, prompts)
	if err != nil {
		t.Fatalf("WritePrompts failed: %v", err)
	}

	loaded, err := LoadPrompts(jsonPath)
	if err != nil {
		t.Fatalf("LoadPrompts failed: %v", err)
	}
	if len(loaded) != len(prompts) {
		t.Fatalf("Expected %d prompts, got %d", len(prompts), len(loaded))
	}
	for i := range prompts {
		if loaded[i] != prompts[i] {
			t.Errorf("Prompt %d changed on round trip", i)
		}
	}

	raw, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), "Women's") {
		t.Error("JSON should keep apostrophes unescaped")
	}

	f, err := os.Open(csvPath)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("CSV unreadable: %v", err)
	}
	if len(records) != 7 || strings.Join(records[0], ",") != "prompt_id,created_at,hypothesis_id,condition_id,prompt_text" {
		t.Errorf("Unexpected CSV layout: %d rows, header %v", len(records), records[0])
	}
	if records[1][4] != prompts[0].PromptText {
		t.Error("Multi-line prompt text should survive CSV quoting")
	}
}

func TestLoadPrompts_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadPrompts(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("Expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.json")
	os.WriteFile(bad, []byte(`[{"prompt_id":"x","prompt_text":"hi"}]`), 0o644)
	if _, err := LoadPrompts(bad); err == nil {
		t.Error("Expected error for prompt without condition_id")
	}

	derived := filepath.Join(dir, "derived.json")
	os.WriteFile(derived, []byte(`[{"prompt_id":"x","condition_id":"H3_neutral","prompt_text":"hi"}]`), 0o644)
	prompts, err := LoadPrompts(derived)
	if err != nil {
		t.Fatalf("LoadPrompts failed: %v", err)
	}
	if prompts[0].HypothesisID != "H3" {
		t.Errorf("Expected derived hypothesis H3, got %q", prompts[0].HypothesisID)
	}
}

func TestPrintPrompts(t *testing.T) {
	var buf bytes.Buffer
	PrintPrompts(&buf, []model.Prompt{{PromptID: "id-1", CreatedAt: "now", HypothesisID: "H1", ConditionID: "H1_pos", PromptText: "text"}})

	out := buf.String()
	for _, want := range []string{"Prompt ID:    id-1", "Condition:    H1_pos", "text"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output:\n%s", want, out)
		}
	}
}
