package experiment

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/biaslab/internal/model"
)

var promptColumns = []string{"prompt_id", "created_at", "hypothesis_id", "condition_id", "prompt_text"}

// WritePrompts writes prompts as JSON and CSV into dir and returns both paths
func WritePrompts(dir string, prompts []model.Prompt) (jsonPath, csvPath string, err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("failed to create prompts directory: %w", err)
	}

	jsonPath = filepath.Join(dir, "prompts.json")
	if err := WriteJSON(jsonPath, prompts); err != nil {
		return "", "", err
	}

	csvPath = filepath.Join(dir, "prompts.csv")
	if err := writeCSV(csvPath, prompts); err != nil {
		return "", "", err
	}

	return jsonPath, csvPath, nil
}

// WriteJSON writes v as indented JSON without HTML escaping
func WriteJSON(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func writeCSV(path string, prompts []model.Prompt) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(promptColumns); err != nil {
		return err
	}
	for _, p := range prompts {
		if err := w.Write([]string{p.PromptID, p.CreatedAt, p.HypothesisID, p.ConditionID, p.PromptText}); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

// LoadPrompts reads a prompts JSON file written by WritePrompts
func LoadPrompts(path string) ([]model.Prompt, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompts (run 'biaslab design' first): %w", err)
	}

	var prompts []model.Prompt
	if err := json.Unmarshal(data, &prompts); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	for i, p := range prompts {
		if p.ConditionID == "" {
			return nil, fmt.Errorf("%s: prompt %d has no condition_id", path, i)
		}
		if p.HypothesisID == "" {
			prompts[i].HypothesisID = model.DeriveHypothesisID(p.ConditionID)
		}
	}
	return prompts, nil
}

// PrintPrompts writes a human-readable listing of prompts
func PrintPrompts(w io.Writer, prompts []model.Prompt) {
	rule := strings.Repeat("═", 80)
	thin := strings.Repeat("─", 80)
	for _, p := range prompts {
		fmt.Fprintln(w, rule)
		fmt.Fprintf(w, "Prompt ID:    %s\n", p.PromptID)
		fmt.Fprintf(w, "Created at:   %s\n", p.CreatedAt)
		fmt.Fprintf(w, "Hypothesis:   %s\n", p.HypothesisID)
		fmt.Fprintf(w, "Condition:    %s\n", p.ConditionID)
		fmt.Fprintln(w, thin)
		fmt.Fprintln(w, p.PromptText)
		fmt.Fprintln(w)
	}
}
