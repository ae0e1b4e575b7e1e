package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/ppiankov/biaslab/internal/logging"
	"github.com/ppiankov/biaslab/internal/model"
	"go.uber.org/zap"
)

// ErrNoInputFiles is returned when the glob pattern matches nothing
var ErrNoInputFiles = errors.New("no input files found")

// Source yields the response records of an experiment
type Source interface {
	Load(ctx context.Context) ([]model.Response, error)
}

// GlobSource loads every JSON file in Dir matching Pattern.
// Each file holds an array of response records; files are concatenated in
// lexical order without deduplication.
type GlobSource struct {
	Dir       string
	Pattern   string
	StripHTML bool

	// OnFile, if set, is called before each file is read (progress output)
	OnFile func(path string)
}

// NewGlobSource creates a source for the given directory and pattern
func NewGlobSource(dir, pattern string) *GlobSource {
	return &GlobSource{Dir: dir, Pattern: pattern}
}

// Files returns the matching input files in sorted order
func (s *GlobSource) Files() ([]string, error) {
	files, err := filepath.Glob(filepath.Join(s.Dir, s.Pattern))
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", s.Pattern, err)
	}
	sort.Strings(files)
	return files, nil
}

// Load reads and concatenates every matching file
func (s *GlobSource) Load(ctx context.Context) ([]model.Response, error) {
	files, err := s.Files()
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s (expected pattern: %s)", ErrNoInputFiles, s.Dir, s.Pattern)
	}

	var raw []rawResponse
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if s.OnFile != nil {
			s.OnFile(path)
		}

		records, err := readFile(path)
		if err != nil {
			return nil, err
		}
		logging.Debug("loaded response file", zap.String("path", path), zap.Int("records", len(records)))
		raw = append(raw, records...)
	}

	responses, err := normalize(raw)
	if err != nil {
		return nil, err
	}

	if s.StripHTML {
		for i := range responses {
			responses[i].ResponseText = VisibleText(responses[i].ResponseText)
		}
	}

	return responses, nil
}

// MemorySource serves a fixed set of responses, applying the same defaults as GlobSource.
// Empty HypothesisID/ModelName fields are treated as absent.
type MemorySource struct {
	Responses []model.Response
}

// NewMemorySource creates an in-memory source
func NewMemorySource(responses ...model.Response) *MemorySource {
	return &MemorySource{Responses: responses}
}

// Load returns a normalised copy of the stored responses
func (s *MemorySource) Load(ctx context.Context) ([]model.Response, error) {
	raw := make([]rawResponse, len(s.Responses))
	for i, r := range s.Responses {
		raw[i] = rawFromModel(r)
	}
	return normalize(raw)
}

// rawResponse keeps optional fields as pointers so absence can be told apart from ""
type rawResponse struct {
	ResponseID   string  `json:"response_id"`
	ConditionID  string  `json:"condition_id"`
	HypothesisID *string `json:"hypothesis_id"`
	ModelName    *string `json:"model_name"`
	ResponseText string  `json:"response_text"`
	PromptID     string  `json:"prompt_id"`
	PromptText   string  `json:"prompt_text"`
	Timestamp    string  `json:"timestamp"`

	origin string
}

func rawFromModel(r model.Response) rawResponse {
	raw := rawResponse{
		ResponseID:   r.ResponseID,
		ConditionID:  r.ConditionID,
		ResponseText: r.ResponseText,
		PromptID:     r.PromptID,
		PromptText:   r.PromptText,
		Timestamp:    r.Timestamp,
		origin:       "memory",
	}
	if r.HypothesisID != "" {
		h := r.HypothesisID
		raw.HypothesisID = &h
	}
	if r.ModelName != "" {
		m := r.ModelName
		raw.ModelName = &m
	}
	return raw
}

func readFile(path string) ([]rawResponse, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var records []rawResponse
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	for i := range records {
		records[i].origin = filepath.Base(path)
	}
	return records, nil
}

// normalize converts raw records, deriving hypothesis_id when no record
// carries one and substituting the unknown-model sentinel.
func normalize(raw []rawResponse) ([]model.Response, error) {
	hasHypothesis := false
	for _, r := range raw {
		if r.HypothesisID != nil {
			hasHypothesis = true
			break
		}
	}

	responses := make([]model.Response, 0, len(raw))
	for i, r := range raw {
		if r.ConditionID == "" {
			return nil, fmt.Errorf("record %d (%s, response_id %q): missing condition_id", i, r.origin, r.ResponseID)
		}

		resp := model.Response{
			ResponseID:   r.ResponseID,
			ConditionID:  r.ConditionID,
			ModelName:    model.UnknownModel,
			ResponseText: r.ResponseText,
			PromptID:     r.PromptID,
			PromptText:   r.PromptText,
			Timestamp:    r.Timestamp,
		}
		if r.ModelName != nil && *r.ModelName != "" {
			resp.ModelName = *r.ModelName
		}

		switch {
		case !hasHypothesis:
			resp.HypothesisID = model.DeriveHypothesisID(r.ConditionID)
		case r.HypothesisID != nil:
			resp.HypothesisID = *r.HypothesisID
		}

		responses = append(responses, resp)
	}

	return responses, nil
}
