// Package collect queries an LLM provider for every experiment prompt and
// writes the answers as run-numbered response files.
package collect

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ppiankov/biaslab/internal/cache"
	"github.com/ppiankov/biaslab/internal/experiment"
	"github.com/ppiankov/biaslab/internal/llm"
	"github.com/ppiankov/biaslab/internal/logging"
	"github.com/ppiankov/biaslab/internal/model"
	"github.com/ppiankov/biaslab/internal/worker"
)

// ErrAllFailed is returned when no request produced a response
var ErrAllFailed = errors.New("every collection request failed")

// Options wires a Collector
type Options struct {
	Provider llm.Provider
	Limiter  *worker.Limiter // nil disables rate limiting
	Cache    cache.Cache     // nil disables caching
	Config   model.CollectConfig
	LLM      model.LLMConfig

	// Progress is called after each request finishes
	Progress func(done, total int, err error)
}

// Collector runs prompts × runs against one provider
type Collector struct {
	provider llm.Provider
	limiter  *worker.Limiter
	cache    cache.Cache
	cfg      model.CollectConfig
	llm      model.LLMConfig
	progress func(done, total int, err error)

	now   func() time.Time
	newID func() string
}

// RunResult is the outcome of one run over all prompts
type RunResult struct {
	Run       int
	Path      string // empty when no response succeeded
	Responses []model.Response
	Failed    int
}

// Result summarizes a collection
type Result struct {
	Runs     []RunResult
	Requests int
	Failed   int
	Cached   int
}

// New creates a Collector
func New(opts Options) (*Collector, error) {
	if opts.Provider == nil {
		return nil, errors.New("collector requires a provider")
	}
	if opts.Config.Runs < 1 {
		return nil, fmt.Errorf("runs must be at least 1, got %d", opts.Config.Runs)
	}
	if opts.Config.ResultsDir == "" {
		return nil, errors.New("results directory is required")
	}

	c := &Collector{
		provider: opts.Provider,
		limiter:  opts.Limiter,
		cache:    opts.Cache,
		cfg:      opts.Config,
		llm:      opts.LLM,
		progress: opts.Progress,
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
	}
	if c.cache == nil {
		c.cache = cache.Noop{}
	}
	return c, nil
}

// Label is the model_name written into every record
func (c *Collector) Label() string {
	if c.cfg.Label != "" {
		return c.cfg.Label
	}
	if c.llm.Model != "" {
		return c.llm.Model
	}
	return c.provider.Name()
}

// Collect sends every prompt once per run and writes one response file per
// run. Individual failures are logged and counted; only a collection in
// which every request fails is an error.
func (c *Collector) Collect(ctx context.Context, prompts []model.Prompt) (*Result, error) {
	if len(prompts) == 0 {
		return nil, errors.New("no prompts to collect")
	}

	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	jobs := make([]worker.Job, 0, c.cfg.Runs*len(prompts))
	for run := 1; run <= c.cfg.Runs; run++ {
		for _, p := range prompts {
			jobs = append(jobs, &requestJob{collector: c, run: run, prompt: p})
		}
	}

	var progress worker.Progress
	if c.progress != nil {
		progress = func(done, total int, r worker.Result) {
			c.progress(done, total, r.GetError())
		}
	}

	results := worker.RunOrdered(ctx, c.cfg.Workers, jobs, progress)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("collection interrupted: %w", err)
	}

	out := &Result{Requests: len(jobs)}
	label := c.Label()
	for run := 1; run <= c.cfg.Runs; run++ {
		rr := RunResult{Run: run}
		for _, r := range results[(run-1)*len(prompts) : run*len(prompts)] {
			res, ok := r.(*requestResult)
			if !ok || res.err != nil {
				rr.Failed++
				continue
			}
			if res.cached {
				out.Cached++
			}
			rr.Responses = append(rr.Responses, res.response)
		}
		out.Failed += rr.Failed

		if len(rr.Responses) == 0 {
			logging.Warn("run produced no responses", zap.Int("run", run))
			out.Runs = append(out.Runs, rr)
			continue
		}

		path, err := c.writeRun(run, label, rr.Responses)
		if err != nil {
			return nil, err
		}
		rr.Path = path
		out.Runs = append(out.Runs, rr)
	}

	if out.Failed == out.Requests {
		return out, ErrAllFailed
	}
	return out, nil
}

func (c *Collector) writeRun(run int, label string, responses []model.Response) (string, error) {
	if err := os.MkdirAll(c.cfg.ResultsDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create results directory: %w", err)
	}
	path := filepath.Join(c.cfg.ResultsDir, RunFileName(run, label))
	if err := experiment.WriteJSON(path, responses); err != nil {
		return "", err
	}
	logging.Debug("wrote run", zap.Int("run", run), zap.String("path", path), zap.Int("responses", len(responses)))
	return path, nil
}

// RunFileName returns the response file name for a run, matching the
// default input glob Run*_*_responses.json
func RunFileName(run int, label string) string {
	return fmt.Sprintf("Run%d_%s_responses.json", run, sanitizeLabel(label))
}

func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return model.UnknownModel
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ' ', ':', '*', '?':
			return '-'
		}
		return r
	}, label)
}

// complete returns the provider's answer for one prompt of one run, using
// the cache when an identical request was already answered
func (c *Collector) complete(ctx context.Context, run int, p model.Prompt) (*llm.Completion, bool, error) {
	key := cache.CacheKey(c.provider.Name(), c.llm.Model, p.PromptID, p.PromptText, strconv.Itoa(run))

	if data, ok := c.cache.Get(key); ok {
		var completion llm.Completion
		if err := json.Unmarshal(data, &completion); err == nil && completion.Text != "" {
			return &completion, true, nil
		}
		_ = c.cache.Delete(key)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, c.provider.Name()); err != nil {
			return nil, false, fmt.Errorf("rate limiter: %w", err)
		}
	}

	completion, err := c.provider.Complete(ctx, llm.CompletionRequest{
		Prompt:      p.PromptText,
		Model:       c.llm.Model,
		MaxTokens:   c.llm.MaxTokens,
		Temperature: c.llm.Temperature,
	})
	if err != nil {
		return nil, false, err
	}
	if strings.TrimSpace(completion.Text) == "" {
		return nil, false, llm.ErrEmptyCompletion
	}

	if data, err := json.Marshal(completion); err == nil {
		if err := c.cache.Set(key, data, 0); err != nil {
			logging.Warn("failed to cache completion", zap.Error(err))
		}
	}
	return completion, false, nil
}
