package collect

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/biaslab/internal/logging"
	"github.com/ppiankov/biaslab/internal/model"
	"github.com/ppiankov/biaslab/internal/worker"
)

// requestJob asks the provider one prompt for one run
type requestJob struct {
	collector *Collector
	run       int
	prompt    model.Prompt
}

type requestResult struct {
	response model.Response
	cached   bool
	err      error
}

func (r *requestResult) GetError() error {
	return r.err
}

func (j *requestJob) Execute(ctx context.Context) worker.Result {
	c := j.collector
	p := j.prompt

	completion, cached, err := c.complete(ctx, j.run, p)
	if err != nil {
		logging.Warn("request failed",
			zap.Int("run", j.run),
			zap.String("condition_id", p.ConditionID),
			zap.String("prompt_id", p.PromptID),
			zap.Error(err))
		return &requestResult{err: err}
	}

	hypothesis := p.HypothesisID
	if hypothesis == "" {
		hypothesis = model.DeriveHypothesisID(p.ConditionID)
	}

	return &requestResult{
		cached: cached,
		response: model.Response{
			ResponseID:   c.newID(),
			Timestamp:    c.now().UTC().Format(time.RFC3339),
			ModelName:    c.Label(),
			PromptID:     p.PromptID,
			HypothesisID: hypothesis,
			ConditionID:  p.ConditionID,
			PromptText:   p.PromptText,
			ResponseText: completion.Text,
		},
	}
}
