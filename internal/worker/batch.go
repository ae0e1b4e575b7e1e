package worker

import (
	"context"
	"fmt"
)

// Progress is called after each job finishes
type Progress func(done, total int, result Result)

// indexedJob remembers where a job's result belongs
type indexedJob struct {
	index int
	job   Job
}

type indexedResult struct {
	index  int
	result Result
}

func (r *indexedResult) GetError() error {
	if r.result == nil {
		return nil
	}
	return r.result.GetError()
}

func (j *indexedJob) Execute(ctx context.Context) Result {
	return &indexedResult{index: j.index, result: j.job.Execute(ctx)}
}

// CancelledResult stands in for a job that never ran
type CancelledResult struct {
	Err error
}

func (r *CancelledResult) GetError() error { return r.Err }

// RunOrdered executes jobs on a pool of workers and returns results in the
// order the jobs were given. Jobs that never ran because ctx ended are
// reported as CancelledResult.
func RunOrdered(ctx context.Context, workers int, jobs []Job, progress Progress) []Result {
	results := make([]Result, len(jobs))
	if len(jobs) == 0 {
		return results
	}

	pool := NewPool(ctx, workers)
	pool.Start()

	go func() {
		for i, job := range jobs {
			if !pool.Submit(&indexedJob{index: i, job: job}) {
				break
			}
		}
		pool.Close()
	}()

	done := 0
	for r := range pool.Results() {
		ir := r.(*indexedResult)
		results[ir.index] = ir.result
		done++
		if progress != nil {
			progress(done, len(jobs), ir.result)
		}
	}

	for i := range results {
		if results[i] == nil {
			err := ctx.Err()
			if err == nil {
				err = fmt.Errorf("job %d did not run", i)
			}
			results[i] = &CancelledResult{Err: err}
		}
	}
	return results
}
