package screening

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultWorkers = 4

// Progress is invoked after each resume finishes, successfully or not. It may
// be called from multiple goroutines at once.
type Progress func(completed, total int)

// Runner screens a batch of resumes concurrently. Each resume gets its own
// pipeline run; a failure or panic in one never affects the others.
type Runner struct {
	pipeline *Pipeline
	workers  int
	progress Progress
	logger   *zap.Logger
}

// NewRunner builds a batch runner on top of a pipeline. Non-positive workers
// fall back to the default. A nil logger is replaced with a no-op one.
func NewRunner(pipeline *Pipeline, workers int, logger *zap.Logger) *Runner {
	if workers <= 0 {
		workers = defaultWorkers
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Runner{
		pipeline: pipeline,
		workers:  workers,
		logger:   logger,
	}
}

// OnProgress registers a callback fired once per finished resume.
func (r *Runner) OnProgress(fn Progress) {
	r.progress = fn
}

// ScreenAll screens every resume against the same keywords and job
// description. The returned slice is ordered like the input, one result per
// resume.
func (r *Runner) ScreenAll(ctx context.Context, keywords []string, jobDescription string, resumes []Resume) Results {
	total := len(resumes)
	results := make(Results, total)

	r.logger.Info("screening resumes", zap.Int("count", total), zap.Int("workers", r.workers))

	var completed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i, resume := range resumes {
		g.Go(func() error {
			defer func() {
				if rec := recover(); rec != nil {
					r.logger.Error("screening panicked",
						zap.String("resume_id", resume.ID),
						zap.Any("panic", rec),
					)

					res := ErrorResult(resume.ID, fmt.Sprintf("screening panicked: %v", rec))
					res.TotalKeywords = len(keywords)
					results[i] = res
				}

				done := completed.Add(1)
				if r.progress != nil {
					r.progress(int(done), total)
				}
			}()

			results[i] = r.pipeline.Screen(gctx, keywords, resume.Text, jobDescription, resume.ID)

			return nil
		})
	}

	// Goroutines record their own failures in the result slots, so Wait only
	// blocks for completion.
	_ = g.Wait()

	return results
}
