package runner

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/yaklabco/texoutline/pkg/analysis"
)

// Runner parses many files with one Analyzer.
type Runner struct {
	Analyzer *analysis.Analyzer
}

// New creates a Runner.
func New(analyzer *analysis.Analyzer) *Runner {
	return &Runner{Analyzer: analyzer}
}

// Run discovers files under opts.Paths and parses them concurrently.
// Outcomes are ordered by path regardless of completion order. A file that
// fails to parse is recorded in its outcome and does not stop the run.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}
	return r.RunFiles(ctx, files, opts.Jobs)
}

// RunFiles parses the given files with up to jobs workers.
func (r *Runner) RunFiles(ctx context.Context, files []string, jobs int) (*Result, error) {
	result := &Result{
		Files: make([]FileOutcome, 0, len(files)),
		Stats: newStats(),
	}
	result.Stats.FilesDiscovered = len(files)

	if len(files) == 0 {
		return result, nil
	}

	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(files))

	workCh := make(chan string)
	outCh := make(chan FileOutcome)

	var wg sync.WaitGroup
	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.worker(ctx, workCh, outCh)
		}()
	}

	go func() {
		defer close(workCh)
		for _, path := range files {
			select {
			case <-ctx.Done():
				return
			case workCh <- path:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outCh)
	}()

	outcomes := make(map[string]FileOutcome, len(files))
	for outcome := range outCh {
		outcomes[outcome.Path] = outcome
	}

	for _, path := range files {
		if outcome, ok := outcomes[path]; ok {
			result.accumulate(outcome)
		}
	}

	if ctx.Err() != nil {
		return result, fmt.Errorf("run cancelled: %w", ctx.Err())
	}
	return result, nil
}

func (r *Runner) worker(ctx context.Context, workCh <-chan string, outCh chan<- FileOutcome) {
	for path := range workCh {
		if ctx.Err() != nil {
			return
		}

		outcome := FileOutcome{Path: path}
		res, err := r.Analyzer.ParseFile(ctx, path)
		if err != nil {
			outcome.Error = err
		} else {
			outcome.Result = res
		}

		select {
		case <-ctx.Done():
			return
		case outCh <- outcome:
		}
	}
}
