// Package batch compiles many independent modules concurrently.
//
// Every job gets its own compile and therefore its own module builder; no
// state is shared between jobs. Outcomes are reported in job order
// regardless of completion order.
package batch

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/go-logr/logr"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/gogpu/spvgen/ir"
	"github.com/gogpu/spvgen/spirv"
)

// CompileFunc compiles one module.
type CompileFunc func(module *ir.Module, options spirv.Options) (*spirv.Result, error)

// Job is one module to compile. When Module is nil, Source is decoded as
// a YAML module document.
type Job struct {
	Name   string
	Source []byte
	Module *ir.Module
}

// Outcome is the result of one job.
type Outcome struct {
	Name     string
	Result   *spirv.Result
	Err      error
	Duration time.Duration
	// Skipped is set when the job never ran because the batch was
	// cancelled first.
	Skipped bool
}

// Options configures the orchestrator.
type Options struct {
	// Parallelism sets the maximum number of concurrent compiles.
	// If <= 0, defaults to runtime.NumCPU().
	Parallelism int

	// FailFast cancels the jobs that have not started yet after the first
	// failure, and makes Run return that failure.
	FailFast bool

	// Compile are the options passed to every compile. Their Logger is
	// replaced by Logger tagged with the job name.
	Compile spirv.Options

	// CompileFunc defaults to spirv.Compile.
	CompileFunc CompileFunc

	Logger logr.Logger
}

// Run compiles every job and returns one outcome per job, in job order.
//
// The returned error is the first job failure when FailFast is set, or the
// context error when ctx was cancelled before every job started.
func Run(ctx context.Context, jobs []Job, opts Options) ([]Outcome, error) {
	if opts.Parallelism <= 0 {
		opts.Parallelism = runtime.NumCPU()
	}
	compile := opts.CompileFunc
	if compile == nil {
		compile = spirv.Compile
	}

	outcomes := make([]Outcome, len(jobs))
	for i := range jobs {
		outcomes[i].Name = jobs[i].Name
	}

	g, gctx := errgroup.WithContext(ctx)
	// The group context is only cancelled once a failing job returns, which
	// is after it released its slot. Cancel explicitly first so the next
	// job cannot start in between.
	gctx, cancel := context.WithCancel(gctx)
	defer cancel()
	sem := semaphore.NewWeighted(int64(opts.Parallelism))

	for i := range jobs {
		if err := sem.Acquire(gctx, 1); err != nil {
			skip(outcomes[i:], err)
			break
		}
		g.Go(func() error {
			defer sem.Release(1)

			out := &outcomes[i]
			if err := gctx.Err(); err != nil {
				out.Err, out.Skipped = err, true
				return nil
			}
			log := opts.Logger.WithValues("job", jobs[i].Name)

			start := time.Now()
			out.Result, out.Err = runJob(&jobs[i], compile, opts.Compile, log)
			out.Duration = time.Since(start)

			if out.Err != nil {
				log.Error(out.Err, "compile failed")
				if opts.FailFast {
					cancel()
					return fmt.Errorf("%s: %w", jobs[i].Name, out.Err)
				}
				return nil
			}
			log.V(1).Info("compiled",
				"words", len(out.Result.Words),
				"diagnostics", len(out.Result.Diagnostics),
				"duration", out.Duration)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return outcomes, err
	}
	for i := range outcomes {
		if outcomes[i].Skipped {
			return outcomes, outcomes[i].Err
		}
	}
	return outcomes, nil
}

func runJob(job *Job, compile CompileFunc, options spirv.Options, log logr.Logger) (*spirv.Result, error) {
	module := job.Module
	if module == nil {
		if job.Source == nil {
			return nil, errors.New("job has neither a module nor a source document")
		}
		var err error
		if module, err = ir.Unmarshal(job.Source); err != nil {
			return nil, err
		}
	}
	options.Logger = log
	return compile(module, options)
}

func skip(outcomes []Outcome, err error) {
	for i := range outcomes {
		outcomes[i].Err = err
		outcomes[i].Skipped = true
	}
}

// Summary counts outcomes by state.
type Summary struct {
	Succeeded   int
	Failed      int
	Skipped     int
	Diagnostics int
}

// Summarize counts outcomes.
func Summarize(outcomes []Outcome) Summary {
	var s Summary
	for _, o := range outcomes {
		switch {
		case o.Skipped:
			s.Skipped++
		case o.Err != nil:
			s.Failed++
		default:
			s.Succeeded++
			s.Diagnostics += len(o.Result.Diagnostics)
		}
	}
	return s
}
