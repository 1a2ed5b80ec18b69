package batch_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-logr/logr/funcr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/spvgen/batch"
	"github.com/gogpu/spvgen/ir"
	"github.com/gogpu/spvgen/spirv"
)

const redFragment = `
stage: fragment
variables:
  - {name: color, type: vec4, mode: out}
functions:
  - name: main
    body:
      - assign: {lhs: {var: color}, rhs: {const: [1, 0, 0, 1], type: vec4}}
`

func emptyMain() *ir.Module {
	return &ir.Module{
		Stage: ir.StageFragment,
		Decls: []ir.Node{&ir.Function{Name: "main"}},
	}
}

func jobs(n int) []batch.Job {
	out := make([]batch.Job, n)
	for i := range out {
		out[i] = batch.Job{Name: fmt.Sprintf("job%d", i), Module: emptyMain()}
	}
	return out
}

func TestRun_CompilesEveryJob(t *testing.T) {
	outcomes, err := batch.Run(context.Background(), jobs(5), batch.Options{Parallelism: 3})
	require.NoError(t, err)
	require.Len(t, outcomes, 5)
	for i, o := range outcomes {
		assert.Equal(t, fmt.Sprintf("job%d", i), o.Name)
		require.NoError(t, o.Err)
		assert.False(t, o.Skipped)
		assert.Equal(t, spirv.MagicNumber, o.Result.Words[0])
	}
}

func TestRun_IdenticalJobsProduceIdenticalModules(t *testing.T) {
	outcomes, err := batch.Run(context.Background(), jobs(8), batch.Options{Parallelism: 8})
	require.NoError(t, err)
	for _, o := range outcomes[1:] {
		assert.Equal(t, outcomes[0].Result.Words, o.Result.Words)
	}
}

func TestRun_OutcomesKeepJobOrder(t *testing.T) {
	// Earlier jobs finish last.
	compile := func(m *ir.Module, o spirv.Options) (*spirv.Result, error) {
		delay := time.Duration(len(m.Decls)) * 5 * time.Millisecond
		time.Sleep(delay)
		return &spirv.Result{Bound: uint32(len(m.Decls))}, nil
	}
	in := make([]batch.Job, 4)
	for i := range in {
		m := &ir.Module{}
		for range 4 - i {
			m.Decls = append(m.Decls, &ir.Function{Name: "main"})
		}
		in[i] = batch.Job{Name: fmt.Sprint(i), Module: m}
	}

	outcomes, err := batch.Run(context.Background(), in, batch.Options{Parallelism: 4, CompileFunc: compile})
	require.NoError(t, err)
	for i, o := range outcomes {
		assert.Equal(t, fmt.Sprint(i), o.Name)
		assert.Equal(t, uint32(4-i), o.Result.Bound)
	}
}

func TestRun_BoundsParallelism(t *testing.T) {
	var running, peak atomic.Int32
	compile := func(m *ir.Module, o spirv.Options) (*spirv.Result, error) {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		running.Add(-1)
		return &spirv.Result{}, nil
	}

	_, err := batch.Run(context.Background(), jobs(12), batch.Options{Parallelism: 2, CompileFunc: compile})
	require.NoError(t, err)
	assert.LessOrEqual(t, peak.Load(), int32(2))
	assert.Positive(t, peak.Load())
}

func TestRun_FailuresDoNotStopOtherJobs(t *testing.T) {
	in := jobs(3)
	in[1].Module.Decls = nil

	outcomes, err := batch.Run(context.Background(), in, batch.Options{Parallelism: 1})
	require.NoError(t, err)

	var spvErr *spirv.Error
	require.ErrorAs(t, outcomes[1].Err, &spvErr)
	assert.Equal(t, spirv.ErrMissingEntryPoint, spvErr.Kind)
	assert.NoError(t, outcomes[0].Err)
	assert.NoError(t, outcomes[2].Err)

	s := batch.Summarize(outcomes)
	assert.Equal(t, batch.Summary{Succeeded: 2, Failed: 1}, s)
}

func TestRun_FailFast(t *testing.T) {
	boom := errors.New("boom")
	var calls atomic.Int32
	compile := func(m *ir.Module, o spirv.Options) (*spirv.Result, error) {
		calls.Add(1)
		return nil, boom
	}

	outcomes, err := batch.Run(context.Background(), jobs(4), batch.Options{
		Parallelism: 1,
		FailFast:    true,
		CompileFunc: compile,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "job0")
	assert.Equal(t, int32(1), calls.Load())

	assert.ErrorIs(t, outcomes[0].Err, boom)
	assert.False(t, outcomes[0].Skipped)
	for _, o := range outcomes[1:] {
		assert.True(t, o.Skipped, o.Name)
		assert.ErrorIs(t, o.Err, context.Canceled)
	}
	assert.Equal(t, batch.Summary{Failed: 1, Skipped: 3}, batch.Summarize(outcomes))
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcomes, err := batch.Run(ctx, jobs(3), batch.Options{Parallelism: 2})
	assert.ErrorIs(t, err, context.Canceled)
	for _, o := range outcomes {
		assert.True(t, o.Skipped)
	}
}

func TestRun_DecodesSourceDocuments(t *testing.T) {
	in := []batch.Job{
		{Name: "red", Source: []byte(redFragment)},
		{Name: "broken", Source: []byte("stage: [")},
		{Name: "empty"},
	}

	outcomes, err := batch.Run(context.Background(), in, batch.Options{})
	require.NoError(t, err)

	require.NoError(t, outcomes[0].Err)
	assert.Greater(t, len(outcomes[0].Result.Words), spirv.HeaderWords)
	assert.Contains(t, outcomes[1].Err.Error(), "failed to unmarshal module document")
	assert.Contains(t, outcomes[2].Err.Error(), "neither a module nor a source")
}

func TestRun_PassesOptionsAndTaggedLogger(t *testing.T) {
	var (
		mu    sync.Mutex
		lines []string
	)
	log := funcr.New(func(prefix, args string) {
		mu.Lock()
		defer mu.Unlock()
		lines = append(lines, args)
	}, funcr.Options{Verbosity: 1})

	in := jobs(2)
	in[1].Module.Decls = nil
	opts := batch.Options{
		Compile: spirv.Options{Version: spirv.Version1_3},
		Logger:  log,
	}
	outcomes, err := batch.Run(context.Background(), in, opts)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x00010300), outcomes[0].Result.Words[1])

	joined := strings.Join(lines, "\n")
	assert.Contains(t, joined, `"job"="job0"`)
	assert.Contains(t, joined, `"msg"="compiled"`)
	assert.Contains(t, joined, `"job"="job1"`)
	assert.Contains(t, joined, `"msg"="compile failed"`)
}
