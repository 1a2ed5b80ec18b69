// Package spvgen compiles shader IR to SPIR-V.
//
// Modules are described either directly as an ir.Module or as a YAML
// module document (see package ir). Every compile is recorded in the
// metrics package.
//
// Example usage:
//
//	source := []byte(`
//	stage: fragment
//	variables:
//	  - {name: color, type: vec4, mode: out}
//	functions:
//	  - name: main
//	    body:
//	      - assign: {lhs: {var: color}, rhs: {const: [1, 0, 0, 1], type: vec4}}
//	`)
//	result, err := spvgen.Compile(source)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("red.spv", result.Bytes(), 0o644)
//
// Many modules can be compiled concurrently with CompileBatch.
package spvgen

import (
	"context"
	"fmt"
	"time"

	"github.com/gogpu/spvgen/batch"
	"github.com/gogpu/spvgen/ir"
	"github.com/gogpu/spvgen/metrics"
	"github.com/gogpu/spvgen/spirv"
)

// DefaultOptions returns the default compile options.
func DefaultOptions() spirv.Options {
	return spirv.DefaultOptions()
}

// Compile compiles a YAML module document using default options.
func Compile(source []byte) (*spirv.Result, error) {
	return CompileWithOptions(source, DefaultOptions())
}

// CompileWithOptions compiles a YAML module document.
//
// The compilation pipeline is:
//  1. Decode the document into an ir.Module
//  2. Translate the module into SPIR-V
func CompileWithOptions(source []byte, opts spirv.Options) (*spirv.Result, error) {
	module, err := Parse(source)
	if err != nil {
		return nil, err
	}
	return CompileModule(module, opts)
}

// Parse decodes a YAML module document.
func Parse(source []byte) (*ir.Module, error) {
	module, err := ir.Unmarshal(source)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return module, nil
}

// CompileModule translates module into SPIR-V and records the compile in
// metrics.Metrics.
func CompileModule(module *ir.Module, opts spirv.Options) (*spirv.Result, error) {
	stage := "unknown"
	if module != nil {
		stage = module.Stage.String()
	}

	start := time.Now()
	result, err := spirv.Compile(module, opts)
	metrics.Metrics.ObserveCompile(stage, time.Since(start).Seconds(), err)
	if err != nil {
		return nil, fmt.Errorf("SPIR-V generation error: %w", err)
	}

	metrics.Metrics.ObserveModule(len(result.Words))
	for _, d := range result.Diagnostics {
		metrics.Metrics.CountDiagnostic(d.Node)
	}
	return result, nil
}

// CompileBatch compiles jobs concurrently with CompileModule.
func CompileBatch(ctx context.Context, jobs []batch.Job, opts batch.Options) ([]batch.Outcome, error) {
	opts.CompileFunc = CompileModule
	return batch.Run(ctx, jobs, opts)
}
