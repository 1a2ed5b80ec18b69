package command

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gogpu/spvgen"
	"github.com/gogpu/spvgen/batch"
	"github.com/gogpu/spvgen/cmd/spvgen/internal/loader"
	"github.com/gogpu/spvgen/cmd/spvgen/internal/view"
	"github.com/gogpu/spvgen/config"
	"github.com/gogpu/spvgen/metrics"
)

// BatchOptions holds the options for the batch command.
type BatchOptions struct {
	Path        string
	ConfigPath  string
	OutputDir   string
	Parallelism int
	FailFast    bool
	MetricsFile string
}

func NewBatchCommand(cli *CLI) *cobra.Command {
	var opts BatchOptions

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Compile every module document in a directory",
		Long: Highlight("spvgen batch -f <dir>") + "\n\n" +
			"Compile all .yaml and .yml module documents in a directory concurrently.\n" +
			"Each binary is written next to its document unless --out-dir is set.\n\n" +
			"Examples:\n" +
			"  # Compile with eight workers and stop at the first failure\n" +
			"  spvgen batch -f shaders/ -j 8 --fail-fast\n\n" +
			"  # Export compile metrics for the node_exporter textfile collector\n" +
			"  spvgen batch -f shaders/ --metrics-file /var/lib/node_exporter/spvgen.prom\n",
		Args: ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunBatch(cmd.Context(), cli, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Path, "file", "f", "", "Path to a module document or a directory of documents")
	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to the configuration file")
	cmd.Flags().StringVar(&opts.OutputDir, "out-dir", "", "Directory for the SPIR-V outputs")
	cmd.Flags().IntVarP(&opts.Parallelism, "jobs", "j", 0, "Number of concurrent compiles (default: batch.parallelism)")
	cmd.Flags().BoolVar(&opts.FailFast, "fail-fast", false, "Stop scheduling compiles after the first failure")
	cmd.Flags().StringVar(&opts.MetricsFile, "metrics-file", "", "Write Prometheus metrics to this file")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func RunBatch(ctx context.Context, cli *CLI, opts BatchOptions) error {
	log := cli.Logger()

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}
	spvOpts, err := cfg.Options()
	if err != nil {
		return err
	}

	docs, err := loader.LoadDocuments(opts.Path)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return fmt.Errorf("no YAML files found in %q", opts.Path)
	}

	// Documents that fail to load are reported without being scheduled.
	var (
		result view.BatchResult
		jobs   []batch.Job
		slots  []int
	)
	result.Items = make([]view.BatchItem, len(docs))
	for i, doc := range docs {
		result.Items[i].File = doc.Path
		err := doc.Err
		if err == nil {
			var job batch.Job
			if job, err = prepareJob(cfg, doc); err == nil {
				jobs = append(jobs, job)
				slots = append(slots, i)
				continue
			}
		}
		result.Items[i].Status = view.StatusError
		result.Items[i].Error = err.Error()
	}

	parallelism := cfg.Batch.Parallelism
	if opts.Parallelism > 0 {
		parallelism = opts.Parallelism
	}
	log.Debug("starting batch", "jobs", len(jobs), "parallelism", parallelism)

	outcomes, runErr := spvgen.CompileBatch(ctx, jobs, batch.Options{
		Parallelism: parallelism,
		FailFast:    opts.FailFast || cfg.Batch.FailFast,
		Compile:     spvOpts,
		Logger:      log.Logr(),
	})
	if runErr != nil {
		log.Warn("batch stopped early", "error", runErr)
	}

	for k, o := range outcomes {
		item := &result.Items[slots[k]]
		item.Duration = o.Duration
		switch {
		case o.Skipped:
			item.Status = view.StatusSkipped
		case o.Err != nil:
			item.Status = view.StatusError
			item.Error = o.Err.Error()
		default:
			item.Output = loader.OutputPath(item.File, opts.OutputDir)
			if err := os.WriteFile(item.Output, o.Result.Bytes(), 0o644); err != nil {
				item.Status = view.StatusError
				item.Error = err.Error()
				break
			}
			item.Status = view.StatusSuccess
			item.Words = len(o.Result.Words)
			item.Diagnostics = len(o.Result.Diagnostics)
		}
	}
	for _, it := range result.Items {
		switch it.Status {
		case view.StatusSuccess:
			result.Succeeded++
			result.Diagnostics += it.Diagnostics
		case view.StatusError:
			result.Failed++
		case view.StatusSkipped:
			result.Skipped++
		}
	}

	if opts.MetricsFile != "" {
		if err := metrics.WriteTextfile(opts.MetricsFile); err != nil {
			return err
		}
		log.Info("wrote metrics", "path", opts.MetricsFile)
	}

	view.NewBatchView(cli.Viewer).Render(result)
	if result.HasErrors() {
		return errors.New("")
	}
	return nil
}

func prepareJob(cfg *config.Config, doc loader.Document) (batch.Job, error) {
	module, err := spvgen.Parse(doc.Source)
	if err != nil {
		return batch.Job{}, err
	}
	if err := cfg.ApplyPrecision(module); err != nil {
		return batch.Job{}, err
	}
	return batch.Job{Name: doc.Path, Module: module}, nil
}
