package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iota-uz/orgaudit/modules/orgaudit/presentation/report"
	"github.com/iota-uz/orgaudit/pkg/metrics"
)

type outputOptions struct {
	format          string
	output          string
	metricsTextfile string
}

func (o *outputOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.format, "format", "", "Output format text|json|yaml (default from ORGAUDIT_REPORT_FORMAT)")
	cmd.Flags().StringVar(&o.output, "output", "", "Write to this file instead of stdout")
	cmd.Flags().StringVar(&o.metricsTextfile, "metrics-textfile", "", "Write run metrics in Prometheus textfile format to this path")
}

func (o *outputOptions) resolveFormat(a *app) (report.Format, error) {
	raw := a.cfg.Output.Format
	if o.format != "" {
		raw = o.format
	}
	f, err := report.ParseFormat(raw)
	if err != nil {
		return "", withCode(exitUsage, fmt.Errorf("invalid --format: %w", err))
	}
	return f, nil
}

// writeOutput hands fn either the command's stdout or the --output file.
func (o *outputOptions) writeOutput(cmd *cobra.Command, fn func(w io.Writer) error) error {
	if strings.TrimSpace(o.output) == "" {
		if err := fn(cmd.OutOrStdout()); err != nil {
			return withCode(exitOutput, err)
		}
		return nil
	}
	dir := filepath.Dir(o.output)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return withCode(exitOutput, fmt.Errorf("mkdir %s: %w", dir, err))
	}
	f, err := os.Create(o.output)
	if err != nil {
		return withCode(exitOutput, fmt.Errorf("create %s: %w", o.output, err))
	}
	if err := fn(f); err != nil {
		_ = f.Close()
		return withCode(exitOutput, err)
	}
	if err := f.Close(); err != nil {
		return withCode(exitOutput, fmt.Errorf("close %s: %w", o.output, err))
	}
	return nil
}

func (o *outputOptions) writeMetrics(a *app) error {
	path := a.cfg.Output.MetricsTextfile
	if o.metricsTextfile != "" {
		path = o.metricsTextfile
	}
	if err := metrics.WriteTextfile(path, nil); err != nil {
		return withCode(exitOutput, err)
	}
	return nil
}
