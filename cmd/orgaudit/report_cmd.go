package main

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/iota-uz/orgaudit/modules/orgaudit/domain/salary"
	"github.com/iota-uz/orgaudit/modules/orgaudit/presentation/report"
	"github.com/iota-uz/orgaudit/modules/orgaudit/services"
	"github.com/iota-uz/orgaudit/pkg/configuration"
)

type reportOptions struct {
	input  inputOptions
	output outputOptions

	thresholdsFile string
	maxDepth       int
	bigRatio       float64
	smallRatio     float64
	xlsxOut        string
}

func newReportCmd(a *app) *cobra.Command {
	var opts reportOptions

	cmd := &cobra.Command{
		Use:   "report <file>",
		Short: "Report long reporting lines and managers paid outside the salary band",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer a.close()
			return runReport(cmd, a, args[0], opts)
		},
	}

	opts.input.register(cmd)
	opts.output.register(cmd)
	cmd.Flags().StringVar(&opts.thresholdsFile, "thresholds", "", "TOML or YAML thresholds file, overrides the environment")
	cmd.Flags().IntVar(&opts.maxDepth, "max-depth", services.DefaultMaxReportingDepth, "Longest allowed reporting line; ORGAUDIT_MAX_REPORTING_DEPTH applies unless set")
	cmd.Flags().Float64Var(&opts.bigRatio, "big-ratio", salary.DefaultBigRatio, "Managers above average*ratio are overpaid; ORGAUDIT_SALARY_BIG_RATIO applies unless set")
	cmd.Flags().Float64Var(&opts.smallRatio, "small-ratio", salary.DefaultSmallRatio, "Managers below average*ratio are underpaid; ORGAUDIT_SALARY_SMALL_RATIO applies unless set")
	cmd.Flags().StringVar(&opts.xlsxOut, "xlsx-out", "", "Also export the report as an XLSX workbook")
	return cmd
}

// resolveThresholds layers env, thresholds file and flags, later wins.
func resolveThresholds(cmd *cobra.Command, a *app, opts reportOptions) (services.Thresholds, error) {
	audit := a.cfg.Audit
	if opts.thresholdsFile != "" {
		t, err := configuration.LoadThresholds(opts.thresholdsFile)
		if err != nil {
			return services.Thresholds{}, withCode(exitUsage, err)
		}
		t.Apply(&audit)
	}
	if cmd.Flags().Changed("max-depth") {
		audit.MaxReportingDepth = opts.maxDepth
	}
	if cmd.Flags().Changed("big-ratio") {
		audit.BigRatio = opts.bigRatio
	}
	if cmd.Flags().Changed("small-ratio") {
		audit.SmallRatio = opts.smallRatio
	}
	if err := audit.Validate(); err != nil {
		return services.Thresholds{}, withCode(exitUsage, err)
	}
	return services.Thresholds{
		MaxReportingDepth: audit.MaxReportingDepth,
		BigRatio:          audit.BigRatio,
		SmallRatio:        audit.SmallRatio,
	}, nil
}

func runReport(cmd *cobra.Command, a *app, path string, opts reportOptions) error {
	th, err := resolveThresholds(cmd, a, opts)
	if err != nil {
		return err
	}
	format, err := opts.output.resolveFormat(a)
	if err != nil {
		return err
	}
	in, err := opts.input.resolve(a)
	if err != nil {
		return err
	}

	store, res, loadErr := loadOrganization(cmd.Context(), a, path, in)

	rep := services.NewAuditService(store, a.logger).BuildReport(th)
	rep.Source = path

	if err := opts.output.writeOutput(cmd, func(w io.Writer) error {
		return report.Write(w, rep, format)
	}); err != nil {
		return err
	}
	if opts.xlsxOut != "" {
		if err := report.ExportXLSX(opts.xlsxOut, rep); err != nil {
			return withCode(exitOutput, err)
		}
	}
	if err := opts.output.writeMetrics(a); err != nil {
		return err
	}

	a.logger.WithFields(logrus.Fields{
		"run_id":   rep.RunID.String(),
		"source":   path,
		"accepted": res.Accepted,
		"skipped":  res.Skipped,
	}).Info("orgaudit.report.done")

	if loadErr != nil {
		return loadErr
	}
	for _, s := range rep.Sections {
		if !s.Available {
			return withCode(exitValidation, fmt.Errorf("%s: %s", s.Name, s.Reason))
		}
	}
	return nil
}
