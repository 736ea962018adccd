package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/iota-uz/orgaudit/modules/orgaudit/domain/salary"
	"github.com/iota-uz/orgaudit/modules/orgaudit/presentation/report"
	"github.com/iota-uz/orgaudit/modules/orgaudit/services"
)

type salaryOptions struct {
	input  inputOptions
	output outputOptions

	kind  string
	ratio float64
}

func newSalaryCmd(a *app) *cobra.Command {
	var opts salaryOptions

	cmd := &cobra.Command{
		Use:   "salary <file>",
		Short: "List managers paid outside the salary band for one comparison kind",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer a.close()
			return runSalary(cmd, a, args[0], opts)
		},
	}

	opts.input.register(cmd)
	opts.output.register(cmd)
	cmd.Flags().StringVar(&opts.kind, "kind", string(salary.Overpaid), "Comparison kind: overpaid|underpaid (aliases big|small)")
	cmd.Flags().Float64Var(&opts.ratio, "ratio", 0, "Ratio for the chosen kind (default from the environment)")
	return cmd
}

func runSalary(cmd *cobra.Command, a *app, path string, opts salaryOptions) error {
	kind, err := salary.ParseKind(opts.kind)
	if err != nil {
		return withCode(exitUsage, fmt.Errorf("invalid --kind: %w", err))
	}
	th := services.Thresholds{
		MaxReportingDepth: a.cfg.Audit.MaxReportingDepth,
		BigRatio:          a.cfg.Audit.BigRatio,
		SmallRatio:        a.cfg.Audit.SmallRatio,
	}
	if cmd.Flags().Changed("ratio") {
		if kind == salary.Overpaid {
			th.BigRatio = opts.ratio
		} else {
			th.SmallRatio = opts.ratio
		}
	}
	format, err := opts.output.resolveFormat(a)
	if err != nil {
		return err
	}
	in, err := opts.input.resolve(a)
	if err != nil {
		return err
	}

	store, _, loadErr := loadOrganization(cmd.Context(), a, path, in)
	rep := services.NewAuditService(store, a.logger).BuildSalaryReport(kind, th)
	rep.Source = path

	if err := opts.output.writeOutput(cmd, func(w io.Writer) error {
		return report.Write(w, rep, format)
	}); err != nil {
		return err
	}
	if err := opts.output.writeMetrics(a); err != nil {
		return err
	}
	if loadErr != nil {
		return loadErr
	}
	if s := rep.Sections[0]; !s.Available {
		return withCode(exitValidation, fmt.Errorf("%s: %s", s.Name, s.Reason))
	}
	return nil
}
