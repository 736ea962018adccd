package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/iota-uz/orgaudit/modules/orgaudit/presentation/report"
)

type structureOptions struct {
	input  inputOptions
	output outputOptions
}

func newStructureCmd(a *app) *cobra.Command {
	var opts structureOptions

	cmd := &cobra.Command{
		Use:   "structure <file>",
		Short: "Print the reporting-line depth of every employee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer a.close()
			return runStructure(cmd, a, args[0], opts)
		},
	}

	opts.input.register(cmd)
	opts.output.register(cmd)
	return cmd
}

func runStructure(cmd *cobra.Command, a *app, path string, opts structureOptions) error {
	format, err := opts.output.resolveFormat(a)
	if err != nil {
		return err
	}
	in, err := opts.input.resolve(a)
	if err != nil {
		return err
	}

	store, _, err := loadOrganization(cmd.Context(), a, path, in)
	if err != nil {
		return err
	}
	depths, err := store.Structure()
	if err != nil {
		return withCode(exitValidation, fmt.Errorf("company structure: %w", err))
	}

	if err := opts.output.writeOutput(cmd, func(w io.Writer) error {
		return report.WriteStructure(w, store, depths, format)
	}); err != nil {
		return err
	}
	return opts.output.writeMetrics(a)
}
