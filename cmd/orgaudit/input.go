package main

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/iota-uz/orgaudit/modules/orgaudit/infrastructure/ingest"
	"github.com/iota-uz/orgaudit/modules/orgaudit/infrastructure/memory"
)

type inputOptions struct {
	delimiter string
	sheet     string
}

func (o *inputOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.delimiter, "delimiter", "", "CSV field delimiter (default from ORGAUDIT_CSV_DELIMITER or ',')")
	cmd.Flags().StringVar(&o.sheet, "sheet", "", "XLSX sheet to read (default from ORGAUDIT_XLSX_SHEET or the first sheet)")
}

func (o *inputOptions) resolve(a *app) (ingest.Options, error) {
	opts := ingest.Options{Comma: a.cfg.Input.Comma(), Sheet: a.cfg.Input.XLSXSheet}
	if o.delimiter != "" {
		if utf8.RuneCountInString(o.delimiter) != 1 {
			return opts, withCode(exitUsage, fmt.Errorf("invalid --delimiter %q: expected a single character", o.delimiter))
		}
		opts.Comma, _ = utf8.DecodeRuneInString(o.delimiter)
	}
	if o.sheet != "" {
		opts.Sheet = o.sheet
	}
	return opts, nil
}

// loadOrganization fills a fresh store from path. A source that cannot be
// read still yields an empty store alongside the exitInput error.
func loadOrganization(ctx context.Context, a *app, path string, opts ingest.Options) (*memory.OrganizationStore, ingest.Result, error) {
	store := memory.NewOrganizationStore(memory.WithLogger(a.logger))
	res := ingest.ForPath(path, store, a.logger, opts).Load(ctx, path)
	if res.Err != nil {
		return store, res, withCode(exitInput, fmt.Errorf("load %s: %w", path, res.Err))
	}
	return store, res, nil
}
