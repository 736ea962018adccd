package ingest

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"github.com/iota-uz/orgaudit/pkg/logging"
)

// XLSXParser reads the same layout as CSVParser from one worksheet.
type XLSXParser struct {
	sink   Sink
	logger logrus.FieldLogger
	sheet  string
}

func NewXLSXParser(sink Sink, logger logrus.FieldLogger, sheet string) *XLSXParser {
	if logger == nil {
		logger = logging.Discard()
	}
	return &XLSXParser{sink: sink, logger: logger, sheet: sheet}
}

func (p *XLSXParser) Load(ctx context.Context, path string) Result {
	res := Result{Source: path, Format: FormatXLSX}

	f, err := excelize.OpenFile(path)
	if err != nil {
		failSource(p.logger, &res, errors.Wrapf(err, "open %s", path))
		return res
	}
	defer func() { _ = f.Close() }()

	sheet := p.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			failSource(p.logger, &res, errors.Errorf("%s has no sheets", path))
			return res
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		failSource(p.logger, &res, errors.Wrapf(err, "read sheet %q", sheet))
		return res
	}
	if len(rows) == 0 {
		failSource(p.logger, &res, errors.Wrapf(ErrMissingHeader, "sheet %q", sheet))
		return res
	}
	header, err := normalizeHeader(rows[0])
	if err != nil {
		failSource(p.logger, &res, errors.Wrapf(err, "sheet %q", sheet))
		return res
	}

	loader := newRowLoader(p.sink, p.logger, header, &res)
	for i, rec := range rows[1:] {
		if err := ctx.Err(); err != nil {
			failSource(p.logger, &res, err)
			return res
		}
		loader.handle(i+2, rec)
	}

	p.logger.WithFields(logrus.Fields{
		"source":   path,
		"sheet":    sheet,
		"rows":     res.Rows,
		"accepted": res.Accepted,
		"skipped":  res.Skipped,
	}).Info("orgaudit.ingest.loaded")
	return res
}
