package ingest

import (
	"context"
	"encoding/csv"
	"io"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/orgaudit/pkg/logging"
)

type CSVParser struct {
	sink   Sink
	logger logrus.FieldLogger
	comma  rune
}

func NewCSVParser(sink Sink, logger logrus.FieldLogger, comma rune) *CSVParser {
	if logger == nil {
		logger = logging.Discard()
	}
	return &CSVParser{sink: sink, logger: logger, comma: comma}
}

// Load reads a header line followed by one employee per line.
func (p *CSVParser) Load(ctx context.Context, path string) Result {
	res := Result{Source: path, Format: FormatCSV}

	r, closeFn, err := openCSV(path, p.comma)
	if err != nil {
		failSource(p.logger, &res, errors.Wrapf(err, "open %s", path))
		return res
	}
	defer func() { _ = closeFn() }()

	header, err := readHeader(r)
	if err != nil {
		failSource(p.logger, &res, errors.Wrapf(err, "read header of %s", path))
		return res
	}
	rows := newRowLoader(p.sink, p.logger, header, &res)

	line := 1
	for {
		if err := ctx.Err(); err != nil {
			failSource(p.logger, &res, err)
			return res
		}
		rec, err := r.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				res.Rows++
				res.Skipped++
				recordRow(res.Format, false)
				p.logger.WithError(err).WithFields(logrus.Fields{
					"source": path,
					"line":   perr.Line,
				}).Warn("orgaudit.ingest.row_skipped")
				continue
			}
			failSource(p.logger, &res, errors.Wrapf(err, "after line %d", line))
			return res
		}
		if len(rec) == 0 {
			continue
		}
		line, _ = r.FieldPos(0)
		rows.handle(line, rec)
	}

	p.logger.WithFields(logrus.Fields{
		"source":   path,
		"rows":     res.Rows,
		"accepted": res.Accepted,
		"skipped":  res.Skipped,
	}).Info("orgaudit.ingest.loaded")
	return res
}
