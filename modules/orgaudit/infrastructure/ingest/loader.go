// Package ingest reads employee rows from delimited or spreadsheet files and
// feeds the valid ones into an organization store. Bad rows are logged and
// skipped; they never abort the load.
package ingest

import (
	"context"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/orgaudit/modules/orgaudit/domain/employee"
	"github.com/iota-uz/orgaudit/pkg/logging"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

var (
	ErrFieldCount  = errors.New("unexpected field count")
	ErrMissingData = errors.New("mandatory field is empty")
	ErrSecondRoot  = errors.New("root already defined")
)

// Sink receives accepted rows. The organization store satisfies it.
type Sink interface {
	AddEmployee(e employee.Employee)
	IsCEODefined() bool
	MarkCEO(id int64)
}

type EmployeeDataParser interface {
	Load(ctx context.Context, path string) Result
}

// Result summarizes one load. Err is set only when the source itself could
// not be read; row problems are counted in Skipped.
type Result struct {
	Source   string
	Format   Format
	Rows     int
	Accepted int
	Skipped  int
	Err      error
}

type Options struct {
	// Comma is the CSV field delimiter; ',' when zero.
	Comma rune
	// Sheet is the XLSX sheet to read; the first sheet when empty.
	Sheet string
}

// ForPath picks a parser from the file extension.
func ForPath(path string, sink Sink, logger logrus.FieldLogger, opts Options) EmployeeDataParser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return NewXLSXParser(sink, logger, opts.Sheet)
	default:
		return NewCSVParser(sink, logger, opts.Comma)
	}
}

// rowLoader holds the per-row validation shared by every format.
type rowLoader struct {
	sink   Sink
	logger logrus.FieldLogger
	cols   columns
	res    *Result
}

func newRowLoader(sink Sink, logger logrus.FieldLogger, header []string, res *Result) *rowLoader {
	if logger == nil {
		logger = logging.Discard()
	}
	return &rowLoader{sink: sink, logger: logger, cols: resolveColumns(header), res: res}
}

func (l *rowLoader) handle(line int, rec []string) {
	if isBlank(rec) {
		return
	}
	l.res.Rows++
	e, err := l.parse(rec)
	if err == nil && e.IsRoot() && l.sink.IsCEODefined() {
		err = ErrSecondRoot
	}
	if err != nil {
		l.res.Skipped++
		recordRow(l.res.Format, false)
		l.logger.WithError(err).WithFields(logrus.Fields{
			"source": l.res.Source,
			"line":   line,
			"row":    strings.Join(rec, ","),
		}).Warn("orgaudit.ingest.row_skipped")
		return
	}
	l.sink.AddEmployee(e)
	if e.IsRoot() {
		l.sink.MarkCEO(e.ID)
	}
	l.res.Accepted++
	recordRow(l.res.Format, true)
}

func (l *rowLoader) parse(rec []string) (employee.Employee, error) {
	c := l.cols
	if len(rec) < c.minWidth() || (c.width > 0 && len(rec) > c.width) {
		return employee.Employee{}, errors.Errorf("%d fields: %w", len(rec), ErrFieldCount)
	}
	rawID := c.get(rec, c.id)
	firstName := c.get(rec, c.firstName)
	lastName := c.get(rec, c.lastName)
	rawSalary := c.get(rec, c.salary)
	for _, f := range [][2]string{{"id", rawID}, {"first_name", firstName}, {"last_name", lastName}, {"salary", rawSalary}} {
		if f[1] == "" {
			return employee.Employee{}, errors.Errorf("%s: %w", f[0], ErrMissingData)
		}
	}

	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return employee.Employee{}, errors.Wrap(err, "id")
	}
	sal, err := strconv.ParseFloat(rawSalary, 64)
	if err != nil {
		return employee.Employee{}, errors.Wrap(err, "salary")
	}
	if math.IsNaN(sal) || math.IsInf(sal, 0) {
		return employee.Employee{}, errors.Errorf("salary %q is not finite: %w", rawSalary, employee.ErrInvalidEmployee)
	}
	var managerID *int64
	if v := c.get(rec, c.managerID); v != "" {
		m, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return employee.Employee{}, errors.Wrap(err, "manager_id")
		}
		managerID = &m
	}

	e := employee.New(id, firstName, lastName, sal, managerID)
	if err := e.Validate(); err != nil {
		return employee.Employee{}, err
	}
	return e, nil
}

func failSource(logger logrus.FieldLogger, res *Result, err error) {
	res.Err = err
	recordSourceFailure(res.Format)
	if logger == nil {
		return
	}
	logger.WithError(err).WithField("source", res.Source).Error("orgaudit.ingest.source_failed")
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
