package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-faster/errors"

	"github.com/iota-uz/orgaudit/modules/orgaudit/domain/employee"
)

type structureRow struct {
	ID            int64  `json:"id" yaml:"id"`
	FirstName     string `json:"first_name" yaml:"first_name"`
	LastName      string `json:"last_name" yaml:"last_name"`
	ManagerID     *int64 `json:"manager_id,omitempty" yaml:"manager_id,omitempty"`
	ReportingLine int    `json:"reporting_line" yaml:"reporting_line"`
	DirectReports int    `json:"direct_reports" yaml:"direct_reports"`
}

// Directory is the part of the organization store WriteStructure reads.
type Directory interface {
	Employees() []employee.Employee
	Subordinates(managerID int64) []int64
}

// WriteStructure prints the reporting-line depth and direct-report count of
// every employee in directory order. Employees missing from depths are left
// out.
func WriteStructure(w io.Writer, dir Directory, depths map[int64]int, f Format) error {
	employees := dir.Employees()
	rows := make([]structureRow, 0, len(employees))
	for _, e := range employees {
		d, ok := depths[e.ID]
		if !ok {
			continue
		}
		rows = append(rows, structureRow{
			ID:            e.ID,
			FirstName:     e.FirstName,
			LastName:      e.LastName,
			ManagerID:     e.ManagerID,
			ReportingLine: d,
			DirectReports: len(dir.Subordinates(e.ID)),
		})
	}

	if f != FormatText && f != "" {
		return encode(w, rows, f)
	}
	var b strings.Builder
	for _, r := range rows {
		fmt.Fprintf(&b, "id: %d, name: %s, last name: %s, reporting line: %d, direct reports: %d\n",
			r.ID, r.FirstName, r.LastName, r.ReportingLine, r.DirectReports)
	}
	if _, err := io.WriteString(w, b.String()); err != nil {
		return errors.Wrap(err, "write structure")
	}
	return nil
}
