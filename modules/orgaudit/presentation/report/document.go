// Package report turns an audit report into text, JSON, YAML or an XLSX
// workbook.
package report

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iota-uz/orgaudit/modules/orgaudit/services"
)

const NoData = "no data available"

// document is the serialized shape shared by the JSON and YAML writers.
// Salary differences are fixed two-place decimals so they round the same
// way in every format.
type document struct {
	RunID       string              `json:"run_id" yaml:"run_id"`
	GeneratedAt time.Time           `json:"generated_at" yaml:"generated_at"`
	Source      string              `json:"source,omitempty" yaml:"source,omitempty"`
	Employees   int                 `json:"employees" yaml:"employees"`
	Thresholds  services.Thresholds `json:"thresholds" yaml:"thresholds"`
	Sections    []sectionDoc        `json:"sections" yaml:"sections"`
}

type sectionDoc struct {
	Name      services.SectionName `json:"name" yaml:"name"`
	Title     string               `json:"title" yaml:"title"`
	Available bool                 `json:"available" yaml:"available"`
	Reason    string               `json:"reason,omitempty" yaml:"reason,omitempty"`
	Entries   []entryDoc           `json:"entries" yaml:"entries"`
}

type entryDoc struct {
	ID        int64  `json:"id" yaml:"id"`
	FirstName string `json:"first_name" yaml:"first_name"`
	LastName  string `json:"last_name" yaml:"last_name"`
	ManagerID *int64 `json:"manager_id,omitempty" yaml:"manager_id,omitempty"`
	Depth     *int   `json:"reporting_line,omitempty" yaml:"reporting_line,omitempty"`
	Amount    string `json:"amount,omitempty" yaml:"amount,omitempty"`
}

func newDocument(r services.Report) document {
	doc := document{
		RunID:       r.RunID.String(),
		GeneratedAt: r.GeneratedAt,
		Source:      r.Source,
		Employees:   r.Employees,
		Thresholds:  r.Thresholds,
		Sections:    make([]sectionDoc, 0, len(r.Sections)),
	}
	for _, s := range r.Sections {
		sd := sectionDoc{
			Name:      s.Name,
			Title:     s.Title,
			Available: s.Available,
			Reason:    s.Reason,
			Entries:   make([]entryDoc, 0, len(s.Entries)),
		}
		for _, e := range s.Entries {
			ed := entryDoc{
				ID:        e.Employee.ID,
				FirstName: e.Employee.FirstName,
				LastName:  e.Employee.LastName,
				ManagerID: e.Employee.ManagerID,
			}
			if s.Name == services.SectionReportingLine {
				d := int(e.Value)
				ed.Depth = &d
			} else {
				ed.Amount = FormatAmount(e.Value)
			}
			sd.Entries = append(sd.Entries, ed)
		}
		doc.Sections = append(doc.Sections, sd)
	}
	return doc
}

// FormatAmount renders a salary difference with two decimal places,
// rounding half away from zero.
func FormatAmount(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}
