package services

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/orgaudit/modules/orgaudit/domain/employee"
	"github.com/iota-uz/orgaudit/modules/orgaudit/domain/salary"
)

type SectionName string

const (
	SectionReportingLine SectionName = "reporting_line"
	SectionOverpaid      SectionName = "overpaid"
	SectionUnderpaid     SectionName = "underpaid"
)

type Thresholds struct {
	MaxReportingDepth int     `json:"max_reporting_depth" yaml:"max_reporting_depth" toml:"max_reporting_depth"`
	BigRatio          float64 `json:"big_ratio" yaml:"big_ratio" toml:"big_ratio"`
	SmallRatio        float64 `json:"small_ratio" yaml:"small_ratio" toml:"small_ratio"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		MaxReportingDepth: DefaultMaxReportingDepth,
		BigRatio:          salary.DefaultBigRatio,
		SmallRatio:        salary.DefaultSmallRatio,
	}
}

// Entry is one listed employee. Value is the reporting-line depth for
// SectionReportingLine and the salary difference otherwise.
type Entry struct {
	Employee employee.Employee `json:"employee" yaml:"employee"`
	Value    float64           `json:"value" yaml:"value"`
}

// Section is one part of the report. Available is false when the section
// could not be computed, which is different from an empty Entries list.
type Section struct {
	Name      SectionName `json:"name" yaml:"name"`
	Title     string      `json:"title" yaml:"title"`
	Available bool        `json:"available" yaml:"available"`
	Reason    string      `json:"reason,omitempty" yaml:"reason,omitempty"`
	Entries   []Entry     `json:"entries" yaml:"entries"`
}

type Report struct {
	RunID       uuid.UUID  `json:"run_id" yaml:"run_id"`
	GeneratedAt time.Time  `json:"generated_at" yaml:"generated_at"`
	Source      string     `json:"source,omitempty" yaml:"source,omitempty"`
	Employees   int        `json:"employees" yaml:"employees"`
	Thresholds  Thresholds `json:"thresholds" yaml:"thresholds"`
	Sections    []Section  `json:"sections" yaml:"sections"`
}

func (r Report) Section(name SectionName) (Section, bool) {
	for _, s := range r.Sections {
		if s.Name == name {
			return s, true
		}
	}
	return Section{}, false
}

// BuildReport runs every rule against the organization and collects the
// results in a fixed section order.
func (s *AuditService) BuildReport(th Thresholds) Report {
	r := Report{
		RunID:       uuid.New(),
		GeneratedAt: time.Now().UTC(),
		Employees:   s.org.Len(),
		Thresholds:  th,
	}

	r.Sections = append(r.Sections,
		s.reportingLineSection(th.MaxReportingDepth),
		s.salarySection(salary.Overpaid, th),
		s.salarySection(salary.Underpaid, th),
	)

	for i := range r.Sections {
		sortEntries(r.Sections[i].Entries)
		recordSection(r.Sections[i])
	}

	s.logger.WithFields(logrus.Fields{
		"run_id":         r.RunID.String(),
		"employees":      r.Employees,
		"reporting_line": len(r.Sections[0].Entries),
		"overpaid":       len(r.Sections[1].Entries),
		"underpaid":      len(r.Sections[2].Entries),
	}).Info("orgaudit.report.built")
	return r
}

// structureReader is implemented by stores that can say why the company
// structure could not be computed.
type structureReader interface {
	Structure() (map[int64]int, error)
}

func (s *AuditService) reportingLineSection(maxDepth int) Section {
	sec := Section{Name: SectionReportingLine, Title: "Employees have a reporting line which is too long"}
	var long map[int64]int
	if sr, ok := s.org.(structureReader); ok {
		depths, err := sr.Structure()
		if err != nil {
			sec.Reason = err.Error()
			return sec
		}
		long = deeperThan(depths, maxDepth)
	} else {
		long = s.TooLongReportingLine(maxDepth)
	}
	sec.Available = true
	sec.Entries = make([]Entry, 0, len(long))
	for id, d := range long {
		sec.Entries = append(sec.Entries, s.entry(id, float64(d)))
	}
	return sec
}

// BuildSalaryReport runs only the salary rule for kind. The result has the
// same shape as BuildReport so the same writers can render it.
func (s *AuditService) BuildSalaryReport(kind salary.Kind, th Thresholds) Report {
	r := Report{
		RunID:       uuid.New(),
		GeneratedAt: time.Now().UTC(),
		Employees:   s.org.Len(),
		Thresholds:  th,
		Sections:    []Section{s.salarySection(kind, th)},
	}
	sortEntries(r.Sections[0].Entries)
	recordSection(r.Sections[0])
	return r
}

func salarySectionHeader(kind salary.Kind) (SectionName, string) {
	switch kind {
	case salary.Overpaid:
		return SectionOverpaid, "Managers earn more than they should"
	case salary.Underpaid:
		return SectionUnderpaid, "Managers earn less than they should"
	default:
		return SectionName(kind), "Managers outside the salary band"
	}
}

func (s *AuditService) salarySection(kind salary.Kind, th Thresholds) Section {
	name, title := salarySectionHeader(kind)
	sec := Section{Name: name, Title: title}
	diffs, err := s.SalaryOutliers(kind, th.BigRatio, th.SmallRatio)
	if err != nil {
		sec.Reason = err.Error()
		return sec
	}
	sec.Available = true
	sec.Entries = make([]Entry, 0, len(diffs))
	for id, diff := range diffs {
		sec.Entries = append(sec.Entries, s.entry(id, diff))
	}
	return sec
}

func (s *AuditService) entry(id int64, value float64) Entry {
	e, ok := s.org.Employee(id)
	if !ok {
		e = employee.Employee{ID: id}
	}
	return Entry{Employee: e, Value: value}
}

func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].Employee.ID < entries[j].Employee.ID })
}
