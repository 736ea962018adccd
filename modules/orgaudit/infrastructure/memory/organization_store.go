// Package memory holds the single-snapshot organization model. It is built
// once per batch, queried, and dropped; nothing here is safe for concurrent use.
package memory

import (
	"sort"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/orgaudit/modules/orgaudit/domain/employee"
	"github.com/iota-uz/orgaudit/modules/orgaudit/domain/salary"
	"github.com/iota-uz/orgaudit/pkg/logging"
)

type OrganizationStore struct {
	employees map[int64]employee.Employee
	// manager id -> direct subordinate ids, in insertion order
	subordinates map[int64][]int64
	// memoized reporting-line depth; never invalidated
	depths map[int64]int
	ceoID  *int64
	logger logrus.FieldLogger
}

type Option func(*OrganizationStore)

func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *OrganizationStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewOrganizationStore(opts ...Option) *OrganizationStore {
	s := &OrganizationStore{
		employees:    make(map[int64]employee.Employee),
		subordinates: make(map[int64][]int64),
		depths:       make(map[int64]int),
		logger:       logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddEmployee registers e, replacing any earlier record with the same id.
// The manager reference is not checked here. When a re-added employee moves
// to another manager, the old attribution is retracted first.
func (s *OrganizationStore) AddEmployee(e employee.Employee) {
	e = employee.New(e.ID, e.FirstName, e.LastName, e.Salary, e.ManagerID)
	prev, existed := s.employees[e.ID]
	s.employees[e.ID] = e

	if existed && prev.ManagerID != nil && !e.ReportsTo(*prev.ManagerID) {
		s.detach(*prev.ManagerID, e.ID)
	}
	if s.ceoID != nil && *s.ceoID == e.ID && e.ManagerID != nil {
		s.ceoID = nil
	}
	if e.ManagerID == nil {
		return
	}
	if existed && prev.ReportsTo(*e.ManagerID) {
		return
	}
	s.subordinates[*e.ManagerID] = append(s.subordinates[*e.ManagerID], e.ID)
}

func (s *OrganizationStore) detach(managerID, employeeID int64) {
	subs := s.subordinates[managerID]
	for i, id := range subs {
		if id != employeeID {
			continue
		}
		subs = append(subs[:i:i], subs[i+1:]...)
		break
	}
	if len(subs) == 0 {
		delete(s.subordinates, managerID)
		return
	}
	s.subordinates[managerID] = subs
}

// CalculateCompanyStructure maps every employee id to its reporting-line
// depth. Any structural failure is logged and yields an empty map, never a
// partial one.
func (s *OrganizationStore) CalculateCompanyStructure() map[int64]int {
	out, err := s.Structure()
	if err != nil {
		fields := logrus.Fields{"employees": len(s.employees)}
		var se *StructuralError
		if errors.As(err, &se) {
			fields["kind"] = string(se.Kind)
			fields["employee_id"] = se.EmployeeID
		}
		s.logger.WithError(err).WithFields(fields).Error("orgaudit.structure.failed")
		return map[int64]int{}
	}
	return out
}

// Structure is CalculateCompanyStructure with the failure returned instead
// of logged.
func (s *OrganizationStore) Structure() (map[int64]int, error) {
	limit := len(s.employees)
	out := make(map[int64]int, limit)
	for id := range s.employees {
		d, err := s.depthOf(id, limit)
		if err != nil {
			return map[int64]int{}, err
		}
		out[id] = d
	}
	return out, nil
}

// depthOf walks up the manager chain until it reaches a root or a memoized
// ancestor, then fills the memo on the way back. The walk may not take more
// than limit steps: with limit employees no valid chain is longer.
func (s *OrganizationStore) depthOf(id int64, limit int) (int, error) {
	if d, ok := s.depths[id]; ok {
		return d, nil
	}
	var path []int64
	cur := id
	base := 0
	for {
		if d, ok := s.depths[cur]; ok {
			base = d
			break
		}
		e, ok := s.employees[cur]
		if !ok {
			return 0, &StructuralError{Kind: StructuralDangling, EmployeeID: path[len(path)-1], ManagerID: cur}
		}
		if e.ManagerID == nil {
			s.depths[cur] = 0
			break
		}
		path = append(path, cur)
		if len(path) > limit {
			return 0, &StructuralError{Kind: StructuralCycle, EmployeeID: id, Limit: limit}
		}
		cur = *e.ManagerID
	}
	for i := len(path) - 1; i >= 0; i-- {
		base++
		s.depths[path[i]] = base
	}
	return s.depths[id], nil
}

// ManagersWithFilterBySalary compares every manager's salary with the
// average salary of their direct subordinates using p, and keeps the
// managers whose difference is strictly positive.
func (s *OrganizationStore) ManagersWithFilterBySalary(p salary.Policy) map[int64]float64 {
	out := make(map[int64]float64)
	for managerID, subs := range s.subordinates {
		manager, ok := s.employees[managerID]
		if !ok {
			s.logger.WithFields(logrus.Fields{
				"manager_id":   managerID,
				"subordinates": len(subs),
			}).Warn("orgaudit.salary.unknown_manager")
			continue
		}
		avg, ok := s.averageSalary(subs)
		if !ok {
			continue
		}
		if diff := p.Difference(manager.Salary, avg); diff > 0 {
			out[managerID] = diff
		}
	}
	return out
}

func (s *OrganizationStore) averageSalary(ids []int64) (float64, bool) {
	if len(ids) == 0 {
		return 0, false
	}
	var sum float64
	for _, id := range ids {
		sum += s.employees[id].Salary
	}
	return sum / float64(len(ids)), true
}

// MarkCEO records id as the designated top of the hierarchy. Ingestion uses
// it to allow exactly one root row.
func (s *OrganizationStore) MarkCEO(id int64) {
	s.ceoID = &id
}

func (s *OrganizationStore) IsCEODefined() bool {
	return s.ceoID != nil
}

func (s *OrganizationStore) CEO() (employee.Employee, bool) {
	if s.ceoID == nil {
		return employee.Employee{}, false
	}
	e, ok := s.employees[*s.ceoID]
	return e, ok
}

func (s *OrganizationStore) Employee(id int64) (employee.Employee, bool) {
	e, ok := s.employees[id]
	return e, ok
}

// Employees returns all registered employees ordered by id.
func (s *OrganizationStore) Employees() []employee.Employee {
	out := make([]employee.Employee, 0, len(s.employees))
	for _, e := range s.employees {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *OrganizationStore) Subordinates(managerID int64) []int64 {
	subs := s.subordinates[managerID]
	out := make([]int64, len(subs))
	copy(out, subs)
	return out
}

func (s *OrganizationStore) Len() int {
	return len(s.employees)
}
