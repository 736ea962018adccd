package memory

import (
	"testing"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/orgaudit/modules/orgaudit/domain/employee"
	"github.com/iota-uz/orgaudit/modules/orgaudit/domain/salary"
)

func mgr(id int64) *int64 { return &id }

func sampleEmployees() []employee.Employee {
	return []employee.Employee{
		employee.New(123, "Joe", "Doe", 60000, nil),
		employee.New(124, "Martin", "Chekov", 45000, mgr(123)),
		employee.New(125, "Bob", "Ronstad", 47000, mgr(123)),
		employee.New(300, "Alice", "Hasacat", 50000, mgr(124)),
		employee.New(305, "Brett", "Hardleaf", 34000, mgr(300)),
	}
}

func newSampleStore(t *testing.T, opts ...Option) *OrganizationStore {
	t.Helper()
	s := NewOrganizationStore(opts...)
	for _, e := range sampleEmployees() {
		s.AddEmployee(e)
	}
	return s
}

func TestOrganizationStore_CalculateCompanyStructure(t *testing.T) {
	s := newSampleStore(t)

	got := s.CalculateCompanyStructure()
	require.Equal(t, map[int64]int{123: 0, 124: 1, 125: 1, 300: 2, 305: 3}, got)
}

func TestOrganizationStore_CalculateCompanyStructure_AnyInsertionOrder(t *testing.T) {
	s := NewOrganizationStore()
	emps := sampleEmployees()
	for i := len(emps) - 1; i >= 0; i-- {
		s.AddEmployee(emps[i])
	}

	require.Equal(t, map[int64]int{123: 0, 124: 1, 125: 1, 300: 2, 305: 3}, s.CalculateCompanyStructure())
}

func TestOrganizationStore_CalculateCompanyStructure_Idempotent(t *testing.T) {
	s := newSampleStore(t)

	first := s.CalculateCompanyStructure()
	second := s.CalculateCompanyStructure()
	require.Equal(t, first, second)
}

func TestOrganizationStore_CalculateCompanyStructure_Empty(t *testing.T) {
	s := NewOrganizationStore()

	got := s.CalculateCompanyStructure()
	require.NotNil(t, got)
	require.Empty(t, got)
}

func TestOrganizationStore_CalculateCompanyStructure_DepthIsOnePlusManager(t *testing.T) {
	s := newSampleStore(t)
	got := s.CalculateCompanyStructure()

	for _, e := range s.Employees() {
		if e.IsRoot() {
			require.Equal(t, 0, got[e.ID])
			continue
		}
		require.Equal(t, got[*e.ManagerID]+1, got[e.ID])
	}
}

func TestOrganizationStore_CalculateCompanyStructure_CycleFailsClosed(t *testing.T) {
	logger, hook := test.NewNullLogger()
	s := NewOrganizationStore(WithLogger(logger))
	s.AddEmployee(employee.New(1, "A", "A", 10, mgr(2)))
	s.AddEmployee(employee.New(2, "B", "B", 10, mgr(1)))

	got := s.CalculateCompanyStructure()
	require.NotNil(t, got)
	require.Empty(t, got)
	require.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	require.Equal(t, "orgaudit.structure.failed", hook.LastEntry().Message)
	require.Equal(t, string(StructuralCycle), hook.LastEntry().Data["kind"])

	_, err := s.Structure()
	require.True(t, errors.Is(err, ErrStructuralFailure))
	var se *StructuralError
	require.True(t, errors.As(err, &se))
	require.Equal(t, StructuralCycle, se.Kind)
	require.Equal(t, 2, se.Limit)
}

func TestOrganizationStore_CalculateCompanyStructure_CycleBelowValidRoot(t *testing.T) {
	s := newSampleStore(t)
	s.AddEmployee(employee.New(900, "X", "X", 1, mgr(901)))
	s.AddEmployee(employee.New(901, "Y", "Y", 1, mgr(902)))
	s.AddEmployee(employee.New(902, "Z", "Z", 1, mgr(900)))

	require.Empty(t, s.CalculateCompanyStructure())
}

func TestOrganizationStore_CalculateCompanyStructure_DanglingManager(t *testing.T) {
	s := newSampleStore(t)
	s.AddEmployee(employee.New(400, "Lost", "Soul", 1000, mgr(999)))

	got := s.CalculateCompanyStructure()
	require.Empty(t, got)

	_, err := s.Structure()
	var se *StructuralError
	require.True(t, errors.As(err, &se))
	require.Equal(t, StructuralDangling, se.Kind)
	require.Equal(t, int64(400), se.EmployeeID)
	require.Equal(t, int64(999), se.ManagerID)
}

func TestOrganizationStore_ManagersWithFilterBySalary(t *testing.T) {
	s := newSampleStore(t)

	poor := s.ManagersWithFilterBySalary(salary.Policy{Kind: salary.Underpaid, Ratio: 1})
	require.Equal(t, map[int64]float64{124: 5000}, poor)
}

func TestOrganizationStore_ManagersWithFilterBySalary_ExcludesNonPositive(t *testing.T) {
	s := newSampleStore(t)

	// Joe: 60000 vs avg 46000*1.5=69000, Martin: 45000 vs 75000, Alice: 50000 vs 51000.
	rich := s.ManagersWithFilterBySalary(salary.Policy{Kind: salary.Overpaid, Ratio: 1.5})
	require.Empty(t, rich)
	require.NotNil(t, rich)

	for _, diff := range s.ManagersWithFilterBySalary(salary.Policy{Kind: salary.Overpaid, Ratio: 1}) {
		require.Greater(t, diff, 0.0)
	}
}

func TestOrganizationStore_ManagersWithFilterBySalary_SkipsUnknownManager(t *testing.T) {
	logger, hook := test.NewNullLogger()
	s := newSampleStore(t, WithLogger(logger))
	s.AddEmployee(employee.New(400, "Lost", "Soul", 1000000, mgr(999)))

	got := s.ManagersWithFilterBySalary(salary.Policy{Kind: salary.Underpaid, Ratio: 1})
	require.Equal(t, map[int64]float64{124: 5000}, got)
	require.Equal(t, "orgaudit.salary.unknown_manager", hook.LastEntry().Message)
	require.Equal(t, int64(999), hook.LastEntry().Data["manager_id"])
}

func TestOrganizationStore_AddEmployee_LastWriteWins(t *testing.T) {
	s := newSampleStore(t)
	s.AddEmployee(employee.New(300, "Alice", "Hasacat", 40000, mgr(124)))

	require.Equal(t, 5, s.Len())
	got, ok := s.Employee(300)
	require.True(t, ok)
	require.Equal(t, 40000.0, got.Salary)
	require.Equal(t, []int64{300}, s.Subordinates(124))

	// Martin now earns more than Alice.
	require.Empty(t, s.ManagersWithFilterBySalary(salary.Policy{Kind: salary.Underpaid, Ratio: 1}))
}

func TestOrganizationStore_AddEmployee_ReassignRetractsOldAttribution(t *testing.T) {
	s := newSampleStore(t)
	s.AddEmployee(employee.New(300, "Alice", "Hasacat", 50000, mgr(125)))

	require.Empty(t, s.Subordinates(124))
	require.Equal(t, []int64{300}, s.Subordinates(125))

	got := s.ManagersWithFilterBySalary(salary.Policy{Kind: salary.Underpaid, Ratio: 1})
	require.Equal(t, map[int64]float64{125: 3000}, got)
}

func TestOrganizationStore_AddEmployee_PromoteToRoot(t *testing.T) {
	s := newSampleStore(t)
	s.AddEmployee(employee.New(305, "Brett", "Hardleaf", 34000, nil))

	require.Empty(t, s.Subordinates(300))
	require.Equal(t, 0, s.CalculateCompanyStructure()[305])
}

func TestOrganizationStore_CEO(t *testing.T) {
	s := newSampleStore(t)
	require.False(t, s.IsCEODefined())
	_, ok := s.CEO()
	require.False(t, ok)

	s.MarkCEO(123)
	require.True(t, s.IsCEODefined())
	ceo, ok := s.CEO()
	require.True(t, ok)
	require.Equal(t, "Joe", ceo.FirstName)
}

func TestOrganizationStore_CEO_ClearedWhenRootGetsManager(t *testing.T) {
	s := NewOrganizationStore()
	s.AddEmployee(employee.New(1, "Root", "One", 100, nil))
	s.MarkCEO(1)
	s.AddEmployee(employee.New(2, "Root", "Two", 100, nil))

	s.AddEmployee(employee.New(1, "Root", "One", 100, mgr(2)))

	require.False(t, s.IsCEODefined())
	_, ok := s.CEO()
	require.False(t, ok)
}

func TestOrganizationStore_CEO_KeptWhenRootReAddedAsRoot(t *testing.T) {
	s := NewOrganizationStore()
	s.AddEmployee(employee.New(1, "Root", "One", 100, nil))
	s.MarkCEO(1)

	s.AddEmployee(employee.New(1, "Root", "One", 200, nil))

	ceo, ok := s.CEO()
	require.True(t, ok)
	require.Equal(t, 200.0, ceo.Salary)
}

func TestOrganizationStore_Employees_SortedByID(t *testing.T) {
	s := NewOrganizationStore()
	s.AddEmployee(employee.New(3, "C", "C", 1, mgr(1)))
	s.AddEmployee(employee.New(1, "A", "A", 1, nil))
	s.AddEmployee(employee.New(2, "B", "B", 1, mgr(1)))

	var ids []int64
	for _, e := range s.Employees() {
		ids = append(ids, e.ID)
	}
	require.Equal(t, []int64{1, 2, 3}, ids)
	require.Equal(t, []int64{3, 2}, s.Subordinates(1))
}
