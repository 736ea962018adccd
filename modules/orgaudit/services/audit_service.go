package services

import (
	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/orgaudit/modules/orgaudit/domain/employee"
	"github.com/iota-uz/orgaudit/modules/orgaudit/domain/salary"
	"github.com/iota-uz/orgaudit/pkg/logging"
)

const DefaultMaxReportingDepth = 4

// OrganizationReader is the read side of the organization store.
type OrganizationReader interface {
	CalculateCompanyStructure() map[int64]int
	ManagersWithFilterBySalary(p salary.Policy) map[int64]float64
	Employee(id int64) (employee.Employee, bool)
	Len() int
}

// AuditService applies the reporting-line and salary rules on top of an
// OrganizationReader. It keeps no state of its own.
type AuditService struct {
	org    OrganizationReader
	logger logrus.FieldLogger
}

func NewAuditService(org OrganizationReader, logger logrus.FieldLogger) *AuditService {
	if logger == nil {
		logger = logging.Discard()
	}
	return &AuditService{org: org, logger: logger}
}

// TooLongReportingLine returns the employees whose depth is strictly greater
// than maxDepth.
func (s *AuditService) TooLongReportingLine(maxDepth int) map[int64]int {
	return deeperThan(s.org.CalculateCompanyStructure(), maxDepth)
}

func deeperThan(depths map[int64]int, maxDepth int) map[int64]int {
	out := make(map[int64]int)
	for id, depth := range depths {
		if depth > maxDepth {
			out[id] = depth
		}
	}
	return out
}

// SalaryOutliers lists managers outside the salary band for kind. An
// unsupported kind or ratio is returned as a *ServiceError with a nil map so
// callers can tell it apart from "no outliers".
func (s *AuditService) SalaryOutliers(kind salary.Kind, bigRatio, smallRatio float64) (map[int64]float64, error) {
	policy, err := salary.NewPolicy(kind, bigRatio, smallRatio)
	if err != nil {
		code := CodeInvalidRatio
		if errors.Is(err, salary.ErrInvalidComparisonKind) {
			code = CodeInvalidComparison
		}
		s.logger.WithError(err).WithFields(logrus.Fields{
			"kind": string(kind),
			"code": code,
		}).Warn("orgaudit.salary.policy_rejected")
		return nil, newServiceError(code, "salary outliers unavailable", err)
	}
	return s.org.ManagersWithFilterBySalary(policy), nil
}
