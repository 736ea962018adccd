package employee

import (
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-playground/validator/v10"
)

var ErrInvalidEmployee = errors.New("invalid employee")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Employee is a single row of the organization snapshot. ManagerID is nil for
// the top of the hierarchy.
type Employee struct {
	ID        int64   `json:"id" yaml:"id" validate:"gte=0"`
	FirstName string  `json:"first_name" yaml:"first_name" validate:"required"`
	LastName  string  `json:"last_name" yaml:"last_name" validate:"required"`
	Salary    float64 `json:"salary" yaml:"salary" validate:"gte=0"`
	ManagerID *int64  `json:"manager_id,omitempty" yaml:"manager_id,omitempty"`
}

func New(id int64, firstName, lastName string, salary float64, managerID *int64) Employee {
	e := Employee{
		ID:        id,
		FirstName: firstName,
		LastName:  lastName,
		Salary:    salary,
	}
	if managerID != nil {
		m := *managerID
		e.ManagerID = &m
	}
	return e
}

func (e Employee) IsRoot() bool {
	return e.ManagerID == nil
}

// ReportsTo reports whether the employee's direct manager is managerID.
func (e Employee) ReportsTo(managerID int64) bool {
	return e.ManagerID != nil && *e.ManagerID == managerID
}

func (e *Employee) Normalize() {
	e.FirstName = strings.TrimSpace(e.FirstName)
	e.LastName = strings.TrimSpace(e.LastName)
}

// Validate checks the mandatory fields. A manager reference to itself is
// rejected here because it can never be part of a valid chain.
func (e *Employee) Validate() error {
	e.Normalize()
	if err := validate.Struct(e); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return errors.Errorf("%s failed %q: %w", fe.Field(), fe.Tag(), ErrInvalidEmployee)
		}
		return errors.Wrap(ErrInvalidEmployee, err.Error())
	}
	if e.ManagerID != nil && *e.ManagerID == e.ID {
		return errors.Errorf("employee %d lists itself as manager: %w", e.ID, ErrInvalidEmployee)
	}
	return nil
}

func (e Employee) String() string {
	return fmt.Sprintf("id: %d, name: %s, last name: %s", e.ID, e.FirstName, e.LastName)
}
