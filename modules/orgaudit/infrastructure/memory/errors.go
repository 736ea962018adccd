package memory

import (
	"fmt"

	"github.com/go-faster/errors"
)

// ErrStructuralFailure matches every StructuralError.
var ErrStructuralFailure = errors.New("structural failure in manager graph")

type StructuralKind string

const (
	StructuralCycle    StructuralKind = "cycle"
	StructuralDangling StructuralKind = "dangling_manager"
)

// StructuralError describes why a reporting line could not be resolved.
type StructuralError struct {
	Kind       StructuralKind
	EmployeeID int64
	ManagerID  int64
	Limit      int
}

func (e *StructuralError) Error() string {
	switch e.Kind {
	case StructuralDangling:
		return fmt.Sprintf("%s: employee %d references unknown manager %d", ErrStructuralFailure, e.EmployeeID, e.ManagerID)
	default:
		return fmt.Sprintf("%s: reporting line of employee %d exceeds %d steps", ErrStructuralFailure, e.EmployeeID, e.Limit)
	}
}

func (e *StructuralError) Is(target error) bool {
	return target == ErrStructuralFailure
}
