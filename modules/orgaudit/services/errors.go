package services

import "fmt"

const (
	CodeInvalidComparison = "ORG_AUDIT_INVALID_COMPARISON"
	CodeInvalidRatio      = "ORG_AUDIT_INVALID_RATIO"
)

type ServiceError struct {
	Code    string
	Message string
	Cause   error
}

func (e *ServiceError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}

func (e *ServiceError) Unwrap() error { return e.Cause }

func newServiceError(code, message string, cause error) *ServiceError {
	return &ServiceError{Code: code, Message: message, Cause: cause}
}
