package appointment

import (
	"errors"
	"fmt"
)

// ValidationError indicates malformed input. It is the caller's fault
// and is never worth retrying.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// NewValidationError builds a ValidationError from a format string.
func NewValidationError(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// DomainError indicates an illegal state transition, such as completing
// an appointment twice. Redelivery cannot fix it.
type DomainError struct {
	Msg string
}

func (e *DomainError) Error() string { return e.Msg }

// NewDomainError builds a DomainError from a format string.
func NewDomainError(format string, args ...any) error {
	return &DomainError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError indicates a referenced appointment does not exist.
// Redelivery will not make it appear.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string { return e.Msg }

// NewNotFoundError builds a NotFoundError from a format string.
func NewNotFoundError(format string, args ...any) error {
	return &NotFoundError{Msg: fmt.Sprintf(format, args...)}
}

// RepositoryError wraps a storage failure. The condition may be
// transient, so batch consumers redeliver these.
type RepositoryError struct {
	Op  string
	Err error
}

func (e *RepositoryError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *RepositoryError) Unwrap() error { return e.Err }

// NewRepositoryError wraps err with the failing storage operation.
func NewRepositoryError(op string, err error) error {
	return &RepositoryError{Op: op, Err: err}
}

// MessagingError wraps a publish failure. Like RepositoryError it is
// treated as transient by batch consumers.
type MessagingError struct {
	Op  string
	Err error
}

func (e *MessagingError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *MessagingError) Unwrap() error { return e.Err }

// NewMessagingError wraps err with the failing publish operation.
func NewMessagingError(op string, err error) error {
	return &MessagingError{Op: op, Err: err}
}

// Retryable reports whether redelivering the triggering message could
// succeed. Validation, domain and not-found failures are permanent;
// redelivering them only produces poison-message loops. Everything
// else, including infrastructure failures, is assumed transient.
func Retryable(err error) bool {
	var (
		validation *ValidationError
		domain     *DomainError
		notFound   *NotFoundError
	)
	if errors.As(err, &validation) || errors.As(err, &domain) || errors.As(err, &notFound) {
		return false
	}
	return true
}
