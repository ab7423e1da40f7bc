package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// Error taxonomy shared by every store operation. Handlers map these to
// HTTP statuses with errors.Is.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalid         = errors.New("invalid input")
	ErrMissingField    = errors.New("missing required field")
	ErrEmptyCart       = errors.New("your cart is empty")
	ErrAuthFailure     = errors.New("invalid email or password")
	ErrUnauthenticated = errors.New("authentication required")
)

// MissingFieldError names every required field that was absent.
type MissingFieldError struct {
	Fields []string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field(s): %s", strings.Join(e.Fields, ", "))
}

func (e *MissingFieldError) Unwrap() error {
	return ErrMissingField
}

// invalidf wraps ErrInvalid with a human readable reason.
func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// notFoundf wraps ErrNotFound with the name of the missing thing.
func notFoundf(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrNotFound)
}

// isDuplicateKey reports whether err is a unique-constraint violation.
func isDuplicateKey(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
