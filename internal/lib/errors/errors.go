package errors

import (
	"fmt"
)

// Fail assembles a new error with defined structure.
// Error message has pattern 'op: err'
func Fail(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
