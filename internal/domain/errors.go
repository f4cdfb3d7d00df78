package domain

import (
	"errors"
	"fmt"
)

// ErrEmptyInput is matched by every EmptyInputError through errors.Is.
var ErrEmptyInput = errors.New("empty input")

// EmptyInputError is returned when one side of a reconciliation parsed to zero
// transactions.
type EmptyInputError struct {
	Side Side
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("no valid transactions found in %s file", e.Side)
}

func (e *EmptyInputError) Is(target error) bool {
	return target == ErrEmptyInput
}
