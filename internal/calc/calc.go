// Package calc performs arithmetic over selected history values.
//
// All failures are descriptive, non-fatal errors: bad arity or a zero divisor
// yields a message, never a panic and never a numeric result.
package calc

import (
	"errors"
	"fmt"
	"math"
)

// Supported operations.
const (
	OpAdd      = "add"
	OpMultiply = "multiply"
	OpDivide   = "divide"
)

// Sentinel errors for calculation failures.
var (
	// ErrArity is returned when an operation gets the wrong number of values.
	ErrArity = errors.New("wrong number of selected values")

	// ErrDivideByZero is returned when the divisor is zero.
	ErrDivideByZero = errors.New("cannot divide by zero")

	// ErrUnknownOp is returned for an unrecognized operation name.
	ErrUnknownOp = errors.New("unknown operation")
)

// Add sums the values. Requires at least two.
func Add(values []int) (int, error) {
	if len(values) < 2 {
		return 0, fmt.Errorf("%w: add requires at least 2 values, got %d", ErrArity, len(values))
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return sum, nil
}

// Multiply multiplies the values. Requires at least two.
func Multiply(values []int) (int, error) {
	if len(values) < 2 {
		return 0, fmt.Errorf("%w: multiply requires at least 2 values, got %d", ErrArity, len(values))
	}
	product := 1
	for _, v := range values {
		product *= v
	}
	return product, nil
}

// Divide divides the first value by the second, rounded to 2 decimal places.
// Requires exactly two values and a non-zero divisor.
func Divide(values []int) (float64, error) {
	if len(values) != 2 {
		return 0, fmt.Errorf("%w: divide requires exactly 2 values, got %d", ErrArity, len(values))
	}
	if values[1] == 0 {
		return 0, ErrDivideByZero
	}
	q := float64(values[0]) / float64(values[1])
	return math.Round(q*100) / 100, nil
}

// Apply dispatches op over values and returns the result as a float64.
func Apply(op string, values []int) (float64, error) {
	switch op {
	case OpAdd:
		n, err := Add(values)
		return float64(n), err
	case OpMultiply:
		n, err := Multiply(values)
		return float64(n), err
	case OpDivide:
		return Divide(values)
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownOp, op)
	}
}
