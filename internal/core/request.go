package core

import (
	"errors"
	"fmt"
	"strconv"
)

// Field names used by submissions.
const (
	FieldN = "n"
	FieldM = "m"
)

// Reason classifies why an operand was rejected.
type Reason string

const (
	ReasonMissing   Reason = "missing"
	ReasonMalformed Reason = "malformed"
	ReasonZero      Reason = "zero"
)

// ErrZeroOperand is matched by a ValidationError whose reason is ReasonZero.
var ErrZeroOperand = errors.New("computing the GCD with zero is not meaningful")

// ValidationError reports a submission that must not reach the kernel.
// Field is empty for ReasonZero: zero input gets one undifferentiated
// rejection regardless of which operand (or both) was zero.
type ValidationError struct {
	Field  string
	Reason Reason
	Value  string
	Err    error
}

func (e *ValidationError) Error() string {
	switch e.Reason {
	case ReasonMissing:
		return fmt.Sprintf("field %q is required", e.Field)
	case ReasonZero:
		return ErrZeroOperand.Error()
	default:
		if e.Err != nil {
			return fmt.Sprintf("field %q: invalid unsigned integer %q: %v", e.Field, e.Value, e.Err)
		}
		return fmt.Sprintf("field %q: invalid unsigned integer %q", e.Field, e.Value)
	}
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Is reports zero-operand errors as ErrZeroOperand.
func (e *ValidationError) Is(target error) bool {
	return target == ErrZeroOperand && e.Reason == ReasonZero
}

// Request is a decoded GCD submission.
type Request struct {
	N uint64
	M uint64
}

// Result pairs the computed divisor with the operands it was computed from.
type Result struct {
	N       uint64
	M       uint64
	Divisor uint64
}

// ParseOperand parses a raw field value as a base-10 unsigned 64-bit
// integer. Signs, whitespace and values above 2^64-1 are rejected.
func ParseOperand(field, raw string) (uint64, error) {
	if raw == "" {
		return 0, &ValidationError{Field: field, Reason: ReasonMissing}
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) {
			err = numErr.Err
		}
		return 0, &ValidationError{Field: field, Reason: ReasonMalformed, Value: raw, Err: err}
	}
	return v, nil
}

// NewRequest parses and validates the raw n and m field values.
func NewRequest(n, m string) (Request, error) {
	nv, err := ParseOperand(FieldN, n)
	if err != nil {
		return Request{}, err
	}
	mv, err := ParseOperand(FieldM, m)
	if err != nil {
		return Request{}, err
	}
	req := Request{N: nv, M: mv}
	if err := req.Validate(); err != nil {
		return Request{}, err
	}
	return req, nil
}

// Validate rejects a request with a zero operand.
func (r Request) Validate() error {
	if r.N == 0 || r.M == 0 {
		return &ValidationError{Reason: ReasonZero}
	}
	return nil
}

// Compute validates r and runs the kernel.
func Compute(r Request) (Result, error) {
	if err := r.Validate(); err != nil {
		return Result{}, err
	}
	return Result{N: r.N, M: r.M, Divisor: GCD(r.N, r.M)}, nil
}
