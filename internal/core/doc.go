// Package core owns the GCD computation and its input contract.
//
// Overview
//
// GCD is the kernel: a pure Euclidean-remainder loop over unsigned 64-bit
// integers. It is only defined for non-zero operands and panics otherwise;
// rejecting zero is the caller's job, not the kernel's.
//
// Requests
//
// Request carries the two operands decoded from a submission. NewRequest
// parses raw field values and validates them, returning a *ValidationError
// that names the field and the reason (missing, malformed, zero). Compute
// validates once more and then calls GCD, so the kernel precondition always
// holds on that path.
//
// Concurrency & Safety
//
// Nothing in this package keeps state. Every value is owned by the caller
// that created it and all functions are safe for concurrent use.
//
// The core package is unaware of HTTP, form encoding or HTML.
package core
