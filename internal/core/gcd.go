package core

// GCD returns the greatest common divisor of n and m using the Euclidean
// algorithm by repeated remainder.
//
// Both operands must be non-zero. A zero operand is a programming error in
// the caller and panics; use Compute for values that came from user input.
func GCD(n, m uint64) uint64 {
	if n == 0 || m == 0 {
		panic("core.GCD: operands must be non-zero")
	}
	for m != 0 {
		if m < n {
			n, m = m, n
		}
		m %= n
	}
	return n
}
