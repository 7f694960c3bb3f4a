package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGCD(t *testing.T) {
	tests := []struct {
		name string
		n, m uint64
		want uint64
	}{
		{"coprime", 14, 15, 1},
		{"shared factors", 2 * 3 * 11 * 17, 3 * 7 * 11 * 13 * 19, 3 * 11},
		{"form example", 12, 18, 6},
		{"one", 1, 987654321, 1},
		{"equal", 42, 42, 42},
		{"divides", 7, 49, 7},
		{"max", math.MaxUint64, math.MaxUint64, math.MaxUint64},
		{"max and three", math.MaxUint64, 3, 3},
		{"fibonacci neighbours", 7540113804746346429, 4660046610375530309, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GCD(tt.n, tt.m))
		})
	}
}

func TestGCD_Properties(t *testing.T) {
	for a := uint64(1); a <= 60; a++ {
		assert.Equal(t, a, GCD(a, a), "gcd(a, a) == a for a=%d", a)
		for b := uint64(1); b <= 60; b++ {
			d := GCD(a, b)
			assert.Equal(t, d, GCD(b, a), "commutative for %d, %d", a, b)
			assert.Zero(t, a%d, "%d divides %d", d, a)
			assert.Zero(t, b%d, "%d divides %d", d, b)
			for larger := d + 1; larger <= min(a, b); larger++ {
				if a%larger == 0 && b%larger == 0 {
					t.Fatalf("gcd(%d, %d) = %d but %d is a larger common divisor", a, b, d, larger)
				}
			}
			for c := uint64(1); c <= 12; c++ {
				assert.Equal(t, GCD(GCD(a, b), c), GCD(a, GCD(b, c)), "associative for %d, %d, %d", a, b, c)
			}
		}
	}
}

func TestGCD_PanicsOnZero(t *testing.T) {
	assert.Panics(t, func() { GCD(0, 5) })
	assert.Panics(t, func() { GCD(5, 0) })
	assert.Panics(t, func() { GCD(0, 0) })
}
