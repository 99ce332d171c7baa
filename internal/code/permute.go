package code

import (
	"math/bits"
)

// Permute maps x through the quadratic residue permutation over [0, prime).
// Values in [prime, bound) are fixed points. For a prime of 3 (mod 4) the
// mapping is a bijection and Unpermute inverts it.
//
// See https://preshing.com/20121224/how-to-generate-a-sequence-of-unique-random-integers/
func Permute(x, prime, bound uint64) (uint64, error) {
	if x >= bound {
		return 0, newError(ErrRange, "", x, "permute input must be below %d", bound)
	}
	if x >= prime {
		return x, nil
	}

	residue := mulmod(x, x, prime)
	if x <= prime/2 {
		return residue, nil
	}
	return prime - residue, nil
}

// Unpermute is the inverse of Permute. prime must be 3 (mod 4).
//
// The lower half of [0, prime) maps onto the quadratic residues and the
// upper half onto their negations, which are non-residues since -1 is not
// a square modulo such a prime. The square root of a residue y is
// y^((prime+1)/4).
func Unpermute(y, prime, bound uint64) (uint64, error) {
	if y >= bound {
		return 0, newError(ErrRange, "", y, "permute input must be below %d", bound)
	}
	if y >= prime || y == 0 {
		return y, nil
	}

	if powmod(y, (prime-1)/2, prime) == 1 {
		r := powmod(y, (prime+1)/4, prime)
		return min(r, prime-r), nil
	}
	r := powmod(prime-y, (prime+1)/4, prime)
	return max(r, prime-r), nil
}

// PermuteN applies Permute rounds times. Zero rounds is the identity.
func PermuteN(x, prime, bound uint64, rounds int) (uint64, error) {
	return repeat(Permute, x, prime, bound, rounds)
}

// UnpermuteN undoes PermuteN with the same number of rounds.
func UnpermuteN(y, prime, bound uint64, rounds int) (uint64, error) {
	return repeat(Unpermute, y, prime, bound, rounds)
}

func repeat(f func(x, prime, bound uint64) (uint64, error), x, prime, bound uint64, rounds int) (uint64, error) {
	if x >= bound {
		return 0, newError(ErrRange, "", x, "permute input must be below %d", bound)
	}

	var err error
	for range rounds {
		x, err = f(x, prime, bound)
		if err != nil {
			return 0, err
		}
	}
	return x, nil
}

func mulmod(a, b, m uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	return bits.Rem64(hi, lo, m)
}

func powmod(b, e, m uint64) uint64 {
	r := uint64(1) % m
	b %= m
	for e > 0 {
		if e&1 == 1 {
			r = mulmod(r, b, m)
		}
		b = mulmod(b, b, m)
		e >>= 1
	}
	return r
}
