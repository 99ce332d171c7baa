// Package code maps integers of a bounded range to fixed format letter and
// digit codes and back, optionally through a reversible permutation.
package code

import (
	"math/big"
	"math/bits"
	"strings"
)

// Kind tells which symbol set a field is written with.
type Kind uint8

const (
	KindLetters Kind = iota + 1
	KindDigits
)

func (k Kind) String() string {
	switch k {
	case KindLetters:
		return "letters"
	case KindDigits:
		return "digits"
	default:
		return "unknown"
	}
}

// Base returns the number of distinct symbols of the kind.
func (k Kind) Base() uint64 {
	switch k {
	case KindLetters:
		return uint64(Radix)
	case KindDigits:
		return 10
	default:
		return 0
	}
}

func (k Kind) symbols() string {
	if k == KindLetters {
		return Letters
	}
	return Digits
}

func (k Kind) index(b byte) (int, bool) {
	if k == KindLetters {
		return LetterIndex(b)
	}
	return DigitIndex(b)
}

// Field is one fixed width group of a code.
type Field struct {
	Kind  Kind
	Width int
}

// L is a letter field of width w.
func L(w int) Field { return Field{Kind: KindLetters, Width: w} }

// D is a digit field of width w.
func D(w int) Field { return Field{Kind: KindDigits, Width: w} }

// Definition declares a code pattern. Fields are listed most significant
// first.
type Definition struct {
	Name      string
	Fields    []Field
	Max       uint64
	LastPrime uint64
	Rounds    int
}

// Scheme is a validated Definition. It is read only once built and safe for
// concurrent use.
type Scheme struct {
	name   string
	fields []Field
	sizes  []uint64
	max    uint64
	prime  uint64
	rounds int

	// powers[k] is Radix^k, up to the widest letter field.
	powers []uint64

	configured bool
}

// NewScheme validates def and returns the configured scheme.
func NewScheme(def Definition) (*Scheme, error) {
	name := def.Name
	if len(def.Fields) == 0 {
		return nil, newError(ErrConfiguration, name, 0, "no fields declared")
	}
	if def.Rounds < 0 {
		return nil, newError(ErrConfiguration, name, def.Rounds, "negative permutation rounds")
	}

	maxLetters := 0
	for i, f := range def.Fields {
		if f.Kind.Base() == 0 {
			return nil, newError(ErrConfiguration, name, f.Kind, "field %d has unknown kind", i)
		}
		if f.Width < 1 {
			return nil, newError(ErrConfiguration, name, f.Width, "field %d has width below 1", i)
		}
		if f.Kind == KindLetters {
			maxLetters = max(maxLetters, f.Width)
		}
	}

	powers := make([]uint64, maxLetters+1)
	powers[0] = 1
	for k := 1; k <= maxLetters; k++ {
		hi, lo := bits.Mul64(powers[k-1], uint64(Radix))
		if hi != 0 {
			return nil, newError(ErrConfiguration, name, k, "letter power overflows")
		}
		powers[k] = lo
	}

	sizes := make([]uint64, len(def.Fields))
	total := uint64(1)
	for i, f := range def.Fields {
		size, ok := fieldSize(f, powers)
		if !ok {
			return nil, newError(ErrConfiguration, name, f.Width, "field %d size overflows", i)
		}
		sizes[i] = size

		hi, lo := bits.Mul64(total, size)
		if hi != 0 {
			return nil, newError(ErrConfiguration, name, def.Max, "domain size overflows")
		}
		total = lo
	}
	if total != def.Max {
		return nil, newError(ErrConfiguration, name, def.Max, "fields multiply out to %d", total)
	}

	prime := def.LastPrime
	if r := prime % 4; r != 3 {
		return nil, newError(ErrConfiguration, name, prime, "prime remainder (mod 4) is %d, not 3", r)
	}
	if prime > def.Max {
		return nil, newError(ErrConfiguration, name, prime, "prime above max %d", def.Max)
	}
	if !isPrime(prime) {
		return nil, newError(ErrConfiguration, name, prime, "not a prime")
	}
	for p := prime + 4; p <= def.Max && p > prime; p += 4 {
		if isPrime(p) {
			return nil, newError(ErrConfiguration, name, prime, "%d is a larger prime (mod 4 = 3) within max", p)
		}
	}

	return &Scheme{
		name:       name,
		fields:     append([]Field(nil), def.Fields...),
		sizes:      sizes,
		max:        def.Max,
		prime:      prime,
		rounds:     def.Rounds,
		powers:     powers,
		configured: true,
	}, nil
}

// MustScheme is like NewScheme but panics on an invalid definition.
func MustScheme(def Definition) *Scheme {
	s, err := NewScheme(def)
	if err != nil {
		panic(err)
	}
	return s
}

func fieldSize(f Field, powers []uint64) (uint64, bool) {
	if f.Kind == KindLetters {
		return powers[f.Width], true
	}

	size := uint64(1)
	for range f.Width {
		hi, lo := bits.Mul64(size, 10)
		if hi != 0 {
			return 0, false
		}
		size = lo
	}
	return size, true
}

func isPrime(n uint64) bool {
	// ProbablyPrime is exact below 2^64.
	return new(big.Int).SetUint64(n).ProbablyPrime(0)
}

// LastPrime returns the largest prime p <= max with p = 3 (mod 4).
func LastPrime(max uint64) (uint64, bool) {
	if max < 3 {
		return 0, false
	}
	for p := max - (max-3)%4; p >= 3; p -= 4 {
		if isPrime(p) {
			return p, true
		}
	}
	return 0, false
}

func (s *Scheme) check() error {
	if s == nil || !s.configured {
		name := ""
		if s != nil {
			name = s.name
		}
		return newError(ErrConfiguration, name, "", "scheme used before configuration")
	}
	return nil
}

func (s *Scheme) Name() string   { return s.name }
func (s *Scheme) String() string { return s.name }

// Max is the exclusive upper bound of the integer domain.
func (s *Scheme) Max() uint64 { return s.max }

// Prime is the permutation modulus.
func (s *Scheme) Prime() uint64 { return s.prime }

// Rounds is how many times the permutation is applied.
func (s *Scheme) Rounds() int { return s.rounds }

// Fields returns a copy of the field layout, most significant first.
func (s *Scheme) Fields() []Field { return append([]Field(nil), s.fields...) }

// Width is the length of a joined code.
func (s *Scheme) Width() int {
	n := 0
	for _, f := range s.fields {
		n += f.Width
	}
	return n
}

// Layout renders the field layout the way patterns are named: letter
// groups alternate A and Z, digit groups alternate 9 and 8.
func (s *Scheme) Layout() string {
	var b strings.Builder
	b.Grow(s.Width())

	letters, digits := 0, 0
	for _, f := range s.fields {
		var c byte
		if f.Kind == KindLetters {
			c = "AZ"[letters%2]
			letters++
		} else {
			c = "98"[digits%2]
			digits++
		}
		b.WriteString(strings.Repeat(string(c), f.Width))
	}
	return b.String()
}

// Permute applies one round of the permutation.
func (s *Scheme) Permute(x uint64) (uint64, error) {
	if err := s.check(); err != nil {
		return 0, err
	}
	v, err := Permute(x, s.prime, s.max)
	return v, s.named(err)
}

// Unpermute inverts one round of the permutation.
func (s *Scheme) Unpermute(y uint64) (uint64, error) {
	if err := s.check(); err != nil {
		return 0, err
	}
	v, err := Unpermute(y, s.prime, s.max)
	return v, s.named(err)
}

// PermuteN applies the scheme's configured number of rounds.
func (s *Scheme) PermuteN(x uint64) (uint64, error) {
	if err := s.check(); err != nil {
		return 0, err
	}
	v, err := PermuteN(x, s.prime, s.max, s.rounds)
	return v, s.named(err)
}

// UnpermuteN undoes PermuteN.
func (s *Scheme) UnpermuteN(y uint64) (uint64, error) {
	if err := s.check(); err != nil {
		return 0, err
	}
	v, err := UnpermuteN(y, s.prime, s.max, s.rounds)
	return v, s.named(err)
}

func (s *Scheme) named(err error) error {
	if e, ok := err.(*Error); ok && e.Pattern == "" {
		e.Pattern = s.name
	}
	return err
}
