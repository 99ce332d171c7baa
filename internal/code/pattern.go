package code

import (
	"fmt"
	"strings"

	"github.com/hbollon/go-edlib"
)

// Pattern is one of the known code layouts.
type Pattern uint8

const (
	AA999ZZ Pattern = iota
	AA999888
	A99
	AA99
	AA99ZZ
	AAA999
	numPatterns
)

var definitions = [numPatterns]Definition{
	AA999ZZ: {
		Name:      "AA999ZZ",
		Fields:    []Field{L(2), D(3), L(2)},
		Max:       194481000, // 21^2 * 10^3 * 21^2
		LastPrime: 194480983,
		Rounds:    2,
	},
	AA999888: {
		Name:      "AA999888",
		Fields:    []Field{L(2), D(3), D(3)},
		Max:       441000000, // 21^2 * 10^3 * 10^3
		LastPrime: 440999983,
		Rounds:    2,
	},
	A99: {
		Name:      "A99",
		Fields:    []Field{L(1), D(2)},
		Max:       2100, // 21 * 10^2
		LastPrime: 2099,
		Rounds:    2,
	},
	AA99: {
		Name:      "AA99",
		Fields:    []Field{L(2), D(2)},
		Max:       44100, // 21^2 * 10^2
		LastPrime: 44087,
		Rounds:    0,
	},
	AA99ZZ: {
		Name:      "AA99ZZ",
		Fields:    []Field{L(2), D(2), L(2)},
		Max:       19448100, // 21^2 * 10^2 * 21^2
		LastPrime: 19448059,
		Rounds:    2,
	},
	AAA999: {
		Name:      "AAA999",
		Fields:    []Field{L(3), D(3)},
		Max:       9261000, // 21^3 * 10^3
		LastPrime: 9260963,
		Rounds:    3,
	},
}

var schemes = func() [numPatterns]*Scheme {
	var s [numPatterns]*Scheme
	for p, def := range definitions {
		s[p] = MustScheme(def)
	}
	return s
}()

// Patterns lists every known pattern in declaration order.
func Patterns() []Pattern {
	ps := make([]Pattern, numPatterns)
	for i := range ps {
		ps[i] = Pattern(i)
	}
	return ps
}

func (p Pattern) Valid() bool {
	return p < numPatterns
}

func (p Pattern) String() string {
	if !p.Valid() {
		return fmt.Sprintf("Pattern(%d)", uint8(p))
	}
	return definitions[p].Name
}

// Scheme returns the configured scheme of the pattern, or nil for an
// invalid pattern.
func (p Pattern) Scheme() *Scheme {
	if !p.Valid() {
		return nil
	}
	return schemes[p]
}

// UnknownPatternError is returned by ParsePattern. Suggestion is the
// closest known pattern name.
type UnknownPatternError struct {
	Name       string
	Suggestion string
}

func (e *UnknownPatternError) Error() string {
	if e.Suggestion == "" {
		return fmt.Sprintf("unknown pattern %q", e.Name)
	}
	return fmt.Sprintf("unknown pattern %q, did you mean %q?", e.Name, e.Suggestion)
}

// ParsePattern looks a pattern up by name, ignoring case.
func ParsePattern(name string) (Pattern, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for p, def := range definitions {
		if def.Name == upper {
			return Pattern(p), nil
		}
	}
	return 0, &UnknownPatternError{Name: name, Suggestion: closest(upper)}
}

func closest(name string) string {
	if name == "" {
		return ""
	}

	best, bestDistance := "", len(name)
	for _, def := range definitions {
		d := edlib.LevenshteinDistance(name, def.Name)
		if d < bestDistance {
			best, bestDistance = def.Name, d
		}
	}
	return best
}
