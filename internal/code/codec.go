package code

import (
	"strings"
)

// Encode writes i in the scheme's mixed radix, one string per field, most
// significant field first.
func Encode(s *Scheme, i uint64) ([]string, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	if i >= s.max {
		return nil, newError(ErrRange, s.name, i, "value must be below %d", s.max)
	}

	out := make([]string, len(s.fields))
	left := i
	for k := len(s.fields) - 1; k > 0; k-- {
		out[k] = format(s.fields[k], left%s.sizes[k])
		left /= s.sizes[k]
	}
	if err := s.checkResidual(left); err != nil {
		return nil, err
	}
	out[0] = format(s.fields[0], left)

	return out, nil
}

// checkResidual guards the most significant field against values it cannot
// hold, instead of truncating them.
func (s *Scheme) checkResidual(v uint64) error {
	if v >= s.sizes[0] {
		return newError(ErrRange, s.name, v, "residual value does not fit the leading field (size %d)", s.sizes[0])
	}
	return nil
}

func format(f Field, v uint64) string {
	symbols := f.Kind.symbols()
	base := uint64(len(symbols))

	buf := make([]byte, f.Width)
	for i := f.Width - 1; i >= 0; i-- {
		buf[i] = symbols[v%base]
		v /= base
	}
	return string(buf)
}

// Decode is the inverse of Encode.
func Decode(s *Scheme, fields []string) (uint64, error) {
	if err := s.check(); err != nil {
		return 0, err
	}
	if len(fields) != len(s.fields) {
		return 0, newError(ErrFormat, s.name, strings.Join(fields, " "), "want %d fields, got %d", len(s.fields), len(fields))
	}

	var res uint64
	for k, f := range s.fields {
		v, err := s.parse(f, fields[k])
		if err != nil {
			return 0, err
		}
		res = res*s.sizes[k] + v
	}
	return res, nil
}

func (s *Scheme) parse(f Field, str string) (uint64, error) {
	if len(str) != f.Width {
		return 0, newError(ErrFormat, s.name, str, "%s field must be %d wide", f.Kind, f.Width)
	}

	base := f.Kind.Base()
	var v uint64
	for i := 0; i < len(str); i++ {
		d, ok := f.Kind.index(str[i])
		if !ok {
			return 0, newError(ErrFormat, s.name, str, "%q is not one of the %s %s", str[i], f.Kind, f.Kind.symbols())
		}
		v = v*base + uint64(d)
	}
	return v, nil
}

// Join concatenates encoded fields into a single code.
func Join(fields []string) string {
	return strings.Join(fields, "")
}

// Split cuts a joined code back into fields. Letters are accepted in
// either case.
func (s *Scheme) Split(code string) ([]string, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	if w := s.Width(); len(code) != w {
		return nil, newError(ErrFormat, s.name, code, "code must be %d characters long", w)
	}

	out := make([]string, len(s.fields))
	off := 0
	for k, f := range s.fields {
		part := code[off : off+f.Width]
		if f.Kind == KindLetters {
			part = strings.ToUpper(part)
		}
		out[k] = part
		off += f.Width
	}
	return out, nil
}

func (s *Scheme) Encode(i uint64) ([]string, error) {
	return Encode(s, i)
}

func (s *Scheme) Decode(fields []string) (uint64, error) {
	return Decode(s, fields)
}

// Parse splits and decodes a joined code.
func (s *Scheme) Parse(code string) (uint64, error) {
	fields, err := s.Split(code)
	if err != nil {
		return 0, err
	}
	return Decode(s, fields)
}

// Obfuscate permutes i and encodes the result.
func (s *Scheme) Obfuscate(i uint64) ([]string, error) {
	p, err := s.PermuteN(i)
	if err != nil {
		return nil, err
	}
	return Encode(s, p)
}

// Reveal decodes fields produced by Obfuscate and undoes the permutation.
func (s *Scheme) Reveal(fields []string) (uint64, error) {
	p, err := Decode(s, fields)
	if err != nil {
		return 0, err
	}
	return s.UnpermuteN(p)
}
