package code

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_AA999ZZ(t *testing.T) {
	s := AA999ZZ.Scheme()

	tests := []struct {
		value uint64
		want  []string
	}{
		{0, []string{"AA", "000", "AA"}},
		{1, []string{"AA", "000", "AB"}},
		{441, []string{"AA", "001", "AA"}},
		{123456789, []string{"SH", "947", "KU"}},
		{s.Max() - 1, []string{"ZZ", "999", "ZZ"}},
	}

	for _, tc := range tests {
		t.Run(fmt.Sprint(tc.value), func(t *testing.T) {
			got, err := s.Encode(tc.value)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)

			back, err := s.Decode(got)
			require.NoError(t, err)
			assert.Equal(t, tc.value, back)
		})
	}
}

func TestEncode_Boundaries(t *testing.T) {
	for _, p := range Patterns() {
		s := p.Scheme()
		t.Run(p.String(), func(t *testing.T) {
			zero, err := s.Encode(0)
			require.NoError(t, err)
			last, err := s.Encode(s.Max() - 1)
			require.NoError(t, err)
			require.Len(t, zero, len(s.Fields()))
			require.Len(t, last, len(s.Fields()))

			for k, f := range s.Fields() {
				lo, hi := "0", "9"
				if f.Kind == KindLetters {
					lo, hi = string(Zero), string(Letters[Radix-1])
				}
				assert.Equal(t, strings.Repeat(lo, f.Width), zero[k], "field %d of 0", k)
				assert.Equal(t, strings.Repeat(hi, f.Width), last[k], "field %d of max-1", k)
			}

			v, err := s.Decode(zero)
			require.NoError(t, err)
			assert.Equal(t, uint64(0), v)

			v, err = s.Decode(last)
			require.NoError(t, err)
			assert.Equal(t, s.Max()-1, v)
		})
	}
}

func TestEncode_RangeError(t *testing.T) {
	for _, p := range Patterns() {
		s := p.Scheme()
		t.Run(p.String(), func(t *testing.T) {
			_, err := s.Encode(s.Max())
			require.ErrorIs(t, err, ErrRange)

			var e *Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, p.String(), e.Pattern)
			assert.Equal(t, fmt.Sprint(s.Max()), e.Value)
		})
	}
}

func TestCheckResidual(t *testing.T) {
	s := AA99.Scheme()
	require.NoError(t, s.checkResidual(440))
	assert.ErrorIs(t, s.checkResidual(441), ErrRange)
}

func TestDecode_FormatError(t *testing.T) {
	s := AA999ZZ.Scheme()

	tests := []struct {
		name   string
		fields []string
	}{
		{"digit in letters", []string{"A1", "000", "AA"}},
		{"letter in digits", []string{"AA", "0A0", "AA"}},
		{"confusable letter", []string{"AO", "000", "AA"}},
		{"lower case", []string{"aa", "000", "AA"}},
		{"short field", []string{"A", "000", "AA"}},
		{"long field", []string{"AA", "0000", "AA"}},
		{"missing field", []string{"AA", "000"}},
		{"extra field", []string{"AA", "000", "AA", "AA"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.Decode(tc.fields)
			require.ErrorIs(t, err, ErrFormat)

			var e *Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, "AA999ZZ", e.Pattern)
		})
	}
}

func TestRoundTrip_Exhaustive(t *testing.T) {
	for _, p := range []Pattern{A99, AA99} {
		s := p.Scheme()
		t.Run(p.String(), func(t *testing.T) {
			seen := make(map[string]uint64, s.Max())
			for i := range s.Max() {
				fields, err := s.Encode(i)
				require.NoError(t, err)

				code := Join(fields)
				require.Len(t, code, s.Width())
				prev, dup := seen[code]
				require.False(t, dup, "%s produced by %d and %d", code, prev, i)
				seen[code] = i

				back, err := s.Decode(fields)
				require.NoError(t, err)
				require.Equal(t, i, back)
			}
		})
	}
}

func TestRoundTrip_Rand(t *testing.T) {
	for _, p := range Patterns() {
		s := p.Scheme()
		for range 200 {
			i := rand.Uint64N(s.Max())

			t.Run(fmt.Sprintf("%s/%d", p, i), func(t *testing.T) {
				fields, err := s.Encode(i)
				require.NoError(t, err)
				back, err := s.Decode(fields)
				require.NoError(t, err)
				require.Equal(t, i, back)

				obf, err := s.Obfuscate(i)
				require.NoError(t, err)
				rev, err := s.Reveal(obf)
				require.NoError(t, err)
				require.Equal(t, i, rev)
			})
		}
	}
}

func TestSplitParse(t *testing.T) {
	s := AA999ZZ.Scheme()

	fields, err := s.Split("sh947ku")
	require.NoError(t, err)
	assert.Equal(t, []string{"SH", "947", "KU"}, fields)

	v, err := s.Parse("SH947KU")
	require.NoError(t, err)
	assert.Equal(t, uint64(123456789), v)

	_, err = s.Split("SH947K")
	assert.ErrorIs(t, err, ErrFormat)

	_, err = s.Parse("SH9X7KU")
	assert.ErrorIs(t, err, ErrFormat)
}

func TestObfuscate_AAA999(t *testing.T) {
	s := AAA999.Scheme()

	fields, err := s.Obfuscate(12345)
	require.NoError(t, err)
	assert.Equal(t, []string{"XXA", "317"}, fields)

	v, err := s.Reveal(fields)
	require.NoError(t, err)
	assert.Equal(t, uint64(12345), v)
}

func TestConcurrentUse(t *testing.T) {
	s := AAA999.Scheme()

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for w := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := uint64(w); i < 20000; i += 8 {
				fields, err := s.Obfuscate(i)
				if err != nil {
					errs <- err
					return
				}
				v, err := s.Reveal(fields)
				if err != nil {
					errs <- err
					return
				}
				if v != i {
					errs <- RoundTripError(s.Name(), i, v)
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

func BenchmarkEncode(b *testing.B) {
	s := AA999ZZ.Scheme()
	for i := 0; i < b.N; i++ {
		s.Encode(uint64(i) % s.Max())
	}
}

func BenchmarkDecode(b *testing.B) {
	s := AA999ZZ.Scheme()
	fields, _ := s.Encode(123456789)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Decode(fields)
	}
}
