package harness

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plates/internal/code"
)

func TestVerify_Small(t *testing.T) {
	for _, p := range []code.Pattern{code.A99, code.AA99} {
		s := p.Scheme()
		t.Run(p.String(), func(t *testing.T) {
			sum, err := Verify(quietContext(), s, VerifyOptions{Workers: 4, Chunk: 1000})
			require.NoError(t, err)
			assert.Equal(t, s.Max(), sum.Swept)
		})
	}
}

func TestVerify_AAA999(t *testing.T) {
	if testing.Short() {
		t.Skip("full AAA999 domain")
	}

	s := code.AAA999.Scheme()
	sum, err := Verify(quietContext(), s, VerifyOptions{})
	require.NoError(t, err)
	assert.Equal(t, s.Max(), sum.Swept)
}

func TestVerify_Edges(t *testing.T) {
	for _, p := range code.Patterns() {
		s := p.Scheme()
		t.Run(p.String(), func(t *testing.T) {
			window := min(uint64(5000), s.Prime())
			for _, start := range []uint64{0, s.Prime() - window, s.Max() - window} {
				sum, err := Verify(quietContext(), s, VerifyOptions{Start: start, Limit: start + window, Chunk: 700})
				require.NoError(t, err)
				assert.Equal(t, window, sum.Swept)
			}
		})
	}
}

func TestVerify_Errors(t *testing.T) {
	s := code.A99.Scheme()

	_, err := Verify(quietContext(), s, VerifyOptions{Limit: s.Max() + 1})
	assert.ErrorIs(t, err, code.ErrRange)

	ctx, cancel := context.WithCancel(quietContext())
	cancel()
	_, err = Verify(ctx, s, VerifyOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScanOccurrences(t *testing.T) {
	in := strings.NewReader("1\n2\n\n3\n2\n99\n2\n")

	var findings []Finding
	report, err := ScanOccurrences(context.Background(), in, 50, nil, false, func(f Finding) {
		findings = append(findings, f)
	})
	require.NoError(t, err)

	assert.Equal(t, OccurrenceReport{Read: 6, Duplicates: 2, OutOfRange: 1}, report)
	assert.Equal(t, []Finding{
		{Line: 5, Value: 2, Count: 2},
		{Line: 6, Value: 99, OutOfRange: true},
		{Line: 7, Value: 2, Count: 3},
	}, findings)
}

func TestScanOccurrences_StopOnFirst(t *testing.T) {
	_, err := ScanOccurrences(context.Background(), strings.NewReader("4\n4\n"), 0, nil, true, nil)
	require.ErrorIs(t, err, ErrCollision)
	assert.Equal(t, "collision: 4 seen 2 times", err.Error())

	_, err = ScanOccurrences(context.Background(), strings.NewReader("4\n400\n"), 100, nil, true, nil)
	assert.ErrorIs(t, err, code.ErrRange)

	_, err = ScanOccurrences(context.Background(), strings.NewReader("4\n-1\n"), 0, nil, false, nil)
	assert.ErrorIs(t, err, code.ErrFormat)
}
