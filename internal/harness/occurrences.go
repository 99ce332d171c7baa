package harness

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"plates/internal/code"
)

// Finding is a duplicated or out of range value met by ScanOccurrences.
type Finding struct {
	Line       int
	Value      uint64
	Count      uint32
	OutOfRange bool
}

type OccurrenceReport struct {
	Read       uint64
	Duplicates uint64
	OutOfRange uint64
}

// ScanOccurrences reads one integer per line from r, as written by
// LineResults, and counts them. Values at or above max (when max is not 0)
// are out of range and not counted. Every finding is passed to onFinding;
// with stopOnFirst the first one also ends the scan with an error.
func ScanOccurrences(ctx context.Context, r io.Reader, max uint64, c Counter, stopOnFirst bool, onFinding func(Finding)) (OccurrenceReport, error) {
	var report OccurrenceReport
	if c == nil {
		c = NewMemoryCounter()
	}
	if onFinding == nil {
		onFinding = func(Finding) {}
	}

	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		if line%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return report, err
			}
		}

		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		v, err := strconv.ParseUint(text, 10, 64)
		if err != nil {
			return report, &code.Error{
				Value:  text,
				Err:    code.ErrFormat,
				Detail: fmt.Sprintf("line %d is not an unsigned integer", line),
			}
		}
		report.Read++

		if max != 0 && v >= max {
			report.OutOfRange++
			onFinding(Finding{Line: line, Value: v, OutOfRange: true})
			if stopOnFirst {
				return report, &code.Error{
					Value:  text,
					Err:    code.ErrRange,
					Detail: fmt.Sprintf("line %d is not below %d", line, max),
				}
			}
			continue
		}

		n, err := c.Add(v)
		if err != nil {
			return report, fmt.Errorf("count %d: %w", v, err)
		}
		if n > 1 {
			report.Duplicates++
			onFinding(Finding{Line: line, Value: v, Count: n})
			if stopOnFirst {
				return report, &CollisionError{Permuted: v, Count: n}
			}
		}
	}
	if err := sc.Err(); err != nil {
		return report, fmt.Errorf("read: %w", err)
	}

	return report, nil
}
