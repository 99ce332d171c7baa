package harness

import (
	"bufio"
	"io"
	"log/slog"
	"strconv"
	"strings"
)

// Results receives the permuted value of every swept integer.
type Results interface {
	Permuted(v uint64) error
}

// Diagnostics receives one record per swept integer.
type Diagnostics interface {
	Record(r Record) error
}

type Record struct {
	Pattern      string
	Original     uint64
	Code         []string
	Permuted     uint64
	PermutedCode []string
}

type flusher interface {
	Flush() error
}

// LineResults writes one decimal value per line, the input format of
// ScanOccurrences.
type LineResults struct {
	w   *bufio.Writer
	buf []byte
}

func NewLineResults(w io.Writer) *LineResults {
	return &LineResults{
		w:   bufio.NewWriter(w),
		buf: make([]byte, 0, 24),
	}
}

func (l *LineResults) Permuted(v uint64) error {
	l.buf = strconv.AppendUint(l.buf[:0], v, 10)
	l.buf = append(l.buf, '\n')
	_, err := l.w.Write(l.buf)
	return err
}

func (l *LineResults) Flush() error {
	return l.w.Flush()
}

// TextDiagnostics writes "pattern original code permuted permuted_code"
// lines.
type TextDiagnostics struct {
	w *bufio.Writer
}

func NewTextDiagnostics(w io.Writer) *TextDiagnostics {
	return &TextDiagnostics{w: bufio.NewWriter(w)}
}

func (t *TextDiagnostics) Record(r Record) error {
	var b strings.Builder
	b.WriteString(r.Pattern)
	b.WriteByte(' ')
	b.WriteString(strconv.FormatUint(r.Original, 10))
	b.WriteByte(' ')
	b.WriteString(strings.Join(r.Code, "-"))
	b.WriteByte(' ')
	b.WriteString(strconv.FormatUint(r.Permuted, 10))
	b.WriteByte(' ')
	b.WriteString(strings.Join(r.PermutedCode, "-"))
	b.WriteByte('\n')

	_, err := t.w.WriteString(b.String())
	return err
}

func (t *TextDiagnostics) Flush() error {
	return t.w.Flush()
}

// LogDiagnostics emits records as debug level log entries.
type LogDiagnostics struct {
	logger *slog.Logger
}

func NewLogDiagnostics(logger *slog.Logger) *LogDiagnostics {
	return &LogDiagnostics{logger: logger}
}

func (l *LogDiagnostics) Record(r Record) error {
	l.logger.Debug("swept",
		"pattern", r.Pattern,
		"original", r.Original,
		"code", strings.Join(r.Code, ""),
		"permuted", r.Permuted,
		"permuted_code", strings.Join(r.PermutedCode, ""),
	)
	return nil
}

type discard struct{}

func (discard) Permuted(uint64) error { return nil }
func (discard) Record(Record) error   { return nil }

// Discard drops everything; it is both a Results and a Diagnostics.
var Discard discard
