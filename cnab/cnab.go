// Package cnab encodes bank remittance (remessa) files and parses return
// (retorno) files in a fixed-width, CNAB 400-style layout. The field
// positions below follow the common denominator of the CNAB 400 bank
// layouts; bank-specific extensions live in the padding.
package cnab

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const lineWidth = 400

// Record type identifiers (first byte of each line).
const (
	recordHeader  = '0'
	recordDetail  = '1'
	recordTrailer = '9'
)

// Retorno occurrence codes we act on.
const (
	OccurrenceSettled  = "06" // liquidação
	OccurrenceRejected = "03" // entrada rejeitada
)

func padRight(s string, width int) string {
	if len(s) > width {
		return s[:width]
	}
	return s + strings.Repeat(" ", width-len(s))
}

func padNumber(n int64, width int) string {
	s := strconv.FormatInt(n, 10)
	if len(s) > width {
		return s[len(s)-width:]
	}
	return strings.Repeat("0", width-len(s)) + s
}

// cents converts a monetary value to the integer-cents wire representation.
func cents(v float64) int64 {
	return int64(math.Round(v * 100))
}

func formatDate(t time.Time) string {
	return t.Format("020106") // DDMMYY
}

func parseDate(s string) (time.Time, error) {
	return time.Parse("020106", s)
}

func finishLine(b *strings.Builder, seq int) string {
	line := b.String()
	if len(line) > lineWidth-6 {
		line = line[:lineWidth-6]
	}
	line = padRight(line, lineWidth-6) + padNumber(int64(seq), 6)
	return line
}

type fieldError struct {
	line  int
	field string
	err   error
}

func (e *fieldError) Error() string {
	return fmt.Sprintf("line %d: bad %s: %v", e.line, e.field, e.err)
}

func (e *fieldError) Unwrap() error { return e.err }
