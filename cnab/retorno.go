package cnab

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

var (
	ErrEmptyFile       = errors.New("retorno file has no records")
	ErrTrailerMismatch = errors.New("trailer does not match detail records")
)

// RetornoDetail is one settlement line reported by the bank.
type RetornoDetail struct {
	OurNumber  string
	Occurrence string
	OccurredAt time.Time
	Value      float64
	Raw        string
}

// Settled reports a liquidação (the boleto was paid).
func (d RetornoDetail) Settled() bool { return d.Occurrence == OccurrenceSettled }

// Rejected reports an entry the bank refused; the title should be re-sent.
func (d RetornoDetail) Rejected() bool { return d.Occurrence == OccurrenceRejected }

// ParseRetorno reads a retorno file and returns its detail records.
// The trailer's record count and value total are checked against the details;
// a mismatch fails the whole file, since a truncated retorno silently applied
// would desynchronize reconciliation.
func ParseRetorno(r io.Reader) ([]RetornoDetail, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, lineWidth+2), lineWidth+2)

	var (
		details     []RetornoDetail
		sawHeader   bool
		sawTrailer  bool
		lineNo      int
		totalCents  int64
		trailerSeen struct {
			count int64
			cents int64
		}
	)

	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if len(line) < 34 {
			return nil, fmt.Errorf("line %d: short record (%d bytes)", lineNo, len(line))
		}

		switch line[0] {
		case recordHeader:
			sawHeader = true

		case recordDetail:
			occurredAt, err := parseDate(line[15:21])
			if err != nil {
				return nil, &fieldError{lineNo, "occurrence date", err}
			}
			valueCents, err := strconv.ParseInt(line[21:34], 10, 64)
			if err != nil {
				return nil, &fieldError{lineNo, "value", err}
			}
			totalCents += valueCents
			details = append(details, RetornoDetail{
				OurNumber:  strings.TrimSpace(line[1:13]),
				Occurrence: line[13:15],
				OccurredAt: occurredAt,
				Value:      float64(valueCents) / 100,
				Raw:        line,
			})

		case recordTrailer:
			sawTrailer = true
			count, err := strconv.ParseInt(line[1:7], 10, 64)
			if err != nil {
				return nil, &fieldError{lineNo, "trailer count", err}
			}
			valueCents, err := strconv.ParseInt(line[7:20], 10, 64)
			if err != nil {
				return nil, &fieldError{lineNo, "trailer value", err}
			}
			trailerSeen.count = count
			trailerSeen.cents = valueCents

		default:
			return nil, fmt.Errorf("line %d: unknown record type %q", lineNo, line[0])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if !sawHeader && len(details) == 0 {
		return nil, ErrEmptyFile
	}
	if sawTrailer {
		if trailerSeen.count != int64(len(details)) || trailerSeen.cents != totalCents {
			return nil, ErrTrailerMismatch
		}
	}
	return details, nil
}

// EncodeRetorno renders a retorno file from detail records. Banks produce
// these; we generate them for fixtures and for replaying manual settlements
// through the same reconciliation path.
func EncodeRetorno(details []RetornoDetail) string {
	var out strings.Builder
	seq := 1

	var b strings.Builder
	b.WriteByte(recordHeader)
	b.WriteString("2RETORNO01COBRANCA       ")
	out.WriteString(finishLine(&b, seq))
	out.WriteByte('\n')

	var totalCents int64
	for _, d := range details {
		seq++
		totalCents += cents(d.Value)

		b.Reset()
		b.WriteByte(recordDetail)
		b.WriteString(padRight(d.OurNumber, 12))
		b.WriteString(padRight(d.Occurrence, 2))
		b.WriteString(formatDate(d.OccurredAt))
		b.WriteString(padNumber(cents(d.Value), 13))
		out.WriteString(finishLine(&b, seq))
		out.WriteByte('\n')
	}

	seq++
	b.Reset()
	b.WriteByte(recordTrailer)
	b.WriteString(padNumber(int64(len(details)), 6))
	b.WriteString(padNumber(totalCents, 13))
	out.WriteString(finishLine(&b, seq))
	out.WriteByte('\n')

	return out.String()
}
