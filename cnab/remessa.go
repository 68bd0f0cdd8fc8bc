package cnab

import (
	"strings"
	"time"
)

// RemessaHeader carries the file-level fields of an outbound remittance.
type RemessaHeader struct {
	Sequence    int
	CompanyName string
	GeneratedAt time.Time
}

// RemessaDetail is one collection instruction (one title / boleto).
type RemessaDetail struct {
	OurNumber      string
	DocumentNumber string
	Value          float64
	DueDate        time.Time
}

// EncodeRemessa renders a complete remessa file: header, one detail record
// per title, and a trailer carrying record count and total value. Lines are
// fixed at 400 bytes and end with a 6-digit sequential record number, per
// the CNAB convention.
func EncodeRemessa(h RemessaHeader, details []RemessaDetail) string {
	var out strings.Builder
	seq := 1

	var b strings.Builder
	b.WriteByte(recordHeader)
	b.WriteString("1REMESSA01COBRANCA       ")
	b.WriteString(padRight(h.CompanyName, 30))
	b.WriteString(formatDate(h.GeneratedAt))
	b.WriteString(padNumber(int64(h.Sequence), 7))
	out.WriteString(finishLine(&b, seq))
	out.WriteByte('\n')

	var total float64
	for _, d := range details {
		seq++
		total += d.Value

		b.Reset()
		b.WriteByte(recordDetail)
		b.WriteString(padRight(d.OurNumber, 12))
		b.WriteString(padRight(d.DocumentNumber, 25))
		b.WriteString(padNumber(cents(d.Value), 13))
		b.WriteString(formatDate(d.DueDate))
		out.WriteString(finishLine(&b, seq))
		out.WriteByte('\n')
	}

	seq++
	b.Reset()
	b.WriteByte(recordTrailer)
	b.WriteString(padNumber(int64(len(details)), 6))
	b.WriteString(padNumber(cents(total), 13))
	out.WriteString(finishLine(&b, seq))
	out.WriteByte('\n')

	return out.String()
}
