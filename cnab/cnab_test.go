package cnab

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestEncodeRemessaLayout(t *testing.T) {
	content := EncodeRemessa(RemessaHeader{
		Sequence:    7,
		CompanyName: "PROVEDOR EXEMPLO LTDA",
		GeneratedAt: date(2024, time.January, 31),
	}, []RemessaDetail{
		{OurNumber: "NN-1", DocumentNumber: "DOC-1", Value: 99.90, DueDate: date(2024, time.February, 10)},
		{OurNumber: "NN-2", DocumentNumber: "DOC-2", Value: 150.00, DueDate: date(2024, time.February, 10)},
	})

	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	require.Len(t, lines, 4) // header + 2 details + trailer

	for i, line := range lines {
		assert.Len(t, line, 400, "line %d", i)
	}

	assert.Equal(t, byte('0'), lines[0][0])
	assert.Equal(t, byte('1'), lines[1][0])
	assert.Equal(t, byte('9'), lines[3][0])

	// record sequence numbers occupy the last 6 bytes
	assert.Equal(t, "000001", lines[0][394:])
	assert.Equal(t, "000004", lines[3][394:])

	// detail carries our number, value in cents, due date
	assert.Equal(t, "NN-1", strings.TrimSpace(lines[1][1:13]))
	assert.Equal(t, "0000000009990", lines[1][38:51])
	assert.Equal(t, "100224", lines[1][51:57])

	// trailer totals: 2 records, 249.90
	assert.Equal(t, "000002", lines[3][1:7])
	assert.Equal(t, "0000000024990", lines[3][7:20])
}

func TestRetornoRoundTrip(t *testing.T) {
	details := []RetornoDetail{
		{OurNumber: "NN-1", Occurrence: OccurrenceSettled, OccurredAt: date(2024, time.February, 9), Value: 99.90},
		{OurNumber: "NN-2", Occurrence: OccurrenceRejected, OccurredAt: date(2024, time.February, 9), Value: 150.00},
	}

	parsed, err := ParseRetorno(strings.NewReader(EncodeRetorno(details)))
	require.NoError(t, err)
	require.Len(t, parsed, 2)

	assert.Equal(t, "NN-1", parsed[0].OurNumber)
	assert.True(t, parsed[0].Settled())
	assert.Equal(t, 99.90, parsed[0].Value)
	assert.Equal(t, date(2024, time.February, 9), parsed[0].OccurredAt)

	assert.Equal(t, "NN-2", parsed[1].OurNumber)
	assert.True(t, parsed[1].Rejected())
	assert.NotEmpty(t, parsed[1].Raw)
}

func TestParseRetornoTrailerMismatch(t *testing.T) {
	content := EncodeRetorno([]RetornoDetail{
		{OurNumber: "NN-1", Occurrence: OccurrenceSettled, OccurredAt: date(2024, time.February, 9), Value: 99.90},
		{OurNumber: "NN-2", Occurrence: OccurrenceSettled, OccurredAt: date(2024, time.February, 9), Value: 10.00},
	})

	// drop one detail line, keep the trailer: count and total disagree
	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	truncated := strings.Join([]string{lines[0], lines[1], lines[3]}, "\n")

	_, err := ParseRetorno(strings.NewReader(truncated))
	assert.ErrorIs(t, err, ErrTrailerMismatch)
}

func TestParseRetornoRejectsGarbage(t *testing.T) {
	_, err := ParseRetorno(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptyFile)

	_, err = ParseRetorno(strings.NewReader("X" + strings.Repeat(" ", 399)))
	assert.Error(t, err)

	// short record
	_, err = ParseRetorno(strings.NewReader("1TOOSHORT"))
	assert.Error(t, err)

	// bad occurrence date in a detail
	bad := "1" + "NN-1        " + "06" + "XXXXXX" + "0000000009990"
	bad = bad + strings.Repeat(" ", 400-len(bad))
	_, err = ParseRetorno(strings.NewReader(bad))
	assert.Error(t, err)
}
