package timesheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCell(t *testing.T) {
	cases := []struct {
		hours, minutes string
		want           int
	}{
		{"", "", 0},
		{"1", "30", 90},
		{"2", "", 120},
		{"", "45", 45},
		{" 3 ", " 5 ", 185},
		{"0", "59", 59},
		{"0", "60", 59},
		{"1", "75", 119},
		{"10", "0", 600},
	}
	for _, c := range cases {
		got, err := ParseCell(c.hours, c.minutes)
		require.NoError(t, err, "ParseCell(%q, %q)", c.hours, c.minutes)
		assert.Equal(t, c.want, got, "ParseCell(%q, %q)", c.hours, c.minutes)
	}
}

func TestParseCell_Rejects(t *testing.T) {
	_, err := ParseCell("x", "0")
	assert.ErrorIs(t, err, ErrInvalidCell)

	_, err = ParseCell("1", "1.5")
	assert.ErrorIs(t, err, ErrInvalidCell)

	_, err = ParseCell("-1", "0")
	assert.ErrorIs(t, err, ErrNegativeMinutes)

	_, err = ParseCell("0", "-3")
	assert.ErrorIs(t, err, ErrNegativeMinutes)
}

func TestSplitAndFormatMinutes(t *testing.T) {
	h, m := SplitMinutes(135)
	assert.Equal(t, 2, h)
	assert.Equal(t, 15, m)

	assert.Equal(t, "0h 00m", FormatMinutes(0))
	assert.Equal(t, "2h 15m", FormatMinutes(135))
	assert.Equal(t, "-1h 05m", FormatMinutes(-65))
}
