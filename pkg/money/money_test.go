package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "R$ 0,00", Format(0))
	assert.Equal(t, "R$ 0,05", Format(5))
	assert.Equal(t, "R$ 12,34", Format(1234))
	assert.Equal(t, "R$ 1.234,56", Format(123456))
	assert.Equal(t, "-R$ 1,00", Format(-100))
}

func TestFormatUsesASCIISpace(t *testing.T) {
	// The pt-BR printer must only shape the number; the currency prefix
	// keeps a regular space, never the locale's U+00A0.
	assert.NotContains(t, Format(123456), "\u00a0")
	assert.Contains(t, Format(123456), "R$ ")
}

func TestParse(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want int64
	}{
		{"R$ 12,34", 1234},
		{"1.234,56", 123456},
		{"12", 12},
		{"", 0},
		{"abc", 0},
	} {
		got, err := Parse(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestParseDigitCap(t *testing.T) {
	_, err := Parse("12345678901")
	assert.ErrorIs(t, err, ErrTooLong)

	got, err := Parse("1234567890")
	require.NoError(t, err)
	assert.Equal(t, int64(1234567890), got)
}

func TestFormatParseRoundTrip(t *testing.T) {
	for _, n := range []int64{0, 1, 99, 100, 1099, 123456, 999999999, 1234567890} {
		got, err := Parse(Format(n))
		require.NoError(t, err)
		assert.Equal(t, n, got)
	}
}
