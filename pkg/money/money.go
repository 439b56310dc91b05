// Package money formats and parses prices kept in integer minor units
// (centavos). All arithmetic stays in int64; locale rendering happens only
// at the formatting edge, so Parse(Format(n)) == n always holds.
package money

import (
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// MaxInputDigits caps free-text money inputs, mirroring the storefront
// money mask which rejects values longer than 10 digits.
const MaxInputDigits = 10

var ErrTooLong = errors.New("money: input exceeds digit cap")

var ptBR = message.NewPrinter(language.BrazilianPortuguese)

// Format renders minor units as pt-BR currency text, e.g. 123456 -> "R$ 1.234,56".
// Negative values are not produced by the catalog and are rejected upstream;
// they format with a leading minus for completeness.
func Format(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	units := minor / 100
	cents := minor % 100
	// Only the number goes through the printer: it applies pt-BR digit
	// grouping ("." thousands separator) exactly, since the value is an
	// integer. The "R$ " prefix stays outside the format string so the
	// separator is a plain ASCII space, not the printer's localized
	// U+00A0.
	return sign + "R$ " + ptBR.Sprintf("%d,%02d", units, cents)
}

// Parse unmasks currency text back to minor units by discarding every
// non-digit rune, the same rule as the admin money input control.
func Parse(s string) (int64, error) {
	var digits strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return 0, nil
	}
	if digits.Len() > MaxInputDigits {
		return 0, ErrTooLong
	}
	var n int64
	for _, r := range digits.String() {
		n = n*10 + int64(r-'0')
	}
	return n, nil
}
