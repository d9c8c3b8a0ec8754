/*
format.go - Human-readable rendering of Rationals

PURPOSE:
  Turns exact fractions into the strings people expect on a stock sheet:
  "2½" rather than "5/2", "30" rather than "30/1". Rendering is the ONLY
  place a Rational is allowed near a float, and even here the float path is
  confined to FormatDecimal.

POLICY:
  - Integers render bare: "30", "-2", "0".
  - Otherwise split into whole part and proper remainder. If the remainder
    has a unicode vulgar-fraction glyph (halves, thirds, quarters, eighths),
    render whole part + glyph: "2½", "⅜".
  - Any other remainder falls back to "w n/d" ("2 5/7") or plain "n/d".
  - Negative values carry a single leading minus on the whole rendering.

Format is total: it never panics for any valid Rational.
*/
package rational

import (
	"math/big"
	"strconv"
	"strings"
)

type properFraction struct {
	num, den int64
}

// The glyphs the fallback never has to cover. Proper fractions only;
// values are already in lowest terms after reduction.
var fractionGlyphs = map[properFraction]string{
	{1, 2}: "½",
	{1, 3}: "⅓",
	{2, 3}: "⅔",
	{1, 4}: "¼",
	{3, 4}: "¾",
	{1, 8}: "⅛",
	{3, 8}: "⅜",
	{5, 8}: "⅝",
	{7, 8}: "⅞",
}

// Format renders a Rational as an integer, a mixed number with a fraction
// glyph, or a "w n/d" fallback.
func Format(a Rational) string {
	if a.IsInt() {
		return a.String()
	}

	abs := a
	neg := a.Sign() < 0
	if neg {
		abs = a.Neg()
	}

	den := abs.r.Denom()
	whole := new(big.Int)
	rem := new(big.Int)
	whole.QuoRem(abs.r.Num(), den, rem)

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	if whole.Sign() > 0 {
		b.WriteString(whole.String())
	}

	if rem.IsInt64() && den.IsInt64() {
		if glyph, ok := fractionGlyphs[properFraction{rem.Int64(), den.Int64()}]; ok {
			b.WriteString(glyph)
			return b.String()
		}
	}

	if whole.Sign() > 0 {
		b.WriteByte(' ')
	}
	b.WriteString(rem.String())
	b.WriteByte('/')
	b.WriteString(den.String())
	return b.String()
}

// FormatDecimal renders a plain numeric approximation, for contexts that
// want "2.5" instead of "2½". Display only.
func FormatDecimal(a Rational) string {
	return strconv.FormatFloat(a.Float64(), 'g', -1, 64)
}
