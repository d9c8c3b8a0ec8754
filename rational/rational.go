/*
Package rational provides the exact fraction type used for every quantity
in the reserve engine.

PURPOSE:
  Medication stock is mutated in small fractional steps (half a pill in the
  morning, a quarter at night) for months on end. Floating point drifts under
  that load; Rational never does. All arithmetic is exact, and values only
  become floats at the display boundary.

KEY PROPERTIES:
  1. Immutability: every operation returns a new value, operands are never
     touched. Snapshots of a Drug therefore stay stable while the store
     mutates.
  2. Eager reduction: values are always in lowest terms with a positive
     denominator, so equality is plain comparison of numerator/denominator.
  3. Exact round-trip: JSON, text, and SQL encodings are the canonical
     "n" / "n/d" string form, never a float.

PARSING:
  Parse accepts three shapes of user input:
    "3"      integers
    "3/4"    fractions
    "2.5"    decimal strings, converted exactly via shopspring/decimal

SEE ALSO:
  - format.go: human-readable rendering (mixed numbers, unicode glyphs)
  - reserve/types.go: the Drug model built on this type
*/
package rational

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidFraction is returned for malformed input or a zero denominator.
// Use with errors.Is().
var ErrInvalidFraction = errors.New("invalid fraction")

// InvalidFractionError carries the offending input.
type InvalidFractionError struct {
	Input string
}

func (e *InvalidFractionError) Error() string {
	return fmt.Sprintf("invalid fraction %q", e.Input)
}

func (e *InvalidFractionError) Unwrap() error { return ErrInvalidFraction }

// =============================================================================
// RATIONAL - Exact fraction value type
// =============================================================================

// Rational is an arbitrary-precision exact fraction. The zero value is 0.
type Rational struct {
	r big.Rat
}

// New creates a Rational from a numerator and denominator.
// A zero denominator fails with ErrInvalidFraction.
func New(num, den int64) (Rational, error) {
	if den == 0 {
		return Rational{}, &InvalidFractionError{Input: fmt.Sprintf("%d/%d", num, den)}
	}
	var out Rational
	out.r.SetFrac64(num, den)
	return out, nil
}

// FromInt creates a Rational with the value n.
func FromInt(n int64) Rational {
	var out Rational
	out.r.SetInt64(n)
	return out
}

// Parse converts a caller-supplied string into a Rational.
// Accepted forms: "3", "-3", "3/4", "2.5". Anything else fails with
// ErrInvalidFraction.
func Parse(s string) (Rational, error) {
	t := strings.TrimSpace(s)
	if t == "" {
		return Rational{}, &InvalidFractionError{Input: s}
	}

	if i := strings.IndexByte(t, '/'); i >= 0 {
		num, numErr := strconv.ParseInt(strings.TrimSpace(t[:i]), 10, 64)
		den, denErr := strconv.ParseInt(strings.TrimSpace(t[i+1:]), 10, 64)
		if numErr != nil || denErr != nil || den == 0 {
			return Rational{}, &InvalidFractionError{Input: s}
		}
		return New(num, den)
	}

	// Integer or decimal form. decimal.NewFromString is strict about the
	// syntax and Decimal.Rat converts without precision loss.
	d, err := decimal.NewFromString(t)
	if err != nil {
		return Rational{}, &InvalidFractionError{Input: s}
	}
	var out Rational
	out.r.Set(d.Rat())
	return out, nil
}

// MustParse is Parse for fixtures and tests; it panics on invalid input.
func MustParse(s string) Rational {
	r, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return r
}

// =============================================================================
// ARITHMETIC - Never mutates, never loses precision
// =============================================================================

func (a Rational) Add(b Rational) Rational {
	var out Rational
	out.r.Add(&a.r, &b.r)
	return out
}

func (a Rational) Sub(b Rational) Rational {
	var out Rational
	out.r.Sub(&a.r, &b.r)
	return out
}

func (a Rational) Mul(b Rational) Rational {
	var out Rational
	out.r.Mul(&a.r, &b.r)
	return out
}

// ScaleInt multiplies by an integer (e.g. a days count).
func (a Rational) ScaleInt(n int64) Rational {
	return a.Mul(FromInt(n))
}

// Div divides a by b. b must not be zero; callers guard with IsZero.
func (a Rational) Div(b Rational) Rational {
	var out Rational
	out.r.Quo(&a.r, &b.r)
	return out
}

func (a Rational) Neg() Rational {
	var out Rational
	out.r.Neg(&a.r)
	return out
}

// =============================================================================
// COMPARISON
// =============================================================================

// Cmp returns -1, 0, or +1 depending on whether a is less than, equal to,
// or greater than b.
func (a Rational) Cmp(b Rational) int { return a.r.Cmp(&b.r) }

func (a Rational) Equal(b Rational) bool { return a.Cmp(b) == 0 }

func (a Rational) LessThan(b Rational) bool { return a.Cmp(b) < 0 }

func (a Rational) IsZero() bool { return a.r.Sign() == 0 }

func (a Rational) IsNegative() bool { return a.r.Sign() < 0 }

func (a Rational) Sign() int { return a.r.Sign() }

// IsInt reports whether the denominator is 1.
func (a Rational) IsInt() bool { return a.r.IsInt() }

// Floor returns the largest integer not greater than a. Rounding is toward
// negative infinity, so a negative reserve projects to negative whole weeks
// rather than a flattering zero.
func (a Rational) Floor() int64 {
	// Denominator is always positive, so big.Int.Div is floor division here.
	q := new(big.Int).Div(a.r.Num(), a.r.Denom())
	return q.Int64()
}

// Float64 returns an approximation for display. The result must never be
// fed back into reserve arithmetic.
func (a Rational) Float64() float64 {
	f, _ := a.r.Float64()
	return f
}

// Num and Den expose the normalized numerator and denominator as strings,
// for callers that need the exact parts without re-parsing.
func (a Rational) Num() string { return a.r.Num().String() }

func (a Rational) Den() string { return a.r.Denom().String() }

// String returns the canonical form: "n" for integers, "n/d" otherwise.
func (a Rational) String() string { return a.r.RatString() }

// =============================================================================
// ENCODING - exact round-trip, never a float
// =============================================================================

func (a Rational) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Rational) UnmarshalText(data []byte) error {
	parsed, err := Parse(string(data))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

func (a Rational) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(a.String())), nil
}

func (a *Rational) UnmarshalJSON(data []byte) error {
	s := string(data)
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Value implements driver.Valuer: rationals are stored as TEXT.
func (a Rational) Value() (driver.Value, error) {
	return a.String(), nil
}

// Scan implements sql.Scanner for the TEXT encoding written by Value.
func (a *Rational) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return a.UnmarshalText([]byte(v))
	case []byte:
		return a.UnmarshalText(v)
	case int64:
		*a = FromInt(v)
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Rational", src)
	}
}
