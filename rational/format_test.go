package rational_test

import (
	"testing"

	"github.com/medcabinet/reserve-engine/rational"
)

func TestFormat(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		// Integers render bare
		{"0", "0"},
		{"30", "30"},
		{"-2", "-2"},

		// Glyphed proper fractions
		{"1/2", "½"},
		{"1/3", "⅓"},
		{"2/3", "⅔"},
		{"1/4", "¼"},
		{"3/4", "¾"},
		{"1/8", "⅛"},
		{"3/8", "⅜"},
		{"5/8", "⅝"},
		{"7/8", "⅞"},

		// Mixed numbers with glyphs
		{"5/2", "2½"},
		{"7/4", "1¾"},
		{"25/8", "3⅛"},

		// Fallback for uncommon denominators
		{"5/7", "5/7"},
		{"19/7", "2 5/7"},
		{"1/16", "1/16"},

		// Negatives carry one leading minus
		{"-1/2", "-½"},
		{"-5/2", "-2½"},
		{"-19/7", "-2 5/7"},
	}

	for _, c := range cases {
		if got := rational.Format(rational.MustParse(c.input)); got != c.want {
			t.Errorf("Format(%s) = %q, want %q", c.input, got, c.want)
		}
	}
}

// Format must be total: any valid Rational renders without panicking.
func TestFormat_TotalOverAwkwardValues(t *testing.T) {
	awkward := []string{
		"0", "-0.000", "1000000000000/7", "-1000000000000/7",
		"1/999999999999", "-1/999999999999",
	}
	for _, s := range awkward {
		r := rational.MustParse(s)
		if got := rational.Format(r); got == "" {
			t.Errorf("Format(%s) produced empty string", s)
		}
		if got := rational.FormatDecimal(r); got == "" {
			t.Errorf("FormatDecimal(%s) produced empty string", s)
		}
	}
}

func TestFormatDecimal(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"5/2", "2.5"},
		{"30", "30"},
		{"-1/2", "-0.5"},
	}
	for _, c := range cases {
		if got := rational.FormatDecimal(rational.MustParse(c.input)); got != c.want {
			t.Errorf("FormatDecimal(%s) = %q, want %q", c.input, got, c.want)
		}
	}
}
