package service

import (
	"errors"
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"wonder-electronics/internal/domain"
)

func defaultRates() Rates {
	return RatesFromSettings(domain.DefaultSettings())
}

func TestFormatKnownAmounts(t *testing.T) {
	rates := defaultRates()

	cases := []struct {
		amountUSD float64
		currency  string
		want      string
	}{
		{100, "USD", "$100.00"},
		{100, "RWF", "RWF130,000"},
		{100, "EUR", "€85.00"},
		{100, "GBP", "£73.00"},
		{0, "RWF", "RWF0"},
		{1234.5, "USD", "$1234.50"},
	}

	for _, tc := range cases {
		got, err := Format(tc.amountUSD, tc.currency, rates)
		if err != nil {
			t.Errorf("Format(%v, %s): unexpected error: %v", tc.amountUSD, tc.currency, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Format(%v, %s) = %q, want %q", tc.amountUSD, tc.currency, got, tc.want)
		}
	}
}

func TestConvertUnknownCurrency(t *testing.T) {
	rates := defaultRates()

	if _, err := Convert(100, "JPY", rates); !errors.Is(err, ErrUnknownCurrency) {
		t.Errorf("expected ErrUnknownCurrency, got %v", err)
	}
	if _, err := Format(100, "JPY", rates); !errors.Is(err, ErrUnknownCurrency) {
		t.Errorf("expected ErrUnknownCurrency from Format, got %v", err)
	}
}

func TestProperty_ConversionScalesByRate(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("converted amount equals USD amount times the rate", prop.ForAll(
		func(amount float64, currency string) bool {
			rates := defaultRates()

			converted, err := Convert(amount, currency, rates)
			if err != nil {
				t.Logf("FAIL: Convert returned error for %s: %v", currency, err)
				return false
			}

			expected := amount * rates[currency]
			if math.Abs(converted-expected) > 1e-9 {
				t.Logf("FAIL: Convert(%v, %s) = %v, want %v", amount, currency, converted, expected)
				return false
			}

			return true
		},
		gen.Float64Range(0, 100000),
		gen.OneConstOf("USD", "RWF", "EUR", "GBP"),
	))

	properties.Property("USD conversion is the identity", prop.ForAll(
		func(amount float64) bool {
			converted, err := Convert(amount, "USD", defaultRates())
			if err != nil {
				t.Logf("FAIL: Convert returned error: %v", err)
				return false
			}
			if converted != amount {
				t.Logf("FAIL: Convert(%v, USD) = %v", amount, converted)
				return false
			}
			return true
		},
		gen.Float64Range(0, 100000),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_RWFFormattingIsWholeAndGrouped(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("RWF amounts never carry a decimal point", prop.ForAll(
		func(amount float64) bool {
			formatted, err := Format(amount, "RWF", defaultRates())
			if err != nil {
				t.Logf("FAIL: Format returned error: %v", err)
				return false
			}
			for _, r := range formatted {
				if r == '.' {
					t.Logf("FAIL: RWF format contains a decimal point: %s", formatted)
					return false
				}
			}
			return true
		},
		gen.Float64Range(0, 100000),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestGroupThousands(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{130000, "130,000"},
		{1234567, "1,234,567"},
		{-45000, "-45,000"},
	}

	for _, tc := range cases {
		if got := groupThousands(tc.in); got != tc.want {
			t.Errorf("groupThousands(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
