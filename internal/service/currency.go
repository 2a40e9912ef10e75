package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"

	"wonder-electronics/internal/domain"
	"wonder-electronics/internal/repository"
)

var (
	ErrUnknownCurrency = errors.New("unknown currency")
)

// Supported display currencies. USD is the storage currency and its rate
// is fixed at 1.0; the other rates come from the admin settings.
var currencySymbols = map[string]string{
	"USD": "$",
	"RWF": "RWF",
	"EUR": "€",
	"GBP": "£",
}

// Rates maps currency code to its USD exchange rate.
type Rates map[string]float64

// RatesFromSettings builds the rate table from the stored settings.
func RatesFromSettings(settings domain.Settings) Rates {
	return Rates{
		"USD": 1.0,
		"RWF": settings.USDToRWF,
		"EUR": settings.USDToEUR,
		"GBP": settings.USDToGBP,
	}
}

// Convert turns a stored USD amount into the target currency.
func Convert(amountUSD float64, currency string, rates Rates) (float64, error) {
	rate, ok := rates[currency]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownCurrency, currency)
	}
	return amountUSD * rate, nil
}

// Format converts and renders an amount for display. RWF has no minor
// unit: it is rounded to the nearest whole number and grouped with
// thousands separators. Every other currency is fixed to two decimals.
func Format(amountUSD float64, currency string, rates Rates) (string, error) {
	amount, err := Convert(amountUSD, currency, rates)
	if err != nil {
		return "", err
	}
	symbol := currencySymbols[currency]

	if currency == "RWF" {
		return symbol + groupThousands(int64(math.Round(amount))), nil
	}
	return symbol + strconv.FormatFloat(amount, 'f', 2, 64), nil
}

func groupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}

	var out []byte
	for i, digit := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, digit)
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}

// CurrencyService resolves rates from the settings repository so that
// admin rate edits take effect on the next read.
type CurrencyService struct {
	settings repository.SettingsRepository
}

// NewCurrencyService creates a new CurrencyService.
func NewCurrencyService(settings repository.SettingsRepository) *CurrencyService {
	return &CurrencyService{settings: settings}
}

// Rates returns the current rate table.
func (s *CurrencyService) Rates(ctx context.Context) (Rates, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	return RatesFromSettings(settings), nil
}

// Resolve picks the display currency: an explicit request wins, otherwise
// the site default from settings.
func (s *CurrencyService) Resolve(ctx context.Context, requested string) (string, Rates, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return "", nil, err
	}
	currency := requested
	if currency == "" {
		currency = settings.Currency
	}
	if currency == "" {
		currency = "USD"
	}
	rates := RatesFromSettings(settings)
	if _, ok := rates[currency]; !ok {
		return "", nil, fmt.Errorf("%w: %s", ErrUnknownCurrency, currency)
	}
	return currency, rates, nil
}
