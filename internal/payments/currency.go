package payments

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrUnsupportedCurrency = errors.New("unsupported currency")

// CurrencyConfig describes one supported currency. MinorUnitDivisor converts
// gateway amounts (paise, cents) to the major unit; MinAmount is the smallest
// chargeable amount in minor units.
type CurrencyConfig struct {
	Symbol           string
	MinorUnitDivisor int64
	MinAmount        int64
}

var currencyConfigs = map[string]CurrencyConfig{
	"INR": {Symbol: "₹", MinorUnitDivisor: 100, MinAmount: 100},
	"USD": {Symbol: "$", MinorUnitDivisor: 100, MinAmount: 50},
	"EUR": {Symbol: "€", MinorUnitDivisor: 100, MinAmount: 50},
}

func SupportedCurrency(code string) bool {
	_, ok := currencyConfigs[code]
	return ok
}

func CurrencyFor(code string) (CurrencyConfig, bool) {
	cfg, ok := currencyConfigs[code]
	return cfg, ok
}

// FromMinorUnits converts a gateway integer amount to the currency's major
// unit. Every supported currency is divided by its configured divisor.
func FromMinorUnits(code string, amount int64) (decimal.Decimal, error) {
	cfg, ok := currencyConfigs[code]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrUnsupportedCurrency, code)
	}
	return decimal.NewFromInt(amount).Div(decimal.NewFromInt(cfg.MinorUnitDivisor)), nil
}
