package valueobjects

import (
	"fmt"
	"strings"

	"github.com/OldiBike/mototrip-planner-sub000/errors"
	"github.com/shopspring/decimal"
)

// Currency represents a valid ISO 4217 currency code
type Currency string

// EUR is the only currency trips are priced in.
const EUR Currency = "EUR"

var currencySymbols = map[Currency]string{
	EUR: "€",
}

// Money is a display amount rounded to cents. Negative values are allowed
// since margins can be.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// NewMoney creates a new Money instance with validation
func NewMoney(amount decimal.Decimal, currency Currency) (*Money, error) {
	if _, ok := currencySymbols[currency]; !ok {
		return nil, errors.ValidationFailed(
			"invalid currency",
			fmt.Sprintf("currency %s is not supported", currency),
		)
	}
	return &Money{amount: amount.Round(2), currency: currency}, nil
}

// EuroFromFloat wraps a simulation figure for display.
func EuroFromFloat(amount float64) Money {
	return Money{amount: decimal.NewFromFloat(amount).Round(2), currency: EUR}
}

// ParseDecimal reads a number typed in a French form: "1 250,50" or "98.5".
func ParseDecimal(raw string) (decimal.Decimal, error) {
	normalized := strings.NewReplacer(" ", "", "\u00a0", "", "\u202f", "", ",", ".").Replace(strings.TrimSpace(raw))
	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, errors.ValidationFailed(
			"invalid amount format",
			err.Error(),
		)
	}
	return d, nil
}

// NewMoneyFromString parses a form input such as "1 250,50".
func NewMoneyFromString(amount string, currency string) (*Money, error) {
	d, err := ParseDecimal(amount)
	if err != nil {
		return nil, err
	}
	return NewMoney(d, Currency(strings.ToUpper(currency)))
}

// Float returns the amount as a float64.
func (m Money) Float() float64 {
	f, _ := m.amount.Float64()
	return f
}

func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// String renders whole amounts without cents: "300 €", "12.50 €".
func (m Money) String() string {
	symbol := currencySymbols[m.currency]
	if m.amount.Equal(m.amount.Truncate(0)) {
		return fmt.Sprintf("%s %s", m.amount.StringFixed(0), symbol)
	}
	return fmt.Sprintf("%s %s", m.amount.StringFixed(2), symbol)
}

// FormatPercent renders a ratio already expressed in percent, one decimal.
func FormatPercent(percent float64) string {
	return decimal.NewFromFloat(percent).Round(1).StringFixed(1) + "%"
}
