package predict

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// Currency is a display currency. Multipliers are fixed approximations
// against the model's INR output, not live rates.
type Currency struct {
	Code       string
	Label      string
	Multiplier float64
}

var Currencies = []Currency{
	{Code: "INR", Label: "₹ (INR)", Multiplier: 1},
	{Code: "USD", Label: "$ (USD)", Multiplier: 0.012},
	{Code: "EUR", Label: "€ (EUR)", Multiplier: 0.011},
}

// DefaultCurrency is the model's native currency.
var DefaultCurrency = Currencies[0]

// LookupCurrency finds a currency by label ("$ (USD)") or code ("usd").
func LookupCurrency(s string) (Currency, bool) {
	for _, c := range Currencies {
		if s == c.Label || strings.EqualFold(s, c.Code) {
			return c, true
		}
	}
	return Currency{}, false
}

// Symbol is the first token of the label.
func (c Currency) Symbol() string {
	if f := strings.Fields(c.Label); len(f) > 0 {
		return f[0]
	}
	return c.Code
}

func (c Currency) Convert(raw float64) float64 {
	return raw * c.Multiplier
}

const (
	monthsPerYear = 12
	hoursPerYear  = 40 * 52
	daysPerYear   = 365
)

// Breakdown splits an annual figure into the derived metrics.
type Breakdown struct {
	Annual  float64
	Monthly float64
	Hourly  float64
	Daily   float64
}

func Derive(annual float64) Breakdown {
	return Breakdown{
		Annual:  annual,
		Monthly: annual / monthsPerYear,
		Hourly:  annual / hoursPerYear,
		Daily:   annual / daysPerYear,
	}
}

// Formatted is a Breakdown rendered for display. Annual and monthly figures
// get thousands separators; hourly and daily do not.
type Formatted struct {
	Annual  string
	Monthly string
	Hourly  string
	Daily   string
}

func (b Breakdown) Format(symbol string) Formatted {
	return Formatted{
		Annual:  symbol + " " + humanize.FormatFloat("#,###.##", b.Annual),
		Monthly: symbol + " " + humanize.FormatFloat("#,###.##", b.Monthly),
		Hourly:  fmt.Sprintf("%s %.2f", symbol, b.Hourly),
		Daily:   fmt.Sprintf("%s %.2f", symbol, b.Daily),
	}
}
