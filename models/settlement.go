package models

import "github.com/shopspring/decimal"

// CurrencyPrecision is the number of decimal places money is rounded to
const CurrencyPrecision int32 = 2

// DefaultCommissionRate is the house fee taken from the total pot
var DefaultCommissionRate = decimal.RequireFromString("0.05")

// CalculateCommission returns pot * rate rounded to currency precision
func CalculateCommission(stake decimal.Decimal, rate decimal.Decimal) decimal.Decimal {
	pot := stake.Mul(decimal.NewFromInt(2))
	return pot.Mul(rate).Round(CurrencyPrecision)
}

// Settlement holds the money figures of a resolved wager
type Settlement struct {
	Pot        decimal.Decimal
	Commission decimal.Decimal
	Payout     decimal.Decimal
}

// NewSettlement builds the settlement figures for a stake and an already-fixed commission
func NewSettlement(stake decimal.Decimal, commission decimal.Decimal) Settlement {
	pot := stake.Mul(decimal.NewFromInt(2)).Round(CurrencyPrecision)
	return Settlement{
		Pot:        pot,
		Commission: commission.Round(CurrencyPrecision),
		Payout:     pot.Sub(commission).Round(CurrencyPrecision),
	}
}

// ResolutionResult is returned to the command front after a wager is settled
type ResolutionResult struct {
	Wager      *Wager
	WinnerID   int64
	LoserID    int64
	Score      string
	Settlement Settlement
}
