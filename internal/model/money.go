package model

import "github.com/shopspring/decimal"

// RoundCurrency rounds an amount to cents, halves away from zero.
func RoundCurrency(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// RoundQuantity rounds a measured quantity to three decimals for display.
func RoundQuantity(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(3).Float64()
	return f
}

func mmToM(mm float64) float64 {
	return mm / 1000.0
}

func mm2ToM2(mm2 float64) float64 {
	return mm2 / 1_000_000.0
}
