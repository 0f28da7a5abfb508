package main

import (
	"fmt"
	"math"

	"github.com/Rhymond/go-money"
)

// formatMoney renders an amount in dollars, e.g. "$1,234.50".
func formatMoney(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		amount = 0
	}
	return money.NewFromFloat(amount, money.USD).Display()
}

func similarityPercent(s float64) string {
	return fmt.Sprintf("%.0f%%", s*100)
}
