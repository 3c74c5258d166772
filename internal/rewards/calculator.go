// Package rewards turns customer spending into accrued loyalty points.
package rewards

import "github.com/shopspring/decimal"

var (
	lowerTier = decimal.NewFromInt(50)
	upperTier = decimal.NewFromInt(100)
	upperRate = decimal.NewFromInt(2)
)

// CalculatePoints maps a transaction amount to points: 2 per whole unit spent
// above 100 plus 1 per whole unit spent between 50 and 100. Each tier is
// truncated toward zero on its own. Amounts are expected to be non-negative.
func CalculatePoints(amount decimal.Decimal) int64 {
	if !amount.GreaterThan(lowerTier) {
		return 0
	}
	var points int64
	capped := amount
	if amount.GreaterThan(upperTier) {
		points += amount.Sub(upperTier).Mul(upperRate).IntPart()
		capped = upperTier
	}
	points += capped.Sub(lowerTier).IntPart()
	return points
}
