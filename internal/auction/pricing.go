package auction

import (
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// PriceAt returns the linearly decayed price at now, floored at zero. Elapsed time is
// truncated to whole units.
func PriceAt(startingPrice, discountRate decimal.Decimal, startAt, now time.Time, unit time.Duration) decimal.Decimal {
	if unit <= 0 {
		unit = time.Second
	}
	var elapsed int64
	if now.After(startAt) {
		elapsed = int64(now.Sub(startAt) / unit)
	}
	discount := discountRate.Mul(decimal.NewFromInt(elapsed))
	if discount.GreaterThan(startingPrice) {
		return decimal.Zero
	}
	return startingPrice.Sub(discount)
}

// SplitFee returns fee = floor(price * percent / 100) and the remainder for the seller.
func SplitFee(price decimal.Decimal, percent int64) (fee, proceeds decimal.Decimal) {
	fee, _ = price.Mul(decimal.NewFromInt(percent)).QuoRem(hundred, 0)
	return fee, price.Sub(fee)
}

// isWholeAmount reports whether d is a non-negative integer amount.
func isWholeAmount(d decimal.Decimal) bool {
	return !d.IsNegative() && d.Equal(d.Truncate(0))
}
