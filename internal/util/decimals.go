package util

import (
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

var maxUint64 = fromUint64(math.MaxUint64)

// ParseAmount parses a human-readable amount such as "1.5".
func ParseAmount(amount string) (decimal.Decimal, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return decimal.Decimal{}, fmt.Errorf("amount cannot be empty")
	}

	d, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	return d, nil
}

// ToBaseUnits converts a human-readable amount to base units, rounding down.
// e.g., 2.5 USDC (6 decimals) -> 2500000
func ToBaseUnits(amount decimal.Decimal, decimals uint8) (uint64, error) {
	if amount.IsNegative() {
		return 0, fmt.Errorf("amount cannot be negative: %s", amount.String())
	}

	base := amount.Shift(int32(decimals)).Floor()
	if base.GreaterThan(maxUint64) {
		return 0, fmt.Errorf("amount %s with %d decimals overflows uint64", amount.String(), decimals)
	}

	return base.BigInt().Uint64(), nil
}

// FromBaseUnits converts base units to a human-readable amount
// e.g., 10000000 with 6 decimals -> "10"
func FromBaseUnits(amount uint64, decimals uint8) string {
	return fromUint64(amount).Shift(-int32(decimals)).String()
}

func fromUint64(v uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(v), 0)
}
