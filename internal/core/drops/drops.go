// Package drops implements integer drop arithmetic for escrow amounts.
// One XRP is exactly 1,000,000 drops; all monetary state is stored in drops.
package drops

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// Drops is a non-negative XRP amount in drops. The upper bound matches a
// signed BIGINT column so amounts round-trip through the database.
type Drops int64

const (
	// DropsPerXRP is the number of drops in one XRP.
	DropsPerXRP = 1_000_000

	// MaxDrops is the largest storable amount (signed 64-bit max).
	MaxDrops Drops = 9_223_372_036_854_775_807
)

var (
	ErrNegativeDrops = errors.New("drops_must_be_non_negative")
	ErrDropsOverflow = errors.New("drops_overflow_bigint")
	ErrNegativeXRP   = errors.New("xrp_must_be_non_negative")
	ErrFractionalXRP = errors.New("xrp_must_map_to_integer_drops")
	ErrInvalidXRP    = errors.New("xrp_value_invalid")
)

var dropScale = big.NewRat(DropsPerXRP, 1)

// New validates a raw drop count.
func New(value int64) (Drops, error) {
	if value < 0 {
		return 0, ErrNegativeDrops
	}
	return Drops(value), nil
}

// FromXRP converts a decimal XRP string into drops. The conversion is exact:
// any value that does not land on an integer drop count is rejected.
func FromXRP(xrp string) (Drops, error) {
	trimmed := strings.TrimSpace(xrp)
	if trimmed == "" {
		return 0, ErrInvalidXRP
	}
	amount, ok := new(big.Rat).SetString(trimmed)
	if !ok {
		return 0, ErrInvalidXRP
	}
	if amount.Sign() < 0 {
		return 0, ErrNegativeXRP
	}
	scaled := new(big.Rat).Mul(amount, dropScale)
	if !scaled.IsInt() {
		return 0, ErrFractionalXRP
	}
	value := scaled.Num()
	if !value.IsInt64() {
		return 0, ErrDropsOverflow
	}
	return Drops(value.Int64()), nil
}

// ToXRP renders drops as a decimal XRP string without trailing zeros.
func (d Drops) ToXRP() string {
	whole := int64(d) / DropsPerXRP
	frac := int64(d) % DropsPerXRP
	if frac == 0 {
		return fmt.Sprintf("%d", whole)
	}
	fracStr := strings.TrimRight(fmt.Sprintf("%06d", frac), "0")
	return fmt.Sprintf("%d.%s", whole, fracStr)
}

// Int64 returns the raw drop count.
func (d Drops) Int64() int64 {
	return int64(d)
}

// String renders the drop count the way XRPL amount fields expect it.
func (d Drops) String() string {
	return fmt.Sprintf("%d", int64(d))
}
