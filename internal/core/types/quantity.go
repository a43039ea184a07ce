// Package types provides the fixed-point quantity shared by every ledger table.
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"jargas/internal/core/apperror"
)

// Quantity is a fixed-point quantity with 2 fractional digits (scale = 100).
// It maps onto NUMERIC(15,2) columns through pgx's numeric codec.
type Quantity int64

// QuantityScale is the number of scaled units in one whole unit.
const QuantityScale int64 = 100

const quantityExp = -2

// quantityLimit is the exclusive magnitude bound of NUMERIC(15,2).
var quantityLimit = decimal.New(1, 13)

// NewQuantity creates a Quantity of whole units.
func NewQuantity(units int64) Quantity {
	return Quantity(units * QuantityScale)
}

// NewQuantityFromScaled wraps an already scaled value (1250 -> 12.50).
func NewQuantityFromScaled(v int64) Quantity { return Quantity(v) }

// QuantityFromDecimal rounds d half away from zero to 2 digits.
func QuantityFromDecimal(d decimal.Decimal) (Quantity, error) {
	if d.Abs().GreaterThanOrEqual(quantityLimit) {
		return 0, fmt.Errorf("quantity %s out of range", d.String())
	}
	return Quantity(d.Round(2).Shift(2).IntPart()), nil
}

// ParseQuantity parses a decimal string such as "12.5" or "-3.25".
// Values with more than 2 significant fractional digits are rejected.
func ParseQuantity(s string) (Quantity, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty quantity")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("parse quantity: %w", err)
	}
	if !d.Equal(d.Round(2)) {
		return 0, apperror.NewValidation(
			fmt.Sprintf("quantity %s has more than 2 fractional digits", s))
	}
	return QuantityFromDecimal(d)
}

// MustQuantity parses s and panics on error. Use only for constants and tests.
func MustQuantity(s string) Quantity {
	q, err := ParseQuantity(s)
	if err != nil {
		panic(err)
	}
	return q
}

func (q Quantity) Scaled() int64 { return int64(q) }

func (q Quantity) Decimal() decimal.Decimal { return decimal.New(int64(q), quantityExp) }

func (q Quantity) Float64() float64 { return float64(q) / float64(QuantityScale) }

func (q Quantity) IsZero() bool { return q == 0 }

func (q Quantity) IsPositive() bool { return q > 0 }

func (q Quantity) IsNegative() bool { return q < 0 }

// ClampZero returns q, or zero when q is negative.
func (q Quantity) ClampZero() Quantity {
	if q < 0 {
		return 0
	}
	return q
}

// SumQuantities adds all values.
func SumQuantities(values ...Quantity) Quantity {
	var total Quantity
	for _, v := range values {
		total += v
	}
	return total
}

// String returns a decimal string with exactly 2 fractional digits.
func (q Quantity) String() string {
	return q.Decimal().StringFixed(2)
}

// MarshalJSON encodes Quantity as a JSON number.
func (q Quantity) MarshalJSON() ([]byte, error) {
	return []byte(q.String()), nil
}

// UnmarshalJSON accepts either a JSON number or a numeric string.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*q = 0
		return nil
	}

	raw := string(data)
	if data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	}

	parsed, err := ParseQuantity(raw)
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}

// ScanNumeric implements pgtype.NumericScanner. SQL NULL scans as zero,
// which is what COALESCE-less aggregates over empty sets need.
func (q *Quantity) ScanNumeric(n pgtype.Numeric) error {
	if !n.Valid {
		*q = 0
		return nil
	}
	if n.NaN || n.InfinityModifier != pgtype.Finite {
		return fmt.Errorf("cannot scan non-finite numeric into Quantity")
	}
	if n.Int == nil {
		*q = 0
		return nil
	}

	parsed, err := QuantityFromDecimal(decimal.NewFromBigInt(n.Int, n.Exp))
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}

// NumericValue implements pgtype.NumericValuer.
func (q Quantity) NumericValue() (pgtype.Numeric, error) {
	return pgtype.Numeric{Int: big.NewInt(int64(q)), Exp: quantityExp, Valid: true}, nil
}
