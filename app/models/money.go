package models

import (
	"github.com/shopspring/decimal"
)

// Money is a currency amount with two fractional digits. It is stored in
// decimal(6,2) columns and serialized as a JSON string such as "19.99".
type Money struct {
	decimal.Decimal
}

var (
	MinUnitPrice = MustMoney("0.01")
	MaxUnitPrice = MustMoney("9999.99")
)

func NewMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, err
	}
	return Money{d}, nil
}

func MustMoney(s string) Money {
	return Money{decimal.RequireFromString(s)}
}

func MoneyOf(d decimal.Decimal) Money { return Money{d} }

func (m Money) String() string { return m.StringFixed(2) }

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.StringFixed(2) + `"`), nil
}

// Times returns m × qty.
func (m Money) Times(qty int) Money {
	return Money{m.Mul(decimal.NewFromInt(int64(qty)))}
}

func (m Money) Plus(o Money) Money { return Money{m.Add(o.Decimal)} }

// IsValidUnitPrice reports whether m is a storable product price:
// 0.01 ≤ m ≤ 9999.99 with at most two fractional digits.
func (m Money) IsValidUnitPrice() bool {
	if m.LessThan(MinUnitPrice.Decimal) || m.GreaterThan(MaxUnitPrice.Decimal) {
		return false
	}
	return m.Equal(m.Truncate(2))
}
