package model

import (
	"database/sql/driver"
	"strings"

	"github.com/dhiraj-001/MLM-sub000/conv"
	"github.com/ericlagergren/decimal"
	"github.com/ericlagergren/decimal/sql/postgres"
)

// Money is a decimal amount stored as decimal(36,18) and serialized to JSON as a string with 2 decimals
type Money struct {
	V *decimal.Big
}

// NewMoney wraps a copy of the given amount
func NewMoney(amount *decimal.Big) Money {
	return Money{V: conv.CloneToPrecision(amount)}
}

// ZeroMoney godoc
func ZeroMoney() Money {
	return Money{V: conv.NewDecimalWithPrecision()}
}

// Big returns a copy of the amount, zero when unset
func (m Money) Big() *decimal.Big {
	return conv.CloneToPrecision(m.V)
}

func (m Money) String() string {
	return conv.FormatMoney(m.V)
}

// MarshalJSON godoc
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + conv.FormatMoney(m.V) + `"`), nil
}

// UnmarshalJSON accepts both quoted and plain numbers
func (m *Money) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		m.V = nil
		return nil
	}
	amount, err := conv.ParseAmount(s)
	if err != nil {
		return err
	}
	m.V = amount
	return nil
}

// Scan implements sql.Scanner
func (m *Money) Scan(value interface{}) error {
	d := postgres.Decimal{V: conv.NewDecimalWithPrecision()}
	if err := d.Scan(value); err != nil {
		return err
	}
	if d.V == nil {
		d.V = conv.NewDecimalWithPrecision()
	}
	m.V = d.V
	return nil
}

// Value implements driver.Valuer
func (m Money) Value() (driver.Value, error) {
	d := postgres.Decimal{V: m.V}
	if d.V == nil {
		d.V = conv.NewDecimalWithPrecision()
	}
	return d.Value()
}
