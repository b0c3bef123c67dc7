package conv

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ericlagergren/decimal"
	"github.com/pkg/errors"
)

// MoneyScale is the number of decimals used for amounts shown to users and credited as rewards
const MoneyScale = 2

// ErrInvalidNumber is returned when a string can not be parsed into a decimal amount
var ErrInvalidNumber = errors.New("INVALID_NUMBER")

var zeroRounded decimal.Big

func init() {
	zeroRounded = decimal.Big{}
	zeroRounded.Context = decimal.Context128
	zeroRounded.Context.RoundingMode = decimal.ToZero
	zeroRounded.Quantize(8)
}

// NewDecimalWithPrecision returns a zero value using the 128 bit context with truncation
func NewDecimalWithPrecision() *decimal.Big {
	z := zeroRounded
	return &z
}

// CloneToPrecision copies the amount into a new decimal truncated to 8 decimals
func CloneToPrecision(amount *decimal.Big) *decimal.Big {
	dec := &decimal.Big{}
	dec.Context = decimal.Context128
	dec.Context.RoundingMode = decimal.ToZero
	if amount != nil {
		dec.Copy(amount)
	}
	dec.Quantize(8)
	return dec
}

// RoundMoney returns a copy of the amount truncated to cents
func RoundMoney(amount *decimal.Big) *decimal.Big {
	dec := &decimal.Big{}
	dec.Context = decimal.Context128
	dec.Context.RoundingMode = decimal.ToZero
	if amount != nil {
		dec.Copy(amount)
	}
	dec.Quantize(MoneyScale)
	return dec
}

// FitsScale reports whether the amount has no digits beyond the given number of decimals
func FitsScale(amount *decimal.Big, scale int) bool {
	if IsInvalid(amount) {
		return false
	}
	dec := &decimal.Big{}
	dec.Context = decimal.Context128
	dec.Context.RoundingMode = decimal.ToZero
	dec.Copy(amount)
	dec.Quantize(scale)
	return dec.Cmp(amount) == 0
}

// ParseAmount parses a user supplied amount
func ParseAmount(s string) (*decimal.Big, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrInvalidNumber
	}
	amount, ok := NewDecimalWithPrecision().SetString(s)
	if !ok || IsInvalid(amount) {
		return nil, errors.Wrapf(ErrInvalidNumber, "amount %q", s)
	}
	return amount, nil
}

// FromFloat converts a configuration value into a decimal using its shortest representation,
// so 0.02 becomes exactly 0.02 and not the closest binary fraction.
func FromFloat(f float64) *decimal.Big {
	dec, _ := NewDecimalWithPrecision().SetString(strconv.FormatFloat(f, 'f', -1, 64))
	return dec
}

// FromInt converts an integer into a decimal
func FromInt(i int64) *decimal.Big {
	return NewDecimalWithPrecision().SetMantScale(i, 0)
}

// IsInvalid reports whether the amount is nil, NaN or infinite
func IsInvalid(amount *decimal.Big) bool {
	if amount == nil {
		return true
	}
	return NewDecimalWithPrecision().CheckNaNs(amount, nil) || amount.IsInf(0)
}

// IsPositive reports whether the amount is a finite number above zero
func IsPositive(amount *decimal.Big) bool {
	return !IsInvalid(amount) && amount.Sign() > 0
}

// Sum adds all amounts ignoring nil values
func Sum(amounts ...*decimal.Big) *decimal.Big {
	total := NewDecimalWithPrecision()
	for _, amount := range amounts {
		if amount == nil {
			continue
		}
		total.Add(total, amount)
	}
	return total
}

// Mul returns a new decimal with the product of x and y
func Mul(x, y *decimal.Big) *decimal.Big {
	return NewDecimalWithPrecision().Mul(x, y)
}

// Sub returns a new decimal with x - y
func Sub(x, y *decimal.Big) *decimal.Big {
	return NewDecimalWithPrecision().Sub(x, y)
}

// Min returns the smaller of the two amounts
func Min(x, y *decimal.Big) *decimal.Big {
	if x.Cmp(y) <= 0 {
		return CloneToPrecision(x)
	}
	return CloneToPrecision(y)
}

// ToFloat converts the decimal for display values such as percentages, 0 for nil
func ToFloat(amount *decimal.Big) float64 {
	if IsInvalid(amount) {
		return 0
	}
	f, err := strconv.ParseFloat(amount.String(), 64)
	if err != nil {
		return 0
	}
	return f
}

// FormatMoney formats the amount with 2 decimals, "0.00" for nil
func FormatMoney(amount *decimal.Big) string {
	if amount == nil {
		return "0.00"
	}
	return fmt.Sprintf("%.2f", RoundMoney(amount))
}

// FormatRate formats a commission or reward rate with 4 decimals
func FormatRate(rate *decimal.Big) string {
	if rate == nil {
		return "0"
	}
	return fmt.Sprintf("%.4f", rate)
}
