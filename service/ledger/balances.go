package ledger

import (
	"github.com/ericlagergren/decimal"

	"github.com/dhiraj-001/MLM-sub000/conv"
	"github.com/dhiraj-001/MLM-sub000/model"
)

// Check verifies that the total equals the sum of the deposit and earning buckets
func Check(b model.Balances) error {
	if conv.IsInvalid(b.Total) || conv.IsInvalid(b.Deposit) || conv.IsInvalid(b.Earning) {
		return ErrBalanceMismatch
	}
	if conv.Sum(b.Deposit, b.Earning).Cmp(b.Total) != 0 {
		return ErrBalanceMismatch
	}
	return nil
}

// Apply returns the balances after crediting or debiting amount on the bucket.
// The input is never modified, a failed debit leaves the caller with the original balances.
// The amount is truncated to the stored precision first, callers record the same value with Quantize.
func Apply(b model.Balances, bucket model.Bucket, direction model.Direction, amount *decimal.Big) (model.Balances, error) {
	amount = Quantize(amount)
	if !conv.IsPositive(amount) {
		return b, ErrInvalidAmount
	}
	if !bucket.IsValid() {
		return b, ErrInvalidBucket
	}

	next := model.Balances{
		Deposit: conv.CloneToPrecision(b.Deposit),
		Earning: conv.CloneToPrecision(b.Earning),
	}
	target := next.Deposit
	if bucket == model.BucketEarning {
		target = next.Earning
	}

	switch direction {
	case model.DirectionCredit:
		target.Add(target, amount)
	case model.DirectionDebit:
		if target.Cmp(amount) < 0 {
			return b, ErrInsufficientFunds
		}
		target.Sub(target, amount)
	default:
		return b, ErrInvalidAmount
	}

	next.Total = conv.Sum(next.Deposit, next.Earning)
	return next, nil
}

// Quantize truncates an amount to the precision of the balance columns, nil stays nil
func Quantize(amount *decimal.Big) *decimal.Big {
	if amount == nil {
		return nil
	}
	return conv.CloneToPrecision(amount)
}

// SplitDebit splits an amount to hold from the balances, taking it from the earning bucket first
// and the rest from the deposit bucket
func SplitDebit(b model.Balances, amount *decimal.Big) (fromEarning, fromDeposit *decimal.Big, err error) {
	if !conv.IsPositive(amount) {
		return nil, nil, ErrInvalidAmount
	}
	if conv.Sum(b.Deposit, b.Earning).Cmp(amount) < 0 {
		return nil, nil, ErrInsufficientFunds
	}
	fromEarning = conv.Min(b.Earning, amount)
	if fromEarning.Sign() < 0 {
		fromEarning = conv.NewDecimalWithPrecision()
	}
	fromDeposit = conv.Sub(amount, fromEarning)
	return fromEarning, fromDeposit, nil
}
