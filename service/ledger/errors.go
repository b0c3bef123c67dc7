package ledger

import "errors"

var ErrInsufficientFunds = errors.New("INSUFFICIENT_FUNDS")
var ErrInvalidAmount = errors.New("INVALID_AMOUNT")
var ErrInvalidBucket = errors.New("INVALID_BUCKET")
var ErrInvalidKind = errors.New("INVALID_TRANSACTION_KIND")
var ErrMixedUsers = errors.New("MUTATIONS_FOR_DIFFERENT_USERS")

// ErrBalanceMismatch is returned when the stored total differs from the sum of its buckets
var ErrBalanceMismatch = errors.New("BALANCE_INTEGRITY_ERROR")
