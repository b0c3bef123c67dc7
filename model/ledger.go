package model

import (
	"time"

	"github.com/ericlagergren/decimal"
)

// TransactionKind tags every balance mutation
type TransactionKind string

const (
	TransactionKindDeposit     TransactionKind = "deposit"
	TransactionKindWithdrawal  TransactionKind = "withdrawal"
	TransactionKindAdminCredit TransactionKind = "admin_credit"
	TransactionKindQuizReward  TransactionKind = "quiz_reward"
	TransactionKindCommission  TransactionKind = "commission"
	TransactionKindTransfer    TransactionKind = "transfer"
	TransactionKindRefund      TransactionKind = "refund"
)

func (k TransactionKind) String() string {
	return string(k)
}

func (k TransactionKind) IsValid() bool {
	switch k {
	case TransactionKindDeposit,
		TransactionKindWithdrawal,
		TransactionKindAdminCredit,
		TransactionKindQuizReward,
		TransactionKindCommission,
		TransactionKindTransfer,
		TransactionKindRefund:
		return true
	default:
		return false
	}
}

// Bucket is the component of the balance a mutation applies to
type Bucket string

const (
	BucketDeposit Bucket = "deposit"
	BucketEarning Bucket = "earning"
)

func (b Bucket) IsValid() bool {
	return b == BucketDeposit || b == BucketEarning
}

type Direction string

const (
	DirectionCredit Direction = "credit"
	DirectionDebit  Direction = "debit"
)

type RelatedObjectType string

const (
	RelatedObjectDeposit        RelatedObjectType = "deposit"
	RelatedObjectWithdrawal     RelatedObjectType = "withdrawal"
	RelatedObjectQuizSubmission RelatedObjectType = "quiz_submission"
	RelatedObjectUser           RelatedObjectType = "user"
)

// Balances is a point in time view of the three balances of a user
type Balances struct {
	Total   *decimal.Big
	Deposit *decimal.Big
	Earning *decimal.Big
}

// BalancesResponse is the JSON shape of the balances returned after a transfer
type BalancesResponse struct {
	Balance        Money `json:"balance"`
	DepositBalance Money `json:"depositBalance"`
	EarningBalance Money `json:"earningBalance"`
}

// LedgerEntry is the append only record of a single balance mutation
type LedgerEntry struct {
	ID                  uint64            `gorm:"primaryKey" json:"id"`
	RefID               string            `json:"refId"`
	UserID              uint64            `json:"userId"`
	Kind                TransactionKind   `json:"kind"`
	Bucket              Bucket            `json:"bucket"`
	Direction           Direction         `json:"direction"`
	Amount              Money             `gorm:"type:decimal(36,18)" json:"amount"`
	BalanceAfter        Money             `gorm:"type:decimal(36,18)" json:"balanceAfter"`
	DepositBalanceAfter Money             `gorm:"type:decimal(36,18)" json:"depositBalanceAfter"`
	EarningBalanceAfter Money             `gorm:"type:decimal(36,18)" json:"earningBalanceAfter"`
	RelatedObjectType   RelatedObjectType `json:"relatedObjectType,omitempty"`
	RelatedObjectID     string            `json:"relatedObjectId,omitempty"`
	Comment             string            `json:"comment,omitempty"`
	CreatedAt           time.Time         `json:"createdAt"`
}

type LedgerEntryList struct {
	Entries []LedgerEntry `json:"entries"`
	Meta    PagingMeta    `json:"meta"`
}

// BucketTotals holds the sum of credits minus debits of a bucket
type BucketTotals struct {
	Bucket Bucket `json:"bucket"`
	Total  Money  `gorm:"type:decimal(36,18)" json:"total"`
}

// ReconcileReport compares stored balances with the ledger history
type ReconcileReport struct {
	UserID         uint64 `json:"userId"`
	DepositBalance Money  `json:"depositBalance"`
	EarningBalance Money  `json:"earningBalance"`
	Balance        Money  `json:"balance"`
	LedgerDeposit  Money  `json:"ledgerDeposit"`
	LedgerEarning  Money  `json:"ledgerEarning"`
	Consistent     bool   `json:"consistent"`
}
