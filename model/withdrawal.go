package model

import (
	"time"
)

type WithdrawalStatus string

const (
	WithdrawalStatusPending   WithdrawalStatus = "pending"
	WithdrawalStatusApproved  WithdrawalStatus = "approved"
	WithdrawalStatusRejected  WithdrawalStatus = "rejected"
	WithdrawalStatusCancelled WithdrawalStatus = "cancelled"
)

func (s WithdrawalStatus) String() string {
	return string(s)
}

func (s WithdrawalStatus) IsValid() bool {
	switch s {
	case WithdrawalStatusPending, WithdrawalStatusApproved, WithdrawalStatusRejected, WithdrawalStatusCancelled:
		return true
	default:
		return false
	}
}

// Withdrawal structure.
// The gross Amount is held from the balance at submission, split between FromEarning and FromDeposit.
// The fee is withheld from the payout so NetAmount is what the user receives.
type Withdrawal struct {
	ID               uint64           `gorm:"primaryKey" json:"id"`
	UserID           uint64           `json:"userId"`
	Amount           Money            `gorm:"type:decimal(36,18)" json:"amount"`
	FeeRate          Money            `gorm:"type:decimal(36,18)" json:"-"`
	FeeAmount        Money            `gorm:"type:decimal(36,18)" json:"feeAmount"`
	NetAmount        Money            `gorm:"type:decimal(36,18)" json:"netAmount"`
	FromEarning      Money            `gorm:"type:decimal(36,18)" json:"-"`
	FromDeposit      Money            `gorm:"type:decimal(36,18)" json:"-"`
	ProofURL         string           `json:"proofUrl,omitempty"`
	AccountReference string           `json:"accountReference,omitempty"`
	Status           WithdrawalStatus `json:"status"`
	Reason           string           `json:"reason,omitempty"`
	ReviewedBy       *uint64          `json:"reviewedBy,omitempty"`
	ReviewedAt       *time.Time       `json:"reviewedAt,omitempty"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

type WithdrawalList struct {
	Withdrawals []Withdrawal `json:"withdrawals"`
	Meta        PagingMeta   `json:"meta"`
}

type WithdrawalRequest struct {
	Amount           string `form:"amount" json:"amount" binding:"required"`
	ProofURL         string `form:"proofUrl" json:"proofUrl"`
	AccountReference string `form:"accountReference" json:"accountReference"`
}

type TransferRequest struct {
	Amount string `form:"amount" json:"amount" binding:"required"`
}

type ReviewRequest struct {
	Reason string `form:"reason" json:"reason"`
}
