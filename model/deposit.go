package model

import (
	"time"
)

type DepositStatus string

const (
	DepositStatusPending  DepositStatus = "pending"
	DepositStatusApproved DepositStatus = "approved"
	DepositStatusRejected DepositStatus = "rejected"
)

func (s DepositStatus) String() string {
	return string(s)
}

func (s DepositStatus) IsValid() bool {
	switch s {
	case DepositStatusPending, DepositStatusApproved, DepositStatusRejected:
		return true
	default:
		return false
	}
}

// Deposit structure
type Deposit struct {
	ID            uint64        `gorm:"primaryKey" json:"id"`
	UserID        uint64        `json:"userId"`
	Amount        Money         `gorm:"type:decimal(36,18)" json:"amount"`
	TransactionID string        `gorm:"unique" json:"transactionId"`
	Status        DepositStatus `json:"status"`
	AddedByAdmin  bool          `json:"addedByAdmin"`
	Remark        string        `json:"remark,omitempty"`
	ReviewedBy    *uint64       `json:"reviewedBy,omitempty"`
	ReviewedAt    *time.Time    `json:"reviewedAt,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

type DepositList struct {
	Deposits []Deposit `json:"deposits"`
	Meta     PagingMeta `json:"meta"`
}

type DepositRequest struct {
	Amount        string `form:"amount" json:"amount" binding:"required"`
	TransactionID string `form:"transactionId" json:"transactionId" binding:"required"`
}

type AdminDepositRequest struct {
	Amount string `form:"amount" json:"amount" binding:"required"`
	Remark string `form:"remark" json:"remark"`
}
