package model

import (
	"strings"
	"time"

	"github.com/rs/xid"
	"golang.org/x/crypto/bcrypt"
)

// RoleAlias is the role carried in the access token
type RoleAlias string

const (
	RoleAdmin  RoleAlias = "admin"
	RoleMember RoleAlias = "member"
)

func (r RoleAlias) String() string {
	return string(r)
}

func (r RoleAlias) IsValid() bool {
	switch r {
	case RoleAdmin, RoleMember:
		return true
	default:
		return false
	}
}

// User structure
type User struct {
	ID       uint64 `gorm:"primaryKey" json:"id"`
	Email    string `gorm:"unique" json:"email"`
	Phone    string `json:"phone"`
	Username string `gorm:"unique" json:"username"`
	Password string `gorm:"column:password_hash;not null" json:"-"`
	Country  string `json:"country,omitempty"`

	Balance        Money `gorm:"type:decimal(36,18)" json:"balance"`
	DepositBalance Money `gorm:"type:decimal(36,18)" json:"depositBalance"`
	EarningBalance Money `gorm:"type:decimal(36,18)" json:"earningBalance"`

	ReferralCode string  `gorm:"unique" json:"referralCode"`
	ReferredBy   *string `json:"referredBy"`

	IsBlocked           bool   `json:"isBlocked"`
	BlockReason         string `json:"blockReason,omitempty"`
	CanWithdraw         bool   `json:"canWithdraw"`
	WithdrawBlockReason string `json:"withdrawBlockReason,omitempty"`
	IsAdmin             bool   `json:"isAdmin"`

	LastLoginAt     *time.Time `json:"lastLoginAt,omitempty"`
	LastLoginDevice string     `json:"-"`
	EditedByAdmin   *time.Time `json:"editedByAdmin"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// UserResponse wraps the user for the profile endpoint
type UserResponse struct {
	User *User `json:"user"`
}

// UserList structure
type UserList struct {
	Users []UserWithRank `json:"users"`
	Meta  PagingMeta     `json:"meta"`
}

// UserWithRank adds the cached team stats to a user in admin listings
type UserWithRank struct {
	User
	DirectReferrals  int    `json:"directReferrals"`
	TotalTeamMembers int    `json:"totalTeamMembers"`
	CurrentRank      string `json:"currentRank"`
}

// NewUser creates a new user with zero balances and a fresh referral code
func NewUser(email, phone, username, pass, country string, referredBy *string) *User {
	return &User{
		Email:          strings.ToLower(strings.TrimSpace(email)),
		Phone:          phone,
		Username:       strings.TrimSpace(username),
		Password:       pass,
		Country:        country,
		Balance:        ZeroMoney(),
		DepositBalance: ZeroMoney(),
		EarningBalance: ZeroMoney(),
		ReferralCode:   NewReferralCode(),
		ReferredBy:     referredBy,
		CanWithdraw:    true,
	}
}

// NewReferralCode returns an 8 character upper case code.
// The tail of an xid holds the counter and random bytes so consecutive codes differ.
func NewReferralCode() string {
	id := xid.New().String()
	return strings.ToUpper(id[len(id)-8:])
}

// Role godoc
func (user *User) Role() RoleAlias {
	if user.IsAdmin {
		return RoleAdmin
	}
	return RoleMember
}

// Balances returns the current point in time balances of the user
func (user *User) Balances() Balances {
	return Balances{
		Total:   user.Balance.Big(),
		Deposit: user.DepositBalance.Big(),
		Earning: user.EarningBalance.Big(),
	}
}

// SetBalances copies the balances into the user
func (user *User) SetBalances(b Balances) {
	user.Balance = NewMoney(b.Total)
	user.DepositBalance = NewMoney(b.Deposit)
	user.EarningBalance = NewMoney(b.Earning)
}

// EncodePass encode the password
func (user *User) EncodePass() error {
	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hash)
	return nil
}

// ValidatePass check if the given password matches the user
func (user *User) ValidatePass(pass string) bool {
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(pass)); err != nil {
		return false
	}
	return true
}

type RegistrationRequest struct {
	Email      string `form:"email" json:"email" binding:"required"`
	Phone      string `form:"phone" json:"phone"`
	Username   string `form:"username" json:"username" binding:"required"`
	Password   string `form:"password" json:"password" binding:"required"`
	Country    string `form:"country" json:"country"`
	InviteCode string `form:"referral" json:"referral"`
}

type LoginRequest struct {
	Identifier string `form:"email" json:"email" binding:"required"`
	Password   string `form:"password" json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"`
	User      *User  `json:"user"`
}

// UserEditRequest holds the fields an admin may change. Nil fields are left untouched.
type UserEditRequest struct {
	Email       *string `json:"email" form:"email"`
	Phone       *string `json:"phone" form:"phone"`
	Username    *string `json:"username" form:"username"`
	IsAdmin     *bool   `json:"isAdmin" form:"isAdmin"`
	CanWithdraw *bool   `json:"canWithdraw" form:"canWithdraw"`
}

type BlockRequest struct {
	Reason string `json:"reason" form:"reason"`
}
