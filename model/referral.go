package model

import (
	"time"

	"github.com/ericlagergren/decimal"
)

// MaxReferralDepth is the deepest level surfaced by the referral graph
const MaxReferralDepth = 4

// ReferralLevel is the hop distance of a team member from the user: A for direct referrals up to D
type ReferralLevel string

const (
	ReferralLevelA ReferralLevel = "A"
	ReferralLevelB ReferralLevel = "B"
	ReferralLevelC ReferralLevel = "C"
	ReferralLevelD ReferralLevel = "D"
)

var ReferralLevels = []ReferralLevel{ReferralLevelA, ReferralLevelB, ReferralLevelC, ReferralLevelD}

// LevelFromDepth maps a 1 based depth to its level
func LevelFromDepth(depth int) ReferralLevel {
	return ReferralLevels[depth-1]
}

// TeamLevels holds the descendants of a user partitioned by depth
type TeamLevels struct {
	A []*User
	B []*User
	C []*User
	D []*User
}

// Level returns the members at the given depth (1 based)
func (t *TeamLevels) Level(depth int) []*User {
	switch depth {
	case 1:
		return t.A
	case 2:
		return t.B
	case 3:
		return t.C
	case 4:
		return t.D
	}
	return nil
}

// Add appends a member at the given depth, members beyond MaxReferralDepth are ignored
func (t *TeamLevels) Add(depth int, u *User) {
	switch depth {
	case 1:
		t.A = append(t.A, u)
	case 2:
		t.B = append(t.B, u)
	case 3:
		t.C = append(t.C, u)
	case 4:
		t.D = append(t.D, u)
	}
}

func (t *TeamLevels) DirectReferrals() int {
	return len(t.A)
}

func (t *TeamLevels) TotalTeamMembers() int {
	return len(t.A) + len(t.B) + len(t.C) + len(t.D)
}

// TeamMember is the public view of a downline user tagged with the level it sits on
type TeamMember struct {
	ID        uint64        `json:"id"`
	Username  string        `json:"username"`
	Balance   Money         `json:"balance"`
	CreatedAt time.Time     `json:"createdAt"`
	Level     ReferralLevel `json:"level"`
}

// Members flattens the levels in order A to D
func (t *TeamLevels) Members() []TeamMember {
	members := make([]TeamMember, 0, t.TotalTeamMembers())
	for depth := 1; depth <= MaxReferralDepth; depth++ {
		for _, u := range t.Level(depth) {
			members = append(members, TeamMember{
				ID:        u.ID,
				Username:  u.Username,
				Balance:   u.Balance,
				CreatedAt: u.CreatedAt,
				Level:     LevelFromDepth(depth),
			})
		}
	}
	return members
}

type TeamMembersResponse struct {
	TeamMembers      []TeamMember `json:"teamMembers"`
	TotalTeamMembers int          `json:"totalTeamMembers"`
	DirectReferrals  int          `json:"directReferrals"`
}

// TeamStats are the two inputs of stage and rank selection
type TeamStats struct {
	DirectReferrals  int
	TotalTeamMembers int
}

// CommissionStage is a row of the commission table
type CommissionStage struct {
	Name      string
	MinDirect int
	MinTeam   int
	RateA     *decimal.Big
	RateB     *decimal.Big
	RateC     *decimal.Big
	RateD     *decimal.Big
}

func (s CommissionStage) Thresholds() (int, int) {
	return s.MinDirect, s.MinTeam
}

// Rate returns the rate of the given depth (1 based)
func (s CommissionStage) Rate(depth int) *decimal.Big {
	switch depth {
	case 1:
		return s.RateA
	case 2:
		return s.RateB
	case 3:
		return s.RateC
	case 4:
		return s.RateD
	}
	return nil
}

// CommissionPercentages are the rates of the active stage expressed in percent
type CommissionPercentages struct {
	A float64 `json:"A"`
	B float64 `json:"B"`
	C float64 `json:"C"`
	D float64 `json:"D"`
}

type BalanceSummary struct {
	LevelA Money `json:"levelA_TotalBalance"`
	LevelB Money `json:"levelB_TotalBalance"`
	LevelC Money `json:"levelC_TotalBalance"`
	LevelD Money `json:"levelD_TotalBalance"`
}

type CommissionBreakdown struct {
	FromDirectReferrals Money `json:"fromDirectReferrals"`
	FromLevelB          Money `json:"fromLevelB"`
	FromLevelC          Money `json:"fromLevelC"`
	FromLevelD          Money `json:"fromLevelD"`
}

// CommissionSummary is a snapshot computed on read, it is never credited automatically
type CommissionSummary struct {
	CurrentRank           string                `json:"currentRank"`
	CommissionPercentages CommissionPercentages `json:"commissionPercentages"`
	BalanceSummary        BalanceSummary        `json:"balanceSummary"`
	CommissionBreakdown   CommissionBreakdown   `json:"commissionBreakdown"`
	TotalCommission       Money                 `json:"totalCommission"`
	DirectReferrals       int                   `json:"directReferrals"`
	TotalTeamMembers      int                   `json:"totalTeamMembers"`
	RecentReferrals       []TeamMember          `json:"recentReferrals"`
}

type CommissionCreditRequest struct {
	Amount  string `form:"amount" json:"amount" binding:"required"`
	Comment string `form:"comment" json:"comment"`
}
