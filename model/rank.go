package model

import (
	"github.com/ericlagergren/decimal"
)

// ZeroStarRank is the rank of users below the first row of the table
const ZeroStarRank = "0-Star"

// StarRank is a row of the star rank table
type StarRank struct {
	Name         string
	MinDirect    int
	MinTeam      int
	MonthlyBonus *decimal.Big
}

func (r StarRank) Thresholds() (int, int) {
	return r.MinDirect, r.MinTeam
}

// RankSummary is the monthly reward view of a user
type RankSummary struct {
	CurrentRank      string        `json:"currentRank"`
	MonthlyBonus     Money         `json:"monthlyBonus"`
	DirectReferrals  int           `json:"directReferrals"`
	TotalTeamMembers int           `json:"totalTeamMembers"`
	NextRank         *RankProgress `json:"nextRank,omitempty"`
}

// RankProgress tells how far the user is from the next rank
type RankProgress struct {
	Rank           string `json:"rank"`
	MonthlyBonus   Money  `json:"monthlyBonus"`
	RequiredDirect int    `json:"requiredDirect"`
	RequiredTeam   int    `json:"requiredTeam"`
	MissingDirect  int    `json:"missingDirect"`
	MissingTeam    int    `json:"missingTeam"`
}

// ReferralDashboard groups the commission and rank views of a user for the admin console
type ReferralDashboard struct {
	Commission *CommissionSummary `json:"commission"`
	Rank       *RankSummary       `json:"rank"`
}
