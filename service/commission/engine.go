package commission

import (
	"sort"

	"github.com/ericlagergren/decimal"

	"github.com/dhiraj-001/MLM-sub000/conv"
	"github.com/dhiraj-001/MLM-sub000/model"
	"github.com/dhiraj-001/MLM-sub000/service/tiers"
)

// ZeroStageName is used when the table has no row reachable with zero referrals
const ZeroStageName = "Member"

// Engine applies the commission stage table to a team
type Engine struct {
	stages []model.CommissionStage
	recent int
}

// NewEngine godoc
func NewEngine(stages []model.CommissionStage, recentReferrals int) *Engine {
	if recentReferrals <= 0 {
		recentReferrals = 5
	}
	return &Engine{stages: stages, recent: recentReferrals}
}

// Stages returns the table in ascending order
func (e *Engine) Stages() []model.CommissionStage {
	sorted := make([]model.CommissionStage, 0, len(e.stages))
	for _, idx := range tiers.Sorted(e.stages) {
		sorted = append(sorted, e.stages[idx])
	}
	return sorted
}

// Stage returns the highest stage whose direct and team minimums are both met
func (e *Engine) Stage(stats model.TeamStats) model.CommissionStage {
	idx := tiers.Select(e.stages, stats.DirectReferrals, stats.TotalTeamMembers)
	if idx == -1 {
		zero := conv.NewDecimalWithPrecision()
		return model.CommissionStage{Name: ZeroStageName, RateA: zero, RateB: zero, RateC: zero, RateD: zero}
	}
	return e.stages[idx]
}

// Compute builds the commission snapshot of a team. Nothing is credited.
func (e *Engine) Compute(team *model.TeamLevels) *model.CommissionSummary {
	stats := model.TeamStats{
		DirectReferrals:  team.DirectReferrals(),
		TotalTeamMembers: team.TotalTeamMembers(),
	}
	stage := e.Stage(stats)

	var levelTotals, commissions [model.MaxReferralDepth]*decimal.Big
	for depth := 1; depth <= model.MaxReferralDepth; depth++ {
		total := conv.NewDecimalWithPrecision()
		for _, member := range team.Level(depth) {
			total.Add(total, member.Balance.Big())
		}
		levelTotals[depth-1] = total

		rate := stage.Rate(depth)
		if rate == nil {
			rate = conv.NewDecimalWithPrecision()
		}
		commissions[depth-1] = conv.RoundMoney(conv.Mul(total, rate))
	}

	return &model.CommissionSummary{
		CurrentRank: stage.Name,
		CommissionPercentages: model.CommissionPercentages{
			A: percent(stage.RateA),
			B: percent(stage.RateB),
			C: percent(stage.RateC),
			D: percent(stage.RateD),
		},
		BalanceSummary: model.BalanceSummary{
			LevelA: model.NewMoney(levelTotals[0]),
			LevelB: model.NewMoney(levelTotals[1]),
			LevelC: model.NewMoney(levelTotals[2]),
			LevelD: model.NewMoney(levelTotals[3]),
		},
		CommissionBreakdown: model.CommissionBreakdown{
			FromDirectReferrals: model.NewMoney(commissions[0]),
			FromLevelB:          model.NewMoney(commissions[1]),
			FromLevelC:          model.NewMoney(commissions[2]),
			FromLevelD:          model.NewMoney(commissions[3]),
		},
		TotalCommission:  model.NewMoney(conv.Sum(commissions[:]...)),
		DirectReferrals:  stats.DirectReferrals,
		TotalTeamMembers: stats.TotalTeamMembers,
		RecentReferrals:  e.recentReferrals(team),
	}
}

func (e *Engine) recentReferrals(team *model.TeamLevels) []model.TeamMember {
	members := team.Members()
	sort.SliceStable(members, func(i, j int) bool {
		if members[i].CreatedAt.Equal(members[j].CreatedAt) {
			return members[i].ID > members[j].ID
		}
		return members[i].CreatedAt.After(members[j].CreatedAt)
	})
	if len(members) > e.recent {
		members = members[:e.recent]
	}
	return members
}

func percent(rate *decimal.Big) float64 {
	if rate == nil {
		return 0
	}
	return conv.ToFloat(conv.Mul(rate, conv.FromInt(100)))
}
