package rank

import (
	"github.com/dhiraj-001/MLM-sub000/model"
	"github.com/dhiraj-001/MLM-sub000/service/tiers"
)

// Engine resolves the star rank of a user from the rank table.
// It shares its inputs with the commission stage selection but never its table.
type Engine struct {
	ranks []model.StarRank
}

func NewEngine(ranks []model.StarRank) *Engine {
	return &Engine{ranks: ranks}
}

// Compute returns the current rank, its monthly bonus and the progress towards the next rank
func (e *Engine) Compute(stats model.TeamStats) *model.RankSummary {
	summary := &model.RankSummary{
		CurrentRank:      model.ZeroStarRank,
		MonthlyBonus:     model.ZeroMoney(),
		DirectReferrals:  stats.DirectReferrals,
		TotalTeamMembers: stats.TotalTeamMembers,
	}

	idx := tiers.Select(e.ranks, stats.DirectReferrals, stats.TotalTeamMembers)
	if idx != -1 {
		summary.CurrentRank = e.ranks[idx].Name
		summary.MonthlyBonus = model.NewMoney(e.ranks[idx].MonthlyBonus)
	}

	if next := tiers.Next(e.ranks, idx); next != -1 {
		r := e.ranks[next]
		summary.NextRank = &model.RankProgress{
			Rank:           r.Name,
			MonthlyBonus:   model.NewMoney(r.MonthlyBonus),
			RequiredDirect: r.MinDirect,
			RequiredTeam:   r.MinTeam,
			MissingDirect:  missing(r.MinDirect, stats.DirectReferrals),
			MissingTeam:    missing(r.MinTeam, stats.TotalTeamMembers),
		}
	}
	return summary
}

// Name returns only the rank name, used by listings
func (e *Engine) Name(stats model.TeamStats) string {
	if idx := tiers.Select(e.ranks, stats.DirectReferrals, stats.TotalTeamMembers); idx != -1 {
		return e.ranks[idx].Name
	}
	return model.ZeroStarRank
}

func missing(required, current int) int {
	if current >= required {
		return 0
	}
	return required - current
}
