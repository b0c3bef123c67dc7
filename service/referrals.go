package service

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/dhiraj-001/MLM-sub000/cache/team_stats"
	"github.com/dhiraj-001/MLM-sub000/model"
	"github.com/dhiraj-001/MLM-sub000/service/referral"
)

// team loads the user and walks their referral graph, refreshing the cached team stats
func (service *Service) team(ctx context.Context, userID uint64) (*model.TeamLevels, error) {
	user, err := service.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, notFound(err)
	}
	team, err := service.Graph.Descendants(ctx, user)
	if err != nil {
		if errors.Is(err, referral.ErrGraphIntegrity) {
			log.Error().Err(err).
				Str("section", "service:referrals").
				Uint64("user_id", userID).
				Msg("Referral graph integrity error")
		}
		return nil, err
	}
	service.cacheTeamStats(userID, referral.Stats(team))
	return team, nil
}

func (service *Service) cacheTeamStats(userID uint64, stats model.TeamStats) team_stats.Entry {
	entry := team_stats.Entry{
		Stats:     stats,
		Stage:     service.Commission.Stage(stats).Name,
		Rank:      service.Rank.Name(stats),
		UpdatedAt: time.Now(),
	}
	team_stats.Set(userID, entry)
	return entry
}

// GetCommission computes the commission snapshot of the user from the balances of their team
func (service *Service) GetCommission(ctx context.Context, userID uint64) (*model.CommissionSummary, error) {
	team, err := service.team(ctx, userID)
	if err != nil {
		return nil, err
	}
	return service.Commission.Compute(team), nil
}

// GetMonthlyReward computes the star rank of the user and its monthly bonus
func (service *Service) GetMonthlyReward(ctx context.Context, userID uint64) (*model.RankSummary, error) {
	team, err := service.team(ctx, userID)
	if err != nil {
		return nil, err
	}
	return service.Rank.Compute(referral.Stats(team)), nil
}

// GetTeam lists the members of the team of the user tagged with their level
func (service *Service) GetTeam(ctx context.Context, userID uint64) (*model.TeamMembersResponse, error) {
	team, err := service.team(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &model.TeamMembersResponse{
		TeamMembers:      team.Members(),
		TotalTeamMembers: team.TotalTeamMembers(),
		DirectReferrals:  team.DirectReferrals(),
	}, nil
}

// GetReferralDashboard computes the commission and the rank from a single walk of the graph
func (service *Service) GetReferralDashboard(ctx context.Context, userID uint64) (*model.ReferralDashboard, error) {
	team, err := service.team(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &model.ReferralDashboard{
		Commission: service.Commission.Compute(team),
		Rank:       service.Rank.Compute(referral.Stats(team)),
	}, nil
}

// UpdateTeamStatsCache recomputes the team stats of every user from a single snapshot of the users table
func (service *Service) UpdateTeamStatsCache(ctx context.Context) (int, error) {
	users, err := service.repo.GetTeamGraphUsers(ctx)
	if err != nil {
		return 0, err
	}
	graph := referral.NewGraph(referral.NewMemorySource(users))
	entries := make(map[uint64]team_stats.Entry, len(users))
	now := time.Now()
	for _, user := range users {
		team, err := graph.Descendants(ctx, user)
		if err != nil {
			log.Error().Err(err).
				Str("section", "service:referrals").
				Str("action", "update_team_stats_cache").
				Uint64("user_id", user.ID).
				Msg("Unable to compute team")
			continue
		}
		stats := referral.Stats(team)
		entries[user.ID] = team_stats.Entry{
			Stats:     stats,
			Stage:     service.Commission.Stage(stats).Name,
			Rank:      service.Rank.Name(stats),
			UpdatedAt: now,
		}
	}
	team_stats.Replace(entries)
	return len(entries), nil
}
