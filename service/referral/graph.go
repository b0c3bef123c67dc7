package referral

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/dhiraj-001/MLM-sub000/model"
)

// ErrGraphIntegrity is returned when the referral relation is not a forest
var ErrGraphIntegrity = errors.New("REFERRAL_GRAPH_INTEGRITY_ERROR")

// TeamSource loads the users invited with any of the given referral codes
type TeamSource interface {
	ChildrenOf(ctx context.Context, referralCodes []string) ([]*model.User, error)
}

// Graph walks the referredBy relation
type Graph struct {
	source   TeamSource
	maxDepth int
}

// NewGraph godoc
func NewGraph(source TeamSource) *Graph {
	return &Graph{source: source, maxDepth: model.MaxReferralDepth}
}

// Descendants returns the team of the user partitioned by hop count.
// The walk is breadth first, one query per level, and stops after level D.
func (g *Graph) Descendants(ctx context.Context, root *model.User) (*model.TeamLevels, error) {
	team := &model.TeamLevels{}
	visited := map[uint64]bool{root.ID: true}
	codes := map[string]bool{root.ReferralCode: true}
	frontier := []string{root.ReferralCode}

	for depth := 1; depth <= g.maxDepth && len(frontier) > 0; depth++ {
		children, err := g.source.ChildrenOf(ctx, frontier)
		if err != nil {
			return nil, err
		}
		next := make([]string, 0, len(children))
		for _, child := range children {
			if visited[child.ID] || codes[child.ReferralCode] {
				log.Error().
					Str("section", "referral").
					Uint64("root_id", root.ID).
					Uint64("user_id", child.ID).
					Int("depth", depth).
					Msg("Referral cycle detected")
				return nil, errors.Wrapf(ErrGraphIntegrity, "user %d reached twice from user %d", child.ID, root.ID)
			}
			visited[child.ID] = true
			codes[child.ReferralCode] = true
			team.Add(depth, child)
			next = append(next, child.ReferralCode)
		}
		frontier = next
	}
	return team, nil
}

// Stats counts the direct referrals and the team size
func Stats(team *model.TeamLevels) model.TeamStats {
	return model.TeamStats{
		DirectReferrals:  team.DirectReferrals(),
		TotalTeamMembers: team.TotalTeamMembers(),
	}
}
