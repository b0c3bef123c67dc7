package referral

import (
	"context"
	"sort"

	"github.com/dhiraj-001/MLM-sub000/model"
)

// MemorySource answers ChildrenOf from a snapshot of users loaded once.
// It lets batch jobs walk every team without a query per level.
type MemorySource struct {
	children map[string][]*model.User
}

// NewMemorySource indexes the users by the referral code that invited them
func NewMemorySource(users []*model.User) *MemorySource {
	children := make(map[string][]*model.User)
	for _, u := range users {
		if u.ReferredBy == nil || *u.ReferredBy == "" {
			continue
		}
		children[*u.ReferredBy] = append(children[*u.ReferredBy], u)
	}
	return &MemorySource{children: children}
}

func (s *MemorySource) ChildrenOf(_ context.Context, referralCodes []string) ([]*model.User, error) {
	users := make([]*model.User, 0)
	for _, code := range referralCodes {
		users = append(users, s.children[code]...)
	}
	sort.SliceStable(users, func(i, j int) bool {
		if users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].ID < users[j].ID
		}
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users, nil
}

var _ TeamSource = (*MemorySource)(nil)
