package referral

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/dhiraj-001/MLM-sub000/model"
)

type memorySource struct {
	users   []*model.User
	queries int
	err     error
}

func (s *memorySource) add(id uint64, code string, referredBy string) *model.User {
	u := &model.User{ID: id, ReferralCode: code}
	if referredBy != "" {
		parent := referredBy
		u.ReferredBy = &parent
	}
	s.users = append(s.users, u)
	return u
}

func (s *memorySource) ChildrenOf(_ context.Context, codes []string) ([]*model.User, error) {
	s.queries++
	if s.err != nil {
		return nil, s.err
	}
	wanted := map[string]bool{}
	for _, c := range codes {
		wanted[c] = true
	}
	children := make([]*model.User, 0)
	for _, u := range s.users {
		if u.ReferredBy != nil && wanted[*u.ReferredBy] {
			children = append(children, u)
		}
	}
	return children, nil
}

func ids(users []*model.User) []uint64 {
	out := make([]uint64, 0, len(users))
	for _, u := range users {
		out = append(out, u.ID)
	}
	return out
}

func TestGraph_Descendants(t *testing.T) {
	Convey("Given a referral chain six levels deep with a side branch", t, func() {
		source := &memorySource{}
		root := source.add(1, "ROOT", "")
		source.add(2, "A1", "ROOT")
		source.add(3, "A2", "ROOT")
		source.add(4, "B1", "A1")
		source.add(5, "B2", "A2")
		source.add(6, "C1", "B1")
		source.add(7, "D1", "C1")
		source.add(8, "E1", "D1")
		source.add(9, "F1", "E1")
		graph := NewGraph(source)

		team, err := graph.Descendants(context.Background(), root)
		So(err, ShouldBeNil)

		Convey("members are partitioned by hop count", func() {
			So(ids(team.A), ShouldResemble, []uint64{2, 3})
			So(ids(team.B), ShouldResemble, []uint64{4, 5})
			So(ids(team.C), ShouldResemble, []uint64{6})
			So(ids(team.D), ShouldResemble, []uint64{7})
		})

		Convey("levels beyond D are dropped and never queried", func() {
			So(Stats(team), ShouldResemble, model.TeamStats{DirectReferrals: 2, TotalTeamMembers: 6})
			So(source.queries, ShouldEqual, 4)
		})

		Convey("no member appears twice and the root is not part of its team", func() {
			seen := map[uint64]bool{}
			for _, m := range team.Members() {
				So(seen[m.ID], ShouldBeFalse)
				So(m.ID, ShouldNotEqual, root.ID)
				seen[m.ID] = true
			}
		})

		Convey("the team of a leaf is empty", func() {
			leaf := &model.User{ID: 9, ReferralCode: "F1"}
			team, err := graph.Descendants(context.Background(), leaf)
			So(err, ShouldBeNil)
			So(Stats(team), ShouldResemble, model.TeamStats{})
		})
	})

	Convey("Given a cycle in the referral relation", t, func() {
		source := &memorySource{}
		root := source.add(1, "ROOT", "C1")
		source.add(2, "A1", "ROOT")
		source.add(3, "B1", "A1")
		source.add(4, "C1", "B1")

		_, err := NewGraph(source).Descendants(context.Background(), root)

		Convey("the walk fails closed", func() {
			So(errors.Is(err, ErrGraphIntegrity), ShouldBeTrue)
		})
	})

	Convey("Storage errors are returned as is", t, func() {
		failure := errors.New("connection refused")
		source := &memorySource{err: failure}
		_, err := NewGraph(source).Descendants(context.Background(), &model.User{ID: 1, ReferralCode: "ROOT"})
		So(err, ShouldEqual, failure)
	})
}
