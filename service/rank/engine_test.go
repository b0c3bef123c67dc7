package rank

import (
	"testing"

	"github.com/go-playground/assert/v2"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/dhiraj-001/MLM-sub000/config"
	"github.com/dhiraj-001/MLM-sub000/model"
)

func defaultEngine() *Engine {
	return NewEngine(config.RanksConfig{}.StarRanks())
}

func TestEngine_Compute(t *testing.T) {
	tests := []struct {
		name   string
		direct int
		team   int
		rank   string
		bonus  string
	}{
		{name: "No team", direct: 0, team: 0, rank: "0-Star", bonus: "0.00"},
		{name: "Team short of 1-Star", direct: 15, team: 79, rank: "0-Star", bonus: "0.00"},
		{name: "1-Star", direct: 15, team: 80, rank: "1-Star", bonus: "250.00"},
		{name: "Direct short of 3-Star", direct: 49, team: 1000, rank: "2-Star", bonus: "500.00"},
		{name: "5-Star", direct: 120, team: 1500, rank: "5-Star", bonus: "2000.00"},
		{name: "6-Star", direct: 150, team: 2000, rank: "6-Star", bonus: "3000.00"},
		{name: "Above the table", direct: 1000, team: 100000, rank: "6-Star", bonus: "3000.00"},
	}
	e := defaultEngine()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary := e.Compute(model.TeamStats{DirectReferrals: tt.direct, TotalTeamMembers: tt.team})
			assert.Equal(t, summary.CurrentRank, tt.rank)
			assert.Equal(t, summary.MonthlyBonus.String(), tt.bonus)
			assert.Equal(t, summary.DirectReferrals, tt.direct)
			assert.Equal(t, summary.TotalTeamMembers, tt.team)
			assert.Equal(t, e.Name(model.TeamStats{DirectReferrals: tt.direct, TotalTeamMembers: tt.team}), tt.rank)
		})
	}
}

func TestEngine_NextRank(t *testing.T) {
	Convey("Given the default rank table", t, func() {
		e := defaultEngine()

		Convey("a new user is told what 1-Star requires", func() {
			next := e.Compute(model.TeamStats{DirectReferrals: 3, TotalTeamMembers: 10}).NextRank
			So(next, ShouldNotBeNil)
			So(next.Rank, ShouldEqual, "1-Star")
			So(next.MissingDirect, ShouldEqual, 12)
			So(next.MissingTeam, ShouldEqual, 70)
			So(next.MonthlyBonus.String(), ShouldEqual, "250.00")
		})

		Convey("a 2-Star user with a big team only misses direct referrals", func() {
			next := e.Compute(model.TeamStats{DirectReferrals: 40, TotalTeamMembers: 900}).NextRank
			So(next.Rank, ShouldEqual, "3-Star")
			So(next.MissingDirect, ShouldEqual, 10)
			So(next.MissingTeam, ShouldEqual, 0)
		})

		Convey("6-Star has no next rank", func() {
			So(e.Compute(model.TeamStats{DirectReferrals: 150, TotalTeamMembers: 2000}).NextRank, ShouldBeNil)
		})

		Convey("the rank never decreases when the counts grow", func() {
			order := map[string]int{"0-Star": 0, "1-Star": 1, "2-Star": 2, "3-Star": 3, "4-Star": 4, "5-Star": 5, "6-Star": 6}
			previous := 0
			for n := 0; n <= 2200; n += 10 {
				current := order[e.Name(model.TeamStats{DirectReferrals: n / 13, TotalTeamMembers: n})]
				So(current, ShouldBeGreaterThanOrEqualTo, previous)
				previous = current
			}
		})
	})
}
