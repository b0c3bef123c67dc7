package commission

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/dhiraj-001/MLM-sub000/config"
	"github.com/dhiraj-001/MLM-sub000/conv"
	"github.com/dhiraj-001/MLM-sub000/model"
)

var created = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func member(id uint64, balance float64) *model.User {
	return &model.User{
		ID:        id,
		Balance:   model.NewMoney(conv.FromFloat(balance)),
		CreatedAt: created.Add(time.Duration(id) * time.Hour),
	}
}

// team builds a team with the given number of members per level, each holding balance
func team(balance float64, sizes ...int) *model.TeamLevels {
	t := &model.TeamLevels{}
	id := uint64(1)
	for depth, size := range sizes {
		for i := 0; i < size; i++ {
			t.Add(depth+1, member(id, balance))
			id++
		}
	}
	return t
}

func defaultEngine() *Engine {
	return NewEngine(config.ReferralsConfig{}.CommissionStages(), 5)
}

func TestEngine_Stage(t *testing.T) {
	Convey("Given the default stage table", t, func() {
		e := defaultEngine()

		Convey("a user without a team gets the zero stage", func() {
			stage := e.Stage(model.TeamStats{})
			So(stage.Name, ShouldEqual, "Member")
			So(conv.FormatRate(stage.RateA), ShouldEqual, "0.0000")
		})

		Convey("20 direct referrals with a team of 40 can not reach the 15/50 stage", func() {
			stage := e.Stage(model.TeamStats{DirectReferrals: 20, TotalTeamMembers: 40})
			So(stage.Name, ShouldEqual, "Stage 2")
			So(conv.FormatRate(stage.RateA), ShouldEqual, "0.1000")
		})

		Convey("increasing the counts never lowers the stage", func() {
			previous := e.Stage(model.TeamStats{})
			for n := 0; n <= 300; n++ {
				stage := e.Stage(model.TeamStats{DirectReferrals: n / 4, TotalTeamMembers: n})
				So(stage.MinDirect, ShouldBeGreaterThanOrEqualTo, previous.MinDirect)
				So(stage.MinTeam, ShouldBeGreaterThanOrEqualTo, previous.MinTeam)
				previous = stage
			}
		})
	})

	Convey("A table without a zero row falls back to a zero rate stage", t, func() {
		stages := config.ReferralsConfig{}.CommissionStages()[1:]
		stage := NewEngine(stages, 5).Stage(model.TeamStats{DirectReferrals: 1, TotalTeamMembers: 1})
		So(stage.Name, ShouldEqual, ZeroStageName)
		So(conv.IsPositive(stage.RateD), ShouldBeFalse)
	})
}

func TestEngine_Compute(t *testing.T) {
	Convey("Given 20 direct referrals holding 500 each and 20 more members on level B holding 100", t, func() {
		levels := team(500, 20)
		for _, u := range team(100, 0, 20).B {
			u.ID += 100
			u.CreatedAt = created.Add(time.Duration(u.ID) * time.Hour)
			levels.Add(2, u)
		}
		summary := defaultEngine().Compute(levels)

		Convey("the stage falls back to the one allowed by the team size", func() {
			So(summary.CurrentRank, ShouldEqual, "Stage 2")
			So(summary.DirectReferrals, ShouldEqual, 20)
			So(summary.TotalTeamMembers, ShouldEqual, 40)
			So(summary.CommissionPercentages, ShouldResemble, model.CommissionPercentages{A: 10, B: 5, C: 3, D: 2})
		})

		Convey("level balances and commissions use the fallback rates", func() {
			So(summary.BalanceSummary.LevelA.String(), ShouldEqual, "10000.00")
			So(summary.BalanceSummary.LevelB.String(), ShouldEqual, "2000.00")
			So(summary.BalanceSummary.LevelC.String(), ShouldEqual, "0.00")
			So(summary.CommissionBreakdown.FromDirectReferrals.String(), ShouldEqual, "1000.00")
			So(summary.CommissionBreakdown.FromLevelB.String(), ShouldEqual, "100.00")
			So(summary.TotalCommission.String(), ShouldEqual, "1100.00")
		})

		Convey("recent referrals are the five newest members", func() {
			So(len(summary.RecentReferrals), ShouldEqual, 5)
			So(summary.RecentReferrals[0].ID, ShouldEqual, 120)
			So(summary.RecentReferrals[0].Level, ShouldEqual, model.ReferralLevelB)
		})
	})

	Convey("An empty team produces a zero snapshot", t, func() {
		summary := defaultEngine().Compute(&model.TeamLevels{})
		So(summary.CurrentRank, ShouldEqual, "Member")
		So(summary.TotalCommission.String(), ShouldEqual, "0.00")
		So(len(summary.RecentReferrals), ShouldEqual, 0)
	})

	Convey("Commissions are truncated to cents per level before summing", t, func() {
		stages := []model.CommissionStage{{
			Name:  "Only",
			RateA: conv.FromFloat(0.333),
			RateB: conv.FromFloat(0.333),
			RateC: conv.FromFloat(0),
			RateD: conv.FromFloat(0),
		}}
		summary := NewEngine(stages, 5).Compute(&model.TeamLevels{
			A: []*model.User{member(1, 1)},
			B: []*model.User{member(2, 1)},
		})
		So(summary.CommissionBreakdown.FromDirectReferrals.String(), ShouldEqual, "0.33")
		So(summary.TotalCommission.String(), ShouldEqual, "0.66")
	})
}
