package quiz

import (
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/dhiraj-001/MLM-sub000/conv"
	"github.com/dhiraj-001/MLM-sub000/model"
)

func TestSelectQuestions(t *testing.T) {
	bank := []uint64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	day := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	Convey("Question selection", t, func() {
		Convey("is stable for the same user and day", func() {
			So(SelectQuestions(bank, 5, 7, day), ShouldResemble, SelectQuestions(bank, 5, 7, day))
		})

		Convey("returns distinct ids from the bank", func() {
			picked := SelectQuestions(bank, 5, 7, day)
			So(len(picked), ShouldEqual, 5)
			seen := map[uint64]bool{}
			for _, id := range picked {
				So(seen[id], ShouldBeFalse)
				So(int(id), ShouldBeBetweenOrEqual, 1, 12)
				seen[id] = true
			}
		})

		Convey("changes across days for the same user", func() {
			differs := false
			for i := 1; i <= 10 && !differs; i++ {
				other := SelectQuestions(bank, 5, 7, day.AddDate(0, 0, i))
				differs = !equal(other, SelectQuestions(bank, 5, 7, day))
			}
			So(differs, ShouldBeTrue)
		})

		Convey("does not modify the bank", func() {
			SelectQuestions(bank, 5, 99, day)
			So(bank[0], ShouldEqual, 1)
			So(bank[11], ShouldEqual, 12)
		})

		Convey("is capped by the bank size", func() {
			So(len(SelectQuestions(bank[:3], 5, 1, day)), ShouldEqual, 3)
		})
	})
}

func equal(a, b []uint64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestScore(t *testing.T) {
	questions := []model.QuizQuestion{{CorrectIndex: 0}, {CorrectIndex: 2}, {CorrectIndex: 1}, {CorrectIndex: 3}, {CorrectIndex: 0}}
	tests := []struct {
		name    string
		answers []int
		want    int
	}{
		{name: "All correct", answers: []int{0, 2, 1, 3, 0}, want: 5},
		{name: "None correct", answers: []int{1, 1, 0, 0, 3}, want: 0},
		{name: "Skipped answers", answers: []int{0, Unanswered, Unanswered, 3, Unanswered}, want: 2},
		{name: "Out of range options", answers: []int{9, 2, -7, 3, 100}, want: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, Score(questions, tt.answers), tt.want)
		})
	}
}

func TestReward(t *testing.T) {
	rate, limit := conv.FromFloat(0.02), conv.FromFloat(5)
	tests := []struct {
		name    string
		balance float64
		want    string
	}{
		{name: "Minimum balance", balance: 30, want: "0.60"},
		{name: "Plain percentage", balance: 100, want: "2.00"},
		{name: "Truncated to cents", balance: 123.45, want: "2.46"},
		{name: "Exactly at the cap", balance: 250, want: "5.00"},
		{name: "Capped", balance: 300, want: "5.00"},
		{name: "Zero balance", balance: 0, want: "0.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, conv.FormatMoney(Reward(conv.FromFloat(tt.balance), rate, limit)), tt.want)
		})
	}
}

func TestDay(t *testing.T) {
	Convey("The quiz day follows the configured timezone", t, func() {
		kolkata := time.FixedZone("IST", 5*3600+1800)
		late := time.Date(2024, 5, 10, 20, 0, 0, 0, time.UTC)

		So(Day(late, time.UTC).Equal(time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)), ShouldBeTrue)
		So(Day(late, kolkata).Equal(time.Date(2024, 5, 11, 0, 0, 0, 0, time.UTC)), ShouldBeTrue)
	})
}
