package quiz

import (
	"encoding/binary"
	"hash/fnv"
	"math/rand"
	"time"

	"github.com/ericlagergren/decimal"

	"github.com/dhiraj-001/MLM-sub000/conv"
	"github.com/dhiraj-001/MLM-sub000/model"
)

// Unanswered marks a question the user skipped
const Unanswered = -1

// SelectQuestions picks n question ids from the bank.
// The pick only depends on the bank, the user and the day so a user can not reroll it.
func SelectQuestions(bank []uint64, n int, userID uint64, day time.Time) []uint64 {
	if n > len(bank) {
		n = len(bank)
	}
	h := fnv.New64a()
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], userID)
	_, _ = h.Write(buf[:])
	_, _ = h.Write([]byte(day.Format("2006-01-02")))

	ids := make([]uint64, len(bank))
	copy(ids, bank)
	r := rand.New(rand.NewSource(int64(h.Sum64())))
	r.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})
	return ids[:n]
}

// Score counts the answers matching the correct option of the question at the same position
func Score(questions []model.QuizQuestion, answers []int) int {
	score := 0
	for i, q := range questions {
		if i >= len(answers) {
			break
		}
		if answers[i] != Unanswered && answers[i] == q.CorrectIndex {
			score++
		}
	}
	return score
}

// Reward is balance * rate capped at limit, truncated to cents
func Reward(balance, rate, limit *decimal.Big) *decimal.Big {
	if !conv.IsPositive(balance) || !conv.IsPositive(rate) {
		return conv.RoundMoney(nil)
	}
	reward := conv.Mul(balance, rate)
	if conv.IsPositive(limit) {
		reward = conv.Min(reward, limit)
	}
	return conv.RoundMoney(reward)
}

// Day returns the calendar date of t in loc, as midnight UTC
func Day(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
