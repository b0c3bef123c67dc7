package quiz

import (
	"context"
	"strconv"

	"github.com/dhiraj-001/MLM-sub000/conv"
	"github.com/dhiraj-001/MLM-sub000/model"
	"github.com/dhiraj-001/MLM-sub000/queries"
	"github.com/dhiraj-001/MLM-sub000/service/ledger"
)

// LedgerCommitter stores the submission and credits the reward in one ledger transaction.
// The user row lock taken by the ledger serializes concurrent submissions of the same user and the
// unique (user_id, quiz_date) index makes the later one fail.
type LedgerCommitter struct {
	ledger *ledger.Ledger
}

func NewLedgerCommitter(l *ledger.Ledger) *LedgerCommitter {
	return &LedgerCommitter{ledger: l}
}

func (c *LedgerCommitter) Commit(ctx context.Context, userID uint64, build BuildFunc) (*model.QuizSubmission, error) {
	var submission *model.QuizSubmission
	err := c.ledger.Run(ctx, userID, func(tx *ledger.Tx) error {
		user, err := tx.User()
		if err != nil {
			return err
		}
		sub, reward, err := build(user)
		if err != nil {
			return err
		}

		after := user.Balances()
		if conv.IsPositive(reward) {
			if after, err = ledger.Apply(after, model.BucketEarning, model.DirectionCredit, reward); err != nil {
				return err
			}
		}
		sub.NewBalance = model.NewMoney(after.Total)

		if err := queries.CreateQuizSubmissionTx(tx.DB, sub); err != nil {
			if queries.IsUniqueViolation(err) {
				return ErrAlreadySubmitted
			}
			return err
		}
		if conv.IsPositive(reward) {
			credit := ledger.Credit(userID, model.TransactionKindQuizReward, model.BucketEarning, reward).
				Related(model.RelatedObjectQuizSubmission, strconv.FormatUint(sub.ID, 10))
			if _, err := tx.Apply(credit); err != nil {
				return err
			}
		}
		submission = sub
		return nil
	})
	return submission, err
}

var _ Committer = (*LedgerCommitter)(nil)
