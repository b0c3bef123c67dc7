package queries

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/dhiraj-001/MLM-sub000/model"
)

// GetActiveQuestionIDs returns the ids of the active questions of the bank in a stable order
func (repo *Repo) GetActiveQuestionIDs(ctx context.Context) ([]uint64, error) {
	ids := make([]uint64, 0)
	err := repo.ConnReader.WithContext(ctx).Model(&model.QuizQuestion{}).
		Where("active = ?", true).
		Order("id ASC").
		Pluck("id", &ids).Error
	return ids, err
}

// GetQuestionsByIDs godoc
func (repo *Repo) GetQuestionsByIDs(ctx context.Context, ids []uint64) ([]model.QuizQuestion, error) {
	questions := make([]model.QuizQuestion, 0, len(ids))
	if len(ids) == 0 {
		return questions, nil
	}
	err := repo.Conn.WithContext(ctx).Where("id IN ?", ids).Find(&questions).Error
	return questions, err
}

// GetQuizSession returns the session of the user for the quiz day
func (repo *Repo) GetQuizSession(ctx context.Context, userID uint64, day time.Time) (*model.QuizSession, error) {
	session := model.QuizSession{}
	err := repo.Conn.WithContext(ctx).Where("user_id = ? AND quiz_date = ?", userID, day).Take(&session).Error
	return &session, err
}

// CreateQuizSession godoc
func (repo *Repo) CreateQuizSession(ctx context.Context, session *model.QuizSession) error {
	return repo.Conn.WithContext(ctx).Create(session).Error
}

// GetQuizSubmission returns the submission of the user for the quiz day
func (repo *Repo) GetQuizSubmission(ctx context.Context, userID uint64, day time.Time) (*model.QuizSubmission, error) {
	submission := model.QuizSubmission{}
	err := repo.Conn.WithContext(ctx).Where("user_id = ? AND quiz_date = ?", userID, day).Take(&submission).Error
	return &submission, err
}

// CreateQuizSubmissionTx godoc
func CreateQuizSubmissionTx(tx *gorm.DB, submission *model.QuizSubmission) error {
	return tx.Create(submission).Error
}

// CountQuizSubmissions returns how many quizzes were submitted on a day
func (repo *Repo) CountQuizSubmissions(ctx context.Context, day time.Time) (int64, error) {
	var count int64
	err := repo.ConnReaderAdmin.WithContext(ctx).Model(&model.QuizSubmission{}).
		Where("quiz_date = ?", day).
		Count(&count).Error
	return count, err
}

// GetSubmittedUserIDs returns the users who already submitted the quiz of the day
func (repo *Repo) GetSubmittedUserIDs(ctx context.Context, day time.Time) ([]uint64, error) {
	ids := make([]uint64, 0)
	err := repo.ConnReaderAdmin.WithContext(ctx).Model(&model.QuizSubmission{}).
		Where("quiz_date = ?", day).
		Pluck("user_id", &ids).Error
	return ids, err
}
