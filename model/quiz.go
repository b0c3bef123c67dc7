package model

import (
	"time"

	"github.com/lib/pq"
)

// QuizQuestion is a multiple choice question of the bank
type QuizQuestion struct {
	ID           uint64         `gorm:"primaryKey" json:"id"`
	Prompt       string         `json:"prompt"`
	Options      pq.StringArray `gorm:"type:text[]" json:"options"`
	CorrectIndex int            `json:"-"`
	Active       bool           `json:"-"`
	CreatedAt    time.Time      `json:"-"`
}

// QuizQuestionView is the client side view of a question, without the answer
type QuizQuestionView struct {
	ID      uint64   `json:"id"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
}

// View godoc
func (q *QuizQuestion) View() QuizQuestionView {
	return QuizQuestionView{ID: q.ID, Prompt: q.Prompt, Options: []string(q.Options)}
}

// QuizSession records the questions handed out to a user on a quiz day and when
type QuizSession struct {
	ID          uint64        `gorm:"primaryKey" json:"id"`
	UserID      uint64        `json:"userId"`
	QuizDate    time.Time     `gorm:"type:date" json:"quizDate"`
	QuestionIDs pq.Int64Array `gorm:"type:bigint[]" json:"questionIds"`
	StartedAt   time.Time     `json:"startedAt"`
}

// QuizSubmission is created once per user and quiz day and never updated
type QuizSubmission struct {
	ID          uint64        `gorm:"primaryKey" json:"id"`
	UserID      uint64        `json:"userId"`
	QuizDate    time.Time     `gorm:"type:date" json:"quizDate"`
	Answers     pq.Int64Array `gorm:"type:bigint[]" json:"answers"`
	Score       int           `json:"score"`
	Total       int           `json:"total"`
	Reward      Money         `gorm:"type:decimal(36,18)" json:"reward"`
	NewBalance  Money         `gorm:"type:decimal(36,18)" json:"newBalance"`
	SubmittedAt time.Time     `json:"submittedAt"`
}

// QuizResult is returned by a submission and by every later request of the same day
type QuizResult struct {
	Score            int       `json:"score"`
	Total            int       `json:"total"`
	Reward           Money     `json:"reward"`
	NewBalance       Money     `json:"newBalance"`
	SubmittedAt      time.Time `json:"submittedAt"`
	AlreadySubmitted bool      `json:"alreadySubmitted"`
}

// Result godoc
func (s *QuizSubmission) Result(alreadySubmitted bool) *QuizResult {
	return &QuizResult{
		Score:            s.Score,
		Total:            s.Total,
		Reward:           s.Reward,
		NewBalance:       s.NewBalance,
		SubmittedAt:      s.SubmittedAt,
		AlreadySubmitted: alreadySubmitted,
	}
}

type QuizQuestionsResponse struct {
	Submitted bool               `json:"submitted"`
	Questions []QuizQuestionView `json:"questions,omitempty"`
	StartedAt *time.Time         `json:"startedAt,omitempty"`
	ExpiresAt *time.Time         `json:"expiresAt,omitempty"`
	Result    *QuizResult        `json:"result,omitempty"`
}

type QuizStatus struct {
	Eligible         bool          `json:"eligible"`
	MinBalance       Money         `json:"minBalance"`
	Balance          Money         `json:"balance"`
	SubmittedToday   bool          `json:"submittedToday"`
	QuestionsPerQuiz int           `json:"questionsPerQuiz"`
	TimeLimit        time.Duration `json:"-"`
	TimeLimitSeconds int           `json:"timeLimitSeconds"`
}

type QuizSubmitRequest struct {
	Answers []int `json:"answers" form:"answers"`
}
