package quiz

import (
	"context"
	"time"

	"github.com/ericlagergren/decimal"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/dhiraj-001/MLM-sub000/config"
	"github.com/dhiraj-001/MLM-sub000/conv"
	"github.com/dhiraj-001/MLM-sub000/model"
	"github.com/dhiraj-001/MLM-sub000/monitor"
	"github.com/dhiraj-001/MLM-sub000/queries"
)

// Store is the persistence used by the quiz
type Store interface {
	GetUserByID(ctx context.Context, id uint64) (*model.User, error)
	GetActiveQuestionIDs(ctx context.Context) ([]uint64, error)
	GetQuestionsByIDs(ctx context.Context, ids []uint64) ([]model.QuizQuestion, error)
	GetQuizSession(ctx context.Context, userID uint64, day time.Time) (*model.QuizSession, error)
	CreateQuizSession(ctx context.Context, session *model.QuizSession) error
	GetQuizSubmission(ctx context.Context, userID uint64, day time.Time) (*model.QuizSubmission, error)
}

// BuildFunc computes the submission and its reward from the locked user row
type BuildFunc func(user *model.User) (*model.QuizSubmission, *decimal.Big, error)

// Committer stores a submission and credits its reward atomically.
// It returns ErrAlreadySubmitted when a submission of the same user and day exists.
type Committer interface {
	Commit(ctx context.Context, userID uint64, build BuildFunc) (*model.QuizSubmission, error)
}

// Service runs the daily quiz of every user
type Service struct {
	store     Store
	committer Committer
	cfg       config.QuizConfig
	loc       *time.Location
	minimum   *decimal.Big
	rate      *decimal.Big
	limit     *decimal.Big
	now       func() time.Time
}

// New quiz service
func New(store Store, committer Committer, cfg config.QuizConfig) *Service {
	if cfg.QuestionsPerQuiz <= 0 {
		cfg.QuestionsPerQuiz = 5
	}
	return &Service{
		store:     store,
		committer: committer,
		cfg:       cfg,
		loc:       cfg.Location(),
		minimum:   conv.FromFloat(cfg.MinBalance),
		rate:      conv.FromFloat(cfg.RewardRate),
		limit:     conv.FromFloat(cfg.RewardCap),
		now:       time.Now,
	}
}

// Today returns the current quiz day
func (s *Service) Today() time.Time {
	return Day(s.now(), s.loc)
}

func (s *Service) eligible(user *model.User) bool {
	return user.Balance.Big().Cmp(s.minimum) >= 0
}

// Status godoc
func (s *Service) Status(ctx context.Context, userID uint64) (*model.QuizStatus, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	submitted := true
	if _, err := s.store.GetQuizSubmission(ctx, userID, s.Today()); err != nil {
		if !queries.IsNotFound(err) {
			return nil, err
		}
		submitted = false
	}
	return &model.QuizStatus{
		Eligible:         s.eligible(user) && !submitted,
		MinBalance:       model.NewMoney(s.minimum),
		Balance:          user.Balance,
		SubmittedToday:   submitted,
		QuestionsPerQuiz: s.cfg.QuestionsPerQuiz,
		TimeLimit:        s.cfg.TimeLimit,
		TimeLimitSeconds: int(s.cfg.TimeLimit / time.Second),
	}, nil
}

// GetQuestions hands out the questions of the day and starts the timer on the first call.
// Once the quiz is submitted it returns the stored result instead.
func (s *Service) GetQuestions(ctx context.Context, userID uint64) (*model.QuizQuestionsResponse, error) {
	day := s.Today()
	if submission, err := s.store.GetQuizSubmission(ctx, userID, day); err == nil {
		return &model.QuizQuestionsResponse{Submitted: true, Result: submission.Result(true)}, nil
	} else if !queries.IsNotFound(err) {
		return nil, err
	}

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !s.eligible(user) {
		return nil, ErrInsufficientBalance
	}

	session, err := s.session(ctx, userID, day)
	if err != nil {
		return nil, err
	}
	questions, err := s.questions(ctx, session)
	if err != nil {
		return nil, err
	}

	views := make([]model.QuizQuestionView, 0, len(questions))
	for i := range questions {
		views = append(views, questions[i].View())
	}
	startedAt := session.StartedAt
	expiresAt := startedAt.Add(s.cfg.TimeLimit)
	return &model.QuizQuestionsResponse{
		Questions: views,
		StartedAt: &startedAt,
		ExpiresAt: &expiresAt,
	}, nil
}

// session returns the session of the day, creating it on the first request
func (s *Service) session(ctx context.Context, userID uint64, day time.Time) (*model.QuizSession, error) {
	session, err := s.store.GetQuizSession(ctx, userID, day)
	if err == nil {
		return session, nil
	}
	if !queries.IsNotFound(err) {
		return nil, err
	}

	bank, err := s.store.GetActiveQuestionIDs(ctx)
	if err != nil {
		return nil, err
	}
	if len(bank) < s.cfg.QuestionsPerQuiz {
		log.Error().Str("section", "quiz").Int("active_questions", len(bank)).
			Int("required", s.cfg.QuestionsPerQuiz).Msg("Not enough active quiz questions")
		return nil, ErrQuestionBankExhausted
	}

	ids := SelectQuestions(bank, s.cfg.QuestionsPerQuiz, userID, day)
	session = &model.QuizSession{
		UserID:      userID,
		QuizDate:    day,
		QuestionIDs: toInt64Array(ids),
		StartedAt:   s.now(),
	}
	if err := s.store.CreateQuizSession(ctx, session); err != nil {
		if queries.IsUniqueViolation(err) {
			// a parallel request of the same user created it first
			return s.store.GetQuizSession(ctx, userID, day)
		}
		return nil, err
	}
	return session, nil
}

// questions loads the questions of a session in the order they were handed out
func (s *Service) questions(ctx context.Context, session *model.QuizSession) ([]model.QuizQuestion, error) {
	ids := make([]uint64, 0, len(session.QuestionIDs))
	for _, id := range session.QuestionIDs {
		ids = append(ids, uint64(id))
	}
	loaded, err := s.store.GetQuestionsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint64]model.QuizQuestion, len(loaded))
	for _, q := range loaded {
		byID[q.ID] = q
	}
	questions := make([]model.QuizQuestion, 0, len(ids))
	for _, id := range ids {
		q, ok := byID[id]
		if !ok {
			return nil, errors.Wrapf(ErrQuestionBankExhausted, "question %d of session %d", id, session.ID)
		}
		questions = append(questions, q)
	}
	return questions, nil
}

// openSession returns the session the answers belong to and its quiz day.
// A session started shortly before midnight stays open on the next day until its time window closes.
func (s *Service) openSession(ctx context.Context, userID uint64, today time.Time) (*model.QuizSession, time.Time, error) {
	session, err := s.store.GetQuizSession(ctx, userID, today)
	if err == nil {
		return session, today, nil
	}
	if !queries.IsNotFound(err) {
		return nil, today, err
	}

	yesterday := today.AddDate(0, 0, -1)
	session, err = s.store.GetQuizSession(ctx, userID, yesterday)
	if err != nil {
		if queries.IsNotFound(err) {
			return nil, today, ErrQuizNotStarted
		}
		return nil, today, err
	}
	if s.now().After(session.StartedAt.Add(s.cfg.TimeLimit + s.cfg.GracePeriod)) {
		return nil, today, ErrQuizNotStarted
	}
	return session, yesterday, nil
}

// Submit scores the answers of the open session and credits the reward to the earning balance exactly once.
// Repeated calls return the stored result with AlreadySubmitted set.
func (s *Service) Submit(ctx context.Context, userID uint64, answers []int) (*model.QuizResult, error) {
	today := s.Today()
	if submission, err := s.store.GetQuizSubmission(ctx, userID, today); err == nil {
		monitor.QuizSubmissions.WithLabelValues("duplicate").Inc()
		return submission.Result(true), nil
	} else if !queries.IsNotFound(err) {
		return nil, err
	}

	session, day, err := s.openSession(ctx, userID, today)
	if err != nil {
		return nil, err
	}
	if !day.Equal(today) {
		if submission, err := s.store.GetQuizSubmission(ctx, userID, day); err == nil {
			monitor.QuizSubmissions.WithLabelValues("duplicate").Inc()
			return submission.Result(true), nil
		} else if !queries.IsNotFound(err) {
			return nil, err
		}
	}
	if len(answers) != len(session.QuestionIDs) {
		return nil, ErrInvalidAnswerCount
	}
	now := s.now()
	if s.cfg.EnforceTimeLimit && now.After(session.StartedAt.Add(s.cfg.TimeLimit+s.cfg.GracePeriod)) {
		monitor.QuizSubmissions.WithLabelValues("expired").Inc()
		return nil, ErrQuizExpired
	}

	questions, err := s.questions(ctx, session)
	if err != nil {
		return nil, err
	}
	score := Score(questions, answers)

	submission, err := s.committer.Commit(ctx, userID, func(user *model.User) (*model.QuizSubmission, *decimal.Big, error) {
		if !s.eligible(user) {
			return nil, nil, ErrInsufficientBalance
		}
		reward := conv.RoundMoney(nil)
		if score >= s.cfg.MinScoreForReward {
			reward = Reward(user.Balance.Big(), s.rate, s.limit)
		}
		return &model.QuizSubmission{
			UserID:      userID,
			QuizDate:    day,
			Answers:     toInt64Array(answers),
			Score:       score,
			Total:       len(questions),
			Reward:      model.NewMoney(reward),
			SubmittedAt: now,
		}, reward, nil
	})
	if errors.Is(err, ErrAlreadySubmitted) {
		monitor.QuizSubmissions.WithLabelValues("duplicate").Inc()
		stored, err := s.store.GetQuizSubmission(ctx, userID, day)
		if err != nil {
			return nil, err
		}
		return stored.Result(true), nil
	}
	if err != nil {
		monitor.QuizSubmissions.WithLabelValues("failed").Inc()
		return nil, err
	}

	monitor.QuizSubmissions.WithLabelValues("rewarded").Inc()
	log.Info().Str("section", "quiz").Uint64("user_id", userID).
		Int("score", submission.Score).
		Str("reward", submission.Reward.String()).
		Msg("Quiz submitted")
	return submission.Result(false), nil
}

func toInt64Array[T int | uint64](values []T) pq.Int64Array {
	out := make(pq.Int64Array, 0, len(values))
	for _, v := range values {
		out = append(out, int64(v))
	}
	return out
}
