package service

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/dhiraj-001/MLM-sub000/conv"
	"github.com/dhiraj-001/MLM-sub000/featureflags"
	"github.com/dhiraj-001/MLM-sub000/model"
)

func (service *Service) quizAvailable(ctx context.Context, userID uint64) error {
	if !featureflags.IsEnabled("api.quiz.enabled") {
		return errors.Wrap(model.ErrForbidden, "the daily quiz is disabled")
	}
	_, err := service.GetActiveUser(ctx, userID)
	return err
}

func (service *Service) QuizStatus(ctx context.Context, userID uint64) (*model.QuizStatus, error) {
	if err := service.quizAvailable(ctx, userID); err != nil {
		return nil, err
	}
	status, err := service.Quiz.Status(ctx, userID)
	return status, notFound(err)
}

// GetQuizQuestions starts or resumes the quiz of the day
func (service *Service) GetQuizQuestions(ctx context.Context, userID uint64) (*model.QuizQuestionsResponse, error) {
	if err := service.quizAvailable(ctx, userID); err != nil {
		return nil, err
	}
	resp, err := service.Quiz.GetQuestions(ctx, userID)
	return resp, notFound(err)
}

// SubmitQuiz scores the answers of the day. Only the first submission is rewarded and announced.
func (service *Service) SubmitQuiz(ctx context.Context, userID uint64, answers []int) (*model.QuizResult, error) {
	if err := service.quizAvailable(ctx, userID); err != nil {
		return nil, err
	}
	result, err := service.Quiz.Submit(ctx, userID, answers)
	if err != nil {
		return nil, notFound(err)
	}
	if result.AlreadySubmitted {
		return result, nil
	}

	service.publish(model.EventQuizSubmitted, userID, result)
	service.notify(ctx, userID, "Quiz reward",
		fmt.Sprintf("You answered %d of %d questions correctly and earned %s.", result.Score, result.Total, result.Reward.String()),
		model.NotificationTypeReward)
	return result, nil
}

// NotifyQuizAvailable reminds every eligible user that has not played today.
// Returns the number of notifications sent.
func (service *Service) NotifyQuizAvailable(ctx context.Context) (int, error) {
	if !featureflags.IsEnabled("api.quiz.enabled") {
		return 0, nil
	}
	eligible, err := service.repo.GetQuizEligibleUserIDs(ctx, model.NewMoney(conv.FromFloat(service.cfg.Quiz.MinBalance)))
	if err != nil {
		return 0, err
	}
	submitted, err := service.repo.GetSubmittedUserIDs(ctx, service.Quiz.Today())
	if err != nil {
		return 0, err
	}
	done := make(map[uint64]struct{}, len(submitted))
	for _, id := range submitted {
		done[id] = struct{}{}
	}
	pending := make([]uint64, 0, len(eligible))
	for _, id := range eligible {
		if _, ok := done[id]; !ok {
			pending = append(pending, id)
		}
	}
	if len(pending) == 0 {
		return 0, nil
	}
	return service.SendBulkNotification(ctx, pending, "Daily quiz available",
		"Today's quiz is ready. Answer the questions to earn your daily reward.", model.NotificationTypeQuiz)
}
