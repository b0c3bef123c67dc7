package quiz

import "errors"

var (
	ErrInsufficientBalance   = errors.New("INSUFFICIENT_BALANCE")
	ErrInvalidAnswerCount    = errors.New("INVALID_ANSWER_COUNT")
	ErrQuizExpired           = errors.New("QUIZ_EXPIRED")
	ErrQuizNotStarted        = errors.New("QUIZ_NOT_STARTED")
	ErrQuestionBankExhausted = errors.New("QUESTION_BANK_EXHAUSTED")

	// ErrAlreadySubmitted is returned by a Committer when the submission of the day exists.
	// The service turns it into the stored result.
	ErrAlreadySubmitted = errors.New("ALREADY_SUBMITTED_TODAY")
)
