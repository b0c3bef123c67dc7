package httputils

import (
	"net/http"

	"github.com/dhiraj-001/MLM-sub000/model"
	"github.com/dhiraj-001/MLM-sub000/service/ledger"
	"github.com/dhiraj-001/MLM-sub000/service/quiz"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// RequestError is the body of every failed request
type RequestError struct {
	Error string `json:"error"`
}

// GenericErrorMessage is returned instead of the details of an internal error
const GenericErrorMessage = "Unable to process request"

// StatusFromError maps errors returned by the service layer to a http status code
func StatusFromError(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if model.IsValidationError(err) {
		return http.StatusBadRequest
	}
	switch {
	case errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, quiz.ErrInvalidAnswerCount),
		errors.Is(err, quiz.ErrQuizNotStarted):
		return http.StatusBadRequest
	case errors.Is(err, ledger.ErrInsufficientFunds),
		errors.Is(err, quiz.ErrInsufficientBalance),
		errors.Is(err, quiz.ErrQuizExpired),
		errors.Is(err, model.ErrInvalidTransition):
		return http.StatusUnprocessableEntity
	case errors.Is(err, model.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, model.ErrForbidden),
		errors.Is(err, model.ErrUserBlocked),
		errors.Is(err, model.ErrWithdrawalsBlocked):
		return http.StatusForbidden
	case errors.Is(err, model.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrConflict):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// MessageFromError returns the message safe to show to the caller
func MessageFromError(err error) string {
	var vErr *model.ValidationError
	if errors.As(err, &vErr) {
		return vErr.Error()
	}
	if StatusFromError(err) == http.StatusInternalServerError {
		return GenericErrorMessage
	}
	return err.Error()
}
