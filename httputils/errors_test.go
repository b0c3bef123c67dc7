package httputils

import (
	"errors"
	"net/http"
	"testing"

	"github.com/dhiraj-001/MLM-sub000/model"
	"github.com/dhiraj-001/MLM-sub000/service/ledger"
	"github.com/dhiraj-001/MLM-sub000/service/quiz"
	"github.com/go-playground/assert/v2"
	pkgErrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

func TestStatusFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "Validation", err: model.NewValidationError("amount", "required"), want: http.StatusBadRequest},
		{name: "Wrapped validation", err: pkgErrors.Wrap(model.NewValidationError("email", "invalid"), "register"), want: http.StatusBadRequest},
		{name: "Invalid amount", err: ledger.ErrInvalidAmount, want: http.StatusBadRequest},
		{name: "Answer count", err: quiz.ErrInvalidAnswerCount, want: http.StatusBadRequest},
		{name: "Quiz not started", err: quiz.ErrQuizNotStarted, want: http.StatusBadRequest},
		{name: "Insufficient funds", err: pkgErrors.Wrap(ledger.ErrInsufficientFunds, "withdrawal"), want: http.StatusUnprocessableEntity},
		{name: "Quiz balance", err: quiz.ErrInsufficientBalance, want: http.StatusUnprocessableEntity},
		{name: "Quiz expired", err: quiz.ErrQuizExpired, want: http.StatusUnprocessableEntity},
		{name: "Transition", err: model.ErrInvalidTransition, want: http.StatusUnprocessableEntity},
		{name: "Unauthorized", err: model.ErrUnauthorized, want: http.StatusUnauthorized},
		{name: "Forbidden", err: model.ErrForbidden, want: http.StatusForbidden},
		{name: "Blocked", err: model.ErrUserBlocked, want: http.StatusForbidden},
		{name: "Withdrawals blocked", err: model.ErrWithdrawalsBlocked, want: http.StatusForbidden},
		{name: "Not found", err: model.ErrNotFound, want: http.StatusNotFound},
		{name: "Record not found", err: pkgErrors.Wrap(gorm.ErrRecordNotFound, "user"), want: http.StatusNotFound},
		{name: "Conflict", err: model.ErrConflict, want: http.StatusConflict},
		{name: "Graph integrity", err: errors.New("cycle"), want: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, StatusFromError(tt.err), tt.want)
		})
	}
}

func TestMessageFromError(t *testing.T) {
	assert.Equal(t, MessageFromError(model.NewValidationError("amount", "required")), "amount: required")
	assert.Equal(t, MessageFromError(pkgErrors.Wrap(model.ErrConflict, "email taken")), "email taken: CONFLICT")
	assert.Equal(t, MessageFromError(errors.New("pq: connection refused")), GenericErrorMessage)
}
