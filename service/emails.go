package service

import (
	"fmt"
	"html"

	"github.com/rs/zerolog/log"

	"github.com/dhiraj-001/MLM-sub000/model"
)

type AccountEmailType string

const (
	AccountEmailTypeBlocked              AccountEmailType = "account-blocked"
	AccountEmailTypeUnblocked            AccountEmailType = "account-unblocked"
	AccountEmailTypeWithdrawalsBlocked   AccountEmailType = "withdrawals-blocked"
	AccountEmailTypeWithdrawalsUnblocked AccountEmailType = "withdrawals-unblocked"
	AccountEmailTypeWithdrawalApproved   AccountEmailType = "withdrawal-approved"
	AccountEmailTypeWithdrawalRejected   AccountEmailType = "withdrawal-rejected"
)

// Subject of the email
func (t AccountEmailType) String() string {
	switch t {
	case AccountEmailTypeBlocked:
		return "Your account has been blocked"
	case AccountEmailTypeUnblocked:
		return "Your account has been unblocked"
	case AccountEmailTypeWithdrawalsBlocked:
		return "Withdrawals are disabled on your account"
	case AccountEmailTypeWithdrawalsUnblocked:
		return "Withdrawals are enabled again on your account"
	case AccountEmailTypeWithdrawalApproved:
		return "Your withdrawal was approved"
	case AccountEmailTypeWithdrawalRejected:
		return "Your withdrawal was rejected"
	default:
		return ""
	}
}

func (t AccountEmailType) IsValid() bool {
	switch t {
	case AccountEmailTypeBlocked,
		AccountEmailTypeUnblocked,
		AccountEmailTypeWithdrawalsBlocked,
		AccountEmailTypeWithdrawalsUnblocked,
		AccountEmailTypeWithdrawalApproved,
		AccountEmailTypeWithdrawalRejected:
		return true
	}

	return false
}

// accountEmailBody builds the plain text and html bodies of an account email
func accountEmailBody(user *model.User, emailType AccountEmailType, detail string) (string, string) {
	plain := fmt.Sprintf("Hello %s,\n\n%s.", user.Username, emailType.String())
	if detail != "" {
		plain += "\n\n" + detail
	}
	body := fmt.Sprintf("<p>Hello %s,</p><p>%s.</p>", html.EscapeString(user.Username), html.EscapeString(emailType.String()))
	if detail != "" {
		body += "<p>" + html.EscapeString(detail) + "</p>"
	}
	return plain, body
}

// AccountEmail sends an account status email in the background
func (s *Service) AccountEmail(user *model.User, emailType AccountEmailType, detail string) {
	if !emailType.IsValid() || user.Email == "" {
		return
	}
	plain, body := accountEmailBody(user, emailType, detail)
	go func() {
		if err := s.sendgrid.SendEmail(user.Email, user.Username, emailType.String(), plain, body); err != nil {
			log.Error().Err(err).
				Str("section", "service:emails").
				Str("email_type", string(emailType)).
				Uint64("user_id", user.ID).
				Msg("Unable to send email")
		}
	}()
}
