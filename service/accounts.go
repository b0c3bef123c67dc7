package service

import (
	"context"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/biter777/countries"
	"github.com/nyaruka/phonenumbers"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"xojoc.pw/useragent"

	"github.com/dhiraj-001/MLM-sub000/featureflags"
	"github.com/dhiraj-001/MLM-sub000/model"
	"github.com/dhiraj-001/MLM-sub000/queries"
	"github.com/dhiraj-001/MLM-sub000/service/auth_service"
	"github.com/dhiraj-001/MLM-sub000/service/manage_token"
)

const referralCodeAttempts = 5

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.]{3,32}$`)

var errReferralCodeExhausted = errors.New("unable to generate a unique referral code")

// normalizePhone validates a phone number and returns it in E164 format.
// Numbers without an international prefix are parsed in the configured region.
func (service *Service) normalizePhone(phone string) (string, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return "", nil
	}
	num, err := phonenumbers.Parse(phone, service.cfg.Registration.DefaultRegion)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return "", model.NewValidationError("phone", "invalid phone number")
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}

// normalizeCountry accepts a country name or code and returns the ISO alpha-2 code
func normalizeCountry(country string) (string, error) {
	country = strings.TrimSpace(country)
	if country == "" {
		return "", nil
	}
	code := countries.ByName(country)
	if code == countries.Unknown {
		return "", model.NewValidationError("country", "unknown country %q", country)
	}
	return code.Alpha2(), nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", model.NewValidationError("email", "invalid email address")
	}
	return email, nil
}

func validateUsername(username string) error {
	if !usernamePattern.MatchString(username) {
		return model.NewValidationError("username", "must be 3 to 32 letters, digits, dots or underscores")
	}
	return nil
}

func (service *Service) validatePassword(password string) error {
	minLength := service.cfg.Registration.MinPasswordLength
	if minLength <= 0 {
		minLength = 8
	}
	if len(password) < minLength {
		return model.NewValidationError("password", "must have at least %d characters", minLength)
	}
	return nil
}

func (service *Service) newReferralCode(ctx context.Context) (string, error) {
	for i := 0; i < referralCodeAttempts; i++ {
		code := model.NewReferralCode()
		exists, err := service.repo.ReferralCodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", errReferralCodeExhausted
}

// Register creates a new member, optionally attached to the owner of the invite code
func (service *Service) Register(ctx context.Context, req model.RegistrationRequest) (*model.User, error) {
	if !featureflags.IsEnabled("api.allow_register") {
		return nil, errors.Wrap(model.ErrForbidden, "registration is disabled")
	}

	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}
	username := strings.TrimSpace(req.Username)
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := service.validatePassword(req.Password); err != nil {
		return nil, err
	}
	phone, err := service.normalizePhone(req.Phone)
	if err != nil {
		return nil, err
	}
	country, err := normalizeCountry(req.Country)
	if err != nil {
		return nil, err
	}

	exists, err := service.repo.UserExists(ctx, email, username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.Wrap(model.ErrConflict, "email or username already registered")
	}

	var (
		referredBy *string
		referrer   *model.User
	)
	if code := strings.ToUpper(strings.TrimSpace(req.InviteCode)); code != "" {
		referrer, err = service.repo.GetUserByReferralCode(ctx, code)
		if queries.IsNotFound(err) {
			return nil, model.NewValidationError("referral", "unknown referral code")
		}
		if err != nil {
			return nil, err
		}
		referredBy = &referrer.ReferralCode
	}

	user := model.NewUser(email, phone, username, req.Password, country, referredBy)
	if user.ReferralCode, err = service.newReferralCode(ctx); err != nil {
		return nil, err
	}
	if err := user.EncodePass(); err != nil {
		return nil, err
	}
	if err := service.repo.CreateUser(ctx, user); err != nil {
		if queries.IsUniqueViolation(err) {
			return nil, errors.Wrap(model.ErrConflict, "email or username already registered")
		}
		return nil, err
	}

	log.Info().
		Str("section", "service:accounts").
		Str("action", "register").
		Uint64("user_id", user.ID).
		Str("referred_by", req.InviteCode).
		Msg("New user registered")

	if referrer != nil {
		service.notify(ctx, referrer.ID, "New referral",
			fmt.Sprintf("%s joined your team using your referral code.", user.Username),
			model.NotificationTypeReferral)
	}
	return user, nil
}

// Login checks the credentials and issues an access token
func (service *Service) Login(ctx context.Context, req model.LoginRequest, userAgent string) (*model.LoginResponse, error) {
	user, err := service.repo.GetUserByLogin(ctx, req.Identifier)
	if queries.IsNotFound(err) {
		return nil, errors.Wrap(model.ErrUnauthorized, "invalid credentials")
	}
	if err != nil {
		return nil, err
	}
	if !user.ValidatePass(req.Password) {
		return nil, errors.Wrap(model.ErrUnauthorized, "invalid credentials")
	}
	if user.IsBlocked {
		return nil, model.ErrUserBlocked
	}

	duration := service.apiConfig.JWTTokenDuration
	token, err := auth_service.CreateUserToken(user, service.apiConfig.JWTTokenSecret, duration)
	if err != nil {
		return nil, err
	}
	if err := manage_token.RememberToken(token, user.ID); err != nil {
		log.Error().Err(err).Str("section", "service:accounts").Str("action", "login").Msg("Unable to store token")
		return nil, err
	}

	now := time.Now()
	device := parseDevice(userAgent)
	if err := service.repo.UpdateUserFields(ctx, user.ID, map[string]interface{}{
		"last_login_at":     now,
		"last_login_device": device,
	}); err != nil {
		log.Warn().Err(err).Str("section", "service:accounts").Str("action", "login").Uint64("user_id", user.ID).Msg("Unable to record login")
	}
	user.LastLoginAt = &now
	user.LastLoginDevice = device

	if duration == 0 {
		duration = 1
	}
	return &model.LoginResponse{
		Token:     token,
		ExpiresAt: now.Add(time.Duration(duration) * time.Hour).Unix(),
		User:      user,
	}, nil
}

// parseDevice returns a short browser and OS description of the user agent
func parseDevice(userAgent string) string {
	ua := useragent.Parse(userAgent)
	if ua == nil {
		return ""
	}
	if ua.OS == "" {
		return ua.Name
	}
	return ua.Name + " / " + ua.OS
}

// Logout forgets the given token
func (service *Service) Logout(userID uint64, token string) error {
	return manage_token.RemoveToken(token, userID)
}

func (service *Service) GetProfile(ctx context.Context, userID uint64) (*model.UserResponse, error) {
	user, err := service.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, notFound(err)
	}
	return &model.UserResponse{User: user}, nil
}

// GetActiveUser loads the user and rejects blocked accounts
func (service *Service) GetActiveUser(ctx context.Context, userID uint64) (*model.User, error) {
	user, err := service.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, notFound(err)
	}
	if user.IsBlocked {
		return nil, model.ErrUserBlocked
	}
	return user, nil
}
