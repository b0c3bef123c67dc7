package service

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	jwt "github.com/dgrijalva/jwt-go"
	"github.com/go-playground/assert/v2"
	. "github.com/smartystreets/goconvey/convey"
	"golang.org/x/crypto/bcrypt"

	"github.com/dhiraj-001/MLM-sub000/featureflags"
	"github.com/dhiraj-001/MLM-sub000/model"
)

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		name  string
		arg   string
		want  string
		valid bool
	}{
		{name: "Lower cased and trimmed", arg: " John@Example.COM ", want: "john@example.com", valid: true},
		{name: "Missing domain", arg: "john@", valid: false},
		{name: "Display name is not an address", arg: "John <john@example.com>", valid: false},
		{name: "Empty", arg: "", valid: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeEmail(tt.arg)
			assert.Equal(t, err == nil, tt.valid)
			if tt.valid {
				assert.Equal(t, got, tt.want)
			}
		})
	}
}

func TestNormalizeCountry(t *testing.T) {
	tests := []struct {
		name  string
		arg   string
		want  string
		valid bool
	}{
		{name: "Empty is allowed", arg: "", want: "", valid: true},
		{name: "Alpha 2 code", arg: "IN", want: "IN", valid: true},
		{name: "Country name", arg: "Germany", want: "DE", valid: true},
		{name: "Unknown", arg: "Atlantis", valid: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeCountry(tt.arg)
			assert.Equal(t, err == nil, tt.valid)
			if tt.valid {
				assert.Equal(t, got, tt.want)
			}
		})
	}
}

func TestValidateUsername(t *testing.T) {
	assert.Equal(t, validateUsername("john_doe.1"), nil)
	assert.Equal(t, model.IsValidationError(validateUsername("jo")), true)
	assert.Equal(t, model.IsValidationError(validateUsername("john doe")), true)
}

func TestService_NormalizePhone(t *testing.T) {
	svc, _ := newTestService()

	phone, err := svc.normalizePhone("+1 650-253-0000")
	assert.Equal(t, err, nil)
	assert.Equal(t, phone, "+16502530000")

	phone, err = svc.normalizePhone("(650) 253-0000")
	assert.Equal(t, err, nil)
	assert.Equal(t, phone, "+16502530000")

	phone, err = svc.normalizePhone("")
	assert.Equal(t, err, nil)
	assert.Equal(t, phone, "")

	_, err = svc.normalizePhone("12")
	assert.Equal(t, model.IsValidationError(err), true)
}

func TestService_Register(t *testing.T) {
	Convey("Given a registration request", t, func() {
		svc, mock := newTestService()
		ctx := context.Background()
		req := model.RegistrationRequest{
			Email:    "New@Example.com",
			Username: "newbie",
			Password: "password1",
			Country:  "IN",
		}

		Convey("a short password is rejected", func() {
			req.Password = "short"
			_, err := svc.Register(ctx, req)
			So(model.IsValidationError(err), ShouldBeTrue)
		})

		Convey("a taken email or username is a conflict", func() {
			mock.ExpectQuery(`SELECT count\(\*\) FROM "users" WHERE email = \$1 OR username = \$2`).
				WithArgs("new@example.com", "newbie").
				WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

			_, err := svc.Register(ctx, req)
			So(errors.Is(err, model.ErrConflict), ShouldBeTrue)
		})

		Convey("an unknown invite code is a validation error", func() {
			req.InviteCode = "nope1234"
			mock.ExpectQuery(`SELECT count\(\*\) FROM "users"`).
				WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
			mock.ExpectQuery(`SELECT \* FROM "users" WHERE referral_code = \$1 LIMIT 1`).
				WithArgs("NOPE1234").
				WillReturnRows(sqlmock.NewRows(userColumns))

			_, err := svc.Register(ctx, req)
			So(model.IsValidationError(err), ShouldBeTrue)
			So(mock.ExpectationsWereMet(), ShouldBeNil)
		})

		Convey("a valid request creates a member with zero balances", func() {
			mock.ExpectQuery(`SELECT count\(\*\) FROM "users" WHERE email = \$1 OR username = \$2`).
				WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
			mock.ExpectQuery(`SELECT count\(\*\) FROM "users" WHERE referral_code = \$1`).
				WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
			mock.ExpectQuery(`INSERT INTO "users" .* RETURNING "id"`).
				WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))

			user, err := svc.Register(ctx, req)
			So(err, ShouldBeNil)
			So(int(user.ID), ShouldEqual, 5)
			So(user.Email, ShouldEqual, "new@example.com")
			So(user.Country, ShouldEqual, "IN")
			So(len(user.ReferralCode), ShouldEqual, 8)
			So(user.ReferredBy, ShouldBeNil)
			So(user.Balance.String(), ShouldEqual, "0.00")
			So(user.ValidatePass("password1"), ShouldBeTrue)
			So(mock.ExpectationsWereMet(), ShouldBeNil)
		})

		Convey("registration can be switched off", func() {
			featureflags.SetDefault("api.allow_register", false)
			defer featureflags.SetDefault("api.allow_register", true)

			_, err := svc.Register(ctx, req)
			So(errors.Is(err, model.ErrForbidden), ShouldBeTrue)
		})
	})
}

func TestService_Login(t *testing.T) {
	Convey("Given a member with a password", t, func() {
		svc, mock := newTestService()
		ctx := context.Background()
		hash, err := bcrypt.GenerateFromPassword([]byte("password1"), bcrypt.MinCost)
		So(err, ShouldBeNil)
		u := member("0", "0", "0")
		u.Password = string(hash)

		Convey("valid credentials return a token carrying the user id and role", func() {
			mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1 OR username = \$2 LIMIT 1`).
				WithArgs("user", "user").
				WillReturnRows(u.rows())
			mock.ExpectExec(`UPDATE "users" SET "last_login_at"=\$1,"last_login_device"=\$2,"updated_at"=\$3 WHERE id = \$4`).
				WillReturnResult(sqlmock.NewResult(0, 1))

			resp, err := svc.Login(ctx, model.LoginRequest{Identifier: "user", Password: "password1"}, "Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/115.0")
			So(err, ShouldBeNil)
			So(resp.User.LastLoginAt, ShouldNotBeNil)

			token, err := jwt.Parse(resp.Token, func(token *jwt.Token) (interface{}, error) {
				return []byte("test-secret"), nil
			})
			So(err, ShouldBeNil)
			claims := token.Claims.(jwt.MapClaims)
			So(claims["sub"], ShouldEqual, "1")
			So(claims["role"], ShouldEqual, "member")
			So(mock.ExpectationsWereMet(), ShouldBeNil)
		})

		Convey("a wrong password is unauthorized", func() {
			mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1 OR username = \$2 LIMIT 1`).
				WillReturnRows(u.rows())

			_, err := svc.Login(ctx, model.LoginRequest{Identifier: "user", Password: "password2"}, "")
			So(errors.Is(err, model.ErrUnauthorized), ShouldBeTrue)
		})

		Convey("an unknown user is unauthorized", func() {
			mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1 OR username = \$2 LIMIT 1`).
				WillReturnRows(sqlmock.NewRows(userColumns))

			_, err := svc.Login(ctx, model.LoginRequest{Identifier: "ghost", Password: "password1"}, "")
			So(errors.Is(err, model.ErrUnauthorized), ShouldBeTrue)
		})

		Convey("a blocked member can not log in", func() {
			u.IsBlocked = true
			mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1 OR username = \$2 LIMIT 1`).
				WillReturnRows(u.rows())

			_, err := svc.Login(ctx, model.LoginRequest{Identifier: "user", Password: "password1"}, "")
			So(err, ShouldEqual, model.ErrUserBlocked)
		})
	})
}

func TestParseDevice(t *testing.T) {
	assert.Equal(t, parseDevice(""), "")
}
