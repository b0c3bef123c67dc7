package actions

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"
	. "github.com/smartystreets/goconvey/convey"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/dhiraj-001/MLM-sub000/config"
	"github.com/dhiraj-001/MLM-sub000/featureflags"
	"github.com/dhiraj-001/MLM-sub000/httputils"
	"github.com/dhiraj-001/MLM-sub000/model"
	"github.com/dhiraj-001/MLM-sub000/queries"
	"github.com/dhiraj-001/MLM-sub000/service"
	"github.com/dhiraj-001/MLM-sub000/service/auth_service"
)

const testSecret = "test-secret"

func setupActions(t *testing.T) (*Actions, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("can't create sqlmock: %s", err)
	}
	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  "postgres-mock",
		DriverName:           "postgres",
		Conn:                 db,
		PreferSimpleProtocol: true,
	}), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("can't open gorm connection: %s", err)
	}
	repo := &queries.Repo{Conn: gormDB, ConnReader: gormDB, ConnReaderAdmin: gormDB}
	cfg := config.Config{
		Server: config.ServerConfig{API: config.APIConfig{JWTTokenSecret: testSecret, JWTTokenDuration: 1}},
		Wallet: config.WalletConfig{MinWithdrawal: 50, WithdrawalFee: 0.05},
	}
	srv := service.NewService(context.Background(), cfg, repo, nil, nil)
	return NewActions(cfg, srv, testSecret, context.Background()), mock
}

func testRouter(a *Actions) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ping", Ping)
	api := r.Group("", a.Maintenance())
	api.GET("/profile", a.Restrict(true), a.GetProfile)
	api.POST("/wallet/withdrawals", a.Restrict(true), a.CreateWithdrawal)
	api.GET("/wallet/statement", a.Restrict(true), a.GetStatement)
	api.DELETE("/notifications/:notification_id", a.Restrict(false), a.DeleteNotification)
	api.GET("/admin/users/:user_id", a.Restrict(true), a.RestrictAdmin(), a.GetUser)
	api.POST("/admin/notifications", a.Restrict(true), a.RestrictAdmin(), a.SendNotification)
	return r
}

func userToken(t *testing.T, user *model.User) string {
	token, err := auth_service.CreateUserToken(user, testSecret, 1)
	if err != nil {
		t.Fatalf("can't create token: %s", err)
	}
	return token
}

var userColumns = []string{"id", "email", "username", "referral_code", "balance", "deposit_balance", "earning_balance", "is_blocked", "can_withdraw", "is_admin"}

func expectUser(mock sqlmock.Sqlmock, id uint64, blocked, admin bool) {
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1 LIMIT 1`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(id, "member@example.com", "member", "ABCDEFGH", "30", "10", "20", blocked, true, admin))
}

func doRequest(r http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func decodeError(w *httptest.ResponseRecorder) string {
	var resp httputils.RequestError
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return resp.Error
}

func TestRestrict(t *testing.T) {
	Convey("Given the api routes", t, func() {
		a, mock := setupActions(t)
		r := testRouter(a)

		Convey("Ping does not require a token", func() {
			w := doRequest(r, http.MethodGet, "/ping", "", "")
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("A missing token is rejected with 401", func() {
			w := doRequest(r, http.MethodGet, "/profile", "", "")
			So(w.Code, ShouldEqual, http.StatusUnauthorized)
			So(decodeError(w), ShouldEqual, "Unauthorized")
		})

		Convey("A token signed with another secret is rejected with 401", func() {
			token, _ := auth_service.CreateUserToken(&model.User{ID: 1}, "another-secret", 1)
			w := doRequest(r, http.MethodGet, "/profile", token, "")
			So(w.Code, ShouldEqual, http.StatusUnauthorized)
		})

		Convey("A valid token loads the profile of its user", func() {
			expectUser(mock, 1, false, false)
			expectUser(mock, 1, false, false)
			w := doRequest(r, http.MethodGet, "/profile", userToken(t, &model.User{ID: 1}), "")
			So(w.Code, ShouldEqual, http.StatusOK)

			var resp model.UserResponse
			So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
			So(int(resp.User.ID), ShouldEqual, 1)
			So(resp.User.Balance.String(), ShouldEqual, "30.00")
			So(mock.ExpectationsWereMet(), ShouldBeNil)
		})

		Convey("Blocked users are rejected with 403", func() {
			expectUser(mock, 1, true, false)
			w := doRequest(r, http.MethodGet, "/profile", userToken(t, &model.User{ID: 1}), "")
			So(w.Code, ShouldEqual, http.StatusForbidden)
		})

		Convey("Members can not reach admin routes", func() {
			expectUser(mock, 1, false, false)
			w := doRequest(r, http.MethodGet, "/admin/users/2", userToken(t, &model.User{ID: 1}), "")
			So(w.Code, ShouldEqual, http.StatusForbidden)
		})

		Convey("An admin token of a user that lost the admin role is rejected", func() {
			expectUser(mock, 1, false, false)
			w := doRequest(r, http.MethodGet, "/admin/users/2", userToken(t, &model.User{ID: 1, IsAdmin: true}), "")
			So(w.Code, ShouldEqual, http.StatusForbidden)
		})

		Convey("Admins reach admin routes", func() {
			expectUser(mock, 1, false, true)
			expectUser(mock, 2, false, false)
			w := doRequest(r, http.MethodGet, "/admin/users/2", userToken(t, &model.User{ID: 1, IsAdmin: true}), "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(mock.ExpectationsWereMet(), ShouldBeNil)
		})
	})
}

func TestHandlersErrors(t *testing.T) {
	Convey("Given an authenticated member", t, func() {
		a, mock := setupActions(t)
		r := testRouter(a)
		token := userToken(t, &model.User{ID: 1})

		Convey("Malformed route ids are rejected with 400", func() {
			w := doRequest(r, http.MethodDelete, "/notifications/abc", token, "")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decodeError(w), ShouldEqual, "Invalid notification_id")
		})

		Convey("Withdrawals below the minimum are rejected with 400", func() {
			expectUser(mock, 1, false, false)
			w := doRequest(r, http.MethodPost, "/wallet/withdrawals", token, `{"amount":"10"}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decodeError(w), ShouldEqual, "amount: minimum withdrawal is 50.00")
		})

		Convey("Missing required fields are rejected with 400", func() {
			expectUser(mock, 1, false, false)
			w := doRequest(r, http.MethodPost, "/wallet/withdrawals", token, `{}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Statement dates must be formatted as days", func() {
			expectUser(mock, 1, false, false)
			w := doRequest(r, http.MethodGet, "/wallet/statement?from=yesterday", token, "")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decodeError(w), ShouldStartWith, "from:")
		})

		Convey("Users that can not be loaded are denied access", func() {
			mock.ExpectQuery(`SELECT \* FROM "users"`).WillReturnError(sqlmock.ErrCancelled)
			w := doRequest(r, http.MethodGet, "/profile", token, "")
			So(w.Code, ShouldEqual, http.StatusForbidden)
		})
	})
}

func TestSendNotification(t *testing.T) {
	Convey("Given an admin", t, func() {
		a, mock := setupActions(t)
		r := testRouter(a)
		token := userToken(t, &model.User{ID: 1, IsAdmin: true})

		Convey("A request without recipients or the all flag is rejected with 400", func() {
			expectUser(mock, 1, false, true)
			w := doRequest(r, http.MethodPost, "/admin/notifications", token, `{"title":"Maintenance","message":"Tonight"}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decodeError(w), ShouldStartWith, "userIds:")
			So(mock.ExpectationsWereMet(), ShouldBeNil)
		})

		Convey("The all flag notifies every active user", func() {
			expectUser(mock, 1, false, true)
			mock.ExpectQuery(`SELECT "id" FROM "users" WHERE is_blocked = \$1`).
				WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(2))
			mock.ExpectQuery(`INSERT INTO "notifications" .* RETURNING "id"`).
				WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10).AddRow(11))
			w := doRequest(r, http.MethodPost, "/admin/notifications", token, `{"title":"Maintenance","message":"Tonight","all":true}`)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldEqual, `{"sent":2}`)
			So(mock.ExpectationsWereMet(), ShouldBeNil)
		})
	})
}

func TestMaintenance(t *testing.T) {
	a, _ := setupActions(t)
	r := testRouter(a)

	featureflags.SetDefault("api.maintenance-mode", true)
	defer featureflags.SetDefault("api.maintenance-mode", false)

	w := doRequest(r, http.MethodGet, "/profile", "", "")
	assert.Equal(t, w.Code, http.StatusServiceUnavailable)

	w = doRequest(r, http.MethodGet, "/ping", "", "")
	assert.Equal(t, w.Code, http.StatusOK)
}

func TestGetQueryAsDate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		name    string
		query   string
		wantErr bool
		want    string
	}{
		{name: "Missing date is open", query: "", want: "0001-01-01"},
		{name: "Valid day", query: "from=2024-03-01", want: "2024-03-01"},
		{name: "Invalid day", query: "from=01/03/2024", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request, _ = http.NewRequest(http.MethodGet, "/?"+tt.query, nil)
			day, err := getQueryAsDate(c, "from")
			assert.Equal(t, err != nil, tt.wantErr)
			if !tt.wantErr {
				assert.Equal(t, day.Format(dateLayout), tt.want)
			}
		})
	}
}
