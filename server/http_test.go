package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/dhiraj-001/MLM-sub000/actions"
	"github.com/dhiraj-001/MLM-sub000/config"
)

func TestRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	a := actions.NewActions(config.Config{}, nil, "test-secret", context.Background())
	r := Router(a, "127.0.0.1/32")

	Convey("Every endpoint group is registered", t, func() {
		routes := map[string]bool{}
		for _, route := range r.Routes() {
			routes[route.Method+" "+route.Path] = true
		}
		for _, route := range []string{
			"GET /ping",
			"POST /auth/register",
			"POST /auth/login",
			"GET /profile",
			"POST /wallet/withdrawals",
			"DELETE /wallet/withdrawals/:withdrawal_id",
			"POST /wallet/transfer",
			"GET /referrals/commission",
			"GET /referrals/monthly-reward",
			"GET /quiz/questions",
			"POST /quiz/submit",
			"GET /notifications",
			"PUT /admin/users/:user_id/block",
			"PUT /admin/deposits/:deposit_id/approve",
			"PUT /admin/withdrawals/:withdrawal_id/reject",
		} {
			So(routes[route], ShouldBeTrue)
		}
	})

	Convey("Requests carry a request id", t, func() {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/ping", nil)
		r.ServeHTTP(w, req)
		So(w.Code, ShouldEqual, http.StatusOK)
		So(w.Header().Get("X-Request-Id"), ShouldNotBeEmpty)
	})

	Convey("Unknown routes return 404", t, func() {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/unknown", nil)
		r.ServeHTTP(w, req)
		So(w.Code, ShouldEqual, http.StatusNotFound)
	})
}
