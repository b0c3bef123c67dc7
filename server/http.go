package server

import (
	"fmt"
	"net/http"

	limit "github.com/bu/gin-access-limit"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/dhiraj-001/MLM-sub000/actions"
	"github.com/dhiraj-001/MLM-sub000/logger"
)

// Router builds the http handler with every route of the api
func Router(a *actions.Actions, adminAllowedIPs string) *gin.Engine {
	r := gin.New()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowCredentials = true
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{"Origin", "X-Requested-With", "Content-Length", "Content-Type", "Accept", "Authorization"}
	corsConfig.AllowMethods = []string{"GET", "PUT", "POST", "DELETE", "PATCH", "OPTIONS"}
	corsConfig.ExposeHeaders = []string{"X-Request-Id", "Content-Disposition"}

	r.Use(cors.New(corsConfig)) // Allow requests from anywhere
	r.Use(gin.Recovery())       // Recovery middleware recovers from any panics and writes a 500 if there was one.
	r.Use(logger.SetLogger(logger.Config{SkipPath: []string{"/ping", "/probe/live"}}))

	r.GET("/ping", actions.Ping)
	r.GET("/probe/live", actions.Live)

	api := r.Group("", a.Maintenance())

	// handle authentication requests
	auth := api.Group("/auth")
	{
		auth.POST("/register", a.Register)
		auth.POST("/login", a.Login)
		auth.POST("/logout", a.Restrict(false), a.Logout)
	}

	api.GET("/profile", a.Restrict(true), a.GetProfile)

	wallet := api.Group("/wallet", a.Restrict(true))
	{
		wallet.POST("/deposits", a.CreateDeposit)
		wallet.GET("/deposits", a.GetDeposits)
		wallet.POST("/withdrawals", a.CreateWithdrawal)
		wallet.GET("/withdrawals", a.GetWithdrawals)
		wallet.DELETE("/withdrawals/:withdrawal_id", a.CancelWithdrawal)
		wallet.POST("/transfer", a.Transfer)
		wallet.GET("/ledger", a.GetLedger)
		wallet.GET("/statement", a.GetStatement)
	}

	referrals := api.Group("/referrals", a.Restrict(true))
	{
		referrals.GET("/commission", a.GetCommission)
		referrals.GET("/monthly-reward", a.GetMonthlyReward)
		referrals.GET("/team", a.GetTeam)
		referrals.GET("/dashboard", a.GetReferralDashboard)
	}

	quiz := api.Group("/quiz", a.Restrict(true))
	{
		quiz.GET("/status", a.GetQuizStatus)
		quiz.GET("/questions", a.GetQuizQuestions)
		quiz.POST("/submit", a.SubmitQuiz)
	}

	notifications := api.Group("/notifications", a.Restrict(false))
	{
		notifications.GET("", a.GetNotifications)
		notifications.PUT("/read", a.MarkNotificationsRead)
		notifications.DELETE("/:notification_id", a.DeleteNotification)
		notifications.POST("/push-token", a.RegisterPushToken)
		notifications.DELETE("/push-token", a.RemovePushToken)
	}

	// admin functionality
	limit.TrustedHeaderField = "X-Forwarded-For"
	admin := api.Group("/admin", limit.CIDR(adminAllowedIPs), a.Restrict(true), a.RestrictAdmin())
	{
		admin.GET("/users", a.GetUsers)
		admin.GET("/users/:user_id", a.GetUser)
		admin.PUT("/users/:user_id", a.EditUser)
		admin.PUT("/users/:user_id/block", a.BlockUser())
		admin.PUT("/users/:user_id/unblock", a.UnblockUser())
		admin.PUT("/users/:user_id/withdrawals/block", a.BlockWithdrawals())
		admin.PUT("/users/:user_id/withdrawals/unblock", a.UnblockWithdrawals())
		admin.POST("/users/:user_id/deposits", a.AddDeposit)
		admin.GET("/users/:user_id/commission", a.GetCommission)
		admin.POST("/users/:user_id/commission", a.CreditCommission)
		admin.GET("/users/:user_id/monthly-reward", a.GetMonthlyReward)
		admin.GET("/users/:user_id/team", a.GetTeam)
		admin.GET("/users/:user_id/ledger/reconcile", a.ReconcileUser)

		admin.GET("/deposits", a.GetAdminDeposits)
		admin.PUT("/deposits/:deposit_id/approve", a.ApproveDeposit)
		admin.PUT("/deposits/:deposit_id/reject", a.RejectDeposit)

		admin.GET("/withdrawals", a.GetAdminWithdrawals)
		admin.PUT("/withdrawals/:withdrawal_id/approve", a.ApproveWithdrawal)
		admin.PUT("/withdrawals/:withdrawal_id/reject", a.RejectWithdrawal)

		admin.POST("/notifications", a.SendNotification)
	}

	return r
}

func (srv *server) newHTTPServer() *http.Server {
	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", srv.config.Server.API.Port),
		Handler: Router(srv.actions, srv.config.Server.Admin.AllowedIPs),
	}
	httpServer.SetKeepAlivesEnabled(srv.config.Server.API.KeepAlive)
	return httpServer
}

func (srv *server) ListenToRequests() {
	log.Info().Str("worker", "http_listen_to_requests").Str("action", "start").Msg("HTTP Listen to requests - started")
	defer log.Info().Str("worker", "http_listen_to_requests").Str("action", "stop").Msg("HTTP Listen to requests - stopped")

	port := srv.config.Server.API.Port
	if err := srv.HTTP.ListenAndServe(); err != nil {
		if err != http.ErrServerClosed {
			log.Error().Err(err).Str("section", "server").Str("action", "ListenToRequests").Msgf("Unable to listen %d port", port)
		}
	}
}
