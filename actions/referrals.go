package actions

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// targetUserID returns the user addressed by the request: the user_id route parameter on admin routes,
// the authenticated user otherwise
func targetUserID(c *gin.Context) (uint64, bool) {
	if c.Param("user_id") != "" {
		return getParamAsID(c, "user_id")
	}
	return getUserID(c)
}

// GetCommission godoc
// swagger:route GET /referrals/commission referrals get_commission
// Get referral commission
//
// Computes the commission stage of the user and the advisory commission per level from the balances of its team.
//
//	Security:
//	  UserToken:
//
//	Responses:
//	  200: CommissionSummary
//	  404: RequestErrorResp
func (actions *Actions) GetCommission(c *gin.Context) {
	userID, ok := targetUserID(c)
	if !ok {
		return
	}
	data, err := actions.service.GetCommission(c.Request.Context(), userID)
	if err != nil {
		abortWithServiceError(c, err, "referrals:commission")
		return
	}
	c.JSON(http.StatusOK, data)
}

// GetMonthlyReward godoc
// swagger:route GET /referrals/monthly-reward referrals get_monthly_reward
// Get monthly reward
//
// Returns the star rank of the user, its monthly bonus and the progress towards the next rank.
//
//	Responses:
//	  200: RankSummary
//	  404: RequestErrorResp
func (actions *Actions) GetMonthlyReward(c *gin.Context) {
	userID, ok := targetUserID(c)
	if !ok {
		return
	}
	data, err := actions.service.GetMonthlyReward(c.Request.Context(), userID)
	if err != nil {
		abortWithServiceError(c, err, "referrals:monthly_reward")
		return
	}
	c.JSON(http.StatusOK, data)
}

func (actions *Actions) GetTeam(c *gin.Context) {
	userID, ok := targetUserID(c)
	if !ok {
		return
	}
	data, err := actions.service.GetTeam(c.Request.Context(), userID)
	if err != nil {
		abortWithServiceError(c, err, "referrals:team")
		return
	}
	c.JSON(http.StatusOK, data)
}

func (actions *Actions) GetReferralDashboard(c *gin.Context) {
	userID, _ := getUserID(c)
	data, err := actions.service.GetReferralDashboard(c.Request.Context(), userID)
	if err != nil {
		abortWithServiceError(c, err, "referrals:dashboard")
		return
	}
	c.JSON(http.StatusOK, data)
}
