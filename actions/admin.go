package actions

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dhiraj-001/MLM-sub000/model"
)

// GetUsers godoc
// swagger:route GET /admin/users admin get_users
// Get users
//
// Lists users matching the search query on email, username or phone, together with their cached rank.
//
//	Security:
//	  AdminToken:
//
//	Responses:
//	  200: UserList
func (actions *Actions) GetUsers(c *gin.Context) {
	page, limit := getPagination(c)
	data, err := actions.service.GetUsers(c.Request.Context(), c.Query("search"), page, limit)
	if err != nil {
		abortWithServiceError(c, err, "admin:get_users")
		return
	}
	c.JSON(http.StatusOK, data)
}

func (actions *Actions) GetUser(c *gin.Context) {
	userID, ok := getParamAsID(c, "user_id")
	if !ok {
		return
	}
	user, err := actions.service.GetUser(c.Request.Context(), userID)
	if err != nil {
		abortWithServiceError(c, err, "admin:get_user")
		return
	}
	c.JSON(http.StatusOK, model.UserResponse{User: user})
}

// EditUser updates the fields present in the request
func (actions *Actions) EditUser(c *gin.Context) {
	adminID, _ := getUserID(c)
	userID, ok := getParamAsID(c, "user_id")
	if !ok {
		return
	}
	request := model.UserEditRequest{}
	if err := c.ShouldBind(&request); err != nil {
		abortWithError(c, BadRequest, err.Error())
		return
	}
	user, err := actions.service.EditUser(c.Request.Context(), adminID, userID, request)
	if err != nil {
		abortWithServiceError(c, err, "admin:edit_user")
		return
	}
	c.JSON(http.StatusOK, model.UserResponse{User: user})
}

type accountStatusFunc func(c *gin.Context, adminID, userID uint64, reason string) (*model.User, error)

// changeAccountStatus is shared by the block and unblock routes
func (actions *Actions) changeAccountStatus(action string, change accountStatusFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		adminID, _ := getUserID(c)
		userID, ok := getParamAsID(c, "user_id")
		if !ok {
			return
		}
		request := model.BlockRequest{}
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBind(&request); err != nil {
				abortWithError(c, BadRequest, err.Error())
				return
			}
		}
		user, err := change(c, adminID, userID, request.Reason)
		if err != nil {
			abortWithServiceError(c, err, action)
			return
		}
		c.JSON(http.StatusOK, model.UserResponse{User: user})
	}
}

func (actions *Actions) BlockUser() gin.HandlerFunc {
	return actions.changeAccountStatus("admin:block_user", func(c *gin.Context, adminID, userID uint64, reason string) (*model.User, error) {
		return actions.service.BlockUser(c.Request.Context(), adminID, userID, reason)
	})
}

func (actions *Actions) UnblockUser() gin.HandlerFunc {
	return actions.changeAccountStatus("admin:unblock_user", func(c *gin.Context, adminID, userID uint64, _ string) (*model.User, error) {
		return actions.service.UnblockUser(c.Request.Context(), adminID, userID)
	})
}

func (actions *Actions) BlockWithdrawals() gin.HandlerFunc {
	return actions.changeAccountStatus("admin:block_withdrawals", func(c *gin.Context, adminID, userID uint64, reason string) (*model.User, error) {
		return actions.service.BlockWithdrawals(c.Request.Context(), adminID, userID, reason)
	})
}

func (actions *Actions) UnblockWithdrawals() gin.HandlerFunc {
	return actions.changeAccountStatus("admin:unblock_withdrawals", func(c *gin.Context, adminID, userID uint64, _ string) (*model.User, error) {
		return actions.service.UnblockWithdrawals(c.Request.Context(), adminID, userID)
	})
}

func (actions *Actions) GetAdminDeposits(c *gin.Context) {
	page, limit := getPagination(c)
	status := model.DepositStatus(c.Query("status"))
	data, err := actions.service.GetAdminDeposits(c.Request.Context(), status, page, limit)
	if err != nil {
		abortWithServiceError(c, err, "admin:get_deposits")
		return
	}
	c.JSON(http.StatusOK, data)
}

func (actions *Actions) GetAdminWithdrawals(c *gin.Context) {
	page, limit := getPagination(c)
	status := model.WithdrawalStatus(c.Query("status"))
	data, err := actions.service.GetAdminWithdrawals(c.Request.Context(), status, page, limit)
	if err != nil {
		abortWithServiceError(c, err, "admin:get_withdrawals")
		return
	}
	c.JSON(http.StatusOK, data)
}

func bindReview(c *gin.Context) (model.ReviewRequest, bool) {
	request := model.ReviewRequest{}
	if c.Request.ContentLength == 0 {
		return request, true
	}
	if err := c.ShouldBind(&request); err != nil {
		abortWithError(c, BadRequest, err.Error())
		return request, false
	}
	return request, true
}

// ApproveDeposit godoc
// swagger:route PUT /admin/deposits/{deposit_id}/approve admin approve_deposit
// Approve deposit
//
// Approves a pending deposit and credits the deposit balance of its owner.
//
//	Security:
//	  AdminToken:
//
//	Responses:
//	  200: Deposit
//	  404: RequestErrorResp
//	  422: RequestErrorResp
func (actions *Actions) ApproveDeposit(c *gin.Context) {
	adminID, _ := getUserID(c)
	depositID, ok := getParamAsID(c, "deposit_id")
	if !ok {
		return
	}
	request, ok := bindReview(c)
	if !ok {
		return
	}
	deposit, err := actions.service.ApproveDeposit(c.Request.Context(), adminID, depositID, request.Reason)
	if err != nil {
		abortWithServiceError(c, err, "admin:approve_deposit")
		return
	}
	c.JSON(http.StatusOK, deposit)
}

func (actions *Actions) RejectDeposit(c *gin.Context) {
	adminID, _ := getUserID(c)
	depositID, ok := getParamAsID(c, "deposit_id")
	if !ok {
		return
	}
	request, ok := bindReview(c)
	if !ok {
		return
	}
	deposit, err := actions.service.RejectDeposit(c.Request.Context(), adminID, depositID, request.Reason)
	if err != nil {
		abortWithServiceError(c, err, "admin:reject_deposit")
		return
	}
	c.JSON(http.StatusOK, deposit)
}

func (actions *Actions) ApproveWithdrawal(c *gin.Context) {
	adminID, _ := getUserID(c)
	withdrawalID, ok := getParamAsID(c, "withdrawal_id")
	if !ok {
		return
	}
	withdrawal, err := actions.service.ApproveWithdrawal(c.Request.Context(), adminID, withdrawalID)
	if err != nil {
		abortWithServiceError(c, err, "admin:approve_withdrawal")
		return
	}
	c.JSON(http.StatusOK, withdrawal)
}

// RejectWithdrawal rejects a pending withdrawal and refunds the held amount
func (actions *Actions) RejectWithdrawal(c *gin.Context) {
	adminID, _ := getUserID(c)
	withdrawalID, ok := getParamAsID(c, "withdrawal_id")
	if !ok {
		return
	}
	request, ok := bindReview(c)
	if !ok {
		return
	}
	withdrawal, err := actions.service.RejectWithdrawal(c.Request.Context(), adminID, withdrawalID, request.Reason)
	if err != nil {
		abortWithServiceError(c, err, "admin:reject_withdrawal")
		return
	}
	c.JSON(http.StatusOK, withdrawal)
}

// AddDeposit credits an approved deposit on behalf of the user
func (actions *Actions) AddDeposit(c *gin.Context) {
	adminID, _ := getUserID(c)
	userID, ok := getParamAsID(c, "user_id")
	if !ok {
		return
	}
	request := model.AdminDepositRequest{}
	if err := c.ShouldBind(&request); err != nil {
		abortWithError(c, BadRequest, err.Error())
		return
	}
	deposit, err := actions.service.AddDeposit(c.Request.Context(), adminID, userID, request)
	if err != nil {
		abortWithServiceError(c, err, "admin:add_deposit")
		return
	}
	c.JSON(http.StatusCreated, deposit)
}

func (actions *Actions) CreditCommission(c *gin.Context) {
	adminID, _ := getUserID(c)
	userID, ok := getParamAsID(c, "user_id")
	if !ok {
		return
	}
	request := model.CommissionCreditRequest{}
	if err := c.ShouldBind(&request); err != nil {
		abortWithError(c, BadRequest, err.Error())
		return
	}
	balances, err := actions.service.CreditCommission(c.Request.Context(), adminID, userID, request)
	if err != nil {
		abortWithServiceError(c, err, "admin:credit_commission")
		return
	}
	c.JSON(http.StatusOK, balances)
}

// ReconcileUser replays the ledger of the user and compares it with the stored balances
func (actions *Actions) ReconcileUser(c *gin.Context) {
	userID, ok := getParamAsID(c, "user_id")
	if !ok {
		return
	}
	report, err := actions.service.ReconcileUser(c.Request.Context(), userID)
	if err != nil {
		abortWithServiceError(c, err, "admin:reconcile")
		return
	}
	c.JSON(http.StatusOK, report)
}
