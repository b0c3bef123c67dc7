package actions

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dhiraj-001/MLM-sub000/model"
)

// CreateDeposit godoc
// swagger:route POST /wallet/deposits wallet create_deposit
// Create deposit
//
// Submit a deposit for admin review. The balance is credited once the deposit is approved.
//
//	Security:
//	  UserToken:
//
//	Responses:
//	  201: Deposit
//	  400: RequestErrorResp
//	  409: RequestErrorResp
func (actions *Actions) CreateDeposit(c *gin.Context) {
	userID, _ := getUserID(c)
	request := model.DepositRequest{}
	if err := c.ShouldBind(&request); err != nil {
		abortWithError(c, BadRequest, err.Error())
		return
	}
	deposit, err := actions.service.CreateDeposit(c.Request.Context(), userID, request)
	if err != nil {
		abortWithServiceError(c, err, "wallet:create_deposit")
		return
	}
	c.JSON(http.StatusCreated, deposit)
}

func (actions *Actions) GetDeposits(c *gin.Context) {
	userID, _ := getUserID(c)
	page, limit := getPagination(c)
	data, err := actions.service.GetDeposits(c.Request.Context(), userID, page, limit)
	if err != nil {
		abortWithServiceError(c, err, "wallet:get_deposits")
		return
	}
	c.JSON(http.StatusOK, data)
}

// CreateWithdrawal godoc
// swagger:route POST /wallet/withdrawals wallet create_withdrawal
// Create withdrawal
//
// Holds the requested amount, taken from the earning balance first, until an admin reviews the request.
//
//	Security:
//	  UserToken:
//
//	Responses:
//	  201: Withdrawal
//	  400: RequestErrorResp
//	  403: RequestErrorResp
//	  422: RequestErrorResp
func (actions *Actions) CreateWithdrawal(c *gin.Context) {
	userID, _ := getUserID(c)
	request := model.WithdrawalRequest{}
	if err := c.ShouldBind(&request); err != nil {
		abortWithError(c, BadRequest, err.Error())
		return
	}
	withdrawal, err := actions.service.CreateWithdrawal(c.Request.Context(), userID, request)
	if err != nil {
		abortWithServiceError(c, err, "wallet:create_withdrawal")
		return
	}
	c.JSON(http.StatusCreated, withdrawal)
}

// CancelWithdrawal cancels a pending withdrawal of the user and refunds the held amount
func (actions *Actions) CancelWithdrawal(c *gin.Context) {
	userID, _ := getUserID(c)
	withdrawalID, ok := getParamAsID(c, "withdrawal_id")
	if !ok {
		return
	}
	withdrawal, err := actions.service.CancelWithdrawal(c.Request.Context(), userID, withdrawalID)
	if err != nil {
		abortWithServiceError(c, err, "wallet:cancel_withdrawal")
		return
	}
	c.JSON(http.StatusOK, withdrawal)
}

func (actions *Actions) GetWithdrawals(c *gin.Context) {
	userID, _ := getUserID(c)
	page, limit := getPagination(c)
	data, err := actions.service.GetWithdrawals(c.Request.Context(), userID, page, limit)
	if err != nil {
		abortWithServiceError(c, err, "wallet:get_withdrawals")
		return
	}
	c.JSON(http.StatusOK, data)
}

// Transfer moves an amount from the earning balance to the deposit balance
func (actions *Actions) Transfer(c *gin.Context) {
	userID, _ := getUserID(c)
	request := model.TransferRequest{}
	if err := c.ShouldBind(&request); err != nil {
		abortWithError(c, BadRequest, err.Error())
		return
	}
	balances, err := actions.service.Transfer(c.Request.Context(), userID, request)
	if err != nil {
		abortWithServiceError(c, err, "wallet:transfer")
		return
	}
	c.JSON(http.StatusOK, balances)
}

func (actions *Actions) GetLedger(c *gin.Context) {
	userID, _ := getUserID(c)
	page, limit := getPagination(c)
	kind := model.TransactionKind(c.Query("kind"))
	data, err := actions.service.GetLedger(c.Request.Context(), userID, kind, page, limit)
	if err != nil {
		abortWithServiceError(c, err, "wallet:get_ledger")
		return
	}
	c.JSON(http.StatusOK, data)
}

// GetStatement godoc
// swagger:route GET /wallet/statement wallet get_statement
// Ledger statement
//
// Export the ledger of the user between two dates (from inclusive, to exclusive) as pdf or csv.
// With download=true the file is sent as an attachment instead of the json envelope.
//
//	Security:
//	  UserToken:
//
//	Responses:
//	  200: GeneratedFile
//	  400: RequestErrorResp
func (actions *Actions) GetStatement(c *gin.Context) {
	userID, _ := getUserID(c)
	from, err := getQueryAsDate(c, "from")
	if err != nil {
		abortWithServiceError(c, err, "wallet:statement")
		return
	}
	to, err := getQueryAsDate(c, "to")
	if err != nil {
		abortWithServiceError(c, err, "wallet:statement")
		return
	}
	file, err := actions.service.Statement(c.Request.Context(), userID, from, to, c.Query("format"))
	if err != nil {
		abortWithServiceError(c, err, "wallet:statement")
		return
	}
	if c.Query("download") != "true" {
		c.JSON(http.StatusOK, file)
		return
	}
	contentType := "application/pdf"
	if file.Type == "csv" {
		contentType = "text/csv"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.%s", file.DataType, file.Type))
	c.Data(http.StatusOK, contentType, file.Data)
}
