package actions

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/dhiraj-001/MLM-sub000/httputils"
	"github.com/dhiraj-001/MLM-sub000/logger"
	"github.com/dhiraj-001/MLM-sub000/model"
)

const dateLayout = "2006-01-02"

// Ping godoc
// swagger:route GET /ping misc ping
// Ping
//
// Ping the server
//
//	Produces:
//	- application/json
//
//	Responses:
//	  200: StringResp
func Ping(c *gin.Context) {
	c.JSON(200, "pong")
}

// Live is the liveness probe
func Live(c *gin.Context) {
	c.JSON(200, gin.H{"status": "ok"})
}

func abortWithError(c *gin.Context, code int, message string) {
	l := getlog(c)
	l.Debug().Int("resp_code", code).Msg(message)
	c.AbortWithStatusJSON(code, httputils.RequestError{Error: message})
}

// abortWithServiceError answers with the status mapped from a service error.
// Internal errors are logged and hidden from the caller.
func abortWithServiceError(c *gin.Context, err error, action string) {
	code := httputils.StatusFromError(err)
	_ = c.Error(err)
	if code >= ServerError {
		l := getlog(c)
		l.Error().Err(err).Str("section", "actions").Str("action", action).Msg("Unable to process request")
	}
	abortWithError(c, code, httputils.MessageFromError(err))
}

func getUserID(c *gin.Context) (uint64, bool) {
	iUserID, ok := c.Get("auth_user_id")
	if !ok {
		return 0, false
	}
	return iUserID.(uint64), true
}

func getAuthUser(c *gin.Context) *model.User {
	iUser, ok := c.Get("auth_user")
	if !ok {
		return nil
	}
	return iUser.(*model.User)
}

func getQueryAsInt(c *gin.Context, name string, def int) int {
	val := c.Query(name)
	if val == "" {
		return def
	}
	param, err := strconv.Atoi(val)
	if err != nil {
		return def
	}
	return param
}

func getPagination(c *gin.Context) (int, int) {
	page := getQueryAsInt(c, "page", 1)
	limit := getQueryAsInt(c, "limit", 10)
	return page, limit
}

// getParamAsID reads a positive numeric route parameter, aborting with 400 when it is malformed
func getParamAsID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		abortWithError(c, BadRequest, "Invalid "+name)
		return 0, false
	}
	return id, true
}

// getQueryAsDate parses a YYYY-MM-DD query parameter, the zero time when missing
func getQueryAsDate(c *gin.Context, name string) (time.Time, error) {
	val := c.Query(name)
	if val == "" {
		return time.Time{}, nil
	}
	day, err := time.ParseInLocation(dateLayout, val, time.UTC)
	if err != nil {
		return time.Time{}, model.NewValidationError(name, "must be a date formatted as YYYY-MM-DD")
	}
	return day, nil
}

func getlog(c *gin.Context) zerolog.Logger {
	return logger.GetLogger(c)
}
