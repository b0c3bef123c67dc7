package actions

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetProfile godoc
// swagger:route GET /profile profile get_profile
// Get profile
//
// Returns the current user with its balances.
//
//	Security:
//	  UserToken:
//
//	Responses:
//	  200: UserResponse
//	  404: RequestErrorResp
func (actions *Actions) GetProfile(c *gin.Context) {
	userID, _ := getUserID(c)
	profile, err := actions.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		abortWithServiceError(c, err, "profile:get")
		return
	}
	c.JSON(http.StatusOK, profile)
}
