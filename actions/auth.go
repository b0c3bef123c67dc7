package actions

import (
	"fmt"
	"net/http"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"

	"github.com/dhiraj-001/MLM-sub000/model"
)

// ParseToken validates the signature of the token and returns its claims
func ParseToken(tokenString string, secret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Don't forget to validate the alg is what you expect:
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("Unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if token == nil {
		return jwt.MapClaims{}, fmt.Errorf("Invalid token")
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return jwt.MapClaims{}, err
}

// Register godoc
// swagger:route POST /auth/register auth register
// Register
//
// Create a new member account, optionally under the member owning the referral code
//
//	Consumes:
//	- application/json
//	- application/x-www-form-urlencoded
//
//	Responses:
//	  201: UserResponse
//	  400: RequestErrorResp
//	  409: RequestErrorResp
func (actions *Actions) Register(c *gin.Context) {
	request := model.RegistrationRequest{}
	if err := c.ShouldBind(&request); err != nil {
		abortWithError(c, BadRequest, err.Error())
		return
	}
	user, err := actions.service.Register(c.Request.Context(), request)
	if err != nil {
		abortWithServiceError(c, err, "auth:register")
		return
	}
	c.JSON(http.StatusCreated, model.UserResponse{User: user})
}

// Login godoc
// swagger:route POST /auth/login auth login
// Login
//
// Login with email or username and password
//
//	Responses:
//	  200: LoginResponse
//	  401: RequestErrorResp
//	  403: RequestErrorResp
func (actions *Actions) Login(c *gin.Context) {
	request := model.LoginRequest{}
	if err := c.ShouldBind(&request); err != nil {
		abortWithError(c, BadRequest, err.Error())
		return
	}
	resp, err := actions.service.Login(c.Request.Context(), request, c.Request.UserAgent())
	if err != nil {
		abortWithServiceError(c, err, "auth:login")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Logout removes the current token from the token store
func (actions *Actions) Logout(c *gin.Context) {
	userID, _ := getUserID(c)
	token := c.GetString("auth_token")
	if err := actions.service.Logout(userID, token); err != nil {
		abortWithServiceError(c, err, "auth:logout")
		return
	}
	c.JSON(http.StatusOK, true)
}
