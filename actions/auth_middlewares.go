package actions

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/dhiraj-001/MLM-sub000/featureflags"
	"github.com/dhiraj-001/MLM-sub000/logger"
	"github.com/dhiraj-001/MLM-sub000/model"
	"github.com/dhiraj-001/MLM-sub000/service/manage_token"
)

// Maintenance rejects every request while the maintenance flag is on
func (actions *Actions) Maintenance() gin.HandlerFunc {
	return func(c *gin.Context) {
		if featureflags.IsEnabled("api.maintenance-mode") {
			abortWithError(c, ServiceUnavailable, "The service is under maintenance")
			return
		}
		c.Next()
	}
}

// Restrict godoc
// Middleware to restrict a route to requests carrying a valid user token.
// With withUser the user is loaded and blocked accounts are rejected.
func (actions *Actions) Restrict(withUser bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.GetLogger(c)
		token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if token == "" {
			log.Warn().Str("section", "restrict").Msg("Missing token")
			abortWithError(c, Unauthorized, "Unauthorized")
			return
		}
		actions.restrictByToken(c, withUser, token)
	}
}

// RestrictAdmin allows only admins that are not blocked, the role is checked against the stored user
func (actions *Actions) RestrictAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.GetLogger(c)
		role, _ := c.Get("auth_role_alias")
		user := getAuthUser(c)
		if role != model.RoleAdmin.String() || user == nil || !user.IsAdmin {
			log.Warn().Str("section", "restrict:admin").Interface("role_alias", role).Msg("Invalid access to admin resource")
			abortWithError(c, AccessDenied, "Access denied")
			return
		}
		c.Next()
	}
}

func (actions *Actions) restrictByToken(c *gin.Context, withUser bool, token string) {
	log := logger.GetLogger(c)
	claims, err := ParseToken(token, actions.jwtTokenSecret)
	// check that the token is valid
	if err != nil {
		_ = c.Error(err)
		log.Warn().Err(err).Str("section", "restrict:token").Msg("Invalid token received")
		abortWithError(c, Unauthorized, "Unauthorized")
		return
	}
	// load the ID of the user from the token
	sub, _ := claims["sub"].(string)
	userID, err := strconv.ParseUint(sub, 10, 64)
	if err != nil {
		_ = c.Error(err)
		log.Warn().Err(err).Str("section", "restrict:token").Msg("Unable to load user id from token 'sub' claim")
		abortWithError(c, AccessDenied, "Access denied")
		return
	}

	// Flag to disable the user token precheck in high demand periods if this becomes costly for the API
	tokenValid := 1
	if !featureflags.IsEnabled("api.disable_token_precheck") {
		tokenValid, err = manage_token.ValidateToken(token, userID)
	}
	if err != nil || tokenValid == 0 {
		if err != nil {
			_ = c.Error(err)
			log.Error().Err(err).Str("section", "restrict:token").Msg("Unable to validate auth token from cache")
		} else {
			log.Warn().Str("section", "restrict:token").Msg("Token invalidated by cache")
		}
		abortWithError(c, Unauthorized, "Unauthorized")
		return
	}

	roleAlias := model.RoleAlias("")
	if role, ok := claims["role"].(string); ok {
		roleAlias = model.RoleAlias(role)
	}
	if !roleAlias.IsValid() {
		log.Error().Uint64("user_id", userID).Str("section", "restrict:token").Msg("Invalid access token")
		abortWithError(c, AccessDenied, "Access denied")
		return
	}

	// set user id on request context
	c.Set("auth_user_id", userID)
	c.Set("auth_role_alias", roleAlias.String())
	c.Set("auth_token", token)

	if withUser {
		// finally get the user from the db with the ID from token
		user, err := actions.service.GetActiveUser(c.Request.Context(), userID)
		if err != nil {
			if !errors.Is(err, model.ErrUserBlocked) {
				_ = c.Error(err)
				log.Error().Err(err).Str("section", "restrict:token").Msg("Unable to find user based on token claim")
			}
			abortWithError(c, AccessDenied, "Access denied")
			return
		}
		c.Set("auth_user", user)
		c.Set("auth_role_alias", user.Role().String())
	}
	c.Next()
}
