package auth_service

import (
	"strconv"
	"time"

	jwt "github.com/dgrijalva/jwt-go"

	"github.com/dhiraj-001/MLM-sub000/model"
)

// CreateToken from Claims to JWT
func CreateToken(claims jwt.MapClaims, secret string, duration int) (string, error) {
	now := time.Now()
	if duration != 0 {
		claims["exp"] = now.Add(time.Duration(duration) * time.Hour).Unix()
	} else {
		claims["exp"] = now.Add(time.Hour).Unix() // 1 hour
	}
	claims["iat"] = now.Unix()
	// create the token
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	// Sign and get the complete encoded token as string
	return token.SignedString([]byte(secret))
}

// CreateUserToken issues the access token of a user, carrying its id and role
func CreateUserToken(user *model.User, secret string, duration int) (string, error) {
	claims := jwt.MapClaims{
		"sub":  strconv.FormatUint(user.ID, 10),
		"role": user.Role().String(),
	}
	return CreateToken(claims, secret, duration)
}
