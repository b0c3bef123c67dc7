package manage_token

/**
 * Manage Token
 *
 * This package keeps the issued access tokens of every user in Redis.
 * At every request the received token is matched against the set of its user.
 * When Redis is not configured every signed token is accepted until it expires.
 */
import (
	"fmt"

	"github.com/dhiraj-001/MLM-sub000/net/redis"
)

var conn *redis.Client

// Start Redis for token management
func Start(redisCfg redis.Config) error {
	client := redis.NewClient(redisCfg)
	if err := client.Connect(); err != nil {
		return err
	}
	conn = client
	return nil
}

// Enabled reports whether tokens are tracked
func Enabled() bool {
	return conn != nil
}

func Close() {
	if conn != nil {
		conn.Disconnect()
	}
}

func key(userID uint64) string {
	return fmt.Sprintf("Token:%d", userID)
}

// ValidateToken - check JWT token exists in Redis
func ValidateToken(tokenString string, userID uint64) (int, error) {
	if conn == nil {
		return 1, nil
	}
	tokenExists := 0
	err := conn.Exec(&tokenExists, "SISMEMBER", key(userID), tokenString)
	return tokenExists, err
}

// RememberToken - save JWT token to Redis
func RememberToken(tokenString string, userID uint64) error {
	if conn == nil {
		return nil
	}
	return conn.Exec(nil, "SADD", key(userID), tokenString)
}

// RemoveToken - removes token from Redis
func RemoveToken(tokenString string, userID uint64) error {
	if conn == nil {
		return nil
	}
	return conn.Exec(nil, "SREM", key(userID), tokenString)
}

// RemoveAllUserTokens - removes all tokens for user from Redis, used when a user is blocked
func RemoveAllUserTokens(userID uint64) error {
	if conn == nil {
		return nil
	}
	return conn.Exec(nil, "DEL", key(userID))
}
