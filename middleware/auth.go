package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

// ContextUserID token 中的用户 ID 在 gin.Context 里的 key
const ContextUserID = "userID"

var ErrUnauthorized = errors.New("unauthorized")

// ParseToken 校验 HS256 token，返回其中的用户 ID（subject）
func ParseToken(secret, token string) (string, error) {
	if token == "" {
		return "", fmt.Errorf("%w: 缺少 token", ErrUnauthorized)
	}
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return "", fmt.Errorf("%w: token 无效", ErrUnauthorized)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: token 缺少用户", ErrUnauthorized)
	}
	return claims.Subject, nil
}

// BearerToken 取 Authorization 头中的 token；浏览器的 WebSocket 握手不能带头，
// 此时从 ?token= 读取
func BearerToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return c.Query("token")
}

// AuthMiddleware 校验 HS256 Bearer token。secret 为空时不鉴权
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}
		userID, err := ParseToken(secret, BearerToken(c))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "UNAUTHORIZED", "message": err.Error()})
			c.Abort()
			return
		}
		c.Set(ContextUserID, userID)
		c.Next()
	}
}
