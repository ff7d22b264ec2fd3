package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const accountIDKey = "user_id"

func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": msg})
}

// JWTMiddleware accepts HS256 access tokens signed with secret and stores the
// account ID from the sub claim in the request context.
func JWTMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" {
			unauthorized(c, "authorization required")
			return
		}
		parts := strings.SplitN(auth, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			unauthorized(c, "invalid authorization header")
			return
		}
		tok, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !tok.Valid {
			unauthorized(c, "invalid token")
			return
		}
		claims, ok := tok.Claims.(jwt.MapClaims)
		if !ok || claims["typ"] != "access" {
			unauthorized(c, "not an access token")
			return
		}
		// numeric claims decode as float64
		sub, ok := claims["sub"].(float64)
		if !ok || sub <= 0 {
			unauthorized(c, "invalid token subject")
			return
		}
		c.Set(accountIDKey, uint(sub))
		c.Next()
	}
}

// AccountID returns the authenticated account set by JWTMiddleware.
func AccountID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(accountIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
