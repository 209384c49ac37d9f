package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/truthcheck/truthcheck/internal/auth"
	"github.com/truthcheck/truthcheck/internal/common"
)

const (
	UserIDKey   = "user_id"
	TokenJTIKey = "token_jti"
	TokenExpKey = "token_exp"
)

// RevocationChecker reports whether a token id has been revoked (logout).
type RevocationChecker interface {
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
}

// AuthRequired admits requests carrying a valid, unrevoked bearer token and
// rejects everything else with 401. Rejection is idempotent: repeated
// unauthenticated requests always get the same answer.
func AuthRequired(secret string, revoked RevocationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
			c.Abort()
			return
		}

		uid, jti, exp, err := auth.ParseJWT(strings.TrimPrefix(h, "Bearer "), secret)
		if err != nil {
			common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
			c.Abort()
			return
		}

		if revoked != nil {
			isRevoked, err := revoked.IsTokenRevoked(c.Request.Context(), jti)
			if err != nil {
				common.Fail(c, http.StatusInternalServerError, 20001, "redis error")
				c.Abort()
				return
			}
			if isRevoked {
				common.Fail(c, http.StatusUnauthorized, 40102, "session ended")
				c.Abort()
				return
			}
		}

		c.Set(UserIDKey, uid)
		c.Set(TokenJTIKey, jti)
		c.Set(TokenExpKey, exp)
		c.Next()
	}
}

// TokenExpFromContext returns the expiry stored by AuthRequired.
func TokenExpFromContext(c *gin.Context) time.Time {
	if v, ok := c.Get(TokenExpKey); ok {
		if t, ok := v.(time.Time); ok {
			return t
		}
	}
	return time.Time{}
}
