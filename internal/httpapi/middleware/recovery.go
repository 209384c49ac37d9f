package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/truthcheck/truthcheck/internal/common"
)

// Recovery converts panics into the standard error envelope so an unexpected
// failure never takes down the request loop.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("panic recovered path=%s err=%v", c.FullPath(), r)
				common.Fail(c, http.StatusInternalServerError, 50000, "an unexpected error occurred")
				c.Abort()
			}
		}()
		c.Next()
	}
}
