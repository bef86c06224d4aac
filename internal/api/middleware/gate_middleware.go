package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/1arunjyoti/resume-builder/internal/auth"
)

func abortLocked(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "locked"})
}

// GateMiddleware 校验解锁会话令牌。
// 门禁未启用（没设口令）时直接放行，本地单用户场景下这是默认状态。
func GateMiddleware(gate *auth.Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !gate.Enabled() {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if header == "" {
			abortLocked(c)
			return
		}

		parts := strings.Fields(header)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortLocked(c)
			return
		}

		if err := gate.ValidateToken(strings.TrimSpace(parts[1])); err != nil {
			abortLocked(c)
			return
		}
		c.Next()
	}
}
