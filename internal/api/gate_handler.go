package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/1arunjyoti/resume-builder/internal/auth"
)

// GateHandler 暴露本地口令门禁的解锁端点。
type GateHandler struct {
	gate *auth.Gate
}

func NewGateHandler(gate *auth.Gate) *GateHandler {
	return &GateHandler{gate: gate}
}

// Status 报告门禁是否启用，前端据此决定是否展示解锁页。
func (h *GateHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"enabled": h.gate.Enabled()})
}

type unlockRequest struct {
	Passphrase string `json:"passphrase" binding:"required"`
}

// Unlock 校验口令并签发会话令牌。
func (h *GateHandler) Unlock(c *gin.Context) {
	var req unlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	token, err := h.gate.Unlock(req.Passphrase)
	if err != nil {
		if errors.Is(err, auth.ErrWrongPassphrase) {
			Unauthorized(c)
			return
		}
		Internal(c, "failed to unlock")
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}
