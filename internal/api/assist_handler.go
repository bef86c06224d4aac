package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/1arunjyoti/resume-builder/internal/api/middleware"
	"github.com/1arunjyoti/resume-builder/internal/assist"
	"github.com/1arunjyoti/resume-builder/internal/errcode"
	"github.com/1arunjyoti/resume-builder/internal/settings"
)

const assistTimeout = 60 * time.Second

// AssistHandler 暴露 AI 辅助端点。
// 每个端点都要先过 EnsureProvider：同意开关 + provider 就绪度。
type AssistHandler struct {
	settings *settings.Service
}

func NewAssistHandler(settingsService *settings.Service) *AssistHandler {
	return &AssistHandler{settings: settingsService}
}

type rewriteRequest struct {
	Text string `json:"text" binding:"required"`
}

type summaryRequest struct {
	Highlights []string `json:"highlights" binding:"required,min=1"`
}

type analyzeRequest struct {
	Text string `json:"text" binding:"required"`
}

// Rewrite 润色一段简历文本。
func (h *AssistHandler) Rewrite(c *gin.Context) {
	var req rewriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	cfg := h.settings.Get()
	text := req.Text
	if cfg.Redaction.StripContactInfo {
		text = assist.StripContactInfo(text)
	}

	h.generate(c, cfg, assist.FeatureRewriting, assist.RewritePrompt(cfg.Tone, text))
}

// Summary 根据经历要点生成个人总结。
func (h *AssistHandler) Summary(c *gin.Context) {
	var req summaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	cfg := h.settings.Get()
	highlights := req.Highlights
	if cfg.Redaction.StripContactInfo {
		redacted := make([]string, 0, len(highlights))
		for _, item := range highlights {
			redacted = append(redacted, assist.StripContactInfo(item))
		}
		highlights = redacted
	}

	h.generate(c, cfg, assist.FeatureGeneration, assist.SummaryPrompt(cfg.Tone, highlights))
}

// Analyze 返回对简历文本的改进建议。
func (h *AssistHandler) Analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	cfg := h.settings.Get()
	text := req.Text
	if cfg.Redaction.StripContactInfo {
		text = assist.StripContactInfo(text)
	}

	h.generate(c, cfg, assist.FeatureAnalysis, assist.AnalysisPrompt(cfg.Tone, text))
}

func (h *AssistHandler) generate(c *gin.Context, cfg settings.AssistSettings, feature assist.Feature, req assist.Request) {
	provider, err := assist.EnsureProvider(cfg, feature)
	if err != nil {
		switch {
		case errors.Is(err, assist.ErrConsentRequired):
			c.JSON(http.StatusForbidden, gin.H{
				"code":  errcode.ConsentRequired,
				"error": err.Error(),
			})
		case errors.Is(err, assist.ErrNotConfigured):
			Conflict(c, err.Error())
		default:
			Internal(c, "failed to resolve provider")
		}
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), assistTimeout)
	defer cancel()

	text, err := provider.GenerateText(ctx, req)
	if err != nil {
		middleware.LoggerFromContext(c).Error("assist generation failed",
			slog.String("provider", provider.ID()),
			slog.String("feature", string(feature)),
			slog.Any("error", err),
		)
		Error(c, http.StatusBadGateway, "provider request failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"provider": provider.ID(),
		"text":     text,
	})
}
