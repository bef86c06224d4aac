package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/1arunjyoti/resume-builder/internal/settings"
)

// SettingsHandler 读写助手设置。
// API Key 只写不读：响应里永远不回显 Key 本身，只回显「是否已配置」。
type SettingsHandler struct {
	service *settings.Service
}

func NewSettingsHandler(service *settings.Service) *SettingsHandler {
	return &SettingsHandler{service: service}
}

type assistSettingsResponse struct {
	ProviderID    string                `json:"provider_id"`
	KeysPresent   map[string]bool       `json:"keys_present"`
	SessionOnly   bool                  `json:"session_only"`
	Consent       settings.ConsentFlags `json:"consent"`
	Redaction     settings.Redaction    `json:"redaction"`
	Tone          string                `json:"tone"`
	LocalEndpoint string                `json:"local_endpoint"`
	LocalModel    string                `json:"local_model"`
	LocalAPIType  string                `json:"local_api_type"`
}

func newAssistSettingsResponse(cfg settings.AssistSettings) assistSettingsResponse {
	present := make(map[string]bool, len(cfg.APIKeys))
	for provider, key := range cfg.APIKeys {
		present[provider] = key != ""
	}
	return assistSettingsResponse{
		ProviderID:    cfg.ProviderID,
		KeysPresent:   present,
		SessionOnly:   cfg.SessionOnly,
		Consent:       cfg.Consent,
		Redaction:     cfg.Redaction,
		Tone:          cfg.Tone,
		LocalEndpoint: cfg.LocalEndpoint,
		LocalModel:    cfg.LocalModel,
		LocalAPIType:  cfg.LocalAPIType,
	}
}

// GetAssistSettings 返回脱敏后的助手设置。
func (h *SettingsHandler) GetAssistSettings(c *gin.Context) {
	c.JSON(http.StatusOK, newAssistSettingsResponse(h.service.Get()))
}

type updateAssistSettingsRequest struct {
	ProviderID    *string                `json:"provider_id"`
	APIKeys       map[string]string      `json:"api_keys"`
	SessionOnly   *bool                  `json:"session_only"`
	Consent       *settings.ConsentFlags `json:"consent"`
	Redaction     *settings.Redaction    `json:"redaction"`
	Tone          *string                `json:"tone"`
	LocalEndpoint *string                `json:"local_endpoint"`
	LocalModel    *string                `json:"local_model"`
	LocalAPIType  *string                `json:"local_api_type"`
}

// UpdateAssistSettings 合并请求里出现的字段。
// api_keys 按 provider 合并：空串表示删除该 Key，未出现的 Key 保持不变。
func (h *SettingsHandler) UpdateAssistSettings(c *gin.Context) {
	var req updateAssistSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	next := h.service.Get()
	if req.ProviderID != nil {
		next.ProviderID = *req.ProviderID
	}
	for provider, key := range req.APIKeys {
		if key == "" {
			delete(next.APIKeys, provider)
			continue
		}
		next.APIKeys[provider] = key
	}
	if req.SessionOnly != nil {
		next.SessionOnly = *req.SessionOnly
	}
	if req.Consent != nil {
		next.Consent = *req.Consent
	}
	if req.Redaction != nil {
		next.Redaction = *req.Redaction
	}
	if req.Tone != nil {
		next.Tone = *req.Tone
	}
	if req.LocalEndpoint != nil {
		next.LocalEndpoint = *req.LocalEndpoint
	}
	if req.LocalModel != nil {
		next.LocalModel = *req.LocalModel
	}
	if req.LocalAPIType != nil {
		next.LocalAPIType = *req.LocalAPIType
	}

	if err := h.service.Update(c.Request.Context(), next); err != nil {
		Internal(c, "failed to update settings")
		return
	}

	c.JSON(http.StatusOK, newAssistSettingsResponse(h.service.Get()))
}
