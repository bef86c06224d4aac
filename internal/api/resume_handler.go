package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"

	"github.com/1arunjyoti/resume-builder/internal/api/middleware"
	"github.com/1arunjyoti/resume-builder/internal/database"
	"github.com/1arunjyoti/resume-builder/internal/resume"
	"github.com/1arunjyoti/resume-builder/internal/storage"
	"github.com/1arunjyoti/resume-builder/internal/store"
	"github.com/1arunjyoti/resume-builder/internal/tasks"
)

// ResumeHandler 把简历 Store 暴露为 HTTP API。
// 所有编辑语义（当前简历、错误状态、时间戳）都由 Store 决定，这里只做协议转换。
type ResumeHandler struct {
	store       *store.Store
	repo        *database.Repo
	asynqClient *asynq.Client
	storage     *storage.Client
}

// NewResumeHandler 构造 ResumeHandler。
func NewResumeHandler(st *store.Store, repo *database.Repo, asynqClient *asynq.Client, storageClient *storage.Client) *ResumeHandler {
	return &ResumeHandler{
		store:       st,
		repo:        repo,
		asynqClient: asynqClient,
		storage:     storageClient,
	}
}

type createResumeRequest struct {
	Title      string `json:"title"`
	TemplateID string `json:"template_id"`
}

type resumeListItem struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	TemplateID   string    `json:"template_id"`
	LastModified time.Time `json:"last_modified"`
}

type currentResumeResponse struct {
	Resume  *resume.Resume `json:"resume"`
	Error   string         `json:"error,omitempty"`
	Loading bool           `json:"loading"`
}

func (h *ResumeHandler) currentResponse() currentResumeResponse {
	resp := currentResumeResponse{
		Error:   h.store.Err(),
		Loading: h.store.Loading(),
	}
	if doc, ok := h.store.Current(); ok {
		resp.Resume = &doc
	}
	return resp
}

// GetCurrentResume 返回编辑器状态：当前简历（可能为 null）、错误信息与加载标记。
func (h *ResumeHandler) GetCurrentResume(c *gin.Context) {
	c.JSON(http.StatusOK, h.currentResponse())
}

// CreateResume 新建一份空白简历并设为当前。
func (h *ResumeHandler) CreateResume(c *gin.Context) {
	var req createResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	doc, err := h.store.CreateNewResume(c.Request.Context(), req.Title, req.TemplateID)
	if err != nil {
		Internal(c, "failed to create resume")
		return
	}

	c.JSON(http.StatusCreated, doc)
}

// ListResumes 列出全部简历摘要，按最近修改排序。
// 持久层失败时 Store 返回空列表并携带错误状态，响应码仍是 200。
func (h *ResumeHandler) ListResumes(c *gin.Context) {
	docs := h.store.GetAllResumes(c.Request.Context())

	items := make([]resumeListItem, 0, len(docs))
	for _, doc := range docs {
		items = append(items, resumeListItem{
			ID:           doc.ID,
			Title:        doc.Meta.Title,
			TemplateID:   doc.Meta.TemplateID,
			LastModified: doc.Meta.LastModified,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"error": h.store.Err(),
	})
}

// LoadResume 把指定简历载入编辑器。
func (h *ResumeHandler) LoadResume(c *gin.Context) {
	err := h.store.LoadResume(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, database.ErrResumeNotFound) {
			NotFound(c, "resume not found")
			return
		}
		Internal(c, "failed to load resume")
		return
	}

	c.JSON(http.StatusOK, h.currentResponse())
}

// UpdateCurrentResume 把部分更新合并进当前简历（仅内存，不落库）。
func (h *ResumeHandler) UpdateCurrentResume(c *gin.Context) {
	var patch resume.ResumePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		BadRequest(c, err.Error())
		return
	}

	if _, ok := h.store.Current(); !ok {
		Conflict(c, "no resume is loaded")
		return
	}

	h.store.UpdateCurrentResume(patch)
	c.JSON(http.StatusOK, h.currentResponse())
}

// SaveCurrentResume 把当前简历写穿到持久层。
func (h *ResumeHandler) SaveCurrentResume(c *gin.Context) {
	doc, ok := h.store.Current()
	if !ok {
		Conflict(c, "no resume is loaded")
		return
	}

	if err := h.store.SaveResume(c.Request.Context(), doc); err != nil {
		Internal(c, "failed to save resume")
		return
	}

	c.JSON(http.StatusOK, h.currentResponse())
}

// ResetCurrentResume 把当前简历的布局与主题色恢复为其模板默认值。
func (h *ResumeHandler) ResetCurrentResume(c *gin.Context) {
	if _, ok := h.store.Current(); !ok {
		Conflict(c, "no resume is loaded")
		return
	}

	h.store.ResetResume()
	c.JSON(http.StatusOK, h.currentResponse())
}

// DeleteResume 删除指定简历。删除当前简历会清空编辑器。
func (h *ResumeHandler) DeleteResume(c *gin.Context) {
	if err := h.store.DeleteResume(c.Request.Context(), c.Param("id")); err != nil {
		Internal(c, "failed to delete resume")
		return
	}
	c.Status(http.StatusNoContent)
}

// ExportCurrentResume 把当前简历作为 JSON 备份文件下载。
func (h *ResumeHandler) ExportCurrentResume(c *gin.Context) {
	doc, ok := h.store.Current()
	if !ok {
		Conflict(c, "no resume is loaded")
		return
	}

	data, err := resume.ExportDocument(doc)
	if err != nil {
		Internal(c, "failed to encode resume")
		return
	}

	filename := fmt.Sprintf("resume-%s.json", doc.ID)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/json", data)
}

// ImportResume 解析上传的 JSON 备份，持久化后设为当前简历。
func (h *ResumeHandler) ImportResume(c *gin.Context) {
	data, err := c.GetRawData()
	if err != nil {
		BadRequest(c, "failed to read body")
		return
	}

	doc, err := resume.ImportDocument(data)
	if err != nil {
		if errors.Is(err, resume.ErrInvalidDocument) {
			BadRequest(c, err.Error())
			return
		}
		Internal(c, "failed to import resume")
		return
	}

	if err := h.store.SaveResume(c.Request.Context(), doc); err != nil {
		Internal(c, "failed to persist imported resume")
		return
	}

	c.JSON(http.StatusCreated, h.currentResponse())
}

// DownloadResume 将 PDF 导出任务入队并立即返回 202。
func (h *ResumeHandler) DownloadResume(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.repo.GetResumeRecord(c.Request.Context(), id); err != nil {
		if errors.Is(err, database.ErrResumeNotFound) {
			NotFound(c, "resume not found")
			return
		}
		Internal(c, "failed to query resume")
		return
	}

	correlationID := middleware.GetCorrelationID(c)
	task, err := tasks.NewPDFExportTask(id, correlationID)
	if err != nil {
		Internal(c, "failed to create task")
		return
	}

	info, err := h.asynqClient.Enqueue(task, asynq.MaxRetry(5))
	if err != nil {
		Internal(c, "failed to enqueue pdf export")
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"message": "PDF export request accepted",
		"task_id": info.ID,
	})
}

// GetDownloadLink 生成简历 PDF 的预签名下载链接。
func (h *ResumeHandler) GetDownloadLink(c *gin.Context) {
	rec, err := h.repo.GetResumeRecord(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, database.ErrResumeNotFound) {
			NotFound(c, "resume not found")
			return
		}
		Internal(c, "failed to query resume")
		return
	}

	if rec.PdfObjectKey == "" {
		Conflict(c, "pdf not ready")
		return
	}

	signedURL, err := h.storage.GeneratePresignedURL(c.Request.Context(), rec.PdfObjectKey, 5*time.Minute)
	if err != nil {
		Internal(c, "failed to generate download link")
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": signedURL})
}
