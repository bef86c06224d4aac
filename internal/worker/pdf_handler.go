package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/1arunjyoti/resume-builder/internal/database"
	"github.com/1arunjyoti/resume-builder/internal/errcode"
	"github.com/1arunjyoti/resume-builder/internal/storage"
	"github.com/1arunjyoti/resume-builder/internal/tasks"
)

// PDFTaskHandler 负责消费 PDF 导出任务。
type PDFTaskHandler struct {
	repo               *database.Repo
	storage            *storage.Client
	redisClient        *redis.Client
	logger             *slog.Logger
	internalSecret     string
	internalAPIBaseURL string
	frontendBaseURL    string
}

// NewPDFTaskHandler 创建任务处理器。
func NewPDFTaskHandler(
	repo *database.Repo,
	storage *storage.Client,
	redisClient *redis.Client,
	logger *slog.Logger,
	internalSecret string,
	internalAPIBaseURL string,
	frontendBaseURL string,
) *PDFTaskHandler {
	return &PDFTaskHandler{
		repo:               repo,
		storage:            storage,
		redisClient:        redisClient,
		logger:             logger,
		internalSecret:     internalSecret,
		internalAPIBaseURL: strings.TrimRight(strings.TrimSpace(internalAPIBaseURL), "/"),
		frontendBaseURL:    strings.TrimRight(strings.TrimSpace(frontendBaseURL), "/"),
	}
}

// ProcessTask 实现 asynq.Handler。
func (h *PDFTaskHandler) ProcessTask(ctx context.Context, t *asynq.Task) (retErr error) {
	log := h.logger

	var payload tasks.PDFExportPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		log.Error("unmarshal task payload failed", slog.Any("error", err))
		return err
	}

	log = log.With(
		slog.String("correlation_id", payload.CorrelationID),
		slog.String("resume_id", payload.ResumeID),
	)
	log.Info("Starting WYSIWYG PDF export task...")

	rec, err := h.repo.GetResumeRecord(ctx, payload.ResumeID)
	if err != nil {
		if errors.Is(err, database.ErrResumeNotFound) {
			log.Warn("resume not found, skipping task")
			return nil
		}
		log.Error("query resume failed", slog.Any("error", err))
		return err
	}

	defer func() {
		if retErr == nil {
			return
		}
		if !isFinalAsynqAttempt(ctx) {
			return
		}

		notify := PDFExportNotifyMessage{
			Status:        "error",
			ResumeID:      rec.ID,
			CorrelationID: payload.CorrelationID,
			ErrorCode:     errcode.SystemError,
			ErrorMessage:  strings.TrimSpace(retErr.Error()),
		}
		if err := h.publishExportNotify(ctx, notify); err != nil {
			log.Error("publish pdf error notification failed", slog.Any("error", err))
		}
	}()

	pdfBytes, page, cleanup, missingKeys, resourceMissing, err := h.generatePDFFromFrontend(ctx, rec.ID)
	if err != nil {
		log.Error("generate pdf via frontend failed", slog.Any("error", err))
		return err
	}
	defer cleanup()

	objectName := fmt.Sprintf("exports/%s/%s.pdf", rec.ID, uuid.NewString())
	pdfReader := bytes.NewReader(pdfBytes)
	if _, err := h.storage.UploadFile(ctx, objectName, pdfReader, int64(len(pdfBytes)), "application/pdf"); err != nil {
		log.Error("upload pdf to minio failed", slog.Any("error", err))
		return err
	}

	update := map[string]any{
		"pdf_object_key": objectName,
		"status":         "completed",
	}
	if err := h.repo.UpdateExportResult(ctx, rec.ID, update); err != nil {
		log.Error("update resume failed", slog.Any("error", err))
		return err
	}

	notify := PDFExportNotifyMessage{
		Status:        "completed",
		ResumeID:      rec.ID,
		CorrelationID: payload.CorrelationID,
		ErrorCode:     errcode.OK,
		ErrorMessage:  "",
	}
	if resourceMissing {
		notify.ErrorCode = errcode.ResourceMissing
		notify.ErrorMessage = "部分图片资源缺失/无效，已自动跳过并继续生成"
		notify.MissingKeys = missingKeys
		log.Warn("pdf generated with missing assets",
			slog.Int("missing_count", len(missingKeys)),
			slog.Any("missing_keys", missingKeys),
		)
	}
	if err := h.publishExportNotify(ctx, notify); err != nil {
		log.Error("publish redis notification failed", slog.Any("error", err))
		return err
	}

	if err := h.generatePreviewImage(ctx, rec.ID, page); err != nil {
		log.Warn("generate resume preview failed", slog.Any("error", err))
	}

	log.Info("PDF export task completed successfully.")
	return nil
}

func (h *PDFTaskHandler) publishExportNotify(ctx context.Context, notify PDFExportNotifyMessage) error {
	data, err := json.Marshal(notify)
	if err != nil {
		return fmt.Errorf("marshal notification payload: %w", err)
	}
	if err := h.redisClient.Publish(ctx, notifyChannel, data).Err(); err != nil {
		return fmt.Errorf("publish redis notification to %q: %w", notifyChannel, err)
	}
	return nil
}

func isFinalAsynqAttempt(ctx context.Context) bool {
	retryCount, ok1 := asynq.GetRetryCount(ctx)
	maxRetry, ok2 := asynq.GetMaxRetry(ctx)
	if !ok1 || !ok2 {
		return false
	}
	return retryCount >= maxRetry
}

type printDataWarning struct {
	Code        int      `json:"code"`
	Message     string   `json:"message"`
	MissingKeys []string `json:"missing_keys"`
}

type printDataShell struct {
	Warnings []printDataWarning `json:"warnings"`
}

func extractResourceMissingWarning(printData []byte) (missingKeys []string, hasWarning bool) {
	var shell printDataShell
	if err := json.Unmarshal(printData, &shell); err != nil {
		return nil, false
	}
	uniq := make(map[string]struct{})
	var result []string
	for _, w := range shell.Warnings {
		if w.Code != errcode.ResourceMissing {
			continue
		}
		hasWarning = true
		for _, k := range w.MissingKeys {
			key := strings.TrimSpace(k)
			if key == "" {
				continue
			}
			if _, ok := uniq[key]; ok {
				continue
			}
			uniq[key] = struct{}{}
			result = append(result, key)
		}
	}
	return result, hasWarning
}

func (h *PDFTaskHandler) generatePDFFromFrontend(ctx context.Context, resumeID string) (_ []byte, page *rod.Page, cleanup func(), missingKeys []string, resourceMissing bool, err error) {
	cleanup = func() {}
	defer func() {
		if err != nil {
			cleanup()
		}
	}()

	printData, err := fetchInternalPrintData(ctx, h.internalAPIBaseURL, resumeID, h.internalSecret)
	if err != nil {
		return nil, nil, cleanup, nil, false, err
	}
	missingKeys, resourceMissing = extractResourceMissingWarning(printData)

	targetURL := fmt.Sprintf("%s/print/%s", h.frontendBaseURL, resumeID)

	injectionScript := buildPrintDataInjectionScript(printData)
	page, cleanup, err = renderFrontendPage(h.logger, targetURL, injectionScript)
	if err != nil {
		return nil, nil, cleanup, missingKeys, resourceMissing, err
	}

	data, err := exportPDF(page)
	if err != nil {
		return nil, nil, cleanup, missingKeys, resourceMissing, err
	}

	return data, page, cleanup, missingKeys, resourceMissing, nil
}

func (h *PDFTaskHandler) generatePreviewImage(ctx context.Context, resumeID string, page *rod.Page) error {
	const (
		previewQuality = 80
		presignTTL     = 7 * 24 * time.Hour
	)

	previewBytes, err := capturePreparedScreenshot(page, previewQuality)
	if err != nil {
		return fmt.Errorf("capture preview screenshot: %w", err)
	}

	objectName := fmt.Sprintf("previews/%s/preview.jpg", resumeID)
	reader := bytes.NewReader(previewBytes)
	if _, err := h.storage.UploadFile(ctx, objectName, reader, int64(len(previewBytes)), "image/jpeg"); err != nil {
		return fmt.Errorf("upload preview image: %w", err)
	}

	presignedURL, err := h.storage.GeneratePresignedURL(ctx, objectName, presignTTL)
	if err != nil {
		return fmt.Errorf("generate preview presigned url: %w", err)
	}

	if err := h.repo.UpdateExportResult(ctx, resumeID, map[string]any{
		"preview_image_url":  presignedURL,
		"preview_object_key": objectName,
	}); err != nil {
		return fmt.Errorf("update resume preview url: %w", err)
	}

	return nil
}
