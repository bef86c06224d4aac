package api

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/1arunjyoti/resume-builder/internal/database"
	"github.com/1arunjyoti/resume-builder/internal/errcode"
	"github.com/1arunjyoti/resume-builder/internal/resume"
	"github.com/1arunjyoti/resume-builder/internal/storage"
)

type PrintWarning struct {
	Code        int      `json:"code"`
	Message     string   `json:"message"`
	MissingKeys []string `json:"missing_keys,omitempty"`
}

// PrintData 是 worker 注入到打印页的 JSON 数据结构。
// 照片以 data URI 内联，打印页无需访问对象存储；warnings 为可选附加字段。
type PrintData struct {
	Resume       resume.Resume  `json:"resume"`
	PhotoDataURI string         `json:"photo_data_uri,omitempty"`
	Warnings     []PrintWarning `json:"warnings,omitempty"`
}

// BuildPrintData 构造打印数据并内联照片。
// 约定：
// - 照片对象不存在(NoSuchKey) => 清掉 photo_key，记录 warning(4004)，照常生成
// - Bucket 不存在(NoSuchBucket) => 视为系统错误，直接返回 error
func BuildPrintData(ctx context.Context, storageClient *storage.Client, doc resume.Resume) (PrintData, error) {
	data := PrintData{Resume: doc}

	photoKey := strings.TrimSpace(doc.Basics.PhotoKey)
	if photoKey == "" {
		return data, nil
	}

	dropPhoto := func(reason string) {
		data.Resume.Basics.PhotoKey = ""
		data.Warnings = append(data.Warnings, PrintWarning{
			Code:        errcode.ResourceMissing,
			Message:     reason,
			MissingKeys: []string{photoKey},
		})
	}

	if !isValidAssetObjectKey(photoKey) {
		dropPhoto("照片对象键格式不合法，已跳过并继续生成")
		return data, nil
	}

	obj, err := storageClient.GetObject(ctx, photoKey)
	if err != nil {
		if storage.IsNoSuchBucket(err) {
			return PrintData{}, fmt.Errorf("minio bucket does not exist: %w", err)
		}
		if storage.IsNoSuchKey(err) {
			dropPhoto("照片资源缺失，已跳过并继续生成")
			return data, nil
		}
		return PrintData{}, fmt.Errorf("failed to fetch photo: %w", err)
	}

	stat, statErr := obj.Stat()
	if statErr != nil {
		_ = obj.Close()
		if storage.IsNoSuchBucket(statErr) {
			return PrintData{}, fmt.Errorf("minio bucket does not exist: %w", statErr)
		}
		if storage.IsNoSuchKey(statErr) {
			dropPhoto("照片资源缺失，已跳过并继续生成")
			return data, nil
		}
		return PrintData{}, fmt.Errorf("failed to stat photo: %w", statErr)
	}

	contentType := "image/png"
	if strings.TrimSpace(stat.ContentType) != "" {
		contentType = stat.ContentType
	}

	photoBytes, readErr := io.ReadAll(obj)
	_ = obj.Close()
	if readErr != nil {
		if storage.IsNoSuchBucket(readErr) {
			return PrintData{}, fmt.Errorf("minio bucket does not exist: %w", readErr)
		}
		if storage.IsNoSuchKey(readErr) {
			dropPhoto("照片资源缺失，已跳过并继续生成")
			return data, nil
		}
		return PrintData{}, fmt.Errorf("failed to read photo: %w", readErr)
	}

	data.PhotoDataURI = fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(photoBytes))
	return data, nil
}

// GetPrintResumeData 返回渲染 PDF 所需的 JSON 数据，仅限 worker 通过内部密钥访问。
func (h *ResumeHandler) GetPrintResumeData(c *gin.Context) {
	doc, err := h.repo.GetResume(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, database.ErrResumeNotFound) {
			NotFound(c, "resume not found")
			return
		}
		Internal(c, "failed to load resume")
		return
	}

	data, err := BuildPrintData(c.Request.Context(), h.storage, doc)
	if err != nil {
		Internal(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, data)
}
