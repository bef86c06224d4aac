package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/dutchcoders/go-clamd"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/1arunjyoti/resume-builder/internal/config"
	"github.com/1arunjyoti/resume-builder/internal/database"
	"github.com/1arunjyoti/resume-builder/internal/storage"
)

// 允许的照片类型。照片只用于打印页内联，不需要支持动图或矢量格式。
var allowedAssetMimeTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
}

// AssetHandler 负责处理照片等资产的上传与访问。
type AssetHandler struct {
	Storage     *storage.Client
	Repo        *database.Repo
	Logger      *slog.Logger
	RedisClient *redis.Client
	Limits      config.AssetsConfig
}

// NewAssetHandler 返回 AssetHandler 实例。
func NewAssetHandler(storageClient *storage.Client, repo *database.Repo, logger *slog.Logger, redisClient *redis.Client, limits config.AssetsConfig) *AssetHandler {
	return &AssetHandler{
		Storage:     storageClient,
		Repo:        repo,
		Logger:      logger,
		RedisClient: redisClient,
		Limits:      limits,
	}
}

// UploadAsset 处理照片上传：限额检查、病毒扫描、落对象存储并登记数据库。
func (h *AssetHandler) UploadAsset(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, "missing file")
		return
	}

	if h.Limits.MaxUploadBytes > 0 && file.Size > h.Limits.MaxUploadBytes {
		Error(c, http.StatusRequestEntityTooLarge, "file too large")
		return
	}

	contentType := file.Header.Get("Content-Type")
	ext, ok := allowedAssetMimeTypes[strings.ToLower(strings.TrimSpace(contentType))]
	if !ok {
		BadRequest(c, "unsupported file type")
		return
	}

	ctx := c.Request.Context()

	if h.Limits.MaxUploadsPerDay > 0 && h.RedisClient != nil {
		key := fmt.Sprintf("assets:uploads:%s", time.Now().Format("2006-01-02"))
		count, err := incrWithTTL(ctx, h.RedisClient, key, 24*time.Hour)
		if err != nil {
			h.Logger.Warn("asset rate counter unavailable", slog.Any("error", err))
		} else if count > int64(h.Limits.MaxUploadsPerDay) {
			Error(c, http.StatusTooManyRequests, "daily upload limit reached")
			return
		}
	}

	if h.Limits.MaxAssets > 0 {
		count, err := h.Repo.CountAssets(ctx)
		if err != nil {
			Internal(c, "failed to count assets")
			return
		}
		if count >= int64(h.Limits.MaxAssets) {
			Forbidden(c, "asset limit reached")
			return
		}
	}

	if h.Limits.ClamdAddr != "" {
		clamdClient := clamd.NewClamd(h.Limits.ClamdAddr)

		fileReader, err := file.Open()
		if err != nil {
			Internal(c, "failed to open file")
			return
		}

		abortChan := make(chan bool)
		scanChan, err := clamdClient.ScanStream(fileReader, abortChan)
		fileReader.Close()
		if err != nil {
			h.Logger.Error("scan file", slog.String("error", err.Error()))
			Internal(c, "failed to scan file")
			return
		}
		defer close(abortChan)

		for result := range scanChan {
			if result.Status != clamd.RES_OK {
				BadRequest(c, "malicious file detected")
				return
			}
		}
	}

	fileReader, err := file.Open()
	if err != nil {
		Internal(c, "failed to reopen file")
		return
	}
	defer fileReader.Close()

	objectKey := fmt.Sprintf("%s%s%s", assetKeyPrefix, uuid.NewString(), ext)
	if _, err := h.Storage.UploadFile(ctx, objectKey, fileReader, file.Size, contentType); err != nil {
		h.Logger.Error("upload file", slog.String("error", err.Error()))
		Internal(c, "failed to upload file")
		return
	}

	if err := h.Repo.CreateAsset(ctx, database.Asset{
		ObjectKey: objectKey,
		SizeBytes: file.Size,
		MimeType:  contentType,
	}); err != nil {
		h.Logger.Error("register asset", slog.String("error", err.Error()))
		Internal(c, "failed to register asset")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"objectKey": objectKey})
}

// ListAssets 列出已上传的资产。
func (h *AssetHandler) ListAssets(c *gin.Context) {
	limit := 60
	objects, err := h.Storage.ListObjects(c.Request.Context(), assetKeyPrefix, limit)
	if err != nil {
		h.Logger.Error("list assets", slog.String("error", err.Error()))
		Internal(c, "failed to list assets")
		return
	}

	sort.Slice(objects, func(i, j int) bool {
		return objects[i].LastModified.After(objects[j].LastModified)
	})

	items := make([]gin.H, 0, len(objects))
	for _, obj := range objects {
		url, err := h.Storage.GeneratePresignedURL(c.Request.Context(), obj.Key, 10*time.Minute)
		if err != nil {
			h.Logger.Error("generate asset url", slog.String("objectKey", obj.Key), slog.String("error", err.Error()))
			continue
		}
		items = append(items, gin.H{
			"objectKey":    obj.Key,
			"previewUrl":   url,
			"size":         obj.Size,
			"lastModified": obj.LastModified,
		})
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GetAssetURL 返回资产的临时预签名 URL。
func (h *AssetHandler) GetAssetURL(c *gin.Context) {
	objectKey := c.Query("key")
	if objectKey == "" {
		BadRequest(c, "missing key")
		return
	}
	if !isValidAssetObjectKey(objectKey) {
		Forbidden(c, "access denied")
		return
	}

	signedURL, err := h.Storage.GeneratePresignedURL(c.Request.Context(), objectKey, 15*time.Minute)
	if err != nil {
		h.Logger.Error("generate presigned url", slog.String("error", err.Error()))
		Internal(c, "failed to generate url")
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": signedURL})
}

// DeleteAsset 删除资产对象与登记记录。
func (h *AssetHandler) DeleteAsset(c *gin.Context) {
	objectKey := c.Query("key")
	if !isValidAssetObjectKey(objectKey) {
		Forbidden(c, "access denied")
		return
	}

	ctx := c.Request.Context()
	if err := h.Storage.DeleteObject(ctx, objectKey); err != nil {
		h.Logger.Error("delete asset object", slog.String("objectKey", objectKey), slog.String("error", err.Error()))
		Internal(c, "failed to delete asset")
		return
	}
	if err := h.Repo.DeleteAsset(ctx, objectKey); err != nil {
		h.Logger.Error("delete asset record", slog.String("objectKey", objectKey), slog.String("error", err.Error()))
		Internal(c, "failed to delete asset record")
		return
	}

	c.Status(http.StatusNoContent)
}
