package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/1arunjyoti/resume-builder/internal/resume"
	"github.com/1arunjyoti/resume-builder/internal/template"
)

var (
	ErrResumeNotFound  = errors.New("resume not found")
	ErrSettingNotFound = errors.New("setting not found")
)

// Repo 是简历与设置两张表的持久化适配器。
// 写入在单条 upsert 内完成，读端要么看到旧值要么看到新值。
type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

// GetResume 按 id 读取并解码完整文档。
// 布局配置在此处补全：存储里缺失的选项回填模板默认值（见 template.CompleteSettings）。
func (r *Repo) GetResume(ctx context.Context, id string) (resume.Resume, error) {
	var rec ResumeRecord
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return resume.Resume{}, ErrResumeNotFound
		}
		return resume.Resume{}, fmt.Errorf("query resume %q: %w", id, err)
	}
	return decodeRecord(rec)
}

// GetResumeRecord 返回原始行记录，供导出流水线读取对象键等数据库侧字段。
func (r *Repo) GetResumeRecord(ctx context.Context, id string) (ResumeRecord, error) {
	var rec ResumeRecord
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ResumeRecord{}, ErrResumeNotFound
		}
		return ResumeRecord{}, fmt.Errorf("query resume record %q: %w", id, err)
	}
	return rec, nil
}

// PutResume 插入或覆盖一条简历记录。
func (r *Repo) PutResume(ctx context.Context, doc resume.Resume) error {
	content, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode resume %q: %w", doc.ID, err)
	}

	rec := ResumeRecord{
		ID:           doc.ID,
		Title:        doc.Meta.Title,
		TemplateID:   doc.Meta.TemplateID,
		LastModified: doc.Meta.LastModified,
		Content:      datatypes.JSON(content),
	}

	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "template_id", "last_modified", "content", "updated_at",
		}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("upsert resume %q: %w", doc.ID, err)
	}
	return nil
}

// DeleteResume 删除指定简历；不存在视为成功（幂等）。
func (r *Repo) DeleteResume(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Delete(&ResumeRecord{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("delete resume %q: %w", id, err)
	}
	return nil
}

// ListResumes 返回所有简历，按 last_modified 降序（最近修改在前）。
func (r *Repo) ListResumes(ctx context.Context) ([]resume.Resume, error) {
	var recs []ResumeRecord
	if err := r.db.WithContext(ctx).
		Order("last_modified DESC").
		Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list resumes: %w", err)
	}

	docs := make([]resume.Resume, 0, len(recs))
	for _, rec := range recs {
		doc, err := decodeRecord(rec)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// UpdateExportResult 记录 worker 产出的 PDF/预览对象信息。
func (r *Repo) UpdateExportResult(ctx context.Context, id string, fields map[string]any) error {
	if err := r.db.WithContext(ctx).
		Model(&ResumeRecord{}).
		Where("id = ?", id).
		Updates(fields).Error; err != nil {
		return fmt.Errorf("update export result for %q: %w", id, err)
	}
	return nil
}

// GetSetting 读取命名设置的原始 JSON。
func (r *Repo) GetSetting(ctx context.Context, name string) ([]byte, error) {
	var rec SettingRecord
	if err := r.db.WithContext(ctx).First(&rec, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSettingNotFound
		}
		return nil, fmt.Errorf("query setting %q: %w", name, err)
	}
	return []byte(rec.Value), nil
}

// PutSetting 插入或覆盖命名设置。
func (r *Repo) PutSetting(ctx context.Context, name string, value []byte) error {
	rec := SettingRecord{
		Name:      name,
		Value:     datatypes.JSON(value),
		UpdatedAt: time.Now(),
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("upsert setting %q: %w", name, err)
	}
	return nil
}

// CreateAsset 登记一条已上传的资产。
func (r *Repo) CreateAsset(ctx context.Context, asset Asset) error {
	if err := r.db.WithContext(ctx).Create(&asset).Error; err != nil {
		return fmt.Errorf("create asset %q: %w", asset.ObjectKey, err)
	}
	return nil
}

// CountAssets 返回已登记的资产数量。
func (r *Repo) CountAssets(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&Asset{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count assets: %w", err)
	}
	return count, nil
}

// DeleteAsset 按对象键删除登记；不存在视为成功。
func (r *Repo) DeleteAsset(ctx context.Context, objectKey string) error {
	if err := r.db.WithContext(ctx).Delete(&Asset{}, "object_key = ?", objectKey).Error; err != nil {
		return fmt.Errorf("delete asset %q: %w", objectKey, err)
	}
	return nil
}

// decodeRecord 解码 Content 并补全布局配置。
// 单独再解一次 raw layout_settings，是为了区分「键缺失」与「显式写入的零值」。
func decodeRecord(rec ResumeRecord) (resume.Resume, error) {
	var doc resume.Resume
	if err := json.Unmarshal(rec.Content, &doc); err != nil {
		return resume.Resume{}, fmt.Errorf("decode resume %q: %w", rec.ID, err)
	}

	var shell struct {
		Meta struct {
			LayoutSettings json.RawMessage `json:"layout_settings"`
		} `json:"meta"`
	}
	if err := json.Unmarshal(rec.Content, &shell); err != nil {
		return resume.Resume{}, fmt.Errorf("decode resume meta %q: %w", rec.ID, err)
	}

	settings, err := template.CompleteSettings(doc.Meta.TemplateID, shell.Meta.LayoutSettings)
	if err != nil {
		return resume.Resume{}, fmt.Errorf("complete layout settings for %q: %w", rec.ID, err)
	}
	doc.Meta.LayoutSettings = settings
	doc.ID = rec.ID
	return doc, nil
}
