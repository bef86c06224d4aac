package database

import (
	"time"

	"gorm.io/datatypes"
)

// ResumeRecord 是一份简历的持久化形态。
// Content 保存完整的简历 JSON 文档；Title/TemplateID/LastModified 冗余成列，
// 用于列表查询与按最近修改排序，避免为排序解码 JSON。
type ResumeRecord struct {
	ID               string         `gorm:"primaryKey;size:36"`
	Title            string         `gorm:"size:255"`
	TemplateID       string         `gorm:"size:64"`
	LastModified     time.Time      `gorm:"index"`
	Content          datatypes.JSON `gorm:"type:jsonb"`
	PdfObjectKey     string         `gorm:"size:512"`
	PreviewImageURL  string         `gorm:"size:1024"`
	PreviewObjectKey string         `gorm:"size:512"`
	Status           string         `gorm:"size:32"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// SettingRecord 按固定名字保存一段不透明的设置 JSON（例如 LLM 助手设置、门禁口令哈希）。
type SettingRecord struct {
	Name      string         `gorm:"primaryKey;size:64"`
	Value     datatypes.JSON `gorm:"type:jsonb"`
	UpdatedAt time.Time
}

// Asset 记录用户上传的图片资产（头像等），对象本体在 MinIO。
type Asset struct {
	ID        uint   `gorm:"primaryKey"`
	ObjectKey string `gorm:"uniqueIndex;size:512"`
	SizeBytes int64
	MimeType  string `gorm:"size:64"`
	CreatedAt time.Time
}
