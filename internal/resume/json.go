package resume

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ExportDocument 将简历编码为备份文件内容（带缩进，便于用户检查）。
func ExportDocument(r Resume) ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode resume document: %w", err)
	}
	return data, nil
}

var ErrInvalidDocument = errors.New("invalid resume document")

// ImportDocument 解析用户上传的备份文件。
// 缺失的 id 会重新生成；列表字段的 nil 统一成空切片，保证导入后的文档
// 与 Empty 构建的文档满足相同的形状约定。
func ImportDocument(data []byte) (Resume, error) {
	var r Resume
	if err := json.Unmarshal(data, &r); err != nil {
		return Resume{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if strings.TrimSpace(r.Meta.Title) == "" {
		return Resume{}, fmt.Errorf("%w: missing meta.title", ErrInvalidDocument)
	}
	if strings.TrimSpace(r.ID) == "" {
		r.ID = NewID()
	}
	normalizeLists(&r)
	return r, nil
}

func normalizeLists(r *Resume) {
	if r.Basics.Profiles == nil {
		r.Basics.Profiles = []SocialProfile{}
	}
	if r.Work == nil {
		r.Work = []Work{}
	}
	if r.Education == nil {
		r.Education = []Education{}
	}
	if r.Skills == nil {
		r.Skills = []Skill{}
	}
	if r.Projects == nil {
		r.Projects = []Project{}
	}
	if r.Certificates == nil {
		r.Certificates = []Certificate{}
	}
	if r.Publications == nil {
		r.Publications = []Publication{}
	}
	if r.Awards == nil {
		r.Awards = []Award{}
	}
	if r.Languages == nil {
		r.Languages = []Language{}
	}
	if r.Interests == nil {
		r.Interests = []Interest{}
	}
	if r.References == nil {
		r.References = []Reference{}
	}
	if r.Custom == nil {
		r.Custom = []Custom{}
	}
}
