package template

import (
	"encoding/json"
	"log/slog"
	"sort"

	"github.com/1arunjyoti/resume-builder/internal/resume"
)

// KnownTemplateIDs 返回闭集内的模板 id（字典序，便于展示与测试）。
func KnownTemplateIDs() []string {
	defs := definitions()
	ids := make([]string, 0, len(defs))
	for id := range defs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// IsKnown 报告 id 是否属于闭集。
func IsKnown(id string) bool {
	_, ok := definitions()[id]
	return ok
}

// ResolveDefaults 返回模板的完整 LayoutSettings。
// 未知 id 静默回落到默认模板 —— 这是设计选择而非错误，只记 debug 日志。
// 纯函数：相同输入总是得到相等的独立副本。
func ResolveDefaults(templateID string) resume.LayoutSettings {
	def, ok := definitions()[templateID]
	if !ok {
		slog.Debug("unknown template id, falling back to default",
			slog.String("template_id", templateID),
			slog.String("fallback", DefaultTemplateID),
		)
		def = definitions()[DefaultTemplateID]
	}
	return def.settings.Clone()
}

// ResolveThemeColor 返回模板的主题色，未知 id 同样回落。
func ResolveThemeColor(templateID string) string {
	def, ok := definitions()[templateID]
	if !ok {
		def = definitions()[DefaultTemplateID]
	}
	return def.themeColor
}

// CompleteSettings 在加载时把持久化的配置补全成完整对象：
// 先取模板默认值，再把存储的 JSON 覆盖解码上去。存储中缺失的键保留默认，
// 显式写入的 false/0 会按原样覆盖。补全发生在解析期，渲染端不再兜底。
func CompleteSettings(templateID string, stored []byte) (resume.LayoutSettings, error) {
	settings := ResolveDefaults(templateID)
	if len(stored) == 0 {
		return settings, nil
	}
	if err := json.Unmarshal(stored, &settings); err != nil {
		return resume.LayoutSettings{}, err
	}
	if len(settings.SectionOrder) == 0 {
		settings.SectionOrder = append([]string(nil), resume.SectionKinds...)
	}
	return settings, nil
}
