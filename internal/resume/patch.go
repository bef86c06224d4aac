package resume

// ResumePatch 是 Store.UpdateCurrentResume 接受的部分更新。
// 合并深度是明确约定的：顶层字段整块替换（浅合并），仅 Meta 按字段合并一层。
// 例如 Basics 非 nil 时会整体覆盖，包括其中的 Location —— 调用方必须传完整块。
type ResumePatch struct {
	Meta         *MetaPatch     `json:"meta,omitempty"`
	Basics       *Basics        `json:"basics,omitempty"`
	Work         *[]Work        `json:"work,omitempty"`
	Education    *[]Education   `json:"education,omitempty"`
	Skills       *[]Skill       `json:"skills,omitempty"`
	Projects     *[]Project     `json:"projects,omitempty"`
	Certificates *[]Certificate `json:"certificates,omitempty"`
	Publications *[]Publication `json:"publications,omitempty"`
	Awards       *[]Award       `json:"awards,omitempty"`
	Languages    *[]Language    `json:"languages,omitempty"`
	Interests    *[]Interest    `json:"interests,omitempty"`
	References   *[]Reference   `json:"references,omitempty"`
	Custom       *[]Custom      `json:"custom,omitempty"`
}

// MetaPatch 按字段合并进 Meta，避免改 TemplateID 时连带清掉 LayoutSettings。
type MetaPatch struct {
	Title          *string         `json:"title,omitempty"`
	TemplateID     *string         `json:"template_id,omitempty"`
	ThemeColor     *string         `json:"theme_color,omitempty"`
	LayoutSettings *LayoutSettings `json:"layout_settings,omitempty"`
}

// Apply 将补丁合并进 r。LastModified 由调用方（Store）负责刷新。
func (p ResumePatch) Apply(r *Resume) {
	if r == nil {
		return
	}
	if p.Meta != nil {
		p.Meta.apply(&r.Meta)
	}
	if p.Basics != nil {
		r.Basics = *p.Basics
	}
	if p.Work != nil {
		r.Work = *p.Work
	}
	if p.Education != nil {
		r.Education = *p.Education
	}
	if p.Skills != nil {
		r.Skills = *p.Skills
	}
	if p.Projects != nil {
		r.Projects = *p.Projects
	}
	if p.Certificates != nil {
		r.Certificates = *p.Certificates
	}
	if p.Publications != nil {
		r.Publications = *p.Publications
	}
	if p.Awards != nil {
		r.Awards = *p.Awards
	}
	if p.Languages != nil {
		r.Languages = *p.Languages
	}
	if p.Interests != nil {
		r.Interests = *p.Interests
	}
	if p.References != nil {
		r.References = *p.References
	}
	if p.Custom != nil {
		r.Custom = *p.Custom
	}
}

func (p MetaPatch) apply(m *Meta) {
	if p.Title != nil {
		m.Title = *p.Title
	}
	if p.TemplateID != nil {
		m.TemplateID = *p.TemplateID
	}
	if p.ThemeColor != nil {
		m.ThemeColor = *p.ThemeColor
	}
	if p.LayoutSettings != nil {
		m.LayoutSettings = p.LayoutSettings.Clone()
	}
}

// IsZero 报告补丁是否为空（没有任何字段需要合并）。
func (p ResumePatch) IsZero() bool {
	return p.Meta == nil &&
		p.Basics == nil &&
		p.Work == nil &&
		p.Education == nil &&
		p.Skills == nil &&
		p.Projects == nil &&
		p.Certificates == nil &&
		p.Publications == nil &&
		p.Awards == nil &&
		p.Languages == nil &&
		p.Interests == nil &&
		p.References == nil &&
		p.Custom == nil
}
