package resume

// Section kinds recognized by LayoutSettings and SectionOrder. 渲染端据此寻址。
const (
	SectionExperience   = "experience"
	SectionEducation    = "education"
	SectionSkills       = "skills"
	SectionProjects     = "projects"
	SectionCertificates = "certificates"
	SectionPublications = "publications"
	SectionAwards       = "awards"
	SectionLanguages    = "languages"
	SectionInterests    = "interests"
	SectionReferences   = "references"
	SectionCustom       = "custom"
)

// SectionKinds 是 SectionOrder 的默认顺序，同时也是合法值的闭集。
var SectionKinds = []string{
	SectionExperience,
	SectionEducation,
	SectionSkills,
	SectionProjects,
	SectionCertificates,
	SectionPublications,
	SectionAwards,
	SectionLanguages,
	SectionInterests,
	SectionReferences,
	SectionCustom,
}

// List styles for section entries.
const (
	ListStyleNone   = "none"
	ListStyleBullet = "bullet"
	ListStyleDash   = "dash"
)

// Alignments shared by headings and the personal-details block.
const (
	AlignLeft   = "left"
	AlignCenter = "center"
	AlignRight  = "right"
)

// Icon styles for the personal-details block.
const (
	IconStyleNone    = "none"
	IconStyleOutline = "outline"
	IconStyleFilled  = "filled"
	IconStyleCircled = "circled"
)

// SectionStyle 是单个栏目的排版与标题选项。
// HeadingVariant 取值 1–8，对应模板里的八种标题样式。
type SectionStyle struct {
	FontSizePt       int    `json:"font_size_pt"`
	Bold             bool   `json:"bold"`
	Italic           bool   `json:"italic"`
	ListStyle        string `json:"list_style"`
	HeadingVariant   int    `json:"heading_variant"`
	HeadingUppercase bool   `json:"heading_uppercase"`
	HeadingAlignment string `json:"heading_alignment"`
	HeadingVisible   bool   `json:"heading_visible"`
}

// LayoutSettings 是驱动所有模板渲染的完整配置包。
// 不变量：经 template.ResolveDefaults / CompleteSettings 处理后，
// 每个选项都有确定值，渲染端不做任何兜底。
type LayoutSettings struct {
	// 页面几何
	MarginTopPx      int     `json:"margin_top_px"`
	MarginBottomPx   int     `json:"margin_bottom_px"`
	MarginLeftPx     int     `json:"margin_left_px"`
	MarginRightPx    int     `json:"margin_right_px"`
	Columns          int     `json:"columns"`
	ColumnWidthRatio float64 `json:"column_width_ratio"`
	SectionSpacingPx int     `json:"section_spacing_px"`

	// 全局排版
	FontFamily     string  `json:"font_family"`
	BaseFontSizePt int     `json:"base_font_size_pt"`
	LineHeight     float64 `json:"line_height"`

	// 栏目级顺序（非条目级）
	SectionOrder []string `json:"section_order"`

	// 姓名 / 头衔 / 联系方式块
	NameFontSizePt    int    `json:"name_font_size_pt"`
	NameBold          bool   `json:"name_bold"`
	NameUppercase     bool   `json:"name_uppercase"`
	TitleFontSizePt   int    `json:"title_font_size_pt"`
	TitleBold         bool   `json:"title_bold"`
	TitleItalic       bool   `json:"title_italic"`
	ContactFontSizePt int    `json:"contact_font_size_pt"`
	ContactSeparator  string `json:"contact_separator"`
	HeaderAlignment   string `json:"header_alignment"`
	ShowPhoto         bool   `json:"show_photo"`
	PhotoSizePx       int    `json:"photo_size_px"`
	PhotoRounded      bool   `json:"photo_rounded"`

	// 个人信息块
	PersonalIconStyle string `json:"personal_icon_style"`
	PersonalAlignment string `json:"personal_alignment"`

	// 各栏目排版
	Experience   SectionStyle `json:"experience"`
	Education    SectionStyle `json:"education"`
	Skills       SectionStyle `json:"skills"`
	Projects     SectionStyle `json:"projects"`
	Certificates SectionStyle `json:"certificates"`
	Publications SectionStyle `json:"publications"`
	Awards       SectionStyle `json:"awards"`
	Languages    SectionStyle `json:"languages"`
	Interests    SectionStyle `json:"interests"`
	References   SectionStyle `json:"references"`
	Custom       SectionStyle `json:"custom"`
}

// SectionStyleFor 返回指定栏目的排版选项；未知栏目返回 Custom 的配置。
func (s LayoutSettings) SectionStyleFor(kind string) SectionStyle {
	switch kind {
	case SectionExperience:
		return s.Experience
	case SectionEducation:
		return s.Education
	case SectionSkills:
		return s.Skills
	case SectionProjects:
		return s.Projects
	case SectionCertificates:
		return s.Certificates
	case SectionPublications:
		return s.Publications
	case SectionAwards:
		return s.Awards
	case SectionLanguages:
		return s.Languages
	case SectionInterests:
		return s.Interests
	case SectionReferences:
		return s.References
	default:
		return s.Custom
	}
}

// Clone 返回一份可独立修改的副本（SectionOrder 为深拷贝）。
func (s LayoutSettings) Clone() LayoutSettings {
	out := s
	if s.SectionOrder != nil {
		out.SectionOrder = append([]string(nil), s.SectionOrder...)
	}
	return out
}
