package template

import (
	"github.com/1arunjyoti/resume-builder/internal/resume"
)

// Template ids form a closed set; DefaultTemplateID is the fallback for
// anything unrecognized.
const (
	DefaultTemplateID = "classic"

	TemplateClassic = "classic"
	TemplateModern  = "modern"
	TemplateCompact = "compact"
	TemplateElegant = "elegant"
	TemplateOnyx    = "onyx"
)

type definition struct {
	themeColor string
	settings   resume.LayoutSettings
}

// baseSettings 是 classic 模板的完整默认值，其余模板在其上修饰。
// 每个选项必须在这里取到确定值 —— 渲染端不再做兜底。
func baseSettings() resume.LayoutSettings {
	section := func(fontSize, headingVariant int) resume.SectionStyle {
		return resume.SectionStyle{
			FontSizePt:       fontSize,
			Bold:             false,
			Italic:           false,
			ListStyle:        resume.ListStyleBullet,
			HeadingVariant:   headingVariant,
			HeadingUppercase: false,
			HeadingAlignment: resume.AlignLeft,
			HeadingVisible:   true,
		}
	}

	return resume.LayoutSettings{
		MarginTopPx:      48,
		MarginBottomPx:   48,
		MarginLeftPx:     48,
		MarginRightPx:    48,
		Columns:          1,
		ColumnWidthRatio: 0.5,
		SectionSpacingPx: 18,

		FontFamily:     "Georgia",
		BaseFontSizePt: 10,
		LineHeight:     1.4,

		SectionOrder: append([]string(nil), resume.SectionKinds...),

		NameFontSizePt:    26,
		NameBold:          true,
		NameUppercase:     false,
		TitleFontSizePt:   14,
		TitleBold:         false,
		TitleItalic:       false,
		ContactFontSizePt: 9,
		ContactSeparator:  " | ",
		HeaderAlignment:   resume.AlignLeft,
		ShowPhoto:         false,
		PhotoSizePx:       96,
		PhotoRounded:      true,

		PersonalIconStyle: resume.IconStyleNone,
		PersonalAlignment: resume.AlignLeft,

		Experience:   section(10, 1),
		Education:    section(10, 1),
		Skills:       section(10, 1),
		Projects:     section(10, 1),
		Certificates: section(10, 1),
		Publications: section(10, 1),
		Awards:       section(10, 1),
		Languages:    section(10, 1),
		Interests:    section(10, 1),
		References:   section(10, 1),
		Custom:       section(10, 1),
	}
}

func modernSettings() resume.LayoutSettings {
	s := baseSettings()
	s.FontFamily = "Helvetica"
	s.Columns = 2
	s.ColumnWidthRatio = 0.62
	s.MarginTopPx = 40
	s.MarginBottomPx = 40
	s.MarginLeftPx = 40
	s.MarginRightPx = 40
	s.NameUppercase = true
	s.HeaderAlignment = resume.AlignCenter
	s.PersonalIconStyle = resume.IconStyleOutline
	s.ShowPhoto = true
	forEachSection(&s, func(ss *resume.SectionStyle) {
		ss.HeadingVariant = 3
		ss.HeadingUppercase = true
	})
	return s
}

func compactSettings() resume.LayoutSettings {
	s := baseSettings()
	s.FontFamily = "Arial"
	s.BaseFontSizePt = 9
	s.LineHeight = 1.25
	s.MarginTopPx = 32
	s.MarginBottomPx = 32
	s.MarginLeftPx = 36
	s.MarginRightPx = 36
	s.SectionSpacingPx = 12
	s.NameFontSizePt = 20
	s.TitleFontSizePt = 12
	s.ContactFontSizePt = 8
	forEachSection(&s, func(ss *resume.SectionStyle) {
		ss.FontSizePt = 9
		ss.HeadingVariant = 5
		ss.ListStyle = resume.ListStyleDash
	})
	return s
}

func elegantSettings() resume.LayoutSettings {
	s := baseSettings()
	s.FontFamily = "Garamond"
	s.LineHeight = 1.5
	s.SectionSpacingPx = 22
	s.TitleItalic = true
	s.HeaderAlignment = resume.AlignCenter
	s.PersonalAlignment = resume.AlignCenter
	s.ContactSeparator = " · "
	forEachSection(&s, func(ss *resume.SectionStyle) {
		ss.HeadingVariant = 7
		ss.HeadingAlignment = resume.AlignCenter
	})
	return s
}

func onyxSettings() resume.LayoutSettings {
	s := baseSettings()
	s.FontFamily = "Inter"
	s.Columns = 2
	s.ColumnWidthRatio = 0.58
	s.NameBold = true
	s.NameUppercase = true
	s.PersonalIconStyle = resume.IconStyleFilled
	forEachSection(&s, func(ss *resume.SectionStyle) {
		ss.HeadingVariant = 2
		ss.HeadingUppercase = true
	})
	return s
}

func forEachSection(s *resume.LayoutSettings, fn func(*resume.SectionStyle)) {
	for _, ss := range []*resume.SectionStyle{
		&s.Experience, &s.Education, &s.Skills, &s.Projects,
		&s.Certificates, &s.Publications, &s.Awards, &s.Languages,
		&s.Interests, &s.References, &s.Custom,
	} {
		fn(ss)
	}
}

func definitions() map[string]definition {
	return map[string]definition{
		TemplateClassic: {themeColor: "#1f2937", settings: baseSettings()},
		TemplateModern:  {themeColor: "#2563eb", settings: modernSettings()},
		TemplateCompact: {themeColor: "#0f766e", settings: compactSettings()},
		TemplateElegant: {themeColor: "#7c2d5b", settings: elegantSettings()},
		TemplateOnyx:    {themeColor: "#111111", settings: onyxSettings()},
	}
}
