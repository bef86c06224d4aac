package resume

import (
	"time"

	"github.com/google/uuid"
)

// Resume 表示编辑器中的一份完整简历文档。
// ID 在创建后不可变；所有列表字段的顺序即渲染顺序。
type Resume struct {
	ID           string        `json:"id"`
	Meta         Meta          `json:"meta"`
	Basics       Basics        `json:"basics"`
	Work         []Work        `json:"work"`
	Education    []Education   `json:"education"`
	Skills       []Skill       `json:"skills"`
	Projects     []Project     `json:"projects"`
	Certificates []Certificate `json:"certificates"`
	Publications []Publication `json:"publications"`
	Awards       []Award       `json:"awards"`
	Languages    []Language    `json:"languages"`
	Interests    []Interest    `json:"interests"`
	References   []Reference   `json:"references"`
	Custom       []Custom      `json:"custom"`
}

// Meta 描述简历的展示元数据。LastModified 在每次可持久化的变更时刷新。
type Meta struct {
	Title          string         `json:"title"`
	TemplateID     string         `json:"template_id"`
	ThemeColor     string         `json:"theme_color"`
	LastModified   time.Time      `json:"last_modified"`
	LayoutSettings LayoutSettings `json:"layout_settings"`
}

// Basics 是简历头部的身份与联系信息块。
type Basics struct {
	Name     string          `json:"name"`
	Label    string          `json:"label"`
	Email    string          `json:"email"`
	Phone    string          `json:"phone"`
	URL      string          `json:"url"`
	Summary  string          `json:"summary"`
	Location Location        `json:"location"`
	PhotoKey string          `json:"photo_key"`
	Profiles []SocialProfile `json:"profiles"`
}

type Location struct {
	Address     string `json:"address"`
	City        string `json:"city"`
	Region      string `json:"region"`
	PostalCode  string `json:"postal_code"`
	CountryCode string `json:"country_code"`
}

type SocialProfile struct {
	ID       string `json:"id"`
	Network  string `json:"network"`
	Username string `json:"username"`
	URL      string `json:"url"`
}

type Work struct {
	ID         string   `json:"id"`
	Company    string   `json:"company"`
	Position   string   `json:"position"`
	URL        string   `json:"url"`
	StartDate  string   `json:"start_date"`
	EndDate    string   `json:"end_date"`
	Summary    string   `json:"summary"`
	Highlights []string `json:"highlights"`
}

type Education struct {
	ID          string   `json:"id"`
	Institution string   `json:"institution"`
	URL         string   `json:"url"`
	Area        string   `json:"area"`
	StudyType   string   `json:"study_type"`
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date"`
	Score       string   `json:"score"`
	Courses     []string `json:"courses"`
}

type Skill struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Level    string   `json:"level"`
	Keywords []string `json:"keywords"`
}

type Project struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	URL         string   `json:"url"`
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date"`
	Highlights  []string `json:"highlights"`
	Keywords    []string `json:"keywords"`
}

type Certificate struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Issuer string `json:"issuer"`
	Date   string `json:"date"`
	URL    string `json:"url"`
}

type Publication struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Publisher   string `json:"publisher"`
	ReleaseDate string `json:"release_date"`
	URL         string `json:"url"`
	Summary     string `json:"summary"`
}

type Award struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Date    string `json:"date"`
	Awarder string `json:"awarder"`
	Summary string `json:"summary"`
}

type Language struct {
	ID       string `json:"id"`
	Language string `json:"language"`
	Fluency  string `json:"fluency"`
}

type Interest struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
}

type Reference struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Relation  string `json:"relation"`
	Contact   string `json:"contact"`
	Reference string `json:"reference"`
}

// Custom 是用户自定义的补充栏目。
type Custom struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Subtitle    string   `json:"subtitle"`
	Date        string   `json:"date"`
	Description string   `json:"description"`
	Highlights  []string `json:"highlights"`
}

// NewID 生成简历与列表条目使用的唯一标识。
func NewID() string {
	return uuid.NewString()
}

// Empty 构建一份空白简历：所有列表为空切片而非 nil，
// 序列化后前端读到的是 [] 而不是 null。
func Empty(id, title, templateID string) Resume {
	return Resume{
		ID: id,
		Meta: Meta{
			Title:      title,
			TemplateID: templateID,
		},
		Basics:       Basics{Profiles: []SocialProfile{}},
		Work:         []Work{},
		Education:    []Education{},
		Skills:       []Skill{},
		Projects:     []Project{},
		Certificates: []Certificate{},
		Publications: []Publication{},
		Awards:       []Award{},
		Languages:    []Language{},
		Interests:    []Interest{},
		References:   []Reference{},
		Custom:       []Custom{},
	}
}
