package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/1arunjyoti/resume-builder/internal/resume"
	"github.com/1arunjyoti/resume-builder/internal/template"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func sampleResume(title string, modified time.Time) resume.Resume {
	doc := resume.Empty(resume.NewID(), title, template.TemplateClassic)
	doc.Meta.LayoutSettings = template.ResolveDefaults(template.TemplateClassic)
	doc.Meta.ThemeColor = template.ResolveThemeColor(template.TemplateClassic)
	doc.Meta.LastModified = modified
	return doc
}

func TestPutGetResume_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewRepo(newTestDB(t))

	doc := sampleResume("Round trip", time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	doc.Basics.Name = "Jane"
	doc.Work = []resume.Work{{ID: resume.NewID(), Company: "Acme"}}

	if err := repo.PutResume(ctx, doc); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := repo.GetResume(ctx, doc.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Basics.Name != "Jane" || len(got.Work) != 1 {
		t.Fatalf("content mismatch: %+v", got)
	}
	if !got.Meta.LastModified.Equal(doc.Meta.LastModified) {
		t.Fatalf("lastModified = %v, want %v", got.Meta.LastModified, doc.Meta.LastModified)
	}
}

func TestPutResume_Upserts(t *testing.T) {
	ctx := context.Background()
	repo := NewRepo(newTestDB(t))

	doc := sampleResume("v1", time.Now().UTC())
	if err := repo.PutResume(ctx, doc); err != nil {
		t.Fatalf("put: %v", err)
	}

	doc.Meta.Title = "v2"
	if err := repo.PutResume(ctx, doc); err != nil {
		t.Fatalf("second put: %v", err)
	}

	got, err := repo.GetResume(ctx, doc.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Meta.Title != "v2" {
		t.Fatalf("title = %q", got.Meta.Title)
	}

	docs, err := repo.ListResumes(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("upsert duplicated the row: %d rows", len(docs))
	}
}

func TestGetResume_NotFound(t *testing.T) {
	repo := NewRepo(newTestDB(t))
	if _, err := repo.GetResume(context.Background(), "nope"); !errors.Is(err, ErrResumeNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestGetResume_BackfillsLayoutSettings(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewRepo(db)

	// 模拟旧版本写入的精简文档：layout_settings 只有两个键。
	content := []byte(`{
		"id": "legacy-1",
		"meta": {
			"title": "Legacy",
			"template_id": "classic",
			"layout_settings": {"base_font_size_pt": 13, "name_bold": false}
		}
	}`)
	rec := ResumeRecord{
		ID:           "legacy-1",
		Title:        "Legacy",
		TemplateID:   "classic",
		LastModified: time.Now().UTC(),
		Content:      datatypes.JSON(content),
	}
	if err := db.Create(&rec).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	got, err := repo.GetResume(ctx, "legacy-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if got.Meta.LayoutSettings.BaseFontSizePt != 13 {
		t.Fatalf("stored value lost: %d", got.Meta.LayoutSettings.BaseFontSizePt)
	}
	if got.Meta.LayoutSettings.NameBold {
		t.Fatal("explicit false was overridden by the default")
	}
	defaults := template.ResolveDefaults(template.TemplateClassic)
	if got.Meta.LayoutSettings.FontFamily != defaults.FontFamily {
		t.Fatalf("missing key not backfilled: %q", got.Meta.LayoutSettings.FontFamily)
	}
	if len(got.Meta.LayoutSettings.SectionOrder) != len(resume.SectionKinds) {
		t.Fatalf("section order not backfilled: %v", got.Meta.LayoutSettings.SectionOrder)
	}
}

func TestDeleteResume_Idempotent(t *testing.T) {
	ctx := context.Background()
	repo := NewRepo(newTestDB(t))

	doc := sampleResume("bye", time.Now().UTC())
	if err := repo.PutResume(ctx, doc); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := repo.DeleteResume(ctx, doc.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.DeleteResume(ctx, doc.ID); err != nil {
		t.Fatalf("second delete should be a no-op: %v", err)
	}
}

func TestListResumes_OrderedByLastModifiedDesc(t *testing.T) {
	ctx := context.Background()
	repo := NewRepo(newTestDB(t))

	base := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	oldest := sampleResume("oldest", base)
	newest := sampleResume("newest", base.Add(2*time.Hour))
	middle := sampleResume("middle", base.Add(time.Hour))
	for _, doc := range []resume.Resume{oldest, newest, middle} {
		if err := repo.PutResume(ctx, doc); err != nil {
			t.Fatalf("put: %v", err)
		}
	}

	docs, err := repo.ListResumes(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("got %d rows", len(docs))
	}
	titles := []string{docs[0].Meta.Title, docs[1].Meta.Title, docs[2].Meta.Title}
	if titles[0] != "newest" || titles[1] != "middle" || titles[2] != "oldest" {
		t.Fatalf("wrong order: %v", titles)
	}
}

func TestUpdateExportResult(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewRepo(db)

	doc := sampleResume("exported", time.Now().UTC())
	if err := repo.PutResume(ctx, doc); err != nil {
		t.Fatalf("put: %v", err)
	}

	update := map[string]any{
		"pdf_object_key": "exports/x/a.pdf",
		"status":         "completed",
	}
	if err := repo.UpdateExportResult(ctx, doc.ID, update); err != nil {
		t.Fatalf("update: %v", err)
	}

	rec, err := repo.GetResumeRecord(ctx, doc.ID)
	if err != nil {
		t.Fatalf("get record: %v", err)
	}
	if rec.PdfObjectKey != "exports/x/a.pdf" || rec.Status != "completed" {
		t.Fatalf("export result not recorded: %+v", rec)
	}
}

func TestSettings_UpsertAndNotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewRepo(newTestDB(t))

	if _, err := repo.GetSetting(ctx, "assist"); !errors.Is(err, ErrSettingNotFound) {
		t.Fatalf("err = %v", err)
	}

	first, _ := json.Marshal(map[string]string{"tone": "neutral"})
	if err := repo.PutSetting(ctx, "assist", first); err != nil {
		t.Fatalf("put: %v", err)
	}

	second, _ := json.Marshal(map[string]string{"tone": "formal"})
	if err := repo.PutSetting(ctx, "assist", second); err != nil {
		t.Fatalf("second put: %v", err)
	}

	got, err := repo.GetSetting(ctx, "assist")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	var decoded map[string]string
	if err := json.Unmarshal(got, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded["tone"] != "formal" {
		t.Fatalf("setting not overwritten: %v", decoded)
	}
}
