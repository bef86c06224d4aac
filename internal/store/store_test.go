package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/1arunjyoti/resume-builder/internal/database"
	"github.com/1arunjyoti/resume-builder/internal/resume"
	"github.com/1arunjyoti/resume-builder/internal/template"
)

func newTestRepo(t *testing.T) *database.Repo {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return database.NewRepo(db)
}

// fakeSnapshots 是内存版快照层。
type fakeSnapshots struct {
	doc     *resume.Resume
	dropped int
}

func (f *fakeSnapshots) Put(_ context.Context, doc resume.Resume) error {
	copied := doc
	f.doc = &copied
	return nil
}

func (f *fakeSnapshots) Get(_ context.Context) (resume.Resume, error) {
	if f.doc == nil {
		return resume.Resume{}, errors.New("no snapshot")
	}
	return *f.doc, nil
}

func (f *fakeSnapshots) Drop(_ context.Context) error {
	f.doc = nil
	f.dropped++
	return nil
}

func TestCreateNewResume_PersistsAndAdopts(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	s := New(repo)

	doc, err := s.CreateNewResume(ctx, "My resume", template.TemplateModern)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if doc.ID == "" {
		t.Fatal("created resume has no id")
	}
	if doc.Meta.TemplateID != template.TemplateModern {
		t.Fatalf("template id = %q", doc.Meta.TemplateID)
	}
	if doc.Meta.ThemeColor != template.ResolveThemeColor(template.TemplateModern) {
		t.Fatalf("theme color = %q", doc.Meta.ThemeColor)
	}
	if doc.Meta.LayoutSettings.FontFamily == "" {
		t.Fatal("layout settings not resolved")
	}

	current, ok := s.Current()
	if !ok || current.ID != doc.ID {
		t.Fatal("created resume was not adopted as current")
	}

	persisted, err := repo.GetResume(ctx, doc.ID)
	if err != nil {
		t.Fatalf("created resume not persisted: %v", err)
	}
	if persisted.Meta.Title != "My resume" {
		t.Fatalf("persisted title = %q", persisted.Meta.Title)
	}
}

func TestCreateNewResume_Defaults(t *testing.T) {
	ctx := context.Background()
	s := New(newTestRepo(t))

	doc, err := s.CreateNewResume(ctx, "  ", "no-such-template")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if doc.Meta.Title != DefaultTitle {
		t.Fatalf("blank title not defaulted: %q", doc.Meta.Title)
	}
	if doc.Meta.TemplateID != template.DefaultTemplateID {
		t.Fatalf("unknown template not defaulted: %q", doc.Meta.TemplateID)
	}
}

func TestLoadResume_NoopWhenAlreadyCurrent(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	s := New(repo)

	doc, err := s.CreateNewResume(ctx, "A", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// 直接改库里的标题；重复加载同一 id 不应触发读库，标题保持内存版。
	persisted, _ := repo.GetResume(ctx, doc.ID)
	persisted.Meta.Title = "changed behind our back"
	if err := repo.PutResume(ctx, persisted); err != nil {
		t.Fatalf("put: %v", err)
	}

	if err := s.LoadResume(ctx, doc.ID); err != nil {
		t.Fatalf("load: %v", err)
	}
	current, _ := s.Current()
	if current.Meta.Title != "A" {
		t.Fatalf("no-op load refetched from the repo: %q", current.Meta.Title)
	}
}

func TestLoadResume_NotFoundSetsErrorState(t *testing.T) {
	ctx := context.Background()
	s := New(newTestRepo(t))

	err := s.LoadResume(ctx, "missing-id")
	if !errors.Is(err, database.ErrResumeNotFound) {
		t.Fatalf("err = %v", err)
	}
	if s.Err() != "resume not found" {
		t.Fatalf("error state = %q", s.Err())
	}
	if s.Loading() {
		t.Fatal("loading flag not cleared after failure")
	}

	s.ClearError()
	if s.Err() != "" {
		t.Fatal("ClearError did not clear the state")
	}
}

func TestSaveResume_MonotonicLastModified(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	// 固定时钟：第二次保存的 now 不晚于上一次的 lastModified，
	// stamp 必须仍然产生严格递增的时间戳。
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := New(repo, WithClock(func() time.Time { return fixed }))

	doc, err := s.CreateNewResume(ctx, "A", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	first := doc.Meta.LastModified

	if err := s.SaveResume(ctx, doc); err != nil {
		t.Fatalf("save: %v", err)
	}
	current, _ := s.Current()
	if !current.Meta.LastModified.After(first) {
		t.Fatalf("lastModified did not advance: %v -> %v", first, current.Meta.LastModified)
	}
}

func TestUpdateCurrentResume_InMemoryOnly(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	s := New(repo)

	doc, err := s.CreateNewResume(ctx, "A", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	before := doc.Meta.LastModified

	title := "Renamed"
	s.UpdateCurrentResume(resume.ResumePatch{Meta: &resume.MetaPatch{Title: &title}})

	current, _ := s.Current()
	if current.Meta.Title != "Renamed" {
		t.Fatalf("patch not applied: %q", current.Meta.Title)
	}
	if !current.Meta.LastModified.After(before) {
		t.Fatal("patch did not refresh lastModified")
	}

	// 未保存前持久层不变。
	persisted, err := repo.GetResume(ctx, doc.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if persisted.Meta.Title != "A" {
		t.Fatalf("patch leaked to the repo before save: %q", persisted.Meta.Title)
	}

	if err := s.SaveResume(ctx, current); err != nil {
		t.Fatalf("save: %v", err)
	}
	persisted, _ = repo.GetResume(ctx, doc.ID)
	if persisted.Meta.Title != "Renamed" {
		t.Fatalf("save did not persist the patch: %q", persisted.Meta.Title)
	}
}

func TestUpdateCurrentResume_NoCurrentIsNoop(t *testing.T) {
	s := New(newTestRepo(t))
	title := "ignored"
	s.UpdateCurrentResume(resume.ResumePatch{Meta: &resume.MetaPatch{Title: &title}})
	if _, ok := s.Current(); ok {
		t.Fatal("patch on an empty editor created a document")
	}
}

func TestDeleteResume_ClearsCurrentAndSnapshot(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	snaps := &fakeSnapshots{}
	s := New(repo, WithSnapshots(snaps))

	doc, err := s.CreateNewResume(ctx, "A", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := s.DeleteResume(ctx, doc.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := s.Current(); ok {
		t.Fatal("deleting the current resume did not clear the editor")
	}
	if snaps.dropped != 1 {
		t.Fatalf("snapshot dropped %d times, want 1", snaps.dropped)
	}
	if _, err := repo.GetResume(ctx, doc.ID); !errors.Is(err, database.ErrResumeNotFound) {
		t.Fatalf("resume still present: err = %v", err)
	}
}

func TestDeleteResume_OtherResumeKeepsCurrent(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	s := New(repo)

	a, _ := s.CreateNewResume(ctx, "A", "")
	b, _ := s.CreateNewResume(ctx, "B", "")

	if err := s.DeleteResume(ctx, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	current, ok := s.Current()
	if !ok || current.ID != b.ID {
		t.Fatal("deleting another resume disturbed the current one")
	}
}

func TestGetAllResumes_OrderedByLastModified(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	s := New(repo, WithClock(func() time.Time {
		tick++
		return now.Add(time.Duration(tick) * time.Second)
	}))

	a, _ := s.CreateNewResume(ctx, "oldest", "")
	b, _ := s.CreateNewResume(ctx, "middle", "")
	c, _ := s.CreateNewResume(ctx, "newest", "")

	docs := s.GetAllResumes(ctx)
	if len(docs) != 3 {
		t.Fatalf("got %d resumes", len(docs))
	}
	if docs[0].ID != c.ID || docs[1].ID != b.ID || docs[2].ID != a.ID {
		t.Fatalf("wrong order: %s, %s, %s", docs[0].Meta.Title, docs[1].Meta.Title, docs[2].Meta.Title)
	}
}

func TestResetResume_PreservesContent(t *testing.T) {
	ctx := context.Background()
	s := New(newTestRepo(t))

	doc, err := s.CreateNewResume(ctx, "A", template.TemplateCompact)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	work := []resume.Work{{ID: resume.NewID(), Company: "Acme"}}
	custom := resume.LayoutSettings{FontFamily: "Papyrus"}
	s.UpdateCurrentResume(resume.ResumePatch{
		Work: &work,
		Meta: &resume.MetaPatch{LayoutSettings: &custom},
	})

	s.ResetResume()

	current, _ := s.Current()
	defaults := template.ResolveDefaults(template.TemplateCompact)
	if current.Meta.LayoutSettings.FontFamily != defaults.FontFamily {
		t.Fatalf("layout not reset: %q", current.Meta.LayoutSettings.FontFamily)
	}
	if current.Meta.ThemeColor != template.ResolveThemeColor(template.TemplateCompact) {
		t.Fatalf("theme color not reset: %q", current.Meta.ThemeColor)
	}
	if len(current.Work) != 1 || current.Work[0].Company != "Acme" {
		t.Fatal("reset touched resume content")
	}
	if current.ID != doc.ID {
		t.Fatal("reset changed the document identity")
	}
}

func TestBootstrap_PrefersSnapshotButTrustsDB(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	seed := New(repo)
	doc, err := seed.CreateNewResume(ctx, "persisted title", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// 快照落后于数据库：启动时应以数据库版本为准。
	stale := doc
	stale.Meta.Title = "stale snapshot title"
	snaps := &fakeSnapshots{}
	_ = snaps.Put(ctx, stale)

	s := New(repo, WithSnapshots(snaps))
	s.Bootstrap(ctx)

	current, ok := s.Current()
	if !ok {
		t.Fatal("bootstrap left the editor empty")
	}
	if current.Meta.Title != "persisted title" {
		t.Fatalf("bootstrap used the stale snapshot: %q", current.Meta.Title)
	}
}

func TestBootstrap_FallsBackToMostRecent(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	seed := New(repo, WithClock(func() time.Time {
		tick++
		return now.Add(time.Duration(tick) * time.Second)
	}))
	_, _ = seed.CreateNewResume(ctx, "older", "")
	latest, _ := seed.CreateNewResume(ctx, "latest", "")

	s := New(repo)
	s.Bootstrap(ctx)

	current, ok := s.Current()
	if !ok || current.ID != latest.ID {
		t.Fatal("bootstrap did not adopt the most recently modified resume")
	}
}

func TestBootstrap_EmptyDatabaseKeepsEmptyEditor(t *testing.T) {
	s := New(newTestRepo(t))
	s.Bootstrap(context.Background())
	if _, ok := s.Current(); ok {
		t.Fatal("bootstrap invented a document")
	}
	if s.Err() != "" {
		t.Fatalf("empty database is not an error, got %q", s.Err())
	}
}
