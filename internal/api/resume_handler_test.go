package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/1arunjyoti/resume-builder/internal/database"
	"github.com/1arunjyoti/resume-builder/internal/resume"
	"github.com/1arunjyoti/resume-builder/internal/store"
)

func newResumeHandler(t *testing.T) *ResumeHandler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	repo := database.NewRepo(db)
	return NewResumeHandler(store.New(repo), repo, nil, nil)
}

func doJSON(t *testing.T, handler gin.HandlerFunc, method, target, body string, params ...gin.Param) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var reader *bytes.Buffer
	if body != "" {
		reader = bytes.NewBufferString(body)
	} else {
		reader = &bytes.Buffer{}
	}
	c.Request = httptest.NewRequest(method, target, reader)
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = params
	handler(c)
	c.Writer.WriteHeaderNow()
	return w
}

func TestGetCurrentResume_EmptyEditor(t *testing.T) {
	h := newResumeHandler(t)

	w := doJSON(t, h.GetCurrentResume, http.MethodGet, "/v1/resume/current", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Resume  *resume.Resume `json:"resume"`
		Error   string         `json:"error"`
		Loading bool           `json:"loading"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Resume != nil || resp.Error != "" || resp.Loading {
		t.Fatalf("fresh editor should be empty: %+v", resp)
	}
}

func TestCreateResume_AdoptsAsCurrent(t *testing.T) {
	h := newResumeHandler(t)

	w := doJSON(t, h.CreateResume, http.MethodPost, "/v1/resume",
		`{"title": "My CV", "template_id": "classic"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}

	doc, ok := h.store.Current()
	if !ok {
		t.Fatal("created resume not adopted as current")
	}
	if doc.Meta.Title != "My CV" {
		t.Fatalf("title = %q", doc.Meta.Title)
	}
}

func TestUpdateCurrentResume_ConflictWhenEmpty(t *testing.T) {
	h := newResumeHandler(t)

	w := doJSON(t, h.UpdateCurrentResume, http.MethodPut, "/v1/resume/current",
		`{"basics": {"name": "Jane"}}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
}

func TestUpdateCurrentResume_AppliesPatch(t *testing.T) {
	h := newResumeHandler(t)

	if w := doJSON(t, h.CreateResume, http.MethodPost, "/v1/resume", `{}`); w.Code != http.StatusCreated {
		t.Fatalf("create: %d", w.Code)
	}

	w := doJSON(t, h.UpdateCurrentResume, http.MethodPut, "/v1/resume/current",
		`{"basics": {"name": "Jane", "email": "jane@example.com"}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}

	doc, _ := h.store.Current()
	if doc.Basics.Name != "Jane" || doc.Basics.Email != "jane@example.com" {
		t.Fatalf("patch not applied: %+v", doc.Basics)
	}
}

func TestLoadResume_NotFound(t *testing.T) {
	h := newResumeHandler(t)

	w := doJSON(t, h.LoadResume, http.MethodPost, "/v1/resume/missing/load", "",
		gin.Param{Key: "id", Value: "missing"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
}

func TestImportResume_RejectsInvalidDocument(t *testing.T) {
	h := newResumeHandler(t)

	w := doJSON(t, h.ImportResume, http.MethodPost, "/v1/resume/import", `{"meta": {"title": "   "}}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
}

func TestImportResume_PersistsAndAdopts(t *testing.T) {
	h := newResumeHandler(t)

	backup := `{"id": "imported-1", "meta": {"title": "Imported", "template_id": "classic"}}`
	w := doJSON(t, h.ImportResume, http.MethodPost, "/v1/resume/import", backup)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}

	doc, ok := h.store.Current()
	if !ok || doc.ID != "imported-1" {
		t.Fatalf("imported resume not current: %+v", doc)
	}
}

func TestExportCurrentResume_AttachmentRoundTrip(t *testing.T) {
	h := newResumeHandler(t)

	if w := doJSON(t, h.CreateResume, http.MethodPost, "/v1/resume", `{"title": "Export me"}`); w.Code != http.StatusCreated {
		t.Fatalf("create: %d", w.Code)
	}

	w := doJSON(t, h.ExportCurrentResume, http.MethodGet, "/v1/resume/current/export", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	if !strings.HasPrefix(w.Header().Get("Content-Disposition"), "attachment;") {
		t.Fatalf("missing attachment disposition: %q", w.Header().Get("Content-Disposition"))
	}

	// 导出的备份必须能原样导回。
	doc, err := resume.ImportDocument(w.Body.Bytes())
	if err != nil {
		t.Fatalf("exported document does not import: %v", err)
	}
	if doc.Meta.Title != "Export me" {
		t.Fatalf("title = %q", doc.Meta.Title)
	}
}

func TestDeleteResume_ClearsCurrent(t *testing.T) {
	h := newResumeHandler(t)

	if w := doJSON(t, h.CreateResume, http.MethodPost, "/v1/resume", `{}`); w.Code != http.StatusCreated {
		t.Fatalf("create: %d", w.Code)
	}
	doc, _ := h.store.Current()

	w := doJSON(t, h.DeleteResume, http.MethodDelete, "/v1/resume/"+doc.ID, "",
		gin.Param{Key: "id", Value: doc.ID})
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	if _, ok := h.store.Current(); ok {
		t.Fatal("editor still holds the deleted resume")
	}
}

func TestListResumes_ReportsErrorStateWith200(t *testing.T) {
	h := newResumeHandler(t)

	if w := doJSON(t, h.CreateResume, http.MethodPost, "/v1/resume", `{"title": "A"}`); w.Code != http.StatusCreated {
		t.Fatalf("create: %d", w.Code)
	}

	w := doJSON(t, h.ListResumes, http.MethodGet, "/v1/resume", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Items []resumeListItem `json:"items"`
		Error string           `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Items) != 1 || resp.Items[0].Title != "A" {
		t.Fatalf("items = %+v", resp.Items)
	}
	if resp.Error != "" {
		t.Fatalf("unexpected error state: %q", resp.Error)
	}
}
