package resume

import (
	"errors"
	"reflect"
	"testing"
)

func TestExportImportRoundTrip(t *testing.T) {
	doc := Empty(NewID(), "Backup me", "modern")
	doc.Basics.Name = "Jane Doe"
	doc.Work = []Work{{ID: NewID(), Company: "Acme", Highlights: []string{"shipped v2"}}}

	data, err := ExportDocument(doc)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	back, err := ImportDocument(data)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !reflect.DeepEqual(doc, back) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", back, doc)
	}
}

func TestImportDocument_Validation(t *testing.T) {
	if _, err := ImportDocument([]byte("not json")); !errors.Is(err, ErrInvalidDocument) {
		t.Fatalf("malformed input: err = %v", err)
	}
	if _, err := ImportDocument([]byte(`{"meta": {"title": "  "}}`)); !errors.Is(err, ErrInvalidDocument) {
		t.Fatalf("missing title: err = %v", err)
	}
}

func TestImportDocument_RegeneratesMissingID(t *testing.T) {
	doc, err := ImportDocument([]byte(`{"meta": {"title": "Imported"}}`))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if doc.ID == "" {
		t.Fatal("missing id was not regenerated")
	}
}

func TestImportDocument_NormalizesNilLists(t *testing.T) {
	doc, err := ImportDocument([]byte(`{"meta": {"title": "Imported"}}`))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if doc.Work == nil || doc.Education == nil || doc.Custom == nil {
		t.Fatal("nil lists were not normalized to empty slices")
	}
	if doc.Basics.Profiles == nil {
		t.Fatal("nil profiles were not normalized")
	}
}
