package services

import (
	"context"
	"encoding/json"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/gatorguide/gatorguide/internal/appdata"
)

func TestExportDocumentShape(t *testing.T) {
	ctx := context.Background()
	store := signedInStore(t)
	_ = store.SetQuestionnaireAnswers(ctx, appdata.Answers{"budget": "< $20,000"})

	svc := NewTransferService(store)
	svc.now = func() time.Time { return time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC) }

	res, err := svc.Export("dark")
	if err != nil {
		t.Fatal(err)
	}
	if res.Filename != "gatorguide-export-20260314.json" {
		t.Fatalf("filename %q", res.Filename)
	}
	var doc ExportDocument
	if err := json.Unmarshal(res.Data, &doc); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if doc.App != "GatorGuide" || doc.Version != "1.0.0" || doc.Theme != "dark" {
		t.Fatalf("header fields: %+v", doc)
	}
	if doc.ExportedAt.IsZero() {
		t.Fatal("exportedAt missing")
	}
	if doc.Data.User == nil || doc.Data.User.Email != "al@x.com" {
		t.Fatalf("data.user: %+v", doc.Data.User)
	}
	if doc.Data.QuestionnaireAnswers["budget"] != "< $20,000" {
		t.Fatalf("data.answers: %v", doc.Data.QuestionnaireAnswers)
	}
}

func TestImportOverwrite(t *testing.T) {
	ctx := context.Background()
	source := signedInStore(t)
	_ = source.SetQuestionnaireAnswers(ctx, appdata.Answers{"budget": "< $20,000", "location": "WA"})
	_ = source.SetNotificationsEnabled(ctx, false)
	res, err := NewTransferService(source).Export("light")
	if err != nil {
		t.Fatal(err)
	}

	target, _ := newTestStore(t)
	_, _ = target.SignInAsGuest(ctx)
	if err := NewTransferService(target).Import(ctx, res.Data, true); err != nil {
		t.Fatalf("import: %v", err)
	}

	got := target.Snapshot()
	want := source.Snapshot()
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("state after import:\n got %+v\nwant %+v", got, want)
	}
}

func TestImportRequiresConfirmation(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	res, _ := NewTransferService(store).Export("")

	err := NewTransferService(store).Import(ctx, res.Data, false)
	se, ok := AsServiceError(err)
	if !ok || se.Code != ErrorInvalid {
		t.Fatalf("want invalid, got %v", err)
	}
}

func TestImportRejectsBadDocuments(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	_, _ = store.SignInAsGuest(ctx)
	before := store.Snapshot()

	cases := map[string]string{
		"not json":    `{"data":`,
		"no data":     `{"app":"GatorGuide","version":"1.0.0"}`,
		"foreign app": `{"app":"OtherApp","data":{}}`,
	}
	for name, raw := range cases {
		err := NewTransferService(store).Import(ctx, []byte(raw), true)
		if err == nil {
			t.Errorf("%s: accepted", name)
			continue
		}
		if se, ok := AsServiceError(err); !ok || se.Code != ErrorInvalid {
			t.Errorf("%s: unexpected error %v", name, err)
		}
	}
	if !reflect.DeepEqual(store.Snapshot(), before) {
		t.Fatal("a rejected import mutated state")
	}
}

func TestImportDefaultsMissingFields(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	_, _ = store.SignInAsGuest(ctx)
	_ = store.SetNotificationsEnabled(ctx, false)

	raw := `{"app":"GatorGuide","version":"1.0.0","data":{"questionnaireAnswers":{"budget":"x"}}}`
	if err := NewTransferService(store).Import(ctx, []byte(raw), true); err != nil {
		t.Fatal(err)
	}
	st := store.Snapshot()
	if st.User != nil {
		t.Fatal("missing user should default to nil")
	}
	if !st.NotificationsEnabled {
		t.Fatal("missing notificationsEnabled should default to true")
	}
	if st.QuestionnaireAnswers["budget"] != "x" {
		t.Fatalf("answers lost: %v", st.QuestionnaireAnswers)
	}
}

func TestExportFilenameAndThemeDefault(t *testing.T) {
	store, _ := newTestStore(t)
	res, err := NewTransferService(store).Export("")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(res.Data), `"theme": "system"`) {
		t.Fatalf("theme default missing:\n%s", res.Data)
	}
}
