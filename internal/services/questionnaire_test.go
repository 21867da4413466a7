package services

import (
	"context"
	"testing"

	"github.com/gatorguide/gatorguide/internal/appdata"
	"github.com/gatorguide/gatorguide/internal/storage"
)

func newTestStore(t *testing.T) (*appdata.Store, storage.KV) {
	t.Helper()
	kv := storage.NewMemoryKV()
	s := appdata.New(kv, NewLocalAuthGateway())
	s.Hydrate(context.Background())
	return s, kv
}

func TestCatalogShape(t *testing.T) {
	qs := Catalog("en")
	if len(qs) != 10 {
		t.Fatalf("catalog has %d questions, want 10", len(qs))
	}
	if qs[0].ID != "volunteerActivities" || qs[9].ID != "careerGoals" {
		t.Fatalf("catalog order wrong: first=%s last=%s", qs[0].ID, qs[9].ID)
	}
	for _, q := range qs {
		switch q.Kind {
		case QuestionSingleChoice:
			if len(q.Options) == 0 {
				t.Errorf("%s: singleChoice without options", q.ID)
			}
		case QuestionText, QuestionLongText:
			if q.Placeholder == "" {
				t.Errorf("%s: free-text question without placeholder", q.ID)
			}
		default:
			t.Errorf("%s: unknown kind %q", q.ID, q.Kind)
		}
		if q.Prompt == "" || q.Prompt == "questionnaire."+q.ID {
			t.Errorf("%s: prompt not localized: %q", q.ID, q.Prompt)
		}
	}
}

func TestCatalogLocalized(t *testing.T) {
	en := Catalog("en")
	es := Catalog("es")
	if en[6].Prompt == es[6].Prompt {
		t.Fatalf("expected distinct prompts per locale, both %q", en[6].Prompt)
	}
	// Option values are canonical across locales: answers store them verbatim.
	if es[6].Options[0] != "< $20,000" {
		t.Fatalf("option values must not be localized, got %q", es[6].Options[0])
	}
}

func TestFlowStepBoundaries(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	f, err := NewQuestionnaireFlow(store, "en")
	if err != nil {
		t.Fatal(err)
	}

	if exited := f.Back(); !exited {
		t.Fatal("Back at step 0 must exit")
	}
	if f.Step() != 0 {
		t.Fatalf("Back at step 0 moved to %d", f.Step())
	}

	for i := 0; i < f.Len()-1; i++ {
		done, err := f.Next(ctx)
		if err != nil || done {
			t.Fatalf("step %d: done=%v err=%v", i, done, err)
		}
	}
	if f.Step() != f.Len()-1 {
		t.Fatalf("expected last step, at %d", f.Step())
	}

	_ = f.Answer("careerGoals", "research")
	done, err := f.Next(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !done {
		t.Fatal("Next at last step must complete")
	}
	if f.Step() != f.Len()-1 {
		t.Fatalf("Next at last step advanced to %d", f.Step())
	}
	if store.Snapshot().QuestionnaireAnswers["careerGoals"] != "research" {
		t.Fatal("completion did not commit the draft")
	}
}

func TestFlowProgress(t *testing.T) {
	store, _ := newTestStore(t)
	f, _ := NewQuestionnaireFlow(store, "en")
	want := []int{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}
	for i, w := range want {
		if got := f.Progress(); got != w {
			t.Fatalf("step %d: progress %d want %d", i, got, w)
		}
		_, _ = f.Next(context.Background())
	}
}

func TestFlowCommitsFullKeySet(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	f, _ := NewQuestionnaireFlow(store, "en")

	// Answer the first three questions, then bail out from step 1.
	_ = f.Answer("volunteerActivities", "food bank")
	_ = f.Answer("extracurriculars", "robotics club")
	_ = f.Answer("collegeSetting", "Urban")
	_, _ = f.Next(ctx)
	if err := f.SaveAndExit(ctx); err != nil {
		t.Fatal(err)
	}

	saved := store.Snapshot().QuestionnaireAnswers
	if len(saved) != len(CatalogIDs()) {
		t.Fatalf("saved %d keys, want %d", len(saved), len(CatalogIDs()))
	}
	for _, id := range CatalogIDs() {
		if _, ok := saved[id]; !ok {
			t.Errorf("missing catalog key %s", id)
		}
	}
	if saved["volunteerActivities"] != "food bank" || saved["collegeSetting"] != "Urban" {
		t.Fatalf("answers lost: %v", saved)
	}
	if saved["budget"] != "" {
		t.Fatalf("unanswered key not blank: %q", saved["budget"])
	}
}

func TestFlowResumesPartialSave(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	f, _ := NewQuestionnaireFlow(store, "en")
	_ = f.Answer("volunteerActivities", "tutoring")
	_ = f.Answer("extracurriculars", "chess")
	_ = f.Answer("collegeSetting", "Rural")
	if err := f.SaveAndExit(ctx); err != nil {
		t.Fatal(err)
	}

	// Reopen: the three answers pre-fill, the other seven are blank.
	reopened, err := NewQuestionnaireFlow(store, "en")
	if err != nil {
		t.Fatal(err)
	}
	draft := reopened.Draft()
	if draft["volunteerActivities"] != "tutoring" || draft["extracurriculars"] != "chess" || draft["collegeSetting"] != "Rural" {
		t.Fatalf("saved answers not pre-filled: %v", draft)
	}
	blank := 0
	for _, v := range draft {
		if v == "" {
			blank++
		}
	}
	if blank != 7 {
		t.Fatalf("expected 7 blanks, got %d", blank)
	}
}

func TestFlowDropsUnknownStoredKeys(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	_ = store.SetQuestionnaireAnswers(ctx, appdata.Answers{"budget": "x", "retiredQuestion": "y"})

	f, _ := NewQuestionnaireFlow(store, "en")
	draft := f.Draft()
	if _, ok := draft["retiredQuestion"]; ok {
		t.Fatal("draft carries a key outside the catalog")
	}
	if draft["budget"] != "x" {
		t.Fatal("catalog answer lost")
	}
}

func TestFlowAnswerValidation(t *testing.T) {
	store, _ := newTestStore(t)
	f, _ := NewQuestionnaireFlow(store, "en")

	if err := f.Answer("nope", "v"); err == nil {
		t.Fatal("unknown question id accepted")
	}
	// Membership is deliberately permissive at the controller.
	if err := f.Answer("collegeSetting", "Underwater"); err != nil {
		t.Fatalf("controller must accept non-option values: %v", err)
	}

	if q := Catalog("en")[2]; OptionAllowed(q, "Underwater") {
		t.Fatal("OptionAllowed accepted a non-option for singleChoice")
	}
}

func TestOptionAllowed(t *testing.T) {
	var setting, career Question
	for _, q := range Catalog("en") {
		switch q.ID {
		case "collegeSetting":
			setting = q
		case "careerGoals":
			career = q
		}
	}
	if !OptionAllowed(setting, "Urban") {
		t.Fatal("declared option rejected")
	}
	if OptionAllowed(setting, "urban") {
		t.Fatal("membership must be exact")
	}
	if !OptionAllowed(career, "anything at all") {
		t.Fatal("free text must always be allowed")
	}
}

func TestFlowRequiresHydration(t *testing.T) {
	s := appdata.New(storage.NewMemoryKV(), NewLocalAuthGateway())
	if _, err := NewQuestionnaireFlow(s, "en"); err == nil {
		t.Fatal("flow creation must fail before hydration")
	}
}
