package services

import (
	"context"
	"math"

	"github.com/gatorguide/gatorguide/internal/appdata"
	"github.com/gatorguide/gatorguide/internal/utils"
)

type QuestionKind string

const (
	QuestionText         QuestionKind = "text"
	QuestionLongText     QuestionKind = "longText"
	QuestionSingleChoice QuestionKind = "singleChoice"
)

// Question is one entry of the immutable catalog. Prompts and placeholders
// are localized at catalog build time; option values are canonical strings
// and stored verbatim as answers.
type Question struct {
	ID          string       `json:"id"`
	Prompt      string       `json:"prompt"`
	Kind        QuestionKind `json:"kind"`
	Placeholder string       `json:"placeholder,omitempty"`
	Options     []string     `json:"options,omitempty"`
}

type catalogEntry struct {
	id          string
	kind        QuestionKind
	placeholder bool
	options     []string
}

var questionCatalog = []catalogEntry{
	{id: "volunteerActivities", kind: QuestionLongText, placeholder: true},
	{id: "extracurriculars", kind: QuestionLongText, placeholder: true},
	{id: "collegeSetting", kind: QuestionSingleChoice,
		options: []string{"Urban", "Suburban", "Rural", "No Preference"}},
	{id: "collegeSize", kind: QuestionSingleChoice,
		options: []string{"Small (< 5,000)", "Medium (5,000-15,000)", "Large (> 15,000)", "No Preference"}},
	{id: "environment", kind: QuestionSingleChoice,
		options: []string{"Research-focused", "Liberal Arts", "Technical/Engineering", "Pre-professional", "Mixed"}},
	{id: "programs", kind: QuestionLongText, placeholder: true},
	{id: "budget", kind: QuestionSingleChoice,
		options: []string{"< $20,000", "$20,000 - $40,000", "$40,000 - $60,000", "> $60,000", "Need financial aid"}},
	{id: "location", kind: QuestionText, placeholder: true},
	{id: "housingPreference", kind: QuestionSingleChoice,
		options: []string{"On-campus dormitory", "Off-campus apartment", "Commute from home", "No preference"}},
	{id: "careerGoals", kind: QuestionLongText, placeholder: true},
}

// Catalog returns the full ordered question list with prompts localized for
// the given locale.
func Catalog(locale string) []Question {
	out := make([]Question, 0, len(questionCatalog))
	for _, e := range questionCatalog {
		q := Question{
			ID:     e.id,
			Prompt: utils.T(locale, "questionnaire."+e.id),
			Kind:   e.kind,
		}
		if e.placeholder {
			q.Placeholder = utils.T(locale, "questionnaire."+e.id+".placeholder")
		}
		if len(e.options) > 0 {
			q.Options = append([]string(nil), e.options...)
		}
		out = append(out, q)
	}
	return out
}

// CatalogIDs returns the question ids in catalog order.
func CatalogIDs() []string {
	ids := make([]string, 0, len(questionCatalog))
	for _, e := range questionCatalog {
		ids = append(ids, e.id)
	}
	return ids
}

// BlankAnswers builds the all-empty answer template with exactly the catalog
// key set.
func BlankAnswers() appdata.Answers {
	out := make(appdata.Answers, len(questionCatalog))
	for _, e := range questionCatalog {
		out[e.id] = ""
	}
	return out
}

// OptionAllowed reports whether value is a declared option of q. Free-text
// kinds allow anything. The flow controller itself stays permissive (see
// Answer); this is the pure check callers use when they do want enforcement.
func OptionAllowed(q Question, value string) bool {
	if q.Kind != QuestionSingleChoice {
		return true
	}
	for _, opt := range q.Options {
		if opt == value {
			return true
		}
	}
	return false
}

// QuestionnaireFlow steps through the catalog one question at a time,
// collecting answers into a local draft that only reaches the app-data store
// at explicit save points (last-step Next, or SaveAndExit).
type QuestionnaireFlow struct {
	store     *appdata.Store
	questions []Question
	step      int
	draft     appdata.Answers
}

// NewQuestionnaireFlow builds a flow whose draft holds exactly the catalog
// keys: saved answers merged over the all-blank template. Requires a
// hydrated store so the draft cannot be clobbered by a late hydration.
func NewQuestionnaireFlow(store *appdata.Store, locale string) (*QuestionnaireFlow, error) {
	if !store.IsHydrated() {
		return nil, NewNotHydratedError("questionnaire opened before hydration")
	}
	draft := BlankAnswers()
	for id, v := range store.Snapshot().QuestionnaireAnswers {
		if _, ok := draft[id]; ok {
			draft[id] = v
		}
	}
	return &QuestionnaireFlow{
		store:     store,
		questions: Catalog(locale),
		draft:     draft,
	}, nil
}

// Step returns the zero-based current step.
func (f *QuestionnaireFlow) Step() int { return f.step }

// Len returns the number of questions.
func (f *QuestionnaireFlow) Len() int { return len(f.questions) }

// Current returns the question at the current step.
func (f *QuestionnaireFlow) Current() Question { return f.questions[f.step] }

// Progress returns the display percentage for the current step.
func (f *QuestionnaireFlow) Progress() int {
	return int(math.Round(float64(f.step+1) / float64(len(f.questions)) * 100))
}

// Draft returns a copy of the working answers.
func (f *QuestionnaireFlow) Draft() appdata.Answers {
	out := make(appdata.Answers, len(f.draft))
	for k, v := range f.draft {
		out[k] = v
	}
	return out
}

// Answer records a draft value for any catalog question, at any step.
// Single-choice membership is deliberately not enforced here; the stored
// value is whatever the caller provides, matching the shipped behavior.
func (f *QuestionnaireFlow) Answer(questionID, value string) error {
	if _, ok := f.draft[questionID]; !ok {
		return NewInvalidError("unknown question id: " + questionID)
	}
	f.draft[questionID] = value
	return nil
}

// Next advances one step without committing. On the last step it commits the
// draft and reports completion instead of advancing.
func (f *QuestionnaireFlow) Next(ctx context.Context) (done bool, err error) {
	if f.step < len(f.questions)-1 {
		f.step++
		return false, nil
	}
	if err := f.commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// Back steps backward without committing; at step 0 it reports exit. The
// draft is retained either way.
func (f *QuestionnaireFlow) Back() (exited bool) {
	if f.step > 0 {
		f.step--
		return false
	}
	return true
}

// SaveAndExit commits the draft from any step, so partial completion
// persists with the full key set.
func (f *QuestionnaireFlow) SaveAndExit(ctx context.Context) error {
	return f.commit(ctx)
}

func (f *QuestionnaireFlow) commit(ctx context.Context) error {
	if err := f.store.SetQuestionnaireAnswers(ctx, f.draft); err != nil {
		return NewNotHydratedError(err.Error())
	}
	return nil
}
