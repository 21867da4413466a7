package appdata

import (
	"encoding/json"
	"fmt"
)

// User is the signed-in identity plus the open set of profile fields the
// advising flows fill in. UID is immutable once assigned; guests carry a
// locally generated UID and a synthetic email.
type User struct {
	UID             string `json:"uid"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	IsGuest         bool   `json:"isGuest,omitempty"`
	Major           string `json:"major"`
	GPA             string `json:"gpa"`
	SAT             string `json:"sat"`
	ACT             string `json:"act"`
	Resume          string `json:"resume"`
	Transcript      string `json:"transcript"`
	ProfileComplete bool   `json:"profileComplete,omitempty"`
}

// Answers maps a question id from the fixed catalog to the user's answer.
type Answers map[string]string

// State is the aggregate the store owns and persists as a single record.
type State struct {
	User                 *User   `json:"user"`
	QuestionnaireAnswers Answers `json:"questionnaireAnswers"`
	NotificationsEnabled bool    `json:"notificationsEnabled"`
}

// storageVersion tags the persisted record so a future shape change can
// migrate instead of guessing. Records without a version are treated as v1.
const storageVersion = 1

type persistedRecord struct {
	Version              int     `json:"version"`
	User                 *User   `json:"user"`
	QuestionnaireAnswers Answers `json:"questionnaireAnswers"`
	NotificationsEnabled *bool   `json:"notificationsEnabled"`
}

func defaultState() State {
	return State{
		User:                 nil,
		QuestionnaireAnswers: Answers{},
		NotificationsEnabled: true,
	}
}

func (s State) clone() State {
	out := State{NotificationsEnabled: s.NotificationsEnabled}
	if s.User != nil {
		u := *s.User
		out.User = &u
	}
	out.QuestionnaireAnswers = make(Answers, len(s.QuestionnaireAnswers))
	for k, v := range s.QuestionnaireAnswers {
		out.QuestionnaireAnswers[k] = v
	}
	return out
}

func encodeState(s State) (string, error) {
	enabled := s.NotificationsEnabled
	rec := persistedRecord{
		Version:              storageVersion,
		User:                 s.User,
		QuestionnaireAnswers: s.QuestionnaireAnswers,
		NotificationsEnabled: &enabled,
	}
	b, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("encode state: %w", err)
	}
	return string(b), nil
}

// decodeState validates the persisted record shape and applies the defensive
// defaults for missing fields. Unknown future versions are rejected so a
// downgrade never misreads a newer record.
func decodeState(raw string) (State, error) {
	var rec persistedRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return State{}, fmt.Errorf("decode state: %w", err)
	}
	if rec.Version > storageVersion {
		return State{}, fmt.Errorf("decode state: unsupported version %d", rec.Version)
	}
	st := defaultState()
	st.User = rec.User
	if rec.QuestionnaireAnswers != nil {
		st.QuestionnaireAnswers = rec.QuestionnaireAnswers
	}
	if rec.NotificationsEnabled != nil {
		st.NotificationsEnabled = *rec.NotificationsEnabled
	}
	return st, nil
}
