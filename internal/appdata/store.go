package appdata

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/gatorguide/gatorguide/internal/storage"
)

// StorageKey is the single key the whole state record lives under.
const StorageKey = "gatorguide:appdata:v1"

// ErrNotHydrated is returned by every mutation issued before Hydrate has
// completed. The UI disables its controls until hydration; the store rejects
// early callers outright so a pre-hydration write can never be overwritten
// by the hydration read.
var ErrNotHydrated = errors.New("appdata: not hydrated")

// Credentials is what the UI collects on the auth screen.
type Credentials struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	IsSignUp bool   `json:"isSignUp"`
}

// AuthUser is the identity the authentication gateway resolves.
type AuthUser struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// AuthGateway is the slice of the authentication boundary the store needs.
type AuthGateway interface {
	SignIn(ctx context.Context, creds Credentials) (*AuthUser, error)
}

// UserPatch is a shallow merge into the current user; nil fields are left
// untouched. UID and email are not patchable, they only change via sign-in.
type UserPatch struct {
	Name            *string
	Major           *string
	GPA             *string
	SAT             *string
	ACT             *string
	Resume          *string
	Transcript      *string
	ProfileComplete *bool
}

// Restore is the wholesale import payload. Pointer fields distinguish
// "absent" from zero values so missing fields default instead of zeroing.
type Restore struct {
	User                 *User   `json:"user"`
	QuestionnaireAnswers Answers `json:"questionnaireAnswers"`
	NotificationsEnabled *bool   `json:"notificationsEnabled"`
}

// Store is the single source of truth for the app data state. Lifecycle is
// strict hydrate-then-mutate: construct, Hydrate once, then mutate. Every
// mutation writes the whole state back to storage best-effort; persistence
// failures are logged and never surfaced.
type Store struct {
	mu       sync.RWMutex
	kv       storage.KV
	gateway  AuthGateway
	state    State
	hydrated bool

	idGen func() string
}

// New returns a store holding the default state, not yet hydrated.
func New(kv storage.KV, gateway AuthGateway) *Store {
	return &Store{
		kv:      kv,
		gateway: gateway,
		state:   defaultState(),
		idGen:   func() string { return strings.ReplaceAll(uuid.NewString(), "-", "")[:12] },
	}
}

// Hydrate reads the persisted record once and replaces the in-memory state
// wholesale if it parses. Absent or corrupt records keep the defaults. The
// hydrated flag flips exactly once per store lifetime; later calls no-op.
func (s *Store) Hydrate(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hydrated {
		return
	}
	raw, ok, err := s.kv.Get(ctx, StorageKey)
	switch {
	case err != nil:
		log.Printf("appdata: hydrate read: %v", err)
	case ok:
		if st, derr := decodeState(raw); derr != nil {
			log.Printf("appdata: hydrate decode: %v", derr)
		} else {
			s.state = st
		}
	}
	s.hydrated = true
}

// IsHydrated reports whether the one-time hydration has completed.
func (s *Store) IsHydrated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hydrated
}

// Snapshot returns a deep copy of the current state for readers.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// persistLocked writes the whole current state back to storage. Best-effort:
// a failure only means a later launch may hydrate stale data.
func (s *Store) persistLocked(ctx context.Context) {
	raw, err := encodeState(s.state)
	if err != nil {
		log.Printf("appdata: persist encode: %v", err)
		return
	}
	if err := s.kv.Set(ctx, StorageKey, raw); err != nil {
		log.Printf("appdata: persist write: %v", err)
	}
}

// SignIn resolves the identity through the gateway, then applies the merge
// rule: a returned identity whose email matches the current user keeps every
// profile field and only refreshes uid and name, so re-authenticating never
// wipes a profile. Any other identity replaces the user with a fresh blank
// profile.
func (s *Store) SignIn(ctx context.Context, creds Credentials) (*User, error) {
	if !s.IsHydrated() {
		return nil, ErrNotHydrated
	}
	authUser, err := s.gateway.SignIn(ctx, creds)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if cur := s.state.User; cur != nil && strings.EqualFold(cur.Email, authUser.Email) {
		u := *cur
		u.UID = authUser.UID
		u.Name = authUser.Name
		s.state.User = &u
	} else {
		s.state.User = &User{
			UID:   authUser.UID,
			Name:  authUser.Name,
			Email: authUser.Email,
		}
	}
	s.persistLocked(ctx)
	u := *s.state.User
	return &u, nil
}

// SignInAsGuest synthesizes a local identity without touching the gateway.
func (s *Store) SignInAsGuest(ctx context.Context) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hydrated {
		return nil, ErrNotHydrated
	}
	uid := "guest-" + s.idGen()
	s.state.User = &User{
		UID:     uid,
		Name:    "Guest",
		Email:   uid + "@guest.gatorguide.app",
		IsGuest: true,
	}
	s.persistLocked(ctx)
	u := *s.state.User
	return &u, nil
}

// SignOut clears the user and deletes the persisted record outright. This is
// stronger than the normal write-back: the record is removed, not rewritten.
func (s *Store) SignOut(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hydrated {
		return ErrNotHydrated
	}
	s.state.User = nil
	if err := s.kv.Remove(ctx, StorageKey); err != nil {
		log.Printf("appdata: sign-out remove: %v", err)
	}
	return nil
}

// UpdateUser shallow-merges patch into the current user. A nil user is a
// silent no-op, matching the screen flows that may race a sign-out.
func (s *Store) UpdateUser(ctx context.Context, patch UserPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hydrated {
		return ErrNotHydrated
	}
	if s.state.User == nil {
		return nil
	}
	u := *s.state.User
	apply := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	apply(&u.Name, patch.Name)
	apply(&u.Major, patch.Major)
	apply(&u.GPA, patch.GPA)
	apply(&u.SAT, patch.SAT)
	apply(&u.ACT, patch.ACT)
	apply(&u.Resume, patch.Resume)
	apply(&u.Transcript, patch.Transcript)
	if patch.ProfileComplete != nil {
		u.ProfileComplete = *patch.ProfileComplete
	}
	s.state.User = &u
	s.persistLocked(ctx)
	return nil
}

// SetQuestionnaireAnswers replaces the answers wholesale. Callers fill
// unanswered catalog keys with empty strings first so the record always
// round-trips with the full key set.
func (s *Store) SetQuestionnaireAnswers(ctx context.Context, answers Answers) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hydrated {
		return ErrNotHydrated
	}
	next := make(Answers, len(answers))
	for k, v := range answers {
		next[k] = v
	}
	s.state.QuestionnaireAnswers = next
	s.persistLocked(ctx)
	return nil
}

// SetNotificationsEnabled records the notification preference.
func (s *Store) SetNotificationsEnabled(ctx context.Context, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hydrated {
		return ErrNotHydrated
	}
	s.state.NotificationsEnabled = enabled
	s.persistLocked(ctx)
	return nil
}

// RestoreData imports a whole state, defaulting any missing field rather
// than trusting the imported shape.
func (s *Store) RestoreData(ctx context.Context, data Restore) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hydrated {
		return ErrNotHydrated
	}
	st := defaultState()
	if data.User != nil {
		u := *data.User
		st.User = &u
	}
	if data.QuestionnaireAnswers != nil {
		st.QuestionnaireAnswers = make(Answers, len(data.QuestionnaireAnswers))
		for k, v := range data.QuestionnaireAnswers {
			st.QuestionnaireAnswers[k] = v
		}
	}
	if data.NotificationsEnabled != nil {
		st.NotificationsEnabled = *data.NotificationsEnabled
	}
	s.state = st
	s.persistLocked(ctx)
	return nil
}

// ClearAll resets to defaults and deletes the persisted record. Used by the
// account-deletion flow.
func (s *Store) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hydrated {
		return ErrNotHydrated
	}
	s.state = defaultState()
	if err := s.kv.Remove(ctx, StorageKey); err != nil {
		log.Printf("appdata: clear remove: %v", err)
	}
	return nil
}
