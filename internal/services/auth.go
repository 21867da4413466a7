package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/gatorguide/gatorguide/internal/appdata"
	"github.com/gatorguide/gatorguide/internal/utils"
)

// AuthGateway is the full authentication boundary. The app-data store only
// consumes the SignIn slice (appdata.AuthGateway); the rest serves the auth
// screens directly.
type AuthGateway interface {
	appdata.AuthGateway
	SendPasswordReset(ctx context.Context, email string) error
	SignOut(ctx context.Context) error
}

// Provider-defined auth error codes, surfaced to the caller for message
// mapping. The code set mirrors what the hosted identity provider emits.
const (
	AuthCodeUserNotFound    = "auth/user-not-found"
	AuthCodeWrongPassword   = "auth/wrong-password"
	AuthCodeEmailInUse      = "auth/email-already-in-use"
	AuthCodeInvalidEmail    = "auth/invalid-email"
	AuthCodeTooManyRequests = "auth/too-many-requests"
	AuthCodeNetwork         = "auth/network-request-failed"
)

// AuthError carries a provider-defined code alongside the raw message.
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string { return e.Message }

func newAuthError(code, msg string) error { return &AuthError{Code: code, Message: msg} }

var authMessageKeys = map[string]string{
	AuthCodeUserNotFound:    "auth.userNotFound",
	AuthCodeWrongPassword:   "auth.wrongPassword",
	AuthCodeEmailInUse:      "auth.emailInUse",
	AuthCodeInvalidEmail:    "auth.invalidEmail",
	AuthCodeTooManyRequests: "auth.rateLimited",
	AuthCodeNetwork:         "auth.network",
}

// AuthErrorMessage maps an auth failure to a localized user-facing message.
// Non-AuthError failures map to the generic network message.
func AuthErrorMessage(locale string, err error) string {
	var ae *AuthError
	if errors.As(err, &ae) {
		if key, ok := authMessageKeys[ae.Code]; ok {
			return utils.T(locale, key)
		}
	}
	return utils.T(locale, "auth.network")
}

type localAccount struct {
	uid      string
	name     string
	passHash []byte
}

// LocalAuthGateway is the on-device stand-in for the hosted identity
// provider: real bcrypt-verified accounts, kept in memory, with naive
// rate limiting on repeated failures. It lets the whole core run before
// the backend exists, which is also how the tests exercise auth flows.
type LocalAuthGateway struct {
	mu       sync.Mutex
	accounts map[string]*localAccount
	failures map[string][]time.Time

	now   func() time.Time
	idGen func(prefix string, n int) string
}

const (
	failureWindow = time.Minute
	failureLimit  = 5
)

func NewLocalAuthGateway() *LocalAuthGateway {
	return &LocalAuthGateway{
		accounts: map[string]*localAccount{},
		failures: map[string][]time.Time{},
		now:      func() time.Time { return time.Now().UTC() },
		idGen: func(prefix string, n int) string {
			return prefix + strings.ReplaceAll(uuid.NewString(), "-", "")[:n]
		},
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	at := strings.IndexByte(email, '@')
	return at > 0 && at < len(email)-1 && !strings.ContainsAny(email, " \t")
}

func (g *LocalAuthGateway) SignIn(_ context.Context, creds appdata.Credentials) (*appdata.AuthUser, error) {
	email := normalizeEmail(creds.Email)
	if !validEmail(email) {
		return nil, newAuthError(AuthCodeInvalidEmail, "invalid email: "+creds.Email)
	}
	if strings.TrimSpace(creds.Password) == "" {
		return nil, newAuthError(AuthCodeWrongPassword, "password required")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.rateLimitedLocked(email) {
		return nil, newAuthError(AuthCodeTooManyRequests, "too many failed attempts")
	}

	acct, exists := g.accounts[email]
	if creds.IsSignUp {
		if exists {
			return nil, newAuthError(AuthCodeEmailInUse, "email exists: "+email)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		acct = &localAccount{uid: g.idGen("u", 12), name: creds.Name, passHash: hash}
		g.accounts[email] = acct
		return &appdata.AuthUser{UID: acct.uid, Email: email, Name: acct.name}, nil
	}

	if !exists {
		g.recordFailureLocked(email)
		return nil, newAuthError(AuthCodeUserNotFound, "no account: "+email)
	}
	if err := bcrypt.CompareHashAndPassword(acct.passHash, []byte(creds.Password)); err != nil {
		g.recordFailureLocked(email)
		return nil, newAuthError(AuthCodeWrongPassword, "wrong password")
	}
	delete(g.failures, email)
	name := acct.name
	if creds.Name != "" {
		name = creds.Name
		acct.name = name
	}
	return &appdata.AuthUser{UID: acct.uid, Email: email, Name: name}, nil
}

func (g *LocalAuthGateway) SendPasswordReset(_ context.Context, email string) error {
	email = normalizeEmail(email)
	if !validEmail(email) {
		return newAuthError(AuthCodeInvalidEmail, "invalid email: "+email)
	}
	g.mu.Lock()
	_, exists := g.accounts[email]
	g.mu.Unlock()
	if !exists {
		return newAuthError(AuthCodeUserNotFound, "no account: "+email)
	}
	log.Printf("auth: password reset queued for %s", email)
	return nil
}

func (g *LocalAuthGateway) SignOut(context.Context) error {
	// The local gateway holds no server-side session.
	return nil
}

func (g *LocalAuthGateway) rateLimitedLocked(email string) bool {
	cutoff := g.now().Add(-failureWindow)
	recent := g.failures[email][:0]
	for _, ts := range g.failures[email] {
		if ts.After(cutoff) {
			recent = append(recent, ts)
		}
	}
	g.failures[email] = recent
	return len(recent) >= failureLimit
}

func (g *LocalAuthGateway) recordFailureLocked(email string) {
	g.failures[email] = append(g.failures[email], g.now())
}

var _ AuthGateway = (*LocalAuthGateway)(nil)
