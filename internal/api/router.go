package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gatorguide/gatorguide/internal/appdata"
	"github.com/gatorguide/gatorguide/internal/middleware"
	"github.com/gatorguide/gatorguide/internal/services"
	"github.com/gatorguide/gatorguide/internal/utils"
)

func sessionTTL() time.Duration {
	return utils.SafeEnvDuration("GATORGUIDE_SESSION_TTL", 24*time.Hour)
}

// Router exposes the app data store and the advising flows over HTTP.
type Router struct {
	store    *appdata.Store
	gateway  services.AuthGateway
	files    services.FileStore
	transfer *services.TransferService
}

func NewRouter(store *appdata.Store, gateway services.AuthGateway, files services.FileStore) *Router {
	return &Router{
		store:    store,
		gateway:  gateway,
		files:    files,
		transfer: services.NewTransferService(store),
	}
}

// Register mounts the API. Everything that reads or writes the persisted
// record requires a session token; only the auth entry points are open.
// RequireAuth relies on middleware.WithAuth running further out in the stack.
func (rt *Router) Register(mux *http.ServeMux) {
	authed := func(h http.HandlerFunc) http.Handler { return middleware.RequireAuth(h) }

	mux.HandleFunc("/api/auth/signin", rt.handleSignIn)              // POST
	mux.HandleFunc("/api/auth/guest", rt.handleGuest)                // POST
	mux.HandleFunc("/api/auth/reset", rt.handlePasswordReset)        // POST
	mux.Handle("/api/auth/signout", authed(rt.handleSignOut))        // POST
	mux.Handle("/api/profile", authed(rt.handleProfile))             // GET, PATCH
	mux.Handle("/api/profile/files", authed(rt.handleProfileFiles))  // POST
	mux.Handle("/api/questionnaire", authed(rt.handleQuestionnaire)) // GET, PUT
	mux.Handle("/api/notifications", authed(rt.handleNotifications)) // PUT
	mux.Handle("/api/export", authed(rt.handleExport))               // GET
	mux.Handle("/api/import", authed(rt.handleImport))               // POST
	mux.Handle("/api/clear", authed(rt.handleClear))                 // POST
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors onto HTTP statuses. Auth gateway errors keep
// their Firebase style code in the body so clients can branch on it; the
// message is localized for display.
func writeError(w http.ResponseWriter, locale string, err error) {
	var ae *services.AuthError
	if errors.As(err, &ae) {
		writeJSON(w, authStatus(ae.Code), map[string]string{
			"code":    ae.Code,
			"message": services.AuthErrorMessage(locale, ae),
		})
		return
	}
	if se, ok := services.AsServiceError(err); ok {
		writeJSON(w, serviceStatus(se.Code), map[string]string{
			"code":    string(se.Code),
			"message": se.Message,
		})
		return
	}
	if errors.Is(err, appdata.ErrNotHydrated) {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"code":    string(services.ErrorNotHydrated),
			"message": err.Error(),
		})
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func authStatus(code string) int {
	switch code {
	case services.AuthCodeUserNotFound, services.AuthCodeWrongPassword:
		return http.StatusUnauthorized
	case services.AuthCodeEmailInUse:
		return http.StatusConflict
	case services.AuthCodeTooManyRequests:
		return http.StatusTooManyRequests
	case services.AuthCodeNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusBadRequest
	}
}

func serviceStatus(code services.ErrorCode) int {
	switch code {
	case services.ErrorUnauthorized:
		return http.StatusUnauthorized
	case services.ErrorNotFound:
		return http.StatusNotFound
	case services.ErrorConflict:
		return http.StatusConflict
	case services.ErrorNotHydrated, services.ErrorUnavailable:
		return http.StatusServiceUnavailable
	case services.ErrorTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusBadRequest
	}
}

// POST /api/auth/signin
func (rt *Router) handleSignIn(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var creds appdata.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	user, err := rt.store.SignIn(r.Context(), creds)
	if err != nil {
		writeError(w, middleware.LocaleFromContext(r.Context()), err)
		return
	}
	tok, err := middleware.SignToken(user.UID, user.Email, false, sessionTTL())
	if err != nil {
		writeError(w, middleware.LocaleFromContext(r.Context()), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user, "token": tok})
}

// POST /api/auth/guest
func (rt *Router) handleGuest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !utils.SafeEnvBool("GATORGUIDE_ALLOW_GUESTS", true) {
		writeError(w, middleware.LocaleFromContext(r.Context()), services.NewUnauthorizedError("guest access is disabled"))
		return
	}
	user, err := rt.store.SignInAsGuest(r.Context())
	if err != nil {
		writeError(w, middleware.LocaleFromContext(r.Context()), err)
		return
	}
	tok, err := middleware.SignToken(user.UID, user.Email, true, sessionTTL())
	if err != nil {
		writeError(w, middleware.LocaleFromContext(r.Context()), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user, "token": tok})
}

// POST /api/auth/signout
func (rt *Router) handleSignOut(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	_ = rt.gateway.SignOut(r.Context())
	if err := rt.store.SignOut(r.Context()); err != nil {
		writeError(w, middleware.LocaleFromContext(r.Context()), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// POST /api/auth/reset
func (rt *Router) handlePasswordReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var body struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := rt.gateway.SendPasswordReset(r.Context(), body.Email); err != nil {
		writeError(w, middleware.LocaleFromContext(r.Context()), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// GET, PATCH /api/profile
func (rt *Router) handleProfile(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		snap := rt.store.Snapshot()
		if snap.User == nil {
			writeError(w, middleware.LocaleFromContext(r.Context()), services.NewUnauthorizedError("no signed-in user"))
			return
		}
		writeJSON(w, http.StatusOK, snap.User)
	case http.MethodPatch:
		var patch struct {
			Name            *string `json:"name"`
			Major           *string `json:"major"`
			GPA             *string `json:"gpa"`
			SAT             *string `json:"sat"`
			ACT             *string `json:"act"`
			ProfileComplete *bool   `json:"profileComplete"`
		}
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if patch.GPA != nil && !services.ValidGPA(*patch.GPA) {
			writeError(w, middleware.LocaleFromContext(r.Context()), services.NewInvalidError("gpa must be a number between 0.0 and 4.0"))
			return
		}
		if patch.SAT != nil && !services.ValidSAT(*patch.SAT) {
			writeError(w, middleware.LocaleFromContext(r.Context()), services.NewInvalidError("sat must be between 400 and 1600"))
			return
		}
		if patch.ACT != nil && !services.ValidACT(*patch.ACT) {
			writeError(w, middleware.LocaleFromContext(r.Context()), services.NewInvalidError("act must be between 1 and 36"))
			return
		}
		err := rt.store.UpdateUser(r.Context(), appdata.UserPatch{
			Name:            patch.Name,
			Major:           patch.Major,
			GPA:             patch.GPA,
			SAT:             patch.SAT,
			ACT:             patch.ACT,
			ProfileComplete: patch.ProfileComplete,
		})
		if err != nil {
			writeError(w, middleware.LocaleFromContext(r.Context()), err)
			return
		}
		writeJSON(w, http.StatusOK, rt.store.Snapshot().User)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// POST /api/profile/files
// Records a resume or transcript pick for the signed-in user and patches the
// matching profile field.
func (rt *Router) handleProfileFiles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	locale := middleware.LocaleFromContext(r.Context())
	snap := rt.store.Snapshot()
	if snap.User == nil {
		writeError(w, locale, services.NewUnauthorizedError("no signed-in user"))
		return
	}
	// A token from an earlier session may outlive a re-sign-in; uploads for
	// someone else's uid are refused.
	if claims, ok := middleware.ClaimsFromContext(r.Context()); !ok || claims.UID != snap.User.UID {
		writeError(w, locale, services.NewUnauthorizedError("session does not match the signed-in user"))
		return
	}
	var body struct {
		Kind     string `json:"kind"`
		Filename string `json:"filename"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	kind := services.FileKind(body.Kind)
	if kind != services.FileResume && kind != services.FileTranscript {
		writeError(w, locale, services.NewInvalidError("kind must be resume or transcript"))
		return
	}
	stored, err := rt.files.Upload(r.Context(), snap.User.UID, kind, body.Filename)
	if err != nil {
		writeError(w, locale, err)
		return
	}
	patch := appdata.UserPatch{}
	if kind == services.FileResume {
		patch.Resume = &stored.URL
	} else {
		patch.Transcript = &stored.URL
	}
	if err := rt.store.UpdateUser(r.Context(), patch); err != nil {
		writeError(w, locale, err)
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

// GET, PUT /api/questionnaire
func (rt *Router) handleQuestionnaire(w http.ResponseWriter, r *http.Request) {
	locale := middleware.LocaleFromContext(r.Context())
	switch r.Method {
	case http.MethodGet:
		snap := rt.store.Snapshot()
		answers := services.BlankAnswers()
		for id, v := range snap.QuestionnaireAnswers {
			if _, ok := answers[id]; ok {
				answers[id] = v
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"questions": services.Catalog(locale),
			"answers":   answers,
		})
	case http.MethodPut:
		var body appdata.Answers
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		answers := services.BlankAnswers()
		catalog := services.Catalog("en")
		for _, q := range catalog {
			v, ok := body[q.ID]
			if !ok {
				continue
			}
			if v != "" && !services.OptionAllowed(q, v) {
				writeError(w, locale, services.NewInvalidError("answer for "+q.ID+" is not one of its options"))
				return
			}
			answers[q.ID] = v
		}
		if err := rt.store.SetQuestionnaireAnswers(r.Context(), answers); err != nil {
			writeError(w, locale, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// PUT /api/notifications
func (rt *Router) handleNotifications(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var body struct {
		Enabled bool `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := rt.store.SetNotificationsEnabled(r.Context(), body.Enabled); err != nil {
		writeError(w, middleware.LocaleFromContext(r.Context()), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// GET /api/export?theme=xx
func (rt *Router) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	res, err := rt.transfer.Export(r.URL.Query().Get("theme"))
	if err != nil {
		writeError(w, middleware.LocaleFromContext(r.Context()), err)
		return
	}
	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+res.Filename+`"`)
	_, _ = w.Write(res.Data)
}

// POST /api/import?confirm=true
func (rt *Router) handleImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	confirmed := r.URL.Query().Get("confirm") == "true"
	if err := rt.transfer.Import(r.Context(), raw, confirmed); err != nil {
		writeError(w, middleware.LocaleFromContext(r.Context()), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// POST /api/clear
func (rt *Router) handleClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := rt.store.ClearAll(r.Context()); err != nil {
		writeError(w, middleware.LocaleFromContext(r.Context()), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
