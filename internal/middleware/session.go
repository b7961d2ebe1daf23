package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"finitefield.org/verinum-web/internal/observability"
	"finitefield.org/verinum-web/internal/wizard"
)

const defaultSessionCookieName = "VERINUM_SESSION"

// ErrInvalidSessionConfig indicates the store was built with missing or invalid keys.
var ErrInvalidSessionConfig = errors.New("session: invalid config")

// SessionData is the payload of the encrypted session cookie. Nothing is kept server side.
type SessionData struct {
	ID        string       `json:"id"`
	Locale    string       `json:"locale,omitempty"`
	CSRFToken string       `json:"csrf,omitempty"`
	Wizard    wizard.State `json:"wizard"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
	// internal dirty flag; not serialized
	dirty bool `json:"-"`
}

// SessionOptions configures a SessionStore.
type SessionOptions struct {
	CookieName string
	HashKey    []byte
	BlockKey   []byte
	Secure     bool
	Now        func() time.Time
}

// SessionStore encodes SessionData into an authenticated, encrypted cookie.
type SessionStore struct {
	name   string
	codec  *securecookie.SecureCookie
	secure bool
	now    func() time.Time
}

// NewSessionStore builds a store. The hash key authenticates the cookie, the block key encrypts it.
func NewSessionStore(opts SessionOptions) (*SessionStore, error) {
	if len(opts.HashKey) == 0 {
		return nil, fmt.Errorf("%w: hash key is required", ErrInvalidSessionConfig)
	}
	switch len(opts.BlockKey) {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: block key must be 16, 24 or 32 bytes", ErrInvalidSessionConfig)
	}
	if opts.CookieName == "" {
		opts.CookieName = defaultSessionCookieName
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	codec := securecookie.New(opts.HashKey, opts.BlockKey)
	codec.SetSerializer(securecookie.JSONEncoder{})
	return &SessionStore{
		name:   opts.CookieName,
		codec:  codec,
		secure: opts.Secure,
		now:    opts.Now,
	}, nil
}

// Secure reports whether cookies are flagged Secure.
func (s *SessionStore) Secure() bool { return s.secure }

// Session loads or initializes a session and stores it in request context.
// The cookie is rewritten just before the response header when the session changed.
func (s *SessionStore) Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sd, fromCookie := s.read(r)
		if sd.ID == "" {
			now := s.now().UTC()
			sd.ID = newSessionID()
			sd.CreatedAt = now
			sd.UpdatedAt = now
			sd.CSRFToken = newCSRFToken()
			sd.dirty = true
		}
		ctx := context.WithValue(r.Context(), ctxKeySession, sd)
		ctx = observability.WithLogger(ctx, loggerFrom(r).With(zap.String("session_id", sd.ID)))

		rw := NewResponseRecorder(w)
		rw.SetBeforeWrite(func(w http.ResponseWriter) {
			if sd.dirty || !fromCookie {
				s.write(w, r, sd)
			}
		})
		next.ServeHTTP(rw, r.WithContext(ctx))
		// If nothing was written yet (e.g., HEAD), persist cookie now
		if !rw.Wrote() && (sd.dirty || !fromCookie) {
			s.write(w, r, sd)
		}
	})
}

// GetSession returns session data from context
func GetSession(r *http.Request) *SessionData {
	if v := r.Context().Value(ctxKeySession); v != nil {
		if sd, ok := v.(*SessionData); ok {
			return sd
		}
	}
	return &SessionData{}
}

// MarkDirty flags the session for writing at end of request
func (s *SessionData) MarkDirty() { s.dirty = true; s.UpdatedAt = time.Now().UTC() }

// Dirty reports whether the session will be rewritten.
func (s *SessionData) Dirty() bool { return s.dirty }

// SetWizard replaces the wizard state and marks the session dirty.
func (s *SessionData) SetWizard(state wizard.State) {
	s.Wizard = state
	s.MarkDirty()
}

// RegenerateID assigns a new session ID and CSRF token, used when progress is discarded.
func (s *SessionData) RegenerateID() {
	s.ID = newSessionID()
	s.CSRFToken = newCSRFToken()
	s.MarkDirty()
}

func (s *SessionStore) read(r *http.Request) (*SessionData, bool) {
	c, err := r.Cookie(s.name)
	if err != nil || c.Value == "" {
		return &SessionData{}, false
	}
	var sd SessionData
	if err := s.codec.Decode(s.name, c.Value, &sd); err != nil {
		return &SessionData{}, false
	}
	return &sd, true
}

func (s *SessionStore) write(w http.ResponseWriter, r *http.Request, sd *SessionData) {
	encoded, err := s.codec.Encode(s.name, sd)
	if err != nil {
		loggerFrom(r).Error("session: encode failed", zap.Error(err))
		return
	}
	// no Expires: the cookie lives for the browser session only
	http.SetCookie(w, &http.Cookie{
		Name:     s.name,
		Value:    encoded,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func newSessionID() string {
	return ulid.Make().String()
}
