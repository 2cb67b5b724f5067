// Package session maps authenticated members to opaque session tokens
// managed by an scs.SessionManager.
package session

import (
	"context"
	"encoding/gob"
	"fmt"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
)

// DefaultLifetime matches the idle timeout the web layer advertises.
const DefaultLifetime = 12 * time.Hour

// CookieName is the name of the session cookie.
const CookieName = "taskboard_session"

const (
	memberKey = "member_id"
	flashKey  = "flashes"
)

// Flash is a one-shot notification shown on the next rendered page.
// Kind is a style such as "success" or "danger".
type Flash struct {
	Kind    string
	Message string
}

func init() {
	gob.Register([]Flash{})
}

// Options configures session lifetime and the session cookie.
type Options struct {
	Lifetime     time.Duration
	CookieSecure bool
}

// Authenticator issues, resolves and revokes sessions. The token-based
// methods serve callers outside an HTTP request; the request-scoped ones
// work on a context loaded by Handler.
type Authenticator struct {
	manager *scs.SessionManager
}

// New returns an Authenticator persisting sessions in store.
func New(store scs.Store, opts Options) *Authenticator {
	if opts.Lifetime <= 0 {
		opts.Lifetime = DefaultLifetime
	}
	sm := scs.New()
	sm.Store = store
	sm.Lifetime = opts.Lifetime
	sm.Cookie.Name = CookieName
	sm.Cookie.HttpOnly = true
	sm.Cookie.Path = "/"
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = opts.CookieSecure
	return &Authenticator{manager: sm}
}

// Lifetime is how long a session stays valid after Login.
func (a *Authenticator) Lifetime() time.Duration {
	return a.manager.Lifetime
}

// Handler loads the session for each request and writes the cookie back.
func (a *Authenticator) Handler(next http.Handler) http.Handler {
	return a.manager.LoadAndSave(next)
}

// Login starts a session for memberID and returns its token. Call it only
// after the member's credentials were verified.
func (a *Authenticator) Login(ctx context.Context, memberID int64) (string, error) {
	if memberID <= 0 {
		return "", fmt.Errorf("login: invalid member id %d", memberID)
	}
	ctx, err := a.manager.Load(ctx, "")
	if err != nil {
		return "", fmt.Errorf("load session: %w", err)
	}
	a.manager.Put(ctx, memberKey, memberID)
	token, _, err := a.manager.Commit(ctx)
	if err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return token, nil
}

// CurrentActor resolves token to a member id. Unknown, expired and empty
// tokens resolve to false without error.
func (a *Authenticator) CurrentActor(ctx context.Context, token string) (int64, bool, error) {
	if token == "" {
		return 0, false, nil
	}
	ctx, err := a.manager.Load(ctx, token)
	if err != nil {
		return 0, false, fmt.Errorf("find session: %w", err)
	}
	id, ok := a.Actor(ctx)
	return id, ok, nil
}

// Logout revokes token. Revoking an unknown token is not an error.
func (a *Authenticator) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	ctx, err := a.manager.Load(ctx, token)
	if err != nil {
		return fmt.Errorf("find session: %w", err)
	}
	return a.manager.Destroy(ctx)
}

// Actor returns the member logged into the request's session.
func (a *Authenticator) Actor(ctx context.Context) (int64, bool) {
	id := a.manager.GetInt64(ctx, memberKey)
	return id, id > 0
}

// LoginRequest binds memberID to the request's session under a fresh token.
func (a *Authenticator) LoginRequest(ctx context.Context, memberID int64) error {
	if err := a.manager.RenewToken(ctx); err != nil {
		return fmt.Errorf("renew session: %w", err)
	}
	a.manager.Put(ctx, memberKey, memberID)
	return nil
}

// LogoutRequest destroys the request's session and expires its cookie.
func (a *Authenticator) LogoutRequest(ctx context.Context) error {
	return a.manager.Destroy(ctx)
}

// AddFlash queues a notification in the request's session.
func (a *Authenticator) AddFlash(ctx context.Context, kind, message string) {
	flashes, _ := a.manager.Get(ctx, flashKey).([]Flash)
	a.manager.Put(ctx, flashKey, append(flashes, Flash{Kind: kind, Message: message}))
}

// PopFlashes removes and returns the queued notifications.
func (a *Authenticator) PopFlashes(ctx context.Context) []Flash {
	flashes, _ := a.manager.Pop(ctx, flashKey).([]Flash)
	return flashes
}
