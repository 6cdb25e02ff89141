package session

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/pharmalink/go-pharmacy-client/appstate"
	"github.com/pharmalink/go-pharmacy-client/cookies"
	"github.com/pharmalink/go-pharmacy-client/internal/config"
	"github.com/pharmalink/go-pharmacy-client/prefs"
)

// RefreshTokenPrefKey is the preference-store key holding the canonical
// refresh token. The session cookie mirrors its value for synchronous reads.
const RefreshTokenPrefKey = "session.refresh_token"

// SessionValueProducer obtains the value to store in the session cookie,
// typically the refresh token returned by a sign-in or token-refresh call.
type SessionValueProducer func(ctx context.Context) (string, error)

// Deps holds all collaborator dependencies for the Manager.
type Deps struct {
	Jar       cookies.Jar     // Browser-equivalent cookie jar
	Prefs     prefs.Store     // Durable preference store
	Navigator Navigator       // Client-side router
	Users     Resetter        // User-profile store, reset on sign-out
	Tokens    *appstate.Holder // In-memory access-token holder
}

// Manager owns the session state machine: status, cookie bookkeeping,
// sign-in/sign-out transitions, and their navigation side effects. All
// transitions run through a single transition func so entering a state
// carries its action exactly once no matter how many callers race into it.
type Manager struct {
	deps         Deps
	cookieName   string
	cookieExpiry time.Duration

	lock         sync.Mutex
	status       Status
	bootstrapped bool
	cookieList   []cookies.Cookie // non-session cookies, observable by UI

	logger  zerolog.Logger
	nowTime func() time.Time // nowTime function (injectable for testing)
}

// ManagerOption defines a function type to modify the Manager instance.
type ManagerOption func(*Manager)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowTime = nowFunc
	}
}

// WithLogger sets the logger used for transition and failure logging.
func WithLogger(logger zerolog.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager initializes a new session Manager with required dependencies.
func NewManager(deps Deps, cfg config.SessionConfig, options ...ManagerOption) (*Manager, error) {
	if deps.Jar == nil {
		return nil, errors.New("[NewManager] cookie jar is required")
	}
	if deps.Prefs == nil {
		return nil, errors.New("[NewManager] preference store is required")
	}
	if deps.Navigator == nil {
		return nil, errors.New("[NewManager] navigator is required")
	}
	if deps.Users == nil {
		return nil, errors.New("[NewManager] user store is required")
	}
	if deps.Tokens == nil {
		return nil, errors.New("[NewManager] token holder is required")
	}
	if cfg == nil {
		return nil, errors.New("[NewManager] session config is required")
	}

	m := &Manager{
		deps:         deps,
		cookieName:   cfg.GetSessionCookieName(),
		cookieExpiry: cfg.GetSessionCookieExpiry(),
		status:       StatusLoading,
		logger:       zerolog.Nop(),
		nowTime:      time.Now,
	}

	for _, opt := range options {
		opt(m)
	}

	return m, nil
}

// Status returns the current session status.
func (m *Manager) Status() Status {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.status
}

// Bootstrap resolves the initial session status. It runs its work once per
// process lifetime; later calls return the already-resolved status.
//
// The session cookie's presence is the authoritative signal. Because the
// in-memory jar starts empty on process start, the persisted refresh value
// is rehydrated into the jar first, which is what cookie persistence across
// reloads gives a browser for free.
func (m *Manager) Bootstrap() Status {
	m.lock.Lock()
	defer m.lock.Unlock()

	if m.bootstrapped {
		return m.status
	}
	m.bootstrapped = true

	if _, ok := m.deps.Jar.Get(m.cookieName); !ok {
		m.rehydrateSessionCookie()
	}

	if _, ok := m.deps.Jar.Get(m.cookieName); ok {
		m.transition(StatusAuthenticated)
	} else {
		m.transition(StatusUnauthenticated)
	}

	m.snapshotCookies()
	return m.status
}

// rehydrateSessionCookie mirrors the persisted refresh value back into the
// jar. A corrupt stored value resolves to unauthenticated rather than an
// error: the user can always sign in again.
func (m *Manager) rehydrateSessionCookie() {
	var value string
	found, err := m.deps.Prefs.Get(RefreshTokenPrefKey, &value)
	if err != nil {
		m.logger.Warn().Err(err).Msg("[Manager.Bootstrap] unreadable persisted session, treating as signed out")
		return
	}
	if !found || value == "" {
		return
	}
	m.deps.Jar.Set(cookies.Cookie{
		Name:    m.cookieName,
		Value:   value,
		Expires: m.nowTime().Add(m.cookieExpiry),
	})
}

// SignIn invokes producer to obtain a session value and, when it yields a
// non-empty string, writes the session cookie, persists the value, and
// flips the status to authenticated.
//
// A producer that errors or resolves empty is logged and swallowed: a failed
// sign-in attempt never evicts an already-valid session. Only SignOut or
// refresh exhaustion forces unauthenticated.
func (m *Manager) SignIn(ctx context.Context, producer SessionValueProducer, options ...SignInOption) {
	opts := signInOptions{
		expiry:   m.cookieExpiry,
		redirect: true,
	}
	for _, opt := range options {
		opt(&opts)
	}

	value, err := producer(ctx)
	if err != nil {
		m.logger.Warn().Err(err).Msg("[Manager.SignIn] session value producer failed")
		return
	}
	if value == "" {
		m.logger.Warn().Msg("[Manager.SignIn] session value producer returned empty value")
		return
	}

	m.lock.Lock()
	m.deps.Jar.Set(cookies.Cookie{
		Name:    m.cookieName,
		Value:   value,
		Expires: m.nowTime().Add(opts.expiry),
	})
	if err := m.deps.Prefs.Set(RefreshTokenPrefKey, value); err != nil {
		// The cookie mirror is in place, so the session works until the
		// next process restart. Worth surfacing loudly.
		m.logger.Error().Err(err).Msg("[Manager.SignIn] persisting refresh value failed")
	}
	m.transition(StatusAuthenticated)
	m.snapshotCookies()
	m.lock.Unlock()

	if opts.redirect {
		m.deps.Navigator.Replace(HomePath)
	}
}

// SignOut tears the session down: the user-profile store is reset first so
// no observer ever sees stale profile data alongside an unauthenticated
// status, then every cookie is deleted (a deliberate blunt-instrument
// logout), the persisted refresh value is removed, and the status flips.
// Idempotent.
func (m *Manager) SignOut() {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.deps.Users.Reset()
	m.deps.Tokens.ClearAccessToken()
	if err := m.deps.Prefs.Remove(RefreshTokenPrefKey); err != nil {
		m.logger.Warn().Err(err).Msg("[Manager.SignOut] removing persisted refresh value failed")
	}
	m.deps.Jar.Clear()
	m.cookieList = nil
	m.transition(StatusUnauthenticated)
}

// Cookie returns the named cookie from the jar. An empty name means the
// session cookie. The lookup is synchronous; no preference-store read.
func (m *Manager) Cookie(name string) (cookies.Cookie, bool) {
	if name == "" {
		name = m.cookieName
	}
	return m.deps.Jar.Get(name)
}

// Cookies returns the observable snapshot of non-session cookies taken at
// the last bootstrap or sign-in.
func (m *Manager) Cookies() []cookies.Cookie {
	m.lock.Lock()
	defer m.lock.Unlock()
	out := make([]cookies.Cookie, len(m.cookieList))
	copy(out, m.cookieList)
	return out
}

// transition moves the machine to the target status and runs that status's
// entry action. Re-entering the current status is a no-op, which is what
// makes concurrent sign-outs produce exactly one redirect. Callers hold the
// lock.
func (m *Manager) transition(to Status) {
	if m.status == to {
		return
	}
	from := m.status
	m.status = to
	m.logger.Debug().Str("from", string(from)).Str("to", string(to)).Msg("session status transition")

	if to == StatusUnauthenticated {
		m.onEnterUnauthenticated()
	}
}

// onEnterUnauthenticated redirects to the sign-in page unless the user is
// already on one of the auth pages.
func (m *Manager) onEnterUnauthenticated() {
	path := m.deps.Navigator.Path()
	if IsAuthPage(path) {
		return
	}
	m.deps.Navigator.Replace(SignInPath)
}

// snapshotCookies refreshes the observable list of non-session cookies.
// Callers hold the lock.
func (m *Manager) snapshotCookies() {
	list := m.deps.Jar.List()
	filtered := make([]cookies.Cookie, 0, len(list))
	for _, c := range list {
		if c.Name == m.cookieName {
			continue
		}
		filtered = append(filtered, c)
	}
	m.cookieList = filtered
}
