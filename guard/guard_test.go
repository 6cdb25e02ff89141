package guard_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pharmalink/go-pharmacy-client/appstate"
	"github.com/pharmalink/go-pharmacy-client/cookies"
	"github.com/pharmalink/go-pharmacy-client/guard"
	"github.com/pharmalink/go-pharmacy-client/httpclient"
	"github.com/pharmalink/go-pharmacy-client/prefs/storefake"
	"github.com/pharmalink/go-pharmacy-client/session"
	"github.com/pharmalink/go-pharmacy-client/users"
)

const sessionCookie = "test_session"

type testConfig struct {
	baseURL string
}

func (c testConfig) GetBaseURL() string                    { return c.baseURL }
func (c testConfig) GetRequestTimeout() time.Duration      { return 5 * time.Second }
func (c testConfig) GetRefreshPath() string                { return "/user/refresh" }
func (c testConfig) GetSessionCookieName() string          { return sessionCookie }
func (c testConfig) GetSessionCookieExpiry() time.Duration { return 30 * 24 * time.Hour }

type fakeNavigator struct {
	path     string
	replaces []string
}

func (n *fakeNavigator) Replace(path string) {
	n.replaces = append(n.replaces, path)
	n.path = path
}

func (n *fakeNavigator) Push(path string) { n.Replace(path) }
func (n *fakeNavigator) Path() string     { return n.path }

type stubDevice struct{}

func (stubDevice) ID() (string, error) { return "device-test-1", nil }

type testFixture struct {
	server       *httptest.Server
	nav          *fakeNavigator
	jar          *cookies.MemoryJar
	tokens       *appstate.Holder
	users        *users.Store
	session      *session.Manager
	guard        *guard.Guard
	profile      users.Profile
	profileCode  atomic.Int64 // response status for GET /user, 0 means 200
	profileCalls atomic.Int64
}

func setupTestFixture(t *testing.T, startPath string, signedIn bool) *testFixture {
	t.Helper()

	f := &testFixture{
		nav:    &fakeNavigator{path: startPath},
		jar:    cookies.NewMemoryJar(),
		tokens: appstate.NewHolder(),
		users:  users.NewStore(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		f.profileCalls.Add(1)
		if code := f.profileCode.Load(); code != 0 {
			w.WriteHeader(int(code))
			return
		}
		_ = json.NewEncoder(w).Encode(f.profile)
	})
	mux.HandleFunc("/user/refresh", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(httpclient.TokenPair{AccessToken: "A2", RefreshToken: "R2"})
	})
	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)

	cfg := testConfig{baseURL: f.server.URL}

	mgr, err := session.NewManager(session.Deps{
		Jar:       f.jar,
		Prefs:     storefake.NewFakeStore(),
		Navigator: f.nav,
		Users:     f.users,
		Tokens:    f.tokens,
	}, cfg)
	require.NoError(t, err)
	f.session = mgr

	if signedIn {
		f.jar.Set(cookies.Cookie{Name: sessionCookie, Value: "R1"})
		f.tokens.SetAccessToken("A1")
	}

	factory, err := httpclient.NewFactory(cfg, httpclient.Deps{
		Session: mgr,
		Tokens:  f.tokens,
		Device:  stubDevice{},
	})
	require.NoError(t, err)

	g, err := guard.New(guard.Deps{
		Session:   mgr,
		Users:     f.users,
		Secured:   factory.Secured(),
		Navigator: f.nav,
	})
	require.NoError(t, err)
	f.guard = g

	return f
}

func approvedRetailer() users.Profile {
	return users.Profile{
		ID:            "user-1",
		Email:         "jo@pharmacy.example",
		Role:          users.RoleRetailer,
		LicenseStatus: users.LicenseApproved,
	}
}

func TestLoadingRendersPlaceholder(t *testing.T) {
	f := setupTestFixture(t, "/retailer", true)
	// No bootstrap: status is still loading.

	decision, err := f.guard.Resolve(context.Background())
	require.NoError(t, err)
	require.Equal(t, guard.DecisionPending, decision.State)
	require.Empty(t, f.nav.replaces)
}

func TestUnauthenticatedRedirectsToSignIn(t *testing.T) {
	f := setupTestFixture(t, "/retailer", false)
	f.session.Bootstrap()
	redirects := len(f.nav.replaces) // bootstrap's own transition redirect

	f.nav.path = "/retailer/orders"
	decision, err := f.guard.Resolve(context.Background())
	require.NoError(t, err)
	require.Equal(t, guard.DecisionRedirect, decision.State)
	require.Equal(t, session.SignInPath, decision.Target)
	require.Len(t, f.nav.replaces, redirects+1)
}

func TestUnauthenticatedOnAuthPageAllows(t *testing.T) {
	f := setupTestFixture(t, "/forgot-password", false)
	f.session.Bootstrap()

	decision, err := f.guard.Resolve(context.Background())
	require.NoError(t, err)
	require.Equal(t, guard.DecisionAllow, decision.State)
	require.Empty(t, f.nav.replaces)
}

func TestAuthenticatedFetchesProfileOnce(t *testing.T) {
	f := setupTestFixture(t, "/retailer", true)
	f.profile = approvedRetailer()
	f.session.Bootstrap()

	decision, err := f.guard.Resolve(context.Background())
	require.NoError(t, err)
	require.Equal(t, guard.DecisionAllow, decision.State)

	_, err = f.guard.Resolve(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 1, f.profileCalls.Load(), "profile fetched once per session")
}

func TestPendingLicenseRedirectsToWaiting(t *testing.T) {
	f := setupTestFixture(t, "/retailer", true)
	f.profile = approvedRetailer()
	f.profile.LicenseStatus = users.LicensePending
	f.session.Bootstrap()

	decision, err := f.guard.Resolve(context.Background())
	require.NoError(t, err)
	require.Equal(t, guard.DecisionRedirect, decision.State)
	require.Equal(t, guard.WaitingPath, decision.Target)
}

func TestPendingLicenseOnWaitingPageDoesNotNavigate(t *testing.T) {
	f := setupTestFixture(t, guard.WaitingPath, true)
	f.profile = approvedRetailer()
	f.profile.LicenseStatus = users.LicensePending
	f.session.Bootstrap()

	decision, err := f.guard.Resolve(context.Background())
	require.NoError(t, err)
	require.Equal(t, guard.DecisionAllow, decision.State)
	require.Empty(t, f.nav.replaces, "zero navigation calls when already on target")
}

func TestRejectedLicenseRedirects(t *testing.T) {
	f := setupTestFixture(t, "/retailer", true)
	f.profile = approvedRetailer()
	f.profile.LicenseStatus = users.LicenseRejected
	f.session.Bootstrap()

	decision, err := f.guard.Resolve(context.Background())
	require.NoError(t, err)
	require.Equal(t, guard.DecisionRedirect, decision.State)
	require.Equal(t, guard.RejectedPath, decision.Target)
}

func TestRoleMismatchRedirectsToOwnSection(t *testing.T) {
	f := setupTestFixture(t, "/supplier/ads", true)
	f.profile = approvedRetailer()
	f.session.Bootstrap()

	decision, err := f.guard.Resolve(context.Background())
	require.NoError(t, err)
	require.Equal(t, guard.DecisionRedirect, decision.State)
	require.Equal(t, "/retailer", decision.Target)
}

func TestSupplierAllowedInOwnSection(t *testing.T) {
	f := setupTestFixture(t, "/supplier/ads", true)
	f.profile = users.Profile{
		ID:            "sup-1",
		Role:          users.RoleSupplier,
		LicenseStatus: users.LicenseApproved,
	}
	f.session.Bootstrap()

	decision, err := f.guard.Resolve(context.Background())
	require.NoError(t, err)
	require.Equal(t, guard.DecisionAllow, decision.State)
}

func TestProfileFetchRejectionSignsOut(t *testing.T) {
	f := setupTestFixture(t, "/retailer", true)
	f.profileCode.Store(http.StatusForbidden)
	f.session.Bootstrap()

	decision, err := f.guard.Resolve(context.Background())
	require.Error(t, err)
	require.Equal(t, guard.DecisionRedirect, decision.State)
	require.Equal(t, session.StatusUnauthenticated, f.session.Status())
	require.Empty(t, f.tokens.AccessToken())
}

func TestProfileFetchNetworkErrorKeepsSession(t *testing.T) {
	f := setupTestFixture(t, "/retailer", true)
	f.session.Bootstrap()
	f.server.Close()

	decision, err := f.guard.Resolve(context.Background())
	require.Error(t, err)
	require.Equal(t, guard.DecisionPending, decision.State)
	require.Equal(t, session.StatusAuthenticated, f.session.Status(),
		"network trouble is not a bad session")
}
