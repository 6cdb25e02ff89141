package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pharmalink/go-pharmacy-client/api"
	"github.com/pharmalink/go-pharmacy-client/appstate"
	"github.com/pharmalink/go-pharmacy-client/cookies"
	"github.com/pharmalink/go-pharmacy-client/httpclient"
	"github.com/pharmalink/go-pharmacy-client/prefs/storefake"
	"github.com/pharmalink/go-pharmacy-client/session"
	"github.com/pharmalink/go-pharmacy-client/users"
)

type testConfig struct {
	baseURL string
}

func (c testConfig) GetBaseURL() string                    { return c.baseURL }
func (c testConfig) GetRequestTimeout() time.Duration      { return 5 * time.Second }
func (c testConfig) GetRefreshPath() string                { return "/user/refresh" }
func (c testConfig) GetSessionCookieName() string          { return "test_session" }
func (c testConfig) GetSessionCookieExpiry() time.Duration { return 30 * 24 * time.Hour }

type stubNavigator struct{ path string }

func (n *stubNavigator) Replace(path string) { n.path = path }
func (n *stubNavigator) Push(path string)    { n.path = path }
func (n *stubNavigator) Path() string        { return n.path }

type stubDevice struct{}

func (stubDevice) ID() (string, error) { return "device-test-1", nil }

func newPlainClient(t *testing.T, handler http.Handler) *httpclient.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	cfg := testConfig{baseURL: server.URL}

	mgr, err := session.NewManager(session.Deps{
		Jar:       cookies.NewMemoryJar(),
		Prefs:     storefake.NewFakeStore(),
		Navigator: &stubNavigator{path: "/"},
		Users:     users.NewStore(),
		Tokens:    appstate.NewHolder(),
	}, cfg)
	require.NoError(t, err)

	factory, err := httpclient.NewFactory(cfg, httpclient.Deps{
		Session: mgr,
		Tokens:  appstate.NewHolder(),
		Device:  stubDevice{},
	})
	require.NoError(t, err)
	return factory.Plain()
}

func TestListProductsSendsQuery(t *testing.T) {
	var gotQuery string
	client := newPlainClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/products", r.URL.Path)
		gotQuery = r.URL.RawQuery
		_ = json.NewEncoder(w).Encode(api.ProductPage{
			Products: []api.Product{{ID: "p1", Name: "Paracetamol 500mg", Price: 2.5, Stock: 40}},
			Total:    1,
			Page:     2,
		})
	}))

	page, err := api.ListProducts(context.Background(), client, api.ProductQuery{
		Search: "para",
		Page:   2,
	})
	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	require.Equal(t, "Paracetamol 500mg", page.Products[0].Name)
	require.Contains(t, gotQuery, "search=para")
	require.Contains(t, gotQuery, "page=2")
}

func TestPlaceOrderPostsItems(t *testing.T) {
	client := newPlainClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/orders", r.URL.Path)

		var req api.PlaceOrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Items, 2)

		_ = json.NewEncoder(w).Encode(api.Order{ID: "o1", Status: api.OrderPlaced, Total: 15.5})
	}))

	order, err := api.PlaceOrder(context.Background(), client, api.PlaceOrderRequest{
		Items: []api.OrderItem{
			{ProductID: "p1", Quantity: 2},
			{ProductID: "p2", Quantity: 1},
		},
	})
	require.NoError(t, err)
	require.Equal(t, api.OrderPlaced, order.Status)
}

func TestSignInDecodesTokenPairAndUser(t *testing.T) {
	client := newPlainClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/user/signin", r.URL.Path)

		var creds api.Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		require.Equal(t, "jo@pharmacy.example", creds.Email)

		_ = json.NewEncoder(w).Encode(api.SignInResponse{
			AccessToken:  "A1",
			RefreshToken: "R1",
			User:         users.Profile{ID: "user-1", Role: users.RoleRetailer},
		})
	}))

	resp, err := api.SignIn(context.Background(), client, api.Credentials{
		Email:    "jo@pharmacy.example",
		Password: "secret",
	})
	require.NoError(t, err)
	require.Equal(t, "A1", resp.AccessToken)
	require.Equal(t, "R1", resp.RefreshToken)
	require.Equal(t, users.RoleRetailer, resp.User.Role)
}

func TestCurrentUserErrorsCarryStatus(t *testing.T) {
	client := newPlainClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))

	_, err := api.CurrentUser(context.Background(), client)
	require.Error(t, err)
	require.True(t, httpclient.IsStatus(err, http.StatusForbidden))
}
