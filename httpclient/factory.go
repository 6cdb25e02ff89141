package httpclient

import (
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/pharmalink/go-pharmacy-client/appstate"
	"github.com/pharmalink/go-pharmacy-client/internal/config"
	"github.com/pharmalink/go-pharmacy-client/session"
)

// DeviceIDProvider supplies the stable device id sent with every request.
type DeviceIDProvider interface {
	ID() (string, error)
}

// Deps holds all collaborator dependencies for the Factory.
type Deps struct {
	Session *session.Manager
	Tokens  *appstate.Holder
	Device  DeviceIDProvider
}

// Factory builds the plain and secured clients. Client construction itself
// is cheap and stateless; the refresher is the one shared piece, so that
// every secured client ever built funnels concurrent 401s into the same
// single-flight refresh.
type Factory struct {
	cfg       config.ClientConfig
	deps      Deps
	refresher *Refresher
	logger    zerolog.Logger
}

// FactoryOption defines a function type to modify the Factory instance.
type FactoryOption func(*Factory)

// WithLogger sets the logger the factory hands to its clients.
func WithLogger(logger zerolog.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// NewFactory initializes a new client Factory with required dependencies.
func NewFactory(cfg config.ClientConfig, deps Deps, options ...FactoryOption) (*Factory, error) {
	if cfg == nil {
		return nil, errors.New("[NewFactory] client config is required")
	}
	if deps.Session == nil {
		return nil, errors.New("[NewFactory] session manager is required")
	}
	if deps.Tokens == nil {
		return nil, errors.New("[NewFactory] token holder is required")
	}
	if deps.Device == nil {
		return nil, errors.New("[NewFactory] device id provider is required")
	}

	f := &Factory{
		cfg:    cfg,
		deps:   deps,
		logger: zerolog.Nop(),
	}
	for _, opt := range options {
		opt(f)
	}

	f.refresher = NewRefresher(f.newClient(nil), deps.Session, deps.Tokens, cfg.GetRefreshPath(), f.logger)
	return f, nil
}

// Plain returns a client with the base config and device headers but no
// bearer credentials.
func (f *Factory) Plain() *Client {
	return f.newClient(nil)
}

// Secured returns a client that attaches the current access token at send
// time and recovers from a first 401 with one refresh-and-retry cycle.
func (f *Factory) Secured() *Client {
	return f.newClient(&authPolicy{tokens: f.deps.Tokens, refresher: f.refresher})
}

// Clients returns the plain and secured client as a pair, mirroring how
// page components consume them.
func (f *Factory) Clients() (plain, secured *Client) {
	return f.Plain(), f.Secured()
}

func (f *Factory) newClient(auth *authPolicy) *Client {
	return &Client{
		baseURL:    f.cfg.GetBaseURL(),
		httpClient: &http.Client{Timeout: f.cfg.GetRequestTimeout()},
		headers:    f.headerFunc(),
		auth:       auth,
		logger:     f.logger,
	}
}

// headerFunc builds the per-request header decorator. Both values are read
// at send time: the platform hint follows the current role.
func (f *Factory) headerFunc() headerFunc {
	return func(h http.Header) {
		if id, err := f.deps.Device.ID(); err == nil {
			h.Set("X-Device-ID", id)
		} else {
			f.logger.Warn().Err(err).Msg("device id unavailable")
		}
		h.Set("X-Platform", string(f.deps.Tokens.Platform()))
	}
}
