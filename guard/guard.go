// Package guard gates every protected page. It blocks rendering until the
// session status resolves, fetches the user profile lazily once the session
// is authenticated, and applies the license/role redirect policy.
package guard

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/pharmalink/go-pharmacy-client/api"
	"github.com/pharmalink/go-pharmacy-client/httpclient"
	"github.com/pharmalink/go-pharmacy-client/session"
	"github.com/pharmalink/go-pharmacy-client/users"
)

// Pages users are parked on while license review is unresolved.
const (
	WaitingPath  = "/waiting"
	RejectedPath = "/rejected"
)

// DecisionState says what the consuming page should do.
type DecisionState string

const (
	// DecisionPending: status is still loading; render a placeholder, make
	// no redirect decisions yet.
	DecisionPending DecisionState = "pending"
	// DecisionAllow: render the page's own content.
	DecisionAllow DecisionState = "allow"
	// DecisionRedirect: navigation to Target was performed; render nothing.
	DecisionRedirect DecisionState = "redirect"
)

// Decision is the outcome of one guard evaluation.
type Decision struct {
	State  DecisionState
	Target string // set when State is DecisionRedirect
}

// Deps holds all collaborator dependencies for the Guard.
type Deps struct {
	Session   *session.Manager
	Users     *users.Store
	Secured   *httpclient.Client
	Navigator session.Navigator
}

// Guard evaluates the redirect policy for protected pages.
type Guard struct {
	deps   Deps
	logger zerolog.Logger
}

// GuardOption defines a function type to modify the Guard instance.
type GuardOption func(*Guard)

// WithLogger sets the guard's logger.
func WithLogger(logger zerolog.Logger) GuardOption {
	return func(g *Guard) {
		g.logger = logger
	}
}

// New initializes a Guard with required dependencies.
func New(deps Deps, options ...GuardOption) (*Guard, error) {
	if deps.Session == nil {
		return nil, errors.New("[guard.New] session manager is required")
	}
	if deps.Users == nil {
		return nil, errors.New("[guard.New] user store is required")
	}
	if deps.Secured == nil {
		return nil, errors.New("[guard.New] secured client is required")
	}
	if deps.Navigator == nil {
		return nil, errors.New("[guard.New] navigator is required")
	}

	g := &Guard{deps: deps, logger: zerolog.Nop()}
	for _, opt := range options {
		opt(g)
	}
	return g, nil
}

// Resolve evaluates the guard once for the current route. A returned error
// means "surface a notification to the user"; the decision still says what
// to render.
func (g *Guard) Resolve(ctx context.Context) (Decision, error) {
	switch g.deps.Session.Status() {
	case session.StatusLoading:
		// No decisions before bootstrap resolves: redirecting here would
		// race the cookie read.
		return Decision{State: DecisionPending}, nil

	case session.StatusUnauthenticated:
		if session.IsAuthPage(g.deps.Navigator.Path()) {
			return Decision{State: DecisionAllow}, nil
		}
		return g.redirect(session.SignInPath), nil

	default:
		return g.resolveAuthenticated(ctx)
	}
}

func (g *Guard) resolveAuthenticated(ctx context.Context) (Decision, error) {
	profile, loaded := g.deps.Users.Get()
	if !loaded {
		fetched, err := api.CurrentUser(ctx, g.deps.Secured)
		if err != nil {
			if httpclient.HasResponse(err) {
				// The server answered and rejected us: the session is bad.
				// Sign-out clears the access token and performs the
				// redirect as its transition action.
				g.logger.Warn().Err(err).Msg("[Guard.Resolve] profile fetch rejected, signing out")
				g.deps.Session.SignOut()
				return Decision{State: DecisionRedirect, Target: session.SignInPath}, err
			}
			// No response at all: the network is down, not the session.
			g.logger.Warn().Err(err).Msg("[Guard.Resolve] profile fetch failed without a response")
			return Decision{State: DecisionPending}, err
		}
		g.deps.Users.Set(fetched)
		profile = fetched
	}

	switch profile.LicenseStatus {
	case users.LicensePending:
		return g.redirect(WaitingPath), nil
	case users.LicenseRejected:
		return g.redirect(RejectedPath), nil
	}

	if section := profile.Role.SectionPath(); !g.inSection(section) {
		return g.redirect(section), nil
	}
	return Decision{State: DecisionAllow}, nil
}

// inSection reports whether the current path already lives under the role's
// section of the storefront.
func (g *Guard) inSection(section string) bool {
	path := g.deps.Navigator.Path()
	return path == section || strings.HasPrefix(path, section+"/")
}

// redirect navigates to target unless the user is already there. Skipping
// the matching path is what prevents redirect loops and redundant history
// entries.
func (g *Guard) redirect(target string) Decision {
	if g.deps.Navigator.Path() == target {
		return Decision{State: DecisionAllow}
	}
	g.deps.Navigator.Replace(target)
	return Decision{State: DecisionRedirect, Target: target}
}
