package httpclient

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/pharmalink/go-pharmacy-client/appstate"
	apperrors "github.com/pharmalink/go-pharmacy-client/internal/errors"
	"github.com/pharmalink/go-pharmacy-client/session"
)

// refreshKey is the singleflight group key; there is only ever one kind of
// refresh.
const refreshKey = "refresh"

// TokenPair is the access/refresh pair returned by the refresh endpoint.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Refresher rotates the token pair: it exchanges the current refresh value
// (read synchronously from the session cookie) for a new pair, stores the
// access token in the holder, and rotates the persisted session value.
//
// Concurrent 401s share one in-flight refresh through singleflight; callers
// arriving while a refresh is running await its result instead of issuing
// their own.
type Refresher struct {
	plain       *Client
	session     *session.Manager
	tokens      *appstate.Holder
	refreshPath string
	group       singleflight.Group
	logger      zerolog.Logger
}

func NewRefresher(plain *Client, sessionMgr *session.Manager, tokens *appstate.Holder, refreshPath string, logger zerolog.Logger) *Refresher {
	return &Refresher{
		plain:       plain,
		session:     sessionMgr,
		tokens:      tokens,
		refreshPath: refreshPath,
		logger:      logger,
	}
}

// Refresh performs (or joins) a token refresh and returns the new access
// token. Any failure is fatal for the session: the manager signs out and the
// error propagates to every waiting caller.
func (r *Refresher) Refresh(ctx context.Context) (string, error) {
	token, err, shared := r.group.Do(refreshKey, func() (any, error) {
		return r.refresh(ctx)
	})
	if err != nil {
		return "", err
	}
	if shared {
		r.logger.Debug().Msg("joined in-flight token refresh")
	}
	return token.(string), nil
}

func (r *Refresher) refresh(ctx context.Context) (string, error) {
	cookie, ok := r.session.Cookie("")
	if !ok || cookie.Value == "" {
		r.session.SignOut()
		return "", errors.Wrap(apperrors.ErrNoRefreshToken, "[Refresher.refresh] no session cookie")
	}

	// The refresh endpoint authenticates with the refresh value itself, not
	// the (possibly expired) access token, so it goes through the plain
	// client with an explicit bearer override.
	raw, err := r.plain.call(ctx, http.MethodGet, r.refreshPath, nil, nil, withBearer(cookie.Value))
	if err != nil {
		r.logger.Warn().Err(err).Msg("[Refresher.refresh] refresh endpoint failed, signing out")
		r.session.SignOut()
		return "", errors.Wrap(err, apperrors.ErrRefreshFailed.Error())
	}

	var pair TokenPair
	if err := decode(raw, &pair); err != nil {
		r.session.SignOut()
		return "", errors.Wrap(err, apperrors.ErrRefreshFailed.Error())
	}
	if pair.AccessToken == "" {
		r.session.SignOut()
		return "", errors.Wrap(apperrors.ErrRefreshFailed, "[Refresher.refresh] empty access token in response")
	}

	r.tokens.SetAccessToken(pair.AccessToken)

	// Rotate the persisted session value. No redirect: a background refresh
	// must not move the user off the page they are on.
	r.session.SignIn(ctx, func(context.Context) (string, error) {
		return pair.RefreshToken, nil
	}, session.WithRedirect(false))

	r.logger.Debug().Msg("access token refreshed")
	return pair.AccessToken, nil
}
