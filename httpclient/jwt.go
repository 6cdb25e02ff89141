package httpclient

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// expirySkew treats a token expiring within this window as already expired,
// so a request does not race the clock on its way to the server.
const expirySkew = 10 * time.Second

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// tokenNeedsRefresh reports whether the held access token is certain to be
// rejected: it is a parseable JWT whose exp claim has passed. An empty or
// opaque token is sent as-is and left to the 401 path, which is the only
// judge that matters for those.
func tokenNeedsRefresh(token string) bool {
	if token == "" {
		return false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(NowTimeFunc().Add(expirySkew))
}
