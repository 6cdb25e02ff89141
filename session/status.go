package session

// Status is the session lifecycle state. Every process starts in
// StatusLoading; Bootstrap resolves it exactly once to authenticated or
// unauthenticated, and it never returns to loading afterwards.
type Status string

const (
	StatusLoading         Status = "loading"
	StatusAuthenticated   Status = "authenticated"
	StatusUnauthenticated Status = "unauthenticated"
)

// Well-known client routes.
const (
	HomePath   = "/"
	SignInPath = "/signin"
)

// authPages are exempt from the redirect-to-sign-in rule: a signed-out user
// is allowed to be on them.
var authPages = map[string]struct{}{
	SignInPath:         {},
	"/signup":          {},
	"/verify-email":    {},
	"/forgot-password": {},
	"/reset-password":  {},
}

// IsAuthPage reports whether path is one of the unauthenticated-only pages.
func IsAuthPage(path string) bool {
	_, ok := authPages[path]
	return ok
}
