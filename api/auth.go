// Package api contains typed wrappers for the marketplace REST endpoints.
// Each call takes the client it should go through, so callers choose plain
// vs secured explicitly.
package api

import (
	"context"

	"github.com/pkg/errors"

	"github.com/pharmalink/go-pharmacy-client/httpclient"
	"github.com/pharmalink/go-pharmacy-client/users"
)

// Credentials are the interactive sign-in inputs.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignInResponse is the token pair plus the account record returned by the
// sign-in endpoint.
type SignInResponse struct {
	AccessToken  string        `json:"accessToken"`
	RefreshToken string        `json:"refreshToken"`
	User         users.Profile `json:"user"`
}

// SignIn exchanges credentials for a token pair. Goes through the plain
// client: there is no bearer token yet.
func SignIn(ctx context.Context, client *httpclient.Client, creds Credentials) (SignInResponse, error) {
	var resp SignInResponse
	if err := client.PostJSON(ctx, "/user/signin", creds, &resp); err != nil {
		return SignInResponse{}, errors.Wrap(err, "[SignIn] POST /user/signin")
	}
	return resp, nil
}

// SignOut tells the server to invalidate the session. Best-effort: local
// sign-out does not depend on it succeeding.
func SignOut(ctx context.Context, client *httpclient.Client) error {
	if err := client.PostJSON(ctx, "/user/signout", nil, nil); err != nil {
		return errors.Wrap(err, "[SignOut] POST /user/signout")
	}
	return nil
}

// CurrentUser fetches the signed-in user's profile through the secured
// client.
func CurrentUser(ctx context.Context, client *httpclient.Client) (users.Profile, error) {
	var profile users.Profile
	if err := client.GetJSON(ctx, "/user", nil, &profile); err != nil {
		return users.Profile{}, errors.Wrap(err, "[CurrentUser] GET /user")
	}
	return profile, nil
}
