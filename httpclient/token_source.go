package httpclient

import (
	"context"

	"golang.org/x/oauth2"
)

// tokenSource adapts the holder and refresher to oauth2.TokenSource, for
// consumers that integrate with oauth2-aware libraries (e.g. to build an
// *http.Client via oauth2.NewClient).
type tokenSource struct {
	tokens    interface{ AccessToken() string }
	refresher *Refresher
}

var _ oauth2.TokenSource = (*tokenSource)(nil)

// TokenSource returns an oauth2.TokenSource backed by this factory's token
// holder and single-flight refresher.
func (f *Factory) TokenSource() oauth2.TokenSource {
	return &tokenSource{tokens: f.deps.Tokens, refresher: f.refresher}
}

// Token returns the current access token, refreshing first when the held one
// is absent or already expired.
func (ts *tokenSource) Token() (*oauth2.Token, error) {
	current := ts.tokens.AccessToken()
	if current != "" && !tokenNeedsRefresh(current) {
		return &oauth2.Token{AccessToken: current, TokenType: "Bearer"}, nil
	}

	fresh, err := ts.refresher.Refresh(context.Background())
	if err != nil {
		return nil, err
	}
	return &oauth2.Token{AccessToken: fresh, TokenType: "Bearer"}, nil
}
