package api

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/pharmalink/go-pharmacy-client/httpclient"
)

// Ad is a supplier promotion slot shown on the storefront.
type Ad struct {
	ID         string    `json:"id"`
	SupplierID string    `json:"supplier_id"`
	Title      string    `json:"title"`
	ImageURL   string    `json:"image_url"`
	TargetURL  string    `json:"target_url,omitempty"`
	StartsAt   time.Time `json:"starts_at"`
	EndsAt     time.Time `json:"ends_at"`
	Active     bool      `json:"active"`
}

// ListAds fetches the currently active storefront ads.
func ListAds(ctx context.Context, client *httpclient.Client) ([]Ad, error) {
	var ads []Ad
	if err := client.GetJSON(ctx, "/ads", nil, &ads); err != nil {
		return nil, errors.Wrap(err, "[ListAds] GET /ads")
	}
	return ads, nil
}

// CreateAdRequest is the supplier-side ad submission payload.
type CreateAdRequest struct {
	Title     string    `json:"title"`
	ImageURL  string    `json:"image_url"`
	TargetURL string    `json:"target_url,omitempty"`
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
}

// CreateAd submits a new ad through the secured client. Supplier role only;
// the server enforces it.
func CreateAd(ctx context.Context, client *httpclient.Client, req CreateAdRequest) (Ad, error) {
	var ad Ad
	if err := client.PostJSON(ctx, "/ads", req, &ad); err != nil {
		return Ad{}, errors.Wrap(err, "[CreateAd] POST /ads")
	}
	return ad, nil
}
