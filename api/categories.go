package api

import (
	"context"

	"github.com/pkg/errors"

	"github.com/pharmalink/go-pharmacy-client/httpclient"
)

// Category is a product category node. Categories form a shallow tree via
// ParentID.
type Category struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ParentID string `json:"parent_id,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

// ListCategories fetches all categories. Public endpoint; the plain client
// is enough.
func ListCategories(ctx context.Context, client *httpclient.Client) ([]Category, error) {
	var categories []Category
	if err := client.GetJSON(ctx, "/categories", nil, &categories); err != nil {
		return nil, errors.Wrap(err, "[ListCategories] GET /categories")
	}
	return categories, nil
}
