package api

import (
	"context"

	"github.com/pkg/errors"

	"github.com/pharmalink/go-pharmacy-client/httpclient"
)

// Wishlist fetches the signed-in user's wishlist.
func Wishlist(ctx context.Context, client *httpclient.Client) ([]Product, error) {
	var products []Product
	if err := client.GetJSON(ctx, "/wishlist", nil, &products); err != nil {
		return nil, errors.Wrap(err, "[Wishlist] GET /wishlist")
	}
	return products, nil
}

// AddToWishlist puts a product on the wishlist. Adding an already-listed
// product is a server-side no-op.
func AddToWishlist(ctx context.Context, client *httpclient.Client, productID string) error {
	body := map[string]string{"product_id": productID}
	if err := client.PostJSON(ctx, "/wishlist", body, nil); err != nil {
		return errors.Wrap(err, "[AddToWishlist] POST /wishlist")
	}
	return nil
}

// RemoveFromWishlist takes a product off the wishlist.
func RemoveFromWishlist(ctx context.Context, client *httpclient.Client, productID string) error {
	if err := client.DeleteJSON(ctx, "/wishlist/"+productID, nil); err != nil {
		return errors.Wrap(err, "[RemoveFromWishlist] DELETE /wishlist/{id}")
	}
	return nil
}
