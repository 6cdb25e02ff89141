package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/pkg/errors"

	"github.com/pharmalink/go-pharmacy-client/httpclient"
)

// Product is a storefront listing.
type Product struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	GenericName  string  `json:"generic_name,omitempty"`
	Manufacturer string  `json:"manufacturer,omitempty"`
	CategoryID   string  `json:"category_id,omitempty"`
	SupplierID   string  `json:"supplier_id,omitempty"`
	Price        float64 `json:"price"`
	Stock        int     `json:"stock"`
	ImageURL     string  `json:"image_url,omitempty"`
	Prescription bool    `json:"prescription,omitempty"`
}

// ProductPage is one page of listings.
type ProductPage struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	PageSize int       `json:"page_size"`
}

// ProductQuery narrows a listing request. Zero values are omitted.
type ProductQuery struct {
	Search     string
	CategoryID string
	SupplierID string
	Page       int
	PageSize   int
}

func (q ProductQuery) values() url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.CategoryID != "" {
		v.Set("category", q.CategoryID)
	}
	if q.SupplierID != "" {
		v.Set("supplier", q.SupplierID)
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		v.Set("page_size", strconv.Itoa(q.PageSize))
	}
	return v
}

// ListProducts fetches a page of products matching the query.
func ListProducts(ctx context.Context, client *httpclient.Client, query ProductQuery) (ProductPage, error) {
	var page ProductPage
	if err := client.GetJSON(ctx, "/products", query.values(), &page); err != nil {
		return ProductPage{}, errors.Wrap(err, "[ListProducts] GET /products")
	}
	return page, nil
}

// GetProduct fetches a single product by id.
func GetProduct(ctx context.Context, client *httpclient.Client, id string) (Product, error) {
	var product Product
	if err := client.GetJSON(ctx, "/products/"+id, nil, &product); err != nil {
		return Product{}, errors.Wrap(err, "[GetProduct] GET /products/{id}")
	}
	return product, nil
}
