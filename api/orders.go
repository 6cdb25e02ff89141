package api

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/pharmalink/go-pharmacy-client/httpclient"
)

// OrderStatus is the fulfilment state reported by the server.
type OrderStatus string

const (
	OrderPlaced    OrderStatus = "placed"
	OrderConfirmed OrderStatus = "confirmed"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// OrderItem is one product line in an order.
type OrderItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// Order is a placed order as returned by the API. Totals are computed
// server-side.
type Order struct {
	ID        string      `json:"id"`
	Items     []OrderItem `json:"items"`
	Status    OrderStatus `json:"status"`
	Total     float64     `json:"total"`
	PlacedAt  time.Time   `json:"placed_at"`
	UpdatedAt time.Time   `json:"updated_at,omitempty"`
}

// PlaceOrderRequest is the order submission payload.
type PlaceOrderRequest struct {
	Items   []OrderItem `json:"items"`
	Address string      `json:"address,omitempty"`
	Note    string      `json:"note,omitempty"`
}

// PlaceOrder submits an order through the secured client.
func PlaceOrder(ctx context.Context, client *httpclient.Client, req PlaceOrderRequest) (Order, error) {
	var order Order
	if err := client.PostJSON(ctx, "/orders", req, &order); err != nil {
		return Order{}, errors.Wrap(err, "[PlaceOrder] POST /orders")
	}
	return order, nil
}

// ListOrders fetches the signed-in user's orders, newest first.
func ListOrders(ctx context.Context, client *httpclient.Client, page, pageSize int) ([]Order, error) {
	v := url.Values{}
	if page > 0 {
		v.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		v.Set("page_size", strconv.Itoa(pageSize))
	}

	var orders []Order
	if err := client.GetJSON(ctx, "/orders", v, &orders); err != nil {
		return nil, errors.Wrap(err, "[ListOrders] GET /orders")
	}
	return orders, nil
}

// CancelOrder cancels a placed order that has not shipped yet.
func CancelOrder(ctx context.Context, client *httpclient.Client, id string) error {
	if err := client.PostJSON(ctx, "/orders/"+id+"/cancel", nil, nil); err != nil {
		return errors.Wrap(err, "[CancelOrder] POST /orders/{id}/cancel")
	}
	return nil
}
