package rest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New()

func (c *Client) PlaceOrder(ctx context.Context, order OrderRequest) (*Order, error) {
	if err := validate.Struct(order); err != nil {
		return nil, fmt.Errorf("invalid order: %w", err)
	}
	if !order.Size.IsPositive() {
		return nil, fmt.Errorf("invalid order: size must be positive")
	}
	if order.Type == OrderTypeLimit && !order.Price.IsPositive() {
		return nil, fmt.Errorf("invalid order: limit orders need a positive price")
	}
	if order.ClientOID == uuid.Nil {
		order.ClientOID = uuid.New()
	}

	payload := orderPayload{
		ProductID:   order.ProductID,
		Side:        order.Side,
		Type:        order.Type,
		Size:        order.Size.String(),
		TimeInForce: order.TimeInForce,
		PostOnly:    order.PostOnly,
		ClientOID:   order.ClientOID.String(),
	}
	if order.Type == OrderTypeLimit {
		payload.Price = order.Price.String()
	}

	var placed Order
	if err := c.call(ctx, http.MethodPost, "/orders", payload, true, &placed); err != nil {
		return nil, err
	}
	return &placed, nil
}
