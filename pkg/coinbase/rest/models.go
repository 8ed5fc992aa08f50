package rest

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ServerTime struct {
	ISO   time.Time `json:"iso"`
	Epoch float64   `json:"epoch"`
}

type Account struct {
	ID             uuid.UUID       `json:"id"`
	Currency       string          `json:"currency"`
	Balance        decimal.Decimal `json:"balance"`
	Available      decimal.Decimal `json:"available"`
	Hold           decimal.Decimal `json:"hold"`
	ProfileID      string          `json:"profile_id"`
	TradingEnabled bool            `json:"trading_enabled"`
}

type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

type OrderType string

const (
	OrderTypeLimit  OrderType = "limit"
	OrderTypeMarket OrderType = "market"
)

// OrderRequest is a new order. ClientOID is generated when zero.
type OrderRequest struct {
	ProductID   string          `json:"product_id" validate:"required"`
	Side        Side            `json:"side" validate:"required,oneof=buy sell"`
	Type        OrderType       `json:"type" validate:"required,oneof=limit market"`
	Size        decimal.Decimal `json:"size"`
	Price       decimal.Decimal `json:"price"`
	TimeInForce string          `json:"time_in_force,omitempty" validate:"omitempty,oneof=GTC GTT IOC FOK"`
	PostOnly    bool            `json:"post_only,omitempty"`
	ClientOID   uuid.UUID       `json:"client_oid"`
}

// orderPayload is the wire form; zero decimals are omitted
type orderPayload struct {
	ProductID   string    `json:"product_id"`
	Side        Side      `json:"side"`
	Type        OrderType `json:"type"`
	Size        string    `json:"size,omitempty"`
	Price       string    `json:"price,omitempty"`
	TimeInForce string    `json:"time_in_force,omitempty"`
	PostOnly    bool      `json:"post_only,omitempty"`
	ClientOID   string    `json:"client_oid"`
}

type Order struct {
	ID         string          `json:"id"`
	ProductID  string          `json:"product_id"`
	Side       Side            `json:"side"`
	Type       OrderType       `json:"type"`
	Price      decimal.Decimal `json:"price"`
	Size       decimal.Decimal `json:"size"`
	FilledSize decimal.Decimal `json:"filled_size"`
	Status     string          `json:"status"`
	Settled    bool            `json:"settled"`
	CreatedAt  time.Time       `json:"created_at"`
	ClientOID  string          `json:"client_oid,omitempty"`
}
