package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItemRequest una línea del carrito.
type SaleItemRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	Price     decimal.Decimal `json:"price"` // precio unitario propuesto; se valida, nunca se confía en el total del cliente
}

// CreateSaleRequest carrito a registrar como venta atómica.
type CreateSaleRequest struct {
	Items []SaleItemRequest `json:"items"`
}

// SaleItemResponse línea de una venta confirmada.
type SaleItemResponse struct {
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// SaleResponse venta confirmada con su total calculado en servidor.
type SaleResponse struct {
	ID          string             `json:"id"`
	TotalAmount decimal.Decimal    `json:"total_amount"`
	CreatedAt   time.Time          `json:"created_at"`
	Items       []SaleItemResponse `json:"items,omitempty"`
}
