package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale es el registro inmutable de una venta completada. TotalAmount se
// calcula en el servidor al crearla (suma de subtotales) y no se recalcula
// después: es un registro histórico, sin updates ni deletes.
type Sale struct {
	ID          string
	TenantID    string
	UserID      string // vendedor que registró la venta
	TotalAmount decimal.Decimal
	CreatedAt   time.Time
}

// SaleItem es una línea de venta. Price es la foto del precio unitario al
// momento de la venta, desacoplada del precio actual del producto para que el
// histórico no se altere retroactivamente.
type SaleItem struct {
	ID        string
	SaleID    string
	ProductID string
	Quantity  int64 // > 0
	Price     decimal.Decimal
}
