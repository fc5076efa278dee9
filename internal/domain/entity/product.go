package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product es un producto del catálogo de una tienda. Name es único por tenant
// (case-insensitive). Stock nunca es negativo: durante una venta solo se
// modifica vía el decremento condicional de ProductRepository.
type Product struct {
	ID        string
	TenantID  string
	Name      string
	Price     decimal.Decimal // precio de venta, > 0
	Stock     int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
