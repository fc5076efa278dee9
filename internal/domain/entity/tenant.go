package entity

import "time"

// Tenant es una tienda: la frontera de aislamiento de datos. Name y Domain son
// únicos a nivel global; todo lo demás del sistema se compara por tenant.
type Tenant struct {
	ID        string
	Name      string
	Domain    string // slug opcional, único global si está presente
	CreatedAt time.Time
}
