package entity

import "time"

// User representa un usuario del sistema. Pertenece a exactamente un Tenant y
// su TenantID nunca se reasigna. Email es único global (case-insensitive).
type User struct {
	ID           string
	TenantID     string
	Email        string
	PasswordHash string // bcrypt, nunca en claro después de persistir
	Name         string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
