package dto

import "time"

// SignupRequest alta de una tienda nueva con su primer usuario DIRECTEUR.
type SignupRequest struct {
	TenantName string `json:"tenant_name"`
	Domain     string `json:"domain"` // slug opcional
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
}

// LoginRequest credenciales de acceso.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse token JWT más el usuario autenticado.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// SignupResponse tienda creada con su token de sesión inicial.
type SignupResponse struct {
	TenantID  string       `json:"tenant_id"`
	Token     string       `json:"token"`
	User      UserResponse `json:"user"`
	CreatedAt time.Time    `json:"created_at"`
}
