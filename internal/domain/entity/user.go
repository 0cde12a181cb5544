package entity

import "time"

// User perfil del huésped creado en el registro. AuthIdentity es el uid del proveedor de identidad
// y es el valor que guardan las reservas en UserRef.
type User struct {
	ID           string
	AuthIdentity string
	Email        string
	DisplayName  string
	CreatedAt    time.Time
}

// Credential credencial local del proveedor de identidad (email + hash bcrypt).
type Credential struct {
	UID          string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Session sesión activa emitida por el proveedor de identidad.
type Session struct {
	UID       string
	Email     string
	Token     string
	TokenID   string
	ExpiresAt time.Time
}
