package models

import "time"

// Usuario represents a login account stored in the usuarios table.
// The username is the DNI of the person that owns the account.
type Usuario struct {
	ID                  string     `db:"id" json:"id"`
	Username            string     `db:"username" json:"username"`
	PasswordHash        string     `db:"password_hash" json:"-"`
	Email               string     `db:"email" json:"email"`
	Activo              bool       `db:"activo" json:"activo"`
	EsAdmin             bool       `db:"es_admin" json:"es_admin"`
	DebeCambiarPassword bool       `db:"debe_cambiar_password" json:"debe_cambiar_password"`
	UltimoLogin         *time.Time `db:"ultimo_login" json:"ultimo_login,omitempty"`
	CreatedAt           time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at" json:"updated_at"`
}
