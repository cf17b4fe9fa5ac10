package models

import "time"

// Cargo distinguishes staff roles within Personal.
type Cargo string

const (
	CargoAdmin     Cargo = "ADMIN"
	CargoDocente   Cargo = "DOCENTE"
	CargoPreceptor Cargo = "PRECEPTOR"
)

// Valid reports whether the cargo is one of the known staff roles.
func (c Cargo) Valid() bool {
	switch c {
	case CargoAdmin, CargoDocente, CargoPreceptor:
		return true
	}
	return false
}

// Personal is a staff record (administrativo, docente o preceptor).
type Personal struct {
	ID        string  `db:"id" json:"id"`
	UsuarioID *string `db:"usuario_id" json:"usuario_id,omitempty"`
	Persona
	Cargo Cargo `db:"cargo" json:"cargo"`
}

// AsignacionDocente links a docente to a materia. Only Personal with cargo
// DOCENTE may hold assignments; the pair (docente, materia) is unique.
type AsignacionDocente struct {
	ID        string    `db:"id" json:"id"`
	DocenteID string    `db:"docente_id" json:"docente_id"`
	MateriaID string    `db:"materia_id" json:"materia_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
