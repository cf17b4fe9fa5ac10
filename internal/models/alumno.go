package models

import "time"

// Alumno is a student record, optionally linked to a login account and a
// primary carrera.
type Alumno struct {
	ID        string  `db:"id" json:"id"`
	UsuarioID *string `db:"usuario_id" json:"usuario_id,omitempty"`
	Persona
	FechaNacimiento    *time.Time `db:"fecha_nacimiento" json:"fecha_nacimiento,omitempty"`
	CarreraPrincipalID *string    `db:"carrera_principal_id" json:"carrera_principal_id,omitempty"`
}

// AlumnoDetail enriches Alumno with carrera info for listings.
type AlumnoDetail struct {
	Alumno
	CarreraPrincipalNombre *string `db:"carrera_principal_nombre" json:"carrera_principal_nombre,omitempty"`
}

// AlumnoConNota is a roster row for a docente: the alumno plus their grade
// in the materia, when one exists.
type AlumnoConNota struct {
	Alumno
	Nota              *float64   `db:"nota" json:"nota,omitempty"`
	NotaObservaciones *string    `db:"nota_observaciones" json:"nota_observaciones,omitempty"`
	NotaFecha         *time.Time `db:"nota_fecha" json:"nota_fecha,omitempty"`
}
