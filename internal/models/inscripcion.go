package models

import "time"

// InscripcionCarrera is the administrative, one-time enrollment of an alumno
// in a carrera. The pair (alumno, carrera) is unique and the fecha is
// immutable once recorded.
type InscripcionCarrera struct {
	ID               string    `db:"id" json:"id"`
	AlumnoID         string    `db:"alumno_id" json:"alumno_id"`
	CarreraID        string    `db:"carrera_id" json:"carrera_id"`
	ResponsableID    *string   `db:"responsable_id" json:"responsable_id,omitempty"`
	FechaInscripcion time.Time `db:"fecha_inscripcion" json:"fecha_inscripcion"`
}

// InscripcionCarreraDetail enriches the enrollment with display names.
type InscripcionCarreraDetail struct {
	InscripcionCarrera
	AlumnoNombre      string  `db:"alumno_nombre" json:"alumno_nombre"`
	AlumnoApellido    string  `db:"alumno_apellido" json:"alumno_apellido"`
	AlumnoDNI         string  `db:"alumno_dni" json:"alumno_dni"`
	CarreraNombre     string  `db:"carrera_nombre" json:"carrera_nombre"`
	ResponsableNombre *string `db:"responsable_nombre" json:"responsable_nombre,omitempty"`
}

// InscripcionMateria is a self-service, capacity-limited enrollment of an
// alumno in a materia. Withdrawal flips Activa instead of deleting the row,
// so (alumno, materia) stays unique and history is preserved.
type InscripcionMateria struct {
	ID               string     `db:"id" json:"id"`
	AlumnoID         string     `db:"alumno_id" json:"alumno_id"`
	MateriaID        string     `db:"materia_id" json:"materia_id"`
	Activa           bool       `db:"activa" json:"activa"`
	FechaInscripcion time.Time  `db:"fecha_inscripcion" json:"fecha_inscripcion"`
	FechaBaja        *time.Time `db:"fecha_baja" json:"fecha_baja,omitempty"`
}
