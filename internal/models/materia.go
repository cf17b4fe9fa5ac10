package models

// Materia is a course. It belongs to exactly one carrera and carries a seat
// capacity (cupo) that must never go negative.
type Materia struct {
	ID        string `db:"id" json:"id"`
	Nombre    string `db:"nombre" json:"nombre"`
	Horario   string `db:"horario" json:"horario"`
	Cupo      int    `db:"cupo" json:"cupo"`
	CarreraID string `db:"carrera_id" json:"carrera_id"`
}

// MateriaDetail enriches Materia with carrera info.
type MateriaDetail struct {
	Materia
	CarreraNombre string `db:"carrera_nombre" json:"carrera_nombre"`
}

// MateriaConAlumnos adds the active enrollment count for admin listings.
type MateriaConAlumnos struct {
	MateriaDetail
	TotalAlumnos int `db:"total_alumnos" json:"total_alumnos"`
}

// MateriaParaAlumno flags whether the requesting alumno holds an active
// enrollment in the materia.
type MateriaParaAlumno struct {
	MateriaDetail
	Inscripto bool `db:"inscripto" json:"inscripto"`
}
