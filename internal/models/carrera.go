package models

// Carrera is a major offered by the institution.
type Carrera struct {
	ID            string `db:"id" json:"id"`
	Nombre        string `db:"nombre" json:"nombre"`
	DuracionAnios int    `db:"duracion_anios" json:"duracion_anios"`
	Descripcion   string `db:"descripcion" json:"descripcion"`
}
