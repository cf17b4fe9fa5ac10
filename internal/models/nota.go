package models

import (
	"fmt"
	"time"
)

// Grade bounds. A nota below NotaAprobacion is a failing grade.
const (
	NotaMinima     = 1.0
	NotaMaxima     = 10.0
	NotaAprobacion = 6.0
)

// Nota is the single grade record for an (alumno, materia) pair, written by
// the docente assigned to the materia.
type Nota struct {
	ID                string    `db:"id" json:"id"`
	AlumnoID          string    `db:"alumno_id" json:"alumno_id"`
	MateriaID         string    `db:"materia_id" json:"materia_id"`
	ProfesorID        string    `db:"profesor_id" json:"profesor_id"`
	Nota              float64   `db:"nota" json:"nota"`
	Observaciones     string    `db:"observaciones" json:"observaciones"`
	FechaCreacion     time.Time `db:"fecha_creacion" json:"fecha_creacion"`
	FechaModificacion time.Time `db:"fecha_modificacion" json:"fecha_modificacion"`
}

// Validar enforces the model-level invariant on every save.
func (n *Nota) Validar() error {
	if n.Nota < NotaMinima || n.Nota > NotaMaxima {
		return fmt.Errorf("la nota debe estar entre %.2f y %.2f", NotaMinima, NotaMaxima)
	}
	return nil
}

// Aprobada reports whether the grade is a passing one.
func (n *Nota) Aprobada() bool {
	return n.Nota >= NotaAprobacion
}

// NotaDetail enriches Nota with materia and alumno info for listings.
type NotaDetail struct {
	Nota
	MateriaNombre  string `db:"materia_nombre" json:"materia_nombre"`
	AlumnoNombre   string `db:"alumno_nombre" json:"alumno_nombre"`
	AlumnoApellido string `db:"alumno_apellido" json:"alumno_apellido"`
	AlumnoDNI      string `db:"alumno_dni" json:"alumno_dni"`
	Aprobada       bool   `db:"-" json:"aprobada"`
}
