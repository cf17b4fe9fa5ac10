package models

import "time"

// EstadoRegistro is the approval state of a pending registration.
type EstadoRegistro string

const (
	EstadoPendiente EstadoRegistro = "PENDIENTE"
	EstadoAprobado  EstadoRegistro = "APROBADO"
	EstadoRechazado EstadoRegistro = "RECHAZADO"
)

// RolSolicitado is the account role an applicant requests.
type RolSolicitado string

const (
	RolAlumno   RolSolicitado = "ALUMNO"
	RolPersonal RolSolicitado = "PERSONAL"
)

// RegistroUsuario captures a self-service registration awaiting admin review.
// A registro may only transition PENDIENTE -> APROBADO or
// PENDIENTE -> RECHAZADO, exactly once.
type RegistroUsuario struct {
	ID string `db:"id" json:"id"`
	Persona
	UsuarioID           *string        `db:"usuario_id" json:"usuario_id,omitempty"`
	RolSolicitado       RolSolicitado  `db:"rol_solicitado" json:"rol_solicitado"`
	CargoSolicitado     Cargo          `db:"cargo_solicitado" json:"cargo_solicitado"`
	CarreraSolicitadaID *string        `db:"carrera_solicitada_id" json:"carrera_solicitada_id,omitempty"`
	Estado              EstadoRegistro `db:"estado" json:"estado"`
	CreadoEn            time.Time      `db:"creado_en" json:"creado_en"`
	AprobadoEn          *time.Time     `db:"aprobado_en" json:"aprobado_en,omitempty"`
	AprobadoPorID       *string        `db:"aprobado_por_id" json:"aprobado_por_id,omitempty"`
	ObservacionesAdmin  string         `db:"observaciones_admin" json:"observaciones_admin"`
}

// Pendiente reports whether the registro can still be approved or rejected.
func (r *RegistroUsuario) Pendiente() bool {
	return r.Estado == EstadoPendiente
}
