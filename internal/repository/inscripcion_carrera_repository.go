package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/SebasM79/gestion-academica/internal/models"
)

// InscripcionCarreraRepository handles carrera enrollment records.
type InscripcionCarreraRepository struct {
	db *sqlx.DB
}

// NewInscripcionCarreraRepository constructs the repository.
func NewInscripcionCarreraRepository(db *sqlx.DB) *InscripcionCarreraRepository {
	return &InscripcionCarreraRepository{db: db}
}

// List returns every carrera enrollment with alumno, carrera and responsable
// names resolved.
func (r *InscripcionCarreraRepository) List(ctx context.Context) ([]models.InscripcionCarreraDetail, error) {
	const query = `SELECT ic.id, ic.alumno_id, ic.carrera_id, ic.responsable_id, ic.fecha_inscripcion,
        a.nombre AS alumno_nombre, a.apellido AS alumno_apellido, a.dni AS alumno_dni,
        c.nombre AS carrera_nombre,
        p.nombre || ' ' || p.apellido AS responsable_nombre
        FROM inscripciones_carrera ic
        JOIN alumnos a ON a.id = ic.alumno_id
        JOIN carreras c ON c.id = ic.carrera_id
        LEFT JOIN personal p ON p.id = ic.responsable_id
        ORDER BY ic.fecha_inscripcion DESC`
	var inscripciones []models.InscripcionCarreraDetail
	if err := r.db.SelectContext(ctx, &inscripciones, query); err != nil {
		return nil, fmt.Errorf("list inscripciones carrera: %w", err)
	}
	return inscripciones, nil
}

// Existe reports whether the alumno is already enrolled in the carrera.
func (r *InscripcionCarreraRepository) Existe(ctx context.Context, alumnoID, carreraID string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM inscripciones_carrera WHERE alumno_id = $1 AND carrera_id = $2)`
	var existe bool
	if err := r.db.GetContext(ctx, &existe, query, alumnoID, carreraID); err != nil {
		return false, fmt.Errorf("check inscripcion carrera: %w", err)
	}
	return existe, nil
}

// Create records a carrera enrollment.
func (r *InscripcionCarreraRepository) Create(ctx context.Context, inscripcion *models.InscripcionCarrera) error {
	if inscripcion.ID == "" {
		inscripcion.ID = uuid.NewString()
	}
	if inscripcion.FechaInscripcion.IsZero() {
		inscripcion.FechaInscripcion = time.Now().UTC()
	}
	const query = `INSERT INTO inscripciones_carrera (id, alumno_id, carrera_id, responsable_id, fecha_inscripcion)
        VALUES (:id, :alumno_id, :carrera_id, :responsable_id, :fecha_inscripcion)`
	if _, err := r.db.NamedExecContext(ctx, query, inscripcion); err != nil {
		return fmt.Errorf("create inscripcion carrera: %w", err)
	}
	return nil
}

// Count returns the number of carrera enrollments.
func (r *InscripcionCarreraRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM inscripciones_carrera`); err != nil {
		return 0, fmt.Errorf("count inscripciones carrera: %w", err)
	}
	return total, nil
}
