package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/SebasM79/gestion-academica/internal/models"
)

// AsignacionRepository handles the docente to materia assignment table.
type AsignacionRepository struct {
	db *sqlx.DB
}

// NewAsignacionRepository constructs the repository.
func NewAsignacionRepository(db *sqlx.DB) *AsignacionRepository {
	return &AsignacionRepository{db: db}
}

// Existe reports whether the docente is assigned to the materia. Every
// docente-facing grade and roster operation gates on this.
func (r *AsignacionRepository) Existe(ctx context.Context, docenteID, materiaID string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM asignaciones_docente WHERE docente_id = $1 AND materia_id = $2)`
	var existe bool
	if err := r.db.GetContext(ctx, &existe, query, docenteID, materiaID); err != nil {
		return false, fmt.Errorf("check asignacion: %w", err)
	}
	return existe, nil
}

// Create assigns a docente to a materia.
func (r *AsignacionRepository) Create(ctx context.Context, docenteID, materiaID string) error {
	const query = `INSERT INTO asignaciones_docente (id, docente_id, materia_id, created_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (docente_id, materia_id) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, uuid.NewString(), docenteID, materiaID, time.Now().UTC()); err != nil {
		return fmt.Errorf("create asignacion: %w", err)
	}
	return nil
}

// Delete removes an assignment.
func (r *AsignacionRepository) Delete(ctx context.Context, docenteID, materiaID string) error {
	const query = `DELETE FROM asignaciones_docente WHERE docente_id = $1 AND materia_id = $2`
	if _, err := r.db.ExecContext(ctx, query, docenteID, materiaID); err != nil {
		return fmt.Errorf("delete asignacion: %w", err)
	}
	return nil
}

// ListMateriasByDocente returns the materias assigned to a docente, with the
// count of active enrollments in each.
func (r *AsignacionRepository) ListMateriasByDocente(ctx context.Context, docenteID string) ([]models.MateriaConAlumnos, error) {
	const query = `SELECT m.id, m.nombre, m.horario, m.cupo, m.carrera_id, c.nombre AS carrera_nombre,
        COALESCE((SELECT COUNT(*) FROM inscripciones_materia im WHERE im.materia_id = m.id AND im.activa), 0) AS total_alumnos
        FROM asignaciones_docente ad
        JOIN materias m ON m.id = ad.materia_id
        JOIN carreras c ON c.id = m.carrera_id
        WHERE ad.docente_id = $1
        ORDER BY m.nombre`
	var materias []models.MateriaConAlumnos
	if err := r.db.SelectContext(ctx, &materias, query, docenteID); err != nil {
		return nil, fmt.Errorf("list materias by docente: %w", err)
	}
	return materias, nil
}
