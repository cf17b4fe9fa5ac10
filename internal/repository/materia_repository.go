package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/SebasM79/gestion-academica/internal/models"
)

// MateriaRepository handles persistence of materias.
type MateriaRepository struct {
	db *sqlx.DB
}

// NewMateriaRepository constructs the repository.
func NewMateriaRepository(db *sqlx.DB) *MateriaRepository {
	return &MateriaRepository{db: db}
}

const materiaDetailColumns = `m.id, m.nombre, m.horario, m.cupo, m.carrera_id, c.nombre AS carrera_nombre`

// List returns all materias with carrera info and the count of active
// enrollments, for the admin listing.
func (r *MateriaRepository) List(ctx context.Context) ([]models.MateriaConAlumnos, error) {
	query := fmt.Sprintf(`SELECT %s,
        COALESCE((SELECT COUNT(*) FROM inscripciones_materia im WHERE im.materia_id = m.id AND im.activa), 0) AS total_alumnos
        FROM materias m
        JOIN carreras c ON c.id = m.carrera_id
        ORDER BY c.nombre, m.nombre`, materiaDetailColumns)
	var materias []models.MateriaConAlumnos
	if err := r.db.SelectContext(ctx, &materias, query); err != nil {
		return nil, fmt.Errorf("list materias: %w", err)
	}
	return materias, nil
}

// ListByCarrera returns the materias of one carrera.
func (r *MateriaRepository) ListByCarrera(ctx context.Context, carreraID string) ([]models.MateriaDetail, error) {
	query := fmt.Sprintf(`SELECT %s FROM materias m
        JOIN carreras c ON c.id = m.carrera_id
        WHERE m.carrera_id = $1
        ORDER BY m.nombre`, materiaDetailColumns)
	var materias []models.MateriaDetail
	if err := r.db.SelectContext(ctx, &materias, query, carreraID); err != nil {
		return nil, fmt.Errorf("list materias by carrera: %w", err)
	}
	return materias, nil
}

// ListParaAlumno returns the materias of the alumno's carrera principal,
// each flagged with whether the alumno holds an active enrollment.
func (r *MateriaRepository) ListParaAlumno(ctx context.Context, carreraID, alumnoID string) ([]models.MateriaParaAlumno, error) {
	query := fmt.Sprintf(`SELECT %s,
        EXISTS(SELECT 1 FROM inscripciones_materia im WHERE im.materia_id = m.id AND im.alumno_id = $2 AND im.activa) AS inscripto
        FROM materias m
        JOIN carreras c ON c.id = m.carrera_id
        WHERE m.carrera_id = $1
        ORDER BY m.nombre`, materiaDetailColumns)
	var materias []models.MateriaParaAlumno
	if err := r.db.SelectContext(ctx, &materias, query, carreraID, alumnoID); err != nil {
		return nil, fmt.Errorf("list materias para alumno: %w", err)
	}
	return materias, nil
}

// FindByID returns a materia by its ID.
func (r *MateriaRepository) FindByID(ctx context.Context, id string) (*models.Materia, error) {
	const query = `SELECT id, nombre, horario, cupo, carrera_id FROM materias WHERE id = $1`
	var materia models.Materia
	if err := r.db.GetContext(ctx, &materia, query, id); err != nil {
		return nil, err
	}
	return &materia, nil
}

// Create persists a new materia.
func (r *MateriaRepository) Create(ctx context.Context, materia *models.Materia) error {
	if materia.ID == "" {
		materia.ID = uuid.NewString()
	}
	const query = `INSERT INTO materias (id, nombre, horario, cupo, carrera_id)
        VALUES (:id, :nombre, :horario, :cupo, :carrera_id)`
	if _, err := r.db.NamedExecContext(ctx, query, materia); err != nil {
		return fmt.Errorf("create materia: %w", err)
	}
	return nil
}

// CreateConAsignacion inserts a materia and assigns the docente to it in one
// transaction, for the docente self-service creation flow.
func (r *MateriaRepository) CreateConAsignacion(ctx context.Context, materia *models.Materia, docenteID string) error {
	if materia.ID == "" {
		materia.ID = uuid.NewString()
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create materia: %w", err)
	}
	const insertMateria = `INSERT INTO materias (id, nombre, horario, cupo, carrera_id)
        VALUES (:id, :nombre, :horario, :cupo, :carrera_id)`
	if _, err := tx.NamedExecContext(ctx, insertMateria, materia); err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("create materia: %w", err)
	}
	const insertAsignacion = `INSERT INTO asignaciones_docente (id, docente_id, materia_id, created_at)
        VALUES ($1, $2, $3, $4)`
	if _, err := tx.ExecContext(ctx, insertAsignacion, uuid.NewString(), docenteID, materia.ID, time.Now().UTC()); err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("asignar docente: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create materia: %w", err)
	}
	return nil
}

// Update replaces nombre, horario and cupo. The carrera of a materia is
// never changed after creation.
func (r *MateriaRepository) Update(ctx context.Context, materia *models.Materia) error {
	const query = `UPDATE materias SET nombre = :nombre, horario = :horario, cupo = :cupo WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, materia)
	if err != nil {
		return fmt.Errorf("update materia: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a materia together with its asignaciones and inscripciones.
func (r *MateriaRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM materias WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete materia: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Count returns the number of materias.
func (r *MateriaRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM materias`); err != nil {
		return 0, fmt.Errorf("count materias: %w", err)
	}
	return total, nil
}
