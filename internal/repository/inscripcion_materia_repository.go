package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/SebasM79/gestion-academica/internal/models"
)

// Sentinel outcomes of the enrollment transactions. The service layer maps
// them to user-facing errors.
var (
	ErrSinCupo      = errors.New("materia sin cupo")
	ErrYaInscripto  = errors.New("alumno ya inscripto")
	ErrNoInscripto  = errors.New("alumno no inscripto")
	ErrMateriaAjena = errors.New("materia de otra carrera")
	ErrMateriaNoHay = errors.New("materia inexistente")
)

// InscripcionMateriaRepository handles course enrollments, including the
// capacity-controlled transactions.
type InscripcionMateriaRepository struct {
	db *sqlx.DB
}

// NewInscripcionMateriaRepository constructs the repository.
func NewInscripcionMateriaRepository(db *sqlx.DB) *InscripcionMateriaRepository {
	return &InscripcionMateriaRepository{db: db}
}

// Inscribir enrolls the alumno in the materia. The materia row is locked
// FOR UPDATE so concurrent enrollments serialize on it: capacity is checked
// and decremented under the same lock, which keeps cupo from going negative.
// A previously withdrawn enrollment is reactivated instead of duplicated.
func (r *InscripcionMateriaRepository) Inscribir(ctx context.Context, alumnoID, materiaID, carreraPrincipalID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin inscripcion: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var materia models.Materia
	const lockMateria = `SELECT id, nombre, horario, cupo, carrera_id FROM materias WHERE id = $1 FOR UPDATE`
	if err := tx.GetContext(ctx, &materia, lockMateria, materiaID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrMateriaNoHay
		}
		return fmt.Errorf("lock materia: %w", err)
	}
	if materia.CarreraID != carreraPrincipalID {
		return ErrMateriaAjena
	}

	var activa bool
	const checkActiva = `SELECT EXISTS(SELECT 1 FROM inscripciones_materia WHERE alumno_id = $1 AND materia_id = $2 AND activa)`
	if err := tx.GetContext(ctx, &activa, checkActiva, alumnoID, materiaID); err != nil {
		return fmt.Errorf("check inscripcion activa: %w", err)
	}
	if activa {
		return ErrYaInscripto
	}
	if materia.Cupo <= 0 {
		return ErrSinCupo
	}

	now := time.Now().UTC()
	const reactivate = `UPDATE inscripciones_materia
        SET activa = TRUE, fecha_inscripcion = $3, fecha_baja = NULL
        WHERE alumno_id = $1 AND materia_id = $2 AND NOT activa`
	result, err := tx.ExecContext(ctx, reactivate, alumnoID, materiaID, now)
	if err != nil {
		return fmt.Errorf("reactivate inscripcion: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		const insert = `INSERT INTO inscripciones_materia (id, alumno_id, materia_id, activa, fecha_inscripcion)
            VALUES ($1, $2, $3, TRUE, $4)`
		if _, err := tx.ExecContext(ctx, insert, uuid.NewString(), alumnoID, materiaID, now); err != nil {
			return fmt.Errorf("insert inscripcion: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `UPDATE materias SET cupo = cupo - 1 WHERE id = $1`, materiaID); err != nil {
		return fmt.Errorf("decrement cupo: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit inscripcion: %w", err)
	}
	return nil
}

// DarDeBaja withdraws the alumno from the materia and frees one seat. The
// enrollment row is kept with activa = FALSE so a later re-enrollment
// reactivates it.
func (r *InscripcionMateriaRepository) DarDeBaja(ctx context.Context, alumnoID, materiaID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin baja: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const lockMateria = `SELECT id FROM materias WHERE id = $1 FOR UPDATE`
	var id string
	if err := tx.GetContext(ctx, &id, lockMateria, materiaID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrMateriaNoHay
		}
		return fmt.Errorf("lock materia: %w", err)
	}

	const revoke = `UPDATE inscripciones_materia
        SET activa = FALSE, fecha_baja = $3
        WHERE alumno_id = $1 AND materia_id = $2 AND activa`
	result, err := tx.ExecContext(ctx, revoke, alumnoID, materiaID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("revoke inscripcion: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNoInscripto
	}

	if _, err := tx.ExecContext(ctx, `UPDATE materias SET cupo = cupo + 1 WHERE id = $1`, materiaID); err != nil {
		return fmt.Errorf("increment cupo: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit baja: %w", err)
	}
	return nil
}

// ListActivasByAlumno returns the alumno's active enrollments.
func (r *InscripcionMateriaRepository) ListActivasByAlumno(ctx context.Context, alumnoID string) ([]models.InscripcionMateria, error) {
	const query = `SELECT id, alumno_id, materia_id, activa, fecha_inscripcion, fecha_baja
        FROM inscripciones_materia
        WHERE alumno_id = $1 AND activa
        ORDER BY fecha_inscripcion DESC`
	var inscripciones []models.InscripcionMateria
	if err := r.db.SelectContext(ctx, &inscripciones, query, alumnoID); err != nil {
		return nil, fmt.Errorf("list inscripciones by alumno: %w", err)
	}
	return inscripciones, nil
}

// CountActivas returns the number of active course enrollments.
func (r *InscripcionMateriaRepository) CountActivas(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM inscripciones_materia WHERE activa`); err != nil {
		return 0, fmt.Errorf("count inscripciones activas: %w", err)
	}
	return total, nil
}
