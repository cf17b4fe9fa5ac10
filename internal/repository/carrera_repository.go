package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/SebasM79/gestion-academica/internal/models"
)

// CarreraRepository handles persistence of carreras.
type CarreraRepository struct {
	db *sqlx.DB
}

// NewCarreraRepository constructs the repository.
func NewCarreraRepository(db *sqlx.DB) *CarreraRepository {
	return &CarreraRepository{db: db}
}

// List returns all carreras ordered by nombre.
func (r *CarreraRepository) List(ctx context.Context) ([]models.Carrera, error) {
	const query = `SELECT id, nombre, duracion_anios, descripcion FROM carreras ORDER BY nombre`
	var carreras []models.Carrera
	if err := r.db.SelectContext(ctx, &carreras, query); err != nil {
		return nil, fmt.Errorf("list carreras: %w", err)
	}
	return carreras, nil
}

// FindByID returns a carrera by its ID.
func (r *CarreraRepository) FindByID(ctx context.Context, id string) (*models.Carrera, error) {
	const query = `SELECT id, nombre, duracion_anios, descripcion FROM carreras WHERE id = $1`
	var carrera models.Carrera
	if err := r.db.GetContext(ctx, &carrera, query, id); err != nil {
		return nil, err
	}
	return &carrera, nil
}

// Create persists a new carrera.
func (r *CarreraRepository) Create(ctx context.Context, carrera *models.Carrera) error {
	if carrera.ID == "" {
		carrera.ID = uuid.NewString()
	}
	const query = `INSERT INTO carreras (id, nombre, duracion_anios, descripcion)
        VALUES (:id, :nombre, :duracion_anios, :descripcion)`
	if _, err := r.db.NamedExecContext(ctx, query, carrera); err != nil {
		return fmt.Errorf("create carrera: %w", err)
	}
	return nil
}

// Update replaces the mutable fields of a carrera.
func (r *CarreraRepository) Update(ctx context.Context, carrera *models.Carrera) error {
	const query = `UPDATE carreras SET nombre = :nombre, duracion_anios = :duracion_anios, descripcion = :descripcion WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, carrera)
	if err != nil {
		return fmt.Errorf("update carrera: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a carrera. The FK from alumnos and materias is RESTRICT, so
// the database blocks deletion while students or courses reference it.
func (r *CarreraRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM carreras WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete carrera: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Count returns the number of carreras.
func (r *CarreraRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM carreras`); err != nil {
		return 0, fmt.Errorf("count carreras: %w", err)
	}
	return total, nil
}
