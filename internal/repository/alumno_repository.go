package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/SebasM79/gestion-academica/internal/models"
)

// AlumnoRepository handles persistence of alumno profiles.
type AlumnoRepository struct {
	db *sqlx.DB
}

// NewAlumnoRepository constructs the repository.
func NewAlumnoRepository(db *sqlx.DB) *AlumnoRepository {
	return &AlumnoRepository{db: db}
}

const alumnoColumns = `a.id, a.usuario_id, a.nombre, a.apellido, a.dni, a.email, a.telefono, a.direccion, a.fecha_nacimiento, a.carrera_principal_id`

// List returns every alumno with the name of their carrera principal.
func (r *AlumnoRepository) List(ctx context.Context) ([]models.AlumnoDetail, error) {
	query := fmt.Sprintf(`SELECT %s, c.nombre AS carrera_principal_nombre
        FROM alumnos a
        LEFT JOIN carreras c ON c.id = a.carrera_principal_id
        ORDER BY a.apellido, a.nombre`, alumnoColumns)
	var alumnos []models.AlumnoDetail
	if err := r.db.SelectContext(ctx, &alumnos, query); err != nil {
		return nil, fmt.Errorf("list alumnos: %w", err)
	}
	return alumnos, nil
}

// FindByID returns an alumno by its ID.
func (r *AlumnoRepository) FindByID(ctx context.Context, id string) (*models.Alumno, error) {
	query := fmt.Sprintf(`SELECT %s FROM alumnos a WHERE a.id = $1`, alumnoColumns)
	var alumno models.Alumno
	if err := r.db.GetContext(ctx, &alumno, query, id); err != nil {
		return nil, err
	}
	return &alumno, nil
}

// FindByUsuarioID returns the alumno profile linked to a login account.
func (r *AlumnoRepository) FindByUsuarioID(ctx context.Context, usuarioID string) (*models.Alumno, error) {
	query := fmt.Sprintf(`SELECT %s FROM alumnos a WHERE a.usuario_id = $1`, alumnoColumns)
	var alumno models.Alumno
	if err := r.db.GetContext(ctx, &alumno, query, usuarioID); err != nil {
		return nil, err
	}
	return &alumno, nil
}

// FindByDNI returns an alumno by DNI.
func (r *AlumnoRepository) FindByDNI(ctx context.Context, dni string) (*models.Alumno, error) {
	query := fmt.Sprintf(`SELECT %s FROM alumnos a WHERE a.dni = $1`, alumnoColumns)
	var alumno models.Alumno
	if err := r.db.GetContext(ctx, &alumno, query, dni); err != nil {
		return nil, err
	}
	return &alumno, nil
}

// Create persists a new alumno profile.
func (r *AlumnoRepository) Create(ctx context.Context, alumno *models.Alumno) error {
	if alumno.ID == "" {
		alumno.ID = uuid.NewString()
	}
	const query = `INSERT INTO alumnos (id, usuario_id, nombre, apellido, dni, email, telefono, direccion, fecha_nacimiento, carrera_principal_id)
        VALUES (:id, :usuario_id, :nombre, :apellido, :dni, :email, :telefono, :direccion, :fecha_nacimiento, :carrera_principal_id)`
	if _, err := r.db.NamedExecContext(ctx, query, alumno); err != nil {
		return fmt.Errorf("create alumno: %w", err)
	}
	return nil
}

// Update replaces the profile fields of an alumno. The DNI and the linked
// usuario are immutable.
func (r *AlumnoRepository) Update(ctx context.Context, alumno *models.Alumno) error {
	const query = `UPDATE alumnos SET nombre = :nombre, apellido = :apellido, email = :email,
        telefono = :telefono, direccion = :direccion, fecha_nacimiento = :fecha_nacimiento,
        carrera_principal_id = :carrera_principal_id
        WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, alumno)
	if err != nil {
		return fmt.Errorf("update alumno: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes an alumno together with inscripciones and notas.
func (r *AlumnoRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM alumnos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete alumno: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Count returns the number of alumnos.
func (r *AlumnoRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM alumnos`); err != nil {
		return 0, fmt.Errorf("count alumnos: %w", err)
	}
	return total, nil
}
