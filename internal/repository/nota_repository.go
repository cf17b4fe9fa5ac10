package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/SebasM79/gestion-academica/internal/models"
)

// NotaRepository handles grade records.
type NotaRepository struct {
	db *sqlx.DB
}

// NewNotaRepository constructs the repository.
func NewNotaRepository(db *sqlx.DB) *NotaRepository {
	return &NotaRepository{db: db}
}

// Upsert writes the grade for an (alumno, materia) pair. The unique
// constraint on the pair makes the operation idempotent: a second save
// replaces nota, observaciones and profesor, keeping fecha_creacion.
func (r *NotaRepository) Upsert(ctx context.Context, nota *models.Nota) error {
	if nota.ID == "" {
		nota.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	nota.FechaCreacion = now
	nota.FechaModificacion = now
	const query = `INSERT INTO notas (id, alumno_id, materia_id, profesor_id, nota, observaciones, fecha_creacion, fecha_modificacion)
        VALUES (:id, :alumno_id, :materia_id, :profesor_id, :nota, :observaciones, :fecha_creacion, :fecha_modificacion)
        ON CONFLICT (alumno_id, materia_id) DO UPDATE
        SET nota = EXCLUDED.nota,
            observaciones = EXCLUDED.observaciones,
            profesor_id = EXCLUDED.profesor_id,
            fecha_modificacion = EXCLUDED.fecha_modificacion`
	if _, err := r.db.NamedExecContext(ctx, query, nota); err != nil {
		return fmt.Errorf("upsert nota: %w", err)
	}
	return nil
}

// FindByAlumnoMateria returns the grade of the pair, if any.
func (r *NotaRepository) FindByAlumnoMateria(ctx context.Context, alumnoID, materiaID string) (*models.Nota, error) {
	const query = `SELECT id, alumno_id, materia_id, profesor_id, nota, observaciones, fecha_creacion, fecha_modificacion
        FROM notas WHERE alumno_id = $1 AND materia_id = $2`
	var nota models.Nota
	if err := r.db.GetContext(ctx, &nota, query, alumnoID, materiaID); err != nil {
		return nil, err
	}
	return &nota, nil
}

// ListByAlumno returns the alumno's grades with materia names, newest first.
func (r *NotaRepository) ListByAlumno(ctx context.Context, alumnoID string) ([]models.NotaDetail, error) {
	const query = `SELECT n.id, n.alumno_id, n.materia_id, n.profesor_id, n.nota, n.observaciones,
        n.fecha_creacion, n.fecha_modificacion,
        m.nombre AS materia_nombre,
        a.nombre AS alumno_nombre, a.apellido AS alumno_apellido, a.dni AS alumno_dni
        FROM notas n
        JOIN materias m ON m.id = n.materia_id
        JOIN alumnos a ON a.id = n.alumno_id
        WHERE n.alumno_id = $1
        ORDER BY n.fecha_modificacion DESC`
	var notas []models.NotaDetail
	if err := r.db.SelectContext(ctx, &notas, query, alumnoID); err != nil {
		return nil, fmt.Errorf("list notas by alumno: %w", err)
	}
	for i := range notas {
		notas[i].Aprobada = notas[i].Nota.Aprobada()
	}
	return notas, nil
}

// AlumnosDeMateria returns the docente roster for a materia: every alumno
// holding an active enrollment or an existing grade, with the grade joined
// in when present.
func (r *NotaRepository) AlumnosDeMateria(ctx context.Context, materiaID string) ([]models.AlumnoConNota, error) {
	const query = `SELECT a.id, a.usuario_id, a.nombre, a.apellido, a.dni, a.email, a.telefono, a.direccion,
        a.fecha_nacimiento, a.carrera_principal_id,
        n.nota, n.observaciones AS nota_observaciones, n.fecha_modificacion AS nota_fecha
        FROM alumnos a
        LEFT JOIN notas n ON n.alumno_id = a.id AND n.materia_id = $1
        WHERE EXISTS(SELECT 1 FROM inscripciones_materia im WHERE im.alumno_id = a.id AND im.materia_id = $1 AND im.activa)
           OR n.id IS NOT NULL
        ORDER BY a.apellido, a.nombre`
	var alumnos []models.AlumnoConNota
	if err := r.db.SelectContext(ctx, &alumnos, query, materiaID); err != nil {
		return nil, fmt.Errorf("list alumnos de materia: %w", err)
	}
	return alumnos, nil
}

// Count returns the number of grade records.
func (r *NotaRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM notas`); err != nil {
		return 0, fmt.Errorf("count notas: %w", err)
	}
	return total, nil
}
