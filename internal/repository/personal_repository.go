package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/SebasM79/gestion-academica/internal/models"
)

// PersonalRepository handles persistence of staff profiles.
type PersonalRepository struct {
	db *sqlx.DB
}

// NewPersonalRepository constructs the repository.
func NewPersonalRepository(db *sqlx.DB) *PersonalRepository {
	return &PersonalRepository{db: db}
}

const personalColumns = `p.id, p.usuario_id, p.nombre, p.apellido, p.dni, p.email, p.telefono, p.direccion, p.cargo`

// List returns all staff ordered by apellido.
func (r *PersonalRepository) List(ctx context.Context) ([]models.Personal, error) {
	query := fmt.Sprintf(`SELECT %s FROM personal p ORDER BY p.apellido, p.nombre`, personalColumns)
	var personal []models.Personal
	if err := r.db.SelectContext(ctx, &personal, query); err != nil {
		return nil, fmt.Errorf("list personal: %w", err)
	}
	return personal, nil
}

// FindByID returns a staff member by ID.
func (r *PersonalRepository) FindByID(ctx context.Context, id string) (*models.Personal, error) {
	query := fmt.Sprintf(`SELECT %s FROM personal p WHERE p.id = $1`, personalColumns)
	var personal models.Personal
	if err := r.db.GetContext(ctx, &personal, query, id); err != nil {
		return nil, err
	}
	return &personal, nil
}

// FindByUsuarioID returns the staff profile linked to a login account.
func (r *PersonalRepository) FindByUsuarioID(ctx context.Context, usuarioID string) (*models.Personal, error) {
	query := fmt.Sprintf(`SELECT %s FROM personal p WHERE p.usuario_id = $1`, personalColumns)
	var personal models.Personal
	if err := r.db.GetContext(ctx, &personal, query, usuarioID); err != nil {
		return nil, err
	}
	return &personal, nil
}

// FindByDNI returns a staff member by DNI.
func (r *PersonalRepository) FindByDNI(ctx context.Context, dni string) (*models.Personal, error) {
	query := fmt.Sprintf(`SELECT %s FROM personal p WHERE p.dni = $1`, personalColumns)
	var personal models.Personal
	if err := r.db.GetContext(ctx, &personal, query, dni); err != nil {
		return nil, err
	}
	return &personal, nil
}

// Create persists a new staff profile.
func (r *PersonalRepository) Create(ctx context.Context, personal *models.Personal) error {
	if personal.ID == "" {
		personal.ID = uuid.NewString()
	}
	const query = `INSERT INTO personal (id, usuario_id, nombre, apellido, dni, email, telefono, direccion, cargo)
        VALUES (:id, :usuario_id, :nombre, :apellido, :dni, :email, :telefono, :direccion, :cargo)`
	if _, err := r.db.NamedExecContext(ctx, query, personal); err != nil {
		return fmt.Errorf("create personal: %w", err)
	}
	return nil
}

// Count returns the number of staff members.
func (r *PersonalRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM personal`); err != nil {
		return 0, fmt.Errorf("count personal: %w", err)
	}
	return total, nil
}
