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

// UsuarioRepository handles persistence of login accounts.
type UsuarioRepository struct {
	db *sqlx.DB
}

// NewUsuarioRepository constructs the repository.
func NewUsuarioRepository(db *sqlx.DB) *UsuarioRepository {
	return &UsuarioRepository{db: db}
}

const (
	usuarioColumns          = `id, username, password_hash, email, activo, es_admin, debe_cambiar_password, ultimo_login, created_at, updated_at`
	usuarioColumnsQualified = `u.id, u.username, u.password_hash, u.email, u.activo, u.es_admin, u.debe_cambiar_password, u.ultimo_login, u.created_at, u.updated_at`
)

// FindByID returns a usuario by its ID.
func (r *UsuarioRepository) FindByID(ctx context.Context, id string) (*models.Usuario, error) {
	query := fmt.Sprintf(`SELECT %s FROM usuarios WHERE id = $1`, usuarioColumns)
	var usuario models.Usuario
	if err := r.db.GetContext(ctx, &usuario, query, id); err != nil {
		return nil, err
	}
	return &usuario, nil
}

// FindByUsername returns a usuario by its username (the DNI).
func (r *UsuarioRepository) FindByUsername(ctx context.Context, username string) (*models.Usuario, error) {
	query := fmt.Sprintf(`SELECT %s FROM usuarios WHERE username = $1`, usuarioColumns)
	var usuario models.Usuario
	if err := r.db.GetContext(ctx, &usuario, query, username); err != nil {
		return nil, err
	}
	return &usuario, nil
}

// FindByProfileDNI resolves a usuario through the alumno or personal profile
// holding the given DNI. Used as the login fallback when the direct username
// lookup misses.
func (r *UsuarioRepository) FindByProfileDNI(ctx context.Context, dni string) (*models.Usuario, error) {
	query := fmt.Sprintf(`SELECT %s FROM usuarios u
        JOIN alumnos a ON a.usuario_id = u.id
        WHERE a.dni = $1`, usuarioColumnsQualified)
	var usuario models.Usuario
	err := r.db.GetContext(ctx, &usuario, query, dni)
	if err == nil {
		return &usuario, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("find usuario by alumno dni: %w", err)
	}

	query = fmt.Sprintf(`SELECT %s FROM usuarios u
        JOIN personal p ON p.usuario_id = u.id
        WHERE p.dni = $1`, usuarioColumnsQualified)
	if err := r.db.GetContext(ctx, &usuario, query, dni); err != nil {
		return nil, err
	}
	return &usuario, nil
}

// Create inserts a new usuario.
func (r *UsuarioRepository) Create(ctx context.Context, usuario *models.Usuario) error {
	if usuario.ID == "" {
		usuario.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	usuario.CreatedAt = now
	usuario.UpdatedAt = now
	const query = `INSERT INTO usuarios (id, username, password_hash, email, activo, es_admin, debe_cambiar_password, created_at, updated_at)
        VALUES (:id, :username, :password_hash, :email, :activo, :es_admin, :debe_cambiar_password, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, usuario); err != nil {
		return fmt.Errorf("create usuario: %w", err)
	}
	return nil
}

// UpdatePassword replaces the password hash and clears the first-login flag.
func (r *UsuarioRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	const query = `UPDATE usuarios SET password_hash = $2, debe_cambiar_password = FALSE, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, passwordHash, time.Now().UTC()); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// UpdateUltimoLogin stamps the last successful login.
func (r *UsuarioRepository) UpdateUltimoLogin(ctx context.Context, id string, ts time.Time) error {
	const query = `UPDATE usuarios SET ultimo_login = $2, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, ts); err != nil {
		return fmt.Errorf("update ultimo login: %w", err)
	}
	return nil
}
