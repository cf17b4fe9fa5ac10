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

// ErrRegistroNoPendiente is returned when approving or rejecting a registro
// that already left the PENDIENTE state.
var ErrRegistroNoPendiente = errors.New("registro no pendiente")

// RegistroRepository handles self-service registrations and their approval
// transitions.
type RegistroRepository struct {
	db *sqlx.DB
}

// NewRegistroRepository constructs the repository.
func NewRegistroRepository(db *sqlx.DB) *RegistroRepository {
	return &RegistroRepository{db: db}
}

const registroColumns = `id, nombre, apellido, dni, email, telefono, direccion, usuario_id,
        rol_solicitado, cargo_solicitado, carrera_solicitada_id, estado, creado_en,
        aprobado_en, aprobado_por_id, observaciones_admin`

// CrearConUsuario inserts the inactive login account and the PENDIENTE
// registro in one transaction. A duplicate DNI surfaces as the usuarios or
// registros unique violation and aborts both inserts.
func (r *RegistroRepository) CrearConUsuario(ctx context.Context, registro *models.RegistroUsuario, usuario *models.Usuario) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin registro: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if usuario.ID == "" {
		usuario.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	usuario.CreatedAt = now
	usuario.UpdatedAt = now
	const insertUsuario = `INSERT INTO usuarios (id, username, password_hash, email, activo, es_admin, debe_cambiar_password, created_at, updated_at)
        VALUES (:id, :username, :password_hash, :email, :activo, :es_admin, :debe_cambiar_password, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, insertUsuario, usuario); err != nil {
		return fmt.Errorf("create usuario pendiente: %w", err)
	}

	if registro.ID == "" {
		registro.ID = uuid.NewString()
	}
	registro.UsuarioID = &usuario.ID
	registro.Estado = models.EstadoPendiente
	registro.CreadoEn = now
	const insertRegistro = `INSERT INTO registros_usuario (id, nombre, apellido, dni, email, telefono, direccion, usuario_id,
        rol_solicitado, cargo_solicitado, carrera_solicitada_id, estado, creado_en, observaciones_admin)
        VALUES (:id, :nombre, :apellido, :dni, :email, :telefono, :direccion, :usuario_id,
        :rol_solicitado, :cargo_solicitado, :carrera_solicitada_id, :estado, :creado_en, :observaciones_admin)`
	if _, err := tx.NamedExecContext(ctx, insertRegistro, registro); err != nil {
		return fmt.Errorf("create registro: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit registro: %w", err)
	}
	return nil
}

// List returns registros filtered by estado, or all of them when estado is
// empty, newest first.
func (r *RegistroRepository) List(ctx context.Context, estado models.EstadoRegistro) ([]models.RegistroUsuario, error) {
	query := fmt.Sprintf(`SELECT %s FROM registros_usuario`, registroColumns)
	args := []interface{}{}
	if estado != "" {
		query += ` WHERE estado = $1`
		args = append(args, estado)
	}
	query += ` ORDER BY creado_en DESC`
	var registros []models.RegistroUsuario
	if err := r.db.SelectContext(ctx, &registros, query, args...); err != nil {
		return nil, fmt.Errorf("list registros: %w", err)
	}
	return registros, nil
}

// FindByID returns a registro by its ID.
func (r *RegistroRepository) FindByID(ctx context.Context, id string) (*models.RegistroUsuario, error) {
	query := fmt.Sprintf(`SELECT %s FROM registros_usuario WHERE id = $1`, registroColumns)
	var registro models.RegistroUsuario
	if err := r.db.GetContext(ctx, &registro, query, id); err != nil {
		return nil, err
	}
	return &registro, nil
}

// Aprobar transitions the registro PENDIENTE -> APROBADO in one transaction:
// the registro row is locked FOR UPDATE so two admins cannot approve the same
// request, the login account is activated, and the alumno or personal profile
// is created. An alumno with a carrera solicitada also gets the carrera set
// as principal plus the administrative inscripcion record.
func (r *RegistroRepository) Aprobar(ctx context.Context, registroID, adminPersonalID, observaciones string) (*models.RegistroUsuario, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin aprobar: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	registro, err := lockRegistro(ctx, tx, registroID)
	if err != nil {
		return nil, err
	}
	if !registro.Pendiente() {
		return nil, ErrRegistroNoPendiente
	}

	now := time.Now().UTC()
	const activate = `UPDATE usuarios SET activo = TRUE, updated_at = $2 WHERE id = $1`
	if _, err := tx.ExecContext(ctx, activate, *registro.UsuarioID, now); err != nil {
		return nil, fmt.Errorf("activar usuario: %w", err)
	}

	switch registro.RolSolicitado {
	case models.RolAlumno:
		alumnoID, err := upsertAlumnoProfile(ctx, tx, registro)
		if err != nil {
			return nil, err
		}
		if registro.CarreraSolicitadaID != nil {
			if err := enrollCarreraPrincipal(ctx, tx, alumnoID, *registro.CarreraSolicitadaID, adminPersonalID, now); err != nil {
				return nil, err
			}
		}
	case models.RolPersonal:
		if err := upsertPersonalProfile(ctx, tx, registro); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("rol solicitado desconocido: %s", registro.RolSolicitado)
	}

	const approve = `UPDATE registros_usuario
        SET estado = $2, aprobado_en = $3, aprobado_por_id = $4, observaciones_admin = $5
        WHERE id = $1`
	if _, err := tx.ExecContext(ctx, approve, registroID, models.EstadoAprobado, now, adminPersonalID, observaciones); err != nil {
		return nil, fmt.Errorf("aprobar registro: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit aprobar: %w", err)
	}

	registro.Estado = models.EstadoAprobado
	registro.AprobadoEn = &now
	registro.AprobadoPorID = &adminPersonalID
	registro.ObservacionesAdmin = observaciones
	return registro, nil
}

// Rechazar transitions the registro PENDIENTE -> RECHAZADO. The login
// account is left inactive, which keeps the credentials unusable.
func (r *RegistroRepository) Rechazar(ctx context.Context, registroID, adminPersonalID, observaciones string) (*models.RegistroUsuario, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin rechazar: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	registro, err := lockRegistro(ctx, tx, registroID)
	if err != nil {
		return nil, err
	}
	if !registro.Pendiente() {
		return nil, ErrRegistroNoPendiente
	}

	now := time.Now().UTC()
	const reject = `UPDATE registros_usuario
        SET estado = $2, aprobado_en = $3, aprobado_por_id = $4, observaciones_admin = $5
        WHERE id = $1`
	if _, err := tx.ExecContext(ctx, reject, registroID, models.EstadoRechazado, now, adminPersonalID, observaciones); err != nil {
		return nil, fmt.Errorf("rechazar registro: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit rechazar: %w", err)
	}

	registro.Estado = models.EstadoRechazado
	registro.AprobadoEn = &now
	registro.AprobadoPorID = &adminPersonalID
	registro.ObservacionesAdmin = observaciones
	return registro, nil
}

// CountPendientes returns the number of registros awaiting review.
func (r *RegistroRepository) CountPendientes(ctx context.Context) (int, error) {
	var total int
	const query = `SELECT COUNT(*) FROM registros_usuario WHERE estado = $1`
	if err := r.db.GetContext(ctx, &total, query, models.EstadoPendiente); err != nil {
		return 0, fmt.Errorf("count registros pendientes: %w", err)
	}
	return total, nil
}

func lockRegistro(ctx context.Context, tx *sqlx.Tx, id string) (*models.RegistroUsuario, error) {
	query := fmt.Sprintf(`SELECT %s FROM registros_usuario WHERE id = $1 FOR UPDATE`, registroColumns)
	var registro models.RegistroUsuario
	if err := tx.GetContext(ctx, &registro, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("lock registro: %w", err)
	}
	return &registro, nil
}

// upsertAlumnoProfile links an existing alumno with the same DNI to the new
// account, or creates the profile from the registro data.
func upsertAlumnoProfile(ctx context.Context, tx *sqlx.Tx, registro *models.RegistroUsuario) (string, error) {
	var alumnoID string
	err := tx.GetContext(ctx, &alumnoID, `SELECT id FROM alumnos WHERE dni = $1`, registro.DNI)
	if err == nil {
		const link = `UPDATE alumnos SET usuario_id = $2, email = $3, telefono = $4, direccion = $5 WHERE id = $1`
		if _, err := tx.ExecContext(ctx, link, alumnoID, *registro.UsuarioID, registro.Email, registro.Telefono, registro.Direccion); err != nil {
			return "", fmt.Errorf("link alumno: %w", err)
		}
		return alumnoID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("find alumno by dni: %w", err)
	}

	alumnoID = uuid.NewString()
	const insert = `INSERT INTO alumnos (id, usuario_id, nombre, apellido, dni, email, telefono, direccion, carrera_principal_id)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	if _, err := tx.ExecContext(ctx, insert, alumnoID, *registro.UsuarioID, registro.Nombre, registro.Apellido,
		registro.DNI, registro.Email, registro.Telefono, registro.Direccion, registro.CarreraSolicitadaID); err != nil {
		return "", fmt.Errorf("create alumno: %w", err)
	}
	return alumnoID, nil
}

func upsertPersonalProfile(ctx context.Context, tx *sqlx.Tx, registro *models.RegistroUsuario) error {
	var personalID string
	err := tx.GetContext(ctx, &personalID, `SELECT id FROM personal WHERE dni = $1`, registro.DNI)
	if err == nil {
		const link = `UPDATE personal SET usuario_id = $2, email = $3, telefono = $4, direccion = $5, cargo = $6 WHERE id = $1`
		if _, err := tx.ExecContext(ctx, link, personalID, *registro.UsuarioID, registro.Email, registro.Telefono, registro.Direccion, registro.CargoSolicitado); err != nil {
			return fmt.Errorf("link personal: %w", err)
		}
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("find personal by dni: %w", err)
	}

	const insert = `INSERT INTO personal (id, usuario_id, nombre, apellido, dni, email, telefono, direccion, cargo)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	if _, err := tx.ExecContext(ctx, insert, uuid.NewString(), *registro.UsuarioID, registro.Nombre, registro.Apellido,
		registro.DNI, registro.Email, registro.Telefono, registro.Direccion, registro.CargoSolicitado); err != nil {
		return fmt.Errorf("create personal: %w", err)
	}
	return nil
}

// enrollCarreraPrincipal sets the carrera principal and records the
// administrative inscripcion, skipping the record if one already exists.
func enrollCarreraPrincipal(ctx context.Context, tx *sqlx.Tx, alumnoID, carreraID, responsableID string, now time.Time) error {
	const setPrincipal = `UPDATE alumnos SET carrera_principal_id = $2 WHERE id = $1`
	if _, err := tx.ExecContext(ctx, setPrincipal, alumnoID, carreraID); err != nil {
		return fmt.Errorf("set carrera principal: %w", err)
	}
	const insert = `INSERT INTO inscripciones_carrera (id, alumno_id, carrera_id, responsable_id, fecha_inscripcion)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (alumno_id, carrera_id) DO NOTHING`
	if _, err := tx.ExecContext(ctx, insert, uuid.NewString(), alumnoID, carreraID, responsableID, now); err != nil {
		return fmt.Errorf("inscribir carrera: %w", err)
	}
	return nil
}
