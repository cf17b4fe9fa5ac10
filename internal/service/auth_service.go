package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/SebasM79/gestion-academica/internal/models"
	"github.com/SebasM79/gestion-academica/internal/session"
	appErrors "github.com/SebasM79/gestion-academica/pkg/errors"
)

type authUsuarioRepository interface {
	FindByID(ctx context.Context, id string) (*models.Usuario, error)
	FindByUsername(ctx context.Context, username string) (*models.Usuario, error)
	FindByProfileDNI(ctx context.Context, dni string) (*models.Usuario, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateUltimoLogin(ctx context.Context, id string, ts time.Time) error
}

type authAlumnoRepository interface {
	FindByUsuarioID(ctx context.Context, usuarioID string) (*models.Alumno, error)
}

type authPersonalRepository interface {
	FindByUsuarioID(ctx context.Context, usuarioID string) (*models.Personal, error)
}

type sessionStore interface {
	Create(ctx context.Context, usuarioID string) (*session.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteByUsuario(ctx context.Context, usuarioID, keep string) error
}

// LoginRequest is the credential payload.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// CambiarPasswordRequest carries a password change.
type CambiarPasswordRequest struct {
	PasswordActual string `json:"password_actual" validate:"required"`
	PasswordNueva  string `json:"password_nueva" validate:"required,min=8"`
}

// AuthService provides login, logout and session identity use cases.
type AuthService struct {
	usuarios  authUsuarioRepository
	alumnos   authAlumnoRepository
	personal  authPersonalRepository
	sessions  sessionStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(usuarios authUsuarioRepository, alumnos authAlumnoRepository, personal authPersonalRepository, sessions sessionStore, validate *validator.Validate, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AuthService{usuarios: usuarios, alumnos: alumnos, personal: personal, sessions: sessions, validator: validate, logger: logger}
}

// Login authenticates the credentials and opens a session. The username is
// normally the DNI of the account; when the direct lookup misses, the DNI is
// resolved through the alumno and personal profiles so people who changed
// their username can still log in with their document.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*session.Session, *models.Principal, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, nil, appErrors.Clone(appErrors.ErrValidacion, "Usuario y contraseña son obligatorios")
	}

	usuario, err := s.usuarios.FindByUsername(ctx, req.Username)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Wrap(err, appErrors.ErrInterno.Code, appErrors.ErrInterno.Status, appErrors.ErrInterno.Message)
		}
		usuario, err = s.usuarios.FindByProfileDNI(ctx, req.Username)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, nil, appErrors.ErrCredencialesInvalidas
			}
			return nil, nil, appErrors.Wrap(err, appErrors.ErrInterno.Code, appErrors.ErrInterno.Status, appErrors.ErrInterno.Message)
		}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(usuario.PasswordHash), []byte(req.Password)); err != nil {
		return nil, nil, appErrors.ErrCredencialesInvalidas
	}

	// Correct credentials on an inactive account means the registration is
	// still awaiting approval. Telling the user so beats a generic 401.
	if !usuario.Activo {
		return nil, nil, appErrors.ErrCuentaPendiente
	}

	principal, err := s.resolvePrincipal(ctx, usuario)
	if err != nil {
		return nil, nil, err
	}

	sess, err := s.sessions.Create(ctx, usuario.ID)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInterno.Code, appErrors.ErrInterno.Status, appErrors.ErrInterno.Message)
	}

	if err := s.usuarios.UpdateUltimoLogin(ctx, usuario.ID, time.Now().UTC()); err != nil {
		s.logger.Warn("no se pudo registrar el ultimo login", zap.Error(err))
	}

	return sess, principal, nil
}

// Principal loads the caller identity for the given account. The session
// middleware invokes it on every authenticated request.
func (s *AuthService) Principal(ctx context.Context, usuarioID string) (*models.Principal, error) {
	usuario, err := s.usuarios.FindByID(ctx, usuarioID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNoAutenticado
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInterno.Code, appErrors.ErrInterno.Status, appErrors.ErrInterno.Message)
	}
	if !usuario.Activo {
		return nil, appErrors.ErrNoAutenticado
	}
	return s.resolvePrincipal(ctx, usuario)
}

// MeResponse describes the authenticated caller and their profile.
type MeResponse struct {
	UsuarioID           string      `json:"usuario_id"`
	Username            string      `json:"username"`
	Rol                 string      `json:"rol"`
	DebeCambiarPassword bool        `json:"debe_cambiar_password"`
	Perfil              interface{} `json:"perfil,omitempty"`
}

// Me returns the caller identity plus the linked alumno or personal profile.
func (s *AuthService) Me(ctx context.Context, principal *models.Principal) (*MeResponse, error) {
	res := &MeResponse{
		UsuarioID:           principal.UsuarioID,
		Username:            principal.Username,
		Rol:                 principal.Rol(),
		DebeCambiarPassword: principal.DebeCambiarPassword,
	}
	switch {
	case principal.PersonalID != "":
		perfil, err := s.personal.FindByUsuarioID(ctx, principal.UsuarioID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Wrap(err, appErrors.ErrInterno.Code, appErrors.ErrInterno.Status, appErrors.ErrInterno.Message)
		}
		if perfil != nil {
			res.Perfil = perfil
		}
	case principal.AlumnoID != "":
		perfil, err := s.alumnos.FindByUsuarioID(ctx, principal.UsuarioID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Wrap(err, appErrors.ErrInterno.Code, appErrors.ErrInterno.Status, appErrors.ErrInterno.Message)
		}
		if perfil != nil {
			res.Perfil = perfil
		}
	}
	return res, nil
}

// Logout closes the session. A missing session is not an error.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInterno.Code, appErrors.ErrInterno.Status, appErrors.ErrInterno.Message)
	}
	return nil
}

// CambiarPassword replaces the account password after verifying the current
// one, then revokes every other session of the user.
func (s *AuthService) CambiarPassword(ctx context.Context, principal *models.Principal, sessionID string, req CambiarPasswordRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.FieldError("password_nueva", "La nueva contraseña debe tener al menos 8 caracteres")
	}

	usuario, err := s.usuarios.FindByID(ctx, principal.UsuarioID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInterno.Code, appErrors.ErrInterno.Status, appErrors.ErrInterno.Message)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(usuario.PasswordHash), []byte(req.PasswordActual)); err != nil {
		return appErrors.FieldError("password_actual", "La contraseña actual es incorrecta")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.PasswordNueva), bcrypt.DefaultCost)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInterno.Code, appErrors.ErrInterno.Status, appErrors.ErrInterno.Message)
	}
	if err := s.usuarios.UpdatePassword(ctx, usuario.ID, string(hash)); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInterno.Code, appErrors.ErrInterno.Status, appErrors.ErrInterno.Message)
	}

	if err := s.sessions.DeleteByUsuario(ctx, usuario.ID, sessionID); err != nil {
		s.logger.Warn("no se pudieron revocar las sesiones del usuario", zap.Error(err))
	}
	return nil
}

func (s *AuthService) resolvePrincipal(ctx context.Context, usuario *models.Usuario) (*models.Principal, error) {
	principal := &models.Principal{
		UsuarioID:           usuario.ID,
		Username:            usuario.Username,
		Tipo:                models.PrincipalInvitado,
		DebeCambiarPassword: usuario.DebeCambiarPassword,
	}

	if usuario.EsAdmin {
		principal.Tipo = models.PrincipalAdmin
	}

	personal, err := s.personal.FindByUsuarioID(ctx, usuario.ID)
	if err == nil {
		principal.PersonalID = personal.ID
		principal.Cargo = personal.Cargo
		if principal.Tipo != models.PrincipalAdmin {
			principal.Tipo = models.PrincipalPersonal
		}
		return principal, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInterno.Code, appErrors.ErrInterno.Status, appErrors.ErrInterno.Message)
	}

	alumno, err := s.alumnos.FindByUsuarioID(ctx, usuario.ID)
	if err == nil {
		principal.AlumnoID = alumno.ID
		if principal.Tipo != models.PrincipalAdmin {
			principal.Tipo = models.PrincipalAlumno
		}
		return principal, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInterno.Code, appErrors.ErrInterno.Status, appErrors.ErrInterno.Message)
	}

	return principal, nil
}
