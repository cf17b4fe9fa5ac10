package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/SebasM79/gestion-academica/internal/models"
	"github.com/SebasM79/gestion-academica/pkg/database"
	appErrors "github.com/SebasM79/gestion-academica/pkg/errors"
)

type registroRepository interface {
	CrearConUsuario(ctx context.Context, registro *models.RegistroUsuario, usuario *models.Usuario) error
}

type registroCarreraRepository interface {
	FindByID(ctx context.Context, id string) (*models.Carrera, error)
}

// RegistroRequest is the public self-registration payload.
type RegistroRequest struct {
	Nombre              string `json:"nombre" validate:"required"`
	Apellido            string `json:"apellido" validate:"required"`
	DNI                 string `json:"dni" validate:"required,min=7,max=10,numeric"`
	Email               string `json:"email" validate:"required,email"`
	Telefono            string `json:"telefono"`
	Direccion           string `json:"direccion"`
	Rol                 string `json:"rol" validate:"required,oneof=ALUMNO PERSONAL"`
	Cargo               string `json:"cargo"`
	CarreraSolicitadaID string `json:"carrera_solicitada_id"`
}

// RegistroService handles the public self-registration flow.
type RegistroService struct {
	registros registroRepository
	carreras  registroCarreraRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRegistroService constructs a RegistroService instance.
func NewRegistroService(registros registroRepository, carreras registroCarreraRepository, validate *validator.Validate, logger *zap.Logger) *RegistroService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &RegistroService{registros: registros, carreras: carreras, validator: validate, logger: logger}
}

// Registrar validates the request and creates the PENDIENTE registro together
// with its inactive login account. The initial password is the DNI itself and
// the account is flagged to force a password change on first login.
func (s *RegistroService) Registrar(ctx context.Context, req RegistroRequest) (*models.RegistroUsuario, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}

	rol := models.RolSolicitado(req.Rol)
	cargo := models.Cargo(req.Cargo)
	if rol == models.RolPersonal && !cargo.Valid() {
		return nil, appErrors.FieldError("cargo", "Cargo inválido: debe ser ADMIN, DOCENTE o PRECEPTOR")
	}
	if rol == models.RolAlumno {
		cargo = ""
	}

	var carreraID *string
	if rol == models.RolAlumno && req.CarreraSolicitadaID != "" {
		if _, err := s.carreras.FindByID(ctx, req.CarreraSolicitadaID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.FieldError("carrera_solicitada_id", "La carrera seleccionada no existe")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInterno.Code, appErrors.ErrInterno.Status, appErrors.ErrInterno.Message)
		}
		carreraID = &req.CarreraSolicitadaID
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.DNI), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInterno.Code, appErrors.ErrInterno.Status, appErrors.ErrInterno.Message)
	}

	usuario := &models.Usuario{
		Username:            req.DNI,
		PasswordHash:        string(hash),
		Email:               req.Email,
		Activo:              false,
		EsAdmin:             false,
		DebeCambiarPassword: true,
	}
	registro := &models.RegistroUsuario{
		Persona: models.Persona{
			Nombre:    req.Nombre,
			Apellido:  req.Apellido,
			DNI:       req.DNI,
			Email:     req.Email,
			Telefono:  req.Telefono,
			Direccion: req.Direccion,
		},
		RolSolicitado:       rol,
		CargoSolicitado:     cargo,
		CarreraSolicitadaID: carreraID,
	}

	if err := s.registros.CrearConUsuario(ctx, registro, usuario); err != nil {
		// The unique constraints on usuarios.username and registros.dni
		// close the race between concurrent registrations of the same DNI.
		if database.IsUniqueViolation(err, "") {
			return nil, appErrors.FieldError("dni", "Ya existe un usuario con ese DNI")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInterno.Code, appErrors.ErrInterno.Status, appErrors.ErrInterno.Message)
	}

	s.logger.Info("registro pendiente creado",
		zap.String("registro_id", registro.ID),
		zap.String("rol", string(rol)))
	return registro, nil
}
