package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/SebasM79/gestion-academica/internal/models"
	"github.com/SebasM79/gestion-academica/pkg/database"
	appErrors "github.com/SebasM79/gestion-academica/pkg/errors"
)

type docenteAsignacionRepository interface {
	Existe(ctx context.Context, docenteID, materiaID string) (bool, error)
	ListMateriasByDocente(ctx context.Context, docenteID string) ([]models.MateriaConAlumnos, error)
}

type docenteMateriaRepository interface {
	FindByID(ctx context.Context, id string) (*models.Materia, error)
	CreateConAsignacion(ctx context.Context, materia *models.Materia, docenteID string) error
	Update(ctx context.Context, materia *models.Materia) error
	Delete(ctx context.Context, id string) error
}

type docenteNotaRepository interface {
	Upsert(ctx context.Context, nota *models.Nota) error
	AlumnosDeMateria(ctx context.Context, materiaID string) ([]models.AlumnoConNota, error)
}

type docenteAlumnoRepository interface {
	FindByID(ctx context.Context, id string) (*models.Alumno, error)
}

// CargarNotaRequest is the grade upsert payload.
type CargarNotaRequest struct {
	AlumnoID      string  `json:"alumno_id" validate:"required"`
	Nota          float64 `json:"nota" validate:"required,gte=1,lte=10"`
	Observaciones string  `json:"observaciones"`
}

// CrearMateriaRequest creates a materia assigned to the requesting docente.
type CrearMateriaRequest struct {
	Nombre    string `json:"nombre" validate:"required"`
	Horario   string `json:"horario"`
	Cupo      int    `json:"cupo" validate:"required,gte=1"`
	CarreraID string `json:"carrera_id" validate:"required"`
}

// DocenteService covers the teaching-staff use cases. Every operation that
// touches a materia first checks the docente is assigned to it.
type DocenteService struct {
	asignaciones docenteAsignacionRepository
	materias     docenteMateriaRepository
	notas        docenteNotaRepository
	alumnos      docenteAlumnoRepository
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewDocenteService constructs a DocenteService instance.
func NewDocenteService(asignaciones docenteAsignacionRepository, materias docenteMateriaRepository, notas docenteNotaRepository, alumnos docenteAlumnoRepository, validate *validator.Validate, logger *zap.Logger) *DocenteService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &DocenteService{
		asignaciones: asignaciones,
		materias:     materias,
		notas:        notas,
		alumnos:      alumnos,
		validator:    validate,
		logger:       logger,
	}
}

// MisMaterias lists the materias assigned to the docente.
func (s *DocenteService) MisMaterias(ctx context.Context, docenteID string) ([]models.MateriaConAlumnos, error) {
	materias, err := s.asignaciones.ListMateriasByDocente(ctx, docenteID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInterno.Code, appErrors.ErrInterno.Status, appErrors.ErrInterno.Message)
	}
	return materias, nil
}

// AlumnosDeMateria returns the roster of a materia the docente teaches.
func (s *DocenteService) AlumnosDeMateria(ctx context.Context, docenteID, materiaID string) ([]models.AlumnoConNota, error) {
	if err := s.checkAsignacion(ctx, docenteID, materiaID); err != nil {
		return nil, err
	}
	alumnos, err := s.notas.AlumnosDeMateria(ctx, materiaID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInterno.Code, appErrors.ErrInterno.Status, appErrors.ErrInterno.Message)
	}
	return alumnos, nil
}

// CargarNota creates or replaces the grade of an alumno in a materia the
// docente teaches. No enrollment check: the roster includes withdrawn
// alumnos with existing grades, and those grades must stay correctable.
func (s *DocenteService) CargarNota(ctx context.Context, docenteID, materiaID string, req CargarNotaRequest) (*models.Nota, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}
	if err := s.checkAsignacion(ctx, docenteID, materiaID); err != nil {
		return nil, err
	}

	if _, err := s.alumnos.FindByID(ctx, req.AlumnoID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNoEncontrado, "Alumno no encontrado")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInterno.Code, appErrors.ErrInterno.Status, appErrors.ErrInterno.Message)
	}

	nota := &models.Nota{
		AlumnoID:      req.AlumnoID,
		MateriaID:     materiaID,
		ProfesorID:    docenteID,
		Nota:          req.Nota,
		Observaciones: req.Observaciones,
	}
	// Model-level check duplicates the request validation on purpose: the
	// bound is enforced on every save path, not just this one.
	if err := nota.Validar(); err != nil {
		return nil, appErrors.FieldError("nota", err.Error())
	}

	err := database.WithRetry(ctx, func(ctx context.Context) error {
		return s.notas.Upsert(ctx, nota)
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInterno.Code, appErrors.ErrInterno.Status, appErrors.ErrInterno.Message)
	}

	s.logger.Info("nota guardada",
		zap.String("alumno_id", nota.AlumnoID),
		zap.String("materia_id", nota.MateriaID),
		zap.Float64("nota", nota.Nota))
	return nota, nil
}

// CrearMateria creates a materia and assigns it to the requesting docente.
func (s *DocenteService) CrearMateria(ctx context.Context, docenteID string, req CrearMateriaRequest) (*models.Materia, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}
	materia := &models.Materia{
		Nombre:    req.Nombre,
		Horario:   req.Horario,
		Cupo:      req.Cupo,
		CarreraID: req.CarreraID,
	}
	if err := s.materias.CreateConAsignacion(ctx, materia, docenteID); err != nil {
		if database.IsUniqueViolation(err, "") {
			return nil, appErrors.FieldError("nombre", "Ya existe una materia con ese nombre en la carrera")
		}
		if database.IsForeignKeyViolation(err) {
			return nil, appErrors.FieldError("carrera_id", "La carrera seleccionada no existe")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInterno.Code, appErrors.ErrInterno.Status, appErrors.ErrInterno.Message)
	}
	return materia, nil
}

// ActualizarMateriaRequest updates nombre, horario and cupo.
type ActualizarMateriaRequest struct {
	Nombre  string `json:"nombre" validate:"required"`
	Horario string `json:"horario"`
	Cupo    int    `json:"cupo" validate:"required,gte=0"`
}

// ActualizarMateria updates a materia the docente teaches.
func (s *DocenteService) ActualizarMateria(ctx context.Context, docenteID, materiaID string, req ActualizarMateriaRequest) (*models.Materia, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}
	if err := s.checkAsignacion(ctx, docenteID, materiaID); err != nil {
		return nil, err
	}
	materia, err := s.materias.FindByID(ctx, materiaID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInterno.Code, appErrors.ErrInterno.Status, appErrors.ErrInterno.Message)
	}
	materia.Nombre = req.Nombre
	materia.Horario = req.Horario
	materia.Cupo = req.Cupo
	if err := s.materias.Update(ctx, materia); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInterno.Code, appErrors.ErrInterno.Status, appErrors.ErrInterno.Message)
	}
	return materia, nil
}

// EliminarMateria removes a materia the docente teaches.
func (s *DocenteService) EliminarMateria(ctx context.Context, docenteID, materiaID string) error {
	if err := s.checkAsignacion(ctx, docenteID, materiaID); err != nil {
		return err
	}
	if err := s.materias.Delete(ctx, materiaID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInterno.Code, appErrors.ErrInterno.Status, appErrors.ErrInterno.Message)
	}
	return nil
}

func (s *DocenteService) checkAsignacion(ctx context.Context, docenteID, materiaID string) error {
	if _, err := s.materias.FindByID(ctx, materiaID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNoEncontrado, "Materia no encontrada")
		}
		return appErrors.Wrap(err, appErrors.ErrInterno.Code, appErrors.ErrInterno.Status, appErrors.ErrInterno.Message)
	}
	asignado, err := s.asignaciones.Existe(ctx, docenteID, materiaID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInterno.Code, appErrors.ErrInterno.Status, appErrors.ErrInterno.Message)
	}
	if !asignado {
		return appErrors.Clone(appErrors.ErrProhibido, "No asignado a la materia")
	}
	return nil
}
