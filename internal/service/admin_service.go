package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/SebasM79/gestion-academica/internal/models"
	"github.com/SebasM79/gestion-academica/internal/repository"
	"github.com/SebasM79/gestion-academica/pkg/database"
	appErrors "github.com/SebasM79/gestion-academica/pkg/errors"
)

type adminRegistroRepository interface {
	List(ctx context.Context, estado models.EstadoRegistro) ([]models.RegistroUsuario, error)
	FindByID(ctx context.Context, id string) (*models.RegistroUsuario, error)
	Aprobar(ctx context.Context, registroID, adminPersonalID, observaciones string) (*models.RegistroUsuario, error)
	Rechazar(ctx context.Context, registroID, adminPersonalID, observaciones string) (*models.RegistroUsuario, error)
	CountPendientes(ctx context.Context) (int, error)
}

type adminAlumnoRepository interface {
	List(ctx context.Context) ([]models.AlumnoDetail, error)
	FindByID(ctx context.Context, id string) (*models.Alumno, error)
	Create(ctx context.Context, alumno *models.Alumno) error
	Update(ctx context.Context, alumno *models.Alumno) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

type adminCarreraRepository interface {
	List(ctx context.Context) ([]models.Carrera, error)
	FindByID(ctx context.Context, id string) (*models.Carrera, error)
	Create(ctx context.Context, carrera *models.Carrera) error
	Update(ctx context.Context, carrera *models.Carrera) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

type adminMateriaRepository interface {
	List(ctx context.Context) ([]models.MateriaConAlumnos, error)
	FindByID(ctx context.Context, id string) (*models.Materia, error)
	Create(ctx context.Context, materia *models.Materia) error
	Update(ctx context.Context, materia *models.Materia) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

type adminInscripcionCarreraRepository interface {
	List(ctx context.Context) ([]models.InscripcionCarreraDetail, error)
	Existe(ctx context.Context, alumnoID, carreraID string) (bool, error)
	Create(ctx context.Context, inscripcion *models.InscripcionCarrera) error
}

type adminNotaRepository interface {
	ListByAlumno(ctx context.Context, alumnoID string) ([]models.NotaDetail, error)
	Count(ctx context.Context) (int, error)
}

type statsCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Invalidate(ctx context.Context, key string)
}

const statsCacheKey = "stats:dashboard"

// Stats is the admin dashboard counters payload.
type Stats struct {
	Alumnos             int `json:"alumnos"`
	Carreras            int `json:"carreras"`
	Materias            int `json:"materias"`
	Notas               int `json:"notas"`
	RegistrosPendientes int `json:"registros_pendientes"`
}

// AlumnoRequest is the admin create/update alumno payload.
type AlumnoRequest struct {
	Nombre             string     `json:"nombre" validate:"required"`
	Apellido           string     `json:"apellido" validate:"required"`
	DNI                string     `json:"dni" validate:"required,min=7,max=10,numeric"`
	Email              string     `json:"email" validate:"omitempty,email"`
	Telefono           string     `json:"telefono"`
	Direccion          string     `json:"direccion"`
	FechaNacimiento    *time.Time `json:"fecha_nacimiento"`
	CarreraPrincipalID *string    `json:"carrera_principal_id"`
}

// CarreraRequest is the admin create/update carrera payload.
type CarreraRequest struct {
	Nombre        string `json:"nombre" validate:"required"`
	DuracionAnios int    `json:"duracion_anios" validate:"required,gte=1,lte=10"`
	Descripcion   string `json:"descripcion"`
}

// MateriaRequest is the admin create/update materia payload.
type MateriaRequest struct {
	Nombre    string `json:"nombre" validate:"required"`
	Horario   string `json:"horario"`
	Cupo      int    `json:"cupo" validate:"required,gte=0"`
	CarreraID string `json:"carrera_id" validate:"required"`
}

// InscripcionCarreraRequest records an administrative carrera enrollment.
type InscripcionCarreraRequest struct {
	AlumnoID  string `json:"alumno_id" validate:"required"`
	CarreraID string `json:"carrera_id" validate:"required"`
}

// RevisionRegistroRequest carries the optional admin note on approve/reject.
type RevisionRegistroRequest struct {
	Observaciones string `json:"observaciones"`
}

// AdminService covers the administrative use cases, guarded by the
// admin-or-preceptor middleware.
type AdminService struct {
	registros     adminRegistroRepository
	alumnos       adminAlumnoRepository
	carreras      adminCarreraRepository
	materias      adminMateriaRepository
	inscripciones adminInscripcionCarreraRepository
	notas         adminNotaRepository
	cache         statsCache
	statsTTL      time.Duration
	validator     *validator.Validate
	logger        *zap.Logger
}

// NewAdminService constructs an AdminService instance.
func NewAdminService(registros adminRegistroRepository, alumnos adminAlumnoRepository, carreras adminCarreraRepository, materias adminMateriaRepository, inscripciones adminInscripcionCarreraRepository, notas adminNotaRepository, cache statsCache, statsTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *AdminService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if statsTTL <= 0 {
		statsTTL = 5 * time.Minute
	}
	return &AdminService{
		registros:     registros,
		alumnos:       alumnos,
		carreras:      carreras,
		materias:      materias,
		inscripciones: inscripciones,
		notas:         notas,
		cache:         cache,
		statsTTL:      statsTTL,
		validator:     validate,
		logger:        logger,
	}
}

// Stats returns the dashboard counters, served from cache within the TTL.
func (s *AdminService) Stats(ctx context.Context) (*Stats, error) {
	var stats Stats
	if s.cache != nil {
		if hit, err := s.cache.Get(ctx, statsCacheKey, &stats); err == nil && hit {
			return &stats, nil
		}
	}

	var err error
	if stats.Alumnos, err = s.alumnos.Count(ctx); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInterno.Code, appErrors.ErrInterno.Status, appErrors.ErrInterno.Message)
	}
	if stats.Carreras, err = s.carreras.Count(ctx); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInterno.Code, appErrors.ErrInterno.Status, appErrors.ErrInterno.Message)
	}
	if stats.Materias, err = s.materias.Count(ctx); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInterno.Code, appErrors.ErrInterno.Status, appErrors.ErrInterno.Message)
	}
	if stats.Notas, err = s.notas.Count(ctx); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInterno.Code, appErrors.ErrInterno.Status, appErrors.ErrInterno.Message)
	}
	if stats.RegistrosPendientes, err = s.registros.CountPendientes(ctx); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInterno.Code, appErrors.ErrInterno.Status, appErrors.ErrInterno.Message)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, statsCacheKey, &stats, s.statsTTL); err != nil {
			s.logger.Warn("no se pudieron cachear las estadisticas", zap.Error(err))
		}
	}
	return &stats, nil
}

// ListRegistros lists registrations, optionally filtered by estado.
func (s *AdminService) ListRegistros(ctx context.Context, estado string) ([]models.RegistroUsuario, error) {
	e := models.EstadoRegistro(estado)
	switch e {
	case "", models.EstadoPendiente, models.EstadoAprobado, models.EstadoRechazado:
	default:
		return nil, appErrors.FieldError("estado", "Estado inválido")
	}
	registros, err := s.registros.List(ctx, e)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInterno.Code, appErrors.ErrInterno.Status, appErrors.ErrInterno.Message)
	}
	return registros, nil
}

// AprobarRegistro approves a PENDIENTE registration.
func (s *AdminService) AprobarRegistro(ctx context.Context, registroID, adminPersonalID string, req RevisionRegistroRequest) (*models.RegistroUsuario, error) {
	registro, err := s.registros.Aprobar(ctx, registroID, adminPersonalID, req.Observaciones)
	if err != nil {
		return nil, s.mapRevisionError(err)
	}
	s.invalidateStats(ctx)
	s.logger.Info("registro aprobado",
		zap.String("registro_id", registroID),
		zap.String("aprobado_por", adminPersonalID))
	return registro, nil
}

// RechazarRegistro rejects a PENDIENTE registration.
func (s *AdminService) RechazarRegistro(ctx context.Context, registroID, adminPersonalID string, req RevisionRegistroRequest) (*models.RegistroUsuario, error) {
	registro, err := s.registros.Rechazar(ctx, registroID, adminPersonalID, req.Observaciones)
	if err != nil {
		return nil, s.mapRevisionError(err)
	}
	s.invalidateStats(ctx)
	s.logger.Info("registro rechazado",
		zap.String("registro_id", registroID),
		zap.String("rechazado_por", adminPersonalID))
	return registro, nil
}

// invalidateStats drops the cached dashboard counters after a mutation that
// changes any of them.
func (s *AdminService) invalidateStats(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, statsCacheKey)
	}
}

func (s *AdminService) mapRevisionError(err error) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return appErrors.Clone(appErrors.ErrNoEncontrado, "Registro no encontrado")
	case errors.Is(err, repository.ErrRegistroNoPendiente):
		return appErrors.Clone(appErrors.ErrConflicto, "El registro no está en estado PENDIENTE")
	default:
		return appErrors.Wrap(err, appErrors.ErrInterno.Code, appErrors.ErrInterno.Status, appErrors.ErrInterno.Message)
	}
}

// ListAlumnos lists every alumno with carrera info.
func (s *AdminService) ListAlumnos(ctx context.Context) ([]models.AlumnoDetail, error) {
	alumnos, err := s.alumnos.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInterno.Code, appErrors.ErrInterno.Status, appErrors.ErrInterno.Message)
	}
	return alumnos, nil
}

// GetAlumno returns one alumno.
func (s *AdminService) GetAlumno(ctx context.Context, id string) (*models.Alumno, error) {
	alumno, err := s.alumnos.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNoEncontrado, "Alumno no encontrado")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInterno.Code, appErrors.ErrInterno.Status, appErrors.ErrInterno.Message)
	}
	return alumno, nil
}

// CrearAlumno creates an alumno profile without a login account.
func (s *AdminService) CrearAlumno(ctx context.Context, req AlumnoRequest) (*models.Alumno, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}
	alumno := &models.Alumno{
		Persona: models.Persona{
			Nombre:    req.Nombre,
			Apellido:  req.Apellido,
			DNI:       req.DNI,
			Email:     req.Email,
			Telefono:  req.Telefono,
			Direccion: req.Direccion,
		},
		FechaNacimiento:    req.FechaNacimiento,
		CarreraPrincipalID: req.CarreraPrincipalID,
	}
	if err := s.alumnos.Create(ctx, alumno); err != nil {
		if database.IsUniqueViolation(err, "") {
			return nil, appErrors.FieldError("dni", "Ya existe un alumno con ese DNI")
		}
		if database.IsForeignKeyViolation(err) {
			return nil, appErrors.FieldError("carrera_principal_id", "La carrera seleccionada no existe")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInterno.Code, appErrors.ErrInterno.Status, appErrors.ErrInterno.Message)
	}
	s.invalidateStats(ctx)
	return alumno, nil
}

// ActualizarAlumno updates the profile fields of an alumno.
func (s *AdminService) ActualizarAlumno(ctx context.Context, id string, req AlumnoRequest) (*models.Alumno, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}
	alumno, err := s.GetAlumno(ctx, id)
	if err != nil {
		return nil, err
	}
	alumno.Nombre = req.Nombre
	alumno.Apellido = req.Apellido
	alumno.Email = req.Email
	alumno.Telefono = req.Telefono
	alumno.Direccion = req.Direccion
	alumno.FechaNacimiento = req.FechaNacimiento
	alumno.CarreraPrincipalID = req.CarreraPrincipalID
	if err := s.alumnos.Update(ctx, alumno); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNoEncontrado, "Alumno no encontrado")
		}
		if database.IsForeignKeyViolation(err) {
			return nil, appErrors.FieldError("carrera_principal_id", "La carrera seleccionada no existe")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInterno.Code, appErrors.ErrInterno.Status, appErrors.ErrInterno.Message)
	}
	return alumno, nil
}

// EliminarAlumno removes an alumno and their academic history.
func (s *AdminService) EliminarAlumno(ctx context.Context, id string) error {
	if err := s.alumnos.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNoEncontrado, "Alumno no encontrado")
		}
		return appErrors.Wrap(err, appErrors.ErrInterno.Code, appErrors.ErrInterno.Status, appErrors.ErrInterno.Message)
	}
	s.invalidateStats(ctx)
	return nil
}

// NotasDeAlumno lists the grades of any alumno.
func (s *AdminService) NotasDeAlumno(ctx context.Context, alumnoID string) ([]models.NotaDetail, error) {
	if _, err := s.GetAlumno(ctx, alumnoID); err != nil {
		return nil, err
	}
	notas, err := s.notas.ListByAlumno(ctx, alumnoID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInterno.Code, appErrors.ErrInterno.Status, appErrors.ErrInterno.Message)
	}
	return notas, nil
}

// ListCarreras lists the carreras for the admin views.
func (s *AdminService) ListCarreras(ctx context.Context) ([]models.Carrera, error) {
	carreras, err := s.carreras.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInterno.Code, appErrors.ErrInterno.Status, appErrors.ErrInterno.Message)
	}
	return carreras, nil
}

// CrearCarrera creates a carrera.
func (s *AdminService) CrearCarrera(ctx context.Context, req CarreraRequest) (*models.Carrera, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}
	carrera := &models.Carrera{
		Nombre:        req.Nombre,
		DuracionAnios: req.DuracionAnios,
		Descripcion:   req.Descripcion,
	}
	if err := s.carreras.Create(ctx, carrera); err != nil {
		if database.IsUniqueViolation(err, "") {
			return nil, appErrors.FieldError("nombre", "Ya existe una carrera con ese nombre")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInterno.Code, appErrors.ErrInterno.Status, appErrors.ErrInterno.Message)
	}
	s.invalidateStats(ctx)
	return carrera, nil
}

// ActualizarCarrera updates a carrera.
func (s *AdminService) ActualizarCarrera(ctx context.Context, id string, req CarreraRequest) (*models.Carrera, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}
	carrera := &models.Carrera{
		ID:            id,
		Nombre:        req.Nombre,
		DuracionAnios: req.DuracionAnios,
		Descripcion:   req.Descripcion,
	}
	if err := s.carreras.Update(ctx, carrera); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNoEncontrado, "Carrera no encontrada")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInterno.Code, appErrors.ErrInterno.Status, appErrors.ErrInterno.Message)
	}
	return carrera, nil
}

// EliminarCarrera removes a carrera. The RESTRICT constraint blocks the
// deletion while alumnos or materias still reference it.
func (s *AdminService) EliminarCarrera(ctx context.Context, id string) error {
	if err := s.carreras.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNoEncontrado, "Carrera no encontrada")
		}
		if database.IsForeignKeyViolation(err) {
			return appErrors.Clone(appErrors.ErrConflicto, "No se puede eliminar la carrera porque tiene alumnos o materias asociadas")
		}
		return appErrors.Wrap(err, appErrors.ErrInterno.Code, appErrors.ErrInterno.Status, appErrors.ErrInterno.Message)
	}
	s.invalidateStats(ctx)
	return nil
}

// ListMaterias lists materias with enrollment counts.
func (s *AdminService) ListMaterias(ctx context.Context) ([]models.MateriaConAlumnos, error) {
	materias, err := s.materias.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInterno.Code, appErrors.ErrInterno.Status, appErrors.ErrInterno.Message)
	}
	return materias, nil
}

// CrearMateria creates a materia.
func (s *AdminService) CrearMateria(ctx context.Context, req MateriaRequest) (*models.Materia, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}
	materia := &models.Materia{
		Nombre:    req.Nombre,
		Horario:   req.Horario,
		Cupo:      req.Cupo,
		CarreraID: req.CarreraID,
	}
	if err := s.materias.Create(ctx, materia); err != nil {
		if database.IsUniqueViolation(err, "") {
			return nil, appErrors.FieldError("nombre", "Ya existe una materia con ese nombre en la carrera")
		}
		if database.IsForeignKeyViolation(err) {
			return nil, appErrors.FieldError("carrera_id", "La carrera seleccionada no existe")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInterno.Code, appErrors.ErrInterno.Status, appErrors.ErrInterno.Message)
	}
	s.invalidateStats(ctx)
	return materia, nil
}

// ActualizarMateria updates nombre, horario and cupo of a materia.
func (s *AdminService) ActualizarMateria(ctx context.Context, id string, req MateriaRequest) (*models.Materia, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}
	materia, err := s.materias.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNoEncontrado, "Materia no encontrada")
		}
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

// EliminarMateria removes a materia.
func (s *AdminService) EliminarMateria(ctx context.Context, id string) error {
	if err := s.materias.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNoEncontrado, "Materia no encontrada")
		}
		return appErrors.Wrap(err, appErrors.ErrInterno.Code, appErrors.ErrInterno.Status, appErrors.ErrInterno.Message)
	}
	s.invalidateStats(ctx)
	return nil
}

// ListInscripcionesCarrera lists the administrative carrera enrollments.
func (s *AdminService) ListInscripcionesCarrera(ctx context.Context) ([]models.InscripcionCarreraDetail, error) {
	inscripciones, err := s.inscripciones.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInterno.Code, appErrors.ErrInterno.Status, appErrors.ErrInterno.Message)
	}
	return inscripciones, nil
}

// InscribirEnCarrera records an administrative carrera enrollment.
func (s *AdminService) InscribirEnCarrera(ctx context.Context, responsablePersonalID string, req InscripcionCarreraRequest) (*models.InscripcionCarrera, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}
	if _, err := s.GetAlumno(ctx, req.AlumnoID); err != nil {
		return nil, err
	}
	if _, err := s.carreras.FindByID(ctx, req.CarreraID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNoEncontrado, "Carrera no encontrada")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInterno.Code, appErrors.ErrInterno.Status, appErrors.ErrInterno.Message)
	}
	if existe, err := s.inscripciones.Existe(ctx, req.AlumnoID, req.CarreraID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInterno.Code, appErrors.ErrInterno.Status, appErrors.ErrInterno.Message)
	} else if existe {
		return nil, appErrors.Clone(appErrors.ErrConflicto, "El alumno ya está inscripto en esta carrera")
	}

	inscripcion := &models.InscripcionCarrera{
		AlumnoID:  req.AlumnoID,
		CarreraID: req.CarreraID,
	}
	if responsablePersonalID != "" {
		inscripcion.ResponsableID = &responsablePersonalID
	}
	if err := s.inscripciones.Create(ctx, inscripcion); err != nil {
		if database.IsUniqueViolation(err, "") {
			return nil, appErrors.Clone(appErrors.ErrConflicto, "El alumno ya está inscripto en esta carrera")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInterno.Code, appErrors.ErrInterno.Status, appErrors.ErrInterno.Message)
	}
	return inscripcion, nil
}
