package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/SebasM79/gestion-academica/internal/models"
	"github.com/SebasM79/gestion-academica/internal/repository"
	"github.com/SebasM79/gestion-academica/pkg/database"
	appErrors "github.com/SebasM79/gestion-academica/pkg/errors"
)

type alumnoRepository interface {
	FindByID(ctx context.Context, id string) (*models.Alumno, error)
}

type alumnoCarreraRepository interface {
	FindByID(ctx context.Context, id string) (*models.Carrera, error)
}

type alumnoMateriaRepository interface {
	ListParaAlumno(ctx context.Context, carreraID, alumnoID string) ([]models.MateriaParaAlumno, error)
}

type alumnoNotaRepository interface {
	ListByAlumno(ctx context.Context, alumnoID string) ([]models.NotaDetail, error)
}

type alumnoInscripcionRepository interface {
	Inscribir(ctx context.Context, alumnoID, materiaID, carreraPrincipalID string) error
	DarDeBaja(ctx context.Context, alumnoID, materiaID string) error
}

type inscripcionMetrics interface {
	RecordInscripcion(operacion, resultado string)
}

// PerfilAlumno is the /alumnos/me payload.
type PerfilAlumno struct {
	models.Alumno
	CarreraPrincipal *models.Carrera `json:"carrera_principal,omitempty"`
}

// AlumnoService covers the student self-service use cases.
type AlumnoService struct {
	alumnos       alumnoRepository
	carreras      alumnoCarreraRepository
	materias      alumnoMateriaRepository
	notas         alumnoNotaRepository
	inscripciones alumnoInscripcionRepository
	metrics       inscripcionMetrics
	logger        *zap.Logger
}

// NewAlumnoService constructs an AlumnoService instance.
func NewAlumnoService(alumnos alumnoRepository, carreras alumnoCarreraRepository, materias alumnoMateriaRepository, notas alumnoNotaRepository, inscripciones alumnoInscripcionRepository, metrics inscripcionMetrics, logger *zap.Logger) *AlumnoService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AlumnoService{alumnos: alumnos, carreras: carreras, materias: materias, notas: notas, inscripciones: inscripciones, metrics: metrics, logger: logger}
}

// Perfil returns the alumno profile with the carrera principal resolved.
func (s *AlumnoService) Perfil(ctx context.Context, alumnoID string) (*PerfilAlumno, error) {
	alumno, err := s.alumnos.FindByID(ctx, alumnoID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNoEncontrado, "Alumno no encontrado")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInterno.Code, appErrors.ErrInterno.Status, appErrors.ErrInterno.Message)
	}
	perfil := &PerfilAlumno{Alumno: *alumno}
	if alumno.CarreraPrincipalID != nil {
		carrera, err := s.carreras.FindByID(ctx, *alumno.CarreraPrincipalID)
		if err == nil {
			perfil.CarreraPrincipal = carrera
		} else if !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Wrap(err, appErrors.ErrInterno.Code, appErrors.ErrInterno.Status, appErrors.ErrInterno.Message)
		}
	}
	return perfil, nil
}

// MisMaterias lists the materias of the alumno's carrera principal, flagging
// the ones they are enrolled in.
func (s *AlumnoService) MisMaterias(ctx context.Context, alumnoID string) ([]models.MateriaParaAlumno, error) {
	carreraID, err := s.carreraPrincipal(ctx, alumnoID)
	if err != nil {
		return nil, err
	}
	materias, err := s.materias.ListParaAlumno(ctx, carreraID, alumnoID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInterno.Code, appErrors.ErrInterno.Status, appErrors.ErrInterno.Message)
	}
	return materias, nil
}

// MisNotas lists the alumno's grades.
func (s *AlumnoService) MisNotas(ctx context.Context, alumnoID string) ([]models.NotaDetail, error) {
	notas, err := s.notas.ListByAlumno(ctx, alumnoID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInterno.Code, appErrors.ErrInterno.Status, appErrors.ErrInterno.Message)
	}
	return notas, nil
}

// Inscribir enrolls the alumno in a materia of their carrera. Serialization
// failures under concurrent enrollment are retried before giving up.
func (s *AlumnoService) Inscribir(ctx context.Context, alumnoID, materiaID string) error {
	carreraID, err := s.carreraPrincipal(ctx, alumnoID)
	if err != nil {
		return err
	}
	err = database.WithRetry(ctx, func(ctx context.Context) error {
		return s.inscripciones.Inscribir(ctx, alumnoID, materiaID, carreraID)
	})
	switch {
	case err == nil:
		s.recordInscripcion("inscripcion", "ok")
		s.logger.Info("inscripcion registrada",
			zap.String("alumno_id", alumnoID),
			zap.String("materia_id", materiaID))
		return nil
	case errors.Is(err, repository.ErrMateriaNoHay):
		s.recordInscripcion("inscripcion", "materia_inexistente")
		return appErrors.Clone(appErrors.ErrNoEncontrado, "Materia no encontrada")
	case errors.Is(err, repository.ErrMateriaAjena):
		s.recordInscripcion("inscripcion", "materia_ajena")
		return appErrors.Clone(appErrors.ErrConflicto, "La materia no pertenece a tu carrera")
	case errors.Is(err, repository.ErrYaInscripto):
		s.recordInscripcion("inscripcion", "ya_inscripto")
		return appErrors.Clone(appErrors.ErrConflicto, "Ya estás inscripto en esta materia")
	case errors.Is(err, repository.ErrSinCupo):
		s.recordInscripcion("inscripcion", "sin_cupo")
		return appErrors.Clone(appErrors.ErrConflicto, "No hay cupo disponible")
	default:
		s.recordInscripcion("inscripcion", "error")
		return appErrors.Wrap(err, appErrors.ErrInterno.Code, appErrors.ErrInterno.Status, appErrors.ErrInterno.Message)
	}
}

// DarDeBaja withdraws the alumno from a materia.
func (s *AlumnoService) DarDeBaja(ctx context.Context, alumnoID, materiaID string) error {
	err := database.WithRetry(ctx, func(ctx context.Context) error {
		return s.inscripciones.DarDeBaja(ctx, alumnoID, materiaID)
	})
	switch {
	case err == nil:
		s.recordInscripcion("baja", "ok")
		s.logger.Info("baja registrada",
			zap.String("alumno_id", alumnoID),
			zap.String("materia_id", materiaID))
		return nil
	case errors.Is(err, repository.ErrMateriaNoHay):
		s.recordInscripcion("baja", "materia_inexistente")
		return appErrors.Clone(appErrors.ErrNoEncontrado, "Materia no encontrada")
	case errors.Is(err, repository.ErrNoInscripto):
		s.recordInscripcion("baja", "no_inscripto")
		return appErrors.Clone(appErrors.ErrNoEncontrado, "No estás inscripto en esta materia")
	default:
		s.recordInscripcion("baja", "error")
		return appErrors.Wrap(err, appErrors.ErrInterno.Code, appErrors.ErrInterno.Status, appErrors.ErrInterno.Message)
	}
}

func (s *AlumnoService) recordInscripcion(operacion, resultado string) {
	if s.metrics != nil {
		s.metrics.RecordInscripcion(operacion, resultado)
	}
}

func (s *AlumnoService) carreraPrincipal(ctx context.Context, alumnoID string) (string, error) {
	alumno, err := s.alumnos.FindByID(ctx, alumnoID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", appErrors.Clone(appErrors.ErrNoEncontrado, "Alumno no encontrado")
		}
		return "", appErrors.Wrap(err, appErrors.ErrInterno.Code, appErrors.ErrInterno.Status, appErrors.ErrInterno.Message)
	}
	if alumno.CarreraPrincipalID == nil {
		return "", appErrors.Clone(appErrors.ErrConflicto, "No tenés una carrera asignada")
	}
	return *alumno.CarreraPrincipalID, nil
}
