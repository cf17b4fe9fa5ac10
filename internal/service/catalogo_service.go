package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/SebasM79/gestion-academica/internal/models"
	appErrors "github.com/SebasM79/gestion-academica/pkg/errors"
)

type catalogoCarreraRepository interface {
	List(ctx context.Context) ([]models.Carrera, error)
	FindByID(ctx context.Context, id string) (*models.Carrera, error)
}

type catalogoMateriaRepository interface {
	ListByCarrera(ctx context.Context, carreraID string) ([]models.MateriaDetail, error)
}

// CatalogoService serves the public carrera and materia listings.
type CatalogoService struct {
	carreras catalogoCarreraRepository
	materias catalogoMateriaRepository
	logger   *zap.Logger
}

// NewCatalogoService constructs a CatalogoService instance.
func NewCatalogoService(carreras catalogoCarreraRepository, materias catalogoMateriaRepository, logger *zap.Logger) *CatalogoService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogoService{carreras: carreras, materias: materias, logger: logger}
}

// ListCarreras returns the catalogue of carreras.
func (s *CatalogoService) ListCarreras(ctx context.Context) ([]models.Carrera, error) {
	carreras, err := s.carreras.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInterno.Code, appErrors.ErrInterno.Status, appErrors.ErrInterno.Message)
	}
	return carreras, nil
}

// GetCarrera returns one carrera.
func (s *CatalogoService) GetCarrera(ctx context.Context, id string) (*models.Carrera, error) {
	carrera, err := s.carreras.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNoEncontrado, "Carrera no encontrada")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInterno.Code, appErrors.ErrInterno.Status, appErrors.ErrInterno.Message)
	}
	return carrera, nil
}

// ListMateriasDeCarrera returns the materias of a carrera, confirming the
// carrera exists first so a bad ID yields a 404 instead of an empty list.
func (s *CatalogoService) ListMateriasDeCarrera(ctx context.Context, carreraID string) ([]models.MateriaDetail, error) {
	if _, err := s.GetCarrera(ctx, carreraID); err != nil {
		return nil, err
	}
	materias, err := s.materias.ListByCarrera(ctx, carreraID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInterno.Code, appErrors.ErrInterno.Status, appErrors.ErrInterno.Message)
	}
	return materias, nil
}
