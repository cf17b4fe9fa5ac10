package service

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/SebasM79/gestion-academica/internal/models"
	appErrors "github.com/SebasM79/gestion-academica/pkg/errors"
	"github.com/SebasM79/gestion-academica/pkg/export"
)

type exportAlumnoRepository interface {
	FindByID(ctx context.Context, id string) (*models.Alumno, error)
	List(ctx context.Context) ([]models.AlumnoDetail, error)
}

type exportNotaRepository interface {
	ListByAlumno(ctx context.Context, alumnoID string) ([]models.NotaDetail, error)
}

// ExportFile is a rendered export ready to be sent to the client.
type ExportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}

// ExportService renders boletines and listings as PDF or CSV.
type ExportService struct {
	alumnos exportAlumnoRepository
	notas   exportNotaRepository
	pdf     *export.PDFExporter
	csv     *export.CSVExporter
	logger  *zap.Logger
}

// NewExportService constructs an ExportService instance.
func NewExportService(alumnos exportAlumnoRepository, notas exportNotaRepository, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		alumnos: alumnos,
		notas:   notas,
		pdf:     export.NewPDFExporter(),
		csv:     export.NewCSVExporter(),
		logger:  logger,
	}
}

// BoletinAlumno renders the grade report of one alumno in the requested
// formato ("pdf" or "csv").
func (s *ExportService) BoletinAlumno(ctx context.Context, alumnoID, formato string) (*ExportFile, error) {
	alumno, err := s.alumnos.FindByID(ctx, alumnoID)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNoEncontrado, "Alumno no encontrado")
	}
	notas, err := s.notas.ListByAlumno(ctx, alumnoID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInterno.Code, appErrors.ErrInterno.Status, appErrors.ErrInterno.Message)
	}

	dataset := export.Dataset{
		Headers: []string{"Materia", "Nota", "Estado", "Observaciones", "Fecha"},
	}
	for _, n := range notas {
		estado := "Desaprobada"
		if n.Nota.Aprobada() {
			estado = "Aprobada"
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Materia":       n.MateriaNombre,
			"Nota":          strconv.FormatFloat(n.Nota.Nota, 'f', 2, 64),
			"Estado":        estado,
			"Observaciones": n.Observaciones,
			"Fecha":         n.FechaModificacion.Format("02/01/2006"),
		})
	}

	titulo := fmt.Sprintf("Boletín de %s, %s (DNI %s)", alumno.Apellido, alumno.Nombre, alumno.DNI)
	return s.render(dataset, titulo, fmt.Sprintf("boletin_%s", alumno.DNI), formato)
}

// ListadoAlumnos renders the full student roster.
func (s *ExportService) ListadoAlumnos(ctx context.Context, formato string) (*ExportFile, error) {
	alumnos, err := s.alumnos.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInterno.Code, appErrors.ErrInterno.Status, appErrors.ErrInterno.Message)
	}

	dataset := export.Dataset{
		Headers: []string{"Apellido", "Nombre", "DNI", "Email", "Carrera"},
	}
	for _, a := range alumnos {
		carrera := ""
		if a.CarreraPrincipalNombre != nil {
			carrera = *a.CarreraPrincipalNombre
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Apellido": a.Apellido,
			"Nombre":   a.Nombre,
			"DNI":      a.DNI,
			"Email":    a.Email,
			"Carrera":  carrera,
		})
	}

	return s.render(dataset, "Listado de alumnos", "alumnos", formato)
}

func (s *ExportService) render(dataset export.Dataset, titulo, basename, formato string) (*ExportFile, error) {
	switch formato {
	case "csv":
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInterno.Code, appErrors.ErrInterno.Status, appErrors.ErrInterno.Message)
		}
		return &ExportFile{
			Filename:    basename + ".csv",
			ContentType: "text/csv; charset=utf-8",
			Content:     content,
		}, nil
	case "", "pdf":
		content, err := s.pdf.Render(dataset, titulo)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInterno.Code, appErrors.ErrInterno.Status, appErrors.ErrInterno.Message)
		}
		return &ExportFile{
			Filename:    basename + ".pdf",
			ContentType: "application/pdf",
			Content:     content,
		}, nil
	default:
		return nil, appErrors.FieldError("formato", "Formato inválido: debe ser pdf o csv")
	}
}
