package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SebasM79/gestion-academica/internal/models"
	appErrors "github.com/SebasM79/gestion-academica/pkg/errors"
)

type mockAsignacionRepo struct {
	asignadas map[string]bool
	materias  []models.MateriaConAlumnos
}

func (m *mockAsignacionRepo) Existe(ctx context.Context, docenteID, materiaID string) (bool, error) {
	return m.asignadas[docenteID+"/"+materiaID], nil
}

func (m *mockAsignacionRepo) ListMateriasByDocente(ctx context.Context, docenteID string) ([]models.MateriaConAlumnos, error) {
	return m.materias, nil
}

type mockMateriaRepo struct {
	byID      map[string]*models.Materia
	createErr error
	updated   *models.Materia
	deleted   []string
}

func (m *mockMateriaRepo) FindByID(ctx context.Context, id string) (*models.Materia, error) {
	if mat, ok := m.byID[id]; ok {
		return mat, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockMateriaRepo) CreateConAsignacion(ctx context.Context, materia *models.Materia, docenteID string) error {
	if m.createErr != nil {
		return m.createErr
	}
	materia.ID = "mat-nueva"
	m.byID[materia.ID] = materia
	return nil
}

func (m *mockMateriaRepo) Update(ctx context.Context, materia *models.Materia) error {
	m.updated = materia
	return nil
}

func (m *mockMateriaRepo) Delete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

type mockDocenteNotaRepo struct {
	upserted *models.Nota
	roster   []models.AlumnoConNota
}

func (m *mockDocenteNotaRepo) Upsert(ctx context.Context, nota *models.Nota) error {
	m.upserted = nota
	return nil
}

func (m *mockDocenteNotaRepo) AlumnosDeMateria(ctx context.Context, materiaID string) ([]models.AlumnoConNota, error) {
	return m.roster, nil
}

func newDocenteFixture() (*DocenteService, *mockAsignacionRepo, *mockMateriaRepo, *mockDocenteNotaRepo) {
	asignaciones := &mockAsignacionRepo{asignadas: map[string]bool{"per-1/mat-1": true}}
	materias := &mockMateriaRepo{byID: map[string]*models.Materia{
		"mat-1": {ID: "mat-1", Nombre: "Algoritmos", Cupo: 30, CarreraID: "car-1"},
	}}
	notas := &mockDocenteNotaRepo{}
	alumnos := &mockAlumnoRepo{byID: map[string]*models.Alumno{"alu-1": {ID: "alu-1"}}}
	svc := NewDocenteService(asignaciones, materias, notas, alumnos, nil, nil)
	return svc, asignaciones, materias, notas
}

func TestCargarNotaUpserts(t *testing.T) {
	svc, _, _, notas := newDocenteFixture()

	nota, err := svc.CargarNota(context.Background(), "per-1", "mat-1", CargarNotaRequest{
		AlumnoID:      "alu-1",
		Nota:          7.5,
		Observaciones: "buen parcial",
	})
	require.NoError(t, err)
	require.NotNil(t, notas.upserted)
	assert.Equal(t, "per-1", nota.ProfesorID)
	assert.Equal(t, 7.5, nota.Nota)
	assert.True(t, nota.Aprobada())
}

func TestCargarNotaSinInscripcionActiva(t *testing.T) {
	// A withdrawn alumno stays on the roster while a nota exists, so the
	// docente must still be able to correct the grade.
	svc, _, _, notas := newDocenteFixture()

	nota, err := svc.CargarNota(context.Background(), "per-1", "mat-1", CargarNotaRequest{
		AlumnoID: "alu-1",
		Nota:     4.0,
	})
	require.NoError(t, err)
	require.NotNil(t, notas.upserted)
	assert.Equal(t, 4.0, nota.Nota)
	assert.False(t, nota.Aprobada())
}

func TestCargarNotaRejectsOutOfRange(t *testing.T) {
	svc, _, _, notas := newDocenteFixture()

	for _, valor := range []float64{0.5, 10.5} {
		_, err := svc.CargarNota(context.Background(), "per-1", "mat-1", CargarNotaRequest{
			AlumnoID: "alu-1",
			Nota:     valor,
		})
		require.Error(t, err)
		assert.Contains(t, appErrors.FromError(err).Fields, "nota")
	}
	assert.Nil(t, notas.upserted)
}

func TestCargarNotaForeignMateriaIsForbidden(t *testing.T) {
	svc, _, materias, _ := newDocenteFixture()
	materias.byID["mat-2"] = &models.Materia{ID: "mat-2", Nombre: "Física", CarreraID: "car-1"}

	_, err := svc.CargarNota(context.Background(), "per-1", "mat-2", CargarNotaRequest{
		AlumnoID: "alu-1",
		Nota:     6,
	})
	require.Error(t, err)
	assert.Equal(t, 403, appErrors.FromError(err).Status)
}

func TestCargarNotaUnknownMateriaIs404(t *testing.T) {
	svc, _, _, _ := newDocenteFixture()

	_, err := svc.CargarNota(context.Background(), "per-1", "mat-nope", CargarNotaRequest{
		AlumnoID: "alu-1",
		Nota:     6,
	})
	require.Error(t, err)
	assert.Equal(t, 404, appErrors.FromError(err).Status)
}

func TestCargarNotaUnknownAlumnoIs404(t *testing.T) {
	svc, _, _, _ := newDocenteFixture()

	_, err := svc.CargarNota(context.Background(), "per-1", "mat-1", CargarNotaRequest{
		AlumnoID: "alu-nope",
		Nota:     6,
	})
	require.Error(t, err)
	assert.Equal(t, 404, appErrors.FromError(err).Status)
}

func TestCrearMateriaDuplicadaEnCarrera(t *testing.T) {
	svc, _, materias, _ := newDocenteFixture()
	materias.createErr = &pq.Error{Code: "23505", Constraint: "materias_nombre_carrera_id_key"}

	_, err := svc.CrearMateria(context.Background(), "per-1", CrearMateriaRequest{
		Nombre:    "Algoritmos",
		Cupo:      30,
		CarreraID: "car-1",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, 400, appErr.Status)
	assert.Contains(t, appErr.Fields, "nombre")
}

func TestActualizarMateriaKeepsCarrera(t *testing.T) {
	svc, _, materias, _ := newDocenteFixture()

	materia, err := svc.ActualizarMateria(context.Background(), "per-1", "mat-1", ActualizarMateriaRequest{
		Nombre:  "Algoritmos II",
		Horario: "Mie 18-22",
		Cupo:    25,
	})
	require.NoError(t, err)
	require.NotNil(t, materias.updated)
	assert.Equal(t, "Algoritmos II", materia.Nombre)
	assert.Equal(t, "car-1", materia.CarreraID)
}

func TestEliminarMateriaRequiresAsignacion(t *testing.T) {
	svc, _, materias, _ := newDocenteFixture()
	materias.byID["mat-2"] = &models.Materia{ID: "mat-2"}

	err := svc.EliminarMateria(context.Background(), "per-1", "mat-2")
	require.Error(t, err)
	assert.Equal(t, 403, appErrors.FromError(err).Status)
	assert.Empty(t, materias.deleted)
}
