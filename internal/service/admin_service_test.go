package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SebasM79/gestion-academica/internal/models"
	"github.com/SebasM79/gestion-academica/internal/repository"
	appErrors "github.com/SebasM79/gestion-academica/pkg/errors"
)

type mockAdminRegistroRepo struct {
	registros  []models.RegistroUsuario
	revisarErr error
	pendientes int
}

func (m *mockAdminRegistroRepo) List(ctx context.Context, estado models.EstadoRegistro) ([]models.RegistroUsuario, error) {
	return m.registros, nil
}

func (m *mockAdminRegistroRepo) FindByID(ctx context.Context, id string) (*models.RegistroUsuario, error) {
	return nil, sql.ErrNoRows
}

func (m *mockAdminRegistroRepo) Aprobar(ctx context.Context, registroID, adminPersonalID, observaciones string) (*models.RegistroUsuario, error) {
	if m.revisarErr != nil {
		return nil, m.revisarErr
	}
	return &models.RegistroUsuario{ID: registroID, Estado: models.EstadoAprobado}, nil
}

func (m *mockAdminRegistroRepo) Rechazar(ctx context.Context, registroID, adminPersonalID, observaciones string) (*models.RegistroUsuario, error) {
	if m.revisarErr != nil {
		return nil, m.revisarErr
	}
	return &models.RegistroUsuario{ID: registroID, Estado: models.EstadoRechazado}, nil
}

func (m *mockAdminRegistroRepo) CountPendientes(ctx context.Context) (int, error) {
	return m.pendientes, nil
}

type mockAdminAlumnoRepo struct {
	mockAlumnoRepo
	total int
	calls int
}

func (m *mockAdminAlumnoRepo) List(ctx context.Context) ([]models.AlumnoDetail, error) {
	return nil, nil
}

func (m *mockAdminAlumnoRepo) Create(ctx context.Context, alumno *models.Alumno) error {
	alumno.ID = "alu-nuevo"
	return nil
}

func (m *mockAdminAlumnoRepo) Update(ctx context.Context, alumno *models.Alumno) error { return nil }

func (m *mockAdminAlumnoRepo) Delete(ctx context.Context, id string) error { return nil }

func (m *mockAdminAlumnoRepo) Count(ctx context.Context) (int, error) {
	m.calls++
	return m.total, nil
}

type mockAdminCarreraRepo struct {
	mockCarreraLookup
	total     int
	deleteErr error
}

func (m *mockAdminCarreraRepo) List(ctx context.Context) ([]models.Carrera, error) {
	return nil, nil
}

func (m *mockAdminCarreraRepo) Create(ctx context.Context, c *models.Carrera) error { return nil }

func (m *mockAdminCarreraRepo) Update(ctx context.Context, c *models.Carrera) error { return nil }

func (m *mockAdminCarreraRepo) Delete(ctx context.Context, id string) error { return m.deleteErr }

func (m *mockAdminCarreraRepo) Count(ctx context.Context) (int, error) { return m.total, nil }

type mockAdminMateriaRepo struct {
	total     int
	createErr error
}

func (m *mockAdminMateriaRepo) List(ctx context.Context) ([]models.MateriaConAlumnos, error) {
	return nil, nil
}

func (m *mockAdminMateriaRepo) FindByID(ctx context.Context, id string) (*models.Materia, error) {
	return nil, sql.ErrNoRows
}

func (m *mockAdminMateriaRepo) Create(ctx context.Context, materia *models.Materia) error {
	if m.createErr != nil {
		return m.createErr
	}
	materia.ID = "mat-nueva"
	return nil
}

func (m *mockAdminMateriaRepo) Update(ctx context.Context, materia *models.Materia) error { return nil }

func (m *mockAdminMateriaRepo) Delete(ctx context.Context, id string) error { return nil }

func (m *mockAdminMateriaRepo) Count(ctx context.Context) (int, error) { return m.total, nil }

type mockAdminInscripcionRepo struct {
	existentes map[string]bool
	created    *models.InscripcionCarrera
}

func (m *mockAdminInscripcionRepo) List(ctx context.Context) ([]models.InscripcionCarreraDetail, error) {
	return nil, nil
}

func (m *mockAdminInscripcionRepo) Existe(ctx context.Context, alumnoID, carreraID string) (bool, error) {
	return m.existentes[alumnoID+"/"+carreraID], nil
}

func (m *mockAdminInscripcionRepo) Create(ctx context.Context, inscripcion *models.InscripcionCarrera) error {
	inscripcion.ID = "insc-1"
	m.created = inscripcion
	return nil
}

type mockAdminNotaRepo struct {
	total int
}

func (m *mockAdminNotaRepo) ListByAlumno(ctx context.Context, alumnoID string) ([]models.NotaDetail, error) {
	return nil, nil
}

func (m *mockAdminNotaRepo) Count(ctx context.Context) (int, error) { return m.total, nil }

type mockStatsCache struct {
	entries       map[string][]byte
	sets          int
	invalidations int
}

func (m *mockStatsCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	raw, ok := m.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (m *mockStatsCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if m.entries == nil {
		m.entries = make(map[string][]byte)
	}
	m.entries[key] = raw
	m.sets++
	return nil
}

func (m *mockStatsCache) Invalidate(ctx context.Context, key string) {
	delete(m.entries, key)
	m.invalidations++
}

type adminFixture struct {
	svc           *AdminService
	registros     *mockAdminRegistroRepo
	alumnos       *mockAdminAlumnoRepo
	carreras      *mockAdminCarreraRepo
	materias      *mockAdminMateriaRepo
	inscripciones *mockAdminInscripcionRepo
	cache         *mockStatsCache
}

func newAdminFixture() *adminFixture {
	registros := &mockAdminRegistroRepo{pendientes: 2}
	alumnos := &mockAdminAlumnoRepo{
		mockAlumnoRepo: mockAlumnoRepo{byID: map[string]*models.Alumno{"alu-1": {ID: "alu-1"}}},
		total:          120,
	}
	carreras := &mockAdminCarreraRepo{
		mockCarreraLookup: mockCarreraLookup{byID: map[string]*models.Carrera{"car-1": {ID: "car-1", Nombre: "Sistemas"}}},
		total:             4,
	}
	materias := &mockAdminMateriaRepo{total: 18}
	inscripciones := &mockAdminInscripcionRepo{existentes: map[string]bool{}}
	notas := &mockAdminNotaRepo{total: 300}
	cache := &mockStatsCache{}
	svc := NewAdminService(registros, alumnos, carreras, materias, inscripciones, notas, cache, time.Minute, nil, nil)
	return &adminFixture{svc: svc, registros: registros, alumnos: alumnos, carreras: carreras, materias: materias, inscripciones: inscripciones, cache: cache}
}

func TestStatsPopulatesAndUsesCache(t *testing.T) {
	f := newAdminFixture()

	stats, err := f.svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 120, stats.Alumnos)
	assert.Equal(t, 2, stats.RegistrosPendientes)
	assert.Equal(t, 1, f.cache.sets)
	assert.Equal(t, 1, f.alumnos.calls)

	// Second call is served from cache without touching the counters.
	stats, err = f.svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 120, stats.Alumnos)
	assert.Equal(t, 1, f.alumnos.calls)
}

func TestStatsSeRecalculanTrasMutacion(t *testing.T) {
	f := newAdminFixture()

	_, err := f.svc.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, f.alumnos.calls)

	// Creating an alumno changes the counters, so the cached entry goes away
	// and the next Stats call hits the repositories again.
	_, err = f.svc.CrearAlumno(context.Background(), AlumnoRequest{
		Nombre:   "Ana",
		Apellido: "Suárez",
		DNI:      "30111222",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, f.cache.invalidations)

	f.alumnos.total = 121
	stats, err := f.svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 121, stats.Alumnos)
	assert.Equal(t, 2, f.alumnos.calls)
}

func TestCrearMateriaDuplicada(t *testing.T) {
	f := newAdminFixture()
	f.materias.createErr = &pq.Error{Code: "23505", Constraint: "materias_nombre_carrera_id_key"}

	_, err := f.svc.CrearMateria(context.Background(), MateriaRequest{
		Nombre:    "Algoritmos",
		Cupo:      30,
		CarreraID: "car-1",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, 400, appErr.Status)
	assert.Contains(t, appErr.Fields, "nombre")
}

func TestListRegistrosRejectsUnknownEstado(t *testing.T) {
	f := newAdminFixture()

	_, err := f.svc.ListRegistros(context.Background(), "ARCHIVADO")
	require.Error(t, err)
	assert.Contains(t, appErrors.FromError(err).Fields, "estado")
}

func TestAprobarRegistroMapsRepositoryErrors(t *testing.T) {
	f := newAdminFixture()

	f.registros.revisarErr = sql.ErrNoRows
	_, err := f.svc.AprobarRegistro(context.Background(), "reg-x", "per-1", RevisionRegistroRequest{})
	require.Error(t, err)
	assert.Equal(t, 404, appErrors.FromError(err).Status)

	f.registros.revisarErr = repository.ErrRegistroNoPendiente
	_, err = f.svc.AprobarRegistro(context.Background(), "reg-1", "per-1", RevisionRegistroRequest{})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, 400, appErr.Status)
	assert.Contains(t, appErr.Message, "PENDIENTE")
}

func TestRechazarRegistro(t *testing.T) {
	f := newAdminFixture()

	registro, err := f.svc.RechazarRegistro(context.Background(), "reg-1", "per-1", RevisionRegistroRequest{Observaciones: "datos incompletos"})
	require.NoError(t, err)
	assert.Equal(t, models.EstadoRechazado, registro.Estado)
}

func TestInscribirEnCarreraSetsResponsable(t *testing.T) {
	f := newAdminFixture()

	inscripcion, err := f.svc.InscribirEnCarrera(context.Background(), "per-1", InscripcionCarreraRequest{
		AlumnoID:  "alu-1",
		CarreraID: "car-1",
	})
	require.NoError(t, err)
	require.NotNil(t, inscripcion.ResponsableID)
	assert.Equal(t, "per-1", *inscripcion.ResponsableID)
}

func TestInscribirEnCarreraDuplicada(t *testing.T) {
	f := newAdminFixture()
	f.inscripciones.existentes["alu-1/car-1"] = true

	_, err := f.svc.InscribirEnCarrera(context.Background(), "per-1", InscripcionCarreraRequest{
		AlumnoID:  "alu-1",
		CarreraID: "car-1",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, 400, appErr.Status)
	assert.Contains(t, appErr.Message, "ya está inscripto")
}

func TestEliminarCarreraConAlumnosEsConflicto(t *testing.T) {
	f := newAdminFixture()
	f.carreras.deleteErr = &pq.Error{Code: "23503", Constraint: "alumnos_carrera_principal_id_fkey"}

	err := f.svc.EliminarCarrera(context.Background(), "car-1")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, 400, appErr.Status)
	assert.Contains(t, appErr.Message, "No se puede eliminar la carrera")
}

func TestCrearAlumnoValidatesDNI(t *testing.T) {
	f := newAdminFixture()

	_, err := f.svc.CrearAlumno(context.Background(), AlumnoRequest{
		Nombre:   "Ana",
		Apellido: "Suárez",
		DNI:      "abc",
	})
	require.Error(t, err)
	assert.Contains(t, appErrors.FromError(err).Fields, "dni")
}
