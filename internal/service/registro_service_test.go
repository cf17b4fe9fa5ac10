package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/SebasM79/gestion-academica/internal/models"
	appErrors "github.com/SebasM79/gestion-academica/pkg/errors"
)

type mockRegistroRepo struct {
	created *models.RegistroUsuario
	usuario *models.Usuario
	err     error
}

func (m *mockRegistroRepo) CrearConUsuario(ctx context.Context, registro *models.RegistroUsuario, usuario *models.Usuario) error {
	if m.err != nil {
		return m.err
	}
	registro.ID = "reg-1"
	registro.Estado = models.EstadoPendiente
	m.created = registro
	m.usuario = usuario
	return nil
}

type mockCarreraLookup struct {
	byID map[string]*models.Carrera
}

func (m *mockCarreraLookup) FindByID(ctx context.Context, id string) (*models.Carrera, error) {
	if c, ok := m.byID[id]; ok {
		return c, nil
	}
	return nil, sql.ErrNoRows
}

func validRegistroRequest() RegistroRequest {
	return RegistroRequest{
		Nombre:   "Ana",
		Apellido: "Suárez",
		DNI:      "30111222",
		Email:    "ana@example.com",
		Rol:      "ALUMNO",
	}
}

func TestRegistrarCreatesInactiveAccountWithDNIPassword(t *testing.T) {
	repo := &mockRegistroRepo{}
	carreras := &mockCarreraLookup{byID: map[string]*models.Carrera{"car-1": {ID: "car-1", Nombre: "Sistemas"}}}
	svc := NewRegistroService(repo, carreras, nil, nil)

	req := validRegistroRequest()
	req.CarreraSolicitadaID = "car-1"
	registro, err := svc.Registrar(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, models.EstadoPendiente, registro.Estado)
	require.NotNil(t, registro.CarreraSolicitadaID)
	assert.Equal(t, "car-1", *registro.CarreraSolicitadaID)

	require.NotNil(t, repo.usuario)
	assert.Equal(t, "30111222", repo.usuario.Username)
	assert.False(t, repo.usuario.Activo)
	assert.True(t, repo.usuario.DebeCambiarPassword)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.usuario.PasswordHash), []byte("30111222")))
}

func TestRegistrarRejectsInvalidDNI(t *testing.T) {
	svc := NewRegistroService(&mockRegistroRepo{}, &mockCarreraLookup{}, nil, nil)

	req := validRegistroRequest()
	req.DNI = "12AB"
	_, err := svc.Registrar(context.Background(), req)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidacion.Code, appErr.Code)
	assert.Contains(t, appErr.Fields, "dni")
}

func TestRegistrarPersonalRequiresValidCargo(t *testing.T) {
	svc := NewRegistroService(&mockRegistroRepo{}, &mockCarreraLookup{}, nil, nil)

	req := validRegistroRequest()
	req.Rol = "PERSONAL"
	req.Cargo = "BEDEL"
	_, err := svc.Registrar(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, appErrors.FromError(err).Fields, "cargo")
}

func TestRegistrarUnknownCarrera(t *testing.T) {
	svc := NewRegistroService(&mockRegistroRepo{}, &mockCarreraLookup{}, nil, nil)

	req := validRegistroRequest()
	req.CarreraSolicitadaID = "car-nope"
	_, err := svc.Registrar(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, appErrors.FromError(err).Fields, "carrera_solicitada_id")
}

func TestRegistrarDuplicateDNIMapsToFieldError(t *testing.T) {
	repo := &mockRegistroRepo{err: &pq.Error{Code: "23505", Constraint: "usuarios_username_key"}}
	svc := NewRegistroService(repo, &mockCarreraLookup{}, nil, nil)

	_, err := svc.Registrar(context.Background(), validRegistroRequest())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, 400, appErr.Status)
	assert.Contains(t, appErr.Fields, "dni")
	assert.Contains(t, appErr.Fields["dni"][0], "Ya existe")
}
