package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/SebasM79/gestion-academica/internal/models"
	"github.com/SebasM79/gestion-academica/internal/session"
	appErrors "github.com/SebasM79/gestion-academica/pkg/errors"
)

type mockUsuarioRepo struct {
	byID       map[string]*models.Usuario
	byUsername map[string]*models.Usuario
	byDNI      map[string]*models.Usuario

	passwordUpdated string
	lastLoginSet    bool
}

func (m *mockUsuarioRepo) FindByID(ctx context.Context, id string) (*models.Usuario, error) {
	if u, ok := m.byID[id]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUsuarioRepo) FindByUsername(ctx context.Context, username string) (*models.Usuario, error) {
	if u, ok := m.byUsername[username]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUsuarioRepo) FindByProfileDNI(ctx context.Context, dni string) (*models.Usuario, error) {
	if u, ok := m.byDNI[dni]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUsuarioRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	m.passwordUpdated = passwordHash
	return nil
}

func (m *mockUsuarioRepo) UpdateUltimoLogin(ctx context.Context, id string, ts time.Time) error {
	m.lastLoginSet = true
	return nil
}

type mockAlumnoLookup struct {
	byUsuario map[string]*models.Alumno
}

func (m *mockAlumnoLookup) FindByUsuarioID(ctx context.Context, usuarioID string) (*models.Alumno, error) {
	if a, ok := m.byUsuario[usuarioID]; ok {
		return a, nil
	}
	return nil, sql.ErrNoRows
}

type mockPersonalLookup struct {
	byUsuario map[string]*models.Personal
}

func (m *mockPersonalLookup) FindByUsuarioID(ctx context.Context, usuarioID string) (*models.Personal, error) {
	if p, ok := m.byUsuario[usuarioID]; ok {
		return p, nil
	}
	return nil, sql.ErrNoRows
}

type mockSessionStore struct {
	created []string
	deleted []string
	revoked map[string]string
}

func (m *mockSessionStore) Create(ctx context.Context, usuarioID string) (*session.Session, error) {
	m.created = append(m.created, usuarioID)
	return &session.Session{ID: "ses-1", UsuarioID: usuarioID, CreadoEn: time.Now()}, nil
}

func (m *mockSessionStore) Delete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockSessionStore) DeleteByUsuario(ctx context.Context, usuarioID, keep string) error {
	if m.revoked == nil {
		m.revoked = make(map[string]string)
	}
	m.revoked[usuarioID] = keep
	return nil
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func newAuthFixture(t *testing.T) (*AuthService, *mockUsuarioRepo, *mockAlumnoLookup, *mockPersonalLookup, *mockSessionStore) {
	usuarios := &mockUsuarioRepo{
		byID:       map[string]*models.Usuario{},
		byUsername: map[string]*models.Usuario{},
		byDNI:      map[string]*models.Usuario{},
	}
	alumnos := &mockAlumnoLookup{byUsuario: map[string]*models.Alumno{}}
	personal := &mockPersonalLookup{byUsuario: map[string]*models.Personal{}}
	sessions := &mockSessionStore{}
	svc := NewAuthService(usuarios, alumnos, personal, sessions, nil, nil)
	return svc, usuarios, alumnos, personal, sessions
}

func TestLoginSuccessResolvesAlumnoPrincipal(t *testing.T) {
	svc, usuarios, alumnos, _, sessions := newAuthFixture(t)
	usuario := &models.Usuario{ID: "usr-1", Username: "30111222", PasswordHash: hashOf(t, "secreta123"), Activo: true}
	usuarios.byUsername["30111222"] = usuario
	alumnos.byUsuario["usr-1"] = &models.Alumno{ID: "alu-1"}

	sess, principal, err := svc.Login(context.Background(), LoginRequest{Username: "30111222", Password: "secreta123"})
	require.NoError(t, err)
	require.Equal(t, "ses-1", sess.ID)
	assert.Equal(t, models.PrincipalAlumno, principal.Tipo)
	assert.Equal(t, "alu-1", principal.AlumnoID)
	assert.Equal(t, []string{"usr-1"}, sessions.created)
	assert.True(t, usuarios.lastLoginSet)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, usuarios, _, _, sessions := newAuthFixture(t)
	usuarios.byUsername["30111222"] = &models.Usuario{ID: "usr-1", PasswordHash: hashOf(t, "secreta123"), Activo: true}

	_, _, err := svc.Login(context.Background(), LoginRequest{Username: "30111222", Password: "otra"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrCredencialesInvalidas.Code, appErrors.FromError(err).Code)
	assert.Empty(t, sessions.created)
}

func TestLoginUnknownUserLooksLikeBadCredentials(t *testing.T) {
	svc, _, _, _, _ := newAuthFixture(t)

	_, _, err := svc.Login(context.Background(), LoginRequest{Username: "99999999", Password: "x"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrCredencialesInvalidas.Code, appErrors.FromError(err).Code)
}

func TestLoginInactiveAccountWithCorrectPassword(t *testing.T) {
	svc, usuarios, _, _, _ := newAuthFixture(t)
	usuarios.byUsername["30111222"] = &models.Usuario{ID: "usr-1", PasswordHash: hashOf(t, "30111222"), Activo: false}

	_, _, err := svc.Login(context.Background(), LoginRequest{Username: "30111222", Password: "30111222"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrCuentaPendiente.Code, appErr.Code)
	assert.Equal(t, 400, appErr.Status)
}

func TestLoginFallsBackToProfileDNI(t *testing.T) {
	svc, usuarios, _, personal, _ := newAuthFixture(t)
	usuario := &models.Usuario{ID: "usr-2", Username: "otro_nombre", PasswordHash: hashOf(t, "clave1234"), Activo: true}
	usuarios.byDNI["20333444"] = usuario
	personal.byUsuario["usr-2"] = &models.Personal{ID: "per-1", Cargo: models.CargoDocente}

	_, principal, err := svc.Login(context.Background(), LoginRequest{Username: "20333444", Password: "clave1234"})
	require.NoError(t, err)
	assert.Equal(t, models.PrincipalPersonal, principal.Tipo)
	assert.Equal(t, "PERSONAL:DOCENTE", principal.Rol())
	assert.True(t, principal.EsDocente())
}

func TestPrincipalAdminFlagWins(t *testing.T) {
	svc, usuarios, _, personal, _ := newAuthFixture(t)
	usuarios.byID["usr-3"] = &models.Usuario{ID: "usr-3", Username: "admin", Activo: true, EsAdmin: true}
	personal.byUsuario["usr-3"] = &models.Personal{ID: "per-9", Cargo: models.CargoAdmin}

	principal, err := svc.Principal(context.Background(), "usr-3")
	require.NoError(t, err)
	assert.Equal(t, models.PrincipalAdmin, principal.Tipo)
	assert.True(t, principal.EsAdminOPreceptor())
}

func TestCambiarPasswordRevokesOtherSessions(t *testing.T) {
	svc, usuarios, _, _, sessions := newAuthFixture(t)
	usuarios.byID["usr-1"] = &models.Usuario{ID: "usr-1", PasswordHash: hashOf(t, "vieja1234")}
	principal := &models.Principal{UsuarioID: "usr-1"}

	err := svc.CambiarPassword(context.Background(), principal, "ses-actual", CambiarPasswordRequest{
		PasswordActual: "vieja1234",
		PasswordNueva:  "nueva12345",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, usuarios.passwordUpdated)
	assert.Equal(t, "ses-actual", sessions.revoked["usr-1"])
}

func TestCambiarPasswordWrongCurrent(t *testing.T) {
	svc, usuarios, _, _, _ := newAuthFixture(t)
	usuarios.byID["usr-1"] = &models.Usuario{ID: "usr-1", PasswordHash: hashOf(t, "vieja1234")}

	err := svc.CambiarPassword(context.Background(), &models.Principal{UsuarioID: "usr-1"}, "", CambiarPasswordRequest{
		PasswordActual: "equivocada",
		PasswordNueva:  "nueva12345",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Contains(t, appErr.Fields, "password_actual")
	assert.Empty(t, usuarios.passwordUpdated)
}
