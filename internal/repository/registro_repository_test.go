package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/SebasM79/gestion-academica/internal/models"
)

func registroRow(estado models.EstadoRegistro, rol models.RolSolicitado) *sqlmock.Rows {
	usuarioID := "usr-1"
	carreraID := "car-1"
	return sqlmock.NewRows([]string{
		"id", "nombre", "apellido", "dni", "email", "telefono", "direccion", "usuario_id",
		"rol_solicitado", "cargo_solicitado", "carrera_solicitada_id", "estado", "creado_en",
		"aprobado_en", "aprobado_por_id", "observaciones_admin",
	}).AddRow("reg-1", "Ana", "Suárez", "30111222", "ana@example.com", "", "", usuarioID,
		rol, "", carreraID, estado, time.Now(), nil, nil, "")
}

func TestCrearConUsuarioRunsInOneTransaction(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRegistroRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO usuarios").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO registros_usuario").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	usuario := &models.Usuario{Username: "30111222", PasswordHash: "hash", DebeCambiarPassword: true}
	registro := &models.RegistroUsuario{
		Persona:       models.Persona{Nombre: "Ana", Apellido: "Suárez", DNI: "30111222"},
		RolSolicitado: models.RolAlumno,
	}
	err := repo.CrearConUsuario(context.Background(), registro, usuario)
	require.NoError(t, err)
	require.Equal(t, models.EstadoPendiente, registro.Estado)
	require.NotNil(t, registro.UsuarioID)
	require.Equal(t, usuario.ID, *registro.UsuarioID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAprobarActivatesUsuarioAndCreatesProfile(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRegistroRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM registros_usuario WHERE id = \\$1 FOR UPDATE").
		WithArgs("reg-1").
		WillReturnRows(registroRow(models.EstadoPendiente, models.RolAlumno))
	mock.ExpectExec("UPDATE usuarios SET activo = TRUE").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT id FROM alumnos WHERE dni = \\$1").
		WithArgs("30111222").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec("INSERT INTO alumnos").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE alumnos SET carrera_principal_id").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO inscripciones_carrera").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE registros_usuario").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	registro, err := repo.Aprobar(context.Background(), "reg-1", "per-admin", "ok")
	require.NoError(t, err)
	require.Equal(t, models.EstadoAprobado, registro.Estado)
	require.NotNil(t, registro.AprobadoEn)
	require.NotNil(t, registro.AprobadoPorID)
	require.Equal(t, "per-admin", *registro.AprobadoPorID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAprobarRejectsNonPendiente(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRegistroRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs("reg-1").
		WillReturnRows(registroRow(models.EstadoAprobado, models.RolAlumno))
	mock.ExpectRollback()

	_, err := repo.Aprobar(context.Background(), "reg-1", "per-admin", "")
	require.ErrorIs(t, err, ErrRegistroNoPendiente)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRechazarKeepsUsuarioInactive(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRegistroRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs("reg-1").
		WillReturnRows(registroRow(models.EstadoPendiente, models.RolPersonal))
	mock.ExpectExec("UPDATE registros_usuario").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	registro, err := repo.Rechazar(context.Background(), "reg-1", "per-admin", "datos inconsistentes")
	require.NoError(t, err)
	require.Equal(t, models.EstadoRechazado, registro.Estado)
	require.Equal(t, "datos inconsistentes", registro.ObservacionesAdmin)
	require.NoError(t, mock.ExpectationsWereMet())
}
