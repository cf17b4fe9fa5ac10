package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func materiaRows(cupo int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "nombre", "horario", "cupo", "carrera_id"}).
		AddRow("mat-1", "Algoritmos", "Lun 18-22", cupo, "car-1")
}

func TestInscribirCreatesEnrollmentAndDecrementsCupo(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewInscripcionMateriaRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, nombre, horario, cupo, carrera_id FROM materias WHERE id = \\$1 FOR UPDATE").
		WithArgs("mat-1").
		WillReturnRows(materiaRows(5))
	mock.ExpectQuery("SELECT EXISTS\\(SELECT 1 FROM inscripciones_materia").
		WithArgs("alu-1", "mat-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec("UPDATE inscripciones_materia").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO inscripciones_materia").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE materias SET cupo = cupo - 1 WHERE id = $1")).
		WithArgs("mat-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Inscribir(context.Background(), "alu-1", "mat-1", "car-1")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInscribirReactivatesWithdrawnRow(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewInscripcionMateriaRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs("mat-1").
		WillReturnRows(materiaRows(2))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("alu-1", "mat-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec("UPDATE inscripciones_materia").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE materias SET cupo = cupo - 1").
		WithArgs("mat-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Inscribir(context.Background(), "alu-1", "mat-1", "car-1")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInscribirRejectsWhenSinCupo(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewInscripcionMateriaRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs("mat-1").
		WillReturnRows(materiaRows(0))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("alu-1", "mat-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectRollback()

	err := repo.Inscribir(context.Background(), "alu-1", "mat-1", "car-1")
	require.ErrorIs(t, err, ErrSinCupo)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInscribirRejectsWhenYaInscripto(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewInscripcionMateriaRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs("mat-1").
		WillReturnRows(materiaRows(3))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("alu-1", "mat-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	err := repo.Inscribir(context.Background(), "alu-1", "mat-1", "car-1")
	require.ErrorIs(t, err, ErrYaInscripto)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInscribirRejectsMateriaDeOtraCarrera(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewInscripcionMateriaRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs("mat-1").
		WillReturnRows(materiaRows(3))
	mock.ExpectRollback()

	err := repo.Inscribir(context.Background(), "alu-1", "mat-1", "car-otra")
	require.ErrorIs(t, err, ErrMateriaAjena)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDarDeBajaRevokesAndFreesSeat(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewInscripcionMateriaRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM materias WHERE id = \\$1 FOR UPDATE").
		WithArgs("mat-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("mat-1"))
	mock.ExpectExec("UPDATE inscripciones_materia").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE materias SET cupo = cupo \\+ 1").
		WithArgs("mat-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.DarDeBaja(context.Background(), "alu-1", "mat-1")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDarDeBajaFailsWhenNoActiveEnrollment(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewInscripcionMateriaRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM materias WHERE id = \\$1 FOR UPDATE").
		WithArgs("mat-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("mat-1"))
	mock.ExpectExec("UPDATE inscripciones_materia").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.DarDeBaja(context.Background(), "alu-1", "mat-1")
	require.ErrorIs(t, err, ErrNoInscripto)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListActivasByAlumno(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewInscripcionMateriaRepository(db)

	rows := sqlmock.NewRows([]string{"id", "alumno_id", "materia_id", "activa", "fecha_inscripcion", "fecha_baja"}).
		AddRow("ins-1", "alu-1", "mat-1", true, time.Now(), nil)
	mock.ExpectQuery("SELECT id, alumno_id, materia_id, activa, fecha_inscripcion, fecha_baja").
		WithArgs("alu-1").
		WillReturnRows(rows)

	inscripciones, err := repo.ListActivasByAlumno(context.Background(), "alu-1")
	require.NoError(t, err)
	require.Len(t, inscripciones, 1)
	require.True(t, inscripciones[0].Activa)
	require.NoError(t, mock.ExpectationsWereMet())
}
