package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuzailpalnak/authentic-ilm/internal/models"
)

func newCourseMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func sampleGraph() CourseGraph {
	description := "Hands-on introduction"
	return CourseGraph{
		Professor: models.Professor{
			Name:     "Grace Hopper",
			NameKey:  "grace hopper",
			Email:    "grace@navy.mil",
			EmailKey: "grace@navy.mil",
		},
		Pathway: models.Pathway{Name: "Engineering", NameKey: "engineering"},
		Topic:   models.Topic{Name: "Compilers", NameKey: "compilers"},
		Course: models.Course{
			Title:       "Compiler Construction",
			Description: &description,
			Sessions: []models.Session{
				{
					SessionNumber: 1,
					Title:         "Lexing",
					Media: []models.MediaItem{
						{Type: models.MediaTypeVideo, URL: "https://cdn.example.com/lexing.mp4"},
					},
				},
				{SessionNumber: 2, Title: "Parsing"},
			},
		},
	}
}

func TestCourseRepositoryCreateGraph(t *testing.T) {
	db, mock, cleanup := newCourseMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM pathways WHERE name_key").
		WithArgs("engineering").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("INSERT INTO pathways").
		WithArgs(sqlmock.AnyArg(), "Engineering", "engineering", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("pw-1"))
	mock.ExpectQuery("SELECT id FROM professors WHERE email_key").
		WithArgs("grace@navy.mil").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("INSERT INTO professors").
		WithArgs(sqlmock.AnyArg(), "Grace Hopper", "grace hopper", "grace@navy.mil", "grace@navy.mil", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("prof-1"))
	mock.ExpectQuery("SELECT id FROM topics WHERE name_key").
		WithArgs("compilers").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("top-1"))
	mock.ExpectExec("INSERT INTO courses").
		WithArgs(sqlmock.AnyArg(), "Compiler Construction", sqlmock.AnyArg(), "prof-1", "pw-1", "top-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO course_sessions").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), 1, "Lexing", nil, 0).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO session_media").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), models.MediaTypeVideo, "https://cdn.example.com/lexing.mp4", 0).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO course_sessions").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), 2, "Parsing", nil, 1).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	id, err := repo.CreateGraph(context.Background(), sampleGraph())
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryCreateGraphRollsBackOnFailure(t *testing.T) {
	db, mock, cleanup := newCourseMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM pathways WHERE name_key").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("pw-1"))
	mock.ExpectQuery("SELECT id FROM professors WHERE email_key").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("prof-1"))
	mock.ExpectQuery("SELECT id FROM topics WHERE name_key").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("top-1"))
	mock.ExpectExec("INSERT INTO courses").
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err := repo.CreateGraph(context.Background(), sampleGraph())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert course")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryCreateGraphLostInsertRace(t *testing.T) {
	db, mock, cleanup := newCourseMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectBegin()
	// A concurrent writer creates the pathway between select and
	// insert: the conflict-suppressed insert returns no row and the
	// re-resolve picks up the winner.
	mock.ExpectQuery("SELECT id FROM pathways WHERE name_key").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("INSERT INTO pathways").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("SELECT id FROM pathways WHERE name_key").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("pw-1"))
	mock.ExpectQuery("SELECT id FROM professors WHERE email_key").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("prof-1"))
	mock.ExpectQuery("SELECT id FROM topics WHERE name_key").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("top-1"))
	mock.ExpectExec("INSERT INTO courses").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO course_sessions").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO session_media").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO course_sessions").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	_, err := repo.CreateGraph(context.Background(), sampleGraph())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryCreateGraphProfessorEmailMismatch(t *testing.T) {
	db, mock, cleanup := newCourseMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM pathways WHERE name_key").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("pw-1"))
	// Professor name is taken under a different email: the insert
	// conflicts on name_key and the email re-resolve finds nothing.
	mock.ExpectQuery("SELECT id FROM professors WHERE email_key").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("INSERT INTO professors").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("SELECT id FROM professors WHERE email_key").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.CreateGraph(context.Background(), sampleGraph())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNaturalKeyConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pq.Error{Code: "23505"}))
	assert.False(t, IsUniqueViolation(&pq.Error{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("plain")))
	assert.False(t, IsUniqueViolation(nil))
}
