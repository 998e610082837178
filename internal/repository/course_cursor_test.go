package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuzailpalnak/authentic-ilm/internal/models"
)

var courseColumns = []string{
	"id", "title", "description", "professor_id", "pathway_id", "topic_id", "created_at",
	"professor_name", "professor_email", "pathway_name", "topic_name",
}

var sessionColumns = []string{"id", "course_id", "session_number", "title", "description", "position"}

var mediaColumns = []string{"id", "session_id", "media_type", "url", "position"}

func addCourseRow(rows *sqlmock.Rows, id, title string, createdAt time.Time) {
	rows.AddRow(id, title, nil, "prof-1", "pw-1", "top-1", createdAt, "Grace Hopper", "grace@navy.mil", "Engineering", "Compilers")
}

const keysetPredicate = `AND \(c\.created_at, c\.title, c\.id\) > \(\$2, \$3, \$4\)`

func expectHydration(mock sqlmock.Sqlmock, sessions, media *sqlmock.Rows) {
	mock.ExpectQuery("FROM course_sessions WHERE course_id = ANY").WillReturnRows(sessions)
	mock.ExpectQuery("FROM session_media m").WillReturnRows(media)
}

func TestCourseCursorWalksBatches(t *testing.T) {
	db, mock, cleanup := newCourseMock(t)
	defer cleanup()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	first := sqlmock.NewRows(courseColumns)
	addCourseRow(first, "c-1", "Compilers I", base)
	addCourseRow(first, "c-2", "Compilers II", base.Add(time.Hour))
	mock.ExpectQuery(`WHERE c\.topic_id = \$1 ORDER BY`).
		WithArgs("top-1").
		WillReturnRows(first)
	expectHydration(mock, sqlmock.NewRows(sessionColumns), sqlmock.NewRows(mediaColumns))

	second := sqlmock.NewRows(courseColumns)
	addCourseRow(second, "c-3", "Compilers III", base.Add(2*time.Hour))
	mock.ExpectQuery(keysetPredicate).
		WithArgs("top-1", base.Add(time.Hour), "Compilers II", "c-2").
		WillReturnRows(second)
	expectHydration(mock, sqlmock.NewRows(sessionColumns), sqlmock.NewRows(mediaColumns))

	cursor := newCourseCursor(db, "c.topic_id", "top-1", 2)
	defer cursor.Close()

	var ids []string
	for cursor.Next(context.Background()) {
		ids = append(ids, cursor.Course().ID)
	}
	require.NoError(t, cursor.Err())
	assert.Equal(t, []string{"c-1", "c-2", "c-3"}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseCursorHydratesInStoredOrder(t *testing.T) {
	db, mock, cleanup := newCourseMock(t)
	defer cleanup()

	batch := sqlmock.NewRows(courseColumns)
	addCourseRow(batch, "c-1", "Compilers I", time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	mock.ExpectQuery(`WHERE c\.professor_id = \$1 ORDER BY`).
		WithArgs("prof-1").
		WillReturnRows(batch)

	sessions := sqlmock.NewRows(sessionColumns).
		AddRow("s-1", "c-1", 1, "Lexing", nil, 0).
		AddRow("s-2", "c-1", 2, "Parsing", nil, 1)
	media := sqlmock.NewRows(mediaColumns).
		AddRow("m-1", "s-1", "Video", "https://cdn.example.com/a.mp4", 0).
		AddRow("m-2", "s-1", "Document", "https://cdn.example.com/a.pdf", 1)
	expectHydration(mock, sessions, media)

	cursor := newCourseCursor(db, "c.professor_id", "prof-1", 5)
	defer cursor.Close()

	require.True(t, cursor.Next(context.Background()))
	course := cursor.Course()
	require.Len(t, course.Sessions, 2)
	assert.Equal(t, "Lexing", course.Sessions[0].Title)
	assert.Equal(t, "Parsing", course.Sessions[1].Title)
	require.Len(t, course.Sessions[0].Media, 2)
	assert.Equal(t, models.MediaType("Video"), course.Sessions[0].Media[0].Type)
	assert.Equal(t, models.MediaType("Document"), course.Sessions[0].Media[1].Type)
	assert.Empty(t, course.Sessions[1].Media)

	assert.False(t, cursor.Next(context.Background()))
	require.NoError(t, cursor.Err())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseCursorEmptyResult(t *testing.T) {
	db, mock, cleanup := newCourseMock(t)
	defer cleanup()

	mock.ExpectQuery(`WHERE c\.topic_id = \$1 ORDER BY`).
		WillReturnRows(sqlmock.NewRows(courseColumns))

	cursor := newCourseCursor(db, "c.topic_id", "top-1", 10)
	defer cursor.Close()

	assert.False(t, cursor.Next(context.Background()))
	assert.NoError(t, cursor.Err())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseCursorSurfacesFetchFailure(t *testing.T) {
	db, mock, cleanup := newCourseMock(t)
	defer cleanup()

	mock.ExpectQuery(`WHERE c\.topic_id = \$1 ORDER BY`).
		WillReturnError(errors.New("connection reset"))

	cursor := newCourseCursor(db, "c.topic_id", "top-1", 10)
	defer cursor.Close()

	assert.False(t, cursor.Next(context.Background()))
	require.Error(t, cursor.Err())
	assert.Contains(t, cursor.Err().Error(), "fetch course batch")
}

func TestCourseCursorStopsOnCancelledContext(t *testing.T) {
	db, _, cleanup := newCourseMock(t)
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cursor := newCourseCursor(db, "c.topic_id", "top-1", 10)
	assert.False(t, cursor.Next(ctx))
	assert.ErrorIs(t, cursor.Err(), context.Canceled)
}

func TestCourseCursorCloseIsTerminal(t *testing.T) {
	db, _, cleanup := newCourseMock(t)
	defer cleanup()

	cursor := newCourseCursor(db, "c.topic_id", "top-1", 10)
	require.NoError(t, cursor.Close())
	assert.False(t, cursor.Next(context.Background()))
	assert.NoError(t, cursor.Err())
}

func TestCourseCursorDefaultsBatchSize(t *testing.T) {
	cursor := newCourseCursor(nil, "c.topic_id", "top-1", 0)
	assert.Equal(t, 50, cursor.batchSize)
}
