package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopicRepositoryFindByKey(t *testing.T) {
	db, mock, cleanup := newCourseMock(t)
	defer cleanup()
	repo := NewTopicRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "name_key", "created_at"}).
		AddRow("top-1", "Data Science", "data science", time.Now())
	mock.ExpectQuery("SELECT id, name, name_key, created_at FROM topics WHERE name_key").
		WithArgs("data science").
		WillReturnRows(rows)

	topic, err := repo.FindByKey(context.Background(), "data science")
	require.NoError(t, err)
	assert.Equal(t, "top-1", topic.ID)
	assert.Equal(t, "Data Science", topic.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTopicRepositoryFindByKeyNotFound(t *testing.T) {
	db, mock, cleanup := newCourseMock(t)
	defer cleanup()
	repo := NewTopicRepository(db)

	mock.ExpectQuery("FROM topics WHERE name_key").
		WithArgs("unknown").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByKey(context.Background(), "unknown")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestProfessorRepositoryFindByKey(t *testing.T) {
	db, mock, cleanup := newCourseMock(t)
	defer cleanup()
	repo := NewProfessorRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "name_key", "email", "email_key", "created_at"}).
		AddRow("prof-1", "Grace Hopper", "grace hopper", "grace@navy.mil", "grace@navy.mil", time.Now())
	mock.ExpectQuery("FROM professors WHERE name_key").
		WithArgs("grace hopper").
		WillReturnRows(rows)

	professor, err := repo.FindByKey(context.Background(), "grace hopper")
	require.NoError(t, err)
	assert.Equal(t, "prof-1", professor.ID)
	assert.Equal(t, "grace@navy.mil", professor.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEntityKey(t *testing.T) {
	assert.Equal(t, "catalog:entity:topic:data science", EntityKey("topic", "data science"))
	assert.Equal(t, "catalog:entity:professor:grace hopper", EntityKey("professor", "grace hopper"))
}
