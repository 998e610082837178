package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/fuzailpalnak/authentic-ilm/internal/models"
)

// CourseGraph bundles a course aggregate with the entities it
// references by natural key. IDs are assigned during persistence.
type CourseGraph struct {
	Professor models.Professor
	Pathway   models.Pathway
	Topic     models.Topic
	Course    models.Course
}

// CourseRepository handles persistence for course aggregates.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository creates a new repository instance.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// IsUniqueViolation reports whether err is a Postgres unique constraint
// violation.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// CreateGraph persists the course with its sessions and media in one
// transaction. Professor, pathway and topic are resolved or created by
// natural key inside the same transaction, so either the whole graph
// becomes visible or none of it does.
func (r *CourseRepository) CreateGraph(ctx context.Context, graph CourseGraph) (courseID string, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin create course tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()

	pathwayID, err := resolveNamedEntity(ctx, tx, "pathways", graph.Pathway.Name, graph.Pathway.NameKey, now)
	if err != nil {
		return "", err
	}
	professorID, err := resolveProfessor(ctx, tx, graph.Professor, now)
	if err != nil {
		return "", err
	}
	topicID, err := resolveNamedEntity(ctx, tx, "topics", graph.Topic.Name, graph.Topic.NameKey, now)
	if err != nil {
		return "", err
	}

	courseID = uuid.NewString()
	const insertCourse = `INSERT INTO courses (id, title, description, professor_id, pathway_id, topic_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err = tx.ExecContext(ctx, insertCourse, courseID, graph.Course.Title, graph.Course.Description, professorID, pathwayID, topicID, now); err != nil {
		return "", fmt.Errorf("insert course: %w", err)
	}

	const insertSession = `INSERT INTO course_sessions (id, course_id, session_number, title, description, position)
		VALUES ($1, $2, $3, $4, $5, $6)`
	const insertMedia = `INSERT INTO session_media (id, session_id, media_type, url, position)
		VALUES ($1, $2, $3, $4, $5)`

	for i, session := range graph.Course.Sessions {
		sessionID := uuid.NewString()
		if _, err = tx.ExecContext(ctx, insertSession, sessionID, courseID, session.SessionNumber, session.Title, session.Description, i); err != nil {
			return "", fmt.Errorf("insert session %d: %w", session.SessionNumber, err)
		}
		for j, media := range session.Media {
			if _, err = tx.ExecContext(ctx, insertMedia, uuid.NewString(), sessionID, media.Type, media.URL, j); err != nil {
				return "", fmt.Errorf("insert media for session %d: %w", session.SessionNumber, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return "", fmt.Errorf("commit create course tx: %w", err)
	}
	return courseID, nil
}

// QueryByTopic returns a cursor over courses classified under the
// topic, in stable (created_at, title, id) order.
func (r *CourseRepository) QueryByTopic(topicID string, batchSize int) CourseIterator {
	return newCourseCursor(r.db, "c.topic_id", topicID, batchSize)
}

// QueryByProfessor returns a cursor over courses taught by the
// professor, in stable (created_at, title, id) order.
func (r *CourseRepository) QueryByProfessor(professorID string, batchSize int) CourseIterator {
	return newCourseCursor(r.db, "c.professor_id", professorID, batchSize)
}

// FindByID returns one fully hydrated course aggregate.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	query := courseSelect + " WHERE c.id = $1"
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find course: %w", err)
	}
	batch := []models.Course{course}
	if err := hydrateCourses(ctx, r.db, batch); err != nil {
		return nil, err
	}
	return &batch[0], nil
}

// resolveNamedEntity finds or creates a pathway/topic row by its
// normalized name key. A losing concurrent insert falls through to a
// single re-resolve of the now-existing row.
func resolveNamedEntity(ctx context.Context, tx *sqlx.Tx, table, name, nameKey string, now time.Time) (string, error) {
	selectByKey := "SELECT id FROM " + table + " WHERE name_key = $1"

	var id string
	err := tx.GetContext(ctx, &id, selectByKey, nameKey)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("resolve %s: %w", table, err)
	}

	insert := "INSERT INTO " + table + " (id, name, name_key, created_at) VALUES ($1, $2, $3, $4) ON CONFLICT (name_key) DO NOTHING RETURNING id"
	err = tx.GetContext(ctx, &id, insert, uuid.NewString(), name, nameKey, now)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("create %s: %w", table, err)
	}

	// Lost the insert race; the row exists now.
	if err := tx.GetContext(ctx, &id, selectByKey, nameKey); err != nil {
		return "", fmt.Errorf("re-resolve %s: %w", table, err)
	}
	return id, nil
}

// resolveProfessor finds or creates a professor by email key. The
// uniqueness constraints on email_key and name_key are the source of
// truth; after a lost race the row is re-resolved once.
func resolveProfessor(ctx context.Context, tx *sqlx.Tx, professor models.Professor, now time.Time) (string, error) {
	const selectByEmail = `SELECT id FROM professors WHERE email_key = $1`

	var id string
	err := tx.GetContext(ctx, &id, selectByEmail, professor.EmailKey)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("resolve professor: %w", err)
	}

	const insert = `INSERT INTO professors (id, name, name_key, email, email_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6) ON CONFLICT DO NOTHING RETURNING id`
	err = tx.GetContext(ctx, &id, insert, uuid.NewString(), professor.Name, professor.NameKey, professor.Email, professor.EmailKey, now)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("create professor: %w", err)
	}

	if err := tx.GetContext(ctx, &id, selectByEmail, professor.EmailKey); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// The conflict was on the name, not the email: same
			// professor name registered under a different address.
			return "", fmt.Errorf("professor %q already registered with a different email: %w", professor.Name, ErrNaturalKeyConflict)
		}
		return "", fmt.Errorf("re-resolve professor: %w", err)
	}
	return id, nil
}

// ErrNaturalKeyConflict marks a uniqueness conflict that survived the
// internal re-resolve retry.
var ErrNaturalKeyConflict = errors.New("natural key conflict")
