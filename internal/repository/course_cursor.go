package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/fuzailpalnak/authentic-ilm/internal/models"
)

const courseSelect = `SELECT c.id, c.title, c.description, c.professor_id, c.pathway_id, c.topic_id, c.created_at,
	p.name AS professor_name, p.email AS professor_email, pw.name AS pathway_name, t.name AS topic_name
	FROM courses c
	JOIN professors p ON p.id = c.professor_id
	JOIN pathways pw ON pw.id = c.pathway_id
	JOIN topics t ON t.id = c.topic_id`

// CourseIterator is a single-pass, bounded-memory walk over matching
// course aggregates.
type CourseIterator interface {
	Next(ctx context.Context) bool
	Course() *models.Course
	Err() error
	Close() error
}

// CourseCursor iterates matching course aggregates in bounded batches.
// It follows the sql.Rows idiom: Next advances, Course reads the
// current element, Err distinguishes a failed iteration from a
// completed one. The cursor is single-pass; re-reading requires a new
// query.
type CourseCursor struct {
	db        *sqlx.DB
	filterCol string
	filterID  string
	batchSize int

	buf     []models.Course
	idx     int
	current *models.Course

	started     bool
	exhausted   bool
	closed      bool
	err         error
	lastCreated time.Time
	lastTitle   string
	lastID      string
}

func newCourseCursor(db *sqlx.DB, filterCol, filterID string, batchSize int) *CourseCursor {
	if batchSize <= 0 {
		batchSize = 50
	}
	return &CourseCursor{db: db, filterCol: filterCol, filterID: filterID, batchSize: batchSize}
}

// Next fetches the next course, loading a new batch from storage when
// the buffered one is drained. It returns false at end of stream or on
// error; check Err to tell the two apart.
func (c *CourseCursor) Next(ctx context.Context) bool {
	if c.closed || c.err != nil {
		return false
	}
	if err := ctx.Err(); err != nil {
		c.err = err
		return false
	}
	if c.idx >= len(c.buf) {
		if c.exhausted {
			return false
		}
		if err := c.fetch(ctx); err != nil {
			c.err = err
			return false
		}
		if len(c.buf) == 0 {
			return false
		}
	}
	c.current = &c.buf[c.idx]
	c.idx++
	return true
}

// Course returns the element positioned by the last successful Next.
func (c *CourseCursor) Course() *models.Course {
	return c.current
}

// Err returns the error that terminated iteration, if any.
func (c *CourseCursor) Err() error {
	return c.err
}

// Close releases the cursor. Safe to call at any point; abandoning a
// partially consumed cursor must go through Close so buffered batches
// are dropped promptly.
func (c *CourseCursor) Close() error {
	c.closed = true
	c.buf = nil
	c.current = nil
	return nil
}

func (c *CourseCursor) fetch(ctx context.Context) error {
	query := courseSelect + " WHERE " + c.filterCol + " = $1"
	args := []interface{}{c.filterID}
	if c.started {
		query += " AND (c.created_at, c.title, c.id) > ($2, $3, $4)"
		args = append(args, c.lastCreated, c.lastTitle, c.lastID)
	}
	query += fmt.Sprintf(" ORDER BY c.created_at, c.title, c.id LIMIT %d", c.batchSize)

	var batch []models.Course
	if err := c.db.SelectContext(ctx, &batch, query, args...); err != nil {
		return fmt.Errorf("fetch course batch: %w", err)
	}

	if len(batch) < c.batchSize {
		c.exhausted = true
	}
	if len(batch) == 0 {
		c.buf = nil
		c.idx = 0
		return nil
	}

	if err := hydrateCourses(ctx, c.db, batch); err != nil {
		return err
	}

	last := batch[len(batch)-1]
	c.lastCreated = last.CreatedAt
	c.lastTitle = last.Title
	c.lastID = last.ID
	c.started = true

	c.buf = batch
	c.idx = 0
	return nil
}

// hydrateCourses attaches sessions and media to every course in the
// batch, preserving stored positions. Two queries per batch keeps the
// round-trip count independent of result size.
func hydrateCourses(ctx context.Context, db *sqlx.DB, batch []models.Course) error {
	ids := make([]string, len(batch))
	for i, course := range batch {
		ids[i] = course.ID
	}

	const sessionQuery = `SELECT id, course_id, session_number, title, description, position
		FROM course_sessions WHERE course_id = ANY($1) ORDER BY course_id, position`
	var sessions []models.Session
	if err := db.SelectContext(ctx, &sessions, sessionQuery, pq.Array(ids)); err != nil {
		return fmt.Errorf("hydrate sessions: %w", err)
	}

	const mediaQuery = `SELECT m.id, m.session_id, m.media_type, m.url, m.position
		FROM session_media m
		JOIN course_sessions s ON s.id = m.session_id
		WHERE s.course_id = ANY($1) ORDER BY m.session_id, m.position`
	var media []models.MediaItem
	if err := db.SelectContext(ctx, &media, mediaQuery, pq.Array(ids)); err != nil {
		return fmt.Errorf("hydrate media: %w", err)
	}

	mediaBySession := make(map[string][]models.MediaItem, len(sessions))
	for _, item := range media {
		mediaBySession[item.SessionID] = append(mediaBySession[item.SessionID], item)
	}

	sessionsByCourse := make(map[string][]models.Session, len(batch))
	for _, session := range sessions {
		session.Media = mediaBySession[session.ID]
		if session.Media == nil {
			session.Media = []models.MediaItem{}
		}
		sessionsByCourse[session.CourseID] = append(sessionsByCourse[session.CourseID], session)
	}

	for i := range batch {
		batch[i].Sessions = sessionsByCourse[batch[i].ID]
		if batch[i].Sessions == nil {
			batch[i].Sessions = []models.Session{}
		}
	}
	return nil
}
