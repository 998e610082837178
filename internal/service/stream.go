package service

import (
	"context"
	"errors"

	"github.com/fuzailpalnak/authentic-ilm/internal/dto"
	"github.com/fuzailpalnak/authentic-ilm/internal/models"
	"github.com/fuzailpalnak/authentic-ilm/internal/repository"
	appErrors "github.com/fuzailpalnak/authentic-ilm/pkg/errors"
)

// CourseStream lazily produces serialized course documents from an
// underlying cursor. Each element is fetched and mapped before the
// next one is requested, so memory stays bounded by one batch. The
// stream is single-pass; callers must Close it when abandoning it
// early.
type CourseStream struct {
	it  repository.CourseIterator
	doc dto.CourseDocument
	err error
}

func NewCourseStream(it repository.CourseIterator) *CourseStream {
	return &CourseStream{it: it}
}

// emptyCourseStream terminates immediately with zero elements. Used
// when the queried topic or professor does not exist: not an error.
func emptyCourseStream() *CourseStream {
	return &CourseStream{}
}

// Next advances to the next course document. Returns false at end of
// stream or on failure; Err tells the two apart.
func (s *CourseStream) Next(ctx context.Context) bool {
	if s.it == nil || s.err != nil {
		return false
	}
	if !s.it.Next(ctx) {
		if err := s.it.Err(); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				s.err = err
			} else {
				s.err = appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "course stream interrupted")
			}
		}
		return false
	}
	s.doc = toCourseDocument(s.it.Course())
	return true
}

// Document returns the element positioned by the last successful Next.
func (s *CourseStream) Document() dto.CourseDocument {
	return s.doc
}

// Err returns the error that aborted the stream, nil on clean
// end-of-stream.
func (s *CourseStream) Err() error {
	return s.err
}

// Close releases the underlying cursor.
func (s *CourseStream) Close() error {
	if s.it == nil {
		return nil
	}
	return s.it.Close()
}

func toCourseDocument(course *models.Course) dto.CourseDocument {
	doc := dto.CourseDocument{
		ID:          course.ID,
		Title:       course.Title,
		Description: course.Description,
		Professor: dto.ProfessorRef{
			ID:    course.ProfessorID,
			Name:  course.ProfessorName,
			Email: course.ProfessorEmail,
		},
		Pathway: dto.NamedRef{ID: course.PathwayID, Name: course.PathwayName},
		Topic:   dto.NamedRef{ID: course.TopicID, Name: course.TopicName},
	}

	doc.Sessions = make([]dto.SessionDocument, 0, len(course.Sessions))
	for _, session := range course.Sessions {
		sessionDoc := dto.SessionDocument{
			SessionNumber: session.SessionNumber,
			Title:         session.Title,
			Description:   session.Description,
			Media:         make([]dto.MediaDocument, 0, len(session.Media)),
		}
		for _, media := range session.Media {
			sessionDoc.Media = append(sessionDoc.Media, dto.MediaDocument{
				Type: string(media.Type),
				URL:  media.URL,
			})
		}
		doc.Sessions = append(doc.Sessions, sessionDoc)
	}
	return doc
}
