package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fuzailpalnak/authentic-ilm/internal/models"
	"github.com/fuzailpalnak/authentic-ilm/pkg/export"
)

type courseSource interface {
	ByTopic(ctx context.Context, name string) (*CourseStream, error)
	ByProfessor(ctx context.Context, name string) (*CourseStream, error)
	GetCourse(ctx context.Context, id string) (*models.Course, error)
}

// ExportService renders catalog query results as downloadable files.
type ExportService struct {
	source courseSource
	csv    *export.CSVExporter
	pdf    *export.PDFExporter
	logger *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(source courseSource, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		source: source,
		csv:    export.NewCSVExporter(),
		pdf:    export.NewPDFExporter(),
		logger: logger,
	}
}

// CoursesCSV drains the matching course stream into a CSV summary.
// Unlike the streaming endpoints, exports materialize the result set;
// they are meant for catalog-sized extracts, not bulk dumps.
func (s *ExportService) CoursesCSV(ctx context.Context, topicName, professorName string) ([]byte, error) {
	var (
		stream *CourseStream
		err    error
	)
	switch {
	case topicName != "":
		stream, err = s.source.ByTopic(ctx, topicName)
	case professorName != "":
		stream, err = s.source.ByProfessor(ctx, professorName)
	default:
		return nil, fmt.Errorf("export requires a topic or professor filter")
	}
	if err != nil {
		return nil, err
	}
	defer stream.Close() //nolint:errcheck

	var summaries []export.CourseSummary
	for stream.Next(ctx) {
		doc := stream.Document()
		mediaCount := 0
		for _, session := range doc.Sessions {
			mediaCount += len(session.Media)
		}
		summaries = append(summaries, export.CourseSummary{
			ID:        doc.ID,
			Title:     doc.Title,
			Professor: doc.Professor.Name,
			Pathway:   doc.Pathway.Name,
			Topic:     doc.Topic.Name,
			Sessions:  len(doc.Sessions),
			Media:     mediaCount,
		})
	}
	if err := stream.Err(); err != nil {
		return nil, err
	}

	return s.csv.Render(summaries)
}

// SyllabusPDF renders one course's syllabus, sessions and media in
// stored order.
func (s *ExportService) SyllabusPDF(ctx context.Context, courseID string) ([]byte, error) {
	course, err := s.source.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	syllabus := export.Syllabus{
		Title:     course.Title,
		Professor: course.ProfessorName,
		Pathway:   course.PathwayName,
		Topic:     course.TopicName,
	}
	if course.Description != nil {
		syllabus.Description = *course.Description
	}
	for _, session := range course.Sessions {
		entry := export.SyllabusSession{
			Number: session.SessionNumber,
			Title:  session.Title,
		}
		if session.Description != nil {
			entry.Description = *session.Description
		}
		for _, media := range session.Media {
			entry.Media = append(entry.Media, export.SyllabusMedia{
				Type: string(media.Type),
				URL:  media.URL,
			})
		}
		syllabus.Sessions = append(syllabus.Sessions, entry)
	}

	return s.pdf.Render(syllabus)
}
