package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuzailpalnak/authentic-ilm/internal/models"
)

type courseSourceMock struct {
	stream    *CourseStream
	streamErr error
	course    *models.Course
	courseErr error
	topic     string
	professor string
}

func (m *courseSourceMock) ByTopic(ctx context.Context, name string) (*CourseStream, error) {
	m.topic = name
	return m.stream, m.streamErr
}

func (m *courseSourceMock) ByProfessor(ctx context.Context, name string) (*CourseStream, error) {
	m.professor = name
	return m.stream, m.streamErr
}

func (m *courseSourceMock) GetCourse(ctx context.Context, id string) (*models.Course, error) {
	return m.course, m.courseErr
}

func exportCourses() []models.Course {
	return []models.Course{
		{
			ID:            "c-1",
			Title:         "Compilers I",
			ProfessorName: "Grace Hopper",
			PathwayName:   "Engineering",
			TopicName:     "Compilers",
			Sessions: []models.Session{
				{
					SessionNumber: 1,
					Title:         "Lexing",
					Media: []models.MediaItem{
						{Type: models.MediaTypeVideo, URL: "https://cdn.example.com/lexing.mp4"},
						{Type: models.MediaTypeDocument, URL: "https://cdn.example.com/lexing.pdf"},
					},
				},
				{SessionNumber: 2, Title: "Parsing"},
			},
		},
		{ID: "c-2", Title: "Compilers II", ProfessorName: "Grace Hopper", Sessions: []models.Session{}},
	}
}

func TestExportServiceCoursesCSV(t *testing.T) {
	source := &courseSourceMock{
		stream: NewCourseStream(&sliceIterator{courses: exportCourses(), failAt: -1}),
	}
	svc := NewExportService(source, nil)

	payload, err := svc.CoursesCSV(context.Background(), "Compilers", "")
	require.NoError(t, err)
	assert.Equal(t, "Compilers", source.topic)

	body := string(payload)
	assert.Contains(t, body, "id,title,professor,pathway,topic,sessions,media")
	assert.Contains(t, body, "c-1,Compilers I,Grace Hopper,Engineering,Compilers,2,2")
	assert.Contains(t, body, "c-2,Compilers II")
}

func TestExportServiceCoursesCSVByProfessor(t *testing.T) {
	source := &courseSourceMock{
		stream: NewCourseStream(&sliceIterator{failAt: -1}),
	}
	svc := NewExportService(source, nil)

	payload, err := svc.CoursesCSV(context.Background(), "", "Grace Hopper")
	require.NoError(t, err)
	assert.Equal(t, "Grace Hopper", source.professor)
	assert.Contains(t, string(payload), "id,title")
}

func TestExportServiceCoursesCSVRequiresFilter(t *testing.T) {
	svc := NewExportService(&courseSourceMock{}, nil)

	_, err := svc.CoursesCSV(context.Background(), "", "")
	assert.Error(t, err)
}

func TestExportServiceCoursesCSVStreamFailure(t *testing.T) {
	source := &courseSourceMock{
		stream: NewCourseStream(&sliceIterator{failAt: 0, err: errors.New("connection reset")}),
	}
	svc := NewExportService(source, nil)

	_, err := svc.CoursesCSV(context.Background(), "Compilers", "")
	assert.Error(t, err)
}

func TestExportServiceSyllabusPDF(t *testing.T) {
	courses := exportCourses()
	source := &courseSourceMock{course: &courses[0]}
	svc := NewExportService(source, nil)

	payload, err := svc.SyllabusPDF(context.Background(), "c-1")
	require.NoError(t, err)
	assert.True(t, len(payload) > 0)
	assert.Equal(t, "%PDF", string(payload[:4]))
}

func TestExportServiceSyllabusPDFPropagatesLookupFailure(t *testing.T) {
	source := &courseSourceMock{courseErr: errors.New("course not found")}
	svc := NewExportService(source, nil)

	_, err := svc.SyllabusPDF(context.Background(), "missing")
	assert.Error(t, err)
}
