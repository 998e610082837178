package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fuzailpalnak/authentic-ilm/internal/dto"
	"github.com/fuzailpalnak/authentic-ilm/internal/service"
	appErrors "github.com/fuzailpalnak/authentic-ilm/pkg/errors"
	"github.com/fuzailpalnak/authentic-ilm/pkg/response"
)

type catalogService interface {
	CreateCourse(ctx context.Context, req dto.CreateCourseRequest) (string, error)
	ByTopic(ctx context.Context, name string) (*service.CourseStream, error)
	ByProfessor(ctx context.Context, name string) (*service.CourseStream, error)
}

type exportService interface {
	CoursesCSV(ctx context.Context, topicName, professorName string) ([]byte, error)
	SyllabusPDF(ctx context.Context, courseID string) ([]byte, error)
}

// CatalogHandler wires the catalog services to HTTP routes.
type CatalogHandler struct {
	catalog catalogService
	exports exportService
	metrics *service.MetricsService
	logger  *zap.Logger
}

// NewCatalogHandler constructs a new CatalogHandler.
func NewCatalogHandler(catalog catalogService, exports exportService, metrics *service.MetricsService, logger *zap.Logger) *CatalogHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogHandler{catalog: catalog, exports: exports, metrics: metrics, logger: logger}
}

// Create godoc
// @Summary Create a course with nested sessions and media
// @Tags Courses
// @Accept json
// @Produce json
// @Param payload body dto.CreateCourseRequest true "Course document"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /courses [post]
func (h *CatalogHandler) Create(c *gin.Context) {
	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid course payload"))
		return
	}

	id, err := h.catalog.CreateCourse(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.CreatedCourse{ID: id})
}

// StreamByTopic godoc
// @Summary Stream courses classified under a topic
// @Tags Courses
// @Produce json
// @Param name path string true "Topic name (case-insensitive, whitespace-normalized)"
// @Success 200 {string} string "NDJSON stream of course documents"
// @Router /courses/topic/{name} [get]
func (h *CatalogHandler) StreamByTopic(c *gin.Context) {
	h.streamCourses(c, func(ctx context.Context) (*service.CourseStream, error) {
		return h.catalog.ByTopic(ctx, c.Param("name"))
	})
}

// StreamByProfessor godoc
// @Summary Stream courses taught by a professor
// @Tags Courses
// @Produce json
// @Param name path string true "Professor name (case-insensitive, whitespace-normalized)"
// @Success 200 {string} string "NDJSON stream of course documents"
// @Router /courses/professor/{name} [get]
func (h *CatalogHandler) StreamByProfessor(c *gin.Context) {
	h.streamCourses(c, func(ctx context.Context) (*service.CourseStream, error) {
		return h.catalog.ByProfessor(ctx, c.Param("name"))
	})
}

// streamCourses writes one NDJSON line per course, flushing after each
// so the client sees records as they are produced. A zero-match query
// terminates immediately with an empty body. A mid-stream failure is
// written as a final error line, distinguishable from end-of-stream.
func (h *CatalogHandler) streamCourses(c *gin.Context, open func(context.Context) (*service.CourseStream, error)) {
	ctx := c.Request.Context()

	stream, err := open(ctx)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer stream.Close() //nolint:errcheck

	c.Header("Content-Type", "application/x-ndjson")
	c.Header("Cache-Control", "no-store")
	c.Status(http.StatusOK)

	enc := json.NewEncoder(c.Writer)
	for stream.Next(ctx) {
		if err := enc.Encode(stream.Document()); err != nil {
			// Client went away; Close releases the cursor.
			h.logger.Sugar().Debugw("stream write failed", "error", err)
			return
		}
		c.Writer.Flush()
		h.metrics.RecordStreamedCourse()
	}

	if err := stream.Err(); err != nil {
		if errors.Is(err, context.Canceled) {
			// Caller went away; nobody is reading the error line.
			h.logger.Sugar().Debugw("course stream cancelled by caller")
			return
		}
		h.metrics.RecordStreamFailure()
		appErr := appErrors.FromError(err)
		h.logger.Sugar().Errorw("course stream aborted", "code", appErr.Code, "error", err)
		_ = enc.Encode(dto.StreamFailure{Error: dto.StreamFailureDetail{Code: appErr.Code, Message: appErr.Message}})
		c.Writer.Flush()
	}
}

// ExportCSV godoc
// @Summary Export matching courses as CSV
// @Tags Courses
// @Produce text/csv
// @Param topic query string false "Topic name"
// @Param professor query string false "Professor name"
// @Success 200 {string} string "CSV payload"
// @Router /courses/export [get]
func (h *CatalogHandler) ExportCSV(c *gin.Context) {
	topic := c.Query("topic")
	professor := c.Query("professor")
	if topic == "" && professor == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "topic or professor query parameter required"))
		return
	}

	payload, err := h.exports.CoursesCSV(c.Request.Context(), topic, professor)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="courses.csv"`)
	c.Data(http.StatusOK, "text/csv", payload)
}

// SyllabusPDF godoc
// @Summary Render a course syllabus as PDF
// @Tags Courses
// @Produce application/pdf
// @Param id path string true "Course ID"
// @Success 200 {string} string "PDF payload"
// @Failure 404 {object} response.Envelope
// @Router /syllabus/{id} [get]
func (h *CatalogHandler) SyllabusPDF(c *gin.Context) {
	payload, err := h.exports.SyllabusPDF(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="syllabus.pdf"`)
	c.Data(http.StatusOK, "application/pdf", payload)
}
