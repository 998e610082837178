package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/fuzailpalnak/authentic-ilm/internal/dto"
	"github.com/fuzailpalnak/authentic-ilm/internal/models"
	"github.com/fuzailpalnak/authentic-ilm/internal/repository"
	appErrors "github.com/fuzailpalnak/authentic-ilm/pkg/errors"
	"github.com/fuzailpalnak/authentic-ilm/pkg/jobs"
)

type catalogRepository interface {
	CreateGraph(ctx context.Context, graph repository.CourseGraph) (string, error)
	QueryByTopic(topicID string, batchSize int) repository.CourseIterator
	QueryByProfessor(professorID string, batchSize int) repository.CourseIterator
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

type topicRepository interface {
	FindByKey(ctx context.Context, nameKey string) (*models.Topic, error)
}

type professorRepository interface {
	FindByKey(ctx context.Context, nameKey string) (*models.Professor, error)
}

type entityCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

type taskQueue interface {
	Enqueue(task jobs.Task) error
}

// CatalogOptions carries the tunables the service reads from config.
type CatalogOptions struct {
	StreamBatchSize int
	EntityCacheTTL  time.Duration
}

// CatalogService owns the course write path and the two natural-key
// read paths.
type CatalogService struct {
	repo       catalogRepository
	topics     topicRepository
	professors professorRepository
	cache      entityCache
	queue      taskQueue
	validator  *validator.Validate
	logger     *zap.Logger
	metrics    *MetricsService
	opts       CatalogOptions
}

// WithMetrics attaches a metrics service for cache instrumentation.
func (s *CatalogService) WithMetrics(metrics *MetricsService) *CatalogService {
	s.metrics = metrics
	return s
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(repo catalogRepository, topics topicRepository, professors professorRepository, cache entityCache, queue taskQueue, validate *validator.Validate, logger *zap.Logger, opts CatalogOptions) *CatalogService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.StreamBatchSize <= 0 {
		opts.StreamBatchSize = 50
	}
	return &CatalogService{
		repo:       repo,
		topics:     topics,
		professors: professors,
		cache:      cache,
		queue:      queue,
		validator:  validate,
		logger:     logger,
		opts:       opts,
	}
}

// CreateCourse validates the nested submission and persists it
// atomically. Validation failures reject the request before any
// transaction is opened.
func (s *CatalogService) CreateCourse(ctx context.Context, req dto.CreateCourseRequest) (string, error) {
	graph, err := s.buildGraph(req)
	if err != nil {
		return "", err
	}

	courseID, err := s.repo.CreateGraph(ctx, *graph)
	if err != nil {
		if repository.IsUniqueViolation(err) || errors.Is(err, repository.ErrNaturalKeyConflict) {
			return "", appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "conflicting course submission")
		}
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return "", err
		}
		return "", appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to persist course")
	}

	s.invalidateEntityKeys(graph)
	return courseID, nil
}

// ByTopic streams courses classified under the named topic. Unknown
// names yield an empty stream, not an error.
func (s *CatalogService) ByTopic(ctx context.Context, name string) (*CourseStream, error) {
	key := models.NaturalKey(name)
	if key == "" {
		return emptyCourseStream(), nil
	}

	id, err := s.resolveEntityID(ctx, "topic", key, func(ctx context.Context) (string, error) {
		topic, err := s.topics.FindByKey(ctx, key)
		if err != nil {
			return "", err
		}
		return topic.ID, nil
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return emptyCourseStream(), nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to resolve topic")
	}

	return NewCourseStream(s.repo.QueryByTopic(id, s.opts.StreamBatchSize)), nil
}

// ByProfessor streams courses taught by the named professor. Unknown
// names yield an empty stream, not an error.
func (s *CatalogService) ByProfessor(ctx context.Context, name string) (*CourseStream, error) {
	key := models.NaturalKey(name)
	if key == "" {
		return emptyCourseStream(), nil
	}

	id, err := s.resolveEntityID(ctx, "professor", key, func(ctx context.Context) (string, error) {
		professor, err := s.professors.FindByKey(ctx, key)
		if err != nil {
			return "", err
		}
		return professor.ID, nil
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return emptyCourseStream(), nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to resolve professor")
	}

	return NewCourseStream(s.repo.QueryByProfessor(id, s.opts.StreamBatchSize)), nil
}

// GetCourse loads one hydrated course aggregate.
func (s *CatalogService) GetCourse(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load course")
	}
	return course, nil
}

// buildGraph validates the submission and assembles the persistence
// graph with normalized natural keys and canonical media types.
func (s *CatalogService) buildGraph(req dto.CreateCourseRequest) (*repository.CourseGraph, error) {
	var fields []appErrors.FieldError

	if err := s.validator.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, verr := range verrs {
				fields = append(fields, appErrors.FieldError{
					Field:  verr.Namespace(),
					Reason: fmt.Sprintf("failed %q constraint", verr.Tag()),
				})
			}
		} else {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
		}
	}
	// The required tag accepts whitespace-only values; the stored
	// (trimmed) value must be non-empty too.
	for _, check := range []struct {
		field string
		value string
	}{
		{"course_title", req.CourseTitle},
		{"professor_name", req.ProfessorName},
		{"pathway_name", req.PathwayName},
		{"topic_name", req.TopicName},
	} {
		if check.value != "" && strings.TrimSpace(check.value) == "" {
			fields = append(fields, appErrors.FieldError{
				Field:  check.field,
				Reason: "must not be blank",
			})
		}
	}
	fields = append(fields, validateSessions(req.Sessions)...)

	if len(fields) > 0 {
		return nil, appErrors.Validation("invalid course payload", fields...)
	}

	professorName := strings.TrimSpace(req.ProfessorName)
	professorEmail := strings.TrimSpace(req.ProfessorEmail)
	graph := repository.CourseGraph{
		Professor: models.Professor{
			Name:     professorName,
			NameKey:  models.NaturalKey(professorName),
			Email:    professorEmail,
			EmailKey: models.NaturalKey(professorEmail),
		},
		Pathway: models.Pathway{
			Name:    strings.TrimSpace(req.PathwayName),
			NameKey: models.NaturalKey(req.PathwayName),
		},
		Topic: models.Topic{
			Name:    strings.TrimSpace(req.TopicName),
			NameKey: models.NaturalKey(req.TopicName),
		},
		Course: models.Course{
			Title:       strings.TrimSpace(req.CourseTitle),
			Description: req.CourseDescription,
		},
	}

	graph.Course.Sessions = make([]models.Session, 0, len(req.Sessions))
	for _, session := range req.Sessions {
		modelSession := models.Session{
			SessionNumber: session.SessionNumber,
			Title:         strings.TrimSpace(session.Title),
			Description:   session.Description,
		}
		for _, media := range session.Media {
			mediaType, _ := models.ParseMediaType(media.Type)
			modelSession.Media = append(modelSession.Media, models.MediaItem{
				Type: mediaType,
				URL:  strings.TrimSpace(media.URL),
			})
		}
		graph.Course.Sessions = append(graph.Course.Sessions, modelSession)
	}

	return &graph, nil
}

// validateSessions applies the cross-field rules the struct tags
// cannot express: unique session numbers, known media types and
// well-formed media URLs.
func validateSessions(sessions []dto.SessionRequest) []appErrors.FieldError {
	var fields []appErrors.FieldError

	seen := make(map[int]bool, len(sessions))
	for i, session := range sessions {
		if session.Title != "" && strings.TrimSpace(session.Title) == "" {
			fields = append(fields, appErrors.FieldError{
				Field:  fmt.Sprintf("sessions[%d].title", i),
				Reason: "must not be blank",
			})
		}
		if session.SessionNumber > 0 {
			if seen[session.SessionNumber] {
				fields = append(fields, appErrors.FieldError{
					Field:  fmt.Sprintf("sessions[%d].session_number", i),
					Reason: fmt.Sprintf("duplicate session_number %d", session.SessionNumber),
				})
			}
			seen[session.SessionNumber] = true
		}

		for j, media := range session.Media {
			if media.Type != "" {
				if _, ok := models.ParseMediaType(media.Type); !ok {
					fields = append(fields, appErrors.FieldError{
						Field:  fmt.Sprintf("sessions[%d].media[%d].type", i, j),
						Reason: fmt.Sprintf("unknown media type %q", media.Type),
					})
				}
			}
			if media.URL != "" {
				if _, err := url.ParseRequestURI(strings.TrimSpace(media.URL)); err != nil {
					fields = append(fields, appErrors.FieldError{
						Field:  fmt.Sprintf("sessions[%d].media[%d].url", i, j),
						Reason: "malformed URI",
					})
				}
			}
		}
	}
	return fields
}

// resolveEntityID looks up a normalized key in the cache before
// falling back to storage. sql.ErrNoRows passes through untouched so
// callers can map "unknown name" to an empty stream.
func (s *CatalogService) resolveEntityID(ctx context.Context, kind, key string, lookup func(context.Context) (string, error)) (string, error) {
	cacheKey := repository.EntityKey(kind, key)

	var id string
	if s.cache != nil {
		if err := s.cache.Get(ctx, cacheKey, &id); err == nil && id != "" {
			s.metrics.RecordCacheLookup(true)
			return id, nil
		}
		s.metrics.RecordCacheLookup(false)
	}

	id, err := lookup(ctx)
	if err != nil {
		return "", err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, id, s.opts.EntityCacheTTL); err != nil {
			s.logger.Sugar().Warnw("failed to cache entity id", "kind", kind, "key", key, "error", err)
		}
	}
	return id, nil
}

// invalidateEntityKeys schedules removal of the cached resolutions the
// write may have changed. Fire-and-forget: a stale entry only delays
// visibility by the cache TTL.
func (s *CatalogService) invalidateEntityKeys(graph *repository.CourseGraph) {
	if s.queue == nil {
		return
	}
	task := jobs.Task{
		Kind: "cache_invalidation",
		Payload: []string{
			repository.EntityKey("topic", graph.Topic.NameKey),
			repository.EntityKey("professor", graph.Professor.NameKey),
			repository.EntityKey("pathway", graph.Pathway.NameKey),
		},
	}
	if err := s.queue.Enqueue(task); err != nil {
		s.logger.Sugar().Warnw("failed to enqueue cache invalidation", "error", err)
	}
}
