package models

import (
	"strings"
	"time"
)

// MediaType enumerates supported media attachments.
type MediaType string

// Canonical media types. Input is matched case-insensitively.
const (
	MediaTypeVideo    MediaType = "Video"
	MediaTypeImage    MediaType = "Image"
	MediaTypeDocument MediaType = "Document"
	MediaTypeAudio    MediaType = "Audio"
	MediaTypePDF      MediaType = "PDF"
	MediaTypeLive     MediaType = "Live"
)

// ParseMediaType resolves a raw value to its canonical media type.
func ParseMediaType(raw string) (MediaType, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "video":
		return MediaTypeVideo, true
	case "image":
		return MediaTypeImage, true
	case "document":
		return MediaTypeDocument, true
	case "audio":
		return MediaTypeAudio, true
	case "pdf":
		return MediaTypePDF, true
	case "live":
		return MediaTypeLive, true
	}
	return "", false
}

// Course is the aggregate root. A persisted course always carries its
// sessions and media in stored order, plus the resolved names of the
// entities it references.
type Course struct {
	ID          string    `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description *string   `db:"description" json:"description,omitempty"`
	ProfessorID string    `db:"professor_id" json:"professor_id"`
	PathwayID   string    `db:"pathway_id" json:"pathway_id"`
	TopicID     string    `db:"topic_id" json:"topic_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`

	ProfessorName  string `db:"professor_name" json:"professor_name"`
	ProfessorEmail string `db:"professor_email" json:"professor_email"`
	PathwayName    string `db:"pathway_name" json:"pathway_name"`
	TopicName      string `db:"topic_name" json:"topic_name"`

	Sessions []Session `db:"-" json:"sessions"`
}

// Session is an ordered syllabus entry owned by exactly one course.
// Position reflects the order the caller submitted.
type Session struct {
	ID            string      `db:"id" json:"id"`
	CourseID      string      `db:"course_id" json:"course_id"`
	SessionNumber int         `db:"session_number" json:"session_number"`
	Title         string      `db:"title" json:"title"`
	Description   *string     `db:"description" json:"description,omitempty"`
	Position      int         `db:"position" json:"-"`
	Media         []MediaItem `db:"-" json:"media"`
}

// MediaItem is owned by exactly one session; Position preserves
// playback/reading order.
type MediaItem struct {
	ID        string    `db:"id" json:"id"`
	SessionID string    `db:"session_id" json:"session_id"`
	Type      MediaType `db:"media_type" json:"type"`
	URL       string    `db:"url" json:"url"`
	Position  int       `db:"position" json:"-"`
}
