package dto

// CreateCourseRequest is the nested course document accepted on the
// write path. Professor, pathway and topic are referenced by natural
// key and created lazily on first use.
type CreateCourseRequest struct {
	CourseTitle       string           `json:"course_title" validate:"required"`
	CourseDescription *string          `json:"course_description"`
	ProfessorName     string           `json:"professor_name" validate:"required"`
	ProfessorEmail    string           `json:"professor_email" validate:"required,email"`
	PathwayName       string           `json:"pathway_name" validate:"required"`
	TopicName         string           `json:"topic_name" validate:"required"`
	Sessions          []SessionRequest `json:"sessions" validate:"dive"`
}

// SessionRequest is one syllabus entry in submission order.
type SessionRequest struct {
	SessionNumber int            `json:"session_number" validate:"required,gt=0"`
	Title         string         `json:"title" validate:"required"`
	Description   *string        `json:"description"`
	Media         []MediaRequest `json:"media" validate:"dive"`
}

// MediaRequest is one media attachment in playback order.
type MediaRequest struct {
	Type string `json:"type" validate:"required"`
	URL  string `json:"url" validate:"required"`
}

// CreatedCourse is returned after a successful write.
type CreatedCourse struct {
	ID string `json:"id"`
}

// NamedRef is a resolved entity reference.
type NamedRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ProfessorRef is a resolved professor reference.
type ProfessorRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CourseDocument is one streamed element: the create shape plus
// resolved identifiers.
type CourseDocument struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description *string           `json:"description,omitempty"`
	Professor   ProfessorRef      `json:"professor"`
	Pathway     NamedRef          `json:"pathway"`
	Topic       NamedRef          `json:"topic"`
	Sessions    []SessionDocument `json:"sessions"`
}

// SessionDocument mirrors SessionRequest with stored order preserved.
type SessionDocument struct {
	SessionNumber int             `json:"session_number"`
	Title         string          `json:"title"`
	Description   *string         `json:"description,omitempty"`
	Media         []MediaDocument `json:"media"`
}

// MediaDocument mirrors MediaRequest.
type MediaDocument struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

// StreamFailure terminates an NDJSON stream that aborted partway. Its
// presence distinguishes an aborted stream from normal end-of-stream.
type StreamFailure struct {
	Error StreamFailureDetail `json:"error"`
}

// StreamFailureDetail carries the terminal error code and message.
type StreamFailureDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
