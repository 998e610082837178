package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Course Catalog API",
        "description": "Stores nested course records and streams catalog queries",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Courses", "description": "Course catalog write and streaming read paths"}
    ],
    "paths": {
        "/courses": {
            "post": {
                "tags": ["Courses"],
                "summary": "Create a course with nested sessions and media",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateCourseRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Validation error with field-level detail"},
                    "409": {"description": "Conflicting submission"}
                }
            }
        },
        "/courses/topic/{name}": {
            "get": {
                "tags": ["Courses"],
                "summary": "Stream courses classified under a topic",
                "produces": ["application/x-ndjson"],
                "parameters": [
                    {"name": "name", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "NDJSON stream of course documents; empty for unknown topics"}
                }
            }
        },
        "/courses/professor/{name}": {
            "get": {
                "tags": ["Courses"],
                "summary": "Stream courses taught by a professor",
                "produces": ["application/x-ndjson"],
                "parameters": [
                    {"name": "name", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "NDJSON stream of course documents; empty for unknown professors"}
                }
            }
        },
        "/courses/export": {
            "get": {
                "tags": ["Courses"],
                "summary": "Export matching courses as CSV",
                "produces": ["text/csv"],
                "parameters": [
                    {"name": "topic", "in": "query", "type": "string"},
                    {"name": "professor", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "CSV payload"}
                }
            }
        },
        "/syllabus/{id}": {
            "get": {
                "tags": ["Courses"],
                "summary": "Render a course syllabus as PDF",
                "produces": ["application/pdf"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "PDF payload"},
                    "404": {"description": "Course not found"}
                }
            }
        }
    },
    "definitions": {
        "CreateCourseRequest": {
            "type": "object",
            "required": ["course_title", "professor_name", "professor_email", "pathway_name", "topic_name"],
            "properties": {
                "course_title": {"type": "string"},
                "course_description": {"type": "string"},
                "professor_name": {"type": "string"},
                "professor_email": {"type": "string"},
                "pathway_name": {"type": "string"},
                "topic_name": {"type": "string"},
                "sessions": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/SessionRequest"}
                }
            }
        },
        "SessionRequest": {
            "type": "object",
            "required": ["session_number", "title"],
            "properties": {
                "session_number": {"type": "integer", "minimum": 1},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "media": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/MediaRequest"}
                }
            }
        },
        "MediaRequest": {
            "type": "object",
            "required": ["type", "url"],
            "properties": {
                "type": {"type": "string", "enum": ["Video", "Image", "Document", "Audio", "PDF", "Live"]},
                "url": {"type": "string"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
