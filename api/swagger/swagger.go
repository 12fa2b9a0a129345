package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "StudyGrid Scheduler API",
        "description": "Course scheduling service: availability-aware schedule building, subject catalog, preferences, saved timetables, and exports",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Student accounts and tokens"},
        {"name": "Subjects", "description": "Subject catalog"},
        {"name": "Preferences", "description": "Per-student subject interest"},
        {"name": "Scheduling", "description": "Schedule building engine"},
        {"name": "Timetables", "description": "Saved semester timetables"},
        {"name": "Uploads", "description": "Ad-hoc subject file parsing"},
        {"name": "Exports", "description": "Timetable export jobs"},
        {"name": "System", "description": "Observability"}
    ],
    "paths": {
        "/auth/register": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Register a student account",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Email already registered"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate a student",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current student profile",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/auth/change-password": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Change password",
                "responses": {
                    "204": {"description": "Changed"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/subjects": {
            "get": {
                "tags": ["Subjects"],
                "summary": "List subjects",
                "parameters": [
                    {"name": "category", "in": "query", "type": "string"},
                    {"name": "difficulty", "in": "query", "type": "integer"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "sort", "in": "query", "type": "string"},
                    {"name": "order", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Subjects"],
                "summary": "Create subject",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubjectRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/subjects/categories": {
            "get": {
                "tags": ["Subjects"],
                "summary": "List distinct categories",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/subjects/{id}": {
            "get": {
                "tags": ["Subjects"],
                "summary": "Get subject",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            },
            "put": {
                "tags": ["Subjects"],
                "summary": "Update subject",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubjectRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Subjects"],
                "summary": "Deactivate subject",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "204": {"description": "Deactivated"}
                }
            }
        },
        "/preferences": {
            "get": {
                "tags": ["Preferences"],
                "summary": "List own preferences",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Preferences"],
                "summary": "Upsert a preference by subject name",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SetPreferenceRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/preferences/{id}": {
            "delete": {
                "tags": ["Preferences"],
                "summary": "Delete a preference",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "403": {"description": "Not the owner"}
                }
            }
        },
        "/schedules/build": {
            "post": {
                "tags": ["Scheduling"],
                "summary": "Build a conflict-free weekly schedule",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BuildScheduleRequest"}}
                ],
                "responses": {
                    "200": {"description": "Schedule built", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Engine reported failure; body carries the result"}
                }
            }
        },
        "/schedules/strategies": {
            "get": {
                "tags": ["Scheduling"],
                "summary": "List selectable ranking strategies",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetables": {
            "post": {
                "tags": ["Timetables"],
                "summary": "Save a new timetable",
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Student already has a timetable"}
                }
            },
            "get": {
                "tags": ["Timetables"],
                "summary": "Get own timetable with subjects",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No saved timetable"}
                }
            }
        },
        "/timetables/{id}/subjects": {
            "post": {
                "tags": ["Timetables"],
                "summary": "Pin a subject onto a timetable",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "201": {"description": "Added"},
                    "409": {"description": "Already pinned"}
                }
            }
        },
        "/uploads/subjects": {
            "post": {
                "tags": ["Uploads"],
                "summary": "Parse an uploaded subject file",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "file", "in": "formData", "required": true, "type": "file"}
                ],
                "responses": {
                    "200": {"description": "Parsed subjects", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Unsupported file type"}
                }
            }
        },
        "/exports": {
            "post": {
                "tags": ["Exports"],
                "summary": "Queue a timetable export",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ExportRequest"}}
                ],
                "responses": {
                    "202": {"description": "Queued", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exports/{id}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Export job status",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/export/{token}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download an export via signed token",
                "produces": ["application/octet-stream"],
                "parameters": [
                    {"name": "token", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File stream"},
                    "403": {"description": "Invalid or expired token"}
                }
            }
        },
        "/system/stats": {
            "get": {
                "tags": ["System"],
                "summary": "Aggregated runtime counters",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "RegisterRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"},
                "full_name": {"type": "string"}
            },
            "required": ["email", "password", "full_name"]
        },
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "SubjectRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "code": {"type": "string"},
                "description": {"type": "string"},
                "category": {"type": "string"},
                "difficulty_level": {"type": "integer"},
                "credits": {"type": "integer"},
                "prerequisites": {"type": "string"},
                "teacher_name": {"type": "string"},
                "max_students": {"type": "integer"},
                "semester": {"type": "string"},
                "schedule": {"type": "string"}
            },
            "required": ["name", "code", "category", "difficulty_level", "credits", "schedule"]
        },
        "SetPreferenceRequest": {
            "type": "object",
            "properties": {
                "subject_name": {"type": "string"},
                "interest_level": {"type": "integer"},
                "priority": {"type": "integer"},
                "notes": {"type": "string"}
            },
            "required": ["subject_name"]
        },
        "BuildScheduleRequest": {
            "type": "object",
            "properties": {
                "weeklySchedule": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/DaySchedule"}
                },
                "subjectCount": {"type": "integer", "default": 5},
                "preferenceStrategy": {"type": "string"},
                "prioritizeDependencies": {"type": "boolean"},
                "includeSaturday": {"type": "boolean"},
                "additionalNotes": {"type": "string"},
                "uploadedSubjects": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/UploadedSubject"}
                }
            },
            "required": ["weeklySchedule"]
        },
        "DaySchedule": {
            "type": "object",
            "properties": {
                "day": {"type": "string"},
                "available": {"type": "boolean"},
                "timeSlots": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/AvailabilityWindow"}
                }
            },
            "required": ["day"]
        },
        "AvailabilityWindow": {
            "type": "object",
            "properties": {
                "start": {"type": "string", "example": "09:00"},
                "end": {"type": "string", "example": "12:00"}
            },
            "required": ["start", "end"]
        },
        "UploadedSubject": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "code": {"type": "string"},
                "category": {"type": "string"},
                "credits": {"type": "integer"},
                "difficulty": {"type": "integer"},
                "schedule": {"type": "string"}
            },
            "required": ["name"]
        },
        "ExportRequest": {
            "type": "object",
            "properties": {
                "timetableId": {"type": "integer"},
                "format": {"type": "string", "enum": ["csv", "pdf", "xlsx", "ics"]},
                "title": {"type": "string"}
            },
            "required": ["timetableId", "format"]
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
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
