package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "SMA Scheduler API",
        "description": "Timetable generation for academic plans.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Scheduling", "description": "Strategy runs, previews and commits"},
        {"name": "Timetable", "description": "Committed timetable entries, conflicts and exports"},
        {"name": "Teacher Preferences", "description": "Windows a teacher favours or avoids"},
        {"name": "Observability", "description": "Health and metrics"}
    ],
    "paths": {
        "/scheduling/strategies": {
            "get": {
                "tags": ["Scheduling"],
                "summary": "List scheduling strategies",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/plans/{planId}/scheduling/runs": {
            "post": {
                "tags": ["Scheduling"],
                "summary": "Generate a timetable for an academic plan",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "planId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": false, "schema": {"$ref": "#/definitions/RunSchedulingRequest"}}
                ],
                "responses": {
                    "200": {"description": "Run finished", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "202": {"description": "Run queued", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid payload or unknown strategy", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Plan not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Plan is not schedulable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "Scheduling disabled", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/scheduling/runs/{runId}": {
            "get": {
                "tags": ["Scheduling"],
                "summary": "Get a scheduling run",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "runId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Run not found or expired", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/scheduling/runs/{runId}/commit": {
            "post": {
                "tags": ["Scheduling"],
                "summary": "Commit a previewed scheduling run",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "runId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Committed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Run is a dry run or not completed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "500": {"description": "Commit failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/plans/{planId}/timetable": {
            "get": {
                "tags": ["Timetable"],
                "summary": "List committed timetable entries",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "planId", "in": "path", "required": true, "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "pageSize", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/plans/{planId}/timetable/audit": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Check committed entries for double bookings",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "planId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/plans/{planId}/timetable/export": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Export the committed timetable",
                "produces": ["text/csv", "application/pdf"],
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "planId", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "Document", "schema": {"type": "file"}}
                }
            }
        },
        "/plans/{planId}/conflicts": {
            "get": {
                "tags": ["Timetable"],
                "summary": "List scheduling conflicts of a plan",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "planId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/teachers/{teacherId}/preferences": {
            "get": {
                "tags": ["Teacher Preferences"],
                "summary": "Get teacher scheduling preferences",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "teacherId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Teacher Preferences"],
                "summary": "Replace teacher scheduling preferences",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "teacherId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpsertTeacherPreferenceRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid window", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/metrics/summary": {
            "get": {
                "tags": ["Observability"],
                "summary": "Aggregated request, cache and scheduling metrics",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "RunSchedulingRequest": {
            "type": "object",
            "properties": {
                "strategy": {"type": "string", "enum": ["teacher_priority", "room_optimization", "balanced_distribution", "genetic_algorithm"]},
                "commit": {"type": "boolean"},
                "dryRun": {"type": "boolean"},
                "async": {"type": "boolean"},
                "populationSize": {"type": "integer", "minimum": 2, "maximum": 1000},
                "generations": {"type": "integer", "minimum": 1, "maximum": 5000},
                "seed": {"type": "integer", "format": "int64"}
            }
        },
        "TeacherWindow": {
            "type": "object",
            "properties": {
                "dayOfWeek": {"type": "string", "enum": ["MONDAY", "TUESDAY", "WEDNESDAY", "THURSDAY", "FRIDAY", "SATURDAY"]},
                "timeRange": {"type": "string", "example": "08:00-10:00"}
            },
            "required": ["dayOfWeek", "timeRange"]
        },
        "UpsertTeacherPreferenceRequest": {
            "type": "object",
            "properties": {
                "preferred": {"type": "array", "items": {"$ref": "#/definitions/TeacherWindow"}},
                "unavailable": {"type": "array", "items": {"$ref": "#/definitions/TeacherWindow"}}
            }
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
                "status": {"type": "integer"},
                "details": {"type": "array", "items": {"$ref": "#/definitions/FieldError"}}
            }
        },
        "FieldError": {
            "type": "object",
            "properties": {
                "field": {"type": "string"},
                "rule": {"type": "string"},
                "param": {"type": "string"}
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
