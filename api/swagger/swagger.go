package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "TutorHive API",
        "description": "Teacher availability and reservation-conflict service",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Authentication"},
        {"name": "Schedule", "description": "Weekly availability & conflict checks"},
        {"name": "Reservations", "description": "Lesson bookings"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate and obtain an access token",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/LoginResponse"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}
                }
            }
        },
        "/schedule": {
            "get": {
                "tags": ["Schedule"],
                "summary": "Get the caller's weekly availability",
                "security": [{"Bearer": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ScheduleResult"}},
                    "404": {"description": "Caller has no teacher record", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}
                }
            },
            "put": {
                "tags": ["Schedule"],
                "summary": "Atomically replace the caller's weekly availability",
                "security": [{"Bearer": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReplaceScheduleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ReplaceScheduleResult"}},
                    "400": {"description": "Field-keyed validation errors", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}
                }
            }
        },
        "/schedule/conflicts": {
            "get": {
                "tags": ["Schedule"],
                "summary": "Check reservations against availability in a date range",
                "security": [{"Bearer": []}],
                "parameters": [
                    {"name": "from_date", "in": "query", "required": true, "type": "string"},
                    {"name": "to_date", "in": "query", "required": true, "type": "string"},
                    {"name": "slot_ids", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ConflictReport"}},
                    "400": {"description": "Malformed date range or slot_ids", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}
                }
            }
        },
        "/schedule/export": {
            "get": {
                "tags": ["Schedule"],
                "summary": "Download weekly availability as CSV or PDF",
                "security": [{"Bearer": []}],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "Attachment"}
                }
            }
        },
        "/reservations": {
            "get": {
                "tags": ["Reservations"],
                "summary": "List the caller's reservations",
                "security": [{"Bearer": []}],
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "post": {
                "tags": ["Reservations"],
                "summary": "Book a lesson inside an available slot",
                "security": [{"Bearer": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateReservationRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Reservation"}},
                    "409": {"description": "Requested time is not available", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}
                }
            }
        }
    },
    "securityDefinitions": {
        "Bearer": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "definitions": {
        "AvailableSlot": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "teacher_id": {"type": "string"},
                "weekday": {"type": "integer", "minimum": 0, "maximum": 6},
                "start_time": {"type": "string", "example": "09:00"},
                "end_time": {"type": "string", "example": "10:00"},
                "is_active": {"type": "boolean"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "SlotInput": {
            "type": "object",
            "properties": {
                "weekday": {"type": "integer", "minimum": 0, "maximum": 6},
                "start_time": {"type": "string", "example": "09:00"},
                "end_time": {"type": "string", "example": "10:00"},
                "is_active": {"type": "boolean"}
            },
            "required": ["weekday", "start_time", "end_time"]
        },
        "ReplaceScheduleRequest": {
            "type": "object",
            "properties": {
                "available_slots": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/SlotInput"}
                }
            }
        },
        "ScheduleResult": {
            "type": "object",
            "properties": {
                "available_slots": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/AvailableSlot"}
                },
                "total_slots": {"type": "integer"}
            }
        },
        "ReplaceScheduleResult": {
            "type": "object",
            "properties": {
                "available_slots": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/AvailableSlot"}
                },
                "created_count": {"type": "integer"},
                "updated_count": {"type": "integer"},
                "deleted_count": {"type": "integer"}
            }
        },
        "SlotConflict": {
            "type": "object",
            "properties": {
                "slot_id": {"type": "string"},
                "reservation_id": {"type": "string"},
                "reason": {"type": "string"}
            }
        },
        "ConflictReport": {
            "type": "object",
            "properties": {
                "has_conflicts": {"type": "boolean"},
                "conflicts": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/SlotConflict"}
                },
                "total_conflicts": {"type": "integer"},
                "check_period": {
                    "type": "object",
                    "properties": {
                        "from_date": {"type": "string"},
                        "to_date": {"type": "string"}
                    }
                }
            }
        },
        "CreateReservationRequest": {
            "type": "object",
            "properties": {
                "course_id": {"type": "string"},
                "reserve_date": {"type": "string", "example": "2024-06-03"},
                "reserve_time": {"type": "string", "example": "09:00"}
            },
            "required": ["course_id", "reserve_date", "reserve_time"]
        },
        "Reservation": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "teacher_id": {"type": "string"},
                "course_id": {"type": "string"},
                "student_id": {"type": "string"},
                "reserve_time": {"type": "string"},
                "teacher_status": {"type": "string"},
                "student_status": {"type": "string"}
            }
        },
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "LoginResponse": {
            "type": "object",
            "properties": {
                "access_token": {"type": "string"},
                "expires_in": {"type": "integer"}
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
        "ErrorEnvelope": {
            "type": "object",
            "properties": {
                "error": {"$ref": "#/definitions/APIError"},
                "errors": {
                    "type": "object",
                    "additionalProperties": {"type": "string"}
                }
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
