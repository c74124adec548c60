package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Conference Pulse API",
        "description": "Points, evaluations and badges for conference participants",
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
        {"name": "Participants", "description": "Registration and own profile"},
        {"name": "Authentication", "description": "Code based login"},
        {"name": "Program", "description": "Conference activities"},
        {"name": "Evaluations", "description": "Micro and gated evaluations"},
        {"name": "Leaderboard", "description": "Live ranking"},
        {"name": "Badges", "description": "Badge catalog and progress"},
        {"name": "Admin", "description": "Organizer operations"}
    ],
    "paths": {
        "/participants": {
            "post": {
                "tags": ["Participants"],
                "summary": "Register participant",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterParticipantRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Exchange a participant code for an access token",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/me": {
            "get": {
                "tags": ["Participants"],
                "summary": "Current participant",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/me/points-history": {
            "get": {
                "tags": ["Participants"],
                "summary": "Points history, newest first",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "limit", "in": "query", "type": "integer"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/me/dashboard": {
            "get": {
                "tags": ["Participants"],
                "summary": "Participant dashboard",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/me/rank": {
            "get": {
                "tags": ["Leaderboard"],
                "summary": "Own rank",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/me/badges/progress": {
            "get": {
                "tags": ["Badges"],
                "summary": "Progress towards every badge",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/program": {
            "get": {
                "tags": ["Program"],
                "summary": "List activities",
                "parameters": [
                    {"name": "day", "in": "query", "type": "integer"},
                    {"name": "type", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/program/main": {
            "get": {
                "tags": ["Program"],
                "summary": "Main sessions of a day",
                "parameters": [{"name": "day", "in": "query", "type": "integer"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/program/{id}": {
            "get": {
                "tags": ["Program"],
                "summary": "Activity detail",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/activities/{id}/micro-evaluation": {
            "get": {
                "tags": ["Evaluations"],
                "summary": "Whether the activity was already evaluated",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Evaluations"],
                "summary": "Submit a micro-evaluation",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitResponsesRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/evaluations/status": {
            "get": {
                "tags": ["Evaluations"],
                "summary": "Open state of every evaluation window",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/evaluations/{type}/eligibility": {
            "get": {
                "tags": ["Evaluations"],
                "summary": "Whether the participant may submit",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "type", "in": "path", "required": true, "type": "string", "enum": ["day1", "day2", "final"]}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/evaluations/{type}": {
            "post": {
                "tags": ["Evaluations"],
                "summary": "Submit a gated evaluation",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "type", "in": "path", "required": true, "type": "string", "enum": ["day1", "day2", "final"]},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitResponsesRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/leaderboard": {
            "get": {
                "tags": ["Leaderboard"],
                "summary": "Top participants",
                "parameters": [{"name": "limit", "in": "query", "type": "integer"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/badges": {
            "get": {
                "tags": ["Badges"],
                "summary": "Badge catalog",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/admin/evaluations/{type}/open": {
            "post": {
                "tags": ["Admin"],
                "summary": "Open an evaluation window",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "type", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/admin/evaluations/{type}/close": {
            "post": {
                "tags": ["Admin"],
                "summary": "Close an evaluation window",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "type", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/admin/evaluations/{type}/stats": {
            "get": {
                "tags": ["Admin"],
                "summary": "Responses collected for an evaluation",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "type", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/admin/activities/{id}/complete": {
            "post": {
                "tags": ["Admin"],
                "summary": "Mark an activity completed",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "schema": {"$ref": "#/definitions/CompleteActivityRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/admin/exports/leaderboard": {
            "get": {
                "tags": ["Admin"],
                "summary": "Export the leaderboard",
                "security": [{"BearerAuth": []}],
                "produces": ["text/csv", "application/pdf"],
                "parameters": [{"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}],
                "responses": {"200": {"description": "File"}}
            }
        },
        "/admin/exports/evaluations/{type}": {
            "get": {
                "tags": ["Admin"],
                "summary": "Export evaluation responses",
                "security": [{"BearerAuth": []}],
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "type", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {"200": {"description": "File"}}
            }
        },
        "/admin/badges/sweep": {
            "get": {
                "tags": ["Admin"],
                "summary": "Badge sweep worker statistics",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Admin"],
                "summary": "Re-run the badge engine for every participant",
                "security": [{"BearerAuth": []}],
                "responses": {"202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/admin/metrics": {
            "get": {
                "tags": ["Admin"],
                "summary": "Request and cache counters",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        }
    },
    "definitions": {
        "RegisterParticipantRequest": {
            "type": "object",
            "required": ["email"],
            "properties": {
                "code": {"type": "string", "example": "AF-4821"},
                "email": {"type": "string"},
                "name": {"type": "string"},
                "institution": {"type": "string"},
                "language": {"type": "string", "enum": ["fr", "en"]}
            }
        },
        "LoginRequest": {
            "type": "object",
            "required": ["code"],
            "properties": {
                "code": {"type": "string", "example": "AF-4821"}
            }
        },
        "SubmitResponsesRequest": {
            "type": "object",
            "required": ["responses"],
            "properties": {
                "responses": {"type": "object", "additionalProperties": true}
            }
        },
        "CompleteActivityRequest": {
            "type": "object",
            "properties": {
                "actualEnd": {"type": "string", "format": "date-time"}
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
