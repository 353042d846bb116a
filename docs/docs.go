// Package docs registers the OpenAPI document served at /v1/swagger.
// Regenerate with: swag init -g cmd/api/main.go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/ats-check": {
            "get": {
                "description": "Reports the caller's remaining daily checks without consuming any.",
                "produces": ["application/json"],
                "tags": ["ats-check"],
                "summary": "Remaining ATS check quota",
                "parameters": [
                    {"type": "string", "description": "Anonymous client UUID", "name": "X-Client-ID", "in": "header"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            },
            "post": {
                "description": "Scores a structured resume against an optional target role. Consumes one unit of the daily quota on success.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["ats-check"],
                "summary": "Score a resume for ATS compatibility",
                "parameters": [
                    {"type": "string", "description": "Anonymous client UUID", "name": "X-Client-ID", "in": "header"},
                    {"description": "Resume and target role", "name": "request", "in": "body", "required": true,
                     "schema": {"$ref": "#/definitions/domain.ATSCheckRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/response.Response"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/ats-check/history": {
            "get": {
                "description": "Lists the caller's most recent score summaries.",
                "produces": ["application/json"],
                "tags": ["ats-check"],
                "summary": "Recent ATS scores",
                "parameters": [
                    {"type": "string", "description": "Anonymous client UUID", "name": "X-Client-ID", "in": "header"},
                    {"type": "integer", "description": "Max records (default 20, max 100)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/ats-check/roles": {
            "get": {
                "description": "Lists the predefined target roles with their aliases and keywords.",
                "produces": ["application/json"],
                "tags": ["ats-check"],
                "summary": "List target roles",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/health": {
            "get": {
                "description": "Reports the status of Redis and the database",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Service health",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        }
    },
    "definitions": {
        "domain.ATSCheckRequest": {
            "type": "object",
            "properties": {
                "keywords": {"type": "array", "maxItems": 100, "items": {"type": "string"}},
                "resume": {"type": "object"},
                "targetRole": {"type": "string", "maxLength": 200}
            }
        },
        "response.Response": {
            "type": "object",
            "properties": {
                "data": {},
                "error": {},
                "message": {"type": "string"},
                "request_id": {"type": "string"},
                "success": {"type": "boolean"},
                "upgradeRequired": {"type": "boolean"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/v1",
	Schemes:          []string{},
	Title:            "ATS Check API",
	Description:      "Scores structured resumes for ATS compatibility.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
