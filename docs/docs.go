// Package docs is generated by swaggo/swag from the handler annotations.
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
        "/health": {
            "get": {"produces": ["application/json"], "tags": ["system"], "summary": "Health check",
                "responses": {"200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}}}
        },
        "/auth/sign-up": {
            "post": {"consumes": ["application/json"], "produces": ["application/json"], "tags": ["auth"], "summary": "Sign up",
                "description": "Creates a user with the default limits and the default API rate rule",
                "parameters": [{"description": "Credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.Credentials"}}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "429": {"description": "Too Many Requests"}}}
        },
        "/auth/sign-in": {
            "post": {"consumes": ["application/json"], "produces": ["application/json"], "tags": ["auth"], "summary": "Sign in",
                "parameters": [{"description": "Credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.Credentials"}}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}, "429": {"description": "Too Many Requests"}}}
        },
        "/api/v1/channels": {
            "get": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["channels"], "summary": "List channels",
                "responses": {"200": {"description": "count, channels"}, "401": {"description": "Unauthorized"}, "429": {"description": "Too Many Requests"}}}
        },
        "/api/v1/channels/{id}": {
            "get": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["channels"], "summary": "Get channel",
                "parameters": [{"type": "integer", "description": "Channel id", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}}
        },
        "/api/v1/channels/{id}/actions": {
            "post": {"security": [{"BearerAuth": []}], "consumes": ["application/json"], "produces": ["application/json"], "tags": ["channels"], "summary": "Execute action",
                "parameters": [
                    {"type": "integer", "description": "Channel id", "name": "id", "in": "path", "required": true},
                    {"description": "Action payload", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.ExecuteActionRequest"}}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}, "500": {"description": "Internal Server Error"}}}
        },
        "/api/v1/channels/{id}/config": {
            "get": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["channels"], "summary": "Get channel config",
                "parameters": [{"type": "integer", "description": "Channel id", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "patch": {"security": [{"BearerAuth": []}], "consumes": ["application/json"], "produces": ["application/json"], "tags": ["channels"], "summary": "Update channel config",
                "parameters": [
                    {"type": "integer", "description": "Channel id", "name": "id", "in": "path", "required": true},
                    {"description": "Config keys to change", "name": "body", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}}
        },
        "/api/v1/channels/{id}/ws": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["channels"], "summary": "Channel stream",
                "parameters": [
                    {"type": "integer", "description": "Channel id", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "Poll period as Go duration", "name": "interval", "in": "query"},
                    {"type": "integer", "description": "Poll period in milliseconds", "name": "interval_ms", "in": "query"}
                ],
                "responses": {"101": {"description": "Switching Protocols"}, "401": {"description": "Unauthorized"}}}
        },
        "/api/v1/logs": {
            "get": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["logs"], "summary": "List logs",
                "parameters": [
                    {"type": "string", "name": "from", "in": "query"},
                    {"type": "string", "name": "to", "in": "query"},
                    {"enum": ["ACTION_EXECUTED", "CONFIG_CHANGED", "RATE_LIMIT_CHANGED", "LIMITS_CHANGED"], "type": "string", "name": "type", "in": "query"},
                    {"type": "integer", "name": "channel_id", "in": "query"}
                ],
                "responses": {"200": {"description": "count, events"}, "400": {"description": "Bad Request"}}}
        },
        "/api/v1/users/current/rate-limit": {
            "get": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["users"], "summary": "Current rate limit",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.RateLimitStatus"}}, "429": {"description": "Too Many Requests"}}}
        },
        "/admin/users/{username}/limits": {
            "put": {"consumes": ["application/json"], "produces": ["application/json"], "tags": ["admin"], "summary": "Change user limits",
                "parameters": [
                    {"type": "string", "name": "username", "in": "path", "required": true},
                    {"type": "string", "name": "X-Admin-Token", "in": "header", "required": true},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.ChangeLimitsRequest"}}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}, "404": {"description": "Not Found"}}}
        }
    },
    "definitions": {
        "handlers.Credentials": {"type": "object", "properties": {"username": {"type": "string", "example": "alice"}, "password": {"type": "string", "example": "s3cret"}}},
        "handlers.ExecuteActionRequest": {"type": "object", "properties": {"action": {"type": "string", "example": "SHUT_PARTIALLY"}, "params": {"type": "object"}}},
        "handlers.RateLimitStatus": {"type": "object", "properties": {
            "rule": {"type": "string", "example": "1000/3600"}, "default": {"type": "boolean"}, "limit": {"type": "integer"},
            "period_seconds": {"type": "integer"}, "remaining": {"type": "integer"}, "reset_at": {"type": "string"}}},
        "handlers.ChangeLimitsRequest": {"type": "object", "properties": {
            "limit_for_all": {"type": "integer", "example": 10}, "api_rate_limit": {"type": "string", "example": "100/60"}, "limits": {"type": "object"}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Smart Channels API",
	Description:      "Channel actions, parameter config and per-user API rate limits.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
