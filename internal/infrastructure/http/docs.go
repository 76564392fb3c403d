package http

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/food/recommend": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["food"],
                "summary": "Get food recommendations",
                "parameters": [
                    {
                        "description": "Recommendation request",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/RecommendRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "Recommendations", "schema": {"$ref": "#/definitions/RecommendationEnvelope"}},
                    "400": {"description": "Validation error or bad geographic input", "schema": {"$ref": "#/definitions/ErrorEnvelope"}},
                    "404": {"description": "No nearby restaurants found", "schema": {"$ref": "#/definitions/ErrorEnvelope"}},
                    "429": {"description": "Upstream rate limit", "schema": {"$ref": "#/definitions/ErrorEnvelope"}},
                    "500": {"description": "Unclassified or persistence failure", "schema": {"$ref": "#/definitions/ErrorEnvelope"}},
                    "502": {"description": "Upstream malformed, empty or unavailable", "schema": {"$ref": "#/definitions/ErrorEnvelope"}},
                    "504": {"description": "Upstream timeout", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}
                }
            }
        },
        "/food/histories": {
            "get": {
                "produces": ["application/json"],
                "tags": ["food"],
                "summary": "List recommendation history, newest first",
                "responses": {
                    "200": {"description": "History records", "schema": {"$ref": "#/definitions/HistoryEnvelope"}},
                    "500": {"description": "Database error", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "RecommendRequest": {
            "type": "object",
            "required": ["category"],
            "properties": {
                "category": {"type": "string", "example": "pedas"},
                "mode": {"type": "string", "enum": ["general", "nearMe"], "default": "general"},
                "lat": {"type": "number", "minimum": -90, "maximum": 90},
                "lon": {"type": "number", "minimum": -180, "maximum": 180},
                "radius": {"type": "number", "minimum": 500, "maximum": 10000, "default": 3000}
            }
        },
        "RecommendationItem": {
            "type": "object",
            "properties": {
                "food": {"type": "string"},
                "place": {"type": "string"},
                "reason": {"type": "string"}
            }
        },
        "RecommendationResult": {
            "type": "object",
            "properties": {
                "recommendations": {"type": "array", "items": {"$ref": "#/definitions/RecommendationItem"}}
            }
        },
        "HistoryRecord": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "format": "uuid"},
                "category": {"type": "string"},
                "lat": {"type": "number", "x-nullable": true},
                "lon": {"type": "number", "x-nullable": true},
                "result": {"$ref": "#/definitions/RecommendationResult"},
                "createdAt": {"type": "string", "format": "date-time"}
            }
        },
        "FieldError": {
            "type": "object",
            "properties": {
                "field": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "RecommendationEnvelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {"$ref": "#/definitions/RecommendationResult"}
            }
        },
        "HistoryEnvelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {"type": "array", "items": {"$ref": "#/definitions/HistoryRecord"}}
            }
        },
        "ErrorEnvelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "errors": {"type": "array", "items": {"$ref": "#/definitions/FieldError"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Sayang Mau Makan Apa API",
	Description:      "Food recommendations from a generative model, optionally grounded in nearby restaurants.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
