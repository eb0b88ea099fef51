// Package docs registers the Swagger document served under /swagger. It follows the
// swag annotations on the handlers and cmd/main.go; app tests check that every API
// route is documented.
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
        "/frauds": {
            "get": {
                "description": "Most recent first. per_page above the server maximum is clamped.",
                "produces": ["application/json"],
                "tags": ["predictions"],
                "summary": "List flagged transactions",
                "parameters": [
                    {"type": "integer", "description": "page number, default 1", "name": "page", "in": "query"},
                    {"type": "integer", "description": "page size, default 20", "name": "per_page", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/views.FraudListResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/pkg.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/pkg.ErrorResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Liveness and model status",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/views.HealthResponse"}}
                }
            }
        },
        "/predict": {
            "post": {
                "description": "Flags the transaction as fraud (1) or legitimate (0). Flagged transactions are stored.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["predictions"],
                "summary": "Score a transaction",
                "parameters": [
                    {
                        "description": "raw transaction, every field optional",
                        "name": "transaction",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/models.Transaction"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/views.PredictResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/pkg.ErrorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/pkg.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/pkg.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "models.FlaggedTransaction": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "time_ind": {"type": "integer"},
                "transac_type": {"type": "string"},
                "amount": {"type": "number"},
                "src_bal": {"type": "number"},
                "src_new_bal": {"type": "number"},
                "dst_bal": {"type": "number"},
                "dst_new_bal": {"type": "number"},
                "flagged_at": {"type": "string"}
            }
        },
        "models.Transaction": {
            "type": "object",
            "properties": {
                "time_ind": {"type": "integer"},
                "transac_type": {"type": "string"},
                "amount": {"type": "number"},
                "src_bal": {"type": "number"},
                "src_new_bal": {"type": "number"},
                "dst_bal": {"type": "number"},
                "dst_new_bal": {"type": "number"}
            }
        },
        "pkg.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "details": {"type": "string"},
                "error": {"type": "string"}
            }
        },
        "views.FraudListResponse": {
            "type": "object",
            "properties": {
                "fraudulent_transactions": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/models.FlaggedTransaction"}
                },
                "pagination": {"$ref": "#/definitions/views.Pagination"}
            }
        },
        "views.HealthResponse": {
            "type": "object",
            "properties": {
                "model": {"$ref": "#/definitions/views.ModelView"},
                "model_loaded": {"type": "boolean"},
                "status": {"type": "string", "example": "healthy"}
            }
        },
        "views.ModelView": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "source": {"type": "string"},
                "version": {"type": "string"}
            }
        },
        "views.Pagination": {
            "type": "object",
            "properties": {
                "current_page": {"type": "integer"},
                "has_next": {"type": "boolean"},
                "has_prev": {"type": "boolean"},
                "per_page": {"type": "integer"},
                "total_pages": {"type": "integer"},
                "total_records": {"type": "integer"}
            }
        },
        "views.PredictResponse": {
            "type": "object",
            "properties": {
                "is_fraud": {"type": "integer", "example": 1}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Fraud Prediction API",
	Description:      "Scores transactions with a pre-trained classifier and lists flagged ones.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
