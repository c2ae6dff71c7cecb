// Package docs registers the OpenAPI document served at /swagger/index.html.
// Regenerate with `swag init -g cmd/api/main.go -o internal/docs` after
// changing handler annotations.
package docs

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
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "503": {"description": "Service Unavailable", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/transactions": {
            "get": {
                "produces": ["application/json"],
                "tags": ["transactions"],
                "summary": "List transactions",
                "parameters": [
                    {"type": "string", "description": "Earliest tanggal (RFC3339 or YYYY-MM-DD)", "name": "from_date", "in": "query"},
                    {"type": "string", "description": "Latest tanggal (RFC3339 or YYYY-MM-DD)", "name": "to_date", "in": "query"},
                    {"type": "string", "description": "pemasukan or pengeluaran", "name": "tipe", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.TransactionListResponse"}},
                    "400": {"description": "Invalid filter", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Server error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"AdminToken": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["transactions"],
                "summary": "Create a transaction",
                "parameters": [
                    {"description": "Transaction details", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.CreateTransactionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Transaction created", "schema": {"$ref": "#/definitions/models.Transaction"}},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "401": {"description": "Invalid or missing admin token", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "503": {"description": "Admin token not configured", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/transactions/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["transactions"],
                "summary": "Get transaction by ID",
                "parameters": [{"type": "string", "description": "Transaction ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Transaction"}},
                    "404": {"description": "Transaction not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"AdminToken": []}],
                "produces": ["application/json"],
                "tags": ["transactions"],
                "summary": "Delete a transaction",
                "parameters": [{"type": "string", "description": "Transaction ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "Transaction deleted", "schema": {"$ref": "#/definitions/handlers.DeleteTransactionResponse"}},
                    "401": {"description": "Invalid or missing admin token", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Transaction not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/stats": {
            "get": {
                "produces": ["application/json"],
                "tags": ["transactions"],
                "summary": "Ledger statistics",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.StatsSummary"}}
                }
            }
        },
        "/auth/verify": {
            "get": {
                "security": [{"AdminToken": []}],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Verify admin token",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.VerifyResponse"}},
                    "401": {"description": "Invalid or missing admin token", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/auth/session": {
            "post": {
                "security": [{"AdminToken": []}],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Create admin session",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handlers.SessionResponse"}},
                    "401": {"description": "Invalid or missing admin token", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handlers.CreateTransactionRequest": {
            "type": "object",
            "required": ["jumlah", "keterangan", "tanggal", "tipe"],
            "properties": {
                "tanggal": {"type": "string", "example": "2024-05-01"},
                "penghuni": {"type": "string", "maxLength": 100, "example": "Budi"},
                "kamar": {"type": "string", "maxLength": 50, "example": "A-12"},
                "keterangan": {"type": "string", "maxLength": 500, "example": "Iuran bulanan"},
                "jumlah": {"type": "number", "example": 150000},
                "tipe": {"type": "string", "example": "pemasukan"}
            }
        },
        "handlers.DeleteTransactionResponse": {
            "type": "object",
            "properties": {"id": {"type": "string"}, "message": {"type": "string"}}
        },
        "handlers.ErrorDetail": {
            "type": "object",
            "properties": {"code": {"type": "string"}, "message": {"type": "string"}}
        },
        "handlers.ErrorResponse": {
            "type": "object",
            "properties": {"detail": {"type": "string"}, "error": {"$ref": "#/definitions/handlers.ErrorDetail"}}
        },
        "handlers.SessionResponse": {
            "type": "object",
            "properties": {"expires_at": {"type": "string"}, "token": {"type": "string"}}
        },
        "handlers.TransactionListResponse": {
            "type": "object",
            "properties": {"items": {"type": "array", "items": {"$ref": "#/definitions/models.Transaction"}}}
        },
        "handlers.VerifyResponse": {
            "type": "object",
            "properties": {"method": {"type": "string"}, "valid": {"type": "boolean"}}
        },
        "models.StatsSummary": {
            "type": "object",
            "properties": {"pemasukan": {"type": "integer"}, "pengeluaran": {"type": "integer"}, "saldo": {"type": "integer"}}
        },
        "models.Transaction": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "tanggal": {"type": "string"},
                "penghuni": {"type": "string"},
                "kamar": {"type": "string"},
                "keterangan": {"type": "string"},
                "jumlah": {"type": "integer"},
                "tipe": {"type": "string", "enum": ["pemasukan", "pengeluaran"]},
                "created_at": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "AdminToken": {"type": "apiKey", "name": "X-Admin-Token", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Keuangan Asrama API",
	Description:      "Dormitory ledger: income and expense entries, totals, admin-gated mutations.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
