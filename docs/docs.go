// Package docs registers the OpenAPI description served under /swagger.
// Regenerate with: swag init -g api/main.go
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
        "/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Authenticate user and return JWT token",
                "parameters": [{"description": "username and password", "name": "credentials", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.CredentialsRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.LoginResult"}},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "429": {"description": "Rate limit exceeded", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/refresh": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Exchange a refresh token for a new token pair",
                "parameters": [{"description": "refresh token", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.RefreshRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.LoginResult"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/logout": {
            "post": {
                "consumes": ["application/json"],
                "tags": ["auth"],
                "summary": "Revoke a refresh token",
                "parameters": [{"description": "refresh token", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.RefreshRequest"}}],
                "responses": {"204": {"description": "Logged out"}}
            }
        },
        "/admin/users": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Create user with custom role",
                "parameters": [{"description": "User to create with role", "name": "user", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.RegisterAsAdminRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handlers.UserResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "409": {"description": "User exists", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/products": {
            "get": {
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "List all products",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/handlers.ProductResponse"}}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Adds a product to the catalog. A positive quantity is recorded as the opening stock_in transaction.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "Create a new product",
                "parameters": [{"description": "Product to add", "name": "product", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.ProductRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handlers.ProductResponse"}},
                    "409": {"description": "Sku already exists", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "422": {"description": "Validation failed", "schema": {"$ref": "#/definitions/handlers.ValidationErrorResponse"}}
                }
            }
        },
        "/products/low-stock": {
            "get": {
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "List products at or below a stock level",
                "parameters": [{"type": "integer", "description": "Stock level", "name": "threshold", "in": "query", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/handlers.ProductResponse"}}}}
            }
        },
        "/products/import": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["import"],
                "summary": "Import products via CSV",
                "parameters": [
                    {"type": "file", "description": "CSV file", "name": "file", "in": "formData", "required": true},
                    {"type": "string", "description": "Import mode (skip|update)", "name": "mode", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/catalog.ImportResult"}}}
            }
        },
        "/products/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "Get product by ID",
                "parameters": [{"type": "integer", "description": "Product ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.ProductResponse"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "Update product metadata",
                "parameters": [
                    {"type": "integer", "description": "Product ID", "name": "id", "in": "path", "required": true},
                    {"description": "Updated metadata", "name": "product", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.ProductUpdateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.ProductResponse"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "409": {"description": "Sku already exists", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/products/{id}/reconcile": {
            "get": {
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "Replay a product's ledger and compare it with its stock",
                "parameters": [{"type": "integer", "description": "Product ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ledger.Reconciliation"}}}
            }
        },
        "/products/{id}/transactions/export": {
            "get": {
                "produces": ["text/csv", "application/json"],
                "tags": ["stock-transactions"],
                "summary": "Export a product's ledger",
                "parameters": [
                    {"type": "integer", "description": "Product ID", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "Export format (csv or json)", "name": "format", "in": "query", "required": true},
                    {"type": "string", "description": "Entries from this timestamp (RFC3339)", "name": "since", "in": "query"},
                    {"type": "string", "description": "Entries until this timestamp (RFC3339)", "name": "until", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"type": "file"}}}
            }
        },
        "/stock-transactions": {
            "get": {
                "description": "Entries are ordered by ascending id. Without a limit every matching entry is returned.",
                "produces": ["application/json"],
                "tags": ["stock-transactions"],
                "summary": "List ledger entries",
                "parameters": [
                    {"type": "integer", "description": "Only this product", "name": "product_id", "in": "query"},
                    {"type": "string", "description": "Entries from this timestamp (RFC3339)", "name": "since", "in": "query"},
                    {"type": "string", "description": "Entries until this timestamp (RFC3339)", "name": "until", "in": "query"},
                    {"type": "integer", "description": "Offset for pagination", "name": "offset", "in": "query"},
                    {"type": "integer", "description": "Limit for pagination", "name": "limit", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.StockTransactionsSearchResult"}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Appends a stock_in or stock_out to the ledger and updates the product's stock in the same unit of work.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["stock-transactions"],
                "summary": "Record a stock movement",
                "parameters": [{"description": "Movement to record", "name": "transaction", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.StockTransactionRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handlers.StockTransactionResponse"}},
                    "404": {"description": "Product not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "409": {"description": "Insufficient stock", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "422": {"description": "Invalid quantity or type", "schema": {"$ref": "#/definitions/handlers.ValidationErrorResponse"}}
                }
            }
        },
        "/metrics/dashboard": {
            "get": {
                "produces": ["application/json"],
                "tags": ["metrics"],
                "summary": "Dashboard metrics",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/repo.Metrics"}}}
            }
        },
        "/alerts/low-stock": {
            "get": {
                "produces": ["application/json"],
                "tags": ["metrics"],
                "summary": "Most recent low-stock alerts",
                "parameters": [{"type": "integer", "description": "Number of alerts (default 50)", "name": "limit", "in": "query"}],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/alerts.LowStockAlert"}}}}
            }
        }
    },
    "definitions": {
        "alerts.LowStockAlert": {"type": "object", "properties": {"product_id": {"type": "integer"}, "name": {"type": "string"}, "sku": {"type": "string"}, "stock_quantity": {"type": "integer"}, "threshold": {"type": "integer"}, "transaction_id": {"type": "integer"}, "time": {"type": "string"}}},
        "catalog.ImportResult": {"type": "object", "properties": {"imported": {"type": "integer"}, "errors": {"type": "array", "items": {"type": "string"}}}},
        "handlers.CredentialsRequest": {"type": "object", "required": ["password", "username"], "properties": {"username": {"type": "string"}, "password": {"type": "string"}}},
        "handlers.ErrorResponse": {"type": "object", "properties": {"error": {"type": "string"}}},
        "handlers.LoginResult": {"type": "object", "properties": {"token": {"type": "string"}, "refresh_token": {"type": "string"}, "expires_in": {"type": "integer"}}},
        "handlers.ProductRequest": {"type": "object", "required": ["name", "sku"], "properties": {"name": {"type": "string", "maxLength": 255}, "sku": {"type": "string", "maxLength": 64}, "quantity": {"type": "integer", "minimum": 0}, "threshold": {"type": "integer", "minimum": 0}}},
        "handlers.ProductResponse": {"type": "object", "properties": {"id": {"type": "integer"}, "name": {"type": "string"}, "sku": {"type": "string"}, "stock_quantity": {"type": "integer"}, "threshold": {"type": "integer"}, "low_stock": {"type": "boolean"}, "created_at": {"type": "string"}, "updated_at": {"type": "string"}}},
        "handlers.ProductUpdateRequest": {"type": "object", "required": ["name", "sku"], "properties": {"name": {"type": "string", "maxLength": 255}, "sku": {"type": "string", "maxLength": 64}, "threshold": {"type": "integer", "minimum": 0}}},
        "handlers.RefreshRequest": {"type": "object", "required": ["refresh_token"], "properties": {"refresh_token": {"type": "string"}}},
        "handlers.RegisterAsAdminRequest": {"type": "object", "required": ["password", "role", "username"], "properties": {"username": {"type": "string", "minLength": 3, "maxLength": 64}, "password": {"type": "string", "minLength": 6}, "role": {"type": "string", "enum": ["admin", "user"]}}},
        "handlers.StockTransactionRequest": {"type": "object", "required": ["type"], "properties": {"product_id": {"type": "integer"}, "type": {"type": "string", "enum": ["stock_in", "stock_out"]}, "quantity": {"type": "integer", "minimum": 1}}},
        "handlers.StockTransactionResponse": {"type": "object", "properties": {"id": {"type": "integer"}, "product_id": {"type": "integer"}, "type": {"type": "string"}, "quantity": {"type": "integer"}, "created_at": {"type": "string"}}},
        "handlers.StockTransactionsSearchResult": {"type": "object", "properties": {"data": {"type": "array", "items": {"$ref": "#/definitions/handlers.StockTransactionResponse"}}, "meta": {"type": "object", "properties": {"total_count": {"type": "integer"}}}}},
        "handlers.UserResponse": {"type": "object", "properties": {"id": {"type": "integer"}, "username": {"type": "string"}, "role": {"type": "string"}}},
        "handlers.ValidationErrorResponse": {"type": "object", "properties": {"errors": {"type": "array", "items": {"type": "object", "properties": {"field": {"type": "string"}, "description": {"type": "string"}}}}}},
        "ledger.Reconciliation": {"type": "object", "properties": {"product_id": {"type": "integer"}, "stock_quantity": {"type": "integer"}, "ledger_quantity": {"type": "integer"}, "transaction_count": {"type": "integer"}, "consistent": {"type": "boolean"}}},
        "repo.Metrics": {"type": "object", "properties": {"total_products": {"type": "integer"}, "total_transactions": {"type": "integer"}, "low_stock_count": {"type": "integer"}, "most_moved_product": {"type": "object", "properties": {"name": {"type": "string"}, "transaction_count": {"type": "integer"}}}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Stock Ledger API",
	Description:      "REST API for the product catalog and its stock transaction ledger.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
