// Package swagger registers the OpenAPI document served under /swagger.
// Regenerate with: swag init -g cmd/serve.go -o docs/swagger
package swagger

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
    "securityDefinitions": {
        "ApiKeyAuth": {
            "type": "apiKey",
            "name": "X-API-Key",
            "in": "header"
        }
    },
    "security": [{"ApiKeyAuth": []}],
    "paths": {
        "/mirror/ledger": {
            "get": {
                "description": "Returns the names currently in the ledger.",
                "produces": ["application/json"],
                "tags": ["mirror"],
                "summary": "List synced names",
                "responses": {
                    "200": {
                        "description": "Ledger contents",
                        "schema": {"$ref": "#/definitions/mirror.LedgerResponse"}
                    }
                }
            }
        },
        "/mirror/status": {
            "get": {
                "description": "Returns the report of the most recent pass.",
                "produces": ["application/json"],
                "tags": ["mirror"],
                "summary": "Last pass status",
                "responses": {
                    "200": {
                        "description": "Last pass",
                        "schema": {"$ref": "#/definitions/mirror.Status"}
                    },
                    "404": {
                        "description": "No pass has run yet",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    }
                }
            }
        },
        "/mirror/sync": {
            "post": {
                "description": "Runs a reconciliation pass and returns its report. With async=true the pass runs in the background.",
                "produces": ["application/json"],
                "tags": ["mirror"],
                "summary": "Trigger a pass",
                "parameters": [
                    {"type": "boolean", "description": "Return immediately", "name": "async", "in": "query"}
                ],
                "responses": {
                    "200": {
                        "description": "Pass finished",
                        "schema": {"$ref": "#/definitions/mirror.Status"}
                    },
                    "202": {
                        "description": "Pass started",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    },
                    "409": {
                        "description": "Another process holds the pass lock",
                        "schema": {"$ref": "#/definitions/mirror.Status"}
                    },
                    "500": {
                        "description": "Pass failed",
                        "schema": {"$ref": "#/definitions/mirror.Status"}
                    }
                }
            }
        }
    },
    "definitions": {
        "mirror.LedgerResponse": {
            "type": "object",
            "properties": {
                "count": {"type": "integer"},
                "names": {"type": "array", "items": {"type": "string"}},
                "warning": {"type": "string"}
            }
        },
        "mirror.Status": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "finished_at": {"type": "string"},
                "kind": {"type": "string"},
                "report": {"$ref": "#/definitions/reconcile.Report"}
            }
        },
        "reconcile.Failure": {
            "type": "object",
            "properties": {
                "kind": {"type": "string"},
                "name": {"type": "string"},
                "op": {"type": "string"},
                "reason": {"type": "string"}
            }
        },
        "reconcile.Report": {
            "type": "object",
            "properties": {
                "added": {"type": "array", "items": {"type": "string"}},
                "deleted": {"type": "array", "items": {"type": "string"}},
                "failures": {"type": "array", "items": {"$ref": "#/definitions/reconcile.Failure"}},
                "finished_at": {"type": "string"},
                "ledger_saved": {"type": "boolean"},
                "pass_id": {"type": "string"},
                "skipped": {"type": "array", "items": {"type": "string"}},
                "started_at": {"type": "string"},
                "summary": {"$ref": "#/definitions/reconcile.Summary"}
            }
        },
        "reconcile.Summary": {
            "type": "object",
            "properties": {
                "added": {"type": "integer"},
                "deleted": {"type": "integer"},
                "failed": {"type": "integer"},
                "ignored": {"type": "integer"},
                "known": {"type": "integer"},
                "ledger": {"type": "integer"},
                "retained": {"type": "integer"},
                "skipped": {"type": "integer"},
                "source": {"type": "integer"},
                "unchanged": {"type": "integer"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Screenshot Mirror API",
	Description:      "Inspect and trigger folder-to-repository mirror passes.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
