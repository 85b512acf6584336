// Package docs holds the OpenAPI description served by gin-swagger.
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
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/events": {
            "get": {
                "tags": ["events"], "summary": "List active events",
                "parameters": [
                    {"type": "string", "name": "ticket_type", "in": "query", "enum": ["MOVIE", "BUS", "TRAIN", "EVENT"]},
                    {"type": "string", "name": "venue", "in": "query"},
                    {"type": "string", "name": "search", "in": "query"},
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "limit", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/events/{id}": {
            "get": {
                "tags": ["events"], "summary": "Get an event",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/events/{id}/stats": {
            "get": {
                "tags": ["events"], "summary": "Seat counts by status",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/events/{id}/seats": {
            "get": {
                "tags": ["seats"], "summary": "List every seat of an event",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/events/{id}/seats/available": {
            "get": {
                "tags": ["seats"], "summary": "List available seats",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/seats/lock": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["seats"], "summary": "Lock seats for the caller, all or nothing",
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LockSeatsRequest"}}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Seat not found"}, "409": {"description": "Seat unavailable"}}
            }
        },
        "/seats/unlock": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["seats"], "summary": "Release seats locked by the caller",
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SeatIDsRequest"}}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/bookings": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["bookings"], "summary": "Book seats the caller has locked",
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LockSeatsRequest"}}],
                "responses": {"201": {"description": "Created"}, "409": {"description": "Seats not locked by caller"}}
            }
        },
        "/bookings/my-bookings": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["bookings"], "summary": "List the caller's bookings",
                "parameters": [{"type": "string", "name": "status", "in": "query", "enum": ["PENDING", "CONFIRMED", "EXPIRED"]}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/bookings/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["bookings"], "summary": "Get a booking with its seats",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}
            }
        },
        "/bookings/{id}/confirm": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["bookings"], "summary": "Confirm a pending booking",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "409": {"description": "Invalid state"}, "410": {"description": "Booking expired"}}
            }
        },
        "/bookings/{id}/cancel": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["bookings"], "summary": "Cancel a booking and release its seats",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "409": {"description": "Invalid state"}}
            }
        },
        "/payments/initiate": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["payments"], "summary": "Open a payment for a confirmed booking",
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/InitiatePaymentRequest"}}],
                "responses": {"201": {"description": "Created"}, "409": {"description": "Invalid state"}}
            }
        },
        "/payments/my-payments": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["payments"], "summary": "List the caller's payments",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/payments/booking/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["payments"], "summary": "List payments for a booking",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/payments/{id}/process": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["payments"], "summary": "Settle a pending payment through the gateway",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "Succeeded"}, "402": {"description": "Declined"}}
            }
        },
        "/payments/{id}/retry": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["payments"], "summary": "Open a fresh payment after a failure",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"201": {"description": "Created"}, "409": {"description": "Invalid state"}}
            }
        },
        "/payments/{id}/status": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["payments"], "summary": "Get a payment with its booking",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/admin/events": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["admin"], "summary": "Create an event, optionally with a seat grid",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/admin/events/{id}": {
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["admin"], "summary": "Update an event",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["admin"], "summary": "Deactivate an event",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/admin/events/{id}/seats": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["admin"], "summary": "Add seats to an event",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/admin/events/{id}/bookings": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["admin"], "summary": "List an event's bookings",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/admin/events/{id}/payments/stats": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["admin"], "summary": "Payment totals for an event",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/admin/reconciler/run": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["admin"], "summary": "Run one expiry pass now",
                "responses": {"200": {"description": "OK"}, "500": {"description": "Pass finished with failures"}}
            }
        },
        "/admin/reconciler/status": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["admin"], "summary": "Reconciler schedule and totals",
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "definitions": {
        "LockSeatsRequest": {
            "type": "object",
            "required": ["event_id", "seat_ids"],
            "properties": {
                "event_id": {"type": "string", "format": "uuid"},
                "seat_ids": {"type": "array", "items": {"type": "string", "format": "uuid"}}
            }
        },
        "SeatIDsRequest": {
            "type": "object",
            "required": ["seat_ids"],
            "properties": {
                "seat_ids": {"type": "array", "items": {"type": "string", "format": "uuid"}}
            }
        },
        "InitiatePaymentRequest": {
            "type": "object",
            "required": ["booking_id", "payment_method"],
            "properties": {
                "booking_id": {"type": "string", "format": "uuid"},
                "payment_method": {"type": "string", "enum": ["card", "wallet", "upi"]}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Ticketbooker API",
	Description:      "Seat locking, booking lifecycle and payments.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
