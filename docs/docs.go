// Package docs holds the Swagger specification served at /swagger.
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
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/auth/register": {
            "post": {
                "tags": ["auth"],
                "summary": "Register new user",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Log in",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/users/{username}/follow": {
            "post": {
                "tags": ["users"],
                "summary": "Follow or unfollow a user",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}, "201": {"description": "Followed"}}
            }
        },
        "/posts": {
            "post": {
                "tags": ["posts"],
                "summary": "Create a post",
                "security": [{"BearerAuth": []}],
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/posts/{postID}/like": {
            "post": {
                "tags": ["posts"],
                "summary": "Like or unlike a post",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/posts/{postID}/access": {
            "get": {
                "tags": ["payments"],
                "summary": "Check access to a post",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/wallet": {
            "get": {
                "tags": ["wallet"],
                "summary": "Get wallet balance",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/wallet/transactions": {
            "get": {
                "tags": ["wallet"],
                "summary": "List wallet transactions, most recent first",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/payments/topup-intent": {
            "post": {
                "tags": ["payments"],
                "summary": "Create a wallet top-up payment intent",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/payments/purchase-intent": {
            "post": {
                "tags": ["payments"],
                "summary": "Create a content purchase payment intent",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/payments/confirm": {
            "post": {
                "tags": ["payments"],
                "summary": "Confirm an external payment",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}, "409": {"description": "Already applied"}}
            }
        },
        "/payments/wallet-purchase": {
            "post": {
                "tags": ["payments"],
                "summary": "Unlock a post using wallet balance",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}, "402": {"description": "Insufficient balance"}}
            }
        },
        "/health": {
            "get": {
                "tags": ["system"],
                "summary": "Health check",
                "responses": {"200": {"description": "OK"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "ReubenSocials API",
	Description:      "Social media backend with exclusive content monetization.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
