package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>docs-cms — Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

// Minimal OpenAPI document covering the main editor and reading endpoints.
// Every response body is the standard envelope {success, data, error,
// environment, timestamp, requestId}.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "docs-cms", "version": "v0.1.0" },
  "paths": {
    "/api/documents": {
      "get": { "summary": "List documents visible to the session", "responses": { "200": { "description": "document metadata list" } } },
      "post": {
        "summary": "Create a draft document",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"title":{"type":"string"},"description":{"type":"string"},"slug":{"type":"string"},"category":{"type":"string"},"apiStatus":{"type":"string"},"version":{"type":"string"},"order":{"type":"integer"}}}}}},
        "responses": { "201": { "description": "created document" }, "409": { "description": "slug conflict in category" } }
      }
    },
    "/api/documents/{id}/blocks": {
      "put": { "summary": "Replace document content blocks", "responses": { "200": { "description": "updated document" }, "422": { "description": "generated MDX does not compile (published documents only)" } } }
    },
    "/api/documents/{id}/submit": {
      "post": { "summary": "Submit a draft for review", "responses": { "200": { "description": "document in review" }, "422": { "description": "validation failed; data carries the report" } } }
    },
    "/api/documents/{id}/publish": {
      "post": { "summary": "Validate, generate MDX, and publish", "responses": { "200": { "description": "publish result with MDX and artifact path" } } }
    },
    "/api/documents/{id}/validate": {
      "get": { "summary": "Run validation rules", "responses": { "200": { "description": "validation report" } } }
    },
    "/api/documents/{id}/preview": {
      "get": { "summary": "Generate MDX without persisting", "responses": { "200": { "description": "mdxContent" } } }
    },
    "/api/published": {
      "get": { "summary": "List published documents", "responses": { "200": { "description": "metadata list" } } }
    },
    "/api/published/{id}": {
      "get": { "summary": "Get a published document with its MDX", "responses": { "200": { "description": "published document" }, "404": { "description": "not published" } } }
    },
    "/api/landing": {
      "get": { "summary": "Resolve the default landing document", "responses": { "200": { "description": "metadata" } } }
    },
    "/api/categories": {
      "get": { "summary": "List categories in order", "responses": { "200": { "description": "category list" } } },
      "post": { "summary": "Create a category", "responses": { "201": { "description": "created category" } } }
    },
    "/api/search": {
      "get": { "summary": "Search published documents", "parameters": [ { "name": "q", "in": "query", "schema": { "type": "string" } } ], "responses": { "200": { "description": "scored hits" } } }
    },
    "/api/auth/login": {
      "post": { "summary": "Exchange an identity-provider token for app tokens", "responses": { "200": { "description": "access and refresh tokens" } } }
    },
    "/api/auth/refresh": {
      "post": { "summary": "Refresh the access token", "responses": { "200": { "description": "new access token" }, "401": { "description": "invalid refresh" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
