package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger serves the API description:
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(r gin.IRouter) {
	r.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})
	r.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>gogotex-doc-revisions - Swagger</title>
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

const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "gogotex-doc-revisions", "version": "v0.1.0" },
  "components": {
    "schemas": {
      "Section": {"type":"object","required":["key","type"],"properties":{"key":{"type":"string"},"type":{"type":"string"},"content":{"type":"object","nullable":true}}},
      "DocumentInput": {"type":"object","properties":{"title":{"type":"string"},"slug":{"type":"string"},"description":{"type":"string"},"language":{"type":"string"},"sections":{"type":"array","items":{"$ref":"#/components/schemas/Section"}}}}
    }
  },
  "paths": {
    "/api/documents": {
      "get": { "summary": "List document keys", "responses": { "200": { "description": "OK" } } },
      "post": {
        "summary": "Create a document",
        "requestBody": { "content": { "application/json": { "schema": {"$ref":"#/components/schemas/DocumentInput"} } } },
        "responses": { "201": { "description": "Created" }, "400": { "description": "Invalid section" } }
      }
    },
    "/api/documents/{key}": {
      "get": { "summary": "Current revision", "responses": { "200": { "description": "OK" }, "404": { "description": "Not found" } } },
      "patch": {
        "summary": "Append a revision",
        "requestBody": { "content": { "application/json": { "schema": {"$ref":"#/components/schemas/DocumentInput"} } } },
        "responses": { "200": { "description": "OK" }, "400": { "description": "Invalid section" }, "404": { "description": "Not found" }, "409": { "description": "Concurrent append" } }
      }
    },
    "/api/documents/{key}/revisions": {
      "get": { "summary": "Revision chain, oldest first", "responses": { "200": { "description": "OK" } } }
    },
    "/api/documents/{key}/restore": {
      "post": {
        "summary": "Restore a historic revision as the new current one",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","required":["revisionId"],"properties":{"revisionId":{"type":"string"}}} } } },
        "responses": { "200": { "description": "Updated chain" }, "404": { "description": "Not found" }, "429": { "description": "Rate limited" } }
      }
    },
    "/api/documents/{key}/sections/{sectionKey}/revisions/{revision}": {
      "delete": {
        "summary": "Hard-delete a section revision",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","required":["reason"],"properties":{"reason":{"type":"string"},"deleteAllRevisions":{"type":"boolean"}}} } } },
        "responses": { "204": { "description": "Deleted" }, "404": { "description": "Not found" }, "429": { "description": "Rate limited" } }
      }
    },
    "/api/documents/{key}/resources": {
      "get": { "summary": "CDN resources of the current revision", "responses": { "200": { "description": "OK" } } }
    },
    "/api/clipboard/encode": {
      "post": { "summary": "Encode a section for the clipboard", "responses": { "200": { "description": "OK" } } }
    },
    "/api/clipboard/decode": {
      "post": { "summary": "Decode clipboard data for a target scope", "responses": { "200": { "description": "OK" }, "422": { "description": "Not recognized" } } }
    }
  }
}`
