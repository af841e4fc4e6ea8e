// Package apidocs serves the OpenAPI document and a Swagger UI page.
package apidocs

import (
	_ "embed"
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"gopkg.in/yaml.v3"
)

//go:embed openapi.yaml
var openAPIYAML []byte

const swaggerHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>Mietrecht API</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({ url: "%s", dom_id: "#swagger-ui" });
  </script>
</body>
</html>`

var (
	jsonOnce sync.Once
	jsonDoc  map[string]any
	jsonErr  error
)

// Parsed decodes the embedded document.
func Parsed() (map[string]any, error) {
	jsonOnce.Do(func() {
		jsonErr = yaml.Unmarshal(openAPIYAML, &jsonDoc)
	})
	return jsonDoc, jsonErr
}

// Register mounts /api-docs, /api-docs/openapi.yaml and /api-docs/openapi.json.
func Register(rg *gin.RouterGroup) {
	base := rg.BasePath() + "/api-docs"
	rg.GET("/api-docs", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(fmt.Sprintf(swaggerHTML, base+"/openapi.json")))
	})
	rg.GET("/api-docs/openapi.yaml", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/yaml", openAPIYAML)
	})
	rg.GET("/api-docs/openapi.json", func(c *gin.Context) {
		doc, err := Parsed()
		if err != nil {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, doc)
	})
}
