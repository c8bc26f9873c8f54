package handlers

import (
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"
	"gopkg.in/yaml.v3"
)

//go:embed openapi.yaml
var openAPIYAML []byte

// GET /api/openapi.yaml
func GetOpenAPIYAML(c *gin.Context) {
	c.Data(http.StatusOK, "application/yaml; charset=utf-8", openAPIYAML)
}

// GET /api/openapi.json
func GetOpenAPISpec(c *gin.Context) {
	var obj map[string]any
	if err := yaml.Unmarshal(openAPIYAML, &obj); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": "failed to parse openapi.yaml"})
		return
	}
	c.JSON(http.StatusOK, obj)
}
