package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOpenAPISpec(t *testing.T) {
	r := gin.New()
	r.GET("/api/openapi.json", GetOpenAPISpec)
	r.GET("/api/openapi.yaml", GetOpenAPIYAML)

	w := get(r, "/api/openapi.json")
	require.Equal(t, http.StatusOK, w.Code)

	var doc struct {
		OpenAPI string                 `json:"openapi"`
		Paths   map[string]interface{} `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "3.0.3", doc.OpenAPI)
	assert.Contains(t, doc.Paths, "/alerts/{serviceName}")
	assert.Contains(t, doc.Paths, "/alert/{serviceName}/{operationName}/{alertType}/history")

	w = get(r, "/api/openapi.yaml")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "MIRADOR-ALERTS API")
}
