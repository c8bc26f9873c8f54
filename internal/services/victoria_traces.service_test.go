package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platformbuilds/mirador-alerts/internal/config"
	"github.com/platformbuilds/mirador-alerts/pkg/logger"
)

func TestVictoriaTracesGetOperations(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/select/jaeger/api/services/checkout/operations", r.URL.Path)
		assert.Equal(t, "tenant-a", r.Header.Get("AccountID"))
		_, _ = w.Write([]byte(`{"data":["GET /cart","db.query"],"total":2}`))
	}))
	defer srv.Close()

	vt := NewVictoriaTracesService(config.VictoriaTracesConfig{
		Endpoints: []string{srv.URL}, Timeout: 2000, TenantID: "tenant-a", Retries: 1,
	}, logger.NewNop())

	ops, err := vt.GetOperations(context.Background(), "checkout")
	require.NoError(t, err)
	assert.Equal(t, []string{"GET /cart", "db.query"}, ops)
}

func TestVictoriaTracesGetOperations_NullData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":null}`))
	}))
	defer srv.Close()

	vt := NewVictoriaTracesService(config.VictoriaTracesConfig{Endpoints: []string{srv.URL}, Retries: 1}, logger.NewNop())
	ops, err := vt.GetOperations(context.Background(), "svc")
	require.NoError(t, err)
	assert.NotNil(t, ops)
	assert.Empty(t, ops)
}

func TestVictoriaTracesGetOperations_Error(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	vt := NewVictoriaTracesService(config.VictoriaTracesConfig{Endpoints: []string{srv.URL}, Retries: 1}, logger.NewNop())
	_, err := vt.GetOperations(context.Background(), "svc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}
