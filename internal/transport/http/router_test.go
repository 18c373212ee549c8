package httptransport

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	platformtesting "imgcaption/internal/platform/testing"
)

func TestBuildServesStaticAssetsAndAPI(t *testing.T) {
	cfg := platformtesting.SetupTestConfig(t)
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Web.StaticDir, "prompt.txt"), []byte("Lang: {{lang}}"), 0o644))

	router, err := Build(Options{Config: cfg, Logger: platformtesting.SetupTestLogger(t)})
	require.NoError(t, err)
	router.API.GET("/ping", func(c *gin.Context) { RespondSuccess(c, http.StatusOK, gin.H{"pong": true}, "") })
	router.Engine.NoRoute(NotFound(""))

	rec := httptest.NewRecorder()
	router.Engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/prompt.txt", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Lang: {{lang}}", rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	req.Header.Set("Origin", "https://imgcaption.com")
	rec = httptest.NewRecorder()
	router.Engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://imgcaption.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.JSONEq(t, `{"success":true,"data":{"pong":true},"message":"ok","code":200}`, rec.Body.String())

	rec = httptest.NewRecorder()
	router.Engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "api Not found")
}

func TestBuildRequiresConfig(t *testing.T) {
	_, err := Build(Options{})
	assert.Error(t, err)
}
