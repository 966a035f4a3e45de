package response

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() { gin.SetMode(gin.TestMode) }

func run(h gin.HandlerFunc) *httptest.ResponseRecorder {
	r := gin.New()
	r.GET("/x", h)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	return w
}

func TestCreated(t *testing.T) {
	w := run(func(c *gin.Context) { Created(c, "abc") })
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"success": true, "id": "abc"}`, w.Body.String())
}

func TestErrorBodies(t *testing.T) {
	w := run(func(c *gin.Context) { Conflict(c, "vergeben") })
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"error": "vergeben"}`, w.Body.String())

	w = run(func(c *gin.Context) { InternalError(c, errors.New("db down"), "Interner Fehler") })
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error": "Interner Fehler"}`, w.Body.String())
	assert.NotContains(t, w.Body.String(), "db down")
}

func TestDegraded(t *testing.T) {
	w := run(func(c *gin.Context) { Degraded(c, errors.New("timeout"), nil) })
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get(DegradedHeader))
	assert.Equal(t, "null", w.Body.String())

	w = run(func(c *gin.Context) { Success(c, gin.H{"ok": true}) })
	assert.Empty(t, w.Header().Get(DegradedHeader))
}
