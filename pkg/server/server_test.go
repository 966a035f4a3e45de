package server

import (
	"compress/gzip"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/crypto/bcrypt"

	"feuerwehr-web/pkg/cache"
	"feuerwehr-web/pkg/config"
	"feuerwehr-web/pkg/handlers"
	"feuerwehr-web/pkg/models"
	"feuerwehr-web/pkg/services"
	"feuerwehr-web/pkg/store/storetest"
)

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		Server:  config.ServerConfig{Mode: gin.TestMode, Addr: "127.0.0.1:0", ShutdownTimeout: time.Second},
		Session: config.SessionConfig{Name: "ffw_test"},
		Media:   config.MediaConfig{Dir: t.TempDir(), PublicURL: "/media/"},
	}
}

func testEngine(t *testing.T, cfg *config.Config) *gin.Engine {
	t.Helper()
	st := storetest.NewStore(t)
	schema, err := models.LoadSchema()
	require.NoError(t, err)
	mem := cache.NewMemory(time.Minute)
	t.Cleanup(mem.Close)

	h := handlers.New(handlers.Deps{
		Store:        st,
		Cache:        mem,
		Schema:       schema,
		Site:         services.NewSiteData(st, mem, time.Minute),
		Search:       services.NewSearchService(st.Posts),
		Contact:      services.NewContactService(st.Contacts),
		Registration: services.NewRegistrationService(st.Users, bcrypt.MinCost),
		Auth:         services.NewAuthService(st.Users, nil, bcrypt.MinCost),
		Media:        services.NewMediaService(st.Media, cfg.Media.Dir, cfg.Media.PublicURL, 1<<20),
		Import:       services.NewImportService(st, schema),
	})
	r, err := NewEngine(cfg, h)
	require.NoError(t, err)
	return r
}

func TestEngineServesAssetsAndMedia(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Media.Dir, "plan.txt"), []byte("Alarmplan"), 0o644))
	r := testEngine(t, cfg)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/static/js/site.js", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "initSlider")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/media/plan.txt", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Alarmplan", w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestEngineCompressesPages(t *testing.T) {
	r := testEngine(t, testConfig(t))

	req := httptest.NewRequest(http.MethodGet, "/?lang=en", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "gzip", w.Header().Get("Content-Encoding"))

	zr, err := gzip.NewReader(w.Body)
	require.NoError(t, err)
	page, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Contains(t, string(page), "Volunteer Fire Brigade")
}

func TestMediaPrefix(t *testing.T) {
	tests := map[string]string{
		"/media/":                  "/media",
		"/uploads":                 "/uploads",
		"https://cdn.example.org/": "",
		"//cdn.example.org/":       "",
		"/":                        "",
		"/static/":                 "",
	}
	for in, want := range tests {
		assert.Equal(t, want, mediaPrefix(in), in)
	}
}

func TestSessionSecret(t *testing.T) {
	key, err := sessionSecret("configured")
	require.NoError(t, err)
	assert.Equal(t, []byte("configured"), key)

	a, err := sessionSecret("")
	require.NoError(t, err)
	b, err := sessionSecret("")
	require.NoError(t, err)
	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}

func TestRequestLoggerLevels(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(core)

	r := gin.New()
	r.Use(RequestLogger(log), Recovery(log))
	r.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/boom", func(c *gin.Context) { panic("kaputt") })

	for _, path := range []string{"/ok", "/missing", "/boom"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	requests := logs.FilterMessage("request").All()
	require.Len(t, requests, 3)
	assert.Equal(t, zapcore.InfoLevel, requests[0].Level)
	assert.Equal(t, "/ok", requests[0].ContextMap()["route"])
	assert.Equal(t, zapcore.WarnLevel, requests[1].Level)
	assert.Equal(t, zapcore.ErrorLevel, requests[2].Level)
	assert.EqualValues(t, 500, requests[2].ContextMap()["status"])

	panics := logs.FilterMessage("panic recovered").All()
	require.Len(t, panics, 1)
	assert.Equal(t, "kaputt", panics[0].ContextMap()["error"])
}

func TestServerShutsDownOnCancel(t *testing.T) {
	cfg := testConfig(t)
	srv := New(cfg, http.NotFoundHandler())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
}
