package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"feuerwehr-web/pkg/cache"
	"feuerwehr-web/pkg/config"
	"feuerwehr-web/pkg/i18n"
	"feuerwehr-web/pkg/models"
	"feuerwehr-web/pkg/response"
	"feuerwehr-web/pkg/services"
	"feuerwehr-web/pkg/store"
	"feuerwehr-web/pkg/store/storetest"
	"feuerwehr-web/pkg/web"
)

type testEnv struct {
	h      *Handler
	st     *store.Store
	router *gin.Engine
}

func newEnv(t *testing.T, opts ...func(*Deps)) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := storetest.NewStore(t)
	schema, err := models.LoadSchema()
	require.NoError(t, err)
	mem := cache.NewMemory(time.Minute)
	t.Cleanup(mem.Close)

	d := Deps{
		Store:        st,
		Cache:        mem,
		Schema:       schema,
		Site:         services.NewSiteData(st, mem, time.Minute),
		Search:       services.NewSearchService(st.Posts),
		Contact:      services.NewContactService(st.Contacts),
		Registration: services.NewRegistrationService(st.Users, bcrypt.MinCost),
		Auth:         services.NewAuthService(st.Users, nil, bcrypt.MinCost),
		Media:        services.NewMediaService(st.Media, t.TempDir(), "/media", 1<<20),
		Import:       services.NewImportService(st, schema),
	}
	for _, opt := range opts {
		opt(&d)
	}
	h := New(d)

	r := gin.New()
	r.Use(sessions.Sessions("fw_test", cookie.NewStore([]byte("0123456789abcdef0123456789abcdef"))))
	tmpl, err := web.Templates()
	require.NoError(t, err)
	r.SetHTMLTemplate(tmpl)
	h.Routes(r)
	return &testEnv{h: h, st: st, router: r}
}

func (e *testEnv) serve(req *http.Request, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	return e.serve(httptest.NewRequest(http.MethodGet, path, nil), cookies...)
}

func (e *testEnv) sendJSON(method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if s, ok := body.(string); ok {
		buf.WriteString(s)
	} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
		panic(err)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return e.serve(req, cookies...)
}

func (e *testEnv) putGlobal(t *testing.T, slug string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, e.st.Globals.Put(context.Background(), slug, data))
}

func (e *testEnv) createUser(t *testing.T, email, password, role string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, e.st.Users.Create(context.Background(), &models.User{
		Email: email, PasswordHash: string(hash), Name: "Test", Role: role,
	}))
}

func (e *testEnv) login(t *testing.T, email, password string) (*httptest.ResponseRecorder, []*http.Cookie) {
	t.Helper()
	form := url.Values{"email": {email}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/admin/login?lang=en", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := e.serve(req)
	return w, w.Result().Cookies()
}

func (e *testEnv) adminSession(t *testing.T) []*http.Cookie {
	t.Helper()
	e.createUser(t, "admin@ff-musterstadt.de", "geheim123", models.RoleAdmin)
	w, cookies := e.login(t, "admin@ff-musterstadt.de", "geheim123")
	require.Equal(t, http.StatusFound, w.Code)
	require.NotEmpty(t, cookies)
	return cookies
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func publishPost(t *testing.T, st *store.Store, slug, titleDE, titleEN string) {
	t.Helper()
	at := time.Date(2024, 5, 4, 10, 0, 0, 0, time.UTC)
	require.NoError(t, st.DB.Create(&models.Post{
		Title:       i18n.Text{i18n.DE: titleDE, i18n.EN: titleEN},
		Slug:        slug,
		Markdown:    i18n.Text{i18n.DE: "Bericht über " + titleDE},
		Status:      models.StatusPublished,
		PublishedAt: &at,
	}).Error)
}

// failingSite breaks the global reads while posts keep working.
type failingSite struct {
	services.SiteData
}

var errBroken = errors.New("database gone")

func (failingSite) SiteSettings(context.Context, i18n.Locale) (*services.SiteSettingsView, error) {
	return nil, errBroken
}

func (failingSite) ContactInfo(context.Context, i18n.Locale) (*services.ContactInfoView, error) {
	return nil, errBroken
}

func (failingSite) Posts(context.Context, i18n.Locale, services.PostQuery) (*services.PostPage, error) {
	return nil, errBroken
}

type failingSearch struct{}

func (failingSearch) Search(context.Context, string, i18n.Locale) ([]services.SearchResult, error) {
	return nil, errBroken
}

func TestHealthz(t *testing.T) {
	e := newEnv(t)
	w := e.get("/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])
}

func TestPublicReadEndpoints(t *testing.T) {
	e := newEnv(t)
	e.putGlobal(t, models.GlobalSiteSettings, models.SiteSettings{
		SiteName: i18n.Text{i18n.DE: "Freiwillige Feuerwehr Musterstadt", i18n.EN: "Musterstadt Fire Brigade"},
	})

	w := e.get("/api/site-settings?lang=en")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get(response.DegradedHeader))
	assert.Equal(t, "Musterstadt Fire Brigade", decode(t, w)["siteName"])

	w = e.get("/api/site-settings?lang=fr")
	assert.Equal(t, "Freiwillige Feuerwehr Musterstadt", decode(t, w)["siteName"])

	// Disabled or missing globals answer null without the degraded flag.
	w = e.get("/api/cookie-banner")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "null", w.Body.String())
	assert.Empty(t, w.Header().Get(response.DegradedHeader))

	w = e.get("/api/public-categories")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}

func TestDegradedReadEndpoints(t *testing.T) {
	e := newEnv(t, func(d *Deps) {
		d.Site = failingSite{SiteData: d.Site}
		d.Search = failingSearch{}
	})

	for _, path := range []string{"/api/site-settings", "/api/contact-info?lang=en"} {
		w := e.get(path)
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.Equal(t, "1", w.Header().Get(response.DegradedHeader), path)
		assert.Equal(t, "null", w.Body.String(), path)
	}

	w := e.get("/api/search?q=brand")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get(response.DegradedHeader))
	assert.JSONEq(t, `{"results":[]}`, w.Body.String())

	// The layout tolerates the broken globals; the news list does not.
	w = e.get("/?lang=en")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Volunteer Fire Brigade")

	w = e.get("/news?lang=en")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Something went wrong")
}

func TestSearch(t *testing.T) {
	e := newEnv(t)
	publishPost(t, e.st, "brandeinsatz", "Brandeinsatz in der Altstadt", "Fire in the old town")

	w := e.get("/api/search?q=altstadt&lang=de")
	require.Equal(t, http.StatusOK, w.Code)
	var body searchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Results, 1)
	assert.Equal(t, "brandeinsatz", body.Results[0].Slug)

	w = e.get("/api/search?q=a")
	assert.JSONEq(t, `{"results":[]}`, w.Body.String())
}

func TestContactForm(t *testing.T) {
	e := newEnv(t)

	w := e.sendJSON(http.MethodPost, "/api/contact?lang=en", map[string]string{
		"name":    "Erika Muster",
		"email":   "erika@example.de",
		"subject": "Tag der offenen Tür",
		"message": "Wann findet er statt?",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["id"])

	n, err := e.st.Contacts.CountByStatus(context.Background(), models.SubmissionNew)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	w = e.sendJSON(http.MethodPost, "/api/contact?lang=en", map[string]string{
		"name": "Erika", "email": "kein-email", "message": "Hallo",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid email address", decode(t, w)["error"])

	w = e.sendJSON(http.MethodPost, "/api/contact", "{not json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Ungültige Anfrage", decode(t, w)["error"])

	form := url.Values{"name": {"Max"}, "email": {"max@example.de"}, "message": {"Per Formular"}}
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w = e.serve(req)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestRegister(t *testing.T) {
	e := newEnv(t)
	in := map[string]string{"email": "neu@example.de", "password": "sicher1234", "name": "Neu"}

	w := e.sendJSON(http.MethodPost, "/api/register?lang=en", in)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	u, err := e.st.Users.FindByEmail(context.Background(), "neu@example.de")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, u.Role)

	in["email"] = "NEU@example.de"
	w = e.sendJSON(http.MethodPost, "/api/register?lang=en", in)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "This email address is already registered", decode(t, w)["error"])

	w = e.sendJSON(http.MethodPost, "/api/register?lang=en", map[string]string{"email": "x@example.de", "password": "kurz"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Password must be at least 8 characters long", decode(t, w)["error"])
}

func TestRateLimit(t *testing.T) {
	e := newEnv(t, func(d *Deps) {
		d.Limiter = NewIPLimiter(config.RateLimitConfig{PerMinute: 1, Burst: 2})
	})
	post := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/contact?lang=en", strings.NewReader("{}"))
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = ip + ":40000"
		return e.serve(req)
	}

	assert.Equal(t, http.StatusBadRequest, post("192.0.2.1").Code)
	assert.Equal(t, http.StatusBadRequest, post("192.0.2.1").Code)
	w := post("192.0.2.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "Too many requests, please wait a moment.", decode(t, w)["error"])

	assert.Equal(t, http.StatusBadRequest, post("192.0.2.2").Code)

	// Reads are not limited.
	assert.Equal(t, http.StatusOK, e.get("/api/site-settings").Code)
}

func TestIPLimiterSweep(t *testing.T) {
	l := NewIPLimiter(config.RateLimitConfig{PerMinute: 60, Burst: 1})
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))
	now = now.Add(11 * time.Minute)
	assert.True(t, l.Allow("b"))
	assert.Equal(t, 2, l.size())

	l.sweep()
	assert.Equal(t, 1, l.size())
	assert.True(t, l.Allow("a"), "swept visitor starts with a full bucket")
}

func TestIPLimiterDisabled(t *testing.T) {
	l := NewIPLimiter(config.RateLimitConfig{})
	for i := 0; i < 100; i++ {
		require.True(t, l.Allow("a"))
	}
}

func TestPublicPages(t *testing.T) {
	e := newEnv(t)
	publishPost(t, e.st, "jahreshauptversammlung", "Jahreshauptversammlung", "Annual meeting")
	require.NoError(t, e.st.DB.Create(&models.Page{
		Title:    i18n.Text{i18n.DE: "Impressum", i18n.EN: "Imprint"},
		Slug:     "impressum",
		Markdown: i18n.Text{i18n.DE: "Angaben gemäß § 5 TMG"},
		Status:   models.StatusPublished,
	}).Error)

	tests := []struct {
		path   string
		status int
		want   string
	}{
		{"/", http.StatusOK, "Jahreshauptversammlung"},
		{"/?lang=en", http.StatusOK, "Annual meeting"},
		{"/news?lang=en", http.StatusOK, "Annual meeting"},
		{"/news/jahreshauptversammlung", http.StatusOK, "Bericht über Jahreshauptversammlung"},
		{"/news/gibt-es-nicht?lang=en", http.StatusNotFound, "Page not found"},
		{"/news?category=unbekannt&lang=en", http.StatusNotFound, "Page not found"},
		{"/impressum", http.StatusOK, "Angaben gemäß § 5 TMG"},
		{"/datenschutz?lang=en", http.StatusNotFound, "Page not found"},
		{"/gallery?lang=en", http.StatusOK, "No albums yet."},
		{"/team?lang=en", http.StatusOK, "No members listed yet."},
		{"/sponsors?lang=en", http.StatusOK, "No sponsors listed yet."},
		{"/contact?lang=en", http.StatusOK, "Send message"},
		{"/irgendwo?lang=en", http.StatusNotFound, "Page not found"},
		{"/news?page=2&lang=en", http.StatusNotFound, "Page not found"},
		{"/news?page=9223372036854775807&lang=en", http.StatusNotFound, "Page not found"},
	}
	for _, tt := range tests {
		w := e.get(tt.path)
		assert.Equal(t, tt.status, w.Code, tt.path)
		assert.Contains(t, w.Body.String(), tt.want, tt.path)
	}

	w := e.get("/news/jahreshauptversammlung?lang=en")
	assert.Contains(t, w.Body.String(), `hreflang="de"`)
	assert.Contains(t, w.Body.String(), `lang="en"`)
}

func TestLanguageLinksStayOnSite(t *testing.T) {
	e := newEnv(t)
	w := e.get("//evil.example/x?lang=de")
	assert.Equal(t, http.StatusNotFound, w.Code)
	body := w.Body.String()
	assert.NotContains(t, body, "evil.example")
	assert.Contains(t, body, `href="/x?lang=en"`)
}

func TestHomeShowsAlertAndSlides(t *testing.T) {
	e := newEnv(t)
	e.putGlobal(t, models.GlobalAlertTopBar, models.AlertTopBar{
		Enabled: true,
		Message: i18n.Text{i18n.DE: "Unwetterwarnung", i18n.EN: "Severe weather warning"},
		Level:   "warning",
	})
	e.putGlobal(t, models.GlobalSiteSettings, models.SiteSettings{
		HeroSlides: []models.HeroSlide{
			{ImageURL: "/media/a.jpg", Title: i18n.Text{i18n.DE: "Eins"}},
			{ImageURL: "/media/b.jpg", Title: i18n.Text{i18n.DE: "Zwei"}},
		},
	})

	w := e.get("/?lang=en&slide=3")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Severe weather warning")
	assert.Contains(t, body, `alert-warning`)
	assert.Contains(t, body, `data-start="1"`)
	assert.Contains(t, body, `data-interval="6000"`)
}

func TestAdminRequiresLogin(t *testing.T) {
	e := newEnv(t)

	w := e.get("/admin")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin/login", w.Header().Get("Location"))

	w = e.get("/admin/api/config")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = e.get("/admin/login?lang=en&error=forbidden")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "This account has no access")
	assert.NotContains(t, w.Body.String(), "/admin/login/github")
}

func TestPasswordLogin(t *testing.T) {
	e := newEnv(t)
	e.createUser(t, "editor@ff-musterstadt.de", "geheim123", models.RoleEditor)
	e.createUser(t, "mitglied@ff-musterstadt.de", "geheim123", models.RoleUser)

	w, _ := e.login(t, "editor@ff-musterstadt.de", "falsch")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Wrong email or password.")
	assert.Contains(t, w.Body.String(), `value="editor@ff-musterstadt.de"`)

	w, _ = e.login(t, "mitglied@ff-musterstadt.de", "geheim123")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, cookies := e.login(t, "Editor@FF-Musterstadt.de", "geheim123")
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin", w.Header().Get("Location"))

	w = e.get("/admin?lang=en", cookies...)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Signed in as editor@ff-musterstadt.de")

	w = e.get("/admin/logout", cookies...)
	assert.Equal(t, http.StatusFound, w.Code)
	w = e.get("/admin/api/config", w.Result().Cookies()...)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGithubLoginWithoutOAuth(t *testing.T) {
	e := newEnv(t)
	w := e.get("/admin/login/github")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin/login", w.Header().Get("Location"))
}

func TestAdminCollections(t *testing.T) {
	e := newEnv(t)
	cookies := e.adminSession(t)

	w := e.get("/admin/api/config", cookies...)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"posts"`)

	w = e.sendJSON(http.MethodPost, "/admin/api/collections/categories", map[string]any{
		"label": map[string]string{"de": "Technik", "en": "Equipment"},
	}, cookies...)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode(t, w)
	id, _ := created["id"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, "technik", created["slug"])
	assert.Equal(t, true, created["public"])

	w = e.get("/api/public-categories?lang=en")
	assert.Contains(t, w.Body.String(), "Equipment")

	w = e.get("/admin/api/collections/categories", cookies...)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode(t, w)["total"])

	w = e.sendJSON(http.MethodPut, "/admin/api/collections/categories/"+id, map[string]any{
		"label": map[string]string{"de": "Fahrzeuge"},
		"slug":  "fahrzeuge",
	}, cookies...)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "fahrzeuge", decode(t, w)["slug"])

	w = e.sendJSON(http.MethodPost, "/admin/api/collections/categories", map[string]any{"slug": "leer"}, cookies...)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.sendJSON(http.MethodPost, "/admin/api/collections/posts", map[string]any{
		"title":  map[string]string{"de": "Übung"},
		"status": "archiviert",
	}, cookies...)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.serve(httptest.NewRequest(http.MethodDelete, "/admin/api/collections/categories/"+id, nil), cookies...)
	assert.Equal(t, http.StatusOK, w.Code)
	w = e.get("/admin/api/collections/categories/"+id, cookies...)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = e.sendJSON(http.MethodPost, "/admin/api/collections/contact", map[string]any{"name": "x"}, cookies...)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	w = e.get("/admin/api/collections/contact", cookies...)
	assert.Equal(t, http.StatusOK, w.Code)

	w = e.get("/admin/api/collections/einsaetze", cookies...)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminGlobals(t *testing.T) {
	e := newEnv(t)
	cookies := e.adminSession(t)

	w := e.get("/admin/api/globals/alert-top-bar", cookies...)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["enabled"])

	// Warm the cache so the write has something to invalidate.
	assert.Equal(t, "null", e.get("/api/alert-top-bar").Body.String())

	w = e.sendJSON(http.MethodPut, "/admin/api/globals/alert-top-bar", map[string]any{
		"enabled": true,
		"message": map[string]string{"de": "Sirenenprobe am Samstag"},
	}, cookies...)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "info", decode(t, w)["level"])

	w = e.get("/api/alert-top-bar?lang=en")
	assert.Equal(t, "Sirenenprobe am Samstag", decode(t, w)["message"])

	w = e.sendJSON(http.MethodPut, "/admin/api/globals/alert-top-bar", map[string]any{"enabled": "ja"}, cookies...)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.get("/admin/api/globals/wetter", cookies...)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestContactStatus(t *testing.T) {
	e := newEnv(t)
	cookies := e.adminSession(t)
	sub := &models.ContactSubmission{Name: "A", Email: "a@example.de", Message: "Hallo", Status: models.SubmissionNew}
	require.NoError(t, e.st.Contacts.Create(context.Background(), sub))

	w := e.get("/admin?lang=en", cookies...)
	assert.Contains(t, w.Body.String(), "1 new messages")

	w = e.sendJSON(http.MethodPatch, "/admin/api/contact/"+sub.ID, map[string]string{"status": "done"}, cookies...)
	assert.Equal(t, http.StatusOK, w.Code)
	n, err := e.st.Contacts.CountByStatus(context.Background(), models.SubmissionDone)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	w = e.sendJSON(http.MethodPatch, "/admin/api/contact/"+sub.ID, map[string]string{"status": "archiviert"}, cookies...)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.sendJSON(http.MethodPatch, "/admin/api/contact/unbekannt", map[string]string{"status": "read"}, cookies...)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 3))))
	return buf.Bytes()
}

func TestAdminMedia(t *testing.T) {
	e := newEnv(t)
	cookies := e.adminSession(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "Drehleiter.png")
	require.NoError(t, err)
	_, err = part.Write(pngBytes(t))
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("alt_en", "Turntable ladder"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/admin/api/media", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := e.serve(req, cookies...)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	m := decode(t, w)
	id := m["id"].(string)
	assert.True(t, strings.HasPrefix(m["url"].(string), "/media/Drehleiter_"))
	assert.EqualValues(t, 4, m["width"])

	w = e.get("/admin/api/media", cookies...)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Turntable ladder")

	w = e.serve(httptest.NewRequest(http.MethodDelete, "/admin/api/collections/media/"+id, nil), cookies...)
	assert.Equal(t, http.StatusOK, w.Code)
	w = e.serve(httptest.NewRequest(http.MethodDelete, "/admin/api/media/"+id, nil), cookies...)
	assert.Equal(t, http.StatusNotFound, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/admin/api/media", strings.NewReader(""))
	w = e.serve(req, cookies...)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestImportUpload(t *testing.T) {
	e := newEnv(t)
	cookies := e.adminSession(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("kind", "posts"))
	require.NoError(t, mw.WriteField("locale", "de"))
	part, err := mw.CreateFormFile("file", "uebung.md")
	require.NoError(t, err)
	_, err = part.Write([]byte("---\ntitle: Herbstübung\nstatus: published\ndate: 2024-10-05\n---\nGroße Übung am Feuerwehrhaus.\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/admin/api/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := e.serve(req, cookies...)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "uebung")

	w = e.get("/news/uebung")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Große Übung am Feuerwehrhaus.")

	w = e.sendJSON(http.MethodPost, "/admin/api/import", map[string]string{"kind": "posts", "dir": "../etc"}, cookies...)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = e.sendJSON(http.MethodPost, "/admin/api/import", map[string]string{"kind": "videos"}, cookies...)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
