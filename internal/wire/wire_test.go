package wire

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"catalog-console/internal/data/repository"
	"catalog-console/internal/testutil"
	"catalog-console/pkg/backend"
	"catalog-console/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() *utils.Config {
	return &utils.Config{
		App:     utils.AppConfig{Name: "catalog-console"},
		Backend: utils.BackendConfig{Driver: utils.DriverSupabase},
		Session: utils.SessionConfig{Secret: "test-secret", ExpiryHours: 1, CookieName: "console_session"},
		Storage: utils.StorageConfig{Bucket: "media", UploadMaxMB: 1},
	}
}

type testApp struct {
	t      *testing.T
	fake   *testutil.Backend
	router http.Handler
	cookie *http.Cookie
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	fake := testutil.NewBackend()
	app, err := Wiring(fake.Client(), testConfig(), zap.NewNop())
	require.NoError(t, err)
	return &testApp{t: t, fake: fake, router: app.Router}
}

func (a *testApp) do(req *http.Request) *httptest.ResponseRecorder {
	if a.cookie != nil {
		req.AddCookie(a.cookie)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) get(path string) *httptest.ResponseRecorder {
	return a.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (a *testApp) post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return a.do(req)
}

func (a *testApp) login() {
	a.t.Helper()
	a.fake.Users["admin@test.com"] = "secret"
	rec := a.post("/login", url.Values{"email": {"admin@test.com"}, "password": {"secret"}})
	require.Equal(a.t, http.StatusSeeOther, rec.Code)
	for _, c := range rec.Result().Cookies() {
		if c.Name == "console_session" {
			a.cookie = c
		}
	}
	require.NotNil(a.t, a.cookie)
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)
	rec := app.get("/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"backend":"supabase"`)
}

func TestAuthRoutes(t *testing.T) {
	t.Run("Root Shows Signup", func(t *testing.T) {
		app := newTestApp(t)
		rec := app.get("/")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Sign Up")
	})

	t.Run("Login Navigates To Dashboard", func(t *testing.T) {
		app := newTestApp(t)
		app.fake.Users["user@test.com"] = "secret"

		rec := app.post("/login", url.Values{"email": {"user@test.com"}, "password": {"secret"}})
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
	})

	t.Run("Empty Password Makes No Backend Call", func(t *testing.T) {
		app := newTestApp(t)

		rec := app.post("/login", url.Values{"email": {"user@test.com"}})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Please enter email and password")
		assert.Contains(t, rec.Body.String(), `value="user@test.com"`)
		assert.Empty(t, app.fake.Calls)
	})

	t.Run("Backend Error Is Shown", func(t *testing.T) {
		app := newTestApp(t)

		rec := app.post("/login", url.Values{"email": {"user@test.com"}, "password": {"nope"}})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid login credentials")
	})

	t.Run("Signup Goes To Login", func(t *testing.T) {
		app := newTestApp(t)

		rec := app.post("/signup", url.Values{"email": {"new@test.com"}, "password": {"secret"}})
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("Location"))
		assert.Equal(t, "secret", app.fake.Users["new@test.com"])
	})

	t.Run("Logout Revokes And Clears Cookie", func(t *testing.T) {
		app := newTestApp(t)
		app.login()

		rec := app.post("/logout", nil)
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("Location"))
		assert.Equal(t, 1, app.fake.Count("auth.signout"))
		assert.Empty(t, app.fake.Sessions)

		rec = app.get("/dashboard")
		assert.Equal(t, http.StatusSeeOther, rec.Code)
	})

	t.Run("Logout Ignores Backend Failure", func(t *testing.T) {
		app := newTestApp(t)
		app.login()
		app.fake.Fail["auth.signout"] = testutil.BackendError("network down")

		rec := app.post("/logout", nil)
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("Location"))
	})
}

func TestSessionGuard(t *testing.T) {
	for _, path := range []string{"/dashboard", "/upload", "/genres", "/watch-age"} {
		t.Run("Redirects Without Session "+path, func(t *testing.T) {
			app := newTestApp(t)
			rec := app.get(path)
			assert.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, "/login", rec.Header().Get("Location"))
		})
	}

	t.Run("Dashboard With Session", func(t *testing.T) {
		app := newTestApp(t)
		app.login()

		rec := app.get("/dashboard")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Here you can manage content, genres, and watch ages.")
		assert.Contains(t, rec.Body.String(), "admin@test.com")
	})

	t.Run("Backend Error Redirects", func(t *testing.T) {
		app := newTestApp(t)
		app.login()
		app.fake.Fail["auth.session"] = testutil.BackendError("upstream timeout")

		rec := app.get("/dashboard")
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("Location"))
	})
}

func TestGenreRoutes(t *testing.T) {
	app := newTestApp(t)
	app.login()
	app.fake.Seed(repository.TableGenres, map[string]any{"name": "Drama"})

	rec := app.get("/genres")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Drama")

	rec = app.post("/genres", url.Values{"name": {"Comedy"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Comedy")
	assert.Equal(t, 1, app.fake.Count("genres.insert"))

	rec = app.get("/genres/2/edit")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="edit_id" value="2"`)
	assert.Contains(t, rec.Body.String(), "Update Genre")

	rec = app.post("/genres", url.Values{"name": {"Comedies"}, "edit_id": {"2"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Comedies")
	assert.Contains(t, rec.Body.String(), "Add Genre")
	assert.Equal(t, 1, app.fake.Count("genres.update"))

	rec = app.post("/genres", url.Values{"name": {"   "}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, app.fake.Count("genres.insert"))

	rec = app.post("/genres/2/delete", url.Values{"name": {"Comedies"}, "edit_id": {"2"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "Comedies")
	assert.Contains(t, rec.Body.String(), "Add Genre")

	rec = app.post("/genres/1/delete", url.Values{"name": {"Typed"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `id="name" name="name" type="text" value="Typed"`)
	assert.Contains(t, rec.Body.String(), "Add Genre")
	assert.Equal(t, 2, app.fake.Count("genres.delete"))

	app.fake.Fail["genres.insert"] = testutil.BackendError("duplicate key value violates unique constraint")
	rec = app.post("/genres", url.Values{"name": {"Drama"}})
	assert.Contains(t, rec.Body.String(), "duplicate key value violates unique constraint")
}

func TestWatchAgeRoutes(t *testing.T) {
	app := newTestApp(t)
	app.login()

	rec := app.get("/watch-age")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No watch ages yet.")

	rec = app.post("/watch-age", url.Values{"action": {"add"}, "label": {" PG-13 "}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Watch age added")
	assert.Contains(t, rec.Body.String(), "<span>PG-13</span>")

	rec = app.post("/watch-age", url.Values{"action": {"add"}, "label": {""}})
	assert.Contains(t, rec.Body.String(), "Label cannot be empty")

	state := `[{"id":"1","label":"PG","mode":"editing","draft":"PG"},{"id":"2","label":"R"}]`
	rec = app.post("/watch-age", url.Values{"state": {state}, "action": {"edit"}, "id": {"2"}, "draft.1": {"PG-15"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="PG-15" aria-label="Label" data-draft-for="1"`)
	assert.Contains(t, rec.Body.String(), `value="R" aria-label="Label" data-draft-for="2"`)

	// Watch ages never reach the backend.
	assert.Zero(t, app.fake.Count("watch_ages.insert"))
}

func multipartUpload(t *testing.T, fields map[string][]string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for name, values := range fields {
		for _, v := range values {
			require.NoError(t, mw.WriteField(name, v))
		}
	}
	for field, name := range files {
		fw, err := mw.CreateFormFile(field, name)
		require.NoError(t, err)
		fw.Write([]byte("data-" + name))
	}
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func TestUploadRoute(t *testing.T) {
	t.Run("Form Previews Chosen Files", func(t *testing.T) {
		app := newTestApp(t)
		app.login()

		rec := app.get("/upload")
		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		for _, field := range []string{"poster", "backdrop"} {
			assert.Contains(t, body, `data-preview="`+field+`-preview"`)
			assert.Contains(t, body, `<img id="`+field+`-preview" class="preview"`)
		}
		assert.Contains(t, body, `data-preview="video-name"`)
		assert.Contains(t, body, `<p id="video-name" class="file-name" hidden>`)
		assert.Contains(t, body, "URL.createObjectURL(file)")
		assert.Contains(t, body, "URL.revokeObjectURL(urls[input.id])")
	})

	t.Run("Poster Only With Cross-Wired Fields", func(t *testing.T) {
		app := newTestApp(t)
		app.login()

		body, contentType := multipartUpload(t, map[string][]string{
			"average_rating": {"8"},
			"duration":       {"120"},
			"release_year":   {"2024"},
			"content_type":   {""},
			"release_type":   {"Streaming"},
			"watch_age":      {"PG-13"},
			"genres":         {"Romance", "Thriller"},
		}, map[string]string{"poster": "poster.png"})
		req := httptest.NewRequest(http.MethodPost, "/upload", body)
		req.Header.Set("Content-Type", contentType)

		rec := app.do(req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Content uploaded successfully!")

		rows := app.fake.Rows[repository.TableContent]
		require.Len(t, rows, 1)
		assert.Equal(t, "8", rows[0]["title"])
		assert.Equal(t, "120", rows[0]["release_year"])
		assert.Equal(t, "Streaming", rows[0]["description"])
		assert.Equal(t, []any{"Romance", "Thriller"}, rows[0]["genres"])
		assert.NotEmpty(t, rows[0]["poster_url"])
		assert.Nil(t, rows[0]["backdrop_url"])
		assert.Nil(t, rows[0]["video_url"])
		assert.Equal(t, 1, app.fake.Count("storage.upload"))
	})

	t.Run("Failure Keeps Fields", func(t *testing.T) {
		app := newTestApp(t)
		app.login()
		app.fake.Fail["content.insert"] = testutil.BackendError("insert blocked")

		body, contentType := multipartUpload(t, map[string][]string{
			"average_rating": {"7"},
			"watch_age":      {"R"},
		}, nil)
		req := httptest.NewRequest(http.MethodPost, "/upload", body)
		req.Header.Set("Content-Type", contentType)

		rec := app.do(req)
		assert.Contains(t, rec.Body.String(), "Error: insert blocked")
		assert.Contains(t, rec.Body.String(), `name="average_rating" type="number" min="1" max="10" value="7"`)
		assert.Contains(t, rec.Body.String(), `<option value="R" selected>`)
	})
}

func TestMediaRoute(t *testing.T) {
	dir := t.TempDir()
	store, err := backend.NewFileStore(dir, "http://localhost:8080", zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "posters"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "posters", "1-a.png"), []byte("img"), 0644))

	fake := testutil.NewBackend()
	client := fake.Client()
	client.Storage = store
	app, err := Wiring(client, testConfig(), zap.NewNop())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/media/posters/1-a.png", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "img", rec.Body.String())

	rec = httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/media/posters/", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
