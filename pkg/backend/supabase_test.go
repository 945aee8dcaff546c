package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"catalog-console/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestSupabase(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewSupabase(SupabaseConfig{URL: server.URL, AnonKey: "anon", Bucket: "media"}, server.Client(), zap.NewNop())
	require.NoError(t, err)
	return client
}

func TestNewSupabase(t *testing.T) {
	t.Run("Requires URL And Key", func(t *testing.T) {
		_, err := NewSupabase(SupabaseConfig{}, nil, zap.NewNop())
		assert.Error(t, err)
	})
}

func TestSupabaseAuth(t *testing.T) {
	t.Run("Sign In Returns Session", func(t *testing.T) {
		client := newTestSupabase(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/auth/v1/token", r.URL.Path)
			assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
			assert.Equal(t, "anon", r.Header.Get("apikey"))

			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "user@test.com", body["email"])
			assert.Equal(t, "secret", body["password"])

			json.NewEncoder(w).Encode(map[string]any{
				"access_token":  "jwt-token",
				"refresh_token": "refresh",
				"expires_in":    3600,
				"expires_at":    1900000000,
				"user":          map[string]string{"id": "u-1", "email": "user@test.com"},
			})
		})

		session, err := client.Auth.SignInWithPassword(context.Background(), "user@test.com", "secret")
		require.NoError(t, err)
		require.NotNil(t, session)
		assert.Equal(t, "jwt-token", session.AccessToken)
		assert.Equal(t, "u-1", session.UserID)
		assert.Equal(t, int64(1900000000), session.ExpiresAt.Unix())
	})

	t.Run("Sign In Error Message Is Verbatim", func(t *testing.T) {
		client := newTestSupabase(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			io.WriteString(w, `{"code":400,"error_code":"invalid_credentials","msg":"Invalid login credentials"}`)
		})

		session, err := client.Auth.SignInWithPassword(context.Background(), "user@test.com", "nope")
		assert.Nil(t, session)
		require.Error(t, err)
		assert.Equal(t, "Invalid login credentials", Message(err))

		var be *Error
		require.ErrorAs(t, err, &be)
		assert.Equal(t, "invalid_credentials", be.Code)
		assert.Equal(t, http.StatusBadRequest, be.Status)
	})

	t.Run("Sign Up Posts Credentials", func(t *testing.T) {
		called := false
		client := newTestSupabase(t, func(w http.ResponseWriter, r *http.Request) {
			called = true
			assert.Equal(t, "/auth/v1/signup", r.URL.Path)
			w.WriteHeader(http.StatusOK)
			io.WriteString(w, `{"id":"u-2"}`)
		})

		require.NoError(t, client.Auth.SignUp(context.Background(), "new@test.com", "secret"))
		assert.True(t, called)
	})

	t.Run("Get Session With Valid Token", func(t *testing.T) {
		client := newTestSupabase(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/auth/v1/user", r.URL.Path)
			assert.Equal(t, "Bearer jwt-token", r.Header.Get("Authorization"))
			io.WriteString(w, `{"id":"u-1","email":"user@test.com"}`)
		})

		session, err := client.Auth.GetSession(context.Background(), "jwt-token")
		require.NoError(t, err)
		require.NotNil(t, session)
		assert.Equal(t, "user@test.com", session.Email)
	})

	t.Run("Get Session With Rejected Token", func(t *testing.T) {
		client := newTestSupabase(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, `{"msg":"invalid JWT"}`)
		})

		session, err := client.Auth.GetSession(context.Background(), "expired")
		assert.NoError(t, err)
		assert.Nil(t, session)
	})

	t.Run("Get Session Server Failure", func(t *testing.T) {
		client := newTestSupabase(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})

		session, err := client.Auth.GetSession(context.Background(), "jwt-token")
		assert.Error(t, err)
		assert.Nil(t, session)
	})

	t.Run("Sign Out Uses Access Token", func(t *testing.T) {
		client := newTestSupabase(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/auth/v1/logout", r.URL.Path)
			assert.Equal(t, "Bearer jwt-token", r.Header.Get("Authorization"))
			w.WriteHeader(http.StatusNoContent)
		})

		assert.NoError(t, client.Auth.SignOut(context.Background(), "jwt-token"))
	})
}

func TestSupabaseTables(t *testing.T) {
	type genre struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}

	t.Run("Select Decodes Rows", func(t *testing.T) {
		client := newTestSupabase(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/rest/v1/genres", r.URL.Path)
			assert.Equal(t, "*", r.URL.Query().Get("select"))
			assert.Equal(t, "id.asc", r.URL.Query().Get("order"))
			io.WriteString(w, `[{"id":1,"name":"Drama"},{"id":2,"name":"Horror"}]`)
		})

		var rows []genre
		err := client.From("genres").Select(context.Background(), "*", &rows, OrderBy("id"))
		require.NoError(t, err)
		assert.Equal(t, []genre{{1, "Drama"}, {2, "Horror"}}, rows)
	})

	t.Run("Requests Carry User Token", func(t *testing.T) {
		client := newTestSupabase(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer user-jwt", r.Header.Get("Authorization"))
			io.WriteString(w, `[]`)
		})

		ctx := utils.SetTokenContext(context.Background(), "user-jwt")
		var rows []genre
		require.NoError(t, client.From("genres").Select(ctx, "*", &rows))
		assert.Empty(t, rows)
	})

	t.Run("Insert Posts Array", func(t *testing.T) {
		client := newTestSupabase(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "return=minimal", r.Header.Get("Prefer"))
			body, _ := io.ReadAll(r.Body)
			assert.JSONEq(t, `[{"name":"Comedy"}]`, string(body))
			w.WriteHeader(http.StatusCreated)
		})

		err := client.From("genres").Insert(context.Background(), []map[string]string{{"name": "Comedy"}})
		assert.NoError(t, err)
	})

	t.Run("Update Uses Eq Filter", func(t *testing.T) {
		client := newTestSupabase(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPatch, r.Method)
			assert.Equal(t, "eq.7", r.URL.Query().Get("id"))
			body, _ := io.ReadAll(r.Body)
			assert.JSONEq(t, `{"name":"Noir"}`, string(body))
			w.WriteHeader(http.StatusNoContent)
		})

		err := client.From("genres").Update(context.Background(), map[string]string{"name": "Noir"}, Eq("id", int64(7)))
		assert.NoError(t, err)
	})

	t.Run("Delete Error Surfaces Message", func(t *testing.T) {
		client := newTestSupabase(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)
			assert.Equal(t, "eq.3", r.URL.Query().Get("id"))
			w.WriteHeader(http.StatusConflict)
			io.WriteString(w, `{"code":"23503","message":"update or delete on table \"genres\" violates foreign key constraint"}`)
		})

		err := client.From("genres").Delete(context.Background(), Eq("id", 3))
		require.Error(t, err)
		assert.True(t, strings.HasPrefix(Message(err), "update or delete on table"))
	})
}

func TestSupabaseStorage(t *testing.T) {
	t.Run("Upload Writes Object", func(t *testing.T) {
		client := newTestSupabase(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/storage/v1/object/media/posters/1700000000000-my poster.png", r.URL.Path)
			assert.Equal(t, "image/png", r.Header.Get("Content-Type"))
			body, _ := io.ReadAll(r.Body)
			assert.Equal(t, "PNGDATA", string(body))
			io.WriteString(w, `{"Key":"media/posters/1700000000000-my poster.png"}`)
		})

		err := client.Storage.Upload(context.Background(), "posters/1700000000000-my poster.png", strings.NewReader("PNGDATA"), "image/png")
		assert.NoError(t, err)
	})

	t.Run("Upload Error", func(t *testing.T) {
		client := newTestSupabase(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			io.WriteString(w, `{"statusCode":"409","error":"Duplicate","message":"The resource already exists"}`)
		})

		err := client.Storage.Upload(context.Background(), "videos/1-a.mp4", strings.NewReader("x"), "video/mp4")
		assert.Equal(t, "The resource already exists", Message(err))
	})

	t.Run("Public URL", func(t *testing.T) {
		client, err := NewSupabase(SupabaseConfig{URL: "https://proj.supabase.co/", AnonKey: "anon"}, nil, zap.NewNop())
		require.NoError(t, err)

		assert.Equal(t,
			"https://proj.supabase.co/storage/v1/object/public/media/posters/1-a%20b.png",
			client.Storage.PublicURL("posters/1-a b.png"))
	})
}

func TestDecodeError(t *testing.T) {
	t.Run("Error Description", func(t *testing.T) {
		e := decodeError(400, []byte(`{"error":"invalid_grant","error_description":"Email not confirmed"}`))
		assert.Equal(t, "Email not confirmed", e.Message)
	})

	t.Run("Plain Body", func(t *testing.T) {
		e := decodeError(502, []byte("bad gateway"))
		assert.Equal(t, "bad gateway", e.Message)
	})

	t.Run("Empty Body", func(t *testing.T) {
		e := decodeError(503, nil)
		assert.Equal(t, "Service Unavailable", e.Message)
	})
}
