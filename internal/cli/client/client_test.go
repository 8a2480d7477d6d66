package client

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI mimics the content API closely enough for the client
func fakeAPI(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	authed := func(r *http.Request) bool {
		c, err := r.Cookie("realestate.sid")
		return err == nil && c.Value == "tok"
	}

	mux.HandleFunc("POST /api/admin/login", func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Email != "admin@gmail.com" || req.Password != "1234" {
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, `{"success":false,"error":"Invalid credentials"}`)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "realestate.sid", Value: "tok"})
		io.WriteString(w, `{"success":true,"message":"Login successful"}`)
	})
	mux.HandleFunc("POST /api/admin/logout", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"success":true,"message":"Logged out successfully"}`)
	})
	mux.HandleFunc("GET /api/admin/status", func(w http.ResponseWriter, r *http.Request) {
		if authed(r) {
			io.WriteString(w, `{"isAuthenticated":true}`)
			return
		}
		io.WriteString(w, `{"isAuthenticated":false}`)
	})
	mux.HandleFunc("GET /api/content", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"hero":{"title":"Hi"}}`)
	})
	mux.HandleFunc("GET /api/content/{section}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("section") != "hero" {
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, `{"error":"Section not found"}`)
			return
		}
		io.WriteString(w, `{"title":"Hi"}`)
	})
	mux.HandleFunc("PUT /api/admin/content/{section}", func(w http.ResponseWriter, r *http.Request) {
		if !authed(r) {
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, `{"error":"Unauthorized"}`)
			return
		}
		var body struct {
			Data json.RawMessage `json:"data"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"content": map[string]interface{}{
				"id":        "01H",
				"section":   r.PathValue("section"),
				"data":      body.Data,
				"createdAt": "2026-10-01T08:00:00Z",
				"updatedAt": "2026-10-02T09:30:00Z",
			},
		})
	})

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func TestClient_LoginKeepsCookie(t *testing.T) {
	api := fakeAPI(t)
	c := New(api.URL + "/")

	require.NoError(t, c.Login("admin@gmail.com", "1234"))
	assert.Equal(t, "realestate.sid=tok", c.Session())

	ok, err := c.Status()
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, c.Logout())
	assert.Empty(t, c.Session())
}

func TestClient_LoginRejected(t *testing.T) {
	api := fakeAPI(t)
	c := New(api.URL)

	err := c.Login("admin@gmail.com", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
	assert.Empty(t, c.Session())
}

func TestClient_ReadContent(t *testing.T) {
	api := fakeAPI(t)
	c := New(api.URL)

	all, err := c.ListContent()
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"Hi"}`, string(all["hero"]))

	hero, err := c.GetContent("hero")
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"Hi"}`, string(hero))

	_, err = c.GetContent("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClient_UpdateContent(t *testing.T) {
	api := fakeAPI(t)
	c := New(api.URL)

	_, err := c.UpdateContent("hero", json.RawMessage(`{"title":"New"}`))
	assert.ErrorIs(t, err, ErrUnauthorized)

	require.NoError(t, c.SetSession("realestate.sid=tok"))
	updated, err := c.UpdateContent("hero", json.RawMessage(`{"title":"New"}`))
	require.NoError(t, err)
	assert.Equal(t, "hero", updated.Section)
	assert.JSONEq(t, `{"title":"New"}`, string(updated.Data))
	assert.Equal(t, time.Date(2026, 10, 2, 9, 30, 0, 0, time.UTC), updated.UpdatedAt.UTC())
}

func TestClient_SetSessionMalformed(t *testing.T) {
	c := New("http://localhost")
	assert.Error(t, c.SetSession("no-equals-sign"))
	assert.Error(t, c.SetSession("name="))
}
