package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"readlog/models"
)

func TestMicropubClientPost(t *testing.T) {
	var gotAuth, gotContentType string
	var gotBody map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Location", "https://example.com/reads/7")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte("  created \n"))
	}))
	defer ts.Close()

	client := NewMicropubClient(5 * time.Second)
	payload := BuildEntryRequest(&models.Entry{
		Title:      "Dune",
		ReadStatus: models.StatusFinished,
		ISBN:       "9780441013593",
		Visibility: "public",
	})
	resp, err := client.Post(context.Background(), ts.URL, payload, "tok-123")
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "created", resp.Body)
	assert.Equal(t, "https://example.com/reads/7", resp.Location())

	// The nested payload round-trips as one JSON object.
	assert.Equal(t, []any{"reading-entry"}, gotBody["type"])
	props := gotBody["properties"].(map[string]any)
	readOf := props["read-of"].(map[string]any)
	assert.Equal(t, []any{"cited-work"}, readOf["type"])
}

func TestMicropubClientNoLocation(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte("queued"))
	}))
	defer ts.Close()

	client := NewMicropubClient(5 * time.Second)
	resp, err := client.Post(context.Background(), ts.URL, map[string]string{"a": "b"}, "tok")
	require.NoError(t, err)
	assert.Empty(t, resp.Location())
	assert.Equal(t, "queued", resp.Body)
}

func TestMicropubClientConnectionError(t *testing.T) {
	client := NewMicropubClient(time.Second)
	_, err := client.Post(context.Background(), "http://127.0.0.1:0", map[string]string{}, "tok")
	assert.Error(t, err)
}
