package chunking

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDocument(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kb.md")
	require.NoError(t, os.WriteFile(path, []byte("# Password reset\n\nGo to settings."), 0o644))
	return path
}

func TestNewClient(t *testing.T) {
	t.Run("requires api key", func(t *testing.T) {
		_, err := NewClient("")
		assert.ErrorIs(t, err, ErrAPIKeyRequired)
	})

	t.Run("defaults", func(t *testing.T) {
		c, err := NewClient("key")
		require.NoError(t, err)
		assert.Equal(t, DefaultEndpoint, c.endpoint)
		assert.Equal(t, DefaultMaxCharacters, c.maxCharacters)
		assert.Equal(t, DefaultOverlap, c.overlap)
		assert.Equal(t, DefaultTimeout, c.timeout)
	})

	t.Run("timeout leaves a shared http client untouched", func(t *testing.T) {
		shared := &http.Client{Timeout: time.Minute}
		for _, opts := range [][]ClientOption{
			{WithHTTPClient(shared), WithTimeout(time.Second)},
			{WithTimeout(time.Second), WithHTTPClient(shared)},
		} {
			c, err := NewClient("key", opts...)
			require.NoError(t, err)
			assert.Same(t, shared, c.httpClient)
			assert.Equal(t, time.Second, c.timeout)
		}
		assert.Equal(t, time.Minute, shared.Timeout)
	})

	t.Run("invalid chunking", func(t *testing.T) {
		_, err := NewClient("key", WithChunking(100, 100))
		assert.Error(t, err)
	})
}

func TestClient_Elements(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "secret", r.Header.Get("unstructured-api-key"))

		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		assert.Equal(t, "by_title", r.FormValue("chunking_strategy"))
		assert.Equal(t, "1000", r.FormValue("max_characters"))
		assert.Equal(t, "200", r.FormValue("overlap"))

		f, header, err := r.FormFile("files")
		if assert.NoError(t, err) {
			defer f.Close()
			assert.Equal(t, "kb.md", header.Filename)
			data, _ := io.ReadAll(f)
			assert.Contains(t, string(data), "Password reset")
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleElements))
	}))
	defer server.Close()

	c, err := NewClient("secret", WithEndpoint(server.URL))
	require.NoError(t, err)

	path := writeDocument(t)
	elements, err := c.Elements(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, elements, 3)
	assert.Equal(t, path, c.Document(path))
}

func TestClient_Elements_ServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail": "invalid api key"}`))
	}))
	defer server.Close()

	c, err := NewClient("wrong", WithEndpoint(server.URL))
	require.NoError(t, err)

	_, err = c.Elements(context.Background(), writeDocument(t))
	require.ErrorIs(t, err, ErrServiceResponse)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestClient_Elements_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer server.Close()

	c, err := NewClient("key", WithEndpoint(server.URL), WithTimeout(50*time.Millisecond))
	require.NoError(t, err)

	_, err = c.Elements(context.Background(), writeDocument(t))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_Elements_MissingDocument(t *testing.T) {
	c, err := NewClient("key", WithEndpoint("http://127.0.0.1:0"))
	require.NoError(t, err)

	_, err = c.Elements(context.Background(), filepath.Join(t.TempDir(), "nope.md"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
