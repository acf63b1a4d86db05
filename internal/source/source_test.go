package source

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastBackoff(retries int) Option {
	return WithBackoff(BackoffConfig{
		MaxRetries:      retries,
		InitialInterval: time.Millisecond,
		MaxInterval:     2 * time.Millisecond,
	})
}

func gzipBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write(data)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestFetch_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := NewClient(fastBackoff(3))
	body, err := c.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetch_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := NewClient(fastBackoff(3)).Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnexpectedStatus))
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetch_CircuitOpens(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(fastBackoff(0))
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := c.Fetch(ctx, srv.URL)
		require.Error(t, err)
		assert.False(t, errors.Is(err, ErrCircuitOpen), "attempt %d tripped early", i)
	}

	_, err := c.Fetch(ctx, srv.URL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCircuitOpen))
}

func TestFetch_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient().Fetch(ctx, "http://127.0.0.1:1/never")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOpen_LocalPlainAndGzip(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "figures.fab")
	zipped := filepath.Join(dir, "hip_main.dat.gz")

	require.NoError(t, os.WriteFile(plain, []byte("Ori 1 1 2\n"), 0o600))
	require.NoError(t, os.WriteFile(zipped, gzipBytes(t, []byte("H|1|\n")), 0o600))

	for path, want := range map[string]string{plain: "Ori 1 1 2\n", zipped: "H|1|\n"} {
		rc, err := Open(context.Background(), path)
		require.NoError(t, err, path)
		got, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		assert.Equal(t, want, string(got), path)
	}
}

func TestOpen_Errors(t *testing.T) {
	_, err := Open(context.Background(), "")
	assert.Error(t, err)

	_, err = Open(context.Background(), filepath.Join(t.TempDir(), "missing.dat"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestOpen_URLGzip(t *testing.T) {
	payload := gzipBytes(t, []byte("line one\nline two\n"))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	rc, err := NewClient().Open(context.Background(), srv.URL+"/hip_main.dat.gz")
	require.NoError(t, err)
	defer rc.Close()

	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two\n", string(got))
}

func TestIsURL(t *testing.T) {
	assert.True(t, IsURL("https://example.com/a"))
	assert.True(t, IsURL("http://example.com/a"))
	assert.False(t, IsURL("/tmp/a"))
	assert.False(t, IsURL("ftp://example.com/a"))
}

func TestCache_HitAndExpiry(t *testing.T) {
	cache, err := OpenCache(filepath.Join(t.TempDir(), "cache.db"), time.Hour)
	require.NoError(t, err)
	defer cache.Close()

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	ctx := context.Background()
	_, ok, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Put(ctx, "k", []byte("body")))
	got, ok, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "body", string(got))

	now = now.Add(2 * time.Hour)
	_, ok, err = cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok, "entry should expire after ttl")
}

func TestOpenCache_RequiresPath(t *testing.T) {
	_, err := OpenCache("  ", time.Hour)
	assert.Error(t, err)
}

func TestFetch_UsesCache(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte("fresh"))
	}))
	defer srv.Close()

	cache, err := OpenCache(filepath.Join(t.TempDir(), "cache.db"), 0)
	require.NoError(t, err)
	defer cache.Close()

	c := NewClient(WithCache(cache))
	for i := 0; i < 3; i++ {
		body, err := c.Fetch(context.Background(), srv.URL)
		require.NoError(t, err)
		assert.Equal(t, "fresh", string(body))
	}
	assert.Equal(t, int32(1), calls.Load())
}
