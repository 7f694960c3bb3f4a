package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanverite/gcdweb/internal/core"
	"github.com/sanverite/gcdweb/internal/logging"
)

func TestChain_RecoversKernelPanic(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "logfmt", Output: &buf})
	require.NoError(t, err)

	h, err := chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		core.GCD(0, 1)
	}), logger, 0)
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(HeaderRequestID, "req-1")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	out := buf.String()
	assert.Contains(t, out, "handler panic")
	assert.Contains(t, out, "request_id=req-1")
	assert.Contains(t, out, "status=500")
}

func TestWithRequestID_RejectsOversizedID(t *testing.T) {
	var seen string
	h := withRequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(HeaderRequestID, string(bytes.Repeat([]byte("a"), 200)))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Len(t, seen, 36)
	assert.Equal(t, seen, w.Header().Get(HeaderRequestID))
}

func TestChain_NegativeGzipMinSize(t *testing.T) {
	_, err := chain(http.NotFoundHandler(), logging.Discard(), -1)
	assert.ErrorContains(t, err, "configuring gzip")
}
