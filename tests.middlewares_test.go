package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
)

// TestMiddlewaresStacks ensures we get both public and ops middlewares
// stacks with exact number of elements in those stacks.
func TestMiddlewaresStacks(t *testing.T) {
	wh := newTestWebHandler(t, nil, nil)
	pub, ops := wh.MiddlewaresStacks()
	assert.Equal(t, 7, len(*pub))
	assert.Equal(t, 6, len(*ops))
}

// TestChain ensures each middleware in the stack is called as well the handler.
func TestChain(t *testing.T) {
	var ca, cb, cc, ch bool
	queue := make(chan int, 4)

	middlewareA := func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			queue <- 1
			ca = true
			next(w, r, ps)
		}
	}
	middlewareB := func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			queue <- 2
			cb = true
			next(w, r, ps)
		}
	}
	middlewareC := func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			queue <- 3
			cc = true
			next(w, r, ps)
		}
	}
	middlewares := Middlewares{
		middlewareA,
		middlewareB,
		middlewareC,
	}

	handler := func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		queue <- 4
		ch = true
	}

	chained := (&middlewares).Chain(handler)
	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	chained(w, req, nil)

	t.Run("check calling", func(t *testing.T) {
		assert.Equal(t, true, ca)
		assert.Equal(t, true, cb)
		assert.Equal(t, true, cc)
		assert.Equal(t, true, ch)
	})

	t.Run("check ordering", func(t *testing.T) {
		assert.Equal(t, 1, <-queue)
		assert.Equal(t, 2, <-queue)
		assert.Equal(t, 3, <-queue)
		assert.Equal(t, 4, <-queue)
	})
}

// TestRequestsCounterMiddleware ensures the request counter increment.
func TestRequestsCounterMiddleware(t *testing.T) {
	wh := newTestWebHandler(t, nil, nil)
	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	var num uint64
	handler := func(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
		num = GetRequestNumberFromContext(req.Context())
	}
	wrapped := wh.RequestsCounterMiddleware(handler)
	wrapped(w, req, nil)
	wrapped(w, req, nil)
	assert.Equal(t, uint64(2), num)
	assert.Equal(t, uint64(2), wh.stats.called)
}

// TestRequestIDMiddleware ensures the request id is set in header and context.
func TestRequestIDMiddleware(t *testing.T) {
	wh := newTestWebHandler(t, nil, nil)
	w := httptest.NewRecorder()
	var requestID string
	wh.RequestIDMiddleware(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		requestID = GetValueFromContext(r.Context(), ContextRequestID)
	})(w, httptest.NewRequest("GET", "/", nil), nil)
	assert.Equal(t, "r:abc", requestID)
	assert.Equal(t, "r:abc", w.Header().Get("X-Request-ID"))
}

// TestStatsMiddleware ensures the final status code of requests is counted.
func TestStatsMiddleware(t *testing.T) {
	wh := newTestWebHandler(t, nil, nil)
	handle := wh.StatsMiddleware(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("ok"))
	})
	handle(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil), nil)
	handle(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil), nil)
	handle(httptest.NewRecorder(), httptest.NewRequest("GET", "/missing", nil), nil)
	assert.Equal(t, map[int]uint64{http.StatusOK: 2, http.StatusNotFound: 1}, wh.stats.status)
}

// TestPanicRecoveryMiddleware ensures a panic is answered with the error page.
func TestPanicRecoveryMiddleware(t *testing.T) {
	wh := newTestWebHandler(t, nil, nil)
	w := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		wh.PanicRecoveryMiddleware(func(http.ResponseWriter, *http.Request, httprouter.Params) {
			panic("boom")
		})(w, httptest.NewRequest("GET", "/", nil), nil)
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Something went wrong")
}

// TestMaintenanceModeMiddleware ensures pages are blocked while in maintenance.
func TestMaintenanceModeMiddleware(t *testing.T) {
	wh := newTestWebHandler(t, nil, nil)
	called := 0
	handle := wh.MaintenanceModeMiddleware(func(http.ResponseWriter, *http.Request, httprouter.Params) {
		called++
	})

	w := httptest.NewRecorder()
	handle(w, httptest.NewRequest("GET", "/", nil), nil)
	assert.Equal(t, 1, called)

	wh.mode.enable("upgrading the catalog", time.Date(2023, 7, 2, 0, 0, 0, 0, time.UTC))
	w = httptest.NewRecorder()
	handle(w, httptest.NewRequest("GET", "/", nil), nil)
	assert.Equal(t, 1, called)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "120", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "upgrading the catalog")
	assert.Contains(t, w.Body.String(), "Since Sun, 02 Jul 2023 00:00:00 UTC")

	wh.mode.disable()
	handle(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil), nil)
	assert.Equal(t, 2, called)
}

// TestCoreMiddleware ensures the wrapped handler is called once.
func TestCoreMiddleware(t *testing.T) {
	wh := newTestWebHandler(t, nil, nil)
	called := 0
	w := NewCustomResponseWriter(httptest.NewRecorder())
	wh.CoreMiddleware(func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		called++
		w.WriteHeader(http.StatusTeapot)
	})(w, httptest.NewRequest("GET", "/", nil), nil)
	assert.Equal(t, 1, called)
	assert.Equal(t, http.StatusTeapot, w.Status())
}
