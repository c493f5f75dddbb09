package main

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

// MiddlewareFunc is a custom type for ease of use.
type MiddlewareFunc func(httprouter.Handle) httprouter.Handle

// Middlewares is a custom type to represent a stack of
// middleware functions used to build a single chain.
type Middlewares []MiddlewareFunc

// MiddlewaresStacks returns the stacks used by pages and ops endpoints.
// The ops stack skips the maintenance mode so it can always be disabled.
func (wh *WebHandler) MiddlewaresStacks() (*Middlewares, *Middlewares) {
	public := &Middlewares{
		wh.RequestIDMiddleware,
		wh.LoggerMiddleware,
		wh.RequestsCounterMiddleware,
		wh.StatsMiddleware,
		wh.PanicRecoveryMiddleware,
		wh.CoreMiddleware,
		wh.MaintenanceModeMiddleware,
	}
	ops := &Middlewares{
		wh.RequestIDMiddleware,
		wh.LoggerMiddleware,
		wh.RequestsCounterMiddleware,
		wh.StatsMiddleware,
		wh.PanicRecoveryMiddleware,
		wh.CoreMiddleware,
	}
	return public, ops
}

// RequestIDMiddleware generates and add a unique id to the request context.
func (wh *WebHandler) RequestIDMiddleware(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		requestID := wh.idsHandler.Generate(RequestIDPrefix)
		w.Header().Set("X-Request-ID", requestID)
		ctx := context.WithValue(r.Context(), ContextRequestID, requestID)
		next(w, r.WithContext(ctx), ps)
	}
}

// LoggerMiddleware adds to the request context a logger carrying the request id.
func (wh *WebHandler) LoggerMiddleware(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		logger := wh.logger.With(zap.String("request.id", GetValueFromContext(r.Context(), ContextRequestID)))
		ctx := context.WithValue(r.Context(), ContextRequestLogger, logger)
		next(w, r.WithContext(ctx), ps)
	}
}

// PanicRecoveryMiddleware catches any panic during the request lifecycle and produces
// an error log for further analysis. It sends the error page to the client with 500.
func (wh *WebHandler) PanicRecoveryMiddleware(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		defer func() {
			if err := recover(); err != nil {
				wh.GetLoggerFromContext(r.Context()).Error("panic occurred", zap.Any("error", err), zap.Stack("stack"))
				wh.render(w, r, http.StatusInternalServerError, ViewError, "Error", nil,
					&ErrorView{Message: "Failed to process the request. Please try again later."})
			}
		}()
		next(w, r, ps)
	}
}

// RequestsCounterMiddleware increments the number of received requests statistics and add this
// new value to the request context to be used during logging as `request.num` field.
func (wh *WebHandler) RequestsCounterMiddleware(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		ctx := context.WithValue(r.Context(), ContextRequestNumber, atomic.AddUint64(&wh.stats.called, 1))
		next(w, r.WithContext(ctx), ps)
	}
}

// StatsMiddleware records the final status code of each request.
func (wh *WebHandler) StatsMiddleware(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		cw := NewCustomResponseWriter(w)
		next(cw, r, ps)
		wh.stats.mu.Lock()
		wh.stats.status[cw.Status()]++
		wh.stats.mu.Unlock()
	}
}

// CoreMiddleware measures the duration of each request and logs its result.
func (wh *WebHandler) CoreMiddleware(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		start := wh.clock.Now()
		logger := wh.GetLoggerFromContext(r.Context())
		logger.Info(
			"request",
			zap.Uint64("request.num", GetRequestNumberFromContext(r.Context())),
			zap.String("request.method", r.Method),
			zap.String("request.path", r.URL.Path),
			zap.String("request.ip", GetRequestSourceIP(r)),
			zap.String("request.agent", r.UserAgent()),
			zap.String("request.referer", r.Referer()),
		)

		next(w, r, ps)

		fields := []zap.Field{
			zap.String("request.method", r.Method),
			zap.String("request.path", r.URL.Path),
			zap.Duration("request.duration", wh.clock.Now().Sub(start)),
		}
		if cw, ok := w.(*CustomResponseWriter); ok {
			fields = append(fields, zap.Int("response.status", cw.Status()), zap.Int("response.bytes", cw.Bytes()))
		}
		logger.Info("response", fields...)
	}
}

// MaintenanceModeMiddleware answers every page request with the maintenance
// page and 503 while the maintenance mode is enabled.
func (wh *WebHandler) MaintenanceModeMiddleware(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if !wh.mode.enabled.Load() {
			next(w, r, ps)
			return
		}
		message, started := wh.mode.Details()
		since := ""
		if !started.IsZero() {
			since = started.Format(time.RFC1123)
		}
		w.Header().Set("Retry-After", "120")
		wh.render(w, r, http.StatusServiceUnavailable, ViewMaintenance, "Maintenance", nil,
			&MaintenanceView{Message: message, Since: since})
	}
}

// Chain wraps a given httprouter.Handle with a list of middlewares.
// The first middleware of the list is the outermost one.
func (m *Middlewares) Chain(h httprouter.Handle) httprouter.Handle {
	if len(*m) == 0 {
		return h
	}
	lg := len(*m)
	handle := (*m)[lg-1](h)

	for i := lg - 2; i >= 0; i-- {
		handle = (*m)[i](handle)
	}

	return handle
}
