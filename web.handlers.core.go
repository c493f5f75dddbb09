package main

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Statistics holds app stats for ops.
type Statistics struct {
	version   string
	container bool
	runtime   string
	platform  string
	called    uint64
	started   time.Time
	status    map[int]uint64
	mu        *sync.RWMutex
}

// Maintenance holds app maintenance mode infos.
type Maintenance struct {
	enabled atomic.Bool
	mu      sync.RWMutex
	message string
	started time.Time
}

// Details returns the message and start time of the current maintenance.
func (m *Maintenance) Details() (string, time.Time) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.message, m.started
}

func (m *Maintenance) enable(message string, started time.Time) {
	m.mu.Lock()
	m.message = message
	m.started = started
	m.mu.Unlock()
	m.enabled.Store(true)
}

func (m *Maintenance) disable() {
	m.enabled.Store(false)
	m.mu.Lock()
	m.message = ""
	m.started = time.Time{}
	m.mu.Unlock()
}

// WebHandler serves the book catalog pages and the ops endpoints.
type WebHandler struct {
	logger     *zap.Logger
	config     *Config
	stats      *Statistics
	mode       *Maintenance
	clock      Clocker
	idsHandler UIDHandler
	backend    BookBackend
	flash      FlashStore
	views      *Views
}

// NewWebHandler provides a new instance of WebHandler.
func NewWebHandler(
	logger *zap.Logger,
	config *Config,
	stats *Statistics,
	clock Clocker,
	idsHandler UIDHandler,
	backend BookBackend,
	flash FlashStore,
	views *Views,
) *WebHandler {
	stats.status = make(map[int]uint64)
	stats.mu = &sync.RWMutex{}
	return &WebHandler{
		logger:     logger,
		config:     config,
		stats:      stats,
		mode:       &Maintenance{},
		clock:      clock,
		idsHandler: idsHandler,
		backend:    backend,
		flash:      flash,
		views:      views,
	}
}

// waitMounted blocks until the page fetch ends or the request is done.
func waitMounted(ctx context.Context, done <-chan struct{}) error {
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// render writes the named page. Rendering failures are logged and
// answered with a bare 500 since the page itself cannot be produced.
func (wh *WebHandler) render(w http.ResponseWriter, r *http.Request, status int, view, title string, notices []string, content interface{}) {
	ctx := r.Context()
	logger := wh.GetLoggerFromContext(ctx)
	page, err := wh.views.Render(view, &PageData{
		Title:     title,
		RequestID: GetValueFromContext(ctx, ContextRequestID),
		Notices:   notices,
		Content:   content,
	})
	if err != nil {
		logger.Error("failed to render page", zap.String("page.view", view), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if err = WriteHTML(ctx, w, status, page); err != nil {
		logger.Error("failed to send page", zap.String("page.view", view), zap.Error(err))
	}
}

// sessionID returns the flash session of the request if it carries a valid one.
func (wh *WebHandler) sessionID(r *http.Request) (string, bool) {
	c, err := r.Cookie(wh.config.Flash.CookieName)
	if err != nil || !wh.idsHandler.IsValid(c.Value, SessionIDPrefix) {
		return "", false
	}
	return c.Value, true
}

// popFlashes returns the notices left for this session by a previous redirect.
func (wh *WebHandler) popFlashes(r *http.Request) []string {
	sid, ok := wh.sessionID(r)
	if !ok {
		return nil
	}
	notices, err := wh.flash.Pop(r.Context(), sid)
	if err != nil {
		wh.GetLoggerFromContext(r.Context()).Error("failed to pop flash notices", zap.String("request.session", sid), zap.Error(err))
		return nil
	}
	return notices
}

// redirectWithFlashes saves the notices for the next page of the session then
// redirects the browser to target. A new session is opened when needed.
func (wh *WebHandler) redirectWithFlashes(w http.ResponseWriter, r *http.Request, target string, notices []string) {
	if len(notices) != 0 {
		sid, ok := wh.sessionID(r)
		if !ok {
			sid = wh.idsHandler.Generate(SessionIDPrefix)
			http.SetCookie(w, &http.Cookie{
				Name:     wh.config.Flash.CookieName,
				Value:    sid,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		if err := wh.flash.Push(r.Context(), sid, notices...); err != nil {
			wh.GetLoggerFromContext(r.Context()).Error("failed to push flash notices",
				zap.String("request.session", sid),
				zap.Strings("flash.notices", notices),
				zap.Error(err),
			)
		}
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
