package api

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/sanverite/gcdweb/internal/core"
	"github.com/sanverite/gcdweb/internal/i18n"
	"github.com/sanverite/gcdweb/internal/logging"
)

// Route paths and defaults.
const (
	PathIndex      = "/"
	PathGCD        = "/gcd"
	DefaultAddress = "127.0.0.1:3000"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	pageIndex  = "index"
	pageResult = "result"
	pageError  = "error"
)

// ServerOptions configures the HTTP server.
// Zero values are replaced with conservative defaults.
type ServerOptions struct {
	Addr              string
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	// MaxBodyBytes bounds a POST /gcd body.
	MaxBodyBytes int64
	// GzipMinSize is the smallest response compressed for gzip clients.
	GzipMinSize int
	Logger      *slog.Logger
}

// route is one entry of the routing table.
type route struct {
	method  string
	path    string
	handler func(*Server, http.ResponseWriter, *http.Request)
}

var routes = []route{
	{http.MethodGet, PathIndex, (*Server).handleIndex},
	{http.MethodPost, PathGCD, (*Server).handleGCD},
}

// Server hosts the GCD form and computation routes.
type Server struct {
	http    *http.Server
	catalog *i18n.Catalog
	logger  *slog.Logger
	opts    ServerOptions
	pages   map[string]*template.Template
	handler http.Handler

	life lifecycle

	mu       sync.Mutex
	listener net.Listener
	done     chan struct{}
}

// NewServer constructs a new server rendering pages from catalog.
// The server does not start listening until Start is called.
func NewServer(catalog *i18n.Catalog, opts ServerOptions) (*Server, error) {
	if catalog == nil {
		panic("api.NewServer: catalog is nil")
	}
	if opts.Addr == "" {
		opts.Addr = DefaultAddress
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = 5 * time.Second
	}
	if opts.ReadHeaderTimeout == 0 {
		opts.ReadHeaderTimeout = 2 * time.Second
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = 10 * time.Second
	}
	if opts.IdleTimeout == 0 {
		opts.IdleTimeout = 60 * time.Second
	}
	if opts.ShutdownTimeout == 0 {
		opts.ShutdownTimeout = 5 * time.Second
	}
	if opts.MaxBodyBytes == 0 {
		opts.MaxBodyBytes = 1 << 20
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}

	pages, err := parsePages()
	if err != nil {
		return nil, err
	}

	s := &Server{
		catalog: catalog,
		logger:  opts.Logger,
		opts:    opts,
		pages:   pages,
		done:    make(chan struct{}),
	}

	// Routes
	mux := http.NewServeMux()
	for _, rt := range routes {
		pattern := rt.method + " " + rt.path
		if rt.path == PathIndex {
			pattern += "{$}"
		}
		mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
			rt.handler(s, w, r)
		})
	}
	mux.HandleFunc("/", s.handleFallback)

	s.handler, err = chain(mux, opts.Logger, opts.GzipMinSize)
	if err != nil {
		return nil, err
	}

	s.http = &http.Server{
		Addr:              opts.Addr,
		Handler:           s.handler,
		ReadTimeout:       opts.ReadTimeout,
		ReadHeaderTimeout: opts.ReadHeaderTimeout,
		WriteTimeout:      opts.WriteTimeout,
		IdleTimeout:       opts.IdleTimeout,
		ErrorLog:          logging.StdLogger(opts.Logger),
		BaseContext: func(l net.Listener) context.Context {
			return context.Background()
		},
	}
	return s, nil
}

func parsePages() (map[string]*template.Template, error) {
	pages := make(map[string]*template.Template)
	for _, name := range []string{pageIndex, pageResult, pageError} {
		t, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parsing %s page: %w", name, err)
		}
		pages[name] = t
	}
	return pages, nil
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler { return s.handler }

// State returns the server's lifecycle state.
func (s *Server) State() ServerState { return s.life.State() }

// Uptime returns how long the server has been listening.
func (s *Server) Uptime() time.Duration { return s.life.Uptime() }

// Addr returns the bound address once listening, else the configured one.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.opts.Addr
}

// Start binds the listener and serves in a background goroutine. A bind
// failure is returned; a server can be started only once.
func (s *Server) Start() error {
	if _, err := s.life.transition(StateListening); err != nil {
		return fmt.Errorf("api: start: %w", err)
	}

	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		_, _ = s.life.transition(StateStopped)
		close(s.done)
		return fmt.Errorf("api: listen on %s: %w", s.opts.Addr, err)
	}
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	s.logger.Info("api: listening", "addr", ln.Addr().String())
	go func() {
		defer close(s.done)
		if err := s.http.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api: serve error", "err", err)
			_, _ = s.life.transition(StateStopped)
		}
	}()
	return nil
}

// Stop gracefully shuts down the server, waiting up to ShutdownTimeout.
// Stopping a server that never started, or already stopped, is a no-op.
func (s *Server) Stop(ctx context.Context) error {
	prev, err := s.life.transition(StateStopping)
	if err != nil {
		switch prev {
		case StateIdle:
			_, _ = s.life.transition(StateStopped)
			return nil
		case StateStopped:
			return nil
		}
		return fmt.Errorf("api: stop: %w", err)
	}

	timeout := s.opts.ShutdownTimeout
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	err = s.http.Shutdown(ctx)
	select {
	case <-s.done:
	case <-ctx.Done():
	}
	_, _ = s.life.transition(StateStopped)
	return err
}

// localizer picks the page language from Accept-Language.
func (s *Server) localizer(r *http.Request) *i18n.Localizer {
	return s.catalog.Localizer(r.Header.Get("Accept-Language"))
}

// handleIndex serves the input form.
// Method: GET
// Response (200): HTML form posting n and m to /gcd
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	loc := s.localizer(r)
	s.writeHTML(w, http.StatusOK, pageIndex, loc, NewFormView(loc, "", ""))
}

// handleGCD decodes a submission, validates it and renders the divisor.
// Method: POST
// Request: application/x-www-form-urlencoded with fields n and m
// Response (200): HTML sentence naming n, m and their GCD
// Errors:
//   - 400 for an unreadable body, wrong content type, duplicate, missing,
//     non-numeric, out of range or zero fields; the kernel is not called
func (s *Server) handleGCD(w http.ResponseWriter, r *http.Request) {
	loc := s.localizer(r)

	form, err := decodeGCDForm(w, r, s.opts.MaxBodyBytes)
	if err != nil {
		s.reject(w, loc, form, err)
		return
	}
	req, err := core.NewRequest(form.N, form.M)
	if err != nil {
		s.reject(w, loc, form, err)
		return
	}
	res, err := core.Compute(req)
	if err != nil {
		s.reject(w, loc, form, err)
		return
	}
	s.writeHTML(w, http.StatusOK, pageResult, loc, FromCoreResult(loc, res))
}

// reject renders a 400 page explaining err, with the form pre-filled.
func (s *Server) reject(w http.ResponseWriter, loc *i18n.Localizer, form gcdForm, err error) {
	view := NewErrorView(loc, http.StatusBadRequest, RejectionMessage(loc, err))
	f := NewFormView(loc, form.N, form.M)
	view.Form = &f
	s.writeHTML(w, http.StatusBadRequest, pageError, loc, view)
}

// handleFallback answers every request the routing table does not match:
// 405 when the path is routed for another method, 404 otherwise.
func (s *Server) handleFallback(w http.ResponseWriter, r *http.Request) {
	loc := s.localizer(r)

	var allowed []string
	for _, rt := range routes {
		if rt.path == r.URL.Path {
			allowed = append(allowed, rt.method)
		}
	}
	if len(allowed) > 0 {
		slices.Sort(allowed)
		w.Header().Set("Allow", strings.Join(allowed, ", "))
		msg := loc.T(i18n.MsgErrorMethod, map[string]any{"Method": r.Method, "Path": r.URL.Path})
		s.writeHTML(w, http.StatusMethodNotAllowed, pageError, loc, NewErrorView(loc, http.StatusMethodNotAllowed, msg))
		return
	}
	msg := loc.T(i18n.MsgErrorNotFound, map[string]any{"Path": r.URL.Path})
	s.writeHTML(w, http.StatusNotFound, pageError, loc, NewErrorView(loc, http.StatusNotFound, msg))
}

// writeHTML renders page in full before writing anything, so a response is
// either complete or a plain 500.
func (s *Server) writeHTML(w http.ResponseWriter, status int, page string, loc *i18n.Localizer, content any) {
	var buf bytes.Buffer
	err := s.pages[page].ExecuteTemplate(&buf, "layout", Page{
		Lang:    loc.Lang(),
		Title:   loc.T(i18n.MsgPageTitle, nil),
		Content: content,
	})
	if err != nil {
		s.logger.Error("api: rendering page", "page", page, "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
