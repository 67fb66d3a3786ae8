package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mhuels/posterforge/pkg/cache"
	"github.com/mhuels/posterforge/pkg/config"
	pferrors "github.com/mhuels/posterforge/pkg/errors"
	"github.com/mhuels/posterforge/pkg/pipeline"
)

const (
	// maxConfigBytes caps the request body; poster configs are tiny.
	maxConfigBytes = 1 << 20

	// sessionHeader identifies a preview session across requests. A new
	// request on the same session supersedes the previous render.
	sessionHeader = "X-Session-ID"

	serveShutdownTimeout = 5 * time.Second
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr    string // listen address
	noCache bool   // disable caching
	redis   string // Redis address for the cache backend
}

// serveCommand creates the serve command running the HTTP preview API.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP preview API",
		Long: `Run the HTTP preview API.

POST /render accepts a TOML poster config and responds with the encoded
artifact (PNG by default, ORA with ?format=ora). Requests carrying the
same X-Session-ID header supersede each other: a newer preview cancels
the still-running older one. GET /healthz reports liveness.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&opts.redis, "redis", "", "Redis address for caching (e.g. localhost:6379)")

	return cmd
}

// runServe builds the server and blocks until the context is cancelled.
func (c *CLI) runServe(ctx context.Context, opts *serveOpts) error {
	store, err := newCache(ctx, opts.noCache, opts.redis)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	keyer := cache.NewScopedKeyer(nil, "serve")
	runner := pipeline.NewRunner(store, keyer, c.Logger)
	defer runner.Close()

	srv := newServer(runner, c)

	httpSrv := &http.Server{
		Addr:        opts.addr,
		Handler:     srv.routes(),
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("preview API listening", "addr", opts.addr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), serveShutdownTimeout)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// server is the HTTP preview API. It tracks one in-flight render per
// session so stale previews can be cancelled when a newer one arrives.
type server struct {
	runner *pipeline.Runner
	cli    *CLI

	mu       sync.Mutex
	inflight map[string]renderSlot
}

// renderSlot identifies one in-flight render within a session.
type renderSlot struct {
	token  string
	cancel context.CancelFunc
}

func newServer(runner *pipeline.Runner, c *CLI) *server {
	return &server{
		runner:   runner,
		cli:      c,
		inflight: make(map[string]renderSlot),
	}
}

// routes builds the chi router.
func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealthz)
	r.Post("/render", s.handleRender)

	return r
}

// logRequests logs method, path, status, and duration for every request.
func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.cli.Logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Millisecond),
		)
	})
}

func (s *server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "ok")
}

// handleRender parses the posted config, renders it, and streams back the
// artifact. A request on an already-rendering session cancels the older
// render; the superseded request answers 409.
func (s *server) handleRender(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxConfigBytes))
	if err != nil {
		http.Error(w, "reading request body", http.StatusBadRequest)
		return
	}

	cfg, err := config.Parse(body)
	if err != nil {
		http.Error(w, pferrors.UserMessage(err), http.StatusBadRequest)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatPNG
	}

	session := r.Header.Get(sessionHeader)
	if session == "" {
		session = uuid.NewString()
	}

	ctx, cancel := context.WithCancel(r.Context())
	token := s.claim(session, cancel)
	defer s.release(session, token, cancel)

	result, err := s.runner.Execute(ctx, pipeline.Options{
		Config:      cfg,
		Formats:     []string{format},
		Refresh:     r.URL.Query().Get("refresh") == "true",
		SkipCatalog: r.URL.Query().Get("no_catalog") == "true",
	})
	if err != nil {
		switch {
		case ctx.Err() != nil:
			http.Error(w, "render superseded", http.StatusConflict)
		case pferrors.IsConfig(err):
			http.Error(w, pferrors.UserMessage(err), http.StatusBadRequest)
		default:
			s.cli.Logger.Error("render failed", "session", session, "err", err)
			http.Error(w, "render failed", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", contentType(format))
	w.Header().Set(sessionHeader, session)
	w.Header().Set("X-Config-Hash", result.ConfigHash)
	if result.CacheInfo.ArtifactHit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	w.Write(result.Artifacts[format])
}

// claim registers cancel as the session's in-flight render, cancelling
// any render the session already had running. It returns a token that
// release uses to tell this render apart from a newer one.
func (s *server) claim(session string, cancel context.CancelFunc) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.inflight[session]; ok {
		prev.cancel()
	}
	token := uuid.NewString()
	s.inflight[session] = renderSlot{token: token, cancel: cancel}
	return token
}

// release removes the session entry, but only if it still belongs to this
// request. A newer render that superseded it stays registered.
func (s *server) release(session, token string, cancel context.CancelFunc) {
	cancel()
	s.mu.Lock()
	defer s.mu.Unlock()
	if current, ok := s.inflight[session]; ok && current.token == token {
		delete(s.inflight, session)
	}
}

// contentType maps a format to its MIME type.
func contentType(format string) string {
	if format == pipeline.FormatORA {
		return "image/openraster"
	}
	return "image/png"
}
