// Package preview serves a live view of an armature scene over HTTP. A
// single engine goroutine owns the scene and ticks playback; handlers talk
// to it through commands and read published snapshots.
package preview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/phanxgames/armature"
)

// ErrStopped is returned by commands sent after the engine has exited.
var ErrStopped = errors.New("preview: server stopped")

// Options configures a Server.
type Options struct {
	Path        string // scene file to load and watch
	Addr        string // listen address for Run
	FPS         int    // playback ticks per second
	Watch       bool   // reload Path when it changes on disk
	AllowOrigin string // CORS origin; empty disables CORS headers
	Config      armature.Config
	Logger      *zap.Logger
}

// command is a scene mutation executed on the engine goroutine.
type command struct {
	apply func(*armature.Scene) error
	done  chan error
}

// Server is the preview server. Create it with New.
type Server struct {
	opts  Options
	log   *zap.Logger
	scene *armature.Scene // engine goroutine only, once Serve runs

	snap     atomic.Pointer[armature.Snapshot]
	cmds     chan command
	stopped  chan struct{}
	hub      *Hub
	handler  http.Handler
	upgrader websocket.Upgrader
}

// New loads opts.Path into a fresh scene and prepares the routes.
func New(opts Options) (*Server, error) {
	if opts.FPS <= 0 {
		opts.FPS = 30
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Config == (armature.Config{}) {
		opts.Config = armature.DefaultConfig()
	}
	scene := armature.NewScene()
	scene.SetLogger(opts.Logger.Named("scene"))
	if err := scene.ApplyConfig(opts.Config); err != nil {
		return nil, err
	}
	if opts.Path != "" {
		report, err := scene.LoadFile(opts.Path)
		if err != nil {
			return nil, err
		}
		if report.Err() != nil {
			opts.Logger.Warn("scene loaded with skipped records", zap.Int("skipped", len(report.Skipped)))
		}
	}

	s := &Server{
		opts:    opts,
		log:     opts.Logger,
		scene:   scene,
		cmds:    make(chan command),
		stopped: make(chan struct{}),
		hub:     NewHub(opts.Logger.Named("hub")),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
	s.snap.Store(scene.Snapshot())
	s.handler = s.routes()
	if opts.AllowOrigin != "" {
		s.handler = cors(opts.AllowOrigin, s.handler)
	}
	return s, nil
}

// Handler returns the HTTP handler with every route.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Snapshot returns the latest published snapshot.
func (s *Server) Snapshot() *armature.Snapshot {
	return s.snap.Load()
}

// Run listens on opts.Addr and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return fmt.Errorf("preview: listen: %w", err)
	}
	return s.Serve(ctx, ln)
}

// Serve runs the engine, the websocket hub, the optional file watcher and the
// HTTP server on ln. It returns when ctx is done or any of them fails; every
// goroutine it started has exited by then.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	g, ctx := errgroup.WithContext(ctx)
	srv := &http.Server{Handler: s.handler, ReadHeaderTimeout: 5 * time.Second}

	g.Go(func() error { return s.hub.Run(ctx) })
	g.Go(func() error { return s.engine(ctx) })
	if s.opts.Watch && s.opts.Path != "" {
		g.Go(func() error { return s.watch(ctx) })
	}
	g.Go(func() error {
		s.log.Info("preview server listening", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("preview: serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// engine owns the scene: it ticks playback and executes commands.
func (s *Server) engine(ctx context.Context) error {
	defer close(s.stopped)
	ticker := time.NewTicker(time.Second / time.Duration(s.opts.FPS))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if s.scene.Playing() {
				s.scene.Update()
				s.publish(ctx)
			}
		case cmd := <-s.cmds:
			err := cmd.apply(s.scene)
			s.publish(ctx)
			cmd.done <- err
		}
	}
}

// publish stores a fresh snapshot and streams it to websocket clients.
func (s *Server) publish(ctx context.Context) {
	snap := s.scene.Snapshot()
	s.snap.Store(snap)
	data, err := json.Marshal(snap)
	if err != nil {
		s.log.Error("encode snapshot", zap.Error(err))
		return
	}
	s.hub.Broadcast(ctx, data)
}

// do runs fn on the engine goroutine and waits for its result.
func (s *Server) do(ctx context.Context, fn func(*armature.Scene) error) error {
	cmd := command{apply: fn, done: make(chan error, 1)}
	select {
	case s.cmds <- cmd:
	case <-s.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-cmd.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Reload re-reads the scene file on the engine goroutine.
func (s *Server) Reload(ctx context.Context) error {
	return s.do(ctx, func(scene *armature.Scene) error {
		report, err := scene.LoadFile(s.opts.Path)
		if err != nil {
			return err
		}
		s.log.Info("scene reloaded", zap.String("path", s.opts.Path),
			zap.Int("joints", report.Joints), zap.Int("skipped", len(report.Skipped)))
		return nil
	})
}

// --- HTTP ---

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.logRequests)
	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/scene", s.handleScene).Methods(http.MethodGet)
	api.HandleFunc("/joints/{name}", s.handleJoint).Methods(http.MethodGet)
	api.HandleFunc("/playback/toggle", s.handleToggle).Methods(http.MethodPost)
	api.HandleFunc("/playback/frame/{frame:[0-9]+}", s.handleFrame).Methods(http.MethodPost)
	r.HandleFunc("/ws/playback", s.handleWS)
	return r
}

func (s *Server) handleScene(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Snapshot())
}

func (s *Server) handleJoint(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	j, ok := s.Snapshot().Joint(name)
	if !ok {
		http.Error(w, fmt.Sprintf("joint %q not found", name), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, j)
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	s.playbackCommand(w, r, func(scene *armature.Scene) error {
		scene.Toggle()
		return nil
	})
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	frame, err := strconv.Atoi(mux.Vars(r)["frame"])
	if err != nil {
		http.Error(w, "invalid frame", http.StatusBadRequest)
		return
	}
	s.playbackCommand(w, r, func(scene *armature.Scene) error {
		scene.SetFrame(frame)
		return nil
	})
}

// playbackCommand runs fn and answers with the resulting playback state.
func (s *Server) playbackCommand(w http.ResponseWriter, r *http.Request, fn func(*armature.Scene) error) {
	if err := s.do(r.Context(), fn); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrStopped) {
			status = http.StatusServiceUnavailable
		}
		http.Error(w, err.Error(), status)
		return
	}
	writeJSON(w, http.StatusOK, s.Snapshot().Playback)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	c := &Client{ID: uuid.New(), Send: make(chan []byte, sendBuffer), conn: conn}
	if data, err := json.Marshal(s.Snapshot()); err == nil {
		c.Send <- data
	}
	if !s.hub.add(c) {
		conn.Close()
		return
	}
	go c.writePump()
	c.readPump()
	s.hub.remove(c)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.log.Debug("request", zap.String("method", r.Method), zap.String("path", r.URL.Path))
		next.ServeHTTP(w, r)
	})
}

// cors answers preflight requests and tags responses for a browser viewer
// served from origin.
func cors(origin string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
