// Package devtools serves a read-only JSON view of a widget client over
// HTTP.
//
// Routes:
//
//	GET /widgets                 all widgets in creation order
//	GET /widgets/{id}            one widget
//	GET /widgets/{id}/layout     canonical, decoded and resolved layout
//	GET /operations              bridge operations seen by the recorder
//	GET /graph                   layout reference graph as DOT
//	GET /version                 build information
//
// The widget client is not safe for concurrent use. Requests hold the
// server's lock while reading it; hosts that mutate the client while the
// server runs must hold the same lock (see Server.Lock).
package devtools

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/tabbridge/pkg/bridge"
	"github.com/matzehuels/tabbridge/pkg/buildinfo"
	pkgio "github.com/matzehuels/tabbridge/pkg/io"
	"github.com/matzehuels/tabbridge/pkg/layout"
	"github.com/matzehuels/tabbridge/pkg/refgraph"
	"github.com/matzehuels/tabbridge/pkg/widget"
)

// Server exposes a client and its recorded bridge traffic.
type Server struct {
	client   *widget.Client
	recorder *bridge.Recorder
	logger   *log.Logger
	mu       sync.Mutex
	router   chi.Router
}

// New creates a server for client. recorder may be nil, in which case
// /operations answers 404.
func New(client *widget.Client, recorder *bridge.Recorder, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{client: client, recorder: recorder, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Get("/widgets", s.handleWidgets)
	r.Route("/widgets/{id}", func(r chi.Router) {
		r.Get("/", s.handleWidget)
		r.Get("/layout", s.handleLayout)
	})
	r.Get("/operations", s.handleOperations)
	r.Get("/graph", s.handleGraph)
	r.Get("/version", s.handleVersion)
	s.router = r
	return s
}

// Lock returns the lock guarding client access.
func (s *Server) Lock() sync.Locker {
	return &s.mu
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()
	s.logger.Info("devtools listening", "addr", addr)

	select {
	case err := <-errc:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", ww.Status(), "duration", time.Since(start))
	})
}

// WidgetInfo is the JSON view of a widget.
type WidgetInfo struct {
	CID      int64   `json:"cid"`
	Type     string  `json:"type"`
	ID       string  `json:"id,omitempty"`
	Parent   int64   `json:"parent,omitempty"`
	Children []int64 `json:"children,omitempty"`
	Layout   bool    `json:"hasLayout"`
	Queued   bool    `json:"queued"`
}

// LayoutInfo is the JSON view of a widget's layout.
type LayoutInfo struct {
	CID       int64           `json:"cid"`
	Canonical map[string]any  `json:"canonical"`
	Decoded   map[string]any  `json:"decoded"`
	Resolved  layout.Resolved `json:"resolved"`
}

func (s *Server) info(w *widget.Widget) WidgetInfo {
	info := WidgetInfo{
		CID:    w.CID(),
		Type:   w.FullType(),
		ID:     w.ID(),
		Layout: w.Layout() != nil,
		Queued: s.client.Queue().Contains(w),
	}
	if p := w.Parent(); p != nil {
		info.Parent = p.CID()
	}
	for _, c := range w.Children() {
		info.Children = append(info.Children, c.CID())
	}
	return info
}

func (s *Server) handleWidgets(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	infos := []WidgetInfo{}
	s.client.Registry().Walk(func(wd *widget.Widget) bool {
		infos = append(infos, s.info(wd))
		return true
	})
	writeJSON(w, http.StatusOK, infos)
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*widget.Widget, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid widget id")
		return nil, false
	}
	wd, ok := s.client.Lookup(id)
	if !ok {
		writeJSONError(w, http.StatusNotFound, "widget not found")
		return nil, false
	}
	return wd, true
}

func (s *Server) handleWidget(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wd, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.info(wd))
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wd, ok := s.lookup(w, r)
	if !ok {
		return
	}
	data := wd.Layout()
	writeJSON(w, http.StatusOK, LayoutInfo{
		CID:       wd.CID(),
		Canonical: pkgio.Canonical(data),
		Decoded:   pkgio.Display(layout.Decode(data)),
		Resolved:  wd.ResolvedLayout(),
	})
}

func (s *Server) handleOperations(w http.ResponseWriter, r *http.Request) {
	if s.recorder == nil {
		writeJSONError(w, http.StatusNotFound, "no recorder attached")
		return
	}
	ops := s.recorder.Operations()
	if op := r.URL.Query().Get("op"); op != "" {
		ops = s.recorder.Filter(op)
	}
	if ops == nil {
		ops = []bridge.Operation{}
	}
	writeJSON(w, http.StatusOK, ops)
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	dot := refgraph.ToDOT(s.client.Registry(), refgraph.Options{Detailed: r.URL.Query().Has("detailed")})
	s.mu.Unlock()

	w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(dot))
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
