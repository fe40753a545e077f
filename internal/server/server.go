package server

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/greenlens/greenlens/internal/utils"
	"github.com/greenlens/greenlens/pkg/catalog"
	"github.com/greenlens/greenlens/pkg/dataset"
	"github.com/greenlens/greenlens/pkg/engine"
	"github.com/greenlens/greenlens/pkg/geoindex"
	"github.com/greenlens/greenlens/pkg/repair"
)

//go:embed web
var WebFS embed.FS

// Config carries everything Run needs to bring a dashboard up.
type Config struct {
	Addr           string
	DataSource     string
	BoundarySource string
	Username       string
	Password       string

	// Initial viewport; clients adjust it via resize events.
	Width  float64
	Height float64

	// Zero disables the background dataset reload.
	ReloadInterval time.Duration
}

// Server serves one dashboard session over HTTP. The engine is not safe for
// concurrent use, so every handler takes the mutex; state transitions stay
// an event-at-a-time affair even with concurrent clients.
type Server struct {
	cfg Config
	geo *geoindex.Index

	mu     sync.Mutex
	engine *engine.Engine
}

// New builds a server over an already-loaded engine.
func New(cfg Config, eng *engine.Engine, geo *geoindex.Index) *Server {
	return &Server{cfg: cfg, geo: geo, engine: eng}
}

// Run loads the dataset and the boundary file, repairs coordinates, and
// serves the dashboard. Both inputs must load; a dashboard without either
// half is useless.
func Run(cfg Config) error {
	geo, err := geoindex.LoadBoundaries(cfg.BoundarySource)
	if err != nil {
		return fmt.Errorf("load boundaries: %w", err)
	}
	geo.RegisterAliases(catalog.DefaultAliases)

	rows, err := LoadRows(cfg.DataSource, geo)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}

	eng := engine.New(rows, geo, cfg.Width, cfg.Height)
	return New(cfg, eng, geo).Start(cfg.Addr)
}

// LoadRows loads and repairs the dataset from a source.
func LoadRows(source string, geo *geoindex.Index) ([]*dataset.Row, error) {
	rows, err := dataset.Load(source)
	if err != nil {
		return nil, err
	}
	stats := repair.Run(rows, geo)
	utils.Log.Infof("Loaded %d projects (%s)", len(rows), stats)
	return rows, nil
}

// reloadLoop refreshes the dataset on an interval. The selection state
// survives a reload; basket and overlay entries are re-resolved by identity.
func (s *Server) reloadLoop() {
	ticker := time.NewTicker(s.cfg.ReloadInterval)
	defer ticker.Stop()
	for range ticker.C {
		rows, err := LoadRows(s.cfg.DataSource, s.geo)
		if err != nil {
			utils.Log.Warnf("Dataset reload failed: %v", err)
			continue
		}
		s.mu.Lock()
		s.engine.ReplaceRows(rows)
		s.mu.Unlock()
	}
}

func (s *Server) Start(addr string) error {
	if s.cfg.ReloadInterval > 0 && s.cfg.DataSource != "" {
		go s.reloadLoop()
	}
	mux := s.Mux()
	utils.Log.Infof("Starting server on %s", addr)
	return http.ListenAndServe(addr, mux)
}

// Mux builds the route table; split out so tests can drive it directly.
func (s *Server) Mux() *http.ServeMux {
	mux := http.NewServeMux()

	// API Group
	mux.HandleFunc("GET /api/snapshot", s.basicAuth(s.handleSnapshot))
	mux.HandleFunc("POST /api/event", s.basicAuth(s.handleEvent))
	mux.HandleFunc("POST /api/reset", s.basicAuth(s.handleReset))
	mux.HandleFunc("GET /api/healthz", s.handleHealthz)

	// Static Files
	webRoot, err := fs.Sub(WebFS, "web")
	if err == nil {
		fileServer := http.FileServer(http.FS(webRoot))
		mux.Handle("/", s.basicAuthMiddlewareForStatic(fileServer))
	}
	return mux
}

func (s *Server) basicAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.Username == "" && s.cfg.Password == "" {
			next(w, r)
			return
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != s.cfg.Username || pass != s.cfg.Password {
			w.Header().Set("WWW-Authenticate", `Basic realm="Restricted"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (s *Server) basicAuthMiddlewareForStatic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.Username == "" && s.cfg.Password == "" {
			next.ServeHTTP(w, r)
			return
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != s.cfg.Username || pass != s.cfg.Password {
			w.Header().Set("WWW-Authenticate", `Basic realm="Restricted"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
