package poller

import (
	"context"
	"encoding/json"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// StatusSource reports the most recent cycle.
type StatusSource interface {
	Status() Status
}

// Pinger checks a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthServer serves GET /healthz for the poll loop.
type HealthServer struct {
	addr   string
	status StatusSource
	tags   Pinger
	server *http.Server
}

// NewHealthServer creates a health server listening on addr.
func NewHealthServer(addr string, status StatusSource, tags Pinger) *HealthServer {
	return &HealthServer{
		addr:   addr,
		status: status,
		tags:   tags,
	}
}

// Handler returns the health router.
func (h *HealthServer) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	})
	r.Get("/healthz", h.healthCheckHandler)
	return r
}

// Start binds the listener and serves in the background.
// A bind failure is returned rather than logged.
func (h *HealthServer) Start() error {
	ln, err := net.Listen("tcp", h.addr)
	if err != nil {
		return err
	}

	h.server = &http.Server{
		Handler:      h.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	go func() {
		if err := h.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.Printf("[Poller] Health server error: %v", err)
		}
	}()

	log.Printf("[Poller] Health server listening on %s", ln.Addr())
	return nil
}

// Shutdown gracefully shuts down the health server.
func (h *HealthServer) Shutdown(ctx context.Context) error {
	if h.server == nil {
		return nil
	}
	return h.server.Shutdown(ctx)
}

// healthCheckHandler returns 200 when the tag index answers and the last
// cycle succeeded, 503 otherwise.
func (h *HealthServer) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := h.status.Status()
	response := HealthResponse{
		Status:     "healthy",
		LastCycle:  status.LastCycle,
		LastAt:     status.LastAt,
		LastAction: status.LastAction,
		LastError:  status.LastError,
		TagIndex:   "connected",
	}
	code := http.StatusOK

	if err := h.tags.Ping(ctx); err != nil {
		response.TagIndex = "disconnected"
		response.Error = err.Error()
		code = http.StatusServiceUnavailable
	}
	if status.Failed() {
		code = http.StatusServiceUnavailable
	}
	if code != http.StatusOK {
		response.Status = "unhealthy"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(response)
}

// HealthResponse is the JSON body of GET /healthz.
type HealthResponse struct {
	Status     string     `json:"status"`
	LastCycle  string     `json:"last_cycle,omitempty"`
	LastAt     *time.Time `json:"last_at,omitempty"`
	LastAction string     `json:"last_action,omitempty"`
	LastError  string     `json:"last_error,omitempty"`
	TagIndex   string     `json:"tag_index"`
	Error      string     `json:"error,omitempty"`
}
