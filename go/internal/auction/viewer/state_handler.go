package viewer

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// StateHandler serves the last projected display over HTTP
type StateHandler struct {
	store *StateStore
}

// NewStateHandler creates a new state handler
func NewStateHandler(store *StateStore) *StateHandler {
	return &StateHandler{store: store}
}

// HandleGetState handles GET /api/auction/state
func (h *StateHandler) HandleGetState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.store.Display()); err != nil {
		log.Error().Err(err).Msg("failed to encode auction state response")
	}
}

// HandleGetNotices handles GET /api/auction/notices
func (h *StateHandler) HandleGetNotices(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.store.Notices()); err != nil {
		log.Error().Err(err).Msg("failed to encode notices response")
	}
}

// RegisterStateRoutes registers state-related HTTP routes
func (h *StateHandler) RegisterStateRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/auction/state", h.HandleGetState)
	mux.HandleFunc("/api/auction/notices", h.HandleGetNotices)
}

// HealthHandler returns an HTTP handler for health checks
func HealthHandler(checker HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := checker.Check()

		w.Header().Set("Content-Type", "application/json")
		if !status.Healthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		if err := json.NewEncoder(w).Encode(status); err != nil {
			log.Error().Err(err).Msg("failed to write health check response")
		}
	}
}

// NewHTTPServer builds the viewer's local HTTP server: state API, health
// check and metrics, wrapped in CORS and served over h2c.
func NewHTTPServer(port string, store *StateStore, checker HealthChecker, gatherer prometheus.Gatherer) *http.Server {
	mux := http.NewServeMux()

	NewStateHandler(store).RegisterStateRoutes(mux)

	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("/health", HealthHandler(checker))

	c := cors.New(cors.Options{
		AllowedMethods: []string{http.MethodHead, http.MethodGet},
		AllowedOrigins: []string{"*"},
		AllowedHeaders: []string{"*"},
	})

	return &http.Server{
		Addr:        fmt.Sprintf(":%s", port),
		Handler:     h2c.NewHandler(c.Handler(mux), &http2.Server{}),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 120 * time.Second,
	}
}
