package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/xelth-com/esimchatgo/internal/buildinfo"
	"github.com/xelth-com/esimchatgo/internal/chat"
	"github.com/xelth-com/esimchatgo/internal/config"
	"github.com/xelth-com/esimchatgo/internal/database"
	"github.com/xelth-com/esimchatgo/internal/middleware"
	"github.com/xelth-com/esimchatgo/internal/orders"
	"github.com/xelth-com/esimchatgo/internal/settings"
	"github.com/xelth-com/esimchatgo/internal/web"
	ws "github.com/xelth-com/esimchatgo/internal/websocket"
)

// Router wraps the mux router and the request-scoped dependencies
type Router struct {
	*mux.Router
	cfg      *config.Config
	db       *database.DB
	chat     *chat.Service
	orders   *orders.Dataset
	settings *settings.Store
	hub      *ws.Hub
}

// NewRouter creates a new HTTP router with all routes
func NewRouter(cfg *config.Config, db *database.DB, chatSvc *chat.Service, dataset *orders.Dataset, store *settings.Store, hub *ws.Hub) *Router {
	r := &Router{
		Router:   mux.NewRouter(),
		cfg:      cfg,
		db:       db,
		chat:     chatSvc,
		orders:   dataset,
		settings: store,
		hub:      hub,
	}

	// Health check endpoint
	r.HandleFunc("/health", r.healthCheck).Methods("GET")

	// Chat endpoints
	r.HandleFunc("/chat", r.postChat).Methods("POST")
	r.HandleFunc("/ws", r.serveWs).Methods("GET")

	// Order lookup endpoints
	r.HandleFunc("/orders", r.getOrders).Methods("GET")
	r.HandleFunc("/orders/qr", r.getOrderQR).Methods("GET")
	r.HandleFunc("/orders/receipt", r.getOrderReceipt).Methods("GET")

	// Auth routes
	auth := r.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login", r.login).Methods("POST")

	// Admin routes (protected)
	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.Auth(cfg.JWTSecret))
	admin.HandleFunc("/settings", r.getSettings).Methods("GET")
	admin.HandleFunc("/settings", r.updateSettings).Methods("PUT")

	// Embedded demo widget page
	fsys, err := web.GetFileSystem()
	if err != nil {
		log.Printf("⚠️ Widget assets unavailable: %v", err)
	} else {
		r.PathPrefix("/").Handler(http.FileServer(http.FS(fsys)))
	}

	return r
}

// healthCheck returns the health status of the API
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	resp := map[string]interface{}{
		"status":    "ok",
		"startTime": buildinfo.StartTime,
	}
	if buildinfo.CommitHash != "" {
		resp["commit"] = buildinfo.CommitHash
	}
	if r.hub != nil {
		resp["sessions"] = r.hub.SessionCount()
	}
	respondJSON(w, http.StatusOK, resp)
}

// serveWs upgrades the connection for the widget transport
func (r *Router) serveWs(w http.ResponseWriter, req *http.Request) {
	if r.hub == nil {
		respondError(w, http.StatusServiceUnavailable, "websocket transport disabled")
		return
	}
	ws.ServeWs(r.hub, r.chat.Respond, w, req)
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
