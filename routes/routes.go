package routes

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"postolog/handlers"
	"postolog/middleware"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes(h *handlers.Handler) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.LoggingMiddleware)

	// =====================================================
	// Public Routes (no authentication)
	// =====================================================
	r.HandleFunc("/login", h.Login).Methods("POST")
	r.HandleFunc("/age", h.CalculateAge).Methods("POST")
	r.HandleFunc("/healthz", handleHealthz).Methods("GET")

	// =====================================================
	// Protected API Routes (require JWT authentication)
	// =====================================================
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.SecurityMiddleware)
	api.Use(middleware.JWTMiddleware)

	api.HandleFunc("/logout", h.Logout).Methods("POST")
	api.HandleFunc("/estado", h.GetSubmissionState).Methods("GET")

	// Observation log
	api.HandleFunc("/registros", h.CreateObservation).Methods("POST")
	api.HandleFunc("/registros", h.ListObservations).Methods("GET")
	api.HandleFunc("/registros/medias", h.GetAverages).Methods("GET")
	api.HandleFunc("/registros/totais-diarios", h.GetDailyTotals).Methods("GET")
	api.HandleFunc("/registros/geojson", h.GetGeoJSON).Methods("GET")
	api.HandleFunc("/registros/export/xlsx", h.ExportXLSX).Methods("GET")
	api.HandleFunc("/registros/export/csv", h.ExportCSV).Methods("GET")

	// Session order panel
	api.HandleFunc("/pedidos", h.ListOrders).Methods("GET")
	api.HandleFunc("/pedidos", h.CreateOrder).Methods("POST")
	api.HandleFunc("/pedidos/{id}", h.UpdateOrder).Methods("PUT")
	api.HandleFunc("/pedidos/{id}", h.DeleteOrder).Methods("DELETE")

	return r
}

func handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
