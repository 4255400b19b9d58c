package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter wires all handlers behind the auth middleware. /healthz stays
// public for load balancer probes.
func NewRouter(
	auth *AuthMiddleware,
	rentals *RentalHandler,
	swaps *SwapHandler,
	sync *SyncHandler,
	notifications *NotificationHandler,
) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(auth.Handler)

	api.HandleFunc("/rentals/requests", rentals.Submit).Methods(http.MethodPost)
	api.HandleFunc("/rentals/requests", rentals.List).Methods(http.MethodGet)
	api.HandleFunc("/rentals/requests/{id:[0-9]+}", rentals.Get).Methods(http.MethodGet)
	api.HandleFunc("/rentals/requests/{id:[0-9]+}/status", rentals.Transition).Methods(http.MethodPut)

	api.HandleFunc("/swaps/requests", swaps.Submit).Methods(http.MethodPost)
	api.HandleFunc("/swaps/requests", swaps.List).Methods(http.MethodGet)
	api.HandleFunc("/swaps/requests/{id:[0-9]+}", swaps.Get).Methods(http.MethodGet)
	api.HandleFunc("/swaps/requests/{id:[0-9]+}/status", swaps.Transition).Methods(http.MethodPut)

	api.HandleFunc("/sync", sync.Snapshot).Methods(http.MethodGet)

	api.HandleFunc("/notifications", notifications.List).Methods(http.MethodGet)
	api.HandleFunc("/notifications/{id:[0-9]+}/read", notifications.MarkRead).Methods(http.MethodPut)

	return r
}
