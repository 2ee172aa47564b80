package api

import (
	"net/http"
	"trip-planner-service/internal/api/handlers"
	"trip-planner-service/internal/ports"

	"go.uber.org/zap"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
// The trip lookup endpoint is only mounted when a repository is configured.
func NewRouter(log *zap.Logger, planner handlers.TripPlanner, trips ports.TripRepository) http.Handler {
	mux := http.NewServeMux()

	tripHandler := &handlers.TripHandler{Planner: planner, Trips: trips}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/api/trips/plan", tripHandler.Plan)
	if trips != nil {
		mux.HandleFunc("/api/trips/{id}", tripHandler.Get)
	}

	return requestIDMiddleware(loggingMiddleware(log, mux))
}
