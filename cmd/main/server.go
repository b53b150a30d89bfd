package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

// Server wires the HTTP front end: the generation endpoints, the stats
// endpoints, and the shared mux. All chain access goes through the worker.
type Server struct {
	config      *Config
	logger      *slog.Logger
	worker      *ChainWorker
	generateAPI *GenerateAPI
	statsAPI    *StatsAPI
	mux         *http.ServeMux
}

// NewServer builds a Server and registers every route on its mux.
func NewServer(config *Config, logger *slog.Logger, worker *ChainWorker, db *sql.DB) *Server {
	statsAPI := NewStatsAPI(db, logger)
	generateAPI := NewGenerateAPI(worker, statsAPI, config.DefaultTarget, logger)

	server := &Server{
		config:      config,
		logger:      logger,
		worker:      worker,
		generateAPI: generateAPI,
		statsAPI:    statsAPI,
		mux:         http.NewServeMux(),
	}

	server.generateAPI.RegisterRoutes(server.mux)
	server.statsAPI.RegisterRoutes(server.mux)

	return server
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		err := json.NewEncoder(w).Encode(payload)
		if err != nil {
			fmt.Printf("ERROR: Failed to encode JSON response: %v\n", err)
		}
	}
}
