package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

// GenerateAPI holds the dependencies for the generation endpoints.
type GenerateAPI struct {
	worker        *ChainWorker
	stats         *StatsAPI
	defaultTarget int
	logger        *slog.Logger
}

// NewGenerateAPI creates a new instance of the GenerateAPI.
func NewGenerateAPI(worker *ChainWorker, stats *StatsAPI, defaultTarget int, logger *slog.Logger) *GenerateAPI {
	return &GenerateAPI{
		worker:        worker,
		stats:         stats,
		defaultTarget: defaultTarget,
		logger:        logger,
	}
}

// RegisterRoutes sets up the routing for the generation endpoints.
func (g *GenerateAPI) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/generate", g.handleGenerate)
	mux.HandleFunc("/api/train", g.handleTrain)
	mux.HandleFunc("/api/sizes", g.handleSizes)
}

// GenerateRequest is the request body for /api/generate. Both fields are
// optional: a missing seed starts from a sentence boundary, a missing target
// falls back to the configured default.
type GenerateRequest struct {
	Seed   *string `json:"seed"`
	Target *int    `json:"target"`
}

// GenerateResponse carries the generated sequence, or null when the seed was
// unknown or a dead end. Absence is an expected outcome, not an error.
type GenerateResponse struct {
	Response *string `json:"response"`
}

// handleGenerate runs one best-effort generation through the chain worker.
func (g *GenerateAPI) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid JSON request body")
		return
	}

	var seed string
	if req.Seed != nil {
		seed = *req.Seed
	}
	target := g.defaultTarget
	if req.Target != nil {
		target = *req.Target
	}

	out, ok := g.worker.Generate(seed, target)

	if err := g.stats.LogRequest(r.Context(), seed, ok); err != nil {
		g.logger.Error("Failed to record request stats", "error", err)
	}

	resp := GenerateResponse{}
	if ok {
		resp.Response = &out
	} else {
		g.logger.Debug("Generation found no result", slog.String("seed", seed), slog.Int("target", target))
	}
	respondWithJSON(w, http.StatusOK, resp)
}

// handleTrain ingests the request body into the chain, line by line.
func (g *GenerateAPI) handleTrain(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	if err := g.worker.Feed(r.Body); err != nil {
		g.logger.Error("Failed to ingest training data", "error", err)
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Training failed: %v", err))
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// handleSizes reports index sizes for diagnostics.
func (g *GenerateAPI) handleSizes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	respondWithJSON(w, http.StatusOK, g.worker.Sizes())
}
