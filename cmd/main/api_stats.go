package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

const statsSchema = `
CREATE TABLE IF NOT EXISTS gen_requests (
    seed          TEXT PRIMARY KEY,
    total_hits    INTEGER NOT NULL DEFAULT 1,
    misses        INTEGER NOT NULL DEFAULT 0,
    first_seen    DATETIME NOT NULL,
    last_seen     DATETIME NOT NULL
);
`

// SeedStats is the per-seed request record. A miss is a request whose
// generation found no result (unknown or dead-end seed).
type SeedStats struct {
	Seed      string    `json:"seed"`
	TotalHits int       `json:"total_hits"`
	Misses    int       `json:"misses"`
	FirstSeen time.Time `json:"first_seen"`
	LastSeen  time.Time `json:"last_seen"`
}

// StatsSummary provides a high-level overview of all recorded requests.
type StatsSummary struct {
	TotalRequests int64 `json:"total_requests"`
	UniqueSeeds   int64 `json:"unique_seeds"`
	TotalMisses   int64 `json:"total_misses"`
}

// StatsAPI records generation requests and serves the statistics handlers.
// The stats database is wrapper diagnostics only; the chain itself is
// rebuilt from the corpus on every run.
type StatsAPI struct {
	db     *sql.DB
	logger *slog.Logger
}

func setupStatsSchema(db *sql.DB) error {
	_, err := db.Exec(statsSchema)
	return err
}

func NewStatsAPI(db *sql.DB, logger *slog.Logger) *StatsAPI {
	return &StatsAPI{
		db:     db,
		logger: logger,
	}
}

func (s *StatsAPI) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/stats/summary", s.handleSummary)
	mux.HandleFunc("/api/stats/top_seeds", s.handleTopSeeds)
}

// LogRequest upserts the record for seed, counting the request and, when the
// generation found nothing, the miss.
func (s *StatsAPI) LogRequest(ctx context.Context, seed string, found bool) error {
	miss := 0
	if !found {
		miss = 1
	}
	now := time.Now()

	_, err := s.db.ExecContext(ctx, `
        INSERT INTO gen_requests (seed, total_hits, misses, first_seen, last_seen) VALUES (?, 1, ?, ?, ?)
        ON CONFLICT(seed) DO UPDATE SET total_hits = total_hits + 1, misses = misses + ?, last_seen = ?
    `, seed, miss, now, now, miss, now)
	if err != nil {
		return fmt.Errorf("failed to upsert gen_requests: %w", err)
	}
	return nil
}

func (s *StatsAPI) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var summary StatsSummary
	err := s.db.QueryRowContext(r.Context(),
		`SELECT coalesce(SUM(total_hits), 0), COUNT(*), coalesce(SUM(misses), 0) FROM gen_requests`,
	).Scan(&summary.TotalRequests, &summary.UniqueSeeds, &summary.TotalMisses)
	if err != nil {
		s.logger.Error("Failed to query stats summary", "error", err)
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to retrieve summary: %v", err))
		return
	}
	respondWithJSON(w, http.StatusOK, summary)
}

func (s *StatsAPI) handleTopSeeds(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondWithError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	rows, err := s.db.QueryContext(r.Context(),
		`SELECT seed, total_hits, misses, first_seen, last_seen FROM gen_requests ORDER BY total_hits DESC LIMIT ?`, limit)
	if err != nil {
		s.logger.Error("Failed to query top seeds", "error", err)
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to retrieve top seeds: %v", err))
		return
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	seeds := make([]SeedStats, 0, limit)
	for rows.Next() {
		var entry SeedStats
		if err = rows.Scan(&entry.Seed, &entry.TotalHits, &entry.Misses, &entry.FirstSeen, &entry.LastSeen); err != nil {
			s.logger.Error("Failed to scan seed stats row", "error", err)
			respondWithError(w, http.StatusInternalServerError, "Failed to read seed stats")
			return
		}
		seeds = append(seeds, entry)
	}
	if err = rows.Err(); err != nil {
		s.logger.Error("Failed while iterating seed stats", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to read seed stats")
		return
	}
	respondWithJSON(w, http.StatusOK, seeds)
}
