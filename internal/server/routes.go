package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/SidneyBovet/online-chibre/internal/database"

	"go.uber.org/zap"
)

// HandleRoutes registers the results REST API on the given mux.
func HandleRoutes(mux *http.ServeMux, db *database.Service, logger *zap.Logger) {
	mux.HandleFunc("/api/results/player/{name}", func(w http.ResponseWriter, r *http.Request) {
		GetResultsByPlayerHandler(db, logger, w, r)
	})
	mux.HandleFunc("/api/results", func(w http.ResponseWriter, r *http.Request) {
		GetResultsHandler(db, logger, w, r)
	})
	logger.Info("registered results routes",
		zap.Strings("paths", []string{"/api/results", "/api/results/player/{name}"}))
}

// GetResultsByPlayerHandler returns all results for one player name.
func GetResultsByPlayerHandler(db *database.Service, logger *zap.Logger, w http.ResponseWriter, r *http.Request) {
	player := r.PathValue("name")
	if player == "" {
		http.Error(w, "Player name is required", http.StatusBadRequest)
		return
	}

	results, err := db.GetByPlayer(player)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "No results found for player", http.StatusNotFound)
			return
		}
		logger.Error("fetching results by player failed", zap.String("player", player), zap.Error(err))
		http.Error(w, "Failed to fetch results", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(results)
}

// GetResultsHandler returns every stored match result.
func GetResultsHandler(db *database.Service, logger *zap.Logger, w http.ResponseWriter, r *http.Request) {
	results, err := db.GetAll()
	if err != nil {
		logger.Error("fetching results failed", zap.Error(err))
		http.Error(w, "Failed to fetch results", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(results)
}
