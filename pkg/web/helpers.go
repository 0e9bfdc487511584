package web

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

// XArtistId is the header carrying the owning artist's identifier on create calls.
const XArtistId = "X-Artist-Id"

func RespondJSON(w http.ResponseWriter, logger *slog.Logger, status int, payload any) {
	// Handle nil payload
	if payload == nil {
		w.WriteHeader(status)
		return
	}

	response, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Error encoding response to JSON", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(response)
}

func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, message string) {
	RespondJSON(w, logger, status, map[string]string{"error": message})
}

// ParseID extracts the opaque record ID from the request path.
// Returns the ID and a boolean indicating success.
func ParseID(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (string, bool) {
	id := r.PathValue("id")
	if id == "" {
		RespondError(w, logger, http.StatusBadRequest, "Missing product ID")
		return "", false
	}
	return id, true
}

// GetArtistID retrieves the artist ID from the request header.
// Returns the artist ID and a boolean indicating success.
func GetArtistID(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (string, bool) {
	artistID := r.Header.Get(XArtistId)
	if artistID == "" {
		RespondError(w, logger, http.StatusBadRequest, fmt.Sprintf("Missing %s header", XArtistId))
		return "", false
	}
	return artistID, true
}
