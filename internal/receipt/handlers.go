package receipt

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
)

// maxTextSize bounds the OCR text accepted by /api/extract
const maxTextSize = 1 << 20 // 1MB

// writeJSON encodes v as the response body with the given status
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// writeError writes a JSON error body
func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, map[string]string{
		"error": message,
	})
}

// handleExtract extracts a receipt from OCR text sent as text/plain or as
// JSON of the form {"text": "..."}
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxTextSize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Text is too large. Maximum size is 1MB.")
			return
		}
		slog.Error("Error reading request body", "error", err)
		writeError(w, http.StatusBadRequest, "Error reading request body")
		return
	}

	text := string(body)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var req struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(body, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		text = req.Text
	}

	receipt, err := s.service.Extract(text)
	if err != nil {
		if errors.Is(err, ErrEmptyText) {
			writeError(w, http.StatusBadRequest, "No receipt text provided")
			return
		}
		slog.Error("Error extracting receipt", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, receipt)
}

// handleHealth reports liveness and the tagger in use
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"tagger": s.service.TaggerName(),
	})
}
