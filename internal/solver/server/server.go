// Package server exposes the solver over HTTP: POST /api/solve takes the
// JSON request and answers with the ordered step array, or a non-success
// status with an {"error": ...} body.
package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/vk/pathlab/internal/ctxlog"
	"github.com/vk/pathlab/internal/solver"
)

// Handler serves the solve API.
type Handler struct{}

// New creates the solver HTTP handler.
func New() *Handler {
	return &Handler{}
}

// Register mounts the API routes onto a mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/solve", h.handleSolve)
	mux.HandleFunc("/health", h.handleHealth)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctxlog.FromContext(r.Context()).Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

func (h *Handler) handleSolve(w http.ResponseWriter, r *http.Request) {
	logger := ctxlog.FromContext(r.Context())

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	var req solver.Request
	if err := solver.Unmarshal(body, &req); err != nil {
		logger.Warn("Rejecting malformed solve request.", "error", err)
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	steps, err := solver.Solve(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, solver.ErrMissingParameters), errors.Is(err, solver.ErrInvalidAlgorithm):
			logger.Warn("Rejecting invalid solve request.", "error", err)
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			logger.Error("Solver execution failed.", "algorithm", req.Algorithm, "error", err)
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("An error occurred: %v", err))
		}
		return
	}

	logger.Info("Solve request served.", "algorithm", req.Algorithm, "steps", len(steps))
	writeJSON(w, http.StatusOK, steps)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := solver.Marshal(v)
	if err != nil {
		http.Error(w, "encoding failure", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}
