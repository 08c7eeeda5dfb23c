package handlers

import (
	"delivery-assign-service/internal/api/dto"
	"delivery-assign-service/internal/ports"
	"errors"
	"log"
	"net/http"
)

// RunHandler exposes stored assignment runs.
type RunHandler struct {
	Runs ports.RunRepository
}

func (h *RunHandler) Get(w http.ResponseWriter, r *http.Request) {
	run, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, dto.NewRunResponse(run))
}

// Export downloads a stored run as an .xlsx workbook.
func (h *RunHandler) Export(w http.ResponseWriter, r *http.Request) {
	run, ok := h.load(w, r)
	if !ok {
		return
	}
	writeWorkbook(w, r, run)
}

func (h *RunHandler) load(w http.ResponseWriter, r *http.Request) (*ports.AssignmentRun, bool) {
	if !allowMethod(w, r, http.MethodGet) {
		return nil, false
	}

	id := r.PathValue("id")
	if id == "" {
		writeError(w, r, http.StatusBadRequest, "run id is required")
		return nil, false
	}

	run, err := h.Runs.GetRun(r.Context(), id)
	if errors.Is(err, ports.ErrRunNotFound) {
		writeError(w, r, http.StatusNotFound, "run not found")
		return nil, false
	}
	if err != nil {
		log.Printf("get run failed: run_id=%s err=%v", id, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return nil, false
	}
	return run, true
}
