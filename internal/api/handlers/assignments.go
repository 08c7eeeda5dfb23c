package handlers

import (
	"bytes"
	"delivery-assign-service/internal/adapters/export"
	"delivery-assign-service/internal/adapters/ingest"
	"delivery-assign-service/internal/api/dto"
	"delivery-assign-service/internal/metrics"
	"delivery-assign-service/internal/ports"
	"delivery-assign-service/internal/services"
	"errors"
	"fmt"
	"log"
	"net/http"
)

const (
	defaultMaxUploadBytes = 20 << 20
	xlsxContentType       = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// AssignmentHandler runs the assignment engine over an uploaded order sheet.
type AssignmentHandler struct {
	Engine         *services.Orchestrator
	Runs           ports.RunRepository
	Events         ports.EventPublisher
	MaxUploadBytes int64
}

// Create accepts a multipart upload with a "file" part (.xlsx or .csv),
// stores the resulting run and returns it. With ?format=xlsx the records are
// returned as a workbook instead, the run id in the X-Run-ID header.
func (h *AssignmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	limit := h.MaxUploadBytes
	if limit <= 0 {
		limit = defaultMaxUploadBytes
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, `multipart field "file" is required`)
		return
	}
	defer file.Close()

	sheet, err := ingest.Read(header.Filename, file)
	if err != nil {
		if errors.Is(err, ingest.ErrInvalidInput) {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("read upload failed: file=%q err=%v", header.Filename, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	result, err := h.Engine.Run(r.Context(), sheet.Orders, sheet.Drivers)
	if err != nil {
		metrics.Runs.WithLabelValues("error").Inc()
		log.Printf("assignment run failed: file=%q err=%v", header.Filename, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	run := &ports.AssignmentRun{
		SourceName:  header.Filename,
		Summary:     result.Summary,
		Assignments: result.Assignments,
	}
	if err := h.Runs.SaveRun(r.Context(), run); err != nil {
		metrics.Runs.WithLabelValues("error").Inc()
		log.Printf("save run failed: file=%q err=%v", header.Filename, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	if result.Empty() {
		metrics.Runs.WithLabelValues("empty").Inc()
	} else {
		metrics.Runs.WithLabelValues("ok").Inc()
	}

	if h.Events != nil {
		if err := h.Events.PublishRunCompleted(r.Context(), run); err != nil {
			log.Printf("publish run completed failed: run_id=%s err=%v", run.ID, err)
		}
	}

	log.Printf(
		"assignment run stored: run_id=%s file=%q orders=%d assignments=%d sla_success=%d sla_failed=%d",
		run.ID, run.SourceName, run.Summary.Orders, run.Summary.Assignments, run.Summary.SLASuccess, run.Summary.SLAFailed,
	)

	if r.URL.Query().Get("format") == "xlsx" {
		writeWorkbook(w, r, run)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewRunResponse(run))
}

func writeWorkbook(w http.ResponseWriter, r *http.Request, run *ports.AssignmentRun) {
	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, run.Assignments); err != nil {
		log.Printf("export run failed: run_id=%s err=%v", run.ID, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="assignments-%s.xlsx"`, run.ID))
	w.Header().Set("X-Run-ID", run.ID)
	if len(run.Assignments) == 0 {
		w.Header().Set("X-Warning", dto.NoAssignmentsWarning)
	}
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("write workbook failed: run_id=%s err=%v", run.ID, err)
	}
}
