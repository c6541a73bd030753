package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"clinical-scan-support/internal/usecase"
	"clinical-scan-support/pkg/response"

	"github.com/gorilla/mux"
)

type ReportHandler struct {
	scanUsecase usecase.ScanLifecycleUsecase
}

func NewReportHandler(scanUsecase usecase.ScanLifecycleUsecase) *ReportHandler {
	return &ReportHandler{scanUsecase: scanUsecase}
}

// Download streams the approved report PDF inline. Access control lives in
// the usecase: only REPORT_READY scans render, and patients only see their
// own.
func (h *ReportHandler) Download(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	scanID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid scan ID", nil)
		return
	}

	pdf, filename, err := h.scanUsecase.ReportPDF(r.Context(), uint(scanID))
	if err != nil {
		response.FromAppError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}
