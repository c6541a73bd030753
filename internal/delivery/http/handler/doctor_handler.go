package handler

import (
	"net/http"
	"strconv"

	"clinical-scan-support/internal/usecase"
	"clinical-scan-support/pkg/response"

	"github.com/gorilla/mux"
)

type DoctorHandler struct {
	scanUsecase usecase.ScanLifecycleUsecase
}

func NewDoctorHandler(scanUsecase usecase.ScanLifecycleUsecase) *DoctorHandler {
	return &DoctorHandler{scanUsecase: scanUsecase}
}

// Workqueue lists every scan in the system so the doctor dashboard can show
// progress across all states.
func (h *DoctorHandler) Workqueue(w http.ResponseWriter, r *http.Request) {
	result, err := h.scanUsecase.Workqueue(r.Context())
	if err != nil {
		response.FromAppError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Scans retrieved", result)
}

// Analyze triggers the AI classification stage for a scan.
func (h *DoctorHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	scanID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid scan ID", nil)
		return
	}

	result, err := h.scanUsecase.Analyze(r.Context(), uint(scanID))
	if err != nil {
		response.FromAppError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Analysis complete", result)
}

// Verify records the doctor's clinical notes, sent as the "notes" form field.
func (h *DoctorHandler) Verify(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	scanID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid scan ID", nil)
		return
	}

	result, err := h.scanUsecase.Verify(r.Context(), uint(scanID), r.FormValue("notes"))
	if err != nil {
		response.FromAppError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Scan verified", result)
}
