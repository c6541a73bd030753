package handler

import (
	"net/http"
	"strconv"

	"clinical-scan-support/internal/usecase"
	"clinical-scan-support/pkg/response"

	"github.com/gorilla/mux"
)

type PharmacistHandler struct {
	scanUsecase usecase.ScanLifecycleUsecase
}

func NewPharmacistHandler(scanUsecase usecase.ScanLifecycleUsecase) *PharmacistHandler {
	return &PharmacistHandler{scanUsecase: scanUsecase}
}

// Queue lists scans awaiting prescription, i.e. those at DOCTOR_VERIFIED.
func (h *PharmacistHandler) Queue(w http.ResponseWriter, r *http.Request) {
	result, err := h.scanUsecase.PharmacistQueue(r.Context())
	if err != nil {
		response.FromAppError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Queue retrieved", result)
}

// Complete records the prescription, sent as the "notes" form field.
func (h *PharmacistHandler) Complete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	scanID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid scan ID", nil)
		return
	}

	result, err := h.scanUsecase.Complete(r.Context(), uint(scanID), r.FormValue("notes"))
	if err != nil {
		response.FromAppError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Prescription completed", result)
}
