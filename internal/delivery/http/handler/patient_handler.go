package handler

import (
	"net/http"
	"strconv"

	"clinical-scan-support/internal/usecase"
	"clinical-scan-support/pkg/response"

	"github.com/gorilla/mux"
)

// maxScanUploadBytes caps the multipart form held in memory per upload.
const maxScanUploadBytes = 32 << 20

type PatientHandler struct {
	scanUsecase usecase.ScanLifecycleUsecase
}

func NewPatientHandler(scanUsecase usecase.ScanLifecycleUsecase) *PatientHandler {
	return &PatientHandler{scanUsecase: scanUsecase}
}

// UploadScan accepts a multipart form with a "patient_id" field and the scan
// image under "file".
func (h *PatientHandler) UploadScan(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxScanUploadBytes); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid multipart form", nil)
		return
	}

	patientID, err := strconv.ParseUint(r.FormValue("patient_id"), 10, 64)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid or missing 'patient_id' field", nil)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Missing 'file' field", nil)
		return
	}
	defer file.Close()

	result, err := h.scanUsecase.Upload(r.Context(), uint(patientID), header.Filename, file)
	if err != nil {
		response.FromAppError(w, err)
		return
	}

	response.Success(w, http.StatusCreated, "Scan uploaded", result)
}

// Status lists every scan belonging to the patient in the path.
func (h *PatientHandler) Status(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	patientID, err := strconv.ParseUint(vars["patient_id"], 10, 64)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid patient ID", nil)
		return
	}

	result, err := h.scanUsecase.PatientScans(r.Context(), uint(patientID))
	if err != nil {
		response.FromAppError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Scans retrieved", result)
}
