package handler

import (
	"net/http"
	"strconv"

	"clinical-scan-support/internal/usecase"
	"clinical-scan-support/pkg/apperr"
	"clinical-scan-support/pkg/response"

	"github.com/gorilla/mux"
)

type AdminHandler struct {
	scanUsecase usecase.ScanLifecycleUsecase
}

func NewAdminHandler(scanUsecase usecase.ScanLifecycleUsecase) *AdminHandler {
	return &AdminHandler{scanUsecase: scanUsecase}
}

// Pending lists scans awaiting final approval, i.e. those at
// PHARMACIST_COMPLETED.
func (h *AdminHandler) Pending(w http.ResponseWriter, r *http.Request) {
	result, err := h.scanUsecase.AdminPending(r.Context())
	if err != nil {
		response.FromAppError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Pending approvals retrieved", result)
}

// Approve commits the terminal transition and schedules report delivery.
// A patient without an email address is reported as 422: the scan itself is
// fine, but the approval cannot proceed until the profile is fixed.
func (h *AdminHandler) Approve(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	scanID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid scan ID", nil)
		return
	}

	result, err := h.scanUsecase.Approve(r.Context(), uint(scanID))
	if err != nil {
		if apperr.IsKind(err, apperr.KindValidation) {
			response.Error(w, http.StatusUnprocessableEntity, err.Error(), nil)
			return
		}
		response.FromAppError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Report approved", result)
}
