package handler

import (
	"encoding/json"
	"net/http"

	"clinical-scan-support/internal/delivery/dto"
	"clinical-scan-support/internal/usecase"
	"clinical-scan-support/pkg/response"
	"clinical-scan-support/pkg/validator"
)

type OTPHandler struct {
	otpUsecase usecase.OTPUsecase
	validator  *validator.CustomValidator
}

func NewOTPHandler(otpUsecase usecase.OTPUsecase, validator *validator.CustomValidator) *OTPHandler {
	return &OTPHandler{
		otpUsecase: otpUsecase,
		validator:  validator,
	}
}

func (h *OTPHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req dto.SendOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.otpUsecase.Send(r.Context(), &req)
	if err != nil {
		response.FromAppError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "OTP sent", result)
}

func (h *OTPHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req dto.VerifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	tokens, err := h.otpUsecase.Verify(r.Context(), &req)
	if err != nil {
		response.FromAppError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "OTP verified", tokens)
}
