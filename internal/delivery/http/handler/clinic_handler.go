package handler

import (
	"encoding/json"
	"net/http"

	"go-dental-clinic/internal/delivery/dto"
	"go-dental-clinic/internal/usecase"
	"go-dental-clinic/pkg/response"
	"go-dental-clinic/pkg/validator"
)

type ClinicHandler struct {
	clinicUsecase usecase.ClinicUsecase
	validator     *validator.CustomValidator
}

func NewClinicHandler(clinicUsecase usecase.ClinicUsecase, validator *validator.CustomValidator) *ClinicHandler {
	return &ClinicHandler{
		clinicUsecase: clinicUsecase,
		validator:     validator,
	}
}

func (h *ClinicHandler) GetClinic(w http.ResponseWriter, r *http.Request) {
	clinic, err := h.clinicUsecase.GetClinic(r.Context())
	if err != nil {
		switch err {
		case usecase.ErrUnauthenticated:
			response.Unauthorized(w, "")
		case usecase.ErrClinicNotFound:
			response.NotFound(w, "Clinic not found")
		default:
			response.InternalServerError(w, "Failed to get clinic")
		}
		return
	}

	response.Success(w, http.StatusOK, "Clinic retrieved successfully", clinic)
}

func (h *ClinicHandler) UpdateClinic(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateClinicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	clinic, err := h.clinicUsecase.UpdateClinic(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrUnauthenticated:
			response.Unauthorized(w, "")
		case usecase.ErrClinicNotFound:
			response.NotFound(w, "Clinic not found")
		default:
			response.InternalServerError(w, "Failed to update clinic")
		}
		return
	}

	response.Success(w, http.StatusOK, "Clinic updated successfully", clinic)
}
