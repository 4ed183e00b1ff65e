package handler

import (
	"encoding/json"
	"net/http"

	"go-dental-clinic/internal/delivery/dto"
	"go-dental-clinic/internal/usecase"
	"go-dental-clinic/pkg/response"
	"go-dental-clinic/pkg/validator"
)

type ClinicalRecordHandler struct {
	clinicalRecordUsecase usecase.ClinicalRecordUsecase
	validator             *validator.CustomValidator
}

func NewClinicalRecordHandler(clinicalRecordUsecase usecase.ClinicalRecordUsecase, validator *validator.CustomValidator) *ClinicalRecordHandler {
	return &ClinicalRecordHandler{
		clinicalRecordUsecase: clinicalRecordUsecase,
		validator:             validator,
	}
}

func (h *ClinicalRecordHandler) GetAnamnesis(w http.ResponseWriter, r *http.Request) {
	patientID, ok := pathUUID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid patient ID")
		return
	}

	anamnesis, err := h.clinicalRecordUsecase.GetAnamnesis(r.Context(), patientID)
	if err != nil {
		switch err {
		case usecase.ErrUnauthenticated:
			response.Unauthorized(w, "")
		case usecase.ErrPatientNotFound:
			response.NotFound(w, "Patient not found")
		case usecase.ErrAnamnesisNotFound:
			response.NotFound(w, "Anamnesis not found")
		default:
			response.InternalServerError(w, "Failed to get anamnesis")
		}
		return
	}

	response.Success(w, http.StatusOK, "Anamnesis retrieved successfully", anamnesis)
}

func (h *ClinicalRecordHandler) UpsertAnamnesis(w http.ResponseWriter, r *http.Request) {
	patientID, ok := pathUUID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid patient ID")
		return
	}

	var req dto.UpsertAnamnesisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	anamnesis, err := h.clinicalRecordUsecase.UpsertAnamnesis(r.Context(), patientID, &req)
	if err != nil {
		switch err {
		case usecase.ErrUnauthenticated:
			response.Unauthorized(w, "")
		case usecase.ErrPatientNotFound:
			response.NotFound(w, "Patient not found")
		default:
			response.InternalServerError(w, "Failed to save anamnesis")
		}
		return
	}

	response.Success(w, http.StatusOK, "Anamnesis saved successfully", anamnesis)
}

func (h *ClinicalRecordHandler) GetOdontogram(w http.ResponseWriter, r *http.Request) {
	patientID, ok := pathUUID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid patient ID")
		return
	}

	odontogram, err := h.clinicalRecordUsecase.GetOdontogram(r.Context(), patientID)
	if err != nil {
		switch err {
		case usecase.ErrUnauthenticated:
			response.Unauthorized(w, "")
		case usecase.ErrPatientNotFound:
			response.NotFound(w, "Patient not found")
		default:
			response.InternalServerError(w, "Failed to get odontogram")
		}
		return
	}

	response.Success(w, http.StatusOK, "Odontogram retrieved successfully", odontogram)
}

func (h *ClinicalRecordHandler) AddOdontogramMark(w http.ResponseWriter, r *http.Request) {
	patientID, ok := pathUUID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid patient ID")
		return
	}

	var req dto.CreateOdontogramMarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	mark, err := h.clinicalRecordUsecase.AddOdontogramMark(r.Context(), patientID, &req)
	if err != nil {
		switch err {
		case usecase.ErrUnauthenticated:
			response.Unauthorized(w, "")
		case usecase.ErrPatientNotFound:
			response.NotFound(w, "Patient not found")
		case usecase.ErrInvalidToothSurface, usecase.ErrInvalidToothCondition:
			response.BadRequest(w, err.Error())
		default:
			response.InternalServerError(w, "Failed to add odontogram mark")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Odontogram mark added successfully", mark)
}

func (h *ClinicalRecordHandler) DeleteOdontogramMark(w http.ResponseWriter, r *http.Request) {
	patientID, ok := pathUUID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid patient ID")
		return
	}
	markID, ok := pathUUID(r, "markId")
	if !ok {
		response.BadRequest(w, "Invalid mark ID")
		return
	}

	if err := h.clinicalRecordUsecase.DeleteOdontogramMark(r.Context(), patientID, markID); err != nil {
		switch err {
		case usecase.ErrUnauthenticated:
			response.Unauthorized(w, "")
		case usecase.ErrOdontogramMarkNotFound:
			response.NotFound(w, "Odontogram mark not found")
		default:
			response.InternalServerError(w, "Failed to delete odontogram mark")
		}
		return
	}

	response.Success(w, http.StatusOK, "Odontogram mark deleted successfully", nil)
}
