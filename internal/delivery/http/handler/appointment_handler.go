package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go-dental-clinic/internal/delivery/dto"
	"go-dental-clinic/internal/delivery/http/middleware"
	"go-dental-clinic/internal/domain/availability"
	"go-dental-clinic/internal/service"
	"go-dental-clinic/internal/usecase"
	"go-dental-clinic/pkg/response"
	"go-dental-clinic/pkg/validator"

	"github.com/google/uuid"
)

type AppointmentHandler struct {
	appointmentUsecase usecase.AppointmentUsecase
	validator          *validator.CustomValidator
}

func NewAppointmentHandler(appointmentUsecase usecase.AppointmentUsecase, validator *validator.CustomValidator) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUsecase: appointmentUsecase,
		validator:          validator,
	}
}

// writeAppointmentError maps booking and transition errors to responses
func writeAppointmentError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, usecase.ErrUnauthenticated):
		response.Unauthorized(w, "")
	case errors.Is(err, usecase.ErrClinicNotFound):
		response.NotFound(w, "Clinic not found")
	case errors.Is(err, usecase.ErrAppointmentNotFound):
		response.NotFound(w, "Appointment not found")
	case errors.Is(err, usecase.ErrDoctorNotFound):
		response.NotFound(w, "Doctor not found")
	case errors.Is(err, usecase.ErrPatientNotFound):
		response.NotFound(w, "Patient not found")
	case errors.Is(err, usecase.ErrSlotTaken), errors.Is(err, service.ErrSlotHeld):
		response.Conflict(w, "Slot is already booked")
	case errors.Is(err, usecase.ErrInvalidTransition):
		response.Conflict(w, "Appointment can no longer change status")
	case errors.Is(err, usecase.ErrDoctorInactive),
		errors.Is(err, usecase.ErrSlotNotOffered),
		errors.Is(err, usecase.ErrAppointmentInPast),
		errors.Is(err, usecase.ErrInvalidProcedure),
		errors.Is(err, usecase.ErrInvalidStatus),
		errors.Is(err, usecase.ErrInvalidPrice),
		errors.Is(err, usecase.ErrInvalidDateFormat),
		errors.Is(err, availability.ErrInvalidClock):
		response.BadRequest(w, err.Error())
	default:
		response.InternalServerError(w, fallback)
	}
}

// GetSlots handles GET /doctors/{id}/slots?date=YYYY-MM-DD for staff
func (h *AppointmentHandler) GetSlots(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := pathUUID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid doctor ID")
		return
	}

	clinicID, ok := middleware.GetClinicIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	h.writeSlots(w, r, clinicID, doctorID)
}

// GetPublicSlots handles GET /public/clinics/{clinicId}/doctors/{id}/slots
func (h *AppointmentHandler) GetPublicSlots(w http.ResponseWriter, r *http.Request) {
	clinicID, ok := pathUUID(r, "clinicId")
	if !ok {
		response.BadRequest(w, "Invalid clinic ID")
		return
	}
	doctorID, ok := pathUUID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid doctor ID")
		return
	}

	h.writeSlots(w, r, clinicID, doctorID)
}

func (h *AppointmentHandler) writeSlots(w http.ResponseWriter, r *http.Request, clinicID, doctorID uuid.UUID) {
	date := r.URL.Query().Get("date")
	if date == "" {
		response.BadRequest(w, "date is required")
		return
	}

	slots, err := h.appointmentUsecase.GetSlots(r.Context(), clinicID, doctorID, date)
	if err != nil {
		writeAppointmentError(w, err, "Failed to get slots")
		return
	}

	response.Success(w, http.StatusOK, "Slots retrieved successfully", slots)
}

func (h *AppointmentHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.appointmentUsecase.CreateAppointment(r.Context(), &req)
	if err != nil {
		writeAppointmentError(w, err, "Failed to create appointment")
		return
	}

	response.Success(w, http.StatusCreated, "Appointment created successfully", appointment)
}

// ListAppointments handles GET /appointments?date=&doctor_id=&status=
func (h *AppointmentHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := &dto.AppointmentListQuery{
		Date:   q.Get("date"),
		Status: q.Get("status"),
	}
	if v := q.Get("doctor_id"); v != "" {
		doctorID, err := uuid.Parse(v)
		if err != nil {
			response.BadRequest(w, "Invalid doctor ID")
			return
		}
		query.DoctorID = doctorID
	}

	appointments, err := h.appointmentUsecase.ListAppointments(r.Context(), query)
	if err != nil {
		writeAppointmentError(w, err, "Failed to get appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

func (h *AppointmentHandler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	appointmentID, ok := pathUUID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid appointment ID")
		return
	}

	appointment, err := h.appointmentUsecase.GetAppointment(r.Context(), appointmentID)
	if err != nil {
		writeAppointmentError(w, err, "Failed to get appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment retrieved successfully", appointment)
}

func (h *AppointmentHandler) RescheduleAppointment(w http.ResponseWriter, r *http.Request) {
	appointmentID, ok := pathUUID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid appointment ID")
		return
	}

	var req dto.RescheduleAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.appointmentUsecase.RescheduleAppointment(r.Context(), appointmentID, &req)
	if err != nil {
		writeAppointmentError(w, err, "Failed to reschedule appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment rescheduled successfully", appointment)
}

func (h *AppointmentHandler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	appointmentID, ok := pathUUID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid appointment ID")
		return
	}

	appointment, err := h.appointmentUsecase.CancelAppointment(r.Context(), appointmentID)
	if err != nil {
		writeAppointmentError(w, err, "Failed to cancel appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment cancelled successfully", appointment)
}

func (h *AppointmentHandler) AttendAppointment(w http.ResponseWriter, r *http.Request) {
	appointmentID, ok := pathUUID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid appointment ID")
		return
	}

	// body is optional
	var req dto.AttendAppointmentRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
			return
		}
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.appointmentUsecase.AttendAppointment(r.Context(), appointmentID, &req)
	if err != nil {
		writeAppointmentError(w, err, "Failed to attend appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment attended successfully", appointment)
}

func (h *AppointmentHandler) MarkNoShow(w http.ResponseWriter, r *http.Request) {
	appointmentID, ok := pathUUID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid appointment ID")
		return
	}

	appointment, err := h.appointmentUsecase.MarkNoShow(r.Context(), appointmentID)
	if err != nil {
		writeAppointmentError(w, err, "Failed to mark no-show")
		return
	}

	response.Success(w, http.StatusOK, "Appointment marked as no-show", appointment)
}
