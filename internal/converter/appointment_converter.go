package converter

import (
	"go-dental-clinic/internal/delivery/dto"
	"go-dental-clinic/internal/domain/entity"
)

// DateLayout is the wire format of calendar dates
const DateLayout = "2006-01-02"

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO.
// Names are filled only when Doctor.User and Patient are preloaded.
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	return &dto.AppointmentResponse{
		ID:          appointment.ID,
		DoctorID:    appointment.DoctorID,
		DoctorName:  appointment.Doctor.User.FullName,
		PatientID:   appointment.PatientID,
		PatientName: appointment.Patient.FullName,
		StartAt:     appointment.StartAt,
		Status:      string(appointment.Status),
		Procedure:   string(appointment.Procedure),
		Price:       appointment.Price,
		Notes:       appointment.Notes,
		CancelledAt: appointment.CancelledAt,
		AttendedAt:  appointment.AttendedAt,
		CreatedAt:   appointment.CreatedAt,
		UpdatedAt:   appointment.UpdatedAt,
	}
}

func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i])
	}
	return responses
}
