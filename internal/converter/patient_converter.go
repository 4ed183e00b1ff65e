package converter

import (
	"go-dental-clinic/internal/delivery/dto"
	"go-dental-clinic/internal/domain/entity"
)

func PatientToResponse(patient *entity.Patient) *dto.PatientResponse {
	if patient == nil {
		return nil
	}

	return &dto.PatientResponse{
		ID:             patient.ID,
		FullName:       patient.FullName,
		DocumentNumber: patient.DocumentNumber,
		DateOfBirth:    patient.DateOfBirth.Format(DateLayout),
		Gender:         patient.Gender,
		PhoneNumber:    patient.PhoneNumber,
		Email:          patient.Email,
		Address:        patient.Address,
		Notes:          patient.Notes,
		CreatedAt:      patient.CreatedAt,
		UpdatedAt:      patient.UpdatedAt,
	}
}

func PatientsToResponses(patients []entity.Patient) []dto.PatientResponse {
	responses := make([]dto.PatientResponse, len(patients))
	for i := range patients {
		responses[i] = *PatientToResponse(&patients[i])
	}
	return responses
}
