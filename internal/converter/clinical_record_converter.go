package converter

import (
	"go-dental-clinic/internal/delivery/dto"
	"go-dental-clinic/internal/domain/entity"
)

func AnamnesisToResponse(anamnesis *entity.Anamnesis) *dto.AnamnesisResponse {
	if anamnesis == nil {
		return nil
	}

	return &dto.AnamnesisResponse{
		PatientID:      anamnesis.PatientID,
		ChiefComplaint: anamnesis.ChiefComplaint,
		Allergies:      anamnesis.Allergies,
		Medications:    anamnesis.Medications,
		Answers:        anamnesis.Answers,
		Notes:          anamnesis.Notes,
		UpdatedBy:      anamnesis.UpdatedBy,
		UpdatedAt:      anamnesis.UpdatedAt,
	}
}

func OdontogramMarkToResponse(mark *entity.OdontogramMark) *dto.OdontogramMarkResponse {
	if mark == nil {
		return nil
	}

	return &dto.OdontogramMarkResponse{
		ID:         mark.ID,
		Tooth:      mark.Tooth,
		Surface:    string(mark.Surface),
		Condition:  string(mark.Condition),
		Notes:      mark.Notes,
		RecordedBy: mark.RecordedBy,
		CreatedAt:  mark.CreatedAt,
	}
}

func OdontogramMarksToResponses(marks []entity.OdontogramMark) []dto.OdontogramMarkResponse {
	responses := make([]dto.OdontogramMarkResponse, len(marks))
	for i := range marks {
		responses[i] = *OdontogramMarkToResponse(&marks[i])
	}
	return responses
}
