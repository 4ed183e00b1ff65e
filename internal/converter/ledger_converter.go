package converter

import (
	"go-dental-clinic/internal/delivery/dto"
	"go-dental-clinic/internal/domain/entity"
)

func LedgerEntryToResponse(entry *entity.LedgerEntry) *dto.LedgerEntryResponse {
	if entry == nil {
		return nil
	}

	return &dto.LedgerEntryResponse{
		ID:            entry.ID,
		Kind:          string(entry.Kind),
		Category:      entry.Category,
		Amount:        entry.Amount,
		Description:   entry.Description,
		OccurredOn:    entry.OccurredOn.Format(DateLayout),
		AppointmentID: entry.AppointmentID,
		CreatedBy:     entry.CreatedBy,
		CreatedAt:     entry.CreatedAt,
	}
}

func LedgerEntriesToResponses(entries []entity.LedgerEntry) []dto.LedgerEntryResponse {
	responses := make([]dto.LedgerEntryResponse, len(entries))
	for i := range entries {
		responses[i] = *LedgerEntryToResponse(&entries[i])
	}
	return responses
}
