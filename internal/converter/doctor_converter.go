package converter

import (
	"go-dental-clinic/internal/delivery/dto"
	"go-dental-clinic/internal/domain/availability"
	"go-dental-clinic/internal/domain/entity"
)

// AvailabilityToResponse normalizes the stored times to HH:MM:SS
func AvailabilityToResponse(profile *entity.DoctorProfile) dto.AvailabilityResponse {
	response := dto.AvailabilityResponse{
		FromWeekday: profile.FromWeekday,
		ToWeekday:   profile.ToWeekday,
		FromTime:    profile.FromTime,
		ToTime:      profile.ToTime,
	}
	if c, err := availability.ParseClock(profile.FromTime); err == nil {
		response.FromTime = c.String()
	}
	if c, err := availability.ParseClock(profile.ToTime); err == nil {
		response.ToTime = c.String()
	}
	return response
}

// DoctorToResponse converts a DoctorProfile with its preloaded User to DoctorResponse DTO
func DoctorToResponse(profile *entity.DoctorProfile) *dto.DoctorResponse {
	if profile == nil {
		return nil
	}

	return &dto.DoctorResponse{
		ID:            profile.UserID,
		Email:         profile.User.Email,
		FullName:      profile.User.FullName,
		LicenseNumber: profile.LicenseNumber,
		Specialty:     profile.Specialty,
		Biography:     profile.Biography,
		IsActive:      profile.User.Active(),
		Availability:  AvailabilityToResponse(profile),
	}
}

func DoctorsToResponses(profiles []entity.DoctorProfile) []dto.DoctorResponse {
	responses := make([]dto.DoctorResponse, len(profiles))
	for i := range profiles {
		responses[i] = *DoctorToResponse(&profiles[i])
	}
	return responses
}
