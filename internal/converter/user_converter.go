package converter

import (
	"go-dental-clinic/internal/delivery/dto"
	"go-dental-clinic/internal/domain/entity"
)

// UserToResponse converts a User entity to UserResponse DTO.
// The role name falls back to the role id when Role is not preloaded.
func UserToResponse(user *entity.User) *dto.UserResponse {
	if user == nil {
		return nil
	}

	role := user.Role.RoleName
	if role == "" {
		role = entity.RoleName(user.RoleID)
	}

	response := &dto.UserResponse{
		ID:        user.ID,
		ClinicID:  user.ClinicID,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      role,
		IsActive:  user.Active(),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}

	if user.DoctorProfile != nil {
		response.DoctorProfile = &dto.DoctorProfileResponse{
			LicenseNumber: user.DoctorProfile.LicenseNumber,
			Specialty:     user.DoctorProfile.Specialty,
			Biography:     user.DoctorProfile.Biography,
			Availability:  AvailabilityToResponse(user.DoctorProfile),
		}
	}

	return response
}

func ClinicToResponse(clinic *entity.Clinic) *dto.ClinicResponse {
	if clinic == nil {
		return nil
	}

	return &dto.ClinicResponse{
		ID:                 clinic.ID,
		Name:               clinic.Name,
		Timezone:           clinic.Timezone,
		Phone:              clinic.Phone,
		Address:            clinic.Address,
		SubscriptionStatus: clinic.SubscriptionStatus,
		CreatedAt:          clinic.CreatedAt,
		UpdatedAt:          clinic.UpdatedAt,
	}
}
