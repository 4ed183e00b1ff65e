package usecase

import (
	"context"
	"errors"
	"strings"

	"go-dental-clinic/internal/converter"
	"go-dental-clinic/internal/delivery/dto"
	"go-dental-clinic/internal/domain/entity"
	"go-dental-clinic/internal/domain/repository"
	"go-dental-clinic/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrDoctorNotFound        = errors.New("doctor not found")
	ErrDoctorInactive        = errors.New("doctor is inactive")
	ErrDoctorHasAppointments = errors.New("doctor has appointments and cannot be deleted")
)

type DoctorUsecase interface {
	CreateDoctor(ctx context.Context, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error)
	GetDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorResponse, error)
	GetAllDoctors(ctx context.Context) (*dto.DoctorListResponse, error)
	UpdateDoctor(ctx context.Context, doctorID uuid.UUID, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error)
	UpdateAvailability(ctx context.Context, doctorID uuid.UUID, req *dto.AvailabilityRequest) (*dto.DoctorResponse, error)
	DeleteDoctor(ctx context.Context, doctorID uuid.UUID) error
	CreateStaff(ctx context.Context, req *dto.CreateStaffRequest) (*dto.UserResponse, error)
}

type doctorUsecase struct {
	db                *gorm.DB
	log               *logrus.Logger
	userRepo          repository.UserRepository
	doctorProfileRepo repository.DoctorProfileRepository
	auditService      service.AuditService
	tokenStore        service.TokenStore
}

func NewDoctorUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	auditService service.AuditService,
	tokenStore service.TokenStore,
) DoctorUsecase {
	return &doctorUsecase{
		db:                db,
		log:               log,
		userRepo:          userRepo,
		doctorProfileRepo: doctorProfileRepo,
		auditService:      auditService,
		tokenStore:        tokenStore,
	}
}

func (u *doctorUsecase) CreateDoctor(ctx context.Context, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error) {
	a, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	active := true
	user := &entity.User{
		ClinicID: a.ClinicID,
		RoleID:   entity.RoleIDDoctor,
		Email:    strings.ToLower(req.Email),
		Password: string(hashedPassword),
		FullName: req.FullName,
		IsActive: &active,
	}
	if err := u.userRepo.Create(ctx, tx, user); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrEmailAlreadyExists
		}
		if isForeignKeyError(err, "role") {
			return nil, ErrRoleNotFound
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return nil, err
	}

	profile := &entity.DoctorProfile{
		UserID:        user.ID,
		ClinicID:      a.ClinicID,
		LicenseNumber: req.LicenseNumber,
		Specialty:     req.Specialty,
		Biography:     req.Biography,
	}
	applyAvailability(profile, &req.Availability)

	if err := u.doctorProfileRepo.Create(ctx, tx, profile); err != nil {
		u.log.Warnf("Failed to create doctor profile: %+v", err)
		return nil, err
	}
	profile.User = *user

	response := converter.DoctorToResponse(profile)
	if err := u.auditService.LogCreate(ctx, tx, service.AuditEntry{
		ClinicID:   a.ClinicID,
		UserID:     &a.UserID,
		Action:     entity.AuditActionDoctorCreate,
		EntityName: "doctor_profile",
		EntityID:   profile.UserID.String(),
	}, response); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return response, nil
}

func (u *doctorUsecase) GetDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorResponse, error) {
	a, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	profile, err := u.doctorProfileRepo.FindByUserID(ctx, u.db, a.ClinicID, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor profile: %+v", err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrDoctorNotFound
	}

	return converter.DoctorToResponse(profile), nil
}

func (u *doctorUsecase) GetAllDoctors(ctx context.Context) (*dto.DoctorListResponse, error) {
	a, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	profiles, err := u.doctorProfileRepo.FindAll(ctx, u.db, a.ClinicID)
	if err != nil {
		u.log.Warnf("Failed to find all doctor profiles: %+v", err)
		return nil, err
	}

	doctors := converter.DoctorsToResponses(profiles)

	return &dto.DoctorListResponse{
		Doctors: doctors,
		Total:   len(doctors),
	}, nil
}

func (u *doctorUsecase) UpdateDoctor(ctx context.Context, doctorID uuid.UUID, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error) {
	a, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	profile, err := u.doctorProfileRepo.FindByUserID(ctx, tx, a.ClinicID, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor profile: %+v", err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrDoctorNotFound
	}

	oldValue := converter.DoctorToResponse(profile)
	deactivated := false

	if req.Email != "" {
		profile.User.Email = strings.ToLower(req.Email)
	}
	if req.Password != "" {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			u.log.Warnf("Failed to hash password: %+v", err)
			return nil, err
		}
		profile.User.Password = string(hashedPassword)
	}
	if req.FullName != "" {
		profile.User.FullName = req.FullName
	}
	if req.IsActive != nil {
		deactivated = profile.User.Active() && !*req.IsActive
		profile.User.IsActive = req.IsActive
	}
	if req.LicenseNumber != "" {
		profile.LicenseNumber = req.LicenseNumber
	}
	if req.Specialty != "" {
		profile.Specialty = req.Specialty
	}
	if req.Biography != "" {
		profile.Biography = req.Biography
	}

	if err := u.userRepo.Update(ctx, tx, &profile.User); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to update doctor user: %+v", err)
		return nil, err
	}
	if err := u.doctorProfileRepo.Update(ctx, tx, profile); err != nil {
		u.log.Warnf("Failed to update doctor profile: %+v", err)
		return nil, err
	}

	newValue := converter.DoctorToResponse(profile)
	if err := u.auditService.LogUpdate(ctx, tx, service.AuditEntry{
		ClinicID:   a.ClinicID,
		UserID:     &a.UserID,
		Action:     entity.AuditActionDoctorUpdate,
		EntityName: "doctor_profile",
		EntityID:   doctorID.String(),
	}, oldValue, newValue); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	if deactivated {
		if err := u.tokenStore.RevokeAll(ctx, doctorID); err != nil {
			u.log.Warnf("Failed to revoke tokens of deactivated doctor %s: %+v", doctorID, err)
		}
	}

	return newValue, nil
}

func (u *doctorUsecase) UpdateAvailability(ctx context.Context, doctorID uuid.UUID, req *dto.AvailabilityRequest) (*dto.DoctorResponse, error) {
	a, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	profile, err := u.doctorProfileRepo.FindByUserID(ctx, tx, a.ClinicID, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor profile: %+v", err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrDoctorNotFound
	}

	oldValue := converter.AvailabilityToResponse(profile)
	applyAvailability(profile, req)

	if err := u.doctorProfileRepo.Update(ctx, tx, profile); err != nil {
		u.log.Warnf("Failed to update doctor availability: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogUpdate(ctx, tx, service.AuditEntry{
		ClinicID:   a.ClinicID,
		UserID:     &a.UserID,
		Action:     entity.AuditActionAvailabilityUpdate,
		EntityName: "doctor_profile",
		EntityID:   doctorID.String(),
	}, oldValue, converter.AvailabilityToResponse(profile)); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.DoctorToResponse(profile), nil
}

// DeleteDoctor removes the doctor's user; the profile goes with it by cascade.
// Doctors with appointment history are kept, deactivate them instead.
func (u *doctorUsecase) DeleteDoctor(ctx context.Context, doctorID uuid.UUID) error {
	a, err := actorFromContext(ctx)
	if err != nil {
		return err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	profile, err := u.doctorProfileRepo.FindByUserID(ctx, tx, a.ClinicID, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor profile: %+v", err)
		return err
	}
	if profile == nil {
		return ErrDoctorNotFound
	}

	oldValue := converter.DoctorToResponse(profile)

	rows, err := u.userRepo.Delete(ctx, tx, a.ClinicID, doctorID)
	if err != nil {
		if isForeignKeyError(err, "appointments_doctor") {
			return ErrDoctorHasAppointments
		}
		u.log.Warnf("Failed to delete doctor: %+v", err)
		return err
	}
	if rows == 0 {
		return ErrDoctorNotFound
	}

	if err := u.auditService.LogDelete(ctx, tx, service.AuditEntry{
		ClinicID:   a.ClinicID,
		UserID:     &a.UserID,
		Action:     entity.AuditActionDoctorDelete,
		EntityName: "doctor_profile",
		EntityID:   doctorID.String(),
	}, oldValue); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	if err := u.tokenStore.RevokeAll(ctx, doctorID); err != nil {
		u.log.Warnf("Failed to revoke tokens of deleted doctor %s: %+v", doctorID, err)
	}

	return nil
}

// CreateStaff adds a receptionist account to the caller's clinic
func (u *doctorUsecase) CreateStaff(ctx context.Context, req *dto.CreateStaffRequest) (*dto.UserResponse, error) {
	a, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	active := true
	user := &entity.User{
		ClinicID: a.ClinicID,
		RoleID:   entity.RoleIDReceptionist,
		Email:    strings.ToLower(req.Email),
		Password: string(hashedPassword),
		FullName: req.FullName,
		IsActive: &active,
	}
	if err := u.userRepo.Create(ctx, tx, user); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrEmailAlreadyExists
		}
		if isForeignKeyError(err, "role") {
			return nil, ErrRoleNotFound
		}
		u.log.Warnf("Failed to create staff user: %+v", err)
		return nil, err
	}

	response := converter.UserToResponse(user)
	if err := u.auditService.LogCreate(ctx, tx, service.AuditEntry{
		ClinicID:   a.ClinicID,
		UserID:     &a.UserID,
		Action:     entity.AuditActionStaffCreate,
		EntityName: "user",
		EntityID:   user.ID.String(),
	}, response); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return response, nil
}

// applyAvailability copies a validated availability request onto the profile
func applyAvailability(profile *entity.DoctorProfile, req *dto.AvailabilityRequest) {
	if req.FromWeekday != nil {
		profile.FromWeekday = *req.FromWeekday
	}
	if req.ToWeekday != nil {
		profile.ToWeekday = *req.ToWeekday
	}
	if req.FromTime != "" {
		profile.FromTime = req.FromTime
	}
	if req.ToTime != "" {
		profile.ToTime = req.ToTime
	}
}
