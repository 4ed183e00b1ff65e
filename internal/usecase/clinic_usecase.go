package usecase

import (
	"context"
	"errors"
	"time"

	"go-dental-clinic/internal/converter"
	"go-dental-clinic/internal/delivery/dto"
	"go-dental-clinic/internal/domain/entity"
	"go-dental-clinic/internal/domain/repository"
	"go-dental-clinic/internal/service"
	"go-dental-clinic/pkg/timezone"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrClinicNotFound = errors.New("clinic not found")

type ClinicUsecase interface {
	GetClinic(ctx context.Context) (*dto.ClinicResponse, error)
	UpdateClinic(ctx context.Context, req *dto.UpdateClinicRequest) (*dto.ClinicResponse, error)
}

type clinicUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	clinicRepo   repository.ClinicRepository
	auditService service.AuditService
}

func NewClinicUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	clinicRepo repository.ClinicRepository,
	auditService service.AuditService,
) ClinicUsecase {
	return &clinicUsecase{
		db:           db,
		log:          log,
		clinicRepo:   clinicRepo,
		auditService: auditService,
	}
}

func (u *clinicUsecase) GetClinic(ctx context.Context) (*dto.ClinicResponse, error) {
	a, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	clinic, err := u.clinicRepo.FindByID(ctx, u.db, a.ClinicID)
	if err != nil {
		u.log.Warnf("Failed to find clinic: %+v", err)
		return nil, err
	}
	if clinic == nil {
		return nil, ErrClinicNotFound
	}

	return converter.ClinicToResponse(clinic), nil
}

func (u *clinicUsecase) UpdateClinic(ctx context.Context, req *dto.UpdateClinicRequest) (*dto.ClinicResponse, error) {
	a, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	clinic, err := u.clinicRepo.FindByID(ctx, tx, a.ClinicID)
	if err != nil {
		u.log.Warnf("Failed to find clinic: %+v", err)
		return nil, err
	}
	if clinic == nil {
		return nil, ErrClinicNotFound
	}

	oldValue := converter.ClinicToResponse(clinic)

	if req.Name != "" {
		clinic.Name = req.Name
	}
	if req.Timezone != "" {
		clinic.Timezone = req.Timezone
	}
	if req.Phone != "" {
		clinic.Phone = req.Phone
	}
	if req.Address != "" {
		clinic.Address = req.Address
	}

	if err := u.clinicRepo.Update(ctx, tx, clinic); err != nil {
		u.log.Warnf("Failed to update clinic: %+v", err)
		return nil, err
	}

	newValue := converter.ClinicToResponse(clinic)
	if err := u.auditService.LogUpdate(ctx, tx, service.AuditEntry{
		ClinicID:   clinic.ID,
		UserID:     &a.UserID,
		Action:     entity.AuditActionClinicUpdate,
		EntityName: "clinic",
		EntityID:   clinic.ID.String(),
	}, oldValue, newValue); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return newValue, nil
}

// clinicLocation loads the clinic and resolves its timezone, falling back to defaultTZ
func clinicLocation(ctx context.Context, db *gorm.DB, repo repository.ClinicRepository, clinicID uuid.UUID, defaultTZ string) (*entity.Clinic, *time.Location, error) {
	clinic, err := repo.FindByID(ctx, db, clinicID)
	if err != nil {
		return nil, nil, err
	}
	if clinic == nil {
		return nil, nil, ErrClinicNotFound
	}
	return clinic, timezone.Location(clinic.Timezone, defaultTZ), nil
}
