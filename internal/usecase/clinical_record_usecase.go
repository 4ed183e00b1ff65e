package usecase

import (
	"context"
	"errors"

	"go-dental-clinic/internal/converter"
	"go-dental-clinic/internal/delivery/dto"
	"go-dental-clinic/internal/domain/entity"
	"go-dental-clinic/internal/domain/repository"
	"go-dental-clinic/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrAnamnesisNotFound      = errors.New("anamnesis not found")
	ErrOdontogramMarkNotFound = errors.New("odontogram mark not found")
	ErrInvalidToothSurface    = errors.New("invalid tooth surface")
	ErrInvalidToothCondition  = errors.New("invalid tooth condition")
)

type ClinicalRecordUsecase interface {
	GetAnamnesis(ctx context.Context, patientID uuid.UUID) (*dto.AnamnesisResponse, error)
	UpsertAnamnesis(ctx context.Context, patientID uuid.UUID, req *dto.UpsertAnamnesisRequest) (*dto.AnamnesisResponse, error)
	GetOdontogram(ctx context.Context, patientID uuid.UUID) (*dto.OdontogramResponse, error)
	AddOdontogramMark(ctx context.Context, patientID uuid.UUID, req *dto.CreateOdontogramMarkRequest) (*dto.OdontogramMarkResponse, error)
	DeleteOdontogramMark(ctx context.Context, patientID, markID uuid.UUID) error
}

type clinicalRecordUsecase struct {
	db             *gorm.DB
	log            *logrus.Logger
	patientRepo    repository.PatientRepository
	anamnesisRepo  repository.AnamnesisRepository
	odontogramRepo repository.OdontogramRepository
	auditService   service.AuditService
}

func NewClinicalRecordUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	patientRepo repository.PatientRepository,
	anamnesisRepo repository.AnamnesisRepository,
	odontogramRepo repository.OdontogramRepository,
	auditService service.AuditService,
) ClinicalRecordUsecase {
	return &clinicalRecordUsecase{
		db:             db,
		log:            log,
		patientRepo:    patientRepo,
		anamnesisRepo:  anamnesisRepo,
		odontogramRepo: odontogramRepo,
		auditService:   auditService,
	}
}

func (u *clinicalRecordUsecase) requirePatient(ctx context.Context, db *gorm.DB, clinicID, patientID uuid.UUID) error {
	patient, err := u.patientRepo.FindByID(ctx, db, clinicID, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient: %+v", err)
		return err
	}
	if patient == nil {
		return ErrPatientNotFound
	}
	return nil
}

func (u *clinicalRecordUsecase) GetAnamnesis(ctx context.Context, patientID uuid.UUID) (*dto.AnamnesisResponse, error) {
	a, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if err := u.requirePatient(ctx, u.db, a.ClinicID, patientID); err != nil {
		return nil, err
	}

	anamnesis, err := u.anamnesisRepo.FindByPatientID(ctx, u.db, a.ClinicID, patientID)
	if err != nil {
		u.log.Warnf("Failed to find anamnesis: %+v", err)
		return nil, err
	}
	if anamnesis == nil {
		return nil, ErrAnamnesisNotFound
	}

	return converter.AnamnesisToResponse(anamnesis), nil
}

// UpsertAnamnesis replaces the patient's anamnesis, creating it on first write
func (u *clinicalRecordUsecase) UpsertAnamnesis(ctx context.Context, patientID uuid.UUID, req *dto.UpsertAnamnesisRequest) (*dto.AnamnesisResponse, error) {
	a, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.requirePatient(ctx, tx, a.ClinicID, patientID); err != nil {
		return nil, err
	}

	previous, err := u.anamnesisRepo.FindByPatientID(ctx, tx, a.ClinicID, patientID)
	if err != nil {
		u.log.Warnf("Failed to find anamnesis: %+v", err)
		return nil, err
	}

	anamnesis := &entity.Anamnesis{
		PatientID:      patientID,
		ClinicID:       a.ClinicID,
		ChiefComplaint: req.ChiefComplaint,
		Allergies:      req.Allergies,
		Medications:    req.Medications,
		Answers:        req.Answers,
		Notes:          req.Notes,
		UpdatedBy:      a.UserID,
	}
	if err := u.anamnesisRepo.Upsert(ctx, tx, anamnesis); err != nil {
		u.log.Warnf("Failed to upsert anamnesis: %+v", err)
		return nil, err
	}

	response := converter.AnamnesisToResponse(anamnesis)
	if err := u.auditService.LogUpdate(ctx, tx, service.AuditEntry{
		ClinicID:   a.ClinicID,
		UserID:     &a.UserID,
		Action:     entity.AuditActionAnamnesisUpdate,
		EntityName: "anamnesis",
		EntityID:   patientID.String(),
	}, converter.AnamnesisToResponse(previous), response); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return response, nil
}

func (u *clinicalRecordUsecase) GetOdontogram(ctx context.Context, patientID uuid.UUID) (*dto.OdontogramResponse, error) {
	a, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if err := u.requirePatient(ctx, u.db, a.ClinicID, patientID); err != nil {
		return nil, err
	}

	marks, err := u.odontogramRepo.FindByPatientID(ctx, u.db, a.ClinicID, patientID)
	if err != nil {
		u.log.Warnf("Failed to find odontogram: %+v", err)
		return nil, err
	}

	return &dto.OdontogramResponse{
		PatientID: patientID,
		Marks:     converter.OdontogramMarksToResponses(marks),
	}, nil
}

func (u *clinicalRecordUsecase) AddOdontogramMark(ctx context.Context, patientID uuid.UUID, req *dto.CreateOdontogramMarkRequest) (*dto.OdontogramMarkResponse, error) {
	a, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	surface := entity.ToothSurface(req.Surface)
	if !surface.Valid() {
		return nil, ErrInvalidToothSurface
	}
	condition := entity.ToothCondition(req.Condition)
	if !condition.Valid() {
		return nil, ErrInvalidToothCondition
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.requirePatient(ctx, tx, a.ClinicID, patientID); err != nil {
		return nil, err
	}

	mark := &entity.OdontogramMark{
		ClinicID:   a.ClinicID,
		PatientID:  patientID,
		Tooth:      req.Tooth,
		Surface:    surface,
		Condition:  condition,
		Notes:      req.Notes,
		RecordedBy: a.UserID,
	}
	if err := u.odontogramRepo.Create(ctx, tx, mark); err != nil {
		u.log.Warnf("Failed to create odontogram mark: %+v", err)
		return nil, err
	}

	response := converter.OdontogramMarkToResponse(mark)
	if err := u.auditService.LogCreate(ctx, tx, service.AuditEntry{
		ClinicID:   a.ClinicID,
		UserID:     &a.UserID,
		Action:     entity.AuditActionOdontogramCreate,
		EntityName: "odontogram_mark",
		EntityID:   mark.ID.String(),
	}, response); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return response, nil
}

func (u *clinicalRecordUsecase) DeleteOdontogramMark(ctx context.Context, patientID, markID uuid.UUID) error {
	a, err := actorFromContext(ctx)
	if err != nil {
		return err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	deleted, err := u.odontogramRepo.Delete(ctx, tx, a.ClinicID, patientID, markID)
	if err != nil {
		u.log.Warnf("Failed to delete odontogram mark: %+v", err)
		return err
	}
	if deleted == 0 {
		return ErrOdontogramMarkNotFound
	}

	if err := u.auditService.LogDelete(ctx, tx, service.AuditEntry{
		ClinicID:   a.ClinicID,
		UserID:     &a.UserID,
		Action:     entity.AuditActionOdontogramDelete,
		EntityName: "odontogram_mark",
		EntityID:   markID.String(),
	}, map[string]interface{}{"patient_id": patientID}); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	return nil
}
