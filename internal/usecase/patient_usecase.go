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

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrPatientNotFound        = errors.New("patient not found")
	ErrDocumentNumberExists   = errors.New("document number already registered in this clinic")
	ErrPatientHasAppointments = errors.New("patient has appointments and cannot be deleted")
	ErrInvalidDateFormat      = errors.New("invalid date format, use YYYY-MM-DD")
)

type PatientUsecase interface {
	CreatePatient(ctx context.Context, req *dto.CreatePatientRequest) (*dto.PatientResponse, error)
	GetPatient(ctx context.Context, patientID uuid.UUID) (*dto.PatientResponse, error)
	ListPatients(ctx context.Context, query *dto.PatientListQuery) (*dto.PatientListResponse, int, int, error)
	UpdatePatient(ctx context.Context, patientID uuid.UUID, req *dto.UpdatePatientRequest) (*dto.PatientResponse, error)
	DeletePatient(ctx context.Context, patientID uuid.UUID) error
}

type patientUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	patientRepo  repository.PatientRepository
	auditService service.AuditService
}

func NewPatientUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	patientRepo repository.PatientRepository,
	auditService service.AuditService,
) PatientUsecase {
	return &patientUsecase{
		db:           db,
		log:          log,
		patientRepo:  patientRepo,
		auditService: auditService,
	}
}

func (u *patientUsecase) CreatePatient(ctx context.Context, req *dto.CreatePatientRequest) (*dto.PatientResponse, error) {
	a, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	dob, err := time.Parse(converter.DateLayout, req.DateOfBirth)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	patient := &entity.Patient{
		ClinicID:       a.ClinicID,
		FullName:       req.FullName,
		DocumentNumber: req.DocumentNumber,
		DateOfBirth:    dob,
		Gender:         req.Gender,
		PhoneNumber:    req.PhoneNumber,
		Email:          req.Email,
		Address:        req.Address,
		Notes:          req.Notes,
	}
	if err := u.patientRepo.Create(ctx, tx, patient); err != nil {
		if isDuplicateKeyError(err, "document") {
			return nil, ErrDocumentNumberExists
		}
		u.log.Warnf("Failed to create patient: %+v", err)
		return nil, err
	}

	response := converter.PatientToResponse(patient)
	if err := u.auditService.LogCreate(ctx, tx, service.AuditEntry{
		ClinicID:   a.ClinicID,
		UserID:     &a.UserID,
		Action:     entity.AuditActionPatientCreate,
		EntityName: "patient",
		EntityID:   patient.ID.String(),
	}, response); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return response, nil
}

func (u *patientUsecase) GetPatient(ctx context.Context, patientID uuid.UUID) (*dto.PatientResponse, error) {
	a, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	patient, err := u.patientRepo.FindByID(ctx, u.db, a.ClinicID, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient: %+v", err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	return converter.PatientToResponse(patient), nil
}

// ListPatients returns one page of patients plus the normalized page and limit
func (u *patientUsecase) ListPatients(ctx context.Context, query *dto.PatientListQuery) (*dto.PatientListResponse, int, int, error) {
	a, err := actorFromContext(ctx)
	if err != nil {
		return nil, 0, 0, err
	}

	page, limit, offset := normalizePage(query.Page, query.Limit)

	patients, total, err := u.patientRepo.FindAll(ctx, u.db, a.ClinicID, query.Search, limit, offset)
	if err != nil {
		u.log.Warnf("Failed to list patients: %+v", err)
		return nil, 0, 0, err
	}

	return &dto.PatientListResponse{
		Patients: converter.PatientsToResponses(patients),
		Total:    total,
	}, page, limit, nil
}

func (u *patientUsecase) UpdatePatient(ctx context.Context, patientID uuid.UUID, req *dto.UpdatePatientRequest) (*dto.PatientResponse, error) {
	a, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	patient, err := u.patientRepo.FindByID(ctx, tx, a.ClinicID, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient: %+v", err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	oldValue := converter.PatientToResponse(patient)

	if req.FullName != "" {
		patient.FullName = req.FullName
	}
	if req.DocumentNumber != "" {
		patient.DocumentNumber = req.DocumentNumber
	}
	if req.DateOfBirth != "" {
		dob, err := time.Parse(converter.DateLayout, req.DateOfBirth)
		if err != nil {
			return nil, ErrInvalidDateFormat
		}
		patient.DateOfBirth = dob
	}
	if req.Gender != "" {
		patient.Gender = req.Gender
	}
	if req.PhoneNumber != "" {
		patient.PhoneNumber = req.PhoneNumber
	}
	if req.Email != "" {
		patient.Email = req.Email
	}
	if req.Address != "" {
		patient.Address = req.Address
	}
	if req.Notes != "" {
		patient.Notes = req.Notes
	}

	if err := u.patientRepo.Update(ctx, tx, patient); err != nil {
		if isDuplicateKeyError(err, "document") {
			return nil, ErrDocumentNumberExists
		}
		u.log.Warnf("Failed to update patient: %+v", err)
		return nil, err
	}

	newValue := converter.PatientToResponse(patient)
	if err := u.auditService.LogUpdate(ctx, tx, service.AuditEntry{
		ClinicID:   a.ClinicID,
		UserID:     &a.UserID,
		Action:     entity.AuditActionPatientUpdate,
		EntityName: "patient",
		EntityID:   patient.ID.String(),
	}, oldValue, newValue); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return newValue, nil
}

func (u *patientUsecase) DeletePatient(ctx context.Context, patientID uuid.UUID) error {
	a, err := actorFromContext(ctx)
	if err != nil {
		return err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	patient, err := u.patientRepo.FindByID(ctx, tx, a.ClinicID, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient: %+v", err)
		return err
	}
	if patient == nil {
		return ErrPatientNotFound
	}

	if _, err := u.patientRepo.Delete(ctx, tx, a.ClinicID, patientID); err != nil {
		if isForeignKeyError(err, "appointments_patient") {
			return ErrPatientHasAppointments
		}
		u.log.Warnf("Failed to delete patient: %+v", err)
		return err
	}

	if err := u.auditService.LogDelete(ctx, tx, service.AuditEntry{
		ClinicID:   a.ClinicID,
		UserID:     &a.UserID,
		Action:     entity.AuditActionPatientDelete,
		EntityName: "patient",
		EntityID:   patientID.String(),
	}, converter.PatientToResponse(patient)); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	return nil
}
