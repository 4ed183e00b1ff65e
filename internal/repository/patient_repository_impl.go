package repository

import (
	"context"
	"errors"

	"go-dental-clinic/internal/domain/entity"
	domainRepo "go-dental-clinic/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type patientRepository struct{}

func NewPatientRepository() domainRepo.PatientRepository {
	return &patientRepository{}
}

func (r *patientRepository) Create(ctx context.Context, db *gorm.DB, patient *entity.Patient) error {
	return db.WithContext(ctx).Create(patient).Error
}

func (r *patientRepository) FindByID(ctx context.Context, db *gorm.DB, clinicID, id uuid.UUID) (*entity.Patient, error) {
	var patient entity.Patient
	err := db.WithContext(ctx).Where("id = ? AND clinic_id = ?", id, clinicID).First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &patient, nil
}

// FindAll matches search against name, document number and phone
func (r *patientRepository) FindAll(ctx context.Context, db *gorm.DB, clinicID uuid.UUID, search string, limit, offset int) ([]entity.Patient, int64, error) {
	query := db.WithContext(ctx).Model(&entity.Patient{}).Where("clinic_id = ?", clinicID)
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("full_name ILIKE ? OR document_number ILIKE ? OR phone_number ILIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var patients []entity.Patient
	err := query.Order("full_name ASC").Limit(limit).Offset(offset).Find(&patients).Error
	if err != nil {
		return nil, 0, err
	}
	return patients, total, nil
}

func (r *patientRepository) Update(ctx context.Context, db *gorm.DB, patient *entity.Patient) error {
	return db.WithContext(ctx).Omit("Appointments").Save(patient).Error
}

func (r *patientRepository) Delete(ctx context.Context, db *gorm.DB, clinicID, id uuid.UUID) (int64, error) {
	result := db.WithContext(ctx).Where("id = ? AND clinic_id = ?", id, clinicID).Delete(&entity.Patient{})
	return result.RowsAffected, result.Error
}
