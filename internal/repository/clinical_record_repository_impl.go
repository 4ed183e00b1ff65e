package repository

import (
	"context"
	"errors"

	"go-dental-clinic/internal/domain/entity"
	domainRepo "go-dental-clinic/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type anamnesisRepository struct{}

func NewAnamnesisRepository() domainRepo.AnamnesisRepository {
	return &anamnesisRepository{}
}

func (r *anamnesisRepository) FindByPatientID(ctx context.Context, db *gorm.DB, clinicID, patientID uuid.UUID) (*entity.Anamnesis, error) {
	var anamnesis entity.Anamnesis
	err := db.WithContext(ctx).Where("patient_id = ? AND clinic_id = ?", patientID, clinicID).First(&anamnesis).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &anamnesis, nil
}

// Upsert inserts the anamnesis or overwrites the patient's existing one
func (r *anamnesisRepository) Upsert(ctx context.Context, db *gorm.DB, anamnesis *entity.Anamnesis) error {
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "patient_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"chief_complaint", "allergies", "medications", "answers", "notes", "updated_by", "updated_at",
		}),
	}).Create(anamnesis).Error
}

type odontogramRepository struct{}

func NewOdontogramRepository() domainRepo.OdontogramRepository {
	return &odontogramRepository{}
}

func (r *odontogramRepository) Create(ctx context.Context, db *gorm.DB, mark *entity.OdontogramMark) error {
	return db.WithContext(ctx).Create(mark).Error
}

func (r *odontogramRepository) FindByPatientID(ctx context.Context, db *gorm.DB, clinicID, patientID uuid.UUID) ([]entity.OdontogramMark, error) {
	var marks []entity.OdontogramMark
	err := db.WithContext(ctx).
		Where("patient_id = ? AND clinic_id = ?", patientID, clinicID).
		Order("tooth ASC, created_at ASC").
		Find(&marks).Error
	if err != nil {
		return nil, err
	}
	return marks, nil
}

func (r *odontogramRepository) Delete(ctx context.Context, db *gorm.DB, clinicID, patientID, id uuid.UUID) (int64, error) {
	result := db.WithContext(ctx).
		Where("id = ? AND patient_id = ? AND clinic_id = ?", id, patientID, clinicID).
		Delete(&entity.OdontogramMark{})
	return result.RowsAffected, result.Error
}
