package repository

import (
	"context"

	"go-dental-clinic/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AnamnesisRepository interface {
	FindByPatientID(ctx context.Context, db *gorm.DB, clinicID, patientID uuid.UUID) (*entity.Anamnesis, error)
	Upsert(ctx context.Context, db *gorm.DB, anamnesis *entity.Anamnesis) error
}

type OdontogramRepository interface {
	Create(ctx context.Context, db *gorm.DB, mark *entity.OdontogramMark) error
	FindByPatientID(ctx context.Context, db *gorm.DB, clinicID, patientID uuid.UUID) ([]entity.OdontogramMark, error)
	Delete(ctx context.Context, db *gorm.DB, clinicID, patientID, id uuid.UUID) (int64, error)
}
