package repository

import (
	"context"

	"go-dental-clinic/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LedgerRepository interface {
	Create(ctx context.Context, db *gorm.DB, entry *entity.LedgerEntry) error
	FindByID(ctx context.Context, db *gorm.DB, clinicID, id uuid.UUID) (*entity.LedgerEntry, error)
	FindAll(ctx context.Context, db *gorm.DB, clinicID uuid.UUID, filter *entity.LedgerFilter) ([]entity.LedgerEntry, int64, error)
	Summarize(ctx context.Context, db *gorm.DB, clinicID uuid.UUID, filter *entity.LedgerFilter) (*entity.LedgerSummary, error)
	Delete(ctx context.Context, db *gorm.DB, clinicID, id uuid.UUID) (int64, error)
}
