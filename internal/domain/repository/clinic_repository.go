package repository

import (
	"context"

	"go-dental-clinic/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClinicRepository interface {
	Create(ctx context.Context, db *gorm.DB, clinic *entity.Clinic) error
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Clinic, error)
	FindByStripeCustomerID(ctx context.Context, db *gorm.DB, customerID string) (*entity.Clinic, error)
	Update(ctx context.Context, db *gorm.DB, clinic *entity.Clinic) error
}
