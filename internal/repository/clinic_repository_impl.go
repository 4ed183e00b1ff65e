package repository

import (
	"context"
	"errors"

	"go-dental-clinic/internal/domain/entity"
	domainRepo "go-dental-clinic/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type clinicRepository struct{}

func NewClinicRepository() domainRepo.ClinicRepository {
	return &clinicRepository{}
}

func (r *clinicRepository) Create(ctx context.Context, db *gorm.DB, clinic *entity.Clinic) error {
	return db.WithContext(ctx).Create(clinic).Error
}

func (r *clinicRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Clinic, error) {
	return r.findOne(ctx, db, "id = ?", id)
}

func (r *clinicRepository) FindByStripeCustomerID(ctx context.Context, db *gorm.DB, customerID string) (*entity.Clinic, error) {
	return r.findOne(ctx, db, "stripe_customer_id = ?", customerID)
}

func (r *clinicRepository) findOne(ctx context.Context, db *gorm.DB, query string, arg interface{}) (*entity.Clinic, error) {
	var clinic entity.Clinic
	err := db.WithContext(ctx).Where(query, arg).First(&clinic).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &clinic, nil
}

func (r *clinicRepository) Update(ctx context.Context, db *gorm.DB, clinic *entity.Clinic) error {
	return db.WithContext(ctx).Save(clinic).Error
}
