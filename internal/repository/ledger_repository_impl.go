package repository

import (
	"context"
	"errors"

	"go-dental-clinic/internal/domain/entity"
	domainRepo "go-dental-clinic/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ledgerRepository struct{}

func NewLedgerRepository() domainRepo.LedgerRepository {
	return &ledgerRepository{}
}

func (r *ledgerRepository) Create(ctx context.Context, db *gorm.DB, entry *entity.LedgerEntry) error {
	return db.WithContext(ctx).Create(entry).Error
}

func (r *ledgerRepository) FindByID(ctx context.Context, db *gorm.DB, clinicID, id uuid.UUID) (*entity.LedgerEntry, error) {
	var entry entity.LedgerEntry
	err := db.WithContext(ctx).Where("id = ? AND clinic_id = ?", id, clinicID).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (r *ledgerRepository) scope(db *gorm.DB, clinicID uuid.UUID, filter *entity.LedgerFilter) *gorm.DB {
	query := db.Model(&entity.LedgerEntry{}).Where("clinic_id = ?", clinicID)
	if filter == nil {
		return query
	}
	if !filter.From.IsZero() {
		query = query.Where("occurred_on >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		query = query.Where("occurred_on <= ?", filter.To)
	}
	if filter.Kind != "" {
		query = query.Where("kind = ?", filter.Kind)
	}
	return query
}

func (r *ledgerRepository) FindAll(ctx context.Context, db *gorm.DB, clinicID uuid.UUID, filter *entity.LedgerFilter) ([]entity.LedgerEntry, int64, error) {
	query := r.scope(db.WithContext(ctx), clinicID, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter != nil && filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}

	var entries []entity.LedgerEntry
	if err := query.Order("occurred_on DESC, created_at DESC").Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

type ledgerTotals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
}

func (r *ledgerRepository) Summarize(ctx context.Context, db *gorm.DB, clinicID uuid.UUID, filter *entity.LedgerFilter) (*entity.LedgerSummary, error) {
	var totals ledgerTotals
	err := r.scope(db.WithContext(ctx), clinicID, filter).
		Select("COALESCE(SUM(CASE WHEN kind = ? THEN amount END), 0) AS income, "+
			"COALESCE(SUM(CASE WHEN kind = ? THEN amount END), 0) AS expense",
			entity.LedgerKindIncome, entity.LedgerKindExpense).
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return &entity.LedgerSummary{Income: totals.Income, Expense: totals.Expense}, nil
}

func (r *ledgerRepository) Delete(ctx context.Context, db *gorm.DB, clinicID, id uuid.UUID) (int64, error) {
	result := db.WithContext(ctx).Where("id = ? AND clinic_id = ?", id, clinicID).Delete(&entity.LedgerEntry{})
	return result.RowsAffected, result.Error
}
