package service

import (
	"context"

	"go-dental-clinic/internal/domain/entity"
	"go-dental-clinic/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AuditEntry identifies who changed which record of which clinic
type AuditEntry struct {
	ClinicID   uuid.UUID
	UserID     *uuid.UUID
	Action     string
	EntityName string
	EntityID   string
}

// AuditService writes audit rows inside the caller's transaction, so a rolled
// back change leaves no trail
type AuditService interface {
	LogCreate(ctx context.Context, tx *gorm.DB, entry AuditEntry, newValue interface{}) error
	LogUpdate(ctx context.Context, tx *gorm.DB, entry AuditEntry, oldValue, newValue interface{}) error
	LogDelete(ctx context.Context, tx *gorm.DB, entry AuditEntry, oldValue interface{}) error
}

type auditService struct {
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
}

func NewAuditService(log *logrus.Logger, auditRepo repository.AuditLogRepository) AuditService {
	return &auditService{
		log:       log,
		auditRepo: auditRepo,
	}
}

func (s *auditService) LogCreate(ctx context.Context, tx *gorm.DB, entry AuditEntry, newValue interface{}) error {
	return s.write(ctx, tx, entry, nil, newValue)
}

func (s *auditService) LogUpdate(ctx context.Context, tx *gorm.DB, entry AuditEntry, oldValue, newValue interface{}) error {
	return s.write(ctx, tx, entry, oldValue, newValue)
}

func (s *auditService) LogDelete(ctx context.Context, tx *gorm.DB, entry AuditEntry, oldValue interface{}) error {
	return s.write(ctx, tx, entry, oldValue, nil)
}

func (s *auditService) write(ctx context.Context, tx *gorm.DB, entry AuditEntry, oldValue, newValue interface{}) error {
	auditLog := &entity.AuditLog{
		ClinicID: entry.ClinicID,
		UserID:   entry.UserID,
		Action:   entry.Action,
		Metadata: entity.JSON{
			"entity":    entry.EntityName,
			"entity_id": entry.EntityID,
			"old_value": oldValue,
			"new_value": newValue,
		},
	}

	if err := s.auditRepo.Create(ctx, tx, auditLog); err != nil {
		s.log.Warnf("Failed to create audit log: %+v", err)
		return err
	}

	return nil
}
