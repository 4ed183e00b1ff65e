package usecase

import (
	"context"
	"errors"

	"go-dental-clinic/internal/converter"
	"go-dental-clinic/internal/delivery/dto"
	"go-dental-clinic/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrAuditLogNotFound = errors.New("audit log not found")

type AuditLogUsecase interface {
	GetAuditLogs(ctx context.Context, page, limit int) (*dto.AuditLogListResponse, int, int, error)
	GetAuditLog(ctx context.Context, id int64) (*dto.AuditLogResponse, error)
}

type auditLogUsecase struct {
	db        *gorm.DB
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
}

func NewAuditLogUsecase(db *gorm.DB, log *logrus.Logger, auditRepo repository.AuditLogRepository) AuditLogUsecase {
	return &auditLogUsecase{
		db:        db,
		log:       log,
		auditRepo: auditRepo,
	}
}

func (u *auditLogUsecase) GetAuditLogs(ctx context.Context, page, limit int) (*dto.AuditLogListResponse, int, int, error) {
	a, err := actorFromContext(ctx)
	if err != nil {
		return nil, 0, 0, err
	}

	page, limit, offset := normalizePage(page, limit)

	logs, total, err := u.auditRepo.FindAll(ctx, u.db, a.ClinicID, limit, offset)
	if err != nil {
		u.log.Warnf("Failed to find audit logs: %+v", err)
		return nil, 0, 0, err
	}

	return &dto.AuditLogListResponse{
		Logs:  converter.AuditLogsToResponses(logs),
		Total: total,
	}, page, limit, nil
}

func (u *auditLogUsecase) GetAuditLog(ctx context.Context, id int64) (*dto.AuditLogResponse, error) {
	a, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	log, err := u.auditRepo.FindByID(ctx, u.db, a.ClinicID, id)
	if err != nil {
		u.log.Warnf("Failed to find audit log: %+v", err)
		return nil, err
	}
	if log == nil {
		return nil, ErrAuditLogNotFound
	}

	return converter.AuditLogToResponse(log), nil
}
