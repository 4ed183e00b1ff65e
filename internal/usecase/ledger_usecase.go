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
	ErrLedgerEntryNotFound = errors.New("ledger entry not found")
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrInvalidLedgerKind   = errors.New("kind must be income or expense")
	ErrInvalidDateRange    = errors.New("from must not be after to")
)

type LedgerUsecase interface {
	CreateEntry(ctx context.Context, req *dto.CreateLedgerEntryRequest) (*dto.LedgerEntryResponse, error)
	ListEntries(ctx context.Context, query *dto.LedgerListQuery) (*dto.LedgerListResponse, int, int, error)
	DeleteEntry(ctx context.Context, entryID uuid.UUID) error
	GetSummary(ctx context.Context, from, to string) (*dto.LedgerSummaryResponse, error)
}

type ledgerUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	ledgerRepo      repository.LedgerRepository
	appointmentRepo repository.AppointmentRepository
	auditService    service.AuditService
}

func NewLedgerUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	ledgerRepo repository.LedgerRepository,
	appointmentRepo repository.AppointmentRepository,
	auditService service.AuditService,
) LedgerUsecase {
	return &ledgerUsecase{
		db:              db,
		log:             log,
		ledgerRepo:      ledgerRepo,
		appointmentRepo: appointmentRepo,
		auditService:    auditService,
	}
}

func (u *ledgerUsecase) CreateEntry(ctx context.Context, req *dto.CreateLedgerEntryRequest) (*dto.LedgerEntryResponse, error) {
	a, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	kind := entity.LedgerKind(req.Kind)
	if !kind.Valid() {
		return nil, ErrInvalidLedgerKind
	}
	if !req.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	occurredOn, err := time.Parse(converter.DateLayout, req.OccurredOn)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if req.AppointmentID != nil {
		appointment, err := u.appointmentRepo.FindByID(ctx, tx, a.ClinicID, *req.AppointmentID)
		if err != nil {
			u.log.Warnf("Failed to find appointment: %+v", err)
			return nil, err
		}
		if appointment == nil {
			return nil, ErrAppointmentNotFound
		}
	}

	entry := &entity.LedgerEntry{
		ClinicID:      a.ClinicID,
		Kind:          kind,
		Category:      req.Category,
		Amount:        req.Amount,
		Description:   req.Description,
		OccurredOn:    occurredOn,
		AppointmentID: req.AppointmentID,
		CreatedBy:     a.UserID,
	}
	if err := u.ledgerRepo.Create(ctx, tx, entry); err != nil {
		u.log.Warnf("Failed to create ledger entry: %+v", err)
		return nil, err
	}

	response := converter.LedgerEntryToResponse(entry)
	if err := u.auditService.LogCreate(ctx, tx, service.AuditEntry{
		ClinicID:   a.ClinicID,
		UserID:     &a.UserID,
		Action:     entity.AuditActionLedgerCreate,
		EntityName: "ledger_entry",
		EntityID:   entry.ID.String(),
	}, response); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return response, nil
}

func (u *ledgerUsecase) ListEntries(ctx context.Context, query *dto.LedgerListQuery) (*dto.LedgerListResponse, int, int, error) {
	a, err := actorFromContext(ctx)
	if err != nil {
		return nil, 0, 0, err
	}

	filter, err := ledgerFilter(query.From, query.To)
	if err != nil {
		return nil, 0, 0, err
	}
	if query.Kind != "" {
		kind := entity.LedgerKind(query.Kind)
		if !kind.Valid() {
			return nil, 0, 0, ErrInvalidLedgerKind
		}
		filter.Kind = kind
	}

	page, limit, offset := normalizePage(query.Page, query.Limit)
	filter.Limit = limit
	filter.Offset = offset

	entries, total, err := u.ledgerRepo.FindAll(ctx, u.db, a.ClinicID, filter)
	if err != nil {
		u.log.Warnf("Failed to list ledger entries: %+v", err)
		return nil, 0, 0, err
	}

	return &dto.LedgerListResponse{
		Entries: converter.LedgerEntriesToResponses(entries),
		Total:   total,
	}, page, limit, nil
}

func (u *ledgerUsecase) DeleteEntry(ctx context.Context, entryID uuid.UUID) error {
	a, err := actorFromContext(ctx)
	if err != nil {
		return err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	entry, err := u.ledgerRepo.FindByID(ctx, tx, a.ClinicID, entryID)
	if err != nil {
		u.log.Warnf("Failed to find ledger entry: %+v", err)
		return err
	}
	if entry == nil {
		return ErrLedgerEntryNotFound
	}

	if _, err := u.ledgerRepo.Delete(ctx, tx, a.ClinicID, entryID); err != nil {
		u.log.Warnf("Failed to delete ledger entry: %+v", err)
		return err
	}

	if err := u.auditService.LogDelete(ctx, tx, service.AuditEntry{
		ClinicID:   a.ClinicID,
		UserID:     &a.UserID,
		Action:     entity.AuditActionLedgerDelete,
		EntityName: "ledger_entry",
		EntityID:   entryID.String(),
	}, converter.LedgerEntryToResponse(entry)); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	return nil
}

// GetSummary totals income and expense over the inclusive date range; empty bounds are open
func (u *ledgerUsecase) GetSummary(ctx context.Context, from, to string) (*dto.LedgerSummaryResponse, error) {
	a, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	filter, err := ledgerFilter(from, to)
	if err != nil {
		return nil, err
	}

	summary, err := u.ledgerRepo.Summarize(ctx, u.db, a.ClinicID, filter)
	if err != nil {
		u.log.Warnf("Failed to summarize ledger: %+v", err)
		return nil, err
	}

	return &dto.LedgerSummaryResponse{
		From:    from,
		To:      to,
		Income:  summary.Income,
		Expense: summary.Expense,
		Balance: summary.Balance(),
	}, nil
}

func ledgerFilter(from, to string) (*entity.LedgerFilter, error) {
	filter := &entity.LedgerFilter{}
	var err error
	if from != "" {
		if filter.From, err = time.Parse(converter.DateLayout, from); err != nil {
			return nil, ErrInvalidDateFormat
		}
	}
	if to != "" {
		if filter.To, err = time.Parse(converter.DateLayout, to); err != nil {
			return nil, ErrInvalidDateFormat
		}
	}
	if !filter.From.IsZero() && !filter.To.IsZero() && filter.From.After(filter.To) {
		return nil, ErrInvalidDateRange
	}
	return filter, nil
}
