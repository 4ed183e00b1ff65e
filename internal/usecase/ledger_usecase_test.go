package usecase

import (
	"testing"
	"time"

	"go-dental-clinic/internal/delivery/dto"
	"go-dental-clinic/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateEntry_Success(t *testing.T) {
	db, sqlMock := setupMockDB(t)
	ledgerRepo := new(mockLedgerRepo)
	audit := new(mockAuditService)
	uc := NewLedgerUsecase(db, quietLogger(), ledgerRepo, new(mockAppointmentRepo), audit)

	clinicID, userID := uuid.New(), uuid.New()
	ctx := authedContext(clinicID, userID, entity.RoleIDReceptionist)

	sqlMock.ExpectBegin()
	ledgerRepo.On("Create", mock.Anything, mock.Anything, mock.MatchedBy(func(e *entity.LedgerEntry) bool {
		return e.ClinicID == clinicID && e.CreatedBy == userID && e.Kind == entity.LedgerKindExpense &&
			e.OccurredOn.Equal(time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC))
	})).Return(nil)
	audit.On("LogCreate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	sqlMock.ExpectCommit()

	result, err := uc.CreateEntry(ctx, &dto.CreateLedgerEntryRequest{
		Kind:       "expense",
		Category:   "supplies",
		Amount:     decimal.RequireFromString("129.90"),
		OccurredOn: "2026-10-01",
	})

	require.NoError(t, err)
	assert.Equal(t, "2026-10-01", result.OccurredOn)
	assert.True(t, result.Amount.Equal(decimal.RequireFromString("129.90")))
	ledgerRepo.AssertExpectations(t)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestCreateEntry_Validation(t *testing.T) {
	tests := []struct {
		name    string
		req     dto.CreateLedgerEntryRequest
		wantErr error
	}{
		{"zero amount", dto.CreateLedgerEntryRequest{Kind: "income", Amount: decimal.Zero, OccurredOn: "2026-10-01"}, ErrInvalidAmount},
		{"negative amount", dto.CreateLedgerEntryRequest{Kind: "income", Amount: decimal.NewFromInt(-5), OccurredOn: "2026-10-01"}, ErrInvalidAmount},
		{"unknown kind", dto.CreateLedgerEntryRequest{Kind: "transfer", Amount: decimal.NewFromInt(5), OccurredOn: "2026-10-01"}, ErrInvalidLedgerKind},
		{"bad date", dto.CreateLedgerEntryRequest{Kind: "income", Amount: decimal.NewFromInt(5), OccurredOn: "01/10/2026"}, ErrInvalidDateFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, sqlMock := setupMockDB(t)
			ledgerRepo := new(mockLedgerRepo)
			uc := NewLedgerUsecase(db, quietLogger(), ledgerRepo, new(mockAppointmentRepo), new(mockAuditService))

			_, err := uc.CreateEntry(authedContext(uuid.New(), uuid.New(), entity.RoleIDAdmin), &tt.req)

			assert.ErrorIs(t, err, tt.wantErr)
			ledgerRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
			assert.NoError(t, sqlMock.ExpectationsWereMet())
		})
	}
}

func TestCreateEntry_UnknownAppointment(t *testing.T) {
	db, sqlMock := setupMockDB(t)
	appointmentRepo := new(mockAppointmentRepo)
	uc := NewLedgerUsecase(db, quietLogger(), new(mockLedgerRepo), appointmentRepo, new(mockAuditService))

	clinicID, appointmentID := uuid.New(), uuid.New()
	sqlMock.ExpectBegin()
	appointmentRepo.On("FindByID", mock.Anything, mock.Anything, clinicID, appointmentID).Return(nil, nil)
	sqlMock.ExpectRollback()

	_, err := uc.CreateEntry(authedContext(clinicID, uuid.New(), entity.RoleIDAdmin), &dto.CreateLedgerEntryRequest{
		Kind:          "income",
		Category:      "appointment",
		Amount:        decimal.NewFromInt(200),
		OccurredOn:    "2026-10-01",
		AppointmentID: &appointmentID,
	})

	assert.ErrorIs(t, err, ErrAppointmentNotFound)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestGetSummary(t *testing.T) {
	db, _ := setupMockDB(t)
	ledgerRepo := new(mockLedgerRepo)
	uc := NewLedgerUsecase(db, quietLogger(), ledgerRepo, new(mockAppointmentRepo), new(mockAuditService))

	clinicID := uuid.New()
	ledgerRepo.On("Summarize", mock.Anything, mock.Anything, clinicID, mock.MatchedBy(func(f *entity.LedgerFilter) bool {
		return f.From.Equal(time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)) &&
			f.To.Equal(time.Date(2026, time.October, 31, 0, 0, 0, 0, time.UTC))
	})).Return(&entity.LedgerSummary{
		Income:  decimal.RequireFromString("1500.00"),
		Expense: decimal.RequireFromString("420.50"),
	}, nil)

	result, err := uc.GetSummary(authedContext(clinicID, uuid.New(), entity.RoleIDAdmin), "2026-10-01", "2026-10-31")

	require.NoError(t, err)
	assert.True(t, result.Balance.Equal(decimal.RequireFromString("1079.50")), result.Balance.String())
	assert.Equal(t, "2026-10-01", result.From)
	ledgerRepo.AssertExpectations(t)
}

func TestGetSummary_InvertedRange(t *testing.T) {
	db, _ := setupMockDB(t)
	uc := NewLedgerUsecase(db, quietLogger(), new(mockLedgerRepo), new(mockAppointmentRepo), new(mockAuditService))

	_, err := uc.GetSummary(authedContext(uuid.New(), uuid.New(), entity.RoleIDAdmin), "2026-10-31", "2026-10-01")

	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestListEntries_Paging(t *testing.T) {
	db, _ := setupMockDB(t)
	ledgerRepo := new(mockLedgerRepo)
	uc := NewLedgerUsecase(db, quietLogger(), ledgerRepo, new(mockAppointmentRepo), new(mockAuditService))

	clinicID := uuid.New()
	ledgerRepo.On("FindAll", mock.Anything, mock.Anything, clinicID, mock.MatchedBy(func(f *entity.LedgerFilter) bool {
		return f.Kind == entity.LedgerKindIncome && f.Limit == 100 && f.Offset == 100
	})).Return([]entity.LedgerEntry{}, int64(150), nil)

	result, page, limit, err := uc.ListEntries(authedContext(clinicID, uuid.New(), entity.RoleIDAdmin), &dto.LedgerListQuery{
		Kind:  "income",
		Page:  2,
		Limit: 500,
	})

	require.NoError(t, err)
	assert.Equal(t, 2, page)
	assert.Equal(t, 100, limit)
	assert.Equal(t, int64(150), result.Total)
	ledgerRepo.AssertExpectations(t)
}

func TestDeleteEntry_NotFound(t *testing.T) {
	db, sqlMock := setupMockDB(t)
	ledgerRepo := new(mockLedgerRepo)
	uc := NewLedgerUsecase(db, quietLogger(), ledgerRepo, new(mockAppointmentRepo), new(mockAuditService))

	clinicID, entryID := uuid.New(), uuid.New()
	sqlMock.ExpectBegin()
	ledgerRepo.On("FindByID", mock.Anything, mock.Anything, clinicID, entryID).Return(nil, nil)
	sqlMock.ExpectRollback()

	err := uc.DeleteEntry(authedContext(clinicID, uuid.New(), entity.RoleIDAdmin), entryID)

	assert.ErrorIs(t, err, ErrLedgerEntryNotFound)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}
