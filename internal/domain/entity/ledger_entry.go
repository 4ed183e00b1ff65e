package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type LedgerKind string

const (
	LedgerKindIncome  LedgerKind = "income"
	LedgerKindExpense LedgerKind = "expense"
)

func (k LedgerKind) Valid() bool {
	return k == LedgerKindIncome || k == LedgerKindExpense
}

// LedgerEntry is one line of a clinic's financial ledger
type LedgerEntry struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ClinicID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"clinic_id"`
	Kind          LedgerKind      `gorm:"type:varchar(10);not null;index" json:"kind"`
	Category      string          `gorm:"type:varchar(100);not null" json:"category"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Description   string          `gorm:"type:text" json:"description,omitempty"`
	OccurredOn    time.Time       `gorm:"type:date;not null;index" json:"occurred_on"`
	AppointmentID *uuid.UUID      `gorm:"type:uuid;index" json:"appointment_id,omitempty"`
	CreatedBy     uuid.UUID       `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (LedgerEntry) TableName() string {
	return "ledger_entries"
}

// LedgerSummary holds ledger totals for a period
type LedgerSummary struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
}

func (s LedgerSummary) Balance() decimal.Decimal {
	return s.Income.Sub(s.Expense)
}

// Ledger categories used by the application itself
const LedgerCategoryAppointment = "appointment"
