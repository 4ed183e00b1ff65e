package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateLedgerEntryRequest struct {
	Kind          string          `json:"kind" validate:"required,oneof=income expense"`
	Category      string          `json:"category" validate:"required,max=100"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description" validate:"omitempty,max=2000"`
	OccurredOn    string          `json:"occurred_on" validate:"required,date"`
	AppointmentID *uuid.UUID      `json:"appointment_id" validate:"omitempty"`
}

// LedgerListQuery comes from the query string
type LedgerListQuery struct {
	From  string
	To    string
	Kind  string
	Page  int
	Limit int
}

type LedgerEntryResponse struct {
	ID            uuid.UUID       `json:"id"`
	Kind          string          `json:"kind"`
	Category      string          `json:"category"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description,omitempty"`
	OccurredOn    string          `json:"occurred_on"`
	AppointmentID *uuid.UUID      `json:"appointment_id,omitempty"`
	CreatedBy     uuid.UUID       `json:"created_by"`
	CreatedAt     time.Time       `json:"created_at"`
}

type LedgerListResponse struct {
	Entries []LedgerEntryResponse `json:"entries"`
	Total   int64                 `json:"total"`
}

type LedgerSummaryResponse struct {
	From    string          `json:"from,omitempty"`
	To      string          `json:"to,omitempty"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
}
