package entity

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentFilter is a domain-level filter for listing appointments.
// Used by repository layer to avoid coupling with delivery DTOs.
type AppointmentFilter struct {
	From     time.Time // inclusive, zero means unbounded
	To       time.Time // exclusive, zero means unbounded
	DoctorID uuid.UUID
	Status   AppointmentStatus
}

// LedgerFilter selects ledger entries by date range and kind
type LedgerFilter struct {
	From   time.Time // inclusive date
	To     time.Time // inclusive date
	Kind   LedgerKind
	Limit  int
	Offset int
}
