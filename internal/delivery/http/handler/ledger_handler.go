package handler

import (
	"encoding/json"
	"net/http"

	"go-dental-clinic/internal/delivery/dto"
	"go-dental-clinic/internal/usecase"
	"go-dental-clinic/pkg/response"
	"go-dental-clinic/pkg/validator"
)

type LedgerHandler struct {
	ledgerUsecase usecase.LedgerUsecase
	validator     *validator.CustomValidator
}

func NewLedgerHandler(ledgerUsecase usecase.LedgerUsecase, validator *validator.CustomValidator) *LedgerHandler {
	return &LedgerHandler{
		ledgerUsecase: ledgerUsecase,
		validator:     validator,
	}
}

func writeLedgerError(w http.ResponseWriter, err error, fallback string) {
	switch err {
	case usecase.ErrUnauthenticated:
		response.Unauthorized(w, "")
	case usecase.ErrLedgerEntryNotFound:
		response.NotFound(w, "Ledger entry not found")
	case usecase.ErrAppointmentNotFound:
		response.NotFound(w, "Appointment not found")
	case usecase.ErrInvalidAmount, usecase.ErrInvalidLedgerKind, usecase.ErrInvalidDateFormat, usecase.ErrInvalidDateRange:
		response.BadRequest(w, err.Error())
	default:
		response.InternalServerError(w, fallback)
	}
}

func (h *LedgerHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateLedgerEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	entry, err := h.ledgerUsecase.CreateEntry(r.Context(), &req)
	if err != nil {
		writeLedgerError(w, err, "Failed to create ledger entry")
		return
	}

	response.Success(w, http.StatusCreated, "Ledger entry created successfully", entry)
}

// ListEntries handles GET /ledger?from=&to=&kind=&page=&limit=
func (h *LedgerHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := &dto.LedgerListQuery{
		From:  q.Get("from"),
		To:    q.Get("to"),
		Kind:  q.Get("kind"),
		Page:  queryInt(r, "page"),
		Limit: queryInt(r, "limit"),
	}

	entries, page, limit, err := h.ledgerUsecase.ListEntries(r.Context(), query)
	if err != nil {
		writeLedgerError(w, err, "Failed to get ledger entries")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Ledger entries retrieved successfully", entries.Entries,
		response.NewMeta(page, limit, entries.Total))
}

func (h *LedgerHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	entryID, ok := pathUUID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid ledger entry ID")
		return
	}

	if err := h.ledgerUsecase.DeleteEntry(r.Context(), entryID); err != nil {
		writeLedgerError(w, err, "Failed to delete ledger entry")
		return
	}

	response.Success(w, http.StatusOK, "Ledger entry deleted successfully", nil)
}

func (h *LedgerHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	summary, err := h.ledgerUsecase.GetSummary(r.Context(), q.Get("from"), q.Get("to"))
	if err != nil {
		writeLedgerError(w, err, "Failed to get ledger summary")
		return
	}

	response.Success(w, http.StatusOK, "Ledger summary retrieved successfully", summary)
}
