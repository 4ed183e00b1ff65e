package handler

import (
	"io"
	"net/http"

	"go-dental-clinic/internal/usecase"
	"go-dental-clinic/pkg/response"
)

// maxWebhookBodyBytes matches the size Stripe documents for event payloads
const maxWebhookBodyBytes = 65536

type BillingHandler struct {
	billingUsecase usecase.BillingUsecase
}

func NewBillingHandler(billingUsecase usecase.BillingUsecase) *BillingHandler {
	return &BillingHandler{
		billingUsecase: billingUsecase,
	}
}

func (h *BillingHandler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	session, err := h.billingUsecase.CreateCheckout(r.Context())
	if err != nil {
		switch err {
		case usecase.ErrUnauthenticated:
			response.Unauthorized(w, "")
		case usecase.ErrClinicNotFound:
			response.NotFound(w, "Clinic not found")
		default:
			response.InternalServerError(w, "Failed to create checkout session")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Checkout session created successfully", session)
}

func (h *BillingHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBodyBytes))
	if err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.billingUsecase.HandleWebhook(r.Context(), payload, r.Header.Get("Stripe-Signature")); err != nil {
		switch err {
		case usecase.ErrInvalidWebhook:
			response.BadRequest(w, "Invalid webhook")
		default:
			response.InternalServerError(w, "Failed to process webhook")
		}
		return
	}

	response.Success(w, http.StatusOK, "Webhook processed", nil)
}
