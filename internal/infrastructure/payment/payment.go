package payment

import (
	"errors"

	"github.com/google/uuid"
)

var ErrInvalidSignature = errors.New("invalid webhook signature")

// Webhook event types the application reacts to
const (
	EventCheckoutCompleted   = "checkout.session.completed"
	EventSubscriptionUpdated = "customer.subscription.updated"
	EventSubscriptionDeleted = "customer.subscription.deleted"
)

// CheckoutParams describes the subscription checkout of one clinic
type CheckoutParams struct {
	ClinicID      uuid.UUID
	CustomerID    string
	CustomerEmail string
}

type CheckoutSession struct {
	ID  string
	URL string
}

// Event is a verified webhook event reduced to the fields billing needs.
// ClinicReference is only set on completed checkouts.
type Event struct {
	ID              string
	Type            string
	ClinicReference string
	CustomerID      string
	SubscriptionID  string
	Status          string
}
