package payment

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	PriceID       string
	SuccessURL    string
	CancelURL     string
}

// StripeGateway creates subscription checkouts and verifies Stripe webhooks
type StripeGateway struct {
	api    *client.API
	config StripeConfig
	log    *logrus.Logger
}

func NewStripeGateway(config StripeConfig, log *logrus.Logger) *StripeGateway {
	api := &client.API{}
	api.Init(config.SecretKey, nil)
	return &StripeGateway{api: api, config: config, log: log}
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error) {
	sessionParams := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(g.config.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:        stripe.String(g.config.SuccessURL),
		CancelURL:         stripe.String(g.config.CancelURL),
		ClientReferenceID: stripe.String(params.ClinicID.String()),
	}
	if params.CustomerID != "" {
		sessionParams.Customer = stripe.String(params.CustomerID)
	} else if params.CustomerEmail != "" {
		sessionParams.CustomerEmail = stripe.String(params.CustomerEmail)
	}
	sessionParams.Context = ctx

	session, err := g.api.CheckoutSessions.New(sessionParams)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}

	g.log.Infof("Created checkout session %s for clinic %s", session.ID, params.ClinicID)
	return &CheckoutSession{ID: session.ID, URL: session.URL}, nil
}

// ParseWebhook verifies the Stripe-Signature header and decodes the event object
func (g *StripeGateway) ParseWebhook(payload []byte, signature string) (*Event, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, g.config.WebhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		g.log.Warnf("Failed to verify webhook: %+v", err)
		return nil, ErrInvalidSignature
	}

	parsed := &Event{ID: event.ID, Type: string(event.Type)}

	switch parsed.Type {
	case EventCheckoutCompleted:
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return nil, fmt.Errorf("decode checkout session: %w", err)
		}
		parsed.ClinicReference = session.ClientReferenceID
		if session.Customer != nil {
			parsed.CustomerID = session.Customer.ID
		}
		if session.Subscription != nil {
			parsed.SubscriptionID = session.Subscription.ID
		}
	case EventSubscriptionUpdated, EventSubscriptionDeleted:
		var subscription stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &subscription); err != nil {
			return nil, fmt.Errorf("decode subscription: %w", err)
		}
		parsed.SubscriptionID = subscription.ID
		parsed.Status = string(subscription.Status)
		if subscription.Customer != nil {
			parsed.CustomerID = subscription.Customer.ID
		}
	}

	return parsed, nil
}
