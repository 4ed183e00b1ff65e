package usecase

import (
	"context"
	"errors"

	"go-dental-clinic/internal/delivery/dto"
	"go-dental-clinic/internal/domain/entity"
	"go-dental-clinic/internal/domain/repository"
	"go-dental-clinic/internal/infrastructure/payment"
	"go-dental-clinic/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrInvalidWebhook = errors.New("invalid webhook payload or signature")

// PaymentGateway is the payment provider as seen by billing
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, params payment.CheckoutParams) (*payment.CheckoutSession, error)
	ParseWebhook(payload []byte, signature string) (*payment.Event, error)
}

type BillingUsecase interface {
	CreateCheckout(ctx context.Context) (*dto.CheckoutResponse, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

type billingUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	clinicRepo   repository.ClinicRepository
	userRepo     repository.UserRepository
	auditService service.AuditService
	gateway      PaymentGateway
}

func NewBillingUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	clinicRepo repository.ClinicRepository,
	userRepo repository.UserRepository,
	auditService service.AuditService,
	gateway PaymentGateway,
) BillingUsecase {
	return &billingUsecase{
		db:           db,
		log:          log,
		clinicRepo:   clinicRepo,
		userRepo:     userRepo,
		auditService: auditService,
		gateway:      gateway,
	}
}

func (u *billingUsecase) CreateCheckout(ctx context.Context) (*dto.CheckoutResponse, error) {
	a, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	clinic, err := u.clinicRepo.FindByID(ctx, u.db, a.ClinicID)
	if err != nil {
		u.log.Warnf("Failed to find clinic: %+v", err)
		return nil, err
	}
	if clinic == nil {
		return nil, ErrClinicNotFound
	}

	params := payment.CheckoutParams{ClinicID: clinic.ID, CustomerID: clinic.StripeCustomerID}
	if params.CustomerID == "" {
		user, err := u.userRepo.FindByID(ctx, u.db, a.UserID)
		if err != nil {
			u.log.Warnf("Failed to find user: %+v", err)
			return nil, err
		}
		if user != nil {
			params.CustomerEmail = user.Email
		}
	}

	session, err := u.gateway.CreateCheckoutSession(ctx, params)
	if err != nil {
		u.log.Warnf("Failed to create checkout session: %+v", err)
		return nil, err
	}

	return &dto.CheckoutResponse{SessionID: session.ID, URL: session.URL}, nil
}

// HandleWebhook applies subscription changes to the clinic. Events for unknown
// clinics or of other types are acknowledged without changes.
func (u *billingUsecase) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := u.gateway.ParseWebhook(payload, signature)
	if err != nil {
		return ErrInvalidWebhook
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	var clinic *entity.Clinic
	switch event.Type {
	case payment.EventCheckoutCompleted:
		clinicID, err := uuid.Parse(event.ClinicReference)
		if err != nil {
			u.log.Warnf("Webhook %s has invalid client reference %q", event.ID, event.ClinicReference)
			return nil
		}
		clinic, err = u.clinicRepo.FindByID(ctx, tx, clinicID)
		if err != nil {
			u.log.Warnf("Failed to find clinic: %+v", err)
			return err
		}
	case payment.EventSubscriptionUpdated, payment.EventSubscriptionDeleted:
		if event.CustomerID == "" {
			return nil
		}
		clinic, err = u.clinicRepo.FindByStripeCustomerID(ctx, tx, event.CustomerID)
		if err != nil {
			u.log.Warnf("Failed to find clinic: %+v", err)
			return err
		}
	default:
		u.log.Debugf("Ignoring webhook event %s of type %s", event.ID, event.Type)
		return nil
	}

	if clinic == nil {
		u.log.Warnf("Webhook %s does not match any clinic", event.ID)
		return nil
	}

	oldStatus := clinic.SubscriptionStatus
	if event.CustomerID != "" {
		clinic.StripeCustomerID = event.CustomerID
	}
	if event.SubscriptionID != "" {
		clinic.StripeSubscriptionID = event.SubscriptionID
	}
	if event.Type == payment.EventCheckoutCompleted {
		clinic.SubscriptionStatus = entity.SubscriptionStatusActive
	} else if event.Status != "" {
		clinic.SubscriptionStatus = event.Status
	}

	if err := u.clinicRepo.Update(ctx, tx, clinic); err != nil {
		u.log.Warnf("Failed to update clinic subscription: %+v", err)
		return err
	}

	if err := u.auditService.LogUpdate(ctx, tx, service.AuditEntry{
		ClinicID:   clinic.ID,
		Action:     entity.AuditActionSubscriptionUpdate,
		EntityName: "clinic",
		EntityID:   clinic.ID.String(),
	}, map[string]interface{}{"subscription_status": oldStatus},
		map[string]interface{}{"subscription_status": clinic.SubscriptionStatus, "event_id": event.ID}); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	u.log.Infof("Clinic %s subscription is %s", clinic.ID, clinic.SubscriptionStatus)
	return nil
}
