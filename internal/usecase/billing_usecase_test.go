package usecase

import (
	"context"
	"errors"
	"testing"

	"go-dental-clinic/internal/domain/entity"
	"go-dental-clinic/internal/infrastructure/payment"
	"go-dental-clinic/internal/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type billingFixture struct {
	uc      BillingUsecase
	sql     sqlmock.Sqlmock
	clinics *mockClinicRepo
	users   *mockUserRepo
	audit   *mockAuditService
	gateway *mockGateway
}

func newBillingFixture(t *testing.T) *billingFixture {
	db, sqlMock := setupMockDB(t)
	f := &billingFixture{
		sql:     sqlMock,
		clinics: new(mockClinicRepo),
		users:   new(mockUserRepo),
		audit:   new(mockAuditService),
		gateway: new(mockGateway),
	}
	f.uc = NewBillingUsecase(db, quietLogger(), f.clinics, f.users, f.audit, f.gateway)
	return f
}

func TestCreateCheckout_NewCustomerUsesAdminEmail(t *testing.T) {
	f := newBillingFixture(t)
	clinic := &entity.Clinic{ID: uuid.New(), Name: "Sorriso"}
	userID := uuid.New()

	f.clinics.On("FindByID", mock.Anything, mock.Anything, clinic.ID).Return(clinic, nil)
	f.users.On("FindByID", mock.Anything, mock.Anything, userID).Return(&entity.User{ID: userID, Email: "owner@sorriso.test"}, nil)
	f.gateway.On("CreateCheckoutSession", mock.Anything, payment.CheckoutParams{
		ClinicID:      clinic.ID,
		CustomerEmail: "owner@sorriso.test",
	}).Return(&payment.CheckoutSession{ID: "cs_test_1", URL: "https://checkout.stripe.com/c/cs_test_1"}, nil)

	result, err := f.uc.CreateCheckout(authedContext(clinic.ID, userID, entity.RoleIDAdmin))

	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", result.SessionID)
	assert.Equal(t, "https://checkout.stripe.com/c/cs_test_1", result.URL)
	f.gateway.AssertExpectations(t)
}

func TestCreateCheckout_ExistingCustomer(t *testing.T) {
	f := newBillingFixture(t)
	clinic := &entity.Clinic{ID: uuid.New(), StripeCustomerID: "cus_123"}

	f.clinics.On("FindByID", mock.Anything, mock.Anything, clinic.ID).Return(clinic, nil)
	f.gateway.On("CreateCheckoutSession", mock.Anything, payment.CheckoutParams{ClinicID: clinic.ID, CustomerID: "cus_123"}).
		Return(&payment.CheckoutSession{ID: "cs_test_2", URL: "https://checkout.stripe.com/c/cs_test_2"}, nil)

	_, err := f.uc.CreateCheckout(authedContext(clinic.ID, uuid.New(), entity.RoleIDAdmin))

	require.NoError(t, err)
	f.users.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleWebhook_CheckoutCompleted(t *testing.T) {
	f := newBillingFixture(t)
	clinic := &entity.Clinic{ID: uuid.New(), SubscriptionStatus: entity.SubscriptionStatusNone}
	payload := []byte(`{}`)

	f.gateway.On("ParseWebhook", payload, "sig").Return(&payment.Event{
		ID:              "evt_1",
		Type:            payment.EventCheckoutCompleted,
		ClinicReference: clinic.ID.String(),
		CustomerID:      "cus_new",
		SubscriptionID:  "sub_new",
	}, nil)
	f.sql.ExpectBegin()
	f.clinics.On("FindByID", mock.Anything, mock.Anything, clinic.ID).Return(clinic, nil)
	f.clinics.On("Update", mock.Anything, mock.Anything, mock.MatchedBy(func(c *entity.Clinic) bool {
		return c.StripeCustomerID == "cus_new" && c.StripeSubscriptionID == "sub_new" &&
			c.SubscriptionStatus == entity.SubscriptionStatusActive
	})).Return(nil)
	f.audit.On("LogUpdate", mock.Anything, mock.Anything, mock.MatchedBy(func(e service.AuditEntry) bool {
		return e.UserID == nil && e.Action == entity.AuditActionSubscriptionUpdate
	}), mock.Anything, mock.Anything).Return(nil)
	f.sql.ExpectCommit()

	err := f.uc.HandleWebhook(context.Background(), payload, "sig")

	require.NoError(t, err)
	f.clinics.AssertExpectations(t)
	f.audit.AssertExpectations(t)
	assert.NoError(t, f.sql.ExpectationsWereMet())
}

func TestHandleWebhook_SubscriptionStatusCopied(t *testing.T) {
	f := newBillingFixture(t)
	clinic := &entity.Clinic{ID: uuid.New(), StripeCustomerID: "cus_123", SubscriptionStatus: entity.SubscriptionStatusActive}
	payload := []byte(`{}`)

	f.gateway.On("ParseWebhook", payload, "sig").Return(&payment.Event{
		ID:             "evt_2",
		Type:           payment.EventSubscriptionDeleted,
		CustomerID:     "cus_123",
		SubscriptionID: "sub_123",
		Status:         "canceled",
	}, nil)
	f.sql.ExpectBegin()
	f.clinics.On("FindByStripeCustomerID", mock.Anything, mock.Anything, "cus_123").Return(clinic, nil)
	f.clinics.On("Update", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.audit.On("LogUpdate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.sql.ExpectCommit()

	err := f.uc.HandleWebhook(context.Background(), payload, "sig")

	require.NoError(t, err)
	assert.Equal(t, entity.SubscriptionStatusCanceled, clinic.SubscriptionStatus)
	assert.NoError(t, f.sql.ExpectationsWereMet())
}

func TestHandleWebhook_Ignored(t *testing.T) {
	tests := []struct {
		name  string
		event *payment.Event
		setup func(f *billingFixture)
	}{
		{"unknown type", &payment.Event{ID: "evt_3", Type: "invoice.paid"}, func(*billingFixture) {}},
		{"bad client reference", &payment.Event{ID: "evt_4", Type: payment.EventCheckoutCompleted, ClinicReference: "nope"}, func(*billingFixture) {}},
		{"unknown customer", &payment.Event{ID: "evt_5", Type: payment.EventSubscriptionUpdated, CustomerID: "cus_x", Status: "active"}, func(f *billingFixture) {
			f.clinics.On("FindByStripeCustomerID", mock.Anything, mock.Anything, "cus_x").Return(nil, nil)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBillingFixture(t)
			f.gateway.On("ParseWebhook", mock.Anything, mock.Anything).Return(tt.event, nil)
			tt.setup(f)
			f.sql.ExpectBegin()
			f.sql.ExpectRollback()

			err := f.uc.HandleWebhook(context.Background(), []byte(`{}`), "sig")

			require.NoError(t, err)
			f.clinics.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
			assert.NoError(t, f.sql.ExpectationsWereMet())
		})
	}
}

func TestHandleWebhook_BadSignature(t *testing.T) {
	f := newBillingFixture(t)
	f.gateway.On("ParseWebhook", mock.Anything, mock.Anything).Return(nil, payment.ErrInvalidSignature)

	err := f.uc.HandleWebhook(context.Background(), []byte(`{}`), "forged")

	assert.ErrorIs(t, err, ErrInvalidWebhook)
	assert.NoError(t, f.sql.ExpectationsWereMet())
}

func TestHandleWebhook_StoreErrorIsReturned(t *testing.T) {
	f := newBillingFixture(t)
	dbErr := errors.New("connection reset")
	f.gateway.On("ParseWebhook", mock.Anything, mock.Anything).Return(&payment.Event{
		ID: "evt_6", Type: payment.EventSubscriptionUpdated, CustomerID: "cus_1",
	}, nil)
	f.sql.ExpectBegin()
	f.clinics.On("FindByStripeCustomerID", mock.Anything, mock.Anything, "cus_1").Return(nil, dbErr)
	f.sql.ExpectRollback()

	err := f.uc.HandleWebhook(context.Background(), []byte(`{}`), "sig")

	assert.ErrorIs(t, err, dbErr)
}
