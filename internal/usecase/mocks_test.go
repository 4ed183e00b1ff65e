package usecase

import (
	"context"
	"io"
	"testing"
	"time"

	"go-dental-clinic/internal/delivery/http/middleware"
	"go-dental-clinic/internal/domain/entity"
	"go-dental-clinic/internal/infrastructure/payment"
	"go-dental-clinic/internal/service"
	"go-dental-clinic/pkg/jwt"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, sqlMock
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func authedContext(clinicID, userID uuid.UUID, roleID int) context.Context {
	return middleware.WithIdentity(context.Background(), jwt.Identity{
		UserID:   userID,
		ClinicID: clinicID,
		Email:    "staff@clinic.test",
		RoleID:   roleID,
	}, "token-id")
}

type mockClinicRepo struct{ mock.Mock }

func (m *mockClinicRepo) Create(ctx context.Context, db *gorm.DB, clinic *entity.Clinic) error {
	return m.Called(ctx, db, clinic).Error(0)
}

func (m *mockClinicRepo) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Clinic, error) {
	args := m.Called(ctx, db, id)
	clinic, _ := args.Get(0).(*entity.Clinic)
	return clinic, args.Error(1)
}

func (m *mockClinicRepo) FindByStripeCustomerID(ctx context.Context, db *gorm.DB, customerID string) (*entity.Clinic, error) {
	args := m.Called(ctx, db, customerID)
	clinic, _ := args.Get(0).(*entity.Clinic)
	return clinic, args.Error(1)
}

func (m *mockClinicRepo) Update(ctx context.Context, db *gorm.DB, clinic *entity.Clinic) error {
	return m.Called(ctx, db, clinic).Error(0)
}

type mockDoctorProfileRepo struct{ mock.Mock }

func (m *mockDoctorProfileRepo) Create(ctx context.Context, db *gorm.DB, profile *entity.DoctorProfile) error {
	return m.Called(ctx, db, profile).Error(0)
}

func (m *mockDoctorProfileRepo) FindByUserID(ctx context.Context, db *gorm.DB, clinicID, userID uuid.UUID) (*entity.DoctorProfile, error) {
	args := m.Called(ctx, db, clinicID, userID)
	profile, _ := args.Get(0).(*entity.DoctorProfile)
	return profile, args.Error(1)
}

func (m *mockDoctorProfileRepo) FindAll(ctx context.Context, db *gorm.DB, clinicID uuid.UUID) ([]entity.DoctorProfile, error) {
	args := m.Called(ctx, db, clinicID)
	profiles, _ := args.Get(0).([]entity.DoctorProfile)
	return profiles, args.Error(1)
}

func (m *mockDoctorProfileRepo) Update(ctx context.Context, db *gorm.DB, profile *entity.DoctorProfile) error {
	return m.Called(ctx, db, profile).Error(0)
}

type mockPatientRepo struct{ mock.Mock }

func (m *mockPatientRepo) Create(ctx context.Context, db *gorm.DB, patient *entity.Patient) error {
	return m.Called(ctx, db, patient).Error(0)
}

func (m *mockPatientRepo) FindByID(ctx context.Context, db *gorm.DB, clinicID, id uuid.UUID) (*entity.Patient, error) {
	args := m.Called(ctx, db, clinicID, id)
	patient, _ := args.Get(0).(*entity.Patient)
	return patient, args.Error(1)
}

func (m *mockPatientRepo) FindAll(ctx context.Context, db *gorm.DB, clinicID uuid.UUID, search string, limit, offset int) ([]entity.Patient, int64, error) {
	args := m.Called(ctx, db, clinicID, search, limit, offset)
	patients, _ := args.Get(0).([]entity.Patient)
	return patients, args.Get(1).(int64), args.Error(2)
}

func (m *mockPatientRepo) Update(ctx context.Context, db *gorm.DB, patient *entity.Patient) error {
	return m.Called(ctx, db, patient).Error(0)
}

func (m *mockPatientRepo) Delete(ctx context.Context, db *gorm.DB, clinicID, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, db, clinicID, id)
	return args.Get(0).(int64), args.Error(1)
}

type mockAppointmentRepo struct{ mock.Mock }

func (m *mockAppointmentRepo) Create(ctx context.Context, db *gorm.DB, appointment *entity.Appointment) error {
	return m.Called(ctx, db, appointment).Error(0)
}

func (m *mockAppointmentRepo) FindByID(ctx context.Context, db *gorm.DB, clinicID, id uuid.UUID) (*entity.Appointment, error) {
	args := m.Called(ctx, db, clinicID, id)
	appointment, _ := args.Get(0).(*entity.Appointment)
	return appointment, args.Error(1)
}

func (m *mockAppointmentRepo) FindByIDForUpdate(ctx context.Context, db *gorm.DB, clinicID, id uuid.UUID) (*entity.Appointment, error) {
	args := m.Called(ctx, db, clinicID, id)
	appointment, _ := args.Get(0).(*entity.Appointment)
	return appointment, args.Error(1)
}

func (m *mockAppointmentRepo) FindByDoctorAndDay(ctx context.Context, db *gorm.DB, doctorID uuid.UUID, dayStart, dayEnd time.Time) ([]entity.Appointment, error) {
	args := m.Called(ctx, db, doctorID, dayStart, dayEnd)
	appointments, _ := args.Get(0).([]entity.Appointment)
	return appointments, args.Error(1)
}

func (m *mockAppointmentRepo) FindAll(ctx context.Context, db *gorm.DB, clinicID uuid.UUID, filter *entity.AppointmentFilter) ([]entity.Appointment, error) {
	args := m.Called(ctx, db, clinicID, filter)
	appointments, _ := args.Get(0).([]entity.Appointment)
	return appointments, args.Error(1)
}

func (m *mockAppointmentRepo) Update(ctx context.Context, db *gorm.DB, appointment *entity.Appointment) error {
	return m.Called(ctx, db, appointment).Error(0)
}

type mockLedgerRepo struct{ mock.Mock }

func (m *mockLedgerRepo) Create(ctx context.Context, db *gorm.DB, entry *entity.LedgerEntry) error {
	return m.Called(ctx, db, entry).Error(0)
}

func (m *mockLedgerRepo) FindByID(ctx context.Context, db *gorm.DB, clinicID, id uuid.UUID) (*entity.LedgerEntry, error) {
	args := m.Called(ctx, db, clinicID, id)
	entry, _ := args.Get(0).(*entity.LedgerEntry)
	return entry, args.Error(1)
}

func (m *mockLedgerRepo) FindAll(ctx context.Context, db *gorm.DB, clinicID uuid.UUID, filter *entity.LedgerFilter) ([]entity.LedgerEntry, int64, error) {
	args := m.Called(ctx, db, clinicID, filter)
	entries, _ := args.Get(0).([]entity.LedgerEntry)
	return entries, args.Get(1).(int64), args.Error(2)
}

func (m *mockLedgerRepo) Summarize(ctx context.Context, db *gorm.DB, clinicID uuid.UUID, filter *entity.LedgerFilter) (*entity.LedgerSummary, error) {
	args := m.Called(ctx, db, clinicID, filter)
	summary, _ := args.Get(0).(*entity.LedgerSummary)
	return summary, args.Error(1)
}

func (m *mockLedgerRepo) Delete(ctx context.Context, db *gorm.DB, clinicID, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, db, clinicID, id)
	return args.Get(0).(int64), args.Error(1)
}

type mockAuditService struct{ mock.Mock }

func (m *mockAuditService) LogCreate(ctx context.Context, tx *gorm.DB, entry service.AuditEntry, newValue interface{}) error {
	return m.Called(ctx, tx, entry, newValue).Error(0)
}

func (m *mockAuditService) LogUpdate(ctx context.Context, tx *gorm.DB, entry service.AuditEntry, oldValue, newValue interface{}) error {
	return m.Called(ctx, tx, entry, oldValue, newValue).Error(0)
}

func (m *mockAuditService) LogDelete(ctx context.Context, tx *gorm.DB, entry service.AuditEntry, oldValue interface{}) error {
	return m.Called(ctx, tx, entry, oldValue).Error(0)
}

type mockSlotHold struct{ mock.Mock }

func (m *mockSlotHold) Acquire(ctx context.Context, doctorID uuid.UUID, startAt time.Time) (*service.SlotHold, error) {
	args := m.Called(ctx, doctorID, startAt)
	hold, _ := args.Get(0).(*service.SlotHold)
	return hold, args.Error(1)
}

func (m *mockSlotHold) Release(ctx context.Context, hold *service.SlotHold) error {
	return m.Called(ctx, hold).Error(0)
}

type mockGateway struct{ mock.Mock }

func (m *mockGateway) CreateCheckoutSession(ctx context.Context, params payment.CheckoutParams) (*payment.CheckoutSession, error) {
	args := m.Called(ctx, params)
	session, _ := args.Get(0).(*payment.CheckoutSession)
	return session, args.Error(1)
}

func (m *mockGateway) ParseWebhook(payload []byte, signature string) (*payment.Event, error) {
	args := m.Called(payload, signature)
	event, _ := args.Get(0).(*payment.Event)
	return event, args.Error(1)
}

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) Create(ctx context.Context, db *gorm.DB, user *entity.User) error {
	return m.Called(ctx, db, user).Error(0)
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*entity.User, error) {
	args := m.Called(ctx, db, email)
	user, _ := args.Get(0).(*entity.User)
	return user, args.Error(1)
}

func (m *mockUserRepo) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, db, id)
	user, _ := args.Get(0).(*entity.User)
	return user, args.Error(1)
}

func (m *mockUserRepo) Update(ctx context.Context, db *gorm.DB, user *entity.User) error {
	return m.Called(ctx, db, user).Error(0)
}

func (m *mockUserRepo) Delete(ctx context.Context, db *gorm.DB, clinicID, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, db, clinicID, id)
	return args.Get(0).(int64), args.Error(1)
}

type mockRoleRepo struct{ mock.Mock }

func (m *mockRoleRepo) FindByName(ctx context.Context, db *gorm.DB, name string) (*entity.Role, error) {
	args := m.Called(ctx, db, name)
	role, _ := args.Get(0).(*entity.Role)
	return role, args.Error(1)
}

type mockTokenStore struct{ mock.Mock }

func (m *mockTokenStore) Store(ctx context.Context, userID uuid.UUID, tokenType jwt.TokenType, tokenID string, ttl time.Duration) error {
	return m.Called(ctx, userID, tokenType, tokenID, ttl).Error(0)
}

func (m *mockTokenStore) IsValid(ctx context.Context, userID uuid.UUID, tokenType jwt.TokenType, tokenID string) (bool, error) {
	args := m.Called(ctx, userID, tokenType, tokenID)
	return args.Bool(0), args.Error(1)
}

func (m *mockTokenStore) Revoke(ctx context.Context, userID uuid.UUID, tokenType jwt.TokenType, tokenID string) error {
	return m.Called(ctx, userID, tokenType, tokenID).Error(0)
}

func (m *mockTokenStore) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

type mockAnamnesisRepo struct{ mock.Mock }

func (m *mockAnamnesisRepo) FindByPatientID(ctx context.Context, db *gorm.DB, clinicID, patientID uuid.UUID) (*entity.Anamnesis, error) {
	args := m.Called(ctx, db, clinicID, patientID)
	anamnesis, _ := args.Get(0).(*entity.Anamnesis)
	return anamnesis, args.Error(1)
}

func (m *mockAnamnesisRepo) Upsert(ctx context.Context, db *gorm.DB, anamnesis *entity.Anamnesis) error {
	return m.Called(ctx, db, anamnesis).Error(0)
}

type mockOdontogramRepo struct{ mock.Mock }

func (m *mockOdontogramRepo) Create(ctx context.Context, db *gorm.DB, mark *entity.OdontogramMark) error {
	return m.Called(ctx, db, mark).Error(0)
}

func (m *mockOdontogramRepo) FindByPatientID(ctx context.Context, db *gorm.DB, clinicID, patientID uuid.UUID) ([]entity.OdontogramMark, error) {
	args := m.Called(ctx, db, clinicID, patientID)
	marks, _ := args.Get(0).([]entity.OdontogramMark)
	return marks, args.Error(1)
}

func (m *mockOdontogramRepo) Delete(ctx context.Context, db *gorm.DB, clinicID, patientID, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, db, clinicID, patientID, id)
	return args.Get(0).(int64), args.Error(1)
}
