package usecase

import (
	"context"
	"testing"
	"time"

	"go-dental-clinic/internal/delivery/dto"
	"go-dental-clinic/internal/domain/entity"
	"go-dental-clinic/internal/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type appointmentFixture struct {
	uc           *appointmentUsecase
	sql          sqlmock.Sqlmock
	clinics      *mockClinicRepo
	doctors      *mockDoctorProfileRepo
	patients     *mockPatientRepo
	appointments *mockAppointmentRepo
	ledger       *mockLedgerRepo
	audit        *mockAuditService
	holds        *mockSlotHold

	clinic  *entity.Clinic
	doctor  *entity.DoctorProfile
	patient *entity.Patient
	userID  uuid.UUID
	loc     *time.Location
}

func newAppointmentFixture(t *testing.T) *appointmentFixture {
	db, sqlMock := setupMockDB(t)
	f := &appointmentFixture{
		sql:          sqlMock,
		clinics:      new(mockClinicRepo),
		doctors:      new(mockDoctorProfileRepo),
		patients:     new(mockPatientRepo),
		appointments: new(mockAppointmentRepo),
		ledger:       new(mockLedgerRepo),
		audit:        new(mockAuditService),
		holds:        new(mockSlotHold),
		userID:       uuid.New(),
	}

	var err error
	f.loc, err = time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	f.clinic = &entity.Clinic{ID: uuid.New(), Name: "Sorriso", Timezone: "America/Sao_Paulo"}
	f.doctor = &entity.DoctorProfile{
		UserID:      uuid.New(),
		ClinicID:    f.clinic.ID,
		FromWeekday: 1,
		ToWeekday:   5,
		FromTime:    "08:00:00",
		ToTime:      "12:00:00",
		User:        entity.User{FullName: "Dr. Ana Lima"},
	}
	f.patient = &entity.Patient{ID: uuid.New(), ClinicID: f.clinic.ID, FullName: "Carlos Souza"}

	f.uc = NewAppointmentUsecase(db, quietLogger(), f.clinics, f.doctors, f.patients, f.appointments,
		f.ledger, f.audit, f.holds, 30*time.Minute, "America/Sao_Paulo").(*appointmentUsecase)
	f.uc.now = func() time.Time { return time.Date(2026, time.October, 13, 12, 0, 0, 0, time.UTC) }

	f.clinics.On("FindByID", mock.Anything, mock.Anything, f.clinic.ID).Return(f.clinic, nil).Maybe()
	return f
}

func (f *appointmentFixture) at(day, hour, minute int) time.Time {
	return time.Date(2026, time.October, day, hour, minute, 0, 0, f.loc)
}

func (f *appointmentFixture) ctx() context.Context {
	return authedContext(f.clinic.ID, f.userID, entity.RoleIDReceptionist)
}

func (f *appointmentFixture) assertExpectations(t *testing.T) {
	f.appointments.AssertExpectations(t)
	f.holds.AssertExpectations(t)
	f.audit.AssertExpectations(t)
	f.ledger.AssertExpectations(t)
	assert.NoError(t, f.sql.ExpectationsWereMet())
}

func TestGetSlots_MarksBookedStart(t *testing.T) {
	f := newAppointmentFixture(t)
	dayStart := f.at(14, 0, 0)

	f.doctors.On("FindByUserID", mock.Anything, mock.Anything, f.clinic.ID, f.doctor.UserID).Return(f.doctor, nil)
	f.appointments.On("FindByDoctorAndDay", mock.Anything, mock.Anything, f.doctor.UserID,
		mock.MatchedBy(func(from time.Time) bool { return from.Equal(dayStart) }),
		mock.MatchedBy(func(to time.Time) bool { return to.Equal(dayStart.AddDate(0, 0, 1)) }),
	).Return([]entity.Appointment{
		{StartAt: f.at(14, 9, 0).UTC(), Status: entity.AppointmentStatusScheduled},
		{StartAt: f.at(14, 10, 0).UTC(), Status: entity.AppointmentStatusCancelled},
	}, nil)

	result, err := f.uc.GetSlots(f.ctx(), f.clinic.ID, f.doctor.UserID, "2026-10-14")

	require.NoError(t, err)
	assert.Equal(t, "2026-10-14", result.Date)
	assert.Equal(t, "America/Sao_Paulo", result.Timezone)
	require.Len(t, result.Slots, 8)
	for _, slot := range result.Slots {
		assert.Equal(t, slot.Label != "09:00", slot.Available, slot.Label)
	}
	f.assertExpectations(t)
}

func TestGetSlots_InvalidDate(t *testing.T) {
	f := newAppointmentFixture(t)

	_, err := f.uc.GetSlots(f.ctx(), f.clinic.ID, f.doctor.UserID, "14/10/2026")

	assert.ErrorIs(t, err, ErrInvalidDateFormat)
}

func TestGetSlots_InactiveDoctor(t *testing.T) {
	f := newAppointmentFixture(t)
	inactive := false
	f.doctor.User.IsActive = &inactive
	f.doctors.On("FindByUserID", mock.Anything, mock.Anything, f.clinic.ID, f.doctor.UserID).Return(f.doctor, nil)

	_, err := f.uc.GetSlots(f.ctx(), f.clinic.ID, f.doctor.UserID, "2026-10-14")

	assert.ErrorIs(t, err, ErrDoctorInactive)
}

func (f *appointmentFixture) bookingRequest(date, clock string) *dto.CreateAppointmentRequest {
	return &dto.CreateAppointmentRequest{
		DoctorID:  f.doctor.UserID,
		PatientID: f.patient.ID,
		Date:      date,
		Time:      clock,
		Procedure: string(entity.ProcedureCleaning),
	}
}

func (f *appointmentFixture) expectBookingLookups(existing []entity.Appointment) {
	f.doctors.On("FindByUserID", mock.Anything, mock.Anything, f.clinic.ID, f.doctor.UserID).Return(f.doctor, nil)
	f.patients.On("FindByID", mock.Anything, mock.Anything, f.clinic.ID, f.patient.ID).Return(f.patient, nil)
	f.appointments.On("FindByDoctorAndDay", mock.Anything, mock.Anything, f.doctor.UserID, mock.Anything, mock.Anything).
		Return(existing, nil)
}

func TestCreateAppointment_Success(t *testing.T) {
	f := newAppointmentFixture(t)
	start := f.at(14, 9, 30)
	hold := &service.SlotHold{}

	f.expectBookingLookups(nil)
	f.holds.On("Acquire", mock.Anything, f.doctor.UserID, mock.MatchedBy(func(at time.Time) bool { return at.Equal(start) })).
		Return(hold, nil)
	f.holds.On("Release", mock.Anything, hold).Return(nil)
	f.sql.ExpectBegin()
	f.appointments.On("Create", mock.Anything, mock.Anything, mock.MatchedBy(func(a *entity.Appointment) bool {
		return a.StartAt.Equal(start) && a.Status == entity.AppointmentStatusScheduled &&
			a.ClinicID == f.clinic.ID && a.Price.IsZero()
	})).Run(func(args mock.Arguments) {
		args.Get(2).(*entity.Appointment).ID = uuid.New()
	}).Return(nil)
	f.audit.On("LogCreate", mock.Anything, mock.Anything, mock.MatchedBy(func(e service.AuditEntry) bool {
		return e.Action == entity.AuditActionAppointmentCreate && *e.UserID == f.userID
	}), mock.Anything).Return(nil)
	f.sql.ExpectCommit()

	result, err := f.uc.CreateAppointment(f.ctx(), f.bookingRequest("2026-10-14", "09:30"))

	require.NoError(t, err)
	assert.True(t, result.StartAt.Equal(start))
	assert.Equal(t, "Dr. Ana Lima", result.DoctorName)
	assert.Equal(t, "Carlos Souza", result.PatientName)
	assert.Equal(t, "scheduled", result.Status)
	f.assertExpectations(t)
}

func TestCreateAppointment_StartAtOffGrid(t *testing.T) {
	f := newAppointmentFixture(t)

	f.expectBookingLookups(nil)
	f.holds.On("Acquire", mock.Anything, f.doctor.UserID, mock.Anything).Return(&service.SlotHold{}, nil)
	f.holds.On("Release", mock.Anything, mock.Anything).Return(nil)
	f.sql.ExpectBegin()
	f.sql.ExpectRollback()

	_, err := f.uc.CreateAppointment(f.ctx(), f.bookingRequest("2026-10-14", "09:10"))

	assert.ErrorIs(t, err, ErrSlotNotOffered)
	f.appointments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestCreateAppointment_OutsideWorkingDays(t *testing.T) {
	f := newAppointmentFixture(t)

	f.expectBookingLookups(nil)
	f.holds.On("Acquire", mock.Anything, f.doctor.UserID, mock.Anything).Return(&service.SlotHold{}, nil)
	f.holds.On("Release", mock.Anything, mock.Anything).Return(nil)
	f.sql.ExpectBegin()
	f.sql.ExpectRollback()

	// 2026-10-18 is a Sunday
	_, err := f.uc.CreateAppointment(f.ctx(), f.bookingRequest("2026-10-18", "09:00"))

	assert.ErrorIs(t, err, ErrSlotNotOffered)
	f.assertExpectations(t)
}

func TestCreateAppointment_SlotTaken(t *testing.T) {
	f := newAppointmentFixture(t)
	start := f.at(14, 9, 0)

	f.expectBookingLookups([]entity.Appointment{{ID: uuid.New(), StartAt: start.UTC(), Status: entity.AppointmentStatusRescheduled}})
	f.holds.On("Acquire", mock.Anything, f.doctor.UserID, mock.Anything).Return(&service.SlotHold{}, nil)
	f.holds.On("Release", mock.Anything, mock.Anything).Return(nil)
	f.sql.ExpectBegin()
	f.sql.ExpectRollback()

	_, err := f.uc.CreateAppointment(f.ctx(), f.bookingRequest("2026-10-14", "09:00"))

	assert.ErrorIs(t, err, ErrSlotTaken)
	f.assertExpectations(t)
}

func TestCreateAppointment_UniqueViolationMapsToSlotTaken(t *testing.T) {
	f := newAppointmentFixture(t)

	f.expectBookingLookups(nil)
	f.holds.On("Acquire", mock.Anything, f.doctor.UserID, mock.Anything).Return(&service.SlotHold{}, nil)
	f.holds.On("Release", mock.Anything, mock.Anything).Return(nil)
	f.sql.ExpectBegin()
	f.appointments.On("Create", mock.Anything, mock.Anything, mock.Anything).
		Return(&pgconn.PgError{Code: "23505", ConstraintName: "uq_appointments_doctor_start_active"})
	f.sql.ExpectRollback()

	_, err := f.uc.CreateAppointment(f.ctx(), f.bookingRequest("2026-10-14", "11:30"))

	assert.ErrorIs(t, err, ErrSlotTaken)
	f.assertExpectations(t)
}

func TestCreateAppointment_ConcurrentHold(t *testing.T) {
	f := newAppointmentFixture(t)

	f.doctors.On("FindByUserID", mock.Anything, mock.Anything, f.clinic.ID, f.doctor.UserID).Return(f.doctor, nil)
	f.patients.On("FindByID", mock.Anything, mock.Anything, f.clinic.ID, f.patient.ID).Return(f.patient, nil)
	f.holds.On("Acquire", mock.Anything, f.doctor.UserID, mock.Anything).Return(nil, service.ErrSlotHeld)

	_, err := f.uc.CreateAppointment(f.ctx(), f.bookingRequest("2026-10-14", "08:00"))

	assert.ErrorIs(t, err, service.ErrSlotHeld)
	f.holds.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)
	assert.NoError(t, f.sql.ExpectationsWereMet())
}

func TestCreateAppointment_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(f *appointmentFixture, req *dto.CreateAppointmentRequest)
		wantErr error
	}{
		{"start in the past", func(f *appointmentFixture, req *dto.CreateAppointmentRequest) {
			req.Date = "2026-10-12"
		}, ErrAppointmentInPast},
		{"unknown procedure", func(f *appointmentFixture, req *dto.CreateAppointmentRequest) {
			req.Procedure = "haircut"
		}, ErrInvalidProcedure},
		{"negative price", func(f *appointmentFixture, req *dto.CreateAppointmentRequest) {
			price := decimal.NewFromInt(-10)
			req.Price = &price
		}, ErrInvalidPrice},
		{"rfc3339 start in the past", func(f *appointmentFixture, req *dto.CreateAppointmentRequest) {
			start := time.Date(2026, time.October, 13, 11, 0, 0, 0, time.UTC)
			req.StartAt = &start
			req.Date, req.Time = "", ""
		}, ErrAppointmentInPast},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAppointmentFixture(t)
			req := f.bookingRequest("2026-10-14", "09:00")
			tt.mutate(f, req)

			_, err := f.uc.CreateAppointment(f.ctx(), req)

			assert.ErrorIs(t, err, tt.wantErr)
			f.holds.AssertNotCalled(t, "Acquire", mock.Anything, mock.Anything, mock.Anything)
			assert.NoError(t, f.sql.ExpectationsWereMet())
		})
	}
}

func TestCreateAppointment_Unauthenticated(t *testing.T) {
	f := newAppointmentFixture(t)

	_, err := f.uc.CreateAppointment(t.Context(), f.bookingRequest("2026-10-14", "09:00"))

	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func (f *appointmentFixture) openAppointment(status entity.AppointmentStatus) *entity.Appointment {
	return &entity.Appointment{
		ID:        uuid.New(),
		ClinicID:  f.clinic.ID,
		DoctorID:  f.doctor.UserID,
		PatientID: f.patient.ID,
		StartAt:   f.at(14, 9, 0).UTC(),
		Status:    status,
		Procedure: entity.ProcedureRootCanal,
		Price:     decimal.RequireFromString("350.00"),
	}
}

func TestAttendAppointment_RecordsIncome(t *testing.T) {
	f := newAppointmentFixture(t)
	appointment := f.openAppointment(entity.AppointmentStatusScheduled)

	f.sql.ExpectBegin()
	f.appointments.On("FindByIDForUpdate", mock.Anything, mock.Anything, f.clinic.ID, appointment.ID).Return(appointment, nil)
	f.appointments.On("Update", mock.Anything, mock.Anything, mock.MatchedBy(func(a *entity.Appointment) bool {
		return a.Status == entity.AppointmentStatusAttended && a.AttendedAt != nil
	})).Return(nil)
	f.ledger.On("Create", mock.Anything, mock.Anything, mock.MatchedBy(func(e *entity.LedgerEntry) bool {
		return e.Kind == entity.LedgerKindIncome &&
			e.Category == entity.LedgerCategoryAppointment &&
			e.Amount.Equal(decimal.RequireFromString("350.00")) &&
			*e.AppointmentID == appointment.ID &&
			e.OccurredOn.Equal(time.Date(2026, time.October, 13, 0, 0, 0, 0, time.UTC))
	})).Return(nil)
	f.audit.On("LogUpdate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.sql.ExpectCommit()
	f.appointments.On("FindByID", mock.Anything, mock.Anything, f.clinic.ID, appointment.ID).Return(appointment, nil)

	result, err := f.uc.AttendAppointment(f.ctx(), appointment.ID, &dto.AttendAppointmentRequest{})

	require.NoError(t, err)
	assert.Equal(t, "attended", result.Status)
	f.assertExpectations(t)
}

func TestAttendAppointment_ZeroPriceSkipsLedger(t *testing.T) {
	f := newAppointmentFixture(t)
	appointment := f.openAppointment(entity.AppointmentStatusRescheduled)
	zero := decimal.Zero

	f.sql.ExpectBegin()
	f.appointments.On("FindByIDForUpdate", mock.Anything, mock.Anything, f.clinic.ID, appointment.ID).Return(appointment, nil)
	f.appointments.On("Update", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.audit.On("LogUpdate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.sql.ExpectCommit()
	f.appointments.On("FindByID", mock.Anything, mock.Anything, f.clinic.ID, appointment.ID).Return(appointment, nil)

	_, err := f.uc.AttendAppointment(f.ctx(), appointment.ID, &dto.AttendAppointmentRequest{Price: &zero})

	require.NoError(t, err)
	f.ledger.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestTransitions_TerminalStatesReject(t *testing.T) {
	terminal := []entity.AppointmentStatus{
		entity.AppointmentStatusCancelled,
		entity.AppointmentStatusAttended,
		entity.AppointmentStatusNoShow,
	}

	for _, status := range terminal {
		t.Run(string(status), func(t *testing.T) {
			f := newAppointmentFixture(t)
			appointment := f.openAppointment(status)

			f.sql.ExpectBegin()
			f.appointments.On("FindByIDForUpdate", mock.Anything, mock.Anything, f.clinic.ID, appointment.ID).Return(appointment, nil)
			f.sql.ExpectRollback()

			_, err := f.uc.CancelAppointment(f.ctx(), appointment.ID)

			assert.ErrorIs(t, err, ErrInvalidTransition)
			f.appointments.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
			assert.NoError(t, f.sql.ExpectationsWereMet())
		})
	}
}

func TestMarkNoShow_NotFound(t *testing.T) {
	f := newAppointmentFixture(t)
	id := uuid.New()

	f.sql.ExpectBegin()
	f.appointments.On("FindByIDForUpdate", mock.Anything, mock.Anything, f.clinic.ID, id).Return(nil, nil)
	f.sql.ExpectRollback()

	_, err := f.uc.MarkNoShow(f.ctx(), id)

	assert.ErrorIs(t, err, ErrAppointmentNotFound)
	assert.NoError(t, f.sql.ExpectationsWereMet())
}

func TestRescheduleAppointment(t *testing.T) {
	tests := []struct {
		name   string
		clock  string
		target func(f *appointmentFixture) time.Time
	}{
		// a cancelled booking at 09:30 does not block it
		{"to a freed slot", "09:30", func(f *appointmentFixture) time.Time { return f.at(14, 9, 30) }},
		// the appointment's own start must not count as a conflict
		{"to its own start", "09:00", func(f *appointmentFixture) time.Time { return f.at(14, 9, 0) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAppointmentFixture(t)
			appointment := f.openAppointment(entity.AppointmentStatusScheduled)
			target := tt.target(f)
			existing := []entity.Appointment{
				*appointment,
				{ID: uuid.New(), StartAt: f.at(14, 9, 30).UTC(), Status: entity.AppointmentStatusCancelled},
			}

			f.appointments.On("FindByID", mock.Anything, mock.Anything, f.clinic.ID, appointment.ID).Return(appointment, nil)
			f.holds.On("Acquire", mock.Anything, f.doctor.UserID, mock.Anything).Return(&service.SlotHold{}, nil)
			f.holds.On("Release", mock.Anything, mock.Anything).Return(nil)
			f.sql.ExpectBegin()
			f.appointments.On("FindByIDForUpdate", mock.Anything, mock.Anything, f.clinic.ID, appointment.ID).Return(appointment, nil)
			f.doctors.On("FindByUserID", mock.Anything, mock.Anything, f.clinic.ID, f.doctor.UserID).Return(f.doctor, nil)
			f.appointments.On("FindByDoctorAndDay", mock.Anything, mock.Anything, f.doctor.UserID, mock.Anything, mock.Anything).Return(existing, nil)
			f.appointments.On("Update", mock.Anything, mock.Anything, mock.MatchedBy(func(a *entity.Appointment) bool {
				return a.Status == entity.AppointmentStatusRescheduled && a.StartAt.Equal(target)
			})).Return(nil)
			f.audit.On("LogUpdate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
			f.sql.ExpectCommit()

			result, err := f.uc.RescheduleAppointment(f.ctx(), appointment.ID, &dto.RescheduleAppointmentRequest{
				Date: "2026-10-14",
				Time: tt.clock,
			})

			require.NoError(t, err)
			assert.Equal(t, "rescheduled", result.Status)
			f.assertExpectations(t)
		})
	}
}

func TestRescheduleAppointment_OntoBookedSlot(t *testing.T) {
	f := newAppointmentFixture(t)
	appointment := f.openAppointment(entity.AppointmentStatusScheduled)
	existing := []entity.Appointment{
		*appointment,
		{ID: uuid.New(), StartAt: f.at(14, 10, 0).UTC(), Status: entity.AppointmentStatusScheduled},
	}

	f.appointments.On("FindByID", mock.Anything, mock.Anything, f.clinic.ID, appointment.ID).Return(appointment, nil)
	f.holds.On("Acquire", mock.Anything, f.doctor.UserID, mock.Anything).Return(&service.SlotHold{}, nil)
	f.holds.On("Release", mock.Anything, mock.Anything).Return(nil)
	f.sql.ExpectBegin()
	f.appointments.On("FindByIDForUpdate", mock.Anything, mock.Anything, f.clinic.ID, appointment.ID).Return(appointment, nil)
	f.doctors.On("FindByUserID", mock.Anything, mock.Anything, f.clinic.ID, f.doctor.UserID).Return(f.doctor, nil)
	f.appointments.On("FindByDoctorAndDay", mock.Anything, mock.Anything, f.doctor.UserID, mock.Anything, mock.Anything).Return(existing, nil)
	f.sql.ExpectRollback()

	_, err := f.uc.RescheduleAppointment(f.ctx(), appointment.ID, &dto.RescheduleAppointmentRequest{
		Date: "2026-10-14",
		Time: "10:00",
	})

	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.Equal(t, entity.AppointmentStatusScheduled, appointment.Status)
	f.appointments.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestListAppointments_DateUsesClinicDay(t *testing.T) {
	f := newAppointmentFixture(t)
	dayStart := f.at(14, 0, 0)

	f.appointments.On("FindAll", mock.Anything, mock.Anything, f.clinic.ID, mock.MatchedBy(func(filter *entity.AppointmentFilter) bool {
		return filter.From.Equal(dayStart) && filter.To.Equal(dayStart.AddDate(0, 0, 1)) &&
			filter.Status == entity.AppointmentStatusScheduled
	})).Return([]entity.Appointment{*f.openAppointment(entity.AppointmentStatusScheduled)}, nil)

	result, err := f.uc.ListAppointments(f.ctx(), &dto.AppointmentListQuery{Date: "2026-10-14", Status: "scheduled"})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Total)
	f.assertExpectations(t)
}

func TestListAppointments_InvalidStatus(t *testing.T) {
	f := newAppointmentFixture(t)

	_, err := f.uc.ListAppointments(f.ctx(), &dto.AppointmentListQuery{Status: "done"})

	assert.ErrorIs(t, err, ErrInvalidStatus)
}
