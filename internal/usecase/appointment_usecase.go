package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-dental-clinic/internal/converter"
	"go-dental-clinic/internal/delivery/dto"
	"go-dental-clinic/internal/domain/availability"
	"go-dental-clinic/internal/domain/entity"
	"go-dental-clinic/internal/domain/repository"
	"go-dental-clinic/internal/service"
	"go-dental-clinic/pkg/timezone"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrAppointmentInPast   = errors.New("appointment start must be in the future")
	ErrSlotNotOffered      = errors.New("requested start is not an offered slot for this doctor")
	ErrSlotTaken           = errors.New("slot is already booked")
	ErrInvalidProcedure    = errors.New("invalid procedure")
	ErrInvalidStatus       = errors.New("invalid appointment status")
	ErrInvalidPrice        = errors.New("price must not be negative")
	ErrInvalidTransition   = entity.ErrInvalidTransition
)

type AppointmentUsecase interface {
	GetSlots(ctx context.Context, clinicID, doctorID uuid.UUID, date string) (*dto.SlotListResponse, error)
	CreateAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	GetAppointment(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error)
	ListAppointments(ctx context.Context, query *dto.AppointmentListQuery) (*dto.AppointmentListResponse, error)
	RescheduleAppointment(ctx context.Context, appointmentID uuid.UUID, req *dto.RescheduleAppointmentRequest) (*dto.AppointmentResponse, error)
	CancelAppointment(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error)
	AttendAppointment(ctx context.Context, appointmentID uuid.UUID, req *dto.AttendAppointmentRequest) (*dto.AppointmentResponse, error)
	MarkNoShow(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error)
}

type appointmentUsecase struct {
	db                *gorm.DB
	log               *logrus.Logger
	clinicRepo        repository.ClinicRepository
	doctorProfileRepo repository.DoctorProfileRepository
	patientRepo       repository.PatientRepository
	appointmentRepo   repository.AppointmentRepository
	ledgerRepo        repository.LedgerRepository
	auditService      service.AuditService
	slotHold          service.SlotHoldService
	granularity       time.Duration
	defaultTimezone   string
	now               func() time.Time
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	clinicRepo repository.ClinicRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	patientRepo repository.PatientRepository,
	appointmentRepo repository.AppointmentRepository,
	ledgerRepo repository.LedgerRepository,
	auditService service.AuditService,
	slotHold service.SlotHoldService,
	granularity time.Duration,
	defaultTimezone string,
) AppointmentUsecase {
	return &appointmentUsecase{
		db:                db,
		log:               log,
		clinicRepo:        clinicRepo,
		doctorProfileRepo: doctorProfileRepo,
		patientRepo:       patientRepo,
		appointmentRepo:   appointmentRepo,
		ledgerRepo:        ledgerRepo,
		auditService:      auditService,
		slotHold:          slotHold,
		granularity:       granularity,
		defaultTimezone:   defaultTimezone,
		now:               time.Now,
	}
}

// GetSlots lists the doctor's slots on date (YYYY-MM-DD in the clinic timezone).
// The clinic id is taken as an argument so the lookup also serves unauthenticated callers.
func (u *appointmentUsecase) GetSlots(ctx context.Context, clinicID, doctorID uuid.UUID, date string) (*dto.SlotListResponse, error) {
	_, loc, err := clinicLocation(ctx, u.db, u.clinicRepo, clinicID, u.defaultTimezone)
	if err != nil {
		if !errors.Is(err, ErrClinicNotFound) {
			u.log.Warnf("Failed to find clinic: %+v", err)
		}
		return nil, err
	}

	day, err := timezone.ParseDate(date, loc)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}

	profile, err := u.findDoctor(ctx, u.db, clinicID, doctorID)
	if err != nil {
		return nil, err
	}

	slots, err := u.computeSlots(ctx, u.db, profile, day, uuid.Nil)
	if err != nil {
		return nil, err
	}

	return &dto.SlotListResponse{
		DoctorID: doctorID,
		Date:     day.Format(converter.DateLayout),
		Timezone: loc.String(),
		Slots:    slots,
	}, nil
}

func (u *appointmentUsecase) CreateAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	a, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	procedure := entity.Procedure(req.Procedure)
	if !procedure.Valid() {
		return nil, ErrInvalidProcedure
	}

	price := decimal.Zero
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, ErrInvalidPrice
		}
		price = *req.Price
	}

	_, loc, err := clinicLocation(ctx, u.db, u.clinicRepo, a.ClinicID, u.defaultTimezone)
	if err != nil {
		return nil, err
	}

	startAt, err := resolveStart(req.StartAt, req.Date, req.Time, loc)
	if err != nil {
		return nil, err
	}
	if !startAt.After(u.now()) {
		return nil, ErrAppointmentInPast
	}

	profile, err := u.findDoctor(ctx, u.db, a.ClinicID, req.DoctorID)
	if err != nil {
		return nil, err
	}

	patient, err := u.patientRepo.FindByID(ctx, u.db, a.ClinicID, req.PatientID)
	if err != nil {
		u.log.Warnf("Failed to find patient: %+v", err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	hold, err := u.slotHold.Acquire(ctx, profile.UserID, startAt)
	if err != nil {
		return nil, err
	}
	defer u.releaseHold(hold)

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.checkSlot(ctx, tx, profile, startAt, uuid.Nil); err != nil {
		return nil, err
	}

	appointment := &entity.Appointment{
		ClinicID:  a.ClinicID,
		DoctorID:  profile.UserID,
		PatientID: patient.ID,
		StartAt:   startAt,
		Status:    entity.AppointmentStatusScheduled,
		Procedure: procedure,
		Price:     price,
		Notes:     req.Notes,
	}
	if err := u.appointmentRepo.Create(ctx, tx, appointment); err != nil {
		if isDuplicateKeyError(err, "doctor_start") {
			return nil, ErrSlotTaken
		}
		u.log.Warnf("Failed to create appointment: %+v", err)
		return nil, err
	}

	appointment.Doctor = *profile
	appointment.Patient = *patient
	response := converter.AppointmentToResponse(appointment)

	if err := u.auditService.LogCreate(ctx, tx, service.AuditEntry{
		ClinicID:   a.ClinicID,
		UserID:     &a.UserID,
		Action:     entity.AuditActionAppointmentCreate,
		EntityName: "appointment",
		EntityID:   appointment.ID.String(),
	}, response); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		if isDuplicateKeyError(err, "doctor_start") {
			return nil, ErrSlotTaken
		}
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return response, nil
}

func (u *appointmentUsecase) GetAppointment(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	a, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	appointment, err := u.appointmentRepo.FindByID(ctx, u.db, a.ClinicID, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment: %+v", err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) ListAppointments(ctx context.Context, query *dto.AppointmentListQuery) (*dto.AppointmentListResponse, error) {
	a, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	filter := &entity.AppointmentFilter{DoctorID: query.DoctorID}

	if query.Status != "" {
		status := entity.AppointmentStatus(query.Status)
		if !status.Valid() {
			return nil, ErrInvalidStatus
		}
		filter.Status = status
	}

	if query.Date != "" {
		_, loc, err := clinicLocation(ctx, u.db, u.clinicRepo, a.ClinicID, u.defaultTimezone)
		if err != nil {
			return nil, err
		}
		day, err := timezone.ParseDate(query.Date, loc)
		if err != nil {
			return nil, ErrInvalidDateFormat
		}
		filter.From = day
		filter.To = day.AddDate(0, 0, 1)
	}

	appointments, err := u.appointmentRepo.FindAll(ctx, u.db, a.ClinicID, filter)
	if err != nil {
		u.log.Warnf("Failed to list appointments: %+v", err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

func (u *appointmentUsecase) RescheduleAppointment(ctx context.Context, appointmentID uuid.UUID, req *dto.RescheduleAppointmentRequest) (*dto.AppointmentResponse, error) {
	a, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	_, loc, err := clinicLocation(ctx, u.db, u.clinicRepo, a.ClinicID, u.defaultTimezone)
	if err != nil {
		return nil, err
	}

	startAt, err := resolveStart(req.StartAt, req.Date, req.Time, loc)
	if err != nil {
		return nil, err
	}
	if !startAt.After(u.now()) {
		return nil, ErrAppointmentInPast
	}

	current, err := u.appointmentRepo.FindByID(ctx, u.db, a.ClinicID, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment: %+v", err)
		return nil, err
	}
	if current == nil {
		return nil, ErrAppointmentNotFound
	}

	hold, err := u.slotHold.Acquire(ctx, current.DoctorID, startAt)
	if err != nil {
		return nil, err
	}
	defer u.releaseHold(hold)

	return u.transition(ctx, a, appointmentID, func(tx *gorm.DB, appointment *entity.Appointment) error {
		profile, err := u.findDoctor(ctx, tx, a.ClinicID, appointment.DoctorID)
		if err != nil {
			return err
		}
		if err := u.checkSlot(ctx, tx, profile, startAt, appointment.ID); err != nil {
			return err
		}
		return appointment.Reschedule(startAt)
	})
}

func (u *appointmentUsecase) CancelAppointment(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	a, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	return u.transition(ctx, a, appointmentID, func(_ *gorm.DB, appointment *entity.Appointment) error {
		return appointment.Cancel(u.now())
	})
}

// AttendAppointment closes the visit. A positive price is booked as clinic income
// in the same transaction.
func (u *appointmentUsecase) AttendAppointment(ctx context.Context, appointmentID uuid.UUID, req *dto.AttendAppointmentRequest) (*dto.AppointmentResponse, error) {
	a, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if req.Price != nil && req.Price.IsNegative() {
		return nil, ErrInvalidPrice
	}

	_, loc, err := clinicLocation(ctx, u.db, u.clinicRepo, a.ClinicID, u.defaultTimezone)
	if err != nil {
		return nil, err
	}

	return u.transition(ctx, a, appointmentID, func(tx *gorm.DB, appointment *entity.Appointment) error {
		now := u.now()
		if err := appointment.Attend(now); err != nil {
			return err
		}
		if req.Price != nil {
			appointment.Price = *req.Price
		}
		if req.Notes != "" {
			appointment.Notes = req.Notes
		}

		if !appointment.Price.IsPositive() {
			return nil
		}

		y, m, d := now.In(loc).Date()
		entry := &entity.LedgerEntry{
			ClinicID:      a.ClinicID,
			Kind:          entity.LedgerKindIncome,
			Category:      entity.LedgerCategoryAppointment,
			Amount:        appointment.Price,
			Description:   fmt.Sprintf("%s appointment", appointment.Procedure),
			OccurredOn:    time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
			AppointmentID: &appointment.ID,
			CreatedBy:     a.UserID,
		}
		if err := u.ledgerRepo.Create(ctx, tx, entry); err != nil {
			u.log.Warnf("Failed to record appointment income: %+v", err)
			return err
		}
		return nil
	})
}

func (u *appointmentUsecase) MarkNoShow(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	a, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	return u.transition(ctx, a, appointmentID, func(_ *gorm.DB, appointment *entity.Appointment) error {
		return appointment.MarkNoShow()
	})
}

// transition locks the appointment row, applies change and audits the result
func (u *appointmentUsecase) transition(ctx context.Context, a actor, appointmentID uuid.UUID, change func(tx *gorm.DB, appointment *entity.Appointment) error) (*dto.AppointmentResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.appointmentRepo.FindByIDForUpdate(ctx, tx, a.ClinicID, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to lock appointment: %+v", err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	oldValue := converter.AppointmentToResponse(appointment)

	if err := change(tx, appointment); err != nil {
		return nil, err
	}

	if err := u.appointmentRepo.Update(ctx, tx, appointment); err != nil {
		if isDuplicateKeyError(err, "doctor_start") {
			return nil, ErrSlotTaken
		}
		u.log.Warnf("Failed to update appointment: %+v", err)
		return nil, err
	}

	newValue := converter.AppointmentToResponse(appointment)
	if err := u.auditService.LogUpdate(ctx, tx, service.AuditEntry{
		ClinicID:   a.ClinicID,
		UserID:     &a.UserID,
		Action:     entity.AuditActionAppointmentUpdate,
		EntityName: "appointment",
		EntityID:   appointment.ID.String(),
	}, oldValue, newValue); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	updated, err := u.appointmentRepo.FindByID(ctx, u.db, a.ClinicID, appointment.ID)
	if err != nil || updated == nil {
		return newValue, nil
	}
	return converter.AppointmentToResponse(updated), nil
}

func (u *appointmentUsecase) findDoctor(ctx context.Context, db *gorm.DB, clinicID, doctorID uuid.UUID) (*entity.DoctorProfile, error) {
	profile, err := u.doctorProfileRepo.FindByUserID(ctx, db, clinicID, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrDoctorNotFound
	}
	if !profile.User.Active() {
		return nil, ErrDoctorInactive
	}
	return profile, nil
}

// computeSlots runs the availability pipeline for the calendar day of day,
// ignoring the appointment excludeID.
func (u *appointmentUsecase) computeSlots(ctx context.Context, db *gorm.DB, profile *entity.DoctorProfile, day time.Time, excludeID uuid.UUID) ([]availability.Slot, error) {
	schedule, err := profile.Schedule()
	if err != nil {
		u.log.Warnf("Failed to parse availability of doctor %s: %+v", profile.UserID, err)
		return nil, err
	}

	dayStart := timezone.StartOfDay(day, day.Location())
	existing, err := u.appointmentRepo.FindByDoctorAndDay(ctx, db, profile.UserID, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		u.log.Warnf("Failed to find appointments of doctor: %+v", err)
		return nil, err
	}

	if excludeID != uuid.Nil {
		kept := existing[:0]
		for _, appointment := range existing {
			if appointment.ID != excludeID {
				kept = append(kept, appointment)
			}
		}
		existing = kept
	}

	return availability.ComputeAvailableSlots(schedule, existing, dayStart, u.granularity), nil
}

// checkSlot requires startAt to be an offered and free slot
func (u *appointmentUsecase) checkSlot(ctx context.Context, db *gorm.DB, profile *entity.DoctorProfile, startAt time.Time, excludeID uuid.UUID) error {
	slots, err := u.computeSlots(ctx, db, profile, startAt, excludeID)
	if err != nil {
		return err
	}

	slot, ok := availability.Lookup(slots, startAt)
	if !ok {
		return ErrSlotNotOffered
	}
	if !slot.Available {
		return ErrSlotTaken
	}
	return nil
}

func (u *appointmentUsecase) releaseHold(hold *service.SlotHold) {
	// the request context may already be cancelled
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := u.slotHold.Release(ctx, hold); err != nil {
		u.log.Errorf("Failed to release slot hold: %+v", err)
	}
}

// resolveStart picks start_at when given, otherwise date plus time of day in loc
func resolveStart(startAt *time.Time, date, clock string, loc *time.Location) (time.Time, error) {
	if startAt != nil {
		return startAt.In(loc), nil
	}

	day, err := timezone.ParseDate(date, loc)
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	c, err := availability.ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return c.On(day), nil
}
