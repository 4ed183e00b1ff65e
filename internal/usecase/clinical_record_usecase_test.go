package usecase

import (
	"context"
	"testing"

	"go-dental-clinic/internal/delivery/dto"
	"go-dental-clinic/internal/domain/entity"
	"go-dental-clinic/internal/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type clinicalRecordFixture struct {
	uc         ClinicalRecordUsecase
	sql        sqlmock.Sqlmock
	patients   *mockPatientRepo
	anamneses  *mockAnamnesisRepo
	odontogram *mockOdontogramRepo
	audit      *mockAuditService

	clinicID uuid.UUID
	userID   uuid.UUID
	patient  *entity.Patient
}

func newClinicalRecordFixture(t *testing.T) *clinicalRecordFixture {
	db, sqlMock := setupMockDB(t)
	f := &clinicalRecordFixture{
		sql:        sqlMock,
		patients:   new(mockPatientRepo),
		anamneses:  new(mockAnamnesisRepo),
		odontogram: new(mockOdontogramRepo),
		audit:      new(mockAuditService),
		clinicID:   uuid.New(),
		userID:     uuid.New(),
	}
	f.patient = &entity.Patient{ID: uuid.New(), ClinicID: f.clinicID, FullName: "Carlos Souza"}
	f.uc = NewClinicalRecordUsecase(db, quietLogger(), f.patients, f.anamneses, f.odontogram, f.audit)
	return f
}

func (f *clinicalRecordFixture) ctx() context.Context {
	return authedContext(f.clinicID, f.userID, entity.RoleIDDoctor)
}

func TestUpsertAnamnesis_FirstWrite(t *testing.T) {
	f := newClinicalRecordFixture(t)

	f.sql.ExpectBegin()
	f.patients.On("FindByID", mock.Anything, mock.Anything, f.clinicID, f.patient.ID).Return(f.patient, nil)
	f.anamneses.On("FindByPatientID", mock.Anything, mock.Anything, f.clinicID, f.patient.ID).Return(nil, nil)
	f.anamneses.On("Upsert", mock.Anything, mock.Anything, mock.MatchedBy(func(a *entity.Anamnesis) bool {
		return a.PatientID == f.patient.ID && a.ClinicID == f.clinicID && a.UpdatedBy == f.userID && a.Allergies == "penicillin"
	})).Return(nil)
	f.audit.On("LogUpdate", mock.Anything, mock.Anything, mock.MatchedBy(func(e service.AuditEntry) bool {
		return e.Action == entity.AuditActionAnamnesisUpdate && e.EntityID == f.patient.ID.String()
	}), (*dto.AnamnesisResponse)(nil), mock.AnythingOfType("*dto.AnamnesisResponse")).Return(nil)
	f.sql.ExpectCommit()

	result, err := f.uc.UpsertAnamnesis(f.ctx(), f.patient.ID, &dto.UpsertAnamnesisRequest{
		ChiefComplaint: "sensitivity on lower left molar",
		Allergies:      "penicillin",
		Answers:        entity.JSON{"smoker": false, "pregnant": false},
	})

	require.NoError(t, err)
	assert.Equal(t, f.patient.ID, result.PatientID)
	assert.Equal(t, f.userID, result.UpdatedBy)
	assert.Equal(t, false, result.Answers["smoker"])
	f.anamneses.AssertExpectations(t)
	f.audit.AssertExpectations(t)
	assert.NoError(t, f.sql.ExpectationsWereMet())
}

func TestUpsertAnamnesis_ReplacesPrevious(t *testing.T) {
	f := newClinicalRecordFixture(t)
	previous := &entity.Anamnesis{PatientID: f.patient.ID, ClinicID: f.clinicID, Allergies: "latex"}

	f.sql.ExpectBegin()
	f.patients.On("FindByID", mock.Anything, mock.Anything, f.clinicID, f.patient.ID).Return(f.patient, nil)
	f.anamneses.On("FindByPatientID", mock.Anything, mock.Anything, f.clinicID, f.patient.ID).Return(previous, nil)
	f.anamneses.On("Upsert", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.audit.On("LogUpdate", mock.Anything, mock.Anything, mock.Anything,
		mock.MatchedBy(func(old *dto.AnamnesisResponse) bool { return old.Allergies == "latex" }),
		mock.MatchedBy(func(updated *dto.AnamnesisResponse) bool { return updated.Allergies == "" }),
	).Return(nil)
	f.sql.ExpectCommit()

	_, err := f.uc.UpsertAnamnesis(f.ctx(), f.patient.ID, &dto.UpsertAnamnesisRequest{Notes: "allergy ruled out"})

	require.NoError(t, err)
	f.audit.AssertExpectations(t)
}

func TestGetAnamnesis_NotRecorded(t *testing.T) {
	f := newClinicalRecordFixture(t)
	f.patients.On("FindByID", mock.Anything, mock.Anything, f.clinicID, f.patient.ID).Return(f.patient, nil)
	f.anamneses.On("FindByPatientID", mock.Anything, mock.Anything, f.clinicID, f.patient.ID).Return(nil, nil)

	_, err := f.uc.GetAnamnesis(f.ctx(), f.patient.ID)

	assert.ErrorIs(t, err, ErrAnamnesisNotFound)
}

func TestAddOdontogramMark(t *testing.T) {
	f := newClinicalRecordFixture(t)
	markID := uuid.New()

	f.sql.ExpectBegin()
	f.patients.On("FindByID", mock.Anything, mock.Anything, f.clinicID, f.patient.ID).Return(f.patient, nil)
	f.odontogram.On("Create", mock.Anything, mock.Anything, mock.MatchedBy(func(m *entity.OdontogramMark) bool {
		return m.ClinicID == f.clinicID && m.PatientID == f.patient.ID && m.Tooth == 36 &&
			m.Surface == entity.SurfaceOcclusal && m.Condition == entity.ConditionCaries && m.RecordedBy == f.userID
	})).Run(func(args mock.Arguments) {
		args.Get(2).(*entity.OdontogramMark).ID = markID
	}).Return(nil)
	f.audit.On("LogCreate", mock.Anything, mock.Anything, mock.MatchedBy(func(e service.AuditEntry) bool {
		return e.Action == entity.AuditActionOdontogramCreate && e.EntityID == markID.String()
	}), mock.Anything).Return(nil)
	f.sql.ExpectCommit()

	result, err := f.uc.AddOdontogramMark(f.ctx(), f.patient.ID, &dto.CreateOdontogramMarkRequest{
		Tooth:     36,
		Surface:   "occlusal",
		Condition: "caries",
	})

	require.NoError(t, err)
	assert.Equal(t, markID, result.ID)
	assert.Equal(t, "occlusal", result.Surface)
	assert.NoError(t, f.sql.ExpectationsWereMet())
}

func TestAddOdontogramMark_PatientOfAnotherClinic(t *testing.T) {
	f := newClinicalRecordFixture(t)
	foreignPatient := uuid.New()

	f.sql.ExpectBegin()
	f.patients.On("FindByID", mock.Anything, mock.Anything, f.clinicID, foreignPatient).Return(nil, nil)
	f.sql.ExpectRollback()

	_, err := f.uc.AddOdontogramMark(f.ctx(), foreignPatient, &dto.CreateOdontogramMarkRequest{
		Tooth: 11, Surface: "buccal", Condition: "restoration",
	})

	assert.ErrorIs(t, err, ErrPatientNotFound)
	f.odontogram.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	assert.NoError(t, f.sql.ExpectationsWereMet())
}

func TestAddOdontogramMark_InvalidCodes(t *testing.T) {
	tests := []struct {
		name      string
		surface   string
		condition string
		wantErr   error
	}{
		{"unknown surface", "palatal", "caries", ErrInvalidToothSurface},
		{"unknown condition", "mesial", "fracture", ErrInvalidToothCondition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newClinicalRecordFixture(t)

			_, err := f.uc.AddOdontogramMark(f.ctx(), f.patient.ID, &dto.CreateOdontogramMarkRequest{
				Tooth: 21, Surface: tt.surface, Condition: tt.condition,
			})

			assert.ErrorIs(t, err, tt.wantErr)
			f.patients.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			assert.NoError(t, f.sql.ExpectationsWereMet())
		})
	}
}

func TestDeleteOdontogramMark_ScopedToPatient(t *testing.T) {
	f := newClinicalRecordFixture(t)
	markID := uuid.New()
	otherPatient := uuid.New()

	f.sql.ExpectBegin()
	f.odontogram.On("Delete", mock.Anything, mock.Anything, f.clinicID, f.patient.ID, markID).Return(int64(1), nil)
	f.audit.On("LogDelete", mock.Anything, mock.Anything, mock.MatchedBy(func(e service.AuditEntry) bool {
		return e.Action == entity.AuditActionOdontogramDelete && e.EntityID == markID.String()
	}), mock.Anything).Return(nil)
	f.sql.ExpectCommit()

	require.NoError(t, f.uc.DeleteOdontogramMark(f.ctx(), f.patient.ID, markID))

	// the mark does not belong to otherPatient, so the scoped delete matches nothing
	f.sql.ExpectBegin()
	f.odontogram.On("Delete", mock.Anything, mock.Anything, f.clinicID, otherPatient, markID).Return(int64(0), nil)
	f.sql.ExpectRollback()

	err := f.uc.DeleteOdontogramMark(f.ctx(), otherPatient, markID)

	assert.ErrorIs(t, err, ErrOdontogramMarkNotFound)
	f.audit.AssertNumberOfCalls(t, "LogDelete", 1)
	assert.NoError(t, f.sql.ExpectationsWereMet())
}

func TestGetOdontogram(t *testing.T) {
	f := newClinicalRecordFixture(t)
	f.patients.On("FindByID", mock.Anything, mock.Anything, f.clinicID, f.patient.ID).Return(f.patient, nil)
	f.odontogram.On("FindByPatientID", mock.Anything, mock.Anything, f.clinicID, f.patient.ID).Return([]entity.OdontogramMark{
		{ID: uuid.New(), Tooth: 16, Surface: entity.SurfaceWhole, Condition: entity.ConditionCrown},
		{ID: uuid.New(), Tooth: 46, Surface: entity.SurfaceDistal, Condition: entity.ConditionSealant},
	}, nil)

	result, err := f.uc.GetOdontogram(f.ctx(), f.patient.ID)

	require.NoError(t, err)
	assert.Equal(t, f.patient.ID, result.PatientID)
	require.Len(t, result.Marks, 2)
	assert.Equal(t, "crown", result.Marks[0].Condition)
}
