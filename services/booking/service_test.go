package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	trainerRepo "carebook/database/repository/trainer"
	"carebook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBookingRepo struct {
	bookings []models.ExistingBooking
	created  []*models.Booking
	err      error
}

func (s *stubBookingRepo) ListBookingsForChild(childID string) ([]models.ExistingBooking, error) {
	return s.bookings, s.err
}

func (s *stubBookingRepo) ListBookedDatesForChild(childID string) ([]string, error) {
	var dates []string
	for _, b := range s.bookings {
		dates = append(dates, b.Date)
	}
	return dates, s.err
}

func (s *stubBookingRepo) CreateBooking(b *models.Booking) error {
	if s.err != nil {
		return s.err
	}
	s.created = append(s.created, b)
	return nil
}

type stubTrainerRepo struct {
	trainers []models.Trainer
	err      error
}

func (s *stubTrainerRepo) ListAvailableTrainers(trainerRepo.TrainerSearchCriteria) ([]models.Trainer, error) {
	return s.trainers, s.err
}

func (s *stubTrainerRepo) GetTrainerByID(id string) (*models.Trainer, error) {
	if s.err != nil {
		return nil, s.err
	}
	for i := range s.trainers {
		if s.trainers[i].ID == id {
			return &s.trainers[i], nil
		}
	}
	return nil, errors.New("trainer not found")
}

type stubPackageRepo struct {
	pkg *models.HourPackage
	err error
}

func (s *stubPackageRepo) GetPackageByID(id string) (*models.HourPackage, error) {
	return s.pkg, s.err
}

func (s *stubPackageRepo) RecordConsumedHours(id string, hours float64) error { return s.err }

func fixedNow(t *testing.T) (CutoffPolicy, time.Time) {
	t.Helper()
	policy := londonPolicy(t)
	return policy, time.Date(2026, 3, 14, 10, 0, 0, 0, policy.Location)
}

func newValidator(t *testing.T, bookings *stubBookingRepo, trainers *stubTrainerRepo, packages *stubPackageRepo) *DefaultBookingValidationService {
	t.Helper()
	policy, now := fixedNow(t)
	return &DefaultBookingValidationService{
		BookingRepo: bookings,
		TrainerRepo: trainers,
		PackageRepo: packages,
		Cutoff:      policy,
		Now:         func() time.Time { return now },
	}
}

func cleanRequest() models.BookingRequest {
	return models.BookingRequest{
		ChildID:   "child-1",
		PackageID: "pkg-1",
		ModeKey:   "respite",
		Family:    models.FamilyLocation{Postcode: "AL10 1AA"},
		Slots: []models.SessionSlot{
			{Date: "2026-03-20", Start: 9 * 60, End: 13 * 60},
		},
	}
}

func respiteTrainer() models.Trainer {
	return models.Trainer{
		ID:                      "t1",
		ServicePostcodePrefixes: []string{"AL"},
		Capabilities:            []models.CapabilityTag{models.CapabilityRespite},
	}
}

func TestValidateCleanRequest(t *testing.T) {
	validator := newValidator(t,
		&stubBookingRepo{},
		&stubTrainerRepo{trainers: []models.Trainer{respiteTrainer()}},
		&stubPackageRepo{pkg: &models.HourPackage{ID: "pkg-1", TotalHours: 20, UsedHours: 5}},
	)

	result, err := validator.Validate(context.Background(), cleanRequest())
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
}

func TestValidateCollectsEveryFailure(t *testing.T) {
	// One submission with a past date, a too-short slot, a conflict, and an
	// exhausted package: the caller must see all of it in one pass.
	existing := []models.ExistingBooking{
		{ID: "b1", ChildID: "child-1", Date: "2026-03-20", Start: 10 * 60, End: 14 * 60, Status: "Confirmed"},
	}
	validator := newValidator(t,
		&stubBookingRepo{bookings: existing},
		&stubTrainerRepo{trainers: []models.Trainer{respiteTrainer()}},
		&stubPackageRepo{pkg: &models.HourPackage{ID: "pkg-1", TotalHours: 10, UsedHours: 9}},
	)

	req := cleanRequest()
	req.Slots = []models.SessionSlot{
		{Date: "2026-03-01", Start: 9 * 60, End: 10 * 60}, // past AND too short
		{Date: "2026-03-20", Start: 9 * 60, End: 13 * 60}, // overlaps b1
	}

	result, err := validator.Validate(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, result.Valid)

	codes := make(map[models.ReasonCode]int)
	for _, issue := range result.Errors {
		codes[issue.Code]++
	}
	assert.Equal(t, 1, codes[models.ReasonPast])
	assert.Equal(t, 1, codes[models.ReasonTooShort])
	assert.Equal(t, 1, codes[models.ReasonConflict])
	assert.Equal(t, 1, codes[models.ReasonInsufficientHours])
}

func TestValidateDuplicateBooking(t *testing.T) {
	existing := []models.ExistingBooking{
		{ID: "b1", ChildID: "child-1", Date: "2026-03-20", Start: 9 * 60, End: 13 * 60, Status: "Pending"},
	}
	validator := newValidator(t,
		&stubBookingRepo{bookings: existing},
		&stubTrainerRepo{trainers: []models.Trainer{respiteTrainer()}},
		&stubPackageRepo{pkg: &models.HourPackage{ID: "pkg-1", TotalHours: 20}},
	)

	result, err := validator.Validate(context.Background(), cleanRequest())
	require.NoError(t, err)
	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, models.ReasonDuplicate, result.Errors[0].Code)
}

func TestValidateCollaboratorFailureIsNotInvalid(t *testing.T) {
	validator := newValidator(t,
		&stubBookingRepo{err: errors.New("mongo: connection refused")},
		&stubTrainerRepo{trainers: []models.Trainer{respiteTrainer()}},
		&stubPackageRepo{pkg: &models.HourPackage{ID: "pkg-1", TotalHours: 20}},
	)

	result, err := validator.Validate(context.Background(), cleanRequest())
	require.Error(t, err)
	assert.Nil(t, result, "a failed check must never look like a verdict")

	var unavailable *ValidationUnavailableError
	assert.True(t, errors.As(err, &unavailable))
}

func TestValidatePinnedTrainerSkipsSearch(t *testing.T) {
	trainers := &stubTrainerRepo{trainers: []models.Trainer{respiteTrainer()}}
	validator := newValidator(t,
		&stubBookingRepo{},
		trainers,
		&stubPackageRepo{pkg: &models.HourPackage{ID: "pkg-1", TotalHours: 20}},
	)

	req := cleanRequest()
	req.Slots[0].TrainerID = "t1"
	// The pinned trainer's area is irrelevant; only capability is confirmed.
	req.Family = models.FamilyLocation{Region: "Somewhere Else Entirely"}

	result, err := validator.Validate(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, result.Valid)
}

func TestValidatePinnedTrainerCapabilityMismatch(t *testing.T) {
	trainer := respiteTrainer()
	trainer.Capabilities = []models.CapabilityTag{models.CapabilitySchoolRun}
	validator := newValidator(t,
		&stubBookingRepo{},
		&stubTrainerRepo{trainers: []models.Trainer{trainer}},
		&stubPackageRepo{pkg: &models.HourPackage{ID: "pkg-1", TotalHours: 20}},
	)

	req := cleanRequest()
	req.Slots[0].TrainerID = "t1"

	result, err := validator.Validate(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, models.ReasonNoTrainerMatch, result.Errors[0].Code)
	assert.Equal(t, pinnedMismatchMessage, result.Errors[0].Message)
}

func TestValidateNoAreaMatchIsAWarning(t *testing.T) {
	essexOnly := models.Trainer{
		ID:             "t1",
		ServiceRegions: []string{"Essex"},
		Capabilities:   []models.CapabilityTag{models.CapabilityRespite},
	}
	validator := newValidator(t,
		&stubBookingRepo{},
		&stubTrainerRepo{trainers: []models.Trainer{essexOnly}},
		&stubPackageRepo{pkg: &models.HourPackage{ID: "pkg-1", TotalHours: 20}},
	)

	result, err := validator.Validate(context.Background(), cleanRequest())
	require.NoError(t, err)
	assert.True(t, result.Valid, "a thin roster warns, it does not block")
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, models.ReasonNoTrainerMatch, result.Warnings[0].Code)
}

func TestValidateEmptyRosterBlocks(t *testing.T) {
	validator := newValidator(t,
		&stubBookingRepo{},
		&stubTrainerRepo{},
		&stubPackageRepo{pkg: &models.HourPackage{ID: "pkg-1", TotalHours: 20}},
	)

	result, err := validator.Validate(context.Background(), cleanRequest())
	require.NoError(t, err)
	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, models.ReasonNoTrainerMatch, result.Errors[0].Code)
	assert.Equal(t, rosterEmptyMessage, result.Errors[0].Message,
		"a dead end must not advertise zero fallback trainers")
}
