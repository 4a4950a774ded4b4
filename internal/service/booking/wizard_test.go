package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petcarehq/booking-api/internal/model"
	"github.com/petcarehq/booking-api/internal/repository"
)

var fixedNow = time.Date(2026, 6, 8, 10, 15, 0, 0, time.UTC)

func testNow() time.Time { return fixedNow }

func TestWizardHappyPath(t *testing.T) {
	f := newWizardFixture()
	w := f.wizard(testNow)

	assert.Equal(t, StepSelectingVeterinarian, w.Step())

	require.NoError(t, w.SelectVeterinarian(f.vet.ID))
	assert.Equal(t, StepSelectingPet, w.Step())

	require.NoError(t, w.SelectPet(f.pet.ID))
	assert.Equal(t, StepSelectingDateTime, w.Step())

	date := fixedNow.AddDate(0, 0, 3)
	require.NoError(t, w.SelectSchedule(date, "10:30"))
	assert.Equal(t, StepEnteringDetails, w.Step())

	require.NoError(t, w.EnterDetails("limping on front leg", "swelling"))
	assert.Equal(t, StepConfirming, w.Step())

	appt, err := w.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StepSubmitted, w.Step())

	assert.Equal(t, model.AppointmentStatusPending, appt.Status)
	assert.Equal(t, f.vet.ID, appt.VeterinarianID)
	assert.Equal(t, f.pet.ID, appt.PetID)
	assert.Equal(t, f.owner.ID, appt.OwnerID)
	assert.Equal(t, f.clinic.ID, appt.ClinicID)
	assert.Equal(t, "10:30", appt.Time)
	assert.Equal(t, 500.0, appt.TotalAmount)
	assert.Equal(t, model.DefaultDurationMinutes, appt.DurationMinutes)
	require.NotNil(t, appt.Reason)
	assert.Equal(t, "limping on front leg", *appt.Reason)
}

func TestWizardPreselectedVeterinarian(t *testing.T) {
	f := newWizardFixture()
	w := f.wizard(testNow, WithVeterinarian(f.vet.ID))

	assert.Equal(t, StepSelectingPet, w.Step())
	assert.Equal(t, f.vet.ID, w.Selection().Veterinarian.ID)
}

func TestWizardPreselectedUnknownVeterinarianIgnored(t *testing.T) {
	f := newWizardFixture()
	w := f.wizard(testNow, WithVeterinarian(uuid.New()))

	assert.Equal(t, StepSelectingVeterinarian, w.Step())
	assert.Nil(t, w.Selection().Veterinarian)
}

func TestWizardRejectsUnknownSelections(t *testing.T) {
	f := newWizardFixture()
	w := f.wizard(testNow)

	assert.ErrorIs(t, w.SelectVeterinarian(uuid.New()), ErrUnknownVeterinarian)
	assert.Equal(t, StepSelectingVeterinarian, w.Step())

	require.NoError(t, w.SelectVeterinarian(f.vet.ID))
	assert.ErrorIs(t, w.SelectPet(uuid.New()), ErrUnknownPet)
	assert.Equal(t, StepSelectingPet, w.Step())
}

func TestWizardRejectsOutOfOrderActions(t *testing.T) {
	f := newWizardFixture()
	w := f.wizard(testNow)

	assert.ErrorIs(t, w.SelectPet(f.pet.ID), ErrInvalidTransition)
	assert.ErrorIs(t, w.SelectSchedule(fixedNow, "10:00"), ErrInvalidTransition)
	assert.ErrorIs(t, w.EnterDetails("", ""), ErrInvalidTransition)
	assert.ErrorIs(t, w.Back(), ErrInvalidTransition)

	_, err := w.Submit(context.Background())
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestWizardScheduleWindow(t *testing.T) {
	f := newWizardFixture()

	tests := []struct {
		name    string
		date    time.Time
		start   string
		wantErr error
	}{
		{"today", fixedNow, "09:00", nil},
		{"last day of window", fixedNow.AddDate(0, 0, MaxAdvanceDays), "09:00", nil},
		{"yesterday", fixedNow.AddDate(0, 0, -1), "09:00", ErrDateOutOfRange},
		{"past the window", fixedNow.AddDate(0, 0, MaxAdvanceDays+1), "09:00", ErrDateOutOfRange},
		{"off-grid time", fixedNow, "09:15", ErrInvalidTimeSlot},
		{"closing time", fixedNow, "17:00", ErrInvalidTimeSlot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.wizard(testNow)
			require.NoError(t, w.SelectVeterinarian(f.vet.ID))
			require.NoError(t, w.SelectPet(f.pet.ID))

			err := w.SelectSchedule(tt.date, tt.start)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, StepSelectingDateTime, w.Step())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, StepEnteringDetails, w.Step())
		})
	}
}

func TestWizardBackPreservesSelections(t *testing.T) {
	f := newWizardFixture()
	w := f.wizard(testNow)

	require.NoError(t, w.SelectVeterinarian(f.vet.ID))
	require.NoError(t, w.SelectPet(f.pet.ID))
	date := fixedNow.AddDate(0, 0, 3)
	require.NoError(t, w.SelectSchedule(date, "10:30"))
	require.NoError(t, w.EnterDetails("checkup", ""))

	// Walk back to pet selection, then forward again.
	require.NoError(t, w.Back())
	require.NoError(t, w.Back())
	require.NoError(t, w.Back())
	assert.Equal(t, StepSelectingPet, w.Step())

	sel := w.Selection()
	require.NotNil(t, sel.Date)
	require.NotNil(t, sel.Slot)
	assert.Equal(t, "10:30", sel.Slot.Start)
	assert.Equal(t, "checkup", sel.Reason)

	require.NoError(t, w.SelectPet(f.pet.ID))
	assert.Equal(t, StepSelectingDateTime, w.Step())
	assert.Equal(t, "10:30", w.Selection().Slot.Start)
}

func TestWizardNoPetsDeadEnd(t *testing.T) {
	f := newWizardFixture()
	w := NewWizard(f.deps(testNow), f.clinic, f.owner, []*model.Veterinarian{f.vet}, nil)

	assert.Empty(t, w.GuidanceMessage())
	require.NoError(t, w.SelectVeterinarian(f.vet.ID))

	assert.Equal(t, "Add a pet to your profile before booking an appointment.", w.GuidanceMessage())
	assert.ErrorIs(t, w.SelectPet(uuid.New()), ErrUnknownPet)
	assert.Equal(t, StepSelectingPet, w.Step())
}

func TestWizardSubmitIncompleteSelection(t *testing.T) {
	f := newWizardFixture()
	w := f.wizard(testNow)

	require.NoError(t, w.SelectVeterinarian(f.vet.ID))
	require.NoError(t, w.SelectPet(f.pet.ID))
	require.NoError(t, w.SelectSchedule(fixedNow.AddDate(0, 0, 1), "09:00"))
	require.NoError(t, w.EnterDetails("", ""))

	// The public surface cannot reach Confirming with a hole in the
	// selection, so poke one in directly.
	w.sel.Slot = nil

	_, err := w.Submit(context.Background())
	assert.ErrorIs(t, err, ErrIncompleteSelection)
	assert.Equal(t, StepConfirming, w.Step())
}

func TestWizardSubmitOwnershipViolation(t *testing.T) {
	f := newWizardFixture()
	// Re-home the pet after it was offered in the session.
	f.pets.pets[f.pet.ID] = newTestPet(uuid.New(), "Max")
	f.pets.pets[f.pet.ID].Base.ID = f.pet.ID

	w := f.wizard(testNow)
	driveToConfirming(t, w, f)

	_, err := w.Submit(context.Background())
	assert.ErrorIs(t, err, ErrOwnershipViolation)
	assert.Equal(t, StepConfirming, w.Step())
}

func TestWizardSubmitDailyLimit(t *testing.T) {
	f := newWizardFixture()
	f.appointments.count = DailyAppointmentCap

	w := f.wizard(testNow)
	driveToConfirming(t, w, f)

	_, err := w.Submit(context.Background())
	assert.ErrorIs(t, err, ErrDailyLimitExceeded)
	assert.Equal(t, StepConfirming, w.Step())
	assert.Empty(t, f.appointments.created)
}

func TestWizardSubmitVeterinarianWithdrawn(t *testing.T) {
	f := newWizardFixture()
	w := f.wizard(testNow)
	driveToConfirming(t, w, f)

	// Availability flips between listing and confirmation.
	f.vet.IsAvailable = false

	_, err := w.Submit(context.Background())
	assert.ErrorIs(t, err, ErrVeterinarianUnavailable)
	assert.Equal(t, StepConfirming, w.Step())

	sel := w.Selection()
	assert.NotNil(t, sel.Veterinarian)
	assert.NotNil(t, sel.Date)
}

func TestWizardSubmitFeeSnapshotIsCurrent(t *testing.T) {
	f := newWizardFixture()
	w := f.wizard(testNow)
	driveToConfirming(t, w, f)

	// Fee changes mid-session; the write must carry the current fee, not the
	// one shown at selection time.
	f.vet.ConsultationFee = 650

	appt, err := w.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 650.0, appt.TotalAmount)
}

func TestWizardSubmitMapsRepositoryConflicts(t *testing.T) {
	tests := []struct {
		name      string
		createErr error
		wantErr   error
	}{
		{"cap lost at write time", repository.ErrDailyCapExceeded, ErrDailyLimitExceeded},
		{"slot lost at write time", repository.ErrSlotTaken, ErrSlotTaken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newWizardFixture()
			f.appointments.createErr = tt.createErr

			w := f.wizard(testNow)
			driveToConfirming(t, w, f)

			_, err := w.Submit(context.Background())
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, StepConfirming, w.Step())
		})
	}
}

func TestWizardSubmitWrapsRepositoryFault(t *testing.T) {
	f := newWizardFixture()
	f.appointments.createErr = errors.New("connection reset")

	w := f.wizard(testNow)
	driveToConfirming(t, w, f)

	_, err := w.Submit(context.Background())
	require.Error(t, err)

	var repoErr *RepositoryError
	assert.ErrorAs(t, err, &repoErr)
	assert.Equal(t, StepConfirming, w.Step())
}

func TestWizardReset(t *testing.T) {
	f := newWizardFixture()
	w := f.wizard(testNow)
	driveToConfirming(t, w, f)

	w.Reset()

	assert.Equal(t, StepSelectingVeterinarian, w.Step())
	assert.Equal(t, Selection{}, w.Selection())
}

func driveToConfirming(t *testing.T, w *Wizard, f *wizardFixture) {
	t.Helper()
	require.NoError(t, w.SelectVeterinarian(f.vet.ID))
	require.NoError(t, w.SelectPet(f.pet.ID))
	require.NoError(t, w.SelectSchedule(fixedNow.AddDate(0, 0, 3), "10:30"))
	require.NoError(t, w.EnterDetails("limping on front leg", ""))
	require.Equal(t, StepConfirming, w.Step())
}
