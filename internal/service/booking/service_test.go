package booking

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petcarehq/booking-api/internal/model"
)

func newTestService(f *wizardFixture) *Service {
	return NewService(
		f.appointments, f.vets, f.pets, f.owners,
		&fakeClinicRepo{clinic: f.clinic},
		testMetrics, testLogger,
		Config{
			Channel:    model.BookingChannelWeb,
			Hours:      DefaultOperatingHours,
			SessionTTL: time.Minute,
		},
	)
}

func TestServiceStartSession(t *testing.T) {
	f := newWizardFixture()
	svc := newTestService(f)

	state, err := svc.StartSession(context.Background(), f.owner.AccountID, f.clinic.ID, nil)
	require.NoError(t, err)

	assert.NotEmpty(t, state.SessionID)
	assert.Equal(t, "selecting_veterinarian", state.Step)
	require.Len(t, state.Veterinarians, 1)
	require.Len(t, state.Pets, 1)
}

func TestServiceStartSessionWithPreselectedVet(t *testing.T) {
	f := newWizardFixture()
	svc := newTestService(f)

	state, err := svc.StartSession(context.Background(), f.owner.AccountID, f.clinic.ID, &f.vet.ID)
	require.NoError(t, err)

	assert.Equal(t, "selecting_pet", state.Step)
	require.NotNil(t, state.Selection.Veterinarian)
	assert.Equal(t, f.vet.ID, state.Selection.Veterinarian.ID)
}

func TestServiceStartSessionExcludesUnavailableVets(t *testing.T) {
	f := newWizardFixture()
	away := newTestVet("Dr. Reyes", 700, false)
	f.vets.vets[away.ID] = away
	svc := newTestService(f)

	state, err := svc.StartSession(context.Background(), f.owner.AccountID, f.clinic.ID, nil)
	require.NoError(t, err)
	require.Len(t, state.Veterinarians, 1)
	assert.Equal(t, f.vet.ID, state.Veterinarians[0].ID)
}

func TestServiceUnknownSession(t *testing.T) {
	f := newWizardFixture()
	svc := newTestService(f)

	_, err := svc.GetSession(uuid.NewString())
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = svc.SelectPet(uuid.NewString(), f.pet.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = svc.Confirm(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestServiceFullBookingFlow(t *testing.T) {
	f := newWizardFixture()
	svc := newTestService(f)
	ctx := context.Background()

	state, err := svc.StartSession(ctx, f.owner.AccountID, f.clinic.ID, nil)
	require.NoError(t, err)
	id := state.SessionID

	state, err = svc.SelectVeterinarian(id, f.vet.ID)
	require.NoError(t, err)
	assert.Equal(t, "selecting_pet", state.Step)

	state, err = svc.SelectPet(id, f.pet.ID)
	require.NoError(t, err)
	assert.Equal(t, "selecting_datetime", state.Step)

	state, err = svc.SelectSchedule(id, time.Now().AddDate(0, 0, 3), "10:30")
	require.NoError(t, err)
	assert.Equal(t, "entering_details", state.Step)

	state, err = svc.EnterDetails(id, "annual checkup", "")
	require.NoError(t, err)
	assert.Equal(t, "confirming", state.Step)

	appt, err := svc.Confirm(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusPending, appt.Status)
	assert.Equal(t, 500.0, appt.TotalAmount)

	// The session survives confirmation and is ready for another booking.
	state, err = svc.GetSession(id)
	require.NoError(t, err)
	assert.Equal(t, "selecting_veterinarian", state.Step)
	assert.Nil(t, state.Selection.Veterinarian)
}

func TestServiceConfirmFailureKeepsSelections(t *testing.T) {
	f := newWizardFixture()
	svc := newTestService(f)
	ctx := context.Background()

	state, err := svc.StartSession(ctx, f.owner.AccountID, f.clinic.ID, nil)
	require.NoError(t, err)
	id := state.SessionID

	_, err = svc.SelectVeterinarian(id, f.vet.ID)
	require.NoError(t, err)
	_, err = svc.SelectPet(id, f.pet.ID)
	require.NoError(t, err)
	_, err = svc.SelectSchedule(id, time.Now().AddDate(0, 0, 3), "10:30")
	require.NoError(t, err)
	_, err = svc.EnterDetails(id, "checkup", "")
	require.NoError(t, err)

	f.vet.IsAvailable = false

	_, err = svc.Confirm(ctx, id)
	assert.ErrorIs(t, err, ErrVeterinarianUnavailable)

	state, err = svc.GetSession(id)
	require.NoError(t, err)
	assert.Equal(t, "confirming", state.Step)
	require.NotNil(t, state.Selection.Slot)
	assert.Equal(t, "10:30", state.Selection.Slot.Start)
}

func TestServiceBack(t *testing.T) {
	f := newWizardFixture()
	svc := newTestService(f)
	ctx := context.Background()

	state, err := svc.StartSession(ctx, f.owner.AccountID, f.clinic.ID, &f.vet.ID)
	require.NoError(t, err)
	id := state.SessionID

	state, err = svc.Back(id)
	require.NoError(t, err)
	assert.Equal(t, "selecting_veterinarian", state.Step)

	_, err = svc.Back(id)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestServiceListSlots(t *testing.T) {
	f := newWizardFixture()
	svc := newTestService(f)

	slots := svc.ListSlots()
	require.Len(t, slots, 16)
	assert.Equal(t, "9:00 AM", slots[0].Label)
}

func TestSessionStoreExpiry(t *testing.T) {
	store := NewSessionStore(20 * time.Millisecond)
	id := store.New(&Wizard{})

	_, ok := store.Get(id)
	assert.True(t, ok)

	time.Sleep(50 * time.Millisecond)
	_, ok = store.Get(id)
	assert.False(t, ok)
}
