package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/petcarehq/booking-api/internal/model"
	"github.com/petcarehq/booking-api/internal/repository"
)

// MaxAdvanceDays bounds how far ahead an appointment may be scheduled,
// inclusive of the last day.
const MaxAdvanceDays = 30

// Step is the wizard's position in the booking flow. Transitions are linear
// with explicit backward moves; anything else is rejected.
type Step int

const (
	StepSelectingVeterinarian Step = iota
	StepSelectingPet
	StepSelectingDateTime
	StepEnteringDetails
	StepConfirming
	StepSubmitted
)

var stepNames = map[Step]string{
	StepSelectingVeterinarian: "selecting_veterinarian",
	StepSelectingPet:          "selecting_pet",
	StepSelectingDateTime:     "selecting_datetime",
	StepEnteringDetails:       "entering_details",
	StepConfirming:            "confirming",
	StepSubmitted:             "submitted",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return "unknown"
}

// Allowed transition tables. Forward moves happen through the step's own
// action; backward moves are permitted from steps 2-5 only.
var (
	nextStep = map[Step]Step{
		StepSelectingVeterinarian: StepSelectingPet,
		StepSelectingPet:          StepSelectingDateTime,
		StepSelectingDateTime:     StepEnteringDetails,
		StepEnteringDetails:       StepConfirming,
		StepConfirming:            StepSubmitted,
	}
	prevStep = map[Step]Step{
		StepSelectingPet:      StepSelectingVeterinarian,
		StepSelectingDateTime: StepSelectingPet,
		StepEnteringDetails:   StepSelectingDateTime,
		StepConfirming:        StepEnteringDetails,
	}
)

// Selection is the wizard's in-progress state. It is explicit and
// serializable so each transition can be tested without a UI harness.
type Selection struct {
	Veterinarian *model.Veterinarian `json:"veterinarian,omitempty"`
	Pet          *model.Pet          `json:"pet,omitempty"`
	Date         *time.Time          `json:"date,omitempty"`
	Slot         *model.TimeSlot     `json:"slot,omitempty"`
	Reason       string              `json:"reason,omitempty"`
	Symptoms     string              `json:"symptoms,omitempty"`
}

// Deps are the collaborators a wizard needs at submission time.
type Deps struct {
	Guard        *OwnershipGuard
	Validator    *AvailabilityValidator
	Appointments repository.AppointmentRepository
	Channel      model.BookingChannel
	Hours        OperatingHours
	Now          func() time.Time
}

// Wizard sequences the booking steps for one owner at one clinic. It runs on
// a single logical thread of control per session; validator and repository
// calls are sequential, each result gating the next.
type Wizard struct {
	deps   Deps
	clinic *model.Clinic
	owner  *model.PetOwnerProfile
	vets   []*model.Veterinarian
	pets   []*model.Pet
	step   Step
	sel    Selection
}

type Option func(*Wizard)

// WithVeterinarian pre-selects a veterinarian so the wizard starts directly
// in the pet selection step. Unknown ids are ignored and the wizard starts
// from the beginning.
func WithVeterinarian(id uuid.UUID) Option {
	return func(w *Wizard) {
		for _, v := range w.vets {
			if v.ID == id {
				w.sel.Veterinarian = v
				w.step = StepSelectingPet
				return
			}
		}
	}
}

// NewWizard builds a wizard over the clinic's selectable veterinarians and
// the owner's pets. Veterinarians with is_available=false must already be
// filtered out of vets; they are never offered as booking targets.
func NewWizard(deps Deps, clinic *model.Clinic, owner *model.PetOwnerProfile, vets []*model.Veterinarian, pets []*model.Pet, opts ...Option) *Wizard {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Hours == (OperatingHours{}) {
		deps.Hours = DefaultOperatingHours
	}
	if deps.Channel == "" {
		deps.Channel = model.BookingChannelWeb
	}
	w := &Wizard{
		deps:   deps,
		clinic: clinic,
		owner:  owner,
		vets:   vets,
		pets:   pets,
		step:   StepSelectingVeterinarian,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Wizard) Step() Step { return w.step }

// Selection returns a copy of the in-progress selections.
func (w *Wizard) Selection() Selection { return w.sel }

func (w *Wizard) Veterinarians() []*model.Veterinarian { return w.vets }

func (w *Wizard) Pets() []*model.Pet { return w.pets }

// GuidanceMessage is non-empty only in the pet step's dead end: an owner with
// no pets stays on the step with guidance instead of an error.
func (w *Wizard) GuidanceMessage() string {
	if w.step == StepSelectingPet && len(w.pets) == 0 {
		return "Add a pet to your profile before booking an appointment."
	}
	return ""
}

// SelectVeterinarian picks a booking target and advances to pet selection.
func (w *Wizard) SelectVeterinarian(id uuid.UUID) error {
	if w.step != StepSelectingVeterinarian {
		return ErrInvalidTransition
	}
	for _, v := range w.vets {
		if v.ID == id {
			w.sel.Veterinarian = v
			w.step = nextStep[w.step]
			return nil
		}
	}
	return ErrUnknownVeterinarian
}

// SelectPet picks the patient and advances to date/time selection. With no
// pets on file there is no transition out of this step.
func (w *Wizard) SelectPet(id uuid.UUID) error {
	if w.step != StepSelectingPet {
		return ErrInvalidTransition
	}
	for _, p := range w.pets {
		if p.ID == id {
			w.sel.Pet = p
			w.step = nextStep[w.step]
			return nil
		}
	}
	return ErrUnknownPet
}

// SelectSchedule sets both the date and the slot start time and advances.
// The date must fall within [today, today+30d] and the time must come from
// the slot grid for that day.
func (w *Wizard) SelectSchedule(date time.Time, start string) error {
	if w.step != StepSelectingDateTime {
		return ErrInvalidTransition
	}

	day := dateOnly(date)
	today := dateOnly(w.deps.Now())
	if day.Before(today) || day.After(today.AddDate(0, 0, MaxAdvanceDays)) {
		return ErrDateOutOfRange
	}

	var slot *model.TimeSlot
	for s := range Slots(w.deps.Hours) {
		if s.Start == start {
			slot = &s
			break
		}
	}
	if slot == nil {
		return ErrInvalidTimeSlot
	}

	w.sel.Date = &day
	w.sel.Slot = slot
	w.step = nextStep[w.step]
	return nil
}

// EnterDetails records the free-text reason and symptoms and advances to the
// confirmation step. Reason may be empty; this is the explicit "continue".
func (w *Wizard) EnterDetails(reason, symptoms string) error {
	if w.step != StepEnteringDetails {
		return ErrInvalidTransition
	}
	w.sel.Reason = reason
	w.sel.Symptoms = symptoms
	w.step = nextStep[w.step]
	return nil
}

// Back moves to the immediately preceding step. Selections entered in later
// steps are preserved; advancing again does not re-enter them.
func (w *Wizard) Back() error {
	prev, ok := prevStep[w.step]
	if !ok {
		return ErrInvalidTransition
	}
	w.step = prev
	return nil
}

// Reset clears all in-progress selections and returns to the first step,
// letting the wizard be reused for a subsequent booking.
func (w *Wizard) Reset() {
	w.sel = Selection{}
	w.step = StepSelectingVeterinarian
}

// Submit performs the write. It may only be called from Confirming; on any
// failure the wizard remains there with its selections intact, and on
// success it moves to Submitted.
//
// Order: completeness, ownership, availability, then the guarded insert. The
// total amount is snapshotted from the veterinarian's consultation fee at
// submission time and never recomputed.
func (w *Wizard) Submit(ctx context.Context) (*model.Appointment, error) {
	if w.step != StepConfirming {
		return nil, ErrInvalidTransition
	}
	if w.sel.Veterinarian == nil || w.sel.Pet == nil || w.sel.Date == nil || w.sel.Slot == nil {
		return nil, ErrIncompleteSelection
	}

	ownerID, err := w.deps.Guard.Authorize(ctx, w.owner.AccountID, w.sel.Pet.ID)
	if err != nil {
		if errors.Is(err, ErrOwnershipViolation) {
			return nil, err
		}
		return nil, &RepositoryError{Err: err}
	}

	vet, err := w.deps.Validator.Validate(ctx, ownerID, *w.sel.Date, w.sel.Veterinarian.ID)
	if err != nil {
		if errors.Is(err, ErrDailyLimitExceeded) || errors.Is(err, ErrVeterinarianUnavailable) {
			return nil, err
		}
		return nil, &RepositoryError{Err: err}
	}

	req := &model.NewAppointmentRequest{
		OwnerID:         ownerID,
		PetID:           w.sel.Pet.ID,
		VeterinarianID:  vet.ID,
		ClinicID:        w.clinic.ID,
		Date:            *w.sel.Date,
		Time:            w.sel.Slot.Start,
		Reason:          optionalText(w.sel.Reason),
		Symptoms:        optionalText(w.sel.Symptoms),
		BookingChannel:  w.deps.Channel,
		DurationMinutes: model.DefaultDurationMinutes,
		TotalAmount:     vet.ConsultationFee,
	}

	appointment, err := w.deps.Appointments.Create(ctx, req, DailyAppointmentCap)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDailyCapExceeded):
			return nil, ErrDailyLimitExceeded
		case errors.Is(err, repository.ErrSlotTaken):
			return nil, ErrSlotTaken
		default:
			return nil, &RepositoryError{Err: err}
		}
	}

	w.step = StepSubmitted
	return appointment, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func optionalText(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
