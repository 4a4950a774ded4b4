package booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/petcarehq/booking-api/internal/model"
	"github.com/petcarehq/booking-api/internal/repository"
	"github.com/petcarehq/booking-api/pkg/logger"
	"github.com/petcarehq/booking-api/pkg/metrics"
)

// Shared across the package's tests: prometheus collectors register globally,
// so they are built exactly once per test binary.
var (
	testMetrics = metrics.NewMetrics("test", "booking")
	testLogger  = logger.NewLogger(nil)
)

type fakeAppointmentRepo struct {
	count     int
	countErr  error
	createErr error
	created   []*model.Appointment
}

func (f *fakeAppointmentRepo) Create(_ context.Context, req *model.NewAppointmentRequest, _ int) (*model.Appointment, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	a := &model.Appointment{
		Base: model.Base{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		OwnerID:         req.OwnerID,
		PetID:           req.PetID,
		VeterinarianID:  req.VeterinarianID,
		ClinicID:        req.ClinicID,
		Date:            req.Date,
		Time:            req.Time,
		Reason:          req.Reason,
		Symptoms:        req.Symptoms,
		Status:          model.AppointmentStatusPending,
		BookingChannel:  req.BookingChannel,
		DurationMinutes: req.DurationMinutes,
		TotalAmount:     req.TotalAmount,
		PaymentStatus:   model.PaymentStatusUnpaid,
	}
	f.created = append(f.created, a)
	return a, nil
}

func (f *fakeAppointmentRepo) Get(context.Context, uuid.UUID) (*model.Appointment, error) {
	return nil, repository.ErrNotFound
}

func (f *fakeAppointmentRepo) ListForOwner(context.Context, uuid.UUID, time.Time, time.Time) ([]*model.Appointment, error) {
	return nil, nil
}

func (f *fakeAppointmentRepo) CountForOwnerOnDate(context.Context, uuid.UUID, time.Time, []model.AppointmentStatus) (int, error) {
	return f.count, f.countErr
}

func (f *fakeAppointmentRepo) UpdateStatus(context.Context, uuid.UUID, model.AppointmentStatus, model.AppointmentStatus) (*model.Appointment, error) {
	return nil, repository.ErrNotFound
}

type fakeVetRepo struct {
	vets   map[uuid.UUID]*model.Veterinarian
	getErr error
}

func (f *fakeVetRepo) Get(_ context.Context, id uuid.UUID) (*model.Veterinarian, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	v, ok := f.vets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return v, nil
}

func (f *fakeVetRepo) ListForClinic(_ context.Context, _ uuid.UUID, availableOnly bool) ([]*model.Veterinarian, error) {
	var out []*model.Veterinarian
	for _, v := range f.vets {
		if availableOnly && !v.IsAvailable {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

type fakePetRepo struct {
	pets map[uuid.UUID]*model.Pet
}

func (f *fakePetRepo) Get(_ context.Context, id uuid.UUID) (*model.Pet, error) {
	p, ok := f.pets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

func (f *fakePetRepo) ListForOwner(_ context.Context, ownerID uuid.UUID) ([]*model.Pet, error) {
	var out []*model.Pet
	for _, p := range f.pets {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeOwnerRepo struct {
	owners map[uuid.UUID]*model.PetOwnerProfile
}

func (f *fakeOwnerRepo) Get(_ context.Context, id uuid.UUID) (*model.PetOwnerProfile, error) {
	for _, o := range f.owners {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeOwnerRepo) GetByAccountID(_ context.Context, accountID uuid.UUID) (*model.PetOwnerProfile, error) {
	o, ok := f.owners[accountID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return o, nil
}

type fakeClinicRepo struct {
	clinic *model.Clinic
}

func (f *fakeClinicRepo) Get(_ context.Context, id uuid.UUID) (*model.Clinic, error) {
	if f.clinic == nil || f.clinic.ID != id {
		return nil, repository.ErrNotFound
	}
	return f.clinic, nil
}

func newTestOwner() *model.PetOwnerProfile {
	return &model.PetOwnerProfile{
		Base:      model.Base{ID: uuid.New()},
		AccountID: uuid.New(),
		Name:      "Maria Santos",
		Email:     "maria@example.com",
		Phone:     "+15551234567",
	}
}

func newTestVet(name string, fee float64, available bool) *model.Veterinarian {
	return &model.Veterinarian{
		Base:            model.Base{ID: uuid.New()},
		Name:            name,
		LicenseNumber:   "VET-" + uuid.NewString()[:8],
		YearsExperience: 8,
		ConsultationFee: fee,
		IsAvailable:     available,
		Rating:          4.8,
	}
}

func newTestPet(ownerID uuid.UUID, name string) *model.Pet {
	return &model.Pet{
		Base:    model.Base{ID: uuid.New()},
		OwnerID: ownerID,
		Name:    name,
		Species: "dog",
		Gender:  "male",
	}
}

func newTestClinic() *model.Clinic {
	return &model.Clinic{
		Base:    model.Base{ID: uuid.New()},
		Name:    "Happy Paws Clinic",
		Address: "12 Main St",
		Phone:   "+15550000000",
		Email:   "clinic@example.com",
	}
}

type wizardFixture struct {
	owner  *model.PetOwnerProfile
	clinic *model.Clinic
	vet    *model.Veterinarian
	pet    *model.Pet

	appointments *fakeAppointmentRepo
	vets         *fakeVetRepo
	pets         *fakePetRepo
	owners       *fakeOwnerRepo
}

func newWizardFixture() *wizardFixture {
	owner := newTestOwner()
	vet := newTestVet("Dr. Cruz", 500, true)
	pet := newTestPet(owner.ID, "Max")

	return &wizardFixture{
		owner:        owner,
		clinic:       newTestClinic(),
		vet:          vet,
		pet:          pet,
		appointments: &fakeAppointmentRepo{},
		vets:         &fakeVetRepo{vets: map[uuid.UUID]*model.Veterinarian{vet.ID: vet}},
		pets:         &fakePetRepo{pets: map[uuid.UUID]*model.Pet{pet.ID: pet}},
		owners:       &fakeOwnerRepo{owners: map[uuid.UUID]*model.PetOwnerProfile{owner.AccountID: owner}},
	}
}

func (f *wizardFixture) deps(now func() time.Time) Deps {
	return Deps{
		Guard:        NewOwnershipGuard(f.owners, f.pets),
		Validator:    NewAvailabilityValidator(f.appointments, f.vets),
		Appointments: f.appointments,
		Channel:      model.BookingChannelWeb,
		Hours:        DefaultOperatingHours,
		Now:          now,
	}
}

func (f *wizardFixture) wizard(now func() time.Time, opts ...Option) *Wizard {
	return NewWizard(f.deps(now), f.clinic, f.owner,
		[]*model.Veterinarian{f.vet}, []*model.Pet{f.pet}, opts...)
}
