package postgres

import (
	"github.com/jmoiron/sqlx"

	"github.com/petcarehq/booking-api/internal/repository"
)

type appointmentRepository struct {
	db *sqlx.DB
}

type petRepository struct {
	db *sqlx.DB
}

type ownerRepository struct {
	db *sqlx.DB
}

type veterinarianRepository struct {
	db *sqlx.DB
}

type clinicRepository struct {
	db *sqlx.DB
}

type outboxRepository struct {
	db *sqlx.DB
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{db: db}
}

func NewPetRepository(db *sqlx.DB) repository.PetRepository {
	return &petRepository{db: db}
}

func NewOwnerRepository(db *sqlx.DB) repository.OwnerRepository {
	return &ownerRepository{db: db}
}

func NewVeterinarianRepository(db *sqlx.DB) repository.VeterinarianRepository {
	return &veterinarianRepository{db: db}
}

func NewClinicRepository(db *sqlx.DB) repository.ClinicRepository {
	return &clinicRepository{db: db}
}

func NewOutboxRepository(db *sqlx.DB) repository.OutboxRepository {
	return &outboxRepository{db: db}
}
