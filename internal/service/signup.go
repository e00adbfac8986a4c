package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/njume/signbook/internal/database"
	"github.com/njume/signbook/internal/database/repository"
)

// MaxRegistrations caps the roster size.
const MaxRegistrations = 50

// Validation and permission failures surfaced to the user. None are fatal.
var (
	ErrEmptyName       = errors.New("name is required")
	ErrTrackRequired   = errors.New("select a track")
	ErrLevelRequired   = errors.New("select a level")
	ErrBadPhone        = errors.New("phone must be a Cameroonian mobile number")
	ErrDuplicatePhone  = errors.New("this phone number is already registered")
	ErrCapacityReached = fmt.Errorf("registration is full (%d spots)", MaxRegistrations)
	ErrNotOwner        = errors.New("only the device that created a registration can remove it")
)

// SignupForm carries raw form input.
type SignupForm struct {
	FullName string
	Track    repository.Track
	Level    repository.Level
	Phone    string
}

// SignupService validates and persists sign-ups for one device.
type SignupService struct {
	Registrations *repository.RegistrationRepo
	DeviceID      string
}

// Submit runs the form through validate, dedupe and capacity checks, then
// persists a new registration owned by this device. The returned registration
// is the stored row.
func (s *SignupService) Submit(ctx context.Context, form SignupForm) (repository.Registration, error) {
	name := strings.TrimSpace(form.FullName)
	if name == "" {
		return repository.Registration{}, ErrEmptyName
	}
	if !form.Track.Valid() {
		return repository.Registration{}, ErrTrackRequired
	}
	if !form.Level.Valid() {
		return repository.Registration{}, ErrLevelRequired
	}
	phone := NormalizePhone(form.Phone)
	if !ValidPhone(phone) {
		return repository.Registration{}, ErrBadPhone
	}

	reg := repository.Registration{
		ID:        uuid.NewString(),
		OwnerID:   s.DeviceID,
		FullName:  name,
		Track:     form.Track,
		Level:     form.Level,
		Phone:     phone,
		CreatedAt: database.Now(),
	}
	err := s.Registrations.InsertChecked(ctx, reg, MaxRegistrations)
	switch {
	case err == nil:
		return reg, nil
	case errors.Is(err, repository.ErrPhoneTaken):
		return repository.Registration{}, ErrDuplicatePhone
	case errors.Is(err, repository.ErrRosterFull):
		return repository.Registration{}, ErrCapacityReached
	case strings.Contains(err.Error(), "UNIQUE"):
		// unique index on phone backstops the in-transaction check
		return repository.Registration{}, ErrDuplicatePhone
	default:
		return repository.Registration{}, fmt.Errorf("insert registration: %w", err)
	}
}

// Delete removes a registration by id, but only when this device created it.
func (s *SignupService) Delete(ctx context.Context, id string) error {
	reg, err := s.Registrations.Get(ctx, id)
	if err != nil {
		return err
	}
	if reg.OwnerID != s.DeviceID {
		return ErrNotOwner
	}
	return s.Registrations.Delete(ctx, id)
}
