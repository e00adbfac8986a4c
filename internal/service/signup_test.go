package service

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/njume/signbook/internal/database"
	"github.com/njume/signbook/internal/database/repository"
)

func newTestRepo(t *testing.T) *repository.RegistrationRepo {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	migrations, err := filepath.Abs("../database/migrations")
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(dbPath, migrations))

	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return repository.NewRegistrationRepo(db)
}

func validForm() SignupForm {
	return SignupForm{
		FullName: "Brenda Ayuk",
		Track:    repository.TrackIW,
		Level:    repository.LevelL2,
		Phone:    "+237 677 123 456",
	}
}

func TestSubmitAndReload(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	repo := newTestRepo(t)
	svc := &SignupService{Registrations: repo, DeviceID: "device-a"}

	reg, err := svc.Submit(ctx, validForm())
	require.NoError(t, err)
	require.NotEmpty(t, reg.ID)
	require.Equal(t, "device-a", reg.OwnerID)
	require.Equal(t, "+237677123456", reg.Phone, "phone stored normalized")
	t.Log("first submit stored")

	second := validForm()
	second.FullName = "  Carine Mbarga  "
	second.Phone = "690 000 001"
	reg2, err := svc.Submit(ctx, second)
	require.NoError(t, err)
	require.Equal(t, "Carine Mbarga", reg2.FullName, "name trimmed")

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, reg2.ID, list[0].ID, "newest entry first")
	require.Equal(t, reg.ID, list[1].ID)
}

func TestSubmitValidation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := &SignupService{Registrations: newTestRepo(t), DeviceID: "device-a"}

	cases := []struct {
		name    string
		mutate  func(*SignupForm)
		wantErr error
	}{
		{"empty name", func(f *SignupForm) { f.FullName = "   " }, ErrEmptyName},
		{"missing track", func(f *SignupForm) { f.Track = "" }, ErrTrackRequired},
		{"unknown track", func(f *SignupForm) { f.Track = "zz" }, ErrTrackRequired},
		{"missing level", func(f *SignupForm) { f.Level = "" }, ErrLevelRequired},
		{"landline prefix", func(f *SignupForm) { f.Phone = "123456789" }, ErrBadPhone},
		{"too short", func(f *SignupForm) { f.Phone = "6771234" }, ErrBadPhone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			form := validForm()
			tc.mutate(&form)
			_, err := svc.Submit(ctx, form)
			require.ErrorIs(t, err, tc.wantErr)
		})
	}

	// nothing should have been persisted
	count, err := svc.Registrations.Count(ctx)
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestSubmitDuplicatePhone(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := &SignupService{Registrations: newTestRepo(t), DeviceID: "device-a"}

	_, err := svc.Submit(ctx, validForm())
	require.NoError(t, err)

	dup := validForm()
	dup.FullName = "Someone Else"
	dup.Phone = "677123456" // same subscriber, different spelling is still a new number
	_, err = svc.Submit(ctx, dup)
	require.NoError(t, err, "country-code and bare forms are distinct strings")

	exact := validForm()
	exact.FullName = "Third Person"
	_, err = svc.Submit(ctx, exact)
	require.ErrorIs(t, err, ErrDuplicatePhone)
}

func TestSubmitCapacity(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := &SignupService{Registrations: newTestRepo(t), DeviceID: "device-a"}

	for i := 0; i < MaxRegistrations; i++ {
		form := validForm()
		form.FullName = fmt.Sprintf("Student %02d", i)
		form.Phone = fmt.Sprintf("6770%05d", i)
		_, err := svc.Submit(ctx, form)
		require.NoError(t, err, "submission %d", i)
	}
	t.Log("roster full")

	over := validForm()
	over.Phone = "699999999"
	_, err := svc.Submit(ctx, over)
	require.ErrorIs(t, err, ErrCapacityReached)

	count, err := svc.Registrations.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, MaxRegistrations, count)
}

func TestDeleteOwnership(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newTestRepo(t)
	owner := &SignupService{Registrations: repo, DeviceID: "device-a"}
	stranger := &SignupService{Registrations: repo, DeviceID: "device-b"}

	reg, err := owner.Submit(ctx, validForm())
	require.NoError(t, err)

	require.ErrorIs(t, stranger.Delete(ctx, reg.ID), ErrNotOwner)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1, "denied delete must not remove the row")

	require.ErrorIs(t, owner.Delete(ctx, "no-such-id"), repository.ErrNotFound)

	require.NoError(t, owner.Delete(ctx, reg.ID))
	list, err = repo.List(ctx)
	require.NoError(t, err)
	require.Empty(t, list)
}
