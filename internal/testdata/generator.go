package testdata

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/njume/signbook/internal/database/repository"
)

var sampleNames = []string{
	"Brenda Ayuk", "Carine Mbarga", "Didier Nkou", "Estelle Fouda",
	"Franck Tchoupo", "Gaelle Ndongo", "Hervé Kamga", "Ivette Ngo Bassom",
	"Joël Etoundi", "Karl Njoya",
}

// Seed inserts n sample registrations owned by ownerID. Useful for demos and
// UI tests; phone numbers are synthetic but pattern-valid.
func Seed(ctx context.Context, repo *repository.RegistrationRepo, ownerID string, n int) error {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	now := time.Now().UTC().Truncate(time.Second)

	for i := 0; i < n; i++ {
		reg := repository.Registration{
			ID:        uuid.NewString(),
			OwnerID:   ownerID,
			FullName:  sampleNames[i%len(sampleNames)],
			Track:     repository.Tracks[rng.Intn(len(repository.Tracks))],
			Level:     repository.Levels[rng.Intn(len(repository.Levels))],
			Phone:     fmt.Sprintf("67%07d", i),
			CreatedAt: now.Add(-time.Duration(i) * time.Minute),
		}
		if err := repo.Insert(ctx, reg); err != nil {
			return err
		}
	}
	return nil
}
