package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/njume/signbook/internal/config"
	"github.com/njume/signbook/internal/database"
	"github.com/njume/signbook/internal/database/repository"
	"github.com/njume/signbook/internal/identity"
	"github.com/njume/signbook/internal/service"
	"github.com/njume/signbook/internal/tui"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		log.Fatalf("mkdir db dir: %v", err)
	}

	if err := database.RunMigrations(cfg.Database.Path, "internal/database/migrations"); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	deviceID, err := identity.LoadOrCreate(cfg.Identity.Path)
	if err != nil {
		log.Fatalf("device identity: %v", err)
	}

	repo := repository.NewRegistrationRepo(db)
	signup := &service.SignupService{Registrations: repo, DeviceID: deviceID}

	p := tea.NewProgram(tui.New(ctx, cfg, repo, signup, deviceID), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}
