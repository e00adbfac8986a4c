package repository

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"strings"

	"github.com/njume/signbook/internal/database"
)

// ErrNotFound is returned when no registration has the requested id.
var ErrNotFound = errors.New("registration not found")

// InsertChecked failure reasons.
var (
	ErrPhoneTaken = errors.New("phone already registered")
	ErrRosterFull = errors.New("roster at capacity")
)

// RegistrationRepo handles registrations.
type RegistrationRepo struct {
	db *sql.DB
}

func NewRegistrationRepo(db *sql.DB) *RegistrationRepo { return &RegistrationRepo{db: db} }

func (r *RegistrationRepo) Insert(ctx context.Context, reg Registration) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO registrations(id, owner_id, full_name, track, level, phone, created_at)
	VALUES(?, ?, ?, ?, ?, ?, ?);
	`,
		reg.ID, reg.OwnerID, reg.FullName, string(reg.Track), string(reg.Level), reg.Phone, reg.CreatedAt)
	return err
}

// InsertChecked runs the duplicate-phone and capacity checks and the insert
// in one transaction, so the checks cannot be interleaved with another write.
func (r *RegistrationRepo) InsertChecked(ctx context.Context, reg Registration, maxCount int) error {
	return database.WithTx(r.db, func(tx *sql.Tx) error {
		var n int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM registrations WHERE phone = ?`, reg.Phone).Scan(&n); err != nil {
			return err
		}
		if n > 0 {
			return ErrPhoneTaken
		}
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM registrations`).Scan(&n); err != nil {
			return err
		}
		if n >= maxCount {
			return ErrRosterFull
		}
		_, err := tx.ExecContext(ctx, `
		INSERT INTO registrations(id, owner_id, full_name, track, level, phone, created_at)
		VALUES(?, ?, ?, ?, ?, ?, ?);
		`,
			reg.ID, reg.OwnerID, reg.FullName, string(reg.Track), string(reg.Level), reg.Phone, reg.CreatedAt)
		return err
	})
}

// List returns the whole roster, newest first. Timestamps are second
// precision, so insertion order (rowid) breaks ties between submissions
// landing in the same second. Rows that no longer parse as a valid
// registration (mangled track/level code, blank phone or name) are logged and
// skipped rather than failing the load.
func (r *RegistrationRepo) List(ctx context.Context) ([]Registration, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, owner_id, full_name, track, level, phone, created_at
	FROM registrations ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Registration
	for rows.Next() {
		var reg Registration
		if err := rows.Scan(&reg.ID, &reg.OwnerID, &reg.FullName, &reg.Track, &reg.Level, &reg.Phone, &reg.CreatedAt); err != nil {
			log.Printf("warn: skipping unreadable registration row: %v", err)
			continue
		}
		if !rowWellFormed(reg) {
			log.Printf("warn: skipping malformed registration %s (track=%q level=%q)", reg.ID, reg.Track, reg.Level)
			continue
		}
		out = append(out, reg)
	}
	return out, rows.Err()
}

func rowWellFormed(reg Registration) bool {
	if strings.TrimSpace(reg.FullName) == "" || strings.TrimSpace(reg.Phone) == "" {
		return false
	}
	return reg.Track.Valid() && reg.Level.Valid()
}

func (r *RegistrationRepo) Get(ctx context.Context, id string) (Registration, error) {
	var reg Registration
	err := r.db.QueryRowContext(ctx, `
	SELECT id, owner_id, full_name, track, level, phone, created_at
	FROM registrations WHERE id = ?`, id).
		Scan(&reg.ID, &reg.OwnerID, &reg.FullName, &reg.Track, &reg.Level, &reg.Phone, &reg.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Registration{}, ErrNotFound
	}
	if err != nil {
		return Registration{}, err
	}
	return reg, nil
}

func (r *RegistrationRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM registrations WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *RegistrationRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM registrations`).Scan(&n)
	return n, err
}

// PhoneExists reports whether a registration already carries the normalized phone.
func (r *RegistrationRepo) PhoneExists(ctx context.Context, phone string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM registrations WHERE phone = ?`, phone).Scan(&n)
	return n > 0, err
}
