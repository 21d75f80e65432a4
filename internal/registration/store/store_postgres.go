package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"udyam/internal/registration/models"
	"udyam/pkg/platform/sentinel"
)

const selectColumns = `id, aadhaar, owner_name, otp, declaration, verified, pan, pincode, city, state, created_at, updated_at`

// PostgresStore persists registrations in the registrations table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) CreateWithStep1(ctx context.Context, step1 models.Step1, now time.Time) (*models.Registration, error) {
	id := uuid.New()
	query := `
		INSERT INTO registrations (id, aadhaar, owner_name, otp, declaration, verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
	`
	_, err := s.db.ExecContext(ctx, query, id, step1.Aadhaar, step1.Name,
		nullString(step1.OTP), step1.Declaration, step1.Verified, now)
	if err != nil {
		return nil, fmt.Errorf("insert registration: %w", err)
	}
	return &models.Registration{
		ID:        id.String(),
		Step1:     &step1,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *PostgresStore) FindByAadhaar(ctx context.Context, aadhaar string) (*models.Registration, error) {
	query := `SELECT ` + selectColumns + ` FROM registrations WHERE aadhaar = $1 ORDER BY created_at LIMIT 1`
	return s.findOne(ctx, query, aadhaar)
}

func (s *PostgresStore) FindByID(ctx context.Context, id string) (*models.Registration, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, sentinel.ErrNotFound
	}
	query := `SELECT ` + selectColumns + ` FROM registrations WHERE id = $1`
	return s.findOne(ctx, query, parsed)
}

func (s *PostgresStore) MarkOTPVerified(ctx context.Context, id, otp string, now time.Time) (*models.Registration, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, sentinel.ErrNotFound
	}
	query := `
		UPDATE registrations SET otp = $2, verified = TRUE, updated_at = $3
		WHERE id = $1
		RETURNING ` + selectColumns
	return s.findOne(ctx, query, parsed, otp, now)
}

func (s *PostgresStore) AttachStep2(ctx context.Context, id string, step2 models.Step2, now time.Time) (*models.Registration, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, sentinel.ErrNotFound
	}
	query := `
		UPDATE registrations SET pan = $2, pincode = $3, city = $4, state = $5, updated_at = $6
		WHERE id = $1
		RETURNING ` + selectColumns
	return s.findOne(ctx, query, parsed, step2.PAN,
		nullString(step2.Pincode), nullString(step2.City), nullString(step2.State), now)
}

func (s *PostgresStore) findOne(ctx context.Context, query string, args ...any) (*models.Registration, error) {
	var (
		id                      uuid.UUID
		step1                   models.Step1
		otp, pan, pin, city, st sql.NullString
		createdAt, updatedAt    time.Time
	)
	err := s.db.QueryRowContext(ctx, query, args...).Scan(
		&id, &step1.Aadhaar, &step1.Name, &otp, &step1.Declaration, &step1.Verified,
		&pan, &pin, &city, &st, &createdAt, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query registration: %w", err)
	}
	step1.OTP = otp.String

	reg := &models.Registration{
		ID:        id.String(),
		Step1:     &step1,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
	if pan.Valid {
		reg.Step2 = &models.Step2{PAN: pan.String, Pincode: pin.String, City: city.String, State: st.String}
	}
	return reg, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
