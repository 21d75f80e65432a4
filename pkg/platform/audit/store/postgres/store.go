package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	audit "udyam/pkg/platform/audit"
)

// Store implements audit.Store on PostgreSQL.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Append(ctx context.Context, event audit.Event) error {
	category := event.Category
	if category == "" {
		category = event.Action.Category()
	}
	query := `
		INSERT INTO audit_events (id, category, action, registration_id, step, subject_id_hash, request_id, client_ip, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.New(),
		string(category),
		string(event.Action),
		nullString(event.RegistrationID),
		nullString(event.Step),
		nullString(event.SubjectIDHash),
		nullString(event.RequestID),
		nullString(event.ClientIP),
		event.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

func (s *Store) ListByRegistration(ctx context.Context, registrationID string) ([]audit.Event, error) {
	query := `
		SELECT category, action, registration_id, step, subject_id_hash, request_id, client_ip, created_at
		FROM audit_events
		WHERE registration_id = $1
		ORDER BY created_at
	`
	rows, err := s.db.QueryContext(ctx, query, registrationID)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var events []audit.Event
	for rows.Next() {
		var (
			e                                     audit.Event
			category, action                      string
			regID, step, subject, reqID, clientIP sql.NullString
		)
		if err := rows.Scan(&category, &action, &regID, &step, &subject, &reqID, &clientIP, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		e.Category = audit.EventCategory(category)
		e.Action = audit.Action(action)
		e.RegistrationID = regID.String
		e.Step = step.String
		e.SubjectIDHash = subject.String
		e.RequestID = reqID.String
		e.ClientIP = clientIP.String
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
