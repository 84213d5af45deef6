package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/kalathilrainu/vista-project/internal/models"
	"github.com/kalathilrainu/vista-project/internal/store"
)

func (s *Store) ListDesks(ctx context.Context, officeID string) ([]models.Desk, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT desk_id, office_id, name FROM desks
		WHERE office_id = $1
		ORDER BY name ASC
	`, officeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var desks []models.Desk
	for rows.Next() {
		var desk models.Desk
		if err := rows.Scan(&desk.DeskID, &desk.OfficeID, &desk.Name); err != nil {
			return nil, err
		}
		desks = append(desks, desk)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return desks, nil
}

func (s *Store) ListPurposes(ctx context.Context) ([]models.Purpose, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT purpose_id, name FROM purposes ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var purposes []models.Purpose
	for rows.Next() {
		var purpose models.Purpose
		if err := rows.Scan(&purpose.PurposeID, &purpose.Name); err != nil {
			return nil, err
		}
		purposes = append(purposes, purpose)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return purposes, nil
}

// GetSession resolves a bearer session to the acting user and their
// office and desk context. Expired sessions read as missing.
func (s *Store) GetSession(ctx context.Context, sessionID string) (store.Session, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT s.session_id, s.user_id, u.username,
		       COALESCE(u.office_id::text, ''), COALESCE(u.desk_id::text, ''),
		       u.role, s.expires_at
		FROM sessions s
		JOIN users u ON u.user_id = s.user_id
		WHERE s.session_id = $1 AND s.expires_at > $2
	`, sessionID, time.Now())

	var session store.Session
	err := row.Scan(&session.SessionID, &session.UserID, &session.Username,
		&session.OfficeID, &session.DeskID, &session.Role, &session.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return store.Session{}, store.ErrSessionNotFound
	}
	if err != nil {
		return store.Session{}, err
	}
	return session, nil
}
