package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/kalathilrainu/vista-project/internal/models"
	"github.com/kalathilrainu/vista-project/internal/store"
)

// routeNewVisit applies the office's routing rules to a freshly
// registered visit. A purpose rule wins; otherwise the visit goes to
// the Village Officer desk for manual routing. With neither in place
// the visit simply stays WAITING with a note.
func (s *Store) routeNewVisit(ctx context.Context, visitID string) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	visit, err := lockVisit(ctx, tx, visitID)
	if err != nil {
		return err
	}

	var deskID string
	row := tx.QueryRow(ctx, `
		SELECT desk_id FROM routing_rules
		WHERE office_id = $1 AND purpose_id = $2
	`, visit.OfficeID, visit.PurposeID)
	err = row.Scan(&deskID)
	switch {
	case err == nil:
		if err = s.assignLocked(ctx, tx, visit, deskID, models.Actor{}, models.ActionRouted, "Auto-routed based on purpose"); err != nil {
			return err
		}
	case errors.Is(err, pgx.ErrNoRows):
		deskID, err = findGeneralDesk(ctx, tx, visit.OfficeID)
		if err != nil && !errors.Is(err, store.ErrDeskNotFound) {
			return err
		}
		if err == nil {
			if err = s.assignLocked(ctx, tx, visit, deskID, models.Actor{}, models.ActionRouted, "Sent to the general queue for manual routing"); err != nil {
				return err
			}
		} else {
			if err = s.insertVisitLog(ctx, tx, visitID, models.ActionComment, models.Actor{}, nil, nil, "No routing rule or Village Officer desk found"); err != nil {
				return err
			}
		}
	default:
		return err
	}

	return tx.Commit(ctx)
}

// findGeneralDesk locates the office's Village Officer desk by name,
// trying progressively looser matches.
func findGeneralDesk(ctx context.Context, tx pgx.Tx, officeID string) (string, error) {
	patterns := []string{
		`LOWER(name) = LOWER('Village Officer')`,
		`LOWER(name) = LOWER('VO')`,
		`LOWER(name) LIKE LOWER('VO') || '%'`,
		`LOWER(name) LIKE '%' || LOWER('Village Officer') || '%'`,
	}
	for _, pattern := range patterns {
		var deskID string
		row := tx.QueryRow(ctx, `
			SELECT desk_id FROM desks
			WHERE office_id = $1 AND `+pattern+`
			ORDER BY name ASC
			LIMIT 1
		`, officeID)
		err := row.Scan(&deskID)
		if err == nil {
			return deskID, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return "", err
		}
	}
	return "", store.ErrDeskNotFound
}

// isGeneralDeskName reports whether a desk acts as the office's
// general (manual routing) queue rather than a service desk.
func isGeneralDeskName(name string) bool {
	lower := strings.ToLower(strings.TrimSpace(name))
	return strings.HasPrefix(lower, "vo") ||
		strings.Contains(lower, "village officer") ||
		lower == "visitor"
}

// assignLocked moves an already locked visit onto a desk: status
// change, queue row upsert, audit log. Callers own the transaction.
func (s *Store) assignLocked(ctx context.Context, tx pgx.Tx, visit lockedVisit, deskID string, actor models.Actor, action, remarks string) error {
	if store.IsTerminal(visit.Status) {
		return store.ErrVisitClosed
	}

	var deskOffice string
	row := tx.QueryRow(ctx, `SELECT office_id FROM desks WHERE desk_id = $1`, deskID)
	if err := row.Scan(&deskOffice); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.ErrDeskNotFound
		}
		return err
	}
	if deskOffice != visit.OfficeID {
		return store.ErrDeskNotFound
	}

	// Re-routing an in-progress visit sends it back to ROUTED and
	// clears the attend timestamp.
	_, err := tx.Exec(ctx, `
		UPDATE visits
		SET status = $2, current_desk_id = $3,
		    attend_time = CASE WHEN status = $4 THEN NULL ELSE attend_time END,
		    updated_at = NOW()
		WHERE visit_id = $1
	`, visit.VisitID, models.StatusRouted, deskID, models.StatusInProgress)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO desk_queue (visit_id, desk_id, assigned_at, assigned_by, is_active)
		VALUES ($1, $2, $3, $4, TRUE)
		ON CONFLICT (visit_id)
		DO UPDATE SET desk_id = EXCLUDED.desk_id, assigned_at = EXCLUDED.assigned_at,
		              assigned_by = EXCLUDED.assigned_by, is_active = TRUE
	`, visit.VisitID, deskID, time.Now(), actorID(actor))
	if err != nil {
		return err
	}

	return s.insertVisitLog(ctx, tx, visit.VisitID, action, actor, visit.CurrentDeskID, &deskID, remarks)
}

func (s *Store) AssignVisit(ctx context.Context, input store.AssignVisitInput) (models.Visit, error) {
	action := input.Action
	if action == "" {
		action = models.ActionAssigned
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return models.Visit{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	visit, err := lockVisit(ctx, tx, input.VisitID)
	if err != nil {
		return models.Visit{}, err
	}
	if store.IsTerminal(visit.Status) {
		err = store.ErrVisitClosed
		return models.Visit{}, err
	}
	if !store.ValidTransition("assign", visit.Status) {
		err = store.ErrInvalidState
		return models.Visit{}, err
	}

	remarks := input.Remarks
	if remarks == "" {
		remarks = "Manual routing by VO"
	}
	if err = s.assignLocked(ctx, tx, visit, input.DeskID, input.Actor, action, remarks); err != nil {
		return models.Visit{}, err
	}
	if err = tx.Commit(ctx); err != nil {
		return models.Visit{}, err
	}
	return s.GetVisit(ctx, input.VisitID)
}

// AttendVisit marks a visit in progress at the actor's desk. A staff
// member may pick a visit that sits on another desk's queue; it is
// pulled over before being attended.
func (s *Store) AttendVisit(ctx context.Context, input store.VisitActionInput) (models.Visit, error) {
	if input.Actor.DeskID == "" {
		return models.Visit{}, store.ErrNoDeskAssigned
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return models.Visit{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	visit, err := lockVisit(ctx, tx, input.VisitID)
	if err != nil {
		return models.Visit{}, err
	}
	if store.IsTerminal(visit.Status) {
		err = store.ErrVisitClosed
		return models.Visit{}, err
	}
	if !store.ValidTransition("attend", visit.Status) {
		err = store.ErrInvalidState
		return models.Visit{}, err
	}

	if visit.CurrentDeskID == nil || *visit.CurrentDeskID != input.Actor.DeskID {
		if err = s.assignLocked(ctx, tx, visit, input.Actor.DeskID, input.Actor, models.ActionAssigned, "picked from queue"); err != nil {
			return models.Visit{}, err
		}
		visit.CurrentDeskID = &input.Actor.DeskID
		visit.Status = models.StatusRouted
	}

	attendedAt := input.OccurredAt
	if attendedAt.IsZero() {
		attendedAt = time.Now()
	}
	_, err = tx.Exec(ctx, `
		UPDATE visits SET status = $2, attend_time = $3, updated_at = NOW()
		WHERE visit_id = $1
	`, input.VisitID, models.StatusInProgress, attendedAt)
	if err != nil {
		return models.Visit{}, err
	}

	remarks := input.Remarks
	if remarks == "" {
		remarks = "Attending visitor"
	}
	if err = s.insertVisitLog(ctx, tx, input.VisitID, models.ActionAttended, input.Actor, visit.CurrentDeskID, visit.CurrentDeskID, remarks); err != nil {
		return models.Visit{}, err
	}
	if err = tx.Commit(ctx); err != nil {
		return models.Visit{}, err
	}
	return s.GetVisit(ctx, input.VisitID)
}

func (s *Store) TransferVisit(ctx context.Context, input store.TransferVisitInput) (models.Visit, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return models.Visit{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	visit, err := lockVisit(ctx, tx, input.VisitID)
	if err != nil {
		return models.Visit{}, err
	}
	if store.IsTerminal(visit.Status) {
		err = store.ErrVisitClosed
		return models.Visit{}, err
	}
	if !store.ValidTransition("transfer", visit.Status) {
		err = store.ErrInvalidState
		return models.Visit{}, err
	}

	remarks := input.Remarks
	if remarks == "" {
		remarks = "Transferred to another desk"
	}
	if err = s.assignLocked(ctx, tx, visit, input.TargetDeskID, input.Actor, models.ActionTransferred, remarks); err != nil {
		return models.Visit{}, err
	}
	if err = tx.Commit(ctx); err != nil {
		return models.Visit{}, err
	}
	return s.GetVisit(ctx, input.VisitID)
}

func (s *Store) CompleteVisit(ctx context.Context, input store.VisitActionInput) (models.Visit, error) {
	return s.closeVisit(ctx, input, models.StatusCompleted, models.ActionCompleted, "complete", "Service completed")
}

func (s *Store) CancelVisit(ctx context.Context, input store.VisitActionInput) (models.Visit, error) {
	return s.closeVisit(ctx, input, models.StatusCancelled, models.ActionCancelled, "cancel", "Visit cancelled")
}

// closeVisit moves a visit into a terminal state and retires its
// queue entry.
func (s *Store) closeVisit(ctx context.Context, input store.VisitActionInput, status, action, transition, defaultRemarks string) (models.Visit, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return models.Visit{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	visit, err := lockVisit(ctx, tx, input.VisitID)
	if err != nil {
		return models.Visit{}, err
	}
	if store.IsTerminal(visit.Status) {
		err = store.ErrVisitClosed
		return models.Visit{}, err
	}
	if !store.ValidTransition(transition, visit.Status) {
		err = store.ErrInvalidState
		return models.Visit{}, err
	}

	_, err = tx.Exec(ctx, `
		UPDATE visits SET status = $2, updated_at = NOW() WHERE visit_id = $1
	`, input.VisitID, status)
	if err != nil {
		return models.Visit{}, err
	}

	_, err = tx.Exec(ctx, `
		UPDATE desk_queue SET is_active = FALSE WHERE visit_id = $1
	`, input.VisitID)
	if err != nil {
		return models.Visit{}, err
	}

	_, err = tx.Exec(ctx, `DELETE FROM visit_locks WHERE visit_id = $1`, input.VisitID)
	if err != nil {
		return models.Visit{}, err
	}

	remarks := input.Remarks
	if remarks == "" {
		remarks = defaultRemarks
	}
	if err = s.insertVisitLog(ctx, tx, input.VisitID, action, input.Actor, visit.CurrentDeskID, nil, remarks); err != nil {
		return models.Visit{}, err
	}
	if err = tx.Commit(ctx); err != nil {
		return models.Visit{}, err
	}
	return s.GetVisit(ctx, input.VisitID)
}
