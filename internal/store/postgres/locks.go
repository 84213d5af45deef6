package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/kalathilrainu/vista-project/internal/models"
	"github.com/kalathilrainu/vista-project/internal/store"
)

// AcquireLock takes or refreshes the edit lock on a visit. Locks are
// advisory with a short TTL; expiry is lazy, reaped on the next
// acquire or check.
func (s *Store) AcquireLock(ctx context.Context, visitID string, actor models.Actor) (store.LockStatus, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return store.LockStatus{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if _, err = lockVisit(ctx, tx, visitID); err != nil {
		return store.LockStatus{}, err
	}

	now := time.Now()
	if _, err = tx.Exec(ctx, `DELETE FROM visit_locks WHERE visit_id = $1 AND expires_at <= $2`, visitID, now); err != nil {
		return store.LockStatus{}, err
	}

	var holderID, holderName string
	var expiresAt time.Time
	row := tx.QueryRow(ctx, `
		SELECT l.locked_by, u.username, l.expires_at
		FROM visit_locks l
		JOIN users u ON u.user_id = l.locked_by
		WHERE l.visit_id = $1
	`, visitID)
	err = row.Scan(&holderID, &holderName, &expiresAt)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		expiresAt = now.Add(s.lockTTL)
		if _, err = tx.Exec(ctx, `
			INSERT INTO visit_locks (visit_id, locked_by, locked_at, expires_at)
			VALUES ($1, $2, $3, $4)
		`, visitID, actor.UserID, now, expiresAt); err != nil {
			return store.LockStatus{}, err
		}
		if err = tx.Commit(ctx); err != nil {
			return store.LockStatus{}, err
		}
		return store.LockStatus{Granted: true, Locked: true, Holder: actor.Username, IsSelf: true, ExpiresAt: expiresAt}, nil
	case err != nil:
		return store.LockStatus{}, err
	}

	if holderID == actor.UserID {
		expiresAt = now.Add(s.lockTTL)
		if _, err = tx.Exec(ctx, `
			UPDATE visit_locks SET locked_at = $2, expires_at = $3 WHERE visit_id = $1
		`, visitID, now, expiresAt); err != nil {
			return store.LockStatus{}, err
		}
		if err = tx.Commit(ctx); err != nil {
			return store.LockStatus{}, err
		}
		return store.LockStatus{Granted: true, Locked: true, Holder: actor.Username, IsSelf: true, ExpiresAt: expiresAt}, nil
	}

	if err = tx.Commit(ctx); err != nil {
		return store.LockStatus{}, err
	}
	return store.LockStatus{Granted: false, Locked: true, Holder: holderName, IsSelf: false, ExpiresAt: expiresAt}, nil
}

// ReleaseLock drops the actor's own lock. Releasing a lock held by
// someone else, or no lock at all, is a no-op.
func (s *Store) ReleaseLock(ctx context.Context, visitID string, actor models.Actor) error {
	_, err := s.pool.Exec(ctx, `
		DELETE FROM visit_locks WHERE visit_id = $1 AND locked_by = $2
	`, visitID, actor.UserID)
	return err
}

func (s *Store) CheckLock(ctx context.Context, visitID string, actor models.Actor) (store.LockStatus, error) {
	now := time.Now()
	if _, err := s.pool.Exec(ctx, `DELETE FROM visit_locks WHERE visit_id = $1 AND expires_at <= $2`, visitID, now); err != nil {
		return store.LockStatus{}, err
	}
	var holderID, holderName string
	var expiresAt time.Time
	row := s.pool.QueryRow(ctx, `
		SELECT l.locked_by, u.username, l.expires_at
		FROM visit_locks l
		JOIN users u ON u.user_id = l.locked_by
		WHERE l.visit_id = $1
	`, visitID)
	err := row.Scan(&holderID, &holderName, &expiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return store.LockStatus{Locked: false}, nil
	}
	if err != nil {
		return store.LockStatus{}, err
	}
	return store.LockStatus{
		Locked:    true,
		Holder:    holderName,
		IsSelf:    holderID == actor.UserID,
		ExpiresAt: expiresAt,
	}, nil
}
