package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kalathilrainu/vista-project/internal/models"
	"github.com/kalathilrainu/vista-project/internal/store"
)

type Store struct {
	pool    *pgxpool.Pool
	lockTTL time.Duration
}

type Options struct {
	LockTTL time.Duration
}

func NewStore(pool *pgxpool.Pool, options Options) *Store {
	ttl := options.LockTTL
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &Store{pool: pool, lockTTL: ttl}
}

const visitColumns = `
	v.visit_id, v.office_id, v.token, v.name, v.mobile, v.purpose_id, p.name,
	v.reference_number, v.registration_mode, v.status, v.current_desk_id,
	d.name, v.issue_time, v.attend_time, v.created_by, f.file_id
`

const visitFrom = `
	FROM visits v
	JOIN purposes p ON p.purpose_id = v.purpose_id
	LEFT JOIN desks d ON d.desk_id = v.current_desk_id
	LEFT JOIN office_files f ON f.visit_id = v.visit_id
`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanVisit(row rowScanner) (models.Visit, error) {
	var visit models.Visit
	var nameNull, mobileNull, refNull sql.NullString
	var deskIDNull, deskNameNull, createdByNull, fileIDNull sql.NullString
	var attendNull sql.NullTime
	err := row.Scan(
		&visit.VisitID, &visit.OfficeID, &visit.Token, &nameNull, &mobileNull,
		&visit.PurposeID, &visit.PurposeName, &refNull, &visit.Mode,
		&visit.Status, &deskIDNull, &deskNameNull, &visit.IssueTime,
		&attendNull, &createdByNull, &fileIDNull,
	)
	if err != nil {
		return models.Visit{}, err
	}
	if nameNull.Valid {
		visit.Name = nameNull.String
	}
	if mobileNull.Valid {
		visit.Mobile = mobileNull.String
	}
	if refNull.Valid {
		visit.ReferenceNumber = refNull.String
	}
	visit.CurrentDeskID = nullStringPtr(deskIDNull)
	if deskNameNull.Valid {
		visit.CurrentDeskName = deskNameNull.String
	}
	visit.AttendTime = nullTimePtr(attendNull)
	visit.CreatedBy = nullStringPtr(createdByNull)
	visit.OfficeFileID = nullStringPtr(fileIDNull)
	return visit, nil
}

func (s *Store) RegisterVisit(ctx context.Context, input store.RegisterVisitInput) (models.Visit, error) {
	issuedAt := input.IssuedAt
	if issuedAt.IsZero() {
		issuedAt = time.Now()
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

	var officeCode string
	row := tx.QueryRow(ctx, `SELECT code FROM offices WHERE office_id = $1`, input.OfficeID)
	if err = row.Scan(&officeCode); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Visit{}, store.ErrOfficeNotFound
		}
		return models.Visit{}, err
	}
	if officeCode == "" {
		err = store.ErrOfficeCodeMissing
		return models.Visit{}, err
	}

	var purposeID string
	row = tx.QueryRow(ctx, `SELECT purpose_id FROM purposes WHERE purpose_id = $1`, input.PurposeID)
	if err = row.Scan(&purposeID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Visit{}, store.ErrPurposeNotFound
		}
		return models.Visit{}, err
	}

	seq, err := nextTokenSeq(ctx, tx, input.OfficeID, issuedAt)
	if err != nil {
		return models.Visit{}, err
	}
	token := store.FormatToken(officeCode, issuedAt, seq)

	visitID := uuid.NewString()
	_, err = tx.Exec(ctx, `
		INSERT INTO visits (
			visit_id, office_id, token, name, mobile, purpose_id,
			reference_number, registration_mode, status, issue_time, created_by
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`, visitID, input.OfficeID, token, nullIfEmpty(input.Name), nullIfEmpty(input.Mobile),
		input.PurposeID, nullIfEmpty(input.ReferenceNumber), input.Mode,
		models.StatusWaiting, issuedAt, actorID(input.Actor))
	if err != nil {
		return models.Visit{}, err
	}

	if err = s.insertVisitLog(ctx, tx, visitID, models.ActionCreated, input.Actor, nil, nil, "Registered via "+input.Mode); err != nil {
		return models.Visit{}, err
	}

	if err = tx.Commit(ctx); err != nil {
		return models.Visit{}, err
	}

	// Routing is best-effort and runs in its own transaction:
	// registration must survive a routing failure.
	if routeErr := s.routeNewVisit(ctx, visitID); routeErr != nil {
		s.appendComment(ctx, visitID, "Routing failed: "+routeErr.Error())
	}

	return s.GetVisit(ctx, visitID)
}

// nextTokenSeq issues the next per-office-per-day sequence number. The
// conflicting update takes the counter row's lock, so concurrent
// registrations serialize here and never observe the same value.
func nextTokenSeq(ctx context.Context, tx pgx.Tx, officeID string, day time.Time) (int64, error) {
	var seq int64
	row := tx.QueryRow(ctx, `
		INSERT INTO daily_token_counters (office_id, date, last_seq)
		VALUES ($1, $2, 1)
		ON CONFLICT (office_id, date)
		DO UPDATE SET last_seq = daily_token_counters.last_seq + 1
		RETURNING last_seq
	`, officeID, day.Format("2006-01-02"))
	if err := row.Scan(&seq); err != nil {
		return 0, err
	}
	return seq, nil
}

func (s *Store) GetVisit(ctx context.Context, visitID string) (models.Visit, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+visitColumns+visitFrom+` WHERE v.visit_id = $1`, visitID)
	visit, err := scanVisit(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Visit{}, store.ErrVisitNotFound
		}
		return models.Visit{}, err
	}
	return visit, nil
}

func (s *Store) UpdateVisit(ctx context.Context, input store.UpdateVisitInput) (models.Visit, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return models.Visit{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if _, err = lockVisit(ctx, tx, input.VisitID); err != nil {
		return models.Visit{}, err
	}

	if input.PurposeID != nil {
		var purposeID string
		row := tx.QueryRow(ctx, `SELECT purpose_id FROM purposes WHERE purpose_id = $1`, *input.PurposeID)
		if err = row.Scan(&purposeID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return models.Visit{}, store.ErrPurposeNotFound
			}
			return models.Visit{}, err
		}
	}

	setClause := "updated_at = NOW()"
	args := []interface{}{input.VisitID}
	argPos := 2
	appendSet := func(column string, value interface{}) {
		setClause += fmt.Sprintf(", %s = $%d", column, argPos)
		args = append(args, value)
		argPos++
	}
	if input.Name != nil {
		appendSet("name", nullIfEmpty(*input.Name))
	}
	if input.Mobile != nil {
		appendSet("mobile", nullIfEmpty(*input.Mobile))
	}
	if input.PurposeID != nil {
		appendSet("purpose_id", *input.PurposeID)
	}
	if input.ReferenceNumber != nil {
		appendSet("reference_number", nullIfEmpty(*input.ReferenceNumber))
	}

	if _, err = tx.Exec(ctx, `UPDATE visits SET `+setClause+` WHERE visit_id = $1`, args...); err != nil {
		return models.Visit{}, err
	}

	if err = tx.Commit(ctx); err != nil {
		return models.Visit{}, err
	}
	return s.GetVisit(ctx, input.VisitID)
}

func (s *Store) ListVisitLogs(ctx context.Context, visitID string) ([]models.VisitLog, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT l.log_id, l.visit_id, l.action, u.username, l.by_staff,
		       l.from_desk_id, l.to_desk_id, l.remarks, l.created_at
		FROM visit_logs l
		LEFT JOIN users u ON u.user_id = l.by_user
		WHERE l.visit_id = $1
		ORDER BY l.created_at ASC, l.log_id ASC
	`, visitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []models.VisitLog
	for rows.Next() {
		var entry models.VisitLog
		var userNull, staffNull, fromNull, toNull, remarksNull sql.NullString
		if err := rows.Scan(&entry.LogID, &entry.VisitID, &entry.Action, &userNull,
			&staffNull, &fromNull, &toNull, &remarksNull, &entry.Timestamp); err != nil {
			return nil, err
		}
		entry.ByUser = nullStringPtr(userNull)
		entry.ByStaff = nullStringPtr(staffNull)
		entry.FromDeskID = nullStringPtr(fromNull)
		entry.ToDeskID = nullStringPtr(toNull)
		if remarksNull.Valid {
			entry.Remarks = remarksNull.String
		}
		logs = append(logs, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return logs, nil
}

// lockedVisit is the subset of visit state actions operate on, read
// under FOR UPDATE so concurrent actions on one visit serialize.
type lockedVisit struct {
	VisitID       string
	OfficeID      string
	PurposeID     string
	Status        string
	CurrentDeskID *string
}

func lockVisit(ctx context.Context, tx pgx.Tx, visitID string) (lockedVisit, error) {
	var visit lockedVisit
	var deskNull sql.NullString
	row := tx.QueryRow(ctx, `
		SELECT visit_id, office_id, purpose_id, status, current_desk_id
		FROM visits
		WHERE visit_id = $1
		FOR UPDATE
	`, visitID)
	if err := row.Scan(&visit.VisitID, &visit.OfficeID, &visit.PurposeID, &visit.Status, &deskNull); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return lockedVisit{}, store.ErrVisitNotFound
		}
		return lockedVisit{}, err
	}
	visit.CurrentDeskID = nullStringPtr(deskNull)
	return visit, nil
}

// insertVisitLog appends an audit entry, resolving the acting staff
// member from the user's currently effective assignment.
func (s *Store) insertVisitLog(ctx context.Context, tx pgx.Tx, visitID, action string, actor models.Actor, fromDesk, toDesk *string, remarks string) error {
	var staffPEN interface{}
	if !actor.IsSystem() {
		today := time.Now().Format("2006-01-02")
		var pen string
		row := tx.QueryRow(ctx, `
			SELECT staff_pen
			FROM user_assignments
			WHERE user_id = $1 AND from_date <= $2
				AND (to_date IS NULL OR to_date >= $2)
			ORDER BY from_date DESC
			LIMIT 1
		`, actor.UserID, today)
		if err := row.Scan(&pen); err != nil {
			if !errors.Is(err, pgx.ErrNoRows) {
				return err
			}
		} else {
			staffPEN = pen
		}
	}

	_, err := tx.Exec(ctx, `
		INSERT INTO visit_logs (log_id, visit_id, action, by_user, by_staff, from_desk_id, to_desk_id, remarks, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, uuid.NewString(), visitID, action, actorID(actor), staffPEN, fromDesk, toDesk, nullIfEmpty(remarks), time.Now())
	return err
}

// appendComment records a degraded-path note outside the caller's
// transaction; failures here are swallowed since the comment itself is
// best-effort.
func (s *Store) appendComment(ctx context.Context, visitID, remarks string) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return
	}
	if err := s.insertVisitLog(ctx, tx, visitID, models.ActionComment, models.Actor{}, nil, nil, remarks); err != nil {
		_ = tx.Rollback(ctx)
		return
	}
	_ = tx.Commit(ctx)
}

func actorID(actor models.Actor) interface{} {
	if actor.IsSystem() {
		return nil
	}
	return actor.UserID
}

func nullIfEmpty(value string) interface{} {
	if value == "" {
		return nil
	}
	return value
}

func nullStringPtr(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	result := value.String
	return &result
}

func nullTimePtr(value sql.NullTime) *time.Time {
	if !value.Valid {
		return nil
	}
	result := value.Time
	return &result
}
