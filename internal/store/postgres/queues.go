package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/kalathilrainu/vista-project/internal/models"
	"github.com/kalathilrainu/vista-project/internal/store"
)

// dayBounds returns the local-day window containing t. Queue views
// only show today's traffic.
func dayBounds(t time.Time) (time.Time, time.Time) {
	year, month, day := t.Date()
	start := time.Date(year, month, day, 0, 0, 0, 0, t.Location())
	return start, start.Add(24 * time.Hour)
}

const queueColumns = `
	v.visit_id, v.token, v.name, v.status, p.name,
	v.current_desk_id, d.name, v.issue_time
`

func scanQueueEntries(rows pgx.Rows) ([]models.QueueEntry, error) {
	defer rows.Close()
	var entries []models.QueueEntry
	for rows.Next() {
		var entry models.QueueEntry
		var nameNull, deskIDNull, deskNameNull sql.NullString
		if err := rows.Scan(&entry.VisitID, &entry.Token, &nameNull, &entry.Status,
			&entry.PurposeName, &deskIDNull, &deskNameNull, &entry.IssueTime); err != nil {
			return nil, err
		}
		if nameNull.Valid {
			entry.Name = nameNull.String
		}
		entry.DeskID = nullStringPtr(deskIDNull)
		if deskNameNull.Valid {
			entry.DeskName = deskNameNull.String
		}
		entry.StatusDisplay = models.StatusDisplay(entry.Status)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// OfficeQueue lists today's active queue for the general desk family,
// ordered by token. Visits already being attended stay off the public
// board.
func (s *Store) OfficeQueue(ctx context.Context, officeID string) ([]models.QueueEntry, error) {
	start, end := dayBounds(time.Now())
	rows, err := s.pool.Query(ctx, `
		SELECT `+queueColumns+`
		FROM desk_queue q
		JOIN visits v ON v.visit_id = q.visit_id
		JOIN purposes p ON p.purpose_id = v.purpose_id
		JOIN desks d ON d.desk_id = q.desk_id
		WHERE v.office_id = $1 AND q.is_active
			AND v.issue_time >= $2 AND v.issue_time < $3
			AND v.status <> $4
			AND (LOWER(d.name) LIKE 'vo%'
				OR LOWER(d.name) LIKE '%village officer%'
				OR LOWER(d.name) = 'visitor')
		ORDER BY v.token ASC
	`, officeID, start, end, models.StatusInProgress)
	if err != nil {
		return nil, err
	}
	return scanQueueEntries(rows)
}

// DeskQueue lists today's active queue for one desk. On a general
// desk, auto-routed arrivals awaiting manual routing are suppressed;
// they surface on the pending list instead.
func (s *Store) DeskQueue(ctx context.Context, deskID string) ([]models.QueueEntry, error) {
	var deskName string
	row := s.pool.QueryRow(ctx, `SELECT name FROM desks WHERE desk_id = $1`, deskID)
	if err := row.Scan(&deskName); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrDeskNotFound
		}
		return nil, err
	}

	start, end := dayBounds(time.Now())
	query := `
		SELECT ` + queueColumns + `
		FROM desk_queue q
		JOIN visits v ON v.visit_id = q.visit_id
		JOIN purposes p ON p.purpose_id = v.purpose_id
		LEFT JOIN desks d ON d.desk_id = v.current_desk_id
		WHERE q.desk_id = $1 AND q.is_active
			AND v.issue_time >= $2 AND v.issue_time < $3
			AND v.status IN ($4, $5, $6)
	`
	args := []interface{}{deskID, start, end,
		models.StatusWaiting, models.StatusRouted, models.StatusInProgress}
	if isGeneralDeskName(deskName) {
		query += ` AND NOT (q.assigned_by IS NULL AND v.status IN ($4, $5))`
	}
	query += ` ORDER BY v.token ASC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return scanQueueEntries(rows)
}

// ListPendingVisits lists all of today's open visits for the routing
// console, oldest first.
func (s *Store) ListPendingVisits(ctx context.Context, officeID string) ([]models.QueueEntry, error) {
	start, end := dayBounds(time.Now())
	rows, err := s.pool.Query(ctx, `
		SELECT `+queueColumns+`
		FROM visits v
		JOIN purposes p ON p.purpose_id = v.purpose_id
		LEFT JOIN desks d ON d.desk_id = v.current_desk_id
		WHERE v.office_id = $1
			AND v.issue_time >= $2 AND v.issue_time < $3
			AND v.status IN ($4, $5, $6)
		ORDER BY v.issue_time ASC
	`, officeID, start, end,
		models.StatusWaiting, models.StatusRouted, models.StatusInProgress)
	if err != nil {
		return nil, err
	}
	return scanQueueEntries(rows)
}
