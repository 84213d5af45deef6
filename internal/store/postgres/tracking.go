package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/kalathilrainu/vista-project/internal/models"
	"github.com/kalathilrainu/vista-project/internal/store"
)

// Track resolves a public status query. Visit tokens win over file
// numbers; a file number shared across offices yields a
// disambiguation list rather than picking one arbitrarily.
func (s *Store) Track(ctx context.Context, query string) (store.TrackResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return store.TrackResult{Found: false}, nil
	}

	result, err := s.trackVisitToken(ctx, query)
	if err != nil {
		return store.TrackResult{}, err
	}
	if result.Found {
		return result, nil
	}
	return s.trackFileNumber(ctx, query)
}

func (s *Store) trackVisitToken(ctx context.Context, token string) (store.TrackResult, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT v.visit_id, v.token, v.status, v.issue_time, o.name,
		       COALESCE(d.name, ''), f.file_number, f.status,
		       COALESCE(f.interim_status, ''), COALESCE(fd.name, '')
		FROM visits v
		JOIN offices o ON o.office_id = v.office_id
		LEFT JOIN desks d ON d.desk_id = v.current_desk_id
		LEFT JOIN office_files f ON f.visit_id = v.visit_id
		LEFT JOIN desks fd ON fd.desk_id = f.desk_id
		WHERE UPPER(v.token) = UPPER($1)
		ORDER BY v.issue_time DESC
		LIMIT 1
	`, token)

	var visitID, visitToken, status, officeName, deskName, fileInterim, fileDesk string
	var issueTime time.Time
	var fileNumberNull, fileStatusNull sql.NullString
	err := row.Scan(&visitID, &visitToken, &status, &issueTime, &officeName,
		&deskName, &fileNumberNull, &fileStatusNull, &fileInterim, &fileDesk)
	if errors.Is(err, pgx.ErrNoRows) {
		return store.TrackResult{Found: false}, nil
	}
	if err != nil {
		return store.TrackResult{}, err
	}

	result := store.TrackResult{
		Found:    true,
		Type:     "Visit Token",
		Ref:      visitToken,
		Status:   models.StatusDisplay(status),
		Date:     issueTime,
		Location: visitLocation(status, deskName),
		Office:   officeName,
	}
	if fileNumberNull.Valid {
		result.LinkedType = "Office File"
		result.LinkedRef = fileNumberNull.String
		result.LinkedStatus = fileStatusLabel(fileStatusNull.String, fileInterim)
		result.LinkedLocation = fileLocation(fileStatusNull.String, fileDesk)
	}
	return result, nil
}

func (s *Store) trackFileNumber(ctx context.Context, fileNumber string) (store.TrackResult, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT f.file_number, f.status, f.interim_status, f.created_at, o.name,
		       COALESCE(d.name, ''), v.token, v.status, COALESCE(vd.name, '')
		FROM office_files f
		JOIN offices o ON o.office_id = f.office_id
		LEFT JOIN desks d ON d.desk_id = f.desk_id
		LEFT JOIN visits v ON v.visit_id = f.visit_id
		LEFT JOIN desks vd ON vd.desk_id = v.current_desk_id
		WHERE LOWER(f.file_number) = LOWER($1)
		ORDER BY f.created_at DESC
	`, fileNumber)
	if err != nil {
		return store.TrackResult{}, err
	}
	defer rows.Close()

	type fileHit struct {
		FileNumber  string
		Status      string
		Interim     string
		CreatedAt   time.Time
		Office      string
		DeskName    string
		VisitToken  sql.NullString
		VisitStatus sql.NullString
		VisitDesk   string
	}
	var hits []fileHit
	for rows.Next() {
		var hit fileHit
		if err := rows.Scan(&hit.FileNumber, &hit.Status, &hit.Interim, &hit.CreatedAt, &hit.Office,
			&hit.DeskName, &hit.VisitToken, &hit.VisitStatus, &hit.VisitDesk); err != nil {
			return store.TrackResult{}, err
		}
		hits = append(hits, hit)
	}
	if err := rows.Err(); err != nil {
		return store.TrackResult{}, err
	}

	switch len(hits) {
	case 0:
		return store.TrackResult{Found: false}, nil
	case 1:
		hit := hits[0]
		result := store.TrackResult{
			Found:    true,
			Type:     "Office File",
			Ref:      hit.FileNumber,
			Status:   fileStatusLabel(hit.Status, hit.Interim),
			Date:     hit.CreatedAt,
			Location: fileLocation(hit.Status, hit.DeskName),
			Office:   hit.Office,
		}
		if hit.VisitToken.Valid {
			result.LinkedType = "Visit Token"
			result.LinkedRef = hit.VisitToken.String
			result.LinkedStatus = models.StatusDisplay(hit.VisitStatus.String)
			result.LinkedLocation = visitLocation(hit.VisitStatus.String, hit.VisitDesk)
		}
		return result, nil
	}

	matches := make([]store.TrackMatch, 0, len(hits))
	for _, hit := range hits {
		matches = append(matches, store.TrackMatch{
			Ref:    hit.FileNumber,
			Office: hit.Office,
			Status: models.FileStatusDisplay(hit.Status),
			Date:   hit.CreatedAt,
		})
	}
	return store.TrackResult{
		Found:   true,
		Type:    "Multiple Matches",
		Ref:     fileNumber,
		Count:   len(matches),
		Matches: matches,
	}, nil
}

func visitLocation(status, deskName string) string {
	switch status {
	case models.StatusCompleted:
		return "Completed"
	case models.StatusCancelled:
		return "Cancelled"
	}
	if deskName != "" {
		return deskName
	}
	return "Waiting Area"
}

// fileStatusLabel appends the free-form interim note to the display
// status, e.g. "Pending (With Tahsildar)".
func fileStatusLabel(status, interim string) string {
	label := models.FileStatusDisplay(status)
	if interim != "" && interim != label {
		label += " (" + interim + ")"
	}
	return label
}

func fileLocation(status, deskName string) string {
	if status == models.FileStatusClosed {
		return "Record Room"
	}
	if deskName != "" {
		return deskName
	}
	return "Record Room/Pending"
}
