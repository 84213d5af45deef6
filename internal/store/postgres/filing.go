package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/kalathilrainu/vista-project/internal/models"
	"github.com/kalathilrainu/vista-project/internal/store"
)

// CreateOfficeFile escalates a visit into a numbered office file. The
// serial comes from a per-office-per-year counter so concurrent
// escalations never collide. Escalating an already escalated visit
// returns the existing file.
func (s *Store) CreateOfficeFile(ctx context.Context, input store.CreateFileInput) (models.OfficeFile, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return models.OfficeFile{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	visit, err := lockVisit(ctx, tx, input.VisitID)
	if err != nil {
		return models.OfficeFile{}, err
	}

	var existingID string
	row := tx.QueryRow(ctx, `SELECT file_id FROM office_files WHERE visit_id = $1`, input.VisitID)
	err = row.Scan(&existingID)
	if err == nil {
		if err = tx.Commit(ctx); err != nil {
			return models.OfficeFile{}, err
		}
		return s.GetOfficeFile(ctx, existingID)
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return models.OfficeFile{}, err
	}

	deskID := input.DeskID
	if deskID == "" && visit.CurrentDeskID != nil {
		deskID = *visit.CurrentDeskID
	}

	now := time.Now()
	year := now.Year()
	var serial int
	row = tx.QueryRow(ctx, `
		INSERT INTO file_sequences (office_id, year, last_serial)
		VALUES ($1, $2, 1)
		ON CONFLICT (office_id, year)
		DO UPDATE SET last_serial = file_sequences.last_serial + 1
		RETURNING last_serial
	`, visit.OfficeID, year)
	if err = row.Scan(&serial); err != nil {
		return models.OfficeFile{}, err
	}

	fileID := uuid.NewString()
	fileNumber := store.FormatFileNumber(serial, year)
	_, err = tx.Exec(ctx, `
		INSERT INTO office_files (
			file_id, visit_id, office_id, file_number, year, serial_number,
			desk_id, status, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, fileID, input.VisitID, visit.OfficeID, fileNumber, year, serial,
		nullIfEmpty(deskID), models.FileStatusOpen, now)
	if err != nil {
		return models.OfficeFile{}, err
	}

	if err = s.insertVisitLog(ctx, tx, input.VisitID, models.ActionComment, input.Actor, nil, nil, "Escalated to office file "+fileNumber); err != nil {
		return models.OfficeFile{}, err
	}

	if err = tx.Commit(ctx); err != nil {
		return models.OfficeFile{}, err
	}
	return s.GetOfficeFile(ctx, fileID)
}

func (s *Store) GetOfficeFile(ctx context.Context, fileID string) (models.OfficeFile, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT f.file_id, f.visit_id, f.office_id, f.file_number, f.year,
		       f.serial_number, f.desk_id, COALESCE(d.name, ''), f.status,
		       f.interim_status, f.created_at
		FROM office_files f
		LEFT JOIN desks d ON d.desk_id = f.desk_id
		WHERE f.file_id = $1
	`, fileID)

	var file models.OfficeFile
	var deskIDNull, interimNull sql.NullString
	err := row.Scan(&file.FileID, &file.VisitID, &file.OfficeID, &file.FileNumber,
		&file.Year, &file.SerialNumber, &deskIDNull, &file.DeskName, &file.Status,
		&interimNull, &file.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.OfficeFile{}, store.ErrFileNotFound
	}
	if err != nil {
		return models.OfficeFile{}, err
	}
	file.DeskID = nullStringPtr(deskIDNull)
	if interimNull.Valid {
		file.InterimStatus = interimNull.String
	}
	return file, nil
}
