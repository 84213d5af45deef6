package store

import (
	"context"
	"time"

	"github.com/kalathilrainu/vista-project/internal/models"
)

type RegisterVisitInput struct {
	OfficeID        string
	Name            string
	Mobile          string
	PurposeID       string
	ReferenceNumber string
	Mode            string
	Actor           models.Actor
	IssuedAt        time.Time
}

type UpdateVisitInput struct {
	VisitID         string
	Name            *string
	Mobile          *string
	PurposeID       *string
	ReferenceNumber *string
	Actor           models.Actor
}

// AssignVisitInput drives both manual routing and the generic
// assignment path; Action selects the audit label (ROUTED, ASSIGNED or
// TRANSFERRED).
type AssignVisitInput struct {
	VisitID string
	DeskID  string
	Actor   models.Actor
	Action  string
	Remarks string
}

type VisitActionInput struct {
	VisitID    string
	Actor      models.Actor
	Remarks    string
	OccurredAt time.Time
}

type TransferVisitInput struct {
	VisitID      string
	TargetDeskID string
	Actor        models.Actor
	Remarks      string
}

type CreateFileInput struct {
	VisitID string
	DeskID  string
	Actor   models.Actor
}

// LockStatus reports the outcome of lock operations. Denial is a
// result, not an error; the holder's username is always included when
// a live lock exists.
type LockStatus struct {
	Granted   bool      `json:"granted"`
	Locked    bool      `json:"locked"`
	Holder    string    `json:"holder,omitempty"`
	IsSelf    bool      `json:"is_self"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

type Session struct {
	SessionID string
	UserID    string
	Username  string
	OfficeID  string
	DeskID    string
	Role      string
	ExpiresAt time.Time
}

// TrackResult is the public status-resolver payload. Type is one of
// "Visit Token", "Office File" or "Multiple Matches".
type TrackResult struct {
	Found          bool         `json:"found"`
	Type           string       `json:"type,omitempty"`
	Ref            string       `json:"ref,omitempty"`
	Status         string       `json:"status,omitempty"`
	Date           time.Time    `json:"date,omitempty"`
	Location       string       `json:"location,omitempty"`
	Office         string       `json:"office,omitempty"`
	LinkedType     string       `json:"linked_type,omitempty"`
	LinkedRef      string       `json:"linked_ref,omitempty"`
	LinkedStatus   string       `json:"linked_status,omitempty"`
	LinkedLocation string       `json:"linked_location,omitempty"`
	Count          int          `json:"count,omitempty"`
	Matches        []TrackMatch `json:"matches,omitempty"`
}

type TrackMatch struct {
	Ref    string    `json:"ref"`
	Office string    `json:"office"`
	Status string    `json:"status"`
	Date   time.Time `json:"date"`
}

type VisitStore interface {
	RegisterVisit(ctx context.Context, input RegisterVisitInput) (models.Visit, error)
	GetVisit(ctx context.Context, visitID string) (models.Visit, error)
	UpdateVisit(ctx context.Context, input UpdateVisitInput) (models.Visit, error)
	ListVisitLogs(ctx context.Context, visitID string) ([]models.VisitLog, error)

	AssignVisit(ctx context.Context, input AssignVisitInput) (models.Visit, error)
	AttendVisit(ctx context.Context, input VisitActionInput) (models.Visit, error)
	TransferVisit(ctx context.Context, input TransferVisitInput) (models.Visit, error)
	CompleteVisit(ctx context.Context, input VisitActionInput) (models.Visit, error)
	CancelVisit(ctx context.Context, input VisitActionInput) (models.Visit, error)

	OfficeQueue(ctx context.Context, officeID string) ([]models.QueueEntry, error)
	DeskQueue(ctx context.Context, deskID string) ([]models.QueueEntry, error)
	ListPendingVisits(ctx context.Context, officeID string) ([]models.QueueEntry, error)

	AcquireLock(ctx context.Context, visitID string, actor models.Actor) (LockStatus, error)
	ReleaseLock(ctx context.Context, visitID string, actor models.Actor) error
	CheckLock(ctx context.Context, visitID string, actor models.Actor) (LockStatus, error)

	Track(ctx context.Context, query string) (TrackResult, error)

	CreateOfficeFile(ctx context.Context, input CreateFileInput) (models.OfficeFile, error)
	GetOfficeFile(ctx context.Context, fileID string) (models.OfficeFile, error)

	ListDesks(ctx context.Context, officeID string) ([]models.Desk, error)
	ListPurposes(ctx context.Context) ([]models.Purpose, error)

	GetSession(ctx context.Context, sessionID string) (Session, error)
}
