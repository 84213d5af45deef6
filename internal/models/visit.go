package models

import "time"

type Visit struct {
	VisitID         string     `json:"visit_id"`
	OfficeID        string     `json:"office_id"`
	Token           string     `json:"token"`
	Name            string     `json:"name,omitempty"`
	Mobile          string     `json:"mobile,omitempty"`
	PurposeID       string     `json:"purpose_id"`
	PurposeName     string     `json:"purpose_name,omitempty"`
	ReferenceNumber string     `json:"reference_number,omitempty"`
	Mode            string     `json:"registration_mode"`
	Status          string     `json:"status"`
	CurrentDeskID   *string    `json:"current_desk_id,omitempty"`
	CurrentDeskName string     `json:"current_desk_name,omitempty"`
	IssueTime       time.Time  `json:"issue_time"`
	AttendTime      *time.Time `json:"attend_time,omitempty"`
	CreatedBy       *string    `json:"created_by,omitempty"`
	OfficeFileID    *string    `json:"office_file_id,omitempty"`
}

const (
	StatusWaiting    = "WAITING"
	StatusRouted     = "ROUTED"
	StatusInProgress = "IN_PROGRESS"
	StatusCompleted  = "COMPLETED"
	StatusCancelled  = "CANCELLED"
)

const (
	ModeQR     = "QR"
	ModeKiosk  = "KIOSK"
	ModeQuick  = "QUICK"
	ModeMobile = "MOBILE"
)

const (
	ActionCreated     = "CREATED"
	ActionRouted      = "ROUTED"
	ActionAssigned    = "ASSIGNED"
	ActionAttended    = "ATTENDED"
	ActionTransferred = "TRANSFERRED"
	ActionCompleted   = "COMPLETED"
	ActionCancelled   = "CANCELLED"
	ActionComment     = "COMMENT"
)

var statusDisplay = map[string]string{
	StatusWaiting:    "Waiting",
	StatusRouted:     "Routed",
	StatusInProgress: "In Progress",
	StatusCompleted:  "Completed",
	StatusCancelled:  "Cancelled",
}

// StatusDisplay returns the human-readable form used by the public
// tracking surface. Unknown values pass through unchanged.
func StatusDisplay(status string) string {
	if display, ok := statusDisplay[status]; ok {
		return display
	}
	return status
}

func ValidMode(mode string) bool {
	switch mode {
	case ModeQR, ModeKiosk, ModeQuick, ModeMobile:
		return true
	}
	return false
}

// Actor identifies who performed an operation. The zero value is the
// system actor (unauthenticated kiosk flows, auto-routing); there is no
// sentinel user row backing it.
type Actor struct {
	UserID   string
	Username string
	DeskID   string
}

func (a Actor) IsSystem() bool {
	return a.UserID == ""
}

type VisitLog struct {
	LogID      string    `json:"log_id"`
	VisitID    string    `json:"visit_id"`
	Action     string    `json:"action"`
	ByUser     *string   `json:"by_user,omitempty"`
	ByStaff    *string   `json:"by_staff,omitempty"`
	FromDeskID *string   `json:"from_desk_id,omitempty"`
	ToDeskID   *string   `json:"to_desk_id,omitempty"`
	Remarks    string    `json:"remarks,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// QueueEntry is a row of the queue and pending-list views.
type QueueEntry struct {
	VisitID       string    `json:"visit_id"`
	Token         string    `json:"token"`
	Name          string    `json:"name,omitempty"`
	PurposeName   string    `json:"purpose_name,omitempty"`
	Status        string    `json:"status"`
	StatusDisplay string    `json:"status_display,omitempty"`
	DeskID        *string   `json:"desk_id,omitempty"`
	DeskName      string    `json:"desk_name,omitempty"`
	IssueTime     time.Time `json:"issue_time"`
}
