package models

import "time"

// OfficeFile is the case record a visit escalates into. The visit
// service owns only the fields the escalation and tracking paths need;
// the filing application maintains the rest.
type OfficeFile struct {
	FileID        string    `json:"file_id"`
	VisitID       string    `json:"visit_id"`
	OfficeID      string    `json:"office_id"`
	FileNumber    string    `json:"file_number"`
	Year          int       `json:"year"`
	SerialNumber  int       `json:"serial_number"`
	DeskID        *string   `json:"desk_id,omitempty"`
	DeskName      string    `json:"desk_name,omitempty"`
	Status        string    `json:"status"`
	InterimStatus string    `json:"interim_status,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

const (
	FileStatusOpen   = "OPEN"
	FileStatusClosed = "CLOSED"
)

var fileStatusDisplay = map[string]string{
	FileStatusOpen:   "Pending",
	FileStatusClosed: "Closed",
}

func FileStatusDisplay(status string) string {
	if display, ok := fileStatusDisplay[status]; ok {
		return display
	}
	return status
}
