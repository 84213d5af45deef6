package models

type Office struct {
	OfficeID string `json:"office_id"`
	Name     string `json:"name"`
	Code     string `json:"code"`
}

type Desk struct {
	DeskID   string `json:"desk_id"`
	OfficeID string `json:"office_id"`
	Name     string `json:"name"`
}

type Purpose struct {
	PurposeID string `json:"purpose_id"`
	Name      string `json:"name"`
}

type StaffMember struct {
	PEN         string `json:"pen"`
	Name        string `json:"name"`
	Designation string `json:"designation,omitempty"`
	OfficeID    string `json:"office_id"`
}
