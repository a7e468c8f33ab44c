package models

import "time"

// ReportStatus is the lifecycle state of a lost-item report
type ReportStatus string

const (
	StatusOpen  ReportStatus = "OPEN"
	StatusFound ReportStatus = "FOUND"
)

// NotificationType classifies notifications
type NotificationType string

const NotificationReturn NotificationType = "RETURN"

// UserSnapshot is a point-in-time copy of the submitter's identity.
// It is embedded by value and never refreshed.
type UserSnapshot struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	UID         string `json:"uid"`
}

// Report represents a lost-item report
type Report struct {
	ID           string       `json:"id,omitempty"`
	UserID       string       `json:"user_id"`
	User         UserSnapshot `json:"user"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	LocationName string       `json:"location_name"`
	Latitude     *float64     `json:"latitude"`
	Longitude    *float64     `json:"longitude"`
	ImagePath    *string      `json:"image_path"`
	Status       ReportStatus `json:"status"`
	CreatedAt    time.Time    `json:"created_at"`
}

// ReportInput is the author-supplied part of a report
type ReportInput struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	LocationName string   `json:"location_name"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	ImagePath    *string  `json:"image_path"`
}

// Return represents a claimed finding of a reported item
type Return struct {
	ID           string       `json:"id,omitempty"`
	ReportID     string       `json:"report_id"`
	UserID       string       `json:"user_id"`
	User         UserSnapshot `json:"user"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	LocationName string       `json:"location_name"`
	Latitude     *float64     `json:"latitude"`
	Longitude    *float64     `json:"longitude"`
	ImagePath    *string      `json:"image_path"`
	Status       ReportStatus `json:"status"`
	CreatedAt    time.Time    `json:"created_at"`
}

// ReturnInput is the author-supplied part of a return
type ReturnInput struct {
	ReportID     string   `json:"report_id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	LocationName string   `json:"location_name"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	ImagePath    *string  `json:"image_path"`
}

// Notification links a return to the report it claims to resolve.
// Seq is the store insertion sequence and is not part of the document.
type Notification struct {
	ID        string           `json:"id,omitempty"`
	ReportID  string           `json:"report_id"`
	ReturnID  string           `json:"return_id"`
	Report    Report           `json:"report"`
	Return    Return           `json:"return"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
	Seq       int64            `json:"-"`
}

// Profile holds user fields the identity provider does not carry
type Profile struct {
	PhoneNumber string `json:"phone_number"`
}

// Owner returns the uid of the report owner
func (r Report) Owner() string { return r.UserID }

// Owner returns the uid of the finder
func (r Return) Owner() string { return r.UserID }
