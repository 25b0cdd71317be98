package entity

import (
	"time"

	"gorm.io/gorm"
)

// Assignment mirrors the officer's assign action. StaffID is duplicated
// into Report.AssigneeID for query convenience; both are always written
// together inside the assignment transition.
type Assignment struct {
	StaffID    *uint      `json:"staffId,omitempty"`
	AssignedAt *time.Time `json:"assignedAt,omitempty"`
	DueDate    *time.Time `json:"dueDate,omitempty"`
	Notes      string     `json:"notes,omitempty"`
}

type Report struct {
	gorm.Model

	// nullable: anonymous / SOS submissions
	CitizenID *uint `json:"citizenId"`
	Citizen   *User `gorm:"foreignKey:CitizenID" json:"citizen,omitempty"`

	Title          string  `gorm:"not null" json:"title"`
	Description    string  `json:"description"`
	Category       string  `gorm:"not null;index" json:"category"`
	CustomCategory *string `json:"customCategory"`
	Priority       string  `gorm:"default:low" json:"priority"`
	Department     *string `gorm:"index" json:"department"`

	// GeoJSON-style point, [lng, lat]; set exactly once at creation
	Lng float64 `gorm:"index" json:"lng"`
	Lat float64 `gorm:"index" json:"lat"`

	Status string `gorm:"default:submitted;index" json:"status"`

	AssignedTo Assignment `gorm:"embedded;embeddedPrefix:assigned_" json:"assignedTo"`
	AssigneeID *uint      `gorm:"index" json:"assignee"` // mirror of AssignedTo.StaffID
	Assignee   *User      `gorm:"foreignKey:AssigneeID" json:"assigneeUser,omitempty"`

	// cached sum of Votes (+1 upvote, -1 downvote)
	Vote int `gorm:"default:0" json:"vote"`

	DuplicateOfID *uint `json:"duplicateOf"`

	Images   []ReportImage   `gorm:"foreignKey:ReportID" json:"images,omitempty"`
	Votes    []ReportVote    `gorm:"foreignKey:ReportID" json:"votes,omitempty"`
	History  []ReportHistory `gorm:"foreignKey:ReportID" json:"history,omitempty"`
	Comments []ReportComment `gorm:"foreignKey:ReportID" json:"comments,omitempty"`
}

// IsDuplicate reports whether this report is an inert duplicate link.
func (r *Report) IsDuplicate() bool {
	return r.DuplicateOfID != nil
}
