package entity

import (
	"gorm.io/gorm"
)

// ReportHistory is append-only: entries are created by the transition
// path (or report intake) and never edited or deleted. Insertion order
// (ID) is the ordering guarantee.
type ReportHistory struct {
	gorm.Model
	ReportID uint `gorm:"index;not null" json:"reportId"`

	Status      string `json:"status"`
	UpdatedByID *uint  `json:"updatedBy"`
	UpdatedBy   *User  `gorm:"foreignKey:UpdatedByID" json:"updatedByUser,omitempty"`
	Notes       string `json:"notes"`
}
