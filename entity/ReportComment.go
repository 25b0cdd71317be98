package entity

import (
	"gorm.io/gorm"
)

// Append-only; independent of report status.
type ReportComment struct {
	gorm.Model
	ReportID uint   `gorm:"index;not null" json:"reportId"`
	UserID   uint   `gorm:"not null" json:"userId"`
	User     User   `json:"user,omitempty"`
	Text     string `gorm:"not null" json:"text"`
}
