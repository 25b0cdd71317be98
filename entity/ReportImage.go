package entity

import (
	"gorm.io/gorm"
)

// ReportImage stores a stable URL returned by the upload collaborator.
type ReportImage struct {
	gorm.Model
	ReportID uint   `gorm:"index;not null" json:"reportId"`
	URL      string `gorm:"not null" json:"url"`
}
