package entity

import (
	"gorm.io/gorm"
)

// Worker is the field-staff profile hanging off a User with role "worker".
// Location and the busy flag are the only fields the worker mutates
// (heartbeat); assignment/resolution own busy + TasksHandled.
type Worker struct {
	gorm.Model
	UserID uint `gorm:"uniqueIndex" json:"userId"`
	User   User `json:"-"`

	Department string `json:"department"`

	// self-reported location, [lng, lat]
	Lng float64 `json:"lng"`
	Lat float64 `json:"lat"`

	Busy         bool `gorm:"default:false" json:"busy"`
	TasksHandled int  `gorm:"default:0" json:"tasksHandled"`
}
