package entity

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email       string `gorm:"uniqueIndex;not null" json:"email"`
	Password    string `json:"-"`
	FullName    string `json:"fullname"`
	PhoneNumber string `json:"phoneNumber"`
	Address     string `json:"address"`
	Role        string `gorm:"not null;default:citizen" json:"role"` // citizen | officer | worker

	// officer only, scopes the department report feed
	Department string `json:"department,omitempty"`

	// citizen reputation, mutated only as a side effect of report
	// transitions and votes, never written directly by a client
	ReportsSubmitted int `gorm:"default:0" json:"reportsSubmitted"`
	ReportsResolved  int `gorm:"default:0" json:"reportsResolved"`
	CommunityScore   int `gorm:"default:0" json:"communityScore"` // clamped at 0

	FCMToken string `json:"-"`

	// Relations (preload only when needed)
	Reports       []Report `gorm:"foreignKey:CitizenID" json:"-"`
	WorkerProfile *Worker  `gorm:"foreignKey:UserID" json:"workerProfile,omitempty"`
}
