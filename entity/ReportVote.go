package entity

import (
	"gorm.io/gorm"
)

const (
	VoteUp   = "upvote"
	VoteDown = "downvote"
)

// ReportVote: at most one row per (report, voter); the composite
// unique index backs the single-vote invariant.
type ReportVote struct {
	gorm.Model
	ReportID uint   `gorm:"uniqueIndex:idx_report_voter;not null" json:"reportId"`
	UserID   uint   `gorm:"uniqueIndex:idx_report_voter;not null" json:"userId"`
	VoteType string `gorm:"not null" json:"voteType"` // upvote | downvote
}

// Delta is this vote's contribution to the cached aggregate.
func (v *ReportVote) Delta() int {
	if v.VoteType == VoteUp {
		return 1
	}
	return -1
}
