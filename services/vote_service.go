package services

import (
	"errors"

	"backend/entity"
	"backend/repository"

	"gorm.io/gorm"
)

var ErrInvalidVote = errors.New("voteType must be 'upvote', 'downvote', or null")

// VoteService keeps three things in lockstep inside one transaction:
// the per-voter record (at most one per report), the cached aggregate
// on the report, and the submitter's community score, whose delta
// always mirrors the aggregate delta (clamped at zero).
type VoteService struct {
	DB       *gorm.DB
	Repo     *repository.ReportRepository
	UserRepo *repository.UserRepository
}

func NewVoteService(db *gorm.DB, repo *repository.ReportRepository, userRepo *repository.UserRepository) *VoteService {
	return &VoteService{DB: db, Repo: repo, UserRepo: userRepo}
}

type VoteOut struct {
	Vote     int     `json:"vote"`
	UserVote *string `json:"userVote"`
}

// SetVote applies an upvote/downvote or, with direction == nil,
// retracts the voter's prior vote. Voting twice the same way is a
// no-op; switching direction is a net ±2. Each call reads the prior
// vote state before writing: last-write-wins would break the sum
// invariant.
func (s *VoteService) SetVote(reportID, voterID uint, direction *string) (*VoteOut, error) {
	if direction != nil && *direction != entity.VoteUp && *direction != entity.VoteDown {
		return nil, ErrInvalidVote
	}

	var out VoteOut
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var report entity.Report
		if err := tx.First(&report, reportID).Error; err != nil {
			return err
		}

		existing, err := s.Repo.GetVote(tx, reportID, voterID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		delta := 0
		switch {
		case direction == nil:
			if existing == nil {
				break // nothing to retract
			}
			delta = -existing.Delta()
			if err := s.Repo.DeleteVote(tx, existing.ID); err != nil {
				return err
			}
		case existing == nil:
			v := entity.ReportVote{ReportID: reportID, UserID: voterID, VoteType: *direction}
			if err := s.Repo.CreateVote(tx, &v); err != nil {
				return err
			}
			delta = v.Delta()
			out.UserVote = direction
		case existing.VoteType == *direction:
			out.UserVote = direction // same vote again: no-op
		default:
			// switch direction: remove old contribution, apply new
			delta = -2 * existing.Delta()
			if err := s.Repo.UpdateVoteType(tx, existing.ID, *direction); err != nil {
				return err
			}
			out.UserVote = direction
		}

		if delta != 0 {
			if err := s.Repo.IncrementVote(tx, reportID, delta); err != nil {
				return err
			}
			// submitter's score mirrors the aggregate delta exactly
			if report.CitizenID != nil {
				if err := s.UserRepo.AdjustCommunityScore(tx, *report.CitizenID, delta); err != nil {
					return err
				}
			}
		}
		out.Vote = report.Vote + delta
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
