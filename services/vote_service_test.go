package services

import (
	"testing"

	"backend/entity"
	"backend/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestVoteService(t *testing.T) (*VoteService, *entity.User, *entity.Report) {
	t.Helper()
	db := openTestDB(t)
	svc := NewVoteService(db, repository.NewReportRepository(db), repository.NewUserRepository(db))
	author := seedUser(t, db, "author@town.gov", "citizen")
	rep := seedReport(t, db, &author.ID, "Large pothole on Main Street", entity.CategoryPothole, 72.836036, 19.064318)
	return svc, author, rep
}

func strptr(s string) *string { return &s }

// voteState reloads the cached aggregate, the per-record sum and the
// author's score so each test can check all three stay in lockstep.
func voteState(t *testing.T, svc *VoteService, reportID, authorID uint) (cached, sum, score int) {
	t.Helper()
	rep, err := svc.Repo.Get(reportID)
	require.NoError(t, err)
	sum, err = svc.Repo.SumVotes(reportID)
	require.NoError(t, err)
	author, err := svc.UserRepo.FindByID(authorID)
	require.NoError(t, err)
	return rep.Vote, sum, author.CommunityScore
}

func TestVoteFirstTime(t *testing.T) {
	svc, author, rep := newTestVoteService(t)
	voter := seedUser(t, svc.DB, "voter@town.gov", "citizen")

	out, err := svc.SetVote(rep.ID, voter.ID, strptr(entity.VoteUp))
	require.NoError(t, err)
	assert.Equal(t, 1, out.Vote)
	require.NotNil(t, out.UserVote)
	assert.Equal(t, entity.VoteUp, *out.UserVote)

	cached, sum, score := voteState(t, svc, rep.ID, author.ID)
	assert.Equal(t, 1, cached)
	assert.Equal(t, 1, sum)
	assert.Equal(t, 1, score)
}

func TestVoteSameDirectionIsNoOp(t *testing.T) {
	svc, author, rep := newTestVoteService(t)
	voter := seedUser(t, svc.DB, "voter@town.gov", "citizen")

	_, err := svc.SetVote(rep.ID, voter.ID, strptr(entity.VoteUp))
	require.NoError(t, err)
	out, err := svc.SetVote(rep.ID, voter.ID, strptr(entity.VoteUp))
	require.NoError(t, err)
	assert.Equal(t, 1, out.Vote)

	cached, sum, score := voteState(t, svc, rep.ID, author.ID)
	assert.Equal(t, 1, cached)
	assert.Equal(t, 1, sum)
	assert.Equal(t, 1, score)
}

func TestVoteSwitchDirectionIsNetTwo(t *testing.T) {
	svc, author, rep := newTestVoteService(t)
	voter := seedUser(t, svc.DB, "voter@town.gov", "citizen")

	_, err := svc.SetVote(rep.ID, voter.ID, strptr(entity.VoteUp))
	require.NoError(t, err)
	out, err := svc.SetVote(rep.ID, voter.ID, strptr(entity.VoteDown))
	require.NoError(t, err)
	assert.Equal(t, -1, out.Vote)
	assert.Equal(t, entity.VoteDown, *out.UserVote)

	cached, sum, score := voteState(t, svc, rep.ID, author.ID)
	assert.Equal(t, -1, cached)
	assert.Equal(t, -1, sum)
	// +1 then -2, clamped at zero
	assert.Equal(t, 0, score)
}

func TestVoteRetract(t *testing.T) {
	svc, author, rep := newTestVoteService(t)
	voter := seedUser(t, svc.DB, "voter@town.gov", "citizen")

	_, err := svc.SetVote(rep.ID, voter.ID, strptr(entity.VoteUp))
	require.NoError(t, err)
	out, err := svc.SetVote(rep.ID, voter.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, out.Vote)
	assert.Nil(t, out.UserVote)

	cached, sum, score := voteState(t, svc, rep.ID, author.ID)
	assert.Equal(t, 0, cached)
	assert.Equal(t, 0, sum)
	assert.Equal(t, 0, score)

	// retracting with no prior vote changes nothing
	out, err = svc.SetVote(rep.ID, voter.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, out.Vote)
}

func TestVoteSumMatchesIndividualVotes(t *testing.T) {
	svc, author, rep := newTestVoteService(t)
	v1 := seedUser(t, svc.DB, "v1@town.gov", "citizen")
	v2 := seedUser(t, svc.DB, "v2@town.gov", "citizen")
	v3 := seedUser(t, svc.DB, "v3@town.gov", "citizen")

	_, err := svc.SetVote(rep.ID, v1.ID, strptr(entity.VoteUp))
	require.NoError(t, err)
	_, err = svc.SetVote(rep.ID, v2.ID, strptr(entity.VoteUp))
	require.NoError(t, err)
	_, err = svc.SetVote(rep.ID, v3.ID, strptr(entity.VoteDown))
	require.NoError(t, err)
	_, err = svc.SetVote(rep.ID, v2.ID, strptr(entity.VoteDown)) // switch
	require.NoError(t, err)
	_, err = svc.SetVote(rep.ID, v3.ID, nil) // retract
	require.NoError(t, err)

	cached, sum, _ := voteState(t, svc, rep.ID, author.ID)
	assert.Equal(t, sum, cached, "cached aggregate must equal the sum of individual votes")
	assert.Equal(t, 0, sum) // +1 -1
}

func TestVoteScoreNeverGoesNegative(t *testing.T) {
	svc, author, rep := newTestVoteService(t)
	v1 := seedUser(t, svc.DB, "v1@town.gov", "citizen")
	v2 := seedUser(t, svc.DB, "v2@town.gov", "citizen")

	_, err := svc.SetVote(rep.ID, v1.ID, strptr(entity.VoteDown))
	require.NoError(t, err)
	_, err = svc.SetVote(rep.ID, v2.ID, strptr(entity.VoteDown))
	require.NoError(t, err)

	cached, _, score := voteState(t, svc, rep.ID, author.ID)
	assert.Equal(t, -2, cached, "the report aggregate may go negative")
	assert.Equal(t, 0, score, "the author's score may not")
}

func TestVoteRejectsUnknownDirection(t *testing.T) {
	svc, _, rep := newTestVoteService(t)
	voter := seedUser(t, svc.DB, "voter@town.gov", "citizen")

	_, err := svc.SetVote(rep.ID, voter.ID, strptr("sideways"))
	assert.ErrorIs(t, err, ErrInvalidVote)

	_, err = svc.SetVote(9999, voter.ID, strptr(entity.VoteUp))
	assert.Error(t, err)
}
