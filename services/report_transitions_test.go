package services

import (
	"testing"

	"backend/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateStatusAppendsHistoryAndMatchesStatus(t *testing.T) {
	db := openTestDB(t)
	svc := newTestReportService(t, db)
	citizen := seedUser(t, db, "citizen@town.gov", "citizen")
	officer := seedUser(t, db, "officer@town.gov", "officer")
	rep := seedReport(t, db, &citizen.ID, "Broken streetlight", entity.CategoryStreetlight, 72.83, 19.06)

	updated, err := svc.UpdateStatus(officer.ID, rep.ID, entity.StatusAcknowledged, "")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusAcknowledged, updated.Status)

	history, err := svc.Repo.GetHistory(rep.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	// status always equals the last history entry
	assert.Equal(t, updated.Status, history[len(history)-1].Status)
	assert.Equal(t, officer.ID, *history[len(history)-1].UpdatedByID)
	assert.Equal(t, "Status changed from submitted to acknowledged", history[len(history)-1].Notes)

	// officers may jump forward; order is not hard-enforced
	updated, err = svc.UpdateStatus(officer.ID, rep.ID, entity.StatusInProgress, "crew dispatched")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusInProgress, updated.Status)

	history, err = svc.Repo.GetHistory(rep.ID)
	require.NoError(t, err)
	assert.Len(t, history, 3)
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	db := openTestDB(t)
	svc := newTestReportService(t, db)
	officer := seedUser(t, db, "officer@town.gov", "officer")
	rep := seedReport(t, db, nil, "Garbage pileup", entity.CategoryGarbage, 72.83, 19.06)

	_, err := svc.UpdateStatus(officer.ID, rep.ID, "archived", "")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = svc.UpdateStatus(officer.ID, 9999, entity.StatusAcknowledged, "")
	assert.Error(t, err)
}

func TestResolutionBonusGrantedExactlyOnce(t *testing.T) {
	db := openTestDB(t)
	svc := newTestReportService(t, db)
	citizen := seedUser(t, db, "citizen@town.gov", "citizen")
	officer := seedUser(t, db, "officer@town.gov", "officer")
	rep := seedReport(t, db, &citizen.ID, "Water leak on 5th", entity.CategoryWater, 72.83, 19.06)

	_, err := svc.UpdateStatus(officer.ID, rep.ID, entity.StatusResolved, "")
	require.NoError(t, err)

	author, err := svc.UserRepo.FindByID(citizen.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, author.ReportsResolved)
	assert.Equal(t, 10, author.CommunityScore)

	// resolving again is a no-op repeat, never a second bonus
	_, err = svc.UpdateStatus(officer.ID, rep.ID, entity.StatusResolved, "")
	require.NoError(t, err)

	author, err = svc.UserRepo.FindByID(citizen.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, author.ReportsResolved)
	assert.Equal(t, 10, author.CommunityScore)
}

func TestTerminalStatusCannotBeLeft(t *testing.T) {
	db := openTestDB(t)
	svc := newTestReportService(t, db)
	officer := seedUser(t, db, "officer@town.gov", "officer")
	rep := seedReport(t, db, nil, "Fallen tree", entity.CategoryPublicWorks, 72.83, 19.06)

	_, err := svc.UpdateStatus(officer.ID, rep.ID, entity.StatusRejected, "not municipal land")
	require.NoError(t, err)

	_, err = svc.UpdateStatus(officer.ID, rep.ID, entity.StatusInProgress, "")
	assert.ErrorIs(t, err, ErrTerminalStatus)
}

func TestDuplicateLinkedReportIsInert(t *testing.T) {
	db := openTestDB(t)
	svc := newTestReportService(t, db)
	officer := seedUser(t, db, "officer@town.gov", "officer")
	orig := seedReport(t, db, nil, "Pothole on Main Street", entity.CategoryPothole, 72.83, 19.06)
	dup := seedReport(t, db, nil, "Pothole damage Main Street", entity.CategoryPothole, 72.8301, 19.0601)
	require.NoError(t, db.Model(dup).Update("duplicate_of_id", orig.ID).Error)

	_, err := svc.UpdateStatus(officer.ID, dup.ID, entity.StatusAcknowledged, "")
	assert.ErrorIs(t, err, ErrDuplicateLocked)

	worker := seedWorker(t, db, "worker@town.gov", "roads", 72.83, 19.06)
	_, err = svc.Assign(officer.ID, dup.ID, worker.ID, nil, "")
	assert.ErrorIs(t, err, ErrDuplicateLocked)
}

func TestAssignSetsBothAssigneeFieldsAtomically(t *testing.T) {
	db := openTestDB(t)
	svc := newTestReportService(t, db)
	citizen := seedUser(t, db, "citizen@town.gov", "citizen")
	officer := seedUser(t, db, "officer@town.gov", "officer")
	worker := seedWorker(t, db, "w1@town.gov", "roads", 72.83, 19.06)
	rep := seedReport(t, db, &citizen.ID, "Pothole on Main Street", entity.CategoryPothole, 72.83, 19.06)

	updated, err := svc.Assign(officer.ID, rep.ID, worker.ID, nil, "urgent")
	require.NoError(t, err)

	assert.Equal(t, entity.StatusAssigned, updated.Status)
	require.NotNil(t, updated.AssignedTo.StaffID)
	require.NotNil(t, updated.AssigneeID)
	assert.Equal(t, worker.ID, *updated.AssignedTo.StaffID)
	assert.Equal(t, worker.ID, *updated.AssigneeID)
	assert.NotNil(t, updated.AssignedTo.AssignedAt)

	history, err := svc.Repo.GetHistory(rep.ID)
	require.NoError(t, err)
	require.Len(t, history, 2) // submitted + assigned, exactly one new entry
	assert.Contains(t, history[1].Notes, "Assigned to w1")
	assert.Contains(t, history[1].Notes, "urgent")

	// worker side effects
	w, err := svc.WorkerRepo.FindByUserID(worker.ID)
	require.NoError(t, err)
	assert.True(t, w.Busy)
	assert.Equal(t, 1, w.TasksHandled)
}

func TestReassignKeepsLatestWorkerInBothFields(t *testing.T) {
	db := openTestDB(t)
	svc := newTestReportService(t, db)
	officer := seedUser(t, db, "officer@town.gov", "officer")
	w1 := seedWorker(t, db, "w1@town.gov", "roads", 72.83, 19.06)
	w2 := seedWorker(t, db, "w2@town.gov", "roads", 72.84, 19.07)
	rep := seedReport(t, db, nil, "Pothole on Main Street", entity.CategoryPothole, 72.83, 19.06)

	_, err := svc.Assign(officer.ID, rep.ID, w1.ID, nil, "")
	require.NoError(t, err)
	updated, err := svc.Assign(officer.ID, rep.ID, w2.ID, nil, "")
	require.NoError(t, err)

	assert.Equal(t, w2.ID, *updated.AssignedTo.StaffID)
	assert.Equal(t, w2.ID, *updated.AssigneeID)

	history, err := svc.Repo.GetHistory(rep.ID)
	require.NoError(t, err)
	assert.Len(t, history, 3) // submitted + two assignments
}

func TestResolveClearsAssigneeBusyFlag(t *testing.T) {
	db := openTestDB(t)
	svc := newTestReportService(t, db)
	citizen := seedUser(t, db, "citizen@town.gov", "citizen")
	officer := seedUser(t, db, "officer@town.gov", "officer")
	worker := seedWorker(t, db, "w1@town.gov", "roads", 72.83, 19.06)
	rep := seedReport(t, db, &citizen.ID, "Pothole on Main Street", entity.CategoryPothole, 72.83, 19.06)

	_, err := svc.Assign(officer.ID, rep.ID, worker.ID, nil, "")
	require.NoError(t, err)
	_, err = svc.UpdateStatus(officer.ID, rep.ID, entity.StatusResolved, "filled")
	require.NoError(t, err)

	w, err := svc.WorkerRepo.FindByUserID(worker.ID)
	require.NoError(t, err)
	assert.False(t, w.Busy)
}
