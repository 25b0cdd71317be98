// services/report_transitions.go
package services

import (
	"fmt"
	"time"

	"backend/entity"

	"gorm.io/gorm"
)

// The state machine owns every status change: one history entry per
// transition, side effects inside the same transaction. No other code
// path writes Report.Status.

// UpdateStatus moves a report to target and appends the history entry.
// Resolving a not-yet-resolved report grants the submitter's bonus
// exactly once, guarded by the prior status.
func (s *ReportService) UpdateStatus(actorID, reportID uint, target, notes string) (*entity.Report, error) {
	if !entity.ValidStatus(target) {
		return nil, ErrInvalidStatus
	}

	report, err := s.Repo.Get(reportID)
	if err != nil {
		return nil, err
	}
	if report.IsDuplicate() {
		return nil, ErrDuplicateLocked
	}
	old := report.Status
	if entity.TerminalStatus(old) && target != old {
		return nil, ErrTerminalStatus
	}

	if notes == "" {
		notes = fmt.Sprintf("Status changed from %s to %s", old, target)
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		affected, err := s.Repo.UpdateStatusGuard(tx, report.ID, old, target)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrConflict
		}

		h := entity.ReportHistory{
			ReportID:    report.ID,
			Status:      target,
			UpdatedByID: &actorID,
			Notes:       notes,
		}
		if err := s.Repo.AppendHistory(tx, &h); err != nil {
			return err
		}

		if target == entity.StatusResolved && old != entity.StatusResolved {
			if report.CitizenID != nil {
				if err := s.UserRepo.ApplyResolutionBonus(tx, *report.CitizenID, resolutionBonus); err != nil {
					return err
				}
			}
			if report.AssigneeID != nil {
				if err := s.WorkerRepo.SetBusy(tx, *report.AssigneeID, false); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.Repo.GetDetailed(report.ID)
	if err != nil {
		return nil, err
	}
	s.publish("status_changed", updated)
	return updated, nil
}

// Assign performs the assignment transition: nested assignment fields,
// the denormalized assignee pointer and the status flip happen in one
// atomic update, plus exactly one history entry.
func (s *ReportService) Assign(actorID, reportID, staffID uint, dueDate *time.Time, notes string) (*entity.Report, error) {
	report, err := s.Repo.Get(reportID)
	if err != nil {
		return nil, err
	}
	if report.IsDuplicate() {
		return nil, ErrDuplicateLocked
	}
	if entity.TerminalStatus(report.Status) {
		return nil, ErrTerminalStatus
	}

	staff, err := s.UserRepo.FindByID(staffID)
	if err != nil {
		return nil, err
	}

	assignNotes := notes
	if assignNotes == "" {
		assignNotes = "Report assigned to staff member"
	}
	historyNotes := fmt.Sprintf("Assigned to %s", staff.FullName)
	if notes != "" {
		historyNotes += " - " + notes
	}

	now := time.Now()
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		a := entity.Assignment{
			StaffID:    &staffID,
			AssignedAt: &now,
			DueDate:    dueDate,
			Notes:      assignNotes,
		}
		if err := s.Repo.SetAssignment(tx, report.ID, a); err != nil {
			return err
		}

		h := entity.ReportHistory{
			ReportID:    report.ID,
			Status:      entity.StatusAssigned,
			UpdatedByID: &actorID,
			Notes:       historyNotes,
		}
		if err := s.Repo.AppendHistory(tx, &h); err != nil {
			return err
		}

		if err := s.WorkerRepo.SetBusy(tx, staffID, true); err != nil {
			return err
		}
		return s.WorkerRepo.IncTasksHandled(tx, staffID)
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.Repo.GetDetailed(report.ID)
	if err != nil {
		return nil, err
	}
	if report.CitizenID != nil {
		s.Notifier.NotifyAsync(*report.CitizenID, "Report Assigned",
			fmt.Sprintf("Your report %q was assigned to %s.", report.Title, staff.FullName))
	}
	s.publish("report_assigned", updated)
	return updated, nil
}
