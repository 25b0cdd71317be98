package repository

import (
	"backend/entity"

	"gorm.io/gorm"
)

type ReportRepository struct {
	DB *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{DB: db}
}

// ---------------- Reports (CRUD หลัก) ----------------

func (r *ReportRepository) Create(tx *gorm.DB, rep *entity.Report) error {
	return tx.Create(rep).Error
}

func (r *ReportRepository) Get(reportID uint) (*entity.Report, error) {
	var rep entity.Report
	if err := r.DB.First(&rep, reportID).Error; err != nil {
		return nil, err
	}
	return &rep, nil
}

// GetDetailed preloads actor references for the detail endpoint.
func (r *ReportRepository) GetDetailed(reportID uint) (*entity.Report, error) {
	var rep entity.Report
	err := r.DB.
		Preload("Citizen").
		Preload("Assignee").
		Preload("Images").
		Preload("Votes").
		Preload("History", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("History.UpdatedBy").
		Preload("Comments", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Comments.User").
		First(&rep, reportID).Error
	if err != nil {
		return nil, err
	}
	return &rep, nil
}

type ReportFilter struct {
	Status     string
	Category   string
	Priority   string
	CitizenID  *uint
	AssigneeID *uint
	Department string
}

func (r *ReportRepository) List(f ReportFilter, page, limit int) ([]entity.Report, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 200 {
		limit = 20
	}
	offset := (page - 1) * limit

	q := r.DB.Model(&entity.Report{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Priority != "" {
		q = q.Where("priority = ?", f.Priority)
	}
	if f.CitizenID != nil {
		q = q.Where("citizen_id = ?", *f.CitizenID)
	}
	if f.AssigneeID != nil {
		q = q.Where("assignee_id = ?", *f.AssigneeID)
	}
	if f.Department != "" {
		q = q.Where("department = ?", f.Department)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []entity.Report
	err := q.Preload("Citizen").Preload("Assignee").
		Order("created_at DESC").Limit(limit).Offset(offset).
		Find(&out).Error
	return out, total, err
}

func (r *ReportRepository) SearchByTitle(title string, page, limit int) ([]entity.Report, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 200 {
		limit = 10
	}
	pattern := "%" + title + "%"

	var total int64
	if err := r.DB.Model(&entity.Report{}).
		Where("title LIKE ?", pattern).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []entity.Report
	err := r.DB.Preload("Citizen").Preload("Assignee").
		Where("title LIKE ?", pattern).
		Order("created_at DESC").Limit(limit).Offset((page - 1) * limit).
		Find(&out).Error
	return out, total, err
}

// FindInBox returns reports inside a lng/lat bounding box. Exact radius
// filtering (haversine) happens in the service layer.
func (r *ReportRepository) FindInBox(minLng, maxLng, minLat, maxLat float64, limit int) ([]entity.Report, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var out []entity.Report
	err := r.DB.
		Where("lng BETWEEN ? AND ? AND lat BETWEEN ? AND ?", minLng, maxLng, minLat, maxLat).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// FindDuplicateCandidates: open reports of the same category inside the
// box, oldest first, not already duplicate links themselves.
func (r *ReportRepository) FindDuplicateCandidates(category string, minLng, maxLng, minLat, maxLat float64) ([]entity.Report, error) {
	var out []entity.Report
	err := r.DB.
		Where("category = ?", category).
		Where("status NOT IN ?", []string{entity.StatusResolved, entity.StatusRejected}).
		Where("duplicate_of_id IS NULL").
		Where("lng BETWEEN ? AND ? AND lat BETWEEN ? AND ?", minLng, maxLng, minLat, maxLat).
		Order("id ASC").
		Find(&out).Error
	return out, err
}

func (r *ReportRepository) ListAssignedTo(staffID uint) ([]entity.Report, error) {
	var out []entity.Report
	err := r.DB.Preload("Citizen").
		Where("assignee_id = ? AND status IN ?", staffID,
			[]string{entity.StatusAssigned, entity.StatusInProgress}).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

// ---------------- Status / assignment ----------------

// UpdateStatusGuard flips status only when the prior status matches;
// RowsAffected == 0 means a concurrent transition won.
func (r *ReportRepository) UpdateStatusGuard(tx *gorm.DB, reportID uint, from, to string) (int64, error) {
	res := tx.Model(&entity.Report{}).
		Where("id = ? AND status = ?", reportID, from).
		Update("status", to)
	return res.RowsAffected, res.Error
}

func (r *ReportRepository) UpdateStatus(tx *gorm.DB, reportID uint, to string) error {
	return tx.Model(&entity.Report{}).
		Where("id = ?", reportID).
		Update("status", to).Error
}

// SetAssignment writes the nested assignment fields, the denormalized
// assignee pointer and the status in one UPDATE.
func (r *ReportRepository) SetAssignment(tx *gorm.DB, reportID uint, a entity.Assignment) error {
	return tx.Model(&entity.Report{}).
		Where("id = ?", reportID).
		Updates(map[string]any{
			"assigned_staff_id":    a.StaffID,
			"assigned_assigned_at": a.AssignedAt,
			"assigned_due_date":    a.DueDate,
			"assigned_notes":       a.Notes,
			"assignee_id":          a.StaffID,
			"status":               entity.StatusAssigned,
		}).Error
}

// ---------------- History (append-only) ----------------

func (r *ReportRepository) AppendHistory(tx *gorm.DB, h *entity.ReportHistory) error {
	return tx.Create(h).Error
}

func (r *ReportRepository) GetHistory(reportID uint) ([]entity.ReportHistory, error) {
	var out []entity.ReportHistory
	err := r.DB.Preload("UpdatedBy").
		Where("report_id = ?", reportID).
		Order("id ASC").
		Find(&out).Error
	return out, err
}

// ---------------- Votes ----------------

func (r *ReportRepository) GetVote(tx *gorm.DB, reportID, userID uint) (*entity.ReportVote, error) {
	var v entity.ReportVote
	err := tx.Where("report_id = ? AND user_id = ?", reportID, userID).First(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *ReportRepository) CreateVote(tx *gorm.DB, v *entity.ReportVote) error {
	return tx.Create(v).Error
}

func (r *ReportRepository) UpdateVoteType(tx *gorm.DB, voteID uint, voteType string) error {
	return tx.Model(&entity.ReportVote{}).
		Where("id = ?", voteID).
		Update("vote_type", voteType).Error
}

func (r *ReportRepository) DeleteVote(tx *gorm.DB, voteID uint) error {
	return tx.Unscoped().Delete(&entity.ReportVote{}, voteID).Error
}

// IncrementVote adjusts the cached aggregate atomically.
func (r *ReportRepository) IncrementVote(tx *gorm.DB, reportID uint, delta int) error {
	return tx.Model(&entity.Report{}).
		Where("id = ?", reportID).
		UpdateColumn("vote", gorm.Expr("vote + ?", delta)).Error
}

// SumVotes recomputes the aggregate from individual records
// (reconciliation check; the cached value must always equal this).
func (r *ReportRepository) SumVotes(reportID uint) (int, error) {
	var rows []entity.ReportVote
	if err := r.DB.Where("report_id = ?", reportID).Find(&rows).Error; err != nil {
		return 0, err
	}
	sum := 0
	for i := range rows {
		sum += rows[i].Delta()
	}
	return sum, nil
}

// ---------------- Comments / images ----------------

func (r *ReportRepository) AddComment(tx *gorm.DB, cm *entity.ReportComment) error {
	return tx.Create(cm).Error
}

func (r *ReportRepository) GetComments(reportID uint) ([]entity.ReportComment, error) {
	var out []entity.ReportComment
	err := r.DB.Preload("User").
		Where("report_id = ?", reportID).
		Order("id ASC").
		Find(&out).Error
	return out, err
}

func (r *ReportRepository) AddImages(tx *gorm.DB, reportID uint, urls []string) error {
	for _, u := range urls {
		if err := tx.Create(&entity.ReportImage{ReportID: reportID, URL: u}).Error; err != nil {
			return err
		}
	}
	return nil
}
