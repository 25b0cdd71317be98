package repository

import (
	"backend/entity"

	"gorm.io/gorm"
)

type WorkerRepository struct {
	DB *gorm.DB
}

func NewWorkerRepository(db *gorm.DB) *WorkerRepository {
	return &WorkerRepository{DB: db}
}

func (r *WorkerRepository) FindByUserID(userID uint) (*entity.Worker, error) {
	var w entity.Worker
	if err := r.DB.Where("user_id = ?", userID).First(&w).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *WorkerRepository) Create(w *entity.Worker) error {
	return r.DB.Create(w).Error
}

// UpdateLocation: worker heartbeat; only the worker's own row.
func (r *WorkerRepository) UpdateLocation(userID uint, lng, lat float64) (int64, error) {
	res := r.DB.Model(&entity.Worker{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{"lng": lng, "lat": lat})
	return res.RowsAffected, res.Error
}

// WorkerCandidate is the flat row the assignment matcher ranks.
type WorkerCandidate struct {
	UserID     uint    `json:"userId"`
	FullName   string  `json:"fullname"`
	Email      string  `json:"email"`
	Department string  `json:"department"`
	Lng        float64 `json:"lng"`
	Lat        float64 `json:"lat"`
	Busy       bool    `json:"busy"`
}

// FindCandidatesInBox prefilters workers by bounding box; the exact
// spherical distance cut and ordering happen in the service.
func (r *WorkerRepository) FindCandidatesInBox(minLng, maxLng, minLat, maxLat float64) ([]WorkerCandidate, error) {
	var out []WorkerCandidate
	err := r.DB.Table("workers AS w").
		Select("w.user_id, u.full_name, u.email, w.department, w.lng, w.lat, w.busy").
		Joins("JOIN users u ON u.id = w.user_id").
		Where("u.role = ?", "worker").
		Where("w.lng BETWEEN ? AND ? AND w.lat BETWEEN ? AND ?", minLng, maxLng, minLat, maxLat).
		Scan(&out).Error
	return out, err
}

func (r *WorkerRepository) SetBusy(tx *gorm.DB, userID uint, busy bool) error {
	return tx.Model(&entity.Worker{}).
		Where("user_id = ?", userID).
		Update("busy", busy).Error
}

func (r *WorkerRepository) IncTasksHandled(tx *gorm.DB, userID uint) error {
	return tx.Model(&entity.Worker{}).
		Where("user_id = ?", userID).
		UpdateColumn("tasks_handled", gorm.Expr("tasks_handled + 1")).Error
}
