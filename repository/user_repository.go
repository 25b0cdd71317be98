package repository

import (
	"backend/entity"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(u *entity.User) error {
	return r.DB.Create(u).Error
}

func (r *UserRepository) FindByID(id uint) (*entity.User, error) {
	var u entity.User
	if err := r.DB.First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) FindByEmail(email string) (*entity.User, error) {
	var u entity.User
	if err := r.DB.Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) CountByEmail(email string) (int64, error) {
	var cnt int64
	err := r.DB.Model(&entity.User{}).Where("email = ?", email).Count(&cnt).Error
	return cnt, err
}

type UserFilter struct {
	Role       string
	Department string
	Busy       *bool
}

func (r *UserRepository) List(f UserFilter) ([]entity.User, error) {
	q := r.DB.Model(&entity.User{}).Preload("WorkerProfile")
	if f.Role != "" {
		q = q.Where("role = ?", f.Role)
	}
	if f.Department != "" || f.Busy != nil {
		q = q.Joins("JOIN workers w ON w.user_id = users.id")
		if f.Department != "" {
			q = q.Where("w.department = ?", f.Department)
		}
		if f.Busy != nil {
			q = q.Where("w.busy = ?", *f.Busy)
		}
	}
	var out []entity.User
	err := q.Find(&out).Error
	return out, err
}

// ---------------- Reputation ledger ----------------
// All mutations are atomic increments; the zero clamp happens in SQL so
// no read-modify-write window exists under concurrent voting.

func (r *UserRepository) IncReportsSubmitted(tx *gorm.DB, userID uint) error {
	return tx.Model(&entity.User{}).
		Where("id = ?", userID).
		UpdateColumn("reports_submitted", gorm.Expr("reports_submitted + 1")).Error
}

// ApplyResolutionBonus: reportsResolved+1 and a fixed communityScore
// bonus, granted exactly once per report by the transition guard.
func (r *UserRepository) ApplyResolutionBonus(tx *gorm.DB, userID uint, bonus int) error {
	return tx.Model(&entity.User{}).
		Where("id = ?", userID).
		UpdateColumns(map[string]any{
			"reports_resolved": gorm.Expr("reports_resolved + 1"),
			"community_score":  gorm.Expr("community_score + ?", bonus),
		}).Error
}

// AdjustCommunityScore applies a signed delta, clamped at zero.
func (r *UserRepository) AdjustCommunityScore(tx *gorm.DB, userID uint, delta int) error {
	if delta == 0 {
		return nil
	}
	return tx.Model(&entity.User{}).
		Where("id = ?", userID).
		UpdateColumn("community_score", gorm.Expr("MAX(community_score + ?, 0)", delta)).Error
}

func (r *UserRepository) SaveFCMToken(userID uint, token string) error {
	return r.DB.Model(&entity.User{}).
		Where("id = ?", userID).
		Update("fcm_token", token).Error
}
