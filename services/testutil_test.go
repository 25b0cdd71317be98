package services

import (
	"fmt"
	"strings"
	"testing"

	"backend/entity"
	"backend/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// one shared in-memory database per test, survives connection pooling
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&entity.User{}, &entity.Worker{},
		&entity.Report{}, &entity.ReportImage{},
		&entity.ReportHistory{}, &entity.ReportVote{}, &entity.ReportComment{},
	))
	return db
}

func newTestReportService(t *testing.T, db *gorm.DB) *ReportService {
	t.Helper()
	reportRepo := repository.NewReportRepository(db)
	userRepo := repository.NewUserRepository(db)
	workerRepo := repository.NewWorkerRepository(db)
	return &ReportService{
		DB:         db,
		Repo:       reportRepo,
		UserRepo:   userRepo,
		WorkerRepo: workerRepo,
		Classifier: NewClassifierClient("", 0), // unavailable by default
		Duplicates: NewDuplicateDetector(reportRepo, 500),
		Notifier:   NewNotificationService(userRepo),
	}
}

func seedUser(t *testing.T, db *gorm.DB, email, role string) *entity.User {
	t.Helper()
	u := &entity.User{Email: email, FullName: strings.Split(email, "@")[0], Role: role}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedWorker(t *testing.T, db *gorm.DB, email, department string, lng, lat float64) *entity.User {
	t.Helper()
	u := seedUser(t, db, email, "worker")
	require.NoError(t, db.Create(&entity.Worker{
		UserID: u.ID, Department: department, Lng: lng, Lat: lat,
	}).Error)
	return u
}

func seedReport(t *testing.T, db *gorm.DB, citizenID *uint, title, category string, lng, lat float64) *entity.Report {
	t.Helper()
	rep := &entity.Report{
		CitizenID: citizenID,
		Title:     title,
		Category:  category,
		Priority:  entity.PriorityLow,
		Status:    entity.StatusSubmitted,
		Lng:       lng,
		Lat:       lat,
	}
	require.NoError(t, db.Create(rep).Error)
	require.NoError(t, db.Create(&entity.ReportHistory{
		ReportID: rep.ID, Status: entity.StatusSubmitted,
		UpdatedByID: citizenID, Notes: "Report submitted",
	}).Error)
	return rep
}
