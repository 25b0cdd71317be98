// services/worker_service.go
package services

import (
	"errors"
	"sort"

	"backend/entity"
	"backend/pkg/geo"
	"backend/repository"

	"gorm.io/gorm"
)

type WorkerService struct {
	DB         *gorm.DB
	WorkerRepo *repository.WorkerRepository
	ReportRepo *repository.ReportRepository
}

func NewWorkerService(db *gorm.DB, workerRepo *repository.WorkerRepository, reportRepo *repository.ReportRepository) *WorkerService {
	return &WorkerService{DB: db, WorkerRepo: workerRepo, ReportRepo: reportRepo}
}

// Heartbeat stores the worker's self-reported location, creating the
// profile row on first contact.
func (s *WorkerService) Heartbeat(userID uint, lng, lat float64) error {
	if !geo.ValidPoint(lng, lat) {
		return errors.New("invalid coordinates provided")
	}
	affected, err := s.WorkerRepo.UpdateLocation(userID, lng, lat)
	if err != nil {
		return err
	}
	if affected == 0 {
		return s.WorkerRepo.Create(&entity.Worker{UserID: userID, Lng: lng, Lat: lat})
	}
	return nil
}

type NearbyWorker struct {
	repository.WorkerCandidate
	DistanceKm float64 `json:"distanceKm"`
}

type NearbyWorkersOut struct {
	Report  ReportPoint    `json:"report"`
	Workers []NearbyWorker `json:"workers"`
}

type ReportPoint struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Coordinates []float64 `json:"coordinates"`
}

// FindNearbyWorkers ranks workers around the report's location by
// ascending spherical distance (km). Read-only; the assignment itself
// goes through the state machine's Assign transition.
func (s *WorkerService) FindNearbyWorkers(reportID uint, radiusKm float64, limit int) (*NearbyWorkersOut, error) {
	report, err := s.ReportRepo.Get(reportID)
	if err != nil {
		return nil, err
	}

	minLng, maxLng, minLat, maxLat := geo.BoundingBox(report.Lng, report.Lat, radiusKm)
	candidates, err := s.WorkerRepo.FindCandidatesInBox(minLng, maxLng, minLat, maxLat)
	if err != nil {
		return nil, err
	}

	workers := make([]NearbyWorker, 0, len(candidates))
	for _, c := range candidates {
		d := geo.HaversineKm(report.Lng, report.Lat, c.Lng, c.Lat)
		if d <= radiusKm {
			workers = append(workers, NearbyWorker{WorkerCandidate: c, DistanceKm: d})
		}
	}
	// distance ordering is the primary key; keep it even if callers
	// later filter by department or busy flag
	sort.Slice(workers, func(i, j int) bool { return workers[i].DistanceKm < workers[j].DistanceKm })
	if limit > 0 && len(workers) > limit {
		workers = workers[:limit]
	}

	return &NearbyWorkersOut{
		Report: ReportPoint{
			ID:          report.ID,
			Title:       report.Title,
			Coordinates: []float64{report.Lng, report.Lat},
		},
		Workers: workers,
	}, nil
}
