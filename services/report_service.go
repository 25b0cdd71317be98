package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"backend/entity"
	"backend/pkg/geo"
	"backend/repository"

	"gorm.io/gorm"
)

var (
	ErrSpamContent     = errors.New("spam content detected")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrTerminalStatus  = errors.New("report is in a terminal status")
	ErrDuplicateLocked = errors.New("duplicate-linked reports cannot be transitioned")
	ErrConflict        = errors.New("conflicting concurrent update")
)

const (
	resolutionBonus = 10 // communityScore bonus on resolve, once per report
	spamPenalty     = 5  // communityScore penalty for a rejected submission
)

// EventPublisher pushes lifecycle events onto the live feed. Nil-safe
// through the publish helper.
type EventPublisher interface {
	Publish(event string, data any)
}

type ReportService struct {
	DB         *gorm.DB
	Repo       *repository.ReportRepository
	UserRepo   *repository.UserRepository
	WorkerRepo *repository.WorkerRepository
	Classifier *ClassifierClient
	Duplicates *DuplicateDetector
	Notifier   *NotificationService
	Feed       EventPublisher
}

func NewReportService(
	db *gorm.DB,
	repo *repository.ReportRepository,
	userRepo *repository.UserRepository,
	workerRepo *repository.WorkerRepository,
	classifier *ClassifierClient,
	duplicates *DuplicateDetector,
	notifier *NotificationService,
	feed EventPublisher,
) *ReportService {
	return &ReportService{
		DB: db, Repo: repo, UserRepo: userRepo, WorkerRepo: workerRepo,
		Classifier: classifier, Duplicates: duplicates, Notifier: notifier, Feed: feed,
	}
}

func (s *ReportService) publish(event string, data any) {
	if s.Feed != nil {
		s.Feed.Publish(event, data)
	}
}

// ----- Intake -----

type CreateReportIn struct {
	Title          string    `json:"title" binding:"required"`
	Description    string    `json:"description"`
	Coordinates    []float64 `json:"coordinates" binding:"required"` // [lng, lat]
	Category       string    `json:"category" binding:"required"`
	CustomCategory *string   `json:"customCategory"`
	Priority       string    `json:"priority"`
	Images         []string  `json:"images"`
}

type CreateReportOut struct {
	Report     *entity.Report `json:"report"`
	Duplicate  bool           `json:"duplicate"`
	Classified bool           `json:"classified"` // false = degraded mode
}

// CreateReport runs the full intake pipeline:
// classify (best-effort) → spam gate → duplicate detection → persist.
// Classifier unavailability never fails the submission.
func (s *ReportService) CreateReport(ctx context.Context, citizenID *uint, in *CreateReportIn) (*CreateReportOut, error) {
	if len(in.Coordinates) != 2 {
		return nil, errors.New("coordinates must be [longitude, latitude]")
	}
	lng, lat := in.Coordinates[0], in.Coordinates[1]
	if !geo.ValidPoint(lng, lat) {
		return nil, errors.New("invalid coordinates provided")
	}
	if !entity.ValidCategory(in.Category) {
		return nil, errors.New("unknown category")
	}
	priority := in.Priority
	if priority == "" {
		priority = entity.PriorityLow
	}
	if !entity.ValidPriority(priority) {
		return nil, errors.New("unknown priority")
	}

	category := in.Category
	customCategory := in.CustomCategory
	var department *string
	var extraHistory []entity.ReportHistory
	classified := false

	result, err := s.Classifier.Classify(ctx, &ClassifyDraft{
		CitizenID:      citizenID,
		Title:          in.Title,
		Description:    in.Description,
		Coordinates:    in.Coordinates,
		Category:       category,
		CustomCategory: customCategory,
		Priority:       priority,
	})
	switch {
	case err == nil:
		classified = true
		if result.Rejected {
			// spam: nothing persisted, submitter still penalized
			if citizenID != nil {
				if perr := s.UserRepo.AdjustCommunityScore(s.DB, *citizenID, -spamPenalty); perr != nil {
					log.Printf("[CLASSIFIER] spam penalty failed for user %d: %v", *citizenID, perr)
				}
			}
			return nil, ErrSpamContent
		}
		if result.Category != "" && entity.ValidCategory(result.Category) {
			category = result.Category
		}
		if result.Priority != "" && entity.ValidPriority(result.Priority) {
			priority = result.Priority
		}
		if result.Department != "" {
			department = &result.Department
		}
		if result.CustomCategory != "" {
			cc := result.CustomCategory
			customCategory = &cc
		}
		// public-safety routing folds into "other" with a fixed label
		if result.Department == "public_safety" {
			category = entity.CategoryOther
			cc := "Public Safety"
			customCategory = &cc
		}
		for _, h := range result.History {
			extraHistory = append(extraHistory, entity.ReportHistory{
				Status: h.Status, UpdatedByID: citizenID, Notes: h.Notes,
			})
		}
	case errors.Is(err, ErrClassifierUnavailable):
		// degraded mode: citizen-supplied values stand
		log.Printf("[CLASSIFIER] unavailable, continuing with manual processing: %v", err)
		extraHistory = append(extraHistory, entity.ReportHistory{
			Status:      "classification_skipped",
			UpdatedByID: citizenID,
			Notes:       "classifier unavailable - processed manually",
		})
	default:
		return nil, err
	}

	original, err := s.Duplicates.FindDuplicate(in.Title, in.Description, category, lng, lat)
	if err != nil {
		return nil, err
	}

	baseNotes := "Report submitted and classified"
	if !classified {
		baseNotes = "Report submitted (classifier unavailable)"
	}
	if original != nil {
		if classified {
			baseNotes = "Duplicate report submitted and linked (classified)"
		} else {
			baseNotes = "Duplicate report submitted and linked (manual processing)"
		}
	}

	report := &entity.Report{
		CitizenID:      citizenID,
		Title:          in.Title,
		Description:    in.Description,
		Category:       category,
		CustomCategory: customCategory,
		Priority:       priority,
		Department:     department,
		Lng:            lng,
		Lat:            lat,
		Status:         entity.StatusSubmitted,
	}
	if original != nil {
		report.DuplicateOfID = &original.ID
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.Repo.Create(tx, report); err != nil {
			return err
		}
		if err := s.Repo.AddImages(tx, report.ID, in.Images); err != nil {
			return err
		}
		base := entity.ReportHistory{
			ReportID:    report.ID,
			Status:      entity.StatusSubmitted,
			UpdatedByID: citizenID,
			Notes:       baseNotes,
		}
		if err := s.Repo.AppendHistory(tx, &base); err != nil {
			return err
		}
		for i := range extraHistory {
			extraHistory[i].ReportID = report.ID
			if err := s.Repo.AppendHistory(tx, &extraHistory[i]); err != nil {
				return err
			}
		}
		if citizenID != nil {
			if err := s.UserRepo.IncReportsSubmitted(tx, *citizenID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if citizenID != nil {
		if original != nil {
			s.Notifier.NotifyAsync(*citizenID, "Duplicate Report Detected!",
				fmt.Sprintf("We've linked your report %q to an existing issue.", report.Title))
		} else {
			s.Notifier.NotifyAsync(*citizenID, "Report Submitted Successfully!",
				fmt.Sprintf("Thank you! Your report %q has been received.", report.Title))
		}
	}

	populated, err := s.Repo.GetDetailed(report.ID)
	if err != nil {
		return nil, err
	}
	s.publish("report_created", populated)

	return &CreateReportOut{
		Report:     populated,
		Duplicate:  original != nil,
		Classified: classified,
	}, nil
}

// CreateSOS persists an emergency report straight away: no classifier,
// no duplicate detection, anonymous allowed.
func (s *ReportService) CreateSOS(citizenID *uint, description string, lng, lat float64, at *time.Time) (*entity.Report, error) {
	if !geo.ValidPoint(lng, lat) {
		return nil, errors.New("invalid coordinates provided")
	}
	if description == "" {
		description = "SOS Alert Triggered"
	}
	dept := "public_safety"
	report := &entity.Report{
		CitizenID:   citizenID,
		Title:       "SOS Alert",
		Description: description,
		Category:    entity.CategoryEmergency,
		Priority:    entity.PriorityCritical,
		Department:  &dept,
		Lng:         lng,
		Lat:         lat,
		Status:      entity.StatusSubmitted,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.Repo.Create(tx, report); err != nil {
			return err
		}
		h := entity.ReportHistory{
			ReportID:    report.ID,
			Status:      entity.StatusSubmitted,
			UpdatedByID: citizenID,
			Notes:       "SOS Alert triggered automatically.",
		}
		if at != nil {
			h.CreatedAt = *at
		}
		return s.Repo.AppendHistory(tx, &h)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[SOS] report %d created", report.ID)
	s.publish("report_created", report)
	return report, nil
}

// ----- Queries -----

func (s *ReportService) GetByID(reportID uint) (*entity.Report, error) {
	return s.Repo.GetDetailed(reportID)
}

func (s *ReportService) List(f repository.ReportFilter, page, limit int) ([]entity.Report, int64, error) {
	return s.Repo.List(f, page, limit)
}

func (s *ReportService) SearchByTitle(title string, page, limit int) ([]entity.Report, int64, error) {
	return s.Repo.SearchByTitle(title, page, limit)
}

func (s *ReportService) GetHistory(reportID uint) ([]entity.ReportHistory, error) {
	if _, err := s.Repo.Get(reportID); err != nil {
		return nil, err
	}
	return s.Repo.GetHistory(reportID)
}

func (s *ReportService) ListMine(citizenID uint, status, category string, page, limit int) ([]entity.Report, int64, error) {
	return s.Repo.List(repository.ReportFilter{
		CitizenID: &citizenID, Status: status, Category: category,
	}, page, limit)
}

func (s *ReportService) ListByDepartment(officerID uint, page, limit int) ([]entity.Report, int64, error) {
	officer, err := s.UserRepo.FindByID(officerID)
	if err != nil {
		return nil, 0, err
	}
	if officer.Department == "" {
		return nil, 0, errors.New("officer department not found")
	}
	return s.Repo.List(repository.ReportFilter{Department: officer.Department}, page, limit)
}

func (s *ReportService) ListAssignedTo(workerID uint) ([]entity.Report, error) {
	return s.Repo.ListAssignedTo(workerID)
}

type NearbyReport struct {
	Report     entity.Report `json:"report"`
	DistanceKm float64       `json:"distanceKm"`
}

// ListNearby: bounding-box prefilter, exact haversine cut, ascending
// distance: mirrors the geospatial index's own distance semantics.
func (s *ReportService) ListNearby(lng, lat, radiusKm float64, limit int) ([]NearbyReport, error) {
	if !geo.ValidPoint(lng, lat) {
		return nil, errors.New("invalid coordinates provided")
	}
	minLng, maxLng, minLat, maxLat := geo.BoundingBox(lng, lat, radiusKm)
	rows, err := s.Repo.FindInBox(minLng, maxLng, minLat, maxLat, 0)
	if err != nil {
		return nil, err
	}

	out := make([]NearbyReport, 0, len(rows))
	for _, r := range rows {
		d := geo.HaversineKm(lng, lat, r.Lng, r.Lat)
		if d <= radiusKm {
			out = append(out, NearbyReport{Report: r, DistanceKm: d})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DistanceKm < out[j].DistanceKm })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ----- Comments (append-only) -----

func (s *ReportService) AddComment(reportID, userID uint, text string) (*entity.ReportComment, error) {
	if _, err := s.Repo.Get(reportID); err != nil {
		return nil, err
	}
	cm := &entity.ReportComment{ReportID: reportID, UserID: userID, Text: text}
	if err := s.Repo.AddComment(s.DB, cm); err != nil {
		return nil, err
	}
	return cm, nil
}

func (s *ReportService) GetComments(reportID uint) ([]entity.ReportComment, error) {
	if _, err := s.Repo.Get(reportID); err != nil {
		return nil, err
	}
	return s.Repo.GetComments(reportID)
}
