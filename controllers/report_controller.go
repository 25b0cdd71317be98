package controllers

import (
	"errors"
	"strconv"
	"time"

	"backend/pkg/resp"
	"backend/repository"
	"backend/services"
	"backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ReportController struct {
	Reports *services.ReportService
	Votes   *services.VoteService
}

func NewReportController(reports *services.ReportService, votes *services.VoteService) *ReportController {
	return &ReportController{Reports: reports, Votes: votes}
}

func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		resp.BadRequest(c, "invalid report id")
		return 0, false
	}
	return uint(id), true
}

func pageParams(c *gin.Context, defLimit int) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defLimit)))
	return page, limit
}

func currentUserPtr(c *gin.Context) *uint {
	if uid := utils.CurrentUserID(c); uid != 0 {
		return &uid
	}
	return nil
}

// ===== Intake =====

// POST /reports
func (rc *ReportController) Create(c *gin.Context) {
	uid := utils.CurrentUserID(c)

	var req services.CreateReportIn
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	out, err := rc.Reports.CreateReport(c.Request.Context(), &uid, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSpamContent):
			resp.Forbidden(c, "spam content detected")
		default:
			resp.BadRequest(c, err.Error())
		}
		return
	}

	resp.Created(c, out)
}

// POST /reports/sos: anonymous allowed, no classifier/dedupe
func (rc *ReportController) CreateSOS(c *gin.Context) {
	var req struct {
		Description string     `json:"description"`
		Longitude   *float64   `json:"longitude" binding:"required"`
		Latitude    *float64   `json:"latitude" binding:"required"`
		Timestamp   *time.Time `json:"timestamp"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, "location (latitude, longitude) is required for an SOS report")
		return
	}

	report, err := rc.Reports.CreateSOS(currentUserPtr(c), req.Description, *req.Longitude, *req.Latitude, req.Timestamp)
	if err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	resp.Created(c, gin.H{"report": report})
}

// ===== Queries =====

// GET /reports
func (rc *ReportController) List(c *gin.Context) {
	f := repository.ReportFilter{
		Status:   c.Query("status"),
		Category: c.Query("category"),
		Priority: c.Query("priority"),
	}
	if v, err := strconv.Atoi(c.Query("citizenId")); err == nil && v > 0 {
		id := uint(v)
		f.CitizenID = &id
	}
	if v, err := strconv.Atoi(c.Query("assignee")); err == nil && v > 0 {
		id := uint(v)
		f.AssigneeID = &id
	}

	page, limit := pageParams(c, 5)
	reports, total, err := rc.Reports.List(f, page, limit)
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{
		"reports": reports,
		"pagination": gin.H{
			"currentPage":  page,
			"totalReports": total,
		},
	})
}

// GET /reports/:id
func (rc *ReportController) Detail(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	report, err := rc.Reports.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			resp.NotFound(c, "report not found")
			return
		}
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, report)
}

// GET /reports/:id/history
func (rc *ReportController) History(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	history, err := rc.Reports.GetHistory(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			resp.NotFound(c, "report not found")
			return
		}
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, history)
}

// GET /reports/mine
func (rc *ReportController) Mine(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	page, limit := pageParams(c, 10)
	reports, total, err := rc.Reports.ListMine(uid, c.Query("status"), c.Query("category"), page, limit)
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{"reports": reports, "total": total})
}

// GET /reports/nearby?longitude=&latitude=&radius=&limit=
func (rc *ReportController) Nearby(c *gin.Context) {
	lng, err1 := strconv.ParseFloat(c.Query("longitude"), 64)
	lat, err2 := strconv.ParseFloat(c.Query("latitude"), 64)
	if err1 != nil || err2 != nil {
		resp.BadRequest(c, "longitude and latitude parameters are required")
		return
	}
	radius, err := strconv.ParseFloat(c.DefaultQuery("radius", "2"), 64)
	if err != nil || radius <= 0 {
		resp.BadRequest(c, "invalid radius")
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	reports, err := rc.Reports.ListNearby(lng, lat, radius, limit)
	if err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	resp.OK(c, gin.H{"reports": reports})
}

// GET /reports/search?title=
func (rc *ReportController) Search(c *gin.Context) {
	title := c.Query("title")
	if title == "" {
		resp.BadRequest(c, "title parameter is required")
		return
	}
	page, limit := pageParams(c, 10)
	reports, total, err := rc.Reports.SearchByTitle(title, page, limit)
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{"reports": reports, "total": total})
}

// GET /reports/department: scoped to the officer's own department
func (rc *ReportController) ByDepartment(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	page, limit := pageParams(c, 100)
	reports, total, err := rc.Reports.ListByDepartment(uid, page, limit)
	if err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	resp.OK(c, gin.H{"reports": reports, "total": total})
}

// GET /reports/assigned: the worker's open workload
func (rc *ReportController) Assigned(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	reports, err := rc.Reports.ListAssignedTo(uid)
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{"reports": reports})
}

// ===== Transitions =====

// PATCH /reports/:id/status
func (rc *ReportController) UpdateStatus(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
		Notes  string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	report, err := rc.Reports.UpdateStatus(utils.CurrentUserID(c), id, req.Status, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			resp.NotFound(c, "report not found")
		case errors.Is(err, services.ErrInvalidStatus),
			errors.Is(err, services.ErrTerminalStatus),
			errors.Is(err, services.ErrDuplicateLocked),
			errors.Is(err, services.ErrConflict):
			resp.BadRequest(c, err.Error())
		default:
			resp.ServerError(c, err)
		}
		return
	}
	resp.OK(c, report)
}

// PATCH /reports/:id/assign
func (rc *ReportController) Assign(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req struct {
		StaffID uint       `json:"staffId" binding:"required"`
		DueDate *time.Time `json:"dueDate"`
		Notes   string     `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	report, err := rc.Reports.Assign(utils.CurrentUserID(c), id, req.StaffID, req.DueDate, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			resp.NotFound(c, "report or staff member not found")
		case errors.Is(err, services.ErrTerminalStatus),
			errors.Is(err, services.ErrDuplicateLocked):
			resp.BadRequest(c, err.Error())
		default:
			resp.ServerError(c, err)
		}
		return
	}
	resp.OK(c, report)
}

// ===== Votes =====

// POST /reports/:id/vote: voteType null retracts
func (rc *ReportController) Vote(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req struct {
		VoteType *string `json:"voteType"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	out, err := rc.Votes.SetVote(id, utils.CurrentUserID(c), req.VoteType)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			resp.NotFound(c, "report not found")
		case errors.Is(err, services.ErrInvalidVote):
			resp.BadRequest(c, err.Error())
		default:
			resp.ServerError(c, err)
		}
		return
	}
	resp.OK(c, out)
}

// ===== Comments =====

// POST /reports/:id/comments
func (rc *ReportController) AddComment(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, "comment text is required")
		return
	}

	comment, err := rc.Reports.AddComment(id, utils.CurrentUserID(c), req.Text)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			resp.NotFound(c, "report not found")
			return
		}
		resp.ServerError(c, err)
		return
	}
	resp.Created(c, gin.H{"comment": comment})
}

// GET /reports/:id/comments
func (rc *ReportController) Comments(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	comments, err := rc.Reports.GetComments(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			resp.NotFound(c, "report not found")
			return
		}
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, comments)
}
