package controllers

import (
	"errors"
	"strconv"

	"backend/pkg/resp"
	"backend/repository"
	"backend/services"
	"backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UserController struct {
	UserRepo *repository.UserRepository
	Workers  *services.WorkerService
}

func NewUserController(userRepo *repository.UserRepository, workers *services.WorkerService) *UserController {
	return &UserController{UserRepo: userRepo, Workers: workers}
}

// GET /users?role=&department=&busy=
func (uc *UserController) List(c *gin.Context) {
	f := repository.UserFilter{
		Role:       c.Query("role"),
		Department: c.Query("department"),
	}
	switch c.Query("busy") {
	case "true", "True", "1":
		b := true
		f.Busy = &b
	case "false", "False", "0":
		b := false
		f.Busy = &b
	}

	users, err := uc.UserRepo.List(f)
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{"users": users})
}

// GET /users/nearby/:reportId?radius=&limit=
func (uc *UserController) NearbyWorkers(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("reportId"))
	if err != nil || id <= 0 {
		resp.BadRequest(c, "invalid report id")
		return
	}
	radius, err := strconv.ParseFloat(c.DefaultQuery("radius", "5"), 64)
	if err != nil || radius <= 0 {
		resp.BadRequest(c, "invalid radius")
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	out, err := uc.Workers.FindNearbyWorkers(uint(id), radius, limit)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			resp.NotFound(c, "report not found")
			return
		}
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, out)
}

// PATCH /users/me/location: worker heartbeat, own record only
func (uc *UserController) UpdateLocation(c *gin.Context) {
	var req struct {
		Coordinates []float64 `json:"coordinates" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Coordinates) != 2 {
		resp.BadRequest(c, "coordinates [lng, lat] are required")
		return
	}

	uid := utils.CurrentUserID(c)
	if err := uc.Workers.Heartbeat(uid, req.Coordinates[0], req.Coordinates[1]); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	resp.OK(c, gin.H{"updated": true})
}

// PATCH /users/me/fcm-token
func (uc *UserController) SaveFCMToken(c *gin.Context) {
	var req struct {
		FCMToken string `json:"fcmToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, "FCM token is required")
		return
	}

	uid := utils.CurrentUserID(c)
	if err := uc.UserRepo.SaveFCMToken(uid, req.FCMToken); err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{"saved": true})
}
