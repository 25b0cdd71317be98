package controllers

import (
	"backend/pkg/resp"
	"backend/services"
	"backend/utils"

	"github.com/gin-gonic/gin"
)

type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	FullName    string `json:"fullname" binding:"required"`
	PhoneNumber string `json:"phoneNumber"`
	Address     string `json:"address"`
}
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthController struct {
	Auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{Auth: auth}
}

// POST /auth/register
func (a *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	user, err := a.Auth.Register(req.Email, req.Password, req.FullName, req.PhoneNumber, req.Address)
	if err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	resp.Created(c, gin.H{"user": user})
}

// POST /auth/login
func (a *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	token, user, err := a.Auth.Login(req.Email, req.Password)
	if err != nil {
		resp.Unauthorized(c, err.Error())
		return
	}

	resp.OK(c, gin.H{"token": token, "user": user})
}

// GET /auth/me
func (a *AuthController) Me(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	user, err := a.Auth.GetProfile(uid)
	if err != nil {
		resp.NotFound(c, "user not found")
		return
	}
	resp.OK(c, gin.H{"user": user})
}
