package routes

import (
	"backend/configs"
	"backend/controllers"
	"backend/middlewares"
	"backend/repository"
	"backend/services"
	"backend/ws"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *configs.Config) {
	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	// Repositories
	reportRepo := repository.NewReportRepository(db)
	userRepo := repository.NewUserRepository(db)
	workerRepo := repository.NewWorkerRepository(db)

	// Live feed hub
	feed := ws.NewFeedHub()
	go feed.Run()

	// Services
	classifier := services.NewClassifierClient(cfg.ClassifierURL, cfg.ClassifierTimeout)
	duplicates := services.NewDuplicateDetector(reportRepo, cfg.DuplicateRadiusM)
	notifier := services.NewNotificationService(userRepo)
	reportSvc := services.NewReportService(db, reportRepo, userRepo, workerRepo, classifier, duplicates, notifier, feed)
	voteSvc := services.NewVoteService(db, reportRepo, userRepo)
	workerSvc := services.NewWorkerService(db, workerRepo, reportRepo)
	authSvc := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTTTL)

	// Controllers
	authCtrl := controllers.NewAuthController(authSvc)
	reportCtrl := controllers.NewReportController(reportSvc, voteSvc)
	userCtrl := controllers.NewUserController(userRepo, workerSvc)

	// Auth
	a := r.Group("/auth")
	{
		a.POST("/register", authCtrl.Register)
		a.POST("/login", authCtrl.Login)
		a.GET("/me", middlewares.AuthMiddleware(), authCtrl.Me)
	}

	// Reports (public reads)
	r.GET("/reports", reportCtrl.List)
	r.GET("/reports/search", reportCtrl.Search)
	r.GET("/reports/nearby", reportCtrl.Nearby)
	r.GET("/reports/:id", reportCtrl.Detail)
	r.GET("/reports/:id/history", reportCtrl.History)
	r.GET("/reports/:id/comments", reportCtrl.Comments)

	// Reports (citizen)
	citizen := r.Group("/reports", middlewares.AuthMiddleware("citizen"))
	{
		citizen.POST("", reportCtrl.Create)
		citizen.GET("/mine", reportCtrl.Mine)
		citizen.POST("/:id/vote", reportCtrl.Vote)
	}

	// SOS: anonymous allowed
	r.POST("/reports/sos", middlewares.OptionalAuth(), reportCtrl.CreateSOS)

	// Comments: any authenticated actor
	r.POST("/reports/:id/comments", middlewares.AuthMiddleware(), reportCtrl.AddComment)

	// Reports (officer)
	officer := r.Group("/reports", middlewares.AuthMiddleware("officer"))
	{
		officer.PATCH("/:id/status", reportCtrl.UpdateStatus)
		officer.PATCH("/:id/assign", reportCtrl.Assign)
		officer.GET("/department", reportCtrl.ByDepartment)
	}

	// Reports (worker)
	r.GET("/reports/assigned", middlewares.AuthMiddleware("worker"), reportCtrl.Assigned)

	// Users
	users := r.Group("/users")
	{
		users.GET("", middlewares.AuthMiddleware("officer"), userCtrl.List)
		users.GET("/nearby/:reportId", middlewares.AuthMiddleware("officer"), userCtrl.NearbyWorkers)
		users.PATCH("/me/location", middlewares.AuthMiddleware("worker"), userCtrl.UpdateLocation)
		users.PATCH("/me/fcm-token", middlewares.AuthMiddleware(), userCtrl.SaveFCMToken)
	}

	// Live feed
	r.GET("/ws/feed", feed.HandleFeed)
}
