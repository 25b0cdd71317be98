package main

import (
	"fmt"
	"log"

	"backend/configs"
	"backend/middlewares"
	"backend/routes"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := configs.LoadConfig()

	// DB
	configs.ConnectionDB(cfg.DBSource)
	db := configs.DB()

	// migrate
	configs.SetupDatabase()

	if err := configs.SeedOfficer(); err != nil {
		log.Fatalf("seed officer failed: %v", err)
	}

	// HTTP
	r := gin.Default()

	r.Use(middlewares.CORSMiddleware())

	routes.RegisterRoutes(r, db, cfg)

	port := cfg.Port
	addr := fmt.Sprintf(":%s", port)
	log.Println("🚀 Server running at", addr)
	if err := r.Run(addr); err != nil {
		log.Fatal(err)
	}
}
