package main

import (
	"fmt"
	"log"
	"os"

	"mechshop-backend/config"
	"mechshop-backend/models"
	"mechshop-backend/routes"
	"mechshop-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	db, err := config.ConnectDB()
	if err != nil {
		logger.Fatal("Failed to connect database", zap.Error(err))
	}

	if err := db.AutoMigrate(
		&models.Customer{},
		&models.Vehicle{},
		&models.Mechanic{},
		&models.Inventory{},
		&models.ServiceTicket{},
		&models.TicketMechanic{},
		&models.TicketPart{},
	); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}

	services.NewStockService(db).StartScheduler()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	r := routes.SetupRouter(db, logger)
	printRoutes(r)
	if err := r.Run(":" + port); err != nil {
		logger.Fatal("Server exited", zap.Error(err))
	}
}

func printRoutes(r *gin.Engine) {
	for _, route := range r.Routes() {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
