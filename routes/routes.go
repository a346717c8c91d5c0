package routes

import (
	"mechshop-backend/controllers"
	"mechshop-backend/middleware"
	"mechshop-backend/services"
	"mechshop-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func SetupRouter(db *gorm.DB, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
	}))

	assignments := services.NewAssignmentService(db)

	customerCtrl := &controllers.CustomerController{DB: db, Assignments: assignments}
	vehicleCtrl := &controllers.VehicleController{DB: db, Assignments: assignments}
	mechanicCtrl := &controllers.MechanicController{DB: db, Assignments: assignments}
	inventoryCtrl := &controllers.InventoryController{DB: db, Assignments: assignments}
	ticketCtrl := &controllers.TicketController{DB: db, Assignments: assignments}

	customers := r.Group("/customers")
	{
		customers.POST("", customerCtrl.Register)
		customers.POST("/login", customerCtrl.Login)
		customers.GET("", customerCtrl.GetCustomers)
		customers.GET("/my-tickets", utils.AuthMiddleware(), customerCtrl.MyTickets)
		customers.GET("/:id", customerCtrl.GetCustomer)
		customers.PUT("/:id", utils.AuthMiddleware(), customerCtrl.UpdateCustomer)
		customers.DELETE("/:id", utils.AuthMiddleware(), customerCtrl.DeleteCustomer)
	}

	vehicles := r.Group("/vehicles")
	{
		vehicles.GET("", vehicleCtrl.GetVehicles)
		vehicles.GET("/customer/:customer_id", vehicleCtrl.GetCustomerVehicles)
		vehicles.GET("/:id", vehicleCtrl.GetVehicle)

		vehicles.Use(utils.AuthMiddleware())
		vehicles.POST("", vehicleCtrl.CreateVehicle)
		vehicles.PUT("/:id", vehicleCtrl.UpdateVehicle)
		vehicles.DELETE("/:id", vehicleCtrl.DeleteVehicle)
	}

	mechanics := r.Group("/mechanics")
	{
		mechanics.GET("", mechanicCtrl.GetMechanics)
		mechanics.GET("/top-performers", mechanicCtrl.TopPerformers)
		mechanics.GET("/:id", mechanicCtrl.GetMechanic)

		mechanics.Use(utils.AuthMiddleware())
		mechanics.POST("", mechanicCtrl.CreateMechanic)
		mechanics.PUT("/:id", mechanicCtrl.UpdateMechanic)
		mechanics.DELETE("/:id", mechanicCtrl.DeleteMechanic)
	}

	inventory := r.Group("/inventory")
	{
		inventory.GET("", inventoryCtrl.GetParts)
		inventory.GET("/search", inventoryCtrl.SearchParts)
		inventory.GET("/:id", inventoryCtrl.GetPart)

		inventory.Use(utils.AuthMiddleware())
		inventory.POST("", inventoryCtrl.CreatePart)
		inventory.PUT("/:id", inventoryCtrl.UpdatePart)
		inventory.DELETE("/:id", inventoryCtrl.DeletePart)
	}

	tickets := r.Group("/service-tickets")
	{
		tickets.GET("", ticketCtrl.GetTickets)
		tickets.GET("/:id", ticketCtrl.GetTicket)
		tickets.GET("/:id/parts", ticketCtrl.GetParts)

		tickets.Use(utils.AuthMiddleware())
		tickets.POST("", ticketCtrl.CreateTicket)
		tickets.PUT("/:id", ticketCtrl.UpdateTicket)
		tickets.DELETE("/:id", ticketCtrl.DeleteTicket)
		tickets.PUT("/:id/assign-mechanic/:mechanic_id", ticketCtrl.AssignMechanic)
		tickets.PUT("/:id/remove-mechanic/:mechanic_id", ticketCtrl.RemoveMechanic)
		tickets.PUT("/:id/edit", ticketCtrl.EditMechanics)
		tickets.POST("/:id/add-part", ticketCtrl.AddPart)
		tickets.DELETE("/:id/remove-part/:part_id", ticketCtrl.RemovePart)
	}

	return r
}
