// main.go
package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"consultorio-api/config"
	"consultorio-api/endpoint"
	"consultorio-api/middleware"
	"consultorio-api/model"
	"consultorio-api/util"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.LoadConfig()

	db, err := config.ConnectMySQL()
	if err != nil {
		log.Fatalf("Error connecting to MySQL: %v", err)
	}
	err = db.AutoMigrate(
		&model.Role{},
		&model.User{},
		&model.UserSession{},
		&model.Patient{},
		&model.TreatmentPlan{},
		&model.Appointment{},
		&model.Session{},
		&model.TestTemplate{},
		&model.Evaluation{},
		&model.SecurityLog{},
	)
	if err != nil {
		log.Fatalf("Error running migrations: %v", err)
	}
	if err := model.SeedRoles(db); err != nil {
		log.Fatalf("Error seeding roles: %v", err)
	}

	util.SetSecurityLoggerDB(db)
	if err := util.InitGeoIP(""); err != nil {
		log.Printf("GeoIP disabled: %v", err)
	}
	if _, err := config.ConnectRedis(); err != nil {
		log.Printf("Redis unavailable, rate limiting disabled: %v", err)
	}

	gin.SetMode(cfg.GinMode)
	router := gin.Default()
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.DatabaseMiddleware(db))
	router.Use(middleware.EndpointCallLogger())

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": fmt.Sprintf("Welcome to %s!", cfg.AppName),
		})
	})

	loginLimiter := middleware.RateLimiter(middleware.RateLimitConfig{Limit: 5, Window: 15 * time.Minute})
	router.POST("/signup", loginLimiter, endpoint.Signup)
	router.POST("/login", loginLimiter, endpoint.Login)
	router.DELETE("/logout", endpoint.Logout)
	router.GET("/token/validate", endpoint.ValidateToken)

	authed := router.Group("/", middleware.AuthRequired())
	{
		authed.GET("/patient", endpoint.ListPatients)
		authed.POST("/patient", endpoint.CreatePatient)
		authed.PATCH("/patient/:id", endpoint.UpdatePatient)
		authed.DELETE("/patient/:id", endpoint.DeletePatient)

		authed.GET("/treatment-plan", endpoint.ListTreatmentPlans)
		authed.POST("/treatment-plan/generate", endpoint.GenerateRecurrence)
		authed.PATCH("/treatment-plan/:id/status", endpoint.UpdateTreatmentPlanStatus)

		authed.GET("/appointment", endpoint.ListAppointments)
		authed.POST("/appointment", endpoint.CreateAppointment)
		authed.PATCH("/appointment/:id/status", endpoint.UpdateAppointmentStatus)
		authed.GET("/appointment/:id/session", endpoint.AppointmentSession)

		authed.PATCH("/session/:id", endpoint.UpdateSession)

		authed.GET("/test-template", endpoint.ListTestTemplates)
		authed.POST("/test-template", endpoint.CreateTestTemplate)

		authed.POST("/evaluation", endpoint.CreateEvaluation)
		authed.GET("/evaluation", endpoint.ListEvaluations)
	}

	address := fmt.Sprintf(":%d", cfg.AppPort)
	if err := router.Run(address); err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}
