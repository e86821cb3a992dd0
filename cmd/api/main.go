package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"renewal-review-api/config"
	"renewal-review-api/controllers"
	"renewal-review-api/middleware"
	"renewal-review-api/routes"
	"renewal-review-api/services"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize logging and database
	logFile, _ := config.InitLogging()
	if logFile != nil {
		defer logFile.Close()
	}
	config.InitDB()

	// Set Gin mode
	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Background queue for aggregate recompute and notification
	queue := services.NewTaskQueue(2, 128)

	// Wire the workflow services
	products := services.NewProductStore(config.DB)
	assessments := services.NewAssessmentStore(config.DB)
	submitters := services.NewSubmitterStore(config.DB)
	decisions := services.NewDecisionStore(config.DB)

	decisionService := &services.DecisionService{
		Products:       products,
		Assessments:    assessments,
		Decisions:      decisions,
		Summaries:      summaryProvider(services.NewOpenAISummarizer(config.OpenAIKey(), config.OpenAIModel())),
		SummaryTimeout: config.OpenAITimeout(),
	}
	assessmentService := &services.AssessmentService{Assessments: assessments}
	intakeService := &services.IntakeService{
		Products:    products,
		Assessments: assessments,
		Submitters:  submitters,
		Decisions:   decisionService,
		Notifier:    notifier(services.NewEmailNotifier()),
		Queue:       queue,
		EmailDomain: os.Getenv("INSTITUTION_EMAIL_DOMAIN"),
	}
	controllers.Init(intakeService, assessmentService, decisionService, queue)

	// Create Gin router
	router := gin.New()

	// Add logging middleware
	router.Use(gin.Logger())

	// Add recovery middleware
	router.Use(gin.Recovery())

	// Add security headers middleware
	router.Use(func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Content-Security-Policy", "default-src 'self'")
		c.Next()
	})

	// Add CORS middleware
	router.Use(middleware.CORSMiddleware())

	// Setup routes
	routes.SetupRoutes(router)

	// Start server
	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on port %s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server:", err)
		}
	}()

	// Drain the background queue before exiting so recompute and
	// notification tasks are not lost on deploy.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown: %v", err)
	}
	queue.Shutdown(ctx)
}

// summaryProvider keeps a typed nil out of the interface field when no API
// key is configured.
func summaryProvider(s *services.OpenAISummarizer) services.SummaryProvider {
	if s == nil {
		return nil
	}
	return s
}

func notifier(n *services.EmailNotifier) services.Notifier {
	if n == nil {
		return nil
	}
	return n
}
