package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/sirawit/examportal/config"
	"github.com/sirawit/examportal/database"
	"github.com/sirawit/examportal/internal/authz"
	adminctrl "github.com/sirawit/examportal/internal/controller/admin"
	authctrl "github.com/sirawit/examportal/internal/controller/auth"
	userctrl "github.com/sirawit/examportal/internal/controller/user"
	"github.com/sirawit/examportal/internal/logger"
	"github.com/sirawit/examportal/internal/middleware"
	"github.com/sirawit/examportal/internal/model"
	"github.com/sirawit/examportal/internal/repository"
	"github.com/sirawit/examportal/internal/service"
	"github.com/sirawit/examportal/internal/session"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Exam Portal API
// @version 1.0
// @description API for authoring question banks and running timed, randomized multiple-choice exams with scored results.
// @contact.name API Support
// @contact.email support@example.com
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()

	app := fx.New(
		// Core Application Components
		fx.Provide(
			config.NewConfig,
			database.NewDatabase, // Provides *gorm.DB
			NewGinEngine,         // Provides *gin.Engine
			session.NewRedisClient,
			session.NewRedisStore,
			session.NewScheduler,
			service.NewMinioClient,
		),

		// Repositories Layer
		fx.Provide(
			repository.NewProfileRepository,
			repository.NewSubjectRepository,
			repository.NewTopicRepository,
			repository.NewQuestionRepository,
			repository.NewExamSetRepository,
			repository.NewAttemptRepository,
		),

		// Services Layer
		fx.Provide(
			authz.NewRolePolicy,
			service.NewAuthService,
			service.NewCatalogService,
			service.NewStorageService,
			service.NewExamSetService,
			service.NewAssemblyService,
			service.NewSessionService,
			service.NewAttemptService,
		),

		// API Controllers Layer
		fx.Provide(
			authctrl.NewAuthController,
			adminctrl.NewCatalogController,
			adminctrl.NewExamSetController,
			userctrl.NewExamController,
		),

		// Invokers - Functions that are executed by Fx
		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(AutoMigrateDB),
	)

	// Start the application
	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	// Wait for a shutdown signal
	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	gin.SetMode(gin.DebugMode)

	r := gin.New()

	// Route request logs through the global zerolog instance.
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("user_agent", param.Request.UserAgent()).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	// CORS Configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"}, // Be more specific in production
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Swagger UI
	// URL: http://localhost:PORT/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	policy authz.Policy,
	scheduler *session.Scheduler,
	authCtrl *authctrl.AuthController,
	catalogCtrl *adminctrl.CatalogController,
	examSetCtrl *adminctrl.ExamSetController,
	examCtrl *userctrl.ExamController,
) {
	// Public Routes (prefixed with /api/v1/auth)
	authGroup := router.Group("/api/v1/auth")
	{
		authGroup.POST("/register", authCtrl.Register)
		authGroup.POST("/login", authCtrl.Login)
	}

	// Admin Routes (prefixed with /api/v1/admin)
	adminAPIGroup := router.Group("/api/v1/admin")
	adminAPIGroup.Use(middleware.RequireAuth(cfg), middleware.RequireAdmin(policy))
	{
		adminAPIGroup.POST("/subjects", catalogCtrl.CreateSubject)
		adminAPIGroup.GET("/subjects", catalogCtrl.ListSubjects)
		adminAPIGroup.PUT("/subjects/:subject_id", catalogCtrl.UpdateSubject)
		adminAPIGroup.DELETE("/subjects/:subject_id", catalogCtrl.DeleteSubject)

		adminAPIGroup.POST("/topics", catalogCtrl.CreateTopic)
		adminAPIGroup.GET("/topics", catalogCtrl.ListTopics)
		adminAPIGroup.PUT("/topics/:topic_id", catalogCtrl.UpdateTopic)
		adminAPIGroup.DELETE("/topics/:topic_id", catalogCtrl.DeleteTopic)

		adminAPIGroup.POST("/questions", catalogCtrl.CreateQuestion)
		adminAPIGroup.GET("/questions", catalogCtrl.ListQuestions)
		adminAPIGroup.GET("/questions/:question_id", catalogCtrl.GetQuestion)
		adminAPIGroup.PUT("/questions/:question_id", catalogCtrl.UpdateQuestion)
		adminAPIGroup.DELETE("/questions/:question_id", catalogCtrl.DeleteQuestion)
		adminAPIGroup.POST("/questions/images", catalogCtrl.UploadImage)

		adminAPIGroup.POST("/exam-sets", examSetCtrl.CreateExamSet)
		adminAPIGroup.GET("/exam-sets", examSetCtrl.ListExamSets)
		adminAPIGroup.GET("/exam-sets/:set_id", examSetCtrl.GetExamSet)
		adminAPIGroup.PUT("/exam-sets/:set_id", examSetCtrl.UpdateExamSet)
		adminAPIGroup.PATCH("/exam-sets/:set_id/status", examSetCtrl.SetExamSetStatus)
		adminAPIGroup.DELETE("/exam-sets/:set_id", examSetCtrl.DeleteExamSet)
	}

	// User Routes (prefixed with /api/v1)
	userAPIGroup := router.Group("/api/v1")
	userAPIGroup.Use(middleware.RequireAuth(cfg))
	{
		userAPIGroup.GET("/auth/me", authCtrl.Me)

		userAPIGroup.GET("/exam-sets", examCtrl.ListExamSets)
		userAPIGroup.POST("/exam-sets/:set_id/session", examCtrl.StartSession)
		userAPIGroup.GET("/exam-sets/:set_id/session", examCtrl.GetSession)
		userAPIGroup.POST("/exam-sets/:set_id/session/answer", examCtrl.SelectAnswer)
		userAPIGroup.POST("/exam-sets/:set_id/session/navigate", examCtrl.Navigate)
		userAPIGroup.POST("/exam-sets/:set_id/session/submit", examCtrl.SubmitSession)

		userAPIGroup.GET("/my-attempts", examCtrl.ListMyAttempts)
		userAPIGroup.GET("/attempts/:attempt_id", examCtrl.GetAttempt)
	}

	// HTTP Server Setup and Lifecycle
	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Exam Portal API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			scheduler.Stop()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.Profile{},
		&model.Subject{},
		&model.Topic{},
		&model.Question{},
		&model.Choice{},
		&model.ExamSet{},
		&model.ExamSetTopic{},
		&model.ExamAttempt{},
		&model.ExamAnswerDetail{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
