package app

import (
	"database/sql"
	"fmt"
	"log"

	"salescrm/internal/bulkfile"
	"salescrm/internal/config"
	"salescrm/internal/handlers"
	"salescrm/internal/pdf"
	"salescrm/internal/phone"
	"salescrm/internal/repositories"
	"salescrm/internal/routes"
	"salescrm/internal/services"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "salescrm/docs"
)

func Run() {
	cfg := config.LoadConfig()

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("failed to connect to database: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("failed to close database: %v", err)
		}
	}()

	// === Repos ===
	userRepo := repositories.NewUserRepository(db)
	leadRepo := repositories.NewLeadRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	pointsRepo := repositories.NewPointHistoryRepository(db)
	tgLinkRepo := repositories.NewTelegramLinkRepository(db)
	passwordResetRepo := repositories.NewPasswordResetRepository(db)

	// === Services ===
	authService := services.NewAuthService()
	emailService := services.NewEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
	)
	tgService := services.NewTelegramService(cfg.Telegram.BotToken, cfg.Telegram.DryRun)

	normalizer := phone.New(cfg.Import.CountryCode)
	parser := bulkfile.NewParser(normalizer, bulkfile.Limits{
		MaxFileBytes:  cfg.Import.MaxFileBytes,
		MaxCandidates: cfg.Import.MaxCandidates,
	})

	userService := services.NewUserService(userRepo, pointsRepo, emailService, authService)
	leadService := services.NewLeadService(leadRepo, categoryRepo, normalizer)
	categoryService := services.NewCategoryService(categoryRepo, leadRepo)
	importService := services.NewImportService(parser, leadRepo, categoryRepo, emailService)
	distributionService := services.NewDistributionService(leadRepo, userRepo, categoryRepo, tgService)
	performanceService := services.NewPerformanceService(leadRepo, pointsRepo, userRepo, categoryRepo, cfg.ClosingStatuses())
	passwordResetService := services.NewPasswordResetService(userRepo, passwordResetRepo, emailService, authService)

	reportGen := pdf.NewReportGenerator(cfg.Files.RootDir)

	// === Handlers ===
	authHandler := handlers.NewAuthHandler(userRepo, authService)
	userHandler := handlers.NewUserHandler(userService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	leadHandler := handlers.NewLeadHandler(leadService)
	importHandler := handlers.NewImportHandler(importService)
	distributionHandler := handlers.NewDistributionHandler(distributionService)
	performanceHandler := handlers.NewPerformanceHandler(performanceService, reportGen)
	passwordResetHandler := handlers.NewPasswordResetHandler(passwordResetService)

	var integrationsHandler *handlers.IntegrationsHandler
	if tgService != nil {
		integrationsHandler = handlers.NewIntegrationsHandler(tgService, tgLinkRepo, userRepo, leadRepo)
	}

	// === Gin ===
	router := gin.Default()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Routes (JWT/RBAC inside SetupRoutes)
	routes.SetupRoutes(
		router,
		authHandler,
		userHandler,
		categoryHandler,
		leadHandler,
		importHandler,
		distributionHandler,
		performanceHandler,
		passwordResetHandler,
		integrationsHandler,
	)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("server listening on %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("server failed: ", err)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
