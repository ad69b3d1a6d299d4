package server

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"oacmarket/internal/cache"
	"oacmarket/internal/config"
	"oacmarket/internal/database"
	"oacmarket/internal/engagement"
	"oacmarket/internal/featureflags"
	"oacmarket/internal/middleware"
	"oacmarket/internal/models"
	"oacmarket/internal/notifications"
	"oacmarket/internal/observability"
	"oacmarket/internal/repository"
	"oacmarket/internal/service"
	"oacmarket/internal/storage"
)

const (
	sessionCookie = "session"
	visitorCookie = "likeId"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc
	traceShutdown  func(context.Context) error

	userRepo    repository.UserRepository
	storeRepo   repository.StoreRepository
	productRepo repository.ProductRepository
	commentRepo repository.CommentRepository

	notifier     *notifications.Notifier
	mailWorker   *notifications.Worker
	imageStore   storage.ImageStore
	featureFlags *featureflags.Manager

	userService       *service.UserService
	storeService      *service.StoreService
	productService    *service.ProductService
	commentService    *service.CommentService
	engagementService *service.EngagementService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	var imageStore storage.ImageStore
	switch cfg.StorageBackend {
	case "gcs":
		gcs, err := storage.NewGCSStore(context.Background(), cfg.GCSBucket, cfg.GCSCredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("gcs storage init failed: %w", err)
		}
		imageStore = gcs
	default:
		local, err := storage.NewLocalStore(cfg.UploadDir)
		if err != nil {
			return nil, fmt.Errorf("local storage init failed: %w", err)
		}
		imageStore = local
	}

	return NewServerWithDeps(cfg, db, redisClient, imageStore)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, imageStore storage.ImageStore) (*Server, error) {
	userRepo := repository.NewUserRepository(db)
	storeRepo := repository.NewStoreRepository(db)
	productRepo := repository.NewProductRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	prom := middleware.InitMetrics("oacmarket-api")

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
		userRepo:       userRepo,
		storeRepo:      storeRepo,
		productRepo:    productRepo,
		commentRepo:    commentRepo,
		imageStore:     imageStore,
		featureFlags:   featureflags.NewManager(cfg.FeatureFlags),
		notifier:       notifications.NewNotifier(redisClient),
	}

	server.userService = service.NewUserService(userRepo)
	server.storeService = service.NewStoreService(storeRepo, server.isAdminByUserID)
	server.productService = service.NewProductService(productRepo, storeRepo, server.isAdminByUserID)
	server.commentService = service.NewCommentService(commentRepo, productRepo, server.notifier)
	server.engagementService = service.NewEngagementService(
		engagement.NewStore(productRepo), productRepo, storeRepo, server.notifier)

	if redisClient != nil && cfg.SMTPHost != "" {
		smtpPort, _ := strconv.Atoi(cfg.SMTPPort)
		mailer := notifications.NewSMTPMailer(
			cfg.SMTPHost, smtpPort, cfg.SMTPUser, cfg.SMTPPass, cfg.EmailFrom)
		server.mailWorker = notifications.NewWorker(
			redisClient, productRepo, storeRepo, mailer, cfg.SiteURL)
	}

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.ContextMiddleware())

	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Global rate limiting (300 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        300,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))

	// Every browser gets a long-lived visitor identifier for like
	// deduplication, logged-in or not.
	app.Use(s.VisitorCookie())
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	app.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "OAC Market Metrics Dashboard",
	}))

	if local, ok := s.imageStore.(*storage.LocalStore); ok {
		app.Static("/uploads", local.Dir())
	}

	// Public browse
	app.Get("/", s.Home)
	app.Get("/produtos", s.ListProducts)

	// Registration and session
	app.Get("/cadastro", s.SignupPage)
	app.Post("/cadastro", middleware.RateLimit(s.redis, 5, 10*time.Minute, "cadastro"), s.Signup)
	app.Get("/login", s.LoginPage)
	app.Post("/login", middleware.RateLimit(s.redis, 10, 5*time.Minute, "login"), s.Login)
	app.Get("/logout", s.Logout)

	// Store management, seller-gated
	app.Get("/loja/criar", s.SellerRequired(), s.CreateStorePage)
	app.Post("/loja/criar", s.SellerRequired(), s.CreateStore)
	app.Get("/loja/:id", s.ViewStore) // public with ?public=1, otherwise gated inside
	app.Get("/loja/:id/editar", s.SellerRequired(), s.EditStorePage)
	app.Post("/loja/:id/editar", s.SellerRequired(), s.EditStore)
	app.Get("/loja/:id/produto/criar", s.SellerRequired(), s.CreateProductPage)
	app.Post("/loja/:id/produto/criar", s.SellerRequired(), s.CreateProduct)

	// Product mutations, seller-gated
	app.Post("/produto/:id/excluir", s.SellerRequired(), s.DeleteProduct)

	// Public engagement
	app.Post("/produto/:id/comentar", middleware.RateLimit(s.redis, 10, time.Minute, "comentar"), s.CreateComment)
	app.Post("/produto/:id/curtir", s.LikeProduct)
	app.Post("/produto/:id/descurtir", s.UnlikeProduct)
	app.Post("/loja/:id/mensagem", middleware.RateLimit(s.redis, 10, time.Minute, "mensagem"), s.PostStoreMessage)

	// Admin
	app.Get("/admin", s.AdminRequired(), s.AdminDashboard)
	app.Get("/admin/feature-flags", s.AdminRequired(), s.GetFeatureFlags)
	app.Post("/produto/:id/destaque", s.AdminRequired(), s.FeatureProduct)
	app.Post("/produto/:id/remover-destaque", s.AdminRequired(), s.UnfeatureProduct)

	// Static informational pages
	for _, page := range staticPages {
		app.Get("/"+page, s.StaticPage(page))
	}
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		// The app runs without Redis; caching and notifications degrade.
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// VisitorCookie issues the long-lived anonymous identifier used for like
// deduplication on the first visit and propagates it through Locals.
func (s *Server) VisitorCookie() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Cookies(visitorCookie)
		if id == "" {
			id = uuid.New().String()
			c.Cookie(&fiber.Cookie{
				Name:     visitorCookie,
				Value:    id,
				Expires:  time.Now().Add(365 * 24 * time.Hour),
				HTTPOnly: true,
				SameSite: "Lax",
				Path:     "/",
			})
		}
		c.Locals("visitorID", id)
		return c.Next()
	}
}

// SellerRequired gates store and product management pages. Anyone without
// a valid session belonging to a seller (or admin) is sent back to the
// home page, exactly like a missing page would be.
func (s *Server) SellerRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := s.currentUser(c)
		if user == nil || (!user.IsSeller() && !user.IsAdmin) {
			return redirectHome(c)
		}
		c.Locals("user", user)
		return c.Next()
	}
}

// AdminRequired gates the curation surface behind the admin flag.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := s.currentUser(c)
		if user == nil || !user.IsAdmin {
			return redirectHome(c)
		}
		c.Locals("user", user)
		return c.Next()
	}
}

// sessionUserID extracts and validates the session JWT from the cookie or
// an Authorization bearer header, returning the bound user ID.
func (s *Server) sessionUserID(c *fiber.Ctx) (uint, bool) {
	tokenString := c.Cookies(sessionCookie)
	if tokenString == "" {
		authHeader := c.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenString = authHeader[7:]
		}
	}
	if tokenString == "" {
		return 0, false
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, false
	}
	if issuer, issuerOk := claims["iss"].(string); !issuerOk || issuer != "oacmarket-api" {
		return 0, false
	}
	if audience, audienceOk := claims["aud"].(string); !audienceOk || audience != "oacmarket-web" {
		return 0, false
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return 0, false
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return 0, false
	}

	// A logged-out token carries a blacklisted jti.
	if jti, exists := claims["jti"].(string); exists && jti != "" && s.redis != nil {
		blacklisted, err := s.redis.Exists(c.Context(), "blacklist:"+jti).Result()
		if err == nil && blacklisted > 0 {
			return 0, false
		}
	}

	return uint(userID), true
}

// Start starts the server
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	traceShutdown, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:  "oacmarket-api",
		Environment:  s.config.Env,
		Enabled:      s.config.TracingEnabled,
		Exporter:     s.config.TracingExporter,
		OTLPEndpoint: s.config.OTLPEndpoint,
		SamplerRatio: s.config.TracingSampler,
	})
	if err != nil {
		return fmt.Errorf("tracing init failed: %w", err)
	}
	s.traceShutdown = traceShutdown

	app := fiber.New(fiber.Config{
		AppName: "OAC Market",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	if s.mailWorker != nil {
		if err := s.mailWorker.Start(s.shutdownCtx); err != nil {
			log.Printf("failed to start mail worker: %v", err)
		}
	}

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	if s.traceShutdown != nil {
		if terr := s.traceShutdown(ctx); terr != nil {
			log.Printf("error shutting down tracer: %v", terr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
