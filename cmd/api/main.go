package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"classtrack/internal/analytics"
	"classtrack/internal/attendance"
	"classtrack/internal/auth"
	"classtrack/internal/classroom"
	"classtrack/internal/config"
	"classtrack/internal/handler"
	"classtrack/internal/httpmiddleware"
	"classtrack/internal/qr"
	"classtrack/internal/queue"
	"classtrack/internal/session"
	"classtrack/internal/store"
	"classtrack/internal/users"
)

func main() {
	cfg := config.Load()

	if cfg.Env == "production" || cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := runHTTP(cfg); err != nil {
		log.Fatalf("http server failed: %v", err)
	}
}

func runHTTP(cfg config.App) error {
	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := store.Migrate(context.Background(), db.Client); err != nil {
		return err
	}

	redisClient := store.NewRedis(cfg.RedisAddr)

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, "classtrack:rollups")
	}

	userRepo := users.NewRepository(db.Client)
	userSvc := users.NewService(userRepo, cfg.JWTIssuer, cfg.JWTSigningKey, cfg.AccessTTL, cfg.RefreshTTL)
	classRepo := classroom.NewRepository(db.Client)
	sessionRepo := session.NewRepository(db.Client)
	sessions := session.NewManager(sessionRepo, classRepo, qr.DataURL, cfg.SessionTTL, cfg.JWTIssuer, cfg.JWTSigningKey)
	recordRepo := attendance.NewRepository(db.Client)
	validator := attendance.NewValidator(sessionRepo, classRepo, recordRepo, q)
	stats := analytics.NewService(analytics.NewRepository(db.Client), classRepo, redisClient.Client, cfg.AnalyticsTTL)

	h := handler.New(userSvc, classRepo, sessions, validator, stats)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	r.Use(corsMiddleware())
	r.Use(securityHeaders())
	r.Use(httpmiddleware.NewSimpleTokenBucket(cfg.RateLimitPerMin, cfg.RateLimitPerMin).GinMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/healthz", func(c *gin.Context) {
		redisHealthy := redisClient.Healthy(c.Request.Context())
		dbHealthy := db.Client.PingContext(c.Request.Context()) == nil
		status := http.StatusOK
		if !redisHealthy || !dbHealthy {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"status": "ok", "redis": redisHealthy, "db": dbHealthy})
	})

	r.POST("/v1/auth/register", h.RegisterUser)
	r.POST("/v1/auth/login", h.Login)

	v1 := r.Group("/v1", auth.UserAuth(cfg.JWTSigningKey, cfg.JWTIssuer))
	v1.POST("/auth/logout", h.Logout)

	teacherOnly := auth.RequireRole(auth.RoleTeacher)
	studentOnly := auth.RequireRole(auth.RoleStudent)

	v1.POST("/classes", teacherOnly, h.CreateClass)
	v1.GET("/classes/:id", h.GetClass)
	v1.POST("/classes/:id/students", teacherOnly, h.AddStudent)
	v1.GET("/classes/teacher", teacherOnly, h.ListClassesForTeacher)
	v1.GET("/classes/student", studentOnly, h.ListClassesForStudent)

	v1.POST("/sessions", teacherOnly, h.OpenSession)
	v1.GET("/sessions/schedule", h.Schedule)
	v1.GET("/sessions/:id", h.GetSession)
	v1.GET("/classes/:id/sessions", h.ListClassSessions)

	v1.POST("/attendance", studentOnly, h.MarkAttendance)
	v1.GET("/sessions/:id/attendance", teacherOnly, h.SessionAttendance)
	v1.GET("/attendance/history", studentOnly, h.StudentHistory)
	v1.GET("/analytics/classes", teacherOnly, h.ClassAnalytics)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting server on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give outstanding requests 10 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced shutdown: %v", err)
	}

	log.Println("Server exited")
	return nil
}

// CORS middleware for browser requests
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// Security headers middleware
func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		if gin.Mode() == gin.ReleaseMode {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}
