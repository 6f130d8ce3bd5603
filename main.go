// TutorIA backend: REST API for a Spanish-tutoring platform. Wires up
// configuration, database pools, migrations, the audit logger, feature
// services and the HTTP router, then serves until interrupted.
//
// @title TutorIA API
// @version 1.0
// @description Backend API for the TutorIA Spanish tutoring platform.
// @contact.name API Support
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/user/tutoria-go/apperror"
	"github.com/user/tutoria-go/auditlog"
	"github.com/user/tutoria-go/auth"
	"github.com/user/tutoria-go/config"
	"github.com/user/tutoria-go/conversation"
	"github.com/user/tutoria-go/db"
	_ "github.com/user/tutoria-go/docs" // generated Swagger docs
	"github.com/user/tutoria-go/gateway"
	"github.com/user/tutoria-go/ratelimit"
	"github.com/user/tutoria-go/users"
)

const serviceName = "tutoria-backend"

func main() {
	if err := godotenv.Load(); err != nil {
		// Fine in production, where variables are set directly.
		logrus.Debugf(".env file not loaded: %v", err)
	}

	logger := newLogger()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	appPool, logPool, err := db.NewDBPools(cfg.DBPools)
	if err != nil {
		logger.Fatalf("Failed to create database pools: %v", err)
	}
	defer appPool.Close()
	defer logPool.Close()

	if err := db.EnableExtensions(appPool); err != nil {
		logger.Fatalf("Failed to enable extensions: %v", err)
	}
	if err := db.RunMigrations(cfg.DBPools.AppPool, "./migrations", logger); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}

	// The audit logger writes on its own pool so log bursts never compete
	// with request-path queries for connections.
	audit := auditlog.New(auditlog.NewPostgresLogStore(logPool), logger, cfg.IsDevelopment())

	userStore := auth.NewPostgresUserStore(appPool)
	authService := auth.NewService(userStore, *cfg.Auth)
	authHandlers := auth.NewHandlers(authService)

	userService := users.NewService(userStore, audit)
	userHandlers := users.NewHandlers(userService)

	workflow := gateway.NewClient(cfg.Gateway, audit)

	convStore := conversation.NewPostgresStore(appPool)
	convService := conversation.NewService(convStore, workflow, audit)
	convHandlers := conversation.NewHandlers(convService)

	// Limiters: a coarse global limit plus tight per-route limits on the
	// credential endpoints. Keys include the path, so register and login
	// attempts count separately.
	globalLimiter := ratelimit.New(cfg.RateLimit.Max, cfg.RateLimit.Window)
	registerLimiter := ratelimit.New(3, 15*time.Minute)
	loginLimiter := ratelimit.New(5, 15*time.Minute)

	cleanupStop := make(chan struct{})
	globalLimiter.StartCleanup(5*time.Minute, cleanupStop)
	registerLimiter.StartCleanup(5*time.Minute, cleanupStop)
	loginLimiter.StartCleanup(5*time.Minute, cleanupStop)

	r := chi.NewRouter()

	// Global middleware. Must be registered before any routes.
	r.Use(recoverMiddleware(logger, audit))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.Server.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Use(auditlog.Middleware(audit))
	r.Use(globalLimiter.Middleware)

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// /health is pure liveness; /api/health additionally probes the AI
	// workflow so operators can tell a healthy API from a degraded tutor.
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		auth.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"status":    "OK",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"service":   serviceName,
		})
	})
	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		workflowStatus := "unavailable"
		if workflow.HealthCheck(r.Context()).Healthy {
			workflowStatus = "ok"
		}
		auth.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"status":    "OK",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"service":   serviceName,
			"workflow":  workflowStatus,
		})
	})

	r.Route("/api/auth", func(r chi.Router) {
		r.With(registerLimiter.Middleware).Post("/register", authHandlers.HandleRegister())
		r.With(loginLimiter.Middleware).Post("/login", authHandlers.HandleLogin())

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(cfg.Auth))
			r.Get("/me", authHandlers.HandleMe())
			r.Get("/verify", authHandlers.HandleVerify())
			r.Post("/logout", authHandlers.HandleLogout())
		})
	})

	r.Route("/api/user", func(r chi.Router) {
		r.Use(auth.Middleware(cfg.Auth))
		userHandlers.RegisterRoutes(r)
	})

	r.Route("/api/conversation", func(r chi.Router) {
		r.Use(auth.Middleware(cfg.Auth))
		convHandlers.RegisterRoutes(r)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		auth.WriteJSON(w, http.StatusNotFound, map[string]interface{}{
			"success": false,
			"message": "Route not found",
			"path":    r.URL.Path,
		})
	})

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.WithFields(logrus.Fields{
			"addr":        addr,
			"environment": cfg.Server.Environment,
		}).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server shutdown failed: %v", err)
	}

	// Stop the limiter cleanup tickers, then drain the audit queue so
	// already accepted entries reach the database before the pools close.
	close(cleanupStop)
	audit.Close()

	logger.Info("Server stopped gracefully")
}

// newLogger builds the process logger: JSON output, level from LOG_LEVEL.
func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger
}

// recoverMiddleware converts handler panics into the standard error envelope
// instead of letting the connection die. The stack goes to the process log
// and the audit trail, never to the client.
func recoverMiddleware(logger *logrus.Logger, audit *auditlog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			defer func() {
				if rvr := recover(); rvr != nil {
					stack := string(debug.Stack())
					logger.WithFields(logrus.Fields{
						"method": r.Method,
						"path":   r.URL.Path,
					}).Errorf("Panic recovered: %+v", rvr)
					audit.Record(&auditlog.Entry{
						Level:   auditlog.LevelError,
						Message: "panic recovered",
						Method:  r.Method,
						Path:    r.URL.Path,
						Error:   fmt.Sprint(rvr),
						Stack:   stack,
					})
					if ww.Status() == 0 {
						auth.WriteError(ww, r, apperror.NewInternalError("Internal server error", nil))
					}
				}
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
