package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rahadianw/siteops/internal"
	"github.com/rahadianw/siteops/internal/attendance"
	attendancePG "github.com/rahadianw/siteops/internal/attendance/postgres"
	"github.com/rahadianw/siteops/internal/audit"
	auditPG "github.com/rahadianw/siteops/internal/audit/postgres"
	"github.com/rahadianw/siteops/internal/auth"
	authPG "github.com/rahadianw/siteops/internal/auth/postgres"
	"github.com/rahadianw/siteops/internal/core/events"
	"github.com/rahadianw/siteops/internal/document"
	documentPG "github.com/rahadianw/siteops/internal/document/postgres"
	"github.com/rahadianw/siteops/internal/equipment"
	equipmentPG "github.com/rahadianw/siteops/internal/equipment/postgres"
	"github.com/rahadianw/siteops/internal/material"
	materialPG "github.com/rahadianw/siteops/internal/material/postgres"
	"github.com/rahadianw/siteops/internal/notification"
	notificationPG "github.com/rahadianw/siteops/internal/notification/postgres"
	"github.com/rahadianw/siteops/internal/project"
	projectPG "github.com/rahadianw/siteops/internal/project/postgres"
	"github.com/rahadianw/siteops/internal/report"
	reportPG "github.com/rahadianw/siteops/internal/report/postgres"
	"github.com/rahadianw/siteops/internal/site"
	sitePG "github.com/rahadianw/siteops/internal/site/postgres"
	"github.com/rahadianw/siteops/internal/task"
	taskPG "github.com/rahadianw/siteops/internal/task/postgres"
	"github.com/rahadianw/siteops/internal/transport/rest"
	"github.com/rahadianw/siteops/internal/user"
	userPG "github.com/rahadianw/siteops/internal/user/postgres"
	"github.com/rahadianw/siteops/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(os.Getenv("APP_ENV"), config.Logging.Level)
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if config.Database.AutoMigrate {
		goose.SetTableName("schema_migrations")
		if err := goose.SetDialect("postgres"); err != nil {
			return nil, fmt.Errorf("goose dialect: %w", err)
		}
		if err := goose.Up(db.DB, "db/migrations"); err != nil {
			return nil, fmt.Errorf("auto migrate: %w", err)
		}
	}

	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm: %w", err)
	}

	router := chi.NewRouter()
	if err := registerRoutes(router, db, gormDB, config, lg); err != nil {
		return nil, err
	}

	return &Dependencies{
		Config: config,
		Logger: lg,
		DB:     db,
		Router: router,
	}, nil
}

func registerRoutes(router *chi.Mux, db *sqlx.DB, gormDB *gorm.DB, config *internal.Config, lg *slog.Logger) error {
	bus := events.NewEventBus(lg)

	notificationSvc := notification.NewService(notificationPG.NewNotificationRepository(gormDB), lg)
	auditSvc := audit.NewService(auditPG.NewAuditRepository(gormDB), lg)
	auditSvc.SubscribeTo(bus)

	tokenGen := auth.NewJWTTokenGenerator(config.Security.JWTSecret, config.Security.TokenDuration)
	authSvc := auth.NewService(authPG.NewAuthRepository(gormDB), tokenGen, config.Security.BCryptCost, lg)

	store, err := document.NewDiskStore(config.Storage.UploadDir)
	if err != nil {
		return fmt.Errorf("failed to prepare upload dir: %w", err)
	}

	handlers := rest.Handlers{
		Auth:         auth.NewHandler(authSvc),
		User:         user.NewHandler(user.NewService(userPG.NewUserRepository(gormDB), config.Security.BCryptCost, lg)),
		Project:      project.NewHandler(project.NewService(projectPG.NewProjectRepository(gormDB), lg)),
		Site:         site.NewHandler(site.NewService(sitePG.NewSiteRepository(gormDB), lg)),
		Task:         task.NewHandler(task.NewService(taskPG.NewTaskRepository(gormDB), lg)),
		Material:     material.NewHandler(material.NewService(materialPG.NewMaterialRepository(gormDB), notificationSvc, config.Alerts.DedupeLowStock, lg)),
		Equipment:    equipment.NewHandler(equipment.NewService(equipmentPG.NewEquipmentRepository(gormDB), lg)),
		Attendance:   attendance.NewHandler(attendance.NewService(attendancePG.NewAttendanceRepository(gormDB), notificationSvc, lg)),
		Notification: notification.NewHandler(notificationSvc),
		Document:     document.NewHandler(document.NewService(documentPG.NewDocumentRepository(gormDB), store, lg), config.Storage.MaxUploadBytes),
		Report:       report.NewHandler(report.NewService(reportPG.NewReportRepository(gormDB), lg)),
		Audit:        audit.NewHandler(auditSvc),
	}

	rbac := auth.NewRBACAuthorization(lg)
	rest.RegisterAllRoutes(router, db.DB, config, handlers, rbac, bus, lg)
	return nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
