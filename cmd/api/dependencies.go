package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/jcabanilla/gastos/internal/domain/auth"
	"github.com/jcabanilla/gastos/internal/domain/category"
	categoryhandler "github.com/jcabanilla/gastos/internal/domain/category/handler"
	importhandler "github.com/jcabanilla/gastos/internal/domain/import/handler"
	importservice "github.com/jcabanilla/gastos/internal/domain/import/service"
	"github.com/jcabanilla/gastos/internal/domain/prefs"
	"github.com/jcabanilla/gastos/internal/domain/transaction"
	transactionhandler "github.com/jcabanilla/gastos/internal/domain/transaction/handler"

	"github.com/jcabanilla/gastos/pkg/config"
	"github.com/jcabanilla/gastos/pkg/db"
)

// Dependencies holds all application dependencies
type Dependencies struct {
	Config *config.Config
	DB     *db.DB
	Logger *slog.Logger

	// Repositories
	CategoryRepo    category.Repository
	TransactionRepo transaction.Repository
	PrefsStore      *prefs.PostgresStore

	// Services
	Verifier           *auth.Verifier
	CategoryService    *category.Service
	TransactionService *transaction.Service
	ImportService      *importservice.ImportService

	// Handlers
	CategoryHandler    *categoryhandler.CategoryHandler
	TransactionHandler *transactionhandler.TransactionHandler
	ImportHandler      *importhandler.ImportHandler
}

// InitDependencies initializes all application dependencies
func InitDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initDatabase(); err != nil {
		return nil, fmt.Errorf("failed to init database: %w", err)
	}

	deps.initRepositories()
	deps.initServices()
	deps.initHandlers()

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initDatabase initializes the database connection and runs migrations
func (d *Dependencies) initDatabase() error {
	database, err := db.New(db.Config{
		DSN:             d.Config.Database.DSN(),
		MaxConns:        25,
		MinConns:        5,
		MaxConnLifetime: 5 * time.Minute,
		MaxConnIdleTime: 10 * time.Minute,
	}, d.Logger)
	if err != nil {
		return err
	}

	d.DB = database

	if err := d.DB.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	d.Logger.Info("database connected and migrations completed successfully")
	return nil
}

func (d *Dependencies) initRepositories() {
	d.CategoryRepo = category.NewPostgresRepository(d.DB.Pool)
	d.TransactionRepo = transaction.NewPostgresRepository(d.DB.Pool)
	d.PrefsStore = prefs.NewPostgresStore(d.DB.Pool)

	d.Logger.Info("repositories initialized")
}

func (d *Dependencies) initServices() {
	d.Verifier = auth.NewVerifier(d.Config.Auth.JWTSecret, d.Logger)
	d.CategoryService = category.NewService(d.CategoryRepo)
	d.TransactionService = transaction.NewService(d.TransactionRepo, d.PrefsStore, d.Logger)
	d.ImportService = importservice.NewImportService(
		d.CategoryRepo,
		d.TransactionRepo,
		auth.ContextProvider{},
		d.Logger,
	)

	d.Logger.Info("services initialized")
}

func (d *Dependencies) initHandlers() {
	d.CategoryHandler = categoryhandler.NewCategoryHandler(d.CategoryService, d.Logger)
	d.TransactionHandler = transactionhandler.NewTransactionHandler(d.TransactionService, d.Logger)
	d.ImportHandler = importhandler.NewImportHandler(d.ImportService, d.Logger)

	d.Logger.Info("handlers initialized")
}

// Cleanup closes all resources
func (d *Dependencies) Cleanup() {
	if d.DB != nil {
		d.DB.Close()
	}
	d.Logger.Info("cleanup completed")
}
