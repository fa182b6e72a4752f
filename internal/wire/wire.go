// Package wire provides dependency injection for the ledger application.
// It creates singleton services with lazy initialization.
package wire

import (
	"database/sql"
	"fmt"
	"io"
	"log"
	"os"
	"sync"

	"go.uber.org/zap"

	cliadapter "github.com/example/ledger/internal/adapters/cli"
	"github.com/example/ledger/internal/adapters/sqlite"
	"github.com/example/ledger/internal/app"
	"github.com/example/ledger/internal/config"
	"github.com/example/ledger/internal/db"
	"github.com/example/ledger/internal/logging"
	"github.com/example/ledger/internal/ports/primary"
)

// Options are the process-wide settings taken from global flags. They must be
// set before the first service is requested.
type Options struct {
	Dir      string    // directory holding .ledger/config.json; empty means the working directory
	Output   string    // overrides the configured output format when set
	Markdown bool      // render descriptions as markdown
	Verbose  bool      // debug logging
	Out      io.Writer // adapter output; nil means stdout
}

var (
	opts     Options
	cfg      *config.Config
	logger   *zap.Logger
	database *sql.DB

	commissionService primary.CommissionService
	shipmentService   primary.ShipmentService
	taskService       primary.TaskService
	repoService       primary.RepoService
	logService        primary.LogService

	once        sync.Once
	initialized bool
)

// Configure records the options used when services are first built.
func Configure(o Options) {
	opts = o
}

// CommissionService returns the singleton CommissionService instance.
func CommissionService() primary.CommissionService {
	once.Do(initServices)
	return commissionService
}

// ShipmentService returns the singleton ShipmentService instance.
func ShipmentService() primary.ShipmentService {
	once.Do(initServices)
	return shipmentService
}

// TaskService returns the singleton TaskService instance.
func TaskService() primary.TaskService {
	once.Do(initServices)
	return taskService
}

// RepoService returns the singleton RepoService instance.
func RepoService() primary.RepoService {
	once.Do(initServices)
	return repoService
}

// LogService returns the singleton LogService instance.
func LogService() primary.LogService {
	once.Do(initServices)
	return logService
}

// DB returns the opened database.
func DB() *sql.DB {
	once.Do(initServices)
	return database
}

// Config returns the loaded configuration.
func Config() *config.Config {
	once.Do(initServices)
	return cfg
}

// Close flushes the logger and closes the database if services were built.
func Close() error {
	if !initialized {
		return nil
	}
	// Sync on a terminal stderr reports EINVAL; there is nothing to flush then.
	_ = logger.Sync()
	return db.Close()
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	dir := opts.Dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			log.Fatalf("failed to get working directory: %v", err)
		}
		dir = wd
	}

	var err error
	cfg, err = config.LoadOrDefault(dir)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err = logging.New(cfg, opts.Verbose)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	db.SetLogger(logger)

	path := cfg.DBPath
	if path == "" {
		if path, err = db.DefaultPath(); err != nil {
			logger.Fatal("failed to resolve database path", zap.Error(err))
		}
	}
	database, err = db.GetDB(path)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.String("path", path), zap.Error(err))
	}
	logger.Debug("database ready", zap.String("path", path))

	// Create repository adapters (secondary ports) - sqlite adapters with injected DB
	commissionRepo := sqlite.NewCommissionRepository(database, logger)
	shipmentRepo := sqlite.NewShipmentRepository(database, logger)
	taskRepo := sqlite.NewTaskRepository(database, logger)
	repoRepo := sqlite.NewRepoRepository(database, logger)
	logRepo := sqlite.NewLogRepository(database, logger)
	logWriter := sqlite.NewLogWriterAdapter(logRepo)

	// Create services (primary ports implementation)
	commissionService = app.NewCommissionService(commissionRepo, logWriter, logger)
	shipmentService = app.NewShipmentService(shipmentRepo, commissionRepo, repoRepo, cfg.BranchPrefix, logWriter, logger)
	taskService = app.NewTaskService(taskRepo, shipmentRepo, logWriter, logger)
	repoService = app.NewRepoService(repoRepo, logWriter, logger)
	logService = app.NewLogService(logRepo)

	initialized = true
}

func output() cliadapter.Output {
	format := opts.Output
	if format == "" {
		format = cfg.Output
	}
	return cliadapter.Output{Format: format, Markdown: opts.Markdown}
}

func out() io.Writer {
	if opts.Out != nil {
		return opts.Out
	}
	return os.Stdout
}

// CommissionAdapter returns a new CommissionAdapter.
// Each call creates a new adapter (adapters are stateless translators).
func CommissionAdapter() *cliadapter.CommissionAdapter {
	once.Do(initServices)
	return cliadapter.NewCommissionAdapter(commissionService, out(), output())
}

// ShipmentAdapter returns a new ShipmentAdapter.
func ShipmentAdapter() *cliadapter.ShipmentAdapter {
	once.Do(initServices)
	return cliadapter.NewShipmentAdapter(shipmentService, out(), output())
}

// TaskAdapter returns a new TaskAdapter.
func TaskAdapter() *cliadapter.TaskAdapter {
	once.Do(initServices)
	return cliadapter.NewTaskAdapter(taskService, out(), output())
}

// RepoAdapter returns a new RepoAdapter.
func RepoAdapter() *cliadapter.RepoAdapter {
	once.Do(initServices)
	return cliadapter.NewRepoAdapter(repoService, out(), output())
}

// LogAdapter returns a new LogAdapter.
func LogAdapter() *cliadapter.LogAdapter {
	once.Do(initServices)
	return cliadapter.NewLogAdapter(logService, out(), output())
}

// ValidateOutput reports whether format names a known output format.
func ValidateOutput(format string) error {
	switch format {
	case "", config.OutputText, config.OutputJSON, config.OutputYAML:
		return nil
	}
	return fmt.Errorf("invalid --output %q (valid: text, json, yaml)", format)
}
