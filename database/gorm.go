package database

import (
	"context"
	stdlog "log"
	"os"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2/log"
	"github.com/sahilchouksey/todo-api/config"
	"github.com/sahilchouksey/todo-api/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type GORMStore struct {
	db      *gorm.DB
	dialect Dialect
}

// StartGORM opens the database named by DATABASE_URL
func StartGORM(getEnv *config.EnvironmentVariable) (*GORMStore, error) {
	dsn, err := ParseDSN(getEnv.DATABASE_URL)
	if err != nil {
		return nil, err
	}

	var dialector gorm.Dialector
	switch dsn.Dialect {
	case DialectPostgres:
		dialector = postgres.Open(dsn.Source)
	case DialectSQLite:
		dialector = sqlite.Open(dsn.Source)
	}

	// Open GORM connection
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: newGormLogger(getEnv),
		// Sessions manage their own transactions
		SkipDefaultTransaction: true,
	})
	if err != nil {
		log.Errorf("Unable to connect to %s with GORM: %v", dsn.Dialect, err)
		return nil, err
	}

	// Get underlying *sql.DB to configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	switch dsn.Dialect {
	case DialectPostgres:
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	case DialectSQLite:
		// SQLite allows a single writer, and an in-memory database lives only
		// as long as its one connection.
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		if dsn.IsMemory() {
			log.Warn("Using an in-memory SQLite database, data is lost on exit")
		}
	}

	log.Infof("Successfully connected to %s database with GORM.", dsn.Dialect)

	return &GORMStore{db: db, dialect: dsn.Dialect}, nil
}

func newGormLogger(getEnv *config.EnvironmentVariable) logger.Interface {
	return logger.New(stdlog.New(os.Stdout, "\r\n", stdlog.LstdFlags), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  gormLogLevel(getEnv),
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

func gormLogLevel(getEnv *config.EnvironmentVariable) logger.LogLevel {
	switch {
	case getEnv.IsProduction():
		return logger.Error
	case getEnv.GO_ENV == "test":
		return logger.Silent
	default:
		return logger.Info
	}
}

// Init runs AutoMigrate, creating the todo table if it does not exist
func (s *GORMStore) Init() error {
	log.Info("Running GORM AutoMigrate...")

	if err := s.db.AutoMigrate(&model.Todo{}); err != nil {
		log.Errorf("Error running AutoMigrate: %v", err)
		return err
	}

	log.Info("GORM AutoMigrate completed successfully!")
	return nil
}

// Close closes the database connection
func (s *GORMStore) Close() error {
	log.Infof("Closing GORM %s connection...", s.dialect)
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// HealthCheck verifies the database connection is alive
func (s *GORMStore) HealthCheck() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Begin starts a transaction bound to ctx
func (s *GORMStore) Begin(ctx context.Context) (Session, error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &gormSession{ctx: ctx, tx: tx, dialect: s.dialect}, nil
}
