package database

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sodiq-adeyemi/marketpay/internal/infrastructure/adapter/model"
	"github.com/sodiq-adeyemi/marketpay/internal/infrastructure/config"
)

// Connection holds the database connection and its configuration
type Connection struct {
	DB     *gorm.DB
	Config *config.DatabaseConfig
}

// NewConnection establishes a new database connection with the given configuration
func NewConnection(cfg *config.DatabaseConfig, logLevel string) (*Connection, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("database host is required")
	}
	if cfg.Username == "" {
		return nil, fmt.Errorf("database username is required")
	}
	if cfg.Database == "" {
		return nil, fmt.Errorf("database name is required")
	}

	gormLevel := logger.Warn
	switch logLevel {
	case "debug", "info":
		gormLevel = logger.Info
	case "error":
		gormLevel = logger.Error
	}

	db, err := gorm.Open(postgres.Open(dsn(cfg)), &gorm.Config{
		Logger: logger.Default.LogMode(gormLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Connection{
		DB:     db,
		Config: cfg,
	}, nil
}

// Migrate creates or updates the ledger schema
func (c *Connection) Migrate() error {
	if err := c.DB.AutoMigrate(&model.Transaction{}, &model.Wallet{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Close closes the database connection
func (c *Connection) Close() error {
	sqlDB, err := c.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}
	return sqlDB.Close()
}

func dsn(cfg *config.DatabaseConfig) string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.Database, cfg.SSLMode,
	)
}
