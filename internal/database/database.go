package database

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/jstyp/storefront-backend/internal/config"
	"github.com/jstyp/storefront-backend/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Connect(cfg *config.Config) error {
	var err error
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	slog.Info("database connected")
	return nil
}

// Models lists every table owned by the service, in dependency order.
func Models() []interface{} {
	return []interface{}{
		&models.App{},
		&models.AppRating{},
		&models.PinRecord{},
		&models.Client{},
		&models.AppRequest{},
		&models.RedownloadRequest{},
		&models.TeamMember{},
		&models.WebsiteDetails{},
		&models.Video{},
		&models.RefreshToken{},
		&models.SystemLog{},
	}
}

// indexes holds DDL AutoMigrate cannot express.
var indexes = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_redownload_pending_client_app
		ON redownload_requests (client_id, app_id) WHERE status = 'pending'`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_clients_email_lower ON clients (lower(email))`,
}

// Migrate runs AutoMigrate for all models and then applies extra indexes.
func Migrate() error {
	if err := DB.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	for _, ddl := range indexes {
		if err := DB.Exec(ddl).Error; err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}

func Ping() error {
	if DB == nil {
		return fmt.Errorf("database not connected")
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func Close() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
