package db

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"lexdesk/internal/config"
	"lexdesk/internal/models"
	console "lexdesk/internal/utils/logger"
)

var log = console.New("DB")

// Connect opens the database with a bounded retry loop and runs migrations.
// The returned handle is constructed once at process start and injected into
// every component that needs it.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		cfg.Database.Host,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Name,
		cfg.Database.Port,
		cfg.Database.SSLMode,
	)

	log.Info("Connecting to database...")
	maxRetries := 5
	var db *gorm.DB
	var err error
	for i := 0; i < maxRetries; i++ {
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger:                                   logger.Default.LogMode(logger.Warn),
			DisableForeignKeyConstraintWhenMigrating: true,
			PrepareStmt:                              true,
			AllowGlobalUpdate:                        false,
		})
		if err == nil {
			log.Success("Connected to database")

			sqlDB, err := db.DB()
			if err != nil {
				return nil, log.Error("Failed to get underlying *sql.DB instance", err)
			}

			// Connection pool settings
			sqlDB.SetMaxOpenConns(100)
			sqlDB.SetMaxIdleConns(10)
			sqlDB.SetConnMaxLifetime(time.Hour)
			sqlDB.SetConnMaxIdleTime(time.Minute * 30)

			if err := runMigrations(db); err != nil {
				return nil, log.Error("Failed to run migrations", err)
			}

			log.Success("Migrations completed")
			return db, nil
		}
		log.Warn("Failed to connect to database (attempt %d/%d): %v", i+1, maxRetries, err)
		time.Sleep(time.Second * 5)
	}
	return nil, log.Error("giving up on database connection", fmt.Errorf("failed to connect after %d attempts", maxRetries))
}

func runMigrations(db *gorm.DB) error {
	log.Info("Running migrations...")
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.AutoMigrate(
		// Accounts first: every tenant child references an owner id
		&models.User{},
		&models.AuthSession{},
		&models.PasswordReset{},

		// Subscription and billing
		&models.Subscription{},
		&models.Payment{},

		// Tenant children
		&models.Client{},
		&models.Case{},
		&models.CourtSession{},
		&models.Appointment{},
		&models.Document{},
	); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
