package db

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"draperads/internal/config"
	"draperads/internal/models"
	console "draperads/internal/utils/logger"
)

var DB *gorm.DB
var log = console.New("DB")

const maxRetries = 5

func Connect(cfg *config.Config) error {
	logLevel := logger.Warn
	if !cfg.Server.IsProduction() {
		logLevel = logger.Info
	}

	log.Info("Connecting to database...")
	var err error
	for i := 0; i < maxRetries; i++ {
		DB, err = gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{
			Logger:      logger.Default.LogMode(logLevel),
			PrepareStmt: true,
		})
		if err == nil {
			log.Success("Connected to database %s", cfg.Database.Name)

			sqlDB, err := DB.DB()
			if err != nil {
				return log.Error("Failed to get underlying *sql.DB instance", err)
			}

			sqlDB.SetMaxOpenConns(50)
			sqlDB.SetMaxIdleConns(10)
			sqlDB.SetConnMaxLifetime(time.Hour)
			sqlDB.SetConnMaxIdleTime(time.Minute * 30)

			if err := Migrate(DB); err != nil {
				return log.Error("Failed to run migrations", err)
			}
			log.Success("Migrations completed")

			return nil
		}
		log.Warn("Failed to connect to database (attempt %d/%d): %v", i+1, maxRetries, err)
		time.Sleep(time.Second * 5)
	}
	return log.Error("Failed to connect to database", fmt.Errorf("gave up after %d attempts: %w", maxRetries, err))
}

// Migrate creates or updates every table inside one transaction.
func Migrate(gdb *gorm.DB) error {
	log.Info("Running migrations...")
	return gdb.Transaction(func(tx *gorm.DB) error {
		return tx.AutoMigrate(
			&models.User{},
			&models.Template{},
			&models.AdAccount{},
			&models.Ad{},
			&models.AdSet{},
			&models.Session{},
		)
	})
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

func GetDB() *gorm.DB {
	return DB
}
