package database

import (
	"fmt"

	"loyalty/config"
	"loyalty/logger"
	"loyalty/models"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// DbInstance struct holds the database connection instance
type DbInstance struct {
	Db *gorm.DB
}

// Database is the global database instance
var Database DbInstance

// Dialector picks the GORM driver named by cfg.Driver
func Dialector(cfg config.Database) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "postgres":
		return postgres.Open(fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			cfg.Host, cfg.User, cfg.Password, cfg.Name, cfg.Port, cfg.SSLMode,
		)), nil
	case "mysql":
		return mysql.Open(fmt.Sprintf(
			"%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name,
		)), nil
	case "sqlite":
		return sqlite.Open(cfg.Name), nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
}

// ConnectDb opens the configured database, sizes the pool and runs migrations
func ConnectDb(cfg config.Database, log *zap.Logger) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.NewGormLogger(log),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	log.Info("running migrations", zap.String("driver", cfg.Driver))
	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	log.Info("migrations completed")

	Database = DbInstance{Db: db}
	return db, nil
}

// RunMigrations performs database migrations
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Qualification{},
		&models.Calification{},
	); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

// Close releases the pool held by the global instance
func Close() error {
	if Database.Db == nil {
		return nil
	}
	sqlDB, err := Database.Db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
