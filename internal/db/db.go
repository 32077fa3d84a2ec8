package db

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/devogs/epic-events-crm/internal/auth"
	"github.com/devogs/epic-events-crm/internal/config"
	"github.com/devogs/epic-events-crm/internal/model"
)

func New(cfg *config.Config, log zerolog.Logger) (*gorm.DB, error) {
	database, err := gorm.Open(postgres.Open(cfg.DB.DSN), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		return nil, err
	}
	if cfg.DB.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	}
	if cfg.DB.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	}
	if cfg.DB.ConnMaxLifetime != "" {
		lifetime, err := time.ParseDuration(cfg.DB.ConnMaxLifetime)
		if err != nil {
			return nil, fmt.Errorf("parse DB_CONN_MAX_LIFETIME: %w", err)
		}
		sqlDB.SetConnMaxLifetime(lifetime)
	}

	if err := runMigrations(database); err != nil {
		return nil, err
	}
	if err := ensureAdmin(database, cfg, log); err != nil {
		return nil, err
	}
	return database, nil
}

// ensureAdmin seeds a default management employee so a fresh database
// is usable. Skipped when any employee already exists or no bootstrap
// password is configured.
func ensureAdmin(db *gorm.DB, cfg *config.Config, log zerolog.Logger) error {
	var count int64
	if err := db.Raw(`SELECT COUNT(*) FROM employees`).Scan(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	if cfg.Bootstrap.AdminPassword == "" {
		log.Warn().Msg("employees table is empty and no ADMIN_PASSWORD configured, skipping admin bootstrap")
		return nil
	}

	hash, err := auth.HashPassword(cfg.Bootstrap.AdminPassword, cfg.Auth.BcryptCost)
	if err != nil {
		return err
	}
	err = db.Exec(`
		INSERT INTO employees (full_name, email, phone, role, password_hash)
		VALUES (?, ?, '', ?, ?)
	`, "Super Admin", cfg.Bootstrap.AdminEmail, string(model.RoleManagement), hash).Error
	if err != nil {
		return err
	}
	log.Info().Str("email", cfg.Bootstrap.AdminEmail).Msg("default admin employee created")
	return nil
}
