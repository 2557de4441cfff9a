package config

import (
	"fmt"

	"alumni-chat/kvstore"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB opens the gorm connection for the sqlite or mysql driver.
func InitDB(cfg StoreConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("driver %q has no database", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	return db, nil
}

// OpenKV returns the key-value store selected by cfg.Driver.
func OpenKV(cfg StoreConfig) (kvstore.Store, error) {
	if cfg.Driver == "memory" {
		return kvstore.NewMemoryStore(), nil
	}
	db, err := InitDB(cfg)
	if err != nil {
		return nil, err
	}
	return kvstore.NewGormStore(db)
}
