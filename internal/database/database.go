package database

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/1arunjyoti/resume-builder/internal/config"
)

// InitDatabase 根据配置初始化数据库连接并返回 GORM 实例。
// 默认使用嵌入式 SQLite；Postgres 保留给容器化部署。
func InitDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)

	switch cfg.Driver {
	case "sqlite":
		if dir := filepath.Dir(cfg.Path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create data dir: %w", err)
			}
		}
		// WAL + busy_timeout：本地多连接（api/worker 同时打开）下避免写锁冲突。
		dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000", cfg.Path)
		db, err = gorm.Open(sqlite.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
	case "postgres":
		db, err = gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Info),
		})
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("unwrap db: %w", err)
	}

	if cfg.Driver == "sqlite" {
		// SQLite 写入串行化，限制单写连接即可。
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}

// Migrate 建表。api 与 worker 启动时都会调用，幂等。
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&ResumeRecord{}, &SettingRecord{}, &Asset{})
}
