package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"teamhub/backend/config"
	"teamhub/backend/internal/model"
)

// 지원하는 드라이버
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
)

// Dialector 설정된 드라이버에 맞는 gorm Dialector 를 만든다
func Dialector(cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case DriverPostgres:
		return postgres.Open(cfg.PostgresDSN()), nil
	case DriverSQLite:
		dsn := cfg.DSN
		if dsn == "" {
			dsn = "teamhub.db"
		}
		return sqlite.Open(dsn), nil
	case DriverMySQL:
		return mysql.Open(cfg.MySQLDSN()), nil
	default:
		return nil, fmt.Errorf("지원하지 않는 데이터베이스 드라이버: %s", cfg.Driver)
	}
}

// NewDB 데이터베이스 연결 초기화
func NewDB(cfg *config.DatabaseConfig, logger *zap.Logger) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	gormCfg := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("데이터베이스 연결 실패: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sql.DB 획득 실패: %w", err)
	}

	// SQLite 는 단일 쓰기 연결만 안전하다
	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 25
	}
	maxIdle := cfg.MaxIdleConns
	if maxIdle <= 0 {
		maxIdle = 10
	}
	if cfg.Driver == DriverSQLite {
		maxOpen, maxIdle = 1, 1
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("데이터베이스 ping 실패: %w", err)
	}

	logger.Info("데이터베이스 연결 성공",
		zap.String("driver", cfg.Driver),
		zap.String("host", cfg.Host),
		zap.String("dbname", cfg.Name),
	)

	return db, nil
}

// Migrate 드라이버에 맞는 방식으로 스키마를 최신 상태로 맞춘다
// PostgreSQL 은 내장 SQL 마이그레이션, 그 외는 AutoMigrate.
func Migrate(db *gorm.DB, driver string, logger *zap.Logger) error {
	if driver == DriverPostgres {
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("sql.DB 획득 실패: %w", err)
		}
		return RunMigrations(sqlDB, logger)
	}

	if err := AutoMigrate(db); err != nil {
		return err
	}
	logger.Info("AutoMigrate 완료", zap.String("driver", driver))
	return nil
}

// AutoMigrate 모든 모델 테이블 생성/갱신
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(model.AllModels()...); err != nil {
		return fmt.Errorf("AutoMigrate 실패: %w", err)
	}
	return nil
}
