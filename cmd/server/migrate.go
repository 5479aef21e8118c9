package main

import (
	"errors"

	"github.com/spf13/cobra"

	"teamhub/backend/pkg/database"
)

var rollback bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "데이터베이스 스키마 마이그레이션",
	RunE:  runMigrate,
}

func init() {
	migrateCmd.Flags().BoolVar(&rollback, "rollback", false, "마지막 마이그레이션 한 단계를 되돌린다 (PostgreSQL 전용)")
}

func runMigrate(_ *cobra.Command, _ []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	if !rollback {
		return database.Migrate(a.db, a.cfg.Database.Driver, a.logger)
	}

	if a.cfg.Database.Driver != database.DriverPostgres {
		return errors.New("롤백은 PostgreSQL 에서만 지원합니다")
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return database.RollbackMigration(sqlDB, a.logger)
}
