package goosehelper

import (
	"database/sql"

	"github.com/labstack/gommon/log"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

// MigrateUp накатывает миграции из migrationsDir. Шлюз не работает
// на неактуальной схеме, поэтому любая ошибка миграции фатальна.
func MigrateUp(db *sql.DB, migrationsDir string) {
	if err := goose.Up(db, migrationsDir); err != nil {
		log.Fatalf("Ошибка при выполнении миграций: %v", err)
	}
	log.Infof("Миграции из %s применены", migrationsDir)
}
