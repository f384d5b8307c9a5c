package connector

import (
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// GetCockroachConnector открывает пул соединений с базой и проверяет его
func GetCockroachConnector(dsn string) (*sqlx.DB, error) {
	// cockroach говорит по протоколу postgres
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, err
	}
	// пулом управляет сама база
	db.SetMaxOpenConns(0)
	return db, nil
}
