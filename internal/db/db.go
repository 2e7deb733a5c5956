package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// openDB opens a database connection without pinging.
func openDB(dsn string) (*sql.DB, error) {
	return sql.Open("postgres", dsn)
}

// MustOpen returns an open and verified database connection.
func MustOpen(dsn string) *sql.DB {
	if dsn == "" {
		panic("STOREFRONT_DB_DSN not set")
	}

	db, err := openDB(dsn)
	if err != nil {
		panic(fmt.Sprintf("open db: %v", err))
	}

	if err := db.Ping(); err != nil {
		panic(fmt.Sprintf("ping db: %v", err))
	}

	return db
}
