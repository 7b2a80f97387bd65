package db

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var Schema string

type Config struct {
	File string `json:"file" yaml:"file"`
	// Url points at a remote libsql server, when set File is ignored.
	Url       string `json:"url" yaml:"url"`
	AuthToken string `json:"auth_token" yaml:"auth_token"`
	// KeepRuns is the number of scrape runs kept by Prune, 0 keeps all of them.
	KeepRuns int `json:"keep_runs" yaml:"keep_runs"`
}

func wrapOpenDB(err error) error {
	return fmt.Errorf("open db: %w", err)
}

// OpenDB opens the database described by config and applies the schema.
func OpenDB(config Config) (*sql.DB, error) {
	db, err := open(config)
	if err != nil {
		return nil, wrapOpenDB(err)
	}
	for _, stmt := range strings.Split(Schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		_, err = db.Exec(stmt)
		if err != nil {
			db.Close()
			return nil, wrapOpenDB(err)
		}
	}
	return db, nil
}

func open(config Config) (*sql.DB, error) {
	if config.Url != "" {
		dsn := config.Url
		if config.AuthToken != "" {
			dsn = fmt.Sprintf("%s?authToken=%s", config.Url, config.AuthToken)
		}
		return sql.Open("libsql", dsn)
	}

	path := config.File
	if path != ":memory:" {
		os.MkdirAll(filepath.Dir(path), 0777)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// sqlite only allows a single writer, this also keeps an in-memory
	// database on one connection.
	db.SetMaxOpenConns(1)
	_, err = db.Exec("PRAGMA journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	_, err = db.Exec("PRAGMA foreign_keys=ON")
	if err != nil {
		return nil, err
	}
	return db, nil
}
