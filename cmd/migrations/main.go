package main

import (
	"database/sql"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"

	"fanstock/internal/config"
)

// Applies every .sql file under internal/repository/postgres/migrations in
// lexical order. Files are idempotent (IF NOT EXISTS), so re-running is safe.
func main() {
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.DB_DSN)
	if err != nil {
		log.Fatalf("db open error: %v", err)
	}
	defer db.Close()

	basePath := filepath.Join(".", "internal", "repository", "postgres", "migrations")
	entries, err := os.ReadDir(basePath)
	if err != nil {
		log.Fatalf("read migrations dir: %v", err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	for _, name := range files {
		content, err := os.ReadFile(filepath.Join(basePath, name))
		if err != nil {
			log.Fatalf("read migration %s: %v", name, err)
		}
		if _, err := db.Exec(string(content)); err != nil {
			log.Fatalf("apply migration %s: %v", name, err)
		}
		log.Printf("applied %s", name)
	}
}
