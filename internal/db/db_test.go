package db

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// newTestRepo runs the real migration DDL against an in-memory sqlite
// database. The repository's SQL is written with ? placeholders and
// rebound per driver, so the same queries run on both engines.
func newTestRepo(t *testing.T) *Repository {
	t.Helper()

	conn, err := sqlx.Connect("sqlite3", "file::memory:?_fk=1")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// A single connection keeps every query on the same in-memory DB.
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { conn.Close() })

	schema, err := os.ReadFile(filepath.Join("..", "..", "migrations", "000001_init_schema.up.sql"))
	if err != nil {
		t.Fatalf("read schema: %v", err)
	}
	// go-sqlite3 only parses time.Time out of columns declared
	// timestamp/datetime/date, so the Postgres type needs translating.
	ddl := strings.ReplaceAll(string(schema), "TIMESTAMPTZ", "TIMESTAMP")
	if _, err := conn.Exec(ddl); err != nil {
		t.Fatalf("apply schema: %v", err)
	}

	return NewRepository(conn)
}

func seedPlatform(t *testing.T, repo *Repository, code string) *Platform {
	t.Helper()
	p := &Platform{Code: code, Name: "Platform " + code}
	if err := repo.CreatePlatform(p); err != nil {
		t.Fatalf("seed platform %s: %v", code, err)
	}
	return p
}

func seedService(t *testing.T, repo *Repository, platformID, slug string) *Service {
	t.Helper()
	s := &Service{PlatformID: platformID, Name: "Service " + slug, Slug: slug}
	if err := repo.CreateService(s); err != nil {
		t.Fatalf("seed service %s: %v", slug, err)
	}
	return s
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func timePtr(t time.Time) *time.Time { return &t }
