// Package dbtest provisions throwaway PostgreSQL databases for tests.
//
// Tests using it are skipped unless LANDMARK_TEST_DSN names a server the
// test user may create databases on.
package dbtest

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
)

// EnvDSN names the server tests connect to.
const EnvDSN = "LANDMARK_TEST_DSN"

// Open creates a fresh database, applies every *.up.sql file in dir in name
// order, and drops the database when the test ends.
func Open(t testing.TB, dir string) *sql.DB {
	t.Helper()

	dsn := os.Getenv(EnvDSN)
	if dsn == "" {
		t.Skipf("%s not set", EnvDSN)
	}

	cfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		t.Fatalf("parse %s: %v", EnvDSN, err)
	}

	admin := stdlib.OpenDB(*cfg)
	t.Cleanup(func() { admin.Close() })

	ctx := context.Background()
	name := fmt.Sprintf("landmark_test_%d", time.Now().UnixNano())

	if _, err := admin.ExecContext(ctx, "CREATE DATABASE "+name); err != nil {
		t.Fatalf("create database: %v", err)
	}

	scoped := cfg.Copy()
	scoped.Database = name
	db := stdlib.OpenDB(*scoped)

	t.Cleanup(func() {
		db.Close()
		admin.ExecContext(context.Background(), "DROP DATABASE IF EXISTS "+name+" WITH (FORCE)")
	})

	files, err := filepath.Glob(filepath.Join(dir, "*.up.sql"))
	if err != nil || len(files) == 0 {
		t.Fatalf("no migrations in %s: %v", dir, err)
	}
	sort.Strings(files)

	for _, f := range files {
		ddl, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.ExecContext(ctx, string(ddl)); err != nil {
			t.Fatalf("apply %s: %v", filepath.Base(f), err)
		}
	}

	return db
}
