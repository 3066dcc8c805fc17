package database

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/tracelog"

	"github.com/ghuser/itemsvc/pkg/logger"
)

func nopLogger() logger.Logger {
	return logger.NewWithWriter(io.Discard, "error")
}

func TestParseURL(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		wantDriver Driver
		wantDSN    string
		wantErr    error
	}{
		{"postgres", "postgres://u:p@localhost/items", DriverPostgres, "postgres://u:p@localhost/items", nil},
		{"postgresql", "postgresql://u:p@db:5432/items?sslmode=require", DriverPostgres, "postgresql://u:p@db:5432/items?sslmode=require", nil},
		{"sqlite absolute", "sqlite:///var/lib/items.db", DriverSQLite, "/var/lib/items.db", nil},
		{"sqlite relative", "sqlite://items.db", DriverSQLite, "items.db", nil},
		{"sqlite memory", "sqlite://:memory:", DriverSQLite, ":memory:", nil},
		{"mysql", "mysql://u:p@localhost/items", "", "", ErrUnsupportedScheme},
		{"no scheme", "localhost/items", "", "", ErrUnsupportedScheme},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			driver, dsn, err := ParseURL(tt.url)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if driver != tt.wantDriver || dsn != tt.wantDSN {
				t.Fatalf("got (%q, %q), want (%q, %q)", driver, dsn, tt.wantDriver, tt.wantDSN)
			}
		})
	}

	if _, _, err := ParseURL("sqlite://"); err == nil {
		t.Fatal("expected error for sqlite url without path")
	}
}

func newSQLite(t *testing.T) *Database {
	t.Helper()
	url := "sqlite://" + filepath.Join(t.TempDir(), "items.db")
	d, err := NewPool(context.Background(), url, 50, nopLogger())
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}
	t.Cleanup(d.Close)
	return d
}

func TestNewPool_SQLite(t *testing.T) {
	d := newSQLite(t)

	if d.Driver() != DriverSQLite {
		t.Fatalf("driver: got %q", d.Driver())
	}
	if d.Pool() != nil {
		t.Fatal("sqlite database must not expose a pgx pool")
	}
	if err := d.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}

func TestWithTx(t *testing.T) {
	d := newSQLite(t)
	ctx := context.Background()

	if _, err := d.DB().ExecContext(ctx, `CREATE TABLE t (v INTEGER NOT NULL)`); err != nil {
		t.Fatalf("create table: %v", err)
	}

	count := func() int {
		var n int
		if err := d.DB().QueryRowContext(ctx, `SELECT COUNT(*) FROM t`).Scan(&n); err != nil {
			t.Fatalf("count: %v", err)
		}
		return n
	}

	t.Run("commit on nil", func(t *testing.T) {
		err := d.WithTx(ctx, func(tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx, `INSERT INTO t (v) VALUES (1)`)
			return err
		})
		if err != nil {
			t.Fatalf("WithTx: %v", err)
		}
		if n := count(); n != 1 {
			t.Fatalf("expected 1 row, got %d", n)
		}
	})

	t.Run("rollback on error", func(t *testing.T) {
		boom := errors.New("boom")
		err := d.WithTx(ctx, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, `INSERT INTO t (v) VALUES (2)`); err != nil {
				return err
			}
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("expected boom, got %v", err)
		}
		if n := count(); n != 1 {
			t.Fatalf("rollback failed: expected 1 row, got %d", n)
		}
	})
}

func TestClose_Idempotent(t *testing.T) {
	d := newSQLite(t)
	d.Close()
	d.Close()
	if err := d.Ping(context.Background()); err == nil {
		t.Fatal("expected ping to fail after Close")
	}
}

func TestNewPool_UnsupportedScheme(t *testing.T) {
	_, err := NewPool(context.Background(), "mysql://localhost/items", 50, nopLogger())
	if !errors.Is(err, ErrUnsupportedScheme) {
		t.Fatalf("expected ErrUnsupportedScheme, got %v", err)
	}
}

func TestSlogLevel(t *testing.T) {
	if got := slogLevel(tracelog.LogLevelError); got.String() != "ERROR" {
		t.Errorf("error level: got %v", got)
	}
	if got := slogLevel(tracelog.LogLevelInfo); got.String() != "DEBUG" {
		t.Errorf("info level should be demoted to debug, got %v", got)
	}
}

// Integration test, skipped unless TEST_DATABASE_URL points at PostgreSQL.
func TestPostgresIntegration(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping integration tests")
	}

	d, err := NewPool(context.Background(), url, 5, nopLogger())
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}
	defer d.Close()

	if d.Driver() != DriverPostgres {
		t.Fatalf("driver: got %q", d.Driver())
	}
	if got := d.Pool().Config().MaxConns; got != 5 {
		t.Errorf("MaxConns: got %d, want 5", got)
	}
	if err := d.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}
