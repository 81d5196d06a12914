package infra

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Migration is one numbered schema change, e.g. "001_integration_tokens.sql".
type Migration struct {
	Number int
	Name   string
	SQL    string
}

// Migrations returns the embedded migrations in order.
func Migrations() ([]Migration, error) {
	return readMigrations(migrationFS, "migrations")
}

func readMigrations(fsys fs.FS, dir string) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}
	var out []Migration
	seen := map[int]string{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		number, name, ok := strings.Cut(strings.TrimSuffix(e.Name(), ".sql"), "_")
		if !ok {
			return nil, fmt.Errorf("migration %q: expected NNN_name.sql", e.Name())
		}
		n, err := strconv.Atoi(number)
		if err != nil {
			return nil, fmt.Errorf("migration %q: bad number: %w", e.Name(), err)
		}
		if prev, dup := seen[n]; dup {
			return nil, fmt.Errorf("migration %d defined twice (%s, %s)", n, prev, e.Name())
		}
		seen[n] = e.Name()
		b, err := fs.ReadFile(fsys, dir+"/"+e.Name())
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", e.Name(), err)
		}
		out = append(out, Migration{Number: n, Name: name, SQL: string(b)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

// RunMigrations applies every embedded migration that is not yet recorded in
// schema_migrations, each in its own transaction. It returns the applied ones.
func RunMigrations(ctx context.Context, databaseURL string, logger Logger) ([]Migration, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, ErrNoDatabase
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	migrations, err := Migrations()
	if err != nil {
		return nil, err
	}
	return applyMigrations(ctx, db, migrations, logger)
}

func applyMigrations(ctx context.Context, db *sql.DB, migrations []Migration, logger Logger) ([]Migration, error) {
	if _, err := db.ExecContext(ctx, `create table if not exists schema_migrations (
		version integer primary key,
		name text not null,
		applied_at timestamptz not null default now()
	)`); err != nil {
		return nil, fmt.Errorf("create schema_migrations: %w", err)
	}

	var applied []Migration
	for _, m := range migrations {
		var count int
		if err := db.QueryRowContext(ctx, `select count(*) from schema_migrations where version = $1`, m.Number).Scan(&count); err != nil {
			return applied, fmt.Errorf("check migration %d: %w", m.Number, err)
		}
		if count > 0 {
			logger.Debug().Int("version", m.Number).Msg("migration already applied")
			continue
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return applied, fmt.Errorf("begin migration %d: %w", m.Number, err)
		}
		if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
			_ = tx.Rollback()
			return applied, fmt.Errorf("apply migration %d (%s): %w", m.Number, m.Name, err)
		}
		if _, err := tx.ExecContext(ctx, `insert into schema_migrations (version, name) values ($1, $2)`, m.Number, m.Name); err != nil {
			_ = tx.Rollback()
			return applied, fmt.Errorf("record migration %d: %w", m.Number, err)
		}
		if err := tx.Commit(); err != nil {
			return applied, fmt.Errorf("commit migration %d: %w", m.Number, err)
		}
		logger.Info().Int("version", m.Number).Str("name", m.Name).Msg("migration applied")
		applied = append(applied, m)
	}
	return applied, nil
}
