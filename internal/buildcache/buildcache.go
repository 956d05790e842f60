// Package buildcache implements the supplementary query index (SPEC_FULL.md
// §2.2, §4.H "post-success indexing", §6 "Query index", S7): a SQLite-backed
// read model of the most recently compiled signature and analytics per
// function, queryable without re-running the pipeline. It is never part of
// the hints/hashes/analytics persistence contract and is safe to delete.
package buildcache

import (
	"context"
	"database/sql"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/jinnzest/morphc/internal/aspects/complexity"
	"github.com/jinnzest/morphc/internal/aspects/sideeffect"
	"github.com/jinnzest/morphc/internal/model"
)

const schema = `CREATE TABLE IF NOT EXISTS functions (
	name TEXT PRIMARY KEY,
	signature TEXT NOT NULL,
	side_effect TEXT NOT NULL,
	complexity TEXT NOT NULL
)`

// Open opens (creating if absent) the index database at path and ensures its
// schema exists.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Upsert records fn's current signature and analytics. Either analytics
// value may be nil if its aspect is disabled.
func Upsert(ctx context.Context, db *sql.DB, sig model.Signature, se sideeffect.Set, cx complexity.Map) error {
	seText := "no side effects"
	if se != nil {
		seText = se.DisplayAnalytics()
	}
	_, err := db.ExecContext(ctx,
		`INSERT INTO functions(name, signature, side_effect, complexity) VALUES (?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET signature = excluded.signature, side_effect = excluded.side_effect, complexity = excluded.complexity`,
		string(sig.Name), sig.String(), seText, formatComplexity(cx))
	return err
}

// Entry is one indexed function's last-known state.
type Entry struct {
	Name       string
	Signature  string
	SideEffect string
	Complexity string
}

// Query looks up name, reporting ok=false if the index has no entry for it
// (SPEC_FULL.md §6: "or 'no index entry' if absent").
func Query(ctx context.Context, db *sql.DB, name string) (Entry, bool, error) {
	row := db.QueryRowContext(ctx,
		`SELECT name, signature, side_effect, complexity FROM functions WHERE name = ?`, name)
	var e Entry
	if err := row.Scan(&e.Name, &e.Signature, &e.SideEffect, &e.Complexity); err != nil {
		if err == sql.ErrNoRows {
			return Entry{}, false, nil
		}
		return Entry{}, false, err
	}
	return e, true, nil
}

func formatComplexity(m complexity.Map) string {
	if len(m) == 0 {
		return ""
	}
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sortStrings(names)
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = n + " is " + m[n].String()
	}
	return strings.Join(parts, ", ")
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
