// Package library serves the resource catalog from an in-memory SQLite
// database seeded from the snapshot.
package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/verte-zerg/calma/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// AllCategories is the category id that disables category filtering.
const AllCategories = "all"

// ErrNotFound reports a missing resource.
var ErrNotFound = errors.New("resource not found")

// Filter narrows a listing. Zero values match everything.
type Filter struct {
	Category string
	Featured bool
	Query    string
}

// Catalog wraps SQLite access for resources.
type Catalog struct {
	db *sql.DB
}

// Open creates the in-memory catalog and applies migrations.
func Open(ctx context.Context) (*Catalog, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, err
	}
	// Every pooled connection would get its own empty in-memory database.
	db.SetMaxOpenConns(1)
	c := &Catalog{db: db}
	if err := c.migrate(ctx); err != nil {
		if cerr := db.Close(); cerr != nil {
			_ = cerr
		}
		return nil, err
	}
	return c, nil
}

// Load opens a catalog and seeds it from the snapshot.
func Load(ctx context.Context, snap model.Snapshot) (*Catalog, error) {
	c, err := Open(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.Seed(ctx, snap.Categories, snap.Resources); err != nil {
		if cerr := c.Close(); cerr != nil {
			_ = cerr
		}
		return nil, err
	}
	return c, nil
}

// Close closes the underlying database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

func (c *Catalog) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS categories (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			position INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS resources (
			id INTEGER PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			category TEXT NOT NULL,
			kind TEXT NOT NULL,
			read_minutes INTEGER NOT NULL,
			author TEXT NOT NULL,
			url TEXT NOT NULL,
			featured INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_resources_category ON resources(category);`,
	}
	for _, stmt := range stmts {
		if _, err := c.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Seed inserts categories and resources in one transaction.
func (c *Catalog) Seed(ctx context.Context, categories []model.Category, resources []model.Resource) (err error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				_ = rerr
			}
		}
	}()

	for i, cat := range categories {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO categories (id, name, position) VALUES (?, ?, ?)`,
			cat.ID, cat.Name, i); err != nil {
			return fmt.Errorf("insert category %q: %w", cat.ID, err)
		}
	}
	for _, r := range resources {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO resources (id, title, description, category, kind, read_minutes, author, url, featured)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID, r.Title, r.Description, r.Category, r.Kind, r.ReadMinutes, r.Author, r.URL, boolToInt(r.Featured)); err != nil {
			return fmt.Errorf("insert resource %d: %w", r.ID, err)
		}
	}
	return tx.Commit()
}

// Categories returns categories in snapshot order.
func (c *Catalog) Categories(ctx context.Context) ([]model.Category, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT id, name FROM categories ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			_ = cerr
		}
	}()
	var out []model.Category
	for rows.Next() {
		var cat model.Category
		if err := rows.Scan(&cat.ID, &cat.Name); err != nil {
			return nil, err
		}
		out = append(out, cat)
	}
	return out, rows.Err()
}

// List returns resources matching f, featured first and then by id.
func (c *Catalog) List(ctx context.Context, f Filter) ([]model.Resource, error) {
	var (
		where []string
		args  []any
	)
	if cat := strings.TrimSpace(f.Category); cat != "" && cat != AllCategories {
		where = append(where, "category = ?")
		args = append(args, cat)
	}
	if f.Featured {
		where = append(where, "featured = 1")
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		pattern := "%" + escapeLike(q) + "%"
		where = append(where, `(title LIKE ? ESCAPE '\' OR description LIKE ? ESCAPE '\' OR author LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern, pattern)
	}
	query := `SELECT id, title, description, category, kind, read_minutes, author, url, featured FROM resources`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY featured DESC, id"

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			_ = cerr
		}
	}()
	var out []model.Resource
	for rows.Next() {
		r, err := scanResource(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Get returns one resource by id.
func (c *Catalog) Get(ctx context.Context, id int64) (model.Resource, error) {
	row := c.db.QueryRowContext(ctx,
		`SELECT id, title, description, category, kind, read_minutes, author, url, featured FROM resources WHERE id = ?`, id)
	r, err := scanResource(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Resource{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return r, err
}

// Count returns the number of resources per category id.
func (c *Catalog) Count(ctx context.Context) (map[string]int, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT category, COUNT(*) FROM resources GROUP BY category`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			_ = cerr
		}
	}()
	out := map[string]int{}
	total := 0
	for rows.Next() {
		var (
			cat string
			n   int
		)
		if err := rows.Scan(&cat, &n); err != nil {
			return nil, err
		}
		out[cat] = n
		total += n
	}
	out[AllCategories] = total
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanResource(s scanner) (model.Resource, error) {
	var (
		r        model.Resource
		featured int
	)
	if err := s.Scan(&r.ID, &r.Title, &r.Description, &r.Category, &r.Kind, &r.ReadMinutes, &r.Author, &r.URL, &featured); err != nil {
		return model.Resource{}, err
	}
	r.Featured = featured != 0
	return r, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
